package idx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	a := New()
	b := New()

	require.False(t, a.IsZero())
	require.False(t, b.IsZero())
	require.NotEqual(t, a, b)

	// Monotonic source means same-millisecond IDs still sort.
	require.Less(t, a.String(), b.String())
}

func TestNewAt(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	id := NewAt(at)

	require.False(t, id.IsZero())
	require.Equal(t, at.UnixMilli(), id.Time().UnixMilli())
}

func TestParse(t *testing.T) {
	id := New()

	parsed, err := Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)

	_, err = Parse("")
	require.ErrorIs(t, err, ErrInvalid)

	_, err = Parse("not-a-ulid")
	require.ErrorIs(t, err, ErrInvalid)
}

func TestMustParse_Panics(t *testing.T) {
	require.Panics(t, func() {
		MustParse("!!!")
	})
}
