package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lockdownctf/bankapi/internal/bank/domain"
	"github.com/lockdownctf/bankapi/pkg/cryptox"
	"github.com/lockdownctf/bankapi/pkg/idx"
)

func TestRunOnceDeletesOnlyExpiredSessions(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	user := seedAccount(t, st, "alice", "hunter2hunter2", "0000000001", "1234", "100.00", false)

	mkSession := func(age time.Duration) {
		t.Helper()
		tok, err := cryptox.GenerateToken(cryptox.TokenSize256)
		require.NoError(t, err)
		require.NoError(t, st.Sessions().CreateSession(ctx, domain.Session{
			ID:        idx.New().String(),
			TokenHash: cryptox.FingerprintToken(tok),
			UserID:    user.ID,
			CreatedAt: time.Now().Add(-age),
		}))
	}

	mkSession(20 * time.Minute) // expired
	mkSession(16 * time.Minute) // expired
	mkSession(14 * time.Minute) // still inside the TTL
	mkSession(0)                // fresh

	svc := NewCleanupService(st, discardLogger(), time.Minute, DefaultSessionTTL)

	deleted, err := svc.RunOnce(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, deleted)

	count, err := st.Sessions().CountSessions(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)
}

func TestRunOnceIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	user := seedAccount(t, st, "alice", "hunter2hunter2", "0000000001", "1234", "100.00", false)

	tok, err := cryptox.GenerateToken(cryptox.TokenSize256)
	require.NoError(t, err)
	require.NoError(t, st.Sessions().CreateSession(ctx, domain.Session{
		ID:        idx.New().String(),
		TokenHash: cryptox.FingerprintToken(tok),
		UserID:    user.ID,
		CreatedAt: time.Now().Add(-time.Hour),
	}))

	svc := NewCleanupService(st, discardLogger(), time.Minute, DefaultSessionTTL)

	deleted, err := svc.RunOnce(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, deleted)

	deleted, err = svc.RunOnce(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 0, deleted)
}

func TestRunOnceOnEmptyStore(t *testing.T) {
	st := newTestStore(t)
	svc := NewCleanupService(st, discardLogger(), time.Minute, DefaultSessionTTL)

	deleted, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 0, deleted)
}

func TestCleanupServiceStartStop(t *testing.T) {
	st := newTestStore(t)
	svc := NewCleanupService(st, discardLogger(), time.Minute, DefaultSessionTTL)

	svc.Start()

	done := make(chan struct{})
	go func() {
		svc.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("cleanup service did not stop in time")
	}
}
