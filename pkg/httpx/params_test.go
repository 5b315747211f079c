package httpx_test

import (
	"net/url"
	"testing"

	"github.com/lockdownctf/bankapi/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestCheckParams(t *testing.T) {
	t.Run("all present", func(t *testing.T) {
		form := url.Values{}
		form.Set("username", "staff")
		form.Set("password", " secret ")

		check := httpx.CheckParams(form, "username", "password")
		require.True(t, check.OK())
		require.Empty(t, check.Missing)
		require.Equal(t, "staff", check.Get("username"))
		require.Equal(t, "secret", check.Get("password"), "values are trimmed")
	})

	t.Run("reports every missing field in order", func(t *testing.T) {
		form := url.Values{}
		form.Set("to_account", "3141592653")

		check := httpx.CheckParams(form, "from_account", "to_account", "amount", "pin")
		require.False(t, check.OK())
		require.Equal(t, []string{"from_account", "amount", "pin"}, check.Missing)
		require.Equal(t,
			"You are missing the following parameters: from_account, amount, pin",
			check.MissingMessage())
	})

	t.Run("blank values count as missing", func(t *testing.T) {
		form := url.Values{}
		form.Set("username", "   ")

		check := httpx.CheckParams(form, "username")
		require.False(t, check.OK())
	})
}
