package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/lockdownctf/bankapi/internal/bank/domain"
	"github.com/lockdownctf/bankapi/internal/bank/store"
	"github.com/lockdownctf/bankapi/pkg/idx"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedAccountRow(t *testing.T, st *Store, accountID, balance string) {
	t.Helper()
	ctx := context.Background()

	user := domain.User{
		ID:           idx.New().String(),
		Username:     "user-" + accountID,
		PasswordHash: "argon2-hash",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, st.Users().CreateUser(ctx, user))

	require.NoError(t, st.Accounts().CreateAccount(ctx, domain.Account{
		ID:      accountID,
		UserID:  user.ID,
		Balance: decimal.RequireFromString(balance),
		PIN:     "1234",
	}))
}

func TestToCents(t *testing.T) {
	t.Run("whole cents convert exactly", func(t *testing.T) {
		for in, want := range map[string]int64{
			"0":             0,
			"0.01":          1,
			"100.00":        10000,
			"1000000000.00": 100000000000,
			"85000":         8500000,
		} {
			cents, err := toCents(decimal.RequireFromString(in))
			require.NoError(t, err, in)
			require.Equal(t, want, cents, in)
		}
	})

	t.Run("fractional cents are rejected", func(t *testing.T) {
		for _, in := range []string{"0.001", "1.005", "0.0000001"} {
			_, err := toCents(decimal.RequireFromString(in))
			require.Error(t, err, in)
		}
	})

	t.Run("round trips through storage", func(t *testing.T) {
		d := decimal.RequireFromString("1234.56")
		cents, err := toCents(d)
		require.NoError(t, err)
		require.True(t, fromCents(cents).Equal(d))
	})
}

func TestDebitGuardsBalance(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	seedAccountRow(t, st, "0000000001", "50.00")

	t.Run("covered debit succeeds", func(t *testing.T) {
		require.NoError(t, st.Accounts().Debit(ctx, "0000000001", decimal.RequireFromString("20.00")))

		a, err := st.Accounts().GetAccountByID(ctx, "0000000001")
		require.NoError(t, err)
		require.Equal(t, "30.00", a.Balance.StringFixed(2))
	})

	t.Run("uncovered debit changes nothing", func(t *testing.T) {
		err := st.Accounts().Debit(ctx, "0000000001", decimal.RequireFromString("30.01"))
		require.ErrorIs(t, err, store.ErrInsufficientBalance)

		a, err := st.Accounts().GetAccountByID(ctx, "0000000001")
		require.NoError(t, err)
		require.Equal(t, "30.00", a.Balance.StringFixed(2))
	})

	t.Run("debit to exactly zero succeeds", func(t *testing.T) {
		require.NoError(t, st.Accounts().Debit(ctx, "0000000001", decimal.RequireFromString("30.00")))

		a, err := st.Accounts().GetAccountByID(ctx, "0000000001")
		require.NoError(t, err)
		require.Equal(t, "0.00", a.Balance.StringFixed(2))
	})

	t.Run("unknown account is not found", func(t *testing.T) {
		err := st.Accounts().Debit(ctx, "9999999999", decimal.RequireFromString("1.00"))
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestCreditUnknownAccount(t *testing.T) {
	st := newTestStore(t)

	err := st.Accounts().Credit(context.Background(), "9999999999", decimal.RequireFromString("1.00"))
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestTxRollbackLeavesBalances(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	seedAccountRow(t, st, "0000000001", "100.00")
	seedAccountRow(t, st, "0000000002", "0.00")

	boom := errors.New("abort")
	err := st.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().Debit(ctx, "0000000001", decimal.RequireFromString("40.00")); err != nil {
			return err
		}
		if err := tx.Accounts().Credit(ctx, "0000000002", decimal.RequireFromString("40.00")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	a, err := st.Accounts().GetAccountByID(ctx, "0000000001")
	require.NoError(t, err)
	require.Equal(t, "100.00", a.Balance.StringFixed(2))

	b, err := st.Accounts().GetAccountByID(ctx, "0000000002")
	require.NoError(t, err)
	require.Equal(t, "0.00", b.Balance.StringFixed(2))
}
