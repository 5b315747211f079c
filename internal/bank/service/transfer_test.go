package service

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestTransferMovesMoney(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTransferService(st)

	seedAccount(t, st, "staff", "staff-password-1", "0000001337", "4321", "1000000000.00", true)
	seedAccount(t, st, "team1", "team1-password-1", "5550000001", "1234", "85000.00", false)

	token, err := svc.Sessions.Login(ctx, "staff", "staff-password-1")
	require.NoError(t, err)

	receipt, err := svc.Transfer(ctx, token, "0000001337", "5550000001", decimal.RequireFromString("100.00"), "4321")
	require.NoError(t, err)

	require.Equal(t, "0000001337", receipt.FromAccount)
	require.Equal(t, "5550000001", receipt.ToAccount)
	require.Equal(t, "100.00", receipt.Amount.StringFixed(2))
	require.Equal(t, "999999900.00", receipt.FromBalance.StringFixed(2))
	require.Equal(t, "85100.00", receipt.ToBalance.StringFixed(2))
	require.False(t, receipt.Timestamp.IsZero())

	// Totals are conserved.
	from, err := st.Accounts().GetAccountByID(ctx, "0000001337")
	require.NoError(t, err)
	to, err := st.Accounts().GetAccountByID(ctx, "5550000001")
	require.NoError(t, err)
	total := from.Balance.Add(to.Balance)
	require.Equal(t, "1000085000.00", total.StringFixed(2))
}

func TestTransferExactBalanceSucceeds(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTransferService(st)

	seedAccount(t, st, "alice", "alice-password-1", "0000000001", "1111", "50.00", false)
	seedAccount(t, st, "bob", "bob-password-111", "0000000002", "2222", "0.00", false)

	token, err := svc.Sessions.Login(ctx, "alice", "alice-password-1")
	require.NoError(t, err)

	receipt, err := svc.Transfer(ctx, token, "0000000001", "0000000002", decimal.RequireFromString("50.00"), "1111")
	require.NoError(t, err)
	require.Equal(t, "0.00", receipt.FromBalance.StringFixed(2))
	require.Equal(t, "50.00", receipt.ToBalance.StringFixed(2))
}

func TestTransferInsufficientFundsLeavesBalancesUntouched(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTransferService(st)

	seedAccount(t, st, "alice", "alice-password-1", "0000000001", "1111", "50.00", false)
	seedAccount(t, st, "bob", "bob-password-111", "0000000002", "2222", "10.00", false)

	token, err := svc.Sessions.Login(ctx, "alice", "alice-password-1")
	require.NoError(t, err)

	_, err = svc.Transfer(ctx, token, "0000000001", "0000000002", decimal.RequireFromString("50.01"), "1111")
	require.ErrorIs(t, err, ErrInsufficientFunds)

	from, err := st.Accounts().GetAccountByID(ctx, "0000000001")
	require.NoError(t, err)
	require.Equal(t, "50.00", from.Balance.StringFixed(2))

	to, err := st.Accounts().GetAccountByID(ctx, "0000000002")
	require.NoError(t, err)
	require.Equal(t, "10.00", to.Balance.StringFixed(2))
}

func TestTransferAuthorization(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTransferService(st)

	seedAccount(t, st, "staff", "staff-password-1", "0000001337", "4321", "1000000000.00", true)
	seedAccount(t, st, "alice", "alice-password-1", "0000000001", "1111", "100.00", false)
	seedAccount(t, st, "bob", "bob-password-111", "0000000002", "2222", "100.00", false)

	aliceToken, err := svc.Sessions.Login(ctx, "alice", "alice-password-1")
	require.NoError(t, err)
	staffToken, err := svc.Sessions.Login(ctx, "staff", "staff-password-1")
	require.NoError(t, err)

	amount := decimal.RequireFromString("10.00")

	t.Run("owner with correct PIN succeeds", func(t *testing.T) {
		_, err := svc.Transfer(ctx, aliceToken, "0000000001", "0000000002", amount, "1111")
		require.NoError(t, err)
	})

	t.Run("owner with wrong PIN is refused", func(t *testing.T) {
		_, err := svc.Transfer(ctx, aliceToken, "0000000001", "0000000002", amount, "9999")
		require.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("non-owner is refused even with correct PIN", func(t *testing.T) {
		_, err := svc.Transfer(ctx, aliceToken, "0000000002", "0000000001", amount, "2222")
		require.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("staff may draw on any account with its PIN", func(t *testing.T) {
		_, err := svc.Transfer(ctx, staffToken, "0000000002", "0000000001", amount, "2222")
		require.NoError(t, err)
	})

	t.Run("staff still needs the right PIN", func(t *testing.T) {
		_, err := svc.Transfer(ctx, staffToken, "0000000002", "0000000001", amount, "0000")
		require.ErrorIs(t, err, ErrNotAuthorized)
	})
}

func TestTransferValidation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTransferService(st)

	seedAccount(t, st, "alice", "alice-password-1", "0000000001", "1111", "100.00", false)
	seedAccount(t, st, "bob", "bob-password-111", "0000000002", "2222", "100.00", false)

	token, err := svc.Sessions.Login(ctx, "alice", "alice-password-1")
	require.NoError(t, err)

	t.Run("invalid session", func(t *testing.T) {
		_, err := svc.Transfer(ctx, "bogus", "0000000001", "0000000002", decimal.RequireFromString("1.00"), "1111")
		require.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("unknown source account", func(t *testing.T) {
		_, err := svc.Transfer(ctx, token, "9999999999", "0000000002", decimal.RequireFromString("1.00"), "1111")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown destination account", func(t *testing.T) {
		_, err := svc.Transfer(ctx, token, "0000000001", "9999999999", decimal.RequireFromString("1.00"), "1111")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("zero amount", func(t *testing.T) {
		_, err := svc.Transfer(ctx, token, "0000000001", "0000000002", decimal.Zero, "1111")
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("negative amount", func(t *testing.T) {
		_, err := svc.Transfer(ctx, token, "0000000001", "0000000002", decimal.RequireFromString("-5.00"), "1111")
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("sub-cent amount", func(t *testing.T) {
		_, err := svc.Transfer(ctx, token, "0000000001", "0000000002", decimal.RequireFromString("0.001"), "1111")
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("same account", func(t *testing.T) {
		_, err := svc.Transfer(ctx, token, "0000000001", "0000000001", decimal.RequireFromString("1.00"), "1111")
		require.ErrorIs(t, err, ErrValidation)
	})

	// None of the rejected transfers may have moved money.
	from, err := st.Accounts().GetAccountByID(ctx, "0000000001")
	require.NoError(t, err)
	require.Equal(t, "100.00", from.Balance.StringFixed(2))
}

func TestConcurrentTransfersNeverOverdraw(t *testing.T) {
	ctx := context.Background()
	st := newFileTestStore(t)
	svc := newTransferService(st)

	seedAccount(t, st, "alice", "alice-password-1", "0000000001", "1111", "100.00", false)
	seedAccount(t, st, "bob", "bob-password-111", "0000000002", "2222", "0.00", false)

	token, err := svc.Sessions.Login(ctx, "alice", "alice-password-1")
	require.NoError(t, err)

	// Two transfers of 60.00 from a balance of 100.00: exactly one can win.
	amount := decimal.RequireFromString("60.00")
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Transfer(ctx, token, "0000000001", "0000000002", amount, "1111")
		}(i)
	}
	wg.Wait()

	// The loser either lost the balance race (insufficient funds) or lost
	// the write lock and rolled back. Either way money moved exactly once.
	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	require.Equal(t, 1, succeeded)

	from, err := st.Accounts().GetAccountByID(ctx, "0000000001")
	require.NoError(t, err)
	require.Equal(t, "40.00", from.Balance.StringFixed(2))

	to, err := st.Accounts().GetAccountByID(ctx, "0000000002")
	require.NoError(t, err)
	require.Equal(t, "60.00", to.Balance.StringFixed(2))
}
