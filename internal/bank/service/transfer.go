package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lockdownctf/bankapi/internal/bank/domain"
	"github.com/lockdownctf/bankapi/internal/bank/store"
	"github.com/lockdownctf/bankapi/pkg/slogx"
	"github.com/shopspring/decimal"
)

// TransferService moves money between accounts. The debit/credit pair runs in
// a single store transaction; a failure anywhere rolls both back, so a debit
// without the matching credit is never observable.
type TransferService struct {
	Store    store.Store
	Sessions *SessionService
	Timeout  time.Duration
}

// Transfer validates the session, authorization and amount, then atomically
// debits from and credits to. Returns a receipt with both new balances.
func (s *TransferService) Transfer(
	ctx context.Context,
	token, fromID, toID string,
	amount decimal.Decimal,
	pin string,
) (domain.Receipt, error) {
	l := slogx.FromContext(ctx)

	// 1. The session must be live.
	user, err := s.Sessions.Validate(ctx, token)
	if err != nil {
		return domain.Receipt{}, err
	}

	opCtx, cancel := storeCtx(ctx, s.Timeout)
	defer cancel()

	var receipt domain.Receipt

	err = s.Store.WithTx(opCtx, func(tx store.Tx) error {
		// 2. Resolve the source account and check the caller may draw on it.
		from, err := tx.Accounts().GetAccountByID(opCtx, fromID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("account %s: %w", fromID, ErrNotFound)
			}
			return err
		}

		if from.UserID != user.ID && !user.Staff {
			l.Info("transfer refused: account ownership",
				slog.String("user_id", user.ID),
				slog.String("from_account", fromID),
			)
			return ErrNotAuthorized
		}
		if subtle.ConstantTimeCompare([]byte(from.PIN), []byte(pin)) != 1 {
			l.Info("transfer refused: PIN mismatch",
				slog.String("from_account", fromID),
			)
			return ErrNotAuthorized
		}

		// 3. Resolve the destination account.
		to, err := tx.Accounts().GetAccountByID(opCtx, toID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("account %s: %w", toID, ErrNotFound)
			}
			return err
		}

		// 4. The amount must be positive, exact to the cent, and not a
		//    self-transfer.
		if err := validateAmount(amount); err != nil {
			return err
		}
		if from.ID == to.ID {
			return fmt.Errorf("%w: cannot transfer to the same account", ErrValidation)
		}

		// 5. The balance must cover the amount.
		if from.Balance.LessThan(amount) {
			return ErrInsufficientFunds
		}

		// 6. Apply both sides. Debit is guarded in SQL, so a concurrent
		//    transfer that drained the account between read and write
		//    surfaces here instead of producing a negative balance.
		if err := tx.Accounts().Debit(opCtx, from.ID, amount); err != nil {
			if errors.Is(err, store.ErrInsufficientBalance) {
				return ErrInsufficientFunds
			}
			return err
		}
		if err := tx.Accounts().Credit(opCtx, to.ID, amount); err != nil {
			return err
		}

		// 7. Read back the committed balances for the receipt.
		from, err = tx.Accounts().GetAccountByID(opCtx, from.ID)
		if err != nil {
			return err
		}
		to, err = tx.Accounts().GetAccountByID(opCtx, to.ID)
		if err != nil {
			return err
		}

		receipt = domain.Receipt{
			FromAccount: from.ID,
			ToAccount:   to.ID,
			Amount:      amount,
			FromBalance: from.Balance,
			ToBalance:   to.Balance,
			Timestamp:   time.Now().UTC(),
		}
		return nil
	})
	if err != nil {
		return domain.Receipt{}, mapStoreErr(err)
	}

	l.Info("transfer committed",
		slog.String("from_account", receipt.FromAccount),
		slog.String("to_account", receipt.ToAccount),
		slog.String("amount", amount.StringFixed(2)),
	)
	return receipt, nil
}

// validateAmount enforces positive, cent-exact amounts.
func validateAmount(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if !amount.Shift(2).IsInteger() {
		return fmt.Errorf("%w: amount must be exact to the cent", ErrValidation)
	}
	return nil
}
