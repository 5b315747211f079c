package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/lockdownctf/bankapi/internal/bank/domain"
	"github.com/lockdownctf/bankapi/internal/bank/store"
	"github.com/shopspring/decimal"
)

type accountsRepo struct {
	db dbtx
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, balance_cents, pin, created_at, updated_at
		FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

func (r *accountsRepo) GetAccountByUserID(ctx context.Context, userID string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, balance_cents, pin, created_at, updated_at
		FROM accounts WHERE user_id = ?`, userID)
	return scanAccount(row)
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	cents, err := toCents(a.Balance)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, user_id, balance_cents, pin, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, cents, a.PIN, now, now)
	return err
}

// Debit applies a guarded decrement: the row only changes when the stored
// balance covers the amount, which is what prevents a lost-update race when
// two transfers drain the same account concurrently.
func (r *accountsRepo) Debit(ctx context.Context, id string, amount decimal.Decimal) error {
	cents, err := toCents(amount)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET balance_cents = balance_cents - ?1, updated_at = ?2
		WHERE id = ?3 AND balance_cents >= ?1`,
		cents, time.Now().UTC(), id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Either the account vanished or the balance no longer covers the
		// amount. Distinguish so callers can report precisely.
		if _, err := r.GetAccountByID(ctx, id); err != nil {
			return err
		}
		return store.ErrInsufficientBalance
	}
	return nil
}

func (r *accountsRepo) Credit(ctx context.Context, id string, amount decimal.Decimal) error {
	cents, err := toCents(amount)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET balance_cents = balance_cents + ?1, updated_at = ?2
		WHERE id = ?3`,
		cents, time.Now().UTC(), id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var (
		a     domain.Account
		cents int64
	)
	err := row.Scan(&a.ID, &a.UserID, &cents, &a.PIN, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	a.Balance = fromCents(cents)
	return a, nil
}

// Balances are stored as integer cents so SQL arithmetic stays exact. The
// domain exposes decimal.Decimal; conversion rejects fractional cents.
func toCents(d decimal.Decimal) (int64, error) {
	shifted := d.Shift(2)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("sqlite: amount %s has fractional cents", d)
	}
	return shifted.IntPart(), nil
}

func fromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
