package store

import (
	"context"
	"errors"
	"time"

	"github.com/lockdownctf/bankapi/internal/bank/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrInsufficientBalance is returned by Accounts.Debit when the guarded
	// update would drive the balance negative. The debit is not applied.
	ErrInsufficientBalance = errors.New("store: insufficient balance")
)

// Store is the root data access interface for the ledger. Concrete drivers
// (sqlite) implement this. It exposes sub-repositories to keep concerns tidy
// and testable, and to stop callers from accidentally nesting transactions.
type Store interface {
	Users() Users
	Accounts() Accounts
	Sessions() Sessions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to run the debit/credit pair of a transfer.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used during login.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// IsEmpty returns true if there are no users (fresh install).
	IsEmpty(ctx context.Context) (bool, error)
}

type Accounts interface {
	// GetAccountByID returns an account by its account number.
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)

	// GetAccountByUserID returns the single account owned by a user.
	GetAccountByUserID(ctx context.Context, userID string) (domain.Account, error)

	// CreateAccount inserts a new account.
	CreateAccount(ctx context.Context, a domain.Account) error

	// Debit subtracts amount from the account balance. The update is guarded:
	// it only applies when the stored balance covers the amount, otherwise
	// ErrInsufficientBalance is returned and nothing changes. Run inside a
	// transaction together with the matching Credit.
	Debit(ctx context.Context, id string, amount decimal.Decimal) error

	// Credit adds amount to the account balance.
	Credit(ctx context.Context, id string, amount decimal.Decimal) error
}

type Sessions interface {
	// CreateSession stores a new session record.
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSessionByTokenHash returns the session by its token fingerprint.
	GetSessionByTokenHash(ctx context.Context, hash string) (domain.Session, error)

	// DeleteSessionByTokenHash removes a session if present. Deleting an
	// absent session is not an error (logout is idempotent).
	DeleteSessionByTokenHash(ctx context.Context, hash string) error

	// DeleteSessionsBefore removes all sessions created before cutoff and
	// reports how many rows went away. Cleanup housekeeping.
	DeleteSessionsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// CountSessions returns the number of stored sessions.
	CountSessions(ctx context.Context) (int64, error)
}
