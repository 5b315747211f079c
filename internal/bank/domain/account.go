package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the money-holding side of a user. The account number (ID) is a
// string of digits assigned at provisioning time; it is the identifier teams
// exchange to move funds, not a ULID.
type Account struct {
	ID        string // account number, digits only
	UserID    string // foreign key to users
	Balance   decimal.Decimal
	PIN       string // digits, verified on every transfer
	CreatedAt time.Time
	UpdatedAt time.Time
}
