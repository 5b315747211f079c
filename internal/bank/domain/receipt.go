package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt describes a committed transfer: both post-transfer balances and the
// commit timestamp.
type Receipt struct {
	FromAccount string          `json:"from_account"`
	ToAccount   string          `json:"to_account"`
	Amount      decimal.Decimal `json:"amount"`
	FromBalance decimal.Decimal `json:"from_balance"`
	ToBalance   decimal.Decimal `json:"to_balance"`
	Timestamp   time.Time       `json:"timestamp"`
}
