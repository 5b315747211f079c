package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lockdownctf/bankapi/internal/bank/domain"
	"github.com/lockdownctf/bankapi/internal/bank/store"
	"github.com/lockdownctf/bankapi/pkg/cryptox"
	"github.com/lockdownctf/bankapi/pkg/idx"
	"github.com/shopspring/decimal"
)

// ErrAlreadyProvisioned is returned when the store already holds users.
var ErrAlreadyProvisioned = errors.New("store already provisioned")

// Well-known seeded accounts. The staff account bankrolls the game; the
// scoring account starts empty and accumulates what the scoring engine
// collects.
const (
	StaffUsername    = "staff"
	StaffAccountID   = "0000001337"
	ScoringUsername  = "scoring"
	ScoringAccountID = "3141592653"

	accountNumberLen = 10
	teamPINLen       = 4
	seededPINLen     = 6
)

var staffBalance = decimal.RequireFromString("1000000000.00")

// ProvisionOptions control the one-time seeding of a fresh store.
type ProvisionOptions struct {
	StaffPassword   string
	StaffPIN        string // fixed staff account PIN (random when empty)
	ScoringPassword string
	Teams           int
	TeamPassword    string // every team starts with the same password
	TeamPIN         string // fixed PIN for every team account (random when empty)
	TeamBalance     decimal.Decimal
}

// Credentials describe one seeded user/account pair, for printing at
// provision time. PINs and passwords are never retrievable later.
type Credentials struct {
	Username  string
	Password  string
	AccountID string
	PIN       string
	Balance   decimal.Decimal
	Staff     bool
}

// ProvisionService performs the one-time bootstrap: schema is assumed
// migrated; this seeds the staff user, the scoring engine user, and N team
// users, each with exactly one account.
type ProvisionService struct {
	Store   store.Store
	Logger  *slog.Logger
	Timeout time.Duration
}

func (s *ProvisionService) IsProvisioned(ctx context.Context) (bool, error) {
	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return false, mapStoreErr(err)
	}
	return !empty, nil
}

// Provision seeds all users and accounts in a single transaction and returns
// the generated credentials. Fails with ErrAlreadyProvisioned on a non-empty
// store.
func (s *ProvisionService) Provision(ctx context.Context, opts ProvisionOptions) ([]Credentials, error) {
	opCtx, cancel := storeCtx(ctx, s.Timeout)
	defer cancel()

	if provisioned, err := s.IsProvisioned(opCtx); err != nil {
		return nil, err
	} else if provisioned {
		return nil, ErrAlreadyProvisioned
	}

	var seeds []Credentials

	staffPassword, err := orRandomPassword(opts.StaffPassword)
	if err != nil {
		return nil, err
	}
	scoringPassword, err := orRandomPassword(opts.ScoringPassword)
	if err != nil {
		return nil, err
	}

	staffPIN := opts.StaffPIN
	if staffPIN == "" {
		staffPIN, err = cryptox.GenerateDigits(seededPINLen)
		if err != nil {
			return nil, err
		}
	}
	seeds = append(seeds, Credentials{
		Username:  StaffUsername,
		Password:  staffPassword,
		AccountID: StaffAccountID,
		PIN:       staffPIN,
		Balance:   staffBalance,
		Staff:     true,
	})

	scoringPIN, err := cryptox.GenerateDigits(seededPINLen)
	if err != nil {
		return nil, err
	}
	seeds = append(seeds, Credentials{
		Username:  ScoringUsername,
		Password:  scoringPassword,
		AccountID: ScoringAccountID,
		PIN:       scoringPIN,
		Balance:   decimal.Zero,
		Staff:     true,
	})

	for team := 1; team <= opts.Teams; team++ {
		accountID, err := cryptox.GenerateDigits(accountNumberLen)
		if err != nil {
			return nil, err
		}
		pin := opts.TeamPIN
		if pin == "" {
			pin, err = cryptox.GenerateDigits(teamPINLen)
			if err != nil {
				return nil, err
			}
		}
		teamPassword, err := orRandomPassword(opts.TeamPassword)
		if err != nil {
			return nil, err
		}
		seeds = append(seeds, Credentials{
			Username:  fmt.Sprintf("team%d", team),
			Password:  teamPassword,
			AccountID: accountID,
			PIN:       pin,
			Balance:   opts.TeamBalance,
		})
	}

	err = s.Store.WithTx(opCtx, func(tx store.Tx) error {
		for _, seed := range seeds {
			hash, err := cryptox.HashPassword(seed.Password)
			if err != nil {
				return err
			}

			userID := idx.New().String()
			if err := tx.Users().CreateUser(opCtx, domain.User{
				ID:           userID,
				Username:     seed.Username,
				PasswordHash: hash,
				Staff:        seed.Staff,
			}); err != nil {
				return fmt.Errorf("create user %s: %w", seed.Username, err)
			}

			if err := tx.Accounts().CreateAccount(opCtx, domain.Account{
				ID:      seed.AccountID,
				UserID:  userID,
				Balance: seed.Balance,
				PIN:     seed.PIN,
			}); err != nil {
				return fmt.Errorf("create account %s: %w", seed.AccountID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}

	s.Logger.Info("store provisioned",
		slog.Int("teams", opts.Teams),
		slog.Int("users", len(seeds)),
	)
	return seeds, nil
}

// orRandomPassword returns the given password, or a freshly generated one
// when none was configured.
func orRandomPassword(password string) (string, error) {
	if password != "" {
		return password, nil
	}
	return cryptox.GeneratePassword()
}
