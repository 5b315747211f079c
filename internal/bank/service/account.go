package service

import (
	"context"
	"errors"
	"time"

	"github.com/lockdownctf/bankapi/internal/bank/domain"
	"github.com/lockdownctf/bankapi/internal/bank/store"
)

type AccountService struct {
	Store   store.Store
	Timeout time.Duration
}

// GetUserAccount fetches the single account owned by a user.
func (s *AccountService) GetUserAccount(ctx context.Context, userID string) (domain.Account, error) {
	opCtx, cancel := storeCtx(ctx, s.Timeout)
	defer cancel()

	account, err := s.Store.Accounts().GetAccountByUserID(opCtx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrNotFound
		}
		return domain.Account{}, mapStoreErr(err)
	}
	return account, nil
}
