package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"slot-machine-service/internal/model"
	"slot-machine-service/internal/repository"
)

// mintAttempts bounds retries when a freshly minted token is already taken.
const mintAttempts = 3

// SessionRegistry maps session tokens to accounts and opens new accounts
// on first contact.
type SessionRegistry struct {
	store           repository.AccountStore
	startingBalance int64
	newToken        func() string
}

// NewSessionRegistry creates a SessionRegistry.
func NewSessionRegistry(store repository.AccountStore, startingBalance int64) *SessionRegistry {
	return &SessionRegistry{
		store:           store,
		startingBalance: startingBalance,
		newToken:        uuid.NewString,
	}
}

// Resolve returns the account for token. When token is empty or unknown a
// new token is minted and an account opened with the starting balance; the
// bool result is true in that case and the caller must hand the new token
// back to the client.
//
// A failed lookup is treated like an unknown token. A failed create is
// reported as ErrStoreUnavailable.
func (r *SessionRegistry) Resolve(ctx context.Context, token string) (*model.Account, bool, error) {
	if token != "" {
		acc, err := r.store.Get(ctx, token)
		switch {
		case err == nil:
			return acc, false, nil
		case errors.Is(err, repository.ErrAccountNotFound):
			log.Debug().Str("session", token).Msg("Unknown session, opening a new account")
		default:
			log.Warn().Err(err).Str("session", token).Msg("Account lookup failed, opening a new account")
		}
	}

	acc, err := r.open(ctx)
	if err != nil {
		return nil, false, err
	}
	return acc, true, nil
}

func (r *SessionRegistry) open(ctx context.Context) (*model.Account, error) {
	var lastErr error
	for i := 0; i < mintAttempts; i++ {
		acc := &model.Account{
			Token:   r.newToken(),
			Balance: r.startingBalance,
		}
		tx := model.NewTransaction(acc.Token, model.TxTypeInitial, 0, acc.Balance)

		err := r.store.Create(ctx, acc, tx)
		if err == nil {
			log.Info().Str("session", acc.Token).Int64("balance", acc.Balance).Msg("Account opened")
			return acc, nil
		}
		lastErr = err
		if !errors.Is(err, repository.ErrAccountExists) {
			break
		}
	}

	log.Error().Err(lastErr).Msg("Failed to open account")
	return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, lastErr)
}
