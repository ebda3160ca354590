package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"slot-machine-service/internal/game"
	"slot-machine-service/internal/model"
	"slot-machine-service/internal/pkg/lock"
	"slot-machine-service/internal/pkg/rng"
	"slot-machine-service/internal/repository"
)

// Defaults applied by NewLedger for zero config values.
const (
	DefaultStartingBalance = 5000
	DefaultLockTimeout     = 5 * time.Second
)

// LedgerConfig holds the ledger's tunables.
type LedgerConfig struct {
	StartingBalance int64
	LockTimeout     time.Duration
}

// SpinResult is a settled spin.
type SpinResult struct {
	Outcome     *game.Outcome
	Balance     int64
	Transaction *model.Transaction
}

// Ledger applies wagers and resets to accounts. Every mutation of one
// account runs under that account's lock, so spins on the same session are
// serialized and spins on different sessions never overwrite each other.
type Ledger struct {
	store           repository.AccountStore
	games           *game.Registry
	locks           *lock.KeyLock
	src             rng.Source
	startingBalance int64
	lockTimeout     time.Duration
}

// NewLedger creates a Ledger.
func NewLedger(
	store repository.AccountStore,
	games *game.Registry,
	locks *lock.KeyLock,
	src rng.Source,
	cfg LedgerConfig,
) *Ledger {
	if cfg.StartingBalance <= 0 {
		cfg.StartingBalance = DefaultStartingBalance
	}
	if cfg.LockTimeout <= 0 {
		cfg.LockTimeout = DefaultLockTimeout
	}
	return &Ledger{
		store:           store,
		games:           games,
		locks:           locks,
		src:             src,
		startingBalance: cfg.StartingBalance,
		lockTimeout:     cfg.LockTimeout,
	}
}

// StartingBalance returns the balance new and reset accounts receive.
func (l *Ledger) StartingBalance() int64 {
	return l.startingBalance
}

// Settle plays one spin of the named game for token.
//
// The bet is validated, debited, the game is played and the win credited;
// the new balance and a spin transaction are then committed together. A
// rejected wager or a failed commit leaves the stored balance unchanged.
func (l *Ledger) Settle(ctx context.Context, token, command string, bet int64) (*SpinResult, error) {
	g, ok := l.games.Get(command)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGame, command)
	}
	if bet <= 0 {
		return nil, ErrBetNotPositive
	}

	var result *SpinResult
	err := l.locks.WithLockContext(ctx, token, l.lockTimeout, func() error {
		acc, err := l.load(ctx, token)
		if err != nil {
			return err
		}
		if bet > acc.Balance {
			return ErrInsufficientFunds
		}

		before := acc.Balance
		acc.Balance -= bet

		outcome := g.Play(l.src, bet)
		acc.Balance += outcome.WinAmount

		tx := model.NewTransaction(token, model.TxTypeSpin, before, acc.Balance)
		tx.Game = command
		tx.Bet = bet
		tx.Win = outcome.WinAmount

		if err := l.store.Commit(ctx, acc, tx); err != nil {
			log.Error().Err(err).Str("session", token).Str("game", command).Msg("Failed to commit spin")
			return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}

		result = &SpinResult{Outcome: outcome, Balance: acc.Balance, Transaction: tx}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("session", token).
		Str("game", command).
		Int64("bet", bet).
		Int64("win", result.Outcome.WinAmount).
		Int64("balance", result.Balance).
		Msg("Spin settled")

	return result, nil
}

// Reset restores the starting balance regardless of the current one.
func (l *Ledger) Reset(ctx context.Context, token string) (int64, error) {
	err := l.locks.WithLockContext(ctx, token, l.lockTimeout, func() error {
		acc, err := l.load(ctx, token)
		if err != nil {
			return err
		}

		before := acc.Balance
		acc.Balance = l.startingBalance
		tx := model.NewTransaction(token, model.TxTypeReset, before, acc.Balance)

		if err := l.store.Commit(ctx, acc, tx); err != nil {
			log.Error().Err(err).Str("session", token).Msg("Failed to commit reset")
			return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Info().Str("session", token).Int64("balance", l.startingBalance).Msg("Balance reset")
	return l.startingBalance, nil
}

// Balance returns the current balance for token.
func (l *Ledger) Balance(ctx context.Context, token string) (int64, error) {
	acc, err := l.load(ctx, token)
	if err != nil {
		return 0, err
	}
	return acc.Balance, nil
}

// History returns up to limit transactions for token, newest first.
func (l *Ledger) History(ctx context.Context, token string, limit int) ([]*model.Transaction, error) {
	txs, err := l.store.History(ctx, token, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return txs, nil
}

func (l *Ledger) load(ctx context.Context, token string) (*model.Account, error) {
	acc, err := l.store.Get(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrUnknownSession
		}
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return acc, nil
}
