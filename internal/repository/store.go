// Package repository provides account persistence.
//
// Every backend reads and writes a single account record per call. A
// balance write and its history entry are committed together or not at all.
package repository

import (
	"context"
	"errors"

	"slot-machine-service/internal/model"
)

// Common errors for repository operations.
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
)

// AccountStore is the persistence contract used by the session registry
// and the ledger.
type AccountStore interface {
	// Get returns the account for token or ErrAccountNotFound.
	Get(ctx context.Context, token string) (*model.Account, error)

	// Create inserts a new account together with its opening transaction
	// (tx may be nil). Returns ErrAccountExists if the token is taken.
	Create(ctx context.Context, acc *model.Account, tx *model.Transaction) error

	// Commit stores the account's new balance and appends tx (may be nil)
	// to its history atomically. Returns ErrAccountNotFound if the account
	// does not exist.
	Commit(ctx context.Context, acc *model.Account, tx *model.Transaction) error

	// History returns up to limit transactions for token, newest first.
	History(ctx context.Context, token string, limit int) ([]*model.Transaction, error)

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
