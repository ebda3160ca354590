package repository

import (
	"context"
	"sync"
	"time"

	"slot-machine-service/internal/model"
)

// MemoryStore keeps accounts in process memory. Used for tests and for
// single-instance deployments that accept losing state on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]*model.Account
	history  map[string][]*model.Transaction
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[string]*model.Account),
		history:  make(map[string][]*model.Transaction),
	}
}

// Get returns a copy of the stored account.
func (s *MemoryStore) Get(_ context.Context, token string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[token]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return acc.Clone(), nil
}

// Create inserts a new account.
func (s *MemoryStore) Create(_ context.Context, acc *model.Account, tx *model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[acc.Token]; ok {
		return ErrAccountExists
	}

	now := time.Now().UTC()
	stored := acc.Clone()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	s.accounts[acc.Token] = stored

	if tx != nil {
		s.appendTx(acc.Token, tx)
	}
	return nil
}

// Commit overwrites the account balance and appends tx.
func (s *MemoryStore) Commit(_ context.Context, acc *model.Account, tx *model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.accounts[acc.Token]
	if !ok {
		return ErrAccountNotFound
	}
	stored.Balance = acc.Balance
	stored.UpdatedAt = time.Now().UTC()

	if tx != nil {
		s.appendTx(acc.Token, tx)
	}
	return nil
}

func (s *MemoryStore) appendTx(token string, tx *model.Transaction) {
	c := *tx
	c.Token = token
	s.history[token] = append(s.history[token], &c)
}

// History returns the newest transactions first.
func (s *MemoryStore) History(_ context.Context, token string, limit int) ([]*model.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txs := s.history[token]
	if limit <= 0 || limit > len(txs) {
		limit = len(txs)
	}

	out := make([]*model.Transaction, 0, limit)
	for i := len(txs) - 1; i >= 0 && len(out) < limit; i-- {
		c := *txs[i]
		out = append(out, &c)
	}
	return out, nil
}

// Len returns the number of stored accounts.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
