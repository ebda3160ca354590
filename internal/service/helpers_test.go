package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/stretchr/testify/require"

	"slot-machine-service/internal/game"
	"slot-machine-service/internal/game/classic"
	"slot-machine-service/internal/game/grand"
	"slot-machine-service/internal/model"
	"slot-machine-service/internal/pkg/lock"
	"slot-machine-service/internal/pkg/rng"
	"slot-machine-service/internal/repository"
)

var errBackendDown = errors.New("backend down")

// faultyStore wraps MemoryStore and fails selected calls on demand.
type faultyStore struct {
	*repository.MemoryStore

	mu         sync.Mutex
	failGet    bool
	failCreate bool
	failCommit bool
}

func newFaultyStore() *faultyStore {
	return &faultyStore{MemoryStore: repository.NewMemoryStore()}
}

func (s *faultyStore) set(get, create, commit bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failGet, s.failCreate, s.failCommit = get, create, commit
}

func (s *faultyStore) Get(ctx context.Context, token string) (*model.Account, error) {
	s.mu.Lock()
	fail := s.failGet
	s.mu.Unlock()
	if fail {
		return nil, errBackendDown
	}
	return s.MemoryStore.Get(ctx, token)
}

func (s *faultyStore) Create(ctx context.Context, acc *model.Account, tx *model.Transaction) error {
	s.mu.Lock()
	fail := s.failCreate
	s.mu.Unlock()
	if fail {
		return errBackendDown
	}
	return s.MemoryStore.Create(ctx, acc, tx)
}

func (s *faultyStore) Commit(ctx context.Context, acc *model.Account, tx *model.Transaction) error {
	s.mu.Lock()
	fail := s.failCommit
	s.mu.Unlock()
	if fail {
		return errBackendDown
	}
	return s.MemoryStore.Commit(ctx, acc, tx)
}

// fixedGame always pays win, regardless of the bet.
type fixedGame struct{ win int64 }

func (g fixedGame) Name() string        { return "Fixed" }
func (g fixedGame) Command() string     { return "fixed" }
func (g fixedGame) Description() string { return "pays a fixed amount" }
func (g fixedGame) Play(rng.Source, int64) *game.Outcome {
	return &game.Outcome{Game: "fixed", WinAmount: g.win}
}

func newRegistry(t require.TestingT, extra ...game.Game) *game.Registry {
	r := game.NewRegistry()
	require.NoError(t, r.Register(classic.New()))
	require.NoError(t, r.Register(grand.New()))
	for _, g := range extra {
		require.NoError(t, r.Register(g))
	}
	return r
}

func newTestLedger(t require.TestingT, store repository.AccountStore, seed uint64, extra ...game.Game) *Ledger {
	return NewLedger(store, newRegistry(t, extra...), lock.NewKeyLock(), rng.NewSeeded(seed), LedgerConfig{
		StartingBalance: 5000,
		LockTimeout:     2 * time.Second,
	})
}

func openAccount(t require.TestingT, store repository.AccountStore, balance int64) string {
	reg := NewSessionRegistry(store, balance)
	acc, created, err := reg.Resolve(context.Background(), "")
	require.NoError(t, err)
	require.True(t, created)
	return acc.Token
}
