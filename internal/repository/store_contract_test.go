package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slot-machine-service/internal/model"
)

// runStoreContract exercises behaviour every AccountStore must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) AccountStore) {
	t.Run("get missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(context.Background(), uuid.NewString())
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("create and get", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		token := uuid.NewString()

		tx := model.NewTransaction(token, model.TxTypeInitial, 0, 5000)
		require.NoError(t, s.Create(ctx, &model.Account{Token: token, Balance: 5000}, tx))

		acc, err := s.Get(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, token, acc.Token)
		assert.Equal(t, int64(5000), acc.Balance)
		assert.False(t, acc.CreatedAt.IsZero())

		hist, err := s.History(ctx, token, 10)
		require.NoError(t, err)
		require.Len(t, hist, 1)
		assert.Equal(t, model.TxTypeInitial, hist[0].Type)
		assert.Equal(t, tx.ID, hist[0].ID)
		assert.Equal(t, int64(5000), hist[0].Amount)
	})

	t.Run("create duplicate", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		token := uuid.NewString()

		require.NoError(t, s.Create(ctx, &model.Account{Token: token, Balance: 5000}, nil))
		err := s.Create(ctx, &model.Account{Token: token, Balance: 1}, nil)
		assert.ErrorIs(t, err, ErrAccountExists)

		acc, err := s.Get(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, int64(5000), acc.Balance)
	})

	t.Run("commit updates balance and history", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		token := uuid.NewString()
		require.NoError(t, s.Create(ctx, &model.Account{Token: token, Balance: 5000}, nil))

		acc, err := s.Get(ctx, token)
		require.NoError(t, err)

		for i := 1; i <= 3; i++ {
			before := acc.Balance
			acc.Balance -= 10
			tx := model.NewTransaction(token, model.TxTypeSpin, before, acc.Balance)
			tx.Game = "classic"
			tx.Bet = 10
			require.NoError(t, s.Commit(ctx, acc, tx))
		}

		got, err := s.Get(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, int64(4970), got.Balance)

		hist, err := s.History(ctx, token, 2)
		require.NoError(t, err)
		require.Len(t, hist, 2)
		assert.Equal(t, int64(4970), hist[0].BalanceAfter)
		assert.Equal(t, int64(4980), hist[1].BalanceAfter)
		assert.Equal(t, "classic", hist[0].Game)
	})

	t.Run("commit missing account", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		token := uuid.NewString()

		err := s.Commit(ctx, &model.Account{Token: token, Balance: 1},
			model.NewTransaction(token, model.TxTypeReset, 0, 1))
		assert.ErrorIs(t, err, ErrAccountNotFound)

		hist, err := s.History(ctx, token, 10)
		require.NoError(t, err)
		assert.Empty(t, hist)
	})

	t.Run("accounts are isolated", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		tokens := make([]string, 8)
		for i := range tokens {
			tokens[i] = uuid.NewString()
			require.NoError(t, s.Create(ctx, &model.Account{Token: tokens[i], Balance: 5000}, nil))
		}

		var wg sync.WaitGroup
		for i, token := range tokens {
			wg.Add(1)
			go func(i int, token string) {
				defer wg.Done()
				acc := &model.Account{Token: token, Balance: int64(i * 100)}
				assert.NoError(t, s.Commit(ctx, acc, nil))
			}(i, token)
		}
		wg.Wait()

		for i, token := range tokens {
			acc, err := s.Get(ctx, token)
			require.NoError(t, err)
			assert.Equal(t, int64(i*100), acc.Balance, fmt.Sprintf("account %d", i))
		}
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, newStore(t).Ping(context.Background()))
	})
}
