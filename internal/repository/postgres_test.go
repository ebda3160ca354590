package repository

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"slot-machine-service/internal/model"
)

// checkDockerAvailable checks if Docker is available and running
func checkDockerAvailable() bool {
	cmd := exec.Command("docker", "info")
	return cmd.Run() == nil
}

// setupTestDB starts a PostgreSQL container, applies migrations and
// returns a pool. Skips the test if Docker is not available.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if !checkDockerAvailable() {
		t.Skip("Docker is not available, skipping integration test")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

func TestPostgresStore(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store, err := NewPostgresStore(pool)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))

	runStoreContract(t, func(t *testing.T) AccountStore {
		return store
	})
}

func TestPostgresStore_MigrateIsIdempotent(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store, err := NewPostgresStore(pool)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.Migrate(ctx))
}

func TestPostgresStore_NegativeBalanceRollsBack(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store, err := NewPostgresStore(pool)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))

	require.NoError(t, store.Create(ctx, &model.Account{Token: "neg", Balance: 100}, nil))

	tx := model.NewTransaction("neg", model.TxTypeSpin, 100, -1)
	err = store.Commit(ctx, &model.Account{Token: "neg", Balance: -1}, tx)
	require.Error(t, err)

	acc, err := store.Get(ctx, "neg")
	require.NoError(t, err)
	assert.Equal(t, int64(100), acc.Balance)

	hist, err := store.History(ctx, "neg", 10)
	require.NoError(t, err)
	assert.Empty(t, hist)
}
