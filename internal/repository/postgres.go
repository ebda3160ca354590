package repository

import (
	"context"
	"errors"
	"fmt"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"slot-machine-service/internal/model"
)

// migrations are applied in order by Migrate. Each statement is idempotent.
var migrations = []struct {
	name string
	sql  string
}{
	{
		name: "accounts table",
		sql: `
			CREATE TABLE IF NOT EXISTS accounts (
				token VARCHAR(64) PRIMARY KEY,
				balance BIGINT NOT NULL CHECK (balance >= 0),
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
		`,
	},
	{
		name: "transactions table",
		sql: `
			CREATE TABLE IF NOT EXISTS transactions (
				id UUID PRIMARY KEY,
				token VARCHAR(64) NOT NULL REFERENCES accounts(token) ON DELETE CASCADE,
				type VARCHAR(20) NOT NULL,
				game VARCHAR(32) NOT NULL DEFAULT '',
				bet BIGINT NOT NULL DEFAULT 0,
				win BIGINT NOT NULL DEFAULT 0,
				amount BIGINT NOT NULL,
				balance_before BIGINT NOT NULL,
				balance_after BIGINT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_transactions_token_time ON transactions(token, created_at DESC);
		`,
	},
}

// PostgresStore persists accounts in PostgreSQL. Balance updates and their
// history rows share one database transaction.
type PostgresStore struct {
	pool      *pgxpool.Pool
	txManager trm.Manager
	getter    *trmpgx.CtxGetter
}

// NewPostgresStore creates a PostgresStore on top of pool.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	m, err := manager.New(trmpgx.NewDefaultFactory(pool))
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction manager: %w", err)
	}
	return &PostgresStore{
		pool:      pool,
		txManager: m,
		getter:    trmpgx.DefaultCtxGetter,
	}, nil
}

// Migrate creates the schema if it does not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	log.Info().Msg("Running database migrations...")
	for i, m := range migrations {
		if _, err := s.pool.Exec(ctx, m.sql); err != nil {
			return fmt.Errorf("migration %d (%s): %w", i+1, m.name, err)
		}
		log.Info().Int("step", i+1).Str("migration", m.name).Msg("Migration applied")
	}
	log.Info().Msg("All migrations completed successfully")
	return nil
}

// conn returns the transaction bound to ctx, or the pool.
func (s *PostgresStore) conn(ctx context.Context) trmpgx.Tr {
	return s.getter.DefaultTrOrDB(ctx, s.pool)
}

// Get retrieves an account by token.
func (s *PostgresStore) Get(ctx context.Context, token string) (*model.Account, error) {
	const query = `
		SELECT token, balance, created_at, updated_at
		FROM accounts
		WHERE token = $1
	`

	var acc model.Account
	err := s.conn(ctx).QueryRow(ctx, query, token).Scan(
		&acc.Token,
		&acc.Balance,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &acc, nil
}

// Create inserts the account and its opening transaction.
func (s *PostgresStore) Create(ctx context.Context, acc *model.Account, tx *model.Transaction) error {
	const query = `
		INSERT INTO accounts (token, balance, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (token) DO NOTHING
	`

	return s.txManager.Do(ctx, func(ctx context.Context) error {
		tag, err := s.conn(ctx).Exec(ctx, query, acc.Token, acc.Balance)
		if err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrAccountExists
		}
		return s.insertTx(ctx, acc.Token, tx)
	})
}

// Commit updates the balance and records tx in one transaction.
func (s *PostgresStore) Commit(ctx context.Context, acc *model.Account, tx *model.Transaction) error {
	const query = `
		UPDATE accounts
		SET balance = $2, updated_at = NOW()
		WHERE token = $1
	`

	return s.txManager.Do(ctx, func(ctx context.Context) error {
		tag, err := s.conn(ctx).Exec(ctx, query, acc.Token, acc.Balance)
		if err != nil {
			return fmt.Errorf("failed to update balance: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrAccountNotFound
		}
		return s.insertTx(ctx, acc.Token, tx)
	})
}

func (s *PostgresStore) insertTx(ctx context.Context, token string, tx *model.Transaction) error {
	if tx == nil {
		return nil
	}

	const query = `
		INSERT INTO transactions (id, token, type, game, bet, win, amount, balance_before, balance_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.conn(ctx).Exec(ctx, query,
		tx.ID, token, tx.Type, tx.Game, tx.Bet, tx.Win,
		tx.Amount, tx.BalanceBefore, tx.BalanceAfter, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}
	return nil
}

// History returns the newest transactions first.
func (s *PostgresStore) History(ctx context.Context, token string, limit int) ([]*model.Transaction, error) {
	const query = `
		SELECT id, token, type, game, bet, win, amount, balance_before, balance_after, created_at
		FROM transactions
		WHERE token = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	if limit <= 0 {
		limit = DefaultHistoryCap
	}

	rows, err := s.conn(ctx).Query(ctx, query, token, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var txs []*model.Transaction
	for rows.Next() {
		var tx model.Transaction
		if err := rows.Scan(
			&tx.ID,
			&tx.Token,
			&tx.Type,
			&tx.Game,
			&tx.Bet,
			&tx.Win,
			&tx.Amount,
			&tx.BalanceBefore,
			&tx.BalanceAfter,
			&tx.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return txs, nil
}

// Ping checks the connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close is a no-op; the pool is owned by the caller.
func (s *PostgresStore) Close() error {
	return nil
}
