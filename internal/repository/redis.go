package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"slot-machine-service/internal/model"
)

// Key layouts. The first verb is the configured prefix.
const (
	KeyAccount = "%s:account:%s"
	KeyHistory = "%s:history:%s"
)

// DefaultHistoryCap bounds the per-account history list.
const DefaultHistoryCap = 1000

// createScript writes the account only if absent, then pushes the
// opening transaction. Returns 0 when the account already existed.
var createScript = redis.NewScript(`
	if redis.call("SETNX", KEYS[1], ARGV[1]) == 0 then
		return 0
	end
	if ARGV[2] ~= "" then
		redis.call("LPUSH", KEYS[2], ARGV[2])
		redis.call("LTRIM", KEYS[2], 0, tonumber(ARGV[3]) - 1)
	end
	return 1
`)

// commitScript overwrites an existing account and pushes the transaction.
// Returns 0 when the account does not exist.
var commitScript = redis.NewScript(`
	if redis.call("EXISTS", KEYS[1]) == 0 then
		return 0
	end
	redis.call("SET", KEYS[1], ARGV[1])
	if ARGV[2] ~= "" then
		redis.call("LPUSH", KEYS[2], ARGV[2])
		redis.call("LTRIM", KEYS[2], 0, tonumber(ARGV[3]) - 1)
	end
	return 1
`)

// RedisStore keeps each account as a JSON string and its history as a
// capped list, both keyed by session token.
type RedisStore struct {
	client     redis.UniversalClient
	prefix     string
	historyCap int
}

// NewRedisStore creates a RedisStore. historyCap <= 0 selects DefaultHistoryCap.
func NewRedisStore(client redis.UniversalClient, prefix string, historyCap int) *RedisStore {
	if historyCap <= 0 {
		historyCap = DefaultHistoryCap
	}
	return &RedisStore{client: client, prefix: prefix, historyCap: historyCap}
}

func (s *RedisStore) accountKey(token string) string {
	return fmt.Sprintf(KeyAccount, s.prefix, token)
}

func (s *RedisStore) historyKey(token string) string {
	return fmt.Sprintf(KeyHistory, s.prefix, token)
}

// Get loads an account.
func (s *RedisStore) Get(ctx context.Context, token string) (*model.Account, error) {
	data, err := s.client.Get(ctx, s.accountKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	var acc model.Account
	if err := json.Unmarshal(data, &acc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}
	acc.Token = token
	return &acc, nil
}

// Create inserts a new account and its opening transaction.
func (s *RedisStore) Create(ctx context.Context, acc *model.Account, tx *model.Transaction) error {
	now := time.Now().UTC()
	stored := acc.Clone()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	ok, err := s.run(ctx, createScript, stored, tx)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	if !ok {
		return ErrAccountExists
	}
	return nil
}

// Commit overwrites the balance and appends tx in one script call.
func (s *RedisStore) Commit(ctx context.Context, acc *model.Account, tx *model.Transaction) error {
	stored := acc.Clone()
	stored.UpdatedAt = time.Now().UTC()

	ok, err := s.run(ctx, commitScript, stored, tx)
	if err != nil {
		return fmt.Errorf("failed to commit account: %w", err)
	}
	if !ok {
		return ErrAccountNotFound
	}
	return nil
}

func (s *RedisStore) run(ctx context.Context, script *redis.Script, acc *model.Account, tx *model.Transaction) (bool, error) {
	accData, err := json.Marshal(acc)
	if err != nil {
		return false, fmt.Errorf("failed to marshal account: %w", err)
	}

	var txData []byte
	if tx != nil {
		if txData, err = json.Marshal(tx); err != nil {
			return false, fmt.Errorf("failed to marshal transaction: %w", err)
		}
	}

	keys := []string{s.accountKey(acc.Token), s.historyKey(acc.Token)}
	res, err := script.Run(ctx, s.client, keys, accData, txData, s.historyCap).Int()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}

// History returns up to limit transactions, newest first.
func (s *RedisStore) History(ctx context.Context, token string, limit int) ([]*model.Transaction, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}

	items, err := s.client.LRange(ctx, s.historyKey(token), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	txs := make([]*model.Transaction, 0, len(items))
	for _, item := range items {
		var tx model.Transaction
		if err := json.Unmarshal([]byte(item), &tx); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transaction: %w", err)
		}
		tx.Token = token
		txs = append(txs, &tx)
	}
	return txs, nil
}

// Ping checks the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
