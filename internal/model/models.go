// Package model defines the persisted records of the slot service.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Account is a player's balance keyed by session token.
type Account struct {
	Token     string    `json:"token" db:"token"`
	Balance   int64     `json:"balance" db:"balance"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Clone returns a copy that can be mutated without affecting the original.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// Transaction records one balance change.
type Transaction struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Token         string    `json:"-" db:"token"`
	Type          string    `json:"type" db:"type"`
	Game          string    `json:"game,omitempty" db:"game"`
	Bet           int64     `json:"bet" db:"bet"`
	Win           int64     `json:"win" db:"win"`
	Amount        int64     `json:"amount" db:"amount"` // net balance change
	BalanceBefore int64     `json:"balance_before" db:"balance_before"`
	BalanceAfter  int64     `json:"balance_after" db:"balance_after"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// Transaction types.
const (
	TxTypeInitial = "initial" // account opened with the starting balance
	TxTypeSpin    = "spin"    // bet debited and win credited
	TxTypeReset   = "reset"   // balance restored to the starting balance
)

// NewTransaction builds a transaction moving balance from before to after.
func NewTransaction(token, txType string, before, after int64) *Transaction {
	return &Transaction{
		ID:            uuid.New(),
		Token:         token,
		Type:          txType,
		Amount:        after - before,
		BalanceBefore: before,
		BalanceAfter:  after,
		CreatedAt:     time.Now().UTC(),
	}
}
