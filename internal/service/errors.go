// Package service implements session resolution and wager settlement.
package service

import (
	"errors"
	"fmt"
)

// ErrInvalidWager is the parent of every wager rejection. A rejected wager
// never changes state.
var ErrInvalidWager = errors.New("invalid wager")

// Wager rejections.
var (
	ErrBetNotPositive    = fmt.Errorf("%w: bet must be > 0", ErrInvalidWager)
	ErrInsufficientFunds = fmt.Errorf("%w: insufficient funds", ErrInvalidWager)
)

// Service errors.
var (
	ErrStoreUnavailable = errors.New("account store unavailable")
	ErrUnknownGame      = errors.New("unknown game")
	ErrUnknownSession   = errors.New("unknown session")
)

// Reason returns the player-facing text for a wager rejection.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrBetNotPositive):
		return "bet must be > 0"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient funds"
	default:
		return err.Error()
	}
}
