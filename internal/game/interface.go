// Package game defines the slot variant contract, the weighted symbol
// alphabet shared by all variants and the variant registry.
package game

import "slot-machine-service/internal/pkg/rng"

// Sound cues reported with an outcome.
const (
	SoundLose    = "lose"
	SoundSmall   = "small"
	SoundMedium  = "medium"
	SoundJackpot = "jackpot"
)

// LineWin describes one paying line of a spin.
type LineWin struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Outcome is the result of one spin, before it is applied to a balance.
type Outcome struct {
	Game      string
	Reels     []string   // single-row variants
	Grid      [][]string // grid variants, column-major
	WinAmount int64      // never negative
	WinLines  []LineWin
	Sound     string
}

// Game is implemented by every slot variant.
// Play must be a pure function of the random source and the bet: it never
// touches balances and it never fails for a positive bet.
type Game interface {
	// Name returns the display name (e.g. "Classic Slots").
	Name() string

	// Command returns the routing key (e.g. "classic").
	Command() string

	// Description returns a one-line summary of the rules.
	Description() string

	// Play draws symbols from src and scores them against bet.
	Play(src rng.Source, bet int64) *Outcome
}
