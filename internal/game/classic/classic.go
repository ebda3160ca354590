// Package classic implements the three-reel fruit machine.
package classic

import (
	"slot-machine-service/internal/game"
	"slot-machine-service/internal/pkg/rng"
)

// Reel symbols, most common first.
const (
	Cherry  = "🍒"
	Lemon   = "🍋"
	Grape   = "🍇"
	Diamond = "💎"
	Seven   = "7️⃣"
)

// ReelCount is the number of reels.
const ReelCount = 3

// TwoSevensMultiplier pays when exactly two reels show Seven.
const TwoSevensMultiplier = 5

// Symbols is the classic reel alphabet.
var Symbols = game.MustAlphabet("",
	game.Symbol{ID: Cherry, Weight: 15, Payout: 3},
	game.Symbol{ID: Lemon, Weight: 10, Payout: 5},
	game.Symbol{ID: Grape, Weight: 8, Payout: 10},
	game.Symbol{ID: Diamond, Weight: 3, Payout: 20},
	game.Symbol{ID: Seven, Weight: 1, Payout: 100},
)

// Reels is one drawn line of symbols.
type Reels [ReelCount]string

// Game implements game.Game for the classic machine.
type Game struct{}

// New creates the classic variant.
func New() *Game {
	return &Game{}
}

// Name returns the game's display name.
func (g *Game) Name() string {
	return "Classic Slots"
}

// Command returns the routing key.
func (g *Game) Command() string {
	return "classic"
}

// Description returns a brief description of the game.
func (g *Game) Description() string {
	return "Three reels. Three of a kind pays the symbol multiplier, two sevens pay 5x."
}

// Play draws three reels and scores them.
func (g *Game) Play(src rng.Source, bet int64) *game.Outcome {
	reels := Spin(src)
	return &game.Outcome{
		Game:      g.Command(),
		Reels:     reels[:],
		WinAmount: Evaluate(reels, bet),
	}
}

// Spin draws each reel independently.
func Spin(src rng.Source) Reels {
	var r Reels
	for i := range r {
		r[i] = Symbols.Draw(src)
	}
	return r
}

// Evaluate returns the win for a line of reels.
//
// Three identical symbols pay bet × that symbol's multiplier. Failing that,
// exactly two sevens pay bet × TwoSevensMultiplier. Anything else pays 0.
func Evaluate(r Reels, bet int64) int64 {
	if r[0] == r[1] && r[1] == r[2] {
		mult, ok := Symbols.Payout(r[0])
		if !ok {
			return 0
		}
		return bet * mult
	}

	sevens := 0
	for _, s := range r {
		if s == Seven {
			sevens++
		}
	}
	if sevens == 2 {
		return bet * TwoSevensMultiplier
	}
	return 0
}
