// Package grand implements the five-reel, three-row payline machine.
//
// The crown is wild: it extends a run started by any symbol. Runs are read
// left to right from the first column and stop at the first cell that is
// neither the starting symbol nor the crown.
package grand

import (
	"github.com/shopspring/decimal"

	"slot-machine-service/internal/game"
	"slot-machine-service/internal/pkg/rng"
)

// Grid dimensions.
const (
	Columns = 5
	Rows    = 3
)

// Grid symbols, most common first.
const (
	Ten     = "10"
	Jack    = "J"
	Queen   = "Q"
	King    = "K"
	Ace     = "A"
	Diamond = "💎"
	Seven   = "7️⃣"
	Crown   = "👑"
)

const (
	// MinRun is the shortest run that can pay.
	MinRun = 3

	// DefaultMultiplier scores a run whose leading symbol has no payout entry.
	DefaultMultiplier = 5
)

// Symbols is the grand alphabet. Crown is the wildcard.
var Symbols = game.MustAlphabet(Crown,
	game.Symbol{ID: Ten, Weight: 15, Payout: 5},
	game.Symbol{ID: Jack, Weight: 12, Payout: 10},
	game.Symbol{ID: Queen, Weight: 10, Payout: 15},
	game.Symbol{ID: King, Weight: 8, Payout: 20},
	game.Symbol{ID: Ace, Weight: 6, Payout: 30},
	game.Symbol{ID: Diamond, Weight: 4, Payout: 50},
	game.Symbol{ID: Seven, Weight: 2, Payout: 100},
	game.Symbol{ID: Crown, Weight: 1, Payout: 500},
)

// Payline is a named path holding one row index per column.
type Payline struct {
	Name string
	Rows [Columns]int
}

// Paylines are evaluated in this order; every line pays independently.
var Paylines = []Payline{
	{Name: "Center", Rows: [Columns]int{1, 1, 1, 1, 1}},
	{Name: "Top", Rows: [Columns]int{0, 0, 0, 0, 0}},
	{Name: "Bottom", Rows: [Columns]int{2, 2, 2, 2, 2}},
	{Name: "V-Shape", Rows: [Columns]int{0, 1, 2, 1, 0}},
	{Name: "A-Shape", Rows: [Columns]int{2, 1, 0, 1, 2}},
}

// Grid holds drawn symbols indexed as Grid[column][row].
type Grid [Columns][Rows]string

// Slices returns the grid as nested slices, column-major.
func (g Grid) Slices() [][]string {
	out := make([][]string, Columns)
	for c := range g {
		col := make([]string, Rows)
		copy(col, g[c][:])
		out[c] = col
	}
	return out
}

// Game implements game.Game for the grand machine.
type Game struct{}

// New creates the grand variant.
func New() *Game {
	return &Game{}
}

// Name returns the game's display name.
func (g *Game) Name() string {
	return "Grand Slots"
}

// Command returns the routing key.
func (g *Game) Command() string {
	return "grand"
}

// Description returns a brief description of the game.
func (g *Game) Description() string {
	return "5x3 grid, five paylines, crown is wild. Three or more in a row from the left pays."
}

// Play draws a grid and scores it.
func (g *Game) Play(src rng.Source, bet int64) *game.Outcome {
	grid := Spin(src)
	win, lines := Evaluate(grid, bet)
	return &game.Outcome{
		Game:      g.Command(),
		Grid:      grid.Slices(),
		WinAmount: win,
		WinLines:  lines,
		Sound:     ClassifySound(win, bet),
	}
}

// Spin draws all fifteen cells independently, column by column.
func Spin(src rng.Source) Grid {
	var g Grid
	for c := 0; c < Columns; c++ {
		for r := 0; r < Rows; r++ {
			g[c][r] = Symbols.Draw(src)
		}
	}
	return g
}

// Evaluate scores every payline and returns the total win together with
// the lines that paid, in payline order.
func Evaluate(grid Grid, bet int64) (int64, []game.LineWin) {
	var total int64
	lines := make([]game.LineWin, 0, len(Paylines))

	for _, pl := range Paylines {
		first, count := Run(grid, pl)
		if count < MinRun {
			continue
		}

		mult, ok := Symbols.Payout(first)
		if !ok {
			mult = DefaultMultiplier
		}

		if win := LineWin(bet, mult, count); win > 0 {
			total += win
			lines = append(lines, game.LineWin{Name: pl.Name, Count: count})
		}
	}

	return total, lines
}

// Run returns the leading symbol of a payline and the length of the
// contiguous run that starts at column 0.
func Run(grid Grid, pl Payline) (string, int) {
	first := grid[0][pl.Rows[0]]
	count := 1
	for c := 1; c < Columns; c++ {
		sym := grid[c][pl.Rows[c]]
		if sym != first && !Symbols.IsWild(sym) {
			break
		}
		count++
	}
	return first, count
}

var (
	ten       = decimal.NewFromInt(10)
	runOffset = decimal.RequireFromString("1.5")
)

// LineWin computes floor(bet × mult/10 × (count − 1.5)).
func LineWin(bet, mult int64, count int) int64 {
	return decimal.NewFromInt(bet).
		Mul(decimal.NewFromInt(mult).Div(ten)).
		Mul(decimal.NewFromInt(int64(count)).Sub(runOffset)).
		Floor().
		IntPart()
}

// ClassifySound maps a total win to a sound cue.
func ClassifySound(win, bet int64) string {
	switch {
	case win > bet*20:
		return game.SoundJackpot
	case win > bet*5:
		return game.SoundMedium
	case win > 0:
		return game.SoundSmall
	default:
		return game.SoundLose
	}
}
