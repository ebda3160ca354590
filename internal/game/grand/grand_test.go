package grand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"slot-machine-service/internal/game"
	"slot-machine-service/internal/pkg/rng"
)

// baseGrid fills each column with a different symbol so that no payline
// runs past column 1 unless a test places symbols on it.
func baseGrid() Grid {
	fillers := [Columns]string{Ten, Jack, King, Ace, Diamond}
	var g Grid
	for c := range g {
		for r := range g[c] {
			g[c][r] = fillers[c]
		}
	}
	return g
}

func withLine(g Grid, name string, cells ...string) Grid {
	for _, pl := range Paylines {
		if pl.Name != name {
			continue
		}
		for c, sym := range cells {
			g[c][pl.Rows[c]] = sym
		}
		return g
	}
	panic("unknown payline " + name)
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name      string
		grid      Grid
		bet       int64
		wantWin   int64
		wantLines []game.LineWin
	}{
		{
			name:      "no line pays on the base grid",
			grid:      baseGrid(),
			bet:       10,
			wantWin:   0,
			wantLines: []game.LineWin{},
		},
		{
			name:      "five kings on center",
			grid:      withLine(baseGrid(), "Center", King, King, King, King, King),
			bet:       10,
			wantWin:   70,
			wantLines: []game.LineWin{{Name: "Center", Count: 5}},
		},
		{
			name:      "crowns extend a queen run",
			grid:      withLine(baseGrid(), "Center", Queen, Crown, Queen, Crown, Crown),
			bet:       10,
			wantWin:   52,
			wantLines: []game.LineWin{{Name: "Center", Count: 5}},
		},
		{
			name:      "gap stops the run",
			grid:      withLine(baseGrid(), "Center", Ace, Ace, Ten, Ace, Ace),
			bet:       10,
			wantWin:   0,
			wantLines: []game.LineWin{},
		},
		{
			name:      "three tens floor to zero at bet 1",
			grid:      withLine(baseGrid(), "Top", Ten, Ten, Ten),
			bet:       1,
			wantWin:   0,
			wantLines: []game.LineWin{},
		},
		{
			name:      "three tens pay at bet 2",
			grid:      withLine(baseGrid(), "Top", Ten, Ten, Ten),
			bet:       2,
			wantWin:   1,
			wantLines: []game.LineWin{{Name: "Top", Count: 3}},
		},
		{
			name:      "leading crowns score as crown",
			grid:      withLine(baseGrid(), "Bottom", Crown, Crown, Crown, Queen, Queen),
			bet:       10,
			wantWin:   750,
			wantLines: []game.LineWin{{Name: "Bottom", Count: 3}},
		},
		{
			name:      "v shape four sevens",
			grid:      withLine(baseGrid(), "V-Shape", Seven, Seven, Seven, Seven),
			bet:       4,
			wantWin:   100,
			wantLines: []game.LineWin{{Name: "V-Shape", Count: 4}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			win, lines := Evaluate(tt.grid, tt.bet)
			assert.Equal(t, tt.wantWin, win)
			assert.Equal(t, tt.wantLines, lines)
		})
	}
}

func TestEvaluate_OverlappingLinesAllPay(t *testing.T) {
	var g Grid
	for c := range g {
		for r := range g[c] {
			g[c][r] = King
		}
	}

	win, lines := Evaluate(g, 10)

	assert.Equal(t, int64(350), win)
	require.Len(t, lines, len(Paylines))
	for i, pl := range Paylines {
		assert.Equal(t, pl.Name, lines[i].Name)
		assert.Equal(t, 5, lines[i].Count)
	}
	assert.Equal(t, game.SoundJackpot, ClassifySound(win, 10))
}

func TestRun(t *testing.T) {
	g := withLine(baseGrid(), "A-Shape", Jack, Crown, Jack, Ten, Jack)
	first, count := Run(g, Paylines[4])
	assert.Equal(t, Jack, first)
	assert.Equal(t, 3, count)
}

func TestLineWin(t *testing.T) {
	tests := []struct {
		bet   int64
		mult  int64
		count int
		want  int64
	}{
		{10, 20, 5, 70},
		{1, 5, 3, 0},
		{2, 5, 3, 1},
		{10, 15, 5, 52},
		{3, 15, 4, 11},
		{1, 500, 3, 75},
		{7, 100, 5, 245},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LineWin(tt.bet, tt.mult, tt.count),
			"LineWin(%d, %d, %d)", tt.bet, tt.mult, tt.count)
	}
}

func TestClassifySound(t *testing.T) {
	tests := []struct {
		win  int64
		want string
	}{
		{0, game.SoundLose},
		{1, game.SoundSmall},
		{50, game.SoundSmall},
		{51, game.SoundMedium},
		{200, game.SoundMedium},
		{201, game.SoundJackpot},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifySound(tt.win, 10), "win=%d", tt.win)
	}
}

func TestPlay_WinMatchesReportedLines(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Uint64().Draw(t, "seed")
		bet := rapid.Int64Range(1, 100_000).Draw(t, "bet")

		out := New().Play(rng.NewSeeded(seed), bet)

		if len(out.Grid) != Columns {
			t.Fatalf("grid has %d columns", len(out.Grid))
		}
		var grid Grid
		for c, col := range out.Grid {
			if len(col) != Rows {
				t.Fatalf("column %d has %d rows", c, len(col))
			}
			for r, sym := range col {
				if !Symbols.Contains(sym) {
					t.Fatalf("cell %q not in alphabet", sym)
				}
				grid[c][r] = sym
			}
		}

		if out.WinAmount < 0 {
			t.Fatalf("negative win %d", out.WinAmount)
		}
		for _, l := range out.WinLines {
			if l.Count < MinRun || l.Count > Columns {
				t.Fatalf("line %s has run %d", l.Name, l.Count)
			}
		}

		win, _ := Evaluate(grid, bet)
		if win != out.WinAmount {
			t.Fatalf("win %d, re-evaluated %d", out.WinAmount, win)
		}
		if out.Sound != ClassifySound(out.WinAmount, bet) {
			t.Fatalf("sound %q does not match win", out.Sound)
		}
	})
}
