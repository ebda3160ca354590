package game

import (
	"errors"
	"fmt"

	"slot-machine-service/internal/pkg/rng"
)

// Alphabet validation errors.
var (
	ErrEmptyAlphabet   = errors.New("alphabet has no symbols")
	ErrDuplicateSymbol = errors.New("duplicate symbol")
	ErrInvalidWeight   = errors.New("symbol weight must be positive")
	ErrUnknownWild     = errors.New("wild symbol is not in the alphabet")
)

// Symbol is one entry of a reel alphabet.
type Symbol struct {
	ID     string
	Weight int
	Payout int64 // multiplier applied to the bet
}

// Alphabet is an ordered, immutable set of weighted symbols.
type Alphabet struct {
	symbols []Symbol
	index   map[string]int
	total   int
	wild    string
}

// NewAlphabet validates the symbols and builds an alphabet.
// wild may be empty when the variant has no wildcard.
func NewAlphabet(wild string, symbols ...Symbol) (*Alphabet, error) {
	if len(symbols) == 0 {
		return nil, ErrEmptyAlphabet
	}

	a := &Alphabet{
		symbols: make([]Symbol, len(symbols)),
		index:   make(map[string]int, len(symbols)),
		wild:    wild,
	}
	copy(a.symbols, symbols)

	for i, s := range a.symbols {
		if s.Weight <= 0 {
			return nil, fmt.Errorf("%w: %q has weight %d", ErrInvalidWeight, s.ID, s.Weight)
		}
		if _, dup := a.index[s.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSymbol, s.ID)
		}
		a.index[s.ID] = i
		a.total += s.Weight
	}

	if wild != "" {
		if _, ok := a.index[wild]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownWild, wild)
		}
	}

	return a, nil
}

// MustAlphabet is like NewAlphabet but panics on invalid input.
// Intended for package-level symbol tables.
func MustAlphabet(wild string, symbols ...Symbol) *Alphabet {
	a, err := NewAlphabet(wild, symbols...)
	if err != nil {
		panic(err)
	}
	return a
}

// Draw picks one symbol with probability weight/totalWeight.
// Every call is an independent draw with replacement.
func (a *Alphabet) Draw(src rng.Source) string {
	n := src.IntN(a.total)
	for _, s := range a.symbols {
		if n < s.Weight {
			return s.ID
		}
		n -= s.Weight
	}
	// unreachable while IntN honours its range
	return a.symbols[len(a.symbols)-1].ID
}

// Payout returns the multiplier for id and whether id belongs to the alphabet.
func (a *Alphabet) Payout(id string) (int64, bool) {
	i, ok := a.index[id]
	if !ok {
		return 0, false
	}
	return a.symbols[i].Payout, true
}

// Contains reports whether id is a member of the alphabet.
func (a *Alphabet) Contains(id string) bool {
	_, ok := a.index[id]
	return ok
}

// IsWild reports whether id is the alphabet's wildcard.
func (a *Alphabet) IsWild(id string) bool {
	return a.wild != "" && id == a.wild
}

// Wild returns the wildcard symbol, or "" if there is none.
func (a *Alphabet) Wild() string {
	return a.wild
}

// TotalWeight returns the sum of all symbol weights.
func (a *Alphabet) TotalWeight() int {
	return a.total
}

// Symbols returns a copy of the symbols in declaration order.
func (a *Alphabet) Symbols() []Symbol {
	out := make([]Symbol, len(a.symbols))
	copy(out, a.symbols)
	return out
}
