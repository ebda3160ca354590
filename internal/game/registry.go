package game

import (
	"errors"
	"sort"
	"sync"
)

// Registration errors.
var (
	ErrNilGame      = errors.New("cannot register nil game")
	ErrEmptyCommand = errors.New("game command cannot be empty")
)

// Registry maps a variant's command to its implementation.
// It is safe for concurrent use.
type Registry struct {
	games map[string]Game
	mu    sync.RWMutex
}

// NewRegistry creates a new game registry.
func NewRegistry() *Registry {
	return &Registry{
		games: make(map[string]Game),
	}
}

// Register adds a variant, replacing any variant with the same command.
func (r *Registry) Register(g Game) error {
	if g == nil {
		return ErrNilGame
	}
	if g.Command() == "" {
		return ErrEmptyCommand
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.games[g.Command()] = g
	return nil
}

// Get looks up a variant by command.
func (r *Registry) Get(command string) (Game, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[command]
	return g, ok
}

// List returns the registered variants sorted by command.
func (r *Registry) List() []Game {
	r.mu.RLock()
	defer r.mu.RUnlock()

	games := make([]Game, 0, len(r.games))
	for _, g := range r.games {
		games = append(games, g)
	}
	sort.Slice(games, func(i, j int) bool {
		return games[i].Command() < games[j].Command()
	})
	return games
}

// Commands returns the registered commands in sorted order.
func (r *Registry) Commands() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	commands := make([]string, 0, len(r.games))
	for cmd := range r.games {
		commands = append(commands, cmd)
	}
	sort.Strings(commands)
	return commands
}

// Count returns the number of registered games.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

// Unregister removes a variant and reports whether it was present.
func (r *Registry) Unregister(command string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.games[command]; ok {
		delete(r.games, command)
		return true
	}
	return false
}
