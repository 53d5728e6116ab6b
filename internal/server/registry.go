package server

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/varunish/Wingspan-online/internal/catalog"
	"github.com/varunish/Wingspan-online/internal/game"
	"github.com/varunish/Wingspan-online/internal/game/rules"
)

var (
	ErrGameNotFound = errors.New("Game not found")
	ErrGameExists   = errors.New("Game already exists")
)

// gameEntry serializes every call into one game.
type gameEntry struct {
	mu       sync.Mutex
	game     *game.Game
	finished bool
	saved    bool
}

// GameRegistry owns the running games of this process. Each game is guarded
// by its own mutex so games never wait on each other.
type GameRegistry struct {
	games   map[string]*gameEntry
	catalog *catalog.Catalog
	opts    []game.Option
	replays *game.ReplayRecorder
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewGameRegistry creates a registry that builds games from cat. opts are
// applied to every game before its id.
func NewGameRegistry(cat *catalog.Catalog, logger *zap.Logger, opts ...game.Option) *GameRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GameRegistry{
		games:   make(map[string]*gameEntry),
		catalog: cat,
		opts:    opts,
		logger:  logger,
	}
}

// RecordReplays records every game created from now on into rec. Replays
// are saved when their game ends.
func (r *GameRegistry) RecordReplays(rec *game.ReplayRecorder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replays = rec
}

// Create starts a game with id for seats and returns its initial view.
func (r *GameRegistry) Create(id string, seats []game.Seat) (game.View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.games[id]; exists {
		return game.View{}, ErrGameExists
	}

	opts := append(append([]game.Option(nil), r.opts...),
		game.WithID(id),
		game.WithLogger(r.logger),
	)
	g, err := game.New(seats, r.catalog, opts...)
	if err != nil {
		return game.View{}, err
	}

	entry := &gameEntry{game: g}
	g.Subscribe(func(e rules.Event) {
		if e.Type == rules.EventGameEnded {
			entry.finished = true
		}
	})
	r.games[id] = entry

	view := g.View()
	if r.replays != nil {
		r.replays.StartRecording(id)
		r.replays.Record(view)
	}

	r.logger.Info("game registered",
		zap.String("game_id", id),
		zap.Int("players", len(seats)),
	)
	return view, nil
}

// Do runs fn with exclusive access to the game identified by id.
func (r *GameRegistry) Do(id string, fn func(g *game.Game) error) error {
	r.mu.RLock()
	entry, ok := r.games[id]
	replays := r.replays
	r.mu.RUnlock()
	if !ok {
		return ErrGameNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	err := fn(entry.game)
	if replays != nil {
		replays.Record(entry.game.View())
		if entry.finished && !entry.saved {
			entry.saved = true
			if saveErr := replays.SaveReplay(id); saveErr != nil {
				r.logger.Error("failed to save replay", zap.String("game_id", id), zap.Error(saveErr))
			}
		}
	}
	return err
}

// Finished reports whether the game identified by id reached its end.
func (r *GameRegistry) Finished(id string) bool {
	r.mu.RLock()
	entry, ok := r.games[id]
	r.mu.RUnlock()
	if !ok {
		return false
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.finished
}

// Remove drops a game.
func (r *GameRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.games[id]; !ok {
		return
	}
	delete(r.games, id)
	if r.replays != nil {
		r.replays.ClearReplay(id)
	}
	r.logger.Info("game removed", zap.String("game_id", id))
}

// Count returns the number of registered games.
func (r *GameRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}
