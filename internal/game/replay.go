package game

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

const replayVersion = 1

// Replay is a recorded game: the view after every accepted action, in order.
type Replay struct {
	GameID       string
	Views        []View
	CurrentIndex int
	mu           sync.RWMutex
}

// NewReplay creates an empty replay for gameID.
func NewReplay(gameID string) *Replay {
	return &Replay{GameID: gameID}
}

// Record appends a view. Consecutive views with the same checksum are
// collapsed so rejected actions leave no trace.
func (r *Replay) Record(v View) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n := len(r.Views); n > 0 && r.Views[n-1].Checksum() == v.Checksum() {
		return
	}
	r.Views = append(r.Views, v)
}

// Start rewinds playback.
func (r *Replay) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.CurrentIndex = 0
}

// Next returns the view under the cursor and advances it.
func (r *Replay) Next() (View, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CurrentIndex >= len(r.Views) {
		return View{}, false
	}
	v := r.Views[r.CurrentIndex]
	r.CurrentIndex++
	return v, true
}

// Previous steps the cursor back and returns that view.
func (r *Replay) Previous() (View, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CurrentIndex == 0 {
		return View{}, false
	}
	r.CurrentIndex--
	return r.Views[r.CurrentIndex], true
}

// Skip moves the cursor by count, clamped to the recording.
func (r *Replay) Skip(count int) (View, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.Views) == 0 {
		return View{}, false
	}
	idx := r.CurrentIndex + count
	if idx >= len(r.Views) {
		idx = len(r.Views) - 1
	}
	if idx < 0 {
		idx = 0
	}
	r.CurrentIndex = idx
	return r.Views[idx], true
}

// Size returns the number of recorded views.
func (r *Replay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Views)
}

// At returns the view at index.
func (r *Replay) At(index int) (View, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index < 0 || index >= len(r.Views) {
		return View{}, false
	}
	return r.Views[index], true
}

type replayMetadata struct {
	GameID    string
	Timestamp time.Time
	Version   int
	ViewCount int
}

func replayPath(directory, gameID string) string {
	return filepath.Join(directory, gameID+".replay")
}

// SaveToFile writes the replay to <directory>/<game id>.replay as gzipped gob.
func (r *Replay) SaveToFile(directory string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := os.MkdirAll(directory, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(replayPath(directory, r.GameID))
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	zw := gzip.NewWriter(file)
	enc := gob.NewEncoder(zw)

	meta := replayMetadata{
		GameID:    r.GameID,
		Timestamp: time.Now(),
		Version:   replayVersion,
		ViewCount: len(r.Views),
	}
	if err := enc.Encode(&meta); err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	for i := range r.Views {
		if err := enc.Encode(&r.Views[i]); err != nil {
			return fmt.Errorf("failed to encode view %d: %w", i, err)
		}
	}
	return zw.Close()
}

// LoadReplayFromFile reads a replay written by SaveToFile.
func LoadReplayFromFile(directory, gameID string) (*Replay, error) {
	file, err := os.Open(replayPath(directory, gameID))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	zr, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer zr.Close()

	dec := gob.NewDecoder(zr)

	var meta replayMetadata
	if err := dec.Decode(&meta); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if meta.Version != replayVersion {
		return nil, fmt.Errorf("unsupported replay version: %d", meta.Version)
	}

	replay := NewReplay(meta.GameID)
	replay.Views = make([]View, 0, meta.ViewCount)
	for i := 0; i < meta.ViewCount; i++ {
		var v View
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("failed to decode view %d: %w", i, err)
		}
		replay.Views = append(replay.Views, v)
	}
	return replay, nil
}

// ReplayRecorder keeps one replay per running game and writes finished ones
// to saveDir.
type ReplayRecorder struct {
	logger  *zap.Logger
	mu      sync.RWMutex
	replays map[string]*Replay
	saveDir string
}

// NewReplayRecorder creates a recorder that saves into saveDir.
func NewReplayRecorder(logger *zap.Logger, saveDir string) *ReplayRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReplayRecorder{
		logger:  logger,
		replays: make(map[string]*Replay),
		saveDir: saveDir,
	}
}

// StartRecording begins a replay for gameID, replacing any earlier one.
func (rr *ReplayRecorder) StartRecording(gameID string) {
	rr.mu.Lock()
	rr.replays[gameID] = NewReplay(gameID)
	rr.mu.Unlock()

	rr.logger.Debug("started replay recording", zap.String("game_id", gameID))
}

// Record appends v to the replay of its game, if one is being recorded.
func (rr *ReplayRecorder) Record(v View) {
	rr.mu.RLock()
	replay := rr.replays[v.ID]
	rr.mu.RUnlock()

	if replay == nil {
		return
	}
	replay.Record(v)
}

// Replay returns the in-memory replay of gameID.
func (rr *ReplayRecorder) Replay(gameID string) (*Replay, bool) {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	replay, ok := rr.replays[gameID]
	return replay, ok
}

// SaveReplay writes the replay of gameID to disk and forgets it.
func (rr *ReplayRecorder) SaveReplay(gameID string) error {
	rr.mu.Lock()
	replay, ok := rr.replays[gameID]
	delete(rr.replays, gameID)
	rr.mu.Unlock()

	if !ok {
		return fmt.Errorf("no replay found for game %s", gameID)
	}
	if err := replay.SaveToFile(rr.saveDir); err != nil {
		return fmt.Errorf("failed to save replay: %w", err)
	}

	rr.logger.Info("saved replay to disk",
		zap.String("game_id", gameID),
		zap.Int("view_count", replay.Size()),
		zap.String("directory", rr.saveDir),
	)
	return nil
}

// LoadReplay reads a saved replay of gameID.
func (rr *ReplayRecorder) LoadReplay(gameID string) (*Replay, error) {
	return LoadReplayFromFile(rr.saveDir, gameID)
}

// ClearReplay drops the replay of gameID without saving it.
func (rr *ReplayRecorder) ClearReplay(gameID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	delete(rr.replays, gameID)
}
