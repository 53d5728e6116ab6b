package server

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/varunish/Wingspan-online/internal/catalog"
	"github.com/varunish/Wingspan-online/internal/game"
)

func newTestRegistry(t *testing.T) *GameRegistry {
	t.Helper()
	cat, err := catalog.LoadEmbedded()
	require.NoError(t, err)
	return NewGameRegistry(cat, zaptest.NewLogger(t), game.WithSeed(7))
}

var twoSeats = []game.Seat{{ID: "p1", Name: "Alice"}, {ID: "p2", Name: "Bob"}}

func TestRegistryCreateAndDo(t *testing.T) {
	r := newTestRegistry(t)

	view, err := r.Create("ROOM42", twoSeats)
	require.NoError(t, err)
	assert.Equal(t, "ROOM42", view.ID)
	assert.Equal(t, game.PhaseSetup, view.Phase)

	_, err = r.Create("ROOM42", twoSeats)
	assert.ErrorIs(t, err, ErrGameExists)

	var phase game.Phase
	require.NoError(t, r.Do("ROOM42", func(g *game.Game) error {
		phase = g.Phase()
		return nil
	}))
	assert.Equal(t, game.PhaseSetup, phase)

	boom := errors.New("boom")
	assert.ErrorIs(t, r.Do("ROOM42", func(*game.Game) error { return boom }), boom)
	assert.ErrorIs(t, r.Do("NOPE", func(*game.Game) error { return nil }), ErrGameNotFound)

	assert.False(t, r.Finished("ROOM42"))
	assert.Equal(t, 1, r.Count())
	r.Remove("ROOM42")
	r.Remove("ROOM42")
	assert.Equal(t, 0, r.Count())
}

func TestRegistryRecordsReplays(t *testing.T) {
	r := newTestRegistry(t)
	rec := game.NewReplayRecorder(zaptest.NewLogger(t), t.TempDir())
	r.RecordReplays(rec)

	_, err := r.Create("ROOM42", twoSeats)
	require.NoError(t, err)

	replay, ok := rec.Replay("ROOM42")
	require.True(t, ok)
	assert.Equal(t, 1, replay.Size())

	require.NoError(t, r.Do("ROOM42", func(g *game.Game) error {
		p, _ := g.Player("p1")
		return g.ConfirmSetup(p.ID, nil, p.Setup.BonusCards[0].InstanceID)
	}))
	assert.Equal(t, 2, replay.Size())

	// Failed calls that change nothing add no view.
	_ = r.Do("ROOM42", func(g *game.Game) error {
		return g.ConfirmSetup("p1", nil, "")
	})
	assert.Equal(t, 2, replay.Size())

	r.Remove("ROOM42")
	_, ok = rec.Replay("ROOM42")
	assert.False(t, ok)
}
