package game

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/varunish/Wingspan-online/internal/catalog"
	"github.com/varunish/Wingspan-online/internal/game/food"
	"github.com/varunish/Wingspan-online/internal/game/powers"
	"github.com/varunish/Wingspan-online/internal/game/rules"
)

const testSeed = 42

// testHarness builds seeded games over the embedded catalog and lets tests
// arrange boards directly instead of playing up to a position.
type testHarness struct {
	t   *testing.T
	cat *catalog.Catalog
	g   *Game
	n   int
}

// newTestHarness creates a game in SETUP with players p1, p2, ... named by
// names.
func newTestHarness(t *testing.T, names ...string) *testHarness {
	t.Helper()
	cat, err := catalog.LoadEmbedded()
	require.NoError(t, err)

	seats := make([]Seat, len(names))
	for i, name := range names {
		seats[i] = Seat{ID: fmt.Sprintf("p%d", i+1), Name: name}
	}
	g, err := New(seats, cat,
		WithSeed(testSeed),
		WithID("test-game"),
		WithLogger(zaptest.NewLogger(t)),
	)
	require.NoError(t, err)
	return &testHarness{t: t, cat: cat, g: g}
}

// newPlayHarness creates a game and confirms setup for everyone, keeping no
// birds and the first dealt bonus card. Each player starts round 1 with one
// food of every kind and an empty hand.
func newPlayHarness(t *testing.T, names ...string) *testHarness {
	h := newTestHarness(t, names...)
	h.confirmAll()
	require.Equal(t, PhasePlay, h.g.Phase())
	return h
}

func (h *testHarness) confirmAll() {
	h.t.Helper()
	for _, p := range h.g.players {
		require.NoError(h.t, h.g.ConfirmSetup(p.ID, nil, p.Setup.BonusCards[0].InstanceID))
	}
}

func (h *testHarness) player(id string) *Player {
	h.t.Helper()
	p, ok := h.g.Player(id)
	require.True(h.t, ok, "player %s", id)
	return p
}

// card makes a fresh copy of a catalog bird with a readable instance id.
func (h *testHarness) card(birdID string) Card {
	h.t.Helper()
	b, ok := h.cat.Bird(birdID)
	require.True(h.t, ok, "bird %s", birdID)
	h.n++
	return Card{InstanceID: fmt.Sprintf("%s#%d", birdID, h.n), Bird: b}
}

func (h *testHarness) handCard(p *Player, birdID string) Card {
	c := h.card(birdID)
	p.Hand = append(p.Hand, c)
	return c
}

// place puts a bird on p's board without paying for it. Between-turn powers
// are registered the same way playing the bird would.
func (h *testHarness) place(p *Player, habitat catalog.Habitat, birdID string) *PlacedBird {
	pb := &PlacedBird{Card: h.card(birdID)}
	p.Habitats[habitat] = append(p.Habitats[habitat], pb)
	if effect := powers.ClassifyBird(pb.Bird); effect.Kind.Reactive() {
		h.g.registerReaction(p, pb, effect)
	}
	return pb
}

func (h *testHarness) setFood(p *Player, kinds ...food.Kind) {
	p.Food = food.NewStore()
	for _, k := range kinds {
		p.Food.Add(k, 1)
	}
}

func (h *testHarness) setDice(kinds ...food.Kind) {
	h.g.dice.dice = append([]food.Kind(nil), kinds...)
}

func (h *testHarness) assertViolation(err error, want rules.Violation) {
	h.t.Helper()
	require.Error(h.t, err)
	assert.Equal(h.t, want, rules.KindOf(err), err.Error())
}

func (h *testHarness) assertLogged(substr string) {
	h.t.Helper()
	for _, line := range h.g.Logs() {
		if strings.Contains(line, substr) {
			return
		}
	}
	h.t.Errorf("no log line contains %q; log:\n%s", substr, strings.Join(h.g.Logs(), "\n"))
}

// spendRound has the active player gain whatever the first die shows until
// the phase leaves PLAY. Nobody has forest birds, so each gain takes one die.
func (h *testHarness) spendRound() []rules.Activation {
	h.t.Helper()
	var acts []rules.Activation
	round := h.g.Round()
	for h.g.Phase() == PhasePlay && h.g.Round() == round {
		id := h.g.ActivePlayerID()
		got, err := h.g.GainFood(id, catalog.Forest, []food.Kind{h.g.dice.Dice()[0]})
		require.NoError(h.t, err)
		acts = append(acts, got...)
	}
	return acts
}
