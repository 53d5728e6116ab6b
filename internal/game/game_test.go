package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/varunish/Wingspan-online/internal/catalog"
	"github.com/varunish/Wingspan-online/internal/game/food"
	"github.com/varunish/Wingspan-online/internal/game/rules"
)

func TestNewValidatesInput(t *testing.T) {
	cat, err := catalog.LoadEmbedded()
	require.NoError(t, err)

	_, err = New(nil, cat)
	assert.Error(t, err)

	_, err = New([]Seat{{ID: "p1", Name: "Alice"}}, nil)
	assert.Error(t, err)

	_, err = New([]Seat{{ID: "p1", Name: "Alice"}, {ID: "p1", Name: "Bob"}}, cat)
	assert.Error(t, err)

	bad := DefaultSettings()
	bad.ActionCubes = []int{8}
	_, err = New([]Seat{{ID: "p1", Name: "Alice"}}, cat, WithSettings(bad))
	assert.Error(t, err)
}

func TestNewDealsSetup(t *testing.T) {
	h := newTestHarness(t, "Alice", "Bob")

	assert.Equal(t, PhaseSetup, h.g.Phase())
	assert.Equal(t, 1, h.g.Round())
	assert.Equal(t, "test-game", h.g.ID())
	assert.Len(t, h.g.RoundGoals(), 4)
	assert.Equal(t, 3, h.g.tray.Len())
	assert.Equal(t, 5, h.g.dice.Len())

	for _, p := range h.g.Players() {
		assert.Len(t, p.Setup.Birds, 5)
		assert.Len(t, p.Setup.BonusCards, 2)
		assert.Empty(t, p.Hand)
		for _, k := range food.Kinds {
			assert.Equal(t, 1, p.Food.Count(k), "%s starts with one %s", p.Name, k)
		}
	}
}

func TestSeededGamesReplay(t *testing.T) {
	a := newTestHarness(t, "Alice", "Bob")
	b := newTestHarness(t, "Alice", "Bob")

	assert.Equal(t, a.g.RoundGoals(), b.g.RoundGoals())
	assert.Equal(t, a.g.dice.Dice(), b.g.dice.Dice())
	assert.Equal(t, a.g.tray.Cards(), b.g.tray.Cards())
	assert.Equal(t, a.player("p1").Setup.Birds, b.player("p1").Setup.Birds)
}

func TestRoundEndsWhenCubesRunOut(t *testing.T) {
	h := newPlayHarness(t, "Alice", "Bob")
	for _, p := range h.g.players {
		p.ActionCubes = 1
	}

	h.spendRound()

	assert.Equal(t, PhasePlay, h.g.Phase())
	assert.Equal(t, 2, h.g.Round())
	assert.Equal(t, "p1", h.g.ActivePlayerID())
	for _, p := range h.g.players {
		assert.Equal(t, 7, p.ActionCubes)
		require.Len(t, p.RoundGoalScores, 1)
		assert.Equal(t, 1, p.RoundGoalScores[0].Round)
	}
	h.assertLogged("Round 1 goal: " + h.g.RoundGoals()[0].Name)
	h.assertLogged("Round 2 started")
}

func TestTurnSkipsExhaustedPlayers(t *testing.T) {
	h := newPlayHarness(t, "Alice", "Bob", "Cara")
	h.player("p2").ActionCubes = 0

	_, err := h.g.GainFood("p1", catalog.Forest, []food.Kind{h.g.dice.Dice()[0]})
	require.NoError(t, err)
	assert.Equal(t, "p3", h.g.ActivePlayerID())
}

func TestFinalRoundEndsGame(t *testing.T) {
	h := newPlayHarness(t, "Alice", "Bob")

	var phases []string
	h.g.Subscribe(func(e rules.Event) {
		if e.Type == rules.EventPhaseChanged {
			phases = append(phases, e.Data)
		}
	})

	h.g.round = 4
	h.g.startRound()
	require.Equal(t, 5, h.player("p1").ActionCubes)

	h.spendRound()

	assert.Equal(t, PhaseEnd, h.g.Phase())
	assert.Equal(t, []string{string(PhaseEnd)}, phases)
	assert.Empty(t, h.g.ActivePlayerID())
	h.assertLogged("Game Over! Final scores calculated.")

	scores := h.g.FinalScores()
	require.Len(t, scores, 2)
	for i, p := range h.g.players {
		require.Len(t, p.RoundGoalScores, 1)
		assert.Equal(t, 4, p.RoundGoalScores[0].Round)
		assert.Equal(t, p.ID, scores[i].PlayerID)
		assert.Equal(t, p.RoundGoalPoints, scores[i].RoundGoalPoints)
	}

	_, err := h.g.GainFood("p1", catalog.Forest, []food.Kind{food.Seed})
	h.assertViolation(err, rules.ViolationPhase)
}

func TestFinalScoresEmptyBeforeEnd(t *testing.T) {
	h := newPlayHarness(t, "Alice")
	assert.Nil(t, h.g.FinalScores())
}

func TestEndOfRoundPowers(t *testing.T) {
	h := newPlayHarness(t, "Alice", "Bob")
	alice := h.player("p1")
	h.place(alice, catalog.Wetlands, "bird-020")
	bluebird := h.place(alice, catalog.Grassland, "bird-022")
	for _, p := range h.g.players {
		p.ActionCubes = 1
	}

	acts := h.spendRound()

	names := make([]string, 0, len(acts))
	for _, a := range acts {
		names = append(names, a.BirdName)
	}
	// Scan order is grassland before wetlands.
	assert.Equal(t, []string{"Eastern Bluebird", "Snowy Egret"}, names)
	assert.Equal(t, 1, bluebird.Eggs)
	assert.Len(t, alice.Hand, 1)
	h.assertLogged("(end of round)")
}

func TestDiscardPhase(t *testing.T) {
	h := newPlayHarness(t, "Alice", "Bob")
	alice := h.player("p1")
	for i := 0; i < 7; i++ {
		h.handCard(alice, "bird-035")
	}
	for _, p := range h.g.players {
		p.ActionCubes = 1
	}

	h.spendRound()

	require.Equal(t, PhaseDiscard, h.g.Phase())
	assert.Equal(t, 1, h.g.Round())
	h.assertLogged("End of round: Players must discard down to 5 cards")

	_, err := h.g.GainFood("p2", catalog.Forest, []food.Kind{food.Seed})
	h.assertViolation(err, rules.ViolationPhase)

	err = h.g.DiscardCards("p1", []string{alice.Hand[0].InstanceID})
	h.assertViolation(err, rules.ViolationQuantity)

	err = h.g.DiscardCards("p1", []string{alice.Hand[0].InstanceID, "missing"})
	h.assertViolation(err, rules.ViolationNotFound)
	assert.Len(t, alice.Hand, 7)

	keep := alice.Hand[2].InstanceID
	require.NoError(t, h.g.DiscardCards("p1", []string{alice.Hand[0].InstanceID, alice.Hand[1].InstanceID}))

	assert.Equal(t, PhasePlay, h.g.Phase())
	assert.Equal(t, 2, h.g.Round())
	require.Len(t, alice.Hand, 5)
	assert.Equal(t, keep, alice.Hand[0].InstanceID)
	assert.Equal(t, 7, alice.ActionCubes)

	err = h.g.DiscardCards("p1", nil)
	h.assertViolation(err, rules.ViolationPhase)
}

func TestDiscardWaitsForEveryPlayerOverLimit(t *testing.T) {
	h := newPlayHarness(t, "Alice", "Bob")
	for _, p := range h.g.players {
		for i := 0; i < 6; i++ {
			h.handCard(p, "bird-035")
		}
		p.ActionCubes = 1
	}

	h.spendRound()
	require.Equal(t, PhaseDiscard, h.g.Phase())

	require.NoError(t, h.g.DiscardCards("p2", []string{h.player("p2").Hand[0].InstanceID}))
	assert.Equal(t, PhaseDiscard, h.g.Phase())

	err := h.g.DiscardCards("p2", nil)
	h.assertViolation(err, rules.ViolationPhase)

	require.NoError(t, h.g.DiscardCards("p1", []string{h.player("p1").Hand[0].InstanceID}))
	assert.Equal(t, PhasePlay, h.g.Phase())
}

func TestWithSettings(t *testing.T) {
	cat, err := catalog.LoadEmbedded()
	require.NoError(t, err)

	s := DefaultSettings()
	s.MaxRounds = 1
	s.ActionCubes = []int{2}
	s.SetupBirds = 3
	g, err := New([]Seat{{ID: "p1", Name: "Alice"}}, cat,
		WithSettings(s), WithSeed(7), WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)

	p, _ := g.Player("p1")
	assert.Len(t, p.Setup.Birds, 3)
	assert.Len(t, g.RoundGoals(), 1)

	require.NoError(t, g.ConfirmSetup("p1", nil, p.Setup.BonusCards[0].InstanceID))
	assert.Equal(t, 2, p.ActionCubes)
}
