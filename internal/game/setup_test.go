package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varunish/Wingspan-online/internal/game/food"
	"github.com/varunish/Wingspan-online/internal/game/rules"
)

func TestConfirmSetupKeepsBirdsForFood(t *testing.T) {
	h := newTestHarness(t, "Alice", "Bob")
	alice := h.player("p1")
	dealt := alice.Setup.Birds
	bonus := alice.Setup.BonusCards
	deckBefore := h.g.bonusDeck.Len()

	err := h.g.ConfirmSetup("p1", []string{dealt[0].InstanceID, dealt[3].InstanceID}, bonus[1].InstanceID)
	require.NoError(t, err)

	require.Len(t, alice.Hand, 2)
	assert.Equal(t, dealt[0].InstanceID, alice.Hand[0].InstanceID)
	assert.Equal(t, dealt[3].InstanceID, alice.Hand[1].InstanceID)
	assert.Equal(t, 3, alice.Food.Total())
	assert.Equal(t, 0, alice.Food.Count(food.Invertebrate), "food is paid in scan order")
	assert.Equal(t, 0, alice.Food.Count(food.Seed))

	require.Len(t, alice.BonusCards, 1)
	assert.Equal(t, bonus[1].InstanceID, alice.BonusCards[0].InstanceID)
	assert.Equal(t, deckBefore+1, h.g.bonusDeck.Len(), "unchosen bonus card returns to the deck")

	assert.Equal(t, PhaseSetup, h.g.Phase())
	h.assertLogged("Waiting for 1 more player(s) to confirm setup")

	err = h.g.ConfirmSetup("p1", nil, bonus[0].InstanceID)
	h.assertViolation(err, rules.ViolationPhase)

	bob := h.player("p2")
	require.NoError(t, h.g.ConfirmSetup("p2", nil, bob.Setup.BonusCards[0].InstanceID))

	assert.Equal(t, PhasePlay, h.g.Phase())
	assert.Equal(t, "p1", h.g.ActivePlayerID())
	assert.Equal(t, 8, alice.ActionCubes)
	assert.Equal(t, 8, bob.ActionCubes)
	assert.Equal(t, 5, bob.Food.Total())
	h.assertLogged("All players confirmed setup. Game starting!")
}

func TestConfirmSetupRejections(t *testing.T) {
	h := newTestHarness(t, "Alice", "Bob")
	alice := h.player("p1")
	bonusID := alice.Setup.BonusCards[0].InstanceID

	err := h.g.ConfirmSetup("p1", []string{"not-dealt"}, bonusID)
	h.assertViolation(err, rules.ViolationNotFound)

	err = h.g.ConfirmSetup("p1", nil, "")
	h.assertViolation(err, rules.ViolationInvalid)
	assert.Equal(t, "Choose a bonus card", err.Error())

	err = h.g.ConfirmSetup("p1", nil, "bonus-unknown")
	h.assertViolation(err, rules.ViolationNotFound)

	h.setFood(alice, food.Seed)
	ids := []string{alice.Setup.Birds[0].InstanceID, alice.Setup.Birds[1].InstanceID}
	err = h.g.ConfirmSetup("p1", ids, bonusID)
	h.assertViolation(err, rules.ViolationResource)

	// A card id may only be kept once.
	h.setFood(alice, food.Kinds...)
	err = h.g.ConfirmSetup("p1", []string{ids[0], ids[0]}, bonusID)
	h.assertViolation(err, rules.ViolationNotFound)

	err = h.g.ConfirmSetup("ghost", nil, bonusID)
	h.assertViolation(err, rules.ViolationNotFound)

	assert.False(t, alice.Setup.Confirmed)
	assert.Empty(t, alice.Hand)
}

func TestConfirmSetupOutsideSetup(t *testing.T) {
	h := newPlayHarness(t, "Alice")
	err := h.g.ConfirmSetup("p1", nil, "")
	h.assertViolation(err, rules.ViolationPhase)
}
