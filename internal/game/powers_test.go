package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varunish/Wingspan-online/internal/catalog"
	"github.com/varunish/Wingspan-online/internal/game/food"
)

func TestForestPowersResolveRightToLeft(t *testing.T) {
	h := newPlayHarness(t, "Alice", "Bob")
	alice := h.player("p1")
	chickadee := h.place(alice, catalog.Forest, "bird-004")
	h.place(alice, catalog.Forest, "bird-041")
	h.setDice(food.Fruit, food.Fruit, food.Fruit, food.Fruit, food.Fruit)

	acts, err := h.g.GainFood("p1", catalog.Forest, []food.Kind{food.Fruit, food.Fruit, food.Fruit})
	require.NoError(t, err)

	require.Len(t, acts, 2)
	assert.Equal(t, "Downy Woodpecker", acts[0].BirdName)
	assert.Equal(t, "Carolina Chickadee", acts[1].BirdName)
	assert.Equal(t, 2, alice.Food.Count(food.Invertebrate))
	assert.Equal(t, []food.Kind{food.Seed}, chickadee.Cached)
	assert.Equal(t, 4, alice.Food.Count(food.Fruit))
}

func TestFeederPowerSkipsWhenDieMissing(t *testing.T) {
	h := newPlayHarness(t, "Alice", "Bob")
	alice := h.player("p1")
	h.place(alice, catalog.Forest, "bird-003")
	h.setDice(food.Fish, food.Fish, food.Fish, food.Fish, food.Fish)

	acts, err := h.g.GainFood("p1", catalog.Forest, []food.Kind{food.Fish, food.Fish})
	require.NoError(t, err)

	// The dice re-roll after each take, so a seed may have appeared.
	if alice.Food.Count(food.Seed) == 1 {
		assert.Empty(t, acts)
	} else {
		require.Len(t, acts, 1)
		assert.Equal(t, "Blue Jay", acts[0].BirdName)
	}
}

func TestTuckPowers(t *testing.T) {
	h := newPlayHarness(t, "Alice", "Bob")
	alice := h.player("p1")
	robin := h.place(alice, catalog.Grassland, "bird-001")
	waxwing := h.place(alice, catalog.Grassland, "bird-010")
	h.handCard(alice, "bird-035")
	h.handCard(alice, "bird-040")

	_, err := h.g.LayEggs("p1", catalog.Grassland, []string{robin.InstanceID, robin.InstanceID, robin.InstanceID})
	require.NoError(t, err)

	// Waxwing (rightmost) tucks and lays, then the robin tucks and draws.
	assert.Len(t, waxwing.Tucked, 1)
	assert.Equal(t, 1, waxwing.Eggs)
	assert.Len(t, robin.Tucked, 1)
	assert.Equal(t, 3, robin.Eggs)
	assert.Len(t, alice.Hand, 1)
}

func TestTuckPowerWithEmptyHand(t *testing.T) {
	h := newPlayHarness(t, "Alice", "Bob")
	alice := h.player("p1")
	swift := h.place(alice, catalog.Grassland, "bird-013")

	acts, err := h.g.LayEggs("p1", catalog.Grassland, []string{swift.InstanceID, swift.InstanceID})
	require.NoError(t, err)
	assert.Empty(t, acts)
	assert.Empty(t, swift.Tucked)
}

func TestAllPlayersPowers(t *testing.T) {
	h := newPlayHarness(t, "Alice", "Bob")
	alice, bob := h.player("p1"), h.player("p2")
	h.place(alice, catalog.Wetlands, "bird-009")
	h.place(alice, catalog.Wetlands, "bird-036")

	acts, err := h.g.DrawCards("p1", catalog.Wetlands, 3, nil)
	require.NoError(t, err)

	require.Len(t, acts, 2)
	assert.Equal(t, "Osprey", acts[0].BirdName)
	assert.Equal(t, "Canvasback", acts[1].BirdName)
	assert.Equal(t, 2, alice.Food.Count(food.Fish))
	assert.Equal(t, 2, bob.Food.Count(food.Fish))
	assert.Len(t, alice.Hand, 4)
	assert.Len(t, bob.Hand, 1)
}

func TestWhenPlayedPower(t *testing.T) {
	h := newPlayHarness(t, "Alice", "Bob")
	alice := h.player("p1")
	h.setFood(alice, food.Seed, food.Seed, food.Seed)
	goldfinch := h.handCard(alice, "bird-008")

	acts, err := h.g.PlayBird("p1", goldfinch.InstanceID, catalog.Grassland, nil)
	require.NoError(t, err)

	require.Len(t, acts, 1)
	assert.Equal(t, "American Goldfinch gained 3 seed", acts[0].Message)
	assert.Equal(t, 3, alice.Food.Count(food.Seed))
	h.assertLogged("(when played)")
}

func TestWhenPlayedLayOnAnyBird(t *testing.T) {
	h := newPlayHarness(t, "Alice", "Bob")
	alice := h.player("p1")
	turkey := h.place(alice, catalog.Forest, "bird-006")
	turkey.Eggs = 4
	blackbird := h.handCard(alice, "bird-037")

	_, err := h.g.PlayBird("p1", blackbird.InstanceID, catalog.Grassland, nil)
	require.NoError(t, err)

	placed := alice.Habitats[catalog.Grassland][0]
	assert.Equal(t, 5, turkey.Eggs, "fills birds in scan order")
	assert.Equal(t, 1, placed.Eggs)
}

func TestConditionalTuck(t *testing.T) {
	h := newPlayHarness(t, "Alice", "Bob")
	alice := h.player("p1")
	owl := h.place(alice, catalog.Forest, "bird-012")
	h.setDice(food.Seed, food.Seed, food.Seed, food.Seed, food.Seed)
	deckBefore := h.g.deck.Len()

	acts, err := h.g.GainFood("p1", catalog.Forest, []food.Kind{food.Seed, food.Seed})
	require.NoError(t, err)

	require.Len(t, acts, 1)
	assert.Equal(t, deckBefore-1, h.g.deck.Len())
	if len(owl.Tucked) == 1 {
		assert.Less(t, owl.Tucked[0].Wingspan, 100)
		assert.Contains(t, acts[0].Message, "tucked")
	} else {
		assert.Contains(t, acts[0].Message, "discarded")
	}
}

func TestReactionOnOtherGainsFood(t *testing.T) {
	h := newPlayHarness(t, "Alice", "Bob")
	shrike := h.place(h.player("p2"), catalog.Grassland, "bird-016")
	h.setDice(food.Rodent, food.Seed, food.Seed, food.Seed, food.Seed)

	acts, err := h.g.GainFood("p1", catalog.Forest, []food.Kind{food.Rodent})
	require.NoError(t, err)

	require.Len(t, acts, 1)
	assert.Equal(t, "p2", acts[0].PlayerID)
	assert.Equal(t, "Loggerhead Shrike", acts[0].BirdName)
	assert.Equal(t, []food.Kind{food.Rodent}, shrike.Cached)
	h.assertLogged("Bob's Loggerhead Shrike cached 1 rodent (between-turn power)")

	// Bob's own gain does not trigger his bird.
	h.setDice(food.Rodent, food.Seed, food.Seed, food.Seed, food.Seed)
	acts, err = h.g.GainFood("p2", catalog.Forest, []food.Kind{food.Rodent})
	require.NoError(t, err)
	assert.Empty(t, acts)
	assert.Len(t, shrike.Cached, 1)

	// A gain without rodents does not match the condition.
	h.setDice(food.Seed, food.Seed, food.Seed, food.Seed, food.Seed)
	acts, err = h.g.GainFood("p1", catalog.Forest, []food.Kind{food.Seed})
	require.NoError(t, err)
	assert.Empty(t, acts)
}

func TestReactionOnOtherPlaysBird(t *testing.T) {
	h := newPlayHarness(t, "Alice", "Bob")
	alice, bob := h.player("p1"), h.player("p2")
	h.place(bob, catalog.Wetlands, "bird-018")
	lark := h.place(bob, catalog.Grassland, "bird-017")
	h.handCard(bob, "bird-035")
	mallard := h.handCard(alice, "bird-002")

	acts, err := h.g.PlayBird("p1", mallard.InstanceID, catalog.Wetlands, nil)
	require.NoError(t, err)

	require.Len(t, acts, 1)
	assert.Equal(t, "Belted Kingfisher", acts[0].BirdName)
	assert.Equal(t, 2, bob.Food.Count(food.Fish))
	assert.Empty(t, lark.Tucked, "lark only reacts to grassland birds")
}

func TestReactionOnOtherLaysEggs(t *testing.T) {
	h := newPlayHarness(t, "Alice", "Bob")
	alice, bob := h.player("p1"), h.player("p2")
	h.place(bob, catalog.Grassland, "bird-019")
	mallard := h.place(bob, catalog.Wetlands, "bird-002")
	dove := h.place(alice, catalog.Grassland, "bird-005")

	acts, err := h.g.LayEggs("p1", catalog.Grassland, []string{dove.InstanceID, dove.InstanceID})
	require.NoError(t, err)

	// Dove's own power lays a third egg, then Killdeer reacts for Bob.
	assert.Equal(t, 3, dove.Eggs)
	require.Len(t, acts, 2)
	assert.Equal(t, "Mourning Dove", acts[0].BirdName)
	assert.Equal(t, "Killdeer", acts[1].BirdName)
	assert.Equal(t, 1, mallard.Eggs, "lays on another ground-nest bird")
}

func TestPredatorReactionNeverFires(t *testing.T) {
	h := newPlayHarness(t, "Alice", "Bob")
	before := h.g.triggers.Len()
	h.place(h.player("p2"), catalog.Forest, "bird-015")
	assert.Equal(t, before, h.g.triggers.Len())
}

func TestUnclassifiedPowerIsNoop(t *testing.T) {
	h := newPlayHarness(t, "Alice", "Bob")
	alice := h.player("p1")
	h.place(alice, catalog.Forest, "bird-031")
	h.setDice(food.Seed, food.Seed, food.Seed, food.Seed, food.Seed)

	acts, err := h.g.GainFood("p1", catalog.Forest, []food.Kind{food.Seed, food.Seed})
	require.NoError(t, err)
	assert.Empty(t, acts)
}

func TestEndOfGamePoints(t *testing.T) {
	h := newPlayHarness(t, "Alice")
	alice := h.player("p1")

	duck := h.place(alice, catalog.Wetlands, "bird-025")
	duck.Eggs = 3
	assert.Equal(t, 3, endOfGamePoints(alice, duck))

	heron := h.place(alice, catalog.Wetlands, "bird-027")
	assert.Equal(t, 4, endOfGamePoints(alice, heron), "2 points per wetland bird")

	crow := h.place(alice, catalog.Forest, "bird-030")
	assert.Equal(t, 1, endOfGamePoints(alice, crow), "one full set of food")

	oriole := h.place(alice, catalog.Forest, "bird-028")
	h.place(alice, catalog.Forest, "bird-035")
	assert.Equal(t, 2, endOfGamePoints(alice, oriole), "oriole and cardinal have bowl nests")

	grouse := h.place(alice, catalog.Forest, "bird-029")
	grouse.Eggs = 2
	crow.Eggs = 1
	assert.Equal(t, 3, endOfGamePoints(alice, grouse))

	assert.Equal(t, 0, endOfGamePoints(alice, h.place(alice, catalog.Grassland, "bird-005")))
}
