package powers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varunish/Wingspan-online/internal/catalog"
	"github.com/varunish/Wingspan-online/internal/game/food"
)

func TestClassifyActivation(t *testing.T) {
	tests := []struct {
		text string
		want Effect
	}{
		{"Draw 1 [card].", Effect{Kind: DrawCard, Count: 1}},
		{"Draw 2 [card].", Effect{Kind: DrawCard, Count: 2}},
		{"All players draw 1 [card] from the deck.", Effect{Kind: AllPlayersDraw, Count: 1}},
		{"All players gain 1 [fish] from the supply.", Effect{Kind: AllPlayersGain, Count: 1, Food: food.Fish, Source: FromSupply}},
		{"Draw 2 new bonus cards and keep 1.", Effect{Kind: DrawBonusCards, Count: 2, Keep: 1}},
		{"Look at a [card] from the deck. If its wingspan is less than 75cm, tuck it behind this bird.", Effect{Kind: ConditionalTuck, Count: 1, MaxWingspan: 75}},
		{"Look at a [card] from the deck. If <100cm, tuck it behind this bird.", Effect{Kind: ConditionalTuck, Count: 1, MaxWingspan: 100}},
		{"Tuck 1 [card] from your hand behind this bird. If you do, lay 1 [egg] on this bird.", Effect{Kind: TuckAndLayEgg, Count: 1, Target: ThisBird}},
		{"Tuck 1 [card] from your hand behind this bird. If you do, draw 1 [card].", Effect{Kind: TuckAndDraw, Count: 1}},
		{"Tuck 1 [card] from your hand behind this bird.", Effect{Kind: TuckCard, Count: 1}},
		{"Lay 1 [egg] on this bird.", Effect{Kind: LayEgg, Count: 1, Target: ThisBird}},
		{"Lay 2 [egg] on any bird.", Effect{Kind: LayEgg, Count: 2, Target: AnyBird}},
		{"Gain 1 [seed] from the birdfeeder, if there is one.", Effect{Kind: GainFood, Count: 1, Food: food.Seed, Source: FromFeeder}},
		{"Gain 1 [die] from the birdfeeder.", Effect{Kind: GainFood, Count: 1, Food: food.Wild, Source: FromFeeder}},
		{"Gain 3 [seed] from the supply.", Effect{Kind: GainFood, Count: 3, Food: food.Seed, Source: FromSupply}},
		{"Cache 1 [seed] from the supply on this bird.", Effect{Kind: CacheFood, Count: 1, Food: food.Seed, Source: FromSupply}},
		{"Repeat a brown power on another bird in this habitat.", Effect{Kind: Unclassified}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := Classify(catalog.TriggerWhenActivate, tt.text)
			tt.want.Text = tt.text
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyReactive(t *testing.T) {
	e := Classify(catalog.TriggerBetweenTurns, `When another player takes the "gain food" action, if they gain any number of [rodent], cache 1 [rodent] from the supply on this bird.`)
	assert.Equal(t, OnOtherGainsFood, e.Kind)
	assert.Equal(t, food.Rodent, e.Food)
	assert.True(t, e.Kind.Reactive())

	e = Classify(catalog.TriggerBetweenTurns, `When another player takes the "lay eggs" action, lay 1 [egg] on another bird with a [ground] nest.`)
	assert.Equal(t, OnOtherLaysEggs, e.Kind)
	assert.Equal(t, catalog.NestGround, e.Nest)

	e = Classify(catalog.TriggerBetweenTurns, "When another player plays a bird in their [grassland], tuck 1 [card] from your hand behind this bird.")
	assert.Equal(t, OnOtherPlaysBird, e.Kind)
	assert.Equal(t, catalog.Grassland, e.Habitat)
	assert.True(t, e.Tuck)

	e = Classify(catalog.TriggerBetweenTurns, "When another player plays a bird in their [wetland], gain 1 [fish] from the supply.")
	assert.Equal(t, OnOtherPlaysBird, e.Kind)
	assert.Equal(t, catalog.Wetlands, e.Habitat)
	assert.Equal(t, food.Fish, e.Food)

	// Reactive text is recognised even when the card is labelled as activated.
	e = Classify(catalog.TriggerWhenActivate, "When another player's predator succeeds, gain 1 [die] from the birdfeeder.")
	assert.Equal(t, OnOtherPredator, e.Kind)
}

func TestClassifyEndOfRound(t *testing.T) {
	assert.Equal(t, DrawCard, Classify(catalog.TriggerEndOfRound, "Draw 1 [card] at the end of the round.").Kind)
	assert.Equal(t, GainFood, Classify(catalog.TriggerEndOfRound, "Gain 1 [fruit] from the supply.").Kind)
	assert.Equal(t, DiscardCard, Classify(catalog.TriggerEndOfRound, "Discard 2 [card] from your hand.").Kind)
	assert.Equal(t, TuckCard, Classify(catalog.TriggerEndOfRound, "Tuck 1 [card] from your hand behind this bird.").Kind)

	lay := Classify(catalog.TriggerEndOfRound, "Lay 1 [egg] on this bird at the end of the round.")
	assert.Equal(t, LayEgg, lay.Kind)
	assert.Equal(t, ThisBird, lay.Target)
}

func TestClassifyEndOfGame(t *testing.T) {
	tests := []struct {
		text    string
		kind    Kind
		points  int
		habitat catalog.Habitat
		nest    catalog.Nest
	}{
		{"1 point for each [card] tucked behind this bird.", PointsPerTucked, 1, "", ""},
		{"1 point for each [egg] on this bird.", PointsPerEgg, 1, "", ""},
		{"1 point for each [food] cached on this bird.", PointsPerCached, 1, "", ""},
		{"1 point for each full set of food in your supply.", PointsPerFoodSet, 1, "", ""},
		{"2 points for each bird in your [wetland].", PointsPerBird, 2, catalog.Wetlands, ""},
		{"1 point for each bird with a bowl nest you have played.", PointsPerBird, 1, "", catalog.NestBowl},
		{"1 point for each [egg] in your [forest].", PointsPerHabitatEgg, 1, catalog.Forest, ""},
	}
	for _, tt := range tests {
		e := Classify(catalog.TriggerEndOfGame, tt.text)
		assert.Equal(t, tt.kind, e.Kind, tt.text)
		assert.Equal(t, tt.points, e.Points, tt.text)
		assert.Equal(t, tt.habitat, e.Habitat, tt.text)
		assert.Equal(t, tt.nest, e.Nest, tt.text)
		assert.True(t, e.Kind.Scoring())
	}

	assert.Equal(t, Unclassified, Classify(catalog.TriggerEndOfGame, "Gain a bonus card.").Kind)
}

func TestClassifyEmpty(t *testing.T) {
	assert.Equal(t, Unclassified, Classify(catalog.TriggerWhenPlayed, "  ").Kind)
}

func TestEmbeddedCatalogClassification(t *testing.T) {
	cat, err := catalog.LoadEmbedded()
	require.NoError(t, err)

	unclassified := 0
	for _, b := range cat.Birds() {
		if b.Power.Text == "" {
			continue
		}
		if ClassifyBird(b).Kind == Unclassified {
			unclassified++
		}
	}
	assert.LessOrEqual(t, unclassified, 1, "only deliberately unsupported powers stay unclassified")
}
