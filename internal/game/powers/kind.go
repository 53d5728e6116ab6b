// Package powers classifies free-text bird powers into a closed set of
// structured effects. Classification is a deliberately approximate keyword
// table: rules are tried in order, the first match wins, and anything else is
// Unclassified.
package powers

import (
	"github.com/varunish/Wingspan-online/internal/catalog"
	"github.com/varunish/Wingspan-online/internal/game/food"
)

// Kind is a structured effect kind.
type Kind string

const (
	Unclassified Kind = "unclassified"

	// Activated and played effects.
	AllPlayersDraw  Kind = "all_players_draw"
	AllPlayersGain  Kind = "all_players_gain"
	DrawBonusCards  Kind = "draw_bonus_cards"
	ConditionalTuck Kind = "conditional_tuck"
	TuckAndLayEgg   Kind = "tuck_and_lay_egg"
	TuckAndDraw     Kind = "tuck_and_draw"
	TuckCard        Kind = "tuck_card"
	DrawCard        Kind = "draw_card"
	LayEgg          Kind = "lay_egg"
	GainFood        Kind = "gain_food"
	CacheFood       Kind = "cache_food"

	// Reactions to another player's action.
	OnOtherGainsFood Kind = "on_other_gains_food"
	OnOtherLaysEggs  Kind = "on_other_lays_eggs"
	OnOtherPlaysBird Kind = "on_other_plays_bird"
	OnOtherPredator  Kind = "on_other_predator"

	// End of round only.
	DiscardCard Kind = "discard_card"

	// End of game scoring.
	PointsPerTucked     Kind = "points_per_tucked"
	PointsPerEgg        Kind = "points_per_egg"
	PointsPerCached     Kind = "points_per_cached"
	PointsPerFoodSet    Kind = "points_per_food_set"
	PointsPerBird       Kind = "points_per_bird"
	PointsPerHabitatEgg Kind = "points_per_habitat_egg"
)

// Reactive reports whether k fires on another player's action.
func (k Kind) Reactive() bool {
	switch k {
	case OnOtherGainsFood, OnOtherLaysEggs, OnOtherPlaysBird, OnOtherPredator:
		return true
	default:
		return false
	}
}

// Scoring reports whether k only contributes end-of-game points.
func (k Kind) Scoring() bool {
	switch k {
	case PointsPerTucked, PointsPerEgg, PointsPerCached, PointsPerFoodSet, PointsPerBird, PointsPerHabitatEgg:
		return true
	default:
		return false
	}
}

// Source says where gained food comes from.
type Source string

const (
	FromSupply Source = "supply"
	FromFeeder Source = "birdfeeder"
)

// Target says which bird receives eggs.
type Target string

const (
	ThisBird Target = "this_bird"
	AnyBird  Target = "any_bird"
)

// Effect is a classified power.
type Effect struct {
	Kind  Kind
	Count int

	// Food is the named food kind, or food.Wild when any kind is allowed.
	Food   food.Kind
	Source Source
	Target Target

	// Habitat and Nest narrow reactive and scoring effects; empty means any.
	Habitat catalog.Habitat
	Nest    catalog.Nest

	MaxWingspan int // conditional tuck threshold in cm
	Keep        int // bonus cards kept after drawing Count
	Tuck        bool
	Points      int // points per counted unit

	Text string
}
