package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varunish/Wingspan-online/internal/catalog"
	"github.com/varunish/Wingspan-online/internal/game/food"
)

func TestScoreRoundGoalTies(t *testing.T) {
	h := newPlayHarness(t, "A", "B", "C", "D")
	forest := map[string]int{"p1": 3, "p2": 3, "p3": 1, "p4": 0}
	for id, n := range forest {
		for i := 0; i < n; i++ {
			h.place(h.player(id), catalog.Forest, "bird-035")
		}
	}
	goal := catalog.RoundGoal{ID: "goal-1", Name: "Birds in Forest", Metric: "forest_birds"}

	results := ScoreRoundGoal(goal, h.g.players, 1)

	require.Len(t, results, 4)
	got := map[string]GoalResult{}
	for _, r := range results {
		got[r.Player.ID] = r
	}
	assert.Equal(t, 5, got["p1"].Points)
	assert.Equal(t, "first", got["p1"].Position)
	assert.Equal(t, 5, got["p2"].Points)
	assert.Equal(t, "first", got["p2"].Position)
	assert.Equal(t, 1, got["p3"].Points, "the next distinct value takes its sort index")
	assert.Equal(t, "third", got["p3"].Position)
	assert.Equal(t, 0, got["p4"].Points)
	assert.Equal(t, "fourth", got["p4"].Position)

	p1 := h.player("p1")
	assert.Equal(t, 5, p1.RoundGoalPoints)
	assert.Equal(t, []RoundScore{{Round: 1, Position: "first", Points: 5, Score: 3}}, p1.RoundGoalScores)
}

func TestScoreRoundGoalLaterRoundsPayMore(t *testing.T) {
	h := newPlayHarness(t, "A", "B")
	h.player("p2").Food.Add(food.Seed, 3)
	goal := catalog.RoundGoal{ID: "goal-10", Metric: "food_tokens"}

	ScoreRoundGoal(goal, h.g.players, 4)

	assert.Equal(t, 8, h.player("p2").RoundGoalPoints)
	assert.Equal(t, 5, h.player("p1").RoundGoalPoints)
}

func TestMetricValue(t *testing.T) {
	h := newPlayHarness(t, "A")
	p := h.player("p1")
	swift := h.place(p, catalog.Forest, "bird-013")
	dove := h.place(p, catalog.Grassland, "bird-005")
	h.place(p, catalog.Wetlands, "bird-007")
	swift.Eggs = 1
	dove.Eggs = 4
	swift.Tucked = []Card{h.card("bird-035"), h.card("bird-040")}
	dove.Cached = []food.Kind{food.Seed}
	h.handCard(p, "bird-035")

	tests := map[string]int{
		"forest_birds":      1,
		"grassland_birds":   1,
		"wetland_birds":     1,
		"total_birds":       3,
		"total_eggs":        5,
		"half_eggs":         2,
		"hand_size":         1,
		"food_tokens":       5,
		"tucked_cards":      2,
		"cached_food":       1,
		"birds_with_tucked": 1,
		"high_point_birds":  1,
		"eggs_in_grassland": 4,
		"eggs_in_forest":    1,
		"nest_bowl":         1, // the star-nest swift
		"nest_platform":     3,
		"unknown_metric":    0,
		"eggs_in_ocean":     0,
	}
	for metric, want := range tests {
		assert.Equal(t, want, metricValue(metric, p), metric)
	}
}

func TestBonusPoints(t *testing.T) {
	h := newPlayHarness(t, "A")
	p := h.player("p1")
	for i := 0; i < 4; i++ {
		h.place(p, catalog.Grassland, "bird-039")
	}

	enclosure, ok := h.cat.BonusCard("bonus-5")
	require.True(t, ok)
	assert.Equal(t, 4, BonusPoints(Bonus{BonusCard: enclosure}, p))

	h.place(p, catalog.Wetlands, "bird-038")
	h.place(p, catalog.Wetlands, "bird-002")
	assert.Equal(t, 7, BonusPoints(Bonus{BonusCard: enclosure}, p))

	prairie, ok := h.cat.BonusCard("bonus-3")
	require.True(t, ok)
	assert.Equal(t, 4, BonusPoints(Bonus{BonusCard: prairie}, p))

	leader, ok := h.cat.BonusCard("bonus-6")
	require.True(t, ok)
	p.Habitats[catalog.Grassland][0].Tucked = []Card{h.card("bird-035")}
	assert.Equal(t, 2, BonusPoints(Bonus{BonusCard: leader}, p))

	trophy, ok := h.cat.BonusCard("bonus-9")
	require.True(t, ok)
	assert.Equal(t, 0, BonusPoints(Bonus{BonusCard: trophy}, p))
}

func TestScorePlayer(t *testing.T) {
	h := newPlayHarness(t, "Alice")
	p := h.player("p1")
	p.BonusCards = nil

	duck := h.place(p, catalog.Forest, "bird-025")
	duck.Eggs = 3
	sparrow := h.place(p, catalog.Forest, "bird-024")
	sparrow.Tucked = []Card{h.card("bird-035"), h.card("bird-040")}
	nuthatch := h.place(p, catalog.Forest, "bird-026")
	nuthatch.Cached = []food.Kind{food.Seed}
	p.RoundGoalPoints = 5

	forester, ok := h.cat.BonusCard("bonus-1")
	require.True(t, ok)
	p.BonusCards = []Bonus{{InstanceID: "b1", BonusCard: forester}}

	s := ScorePlayer(p)
	assert.Equal(t, ScoreBreakdown{
		PlayerID:         "p1",
		Name:             "Alice",
		BirdPoints:       4 + 1 + 2,
		EggPoints:        3,
		TuckedCardPoints: 2,
		CachedFoodPoints: 1,
		BonusPoints:      3,
		PowerPoints:      3 + 2 + 1,
		RoundGoalPoints:  5,
		Total:            7 + 3 + 2 + 1 + 3 + 6 + 5,
	}, s)
	assert.Equal(t, s, ScorePlayer(p), "scoring does not mutate state")
}
