package game

import (
	"sort"
	"strings"

	"github.com/varunish/Wingspan-online/internal/catalog"
)

var positions = []string{"first", "second", "third", "fourth"}

// roundPoints is the placement table per round. Later rounds pay more.
var roundPoints = map[int][]int{
	1: {5, 2, 1, 0},
	2: {6, 3, 2, 0},
	3: {7, 4, 2, 0},
	4: {8, 5, 3, 0},
}

// metrics are the per-player quantities round goals and bonus cards count.
var metrics = map[string]func(p *Player) int{
	"forest_birds":    func(p *Player) int { return len(p.Habitats[catalog.Forest]) },
	"grassland_birds": func(p *Player) int { return len(p.Habitats[catalog.Grassland]) },
	"wetland_birds":   func(p *Player) int { return len(p.Habitats[catalog.Wetlands]) },
	"total_birds":     func(p *Player) int { return len(p.Birds()) },
	"total_eggs":      (*Player).TotalEggs,
	"half_eggs":       func(p *Player) int { return p.TotalEggs() / 2 },
	"hand_size":       func(p *Player) int { return len(p.Hand) },
	"food_tokens":     func(p *Player) int { return p.Food.Total() },
	"tucked_cards": func(p *Player) int {
		n := 0
		for _, b := range p.Birds() {
			n += len(b.Tucked)
		}
		return n
	},
	"cached_food": func(p *Player) int {
		n := 0
		for _, b := range p.Birds() {
			n += len(b.Cached)
		}
		return n
	},
	"birds_with_tucked": func(p *Player) int {
		n := 0
		for _, b := range p.Birds() {
			if len(b.Tucked) > 0 {
				n++
			}
		}
		return n
	},
	"high_point_birds": func(p *Player) int {
		n := 0
		for _, b := range p.Birds() {
			if b.Points >= 5 {
				n++
			}
		}
		return n
	},
}

// metricValue evaluates a named metric. Besides the fixed names it accepts
// eggs_in_<habitat> and nest_<type>. Unknown metrics count zero.
func metricValue(name string, p *Player) int {
	if fn, ok := metrics[name]; ok {
		return fn(p)
	}
	if h, ok := strings.CutPrefix(name, "eggs_in_"); ok {
		habitat, err := catalog.ParseHabitat(h)
		if err != nil {
			return 0
		}
		n := 0
		for _, b := range p.Habitats[habitat] {
			n += b.Eggs
		}
		return n
	}
	if nest, ok := strings.CutPrefix(name, "nest_"); ok {
		return countNest(p, catalog.ParseNest(nest))
	}
	return 0
}

// countNest counts birds whose nest satisfies want. Star nests count as any.
func countNest(p *Player, want catalog.Nest) int {
	n := 0
	for _, b := range p.Birds() {
		if b.Nest.Matches(want) {
			n++
		}
	}
	return n
}

// GoalResult is one player's placement for a round goal.
type GoalResult struct {
	Player   *Player
	Value    int
	Points   int
	Position string
}

// ScoreRoundGoal ranks players by goal's metric and awards the round's
// placement points. Equal values share the rank of the first of them; the
// next distinct value takes its sort position, so ties do not compress the
// table. Each player's total and history are updated.
func ScoreRoundGoal(goal catalog.RoundGoal, players []*Player, round int) []GoalResult {
	results := make([]GoalResult, len(players))
	for i, p := range players {
		results[i] = GoalResult{Player: p, Value: metricValue(goal.Metric, p)}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Value > results[j].Value
	})

	table, ok := roundPoints[round]
	if !ok {
		table = roundPoints[1]
	}

	rank := 0
	for i := range results {
		if i > 0 && results[i].Value != results[i-1].Value {
			rank = i
		}
		res := &results[i]
		if rank < len(table) {
			res.Points = table[rank]
		}
		res.Position = positions[len(positions)-1]
		if rank < len(positions) {
			res.Position = positions[rank]
		}

		res.Player.RoundGoalPoints += res.Points
		res.Player.RoundGoalScores = append(res.Player.RoundGoalScores, RoundScore{
			Round:    round,
			Position: res.Position,
			Points:   res.Points,
			Score:    res.Value,
		})
	}
	return results
}
