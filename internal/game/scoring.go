package game

// ScoreBreakdown is a player's final score by category.
type ScoreBreakdown struct {
	PlayerID         string `json:"playerId"`
	Name             string `json:"name"`
	BirdPoints       int    `json:"birdPoints"`
	EggPoints        int    `json:"eggPoints"`
	TuckedCardPoints int    `json:"tuckedCardPoints"`
	CachedFoodPoints int    `json:"cachedFoodPoints"`
	BonusPoints      int    `json:"bonusPoints"`
	PowerPoints      int    `json:"powerPoints"`
	RoundGoalPoints  int    `json:"roundGoalPoints"`
	Total            int    `json:"total"`
}

// ScorePlayer computes p's breakdown. It only reads p, so calling it again
// yields the same result.
func ScorePlayer(p *Player) ScoreBreakdown {
	s := ScoreBreakdown{
		PlayerID:        p.ID,
		Name:            p.Name,
		RoundGoalPoints: p.RoundGoalPoints,
	}
	for _, b := range p.Birds() {
		s.BirdPoints += b.Points
		s.EggPoints += b.Eggs
		s.TuckedCardPoints += len(b.Tucked)
		s.CachedFoodPoints += len(b.Cached)
		s.PowerPoints += endOfGamePoints(p, b)
	}
	for _, card := range p.BonusCards {
		s.BonusPoints += BonusPoints(card, p)
	}
	s.Total = s.BirdPoints + s.EggPoints + s.TuckedCardPoints + s.CachedFoodPoints +
		s.BonusPoints + s.PowerPoints + s.RoundGoalPoints
	return s
}

// BonusPoints scores one bonus card for p. Tiered cards pay the best tier
// reached; the others pay Per points (default 1) for each counted unit.
func BonusPoints(card Bonus, p *Player) int {
	value := metricValue(card.Metric, p)
	if len(card.Tiers) > 0 {
		best := 0
		for _, t := range card.Tiers {
			if value >= t.Min && t.Points > best {
				best = t.Points
			}
		}
		return best
	}
	per := card.Per
	if per <= 0 {
		per = 1
	}
	return value * per
}

// FinalScores returns every player's breakdown in seat order. It is empty
// until the game has ended.
func (g *Game) FinalScores() []ScoreBreakdown {
	if g.phase != PhaseEnd {
		return nil
	}
	out := make([]ScoreBreakdown, len(g.players))
	for i, p := range g.players {
		out[i] = ScorePlayer(p)
	}
	return out
}
