package game

import (
	"github.com/varunish/Wingspan-online/internal/catalog"
	"github.com/varunish/Wingspan-online/internal/game/food"
)

// PlacedBird is a bird on a player's board. Eggs, cached food and tucked
// cards belong to this placement only.
type PlacedBird struct {
	Card
	Eggs   int         `json:"eggs"`
	Cached []food.Kind `json:"cachedFood"`
	Tucked []Card      `json:"tuckedCards"`
}

// RoundScore records one round goal result for a player.
type RoundScore struct {
	Round    int    `json:"round"`
	Position string `json:"position"`
	Points   int    `json:"points"`
	Score    int    `json:"score"`
}

// SetupHand is what a player was dealt before the first round.
type SetupHand struct {
	Birds      []Card  `json:"birds"`
	BonusCards []Bonus `json:"bonusCards"`
	Confirmed  bool    `json:"confirmed"`
}

// PendingBonus is an unresolved "draw bonus cards, keep some" power.
type PendingBonus struct {
	BirdName string  `json:"birdName"`
	Cards    []Bonus `json:"cards"`
	Keep     int     `json:"keep"`
}

// Player is a seat in a game.
type Player struct {
	ID               string
	Name             string
	Food             food.Store
	Hand             []Card
	Habitats         map[catalog.Habitat][]*PlacedBird
	ActionCubes      int
	BonusCards       []Bonus
	RoundGoalPoints  int
	RoundGoalScores  []RoundScore
	Setup            SetupHand
	DiscardConfirmed bool
	PendingBonus     *PendingBonus
}

func newPlayer(seat Seat) *Player {
	p := &Player{
		ID:       seat.ID,
		Name:     seat.Name,
		Food:     food.NewStore(),
		Habitats: make(map[catalog.Habitat][]*PlacedBird, len(catalog.Habitats)),
	}
	for _, h := range catalog.Habitats {
		p.Habitats[h] = nil
	}
	return p
}

// ActionsLeft returns the remaining action budget.
func (p *Player) ActionsLeft() int {
	return p.ActionCubes
}

// Strength is the number of birds in h plus one.
func (p *Player) Strength(h catalog.Habitat) int {
	return len(p.Habitats[h]) + 1
}

// Birds returns every placed bird in scan order: forest, grassland, wetlands,
// left to right.
func (p *Player) Birds() []*PlacedBird {
	var out []*PlacedBird
	for _, h := range catalog.Habitats {
		out = append(out, p.Habitats[h]...)
	}
	return out
}

// TotalEggs counts eggs on every placed bird.
func (p *Player) TotalEggs() int {
	total := 0
	for _, b := range p.Birds() {
		total += b.Eggs
	}
	return total
}

// findBird locates a placed bird by instance id, falling back to the first
// bird with that catalog id.
func (p *Player) findBird(id string) *PlacedBird {
	birds := p.Birds()
	for _, b := range birds {
		if b.InstanceID == id {
			return b
		}
	}
	for _, b := range birds {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// addToHand adds cards up to limit and returns how many were dropped.
func (p *Player) addToHand(cards []Card, limit int) int {
	p.Hand = append(p.Hand, cards...)
	if len(p.Hand) <= limit {
		return 0
	}
	dropped := len(p.Hand) - limit
	p.Hand = p.Hand[:limit]
	return dropped
}

// popHand removes the last card of the hand.
func (p *Player) popHand() (Card, bool) {
	if len(p.Hand) == 0 {
		return Card{}, false
	}
	c := p.Hand[len(p.Hand)-1]
	p.Hand = p.Hand[:len(p.Hand)-1]
	return c, true
}

func (p *Player) removeFromHand(i int) Card {
	c := p.Hand[i]
	p.Hand = append(p.Hand[:i:i], p.Hand[i+1:]...)
	return c
}

// drainEggs removes n eggs greedily in scan order.
func (p *Player) drainEggs(n int) {
	for _, b := range p.Birds() {
		if n == 0 {
			return
		}
		take := b.Eggs
		if take > n {
			take = n
		}
		b.Eggs -= take
		n -= take
	}
}
