package game

import (
	"github.com/varunish/Wingspan-online/internal/catalog"
	"github.com/varunish/Wingspan-online/internal/game/food"
)

// View is a detached snapshot of a game for clients. Nothing in it aliases
// engine state, so it can be encoded after the game lock is released.
type View struct {
	ID               string              `json:"id"`
	Phase            Phase               `json:"phase"`
	Round            RoundView           `json:"round"`
	Players          []PlayerView        `json:"players"`
	ActivePlayerID   string              `json:"activePlayerId,omitempty"`
	DiceTray         []food.Kind         `json:"diceTray"`
	BirdTray         []Card              `json:"birdTray"`
	RoundGoals       []catalog.RoundGoal `json:"roundGoals"`
	CurrentRoundGoal *catalog.RoundGoal  `json:"currentRoundGoal,omitempty"`
	Logs             []string            `json:"logs"`
	FinalScores      []ScoreBreakdown    `json:"finalScores,omitempty"`
}

// RoundView reports progress through the game.
type RoundView struct {
	Round     int `json:"round"`
	MaxRounds int `json:"maxRounds"`
}

// PlayerView is one seat in a View.
type PlayerView struct {
	ID               string                           `json:"id"`
	Name             string                           `json:"name"`
	Food             map[food.Kind]int                `json:"food"`
	Hand             []Card                           `json:"hand"`
	Habitats         map[catalog.Habitat][]PlacedBird `json:"habitats"`
	ActionCubes      int                              `json:"actionCubes"`
	BonusCards       []Bonus                          `json:"bonusCards"`
	RoundGoalPoints  int                              `json:"roundGoalPoints"`
	RoundGoalScores  []RoundScore                     `json:"roundGoalScores"`
	Setup            *SetupHand                       `json:"setup,omitempty"`
	DiscardConfirmed bool                             `json:"discardConfirmed"`
	PendingBonus     *PendingBonus                    `json:"pendingBonus,omitempty"`
}

// View snapshots the game.
func (g *Game) View() View {
	v := View{
		ID:             g.id,
		Phase:          g.phase,
		Round:          RoundView{Round: g.round, MaxRounds: g.settings.MaxRounds},
		ActivePlayerID: g.ActivePlayerID(),
		DiceTray:       g.dice.Dice(),
		BirdTray:       g.tray.Cards(),
		RoundGoals:     g.RoundGoals(),
		Logs:           g.Logs(),
		FinalScores:    g.FinalScores(),
	}
	if goal, ok := g.currentGoal(); ok {
		v.CurrentRoundGoal = &goal
	}
	v.Players = make([]PlayerView, len(g.players))
	for i, p := range g.players {
		v.Players[i] = g.playerView(p)
	}
	return v
}

func (g *Game) playerView(p *Player) PlayerView {
	pv := PlayerView{
		ID:               p.ID,
		Name:             p.Name,
		Food:             p.Food.Snapshot(),
		Hand:             append([]Card{}, p.Hand...),
		Habitats:         make(map[catalog.Habitat][]PlacedBird, len(catalog.Habitats)),
		ActionCubes:      p.ActionCubes,
		BonusCards:       append([]Bonus{}, p.BonusCards...),
		RoundGoalPoints:  p.RoundGoalPoints,
		RoundGoalScores:  append([]RoundScore{}, p.RoundGoalScores...),
		DiscardConfirmed: p.DiscardConfirmed,
	}
	for _, h := range catalog.Habitats {
		row := make([]PlacedBird, len(p.Habitats[h]))
		for j, b := range p.Habitats[h] {
			row[j] = PlacedBird{
				Card:   b.Card,
				Eggs:   b.Eggs,
				Cached: append([]food.Kind{}, b.Cached...),
				Tucked: append([]Card{}, b.Tucked...),
			}
		}
		pv.Habitats[h] = row
	}
	if g.phase == PhaseSetup {
		pv.Setup = &SetupHand{
			Birds:      append([]Card{}, p.Setup.Birds...),
			BonusCards: append([]Bonus{}, p.Setup.BonusCards...),
			Confirmed:  p.Setup.Confirmed,
		}
	}
	if p.PendingBonus != nil {
		pv.PendingBonus = &PendingBonus{
			BirdName: p.PendingBonus.BirdName,
			Cards:    append([]Bonus{}, p.PendingBonus.Cards...),
			Keep:     p.PendingBonus.Keep,
		}
	}
	return pv
}
