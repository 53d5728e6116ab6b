package game

import (
	"github.com/varunish/Wingspan-online/internal/game/food"
	"github.com/varunish/Wingspan-online/internal/game/rules"
)

// dealSetup gives every player their starting birds, bonus cards and one
// token of each food kind.
func (g *Game) dealSetup() {
	for _, p := range g.players {
		p.Setup = SetupHand{
			Birds:      g.deck.DrawN(g.settings.SetupBirds),
			BonusCards: g.bonusDeck.DrawN(g.settings.SetupBonusCards),
		}
		p.Food = food.NewStore()
		for _, k := range food.Kinds {
			p.Food.Add(k, 1)
		}
	}
}

// ConfirmSetup keeps the named dealt birds, paying one food per bird kept, and
// keeps one of the dealt bonus cards. Once every player has confirmed the
// first round starts.
func (g *Game) ConfirmSetup(playerID string, keptCardIDs []string, bonusCardID string) error {
	if g.phase != PhaseSetup {
		return rules.Phasef("Game is not in setup")
	}
	p, err := g.player(playerID)
	if err != nil {
		return err
	}
	if p.Setup.Confirmed {
		return rules.Phasef("Setup already confirmed")
	}

	dealt := append([]Card(nil), p.Setup.Birds...)
	kept := make([]Card, 0, len(keptCardIDs))
	for _, id := range keptCardIDs {
		i := findCard(dealt, id)
		if i < 0 {
			return rules.NotFoundf("%s was not dealt to you", id)
		}
		kept = append(kept, dealt[i])
		dealt = append(dealt[:i], dealt[i+1:]...)
	}
	if len(kept) > p.Food.Total() {
		return rules.Resourcef("Not enough food to keep %d birds (have %d)", len(kept), p.Food.Total())
	}

	chosen := -1
	if len(p.Setup.BonusCards) > 0 {
		if bonusCardID == "" {
			return rules.Invalidf("Choose a bonus card")
		}
		if chosen = findBonus(p.Setup.BonusCards, bonusCardID); chosen < 0 {
			return rules.NotFoundf("%s was not dealt to you", bonusCardID)
		}
	}

	toDiscard := len(kept)
	for _, k := range food.Kinds {
		for toDiscard > 0 && p.Food.Spend(k, 1) {
			toDiscard--
		}
	}
	p.Hand = kept
	if chosen >= 0 {
		for i, b := range p.Setup.BonusCards {
			if i == chosen {
				p.BonusCards = append(p.BonusCards, b)
				continue
			}
			g.bonusDeck.Return(b)
		}
	}
	p.Setup.Confirmed = true
	g.log("%s confirmed setup (kept %d birds)", p.Name, len(kept))

	remaining := 0
	for _, other := range g.players {
		if !other.Setup.Confirmed {
			remaining++
		}
	}
	if remaining > 0 {
		g.log("Waiting for %d more player(s) to confirm setup", remaining)
		return nil
	}

	g.setPhase(PhasePlay)
	g.startRound()
	g.log("All players confirmed setup. Game starting!")
	return nil
}
