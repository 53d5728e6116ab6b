package game

import (
	"github.com/varunish/Wingspan-online/internal/game/rules"
)

// ChooseBonusCard keeps one card from a pending draw-bonus-cards power. When
// the last pick is made the remaining cards return to the bonus deck.
func (g *Game) ChooseBonusCard(playerID, bonusCardID string) error {
	if g.phase == PhaseEnd {
		return rules.Phasef("Game is over")
	}
	p, err := g.player(playerID)
	if err != nil {
		return err
	}
	pending := p.PendingBonus
	if pending == nil {
		return rules.Invalidf("No bonus card selection pending")
	}
	i := findBonus(pending.Cards, bonusCardID)
	if i < 0 {
		return rules.NotFoundf("%s is not among the drawn bonus cards", bonusCardID)
	}

	chosen := pending.Cards[i]
	pending.Cards = append(pending.Cards[:i:i], pending.Cards[i+1:]...)
	pending.Keep--
	p.BonusCards = append(p.BonusCards, chosen)
	g.log("%s kept bonus card %s (%s)", p.Name, chosen.Name, pending.BirdName)

	if pending.Keep <= 0 || len(pending.Cards) == 0 {
		g.bonusDeck.Return(pending.Cards...)
		p.PendingBonus = nil
	}
	return nil
}
