package game

import (
	"github.com/varunish/Wingspan-online/internal/game/rules"
)

// DiscardCards resolves a player's end-of-round discard. A player over the
// discard limit must discard exactly down to it; a player at or under the
// limit may only confirm with no cards. When everyone is done the next round
// starts.
func (g *Game) DiscardCards(playerID string, cardIDs []string) error {
	if g.phase != PhaseDiscard {
		return rules.Phasef("Not in discard phase")
	}
	p, err := g.player(playerID)
	if err != nil {
		return err
	}
	if p.DiscardConfirmed {
		return rules.Phasef("Discard already confirmed")
	}

	required := len(p.Hand) - g.settings.DiscardLimit
	if required < 0 {
		required = 0
	}
	if len(cardIDs) != required {
		return rules.Quantityf("Must discard exactly %d card(s) to keep %d", required, g.settings.DiscardLimit)
	}

	hand := append([]Card(nil), p.Hand...)
	for _, id := range cardIDs {
		i := findCard(hand, id)
		if i < 0 {
			return rules.NotFoundf("%s is not in your hand", id)
		}
		hand = append(hand[:i], hand[i+1:]...)
	}

	p.Hand = hand
	p.DiscardConfirmed = true
	g.log("%s discarded %d card(s)", p.Name, len(cardIDs))

	for _, other := range g.players {
		if !other.DiscardConfirmed && len(other.Hand) > g.settings.DiscardLimit {
			return nil
		}
	}

	g.round++
	g.setPhase(PhasePlay)
	g.startRound()
	return nil
}
