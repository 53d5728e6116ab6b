package game

import (
	"github.com/varunish/Wingspan-online/internal/catalog"
	"github.com/varunish/Wingspan-online/internal/game/food"
	"github.com/varunish/Wingspan-online/internal/game/rules"
)

// The validators below are pure: they read game state and report the first
// violated rule. Checks run in a fixed order: turn ownership, habitat,
// quantity against habitat strength, then action-specific resources.

func (g *Game) player(id string) (*Player, error) {
	p, ok := g.Player(id)
	if !ok {
		return nil, rules.NotFoundf("Player not found")
	}
	return p, nil
}

// requireTurn is the single turn guard shared by every turn-bound action.
func (g *Game) requireTurn(p *Player) error {
	if g.phase != PhasePlay {
		return rules.Phasef("Game is not in playable state")
	}
	if !g.turn.IsActive(p) {
		return rules.Turnf("Not your turn")
	}
	return nil
}

func requireHabitat(got, want catalog.Habitat) error {
	if got != want {
		return rules.Invalidf("Must use %s", habitatTitle(want))
	}
	return nil
}

func habitatTitle(h catalog.Habitat) string {
	switch h {
	case catalog.Forest:
		return "Forest"
	case catalog.Grassland:
		return "Grassland"
	case catalog.Wetlands:
		return "Wetlands"
	default:
		return string(h)
	}
}

// ValidateGainFood checks a forest gain-food action taking foods from the
// birdfeeder.
func ValidateGainFood(g *Game, p *Player, habitat catalog.Habitat, foods []food.Kind) error {
	if err := g.requireTurn(p); err != nil {
		return err
	}
	if err := requireHabitat(habitat, catalog.Forest); err != nil {
		return err
	}
	if strength := p.Strength(catalog.Forest); len(foods) != strength {
		return rules.Quantityf("Must gain exactly %d food", strength)
	}
	available := g.dice.Counts()
	for _, k := range foods {
		if !k.Valid() {
			return rules.Invalidf("Unknown food kind %q", k)
		}
		if !available.Spend(k, 1) {
			return rules.Resourcef("%s is not available in the birdfeeder", k)
		}
	}
	return nil
}

// ValidateLayEggs checks a grassland lay-eggs action placing one egg per
// entry of birdIDs. Repeated ids lay several eggs on the same bird.
func ValidateLayEggs(g *Game, p *Player, habitat catalog.Habitat, birdIDs []string) error {
	if err := g.requireTurn(p); err != nil {
		return err
	}
	if err := requireHabitat(habitat, catalog.Grassland); err != nil {
		return err
	}
	if strength := p.Strength(catalog.Grassland); len(birdIDs) != strength {
		return rules.Quantityf("Must lay exactly %d eggs", strength)
	}
	planned := make(map[*PlacedBird]int, len(birdIDs))
	for _, id := range birdIDs {
		b := p.findBird(id)
		if b == nil {
			return rules.NotFoundf("Bird not found")
		}
		planned[b]++
		if capacity := g.settings.eggCapacity(b); b.Eggs+planned[b] > capacity {
			return rules.Capacityf("%s is at egg capacity (%d)", b.Name, capacity)
		}
	}
	return nil
}

// ValidateDrawCards checks a wetlands draw-cards action. fromTray names
// face-up cards to take before drawing the rest from the deck.
func ValidateDrawCards(g *Game, p *Player, habitat catalog.Habitat, count int, fromTray []string) error {
	if err := g.requireTurn(p); err != nil {
		return err
	}
	if err := requireHabitat(habitat, catalog.Wetlands); err != nil {
		return err
	}
	if strength := p.Strength(catalog.Wetlands); count != strength {
		return rules.Quantityf("Must draw exactly %d cards", strength)
	}
	if len(fromTray) > count {
		return rules.Quantityf("Cannot take %d tray cards when drawing %d", len(fromTray), count)
	}
	tray := g.tray.Cards()
	for _, id := range fromTray {
		i := findCard(tray, id)
		if i < 0 {
			return rules.NotFoundf("%s is not in the bird tray", id)
		}
		tray = append(tray[:i], tray[i+1:]...)
	}
	return nil
}

// ValidatePlayBird checks playing birdID from hand into habitat, paying its
// food cost with wild covering wildcard entries.
func ValidatePlayBird(g *Game, p *Player, birdID string, habitat catalog.Habitat, wild []food.Kind) error {
	if err := g.requireTurn(p); err != nil {
		return err
	}
	i := findCard(p.Hand, birdID)
	if i < 0 {
		return rules.NotFoundf("Bird not in hand")
	}
	card := p.Hand[i]
	if !card.Allows(habitat) {
		return rules.Invalidf("Invalid habitat")
	}
	if len(p.Habitats[habitat]) >= g.settings.HabitatSlots {
		return rules.Capacityf("%s is full", habitatTitle(habitat))
	}
	if _, err := payFor(card, p, wild); err != nil {
		return err
	}
	if cost, have := eggCost(p, habitat), p.TotalEggs(); have < cost {
		return rules.Resourcef("Not enough eggs: need %d, have %d", cost, have)
	}
	return nil
}

// payFor plans the food payment for card. Validation and execution share it
// so both always agree on which tokens are spent.
func payFor(card Card, p *Player, wild []food.Kind) (food.PaymentPlan, error) {
	cost, err := card.Cost()
	if err != nil {
		return nil, rules.Invalidf("%s has an invalid food cost", card.Name)
	}
	res := food.CalculatePayment(cost, p.Food, wild)
	if !res.Success {
		return nil, rules.Resourcef("Insufficient food: %s", res.Reason)
	}
	return res.Plan, nil
}

// eggCost is the egg price of the next slot in habitat: the k-th slot
// (0-indexed) costs min(k, 3).
func eggCost(p *Player, habitat catalog.Habitat) int {
	k := len(p.Habitats[habitat])
	if k > 3 {
		return 3
	}
	return k
}
