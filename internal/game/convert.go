package game

import (
	"github.com/varunish/Wingspan-online/internal/game/food"
	"github.com/varunish/Wingspan-online/internal/game/rules"
)

// ConvertFood trades exactly two held tokens for one token of a kind showing
// in the birdfeeder. The matching die is taken and re-rolled, so the tray keeps
// its size. No action cube is spent.
func (g *Game) ConvertFood(playerID string, give []food.Kind, get food.Kind) error {
	p, err := g.player(playerID)
	if err != nil {
		return err
	}
	if err := g.requireTurn(p); err != nil {
		return err
	}
	if len(give) != 2 {
		return rules.Quantityf("Must convert exactly 2 food tokens")
	}

	remaining := p.Food.Copy()
	for _, k := range give {
		if !remaining.Spend(k, 1) {
			return rules.Resourcef("Not enough %s to convert", k)
		}
	}
	if !get.Valid() {
		return rules.Invalidf("Unknown food kind %q", get)
	}
	if !g.dice.Has(get) {
		return rules.Resourcef("%s is not available in the birdfeeder", get)
	}

	for _, k := range give {
		p.Food.Spend(k, 1)
	}
	g.dice.Take(get)
	p.Food.Add(get, 1)
	g.log("%s converted 2 food (%s, %s) for 1 %s", p.Name, give[0], give[1], get)
	return nil
}
