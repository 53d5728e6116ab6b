package game

import (
	"go.uber.org/zap"

	"github.com/varunish/Wingspan-online/internal/catalog"
	"github.com/varunish/Wingspan-online/internal/game/food"
	"github.com/varunish/Wingspan-online/internal/game/powers"
	"github.com/varunish/Wingspan-online/internal/game/rules"
)

// runAction spends one action cube around fn. The cube is taken before fn
// runs and handed back if fn fails, so a rejected action leaves the budget
// as it was. On success the turn advances.
func (g *Game) runAction(action, playerID string, fn func(p *Player) ([]rules.Activation, error)) ([]rules.Activation, error) {
	p, err := g.player(playerID)
	if err != nil {
		return nil, err
	}
	if err := g.requireTurn(p); err != nil {
		return nil, err
	}
	if p.ActionCubes <= 0 {
		return nil, rules.Resourcef("No action cubes remaining")
	}

	p.ActionCubes--
	acts, err := fn(p)
	if err != nil {
		p.ActionCubes++
		g.logger.Warn("action rejected",
			zap.String("game_id", g.id),
			zap.String("action", action),
			zap.String("player_id", playerID),
			zap.Error(err),
		)
		return nil, err
	}
	return append(acts, g.afterAction()...), nil
}

// GainFood takes foods from the birdfeeder using the forest row, then
// activates forest birds right to left.
func (g *Game) GainFood(playerID string, habitat catalog.Habitat, foods []food.Kind) ([]rules.Activation, error) {
	return g.runAction("gain_food", playerID, func(p *Player) ([]rules.Activation, error) {
		if err := ValidateGainFood(g, p, habitat, foods); err != nil {
			return nil, err
		}

		gained := make([]string, 0, len(foods))
		for _, k := range foods {
			g.dice.Take(k)
			p.Food.Add(k, 1)
			gained = append(gained, string(k))
		}
		g.log("%s gained %d food from Forest", p.Name, len(foods))

		acts := g.activateHabitat(p, catalog.Forest)

		evt := rules.NewEvent(rules.EventFoodGained, p.ID)
		evt.Habitat = string(catalog.Forest)
		evt.Foods = gained
		evt.Amount = len(gained)
		return append(acts, g.publish(evt)...), nil
	})
}

// LayEggs lays one egg per bird id using the grassland row, then activates
// grassland birds right to left.
func (g *Game) LayEggs(playerID string, habitat catalog.Habitat, birdIDs []string) ([]rules.Activation, error) {
	return g.runAction("lay_eggs", playerID, func(p *Player) ([]rules.Activation, error) {
		if err := ValidateLayEggs(g, p, habitat, birdIDs); err != nil {
			return nil, err
		}

		for _, id := range birdIDs {
			p.findBird(id).Eggs++
		}
		g.log("%s laid %d eggs", p.Name, len(birdIDs))

		acts := g.activateHabitat(p, catalog.Grassland)

		evt := rules.NewEvent(rules.EventEggsLaid, p.ID)
		evt.Habitat = string(catalog.Grassland)
		evt.Amount = len(birdIDs)
		return append(acts, g.publish(evt)...), nil
	})
}

// DrawCards draws count cards using the wetlands row, taking the named tray
// cards first, then activates wetland birds right to left.
func (g *Game) DrawCards(playerID string, habitat catalog.Habitat, count int, fromTray []string) ([]rules.Activation, error) {
	return g.runAction("draw_cards", playerID, func(p *Player) ([]rules.Activation, error) {
		if err := ValidateDrawCards(g, p, habitat, count, fromTray); err != nil {
			return nil, err
		}

		drawn := make([]Card, 0, count)
		for _, id := range fromTray {
			c, _ := g.tray.Take(id)
			drawn = append(drawn, c)
			g.log("%s drew %s from face-up tray", p.Name, c.Name)
		}
		drawn = append(drawn, g.deck.DrawN(count-len(drawn))...)
		g.tray.Refill(g.deck)

		if dropped := p.addToHand(drawn, g.settings.HandLimit); dropped > 0 {
			g.log("%s exceeded hand limit, discarding %d cards", p.Name, dropped)
		}
		g.log("%s drew %d cards", p.Name, len(drawn))

		acts := g.activateHabitat(p, catalog.Wetlands)

		evt := rules.NewEvent(rules.EventCardsDrawn, p.ID)
		evt.Habitat = string(catalog.Wetlands)
		evt.Amount = len(drawn)
		return append(acts, g.publish(evt)...), nil
	})
}

// PlayBird pays a bird's food and egg cost and places it at the next slot of
// habitat. Its when-played power resolves immediately and a between-turns
// power starts listening for other players' actions.
func (g *Game) PlayBird(playerID, birdID string, habitat catalog.Habitat, wild []food.Kind) ([]rules.Activation, error) {
	return g.runAction("play_bird", playerID, func(p *Player) ([]rules.Activation, error) {
		if err := ValidatePlayBird(g, p, birdID, habitat, wild); err != nil {
			return nil, err
		}

		i := findCard(p.Hand, birdID)
		plan, err := payFor(p.Hand[i], p, wild)
		if err != nil {
			return nil, err
		}
		food.ExecutePayment(plan, p.Food)

		eggs := eggCost(p, habitat)
		p.drainEggs(eggs)

		placed := &PlacedBird{Card: p.removeFromHand(i)}
		p.Habitats[habitat] = append(p.Habitats[habitat], placed)

		if eggs > 0 {
			g.log("%s played %s in %s (paid %d eggs)", p.Name, placed.Name, habitat, eggs)
		} else {
			g.log("%s played %s in %s", p.Name, placed.Name, habitat)
		}

		var acts []rules.Activation
		effect := powers.ClassifyBird(placed.Bird)
		switch {
		case effect.Kind.Reactive():
			g.registerReaction(p, placed, effect)
		case placed.Power.Trigger == catalog.TriggerWhenPlayed:
			if act := g.resolvePower(p, placed); act != nil {
				acts = append(acts, *act)
			}
		}

		evt := rules.NewEvent(rules.EventBirdPlayed, p.ID)
		evt.SourceID = placed.InstanceID
		evt.Habitat = string(habitat)
		evt.Data = placed.ID
		return append(acts, g.publish(evt)...), nil
	})
}
