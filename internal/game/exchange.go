package game

import (
	"github.com/varunish/Wingspan-online/internal/game/food"
	"github.com/varunish/Wingspan-online/internal/game/rules"
)

// ExchangeKind names a player-mat resource exchange.
type ExchangeKind string

const (
	ExchangeEggForFood  ExchangeKind = "egg_for_food"
	ExchangeExtraEgg    ExchangeKind = "extra_egg"
	ExchangeFoodForCard ExchangeKind = "food_for_card"
	ExchangeFoodForTuck ExchangeKind = "food_for_tuck"
)

// ExchangeParams carries the optional arguments of an exchange.
type ExchangeParams struct {
	Food   food.Kind `json:"foodType,omitempty"`
	Food2  food.Kind `json:"foodType2,omitempty"`
	BirdID string    `json:"birdId,omitempty"`
	CardID string    `json:"cardId,omitempty"`
}

// ExchangeResource trades resources on the acting player's turn without
// spending an action cube.
//
//   - egg_for_food: remove 1 egg (first bird in scan order with one) and gain
//     Food and Food2 from the supply, seed by default.
//   - extra_egg: pay 1 Food (first held kind by default) to lay 1 egg on BirdID.
//   - food_for_card: pay 1 Food (invertebrate by default) to draw 1 card.
//   - food_for_tuck: pay 1 Food (invertebrate by default) to tuck CardID (the
//     last card in hand by default) behind BirdID.
func (g *Game) ExchangeResource(playerID string, kind ExchangeKind, params ExchangeParams) error {
	p, err := g.player(playerID)
	if err != nil {
		return err
	}
	if err := g.requireTurn(p); err != nil {
		return err
	}

	switch kind {
	case ExchangeEggForFood:
		return g.exchangeEggForFood(p, params)
	case ExchangeExtraEgg:
		return g.exchangeExtraEgg(p, params)
	case ExchangeFoodForCard:
		return g.exchangeFoodForCard(p, params)
	case ExchangeFoodForTuck:
		return g.exchangeFoodForTuck(p, params)
	default:
		return rules.Invalidf("Unknown exchange type: %s", kind)
	}
}

func (g *Game) exchangeEggForFood(p *Player, params ExchangeParams) error {
	first := orDefault(params.Food, food.Seed)
	second := orDefault(params.Food2, food.Seed)
	if !first.Valid() || !second.Valid() {
		return rules.Invalidf("Unknown food kind")
	}

	var source *PlacedBird
	for _, b := range p.Birds() {
		if b.Eggs > 0 {
			source = b
			break
		}
	}
	if source == nil {
		return rules.Resourcef("No bird has eggs to exchange")
	}

	source.Eggs--
	p.Food.Add(first, 1)
	p.Food.Add(second, 1)
	g.log("%s exchanged 1 egg for 2 food from supply", p.Name)
	return nil
}

func (g *Game) exchangeExtraEgg(p *Player, params ExchangeParams) error {
	if params.BirdID == "" {
		return rules.Invalidf("No bird selected for extra egg")
	}
	b := p.findBird(params.BirdID)
	if b == nil {
		return rules.NotFoundf("Bird not found")
	}
	if capacity := g.settings.eggCapacity(b); b.Eggs >= capacity {
		return rules.Capacityf("%s is at egg capacity (%d)", b.Name, capacity)
	}
	pay := params.Food
	if pay == "" {
		var ok bool
		if pay, ok = p.Food.First(); !ok {
			return rules.Resourcef("No food to pay for an extra egg")
		}
	}
	if !p.Food.Spend(pay, 1) {
		return rules.Resourcef("Not enough %s to exchange", pay)
	}

	b.Eggs++
	g.log("%s laid 1 bonus egg on %s (paid 1 %s)", p.Name, b.Name, pay)
	return nil
}

func (g *Game) exchangeFoodForCard(p *Player, params ExchangeParams) error {
	pay := orDefault(params.Food, food.Invertebrate)
	if p.Food.Count(pay) < 1 {
		return rules.Resourcef("Not enough %s to exchange", pay)
	}
	if len(p.Hand) >= g.settings.HandLimit {
		return rules.Capacityf("Hand is full (%d cards)", g.settings.HandLimit)
	}
	card, ok := g.deck.Draw()
	if !ok {
		return rules.NotFoundf("No cards left to draw")
	}

	p.Food.Spend(pay, 1)
	p.Hand = append(p.Hand, card)
	g.log("%s exchanged 1 %s for 1 card", p.Name, pay)
	return nil
}

func (g *Game) exchangeFoodForTuck(p *Player, params ExchangeParams) error {
	pay := orDefault(params.Food, food.Invertebrate)
	if p.Food.Count(pay) < 1 {
		return rules.Resourcef("Not enough %s to exchange", pay)
	}
	if params.BirdID == "" {
		return rules.Invalidf("No bird selected to tuck card")
	}
	if len(p.Hand) == 0 {
		return rules.Resourcef("No cards in hand to tuck")
	}
	b := p.findBird(params.BirdID)
	if b == nil {
		return rules.NotFoundf("Bird not found")
	}
	i := len(p.Hand) - 1
	if params.CardID != "" {
		if i = findCard(p.Hand, params.CardID); i < 0 {
			return rules.NotFoundf("%s is not in your hand", params.CardID)
		}
	}

	p.Food.Spend(pay, 1)
	card := p.removeFromHand(i)
	b.Tucked = append(b.Tucked, card)
	g.log("%s tucked %s under %s (paid 1 %s)", p.Name, card.Name, b.Name, pay)
	return nil
}

func orDefault(k, def food.Kind) food.Kind {
	if k == "" {
		return def
	}
	return k
}
