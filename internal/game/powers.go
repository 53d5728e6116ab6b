package game

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/varunish/Wingspan-online/internal/catalog"
	"github.com/varunish/Wingspan-online/internal/game/food"
	"github.com/varunish/Wingspan-online/internal/game/powers"
	"github.com/varunish/Wingspan-online/internal/game/rules"
)

// powerHandler applies a classified effect for bird and returns a message, or
// "" when nothing happened.
type powerHandler func(g *Game, p *Player, b *PlacedBird, e powers.Effect) string

// powerHandlers dispatches by trigger timing. Between-turn powers are driven
// by the trigger manager and end-of-game powers are only evaluated by scoring,
// so neither appears here.
var powerHandlers = map[catalog.Trigger]powerHandler{
	catalog.TriggerWhenPlayed:   applyEffect,
	catalog.TriggerWhenActivate: applyEffect,
	catalog.TriggerEndOfRound:   applyEffect,
}

// activateHabitat resolves when-activated powers of the birds in h, right to
// left.
func (g *Game) activateHabitat(p *Player, h catalog.Habitat) []rules.Activation {
	var acts []rules.Activation
	birds := p.Habitats[h]
	for i := len(birds) - 1; i >= 0; i-- {
		b := birds[i]
		if b.Power.Trigger != catalog.TriggerWhenActivate {
			continue
		}
		if act := g.resolvePower(p, b); act != nil {
			acts = append(acts, *act)
		}
	}
	return acts
}

// resolveEndOfRound fires end-of-round powers for every player in seat order
// and scan order.
func (g *Game) resolveEndOfRound() []rules.Activation {
	var acts []rules.Activation
	for _, p := range g.players {
		for _, b := range p.Birds() {
			if b.Power.Trigger != catalog.TriggerEndOfRound {
				continue
			}
			if act := g.resolvePower(p, b); act != nil {
				acts = append(acts, *act)
			}
		}
	}
	return acts
}

func (g *Game) resolvePower(p *Player, b *PlacedBird) *rules.Activation {
	handler, ok := powerHandlers[b.Power.Trigger]
	if !ok {
		return nil
	}
	effect := powers.ClassifyBird(b.Bird)
	if effect.Kind == powers.Unclassified {
		g.logger.Debug("unclassified power",
			zap.String("bird", b.Name),
			zap.String("text", b.Power.Text),
		)
		return nil
	}
	if effect.Kind.Reactive() || effect.Kind.Scoring() {
		return nil
	}

	msg := handler(g, p, b, effect)
	if msg == "" {
		return nil
	}
	g.log("%s: %s (%s)", p.Name, msg, timingLabel(b.Power.Trigger))
	act := &rules.Activation{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		BirdName:   b.Name,
		Message:    msg,
	}
	if effect.Kind == powers.DrawBonusCards && p.PendingBonus != nil {
		ids := make([]string, len(p.PendingBonus.Cards))
		for i, c := range p.PendingBonus.Cards {
			ids[i] = c.InstanceID
		}
		act.Extra = map[string]any{
			"pendingBonusSelection": true,
			"bonusCards":            ids,
			"keep":                  p.PendingBonus.Keep,
		}
	}
	return act
}

func timingLabel(t catalog.Trigger) string {
	switch t {
	case catalog.TriggerWhenPlayed:
		return "when played"
	case catalog.TriggerEndOfRound:
		return "end of round"
	case catalog.TriggerBetweenTurns:
		return "between turns"
	default:
		return "power activated"
	}
}

func applyEffect(g *Game, p *Player, b *PlacedBird, e powers.Effect) string {
	switch e.Kind {
	case powers.DrawCard:
		n := g.drawInto(p, e.Count)
		if n == 0 {
			return ""
		}
		return fmt.Sprintf("%s drew %d card(s)", b.Name, n)

	case powers.AllPlayersDraw:
		for _, other := range g.players {
			g.drawInto(other, e.Count)
		}
		return fmt.Sprintf("%s: all players drew %d card(s)", b.Name, e.Count)

	case powers.AllPlayersGain:
		for _, other := range g.players {
			for i := 0; i < e.Count; i++ {
				g.gainFood(other, e.Food, e.Source)
			}
		}
		return fmt.Sprintf("%s: all players gained %d %s", b.Name, e.Count, e.Food)

	case powers.DrawBonusCards:
		if p.PendingBonus != nil {
			g.bonusDeck.Return(p.PendingBonus.Cards...)
			p.PendingBonus = nil
		}
		drawn := g.bonusDeck.DrawN(e.Count)
		if len(drawn) == 0 {
			return ""
		}
		if e.Keep >= len(drawn) {
			p.BonusCards = append(p.BonusCards, drawn...)
			return fmt.Sprintf("%s drew %d bonus card(s)", b.Name, len(drawn))
		}
		p.PendingBonus = &PendingBonus{BirdName: b.Name, Cards: drawn, Keep: e.Keep}
		return fmt.Sprintf("%s drew %d bonus cards, choose %d to keep", b.Name, len(drawn), e.Keep)

	case powers.ConditionalTuck:
		c, ok := g.deck.Draw()
		if !ok {
			return ""
		}
		if c.Wingspan > 0 && c.Wingspan < e.MaxWingspan {
			b.Tucked = append(b.Tucked, c)
			return fmt.Sprintf("%s tucked %s (%dcm)", b.Name, c.Name, c.Wingspan)
		}
		return fmt.Sprintf("%s discarded %s (%dcm)", b.Name, c.Name, c.Wingspan)

	case powers.TuckAndLayEgg:
		if !tuckFromHand(p, b, 1) {
			return ""
		}
		if b.Eggs < g.settings.eggCapacity(b) {
			b.Eggs++
			return fmt.Sprintf("%s tucked a card and laid 1 egg", b.Name)
		}
		return fmt.Sprintf("%s tucked a card", b.Name)

	case powers.TuckAndDraw:
		if !tuckFromHand(p, b, 1) {
			return ""
		}
		g.drawInto(p, 1)
		return fmt.Sprintf("%s tucked a card and drew 1 card", b.Name)

	case powers.TuckCard:
		n := 0
		for n < e.Count && tuckFromHand(p, b, 1) {
			n++
		}
		if n == 0 {
			return ""
		}
		return fmt.Sprintf("%s tucked %d card(s)", b.Name, n)

	case powers.LayEgg:
		n := g.layEggs(p, b, e.Count, e.Target)
		if n == 0 {
			return ""
		}
		return fmt.Sprintf("%s laid %d egg(s)", b.Name, n)

	case powers.GainFood:
		var got []food.Kind
		for i := 0; i < e.Count; i++ {
			k, ok := g.gainFood(p, e.Food, e.Source)
			if !ok {
				break
			}
			got = append(got, k)
		}
		if len(got) == 0 {
			return ""
		}
		return fmt.Sprintf("%s gained %s", b.Name, describeFoods(got))

	case powers.CacheFood:
		var got []food.Kind
		for i := 0; i < e.Count; i++ {
			k, ok := g.takeFood(e.Food, e.Source)
			if !ok {
				break
			}
			b.Cached = append(b.Cached, k)
			got = append(got, k)
		}
		if len(got) == 0 {
			return ""
		}
		return fmt.Sprintf("%s cached %s", b.Name, describeFoods(got))

	case powers.DiscardCard:
		n := 0
		for n < e.Count {
			if _, ok := p.popHand(); !ok {
				break
			}
			n++
		}
		if n == 0 {
			return ""
		}
		return fmt.Sprintf("%s discarded %d card(s)", b.Name, n)
	}
	return ""
}

// drawInto draws n deck cards into p's hand under the hand limit and returns
// how many were drawn.
func (g *Game) drawInto(p *Player, n int) int {
	drawn := g.deck.DrawN(n)
	p.addToHand(drawn, g.settings.HandLimit)
	return len(drawn)
}

// takeFood produces one token of k. Wild or feeder sourced food comes from the
// birdfeeder; named food from the supply is unlimited.
func (g *Game) takeFood(k food.Kind, src powers.Source) (food.Kind, bool) {
	if k == food.Wild {
		return g.dice.TakeFirst()
	}
	if src == powers.FromFeeder {
		if !g.dice.Take(k) {
			return "", false
		}
	}
	return k, true
}

func (g *Game) gainFood(p *Player, k food.Kind, src powers.Source) (food.Kind, bool) {
	got, ok := g.takeFood(k, src)
	if ok {
		p.Food.Add(got, 1)
	}
	return got, ok
}

func tuckFromHand(p *Player, b *PlacedBird, n int) bool {
	for i := 0; i < n; i++ {
		c, ok := p.popHand()
		if !ok {
			return i > 0
		}
		b.Tucked = append(b.Tucked, c)
	}
	return true
}

// layEggs lays up to n eggs on b, or on any of p's birds with room in scan
// order, and returns how many were laid.
func (g *Game) layEggs(p *Player, b *PlacedBird, n int, target powers.Target) int {
	candidates := []*PlacedBird{b}
	if target == powers.AnyBird {
		candidates = p.Birds()
	}
	laid := 0
	for _, c := range candidates {
		for laid < n && c.Eggs < g.settings.eggCapacity(c) {
			c.Eggs++
			laid++
		}
	}
	return laid
}

func describeFoods(ks []food.Kind) string {
	if len(ks) == 1 {
		return "1 " + string(ks[0])
	}
	counts := food.NewStore()
	for _, k := range ks {
		counts.Add(k, 1)
	}
	out := ""
	for _, k := range food.Kinds {
		if n := counts.Count(k); n > 0 {
			if out != "" {
				out += ", "
			}
			out += fmt.Sprintf("%d %s", n, k)
		}
	}
	return out
}

// registerReaction wires a between-turns power to the events of other
// players.
func (g *Game) registerReaction(owner *Player, b *PlacedBird, e powers.Effect) {
	trigger := rules.Trigger{
		SourceID:   b.InstanceID,
		Controller: owner.ID,
	}
	switch e.Kind {
	case powers.OnOtherGainsFood:
		trigger.EventType = rules.EventFoodGained
		trigger.Condition = func(evt rules.Event) bool {
			if e.Food == food.Wild {
				return len(evt.Foods) > 0
			}
			for _, f := range evt.Foods {
				if food.Kind(f) == e.Food {
					return true
				}
			}
			return false
		}
		trigger.Resolve = func(evt rules.Event) *rules.Activation {
			k, ok := g.takeFood(e.Food, powers.FromSupply)
			if !ok {
				return nil
			}
			if strings.Contains(strings.ToLower(e.Text), "cache") {
				b.Cached = append(b.Cached, k)
				return g.reaction(owner, b, fmt.Sprintf("%s's %s cached 1 %s", owner.Name, b.Name, k))
			}
			owner.Food.Add(k, 1)
			return g.reaction(owner, b, fmt.Sprintf("%s's %s gained 1 %s", owner.Name, b.Name, k))
		}

	case powers.OnOtherLaysEggs:
		trigger.EventType = rules.EventEggsLaid
		trigger.Resolve = func(evt rules.Event) *rules.Activation {
			for _, other := range owner.Birds() {
				if other == b || (e.Nest != "" && !other.Nest.Matches(e.Nest)) {
					continue
				}
				if other.Eggs < g.settings.eggCapacity(other) {
					other.Eggs++
					return g.reaction(owner, b, fmt.Sprintf("%s's %s laid 1 egg on %s", owner.Name, b.Name, other.Name))
				}
			}
			return nil
		}

	case powers.OnOtherPlaysBird:
		trigger.EventType = rules.EventBirdPlayed
		trigger.Condition = func(evt rules.Event) bool {
			return e.Habitat == "" || evt.Habitat == string(e.Habitat)
		}
		trigger.Resolve = func(evt rules.Event) *rules.Activation {
			if e.Tuck {
				if !tuckFromHand(owner, b, 1) {
					return nil
				}
				return g.reaction(owner, b, fmt.Sprintf("%s's %s tucked a card", owner.Name, b.Name))
			}
			k, ok := g.gainFood(owner, e.Food, powers.FromSupply)
			if !ok {
				return nil
			}
			return g.reaction(owner, b, fmt.Sprintf("%s's %s gained 1 %s", owner.Name, b.Name, k))
		}

	default:
		// Predators are not simulated, so nothing can ever trigger this.
		g.logger.Debug("reactive power never fires",
			zap.String("bird", b.Name),
			zap.String("kind", string(e.Kind)),
		)
		return
	}
	g.triggers.Register(trigger)
}

func (g *Game) reaction(owner *Player, b *PlacedBird, msg string) *rules.Activation {
	g.log("%s (between-turn power)", msg)
	return &rules.Activation{
		PlayerID:   owner.ID,
		PlayerName: owner.Name,
		BirdName:   b.Name,
		Message:    msg,
	}
}

// endOfGamePoints evaluates a bird's end-of-game scoring power. It never
// mutates state.
func endOfGamePoints(p *Player, b *PlacedBird) int {
	if b.Power.Trigger != catalog.TriggerEndOfGame {
		return 0
	}
	e := powers.ClassifyBird(b.Bird)
	if !e.Kind.Scoring() {
		return 0
	}
	units := 0
	switch e.Kind {
	case powers.PointsPerTucked:
		units = len(b.Tucked)
	case powers.PointsPerEgg:
		units = b.Eggs
	case powers.PointsPerCached:
		units = len(b.Cached)
	case powers.PointsPerFoodSet:
		units = -1
		for _, k := range food.Kinds {
			if n := p.Food.Count(k); units < 0 || n < units {
				units = n
			}
		}
	case powers.PointsPerBird:
		switch {
		case e.Habitat != "":
			units = len(p.Habitats[e.Habitat])
		case e.Nest != "":
			units = countNest(p, e.Nest)
		}
	case powers.PointsPerHabitatEgg:
		for _, other := range p.Habitats[e.Habitat] {
			units += other.Eggs
		}
	}
	return units * e.Points
}
