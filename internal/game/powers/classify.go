package powers

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/varunish/Wingspan-online/internal/catalog"
	"github.com/varunish/Wingspan-online/internal/game/food"
)

const defaultMaxWingspan = 75

var (
	numberPattern   = regexp.MustCompile(`\d+`)
	pointsPattern   = regexp.MustCompile(`(\d+)\s*(?:points?|pts?)\b`)
	keepPattern     = regexp.MustCompile(`keep\s+(\d+)`)
	wingspanPattern = regexp.MustCompile(`(?:<\s*|less than\s+)(\d+)\s*cm`)
)

type rule struct {
	kind  Kind
	match func(text string) bool
	build func(text string, e *Effect)
}

// activationRules cover when-played and when-activated text.
var activationRules = []rule{
	{AllPlayersDraw, allOf("all players", "draw"), withCount},
	{AllPlayersGain, allOf("all players", "gain"), withFood},
	{DrawBonusCards, allOf("bonus card", "draw"), func(t string, e *Effect) {
		e.Count = firstNumber(t, 2)
		e.Keep = 1
		if m := keepPattern.FindStringSubmatch(t); m != nil {
			e.Keep, _ = strconv.Atoi(m[1])
		}
	}},
	{ConditionalTuck, func(t string) bool {
		return strings.Contains(t, "tuck") && (strings.Contains(t, "wingspan") || wingspanPattern.MatchString(t))
	}, func(t string, e *Effect) {
		e.MaxWingspan = defaultMaxWingspan
		if m := wingspanPattern.FindStringSubmatch(t); m != nil {
			e.MaxWingspan, _ = strconv.Atoi(m[1])
		}
	}},
	{TuckAndLayEgg, allOf("tuck", "lay", "egg"), func(_ string, e *Effect) { e.Target = ThisBird }},
	{TuckAndDraw, allOf("tuck", "draw"), nil},
	{TuckCard, allOf("tuck"), withCount},
	{DrawCard, allOf("draw", "card"), withCount},
	{LayEgg, allOf("lay", "egg"), withTarget},
	{GainFood, allOf("gain"), withFood},
	{CacheFood, allOf("cache"), withFood},
}

// reactiveRules cover "when another player ..." text.
var reactiveRules = []rule{
	{OnOtherGainsFood, allOf("gain food"), func(t string, e *Effect) {
		e.Food = extractFood(t)
	}},
	{OnOtherLaysEggs, allOf("lay eggs"), func(t string, e *Effect) {
		e.Nest = extractNest(t)
	}},
	{OnOtherPlaysBird, allOf("plays a", "bird"), func(t string, e *Effect) {
		e.Habitat = extractHabitat(t)
		e.Tuck = strings.Contains(t, "tuck")
		if !e.Tuck {
			e.Food = extractFood(t)
		}
	}},
	{OnOtherPredator, allOf("predator succeeds"), nil},
}

var endOfRoundRules = []rule{
	{DrawCard, allOf("draw", "card"), withCount},
	{GainFood, allOf("gain"), withFood},
	{LayEgg, allOf("lay", "egg"), withTarget},
	{DiscardCard, allOf("discard", "card"), withCount},
	{TuckCard, allOf("tuck"), withCount},
}

var endOfGameRules = []rule{
	{PointsPerTucked, anyOf("tuck", "behind this bird"), withPoints},
	{PointsPerEgg, allOf("egg", "this bird"), withPoints},
	{PointsPerCached, allOf("cache"), withPoints},
	{PointsPerFoodSet, allOf("set", "food"), withPoints},
	{PointsPerBird, allOf("bird"), func(t string, e *Effect) {
		withPoints(t, e)
		e.Habitat = extractHabitat(t)
		if e.Habitat == "" {
			e.Nest = extractNest(t)
		}
	}},
	{PointsPerHabitatEgg, func(t string) bool {
		return strings.Contains(t, "egg") && extractHabitat(t) != ""
	}, func(t string, e *Effect) {
		withPoints(t, e)
		e.Habitat = extractHabitat(t)
	}},
}

// Classify maps a bird power to a structured effect. The trigger selects the
// rule table; text is matched case-insensitively.
func Classify(trigger catalog.Trigger, text string) Effect {
	t := strings.ToLower(strings.TrimSpace(text))
	e := Effect{Kind: Unclassified, Text: text}
	if t == "" {
		return e
	}

	var table []rule
	switch {
	case trigger == catalog.TriggerEndOfGame:
		if !strings.Contains(t, "point") && !strings.Contains(t, "pt") {
			return e
		}
		table = endOfGameRules
	case trigger == catalog.TriggerEndOfRound:
		table = endOfRoundRules
	case strings.Contains(t, "when another player"):
		table = reactiveRules
	default:
		table = activationRules
	}

	for _, r := range table {
		if !r.match(t) {
			continue
		}
		e.Kind = r.kind
		e.Count = 1
		if r.build != nil {
			r.build(t, &e)
		}
		return e
	}
	return e
}

// ClassifyBird classifies a catalog bird's declared power.
func ClassifyBird(b catalog.Bird) Effect {
	return Classify(b.Power.Trigger, b.Power.Text)
}

func allOf(words ...string) func(string) bool {
	return func(t string) bool {
		for _, w := range words {
			if !strings.Contains(t, w) {
				return false
			}
		}
		return true
	}
}

func anyOf(words ...string) func(string) bool {
	return func(t string) bool {
		for _, w := range words {
			if strings.Contains(t, w) {
				return true
			}
		}
		return false
	}
}

func withCount(t string, e *Effect) {
	e.Count = firstNumber(t, 1)
}

func withTarget(t string, e *Effect) {
	withCount(t, e)
	e.Target = AnyBird
	if strings.Contains(t, "this bird") {
		e.Target = ThisBird
	}
}

func withFood(t string, e *Effect) {
	withCount(t, e)
	e.Food = extractFood(t)
	e.Source = FromSupply
	if strings.Contains(t, "birdfeeder") || strings.Contains(t, "[die]") {
		e.Source = FromFeeder
	}
}

func withPoints(t string, e *Effect) {
	e.Points = 1
	if m := pointsPattern.FindStringSubmatch(t); m != nil {
		e.Points, _ = strconv.Atoi(m[1])
	}
}

func firstNumber(t string, def int) int {
	m := numberPattern.FindString(t)
	if m == "" {
		return def
	}
	n, err := strconv.Atoi(m)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func extractFood(t string) food.Kind {
	for _, k := range food.Kinds {
		if strings.Contains(t, string(k)) {
			return k
		}
	}
	return food.Wild
}

func extractHabitat(t string) catalog.Habitat {
	switch {
	case strings.Contains(t, "forest"):
		return catalog.Forest
	case strings.Contains(t, "grassland"):
		return catalog.Grassland
	case strings.Contains(t, "wetland"):
		return catalog.Wetlands
	default:
		return ""
	}
}

func extractNest(t string) catalog.Nest {
	for _, n := range []catalog.Nest{catalog.NestGround, catalog.NestBowl, catalog.NestCavity, catalog.NestPlatform} {
		if strings.Contains(t, "["+string(n)+"]") || strings.Contains(t, string(n)+" nest") {
			return n
		}
	}
	return ""
}
