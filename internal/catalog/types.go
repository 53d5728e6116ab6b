package catalog

import (
	"fmt"
	"strings"

	"github.com/varunish/Wingspan-online/internal/game/food"
)

// Habitat is one of the three tracks a bird can be placed in.
type Habitat string

const (
	Forest    Habitat = "forest"
	Grassland Habitat = "grassland"
	Wetlands  Habitat = "wetlands"
)

// Habitats lists the habitats in scan order.
var Habitats = []Habitat{Forest, Grassland, Wetlands}

// ParseHabitat normalizes s, accepting singular and plural spellings.
func ParseHabitat(s string) (Habitat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forest", "forests":
		return Forest, nil
	case "grassland", "grasslands":
		return Grassland, nil
	case "wetland", "wetlands":
		return Wetlands, nil
	default:
		return "", fmt.Errorf("unknown habitat %q", s)
	}
}

// Nest is a bird's nest type. Star nests count as every type.
type Nest string

const (
	NestPlatform Nest = "platform"
	NestBowl     Nest = "bowl"
	NestCavity   Nest = "cavity"
	NestGround   Nest = "ground"
	NestStar     Nest = "star"
)

// ParseNest normalizes s; unknown or empty values default to platform.
func ParseNest(s string) Nest {
	switch n := Nest(strings.ToLower(strings.TrimSpace(s))); n {
	case NestPlatform, NestBowl, NestCavity, NestGround, NestStar:
		return n
	case "wild":
		return NestStar
	default:
		return NestPlatform
	}
}

// Matches reports whether a bird with nest n satisfies want.
func (n Nest) Matches(want Nest) bool {
	return n == want || n == NestStar
}

// Trigger is the timing at which a bird power fires.
type Trigger string

const (
	TriggerNone         Trigger = ""
	TriggerWhenPlayed   Trigger = "WHEN_PLAYED"
	TriggerWhenActivate Trigger = "WHEN_ACTIVATED"
	TriggerBetweenTurns Trigger = "ONCE_BETWEEN_TURNS"
	TriggerEndOfRound   Trigger = "END_OF_ROUND"
	TriggerEndOfGame    Trigger = "END_OF_GAME"
)

// ParseTrigger maps both trigger names and card colour categories.
func ParseTrigger(s string) Trigger {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "WHEN_PLAYED", "WHEN PLAYED", "WHITE":
		return TriggerWhenPlayed
	case "WHEN_ACTIVATED", "BROWN":
		return TriggerWhenActivate
	case "ONCE_BETWEEN_TURNS", "PINK":
		return TriggerBetweenTurns
	case "END_OF_ROUND":
		return TriggerEndOfRound
	case "END_OF_GAME", "GAME_END":
		return TriggerEndOfGame
	default:
		return TriggerNone
	}
}

// Power is a bird's declared power.
type Power struct {
	Trigger Trigger `json:"type"`
	Text    string  `json:"effect"`
}

// Bird is an immutable bird card definition.
type Bird struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Points      int       `json:"points"`
	Habitats    []Habitat `json:"habitats"`
	FoodCost    []string  `json:"foodCost"`
	EggCapacity int       `json:"eggCapacity"`
	Nest        Nest      `json:"nestType"`
	Wingspan    int       `json:"wingspan"`
	Power       Power     `json:"power"`
}

// Allows reports whether the bird may be placed in h.
func (b Bird) Allows(h Habitat) bool {
	for _, allowed := range b.Habitats {
		if allowed == h {
			return true
		}
	}
	return false
}

// Cost returns the parsed food cost. Catalog construction rejects birds whose
// cost does not parse, so the error is only possible for hand-built values.
func (b Bird) Cost() (food.Cost, error) {
	return food.ParseCost(b.FoodCost)
}

func (b Bird) validate() error {
	if b.ID == "" || b.Name == "" {
		return fmt.Errorf("bird requires id and name")
	}
	if len(b.Habitats) == 0 {
		return fmt.Errorf("bird %s has no habitat", b.ID)
	}
	for _, h := range b.Habitats {
		if _, err := ParseHabitat(string(h)); err != nil {
			return fmt.Errorf("bird %s: %w", b.ID, err)
		}
	}
	if _, err := b.Cost(); err != nil {
		return fmt.Errorf("bird %s: %w", b.ID, err)
	}
	if b.EggCapacity < 0 || b.Points < 0 {
		return fmt.Errorf("bird %s has negative points or egg capacity", b.ID)
	}
	return nil
}

// Tier awards Points once the bonus metric reaches Min.
type Tier struct {
	Min    int `json:"min"`
	Points int `json:"points"`
}

// BonusCard is a private end-of-game objective. Metric names the counted
// quantity; Per multiplies it unless Tiers are given.
type BonusCard struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Metric      string `json:"metric"`
	Per         int    `json:"per,omitempty"`
	Tiers       []Tier `json:"tiers,omitempty"`
}

// RoundGoal is a per-round competitive objective.
type RoundGoal struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Metric      string `json:"metric"`
}
