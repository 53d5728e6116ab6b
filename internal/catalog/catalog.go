// Package catalog holds the immutable card definitions shared by every game.
// A Catalog is loaded once at process start and passed to games by reference.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
)

//go:embed data/*.json
var embedded embed.FS

const (
	birdsFile      = "birds.json"
	bonusCardsFile = "bonus_cards.json"
	roundGoalsFile = "round_goals.json"
)

// Catalog is the read-only set of birds, bonus cards and round goals.
type Catalog struct {
	birds      []Bird
	bonusCards []BonusCard
	roundGoals []RoundGoal

	birdIndex  map[string]int
	bonusIndex map[string]int
}

// New validates the definitions and builds a catalog.
func New(birds []Bird, bonusCards []BonusCard, roundGoals []RoundGoal) (*Catalog, error) {
	c := &Catalog{
		birds:      make([]Bird, 0, len(birds)),
		bonusCards: append([]BonusCard(nil), bonusCards...),
		roundGoals: append([]RoundGoal(nil), roundGoals...),
		birdIndex:  make(map[string]int, len(birds)),
		bonusIndex: make(map[string]int, len(bonusCards)),
	}

	for _, b := range birds {
		if err := b.validate(); err != nil {
			return nil, err
		}
		if _, dup := c.birdIndex[b.ID]; dup {
			return nil, fmt.Errorf("duplicate bird id %s", b.ID)
		}
		habitats := make([]Habitat, len(b.Habitats))
		for i, h := range b.Habitats {
			habitats[i], _ = ParseHabitat(string(h))
		}
		b.Habitats = habitats
		b.Nest = ParseNest(string(b.Nest))
		c.birdIndex[b.ID] = len(c.birds)
		c.birds = append(c.birds, b)
	}

	for i, card := range c.bonusCards {
		if card.ID == "" || card.Metric == "" {
			return nil, fmt.Errorf("bonus card %d requires id and metric", i)
		}
		if _, dup := c.bonusIndex[card.ID]; dup {
			return nil, fmt.Errorf("duplicate bonus card id %s", card.ID)
		}
		c.bonusIndex[card.ID] = i
	}

	seen := make(map[string]bool, len(c.roundGoals))
	for i, goal := range c.roundGoals {
		if goal.ID == "" || goal.Metric == "" {
			return nil, fmt.Errorf("round goal %d requires id and metric", i)
		}
		if seen[goal.ID] {
			return nil, fmt.Errorf("duplicate round goal id %s", goal.ID)
		}
		seen[goal.ID] = true
	}

	return c, nil
}

// LoadEmbedded loads the catalog compiled into the binary.
func LoadEmbedded() (*Catalog, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, fmt.Errorf("open embedded catalog: %w", err)
	}
	return LoadFS(sub)
}

// LoadDir loads birds.json, bonus_cards.json and round_goals.json from dir.
func LoadDir(dir string) (*Catalog, error) {
	return LoadFS(os.DirFS(dir))
}

// LoadFS loads the three catalog files from fsys.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	var (
		birds  []Bird
		bonus  []BonusCard
		goals  []RoundGoal
		loaded = []struct {
			name string
			into any
		}{
			{birdsFile, &birds},
			{bonusCardsFile, &bonus},
			{roundGoalsFile, &goals},
		}
	)

	for _, f := range loaded {
		data, err := fs.ReadFile(fsys, f.name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.name, err)
		}
		if err := json.Unmarshal(data, f.into); err != nil {
			return nil, fmt.Errorf("decode %s: %w", f.name, err)
		}
	}

	return New(birds, bonus, goals)
}

// Birds returns a copy of every bird definition.
func (c *Catalog) Birds() []Bird {
	return append([]Bird(nil), c.birds...)
}

// BonusCards returns a copy of every bonus card definition.
func (c *Catalog) BonusCards() []BonusCard {
	return append([]BonusCard(nil), c.bonusCards...)
}

// RoundGoals returns a copy of every round goal definition.
func (c *Catalog) RoundGoals() []RoundGoal {
	return append([]RoundGoal(nil), c.roundGoals...)
}

// Bird looks up a bird by id.
func (c *Catalog) Bird(id string) (Bird, bool) {
	i, ok := c.birdIndex[id]
	if !ok {
		return Bird{}, false
	}
	return c.birds[i], true
}

// BonusCard looks up a bonus card by id.
func (c *Catalog) BonusCard(id string) (BonusCard, bool) {
	i, ok := c.bonusIndex[id]
	if !ok {
		return BonusCard{}, false
	}
	return c.bonusCards[i], true
}
