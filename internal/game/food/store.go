package food

import (
	"fmt"
	"strings"
)

// Kind represents a type of food token.
type Kind string

const (
	Invertebrate Kind = "invertebrate"
	Seed         Kind = "seed"
	Fish         Kind = "fish"
	Fruit        Kind = "fruit"
	Rodent       Kind = "rodent"
	Wild         Kind = "wild" // Wild is a cost marker; it is never held in a store
)

// Kinds lists the concrete food kinds in their fixed scan order.
var Kinds = []Kind{Invertebrate, Seed, Fish, Fruit, Rodent}

// Valid reports whether k is a concrete (non-wild) food kind.
func (k Kind) Valid() bool {
	switch k {
	case Invertebrate, Seed, Fish, Fruit, Rodent:
		return true
	default:
		return false
	}
}

// ParseKind normalizes s into a concrete food kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if k == "invertebrates" {
		k = Invertebrate
	}
	if k == "seeds" {
		k = Seed
	}
	if !k.Valid() {
		return "", fmt.Errorf("unknown food kind %q", s)
	}
	return k, nil
}

// ParseKinds parses every entry of raw with ParseKind.
func ParseKinds(raw []string) ([]Kind, error) {
	out := make([]Kind, 0, len(raw))
	for _, s := range raw {
		k, err := ParseKind(s)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}

// Store holds a player's food tokens keyed by kind.
// A nil Store reads as empty but must not be written to.
type Store map[Kind]int

// NewStore creates an empty food store.
func NewStore() Store {
	return make(Store, len(Kinds))
}

// Add adds amount tokens of kind k.
func (s Store) Add(k Kind, amount int) {
	if amount <= 0 || !k.Valid() {
		return
	}
	s[k] += amount
}

// Count returns the number of tokens of kind k.
func (s Store) Count(k Kind) int {
	return s[k]
}

// Spend removes amount tokens of kind k. It returns false, leaving the store
// untouched, when not enough are held.
func (s Store) Spend(k Kind, amount int) bool {
	if amount <= 0 {
		return true
	}
	if s[k] < amount {
		return false
	}
	s[k] -= amount
	if s[k] == 0 {
		delete(s, k)
	}
	return true
}

// Total returns the number of tokens held across all kinds.
func (s Store) Total() int {
	total := 0
	for _, n := range s {
		total += n
	}
	return total
}

// Copy returns an independent copy of the store.
func (s Store) Copy() Store {
	out := make(Store, len(s))
	for k, n := range s {
		out[k] = n
	}
	return out
}

// First returns the first held kind in scan order.
func (s Store) First() (Kind, bool) {
	for _, k := range Kinds {
		if s[k] > 0 {
			return k, true
		}
	}
	return "", false
}

// Snapshot returns the store with every concrete kind present, zero-filled,
// for serialization.
func (s Store) Snapshot() map[Kind]int {
	out := make(map[Kind]int, len(Kinds))
	for _, k := range Kinds {
		out[k] = s[k]
	}
	return out
}
