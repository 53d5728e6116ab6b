package game

import (
	"fmt"
)

// Settings holds the rule constants of a single game.
type Settings struct {
	MaxRounds          int
	ActionCubes        []int // action budget per round, indexed by round-1
	BirdTraySize       int
	HandLimit          int
	DiscardLimit       int
	HabitatSlots       int
	SetupBirds         int
	SetupBonusCards    int
	DiceCount          int
	DefaultEggCapacity int
}

// DefaultSettings returns the standard four round rules.
func DefaultSettings() Settings {
	return Settings{
		MaxRounds:          4,
		ActionCubes:        []int{8, 7, 6, 5},
		BirdTraySize:       3,
		HandLimit:          8,
		DiscardLimit:       5,
		HabitatSlots:       5,
		SetupBirds:         5,
		SetupBonusCards:    2,
		DiceCount:          5,
		DefaultEggCapacity: 6,
	}
}

func (s Settings) validate() error {
	if s.MaxRounds <= 0 {
		return fmt.Errorf("max rounds must be positive")
	}
	if len(s.ActionCubes) < s.MaxRounds {
		return fmt.Errorf("action cubes needs %d entries, got %d", s.MaxRounds, len(s.ActionCubes))
	}
	if s.HandLimit <= 0 || s.DiscardLimit < 0 || s.DiscardLimit > s.HandLimit {
		return fmt.Errorf("invalid hand limit %d / discard limit %d", s.HandLimit, s.DiscardLimit)
	}
	if s.HabitatSlots <= 0 || s.DiceCount <= 0 || s.BirdTraySize < 0 {
		return fmt.Errorf("habitat slots, dice count and bird tray size must be positive")
	}
	if s.SetupBirds < 0 || s.SetupBonusCards < 0 {
		return fmt.Errorf("setup deal sizes must not be negative")
	}
	return nil
}

// cubesFor returns the action budget of round r.
func (s Settings) cubesFor(r int) int {
	if r < 1 {
		r = 1
	}
	if r > len(s.ActionCubes) {
		r = len(s.ActionCubes)
	}
	return s.ActionCubes[r-1]
}

func (s Settings) eggCapacity(b *PlacedBird) int {
	if b.EggCapacity > 0 {
		return b.EggCapacity
	}
	return s.DefaultEggCapacity
}
