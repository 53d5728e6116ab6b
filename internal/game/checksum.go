package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/varunish/Wingspan-online/internal/catalog"
	"github.com/varunish/Wingspan-online/internal/game/food"
)

// Checksum returns a SHA-256 over a canonical rendering of the view. Two
// views of the same state always hash equal regardless of map order, so
// clients can compare it to detect a diverged local copy.
func (v View) Checksum() string {
	sum := sha256.Sum256([]byte(v.canonical()))
	return hex.EncodeToString(sum[:])
}

// canonical renders every field in a fixed order. Maps are walked by the
// fixed habitat and food orders rather than ranged.
func (v View) canonical() string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "GAME:%s|%s|%d/%d|%s\n", v.ID, v.Phase, v.Round.Round, v.Round.MaxRounds, v.ActivePlayerID)
	fmt.Fprintf(&buf, "DICE:%s\n", joinKinds(v.DiceTray))
	for _, c := range v.BirdTray {
		fmt.Fprintf(&buf, "TRAY:%s|%s\n", c.InstanceID, c.ID)
	}
	for _, goal := range v.RoundGoals {
		fmt.Fprintf(&buf, "GOAL:%s\n", goal.ID)
	}
	if v.CurrentRoundGoal != nil {
		fmt.Fprintf(&buf, "CURRENT_GOAL:%s\n", v.CurrentRoundGoal.ID)
	}

	for _, p := range v.Players {
		fmt.Fprintf(&buf, "PLAYER:%s|%s|%d|%d|%t\n",
			p.ID, p.Name, p.ActionCubes, p.RoundGoalPoints, p.DiscardConfirmed)

		counts := make([]string, 0, len(food.Kinds))
		for _, k := range food.Kinds {
			counts = append(counts, fmt.Sprintf("%s=%d", k, p.Food[k]))
		}
		fmt.Fprintf(&buf, "  FOOD:%s\n", strings.Join(counts, ","))

		for _, c := range p.Hand {
			fmt.Fprintf(&buf, "  HAND:%s|%s\n", c.InstanceID, c.ID)
		}
		for _, h := range catalog.Habitats {
			for slot, b := range p.Habitats[h] {
				fmt.Fprintf(&buf, "  BIRD:%s|%d|%s|%s|%d|%s\n",
					h, slot, b.InstanceID, b.ID, b.Eggs, joinKinds(b.Cached))
				for _, t := range b.Tucked {
					fmt.Fprintf(&buf, "    TUCKED:%s|%s\n", t.InstanceID, t.ID)
				}
			}
		}
		for _, bc := range p.BonusCards {
			fmt.Fprintf(&buf, "  BONUS:%s|%s\n", bc.InstanceID, bc.ID)
		}
		for _, rs := range p.RoundGoalScores {
			fmt.Fprintf(&buf, "  ROUND_SCORE:%d|%s|%d|%d\n", rs.Round, rs.Position, rs.Points, rs.Score)
		}
		if p.Setup != nil {
			fmt.Fprintf(&buf, "  SETUP:%t|%d|%d\n", p.Setup.Confirmed, len(p.Setup.Birds), len(p.Setup.BonusCards))
		}
		if p.PendingBonus != nil {
			fmt.Fprintf(&buf, "  PENDING_BONUS:%s|%d|%d\n", p.PendingBonus.BirdName, p.PendingBonus.Keep, len(p.PendingBonus.Cards))
		}
	}

	for i, line := range v.Logs {
		fmt.Fprintf(&buf, "LOG:%d|%s\n", i, line)
	}
	for _, s := range v.FinalScores {
		fmt.Fprintf(&buf, "SCORE:%s|%d\n", s.PlayerID, s.Total)
	}
	return buf.String()
}

func joinKinds(ks []food.Kind) string {
	parts := make([]string, len(ks))
	for i, k := range ks {
		parts[i] = string(k)
	}
	return strings.Join(parts, ",")
}
