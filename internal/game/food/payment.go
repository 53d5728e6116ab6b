package food

import (
	"fmt"
	"sort"
)

// PaymentPlan is the exact set of tokens a cost consumes from a store.
type PaymentPlan map[Kind]int

// Total returns the number of tokens in the plan.
func (p PaymentPlan) Total() int {
	total := 0
	for _, n := range p {
		total += n
	}
	return total
}

// PaymentResult represents the result of a payment attempt.
type PaymentResult struct {
	Success bool
	Plan    PaymentPlan
	Reason  string
}

// CalculatePayment plans how store pays cost without mutating store. Exact
// entries are paid first, then the wildcards named by wildChoices in order,
// then the OR-groups from whatever is left. OR-groups are assigned by a
// search over the remaining tokens, so a payable cost is never rejected
// because an earlier group took the kind a later one needed. The plan is a
// pure function of its inputs, so checking a cost and later paying it with
// the same arguments always resolves identically.
func CalculatePayment(cost Cost, store Store, wildChoices []Kind) *PaymentResult {
	plan := PaymentPlan{}
	if len(cost) == 0 {
		return &PaymentResult{Success: true, Plan: plan}
	}

	scratch := store.Copy()

	var groups Cost
	for _, entry := range cost {
		if entry.IsChoice() {
			groups = append(groups, entry)
			continue
		}
		if !entry.IsExact() {
			continue
		}
		k := entry.Options[0]
		if !scratch.Spend(k, 1) {
			return &PaymentResult{
				Success: false,
				Reason:  fmt.Sprintf("insufficient %s (need %d, have %d)", k, exactNeed(cost, k), store.Count(k)),
			}
		}
		plan[k]++
	}

	wild := cost.WildCount()
	if len(wildChoices) != wild {
		return &PaymentResult{
			Success: false,
			Reason:  fmt.Sprintf("expected %d wildcard food choice(s), got %d", wild, len(wildChoices)),
		}
	}
	for _, k := range wildChoices {
		if !k.Valid() {
			return &PaymentResult{
				Success: false,
				Reason:  fmt.Sprintf("invalid wildcard choice %q", k),
			}
		}
		if !scratch.Spend(k, 1) {
			return &PaymentResult{
				Success: false,
				Reason:  fmt.Sprintf("insufficient %s for wildcard cost", k),
			}
		}
		plan[k]++
	}

	picks := make([]Kind, len(groups))
	if !assignGroups(groups, scratch, picks) {
		return &PaymentResult{
			Success: false,
			Reason:  fmt.Sprintf("insufficient food for %s", groups),
		}
	}
	for _, k := range picks {
		plan[k]++
	}

	return &PaymentResult{Success: true, Plan: plan}
}

// assignGroups picks one option per OR-group, spending from scratch, and
// backtracks when a later group cannot be paid. Options are tried by most
// tokens left, ties by declaration order. On failure scratch is restored.
func assignGroups(groups Cost, scratch Store, picks []Kind) bool {
	if len(groups) == 0 {
		return true
	}
	for _, k := range optionOrder(groups[0].Options, scratch) {
		if !scratch.Spend(k, 1) {
			continue
		}
		picks[0] = k
		if assignGroups(groups[1:], scratch, picks[1:]) {
			return true
		}
		scratch.Add(k, 1)
	}
	return false
}

// optionOrder returns the options with tokens left, most plentiful first.
func optionOrder(options []Kind, scratch Store) []Kind {
	out := make([]Kind, 0, len(options))
	for _, k := range options {
		if scratch.Count(k) > 0 {
			out = append(out, k)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return scratch.Count(out[i]) > scratch.Count(out[j])
	})
	return out
}

func exactNeed(cost Cost, k Kind) int {
	n := 0
	for _, e := range cost {
		if e.IsExact() && e.Options[0] == k {
			n++
		}
	}
	return n
}

// ExecutePayment removes the planned tokens from store. It checks the whole
// plan first and returns false without mutating anything if it cannot be paid.
func ExecutePayment(plan PaymentPlan, store Store) bool {
	for k, n := range plan {
		if store.Count(k) < n {
			return false
		}
	}
	for k, n := range plan {
		store.Spend(k, n)
	}
	return true
}
