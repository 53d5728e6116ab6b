package food

import (
	"fmt"
	"strings"
)

// Entry is one slot of a bird's food cost. A single option is an exact cost,
// several options form an OR-group, and Wild accepts any kind.
type Entry struct {
	Options []Kind
	Wild    bool
}

// IsExact reports whether the entry names exactly one kind.
func (e Entry) IsExact() bool {
	return !e.Wild && len(e.Options) == 1
}

// IsChoice reports whether the entry is an OR-group.
func (e Entry) IsChoice() bool {
	return !e.Wild && len(e.Options) > 1
}

func (e Entry) String() string {
	if e.Wild {
		return string(Wild)
	}
	parts := make([]string, len(e.Options))
	for i, k := range e.Options {
		parts[i] = string(k)
	}
	return strings.Join(parts, "/")
}

// Cost is a parsed food cost in declaration order.
type Cost []Entry

// ParseCost parses raw cost entries such as "seed", "fish/fruit" or "wild".
// OR-groups may also be written with "|" or " or ".
func ParseCost(raw []string) (Cost, error) {
	cost := make(Cost, 0, len(raw))
	for _, item := range raw {
		symbol := strings.ToLower(strings.TrimSpace(item))
		if symbol == "" {
			continue
		}
		if symbol == string(Wild) || symbol == "any" {
			cost = append(cost, Entry{Wild: true})
			continue
		}

		symbol = strings.ReplaceAll(symbol, " or ", "/")
		symbol = strings.ReplaceAll(symbol, "|", "/")
		var options []Kind
		for _, part := range strings.Split(symbol, "/") {
			k, err := ParseKind(part)
			if err != nil {
				return nil, fmt.Errorf("invalid cost entry %q: %w", item, err)
			}
			options = append(options, k)
		}
		cost = append(cost, Entry{Options: options})
	}
	return cost, nil
}

// WildCount returns the number of wildcard entries.
func (c Cost) WildCount() int {
	n := 0
	for _, e := range c {
		if e.Wild {
			n++
		}
	}
	return n
}

// Len returns the number of tokens the cost consumes.
func (c Cost) Len() int {
	return len(c)
}

func (c Cost) String() string {
	if len(c) == 0 {
		return "free"
	}
	parts := make([]string, len(c))
	for i, e := range c {
		parts[i] = e.String()
	}
	return strings.Join(parts, " + ")
}
