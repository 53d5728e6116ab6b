package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/varunish/Wingspan-online/internal/game/food"
)

// Column headers of the community bird spreadsheet export.
const (
	colName        = "Common name"
	colForest      = "Forest"
	colGrassland   = "Grassland"
	colWetland     = "Wetland"
	colWild        = "Wild (food)"
	colOrCost      = "/ (food cost)"
	colNest        = "Nest type"
	colEggs        = "Egg capacity"
	colPoints      = "Victory points"
	colWingspan    = "Wingspan"
	colPowerText   = "Power text"
	colPowerColour = "PowerCategory"
)

var foodColumns = []struct {
	header string
	kind   food.Kind
}{
	{"Invertebrate", food.Invertebrate},
	{"Seed", food.Seed},
	{"Fish", food.Fish},
	{"Fruit", food.Fruit},
	{"Rodent", food.Rodent},
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// ParseBirdCSV reads bird definitions from a spreadsheet export with a header
// row. Rows without a common name are skipped.
func ParseBirdCSV(r io.Reader) ([]Bird, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	if _, ok := index[colName]; !ok {
		return nil, fmt.Errorf("csv is missing the %q column", colName)
	}

	var birds []Bird
	seen := make(map[string]int)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		get := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		name := get(colName)
		if name == "" {
			continue
		}

		id := "bird-" + strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(name), "-"), "-")
		if n := seen[id]; n > 0 {
			id = fmt.Sprintf("%s-%d", id, n+1)
		}
		seen[id]++

		bird := Bird{
			ID:          id,
			Name:        name,
			Points:      atoi(get(colPoints)),
			EggCapacity: atoi(get(colEggs)),
			Wingspan:    atoi(get(colWingspan)),
			Nest:        ParseNest(get(colNest)),
			FoodCost:    csvFoodCost(get, get(colOrCost) != ""),
			Power: Power{
				Trigger: ParseTrigger(get(colPowerColour)),
				Text:    get(colPowerText),
			},
		}
		if get(colForest) != "" {
			bird.Habitats = append(bird.Habitats, Forest)
		}
		if get(colGrassland) != "" {
			bird.Habitats = append(bird.Habitats, Grassland)
		}
		if get(colWetland) != "" {
			bird.Habitats = append(bird.Habitats, Wetlands)
		}
		if len(bird.Habitats) == 0 {
			bird.Habitats = []Habitat{Forest}
		}
		if bird.Power.Text == "" {
			bird.Power.Trigger = TriggerNone
		}

		if err := bird.validate(); err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		birds = append(birds, bird)
	}

	return birds, nil
}

// csvFoodCost expands per-kind counts into cost entries. When the OR column
// is marked the concrete kinds collapse into a single OR-group.
func csvFoodCost(get func(string) string, orCost bool) []string {
	var kinds []string
	for _, col := range foodColumns {
		for i := 0; i < atoi(get(col.header)); i++ {
			kinds = append(kinds, string(col.kind))
		}
	}
	if orCost && len(kinds) > 1 {
		kinds = []string{strings.Join(kinds, "/")}
	}
	for i := 0; i < atoi(get(colWild)); i++ {
		kinds = append(kinds, string(food.Wild))
	}
	return kinds
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
