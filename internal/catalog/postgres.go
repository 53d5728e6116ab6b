package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Schema creates the catalog tables used by LoadPostgres and SaveBirds.
const Schema = `
CREATE TABLE IF NOT EXISTS birds (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	points        INTEGER NOT NULL DEFAULT 0,
	habitats      TEXT[] NOT NULL,
	food_cost     TEXT[] NOT NULL DEFAULT '{}',
	egg_capacity  INTEGER NOT NULL DEFAULT 0,
	nest_type     TEXT NOT NULL DEFAULT 'platform',
	wingspan      INTEGER NOT NULL DEFAULT 0,
	power_trigger TEXT NOT NULL DEFAULT '',
	power_text    TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS bonus_cards (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	metric      TEXT NOT NULL,
	per         INTEGER NOT NULL DEFAULT 0,
	tiers       JSONB NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS round_goals (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	metric      TEXT NOT NULL
);
`

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Execer is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// LoadPostgres reads the catalog tables created by Schema.
func LoadPostgres(ctx context.Context, db Querier) (*Catalog, error) {
	rows, err := db.Query(ctx, `
		SELECT id, name, points, habitats, food_cost, egg_capacity, nest_type, wingspan, power_trigger, power_text
		FROM birds ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query birds: %w", err)
	}
	birds, err := pgx.CollectRows(rows, scanBird)
	if err != nil {
		return nil, fmt.Errorf("scan birds: %w", err)
	}

	rows, err = db.Query(ctx, `SELECT id, name, description, metric, per, tiers FROM bonus_cards ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query bonus cards: %w", err)
	}
	bonus, err := pgx.CollectRows(rows, scanBonusCard)
	if err != nil {
		return nil, fmt.Errorf("scan bonus cards: %w", err)
	}

	rows, err = db.Query(ctx, `SELECT id, name, description, metric FROM round_goals ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query round goals: %w", err)
	}
	goals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (RoundGoal, error) {
		var g RoundGoal
		err := row.Scan(&g.ID, &g.Name, &g.Description, &g.Metric)
		return g, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan round goals: %w", err)
	}

	return New(birds, bonus, goals)
}

func scanBird(row pgx.CollectableRow) (Bird, error) {
	var (
		b        Bird
		habitats []string
		nest     string
		trigger  string
	)
	if err := row.Scan(&b.ID, &b.Name, &b.Points, &habitats, &b.FoodCost, &b.EggCapacity,
		&nest, &b.Wingspan, &trigger, &b.Power.Text); err != nil {
		return Bird{}, err
	}
	for _, h := range habitats {
		b.Habitats = append(b.Habitats, Habitat(h))
	}
	b.Nest = ParseNest(nest)
	b.Power.Trigger = ParseTrigger(trigger)
	return b, nil
}

func scanBonusCard(row pgx.CollectableRow) (BonusCard, error) {
	var (
		c     BonusCard
		tiers []byte
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Metric, &c.Per, &tiers); err != nil {
		return BonusCard{}, err
	}
	if len(tiers) > 0 {
		if err := json.Unmarshal(tiers, &c.Tiers); err != nil {
			return BonusCard{}, fmt.Errorf("bonus card %s tiers: %w", c.ID, err)
		}
	}
	return c, nil
}

// SaveBirds upserts bird definitions.
func SaveBirds(ctx context.Context, db Execer, birds []Bird) (int, error) {
	saved := 0
	for _, b := range birds {
		habitats := make([]string, len(b.Habitats))
		for i, h := range b.Habitats {
			habitats[i] = string(h)
		}
		foodCost := b.FoodCost
		if foodCost == nil {
			foodCost = []string{}
		}
		_, err := db.Exec(ctx, `
			INSERT INTO birds (id, name, points, habitats, food_cost, egg_capacity, nest_type, wingspan, power_trigger, power_text)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name, points = EXCLUDED.points, habitats = EXCLUDED.habitats,
				food_cost = EXCLUDED.food_cost, egg_capacity = EXCLUDED.egg_capacity,
				nest_type = EXCLUDED.nest_type, wingspan = EXCLUDED.wingspan,
				power_trigger = EXCLUDED.power_trigger, power_text = EXCLUDED.power_text`,
			b.ID, b.Name, b.Points, habitats, foodCost, b.EggCapacity,
			string(b.Nest), b.Wingspan, string(b.Power.Trigger), b.Power.Text,
		)
		if err != nil {
			return saved, fmt.Errorf("save bird %s: %w", b.ID, err)
		}
		saved++
	}
	return saved, nil
}

// SaveBonusCards upserts bonus card definitions.
func SaveBonusCards(ctx context.Context, db Execer, cards []BonusCard) error {
	for _, c := range cards {
		tiers, err := json.Marshal(c.Tiers)
		if err != nil {
			return fmt.Errorf("encode tiers for %s: %w", c.ID, err)
		}
		if c.Tiers == nil {
			tiers = []byte("[]")
		}
		if _, err := db.Exec(ctx, `
			INSERT INTO bonus_cards (id, name, description, metric, per, tiers)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name, description = EXCLUDED.description,
				metric = EXCLUDED.metric, per = EXCLUDED.per, tiers = EXCLUDED.tiers`,
			c.ID, c.Name, c.Description, c.Metric, c.Per, string(tiers),
		); err != nil {
			return fmt.Errorf("save bonus card %s: %w", c.ID, err)
		}
	}
	return nil
}

// SaveRoundGoals upserts round goal definitions.
func SaveRoundGoals(ctx context.Context, db Execer, goals []RoundGoal) error {
	for _, g := range goals {
		if _, err := db.Exec(ctx, `
			INSERT INTO round_goals (id, name, description, metric)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name, description = EXCLUDED.description, metric = EXCLUDED.metric`,
			g.ID, g.Name, g.Description, g.Metric,
		); err != nil {
			return fmt.Errorf("save round goal %s: %w", g.ID, err)
		}
	}
	return nil
}
