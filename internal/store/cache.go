// Package store provides a SQLite-backed cache for computed payoff plans.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cardburn/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache provides SQLite-backed plan caching keyed by input hash.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// PlanMeta describes the inputs that produced a cached plan.
type PlanMeta struct {
	Policy       string
	Budget       float64
	AccountCount int
	Months       int
}

// CachedPlan is a plan loaded back out of the cache. Records keep their
// original emission order so schedules and monthly rows can be rebuilt.
type CachedPlan struct {
	Meta       PlanMeta
	Records    []model.MonthRecord
	Shortfalls []model.ShortfallNotice
}

// SavePlan stores a computed plan under its input hash. An existing plan
// with the same key is replaced wholesale.
func (c *Cache) SavePlan(key string, meta PlanMeta, records []model.MonthRecord, shortfalls []model.ShortfallNotice) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)

	_, err = tx.Exec(`INSERT OR REPLACE INTO plans
		(plan_key, policy, budget, account_count, months, computed_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		key, meta.Policy, meta.Budget, meta.AccountCount, meta.Months, now,
	)
	if err != nil {
		return err
	}

	// INSERT OR REPLACE on plans does not cascade, so clear child rows
	// explicitly before rewriting them.
	if _, err := tx.Exec("DELETE FROM plan_records WHERE plan_key = ?", key); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM plan_shortfalls WHERE plan_key = ?", key); err != nil {
		return err
	}

	for seq, r := range records {
		topPriority := 0
		if r.TopPriority {
			topPriority = 1
		}
		_, err = tx.Exec(`INSERT INTO plan_records
			(plan_key, seq, month, account, open_balance, interest, min_due, payment, new_balance, top_priority)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			key, seq, r.Month, r.Account, r.OpenBalance, r.Interest, r.MinDue, r.Payment, r.NewBalance, topPriority,
		)
		if err != nil {
			return err
		}
	}

	for _, s := range shortfalls {
		_, err = tx.Exec(`INSERT INTO plan_shortfalls (plan_key, month, baseline, ceiling)
			VALUES (?, ?, ?, ?)`,
			key, s.Month, s.Baseline, s.Ceiling,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadPlan reads a cached plan by key. The second return is false on a
// cache miss.
func (c *Cache) LoadPlan(key string) (*CachedPlan, bool, error) {
	plan := &CachedPlan{}

	err := c.db.QueryRow(`SELECT policy, budget, account_count, months
		FROM plans WHERE plan_key = ?`, key).
		Scan(&plan.Meta.Policy, &plan.Meta.Budget, &plan.Meta.AccountCount, &plan.Meta.Months)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	rows, err := c.db.Query(`SELECT month, account, open_balance, interest, min_due, payment, new_balance, top_priority
		FROM plan_records WHERE plan_key = ? ORDER BY seq`, key)
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var r model.MonthRecord
		var topPriority int
		err := rows.Scan(&r.Month, &r.Account, &r.OpenBalance, &r.Interest, &r.MinDue, &r.Payment, &r.NewBalance, &topPriority)
		if err != nil {
			return nil, false, err
		}
		r.TopPriority = topPriority != 0
		plan.Records = append(plan.Records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}

	shortRows, err := c.db.Query(`SELECT month, baseline, ceiling
		FROM plan_shortfalls WHERE plan_key = ? ORDER BY month`, key)
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = shortRows.Close() }()

	for shortRows.Next() {
		var s model.ShortfallNotice
		if err := shortRows.Scan(&s.Month, &s.Baseline, &s.Ceiling); err != nil {
			return nil, false, err
		}
		plan.Shortfalls = append(plan.Shortfalls, s)
	}

	return plan, true, shortRows.Err()
}

// DeletePlan removes a plan and its associated data.
func (c *Cache) DeletePlan(key string) error {
	_, err := c.db.Exec("DELETE FROM plans WHERE plan_key = ?", key)
	return err
}

// Clear removes every cached plan.
func (c *Cache) Clear() error {
	_, err := c.db.Exec("DELETE FROM plans")
	return err
}

// PlanCount returns the number of cached plans.
func (c *Cache) PlanCount() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM plans").Scan(&count)
	return count, err
}
