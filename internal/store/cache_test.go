package store

import (
	"path/filepath"
	"testing"

	"cardburn/internal/model"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "plans.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func samplePlan() (PlanMeta, []model.MonthRecord, []model.ShortfallNotice) {
	meta := PlanMeta{Policy: "avalanche", Budget: 400, AccountCount: 2, Months: 2}
	records := []model.MonthRecord{
		{Month: 1, Account: "Visa", OpenBalance: 1000, Interest: 18.33, MinDue: 25, Payment: 343.33, NewBalance: 675, TopPriority: true},
		{Month: 1, Account: "Store", OpenBalance: 500, Interest: 6.25, MinDue: 25, Payment: 31.25, NewBalance: 475},
		{Month: 2, Account: "Visa", OpenBalance: 675, Interest: 12.38, MinDue: 25, Payment: 356.13, NewBalance: 331.25, TopPriority: true},
		{Month: 2, Account: "Store", OpenBalance: 475, Interest: 5.94, MinDue: 25, Payment: 30.94, NewBalance: 450},
	}
	shortfalls := []model.ShortfallNotice{{Month: 1, Baseline: 420, Ceiling: 400}}
	return meta, records, shortfalls
}

func TestSaveLoadPlanRoundTrip(t *testing.T) {
	c := openTestCache(t)
	meta, records, shortfalls := samplePlan()

	if err := c.SavePlan("abc123", meta, records, shortfalls); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}

	plan, ok, err := c.LoadPlan("abc123")
	if err != nil {
		t.Fatalf("LoadPlan failed: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if plan.Meta.Policy != "avalanche" || plan.Meta.Budget != 400 {
		t.Fatalf("meta mismatch: %+v", plan.Meta)
	}
	if len(plan.Records) != len(records) {
		t.Fatalf("expected %d records, got %d", len(records), len(plan.Records))
	}
	for i, r := range plan.Records {
		if r != records[i] {
			t.Fatalf("record %d mismatch: got %+v, want %+v", i, r, records[i])
		}
	}
	if len(plan.Shortfalls) != 1 || plan.Shortfalls[0] != shortfalls[0] {
		t.Fatalf("shortfall mismatch: %+v", plan.Shortfalls)
	}
}

func TestLoadPlanMiss(t *testing.T) {
	c := openTestCache(t)

	plan, ok, err := c.LoadPlan("nope")
	if err != nil {
		t.Fatalf("LoadPlan failed: %v", err)
	}
	if ok || plan != nil {
		t.Fatalf("expected miss, got %+v", plan)
	}
}

func TestSavePlanReplacesExisting(t *testing.T) {
	c := openTestCache(t)
	meta, records, shortfalls := samplePlan()

	if err := c.SavePlan("key", meta, records, shortfalls); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}

	// Rewrite under the same key with a shorter plan.
	meta.Months = 1
	if err := c.SavePlan("key", meta, records[:2], nil); err != nil {
		t.Fatalf("second SavePlan failed: %v", err)
	}

	plan, ok, err := c.LoadPlan("key")
	if err != nil || !ok {
		t.Fatalf("LoadPlan failed: ok=%v err=%v", ok, err)
	}
	if len(plan.Records) != 2 {
		t.Fatalf("stale records survived replace: got %d", len(plan.Records))
	}
	if len(plan.Shortfalls) != 0 {
		t.Fatalf("stale shortfalls survived replace: got %d", len(plan.Shortfalls))
	}
	if plan.Meta.Months != 1 {
		t.Fatalf("meta not replaced: %+v", plan.Meta)
	}

	count, err := c.PlanCount()
	if err != nil {
		t.Fatalf("PlanCount failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 plan, got %d", count)
	}
}

func TestDeleteAndClear(t *testing.T) {
	c := openTestCache(t)
	meta, records, _ := samplePlan()

	if err := c.SavePlan("a", meta, records, nil); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}
	if err := c.SavePlan("b", meta, records, nil); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}

	if err := c.DeletePlan("a"); err != nil {
		t.Fatalf("DeletePlan failed: %v", err)
	}
	if _, ok, _ := c.LoadPlan("a"); ok {
		t.Fatal("plan a should be gone")
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	count, _ := c.PlanCount()
	if count != 0 {
		t.Fatalf("expected empty cache, got %d plans", count)
	}
}
