package pipeline

import (
	"math"
	"path/filepath"
	"testing"

	"cardburn/internal/engine"
	"cardburn/internal/model"
	"cardburn/internal/store"
)

func testAccounts() []model.Account {
	return []model.Account{
		{Name: "Visa", Balance: 3000, APRPercent: 22},
		{Name: "Store", Balance: 1200, APRPercent: 27.9},
		{Name: "PaidOff", Balance: 0, APRPercent: 19},
	}
}

func testRequest() Request {
	return Request{
		Accounts: testAccounts(),
		Budget:   400,
		Policy:   engine.PolicyAvalanche,
	}
}

func TestRunProducesSummaries(t *testing.T) {
	out, err := Run(testRequest())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(out.Result.Schedules) != 3 {
		t.Fatalf("expected a schedule per account, got %d", len(out.Result.Schedules))
	}
	// Summaries skip the zero-balance account.
	if len(out.Summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(out.Summaries))
	}
}

func TestPlanKeyStableAndSensitive(t *testing.T) {
	req := testRequest()

	k1, err := PlanKey(req)
	if err != nil {
		t.Fatalf("PlanKey failed: %v", err)
	}
	k2, err := PlanKey(testRequest())
	if err != nil {
		t.Fatalf("PlanKey failed: %v", err)
	}
	if k1 != k2 {
		t.Fatalf("identical inputs hashed differently: %s vs %s", k1, k2)
	}

	req.Budget = 401
	k3, err := PlanKey(req)
	if err != nil {
		t.Fatalf("PlanKey failed: %v", err)
	}
	if k3 == k1 {
		t.Fatal("budget change should change the key")
	}

	req.Budget = 400
	req.Policy = engine.PolicyLegacy
	k4, err := PlanKey(req)
	if err != nil {
		t.Fatalf("PlanKey failed: %v", err)
	}
	if k4 == k1 {
		t.Fatal("policy change should change the key")
	}
}

func TestRunWithCacheRoundTrip(t *testing.T) {
	cache, err := store.Open(filepath.Join(t.TempDir(), "plans.db"))
	if err != nil {
		t.Fatalf("opening cache: %v", err)
	}
	defer func() { _ = cache.Close() }()

	req := testRequest()

	first, err := RunWithCache(req, cache)
	if err != nil {
		t.Fatalf("first RunWithCache failed: %v", err)
	}
	if first.FromCache {
		t.Fatal("first computation should not come from cache")
	}

	second, err := RunWithCache(req, cache)
	if err != nil {
		t.Fatalf("second RunWithCache failed: %v", err)
	}
	if !second.FromCache {
		t.Fatal("second computation should come from cache")
	}
	if second.Key != first.Key {
		t.Fatalf("key mismatch: %s vs %s", second.Key, first.Key)
	}

	// The restored result must match the fresh one exactly.
	if len(second.Result.Schedules) != len(first.Result.Schedules) {
		t.Fatalf("schedule count mismatch: %d vs %d", len(second.Result.Schedules), len(first.Result.Schedules))
	}
	for i, sched := range first.Result.Schedules {
		got := second.Result.Schedules[i]
		if got.Account != sched.Account || len(got.Months) != len(sched.Months) {
			t.Fatalf("schedule %q mismatch after restore", sched.Account)
		}
		for j, r := range sched.Months {
			if got.Months[j] != r {
				t.Fatalf("record mismatch for %q month %d: got %+v, want %+v", sched.Account, r.Month, got.Months[j], r)
			}
		}
	}

	if len(second.Result.Monthly.Rows) != len(first.Result.Monthly.Rows) {
		t.Fatalf("monthly row count mismatch")
	}
	for i, row := range first.Result.Monthly.Rows {
		got := second.Result.Monthly.Rows[i]
		if math.Abs(got.Total-row.Total) > 1e-9 {
			t.Fatalf("month %d total mismatch: got %v, want %v", row.Month, got.Total, row.Total)
		}
		for name, p := range row.Payments {
			if gp, ok := got.Payments[name]; !ok || math.Abs(gp-p) > 1e-9 {
				t.Fatalf("month %d payment for %q mismatch: got %v, want %v", row.Month, name, got.Payments[name], p)
			}
		}
	}
}

func TestRunWithCacheNilCache(t *testing.T) {
	out, err := RunWithCache(testRequest(), nil)
	if err != nil {
		t.Fatalf("RunWithCache with nil cache failed: %v", err)
	}
	if out.FromCache {
		t.Fatal("nil cache cannot produce a hit")
	}
}
