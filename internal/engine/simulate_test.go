package engine

import (
	"errors"
	"math"
	"testing"

	"cardburn/internal/model"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}

func mustPlan(t *testing.T, accounts []model.Account, ceiling float64, opts Options) *Result {
	t.Helper()
	res, err := Plan(accounts, ceiling, opts)
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	return res
}

func scheduleFor(t *testing.T, res *Result, name string) model.Schedule {
	t.Helper()
	for _, s := range res.Schedules {
		if s.Account == name {
			return s
		}
	}
	t.Fatalf("no schedule for account %q", name)
	return model.Schedule{}
}

func TestPlanOverrideDrivenFirstMonth(t *testing.T) {
	accounts := []model.Account{
		{Name: "Visa", Balance: 1000, APRPercent: 24, MinOverride: 50},
	}

	res := mustPlan(t, accounts, 50, Options{})
	sched := scheduleFor(t, res, "Visa")
	if sched.Empty() {
		t.Fatal("schedule unexpectedly empty")
	}

	first := sched.Months[0]
	if !approx(first.Interest, 20.00) {
		t.Fatalf("month-1 interest = %.2f, want 20.00", first.Interest)
	}
	if !approx(first.Payment, 50.00) {
		t.Fatalf("month-1 payment = %.2f, want 50.00 (override-driven, no interest on top)", first.Payment)
	}
	if !approx(first.NewBalance, 970.00) {
		t.Fatalf("month-1 new balance = %.2f, want 970.00", first.NewBalance)
	}
	if !first.TopPriority {
		t.Fatal("single account should hold top priority")
	}
}

func TestPlanSurplusFlowsToHighestRate(t *testing.T) {
	accounts := []model.Account{
		{Name: "A", Balance: 500, APRPercent: 20, MinPct: 0.02},
		{Name: "B", Balance: 300, APRPercent: 30},
	}

	res := mustPlan(t, accounts, 100, Options{})

	a1 := scheduleFor(t, res, "A").Months[0]
	b1 := scheduleFor(t, res, "B").Months[0]

	// A: min = max(25, 10) = 25, interest = 500*0.20/12 = 8.33, base = 33.33.
	if !approx(a1.Payment, 33.33) {
		t.Fatalf("A month-1 payment = %.2f, want 33.33 (baseline only)", a1.Payment)
	}
	// B: min = 25 (2% fallback), interest = 7.5, base = 32.5; baseline = 65.83,
	// so the 34.17 surplus all flows to B.
	if !approx(b1.Payment, 66.67) {
		t.Fatalf("B month-1 payment = %.2f, want 66.67 (base 32.50 + surplus 34.17)", b1.Payment)
	}
	if !b1.TopPriority {
		t.Fatal("B holds the higher APR and should be top priority")
	}
	if a1.TopPriority {
		t.Fatal("A should not be top priority while B is active")
	}
}

func TestPlanAvalancheProperty(t *testing.T) {
	accounts := []model.Account{
		{Name: "low", Balance: 4000, APRPercent: 10},
		{Name: "high", Balance: 2000, APRPercent: 28},
	}

	res := mustPlan(t, accounts, 600, Options{})

	lowMonths := scheduleFor(t, res, "low").Months
	highMonths := scheduleFor(t, res, "high").Months

	highByMonth := make(map[int]model.MonthRecord, len(highMonths))
	for _, m := range highMonths {
		highByMonth[m.Month] = m
	}

	// While "high" still has payoff room, "low" must get no surplus beyond
	// its base (minimum due + interest).
	for _, m := range lowMonths {
		h, active := highByMonth[m.Month]
		if !active {
			break
		}
		if h.Payment < h.OpenBalance+h.Interest-0.005 {
			base := round2(math.Min(m.MinDue+m.Interest, m.OpenBalance+m.Interest))
			if m.Payment > base+0.005 {
				t.Fatalf("month %d: low-rate account got surplus %.2f while high-rate still had room",
					m.Month, m.Payment-base)
			}
		}
	}
}

func TestPlanBalancesNonIncreasingAndFinite(t *testing.T) {
	accounts := []model.Account{
		{Name: "one", Balance: 3000, APRPercent: 22, MinPct: 0.025},
		{Name: "two", Balance: 1500, APRPercent: 18},
		{Name: "three", Balance: 800, APRPercent: 26, MinOverride: 40},
	}

	res := mustPlan(t, accounts, 400, Options{})

	for _, s := range res.Schedules {
		prev := math.Inf(1)
		for _, m := range s.Months {
			if m.NewBalance > prev+model.BalanceTolerance {
				t.Fatalf("%s month %d: balance rose from %.2f to %.2f",
					s.Account, m.Month, prev, m.NewBalance)
			}
			prev = m.NewBalance
		}
		if len(s.Months) == 0 || len(s.Months) > DefaultMaxMonths {
			t.Fatalf("%s: schedule length %d out of range", s.Account, len(s.Months))
		}
		last := s.Months[len(s.Months)-1]
		if last.NewBalance > model.BalanceTolerance {
			t.Fatalf("%s: final balance %.2f not paid off", s.Account, last.NewBalance)
		}
	}
}

func TestPlanDisbursementBounds(t *testing.T) {
	accounts := []model.Account{
		{Name: "a", Balance: 2500, APRPercent: 24},
		{Name: "b", Balance: 900, APRPercent: 16, MinOverride: 35},
	}
	ceiling := 300.0

	res := mustPlan(t, accounts, ceiling, Options{})

	for i, row := range res.Monthly.Rows {
		isLast := i == len(res.Monthly.Rows)-1
		// Total disbursed never exceeds the effective budget; with this
		// ceiling the baseline stays below it, so the ceiling binds except in
		// the final month when remaining payoff is smaller.
		if row.Total > ceiling+0.01 {
			t.Fatalf("month %d: disbursed %.2f exceeds ceiling %.2f", row.Month, row.Total, ceiling)
		}
		if !isLast && row.Total < ceiling-0.01 {
			t.Fatalf("month %d: disbursed %.2f below ceiling with payoff room left", row.Month, row.Total)
		}
	}
	if len(res.Shortfalls) != 0 {
		t.Fatalf("unexpected shortfall notices: %+v", res.Shortfalls)
	}
}

func TestPlanShortfallSurfaced(t *testing.T) {
	accounts := []model.Account{
		{Name: "a", Balance: 5000, APRPercent: 24},
		{Name: "b", Balance: 4000, APRPercent: 20},
	}

	// Ceiling far below the combined minimums: the engine must still pay
	// every contractual minimum and report the overrun.
	res := mustPlan(t, accounts, 50, Options{})

	if len(res.Shortfalls) == 0 {
		t.Fatal("expected shortfall notices when baseline exceeds ceiling")
	}
	first := res.Shortfalls[0]
	if first.Month != 1 {
		t.Fatalf("first shortfall month = %d, want 1", first.Month)
	}
	if first.Amount() <= 0 {
		t.Fatalf("shortfall amount = %.2f, want > 0", first.Amount())
	}
	if res.Monthly.Rows[0].Total < first.Baseline-0.01 {
		t.Fatalf("month-1 disbursed %.2f below reported baseline %.2f",
			res.Monthly.Rows[0].Total, first.Baseline)
	}
}

func TestPlanNonConvergence(t *testing.T) {
	// Interest (2500/month) dwarfs the floored override payment, so the
	// balance grows forever. The guard must trip, not loop.
	accounts := []model.Account{
		{Name: "runaway", Balance: 100000, APRPercent: 30, MinOverride: 25},
	}

	_, err := Plan(accounts, 25, Options{MaxMonths: 60})
	if err == nil {
		t.Fatal("expected non-convergence error")
	}

	var nce *NonConvergenceError
	if !errors.As(err, &nce) {
		t.Fatalf("error type = %T, want *NonConvergenceError", err)
	}
	if nce.Months != 60 {
		t.Fatalf("cutoff months = %d, want 60", nce.Months)
	}
	if len(nce.Accounts) != 1 || nce.Accounts[0].Name != "runaway" {
		t.Fatalf("cutoff accounts = %+v, want the runaway account", nce.Accounts)
	}
	if nce.Accounts[0].Balance <= 100000 {
		t.Fatalf("cutoff balance = %.2f, want above the opening 100000", nce.Accounts[0].Balance)
	}
}

func TestPlanDegenerateAccountExcluded(t *testing.T) {
	accounts := []model.Account{
		{Name: "paid", Balance: 0.005, APRPercent: 20},
		{Name: "open", Balance: 500, APRPercent: 20},
	}

	res := mustPlan(t, accounts, 200, Options{})

	if !scheduleFor(t, res, "paid").Empty() {
		t.Fatal("already-paid account should produce an empty schedule")
	}
	for _, name := range res.Monthly.Accounts {
		if name == "paid" {
			t.Fatal("already-paid account should be absent from the monthly summary")
		}
	}
	if len(res.Monthly.Accounts) != 1 || res.Monthly.Accounts[0] != "open" {
		t.Fatalf("monthly accounts = %v, want [open]", res.Monthly.Accounts)
	}
}

func TestPlanDoesNotMutateCaller(t *testing.T) {
	accounts := []model.Account{
		{Name: "a", Balance: 1200, APRPercent: 19, MinPct: 0.02},
		{Name: "b", Balance: 700, APRPercent: 23},
	}
	before := make([]model.Account, len(accounts))
	copy(before, accounts)

	mustPlan(t, accounts, 150, Options{})

	for i := range accounts {
		if accounts[i] != before[i] {
			t.Fatalf("caller account %d mutated: %+v != %+v", i, accounts[i], before[i])
		}
	}
}

func TestPlanStableTieBreak(t *testing.T) {
	// Equal APRs: surplus goes to the account listed first.
	accounts := []model.Account{
		{Name: "first", Balance: 1000, APRPercent: 21},
		{Name: "second", Balance: 1000, APRPercent: 21},
	}

	res := mustPlan(t, accounts, 500, Options{})

	f1 := scheduleFor(t, res, "first").Months[0]
	s1 := scheduleFor(t, res, "second").Months[0]

	if !f1.TopPriority {
		t.Fatal("first-listed account should win the tie for top priority")
	}
	if f1.Payment <= s1.Payment {
		t.Fatalf("surplus went to wrong account: first paid %.2f, second %.2f", f1.Payment, s1.Payment)
	}
}

func TestPlanDeterministic(t *testing.T) {
	accounts := []model.Account{
		{Name: "x", Balance: 2100, APRPercent: 27, MinOverride: 45},
		{Name: "y", Balance: 3300, APRPercent: 15, MinPct: 0.03},
	}

	first := mustPlan(t, accounts, 350, Options{})
	second := mustPlan(t, accounts, 350, Options{})

	if len(first.Monthly.Rows) != len(second.Monthly.Rows) {
		t.Fatalf("run lengths differ: %d vs %d", len(first.Monthly.Rows), len(second.Monthly.Rows))
	}
	for i := range first.Monthly.Rows {
		for name, pay := range first.Monthly.Rows[i].Payments {
			if other := second.Monthly.Rows[i].Payments[name]; other != pay {
				t.Fatalf("month %d %s: %.2f vs %.2f across identical runs", i+1, name, pay, other)
			}
		}
	}
}

func TestLegacyPolicyUnderpaysWithoutReconciliation(t *testing.T) {
	accounts := []model.Account{
		{Name: "high", Balance: 2000, APRPercent: 28},
		{Name: "low", Balance: 2000, APRPercent: 12},
	}

	canonical := mustPlan(t, accounts, 300, Options{})
	legacy := mustPlan(t, accounts, 300, Options{Policy: PolicyLegacy})

	c1 := scheduleFor(t, canonical, "high").Months[0]
	l1 := scheduleFor(t, legacy, "high").Months[0]

	// Canonical: high gets base + surplus. Legacy: high gets everything left
	// of the ceiling after low's minimum, which here is the larger share too,
	// but computed without a guaranteed-minimum floor for itself.
	if c1.Payment <= 0 || l1.Payment <= 0 {
		t.Fatalf("priority payments = %.2f (canonical), %.2f (legacy); want both positive", c1.Payment, l1.Payment)
	}
	if len(legacy.Shortfalls) != 0 {
		t.Fatalf("legacy policy reported shortfalls: %+v (it never raises the budget)", legacy.Shortfalls)
	}
}

func TestLegacyNonConvergenceOnTinyCeiling(t *testing.T) {
	accounts := []model.Account{
		{Name: "high", Balance: 2000, APRPercent: 28},
		{Name: "low", Balance: 2000, APRPercent: 12},
	}

	// Non-priority minimums swallow the whole ceiling, the priority account
	// only accrues, so the run cannot terminate.
	_, err := Plan(accounts, 40, Options{Policy: PolicyLegacy, MaxMonths: 36})
	var nce *NonConvergenceError
	if !errors.As(err, &nce) {
		t.Fatalf("error = %v, want *NonConvergenceError", err)
	}
}
