// Package pipeline orchestrates the load, plan, and summarize flow and
// caches computed plans keyed by their inputs.
package pipeline

import (
	"fmt"
	"time"

	"cardburn/internal/engine"
	"cardburn/internal/model"
	"cardburn/internal/source"
	"cardburn/internal/store"
)

// Request holds everything a plan computation depends on.
type Request struct {
	Accounts  []model.Account
	Budget    float64
	Policy    engine.Policy
	MaxMonths int
	Start     time.Time
}

// Outcome is a computed (or cache-restored) plan plus derived summaries.
type Outcome struct {
	Result    *engine.Result
	Summaries []model.AccountSummary
	Key       string
	FromCache bool
}

// LoadAccounts reads the cards file and reports load diagnostics alongside
// the parsed accounts.
func LoadAccounts(path string) (*source.LoadResult, error) {
	res, err := source.Load(path)
	if err != nil {
		return nil, err
	}
	if len(res.Accounts) == 0 {
		return nil, fmt.Errorf("no usable card rows in %s (%d skipped)", path, res.SkippedRows)
	}
	return res, nil
}

// Run computes a plan without touching the cache.
func Run(req Request) (*Outcome, error) {
	result, err := engine.Plan(req.Accounts, req.Budget, engine.Options{
		Policy:    req.Policy,
		MaxMonths: req.MaxMonths,
	})
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Result:    result,
		Summaries: engine.Summarize(result.Schedules, req.Start),
	}, nil
}

// RunWithCache computes a plan, restoring it from the cache when the same
// inputs were planned before. A nil cache degrades to Run.
func RunWithCache(req Request, cache *store.Cache) (*Outcome, error) {
	if cache == nil {
		return Run(req)
	}

	key, err := PlanKey(req)
	if err != nil {
		return nil, fmt.Errorf("hashing plan inputs: %w", err)
	}

	if cached, ok, err := cache.LoadPlan(key); err == nil && ok {
		result := rebuildResult(req.Accounts, cached)
		return &Outcome{
			Result:    result,
			Summaries: engine.Summarize(result.Schedules, req.Start),
			Key:       key,
			FromCache: true,
		}, nil
	}

	outcome, err := Run(req)
	if err != nil {
		return nil, err
	}
	outcome.Key = key

	meta := store.PlanMeta{
		Policy:       string(req.Policy),
		Budget:       req.Budget,
		AccountCount: len(req.Accounts),
		Months:       planMonths(outcome.Result),
	}
	// Cache write failures are not fatal, the plan is already computed.
	_ = cache.SavePlan(key, meta, flattenRecords(outcome.Result), outcome.Result.Shortfalls)

	return outcome, nil
}

func planMonths(result *engine.Result) int {
	months := 0
	for _, row := range result.Monthly.Rows {
		if row.Month > months {
			months = row.Month
		}
	}
	return months
}

// flattenRecords serializes schedules month-major so the cache preserves a
// single deterministic record order.
func flattenRecords(result *engine.Result) []model.MonthRecord {
	months := planMonths(result)
	var out []model.MonthRecord
	idx := make([]int, len(result.Schedules))

	for month := 1; month <= months; month++ {
		for i, sched := range result.Schedules {
			if idx[i] < len(sched.Months) && sched.Months[idx[i]].Month == month {
				out = append(out, sched.Months[idx[i]])
				idx[i]++
			}
		}
	}
	return out
}

// rebuildResult reconstructs schedules and the monthly matrix from the
// cache's flattened record stream. Requested accounts with no records keep
// an empty schedule, matching a fresh computation.
func rebuildResult(accounts []model.Account, cached *store.CachedPlan) *engine.Result {
	byName := make(map[string][]model.MonthRecord)
	var simulated []string
	for _, r := range cached.Records {
		if _, seen := byName[r.Account]; !seen {
			simulated = append(simulated, r.Account)
		}
		byName[r.Account] = append(byName[r.Account], r)
	}

	result := &engine.Result{Shortfalls: cached.Shortfalls}

	for _, a := range accounts {
		result.Schedules = append(result.Schedules, model.Schedule{
			Account: a.Name,
			Months:  byName[a.Name],
		})
	}

	result.Monthly.Accounts = simulated
	months := 0
	for _, r := range cached.Records {
		if r.Month > months {
			months = r.Month
		}
	}
	for month := 1; month <= months; month++ {
		row := model.MonthlyRow{Month: month, Payments: make(map[string]float64, len(simulated))}
		for _, name := range simulated {
			row.Payments[name] = 0
		}
		result.Monthly.Rows = append(result.Monthly.Rows, row)
	}
	for _, r := range cached.Records {
		row := &result.Monthly.Rows[r.Month-1]
		row.Payments[r.Account] = r.Payment
		row.Total += r.Payment
	}

	return result
}
