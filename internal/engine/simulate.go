package engine

import (
	"fmt"
	"strings"

	"cardburn/internal/model"
)

// Policy selects the month allocation algorithm.
type Policy string

const (
	// PolicyAvalanche is the canonical guaranteed-minimum avalanche policy.
	PolicyAvalanche Policy = "avalanche"
	// PolicyLegacy is the historical priority-only variant.
	PolicyLegacy Policy = "legacy"
)

// Valid reports whether p names a known policy.
func (p Policy) Valid() bool {
	return p == PolicyAvalanche || p == PolicyLegacy
}

// DefaultMaxMonths caps the simulation at 100 years.
const DefaultMaxMonths = 1200

// Options tunes a plan run. The zero value selects the avalanche policy and
// the default month cap.
type Options struct {
	Policy    Policy
	MaxMonths int
}

func (o Options) withDefaults() Options {
	if o.Policy == "" {
		o.Policy = PolicyAvalanche
	}
	if o.MaxMonths <= 0 {
		o.MaxMonths = DefaultMaxMonths
	}
	return o
}

// Result is the complete output of one plan run.
type Result struct {
	Schedules  []model.Schedule
	Monthly    model.MonthlySummary
	Shortfalls []model.ShortfallNotice
}

// NonConvergenceError reports a simulation that failed to pay everything off
// within the month cap, typically because minimums cannot keep pace with
// interest accrual at the given ceiling.
type NonConvergenceError struct {
	Months   int
	Accounts []model.Account // still-active accounts with balances at cutoff
}

func (e *NonConvergenceError) Error() string {
	names := make([]string, len(e.Accounts))
	for i, a := range e.Accounts {
		names[i] = fmt.Sprintf("%s ($%.2f)", a.Name, a.Balance)
	}
	return fmt.Sprintf("plan did not converge within %d months; still active: %s",
		e.Months, strings.Join(names, ", "))
}

// Plan simulates month-by-month payoff of accounts under a shared budget
// ceiling until every account is paid off. The caller's accounts are never
// mutated; the engine works on its own copy. Accounts whose starting balance
// is already at or below the tolerance are excluded entirely: they produce an
// empty Schedule and do not appear in the monthly summary.
func Plan(accounts []model.Account, ceiling float64, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	planFn := planMonth
	if opts.Policy == PolicyLegacy {
		planFn = legacyPlanMonth
	}

	// Inputs may be reused across runs, so simulate on a copy.
	working := make([]model.Account, len(accounts))
	copy(working, accounts)

	var active []*model.Account
	for i := range working {
		if working[i].Active() {
			active = append(active, &working[i])
		}
	}

	builder := newScheduleBuilder(accounts, active)
	var shortfalls []model.ShortfallNotice

	for month := 1; len(active) > 0; month++ {
		if month > opts.MaxMonths {
			cutoff := make([]model.Account, len(active))
			for i, a := range active {
				cutoff[i] = *a
				cutoff[i].Balance = round2(a.Balance)
			}
			return nil, &NonConvergenceError{Months: opts.MaxMonths, Accounts: cutoff}
		}

		plan := planFn(active, ceiling)

		if plan.budget > ceiling+surplusEpsilon {
			shortfalls = append(shortfalls, model.ShortfallNotice{
				Month:    month,
				Baseline: round2(plan.baseline),
				Ceiling:  ceiling,
			})
		}

		for _, c := range plan.calcs {
			newBal := c.acct.Balance + c.interest - c.payment

			builder.record(model.MonthRecord{
				Month:       month,
				Account:     c.acct.Name,
				OpenBalance: round2(c.acct.Balance),
				Interest:    round2(c.interest),
				MinDue:      round2(c.minDue),
				Payment:     round2(c.payment),
				NewBalance:  round2(max(newBal, 0)),
				TopPriority: c.acct.Name == plan.topName,
			})

			// The only place balances are updated: open + interest - payment.
			c.acct.Balance = newBal
		}

		next := active[:0]
		for _, a := range active {
			if a.Active() {
				next = append(next, a)
			}
		}
		active = next
	}

	return &Result{
		Schedules:  builder.schedules(),
		Monthly:    builder.monthly(),
		Shortfalls: shortfalls,
	}, nil
}
