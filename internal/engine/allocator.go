package engine

import (
	"math"
	"sort"

	"cardburn/internal/model"
)

// surplusEpsilon stops the surplus walk once the remainder is noise.
const surplusEpsilon = 1e-9

// monthCalc holds one account's figures for a single simulated month.
// payment starts at the base payment and may grow during surplus allocation.
type monthCalc struct {
	acct     *model.Account
	interest float64
	minDue   float64
	payoff   float64 // balance + interest: the most the account can absorb
	payment  float64
}

// monthPlan is the allocator's full output for one month, with calcs held in
// avalanche priority order.
type monthPlan struct {
	calcs    []monthCalc
	baseline float64
	budget   float64 // effective budget actually disbursed from
	topName  string  // highest-APR active account this month
}

// byRateDesc orders active accounts by APR descending. The sort is stable, so
// accounts with equal rates keep their original input order.
func byRateDesc(active []*model.Account) []*model.Account {
	ordered := make([]*model.Account, len(active))
	copy(ordered, active)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].APRPercent > ordered[j].APRPercent
	})
	return ordered
}

// planMonth allocates one month of payments across the active accounts under
// the avalanche policy with guaranteed minimums:
//
//  1. Each account gets a base payment: its minimum due, plus interest unless
//     the minimum is override-driven (overrides are interest-inclusive),
//     capped at the account's payoff amount.
//  2. The effective budget is the larger of the caller's ceiling and the sum
//     of bases, so contractual minimums are never withheld.
//  3. Whatever remains above the baseline flows to the highest-APR account
//     first, each capped at its payoff amount.
func planMonth(active []*model.Account, ceiling float64) monthPlan {
	ordered := byRateDesc(active)

	plan := monthPlan{
		calcs:   make([]monthCalc, 0, len(ordered)),
		topName: ordered[0].Name,
	}

	for _, a := range ordered {
		interest := MonthlyInterest(a.Balance, a.APRPercent)
		minDue := MinimumDue(*a)

		base := minDue
		if !a.OverrideDriven() {
			base += interest
		}

		payoff := math.Max(0, a.Balance+interest)
		base = math.Min(base, payoff)

		plan.calcs = append(plan.calcs, monthCalc{
			acct:     a,
			interest: interest,
			minDue:   minDue,
			payoff:   payoff,
			payment:  base,
		})
		plan.baseline += base
	}

	plan.budget = math.Max(ceiling, plan.baseline)

	surplus := plan.budget - plan.baseline
	for i := range plan.calcs {
		if surplus <= surplusEpsilon {
			break
		}
		room := plan.calcs[i].payoff - plan.calcs[i].payment
		if room <= 0 {
			continue
		}
		add := math.Min(surplus, room)
		plan.calcs[i].payment += add
		surplus -= add
	}

	return plan
}
