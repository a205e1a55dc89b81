package engine

import (
	"math"

	"cardburn/internal/model"
)

// legacyPlanMonth reproduces the original priority-only allocation: every
// non-priority account pays minimum due plus interest, and the single
// highest-APR account receives whatever remains of the ceiling. The budget is
// never raised to cover minimums, so a too-small ceiling silently underpays
// the priority account. Kept only for backward compatibility; planMonth is
// the canonical policy.
func legacyPlanMonth(active []*model.Account, ceiling float64) monthPlan {
	ordered := byRateDesc(active)

	plan := monthPlan{
		calcs:   make([]monthCalc, 0, len(ordered)),
		topName: ordered[0].Name,
		budget:  ceiling,
	}

	var nonPriorityTotal float64
	for i, a := range ordered {
		interest := MonthlyInterest(a.Balance, a.APRPercent)
		minDue := MinimumDue(*a)
		payoff := math.Max(0, a.Balance+interest)

		calc := monthCalc{
			acct:     a,
			interest: interest,
			minDue:   minDue,
			payoff:   payoff,
		}

		if i > 0 {
			calc.payment = math.Min(minDue+interest, payoff)
			nonPriorityTotal += calc.payment
		}

		plan.calcs = append(plan.calcs, calc)
		plan.baseline += math.Min(minDue+interest, payoff)
	}

	remaining := math.Max(ceiling-nonPriorityTotal, 0)
	plan.calcs[0].payment = math.Min(plan.calcs[0].payoff, remaining)

	return plan
}
