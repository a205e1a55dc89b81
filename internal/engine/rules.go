// Package engine implements the monthly payment allocation and payoff
// simulation for a set of revolving-credit accounts sharing one budget.
package engine

import (
	"math"

	"cardburn/internal/model"
)

const (
	// minPaymentFloor is the smallest contractual minimum any issuer charges.
	minPaymentFloor = 25.0

	// fallbackMinPct applies when an account carries neither a fixed
	// override nor a percentage rule.
	fallbackMinPct = 0.02
)

// MonthlyInterest returns one month of simple interest on a balance at the
// given annual percentage rate. Interest accrues on the balance as it stood
// at the start of the month; there is no intra-month compounding.
func MonthlyInterest(balance, aprPercent float64) float64 {
	return balance * (aprPercent / 100 / 12)
}

// MinimumDue computes an account's contractual minimum payment for the month.
// Priority: fixed override, then percentage-of-balance, then the 2% fallback.
// Every branch is floored at 25.
func MinimumDue(a model.Account) float64 {
	if a.MinOverride > 0 {
		return math.Max(minPaymentFloor, a.MinOverride)
	}
	if a.MinPct > 0 {
		return math.Max(minPaymentFloor, a.Balance*a.MinPct)
	}
	return math.Max(minPaymentFloor, a.Balance*fallbackMinPct)
}

// round2 rounds a monetary amount to cents. Applied only when emitting
// records; the running balances keep full precision.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
