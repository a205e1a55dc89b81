// Package model defines domain types for cardburn accounts and schedules.
package model

// BalanceTolerance is the balance below which an account counts as paid off.
const BalanceTolerance = 0.01

// Account is one revolving-credit balance to be paid down.
//
// MinOverride and MinPct are the two optional minimum-payment rules; when both
// are present the override wins. MinPct is a fraction of the balance
// (0.02 = 2%), not a percent.
type Account struct {
	Name        string
	Balance     float64
	APRPercent  float64
	MinOverride float64
	MinPct      float64
}

// Active reports whether the account still carries a payable balance.
func (a Account) Active() bool {
	return a.Balance > BalanceTolerance
}

// OverrideDriven reports whether the fixed minimum override governs this
// account's minimum due. Override amounts are contractually interest-inclusive,
// so no interest is added on top of an override-driven base payment.
func (a Account) OverrideDriven() bool {
	return a.MinOverride > 0
}

// MonthRecord is an immutable per-account snapshot of one simulated month.
// Monetary fields are rounded to cents at emission; the engine keeps its
// running balances at full precision.
type MonthRecord struct {
	Month       int // 1-based
	Account     string
	OpenBalance float64
	Interest    float64
	MinDue      float64
	Payment     float64
	NewBalance  float64 // floored at zero
	TopPriority bool    // held the highest APR among active accounts this month
}
