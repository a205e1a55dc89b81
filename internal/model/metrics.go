package model

import (
	"strconv"
	"time"
)

// Schedule is the ordered month-by-month payoff history of one account.
type Schedule struct {
	Account string
	Months  []MonthRecord
}

// Empty reports whether the schedule holds no months (account was already
// paid off at plan start).
func (s Schedule) Empty() bool {
	return len(s.Months) == 0
}

// MonthlyRow is one row of the consolidated allocation matrix: the payment
// made to every account in one month. Accounts that have already terminated
// appear with a zero payment.
type MonthlyRow struct {
	Month    int
	Payments map[string]float64
	Total    float64
}

// MonthlySummary is the full allocation matrix, months as rows and accounts
// as columns (column order preserved from the input account order).
type MonthlySummary struct {
	Accounts []string
	Rows     []MonthlyRow
}

// ShortfallNotice reports a month whose contractual baseline exceeded the
// requested budget ceiling, forcing the effective budget above it.
type ShortfallNotice struct {
	Month    int
	Baseline float64
	Ceiling  float64
}

// Amount is how far the baseline overran the ceiling.
func (n ShortfallNotice) Amount() float64 {
	return n.Baseline - n.Ceiling
}

// AccountSummary is the derived per-account aggregate over a full schedule.
type AccountSummary struct {
	Account        string
	OpeningBalance float64
	TotalInterest  float64
	TenureMonths   int
	StartPayment   string
	EndPayment     string
}

// MonthLabel renders a 1-based month index either as a calendar month offset
// from start, or as a plain "Month N" marker when no start date is set.
func MonthLabel(month int, start time.Time) string {
	if start.IsZero() {
		return "Month " + strconv.Itoa(month)
	}
	return start.AddDate(0, month-1, 0).Format("Jan 2006")
}
