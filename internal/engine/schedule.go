package engine

import (
	"time"

	"cardburn/internal/model"
)

// scheduleBuilder collects MonthRecords into per-account schedules and the
// consolidated monthly allocation matrix. Column and schedule order follow
// the original input order, not avalanche priority.
type scheduleBuilder struct {
	order     []string // every input account, for schedule output
	simulated []string // accounts that entered the simulation, for the matrix
	byName    map[string][]model.MonthRecord
	rows      []model.MonthlyRow
}

func newScheduleBuilder(all []model.Account, active []*model.Account) *scheduleBuilder {
	b := &scheduleBuilder{
		byName: make(map[string][]model.MonthRecord, len(all)),
	}
	for _, a := range all {
		b.order = append(b.order, a.Name)
	}
	activeSet := make(map[string]struct{}, len(active))
	for _, a := range active {
		activeSet[a.Name] = struct{}{}
	}
	for _, name := range b.order {
		if _, ok := activeSet[name]; ok {
			b.simulated = append(b.simulated, name)
		}
	}
	return b
}

func (b *scheduleBuilder) record(r model.MonthRecord) {
	b.byName[r.Account] = append(b.byName[r.Account], r)

	for len(b.rows) < r.Month {
		row := model.MonthlyRow{
			Month:    len(b.rows) + 1,
			Payments: make(map[string]float64, len(b.simulated)),
		}
		for _, name := range b.simulated {
			row.Payments[name] = 0
		}
		b.rows = append(b.rows, row)
	}

	row := &b.rows[r.Month-1]
	row.Payments[r.Account] = r.Payment
	row.Total = round2(row.Total + r.Payment)
}

func (b *scheduleBuilder) schedules() []model.Schedule {
	out := make([]model.Schedule, 0, len(b.order))
	for _, name := range b.order {
		out = append(out, model.Schedule{Account: name, Months: b.byName[name]})
	}
	return out
}

func (b *scheduleBuilder) monthly() model.MonthlySummary {
	return model.MonthlySummary{Accounts: b.simulated, Rows: b.rows}
}

// Summarize derives per-account aggregates from completed schedules. Empty
// schedules (accounts excluded before month one) are skipped. When start is
// non-zero the payment markers become calendar months offset from it.
func Summarize(schedules []model.Schedule, start time.Time) []model.AccountSummary {
	var out []model.AccountSummary
	for _, s := range schedules {
		if s.Empty() {
			continue
		}

		first := s.Months[0]
		last := s.Months[len(s.Months)-1]

		var totalInterest float64
		for _, m := range s.Months {
			totalInterest += m.Interest
		}

		out = append(out, model.AccountSummary{
			Account:        s.Account,
			OpeningBalance: first.OpenBalance,
			TotalInterest:  round2(totalInterest),
			TenureMonths:   last.Month,
			StartPayment:   model.MonthLabel(first.Month, start),
			EndPayment:     model.MonthLabel(last.Month, start),
		})
	}
	return out
}
