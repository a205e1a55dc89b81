package engine

import (
	"math"
	"testing"
	"time"

	"cardburn/internal/model"
)

func TestSummarizeRoundTrip(t *testing.T) {
	accounts := []model.Account{
		{Name: "a", Balance: 1800, APRPercent: 25, MinPct: 0.025},
		{Name: "b", Balance: 900, APRPercent: 17},
	}

	res := mustPlan(t, accounts, 250, Options{})
	summaries := Summarize(res.Schedules, time.Time{})

	if len(summaries) != 2 {
		t.Fatalf("summary rows = %d, want 2", len(summaries))
	}

	for _, sum := range summaries {
		sched := scheduleFor(t, res, sum.Account)

		var interest float64
		for _, m := range sched.Months {
			interest += m.Interest
		}
		if math.Abs(sum.TotalInterest-round2(interest)) > 0.005 {
			t.Fatalf("%s: total interest %.2f != schedule sum %.2f",
				sum.Account, sum.TotalInterest, interest)
		}
		if sum.TenureMonths != len(sched.Months) {
			t.Fatalf("%s: tenure %d != %d month records", sum.Account, sum.TenureMonths, len(sched.Months))
		}
		if sum.OpeningBalance != sched.Months[0].OpenBalance {
			t.Fatalf("%s: opening balance %.2f != first record %.2f",
				sum.Account, sum.OpeningBalance, sched.Months[0].OpenBalance)
		}
	}
}

func TestSummarizeMonthMarkers(t *testing.T) {
	accounts := []model.Account{
		{Name: "solo", Balance: 100, APRPercent: 12},
	}

	res := mustPlan(t, accounts, 60, Options{})

	plain := Summarize(res.Schedules, time.Time{})
	if plain[0].StartPayment != "Month 1" {
		t.Fatalf("start marker = %q, want \"Month 1\"", plain[0].StartPayment)
	}

	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	dated := Summarize(res.Schedules, start)
	if dated[0].StartPayment != "Mar 2026" {
		t.Fatalf("dated start marker = %q, want \"Mar 2026\"", dated[0].StartPayment)
	}
	wantEnd := start.AddDate(0, plain[0].TenureMonths-1, 0).Format("Jan 2006")
	if dated[0].EndPayment != wantEnd {
		t.Fatalf("dated end marker = %q, want %q", dated[0].EndPayment, wantEnd)
	}
}

func TestSummarizeSkipsEmptySchedules(t *testing.T) {
	schedules := []model.Schedule{
		{Account: "empty"},
		{Account: "real", Months: []model.MonthRecord{
			{Month: 1, Account: "real", OpenBalance: 50, Interest: 0.5, Payment: 50.5},
		}},
	}

	summaries := Summarize(schedules, time.Time{})
	if len(summaries) != 1 || summaries[0].Account != "real" {
		t.Fatalf("summaries = %+v, want only the non-empty account", summaries)
	}
}

func TestMonthlySummaryZeroFillsTerminated(t *testing.T) {
	accounts := []model.Account{
		{Name: "short", Balance: 60, APRPercent: 12},
		{Name: "long", Balance: 2000, APRPercent: 20},
	}

	res := mustPlan(t, accounts, 150, Options{})

	if len(res.Monthly.Rows) < 2 {
		t.Fatalf("expected a multi-month run, got %d rows", len(res.Monthly.Rows))
	}

	// "short" pays off within a few months while "long" keeps going, so the
	// later rows must carry an explicit zero for it.
	lastRow := res.Monthly.Rows[len(res.Monthly.Rows)-1]
	pay, ok := lastRow.Payments["short"]
	if !ok {
		t.Fatal("terminated account missing from monthly row")
	}
	if pay != 0 {
		t.Fatalf("terminated account payment = %.2f, want 0", pay)
	}

	var fromRows float64
	for _, row := range res.Monthly.Rows {
		fromRows += row.Payments["long"]
	}
	var fromSchedule float64
	for _, m := range scheduleFor(t, res, "long").Months {
		fromSchedule += m.Payment
	}
	if math.Abs(fromRows-fromSchedule) > 0.01 {
		t.Fatalf("monthly matrix total %.2f != schedule total %.2f for long", fromRows, fromSchedule)
	}
}
