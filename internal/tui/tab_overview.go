package tui

import (
	"fmt"
	"strings"
	"time"

	"cardburn/internal/cli"
	"cardburn/internal/model"
	"cardburn/internal/tui/components"
	"cardburn/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderOverview() string {
	t := theme.Active
	result := a.outcome.Result
	sym := a.currency
	width := a.contentWidth()

	var totalBalance, totalInterest float64
	longest := 0
	for _, s := range a.outcome.Summaries {
		totalBalance += s.OpeningBalance
		totalInterest += s.TotalInterest
		if s.TenureMonths > longest {
			longest = s.TenureMonths
		}
	}

	cards := []struct{ Label, Value, Delta string }{
		{"Total Debt", cli.FormatMoneyCompact(sym, totalBalance), fmt.Sprintf("%d cards", len(a.outcome.Summaries))},
		{"Debt-free In", cli.FormatMonths(longest), debtFreeLabel(longest, a.start)},
		{"Total Interest", cli.FormatMoneyCompact(sym, totalInterest), string(a.policy) + " policy"},
		{"Budget", cli.FormatMoney(sym, a.budget) + "/mo", shortfallLabel(len(result.Shortfalls))},
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(cards, width))
	b.WriteString("\n")

	if len(result.Shortfalls) > 0 {
		warn := lipgloss.NewStyle().Foreground(t.Orange)
		first := result.Shortfalls[0]
		b.WriteString(warn.Render(fmt.Sprintf(
			"  ⚠ minimums exceed budget in %d month(s), first in %s (needs %s more)",
			len(result.Shortfalls),
			model.MonthLabel(first.Month, a.start),
			cli.FormatMoney(sym, first.Amount()),
		)))
		b.WriteString("\n\n")
	}

	// Per-card balances
	entries := make([]components.BarEntry, 0, len(a.outcome.Summaries))
	for _, s := range a.outcome.Summaries {
		entries = append(entries, components.BarEntry{
			Label: s.Account,
			Value: s.OpeningBalance,
			Text:  cli.FormatMoney(sym, s.OpeningBalance),
		})
	}
	inner := components.CardInnerWidth(width)
	b.WriteString(components.ContentCard("Balances", components.HorizontalBars(entries, inner, t.Blue), width))
	b.WriteString("\n")

	// Remaining-debt curve across the whole plan
	totals := make([]float64, len(result.Monthly.Rows))
	for _, sched := range result.Schedules {
		for _, r := range sched.Months {
			totals[r.Month-1] += r.NewBalance
		}
	}
	if len(totals) > 0 {
		curve := components.Sparkline(downsample(totals, inner), t.Accent)
		b.WriteString(components.ContentCard("Remaining Debt", curve, width))
	}

	return b.String()
}

func debtFreeLabel(months int, start time.Time) string {
	if months == 0 {
		return "already clear"
	}
	if start.IsZero() {
		return ""
	}
	return "by " + model.MonthLabel(months, start)
}

func shortfallLabel(n int) string {
	if n == 0 {
		return "covers minimums"
	}
	return fmt.Sprintf("%d short months", n)
}

// downsample reduces a series to at most width points, keeping the shape.
func downsample(values []float64, width int) []float64 {
	if width < 2 || len(values) <= width {
		return values
	}
	out := make([]float64, width)
	for i := range out {
		srcIdx := i * (len(values) - 1) / (width - 1)
		out[i] = values[srcIdx]
	}
	return out
}
