package tui

import (
	"fmt"
	"strings"

	"cardburn/internal/cli"
	"cardburn/internal/model"
	"cardburn/internal/tui/components"
	"cardburn/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderMonthly() string {
	t := theme.Active
	monthly := a.outcome.Result.Monthly
	if len(monthly.Rows) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextMuted).Render("  Nothing to allocate")
	}

	sym := a.currency

	rowsAvail := a.height - chromeOverhead - 6
	if rowsAvail < 4 {
		rowsAvail = 4
	}
	from := a.monthScroll
	if from > len(monthly.Rows)-1 {
		from = len(monthly.Rows) - 1
	}
	to := from + rowsAvail
	if to > len(monthly.Rows) {
		to = len(monthly.Rows)
	}

	headers := append([]string{"Month"}, monthly.Accounts...)
	headers = append(headers, "Total")

	rows := make([][]string, 0, to-from)
	for _, row := range monthly.Rows[from:to] {
		rec := make([]string, 0, len(headers))
		rec = append(rec, model.MonthLabel(row.Month, a.start))
		for _, name := range monthly.Accounts {
			rec = append(rec, cli.FormatMoney(sym, row.Payments[name]))
		}
		rec = append(rec, cli.FormatMoney(sym, row.Total))
		rows = append(rows, rec)
	}

	title := "Monthly Allocation"
	if to < len(monthly.Rows) || from > 0 {
		title = fmt.Sprintf("Monthly Allocation (months %d-%d of %d)", from+1, to, len(monthly.Rows))
	}

	var b strings.Builder
	b.WriteString(cli.RenderTable(cli.Table{
		Title:   title,
		Headers: headers,
		Rows:    rows,
	}))

	// Total payment per month as a curve; spikes are shortfall months.
	totals := make([]float64, len(monthly.Rows))
	grand := 0.0
	for i, row := range monthly.Rows {
		totals[i] = row.Total
		grand += row.Total
	}
	inner := components.CardInnerWidth(a.contentWidth())
	b.WriteString("\n  ")
	b.WriteString(components.Sparkline(downsample(totals, inner), t.Green))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(t.TextMuted).Render(
		fmt.Sprintf("  %s disbursed over %s", cli.FormatMoney(sym, grand), cli.FormatMonths(len(monthly.Rows)))))

	return b.String()
}
