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

func (a App) renderSchedule() string {
	t := theme.Active
	schedules := a.outcome.Result.Schedules
	if len(schedules) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextMuted).Render("  No cards loaded")
	}

	width := a.contentWidth()
	sym := a.currency

	// Card picker
	picker := lipgloss.NewStyle().Foreground(t.TextMuted)
	active := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)

	var names []string
	for i, sched := range schedules {
		label := sched.Account
		if sched.Empty() {
			label += " (clear)"
		}
		if i == a.schedCursor {
			names = append(names, active.Render("▸ "+label))
		} else {
			names = append(names, picker.Render("  "+label))
		}
	}

	var b strings.Builder
	b.WriteString(strings.Join(names, "\n"))
	b.WriteString("\n\n")

	sched := schedules[a.schedCursor]
	if sched.Empty() {
		b.WriteString(picker.Render("  Nothing owed on this card"))
		return b.String()
	}

	// Visible window of the month table
	rowsAvail := a.height - chromeOverhead - len(schedules) - 5
	if rowsAvail < 4 {
		rowsAvail = 4
	}
	from := a.schedScroll
	if from > len(sched.Months)-1 {
		from = len(sched.Months) - 1
	}
	to := from + rowsAvail
	if to > len(sched.Months) {
		to = len(sched.Months)
	}

	rows := make([][]string, 0, to-from)
	for _, r := range sched.Months[from:to] {
		rows = append(rows, []string{
			model.MonthLabel(r.Month, a.start),
			cli.FormatMoney(sym, r.OpenBalance),
			cli.FormatMoney(sym, r.Interest),
			cli.FormatMoney(sym, r.Payment),
			cli.FormatMoney(sym, r.NewBalance),
		})
	}

	title := sched.Account
	if to < len(sched.Months) || from > 0 {
		title = fmt.Sprintf("%s (months %d-%d of %d)", sched.Account, from+1, to, len(sched.Months))
	}

	b.WriteString(cli.RenderTable(cli.Table{
		Title:   title,
		Headers: []string{"Month", "Open", "Interest", "Payment", "Close"},
		Rows:    rows,
	}))

	// Balance decline for the selected card
	balances := make([]float64, len(sched.Months))
	for i, r := range sched.Months {
		balances[i] = r.OpenBalance
	}
	inner := components.CardInnerWidth(width)
	b.WriteString("\n  ")
	b.WriteString(components.Sparkline(downsample(balances, inner), t.Blue))

	return b.String()
}
