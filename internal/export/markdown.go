package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cardburn/internal/cli"
	"cardburn/internal/engine"
	"cardburn/internal/model"
)

// WriteMarkdown writes a single-file payoff report with the summary table,
// the monthly allocation matrix, and any budget shortfall notices.
func WriteMarkdown(outDir string, result *engine.Result, summaries []model.AccountSummary, budget float64, start time.Time) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}

	path := filepath.Join(outDir, "report.md")

	var b strings.Builder
	b.WriteString("# Payoff Plan\n\n")
	fmt.Fprintf(&b, "Monthly budget: %s\n\n", cli.FormatMoney("$", budget))

	b.WriteString("## Cards\n\n")
	b.WriteString("| Card | Opening Balance | Total Interest | Tenure | First Payment | Last Payment |\n")
	b.WriteString("|---|---:|---:|---:|---|---|\n")
	for _, s := range summaries {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			s.Account,
			cli.FormatMoney("$", s.OpeningBalance),
			cli.FormatMoney("$", s.TotalInterest),
			cli.FormatMonths(s.TenureMonths),
			s.StartPayment,
			s.EndPayment,
		)
	}
	b.WriteString("\n")

	if len(result.Shortfalls) > 0 {
		b.WriteString("## Budget Shortfalls\n\n")
		b.WriteString("Months where required minimums exceeded the budget. The plan\n")
		b.WriteString("disburses the minimums anyway, so these months cost more than the\n")
		b.WriteString("configured budget.\n\n")
		b.WriteString("| Month | Required | Budget | Over By |\n")
		b.WriteString("|---|---:|---:|---:|\n")
		for _, s := range result.Shortfalls {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				model.MonthLabel(s.Month, start),
				cli.FormatMoney("$", s.Baseline),
				cli.FormatMoney("$", s.Ceiling),
				cli.FormatMoney("$", s.Amount()),
			)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Monthly Allocation\n\n")
	b.WriteString("| Month |")
	for _, name := range result.Monthly.Accounts {
		fmt.Fprintf(&b, " %s |", name)
	}
	b.WriteString(" Total |\n|---|")
	for range result.Monthly.Accounts {
		b.WriteString("---:|")
	}
	b.WriteString("---:|\n")
	for _, row := range result.Monthly.Rows {
		fmt.Fprintf(&b, "| %s |", model.MonthLabel(row.Month, start))
		for _, name := range result.Monthly.Accounts {
			fmt.Fprintf(&b, " %s |", cli.FormatMoney("$", row.Payments[name]))
		}
		fmt.Fprintf(&b, " %s |\n", cli.FormatMoney("$", row.Total))
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
