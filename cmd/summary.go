package cmd

import (
	"fmt"

	"cardburn/internal/cli"
	"cardburn/internal/engine"
	"cardburn/internal/model"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Per-card payoff summary (default command)",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	pc, err := loadPlan()
	if err != nil {
		return err
	}

	fmt.Println(cli.RenderTitle("Payoff Plan"))
	fmt.Println()

	printShortfalls(pc)

	sym := pc.Currency
	result := pc.Outcome.Result

	aprs := make(map[string]float64, len(pc.Request.Accounts))
	for _, a := range pc.Request.Accounts {
		aprs[a.Name] = a.APRPercent
	}

	var totalBalance, totalInterest float64
	longest := 0
	rows := make([][]string, 0, len(pc.Outcome.Summaries))
	for _, s := range pc.Outcome.Summaries {
		totalBalance += s.OpeningBalance
		totalInterest += s.TotalInterest
		if s.TenureMonths > longest {
			longest = s.TenureMonths
		}
		rows = append(rows, []string{
			s.Account,
			cli.FormatMoney(sym, s.OpeningBalance),
			cli.FormatRate(aprs[s.Account]),
			cli.FormatMoney(sym, s.TotalInterest),
			cli.FormatMonths(s.TenureMonths),
			s.EndPayment,
		})
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{
		"Total",
		cli.FormatMoney(sym, totalBalance),
		"",
		cli.FormatMoney(sym, totalInterest),
		cli.FormatMonths(longest),
		"",
	})

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Cards",
		Headers: []string{"Card", "Balance", "APR", "Interest", "Tenure", "Paid Off"},
		Rows:    rows,
	}))

	fmt.Println()
	fmt.Printf("  Budget %s/mo, %s policy\n", cli.FormatMoney(sym, pc.Request.Budget), pc.Request.Policy)
	fmt.Printf("  Debt-free in %s, paying %s in interest\n",
		cli.FormatMonths(longest), cli.FormatMoney(sym, totalInterest))

	if spark := balanceSparkline(result); spark != "" {
		fmt.Printf("  Remaining balance: %s\n", spark)
	}

	return nil
}

func printShortfalls(pc *planContext) {
	shortfalls := pc.Outcome.Result.Shortfalls
	if len(shortfalls) == 0 {
		return
	}

	first := shortfalls[0]
	fmt.Println(cli.RenderWarning(fmt.Sprintf(
		"minimums exceed budget in %d month(s); first in %s, needing %s over budget",
		len(shortfalls),
		model.MonthLabel(first.Month, pc.Start),
		cli.FormatMoney(pc.Currency, first.Amount()),
	)))
	fmt.Println()
}

// balanceSparkline condenses total remaining balance per month into a
// sparkline.
func balanceSparkline(result *engine.Result) string {
	months := len(result.Monthly.Rows)
	if months == 0 {
		return ""
	}

	totals := make([]float64, months)
	for _, sched := range result.Schedules {
		for _, r := range sched.Months {
			totals[r.Month-1] += r.NewBalance
		}
	}
	return cli.RenderSparkline(totals)
}
