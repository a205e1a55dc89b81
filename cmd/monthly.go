package cmd

import (
	"fmt"

	"cardburn/internal/cli"
	"cardburn/internal/model"

	"github.com/spf13/cobra"
)

var monthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Monthly allocation matrix across all cards",
	RunE:  runMonthly,
}

func init() {
	rootCmd.AddCommand(monthlyCmd)
}

func runMonthly(_ *cobra.Command, _ []string) error {
	pc, err := loadPlan()
	if err != nil {
		return err
	}

	printShortfalls(pc)

	monthly := pc.Outcome.Result.Monthly
	if len(monthly.Rows) == 0 {
		fmt.Println("  Nothing to allocate, all balances are clear")
		return nil
	}

	sym := pc.Currency

	headers := append([]string{"Month"}, monthly.Accounts...)
	headers = append(headers, "Total")

	rows := make([][]string, 0, len(monthly.Rows)+2)
	grand := 0.0
	for _, row := range monthly.Rows {
		rec := make([]string, 0, len(headers))
		rec = append(rec, model.MonthLabel(row.Month, pc.Start))
		for _, name := range monthly.Accounts {
			rec = append(rec, cli.FormatMoney(sym, row.Payments[name]))
		}
		rec = append(rec, cli.FormatMoney(sym, row.Total))
		rows = append(rows, rec)
		grand += row.Total
	}
	rows = append(rows, []string{"---"})
	totalRow := make([]string, len(headers))
	totalRow[0] = "Total"
	totalRow[len(headers)-1] = cli.FormatMoney(sym, grand)
	rows = append(rows, totalRow)

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Monthly Allocation",
		Headers: headers,
		Rows:    rows,
	}))

	fmt.Println()
	fmt.Printf("  Total disbursed: %s over %s\n",
		cli.FormatMoney(sym, grand), cli.FormatMonths(len(monthly.Rows)))
	return nil
}
