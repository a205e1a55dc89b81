package cmd

import (
	"fmt"
	"strings"

	"cardburn/internal/cli"
	"cardburn/internal/model"

	"github.com/spf13/cobra"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule [card]",
	Short: "Month-by-month payoff schedule, optionally for one card",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(_ *cobra.Command, args []string) error {
	pc, err := loadPlan()
	if err != nil {
		return err
	}

	var filter string
	if len(args) == 1 {
		filter = args[0]
	}

	printShortfalls(pc)

	shown := 0
	for _, sched := range pc.Outcome.Result.Schedules {
		if filter != "" && !strings.EqualFold(sched.Account, filter) {
			continue
		}
		if sched.Empty() {
			if filter != "" {
				fmt.Printf("  %s has no balance to pay down\n", sched.Account)
				shown++
			}
			continue
		}
		printSchedule(pc, sched)
		shown++
	}

	if shown == 0 {
		if filter != "" {
			return fmt.Errorf("no card named %q", filter)
		}
		fmt.Println("  Nothing to schedule, all balances are clear")
	}
	return nil
}

func printSchedule(pc *planContext, sched model.Schedule) {
	sym := pc.Currency

	rows := make([][]string, 0, len(sched.Months))
	for _, r := range sched.Months {
		rows = append(rows, []string{
			model.MonthLabel(r.Month, pc.Start),
			cli.FormatMoney(sym, r.OpenBalance),
			cli.FormatMoney(sym, r.Interest),
			cli.FormatMoney(sym, r.MinDue),
			cli.FormatMoney(sym, r.Payment),
			cli.FormatMoney(sym, r.NewBalance),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   sched.Account,
		Headers: []string{"Month", "Open", "Interest", "Min Due", "Payment", "Close"},
		Rows:    rows,
	}))
	fmt.Println()
}
