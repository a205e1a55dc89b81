package cmd

import (
	"fmt"

	"cardburn/internal/export"

	"github.com/spf13/cobra"
)

var (
	flagExportDir      string
	flagExportMarkdown bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write schedules and summaries to CSV files",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportDir, "outdir", "o", "payoff_out", "Output directory")
	exportCmd.Flags().BoolVar(&flagExportMarkdown, "markdown", false, "Also write a Markdown report")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	pc, err := loadPlan()
	if err != nil {
		return err
	}

	printShortfalls(pc)

	written, err := export.WriteCSVs(flagExportDir, pc.Outcome.Result, pc.Outcome.Summaries, pc.Start)
	if err != nil {
		return err
	}

	if flagExportMarkdown {
		path, err := export.WriteMarkdown(flagExportDir, pc.Outcome.Result, pc.Outcome.Summaries, pc.Request.Budget, pc.Start)
		if err != nil {
			return err
		}
		written = append(written, path)
	}

	for _, path := range written {
		fmt.Printf("  wrote %s\n", path)
	}
	return nil
}
