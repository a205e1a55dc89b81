// Package cmd implements the cardburn CLI commands.
package cmd

import (
	"fmt"

	"cardburn/internal/config"
	"cardburn/internal/pipeline"
	"cardburn/internal/store"

	"github.com/spf13/cobra"
)

var flagClearCache bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagClearCache, "clear-cache", false, "remove all cached plans")
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	if flagClearCache {
		return clearPlanCache()
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	if cfg.General.CardsFile != "" {
		fmt.Printf("    Cards file: %s\n", cfg.General.CardsFile)
	} else {
		fmt.Println("    Cards file: not set")
	}
	fmt.Printf("    Currency:   %s\n", cfg.General.Currency)
	fmt.Println()

	fmt.Println("  [Plan]")
	if cfg.Plan.MonthlyBudget != nil {
		fmt.Printf("    Monthly budget: %s%.2f\n", cfg.General.Currency, *cfg.Plan.MonthlyBudget)
	} else {
		fmt.Println("    Monthly budget: not set")
	}
	fmt.Printf("    Policy:         %s\n", cfg.Plan.Policy)
	fmt.Printf("    Max months:     %d\n", cfg.Plan.MaxMonths)
	if cfg.Plan.StartDate != "" {
		fmt.Printf("    Start month:    %s\n", cfg.Plan.StartDate)
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `cardburn setup` to reconfigure.")
	return nil
}

func clearPlanCache() error {
	cache, err := store.Open(pipeline.CachePath())
	if err != nil {
		return fmt.Errorf("opening plan cache: %w", err)
	}
	defer func() { _ = cache.Close() }()

	n, err := cache.PlanCount()
	if err != nil {
		return fmt.Errorf("counting cached plans: %w", err)
	}
	if err := cache.Clear(); err != nil {
		return fmt.Errorf("clearing plan cache: %w", err)
	}
	fmt.Printf("  Removed %d cached plan(s) from %s\n", n, pipeline.CachePath())
	return nil
}
