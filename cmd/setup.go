package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"cardburn/internal/config"
	"cardburn/internal/source"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	reader := bufio.NewReader(os.Stdin)

	// Load existing config or defaults
	cfg, _ := config.Load()

	fmt.Println()
	fmt.Println("  Welcome to cardburn!")
	fmt.Println()

	// 1. Cards file
	fmt.Println("  1. Cards CSV file")
	fmt.Println("     One row per card: name, balance, APR.")
	if cfg.General.CardsFile != "" {
		fmt.Printf("     Current: %s\n", cfg.General.CardsFile)
	}
	fmt.Print("     > ")
	cardsFile, _ := reader.ReadString('\n')
	cardsFile = strings.TrimSpace(cardsFile)
	if cardsFile != "" {
		if res, err := source.Load(cardsFile); err != nil {
			fmt.Printf("     Could not read %s: %v (keeping anyway)\n", cardsFile, err)
		} else {
			fmt.Printf("     Found %d cards (%d rows skipped)\n", len(res.Accounts), res.SkippedRows)
		}
		cfg.General.CardsFile = cardsFile
	}
	fmt.Println()

	// 2. Monthly budget
	fmt.Println("  2. Monthly payoff budget")
	if cfg.Plan.MonthlyBudget != nil {
		fmt.Printf("     Current: %s%.2f\n", cfg.General.Currency, *cfg.Plan.MonthlyBudget)
	}
	fmt.Print("     > ")
	budgetRaw, _ := reader.ReadString('\n')
	budgetRaw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(budgetRaw), cfg.General.Currency))
	if budgetRaw != "" {
		budget, err := strconv.ParseFloat(budgetRaw, 64)
		if err != nil || budget <= 0 {
			fmt.Printf("     Ignoring %q: budget must be a positive number\n", budgetRaw)
		} else {
			cfg.Plan.MonthlyBudget = &budget
		}
	}
	fmt.Println()

	// 3. Payoff policy
	fmt.Println("  3. Payoff policy")
	fmt.Println("     (1) Avalanche (highest APR first, minimums guaranteed) [default]")
	fmt.Println("     (2) Legacy (priority order only)")
	fmt.Print("     > ")
	choice, _ := reader.ReadString('\n')
	switch strings.TrimSpace(choice) {
	case "2":
		cfg.Plan.Policy = "legacy"
	default:
		cfg.Plan.Policy = "avalanche"
	}
	fmt.Println()

	// 4. Theme
	fmt.Println("  4. Color theme")
	fmt.Println("     (1) Flexoki Dark [default]")
	fmt.Println("     (2) Catppuccin Mocha")
	fmt.Println("     (3) Tokyo Night")
	fmt.Println("     (4) Terminal (ANSI 16)")
	fmt.Print("     > ")
	themeChoice, _ := reader.ReadString('\n')
	switch strings.TrimSpace(themeChoice) {
	case "2":
		cfg.Appearance.Theme = "catppuccin-mocha"
	case "3":
		cfg.Appearance.Theme = "tokyo-night"
	case "4":
		cfg.Appearance.Theme = "terminal"
	default:
		cfg.Appearance.Theme = "flexoki-dark"
	}

	// Save
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `cardburn setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}
