package cmd

import (
	"fmt"

	"cardburn/internal/config"
	"cardburn/internal/tui"
	"cardburn/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	// Load config for theme
	cfg, _ := config.Load()
	theme.SetActive(cfg.Appearance.Theme)

	firstRun := !config.Exists()

	rp, err := resolveRequest()
	if err != nil {
		if !firstRun {
			return err
		}
		// No config yet. Launch straight into the setup form.
		rp = resolvedPlan{Currency: cfg.General.Currency}
	}

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(tui.Options{
		Accounts:  rp.Request.Accounts,
		CardsFile: rp.CardsFile,
		Budget:    rp.Request.Budget,
		Policy:    rp.Request.Policy,
		MaxMonths: rp.Request.MaxMonths,
		Start:     rp.Request.Start,
		Currency:  rp.Currency,
		UseCache:  !flagNoCache,
		NeedSetup: firstRun,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
