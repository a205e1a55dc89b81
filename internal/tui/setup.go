package tui

import (
	"fmt"
	"strconv"
	"strings"

	"cardburn/internal/config"
	"cardburn/internal/engine"
	"cardburn/internal/source"
	"cardburn/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// setupValues holds the first-run form inputs before they are saved.
type setupValues struct {
	CardsFile string
	Budget    string
	Policy    string
	Theme     string
}

// newSetupForm builds the first-run setup form, prefilled from the current
// invocation so Enter-through keeps working defaults.
func newSetupForm(cardsFile string, budget float64, vals *setupValues) *huh.Form {
	vals.CardsFile = cardsFile
	vals.Budget = strconv.FormatFloat(budget, 'f', -1, 64)
	vals.Policy = "avalanche"
	vals.Theme = theme.Active.Name

	themeOptions := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOptions = append(themeOptions, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Cards CSV file").
				Description("Card, Balance, APR, and optional Min_Override / Min_Pct columns.").
				Value(&vals.CardsFile),
			huh.NewInput().
				Title("Monthly budget").
				Description("Total amount to put toward cards each month.").
				Value(&vals.Budget).
				Validate(func(s string) error {
					v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
					if err != nil || v <= 0 {
						return fmt.Errorf("enter a positive amount")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Allocation policy").
				Options(
					huh.NewOption("Avalanche (highest APR first)", "avalanche"),
					huh.NewOption("Legacy (priority card only)", "legacy"),
				).
				Value(&vals.Policy),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOptions...).
				Value(&vals.Theme),
			huh.NewConfirm().
				Title("Save these defaults?").
				Affirmative("Save").
				Negative("Skip"),
		),
	)
}

// applySetup persists the setup form values and applies them to the running
// app. Returns true when the plan inputs changed and need a recompute.
func (a *App) applySetup() bool {
	vals := a.setupVals
	recompute := false

	cfg, _ := config.Load()

	if f := strings.TrimSpace(vals.CardsFile); f != "" {
		cfg.General.CardsFile = f
		if f != a.cardsFile || len(a.accounts) == 0 {
			if res, err := source.Load(f); err == nil {
				a.cardsFile = f
				a.accounts = res.Accounts
				recompute = true
			}
		}
	}

	if v, err := strconv.ParseFloat(strings.TrimSpace(vals.Budget), 64); err == nil && v > 0 {
		cfg.Plan.MonthlyBudget = &v
		if v != a.budget {
			a.budget = v
			recompute = true
		}
	}

	if vals.Policy != "" {
		cfg.Plan.Policy = vals.Policy
		if string(a.policy) != vals.Policy {
			a.policy = engine.Policy(vals.Policy)
			recompute = true
		}
	}

	if vals.Theme != "" {
		cfg.Appearance.Theme = vals.Theme
		theme.SetActive(vals.Theme)
	}

	_ = config.Save(cfg)
	return recompute
}
