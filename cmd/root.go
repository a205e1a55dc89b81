package cmd

import (
	"fmt"
	"os"
	"time"

	"cardburn/internal/config"
	"cardburn/internal/engine"
	"cardburn/internal/pipeline"
	"cardburn/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagCards     string
	flagBudget    float64
	flagPolicy    string
	flagStart     string
	flagMaxMonths int
	flagNoCache   bool
	flagQuiet     bool
)

var rootCmd = &cobra.Command{
	Use:   "cardburn",
	Short: "Credit card payoff planner",
	Long:  "Plan credit card payoff: avalanche allocation, schedules, interest totals, and exports.",
	RunE:  runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagCards, "cards", "f", "", "Cards CSV file (defaults to the configured one)")
	rootCmd.PersistentFlags().Float64VarP(&flagBudget, "budget", "b", 0, "Monthly payment budget")
	rootCmd.PersistentFlags().StringVar(&flagPolicy, "policy", "", "Allocation policy: avalanche or legacy")
	rootCmd.PersistentFlags().StringVar(&flagStart, "start", "", "Start month for calendar labels (YYYY-MM)")
	rootCmd.PersistentFlags().IntVar(&flagMaxMonths, "max-months", 0, "Non-convergence guard (0 = default)")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip the plan cache, recompute")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress diagnostics on stderr")
}

// planContext is everything a rendering command needs.
type planContext struct {
	Outcome  *pipeline.Outcome
	Request  pipeline.Request
	Currency string
	Start    time.Time
}

// resolvedPlan carries the merged flag/config inputs for one invocation.
type resolvedPlan struct {
	Request   pipeline.Request
	CardsFile string
	Currency  string
}

// resolveRequest merges flags over config defaults into a plan request.
func resolveRequest() (resolvedPlan, error) {
	var rp resolvedPlan

	cfg, err := config.Load()
	if err != nil {
		return rp, err
	}

	cardsFile := flagCards
	if cardsFile == "" {
		cardsFile = cfg.General.CardsFile
	}
	if cardsFile == "" {
		return rp, fmt.Errorf("no cards file: pass --cards or run `cardburn setup`")
	}

	budget := flagBudget
	if budget == 0 && cfg.Plan.MonthlyBudget != nil {
		budget = *cfg.Plan.MonthlyBudget
	}
	if budget <= 0 {
		return rp, fmt.Errorf("no monthly budget: pass --budget or run `cardburn setup`")
	}

	policy := engine.Policy(flagPolicy)
	if flagPolicy == "" {
		policy = engine.Policy(cfg.Plan.Policy)
	}
	if !policy.Valid() {
		return rp, fmt.Errorf("unknown policy %q (want avalanche or legacy)", policy)
	}

	maxMonths := flagMaxMonths
	if maxMonths == 0 {
		maxMonths = cfg.Plan.MaxMonths
	}

	if flagStart != "" {
		cfg.Plan.StartDate = flagStart
	}
	start, err := cfg.StartTime()
	if err != nil {
		return rp, err
	}

	loaded, err := pipeline.LoadAccounts(cardsFile)
	if err != nil {
		return rp, err
	}
	if !flagQuiet {
		for _, w := range loaded.Warnings {
			fmt.Fprintf(os.Stderr, "  warning: %s\n", w)
		}
		if loaded.SkippedRows > 0 {
			fmt.Fprintf(os.Stderr, "  skipped %d of %d card rows\n", loaded.SkippedRows, loaded.TotalRows)
		}
	}

	rp.Request = pipeline.Request{
		Accounts:  loaded.Accounts,
		Budget:    budget,
		Policy:    policy,
		MaxMonths: maxMonths,
		Start:     start,
	}
	rp.CardsFile = cardsFile
	rp.Currency = cfg.General.Currency
	return rp, nil
}

// loadPlan is the shared planning path used by all rendering commands.
// Uses the SQLite plan cache unless --no-cache.
func loadPlan() (*planContext, error) {
	rp, err := resolveRequest()
	if err != nil {
		return nil, err
	}
	req := rp.Request

	var outcome *pipeline.Outcome
	if flagNoCache {
		outcome, err = pipeline.Run(req)
	} else {
		cache, cacheErr := store.Open(pipeline.CachePath())
		if cacheErr != nil {
			if !flagQuiet {
				fmt.Fprintf(os.Stderr, "  plan cache unavailable, recomputing\n")
			}
			outcome, err = pipeline.Run(req)
		} else {
			defer cache.Close()
			outcome, err = pipeline.RunWithCache(req, cache)
		}
	}
	if err != nil {
		return nil, err
	}

	if !flagQuiet && outcome.FromCache {
		fmt.Fprintf(os.Stderr, "  restored plan from cache\n")
	}

	return &planContext{
		Outcome:  outcome,
		Request:  req,
		Currency: rp.Currency,
		Start:    req.Start,
	}, nil
}
