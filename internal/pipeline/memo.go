package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/hashstructure/v2"
)

// planInputs is the hashed identity of a plan. The start date is excluded
// because it only affects display labels, never the computed schedule.
type planInputs struct {
	Accounts  interface{}
	Budget    float64
	Policy    string
	MaxMonths int
}

// PlanKey derives a stable cache key from the plan-affecting inputs.
func PlanKey(req Request) (string, error) {
	h, err := hashstructure.Hash(planInputs{
		Accounts:  req.Accounts,
		Budget:    req.Budget,
		Policy:    string(req.Policy),
		MaxMonths: req.MaxMonths,
	}, hashstructure.FormatV2, nil)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", h), nil
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "cardburn")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "cardburn")
}

// CachePath returns the full path to the plan cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "plans.db")
}
