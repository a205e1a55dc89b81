// Package source loads account data from cards CSV files.
package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"cardburn/internal/model"
)

// LoadResult holds the accounts parsed from a CSV plus load diagnostics.
// Rows that fail numeric validation are skipped and counted, never fatal.
type LoadResult struct {
	Accounts    []model.Account
	TotalRows   int
	SkippedRows int
	Warnings    []string
}

// Column headers, canonical names first. The lowercase aliases match the
// older file layout and are accepted interchangeably.
var columnAliases = map[string]string{
	"card":         "card",
	"name":         "card",
	"balance":      "balance",
	"apr":          "apr",
	"apr_percent":  "apr",
	"min_override": "min_override",
	"min_pct":      "min_pct",
}

// Load reads a cards CSV from disk.
func Load(path string) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening cards file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}

// Parse reads cards CSV data from a reader. The first row is the header;
// required columns are Card, Balance, and APR. Min_Override and Min_Pct are
// optional, and Min_Pct is given in percent (2 means 2%).
func Parse(r io.Reader) (*LoadResult, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if canonical, ok := columnAliases[key]; ok {
			cols[canonical] = i
		}
	}
	for _, required := range []string{"card", "balance", "apr"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("cards CSV missing required column %q", required)
		}
	}

	result := &LoadResult{}
	seen := make(map[string]bool)

	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.skip(line, err.Error())
			continue
		}

		result.TotalRows++

		acct, err := parseRow(row, cols)
		if err != nil {
			result.skip(line, err.Error())
			continue
		}
		if seen[acct.Name] {
			result.skip(line, fmt.Sprintf("duplicate card name %q", acct.Name))
			continue
		}
		seen[acct.Name] = true
		result.Accounts = append(result.Accounts, acct)
	}

	return result, nil
}

func (r *LoadResult) skip(line int, reason string) {
	r.SkippedRows++
	r.Warnings = append(r.Warnings, fmt.Sprintf("line %d: %s", line, reason))
}

func parseRow(row []string, cols map[string]int) (model.Account, error) {
	var acct model.Account

	acct.Name = strings.TrimSpace(field(row, cols["card"]))
	if acct.Name == "" {
		return acct, fmt.Errorf("empty card name")
	}

	balance, err := parseAmount(field(row, cols["balance"]))
	if err != nil {
		return acct, fmt.Errorf("bad balance: %v", err)
	}
	if balance < 0 {
		return acct, fmt.Errorf("negative balance %.2f", balance)
	}
	acct.Balance = balance

	apr, err := parseAmount(field(row, cols["apr"]))
	if err != nil {
		return acct, fmt.Errorf("bad APR: %v", err)
	}
	if apr < 0 {
		return acct, fmt.Errorf("negative APR %.2f", apr)
	}
	acct.APRPercent = apr

	if idx, ok := cols["min_override"]; ok {
		if raw := strings.TrimSpace(field(row, idx)); raw != "" {
			v, err := parseAmount(raw)
			if err != nil {
				return acct, fmt.Errorf("bad min override: %v", err)
			}
			if v < 0 {
				return acct, fmt.Errorf("negative min override %.2f", v)
			}
			acct.MinOverride = v
		}
	}

	if idx, ok := cols["min_pct"]; ok {
		if raw := strings.TrimSpace(field(row, idx)); raw != "" {
			v, err := parseAmount(raw)
			if err != nil {
				return acct, fmt.Errorf("bad min pct: %v", err)
			}
			if v < 0 {
				return acct, fmt.Errorf("negative min pct %.2f", v)
			}
			// CSV carries percent; the engine wants a fraction.
			acct.MinPct = v / 100
		}
	}

	return acct, nil
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// parseAmount accepts plain numbers plus the $ and , noise people leave in
// exported spreadsheets.
func parseAmount(s string) (float64, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "$")
	clean = strings.ReplaceAll(clean, ",", "")
	clean = strings.TrimSuffix(clean, "%")
	if clean == "" {
		return 0, fmt.Errorf("empty value")
	}
	return strconv.ParseFloat(clean, 64)
}
