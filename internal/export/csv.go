// Package export writes payoff plans to disk as CSV files and a Markdown
// report.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cardburn/internal/engine"
	"cardburn/internal/model"
)

// WriteCSVs writes per-card schedules, the monthly allocation matrix, and
// the account summary into outDir. It returns the paths written.
func WriteCSVs(outDir string, result *engine.Result, summaries []model.AccountSummary, start time.Time) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	var written []string

	for _, sched := range result.Schedules {
		if sched.Empty() {
			continue
		}
		path := filepath.Join(outDir, "schedule_"+slugify(sched.Account)+".csv")
		if err := writeScheduleCSV(path, sched, start); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	allocPath := filepath.Join(outDir, "monthly_allocation.csv")
	if err := writeMonthlyCSV(allocPath, result.Monthly, start); err != nil {
		return written, err
	}
	written = append(written, allocPath)

	summaryPath := filepath.Join(outDir, "summary.csv")
	if err := writeSummaryCSV(summaryPath, summaries); err != nil {
		return written, err
	}
	written = append(written, summaryPath)

	return written, nil
}

func writeScheduleCSV(path string, sched model.Schedule, start time.Time) error {
	return writeCSV(path, func(w *csv.Writer) error {
		if err := w.Write([]string{"month", "open_balance", "interest", "min_due", "payment", "new_balance"}); err != nil {
			return err
		}
		for _, r := range sched.Months {
			row := []string{
				model.MonthLabel(r.Month, start),
				money(r.OpenBalance),
				money(r.Interest),
				money(r.MinDue),
				money(r.Payment),
				money(r.NewBalance),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeMonthlyCSV(path string, monthly model.MonthlySummary, start time.Time) error {
	return writeCSV(path, func(w *csv.Writer) error {
		header := append([]string{"month"}, monthly.Accounts...)
		header = append(header, "total")
		if err := w.Write(header); err != nil {
			return err
		}
		for _, row := range monthly.Rows {
			rec := make([]string, 0, len(header))
			rec = append(rec, model.MonthLabel(row.Month, start))
			for _, name := range monthly.Accounts {
				rec = append(rec, money(row.Payments[name]))
			}
			rec = append(rec, money(row.Total))
			if err := w.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeSummaryCSV(path string, summaries []model.AccountSummary) error {
	return writeCSV(path, func(w *csv.Writer) error {
		if err := w.Write([]string{"card", "opening_balance", "total_interest", "tenure_months", "first_payment", "last_payment"}); err != nil {
			return err
		}
		for _, s := range summaries {
			row := []string{
				s.Account,
				money(s.OpeningBalance),
				money(s.TotalInterest),
				strconv.Itoa(s.TenureMonths),
				s.StartPayment,
				s.EndPayment,
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeCSV(path string, fill func(*csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := fill(w); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	w.Flush()
	return w.Error()
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// slugify turns a card name into a safe file name fragment.
func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '/':
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "card"
	}
	return b.String()
}
