// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatMoney formats an amount with a currency symbol, comma grouping and
// two decimal places. e.g., 1234.5 -> "$1,234.50"
func FormatMoney(symbol string, amount float64) string {
	if symbol == "" {
		symbol = "$"
	}
	if amount < 0 {
		return "-" + FormatMoney(symbol, -amount)
	}

	cents := int64(math.Round(amount * 100))
	whole := cents / 100
	frac := cents % 100
	return fmt.Sprintf("%s%s.%02d", symbol, FormatNumber(whole), frac)
}

// FormatMoneyCompact formats an amount for dense displays, dropping
// precision as magnitude grows. e.g., 1234567 -> "$1.2M"
func FormatMoneyCompact(symbol string, amount float64) string {
	if symbol == "" {
		symbol = "$"
	}
	if amount < 0 {
		return "-" + FormatMoneyCompact(symbol, -amount)
	}

	switch {
	case amount >= 1_000_000:
		return fmt.Sprintf("%s%.1fM", symbol, amount/1_000_000)
	case amount >= 10_000:
		return fmt.Sprintf("%s%.1fK", symbol, amount/1_000)
	case amount >= 1000:
		return symbol + FormatNumber(int64(math.Round(amount)))
	case amount >= 100:
		return fmt.Sprintf("%s%.0f", symbol, amount)
	default:
		return fmt.Sprintf("%s%.2f", symbol, amount)
	}
}

// FormatMonths formats a month count as years and months.
// e.g., 27 -> "2y 3m", 8 -> "8m"
func FormatMonths(months int) string {
	if months <= 0 {
		return "0m"
	}

	years := months / 12
	rem := months % 12

	if years > 0 && rem > 0 {
		return fmt.Sprintf("%dy %dm", years, rem)
	}
	if years > 0 {
		return fmt.Sprintf("%dy", years)
	}
	return fmt.Sprintf("%dm", rem)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatRate formats an APR given in percent. e.g., 21.99 -> "21.99%"
func FormatRate(aprPercent float64) string {
	return fmt.Sprintf("%.2f%%", aprPercent)
}

// FormatDelta formats a money delta with an explicit sign.
func FormatDelta(symbol string, current, previous float64) string {
	delta := current - previous
	if delta >= 0 {
		return "+" + FormatMoney(symbol, delta)
	}
	return "-" + FormatMoney(symbol, -delta)
}
