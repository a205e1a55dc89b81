package cli

import "testing"

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "$0.00"},
		{25, "$25.00"},
		{33.335, "$33.34"},
		{1234.5, "$1,234.50"},
		{1250000.991, "$1,250,000.99"},
		{-450.25, "-$450.25"},
	}
	for _, tt := range tests {
		if got := FormatMoney("$", tt.amount); got != tt.want {
			t.Fatalf("FormatMoney(%v): got %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestFormatMoneyCustomSymbol(t *testing.T) {
	if got := FormatMoney("€", 99.9); got != "€99.90" {
		t.Fatalf("got %q", got)
	}
	if got := FormatMoney("", 1); got != "$1.00" {
		t.Fatalf("empty symbol should default to $, got %q", got)
	}
}

func TestFormatMoneyCompact(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{12.34, "$12.34"},
		{450, "$450"},
		{4821, "$4,821"},
		{68200, "$68.2K"},
		{2500000, "$2.5M"},
	}
	for _, tt := range tests {
		if got := FormatMoneyCompact("$", tt.amount); got != tt.want {
			t.Fatalf("FormatMoneyCompact(%v): got %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestFormatMonths(t *testing.T) {
	tests := []struct {
		months int
		want   string
	}{
		{0, "0m"},
		{8, "8m"},
		{12, "1y"},
		{27, "2y 3m"},
	}
	for _, tt := range tests {
		if got := FormatMonths(tt.months); got != tt.want {
			t.Fatalf("FormatMonths(%d): got %q, want %q", tt.months, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4500, "-4,500"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.n); got != tt.want {
			t.Fatalf("FormatNumber(%d): got %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatDelta(t *testing.T) {
	if got := FormatDelta("$", 120, 100); got != "+$20.00" {
		t.Fatalf("got %q", got)
	}
	if got := FormatDelta("$", 100, 120); got != "-$20.00" {
		t.Fatalf("got %q", got)
	}
}

func TestRenderSparklineShape(t *testing.T) {
	got := RenderSparkline([]float64{0, 50, 100})
	want := "▁▄█"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderHorizontalBar(t *testing.T) {
	if got := RenderHorizontalBar(50, 100, 10); got != "█████" {
		t.Fatalf("got %q", got)
	}
	if got := RenderHorizontalBar(10, 0, 10); got != "" {
		t.Fatalf("zero max should render empty, got %q", got)
	}
}
