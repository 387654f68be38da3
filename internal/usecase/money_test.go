package usecase

import (
	"math"
	"testing"
)

func TestMoneyFormatter_Format(t *testing.T) {
	money := DefaultMoneyFormatter()

	tests := []struct {
		cents int64
		want  string
	}{
		{1999, "$19.99"},
		{0, "$0.00"},
		{5, "$0.05"},
		{100, "$1.00"},
		{2500, "$25.00"},
		{-1999, "-$19.99"},
		{123456789, "$1,234,567.89"},
		{9007199254740993, "$90,071,992,547,409.93"},
		{math.MaxInt64, "$92,233,720,368,547,758.07"},
		{math.MinInt64, "-$92,233,720,368,547,758.08"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := money.Format(tt.cents); got != tt.want {
				t.Errorf("Format(%d) = %q, want %q", tt.cents, got, tt.want)
			}
		})
	}
}

func TestNewMoneyFormatter(t *testing.T) {
	t.Run("supported currency", func(t *testing.T) {
		f, err := NewMoneyFormatter("en-GB", "GBP")
		if err != nil {
			t.Fatalf("NewMoneyFormatter() error = %v", err)
		}
		if f.Currency() != "GBP" {
			t.Errorf("Currency() = %s, want GBP", f.Currency())
		}
		if got := f.Format(1250); got != "£12.50" {
			t.Errorf("Format(1250) = %q, want £12.50", got)
		}
	})

	t.Run("locale decimal separator", func(t *testing.T) {
		f, err := NewMoneyFormatter("de-DE", "EUR")
		if err != nil {
			t.Fatalf("NewMoneyFormatter() error = %v", err)
		}
		if got := f.Format(123456); got != "€1.234,56" {
			t.Errorf("Format(123456) = %q, want €1.234,56", got)
		}
	})

	t.Run("invalid iso code", func(t *testing.T) {
		if _, err := NewMoneyFormatter("en-US", "DOLLARS"); err == nil {
			t.Error("NewMoneyFormatter() error = nil, want error for invalid code")
		}
	})

	t.Run("unsupported currency", func(t *testing.T) {
		if _, err := NewMoneyFormatter("ja-JP", "JPY"); err == nil {
			t.Error("NewMoneyFormatter() error = nil, want error for unsupported currency")
		}
	})

	t.Run("invalid locale", func(t *testing.T) {
		if _, err := NewMoneyFormatter("not a locale!", "USD"); err == nil {
			t.Error("NewMoneyFormatter() error = nil, want error for invalid locale")
		}
	})
}
