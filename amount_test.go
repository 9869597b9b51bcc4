package beancount

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestAmount_String(t *testing.T) {
	tests := []struct {
		name     string
		amount   Amount
		expected string
	}{
		{"iso currency rounds to minor unit", A(decimal.RequireFromString("1234.5"), "USD"), "1234.50 USD"},
		{"zero-decimal currency", A(decimal.RequireFromString("1500"), "JPY"), "1500 JPY"},
		{"security symbol keeps digits", A(decimal.RequireFromString("10.123456"), "AAPL"), "10.123456 AAPL"},
		{"negative", A(decimal.RequireFromString("-10"), "GBP"), "-10.00 GBP"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.amount.String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestCost_String(t *testing.T) {
	c := Cost{Number: decimal.RequireFromString("100"), Currency: "USD", Date: NewDate(2024, time.January, 1)}
	if got := c.String(); got != "{100 USD, 2024-01-01}" {
		t.Errorf("String() = %q", got)
	}
	c.Label = "Section-104 Taxable"
	if got := c.String(); got != `{100 USD, 2024-01-01, "Section-104 Taxable"}` {
		t.Errorf("String() = %q", got)
	}
}

func TestValidateCurrency(t *testing.T) {
	for _, code := range []string{"USD", "GBP", "EUR", "JPY"} {
		if err := ValidateCurrency(code); err != nil {
			t.Errorf("ValidateCurrency(%q) = %v, want nil", code, err)
		}
	}
	// Only registry currencies pass: no symbols, no pseudo-currencies.
	for _, code := range []string{"usd", "US", "", "CGT-GBP", "AAPL", "XYZ"} {
		if err := ValidateCurrency(code); err == nil {
			t.Errorf("ValidateCurrency(%q) = nil, want error", code)
		}
	}
}
