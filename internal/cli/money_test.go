package cli

import "testing"

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name   string
		want   string
		amount float64
	}{
		{name: "zero", amount: 0, want: "$0.00"},
		{name: "cents only", amount: 0.05, want: "$0.05"},
		{name: "no grouping under a thousand", amount: 999.99, want: "$999.99"},
		{name: "exactly one thousand", amount: 1000, want: "$1,000.00"},
		{name: "groups of three", amount: 1234567.89, want: "$1,234,567.89"},
		{name: "negative amount", amount: -1234.5, want: "-$1,234.50"},
		{name: "rounds to cents", amount: 12.346, want: "$12.35"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatMoney(tt.amount); got != tt.want {
				t.Errorf("FormatMoney(%v) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}
