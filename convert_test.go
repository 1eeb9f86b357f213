package ledger

import (
	"testing"

	"github.com/mplenert/ledger/decimal"
)

func TestConvert(t *testing.T) {
	prices := PriceTable{
		"FOO": {Unit: "$", Price: decimal.NewFromInt(2)},
	}
	transactions := []Transaction{
		{
			Postings: []Posting{
				{Account: "A", Amount: Amount{Quantity: decimal.RequireFromString("1.23"), Commodity: "$"}},
				{Account: "B", Amount: Amount{Quantity: decimal.RequireFromString("2.34"), Commodity: "FOO"}},
				{Account: "C", Amount: Amount{Quantity: decimal.RequireFromString("2.34"), Commodity: "UNKNOWN"}},
			},
		},
		{
			Postings: []Posting{
				{Account: "D", Amount: Amount{Quantity: decimal.RequireFromString("3.45"), Commodity: "FOO"}},
			},
		},
	}

	out := Convert("$", prices)(transactions)

	tests := []struct {
		name    string
		got     Amount
		want    decimal.Decimal
		unknown bool
	}{
		{"target commodity untouched", out[0].Postings[0].Amount, decimal.RequireFromString("1.23"), false},
		{"priced commodity converted", out[0].Postings[1].Amount, decimal.RequireFromString("4.68"), false},
		{"unpriced commodity poisoned", out[0].Postings[2].Amount, decimal.Unknown(), true},
		{"second transaction converted", out[1].Postings[0].Amount, decimal.RequireFromString("6.90"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got.Commodity != "$" {
				t.Errorf("commodity = %q, want %q", tt.got.Commodity, "$")
			}
			if tt.got.Quantity.Known() == tt.unknown {
				t.Fatalf("known = %v, want %v", tt.got.Quantity.Known(), !tt.unknown)
			}
			if !tt.got.Quantity.Equal(tt.want) {
				t.Errorf("quantity = %s, want %s", tt.got.Quantity, tt.want)
			}
		})
	}

	// Input untouched.
	if transactions[0].Postings[1].Amount.Commodity != "FOO" {
		t.Error("Convert modified its input")
	}
}

func TestConvert_dropsUnitPrice(t *testing.T) {
	prices := PriceTable{"CTC": {Unit: "$", Price: decimal.RequireFromString("23.45")}}
	transactions := []Transaction{
		{
			Postings: []Posting{
				{
					Account: "Assets:Brokerage",
					Amount: Amount{
						Quantity:  decimal.RequireFromString("-22.33"),
						Commodity: "CTC",
						UnitPrice: &UnitPrice{Quantity: decimal.RequireFromString("23.45"), Commodity: "$"},
					},
				},
			},
		},
	}

	out := Convert("$", prices)(transactions)
	a := out[0].Postings[0].Amount
	if a.UnitPrice != nil {
		t.Error("conversion should drop unit-price sub-amounts")
	}
	if want := decimal.RequireFromString("-523.6385"); !a.Quantity.Equal(want) {
		t.Errorf("quantity = %s, want %s", a.Quantity, want)
	}
}
