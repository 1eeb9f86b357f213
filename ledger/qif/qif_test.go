package qif_test

import (
	"strings"
	"testing"

	"github.com/mplenert/ledger/ledger/qif"
)

const sampleQIF = `!Type:Cash
D08/14/2024
T15.00
MBank deposit
LBank Deposit to PP Account
SBank Deposit to PP Account
$15.00
^
D08/14/2024
U-15.00
P9171-5573 Quebec Inc
MVOIPMS15
LPreApproved Payment Bill User Payment
SPreApproved Payment Bill User Payment
$-15.00
^
D08/27/2024
T80.00
LBank Deposit to PP Account
^
`

func TestParseQIF(t *testing.T) {
	entries, err := qif.ParseQIF(strings.NewReader(sampleQIF))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	tests := []struct {
		index   int
		typ     string
		date    string
		amount  string
		payee   string
		memo    string
		cat     string
		splitCt string
		splitAm string
	}{
		{0, "Cash", "08/14/2024", "15.00", "", "Bank deposit", "Bank Deposit to PP Account", "Bank Deposit to PP Account", "15.00"},
		{1, "Cash", "08/14/2024", "-15.00", "9171-5573 Quebec Inc", "VOIPMS15", "PreApproved Payment Bill User Payment", "PreApproved Payment Bill User Payment", "-15.00"},
		{2, "Cash", "08/27/2024", "80.00", "", "", "Bank Deposit to PP Account", "", ""},
	}

	for _, tt := range tests {
		e := entries[tt.index]
		if e.Type != tt.typ {
			t.Errorf("entry %d: Type = %q, want %q", tt.index, e.Type, tt.typ)
		}
		if e.Date != tt.date {
			t.Errorf("entry %d: Date = %q, want %q", tt.index, e.Date, tt.date)
		}
		if e.Amount != tt.amount {
			t.Errorf("entry %d: Amount = %q, want %q", tt.index, e.Amount, tt.amount)
		}
		if e.Payee != tt.payee {
			t.Errorf("entry %d: Payee = %q, want %q", tt.index, e.Payee, tt.payee)
		}
		if e.Memo != tt.memo {
			t.Errorf("entry %d: Memo = %q, want %q", tt.index, e.Memo, tt.memo)
		}
		if e.Category != tt.cat {
			t.Errorf("entry %d: Category = %q, want %q", tt.index, e.Category, tt.cat)
		}
		if e.SplitCategory != tt.splitCt {
			t.Errorf("entry %d: SplitCategory = %q, want %q", tt.index, e.SplitCategory, tt.splitCt)
		}
		if e.SplitAmount != tt.splitAm {
			t.Errorf("entry %d: SplitAmount = %q, want %q", tt.index, e.SplitAmount, tt.splitAm)
		}
	}
}

func TestParseQIF_precisionOverride(t *testing.T) {
	const in = "!Type:Bank\nD01/02/2024\nU-15.004\nT-15.00\nPCoffee\n^\n"
	entries, err := qif.ParseQIF(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Amount != "-15.004" {
		t.Errorf("Amount = %q, want the higher precision -15.004", entries[0].Amount)
	}
}

func TestParseQIF_ignoresStrayLines(t *testing.T) {
	const in = "!Account\nNChecking\n^\n!Type:Bank\nD01/02/2024\nT1.00\n^\n"
	entries, err := qif.ParseQIF(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Date != "01/02/2024" {
		t.Errorf("Date = %q", entries[0].Date)
	}
}
