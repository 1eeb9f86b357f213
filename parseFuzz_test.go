//go:build go1.18

package ledger

import (
	"testing"

	"github.com/mplenert/ledger/decimal"
)

func FuzzParse(f *testing.F) {
	f.Add(testLedger)
	f.Add("a\n\nb\n\nc\n\nd\n\n2014/02/14 desc\n  Assets  1 $\n  Expenses\n")
	f.Fuzz(func(t *testing.T, s string) {
		l := Parse(s)

		// Parsing is lenient and never fails; whatever comes out must
		// balance to a known zero per transaction once balanced.
		for _, trans := range Balance(l.Transactions) {
			if len(trans.Postings) == 0 {
				continue
			}
			total := decimal.Zero
			for _, p := range trans.Postings {
				if p.Amount.Elided() {
					continue
				}
				total = total.Add(p.Amount.Quantity)
			}
			if !total.IsZero() {
				t.Errorf("unbalanced transaction %q: total %s", trans.Desc, total)
			}
		}
	})
}
