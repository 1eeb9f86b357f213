package ledger

import (
	"log"

	"github.com/mplenert/ledger/decimal"
)

// Convert returns a transform that rewrites every posting's amount into
// the target commodity using the price table. Amounts already in the
// target commodity pass through untouched. A commodity with no price
// record converts to an Unknown quantity, logged as a diagnostic, so the
// gap stays visible downstream instead of reading as zero. Unit-price
// sub-amounts are not consulted and do not survive conversion.
func Convert(target Commodity, prices PriceTable) func([]Transaction) []Transaction {
	return func(transactions []Transaction) []Transaction {
		return mapAmounts(transactions, func(a Amount) Amount {
			if a.Commodity == target {
				return a
			}
			rec, ok := prices[a.Commodity]
			if !ok {
				log.Printf("ledger: price not found for: %s", a.Commodity)
				return Amount{Quantity: decimal.Unknown(), Commodity: target}
			}
			return Amount{Quantity: rec.Price.Mul(a.Quantity), Commodity: target}
		})
	}
}

// mapAmounts replaces the amount of every posting in every transaction
// with f(amount), building fresh transactions and postings.
func mapAmounts(transactions []Transaction, f func(Amount) Amount) []Transaction {
	out := make([]Transaction, len(transactions))
	for i, trans := range transactions {
		postings := make([]Posting, len(trans.Postings))
		for j, p := range trans.Postings {
			p.Amount = f(p.Amount)
			postings[j] = p
		}
		trans.Postings = postings
		out[i] = trans
	}
	return out
}
