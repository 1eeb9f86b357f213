package ledger

import (
	"github.com/mplenert/ledger/decimal"
)

// Balance fills in the balancing amount of every transaction and returns
// fresh transactions; the input is never modified.
//
// By convention the elided posting is the last one, and it is not located
// by searching: the last posting's amount is replaced unconditionally.
// The quantities of all earlier postings are summed regardless of
// commodity, and the balancing amount is the negated sum labeled with the
// commodity (and unit price, if any) of the last non-elided posting seen.
// For transactions whose earlier postings span multiple commodities that
// label is whichever commodity happened to come last — a quirk kept for
// compatibility with single-commodity files, where it is always right.
func Balance(transactions []Transaction) []Transaction {
	out := make([]Transaction, len(transactions))
	for i, trans := range transactions {
		out[i] = balanceTransaction(trans)
	}
	return out
}

func balanceTransaction(trans Transaction) Transaction {
	if len(trans.Postings) == 0 {
		return trans
	}

	sum := decimal.Zero
	var commodity Commodity
	var unitPrice *UnitPrice
	for _, p := range trans.Postings[:len(trans.Postings)-1] {
		if p.Amount.Elided() {
			continue
		}
		sum = sum.Add(p.Amount.Quantity)
		commodity = p.Amount.Commodity
		if p.Amount.UnitPrice != nil {
			unitPrice = p.Amount.UnitPrice
		}
	}

	postings := make([]Posting, len(trans.Postings))
	copy(postings, trans.Postings)
	postings[len(postings)-1].Amount = Amount{
		Quantity:  sum.Neg(),
		Commodity: commodity,
		UnitPrice: unitPrice,
	}

	trans.Postings = postings
	return trans
}
