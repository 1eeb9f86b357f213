package ledger

import (
	"regexp"
	"sort"

	"github.com/mplenert/ledger/decimal"
)

// AccountBalance pairs an account name with its per-commodity totals.
type AccountBalance struct {
	Account string                        `json:"account"`
	Amounts map[Commodity]decimal.Decimal `json:"amounts"`
}

// Balances returns a transform reducing every posting of every
// transaction into per-account, per-commodity totals. Commodity entries
// that sum to exactly zero are removed, accounts left with no entries
// are dropped, and the result is filtered to accounts matching pattern
// and sorted ascending by account name.
//
// A posting bought at a unit price contributes twice: its own quantity
// under its own commodity, and -1 × unitQuantity × quantity under the
// pricing commodity. That is what makes a purchase net to zero in the
// pricing commodity once balanced.
func Balances(pattern *regexp.Regexp) func([]Transaction) []AccountBalance {
	return func(transactions []Transaction) []AccountBalance {
		totals := make(map[string]map[Commodity]decimal.Decimal)
		for _, trans := range transactions {
			for _, p := range trans.Postings {
				mergeLegs(totals, p)
			}
		}

		var balances []AccountBalance
		for account, amounts := range totals {
			for commodity, quantity := range amounts {
				if quantity.IsZero() {
					delete(amounts, commodity)
				}
			}
			if len(amounts) == 0 || !pattern.MatchString(account) {
				continue
			}
			balances = append(balances, AccountBalance{Account: account, Amounts: amounts})
		}

		sort.Slice(balances, func(i, j int) bool {
			return balances[i].Account < balances[j].Account
		})
		return balances
	}
}

func mergeLegs(totals map[string]map[Commodity]decimal.Decimal, p Posting) {
	amounts := totals[p.Account]
	if amounts == nil {
		amounts = make(map[Commodity]decimal.Decimal)
		totals[p.Account] = amounts
	}
	for commodity, quantity := range amountLegs(p.Amount) {
		if cur, ok := amounts[commodity]; ok {
			quantity = cur.Add(quantity)
		}
		amounts[commodity] = quantity
	}
}

// amountLegs expands an amount into its commodity contributions: the
// stated quantity, plus the unit-price leg for @-notation amounts.
func amountLegs(a Amount) map[Commodity]decimal.Decimal {
	legs := make(map[Commodity]decimal.Decimal, 2)
	if a.Commodity != "" {
		legs[a.Commodity] = a.Quantity
	}
	if a.UnitPrice != nil && a.UnitPrice.Commodity != "" {
		legs[a.UnitPrice.Commodity] = decimal.NewFromInt(-1).Mul(a.UnitPrice.Quantity).Mul(a.Quantity)
	}
	return legs
}
