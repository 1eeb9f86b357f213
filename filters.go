package ledger

import (
	"regexp"
	"time"
)

// FilterAccount returns a filter keeping transactions with at least one
// posting whose account matches pattern.
func FilterAccount(pattern *regexp.Regexp) func([]Transaction) []Transaction {
	return filter(func(trans Transaction) bool {
		for _, p := range trans.Postings {
			if pattern.MatchString(p.Account) {
				return true
			}
		}
		return false
	})
}

// FilterNoOp keeps only transactions that actually move money between
// accounts: those touching two or more distinct accounts.
func FilterNoOp(transactions []Transaction) []Transaction {
	return filter(func(trans Transaction) bool {
		seen := make(map[string]struct{}, len(trans.Postings))
		for _, p := range trans.Postings {
			seen[p.Account] = struct{}{}
		}
		return len(seen) > 1
	})(transactions)
}

// FilterBefore returns a filter keeping transactions dated strictly
// before d.
func FilterBefore(d time.Time) func([]Transaction) []Transaction {
	return filter(func(trans Transaction) bool {
		return trans.Date.Before(d)
	})
}

// FilterAfter returns a filter keeping transactions dated strictly
// after d.
func FilterAfter(d time.Time) func([]Transaction) []Transaction {
	return filter(func(trans Transaction) bool {
		return trans.Date.After(d)
	})
}

// IdentifyTransactions assigns sequential 1-based ids in list order,
// returning fresh transactions. The numbering is not persisted anywhere.
func IdentifyTransactions(transactions []Transaction) []Transaction {
	out := make([]Transaction, len(transactions))
	for i, trans := range transactions {
		trans.ID = i + 1
		out[i] = trans
	}
	return out
}

func filter(keep func(Transaction) bool) func([]Transaction) []Transaction {
	return func(transactions []Transaction) []Transaction {
		var out []Transaction
		for _, trans := range transactions {
			if keep(trans) {
				out = append(out, trans)
			}
		}
		return out
	}
}
