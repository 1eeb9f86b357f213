package ledger

import (
	"time"

	"github.com/mplenert/ledger/decimal"
)

// Commodity is a currency or security symbol, e.g. "$" or "VEXAX".
type Commodity string

// Amount is a commodity-tagged quantity. An elided amount is the zero
// value: no commodity and an unknown quantity. At most one posting per
// transaction may carry an elided amount, by convention the last one.
type Amount struct {
	Quantity  decimal.Decimal `json:"quantity"`
	Commodity Commodity       `json:"commodity,omitempty"`

	// UnitPrice is set for postings written in the
	// "<qty> <commodity> @ <unit><unitQty>" form.
	UnitPrice *UnitPrice `json:"unitPrice,omitempty"`
}

// UnitPrice is the per-unit price attached to an amount with @ notation.
type UnitPrice struct {
	Quantity  decimal.Decimal `json:"quantity"`
	Commodity Commodity       `json:"commodity"`
}

// Elided reports whether a holds no stated value.
func (a Amount) Elided() bool {
	return a.Commodity == "" && !a.Quantity.Known() && a.UnitPrice == nil
}

// Posting is one account/amount line within a transaction. Account is a
// colon-delimited hierarchical path such as "Assets:Bank:Checking".
type Posting struct {
	Account string `json:"account"`
	Amount  Amount `json:"amount"`
}

// Transaction is a dated, described group of postings. After balancing,
// the signed quantities of every commodity across its postings sum to
// exactly zero.
type Transaction struct {
	// ID is a sequential 1-based number assigned by IdentifyTransactions.
	// Zero until assigned; never persisted.
	ID       int       `json:"id,omitempty"`
	Date     time.Time `json:"date"`
	Desc     string    `json:"desc"`
	Postings []Posting `json:"postings"`
}

// PriceRecord is the latest declared price for a commodity: one unit of
// the priced commodity is worth Price units of Unit.
type PriceRecord struct {
	Date  time.Time       `json:"date"`
	Unit  Commodity       `json:"unit"`
	Price decimal.Decimal `json:"price"`
}

// PriceTable maps each commodity to its most recently declared price.
type PriceTable map[Commodity]PriceRecord

// Ledger is the parsed form of a ledger file. It is built once per parse
// and never mutated afterwards; every pipeline step produces new values.
type Ledger struct {
	Transactions    []Transaction `json:"transactions"`
	CommodityPrices PriceTable    `json:"commodityPrices"`

	// Accounts holds the declared account names from the file header.
	// The analysis pipeline never consults them; they exist for
	// consumers that want a complete account list.
	Accounts []string `json:"accounts,omitempty"`

	// Commodity is the declared default commodity, if any.
	Commodity Commodity `json:"commodity,omitempty"`
}
