// Package decimal provides the arbitrary-precision numeric type used for
// all ledger quantities. A Decimal is either a known value or Unknown, and
// arithmetic with an Unknown operand yields Unknown. This keeps missing
// price data visible downstream instead of silently becoming zero.
package decimal

import (
	"github.com/shopspring/decimal"
)

// Decimal is an optionally-known arbitrary-precision decimal number.
// The zero value is Unknown.
type Decimal struct {
	val   decimal.Decimal
	known bool
}

// Zero is the known value 0.
var Zero = NewFromInt(0)

// Unknown returns the poisoned value produced by incomplete data.
func Unknown() Decimal {
	return Decimal{}
}

// NewFromString returns a known Decimal parsed from s.
func NewFromString(s string) (Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, err
	}
	return Decimal{val: d, known: true}, nil
}

// RequireFromString is like NewFromString but panics on invalid input.
func RequireFromString(s string) Decimal {
	return Decimal{val: decimal.RequireFromString(s), known: true}
}

// NewFromInt returns a known Decimal with the value of i.
func NewFromInt(i int64) Decimal {
	return Decimal{val: decimal.NewFromInt(i), known: true}
}

// NewFromFloat returns a known Decimal with the value of f.
func NewFromFloat(f float64) Decimal {
	return Decimal{val: decimal.NewFromFloat(f), known: true}
}

// Known reports whether d holds an actual value.
func (d Decimal) Known() bool {
	return d.known
}

// Add returns d + o, or Unknown if either operand is Unknown.
func (d Decimal) Add(o Decimal) Decimal {
	if !d.known || !o.known {
		return Decimal{}
	}
	return Decimal{val: d.val.Add(o.val), known: true}
}

// Mul returns d * o, or Unknown if either operand is Unknown.
func (d Decimal) Mul(o Decimal) Decimal {
	if !d.known || !o.known {
		return Decimal{}
	}
	return Decimal{val: d.val.Mul(o.val), known: true}
}

// Neg returns -d, or Unknown if d is Unknown.
func (d Decimal) Neg() Decimal {
	if !d.known {
		return Decimal{}
	}
	return Decimal{val: d.val.Neg(), known: true}
}

// IsZero reports whether d is a known zero. Unknown is not zero.
func (d Decimal) IsZero() bool {
	return d.known && d.val.IsZero()
}

// Sign returns -1, 0, or 1 for known values and 0 for Unknown.
func (d Decimal) Sign() int {
	if !d.known {
		return 0
	}
	return d.val.Sign()
}

// Equal reports whether two Decimals are both Unknown or hold equal values.
func (d Decimal) Equal(o Decimal) bool {
	if d.known != o.known {
		return false
	}
	if !d.known {
		return true
	}
	return d.val.Equal(o.val)
}

// String returns the decimal representation, or "?" for Unknown.
func (d Decimal) String() string {
	if !d.known {
		return "?"
	}
	return d.val.String()
}

// StringFixedBank rounds to places decimal places using banker's rounding.
// Unknown renders as "?".
func (d Decimal) StringFixedBank(places int32) string {
	if !d.known {
		return "?"
	}
	return d.val.StringFixedBank(places)
}

// MarshalJSON encodes known values as JSON numbers and Unknown as null.
func (d Decimal) MarshalJSON() ([]byte, error) {
	if !d.known {
		return []byte("null"), nil
	}
	return []byte(d.val.String()), nil
}
