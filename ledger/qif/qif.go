// Package qif reads Quicken Interchange Format exports, the
// non-investment subset. Fields are single-letter prefixed lines and a
// transaction ends at a "^" marker.
package qif

import (
	"bufio"
	"io"
	"strings"
)

// Transaction is one non-investment QIF entry.
type Transaction struct {
	// Type comes from the preceding "!Type:" header, e.g. "Cash".
	Type string

	Date     string // D
	Amount   string // T, overridden by the higher-precision U
	Num      string // N
	Payee    string // P
	Memo     string // M, multiple lines joined with '\n'
	Category string // L

	// First split group only; multi-split files lose later groups.
	SplitCategory string // S
	SplitMemo     string // E
	SplitAmount   string // $
}

// Decoder reads QIF transactions from a stream.
type Decoder struct {
	s *bufio.Scanner
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{s: bufio.NewScanner(r)}
}

// Decode reads the whole stream and returns its transactions. Lines
// outside a transaction that are not "!Type:" headers are ignored.
func (d *Decoder) Decode() ([]*Transaction, error) {
	var transactions []*Transaction
	var current *Transaction
	currentType := ""

	for d.s.Scan() {
		line := strings.TrimRight(d.s.Text(), "\r")
		if line == "" {
			continue
		}

		if header, ok := strings.CutPrefix(line, "!Type:"); ok {
			currentType = strings.TrimSpace(header)
			continue
		}

		if line[0] == '^' {
			if current != nil {
				transactions = append(transactions, current)
				current = nil
			}
			continue
		}

		// a transaction opens at its date line
		if current == nil {
			if line[0] != 'D' {
				continue
			}
			current = &Transaction{Type: currentType}
		}
		current.assign(line[0], line[1:])
	}
	if err := d.s.Err(); err != nil {
		return nil, err
	}
	return transactions, nil
}

func (tx *Transaction) assign(prefix byte, value string) {
	switch prefix {
	case 'D':
		tx.Date = value
	case 'T':
		if tx.Amount == "" {
			tx.Amount = value
		}
	case 'U':
		tx.Amount = value
	case 'N':
		tx.Num = value
	case 'P':
		tx.Payee = value
	case 'M':
		if tx.Memo == "" {
			tx.Memo = value
		} else {
			tx.Memo += "\n" + value
		}
	case 'L':
		tx.Category = value
	case 'S':
		if tx.SplitCategory == "" {
			tx.SplitCategory = value
		}
	case 'E':
		if tx.SplitMemo == "" {
			tx.SplitMemo = value
		}
	case '$':
		if tx.SplitAmount == "" {
			tx.SplitAmount = value
		}
	}
}

// ParseQIF parses all transactions from a QIF stream.
func ParseQIF(r io.Reader) ([]*Transaction, error) {
	return NewDecoder(r).Decode()
}
