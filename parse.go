package ledger

import (
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alfredxing/calc/compute"
	date "github.com/joyt/godate"

	"github.com/mplenert/ledger/decimal"
)

var (
	sectionDelim = regexp.MustCompile(`\n{2,}`)
	fieldDelim   = regexp.MustCompile(`\s{2,}`)

	unitPriceForm = regexp.MustCompile(`^-?\d.*@`)
	postfixForm   = regexp.MustCompile(`^-?\d`)
)

// ParseFile reads and parses a ledger file.
func ParseFile(filename string) (*Ledger, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Parse(string(data)), nil
}

// ParseReader reads all of r and parses it as a ledger.
func ParseReader(r io.Reader) (*Ledger, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(string(data)), nil
}

// Parse parses ledger text into a Ledger.
//
// The text is split into five top-level sections separated by runs of
// two-or-more newlines, read positionally: account declarations, the
// commodity declaration, price declarations, categorization comments,
// and the transaction log. The transaction log is itself split into
// blank-line-delimited transaction chunks.
//
// Parsing never fails: malformed amounts degrade to elided amounts and
// malformed dates degrade to the zero time with a logged diagnostic.
func Parse(text string) *Ledger {
	l := &Ledger{CommodityPrices: make(PriceTable)}
	dp := &dateParser{}

	sections := sectionDelim.Split(text, 5)

	l.Accounts = parseAccounts(section(sections, 0))
	l.Commodity = parseCommodity(section(sections, 1))
	parsePrices(section(sections, 2), l.CommodityPrices, dp)
	// section 3 holds categorization comments; nothing to keep.

	for _, chunk := range sectionDelim.Split(section(sections, 4), -1) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		l.Transactions = append(l.Transactions, parseTransaction(chunk, dp))
	}

	return l
}

func section(sections []string, i int) string {
	if i < len(sections) {
		return sections[i]
	}
	return ""
}

// parseAccounts reads "account <name>" declaration lines.
func parseAccounts(s string) []string {
	var accounts []string
	for _, line := range strings.Split(s, "\n") {
		name, ok := strings.CutPrefix(strings.TrimSpace(line), "account ")
		if ok {
			accounts = append(accounts, strings.TrimSpace(name))
		}
	}
	return accounts
}

// parseCommodity reads the default commodity declaration line.
func parseCommodity(s string) Commodity {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	if fields[0] == "commodity" && len(fields) > 1 {
		return Commodity(fields[1])
	}
	return Commodity(fields[0])
}

// parsePrices reads "P <date> <time> <commodity> <unit><price>" lines.
// A later declaration for the same commodity overwrites an earlier one.
func parsePrices(s string, prices PriceTable, dp *dateParser) {
	for _, line := range strings.Split(s, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 5 || fields[0] != "P" {
			continue
		}
		unit, quantity := splitPrefixAmount(fields[4])
		price, err := decimal.NewFromString(quantity)
		if err != nil {
			log.Printf("ledger: skipping price line %q: %v", line, err)
			continue
		}
		recDate, derr := dp.parse(fields[1])
		if derr != nil {
			log.Printf("ledger: %v", derr)
		}
		prices[Commodity(fields[3])] = PriceRecord{
			Date:  recDate,
			Unit:  Commodity(unit),
			Price: price,
		}
	}
}

// parseTransaction parses one blank-line-delimited chunk. The first line
// is "<date> <description>"; every following line is a posting.
func parseTransaction(chunk string, dp *dateParser) Transaction {
	lines := strings.Split(chunk, "\n")

	dateStr, desc, found := strings.Cut(lines[0], " ")
	if !found {
		desc = dateStr
	}
	transDate, err := dp.parse(dateStr)
	if err != nil {
		log.Printf("ledger: %v", err)
	}

	trans := Transaction{
		Date: transDate,
		Desc: strings.TrimSpace(desc),
	}
	for _, line := range lines[1:] {
		trans.Postings = append(trans.Postings, parsePosting(line))
	}
	return trans
}

// parsePosting splits a posting line on runs of two-or-more whitespace
// characters: indentation, account name, and optional amount text.
func parsePosting(line string) Posting {
	parts := fieldDelim.Split(line, 3)

	var p Posting
	if len(parts) > 1 {
		p.Account = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		p.Amount = parseAmount(strings.TrimSpace(parts[2]))
	}
	return p
}

// parseAmount parses amount text. Grammar, tried in order: empty text is
// an elided amount; a leading signed digit with a later "@" is the
// unit-price form "<qty> <commodity> @ <unit><unitQty>"; a leading
// signed digit is the postfix form "<qty> <commodity>"; a parenthesized
// arithmetic expression evaluates to a commodity-less quantity; anything
// else is the prefix form "<commodity><qty>". Text that fits none of
// these degrades to an elided amount.
func parseAmount(text string) Amount {
	switch {
	case text == "":
		return Amount{}
	case unitPriceForm.MatchString(text):
		return parseUnitPriceAmount(text)
	case postfixForm.MatchString(text):
		return parsePostfixAmount(text)
	case strings.HasPrefix(text, "("):
		return parseExprAmount(text)
	default:
		return parsePrefixAmount(text)
	}
}

// parseUnitPriceAmount parses "-0.0070 VEXAX @ $62.2100".
func parseUnitPriceAmount(text string) Amount {
	parts := strings.Split(text, " ")
	if len(parts) < 4 {
		return Amount{}
	}
	quantity, err := decimal.NewFromString(parts[0])
	if err != nil {
		return Amount{}
	}
	unit, unitQty := splitPrefixAmount(parts[3])
	unitQuantity, err := decimal.NewFromString(unitQty)
	if err != nil {
		return Amount{}
	}
	return Amount{
		Quantity:  quantity,
		Commodity: Commodity(parts[1]),
		UnitPrice: &UnitPrice{
			Quantity:  unitQuantity,
			Commodity: Commodity(unit),
		},
	}
}

// parsePostfixAmount parses "-34.52 $".
func parsePostfixAmount(text string) Amount {
	parts := strings.Split(text, " ")
	quantity, err := decimal.NewFromString(parts[0])
	if err != nil {
		return Amount{}
	}
	a := Amount{Quantity: quantity}
	if len(parts) > 1 {
		a.Commodity = Commodity(parts[1])
	}
	return a
}

// parseExprAmount evaluates a parenthesized expression like "(123 * 3)".
func parseExprAmount(text string) Amount {
	val, err := compute.Evaluate(text)
	if err != nil {
		return Amount{}
	}
	return Amount{Quantity: decimal.NewFromFloat(val)}
}

// parsePrefixAmount parses "$288.10558392".
func parsePrefixAmount(text string) Amount {
	commodity, quantity := splitPrefixAmount(text)
	q, err := decimal.NewFromString(quantity)
	if err != nil {
		return Amount{}
	}
	return Amount{Quantity: q, Commodity: Commodity(commodity)}
}

// splitPrefixAmount splits "$10.82" into its leading commodity rune and
// the numeric remainder.
func splitPrefixAmount(text string) (commodity, quantity string) {
	_, size := utf8.DecodeRuneInString(text)
	return text[:size], text[size:]
}

// dateParser parses date strings, remembering the last successful layout
// and the last parsed string. Ledger files repeat the same date format
// throughout, and often the same date on consecutive transactions.
type dateParser struct {
	layout string

	strPrevDate string
	prevDate    time.Time
	prevDateErr error
}

func (dp *dateParser) parse(dateString string) (time.Time, error) {
	// seen before, skip parse
	if dp.strPrevDate == dateString {
		return dp.prevDate, dp.prevDateErr
	}

	// try current date layout
	transDate, err := time.Parse(dp.layout, dateString)
	if err != nil {
		// try to find new date layout
		transDate, dp.layout, err = date.ParseAndGetLayout(dateString)
		if err != nil {
			err = fmt.Errorf("unable to parse date(%s): %w", dateString, err)
		}
	}

	// maybe next date is same
	dp.strPrevDate = dateString
	dp.prevDate = transDate
	dp.prevDateErr = err

	return transDate, err
}
