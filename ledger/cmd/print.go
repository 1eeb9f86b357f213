package cmd

import (
	"bufio"
	"errors"
	"io"
	"log"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"

	"github.com/mplenert/ledger"
)

const (
	transactionDateFormat = "2006/01/02"
	newLine               = "\n"
)

var startString, endString string
var payeeFilter string
var spaceStr string

// cliTransactions parses the ledger file and applies the date-range and
// payee flags shared by the print and register commands.
func cliTransactions() ([]ledger.Transaction, error) {
	parsedStartDate, tstartErr := dateparse.ParseAny(startString)
	parsedEndDate, tendErr := dateparse.ParseAny(endString)
	if tstartErr != nil || tendErr != nil {
		return nil, errors.New("unable to parse start or end date string argument")
	}

	transactions, _, err := reportTransactions(false)
	if err != nil {
		return nil, err
	}

	// include both boundary dates' transactions
	transactions = ledger.FilterAfter(parsedStartDate.Add(-time.Second))(transactions)
	transactions = ledger.FilterBefore(parsedEndDate.Add(time.Second))(transactions)

	if payeeFilter != "" {
		var kept []ledger.Transaction
		for _, trans := range transactions {
			if strings.Contains(trans.Desc, payeeFilter) {
				kept = append(kept, trans)
			}
		}
		transactions = kept
	}

	return transactions, nil
}

// printCmd represents the print command
var printCmd = &cobra.Command{
	Use:   "print [account-substring-filter]...",
	Short: "Print transactions in ledger file format",
	Run: func(_ *cobra.Command, args []string) {
		transactions, err := cliTransactions()
		if err != nil {
			log.Fatalln(err)
		}

		PrintLedger(transactions, args, reportColumns())
	},
}

func init() {
	RootCmd.AddCommand(printCmd)
	addReportFlags(printCmd)
}

// addReportFlags registers the date-range, payee, and width flags shared
// by print and register.
func addReportFlags(cmd *cobra.Command) {
	startDate := time.Date(1970, 1, 1, 0, 0, 0, 0, time.Local)
	endDate := time.Now().Add(1<<63 - 1)
	cmd.Flags().StringVarP(&startString, "begin-date", "b", startDate.Format(transactionDateFormat), "Begin date of transaction processing.")
	cmd.Flags().StringVarP(&endString, "end-date", "e", endDate.Format(transactionDateFormat), "End date of transaction processing.")
	cmd.Flags().StringVar(&payeeFilter, "payee", "", "Filter output to transactions whose description contains this string.")
	cmd.Flags().IntVar(&columnWidth, "columns", 80, "Set a column width for output.")
	cmd.Flags().BoolVar(&columnWide, "wide", false, "Wide output (use terminal width).")
}

// formatAmount renders an amount in a form the parser reads back:
// "<qty> <commodity>", with "@ <unit><unitQty>" appended for unit-priced
// amounts. Elided amounts render as the empty string.
func formatAmount(a ledger.Amount) string {
	if a.Elided() {
		return ""
	}
	out := a.Quantity.String()
	if a.Commodity != "" {
		out += " " + string(a.Commodity)
	}
	if a.UnitPrice != nil {
		out += " @ " + string(a.UnitPrice.Commodity) + a.UnitPrice.Quantity.String()
	}
	return out
}

// WriteTransaction writes a transaction formatted to fit in the
// specified column width.
func WriteTransaction(w io.StringWriter, trans ledger.Transaction, columns int) {
	if len(spaceStr) < columns {
		spaceStr = strings.Repeat(" ", columns)
	}

	w.WriteString(trans.Date.Format(transactionDateFormat))
	w.WriteString(spaceStr[:1])
	w.WriteString(trans.Desc)
	w.WriteString(newLine)
	for _, posting := range trans.Postings {
		outAmountString := formatAmount(posting.Amount)
		spaceCount := columns - 4 - utf8.RuneCountInString(posting.Account) - utf8.RuneCountInString(outAmountString)
		if spaceCount < 2 {
			spaceCount = 2
		}
		w.WriteString(spaceStr[:4])
		w.WriteString(posting.Account)
		if outAmountString != "" {
			w.WriteString(spaceStr[:spaceCount])
			w.WriteString(outAmountString)
		}
		w.WriteString(newLine)
	}
	w.WriteString(newLine)
}

// PrintLedger prints all transactions as a formatted ledger file.
func PrintLedger(transactions []ledger.Transaction, filterArr []string, columns int) {
	buf := bufio.NewWriter(os.Stdout)
	for _, trans := range transactions {
		inFilter := len(filterArr) == 0
		for _, posting := range trans.Postings {
			for _, filter := range filterArr {
				if strings.Contains(posting.Account, filter) {
					inFilter = true
				}
			}
		}
		if inFilter {
			WriteTransaction(buf, trans, columns)
		}
	}
	buf.Flush()
}
