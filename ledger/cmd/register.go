package cmd

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/mplenert/ledger"
	"github.com/mplenert/ledger/decimal"
	"github.com/mplenert/ledger/ledger/internal/fastcolor"
)

var registerCSV bool
var fieldDelimiter string

// registerCmd represents the register command
var registerCmd = &cobra.Command{
	Use:     "register [account-substring-filter]...",
	Aliases: []string{"reg"},
	Short:   "Print a register of transactions with running totals",
	Run: func(_ *cobra.Command, args []string) {
		transactions, err := cliTransactions()
		if err != nil {
			log.Fatalln(err)
		}

		if registerCSV {
			PrintCSV(transactions, args)
			return
		}
		PrintRegister(transactions, args, reportColumns())
	},
}

func init() {
	RootCmd.AddCommand(registerCmd)
	addReportFlags(registerCmd)

	registerCmd.Flags().BoolVar(&registerCSV, "csv", false, "Output as CSV instead of a formatted register.")
	registerCmd.Flags().StringVar(&fieldDelimiter, "delimiter", ",", "Field delimiter for CSV output.")
}

func inAccountFilter(account string, filterArr []string) bool {
	if len(filterArr) == 0 {
		return true
	}
	for _, filter := range filterArr {
		if strings.Contains(account, filter) {
			return true
		}
	}
	return false
}

type commodityTotal struct {
	commodity ledger.Commodity
	amount    decimal.Decimal
}

// sortTotals orders running totals for display: the posting's own
// commodity first, no-commodity last, the rest by name.
func sortTotals(totals []commodityTotal, primary ledger.Commodity) {
	slices.SortFunc(totals, func(a, b commodityTotal) int {
		if a.commodity == primary && b.commodity != primary {
			return -1
		}
		if b.commodity == primary && a.commodity != primary {
			return 1
		}
		if a.commodity == "" && b.commodity != "" {
			return 1
		}
		if b.commodity == "" && a.commodity != "" {
			return -1
		}
		return strings.Compare(string(a.commodity), string(b.commodity))
	})
}

func formatTotal(ct commodityTotal) string {
	amtStr := ct.amount.StringFixedBank(2)
	if ct.commodity == "" {
		return amtStr
	}
	return string(ct.commodity) + " " + amtStr
}

// PrintRegister prints every posting that matches the given filters,
// with a running total per commodity.
func PrintRegister(transactions []ledger.Transaction, filterArr []string, columns int) {
	// three 10-width columns (date, amount, running total) plus spacing,
	// remainder split between description and account
	if columns < 35 {
		columns = 35
		fmt.Fprintf(os.Stderr, "warning: `columns` too small, setting to %d\n", columns)
	}
	remainingWidth := columns - (10 * 3) - (4 * 1)
	col1width := remainingWidth / 3
	col2width := remainingWidth - col1width

	colorNeg := fastcolor.FgRed
	colorPayee := fastcolor.Bold
	colorAccount := fastcolor.FgBlue

	buf := bufio.NewWriter(os.Stdout)
	runningBalance := make(map[ledger.Commodity]decimal.Decimal)

	for _, trans := range transactions {
		for _, posting := range trans.Postings {
			if !inAccountFilter(posting.Account, filterArr) {
				continue
			}

			commodity := posting.Amount.Commodity
			if cur, ok := runningBalance[commodity]; ok {
				runningBalance[commodity] = cur.Add(posting.Amount.Quantity)
			} else {
				runningBalance[commodity] = posting.Amount.Quantity
			}

			outAmountString := posting.Amount.Quantity.StringFixedBank(2)
			if commodity != "" {
				outAmountString = string(commodity) + " " + outAmountString
			}

			totals := make([]commodityTotal, 0, len(runningBalance))
			for c, amount := range runningBalance {
				totals = append(totals, commodityTotal{commodity: c, amount: amount})
			}
			sortTotals(totals, commodity)

			amtColor := fastcolor.Reset
			if posting.Amount.Quantity.Sign() < 0 {
				amtColor = colorNeg
			}
			runColor := fastcolor.Reset
			if totals[0].amount.Sign() < 0 {
				runColor = colorNeg
			}

			buf.WriteString(trans.Date.Format(transactionDateFormat))
			buf.WriteString(" ")
			colorPayee.WriteStringFixed(buf, trans.Desc, col1width, false)
			buf.WriteString(" ")
			colorAccount.WriteStringFixed(buf, posting.Account, col2width, false)
			buf.WriteString(" ")
			amtColor.WriteStringFixed(buf, outAmountString, 10, true)
			buf.WriteString(" ")
			runColor.WriteStringFixed(buf, formatTotal(totals[0]), 10, true)
			buf.WriteString(newLine)

			// extra lines for the other commodities in the running total
			for _, ct := range totals[1:] {
				otherColor := fastcolor.Reset
				if ct.amount.Sign() < 0 {
					otherColor = colorNeg
				}
				buf.WriteString(strings.Repeat(" ", 10))
				buf.WriteString(" ")
				colorPayee.WriteStringFixed(buf, "", col1width, false)
				buf.WriteString(" ")
				colorAccount.WriteStringFixed(buf, "", col2width, false)
				buf.WriteString(" ")
				amtColor.WriteStringFixed(buf, "", 10, true)
				buf.WriteString(" ")
				otherColor.WriteStringFixed(buf, formatTotal(ct), 10, true)
				buf.WriteString(newLine)
			}
		}
	}
	buf.Flush()
}

// PrintCSV prints every posting that matches the given filters in CSV
// format.
func PrintCSV(transactions []ledger.Transaction, filterArr []string) {
	csvWriter := csv.NewWriter(os.Stdout)
	csvWriter.Comma, _ = utf8.DecodeRuneInString(fieldDelimiter)

	for _, trans := range transactions {
		for _, posting := range trans.Postings {
			if !inAccountFilter(posting.Account, filterArr) {
				continue
			}
			record := []string{
				trans.Date.Format(transactionDateFormat),
				trans.Desc,
				posting.Account,
				formatTotal(commodityTotal{commodity: posting.Amount.Commodity, amount: posting.Amount.Quantity}),
			}
			if err := csvWriter.Write(record); err != nil {
				fmt.Fprintf(os.Stderr, "error writing record to CSV: %s", err)
				return
			}
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		fmt.Fprintf(os.Stderr, "error flushing CSV buffer: %s", err)
	}
}
