package cmd

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mplenert/ledger"
	"github.com/mplenert/ledger/decimal"
	"github.com/mplenert/ledger/ledger/internal/fastcolor"
)

var balConverted bool
var balDepth int
var columnWidth int
var columnWide bool

// balCmd represents the bal command
var balCmd = &cobra.Command{
	Use:     "bal [account-regex]",
	Aliases: []string{"balance"},
	Args:    cobra.MaximumNArgs(1),
	Short:   "Print account balances",
	Run: func(_ *cobra.Command, args []string) {
		pattern, err := compilePattern(args, "")
		if err != nil {
			log.Fatalln(err)
		}

		transactions, _, err := reportTransactions(balConverted)
		if err != nil {
			log.Fatalln(err)
		}

		PrintBalances(ledger.Balances(pattern)(transactions), balDepth, reportColumns())
	},
}

func init() {
	RootCmd.AddCommand(balCmd)

	balCmd.Flags().BoolVar(&balConverted, "converted", false, "Convert amounts to the configured commodity first.")
	balCmd.Flags().IntVar(&balDepth, "depth", -1, "Only show accounts at most this many levels deep.")
	balCmd.Flags().IntVar(&columnWidth, "columns", 80, "Set a column width for output.")
	balCmd.Flags().BoolVar(&columnWide, "wide", false, "Wide output (use terminal width).")
}

// reportColumns resolves the --columns/--wide pair, falling back to the
// terminal width when wide output is requested on a terminal.
func reportColumns() int {
	columns := columnWidth
	if columns == 80 && columnWide {
		columns = 132
		fd := int(os.Stdout.Fd())
		if term.IsTerminal(fd) {
			if tw, _, err := term.GetSize(fd); err == nil {
				columns = tw
			}
		}
	}
	return columns
}

// PrintBalances prints account balances formatted to a window set to a
// width of columns. Only shows accounts with names at most depth levels
// deep; depth < 0 shows everything.
func PrintBalances(balances []ledger.AccountBalance, depth, columns int) {
	// 10 columns for the amount, one space, rest for the account name
	if columns < 12 {
		columns = 12
		fmt.Fprintf(os.Stderr, "warning: `columns` too small, setting to %d\n", columns)
	}
	accWidth := columns - 11

	colorNeg := fastcolor.FgRed
	colorAccount := fastcolor.FgBlue

	buf := bufio.NewWriter(os.Stdout)
	overall := make(map[ledger.Commodity]decimal.Decimal)
	for _, balance := range balances {
		accDepth := strings.Count(balance.Account, ":") + 1
		if depth >= 0 && accDepth > depth {
			continue
		}
		name := balance.Account
		for _, commodity := range sortedCommodities(balance.Amounts) {
			quantity := balance.Amounts[commodity]
			if cur, ok := overall[commodity]; ok {
				overall[commodity] = cur.Add(quantity)
			} else {
				overall[commodity] = quantity
			}

			writeBalanceLine(buf, colorAccount, colorNeg, name, commodity, quantity, accWidth)
			name = "" // further commodities of the same account indent under it
		}
	}

	fmt.Fprintln(buf, strings.Repeat("-", columns))
	for _, commodity := range sortedCommodities(overall) {
		writeBalanceLine(buf, colorAccount, colorNeg, "", commodity, overall[commodity], accWidth)
	}
	buf.Flush()
}

func writeBalanceLine(buf *bufio.Writer, colorAccount, colorNeg fastcolor.Color, name string, commodity ledger.Commodity, quantity decimal.Decimal, accWidth int) {
	amtColor := fastcolor.Reset
	if quantity.Sign() < 0 {
		amtColor = colorNeg
	}
	outBalanceString := quantity.StringFixedBank(2)
	if commodity != "" {
		outBalanceString = string(commodity) + " " + outBalanceString
	}
	colorAccount.WriteStringFixed(buf, name, accWidth, false)
	buf.WriteString(" ")
	amtColor.WriteStringFixed(buf, outBalanceString, 10, true)
	buf.WriteString("\n")
}

func sortedCommodities(amounts map[ledger.Commodity]decimal.Decimal) []ledger.Commodity {
	commodities := make([]ledger.Commodity, 0, len(amounts))
	for commodity := range amounts {
		commodities = append(commodities, commodity)
	}
	sort.Slice(commodities, func(i, j int) bool { return commodities[i] < commodities[j] })
	return commodities
}
