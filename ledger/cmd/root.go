// Package cmd holds the CLI commands. Every command parses the ledger
// file fresh and runs the pure analysis pipeline; nothing here mutates
// parsed data.
package cmd

import (
	"log"
	"os"
	"regexp"
	"slices"

	"github.com/mattn/go-isatty"
	"github.com/pelletier/go-toml"
	"github.com/spf13/cobra"

	"github.com/mplenert/ledger"
	"github.com/mplenert/ledger/ledger/internal/fastcolor"
)

var ledgerFilePath string
var configFilePath string

// reportConfig holds report defaults loadable from a TOML file. Flags
// override whatever the file sets.
type reportConfig struct {
	Commodity  string `toml:"commodity"`
	Pattern    string `toml:"pattern"`
	Grain      string `toml:"grain"`
	Limit      int    `toml:"limit"`
	Invert     bool   `toml:"invert"`
	Cumulative bool   `toml:"cumulative"`
}

var conf = reportConfig{
	Commodity: "$",
	Pattern:   "^Expenses",
	Grain:     "month",
	Limit:     5,
}

// RootCmd is the base command. Exported so main can hand it to
// coloredcobra for help styling.
var RootCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Plain text accounting analysis",
	Long: `Ledger parses a plain text double-entry accounting file and reports
balances, registers, statistics, and time series from it.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		fastcolor.Enabled = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
		if configFilePath == "" {
			return
		}
		data, err := os.ReadFile(configFilePath)
		if err != nil {
			log.Fatalln(err)
		}
		if err := toml.Unmarshal(data, &conf); err != nil {
			log.Fatalln(err)
		}
	},
}

// Execute runs the root command, exiting non-zero on error.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&ledgerFilePath, "file", "f", "ledger.dat", "Ledger file to parse, \"-\" for stdin.")
	RootCmd.PersistentFlags().StringVar(&configFilePath, "config", "", "TOML file with report defaults.")
}

// readLedger parses the ledger file named by --file.
func readLedger() (*ledger.Ledger, error) {
	if ledgerFilePath == "-" {
		return ledger.ParseReader(os.Stdin)
	}
	return ledger.ParseFile(ledgerFilePath)
}

// reportTransactions parses the ledger file and runs the shared report
// pipeline: sort by date, balance every transaction, drop transactions
// that touch a single account, and optionally convert all amounts into
// the configured commodity.
func reportTransactions(convert bool) ([]ledger.Transaction, *ledger.Ledger, error) {
	l, err := readLedger()
	if err != nil {
		return nil, nil, err
	}

	transactions := slices.Clone(l.Transactions)
	slices.SortStableFunc(transactions, func(a, b ledger.Transaction) int {
		return a.Date.Compare(b.Date)
	})

	transactions = ledger.FilterNoOp(ledger.Balance(transactions))
	if convert {
		transactions = ledger.Convert(ledger.Commodity(conf.Commodity), l.CommodityPrices)(transactions)
	}
	return transactions, l, nil
}

// compilePattern builds the account filter from the first positional
// argument, falling back to the given default.
func compilePattern(args []string, fallback string) (*regexp.Regexp, error) {
	pattern := fallback
	if len(args) > 0 {
		pattern = args[0]
	}
	return regexp.Compile(pattern)
}
