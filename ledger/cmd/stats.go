package cmd

import (
	"fmt"
	"log"
	"slices"

	"github.com/hako/durafmt"
	"github.com/spf13/cobra"

	"github.com/mplenert/ledger"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "A bird's eye view of the ledger file",
	Run: func(_ *cobra.Command, _ []string) {
		l, err := readLedger()
		if err != nil {
			log.Fatalln(err)
		}
		if len(l.Transactions) == 0 {
			fmt.Println("No transactions found.")
			return
		}

		transactions := slices.Clone(l.Transactions)
		slices.SortStableFunc(transactions, func(a, b ledger.Transaction) int {
			return a.Date.Compare(b.Date)
		})

		startDate := transactions[0].Date
		endDate := transactions[len(transactions)-1].Date
		duration := endDate.Sub(startDate)
		days := int(duration.Hours()/24) + 1

		postingCount := 0
		accounts := make(map[string]struct{})
		payees := make(map[string]struct{})
		for _, trans := range transactions {
			payees[trans.Desc] = struct{}{}
			for _, posting := range trans.Postings {
				postingCount++
				accounts[posting.Account] = struct{}{}
			}
		}

		fmt.Printf("%-25s : %s\n", "Ledger file", ledgerFilePath)
		fmt.Printf("%-25s : %s to %s (%s)\n", "Time period",
			startDate.Format(transactionDateFormat),
			endDate.Format(transactionDateFormat),
			durafmt.Parse(duration).LimitFirstN(2))
		fmt.Printf("%-25s : %d\n", "Transactions", len(transactions))
		fmt.Printf("%-25s : %d\n", "Postings", postingCount)
		fmt.Printf("%-25s : %d\n", "Unique accounts", len(accounts))
		fmt.Printf("%-25s : %d\n", "Unique payees", len(payees))
		fmt.Printf("%-25s : %d\n", "Commodities priced", len(l.CommodityPrices))
		fmt.Printf("%-25s : %.1f\n", "Postings per day", float64(postingCount)/float64(days))
	},
}

func init() {
	RootCmd.AddCommand(statsCmd)
}
