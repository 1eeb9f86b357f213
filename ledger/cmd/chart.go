package cmd

import (
	"encoding/json"
	"log"
	"os"
	"sort"
	"time"

	"github.com/juztin/numeronym"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"

	"github.com/mplenert/ledger"
	"github.com/mplenert/ledger/decimal"
)

var chartGrain string
var chartLimit int
var chartInvert bool
var chartCumulative bool

// chartSeries is one plotted line: an account's bucketed activity on the
// shared calendar grid, with a stable color and an abbreviated label for
// narrow legends.
type chartSeries struct {
	Account string               `json:"account"`
	Label   string               `json:"label"`
	Color   string               `json:"color"`
	Points  []ledger.SeriesPoint `json:"points"`
}

// chartCmd represents the chart command
var chartCmd = &cobra.Command{
	Use:   "chart [account-regex]",
	Args:  cobra.MaximumNArgs(1),
	Short: "Export per-account time series as chart JSON",
	Long: `Chart buckets matching postings into calendar periods, one series per
account, converts everything into the configured commodity, and emits
JSON ready for a plotting frontend. The busiest accounts get their own
series; the rest are rolled up into "Other".`,
	Run: func(cmd *cobra.Command, args []string) {
		// config-file defaults apply only where no flag was given
		if !cmd.Flags().Changed("grain") {
			chartGrain = conf.Grain
		}
		if !cmd.Flags().Changed("limit") {
			chartLimit = conf.Limit
		}
		if !cmd.Flags().Changed("invert") {
			chartInvert = conf.Invert
		}
		if !cmd.Flags().Changed("cumulative") {
			chartCumulative = conf.Cumulative
		}

		grain, err := ledger.ParseGrain(chartGrain)
		if err != nil {
			log.Fatalln(err)
		}
		pattern, err := compilePattern(args, conf.Pattern)
		if err != nil {
			log.Fatalln(err)
		}

		transactions, _, err := reportTransactions(true)
		if err != nil {
			log.Fatalln(err)
		}

		byAccount := ledger.SeriesByAccount(grain, pattern)(transactions)
		series := buildChart(byAccount, grain, chartLimit, chartInvert, chartCumulative)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(series); err != nil {
			log.Fatalln(err)
		}
	},
}

func init() {
	RootCmd.AddCommand(chartCmd)

	chartCmd.Flags().StringVar(&chartGrain, "grain", conf.Grain, "Bucket size: day, week, month, quarter, or year.")
	chartCmd.Flags().IntVar(&chartLimit, "limit", conf.Limit, "Number of accounts to chart individually; the rest become \"Other\".")
	chartCmd.Flags().BoolVar(&chartInvert, "invert", conf.Invert, "Negate all values (useful for income accounts).")
	chartCmd.Flags().BoolVar(&chartCumulative, "cumulative", conf.Cumulative, "Plot running totals instead of per-period activity.")
}

// buildChart ranks accounts by activity, keeps the top limit as their
// own series, merges the remainder into "Other", and aligns everything
// onto one calendar grid.
func buildChart(byAccount map[string][]ledger.SeriesPoint, grain ledger.Grain, limit int, invert, cumulative bool) []chartSeries {
	names := rankAccounts(byAccount)

	var accounts []string
	if limit > 0 && len(names) > limit {
		accounts = names[:limit]
		if other := mergeSeries(byAccount, names[limit:]); len(other) > 0 {
			byAccount["Other"] = other
			accounts = append(accounts, "Other")
		}
	} else {
		accounts = names
	}

	seriesList := make([][]ledger.SeriesPoint, len(accounts))
	for i, account := range accounts {
		points := byAccount[account]
		if invert {
			points = negateSeries(points)
		}
		seriesList[i] = points
	}

	seriesList = ledger.NormalizeMax(grain)(seriesList)
	if cumulative {
		for i, points := range seriesList {
			seriesList[i] = ledger.RunningTotal(points)
		}
	}

	palette := colorful.FastHappyPalette(len(accounts))
	out := make([]chartSeries, len(accounts))
	for i, account := range accounts {
		out[i] = chartSeries{
			Account: account,
			Label:   string(numeronym.Parse([]byte(account))),
			Color:   palette[i].Hex(),
			Points:  seriesList[i],
		}
	}
	return out
}

// rankAccounts orders account names by total activity magnitude,
// busiest first. Ties break alphabetically for stable output.
func rankAccounts(byAccount map[string][]ledger.SeriesPoint) []string {
	type ranked struct {
		account string
		total   decimal.Decimal
	}
	rankings := make([]ranked, 0, len(byAccount))
	for account, points := range byAccount {
		total := decimal.Zero
		for _, p := range points {
			if p.Value == nil || !p.Value.Known() {
				continue
			}
			magnitude := *p.Value
			if magnitude.Sign() < 0 {
				magnitude = magnitude.Neg()
			}
			total = total.Add(magnitude)
		}
		rankings = append(rankings, ranked{account: account, total: total})
	}

	sort.Slice(rankings, func(i, j int) bool {
		diff := rankings[i].total.Add(rankings[j].total.Neg())
		if diff.IsZero() {
			return rankings[i].account < rankings[j].account
		}
		return diff.Sign() > 0
	})

	names := make([]string, len(rankings))
	for i, r := range rankings {
		names[i] = r.account
	}
	return names
}

// mergeSeries sums the named accounts' sparse series into one.
func mergeSeries(byAccount map[string][]ledger.SeriesPoint, accounts []string) []ledger.SeriesPoint {
	buckets := make(map[time.Time]decimal.Decimal)
	for _, account := range accounts {
		for _, p := range byAccount[account] {
			if p.Value == nil {
				continue
			}
			if cur, ok := buckets[p.Date]; ok {
				buckets[p.Date] = cur.Add(*p.Value)
			} else {
				buckets[p.Date] = *p.Value
			}
		}
	}

	merged := make([]ledger.SeriesPoint, 0, len(buckets))
	for bucketDate, total := range buckets {
		total := total
		merged = append(merged, ledger.SeriesPoint{Date: bucketDate, Value: &total})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Date.Before(merged[j].Date) })
	return merged
}

func negateSeries(points []ledger.SeriesPoint) []ledger.SeriesPoint {
	out := make([]ledger.SeriesPoint, len(points))
	for i, p := range points {
		if p.Value != nil {
			negated := p.Value.Neg()
			p.Value = &negated
		}
		out[i] = p
	}
	return out
}
