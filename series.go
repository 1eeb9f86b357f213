package ledger

import (
	"regexp"
	"sort"
	"time"

	"github.com/mplenert/ledger/decimal"
)

// SeriesPoint is one dated value in a time series. A nil Value is an
// intentional gap: the bucket exists on the calendar grid but the series
// has no activity in it. An Unknown value, by contrast, means the true
// value could not be computed.
type SeriesPoint struct {
	Date  time.Time        `json:"date"`
	Value *decimal.Decimal `json:"value"`
}

// OverTime returns a transform that accumulates the quantities of
// pattern-matching postings into calendar buckets keyed by the start of
// unit applied to the transaction date. The result is sorted ascending
// by date; buckets with no matching posting do not appear.
func OverTime(unit Grain, pattern *regexp.Regexp) func([]Transaction) []SeriesPoint {
	return func(transactions []Transaction) []SeriesPoint {
		buckets := make(map[time.Time]decimal.Decimal)
		for _, trans := range transactions {
			key := unit.StartOf(trans.Date)
			for _, p := range trans.Postings {
				if !pattern.MatchString(p.Account) {
					continue
				}
				if cur, ok := buckets[key]; ok {
					buckets[key] = cur.Add(p.Amount.Quantity)
				} else {
					buckets[key] = p.Amount.Quantity
				}
			}
		}
		return sortedSeries(buckets)
	}
}

// OverDays buckets matching postings by day.
func OverDays(pattern *regexp.Regexp) func([]Transaction) []SeriesPoint {
	return OverTime(Day, pattern)
}

// OverWeeks buckets matching postings by week, starting Sunday.
func OverWeeks(pattern *regexp.Regexp) func([]Transaction) []SeriesPoint {
	return OverTime(Week, pattern)
}

// OverMonths buckets matching postings by month.
func OverMonths(pattern *regexp.Regexp) func([]Transaction) []SeriesPoint {
	return OverTime(Month, pattern)
}

// OverQuarters buckets matching postings by quarter.
func OverQuarters(pattern *regexp.Regexp) func([]Transaction) []SeriesPoint {
	return OverTime(Quarter, pattern)
}

// OverYears buckets matching postings by year.
func OverYears(pattern *regexp.Regexp) func([]Transaction) []SeriesPoint {
	return OverTime(Year, pattern)
}

// SeriesByAccount is OverTime grouped per matching account: one sparse
// series for every account with at least one matching posting.
func SeriesByAccount(unit Grain, pattern *regexp.Regexp) func([]Transaction) map[string][]SeriesPoint {
	return func(transactions []Transaction) map[string][]SeriesPoint {
		buckets := make(map[string]map[time.Time]decimal.Decimal)
		for _, trans := range transactions {
			key := unit.StartOf(trans.Date)
			for _, p := range trans.Postings {
				if !pattern.MatchString(p.Account) {
					continue
				}
				acct := buckets[p.Account]
				if acct == nil {
					acct = make(map[time.Time]decimal.Decimal)
					buckets[p.Account] = acct
				}
				if cur, ok := acct[key]; ok {
					acct[key] = cur.Add(p.Amount.Quantity)
				} else {
					acct[key] = p.Amount.Quantity
				}
			}
		}

		byAccount := make(map[string][]SeriesPoint, len(buckets))
		for account, acct := range buckets {
			byAccount[account] = sortedSeries(acct)
		}
		return byAccount
	}
}

func sortedSeries(buckets map[time.Time]decimal.Decimal) []SeriesPoint {
	series := make([]SeriesPoint, 0, len(buckets))
	for bucketDate, total := range buckets {
		total := total
		series = append(series, SeriesPoint{Date: bucketDate, Value: &total})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})
	return series
}

// FillIn returns a transform that walks a sorted sparse series and
// inserts nil-valued points wherever consecutive points sit more than one
// unit apart, so the output has no missing calendar steps. Real points
// pass through unchanged and in order.
func FillIn(unit Grain) func([]SeriesPoint) []SeriesPoint {
	return func(series []SeriesPoint) []SeriesPoint {
		var out []SeriesPoint
		for _, point := range series {
			for len(out) > 0 {
				next := unit.Next(out[len(out)-1].Date)
				if !next.Before(point.Date) {
					break
				}
				out = append(out, SeriesPoint{Date: next})
			}
			out = append(out, point)
		}
		return out
	}
}

// FillInDays fills day-sized gaps with nil points.
func FillInDays(series []SeriesPoint) []SeriesPoint { return FillIn(Day)(series) }

// FillInWeeks fills week-sized gaps with nil points.
func FillInWeeks(series []SeriesPoint) []SeriesPoint { return FillIn(Week)(series) }

// FillInMonths fills month-sized gaps with nil points.
func FillInMonths(series []SeriesPoint) []SeriesPoint { return FillIn(Month)(series) }

// FillInQuarters fills quarter-sized gaps with nil points.
func FillInQuarters(series []SeriesPoint) []SeriesPoint { return FillIn(Quarter)(series) }

// FillInYears fills year-sized gaps with nil points.
func FillInYears(series []SeriesPoint) []SeriesPoint { return FillIn(Year)(series) }

// RunningTotal turns a date-sorted series of deltas into cumulative
// totals. A gap or Unknown input value poisons its total and every total
// after it; dates pass through unchanged.
func RunningTotal(series []SeriesPoint) []SeriesPoint {
	out := make([]SeriesPoint, len(series))
	prev := decimal.Zero
	for i, point := range series {
		total := decimal.Unknown()
		if point.Value != nil {
			total = point.Value.Add(prev)
		}
		prev = total
		out[i] = SeriesPoint{Date: point.Date, Value: &total}
	}
	return out
}

// NormalizeMax returns a transform that extends every series in the list
// onto the identical calendar grid, spanning the earliest first-point
// date to the latest last-point date found across the whole list. Series
// not already starting or ending exactly on those dates get nil boundary
// points prepended or appended, then unit-sized gaps are filled in.
func NormalizeMax(unit Grain) func([][]SeriesPoint) [][]SeriesPoint {
	return func(seriesList [][]SeriesPoint) [][]SeriesPoint {
		minDate, maxDate, ok := seriesBounds(seriesList)
		if !ok {
			return seriesList
		}

		fill := FillIn(unit)
		out := make([][]SeriesPoint, len(seriesList))
		for i, series := range seriesList {
			series = appendMax(series, maxDate)
			series = prependMin(series, minDate)
			out[i] = fill(series)
		}
		return out
	}
}

// seriesBounds finds the minimum first-point date and maximum last-point
// date across all non-empty series. ok is false when there are none.
func seriesBounds(seriesList [][]SeriesPoint) (minDate, maxDate time.Time, ok bool) {
	for _, series := range seriesList {
		if len(series) == 0 {
			continue
		}
		first, last := series[0].Date, series[len(series)-1].Date
		if !ok {
			minDate, maxDate, ok = first, last, true
			continue
		}
		if first.Before(minDate) {
			minDate = first
		}
		if last.After(maxDate) {
			maxDate = last
		}
	}
	return minDate, maxDate, ok
}

func prependMin(series []SeriesPoint, minDate time.Time) []SeriesPoint {
	if len(series) > 0 && series[0].Date.Equal(minDate) {
		return series
	}
	return append([]SeriesPoint{{Date: minDate}}, series...)
}

func appendMax(series []SeriesPoint, maxDate time.Time) []SeriesPoint {
	if len(series) > 0 && series[len(series)-1].Date.Equal(maxDate) {
		return series
	}
	out := make([]SeriesPoint, len(series), len(series)+1)
	copy(out, series)
	return append(out, SeriesPoint{Date: maxDate})
}
