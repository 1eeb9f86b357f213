package ledger

import (
	"regexp"
	"testing"

	"github.com/mplenert/ledger/decimal"
)

func postingTx(t *testing.T, day, account, quantity string) Transaction {
	t.Helper()
	return Transaction{
		Date: mustDate(t, day),
		Postings: []Posting{
			{Account: account, Amount: Amount{Quantity: decimal.RequireFromString(quantity), Commodity: "$"}},
		},
	}
}

func known(t *testing.T, p SeriesPoint) decimal.Decimal {
	t.Helper()
	if p.Value == nil {
		t.Fatalf("point at %s is a gap, expected a value", p.Date)
	}
	return *p.Value
}

func TestGrainStartOf(t *testing.T) {
	tests := []struct {
		grain Grain
		in    string
		want  string
	}{
		{Day, "2016/09/09", "2016/09/09"},
		{Week, "2016/09/09", "2016/09/04"},
		{Week, "2016/09/04", "2016/09/04"},
		{Month, "2016/09/09", "2016/09/01"},
		{Quarter, "2016/09/09", "2016/07/01"},
		{Quarter, "2016/12/31", "2016/10/01"},
		{Year, "2016/09/09", "2016/01/01"},
	}
	for _, tt := range tests {
		t.Run(tt.grain.String()+" "+tt.in, func(t *testing.T) {
			got := tt.grain.StartOf(mustDate(t, tt.in))
			if !got.Equal(mustDate(t, tt.want)) {
				t.Errorf("StartOf(%s) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestGrainNext(t *testing.T) {
	tests := []struct {
		grain Grain
		in    string
		want  string
	}{
		{Day, "2016/12/31", "2017/01/01"},
		{Week, "2016/09/04", "2016/09/11"},
		{Month, "2016/01/01", "2016/02/01"},
		{Month, "2016/12/01", "2017/01/01"},
		{Quarter, "2016/10/01", "2017/01/01"},
		{Year, "2016/01/01", "2017/01/01"},
	}
	for _, tt := range tests {
		t.Run(tt.grain.String()+" "+tt.in, func(t *testing.T) {
			got := tt.grain.Next(mustDate(t, tt.in))
			if !got.Equal(mustDate(t, tt.want)) {
				t.Errorf("Next(%s) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestOverDays(t *testing.T) {
	transactions := []Transaction{
		{
			Date: mustDate(t, "2014/02/14"),
			Postings: []Posting{
				{Account: "Foo:Bar", Amount: Amount{Quantity: decimal.RequireFromString("1.23")}},
				{Account: "Foo:Quux", Amount: Amount{Quantity: decimal.RequireFromString("1.23")}},
			},
		},
		postingTx(t, "2014/02/14", "Foo:Baz", "1.23"),
		postingTx(t, "2014/02/15", "Foo:Quux", "1.23"),
	}

	t.Run("only matching accounts", func(t *testing.T) {
		got := OverDays(regexp.MustCompile(`^Foo:Baz$`))(transactions)
		if len(got) != 1 {
			t.Fatalf("got %d points, want 1", len(got))
		}
		if !got[0].Date.Equal(mustDate(t, "2014/02/14")) || !known(t, got[0]).Equal(decimal.RequireFromString("1.23")) {
			t.Errorf("unexpected point %s %s", got[0].Date, got[0].Value)
		}
	})

	t.Run("separate bucket per day", func(t *testing.T) {
		got := OverDays(regexp.MustCompile(`^Foo:Quux$`))(transactions)
		if len(got) != 2 {
			t.Fatalf("got %d points, want 2", len(got))
		}
		if !got[0].Date.Equal(mustDate(t, "2014/02/14")) || !got[1].Date.Equal(mustDate(t, "2014/02/15")) {
			t.Errorf("unexpected dates %s, %s", got[0].Date, got[1].Date)
		}
	})
}

func TestOverWeeks(t *testing.T) {
	// 2016/09/04 through 2016/09/10 is one Sunday-started week.
	transactions := []Transaction{
		postingTx(t, "2016/09/09", "Expenses:Food", "1.23"),
		postingTx(t, "2016/09/10", "Expenses:Food", "1.23"),
		postingTx(t, "2016/09/11", "Expenses:Food", "1.23"),
	}

	got := OverWeeks(regexp.MustCompile(`^Expenses`))(transactions)
	if len(got) != 2 {
		t.Fatalf("got %d buckets, want 2", len(got))
	}
	if !got[0].Date.Equal(mustDate(t, "2016/09/04")) || !known(t, got[0]).Equal(decimal.RequireFromString("2.46")) {
		t.Errorf("first bucket = %s %s, want 2016/09/04 2.46", got[0].Date, got[0].Value)
	}
	if !got[1].Date.Equal(mustDate(t, "2016/09/11")) || !known(t, got[1]).Equal(decimal.RequireFromString("1.23")) {
		t.Errorf("second bucket = %s %s, want 2016/09/11 1.23", got[1].Date, got[1].Value)
	}
}

func TestOverTime_massConservation(t *testing.T) {
	transactions := []Transaction{
		postingTx(t, "2016/01/02", "Expenses:A", "1.50"),
		postingTx(t, "2016/03/15", "Expenses:B", "2.25"),
		postingTx(t, "2016/03/15", "Expenses:A", "-0.75"),
		postingTx(t, "2017/11/30", "Expenses:C", "10"),
	}
	want := decimal.RequireFromString("13")

	for _, grain := range []Grain{Day, Week, Month, Quarter, Year} {
		t.Run(grain.String(), func(t *testing.T) {
			total := decimal.Zero
			for _, p := range OverTime(grain, regexp.MustCompile(`^Expenses`))(transactions) {
				total = total.Add(known(t, p))
			}
			if !total.Equal(want) {
				t.Errorf("bucket total = %s, want %s", total, want)
			}
		})
	}
}

func TestSeriesByAccount(t *testing.T) {
	transactions := []Transaction{
		postingTx(t, "2016/09/09", "Expenses:Food", "1.23"),
		postingTx(t, "2016/09/10", "Expenses:Rent", "900"),
		postingTx(t, "2016/09/12", "Income:Salary", "-5000"),
	}
	got := SeriesByAccount(Day, regexp.MustCompile(`^Expenses`))(transactions)
	if len(got) != 2 {
		t.Fatalf("got %d accounts, want 2", len(got))
	}
	if len(got["Expenses:Food"]) != 1 || len(got["Expenses:Rent"]) != 1 {
		t.Errorf("unexpected series: %+v", got)
	}
}

func fillTestSeries(t *testing.T, days ...string) []SeriesPoint {
	t.Helper()
	series := make([]SeriesPoint, len(days))
	for i, day := range days {
		v := decimal.RequireFromString("123")
		series[i] = SeriesPoint{Date: mustDate(t, day), Value: &v}
	}
	return series
}

func TestFillIn(t *testing.T) {
	tests := []struct {
		name      string
		fill      func([]SeriesPoint) []SeriesPoint
		in        []string
		wantLen   int
		wantFirst string // date of the first inserted gap, if any
	}{
		{"days with gap", FillInDays, []string{"2016/09/30", "2016/10/03"}, 4, "2016/10/01"},
		{"days without gap", FillInDays, []string{"2016/09/30", "2016/10/01"}, 2, ""},
		{"weeks with gap", FillInWeeks, []string{"2016/09/25", "2016/10/16"}, 4, "2016/10/02"},
		{"weeks without gap", FillInWeeks, []string{"2016/09/25", "2016/10/02"}, 2, ""},
		{"months with gap", FillInMonths, []string{"2016/10/01", "2017/01/01"}, 4, "2016/11/01"},
		{"months without gap", FillInMonths, []string{"2016/10/01", "2016/11/01"}, 2, ""},
		{"quarters with gap", FillInQuarters, []string{"2016/01/01", "2016/10/01"}, 4, "2016/04/01"},
		{"years with gap", FillInYears, []string{"2016/01/01", "2019/01/01"}, 4, "2017/01/01"},
		{"years without gap", FillInYears, []string{"2016/01/01", "2017/01/01"}, 2, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := fillTestSeries(t, tt.in...)
			got := tt.fill(in)
			if len(got) != tt.wantLen {
				t.Fatalf("got %d points, want %d", len(got), tt.wantLen)
			}

			// Original points survive unchanged and in order.
			if !got[0].Date.Equal(in[0].Date) || got[0].Value != in[0].Value {
				t.Error("first original point altered")
			}
			if last := got[len(got)-1]; !last.Date.Equal(in[len(in)-1].Date) || last.Value != in[len(in)-1].Value {
				t.Error("last original point altered")
			}

			if tt.wantFirst != "" {
				if got[1].Value != nil {
					t.Error("inserted point should be a gap")
				}
				if !got[1].Date.Equal(mustDate(t, tt.wantFirst)) {
					t.Errorf("first gap at %s, want %s", got[1].Date, tt.wantFirst)
				}
			}
		})
	}
}

func TestRunningTotal(t *testing.T) {
	t.Run("cumulative sums", func(t *testing.T) {
		in := fillTestSeries(t, "2016/01/01", "2016/01/02", "2016/01/03")
		got := RunningTotal(in)
		want := []string{"123", "246", "369"}
		for i, w := range want {
			if !known(t, got[i]).Equal(decimal.RequireFromString(w)) {
				t.Errorf("total[%d] = %s, want %s", i, got[i].Value, w)
			}
			if !got[i].Date.Equal(in[i].Date) {
				t.Errorf("date[%d] changed", i)
			}
		}
	})

	t.Run("gap poisons every later total", func(t *testing.T) {
		in := fillTestSeries(t, "2016/01/01", "2016/01/02", "2016/01/03")
		in[1].Value = nil
		got := RunningTotal(in)
		if !known(t, got[0]).Equal(decimal.RequireFromString("123")) {
			t.Errorf("total[0] = %s, want 123", got[0].Value)
		}
		for i := 1; i < len(got); i++ {
			if got[i].Value == nil || got[i].Value.Known() {
				t.Errorf("total[%d] should be unknown, got %s", i, got[i].Value)
			}
		}
	})
}

func TestNormalizeMax(t *testing.T) {
	seriesList := [][]SeriesPoint{
		fillTestSeries(t, "2016/01/03", "2016/01/05"),
		fillTestSeries(t, "2016/01/01", "2016/01/02"),
	}

	got := NormalizeMax(Day)(seriesList)

	minDate := mustDate(t, "2016/01/01")
	maxDate := mustDate(t, "2016/01/05")
	for i, series := range got {
		if len(series) != 5 {
			t.Fatalf("series %d has %d points, want 5", i, len(series))
		}
		if !series[0].Date.Equal(minDate) {
			t.Errorf("series %d starts at %s, want %s", i, series[0].Date, minDate)
		}
		if !series[len(series)-1].Date.Equal(maxDate) {
			t.Errorf("series %d ends at %s, want %s", i, series[len(series)-1].Date, maxDate)
		}
		for j := 1; j < len(series); j++ {
			if !series[j].Date.Equal(Day.Next(series[j-1].Date)) {
				t.Errorf("series %d has a hole at %s", i, series[j].Date)
			}
		}
	}

	// Series already spanning the full range are not padded.
	if got[1][1].Value == nil {
		t.Error("series 1 real point at 2016/01/02 replaced by a gap")
	}
	if got[0][0].Value != nil {
		t.Error("series 0 should gain a nil point at the global min date")
	}
}

func TestNormalizeMax_emptyList(t *testing.T) {
	if got := NormalizeMax(Day)(nil); got != nil {
		t.Errorf("expected nil passthrough, got %v", got)
	}
}
