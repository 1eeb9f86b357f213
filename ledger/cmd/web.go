package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/andybalholm/brotli"
	gocache "github.com/patrickmn/go-cache"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/mplenert/ledger"
)

var webPort int

// webCmd represents the web command
var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve balances and time series as JSON over HTTP",
	Long: `Web serves the analysis pipeline to charting frontends. Every request
reparses the ledger file, so edits show up on the next (uncached) hit.

  GET /api/balances?pattern=<regex>&converted=<bool>
  GET /api/series?pattern=<regex>&grain=<grain>&cumulative=<bool>`,
	Run: func(_ *cobra.Command, _ []string) {
		resultCache := gocache.New(time.Minute, 5*time.Minute)
		limiter := rate.NewLimiter(rate.Limit(10), 20)

		mux := http.NewServeMux()
		mux.HandleFunc("/api/balances", cached(resultCache, balancesJSON))
		mux.HandleFunc("/api/series", cached(resultCache, seriesJSON))

		addr := fmt.Sprintf("localhost:%d", webPort)
		log.Println("listening on", addr)
		log.Fatalln(http.ListenAndServe(addr, throttle(limiter, mux)))
	},
}

func init() {
	RootCmd.AddCommand(webCmd)

	webCmd.Flags().IntVar(&webPort, "port", 8056, "Port to listen on.")
}

func throttle(limiter *rate.Limiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// cached serves compute's result keyed by the raw query, recomputing
// only after the cache entry expires. Responses are brotli or gzip
// compressed when the client accepts it.
func cached(resultCache *gocache.Cache, compute func(url.Values) ([]byte, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path + "?" + r.URL.RawQuery

		body, found := resultCache.Get(key)
		if !found {
			computed, err := compute(r.URL.Query())
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			resultCache.Set(key, computed, gocache.DefaultExpiration)
			body = computed
		}

		w.Header().Set("Content-Type", "application/json")
		cw := brotli.HTTPCompressor(w, r)
		defer cw.Close()
		cw.Write(body.([]byte))
	}
}

func balancesJSON(query url.Values) ([]byte, error) {
	pattern, err := regexp.Compile(query.Get("pattern"))
	if err != nil {
		return nil, err
	}

	transactions, _, err := reportTransactions(query.Get("converted") == "true")
	if err != nil {
		return nil, err
	}

	return json.Marshal(ledger.Balances(pattern)(transactions))
}

func seriesJSON(query url.Values) ([]byte, error) {
	patternStr := query.Get("pattern")
	if patternStr == "" {
		patternStr = conf.Pattern
	}
	pattern, err := regexp.Compile(patternStr)
	if err != nil {
		return nil, err
	}

	grainStr := query.Get("grain")
	if grainStr == "" {
		grainStr = conf.Grain
	}
	grain, err := ledger.ParseGrain(grainStr)
	if err != nil {
		return nil, err
	}

	transactions, _, err := reportTransactions(true)
	if err != nil {
		return nil, err
	}

	byAccount := ledger.SeriesByAccount(grain, pattern)(transactions)
	series := buildChart(byAccount, grain, conf.Limit, conf.Invert, query.Get("cumulative") == "true")
	return json.Marshal(series)
}
