package cmd

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jbrukh/bayesian"
	"github.com/spf13/cobra"

	"github.com/mplenert/ledger"
	"github.com/mplenert/ledger/decimal"
	"github.com/mplenert/ledger/ledger/iif"
	"github.com/mplenert/ledger/ledger/qif"
)

var ErrNoMatchingAccount = errors.New("unable to find matching account")

const unknownAccount = "unknown:unknown"

var csvDateFormat string
var negateAmount bool
var allowMatching bool
var scaleFactor float64
var importCommodity string

// Importer turns bank export files into ledger text on stdout. When the
// ledger file loads, a naive Bayes classifier trained on its existing
// transactions suggests the balancing account for each imported row.
type Importer struct {
	filename        string
	reader          *os.File
	scale           decimal.Decimal
	commodity       ledger.Commodity
	matchingAccount string
	transactions    []ledger.Transaction
	classifier      *bayesian.Classifier
}

func NewImporter(accountSubstring, filename string) *Importer {
	imp := Importer{
		filename:  filename,
		scale:     decimal.NewFromFloat(scaleFactor),
		commodity: ledger.Commodity(importCommodity),
	}
	if imp.commodity == "" {
		imp.commodity = ledger.Commodity(conf.Commodity)
	}

	fileReader, err := os.Open(filename)
	if err != nil {
		fmt.Println("import:", err)
		return nil
	}
	imp.reader = fileReader

	// With a ledger file to learn from, train the classifier. Without
	// one, predictions fall back to unknown:unknown.
	if ledgerFilePath != "" {
		l, err := readLedger()
		if err != nil {
			fmt.Printf("%s:%s\n", ledgerFilePath, err.Error())
			return nil
		}
		imp.transactions = l.Transactions

		matchingAccount, err := imp.findMatchingAccount(accountSubstring)
		if err != nil {
			fmt.Println(err)
			return nil
		}
		imp.matchingAccount = matchingAccount

		imp.classifier = imp.trainClassifier(imp.matchingAccount)
	} else {
		imp.matchingAccount = accountSubstring
	}

	return &imp
}

func (imp *Importer) Close() {
	imp.reader.Close()
}

func (imp *Importer) accountNames() []string {
	seen := make(map[string]struct{})
	for _, trans := range imp.transactions {
		for _, posting := range trans.Postings {
			seen[posting.Account] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (imp *Importer) findMatchingAccount(accountSubstring string) (string, error) {
	var candidates []string
	for _, name := range imp.accountNames() {
		if strings.Contains(strings.ToLower(name), strings.ToLower(accountSubstring)) {
			candidates = append(candidates, name)
		}
	}
	if len(candidates) < 1 {
		return "", ErrNoMatchingAccount
	}
	for _, name := range candidates {
		if strings.EqualFold(name, accountSubstring) {
			return name, nil
		}
	}
	return candidates[len(candidates)-1], nil
}

func (imp *Importer) trainClassifier(matchingAccount string) *bayesian.Classifier {
	classes := []bayesian.Class{}
	for _, name := range imp.accountNames() {
		classes = append(classes, bayesian.Class(name))
	}

	classifier := bayesian.NewClassifier(classes...)
	for _, trans := range imp.transactions {
		payeeWords := strings.Fields(trans.Desc)
		// learn the other account names of transactions that touch the
		// matching account
		learn := false
		for _, posting := range trans.Postings {
			if posting.Account == matchingAccount {
				learn = true
				break
			}
		}
		if learn {
			for _, posting := range trans.Postings {
				if posting.Account != matchingAccount {
					classifier.Learn(payeeWords, bayesian.Class(posting.Account))
				}
			}
		}
	}

	return classifier
}

func (imp *Importer) predictAccount(inputPayeeWords []string) string {
	if imp.classifier == nil {
		return unknownAccount
	}

	highScore1 := math.Inf(-1)
	highScore2 := math.Inf(-1)
	matchIdx := 0
	scores, _, _ := imp.classifier.LogScores(inputPayeeWords)
	for j, score := range scores {
		if score > highScore1 {
			highScore2 = highScore1
			highScore1 = score
			matchIdx = j
		}
	}
	// a wide margin over the runner-up indicates a confident match
	if highScore1-highScore2 > 10 {
		return string(imp.classifier.Classes[matchIdx])
	}
	return unknownAccount
}

func (imp *Importer) existingTransaction(transDate time.Time, payee string) bool {
	for _, trans := range imp.transactions {
		if trans.Date.Equal(transDate) && strings.TrimSpace(trans.Desc) == strings.TrimSpace(payee) {
			return true
		}
	}
	return false
}

// emit writes one imported transaction as ledger text: the predicted
// account gets the amount, the matching account the negation.
func (imp *Importer) emit(transDate time.Time, payee string, amount decimal.Decimal) {
	amount = amount.Mul(imp.scale)
	trans := ledger.Transaction{
		Date: transDate,
		Desc: payee,
		Postings: []ledger.Posting{
			{Account: imp.matchingAccount, Amount: ledger.Amount{Quantity: amount.Neg(), Commodity: imp.commodity}},
			{Account: imp.predictAccount(strings.Fields(payee)), Amount: ledger.Amount{Quantity: amount, Commodity: imp.commodity}},
		},
	}
	WriteTransaction(os.Stdout, trans, 80)
}

func (imp *Importer) importCSV() {
	csvReader := csv.NewReader(imp.reader)
	csvReader.Comma, _ = utf8.DecodeRuneInString(fieldDelimiter)
	csvRecords, cerr := csvReader.ReadAll()
	if cerr != nil {
		fmt.Println("CSV parse error:", cerr.Error())
		return
	}
	if len(csvRecords) < 1 {
		return
	}

	// find columns from the header row
	dateColumn, payeeColumn, amountColumn := -1, -1, -1
	for fieldIndex, fieldName := range csvRecords[0] {
		fieldName = strings.ToLower(fieldName)
		switch {
		case strings.Contains(fieldName, "date"):
			dateColumn = fieldIndex
		case strings.Contains(fieldName, "description"), strings.Contains(fieldName, "payee"):
			payeeColumn = fieldIndex
		case strings.Contains(fieldName, "amount"), strings.Contains(fieldName, "expense"):
			amountColumn = fieldIndex
		}
	}
	if dateColumn < 0 || payeeColumn < 0 || amountColumn < 0 {
		fmt.Println("Unable to find columns required from header field names.")
		return
	}

	for _, record := range csvRecords[1:] {
		csvDate, derr := time.Parse(csvDateFormat, record[dateColumn])
		if derr != nil {
			fmt.Println("CSV date parse error:", derr.Error())
			continue
		}
		if !allowMatching && imp.existingTransaction(csvDate, record[payeeColumn]) {
			continue
		}

		amount, aerr := decimal.NewFromString(record[amountColumn])
		if aerr != nil {
			amount = decimal.Zero
		}
		if negateAmount {
			amount = amount.Neg()
		}

		imp.emit(csvDate, record[payeeColumn], amount)
	}
}

func (imp *Importer) importQIF() {
	entries, err := qif.ParseQIF(imp.reader)
	if err != nil {
		fmt.Println("QIF parse error:", err.Error())
		return
	}

	for _, entry := range entries {
		// QIF dates are locale specific; try mm/dd/yyyy then dd/mm/yyyy
		transDate, derr := time.Parse("01/02/2006", entry.Date)
		if derr != nil {
			transDate, derr = time.Parse("02/01/2006", entry.Date)
			if derr != nil {
				fmt.Println("QIF date parse error:", derr.Error())
				continue
			}
		}

		amount, aerr := decimal.NewFromString(entry.Amount)
		if aerr != nil {
			fmt.Println("QIF amount parse error:", aerr.Error())
			continue
		}
		if !allowMatching && imp.existingTransaction(transDate, entry.Payee) {
			continue
		}

		imp.emit(transDate, entry.Payee, amount)
	}
}

func (imp *Importer) importIIF() {
	f, err := iif.NewDecoder(imp.reader).Decode()
	if err != nil {
		fmt.Println("IIF parse error:", err.Error())
		return
	}

	for _, block := range f.Blocks {
		entries, derr := iif.DeserializeTransactions(block)
		if derr != nil {
			fmt.Println("IIF parse error:", derr.Error())
			return
		}
		for _, entry := range entries {
			// IIF splits already name both sides, so no classifier needed
			payee := entry.Tr.Name
			if payee == "" {
				payee = entry.Tr.Memo
			}
			trans := ledger.Transaction{
				Date: entry.Tr.Date,
				Desc: payee,
				Postings: []ledger.Posting{
					{Account: entry.Tr.Account, Amount: ledger.Amount{Quantity: entry.Tr.Amount, Commodity: imp.commodity}},
				},
			}
			for _, split := range entry.Splits {
				trans.Postings = append(trans.Postings, ledger.Posting{
					Account: split.Account,
					Amount:  ledger.Amount{Quantity: split.Amount, Commodity: imp.commodity},
				})
			}
			WriteTransaction(os.Stdout, trans, 80)
		}
	}
}

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <account-substring> <file>",
	Args:  cobra.ExactArgs(2),
	Short: "Import transactions from csv, qif, or iif to ledger format",
	Run: func(_ *cobra.Command, args []string) {
		accountSubstring := args[0]
		fileName := args[1]

		imp := NewImporter(accountSubstring, fileName)
		if imp == nil {
			os.Exit(1)
		}
		defer imp.Close()

		lower := strings.ToLower(fileName)
		switch {
		case strings.HasSuffix(lower, ".qif"):
			imp.importQIF()
		case strings.HasSuffix(lower, ".iif"):
			imp.importIIF()
		default:
			imp.importCSV()
		}
	},
}

func init() {
	RootCmd.AddCommand(importCmd)

	importCmd.Flags().BoolVar(&negateAmount, "neg", false, "Negate amount column value.")
	importCmd.Flags().BoolVar(&allowMatching, "allow-matching", false, "Have output include imported transactions that\nmatch existing ledger transactions.")
	importCmd.Flags().Float64Var(&scaleFactor, "scale", 1.0, "Scale factor to multiply against every imported amount.")
	importCmd.Flags().StringVar(&csvDateFormat, "date-format", "01/02/2006", "Date format.")
	importCmd.Flags().StringVar(&fieldDelimiter, "delimiter", ",", "Field delimiter.")
	importCmd.Flags().StringVar(&importCommodity, "commodity", "", "Commodity for imported amounts; defaults to the configured one.")
}
