package iif

import (
	"fmt"
	"reflect"
	"time"

	"github.com/mplenert/ledger/decimal"
)

// Transaction is a TRNS record group: the leading transaction row and
// its split rows.
type Transaction struct {
	Tr     Trns  `type:"TRNS"`
	Splits []Spl `type:"SPL"`
}

// Trns is the first row of a transaction group.
type Trns struct {
	TransactionType string          `iif:"TRNSTYPE"`
	Date            time.Time       `iif:"DATE"`
	Account         string          `iif:"ACCNT"`
	Name            string          `iif:"NAME"`
	Class           string          `iif:"CLASS"`
	Amount          decimal.Decimal `iif:"AMOUNT"`
	Memo            string          `iif:"MEMO"`
}

// Spl is one split row within a transaction group.
type Spl struct {
	TransactionType string          `iif:"TRNSTYPE"`
	Date            time.Time       `iif:"DATE"`
	Account         string          `iif:"ACCNT"`
	Name            string          `iif:"NAME"`
	Class           string          `iif:"CLASS"`
	Amount          decimal.Decimal `iif:"AMOUNT"`
	Memo            string          `iif:"MEMO"`
}

// DeserializeTransactions maps every TRNS record group of a block onto
// Transaction values. Non-transaction blocks yield nothing.
func DeserializeTransactions(b Block) ([]Transaction, error) {
	var out []Transaction
	for _, group := range b.Records {
		if len(group) == 0 {
			continue
		}
		var tx Transaction
		if err := deserializeRecordGroup(&tx, group); err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, nil
}

func deserializeRecordGroup(tx any, recs []Record) error {
	for _, r := range recs {
		if err := applyRecord(tx, r); err != nil {
			return err
		}
	}
	return nil
}

// applyRecord routes a record to the struct field whose "type" tag
// matches its record type: struct fields take the record directly,
// slice fields grow by one element per record.
func applyRecord(tx any, r Record) error {
	txVal := reflect.ValueOf(tx).Elem()
	txType := txVal.Type()

	for i := 0; i < txType.NumField(); i++ {
		field := txType.Field(i)
		tag := field.Tag.Get("type")
		if tag == "" || string(r.Type) != tag {
			continue
		}

		fv := txVal.Field(i)

		if fv.Kind() == reflect.Slice {
			elem := reflect.New(fv.Type().Elem()).Elem()
			if err := populateFromRecord(elem, r); err != nil {
				return err
			}
			fv.Set(reflect.Append(fv, elem))
			return nil
		}
		if fv.Kind() == reflect.Struct {
			return populateFromRecord(fv, r)
		}
	}
	return nil
}

func populateFromRecord(v reflect.Value, r Record) error {
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("iif: expected struct, got %s", v.Kind())
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get("iif")
		if tag == "" {
			continue
		}

		raw, ok := r.Fields[tag]
		if !ok {
			continue
		}

		fv := v.Field(i)
		if !fv.CanSet() {
			continue
		}
		if err := setFieldFromString(fv, raw); err != nil {
			return fmt.Errorf("field %s: %w", sf.Name, err)
		}
	}
	return nil
}

// setFieldFromString converts a record value onto a struct field.
// Dates use the QuickBooks "M/D/YYYY" form; empty amounts read as zero.
func setFieldFromString(fv reflect.Value, s string) error {
	switch fv.Kind() {
	case reflect.String:
		fv.SetString(s)
		return nil
	case reflect.Struct:
		switch fv.Type() {
		case reflect.TypeOf(time.Time{}):
			if s == "" {
				return nil
			}
			t, err := time.Parse("1/2/2006", s)
			if err != nil {
				return err
			}
			fv.Set(reflect.ValueOf(t))
			return nil
		case reflect.TypeOf(decimal.Decimal{}):
			if s == "" {
				fv.Set(reflect.ValueOf(decimal.Zero))
				return nil
			}
			d, err := decimal.NewFromString(s)
			if err != nil {
				return err
			}
			fv.Set(reflect.ValueOf(d))
			return nil
		default:
			return fmt.Errorf("iif: unsupported struct type %s", fv.Type())
		}
	default:
		return fmt.Errorf("iif: unsupported kind %s", fv.Kind())
	}
}
