// Package iif reads QuickBooks IIF exports: tab-separated files where
// "!"-prefixed header rows declare the record types and columns of the
// data rows that follow.
package iif

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

var (
	ErrMismatchedRecords = errors.New("iif: row does not match expected header")
	ErrEmptyHeader       = errors.New("iif: record rows before any header")
)

// RecordType is a row's leading tag, e.g. "TRNS", "SPL", "ACCNT".
type RecordType string

// Header declares the field names for rows of one record type.
type Header struct {
	Type   RecordType
	Fields []string
}

// Record is one data row, its values keyed by the header's field names.
type Record struct {
	Type   RecordType
	Fields map[string]string
}

// Block is a run of headers followed by the record groups they declare.
type Block struct {
	Records [][]Record
	Headers []Header
}

// File is a fully decoded IIF file.
type File struct {
	Blocks []Block
}

// Decoder steps through an IIF stream one row at a time.
type Decoder struct {
	r        *csv.Reader
	err      error
	IsHeader bool
	Type     RecordType
	Fields   []string
}

// NewDecoder returns a Decoder positioned on the first row of r.
func NewDecoder(r io.Reader) *Decoder {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = false
	reader.FieldsPerRecord = -1
	d := Decoder{r: reader}
	d.Next()
	return &d
}

// Next advances to the following row.
func (d *Decoder) Next() {
	line, err := d.r.Read()
	d.err = err
	if err != nil {
		return
	}
	d.IsHeader = strings.HasPrefix(line[0], "!")
	if d.IsHeader {
		d.Type = RecordType(line[0][1:])
	} else {
		d.Type = RecordType(line[0])
	}
	d.Fields = line[1:]
}

// Error returns the underlying read error, if any. EOF is not an error.
func (d *Decoder) Error() error {
	if d.err != io.EOF {
		return d.err
	}
	return nil
}

// Done reports whether the stream is exhausted or failed.
func (d *Decoder) Done() bool {
	return d.err != nil
}

// Decode reads the remaining stream into a File.
func (d *Decoder) Decode() (*File, error) {
	f := File{}
	if err := f.load(d); err != nil && err != io.EOF {
		return nil, err
	}
	return &f, nil
}

func (f *File) load(d *Decoder) error {
	for !d.Done() {
		if err := d.Error(); err != nil {
			return err
		}
		b := Block{}
		if err := b.load(d); err != nil {
			return err
		}
		f.Blocks = append(f.Blocks, b)
	}
	return nil
}

// MapFields zips the header's field names with a row's values. Extra
// row values beyond the declared fields are dropped.
func (h Header) MapFields(fields []string) map[string]string {
	m := make(map[string]string, len(fields))
	for i, f := range h.Fields {
		if i >= len(fields) {
			break
		}
		m[f] = fields[i]
	}
	return m
}

func (b *Block) load(d *Decoder) error {
	if d.Done() {
		return d.Error()
	}

	for !d.Done() && d.IsHeader {
		b.Headers = append(b.Headers, Header{
			Type:   d.Type,
			Fields: trimLine(d.Fields),
		})
		d.Next()
	}
	if err := d.Error(); err != nil {
		return err
	}

	// Every record group walks the block's headers in order, with one or
	// more rows per header type.
	for !d.Done() && !d.IsHeader {
		if len(b.Headers) == 0 {
			return ErrEmptyHeader
		}
		group := []Record{}
		for _, h := range b.Headers {
			if d.Done() || d.Type != h.Type {
				return ErrMismatchedRecords
			}
			groupLen := len(group)
			for !d.Done() && !d.IsHeader && d.Type == h.Type {
				group = append(group, Record{
					Type:   d.Type,
					Fields: h.MapFields(d.Fields),
				})
				d.Next()
			}
			if len(group) == groupLen {
				return ErrMismatchedRecords
			}
		}
		b.Records = append(b.Records, group)
	}
	return nil
}

// trimLine cuts a header's field list at its first empty column.
func trimLine(records []string) []string {
	for i, r := range records {
		if r == "" {
			return records[:i]
		}
	}
	return records
}
