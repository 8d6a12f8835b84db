// Package output provides annotation output formatters.
package output

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/inodb/vepvcf/internal/csq"
	"github.com/inodb/vepvcf/internal/vcf"
)

// DefaultMissing is written for a column absent from a CSQ row.
const DefaultMissing = "."

// TabWriter writes decoded CSQ rows in tab-delimited format.
type TabWriter struct {
	w          *bufio.Writer
	columns    []string
	missing    string
	withRecord bool
}

// NewTabWriter creates a tab-delimited writer for the given CSQ columns.
// An empty missing string falls back to DefaultMissing.
func NewTabWriter(w io.Writer, columns []string, missing string) *TabWriter {
	if missing == "" {
		missing = DefaultMissing
	}
	return &TabWriter{
		w:       bufio.NewWriter(w),
		columns: columns,
		missing: missing,
	}
}

// ShowRecord prefixes every line with the record index and its location.
func (tw *TabWriter) ShowRecord() {
	tw.withRecord = true
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	cols := tw.columns
	if tw.withRecord {
		cols = append([]string{"#Record", "Location"}, cols...)
	}
	_, err := tw.w.WriteString(strings.Join(cols, "\t") + "\n")
	return err
}

// Write writes one CSQ row of record index. v is only used when ShowRecord
// is set.
func (tw *TabWriter) Write(index int, v *vcf.Variant, row csq.Row) error {
	values := make([]string, 0, len(tw.columns)+2)
	if tw.withRecord {
		values = append(values, strconv.Itoa(index), fmt.Sprintf("%s:%d", v.Chrom, v.Pos))
	}
	for _, col := range tw.columns {
		val, ok := row[col]
		if !ok {
			val = tw.missing
		}
		values = append(values, val)
	}

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

// LeadingColumns returns a copy of the first n schema fields, or of all of
// them when n is not positive or exceeds the schema.
func LeadingColumns(schema []string, n int) []string {
	if n <= 0 || n >= len(schema) {
		n = len(schema)
	}
	return slices.Clone(schema[:n])
}
