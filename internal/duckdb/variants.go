package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vepvcf/internal/csq"
	"github.com/inodb/vepvcf/internal/vcf"
)

// RecordRows holds the decoded CSQ rows of one record.
type RecordRows struct {
	Index   int
	Variant *vcf.Variant
	Rows    []csq.Row
}

// CSQValue is one stored (record, row, field) cell.
type CSQValue struct {
	RecordIndex int
	Chrom       string
	Pos         int64
	Ref         string
	Alt         string
	RowIndex    int
	FieldIndex  int
	Field       string
	Value       string
}

// WriteRecordRows batch-inserts CSQ values into DuckDB using the Appender API.
// Fields are written in schema order; a field absent from a row is skipped.
func (s *Store) WriteRecordRows(records []RecordRows, schema []string) error {
	if len(records) == 0 {
		return nil
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "csq_values")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, r := range records {
		v := r.Variant
		alt := strings.Join(v.Alts, ",")
		for rowIdx, row := range r.Rows {
			for fieldIdx, field := range schema {
				value, ok := row[field]
				if !ok {
					continue
				}
				if err := appender.AppendRow(
					int64(r.Index), v.Chrom, v.Pos, v.Ref, alt,
					int64(rowIdx), int64(fieldIdx), field, value,
				); err != nil {
					return fmt.Errorf("append record %d: %w", r.Index, err)
				}
			}
		}
	}

	return appender.Flush()
}

// ClearCSQValues removes all exported values and source fingerprints.
func (s *Store) ClearCSQValues() error {
	if _, err := s.db.Exec("DELETE FROM csq_values"); err != nil {
		return err
	}
	_, err := s.db.Exec("DELETE FROM source_files")
	return err
}

// LookupRecord returns the stored values of one record ordered by row and
// field position.
func (s *Store) LookupRecord(index int) ([]CSQValue, error) {
	rows, err := s.db.Query(`SELECT
		record_index, chrom, pos, ref, alt, row_index, field_index, field, value
		FROM csq_values
		WHERE record_index=?
		ORDER BY row_index, field_index`, int64(index))
	if err != nil {
		return nil, fmt.Errorf("query record %d: %w", index, err)
	}
	defer rows.Close()

	return scanCSQValues(rows)
}

// SearchByField returns every stored cell whose field equals value, e.g.
// ("SYMBOL", "KRAS"), ordered by record and row.
func (s *Store) SearchByField(field, value string) ([]CSQValue, error) {
	rows, err := s.db.Query(`SELECT
		record_index, chrom, pos, ref, alt, row_index, field_index, field, value
		FROM csq_values
		WHERE field=? AND value=?
		ORDER BY record_index, row_index`, field, value)
	if err != nil {
		return nil, fmt.Errorf("query by field: %w", err)
	}
	defer rows.Close()

	return scanCSQValues(rows)
}

// GroupRows reassembles rows from values sorted by row index, as returned
// by LookupRecord. Rows that had no fields stored are not represented.
func GroupRows(values []CSQValue) []csq.Row {
	var out []csq.Row
	last := -1
	for _, v := range values {
		if v.RowIndex != last {
			out = append(out, csq.Row{})
			last = v.RowIndex
		}
		out[len(out)-1][v.Field] = v.Value
	}
	return out
}

// scanCSQValues scans rows into CSQValue slices.
func scanCSQValues(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]CSQValue, error) {
	var values []CSQValue
	for rows.Next() {
		var v CSQValue
		var recordIdx, rowIdx, fieldIdx int64
		if err := rows.Scan(
			&recordIdx, &v.Chrom, &v.Pos, &v.Ref, &v.Alt,
			&rowIdx, &fieldIdx, &v.Field, &v.Value,
		); err != nil {
			return nil, fmt.Errorf("scan csq value: %w", err)
		}
		v.RecordIndex = int(recordIdx)
		v.RowIndex = int(rowIdx)
		v.FieldIndex = int(fieldIdx)
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate csq values: %w", err)
	}
	return values, nil
}
