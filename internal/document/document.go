// Package document accumulates a VEP-annotated VCF line by line and answers
// queries about the CSQ annotations of its records.
//
// A Document starts out waiting for the "#CHROM" column header. Meta lines
// are collected in any state; the CSQ schema is derived from the meta lines
// seen before the column header. Data lines are accepted only after a
// column header has been processed, even when no schema could be derived:
// such records are kept and their annotations decode to empty rows.
package document

import (
	"errors"

	"go.uber.org/zap"

	"github.com/inodb/vepvcf/internal/csq"
	"github.com/inodb/vepvcf/internal/vcf"
)

// Document is the in-memory state of one ingested VCF. It is not safe for
// concurrent use while Ingest is being called; once ingestion is finished
// the query methods only read.
type Document struct {
	meta    []vcf.MetaLine
	header  *vcf.ColumnHeader
	schema  csq.Schema
	records []*vcf.Variant
	lines   int
	logger  *zap.Logger
}

// New creates an empty document awaiting its column header.
func New() *Document {
	return &Document{logger: zap.NewNop()}
}

// SetLogger sets the logger for schema derivation messages.
func (d *Document) SetLogger(l *zap.Logger) {
	d.logger = l
}

// Ingest consumes the next line of the document.
//
// On KindSchemaUnavailable the column header has still been recorded and
// the document accepts records from then on.
func (d *Document) Ingest(line string) error {
	d.lines++

	switch vcf.Classify(line) {
	case vcf.KindMeta:
		m, err := vcf.ParseMetaLine(line)
		if err != nil {
			return &Error{Kind: KindMalformedMetaLine, Line: d.lines, Err: err}
		}
		d.meta = append(d.meta, m)
		return nil

	case vcf.KindColumnHeader:
		return d.ingestHeader(line)

	case vcf.KindData:
		if d.header == nil {
			return &Error{Kind: KindRecordBeforeHeader, Line: d.lines, InputSeen: d.lines > 1}
		}
		v, err := vcf.ParseRecord(d.header, line)
		if err != nil {
			return &Error{Kind: KindRecordParseFailed, Line: d.lines, Err: err}
		}
		d.records = append(d.records, v)
		return nil

	default:
		panic("document: unhandled line kind")
	}
}

func (d *Document) ingestHeader(line string) error {
	d.header = vcf.ParseColumnHeader(line)

	if len(d.schema) > 0 {
		d.logger.Debug("column header repeated, keeping CSQ schema",
			zap.Int("line", d.lines))
		return nil
	}

	schema, ok := d.deriveSchema()
	if !ok {
		d.logger.Warn("no CSQ format declared before column header; annotations will decode to empty rows",
			zap.Int("line", d.lines))
		return &Error{Kind: KindSchemaUnavailable, Line: d.lines}
	}

	d.schema = schema
	d.logger.Debug("derived CSQ schema",
		zap.Int("line", d.lines),
		zap.Int("fields", len(schema)))
	return nil
}

// deriveSchema parses the Description of the last CSQ INFO declaration
// collected so far.
func (d *Document) deriveSchema() (csq.Schema, bool) {
	for i := len(d.meta) - 1; i >= 0; i-- {
		decl := d.meta[i].Decl
		if decl != nil && decl.Kind == "INFO" && decl.ID == csq.Key {
			return csq.ParseFormat(decl.Description)
		}
	}
	return nil, false
}

// Ready reports whether a column header has been processed.
func (d *Document) Ready() bool {
	return d.header != nil
}

// ColumnHeader returns the active column header.
func (d *Document) ColumnHeader() (*vcf.ColumnHeader, bool) {
	return d.header, d.header != nil
}

// MetaLines returns the meta lines ingested so far, in order.
func (d *Document) MetaLines() []vcf.MetaLine {
	out := make([]vcf.MetaLine, len(d.meta))
	copy(out, d.meta)
	return out
}

// RecordCount returns the number of records ingested.
func (d *Document) RecordCount() int {
	return len(d.records)
}

// Record returns the record at index.
func (d *Document) Record(index int) (*vcf.Variant, bool) {
	if index < 0 || index >= len(d.records) {
		return nil, false
	}
	return d.records[index], true
}

// SchemaFields returns a copy of the CSQ field names, empty if none were
// derived.
func (d *Document) SchemaFields() []string {
	out := make([]string, len(d.schema))
	copy(out, d.schema)
	return out
}

// ListSummaries returns one "chrom pos ids ref alts" line per record, in
// ingestion order.
func (d *Document) ListSummaries() []string {
	out := make([]string, len(d.records))
	for i, v := range d.records {
		out[i] = v.Summary()
	}
	return out
}

// HasAnnotation reports whether the record at index carries a CSQ key.
// ok is false when index is out of range.
func (d *Document) HasAnnotation(index int) (has bool, ok bool) {
	v, ok := d.Record(index)
	if !ok {
		return false, false
	}
	return v.HasInfo(csq.Key), true
}

// Annotations decodes the CSQ value of the record at index against the
// document schema.
func (d *Document) Annotations(index int) ([]csq.Row, error) {
	v, ok := d.Record(index)
	if !ok {
		return nil, &Error{Kind: KindIndexOutOfRange, Index: index}
	}

	rows, err := csq.Decode(v, d.schema)
	if err != nil {
		if errors.Is(err, csq.ErrNoAnnotation) {
			return nil, &Error{Kind: KindNoAnnotationPresent, Index: index}
		}
		return nil, &Error{Kind: KindRecordParseFailed, Index: index, Err: err}
	}
	return rows, nil
}
