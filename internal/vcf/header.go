package vcf

import "strings"

// ColumnHeader holds the column names declared by the "#CHROM" line.
type ColumnHeader struct {
	Columns []string // CHROM, POS, ID, REF, ALT, QUAL, FILTER, INFO[, FORMAT, samples...]
}

// ParseColumnHeader builds a ColumnHeader from a "#" line. The leading "#"
// is dropped and the remainder split on tabs.
func ParseColumnHeader(line string) *ColumnHeader {
	line = strings.TrimPrefix(line, HeaderPrefix)
	return &ColumnHeader{Columns: strings.Split(line, "\t")}
}

// SampleNames returns sample names from columns after FORMAT (index 9+).
// Returns nil if no sample columns are present.
func (h *ColumnHeader) SampleNames() []string {
	if len(h.Columns) > 9 {
		return h.Columns[9:]
	}
	return nil
}
