package vcf

import (
	"strconv"
	"strings"
)

// Variant represents a single tokenized VCF data line.
type Variant struct {
	Chrom         string   // Chromosome name (e.g., "12", "chr12")
	Pos           int64    // 1-based genomic position
	IDs           []string // Variant identifiers, nil if "."
	Ref           string   // Reference allele
	Alts          []string // Alternate alleles, nil if "."
	Qual          float64  // Quality score, 0 if "."
	Filter        string   // Filter status (PASS or filter name)
	RawInfo       string   // INFO column as read
	SampleColumns string   // FORMAT + sample columns, tab-joined

	info map[string][]string
}

// Info returns the raw value groups recorded for key, one per occurrence of
// the key in the INFO column. A flag key is present with no groups.
func (v *Variant) Info(key string) ([]string, bool) {
	groups, ok := v.info[key]
	return groups, ok
}

// HasInfo reports whether key occurs in the INFO column.
func (v *Variant) HasInfo(key string) bool {
	_, ok := v.info[key]
	return ok
}

// Summary formats the variant as "chrom pos ids ref alts". Identifiers are
// comma-joined, or "." when there are none.
func (v *Variant) Summary() string {
	ids := "."
	if len(v.IDs) > 0 {
		ids = strings.Join(v.IDs, ",")
	}
	return v.Chrom + " " + strconv.FormatInt(v.Pos, 10) + " " + ids + " " + v.Ref + " " + strings.Join(v.Alts, ",")
}
