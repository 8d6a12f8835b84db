// Package vcf provides VCF line classification, header parsing and record
// tokenization.
package vcf

import "strings"

// Structural line prefixes.
const (
	MetaPrefix   = "##"
	HeaderPrefix = "#"
)

// LineKind identifies the structural category of a VCF line.
type LineKind int

const (
	// KindMeta is a "##" meta-information line.
	KindMeta LineKind = iota
	// KindColumnHeader is the single "#CHROM ..." line.
	KindColumnHeader
	// KindData is any other line: one variant record.
	KindData
)

func (k LineKind) String() string {
	switch k {
	case KindMeta:
		return "meta"
	case KindColumnHeader:
		return "header"
	case KindData:
		return "data"
	default:
		return "unknown"
	}
}

// Classify returns the category of a raw line. It never fails: anything
// that is not a meta or column header line is a data line.
func Classify(line string) LineKind {
	if strings.HasPrefix(line, MetaPrefix) {
		return KindMeta
	}
	if strings.HasPrefix(line, HeaderPrefix) {
		return KindColumnHeader
	}
	return KindData
}
