// Package csq extracts the VEP CSQ column layout from a VCF header and
// decodes packed CSQ values into field/value rows.
package csq

import "strings"

// Key is the INFO identifier carrying VEP consequence annotations.
const Key = "CSQ"

// Delimiters of the CSQ micro-grammar.
const (
	formatMarker   = "Format: "
	groupSeparator = ","
	fieldSeparator = "|"
)

// Schema is the ordered list of CSQ field names.
type Schema []string

// ParseFormat extracts the field names from the Description of the CSQ INFO
// declaration, e.g. "Consequence annotations from Ensembl VEP. Format:
// Allele|Consequence|IMPACT". The text after the last "Format: " marker is
// split on "|" verbatim. It returns false when the marker is missing or the
// remainder has no "|".
func ParseFormat(description string) (Schema, bool) {
	i := strings.LastIndex(description, formatMarker)
	if i < 0 {
		return nil, false
	}

	cols := description[i+len(formatMarker):]
	if !strings.Contains(cols, fieldSeparator) {
		return nil, false
	}
	return strings.Split(cols, fieldSeparator), true
}
