package vcf

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseRecord tokenizes a data line in the context of the active column
// header. The header decides whether sample columns are expected.
func ParseRecord(header *ColumnHeader, line string) (*Variant, error) {
	if header == nil {
		return nil, &ParseError{Message: "no column header"}
	}

	fields := strings.Split(line, "\t")
	if len(fields) < 8 {
		return nil, &ParseError{
			Message: fmt.Sprintf("expected at least 8 columns, found %d", len(fields)),
		}
	}
	if len(header.Columns) > 8 && len(fields) != len(header.Columns) {
		return nil, &ParseError{
			Message: fmt.Sprintf("expected %d columns from header, found %d", len(header.Columns), len(fields)),
		}
	}

	if fields[0] == "" {
		return nil, &ParseError{Message: "empty chromosome"}
	}

	pos, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return nil, &ParseError{
			Message: fmt.Sprintf("invalid position: %s", fields[1]),
		}
	}

	qual := 0.0
	if fields[5] != "." {
		qual, err = strconv.ParseFloat(fields[5], 64)
		if err != nil {
			return nil, &ParseError{
				Message: fmt.Sprintf("invalid quality: %s", fields[5]),
			}
		}
	}

	v := &Variant{
		Chrom:   fields[0],
		Pos:     pos,
		IDs:     splitMissing(fields[2], ";"),
		Ref:     fields[3],
		Alts:    splitMissing(fields[4], ","),
		Qual:    qual,
		Filter:  fields[6],
		RawInfo: fields[7],
		info:    parseInfo(fields[7]),
	}

	// Capture FORMAT + sample columns if present
	if len(fields) > 8 {
		v.SampleColumns = strings.Join(fields[8:], "\t")
	}

	return v, nil
}

// splitMissing splits a column on sep, treating "." and "" as no values.
func splitMissing(col, sep string) []string {
	if col == "." || col == "" {
		return nil
	}
	return strings.Split(col, sep)
}

// parseInfo parses the INFO field into raw value groups per key.
// Repeated keys accumulate one group per occurrence.
func parseInfo(info string) map[string][]string {
	result := make(map[string][]string)
	if info == "." {
		return result
	}

	for _, kv := range strings.Split(info, ";") {
		if kv == "" {
			continue
		}
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			// Flag-type INFO field
			if _, seen := result[key]; !seen {
				result[key] = nil
			}
			continue
		}
		result[key] = append(result[key], value)
	}

	return result
}
