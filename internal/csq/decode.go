package csq

import (
	"errors"
	"strings"
)

// ErrNoAnnotation is returned by Decode when the record has no CSQ key.
var ErrNoAnnotation = errors.New("no CSQ annotation")

// Row maps CSQ field names to the values of one allele/transcript group.
type Row map[string]string

// InfoLookup is satisfied by records that expose raw INFO value groups.
type InfoLookup interface {
	Info(key string) ([]string, bool)
}

// Decode splits the record's CSQ value groups on "," and each group on "|",
// pairing values with schema fields by position. Rows follow value-group
// order, then group order within a value. Values beyond the schema are
// dropped; fields beyond the values are left out of the row.
func Decode(rec InfoLookup, schema Schema) ([]Row, error) {
	raw, ok := rec.Info(Key)
	if !ok {
		return nil, ErrNoAnnotation
	}

	rows := make([]Row, 0, len(raw))
	for _, value := range raw {
		for _, group := range strings.Split(value, groupSeparator) {
			rows = append(rows, decodeGroup(group, schema))
		}
	}
	return rows, nil
}

func decodeGroup(group string, schema Schema) Row {
	values := strings.Split(group, fieldSeparator)
	n := min(len(values), len(schema))

	row := make(Row, n)
	for i := 0; i < n; i++ {
		// Clone so the row does not pin the record's INFO string.
		row[schema[i]] = strings.Clone(values[i])
	}
	return row
}
