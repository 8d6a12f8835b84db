package vcf

import (
	"fmt"
	"strings"
)

// MetaLine is a parsed "##key=value" meta-information line.
type MetaLine struct {
	Raw   string       // the line as read, including "##"
	Key   string       // e.g. "fileformat", "INFO", "contig"
	Value string       // raw text after the first '='
	Decl  *Declaration // nil unless Value is a <...> structured list
}

// Declaration is the structured form of a meta line such as
// ##INFO=<ID=CSQ,Number=.,Type=String,Description="...">. ID is empty for
// kinds that do not require one.
type Declaration struct {
	Kind        string            // the meta line key (INFO, FORMAT, FILTER, ...)
	ID          string
	Description string            // unquoted, "" if absent
	Fields      map[string]string // all key/value pairs, values unquoted
	Order       []string          // field keys in declaration order
}

// ParseMetaLine parses a "##" line. Unstructured values (##fileformat=VCFv4.2)
// are accepted as-is; structured values must be a well-formed <k=v,...> list
// carrying an ID.
func ParseMetaLine(line string) (MetaLine, error) {
	body, ok := strings.CutPrefix(line, MetaPrefix)
	if !ok {
		return MetaLine{}, &ParseError{Message: "meta line must start with ##"}
	}

	key, value, ok := strings.Cut(body, "=")
	if !ok || key == "" {
		return MetaLine{}, &ParseError{Message: fmt.Sprintf("meta line without key=value: %q", line)}
	}

	m := MetaLine{Raw: line, Key: key, Value: value}
	if !strings.HasPrefix(value, "<") {
		return m, nil
	}

	decl, err := parseDeclaration(key, value)
	if err != nil {
		return MetaLine{}, err
	}
	m.Decl = decl
	return m, nil
}

// idRequired lists the declaration kinds that are keyed by ID. Others, such
// as PEDIGREE, may omit it.
var idRequired = map[string]bool{
	"INFO":   true,
	"FORMAT": true,
	"FILTER": true,
	"ALT":    true,
	"contig": true,
}

// parseDeclaration parses "<k=v,k="quoted, value",...>".
func parseDeclaration(kind, value string) (*Declaration, error) {
	if len(value) < 2 || value[len(value)-1] != '>' {
		return nil, &ParseError{Message: fmt.Sprintf("unterminated %s declaration", kind)}
	}
	inner := value[1 : len(value)-1]

	d := &Declaration{Kind: kind, Fields: make(map[string]string)}

	for pos := 0; pos < len(inner); {
		eq := strings.IndexByte(inner[pos:], '=')
		if eq <= 0 {
			return nil, &ParseError{Message: fmt.Sprintf("malformed field in %s declaration at offset %d", kind, pos)}
		}
		k := inner[pos : pos+eq]
		if strings.ContainsAny(k, ",\"") {
			return nil, &ParseError{Message: fmt.Sprintf("malformed field name %q in %s declaration", k, kind)}
		}
		pos += eq + 1

		var v string
		if pos < len(inner) && inner[pos] == '"' {
			var n int
			var err error
			v, n, err = readQuoted(inner[pos:])
			if err != nil {
				return nil, &ParseError{Message: fmt.Sprintf("%s declaration field %s: %v", kind, k, err)}
			}
			pos += n
			if pos < len(inner) && inner[pos] != ',' {
				return nil, &ParseError{Message: fmt.Sprintf("%s declaration field %s: text after closing quote", kind, k)}
			}
		} else {
			end, err := unquotedEnd(inner[pos:])
			if err != nil {
				return nil, &ParseError{Message: fmt.Sprintf("%s declaration field %s: %v", kind, k, err)}
			}
			v = inner[pos : pos+end]
			pos += end
		}

		if _, dup := d.Fields[k]; !dup {
			d.Order = append(d.Order, k)
		}
		d.Fields[k] = v

		// Skip the separating comma.
		if pos < len(inner) {
			pos++
		}
	}

	d.ID = d.Fields["ID"]
	if d.ID == "" && idRequired[kind] {
		return nil, &ParseError{Message: fmt.Sprintf("%s declaration without ID", kind)}
	}
	d.Description = d.Fields["Description"]
	return d, nil
}

// unquotedEnd returns the length of the unquoted value at the start of s. A
// comma inside a [...] list does not end the value.
func unquotedEnd(s string) (int, error) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			if depth == 0 {
				return 0, fmt.Errorf("unbalanced ]")
			}
			depth--
		case ',':
			if depth == 0 {
				return i, nil
			}
		}
	}
	if depth != 0 {
		return 0, fmt.Errorf("unterminated [ list")
	}
	return len(s), nil
}

// readQuoted reads a double-quoted string at the start of s, handling \" and
// \\ escapes. It returns the unquoted value and the number of bytes consumed.
func readQuoted(s string) (string, int, error) {
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			if i+1 < len(s) && (s[i+1] == '"' || s[i+1] == '\\') {
				i++
				b.WriteByte(s[i])
				continue
			}
			b.WriteByte(c)
		case '"':
			return b.String(), i + 1, nil
		default:
			b.WriteByte(c)
		}
	}
	return "", 0, fmt.Errorf("unterminated quoted value")
}
