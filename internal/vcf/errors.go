package vcf

import "fmt"

// ParseError represents an error during VCF parsing with line context.
// Line is 0 when the caller did not supply a line number.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("vcf parse error: %s", e.Message)
	}
	return fmt.Sprintf("vcf parse error at line %d: %s", e.Line, e.Message)
}
