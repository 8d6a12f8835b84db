package document

import (
	"errors"
	"fmt"
)

// ErrorKind classifies Document failures.
type ErrorKind int

const (
	KindMalformedMetaLine ErrorKind = iota + 1
	KindSchemaUnavailable
	KindRecordBeforeHeader
	KindRecordParseFailed
	KindNoAnnotationPresent
	KindIndexOutOfRange
)

// Sentinels for errors.Is, one per ErrorKind.
var (
	ErrMalformedMetaLine   = errors.New("malformed meta line")
	ErrSchemaUnavailable   = errors.New("CSQ schema unavailable")
	ErrRecordBeforeHeader  = errors.New("record before column header")
	ErrRecordParseFailed   = errors.New("record parse failed")
	ErrNoAnnotationPresent = errors.New("no CSQ annotation present")
	ErrIndexOutOfRange     = errors.New("record index out of range")
)

func (k ErrorKind) String() string {
	if s := k.sentinel(); s != nil {
		return s.Error()
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindMalformedMetaLine:
		return ErrMalformedMetaLine
	case KindSchemaUnavailable:
		return ErrSchemaUnavailable
	case KindRecordBeforeHeader:
		return ErrRecordBeforeHeader
	case KindRecordParseFailed:
		return ErrRecordParseFailed
	case KindNoAnnotationPresent:
		return ErrNoAnnotationPresent
	case KindIndexOutOfRange:
		return ErrIndexOutOfRange
	default:
		return nil
	}
}

// Error is returned by Document operations.
type Error struct {
	Kind ErrorKind
	// Line is the 1-based ordinal of the ingested line; 0 for queries.
	Line int
	// Index is the record index for query errors.
	Index int
	// InputSeen is set on KindRecordBeforeHeader when earlier lines had
	// been ingested.
	InputSeen bool
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	var msg string
	switch {
	case e.Line > 0:
		msg = fmt.Sprintf("line %d: %s", e.Line, e.Kind)
	case e.Kind == KindIndexOutOfRange || e.Kind == KindNoAnnotationPresent:
		msg = fmt.Sprintf("record %d: %s", e.Index, e.Kind)
	default:
		msg = e.Kind.String()
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}
