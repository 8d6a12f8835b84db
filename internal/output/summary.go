package output

import (
	"bufio"
	"fmt"
	"io"
)

// SummaryWriter writes one "index summary" line per record.
type SummaryWriter struct {
	w *bufio.Writer
}

// NewSummaryWriter creates a new summary writer.
func NewSummaryWriter(w io.Writer) *SummaryWriter {
	return &SummaryWriter{w: bufio.NewWriter(w)}
}

// Write writes the summary of record index.
func (s *SummaryWriter) Write(index int, summary string) error {
	_, err := fmt.Fprintf(s.w, "%d %s\n", index, summary)
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (s *SummaryWriter) Flush() error {
	return s.w.Flush()
}
