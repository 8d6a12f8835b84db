package vcf

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// LineSource yields the lines of a VCF document in file order.
type LineSource interface {
	// Next returns the next line without its terminator.
	// Returns io.EOF when there are no more lines.
	Next() (string, error)

	// Close closes the source and releases resources.
	Close() error

	// LineNumber returns the 1-based number of the last line returned.
	LineNumber() int
}

// LineReader reads lines from a plain or gzipped VCF file.
type LineReader struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
}

var _ LineSource = (*LineReader)(nil)

// NewLineReader opens path for line-by-line reading. "-" reads stdin.
// Gzipped input (.vcf.gz) is detected from its magic bytes.
func NewLineReader(path string) (*LineReader, error) {
	if path == "-" {
		return NewLineReaderFromReader(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vcf file: %w", err)
	}

	r := &LineReader{file: file}

	// Check for gzip magic bytes
	buf := make([]byte, 2)
	n, err := io.ReadFull(file, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		file.Close()
		return nil, fmt.Errorf("read vcf file: %w", err)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek vcf file: %w", err)
	}

	// Check for gzip magic number (0x1f, 0x8b)
	if n == 2 && buf[0] == 0x1f && buf[1] == 0x8b {
		r.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		r.reader = bufio.NewReader(r.gzipReader)
	} else {
		r.reader = bufio.NewReader(file)
	}

	return r, nil
}

// NewLineReaderFromReader creates a line reader from an io.Reader (e.g., stdin).
func NewLineReaderFromReader(rd io.Reader) (*LineReader, error) {
	return &LineReader{reader: bufio.NewReader(rd)}, nil
}

// Next returns the next line with "\r\n" or "\n" stripped.
// A final line without a terminator is returned before io.EOF.
func (r *LineReader) Next() (string, error) {
	line, err := r.reader.ReadString('\n')
	if err != nil {
		if err != io.EOF {
			return "", fmt.Errorf("read line %d: %w", r.lineNumber+1, err)
		}
		if line == "" {
			return "", io.EOF
		}
	}
	r.lineNumber++
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// LineNumber returns the current line number being processed.
func (r *LineReader) LineNumber() int {
	return r.lineNumber
}

// Close closes the reader and underlying file.
func (r *LineReader) Close() error {
	if r.gzipReader != nil {
		r.gzipReader.Close()
	}
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}
