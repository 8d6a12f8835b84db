package main

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/inodb/vepvcf/internal/document"
	"github.com/inodb/vepvcf/internal/vcf"
)

// ingestError reports a failed line using its position in the input file.
type ingestError struct {
	Line int
	Err  error
}

func (e *ingestError) Error() string {
	var de *document.Error
	if errors.As(e.Err, &de) {
		if de.Err != nil {
			return fmt.Sprintf("parse error at line %d: %s: %v", e.Line, de.Kind, de.Err)
		}
		return fmt.Sprintf("parse error at line %d: %s", e.Line, de.Kind)
	}
	return fmt.Sprintf("parse error at line %d: %v", e.Line, e.Err)
}

func (e *ingestError) Unwrap() error { return e.Err }

// loadDocument feeds every non-empty line of src into a new Document.
//
// Without keepGoing the first ingestion error is returned and the document
// is discarded. With keepGoing each error is logged, ingestion continues,
// and the errors are returned combined alongside the document.
func loadDocument(src vcf.LineSource, keepGoing bool, logger *zap.Logger) (*document.Document, error) {
	doc := document.New()
	doc.SetLogger(logger)

	var errs error
	for {
		line, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if line == "" {
			continue
		}

		if err := doc.Ingest(line); err != nil {
			ie := &ingestError{Line: src.LineNumber(), Err: err}
			if !keepGoing {
				return nil, ie
			}
			logger.Warn("skipping line", zap.Int("line", ie.Line), zap.Error(err))
			errs = multierr.Append(errs, ie)
		}
	}

	logger.Debug("loaded document",
		zap.Int("lines", src.LineNumber()),
		zap.Int("records", doc.RecordCount()),
		zap.Int("csq_fields", len(doc.SchemaFields())))
	return doc, errs
}

// load opens path ("-" for stdin) and loads it. In keep-going mode
// ingestion errors are summarized in the log rather than returned.
func (a *app) load(path string) (*document.Document, error) {
	r, err := vcf.NewLineReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	doc, err := loadDocument(r, a.keepGoing, a.logger)
	if doc == nil {
		return nil, err
	}
	if err != nil {
		a.logger.Warn("ingestion finished with errors",
			zap.String("path", path),
			zap.Int("errors", len(multierr.Errors(err))))
	}
	return doc, nil
}
