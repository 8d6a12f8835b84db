package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/inodb/vepvcf/internal/document"
	"github.com/inodb/vepvcf/internal/vcf"
)

func lineSource(t *testing.T, content string) vcf.LineSource {
	t.Helper()
	r, err := vcf.NewLineReaderFromReader(strings.NewReader(content))
	require.NoError(t, err)
	return r
}

func TestLoadDocument(t *testing.T) {
	doc, err := loadDocument(lineSource(t, testVCF), false, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 3, doc.RecordCount())
	assert.Len(t, doc.SchemaFields(), 10)
}

func TestLoadDocument_SkipsBlankLines(t *testing.T) {
	content := "\n" + strings.ReplaceAll(testVCF, "\n", "\n\n")
	doc, err := loadDocument(lineSource(t, content), false, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 3, doc.RecordCount())
}

func TestLoadDocument_StopsOnFirstError(t *testing.T) {
	content := "1\t100\t.\tA\tC\t.\t.\t.\n" + testVCF

	doc, err := loadDocument(lineSource(t, content), false, zap.NewNop())
	assert.Nil(t, doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, document.ErrRecordBeforeHeader)
	assert.Equal(t, "parse error at line 1: record before column header", err.Error())
}

func TestLoadDocument_KeepGoing(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	content := strings.Replace(testVCF, "#CHROM", "##broken\n#CHROM", 1) +
		"\n1\tabc\t.\tA\tC\t.\t.\t.\n"

	doc, err := loadDocument(lineSource(t, content), true, zap.New(core))
	require.NotNil(t, doc)
	require.Error(t, err)

	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	assert.ErrorIs(t, errs[0], document.ErrMalformedMetaLine)
	assert.ErrorIs(t, errs[1], document.ErrRecordParseFailed)

	var ie *ingestError
	require.ErrorAs(t, errs[0], &ie)
	assert.Equal(t, 3, ie.Line)
	require.ErrorAs(t, errs[1], &ie)
	assert.Equal(t, 9, ie.Line)

	assert.Equal(t, 3, doc.RecordCount())
	assert.Equal(t, 2, logs.FilterMessage("skipping line").Len())
}
