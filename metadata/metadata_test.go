package metadata

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pdf2md/internal/pdftest"
	"github.com/tsawler/pdf2md/model"
	"github.com/tsawler/pdf2md/reader"
)

func TestProbe(t *testing.T) {
	data := pdftest.New().
		Info("Title", "  Annual Report ").
		Info("Author", "Ann Author").
		Info("CreationDate", "D:20240301120000Z").
		Page(pdftest.Text(pdftest.Regular, 12, 72, 700, "hello")).
		Page("").
		Bytes()
	doc, err := reader.Parse(data)
	require.NoError(t, err)

	runs := [][]model.TextRun{{{Text: "hello", FontSize: 12}}, nil}
	blocks := []model.Block{
		model.Heading(1, "Intro"),
		model.Paragraph("hello"),
		model.Heading(2, "Results"),
	}
	meta := Probe(doc, runs, blocks)

	assert.Equal(t, 2, meta.PageCount)
	assert.Equal(t, "Annual Report", meta.Title)
	assert.Equal(t, "Ann Author", meta.Author)
	assert.True(t, meta.HasText)
	assert.Equal(t, []string{"Intro", "Results"}, meta.Sections)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), meta.Created.UTC())
}

func TestProbeWithoutText(t *testing.T) {
	doc, err := reader.Parse(pdftest.New().Page("0 0 m 10 10 l S").Bytes())
	require.NoError(t, err)

	meta := Probe(doc, [][]model.TextRun{nil}, nil)
	assert.Equal(t, 1, meta.PageCount)
	assert.False(t, meta.HasText)
	assert.Empty(t, meta.Title)
	assert.Empty(t, meta.Author)
	assert.Empty(t, meta.Sections)
}

func TestHasText(t *testing.T) {
	assert.False(t, HasText(nil))
	assert.False(t, HasText([][]model.TextRun{{{Text: "  "}}, {}}))
	assert.True(t, HasText([][]model.TextRun{nil, {{Text: "x"}}}))
}

func TestWritePreview(t *testing.T) {
	var buf bytes.Buffer
	err := WritePreview(&buf, model.DocumentMetadata{
		PageCount: 3,
		Title:     "Guide",
		Author:    "Ann",
		HasText:   true,
		Sections:  []string{"Intro", "Usage"},
	})
	require.NoError(t, err)

	want := "\n=== PDF Preview ===\n" +
		"Pages: 3\n" +
		"Title: Guide\n" +
		"Author: Ann\n" +
		"Has extractable text: Yes\n" +
		"\nDetected sections:\n" +
		"  • Intro\n" +
		"  • Usage\n" +
		"\n=== End Preview ===\n\n"
	assert.Equal(t, want, buf.String())
}

func TestWritePreviewMinimal(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePreview(&buf, model.DocumentMetadata{PageCount: 1}))

	out := buf.String()
	assert.Contains(t, out, "Pages: 1\n")
	assert.Contains(t, out, "Has extractable text: No\n")
	assert.NotContains(t, out, "Title:")
	assert.NotContains(t, out, "Author:")
	assert.NotContains(t, out, "Detected sections:")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestWritePreviewError(t *testing.T) {
	assert.Error(t, WritePreview(failingWriter{}, model.DocumentMetadata{}))
}
