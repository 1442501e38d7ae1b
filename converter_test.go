package pdf2md

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pdf2md/format"
	"github.com/tsawler/pdf2md/internal/pdftest"
	"github.com/tsawler/pdf2md/layout"
	"github.com/tsawler/pdf2md/model"
	"github.com/tsawler/pdf2md/reader"
)

func helloPDF() []byte {
	return pdftest.New().
		Info("Title", "Greeting").
		Info("Author", "Ann Author").
		Page(pdftest.Text(pdftest.Regular, 24, 72, 700, "HELLO") +
			pdftest.Text(pdftest.Regular, 12, 72, 670, "This is body text.")).
		Bytes()
}

func TestMarkdownHeadingAndParagraph(t *testing.T) {
	md, warnings, err := New(helloPDF()).Markdown(context.Background())
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "# HELLO\n\nThis is body text.\n", md)
}

func TestBlocks(t *testing.T) {
	blocks, _, err := New(helloPDF()).Blocks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Block{
		model.Heading(1, "HELLO"),
		model.Paragraph("This is body text."),
	}, blocks)
}

func TestNumberedSectionHeading(t *testing.T) {
	data := pdftest.New().
		Page(pdftest.Text(pdftest.Regular, 12, 72, 700, "2.1 Getting Started") +
			pdftest.Text(pdftest.Regular, 12, 72, 686, "Install the package and run it.")).
		Bytes()
	blocks, _, err := New(data).Blocks(context.Background())
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.True(t, blocks[0].IsHeading())
	assert.Equal(t, "2.1 Getting Started", blocks[0].Text)
}

func TestNotAPDF(t *testing.T) {
	_, _, err := New([]byte("not a pdf")).Markdown(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, reader.ErrNotAPDF)
	assert.Equal(t, KindInvalidInput, KindOf(err))
	assert.Equal(t, 1, ExitCode(err))
}

func TestNoText(t *testing.T) {
	data := pdftest.New().Page("0 0 m 100 100 l S").Page("").Bytes()
	c := New(data)
	ctx := context.Background()

	md, _, err := c.Markdown(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", md)

	content, _, err := c.Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", content.Text)
	assert.Equal(t, 2, content.PageCount)

	meta, _, err := c.Metadata(ctx)
	require.NoError(t, err)
	assert.False(t, meta.HasText)
	assert.Equal(t, 2, meta.PageCount)
}

func TestParagraphSpansPageBreak(t *testing.T) {
	data := pdftest.New().
		Page(pdftest.Text(pdftest.Regular, 12, 72, 700, "The trial ran for several weeks and the")).
		Page(pdftest.Text(pdftest.Regular, 12, 72, 750, "results were recorded daily by the team.")).
		Bytes()

	blocks, _, err := New(data).Blocks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Block{
		model.Paragraph("The trial ran for several weeks and the results were recorded daily by the team."),
	}, blocks)
}

func TestPartialPageFailure(t *testing.T) {
	data := pdftest.New().
		Page(pdftest.Text(pdftest.Regular, 12, 72, 700, "First page text.")).
		FilteredPage("JBIG2Decode", []byte("garbage")).
		Page(pdftest.Text(pdftest.Regular, 12, 72, 700, "Third page text.")).
		Bytes()

	md, warnings, err := New(data).Markdown(context.Background())
	require.NoError(t, err)
	assert.Contains(t, md, "First page text.")
	assert.Contains(t, md, "Third page text.")

	require.Len(t, warnings, 1)
	assert.Equal(t, WarningPageDecode, warnings[0].Kind)
	assert.Equal(t, 2, warnings[0].Page)
	assert.NotContains(t, warnings[0].Message, "page 2", "the page number is not repeated")

	meta, _, err := New(data).Metadata(context.Background())
	require.NoError(t, err)
	assert.True(t, meta.HasText)
}

func TestEveryPageFails(t *testing.T) {
	data := pdftest.New().
		FilteredPage("JBIG2Decode", []byte("a")).
		FilteredPage("JBIG2Decode", []byte("b")).
		Bytes()

	meta, warnings, err := New(data).Metadata(context.Background())
	require.NoError(t, err)
	assert.False(t, meta.HasText)
	assert.Len(t, warnings, 2)
}

func TestUnmappableWarning(t *testing.T) {
	data := pdftest.New().
		Page(pdftest.Text(pdftest.Regular, 12, 72, 700, "Caf\x01 au lait")).
		Bytes()
	content, warnings, err := New(data).Text(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Caf\uFFFD au lait", content.Text)
	require.Len(t, warnings, 1)
	assert.Equal(t, WarningUnmappable, warnings[0].Kind)
	assert.Equal(t, 1, warnings[0].Count)
}

func TestImageOnlyWarning(t *testing.T) {
	b := pdftest.New()
	img := b.AddStream("/Type /XObject /Subtype /Image /Width 8 /Height 8 /ColorSpace /DeviceGray /BitsPerComponent 8", make([]byte, 64))
	b.PageWithResources("q 600 0 0 800 0 0 cm /Im1 Do Q", fmt.Sprintf("<< /XObject << /Im1 %d 0 R >> >>", img))

	_, warnings, err := New(b.Bytes()).Markdown(context.Background())
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, WarningImageOnly, warnings[0].Kind)
	assert.Equal(t, 1, warnings[0].Page)
}

func manyPages(n int) []byte {
	b := pdftest.New()
	for i := 1; i <= n; i++ {
		b.Page(pdftest.Text(pdftest.Bold, 18, 72, 720, fmt.Sprintf("Part %d", i)) +
			pdftest.Text(pdftest.Regular, 12, 72, 690, fmt.Sprintf("Body text of page %d.", i)))
	}
	return b.Bytes()
}

func TestWorkerCountDoesNotChangeOutput(t *testing.T) {
	data := manyPages(9)
	ctx := context.Background()

	serial, _, err := New(data).Workers(1).Markdown(ctx)
	require.NoError(t, err)
	for _, w := range []int{0, 2, 4, 16} {
		got, _, err := New(data).Workers(w).Markdown(ctx)
		require.NoError(t, err)
		assert.Equal(t, serial, got, "workers=%d", w)
	}

	// Page order survives parallel extraction.
	first := strings.Index(serial, "Part 1\n")
	last := strings.Index(serial, "Part 9\n")
	assert.True(t, first >= 0 && last > first, serial)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	md, warnings, err := New(manyPages(3)).Markdown(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, KindPDF, KindOf(err))
	assert.Empty(t, md)
	assert.Nil(t, warnings)
}

func TestPages(t *testing.T) {
	ctx := context.Background()
	data := manyPages(3)

	content, _, err := New(data).Pages(3, 2, 3).Text(ctx)
	require.NoError(t, err)
	assert.NotContains(t, content.Text, "page 1.")
	assert.True(t, strings.Index(content.Text, "page 2.") < strings.Index(content.Text, "page 3."))
	assert.Equal(t, 3, content.PageCount)

	_, _, err = New(data).Pages(4).Text(ctx)
	assert.Equal(t, KindInvalidInput, KindOf(err))

	_, _, err = New(data).Pages(0).Text(ctx)
	assert.Equal(t, KindInvalidInput, KindOf(err))
}

func TestConfigurationIsImmutable(t *testing.T) {
	base := New(manyPages(2))
	limited := base.Pages(1)

	all, _, err := base.Text(context.Background())
	require.NoError(t, err)
	one, _, err := limited.Text(context.Background())
	require.NoError(t, err)
	assert.Contains(t, all.Text, "page 2.")
	assert.NotContains(t, one.Text, "page 2.")
}

func TestWorkersNegative(t *testing.T) {
	_, _, err := New(helloPDF()).Workers(-1).Markdown(context.Background())
	assert.Equal(t, KindInvalidInput, KindOf(err))
}

func TestFrontMatter(t *testing.T) {
	md, _, err := New(helloPDF()).WithFrontMatter().Markdown(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(md, "---\ntitle: Greeting\nauthor: Ann Author\npages: 1\nsections:\n    - HELLO\n---\n\n"), md)
	assert.True(t, strings.HasSuffix(md, "# HELLO\n\nThis is body text.\n"), md)
}

func TestHTML(t *testing.T) {
	out, _, err := New(helloPDF()).HTML(context.Background())
	require.NoError(t, err)
	assert.Contains(t, out, "<title>Greeting</title>")
	assert.Contains(t, out, "<h1>HELLO</h1>")
	assert.Contains(t, out, "<p>This is body text.</p>")
}

func TestRender(t *testing.T) {
	ctx := context.Background()
	c := New(helloPDF())

	md, _, err := c.Render(ctx, format.Markdown)
	require.NoError(t, err)
	assert.Equal(t, "# HELLO\n\nThis is body text.\n", md)

	txt, _, err := c.Render(ctx, format.Text)
	require.NoError(t, err)
	assert.Equal(t, "HELLO\n\nThis is body text.\n", txt)

	_, _, err = c.Render(ctx, format.PDF)
	assert.Equal(t, KindInvalidInput, KindOf(err))
}

func TestMetadata(t *testing.T) {
	meta, _, err := New(helloPDF()).Metadata(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, meta.PageCount)
	assert.Equal(t, "Greeting", meta.Title)
	assert.Equal(t, "Ann Author", meta.Author)
	assert.True(t, meta.HasText)
	assert.Equal(t, []string{"HELLO"}, meta.Sections)
}

func TestLayoutConfig(t *testing.T) {
	data := pdftest.New().
		Page(pdftest.Text(pdftest.Regular, 14, 72, 700, "Slightly larger") +
			pdftest.Text(pdftest.Regular, 12, 72, 680, "Body text that is long enough to dominate the median.")).
		Bytes()
	ctx := context.Background()

	blocks, _, err := New(data).Blocks(ctx)
	require.NoError(t, err)
	assert.False(t, blocks[0].IsHeading())

	blocks, _, err = New(data).Layout(layout.Config{HeadingSizeRatio: 1.1}).Blocks(ctx)
	require.NoError(t, err)
	assert.True(t, blocks[0].IsHeading())
}

func TestStructuralFailures(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"unsupported version", pdftest.New().Version("2.1").Page("").Bytes(), reader.ErrUnsupportedVersion},
		{"encrypted", pdftest.New().Encrypted().Page("").Bytes(), reader.ErrEncrypted},
		{"no objects", []byte("%PDF-1.4\n%%EOF\n"), reader.ErrCorruptStructure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := New(tt.data).Markdown(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 4, ExitCode(err))
		})
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.pdf")
	require.NoError(t, os.WriteFile(path, helloPDF(), 0o644))

	md, _, err := Open(path).Markdown(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "# HELLO\n\nThis is body text.\n", md)

	assert.Equal(t, helloPDF(), Must(ReadFile(path)))

	_, _, err = Open(filepath.Join(dir, "missing.pdf")).Markdown(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindIO, KindOf(err))
	assert.Equal(t, 2, ExitCode(err))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestMustResult(t *testing.T) {
	md := MustResult(New(helloPDF()).Markdown(context.Background()))
	assert.NotEmpty(t, md)
	assert.Panics(t, func() {
		MustResult(New([]byte("nope")).Markdown(context.Background()))
	})
	assert.Panics(t, func() { Must(ReadFile(filepath.Join(t.TempDir(), "missing.pdf"))) })
}

func TestParseLogsDocumentShape(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	_, _, err := New(helloPDF()).Logger(log).Markdown(context.Background())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `msg="parsed document"`)
	assert.Contains(t, out, "pages=1")
	assert.Regexp(t, `objects=[1-9]\d*`, out)
}
