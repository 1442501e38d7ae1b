package pdf2md

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/tsawler/pdf2md/format"
	"github.com/tsawler/pdf2md/htmldoc"
	"github.com/tsawler/pdf2md/layout"
	"github.com/tsawler/pdf2md/markdown"
	"github.com/tsawler/pdf2md/metadata"
	"github.com/tsawler/pdf2md/model"
	"github.com/tsawler/pdf2md/reader"
)

// Converter provides a fluent interface for converting one PDF. Each
// configuration method returns a new Converter, so a configured
// Converter can be shared and reused.
type Converter struct {
	// Source: data, or a file read on demand when path is set.
	data []byte
	path string

	options options

	// First configuration error, reported by the terminal operation.
	err error
}

func (c *Converter) clone() *Converter {
	n := *c
	n.options = c.options.clone()
	return &n
}

// ============================================================================
// Configuration
// ============================================================================

// Workers sets how many pages are extracted concurrently. Zero means
// one worker per CPU.
func (c *Converter) Workers(n int) *Converter {
	nc := c.clone()
	if n < 0 && nc.err == nil {
		nc.err = &Error{Kind: KindInvalidInput, Op: "workers", Err: fmt.Errorf("worker count %d is negative", n)}
	}
	nc.options.workers = n
	return nc
}

// Logger sets the logger for progress and page failures. A nil logger
// discards everything.
func (c *Converter) Logger(l *slog.Logger) *Converter {
	nc := c.clone()
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	nc.options.logger = l
	return nc
}

// Layout sets the structure inference thresholds. Zero fields keep
// their defaults.
func (c *Converter) Layout(cfg layout.Config) *Converter {
	nc := c.clone()
	nc.options.layout = cfg
	return nc
}

// WithFrontMatter prefixes Markdown output with YAML front matter.
func (c *Converter) WithFrontMatter() *Converter {
	nc := c.clone()
	nc.options.frontMatter = true
	return nc
}

// Pages restricts conversion to the given 1-indexed pages. Multiple
// calls are cumulative. Metadata still reports the full page count.
func (c *Converter) Pages(pages ...int) *Converter {
	nc := c.clone()
	for _, p := range pages {
		if p < 1 && nc.err == nil {
			nc.err = &Error{Kind: KindInvalidInput, Op: "pages", Err: fmt.Errorf("page %d is not a page number", p)}
		}
	}
	nc.options.pages = append(nc.options.pages, pages...)
	return nc
}

// ============================================================================
// Terminal operations
// ============================================================================

// Blocks returns the inferred heading and paragraph structure.
func (c *Converter) Blocks(ctx context.Context) ([]model.Block, []Warning, error) {
	conv, err := c.convert(ctx)
	if err != nil {
		return nil, nil, err
	}
	return conv.blocks, conv.warnings, nil
}

// Markdown converts the document to Markdown. A document without text
// yields the empty string.
func (c *Converter) Markdown(ctx context.Context) (string, []Warning, error) {
	conv, err := c.convert(ctx)
	if err != nil {
		return "", nil, err
	}
	var fm *markdown.FrontMatter
	if c.options.frontMatter {
		f := markdown.NewFrontMatter(conv.metadata())
		fm = &f
	}
	md, err := markdown.Document(conv.blocks, fm)
	if err != nil {
		return "", conv.warnings, &Error{Kind: KindMarkdown, Op: "markdown", Err: err}
	}
	return md, conv.warnings, nil
}

// HTML converts the document to a standalone HTML page.
func (c *Converter) HTML(ctx context.Context) (string, []Warning, error) {
	conv, err := c.convert(ctx)
	if err != nil {
		return "", nil, err
	}
	out, err := htmldoc.RenderString(conv.blocks, htmldoc.HeadFromMetadata(conv.metadata()))
	if err != nil {
		return "", conv.warnings, &Error{Kind: KindMarkdown, Op: "html", Err: err}
	}
	return out, conv.warnings, nil
}

// Text returns the flattened text of the document: block texts joined by
// blank lines.
func (c *Converter) Text(ctx context.Context) (model.ExtractedContent, []Warning, error) {
	conv, err := c.convert(ctx)
	if err != nil {
		return model.ExtractedContent{}, nil, err
	}
	return model.NewExtractedContent(conv.blocks, conv.doc.PageCount()), conv.warnings, nil
}

// Metadata returns the preview summary of the document.
func (c *Converter) Metadata(ctx context.Context) (model.DocumentMetadata, []Warning, error) {
	conv, err := c.convert(ctx)
	if err != nil {
		return model.DocumentMetadata{}, nil, err
	}
	return conv.metadata(), conv.warnings, nil
}

// Render converts the document to an output format.
func (c *Converter) Render(ctx context.Context, f format.Format) (string, []Warning, error) {
	switch f {
	case format.Markdown:
		return c.Markdown(ctx)
	case format.HTML:
		return c.HTML(ctx)
	case format.Text:
		content, warnings, err := c.Text(ctx)
		if err != nil || content.Text == "" {
			return "", warnings, err
		}
		return content.Text + "\n", warnings, nil
	}
	return "", nil, &Error{Kind: KindInvalidInput, Op: "render", Err: fmt.Errorf("%s is not an output format", f)}
}

// ============================================================================
// Pipeline
// ============================================================================

// conversion is the state shared by the terminal operations.
type conversion struct {
	doc      *reader.Document
	pageRuns [][]model.TextRun // per document page; nil when not selected
	blocks   []model.Block
	warnings []Warning
}

func (cv *conversion) metadata() model.DocumentMetadata {
	return metadata.Probe(cv.doc, cv.pageRuns, cv.blocks)
}

func (c *Converter) load() ([]byte, error) {
	if c.path == "" {
		return c.data, nil
	}
	return ReadFile(c.path)
}

func (c *Converter) parse(ctx context.Context) (*reader.Document, error) {
	if c.err != nil {
		return nil, c.err
	}
	if err := ctx.Err(); err != nil {
		return nil, wrap("parse", err)
	}
	data, err := c.load()
	if err != nil {
		return nil, err
	}
	doc, err := reader.Parse(data)
	if err != nil {
		return nil, wrap("parse", err)
	}
	c.options.logger.Info("parsed document",
		"pages", doc.PageCount(),
		"objects", doc.NumObjects(),
		"version", doc.Version().String(),
		"recovered", doc.Recovered())
	return doc, nil
}

func (c *Converter) convert(ctx context.Context) (*conversion, error) {
	doc, err := c.parse(ctx)
	if err != nil {
		return nil, err
	}
	indices, err := c.resolvePages(doc.PageCount())
	if err != nil {
		return nil, err
	}

	log := c.options.logger
	pageRuns, warnings, err := extractPages(ctx, doc, indices, c.options.workers, log)
	if err != nil {
		return nil, wrap("extract", err)
	}

	var runs []model.TextRun
	for _, idx := range indices {
		runs = append(runs, pageRuns[idx]...)
	}
	blocks := layout.NewInferencerWithConfig(c.options.layout).Infer(runs)
	log.Info("inferred structure",
		"runs", len(runs),
		"blocks", len(blocks),
		"headings", len(layout.Sections(blocks)))

	return &conversion{doc: doc, pageRuns: pageRuns, blocks: blocks, warnings: warnings}, nil
}

// resolvePages returns sorted, unique 0-indexed page numbers.
func (c *Converter) resolvePages(count int) ([]int, error) {
	if c.options.pages == nil {
		indices := make([]int, count)
		for i := range indices {
			indices[i] = i
		}
		return indices, nil
	}

	seen := map[int]bool{}
	var indices []int
	for _, p := range c.options.pages {
		if p < 1 || p > count {
			return nil, &Error{Kind: KindInvalidInput, Op: "pages",
				Err: fmt.Errorf("page %d out of range (document has %d pages)", p, count)}
		}
		if !seen[p-1] {
			seen[p-1] = true
			indices = append(indices, p-1)
		}
	}
	sort.Ints(indices)
	return indices, nil
}
