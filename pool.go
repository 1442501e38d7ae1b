package pdf2md

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/pdf2md/model"
	"github.com/tsawler/pdf2md/pages"
	"github.com/tsawler/pdf2md/reader"
	"github.com/tsawler/pdf2md/text"
)

// pageResult is what one worker produces for one page.
type pageResult struct {
	runs     []model.TextRun
	warnings []Warning
}

// extractPages extracts the selected pages with a bounded worker pool.
// Results are indexed by document page, so the caller sees them in page
// order whatever order the workers finish in. A cancelled context
// discards everything.
func extractPages(ctx context.Context, doc *reader.Document, indices []int, workers int, log *slog.Logger) ([][]model.TextRun, []Warning, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(indices) {
		workers = len(indices)
	}
	if workers < 1 {
		workers = 1
	}

	ex := text.NewExtractor(doc)
	all := doc.Pages()
	results := make([]pageResult, len(indices))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, idx := range indices {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = extractPage(ex, doc, all[idx], log)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	pageRuns := make([][]model.TextRun, len(all))
	var warnings []Warning
	for i, idx := range indices {
		pageRuns[idx] = results[i].runs
		warnings = append(warnings, results[i].warnings...)
	}
	log.Debug("extracted pages", "pages", len(indices), "workers", workers, "warnings", len(warnings))
	return pageRuns, warnings, nil
}

// extractPage never fails: a page that cannot be decoded yields no runs
// and a warning.
func extractPage(ex *text.Extractor, doc *reader.Document, page *pages.Page, log *slog.Logger) pageResult {
	n := page.Index + 1
	res, err := ex.ExtractPage(page)
	if err != nil {
		log.Warn("page decode failed", "page", n, "err", err)
		return pageResult{warnings: []Warning{{
			Kind:    WarningPageDecode,
			Page:    n,
			Message: fmt.Sprintf("skipped: %v", unwrapPage(err)),
		}}}
	}

	var out pageResult
	out.runs = res.Runs
	if res.Unmapped > 0 {
		log.Warn("unmappable characters", "page", n, "count", res.Unmapped)
		out.warnings = append(out.warnings, Warning{
			Kind:    WarningUnmappable,
			Page:    n,
			Count:   res.Unmapped,
			Message: fmt.Sprintf("%d characters could not be mapped to Unicode", res.Unmapped),
		})
	}
	if len(res.Runs) == 0 {
		if images := doc.PageImages(page); len(images) > 0 {
			log.Info("page has images but no text", "page", n, "images", len(images))
			out.warnings = append(out.warnings, Warning{
				Kind:    WarningImageOnly,
				Page:    n,
				Message: fmt.Sprintf("no text but %d images; scanned pages are not supported", len(images)),
			})
		}
	}
	log.Debug("extracted page", "page", n, "runs", len(res.Runs))
	return out
}

// unwrapPage strips the page prefix of a *text.PageDecodeError, which
// the warning already carries.
func unwrapPage(err error) error {
	var pde *text.PageDecodeError
	if errors.As(err, &pde) {
		return pde.Err
	}
	return err
}
