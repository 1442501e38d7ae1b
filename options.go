package pdf2md

import (
	"io"
	"log/slog"

	"github.com/tsawler/pdf2md/layout"
)

// options holds the Converter configuration.
type options struct {
	// Page selection, 1-indexed; nil means all pages.
	pages []int

	workers     int // 0 means runtime.NumCPU
	logger      *slog.Logger
	layout      layout.Config
	frontMatter bool
}

func defaultOptions() options {
	return options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		layout: layout.DefaultConfig(),
	}
}

// clone copies the options, including the page selection.
func (o options) clone() options {
	n := o
	if o.pages != nil {
		n.pages = make([]int, len(o.pages))
		copy(n.pages, o.pages)
	}
	return n
}
