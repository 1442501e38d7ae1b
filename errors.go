package pdf2md

import (
	"context"
	"errors"
	"io/fs"

	"github.com/tsawler/pdf2md/reader"
)

// Kind classifies a fatal error. Its value is the process exit code.
type Kind int

const (
	KindInvalidInput Kind = iota + 1
	KindIO
	KindMarkdown
	KindPDF
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input"
	case KindIO:
		return "I/O"
	case KindMarkdown:
		return "markdown"
	case KindPDF:
		return "PDF processing"
	}
	return "unknown"
}

// Error is a fatal conversion error.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// ExitCode returns the process exit code for err: 0 for nil, the Kind of
// an *Error, and otherwise the kind inferred from the wrapped cause.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return int(KindOf(err))
}

// KindOf classifies err. Errors nobody classified count as PDF
// processing failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) && e.Kind != 0 {
		return e.Kind
	}
	return classify(err)
}

func classify(err error) Kind {
	var pathErr *fs.PathError
	switch {
	case errors.Is(err, reader.ErrNotAPDF):
		return KindInvalidInput
	case errors.Is(err, reader.ErrCorruptStructure),
		errors.Is(err, reader.ErrUnsupportedVersion),
		errors.Is(err, reader.ErrEncrypted),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return KindPDF
	case errors.As(err, &pathErr):
		return KindIO
	}
	return KindPDF
}

// wrap attaches op and a Kind to err unless it already is an *Error.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: classify(err), Op: op, Err: err}
}
