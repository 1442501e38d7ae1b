package reader

import (
	"errors"
	"fmt"
)

// Sentinel errors for the fatal structural failures. A *ParseError
// unwraps to exactly one of them.
var (
	ErrNotAPDF            = errors.New("not a PDF file")
	ErrCorruptStructure   = errors.New("corrupt PDF structure")
	ErrUnsupportedVersion = errors.New("unsupported PDF version")
	ErrEncrypted          = errors.New("encrypted PDF files are not supported")
)

// ParseError is returned by Parse. Detail is a human readable reason and
// never contains byte offsets.
type ParseError struct {
	Kind   error
	Detail string
}

func (e *ParseError) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Detail)
}

// Unwrap exposes the sentinel so errors.Is(err, ErrNotAPDF) works.
func (e *ParseError) Unwrap() error { return e.Kind }

func parseError(kind error, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
