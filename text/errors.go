package text

import "fmt"

// PageDecodeError reports a page whose content streams could not be
// decoded. Page is zero-based.
type PageDecodeError struct {
	Page int
	Err  error
}

func (e *PageDecodeError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page+1, e.Err)
}

func (e *PageDecodeError) Unwrap() error { return e.Err }
