package dataset

import "fmt"

// SourceUnavailableError indicates the backing file is missing or unreadable.
type SourceUnavailableError struct {
	Path string
	Err  error
}

func (e *SourceUnavailableError) Error() string {
	if e == nil {
		return "source unavailable"
	}
	return fmt.Sprintf("source unavailable: %s: %v", e.Path, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// MalformedSourceError indicates an unreadable header or a row whose arity
// does not match the header. Row is the 1-based sheet row (header is row 1);
// zero when the problem is not tied to a row.
type MalformedSourceError struct {
	Path   string
	Row    int
	Reason string
}

func (e *MalformedSourceError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("malformed source %s: row %d: %s", e.Path, e.Row, e.Reason)
	}
	return fmt.Sprintf("malformed source %s: %s", e.Path, e.Reason)
}
