// Package routing resolves request targets against the document root and
// classifies file extensions into MIME types. Both are pure functions over
// the configured document root; neither holds per-request mutable state.
package routing

import "strconv"

// Status carries an intended HTTP status code for a routing decision that
// didn't resolve to a file, rather than panicking or returning a bare Go
// error the caller would have to translate back into a status itself.
type Status struct {
	Code int
}

func (s *Status) Error() string {
	return "routing: status " + strconv.Itoa(s.Code)
}

// NewStatus returns a *Status error carrying code.
func NewStatus(code int) *Status {
	return &Status{Code: code}
}
