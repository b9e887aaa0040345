// Package builders holds the method-specific strategies that turn a
// parsed httpproto.Request into an httpproto.Response, per §4.5. The
// registry is built once in server.New and shared read-only across every
// worker.
package builders

import (
	"github.com/yourusername/originserver/pkg/origin/httpproto"
)

// Builder produces a response for req, or an error that is always
// accompanied by a status code the caller should compose into an error
// response via httpproto.ComposeError — a Builder never returns a bare Go
// error with no corresponding wire response.
type Builder interface {
	Build(req *httpproto.Request) (*httpproto.Response, error)
}

// StatusError pairs a Go error with the HTTP status it should surface as,
// so Build can return (nil, err) and the connection handler still knows
// which error response to compose.
type StatusError struct {
	Status int
	Err    error
}

func (e *StatusError) Error() string {
	return e.Err.Error()
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// Registry dispatches by method enum, per §4.5/Design Notes: "no
// reflection-based dispatch."
type Registry struct {
	builders map[httpproto.Method]Builder
}

// NewRegistry returns a Registry with get and post wired to GET and POST.
func NewRegistry(get, post Builder) *Registry {
	return &Registry{
		builders: map[httpproto.Method]Builder{
			httpproto.MethodGET:  get,
			httpproto.MethodPOST: post,
		},
	}
}

// Lookup returns the Builder for method, or ok=false if method has no
// registered builder — the caller emits 501 Not Implemented in that case.
func (r *Registry) Lookup(method httpproto.Method) (Builder, bool) {
	b, ok := r.builders[method]
	return b, ok
}
