package httpproto

// Request is a parsed HTTP/1.1 request. Target is kept as the raw URI
// bytes received on the wire; the resolver (pkg/origin/routing) is
// responsible for turning it into a filesystem path, not this package.
type Request struct {
	Method  Method
	Target  string
	Version string
	Headers *Header
	Body    []byte
}

// ContentLength returns the parsed Content-Length header value and whether
// it was present. A missing header is distinct from a zero-length body. A
// present but unparseable value is reported via err rather than being
// folded into "absent" — callers must treat that as a parse failure, not a
// bodyless request.
func (r *Request) ContentLength() (n int, present bool, err error) {
	v, ok := r.Headers.Get("Content-Length")
	if !ok {
		return 0, false, nil
	}
	n, err = parseNonNegativeInt(v)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

// KeepAlive reports whether the connection should remain open after this
// request per the default-keep-alive / explicit-close rule in §6.
func (r *Request) KeepAlive() bool {
	v, ok := r.Headers.Get("Connection")
	if !ok {
		return true
	}
	return canonicalName(v) != "close"
}

// maxContentLength caps the accepted Content-Length value well below
// where repeated multiply-by-ten would overflow int, so a long digit
// string is rejected as malformed instead of wrapping negative.
const maxContentLength = 1 << 40

func parseNonNegativeInt(s string) (int, error) {
	if s == "" {
		return 0, ErrMalformedContentLength
	}
	n := 0
	for _, c := range []byte(s) {
		if c < '0' || c > '9' {
			return 0, ErrMalformedContentLength
		}
		n = n*10 + int(c-'0')
		if n > maxContentLength {
			return 0, ErrMalformedContentLength
		}
	}
	return n, nil
}
