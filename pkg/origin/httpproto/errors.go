package httpproto

import "errors"

var (
	// ErrIncompleteRequest is returned when the buffer does not yet contain
	// a full request (header block, or body once Content-Length is known).
	// The connection handler treats this as a signal to keep reading, not
	// a parse failure.
	ErrIncompleteRequest = errors.New("httpproto: incomplete request")

	// ErrMalformedRequestLine indicates the request line is missing a
	// space-separated METHOD/TARGET/VERSION triple or its terminating CRLF.
	ErrMalformedRequestLine = errors.New("httpproto: malformed request line")

	// ErrUnsupportedVersion indicates a version other than HTTP/1.1.
	ErrUnsupportedVersion = errors.New("httpproto: unsupported HTTP version")

	// ErrMalformedHeader indicates a header line missing its colon or
	// terminating CRLF.
	ErrMalformedHeader = errors.New("httpproto: malformed header")

	// ErrMalformedContentLength indicates a Content-Length value that does
	// not parse as a non-negative integer.
	ErrMalformedContentLength = errors.New("httpproto: malformed Content-Length")

	// ErrTransferEncodingUnsupported indicates a Transfer-Encoding header
	// was present; chunked transfer is out of scope per §1, so its mere
	// presence is treated as a malformed request rather than parsed.
	ErrTransferEncodingUnsupported = errors.New("httpproto: Transfer-Encoding not supported")
)
