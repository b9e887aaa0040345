package httpproto

import "bytes"

const crlf = "\r\n"
const headerEnd = "\r\n\r\n"

// ParseRequest parses a request out of buf, which holds everything the
// connection handler has read from the socket so far. It returns the
// parsed request and the number of bytes of buf it consumed, or
// ErrIncompleteRequest if buf doesn't yet hold a full request — the
// caller's cue to keep reading rather than treat this as a failure.
//
// Grammar: request-line = METHOD SP TARGET SP VERSION CRLF, per §4.4.
func ParseRequest(buf []byte) (*Request, int, error) {
	idx := bytes.Index(buf, []byte(headerEnd))
	if idx < 0 {
		return nil, 0, ErrIncompleteRequest
	}
	// Keep the last line's CRLF so every line in the block is terminated.
	headerBlock := buf[:idx+len(crlf)]
	bodyStart := idx + len(headerEnd)

	lineEnd := bytes.Index(headerBlock, []byte(crlf))
	if lineEnd < 0 {
		return nil, 0, ErrMalformedRequestLine
	}

	req := &Request{Headers: NewHeader()}
	if err := parseRequestLine(req, headerBlock[:lineEnd]); err != nil {
		return nil, 0, err
	}

	if err := parseHeaderLines(req, headerBlock[lineEnd+len(crlf):]); err != nil {
		return nil, 0, err
	}

	if _, ok := req.Headers.Get("Transfer-Encoding"); ok {
		return nil, 0, ErrTransferEncodingUnsupported
	}

	n, hasLength, err := req.ContentLength()
	if err != nil {
		return nil, 0, err
	}
	if !hasLength {
		return req, bodyStart, nil
	}

	if len(buf)-bodyStart < n {
		return nil, 0, ErrIncompleteRequest
	}

	req.Body = append([]byte(nil), buf[bodyStart:bodyStart+n]...)
	return req, bodyStart + n, nil
}

// parseRequestLine splits "METHOD SP TARGET SP VERSION" into req's fields.
func parseRequestLine(req *Request, line []byte) error {
	firstSpace := bytes.IndexByte(line, ' ')
	if firstSpace < 0 {
		return ErrMalformedRequestLine
	}
	rest := line[firstSpace+1:]
	secondSpace := bytes.IndexByte(rest, ' ')
	if secondSpace < 0 {
		return ErrMalformedRequestLine
	}

	methodTok := line[:firstSpace]
	target := rest[:secondSpace]
	version := rest[secondSpace+1:]

	if len(target) == 0 || len(version) == 0 {
		return ErrMalformedRequestLine
	}
	if string(version) != "HTTP/1.1" {
		return ErrUnsupportedVersion
	}

	req.Method = ParseMethod(methodTok)
	req.Target = string(target)
	req.Version = string(version)
	return nil
}

// parseHeaderLines parses zero or more "Name: Value\r\n" lines.
func parseHeaderLines(req *Request, block []byte) error {
	for len(block) > 0 {
		idx := bytes.Index(block, []byte(crlf))
		if idx < 0 {
			return ErrMalformedHeader
		}
		line := block[:idx]
		block = block[idx+len(crlf):]

		if len(line) == 0 {
			continue
		}

		colon := bytes.IndexByte(line, ':')
		if colon < 0 {
			return ErrMalformedHeader
		}
		name := line[:colon]
		value := bytes.TrimLeft(line[colon+1:], " \t")
		req.Headers.Set(string(name), string(value))
	}
	return nil
}
