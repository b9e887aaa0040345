package httpproto

import "testing"

func TestParseRequestSimpleGET(t *testing.T) {
	input := "GET / HTTP/1.1\r\n\r\n"
	req, n, err := ParseRequest([]byte(input))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}
	if req.Method != MethodGET {
		t.Errorf("Method = %v, want GET", req.Method)
	}
	if req.Target != "/" {
		t.Errorf("Target = %q, want %q", req.Target, "/")
	}
	if req.Version != "HTTP/1.1" {
		t.Errorf("Version = %q, want HTTP/1.1", req.Version)
	}
	if n != len(input) {
		t.Errorf("consumed = %d, want %d", n, len(input))
	}
}

func TestParseRequestUnknownMethod(t *testing.T) {
	req, _, err := ParseRequest([]byte("PATCH / HTTP/1.1\r\n\r\n"))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}
	if req.Method != MethodInvalid {
		t.Errorf("Method = %v, want MethodInvalid for unknown method", req.Method)
	}
}

func TestParseRequestHeaders(t *testing.T) {
	input := "GET /index.html HTTP/1.1\r\nHost: example.com\r\nX-Custom:  value\r\n\r\n"
	req, _, err := ParseRequest([]byte(input))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}
	if v, ok := req.Headers.Get("host"); !ok || v != "example.com" {
		t.Errorf("Host = %q, %v, want example.com, true", v, ok)
	}
	if v, ok := req.Headers.Get("X-Custom"); !ok || v != "value" {
		t.Errorf("X-Custom = %q, %v, want value, true (leading whitespace stripped)", v, ok)
	}
}

func TestParseRequestDuplicateHeaderFirstWins(t *testing.T) {
	input := "GET / HTTP/1.1\r\nX-Dup: first\r\nX-Dup: second\r\n\r\n"
	req, _, err := ParseRequest([]byte(input))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}
	if v, _ := req.Headers.Get("X-Dup"); v != "first" {
		t.Errorf("X-Dup = %q, want %q (first occurrence wins)", v, "first")
	}
}

func TestParseRequestIncompleteHeaders(t *testing.T) {
	_, _, err := ParseRequest([]byte("GET / HTTP/1.1\r\nHost: example.com\r\n"))
	if err != ErrIncompleteRequest {
		t.Errorf("err = %v, want ErrIncompleteRequest", err)
	}
}

func TestParseRequestBodyWithContentLength(t *testing.T) {
	input := "POST /submit HTTP/1.1\r\nContent-Length: 5\r\n\r\nhello"
	req, n, err := ParseRequest([]byte(input))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}
	if string(req.Body) != "hello" {
		t.Errorf("Body = %q, want %q", req.Body, "hello")
	}
	if n != len(input) {
		t.Errorf("consumed = %d, want %d", n, len(input))
	}
}

func TestParseRequestIncompleteBody(t *testing.T) {
	input := "POST /submit HTTP/1.1\r\nContent-Length: 10\r\n\r\nhello"
	_, _, err := ParseRequest([]byte(input))
	if err != ErrIncompleteRequest {
		t.Errorf("err = %v, want ErrIncompleteRequest for short body", err)
	}
}

func TestParseRequestMalformedRequestLine(t *testing.T) {
	_, _, err := ParseRequest([]byte("GET /\r\n\r\n"))
	if err != ErrMalformedRequestLine {
		t.Errorf("err = %v, want ErrMalformedRequestLine", err)
	}
}

func TestParseRequestUnsupportedVersion(t *testing.T) {
	_, _, err := ParseRequest([]byte("GET / HTTP/1.0\r\n\r\n"))
	if err != ErrUnsupportedVersion {
		t.Errorf("err = %v, want ErrUnsupportedVersion", err)
	}
}

func TestParseRequestMalformedContentLength(t *testing.T) {
	input := "POST /submit HTTP/1.1\r\nContent-Length: abc\r\n\r\n"
	_, _, err := ParseRequest([]byte(input))
	if err != ErrMalformedContentLength {
		t.Errorf("err = %v, want ErrMalformedContentLength", err)
	}
}

func TestParseRequestContentLengthOverflow(t *testing.T) {
	input := "POST /submit HTTP/1.1\r\nContent-Length: 99999999999999999999\r\n\r\n"
	_, _, err := ParseRequest([]byte(input))
	if err != ErrMalformedContentLength {
		t.Errorf("err = %v, want ErrMalformedContentLength for an overflowing value", err)
	}
}

func TestParseRequestTransferEncodingRejected(t *testing.T) {
	input := "POST /submit HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n"
	_, _, err := ParseRequest([]byte(input))
	if err != ErrTransferEncodingUnsupported {
		t.Errorf("err = %v, want ErrTransferEncodingUnsupported", err)
	}
}

func TestParseRequestKeepAliveDefault(t *testing.T) {
	req, _, err := ParseRequest([]byte("GET / HTTP/1.1\r\n\r\n"))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}
	if !req.KeepAlive() {
		t.Error("KeepAlive() = false, want true by default")
	}
}

func TestParseRequestConnectionClose(t *testing.T) {
	req, _, err := ParseRequest([]byte("GET / HTTP/1.1\r\nConnection: close\r\n\r\n"))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}
	if req.KeepAlive() {
		t.Error("KeepAlive() = true, want false when Connection: close is set")
	}
}
