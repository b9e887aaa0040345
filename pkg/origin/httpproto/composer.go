package httpproto

import (
	"fmt"
	"strconv"
	"strings"
)

// ComposeHeaders serializes the status line and headers of resp, per §4.6:
// "HTTP/1.1 <code> <reason>\r\n", then each header as "Name: Value\r\n",
// then a blank CRLF. The body follows separately; this never includes it.
func ComposeHeaders(resp *Response) []byte {
	var b strings.Builder
	b.WriteString("HTTP/1.1 ")
	b.WriteString(strconv.Itoa(resp.Status))
	b.WriteByte(' ')
	b.WriteString(ReasonPhrase(resp.Status))
	b.WriteString(crlf)

	resp.Headers.VisitInOrder(func(name, value string) {
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString(crlf)
	})
	b.WriteString(crlf)

	return []byte(b.String())
}

// ComposeError synthesizes the full response for a non-2xx status: a short
// HTML body "<code> <reason>", Content-Type text/html, Connection: close,
// and a matching Content-Length, per §7's user-visible failure contract.
// This is the single place in the server that turns a bare status code
// into a complete wire response.
func ComposeError(status int) *Response {
	resp := NewResponse()
	resp.Status = status

	body := fmt.Sprintf("%d %s", status, ReasonPhrase(status))
	resp.Body = []byte(body)

	resp.Headers.Replace("Content-Type", "text/html")
	resp.Headers.Replace("Connection", "close")
	resp.Headers.Replace("Content-Length", strconv.Itoa(len(resp.Body)))
	return resp
}
