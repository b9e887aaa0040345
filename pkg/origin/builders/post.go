package builders

import (
	"errors"
	"strconv"
	"strings"

	"github.com/yourusername/originserver/pkg/origin/httpproto"
)

var (
	errWrongTarget      = errors.New("builders: POST target is not /submit")
	errWrongContentType = errors.New("builders: unsupported Content-Type for POST")
)

// PostBuilder implements the single POST /submit form echo endpoint
// defined in §4.5/§6.
type PostBuilder struct{}

// NewPostBuilder returns a PostBuilder. It carries no state: the target
// and content-type restrictions are fixed by the wire contract, not
// configuration.
func NewPostBuilder() *PostBuilder {
	return &PostBuilder{}
}

func (b *PostBuilder) Build(req *httpproto.Request) (*httpproto.Response, error) {
	if req.Target != "/submit" {
		return nil, &StatusError{Status: 404, Err: errWrongTarget}
	}

	contentType, _ := req.Headers.Get("Content-Type")
	base, _, _ := strings.Cut(contentType, ";")
	if strings.TrimSpace(base) != "application/x-www-form-urlencoded" {
		return nil, &StatusError{Status: 415, Err: errWrongContentType}
	}

	fields := ParseForm(req.Body)

	var body strings.Builder
	for _, f := range fields {
		body.WriteString(f.Key)
		body.WriteString(": ")
		body.WriteString(f.Value)
		body.WriteString("\r\n")
	}
	body.WriteString("POST Successful!")

	resp := httpproto.NewResponse()
	resp.Status = 200
	resp.Body = []byte(body.String())
	resp.Headers.Replace("Content-Type", "text/html")
	resp.Headers.Replace("Content-Length", strconv.Itoa(len(resp.Body)))
	resp.Headers.Replace("Connection", "close")
	return resp, nil
}
