package builders

import (
	"errors"
	"os"
	"strconv"

	"github.com/yourusername/originserver/pkg/origin/httpproto"
	"github.com/yourusername/originserver/pkg/origin/routing"
)

// errUnsupportedMediaType is the sentinel error wrapped into a 415
// StatusError when a resolved file's extension has no MIME mapping.
var errUnsupportedMediaType = errors.New("builders: unsupported media type")

// GetBuilder serves static files rooted at a routing.Resolver's document
// root, per §4.5. Files at or below routing.StaticThreshold are read fully
// into memory; larger files are marked Static so the connection handler's
// Send state streams them via sendfile instead.
type GetBuilder struct {
	resolver *routing.Resolver
}

// NewGetBuilder returns a GetBuilder bound to resolver.
func NewGetBuilder(resolver *routing.Resolver) *GetBuilder {
	return &GetBuilder{resolver: resolver}
}

func (b *GetBuilder) Build(req *httpproto.Request) (*httpproto.Response, error) {
	path, err := b.resolver.Resolve(req.Target)
	if err != nil {
		status, ok := err.(*routing.Status)
		if !ok {
			return nil, &StatusError{Status: 500, Err: err}
		}
		return nil, &StatusError{Status: status.Code, Err: status}
	}

	mimeType, ok := routing.MIMEType(path)
	if !ok {
		return nil, &StatusError{Status: 415, Err: errUnsupportedMediaType}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &StatusError{Status: 500, Err: err}
	}

	resp := httpproto.NewResponse()
	resp.Status = 200
	resp.Headers.Replace("Content-Type", mimeType)

	if info.Size() > routing.StaticThreshold {
		resp.Static = true
		resp.FilePath = path
		resp.FileSize = info.Size()
		resp.Headers.Replace("Content-Length", strconv.FormatInt(info.Size(), 10))
		return resp, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StatusError{Status: 500, Err: err}
	}
	resp.Body = data
	resp.Headers.Replace("Content-Length", strconv.Itoa(len(data)))
	return resp, nil
}
