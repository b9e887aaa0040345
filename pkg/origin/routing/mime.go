package routing

import "strings"

// StaticThreshold is the payload size (§4.5) above which the GET builder
// hands the file off to sendfile instead of reading it fully into memory.
const StaticThreshold = 128 * 1024

// mimeTypes is the authoritative extension table from §6. An extension not
// listed here is a 415, not a best-effort guess.
var mimeTypes = map[string]string{
	".html":  "text/html",
	".htm":   "text/html",
	".css":   "text/css",
	".js":    "text/javascript",
	".txt":   "text/plain",
	".json":  "application/json",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".svg":   "image/svg+xml",
	".ico":   "image/x-icon",
	".woff2": "font/woff2",
}

// MIMEType returns the Content-Type for path's last-dot extension and
// whether the extension is recognized.
func MIMEType(path string) (string, bool) {
	ext := lastDotExt(path)
	mimeType, ok := mimeTypes[ext]
	return mimeType, ok
}

// lastDotExt returns the lowercased extension starting at the last '.' in
// path, including the dot, or "" if path has none.
func lastDotExt(path string) string {
	idx := strings.LastIndexByte(path, '.')
	if idx < 0 {
		return ""
	}
	return strings.ToLower(path[idx:])
}
