package routing

import (
	"os"
	"path/filepath"
	"strings"
)

// Resolver maps a raw request URI to a canonical path inside a document
// root. Constructed once at startup and shared read-only across every
// worker's connection handler, matching §5's "effectively immutable after
// setup" rule for the builders/composer/resolver trio.
type Resolver struct {
	root      string
	indexFile string
}

// NewResolver canonicalizes root once and returns a Resolver bound to it.
// root must already exist and be a directory; that precondition is
// enforced by internal/config.Validate before the server is ever
// constructed.
func NewResolver(root, indexFile string) (*Resolver, error) {
	canonical, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(canonical)
	if err != nil {
		return nil, err
	}
	return &Resolver{root: abs, indexFile: indexFile}, nil
}

// Root returns the canonicalized document root.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve implements the five-step algorithm in §4.3. It never
// percent-decodes uri; it operates on raw bytes so that an encoded
// traversal attempt (e.g. "%2e%2e") is rejected by the prefix check in
// step 4 rather than by textual rewriting.
func (r *Resolver) Resolve(uri string) (string, error) {
	var target string
	if uri == "" || uri == "/" {
		target = filepath.Join(r.root, r.indexFile)
	} else {
		target = filepath.Join(r.root, strings.TrimPrefix(uri, "/"))
	}

	canonicalTarget, err := filepath.EvalSymlinks(target)
	if err != nil {
		return "", NewStatus(404)
	}

	if !hasPrefixAtBoundary(canonicalTarget, r.root) {
		return "", NewStatus(403)
	}

	info, err := os.Stat(canonicalTarget)
	if err != nil {
		return "", NewStatus(404)
	}
	if !info.Mode().IsRegular() {
		return "", NewStatus(403)
	}

	return canonicalTarget, nil
}

// hasPrefixAtBoundary reports whether target is root itself or lies inside
// root at a path-separator boundary, so that "/docroot-evil" is not
// mistaken for a child of "/docroot".
func hasPrefixAtBoundary(target, root string) bool {
	if target == root {
		return true
	}
	return strings.HasPrefix(target, root+string(filepath.Separator))
}
