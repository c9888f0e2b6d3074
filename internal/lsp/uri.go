package lsp

import (
	"net/url"
	"path/filepath"
)

// uriToPath converts a file: URI into an absolute filesystem path. The bool
// reports whether the URI named a file at all; clients also open untitled:
// and other non-file schemes, which stay keyed by their raw URI.
func uriToPath(uri string) (string, bool) {
	if uri == "" {
		return "", false
	}
	parsed, err := url.Parse(uri)
	if err != nil {
		return "", false
	}
	path := parsed.Path
	switch parsed.Scheme {
	case "file":
	case "":
		// Some clients send bare paths where the protocol says URI.
		path = uri
	default:
		return "", false
	}
	if unescaped, err := url.PathUnescape(path); err == nil {
		path = unescaped
	}
	if path == "" {
		return "", false
	}
	path = filepath.FromSlash(path)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path, true
}

// documentName is the FileSet name for an open document: the filesystem
// path when the URI resolves to one, the raw URI otherwise. Diagnostics and
// timing lines show this name.
func documentName(uri string) string {
	if path, ok := uriToPath(uri); ok {
		return path
	}
	return uri
}

// pathToURI builds the file: URI for a filesystem path.
func pathToURI(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}
