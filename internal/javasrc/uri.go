package javasrc

import (
	"net/url"
	"path/filepath"
	"strings"
)

// PathToURI converts an absolute file path to a file:// URI.
func PathToURI(path string) string {
	if strings.HasPrefix(path, "file://") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

// URIToPath converts a file:// URI back to a path. Plain paths are returned
// unchanged.
func URIToPath(uri string) string {
	if !strings.HasPrefix(uri, "file://") {
		return filepath.Clean(uri)
	}
	u, err := url.Parse(uri)
	if err != nil {
		return filepath.Clean(strings.TrimPrefix(uri, "file://"))
	}
	return filepath.Clean(filepath.FromSlash(u.Path))
}
