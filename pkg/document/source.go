package document

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Source is an input HTML file resolved to something a browser can load
type Source struct {
	Path string // Absolute, cleaned path
	URL  string // file:// URI for Path
}

// ExpandUser replaces a leading "~" or "~/" with the current user's home directory.
// "~otheruser" forms are left untouched.
func ExpandUser(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to expand %s: %w", path, err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}

// Resolve expands and absolutizes path and checks it names an existing regular file
func Resolve(path string) (Source, error) {
	expanded, err := ExpandUser(path)
	if err != nil {
		return Source{}, err
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return Source{}, fmt.Errorf("failed to resolve input path %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return Source{}, fmt.Errorf("failed to stat input file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return Source{}, fmt.Errorf("input path %s is not a regular file", abs)
	}

	return Source{Path: abs, URL: FileURI(abs)}, nil
}

// FileURI converts an absolute filesystem path into a file:// URI
func FileURI(abs string) string {
	p := filepath.ToSlash(abs)
	// Windows drive paths need a leading slash: file:///C:/x
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String()
}
