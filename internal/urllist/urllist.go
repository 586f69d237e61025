// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package urllist reads and classifies the document locations to check.
package urllist

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Kind classifies a location.
type Kind int

const (
	KindUnknown Kind = iota
	KindHTTP
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindHTTP:
		return "http"
	case KindFile:
		return "file"
	default:
		return "unknown"
	}
}

// Read loads the location list at path.
func Read(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening url list: %w", err)
	}
	defer f.Close()

	locs, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("reading url list %s: %w", path, err)
	}
	return locs, nil
}

// Parse returns one location per non-blank line, trimmed, in input order.
// Lines starting with '#' are comments.
func Parse(r io.Reader) ([]string, error) {
	var locs []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		locs = append(locs, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return locs, nil
}

// Classify determines how a location is fetched and returns its normalized
// form: the URL for KindHTTP, a filesystem path for KindFile.
func Classify(location string) (Kind, string) {
	location = strings.TrimSpace(location)
	if location == "" {
		return KindUnknown, location
	}

	u, err := url.Parse(location)
	if err != nil {
		return KindFile, filepath.Clean(location)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if u.Host == "" {
			return KindUnknown, location
		}
		return KindHTTP, location
	case "file":
		p := u.Path
		if p == "" {
			p = u.Opaque
		}
		if p == "" {
			return KindUnknown, location
		}
		return KindFile, filepath.FromSlash(p)
	case "":
		return KindFile, filepath.Clean(location)
	default:
		// Windows drive letters parse as a one-letter scheme.
		if len(u.Scheme) == 1 {
			return KindFile, filepath.Clean(location)
		}
		return KindUnknown, location
	}
}
