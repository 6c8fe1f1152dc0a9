package feed

import (
	"fmt"
	"io"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/coolbeans/villagerecords/pkg/names"
)

// SourceLinks maps meeting filenames to the URL of the original minutes
// document. Lookups ignore case and a trailing .pdf or .json extension.
type SourceLinks struct {
	links map[string]string
}

// DecodeSourceLinks reads a filename to URL mapping. YAML is a superset of
// JSON, so either encoding is accepted.
func DecodeSourceLinks(r io.Reader) (SourceLinks, error) {
	var raw map[string]string
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
		return SourceLinks{}, fmt.Errorf("failed to decode source links: %w", err)
	}
	return NewSourceLinks(raw), nil
}

// NewSourceLinks builds a lookup table from filename to URL.
func NewSourceLinks(raw map[string]string) SourceLinks {
	links := make(map[string]string, len(raw))
	for filename, url := range raw {
		url = strings.TrimSpace(url)
		if url == "" {
			continue
		}
		links[sourceKey(filename)] = url
	}
	return SourceLinks{links: links}
}

// Lookup returns the source document URL for a meeting filename.
func (s SourceLinks) Lookup(filename string) (string, bool) {
	url, ok := s.links[sourceKey(filename)]
	return url, ok
}

// Len returns the number of known links.
func (s SourceLinks) Len() int {
	return len(s.links)
}

func sourceKey(filename string) string {
	key := names.Normalize(path.Base(filename))
	for _, ext := range []string{".pdf", ".json"} {
		key = strings.TrimSuffix(key, ext)
	}
	return key
}
