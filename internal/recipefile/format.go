// Package recipefile reads and writes recipe documents on disk.
//
// A document is a single recipe in one of three forms: plain JSON using the
// service's field names, the same fields as YAML, or Markdown with a YAML
// frontmatter block for the scalar fields and one "## " section per long
// text field.
package recipefile

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/starford/paprika/internal/apperr"
)

// Format names a document encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// ParseFormat accepts a format name or a common alias ("yml", "md").
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("%w: %q", apperr.ErrUnsupportedFormat, name)
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".md", ".markdown":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("%w: %s", apperr.ErrUnsupportedFormat, path)
}

// Extension returns the canonical file extension for f.
func (f Format) Extension() string {
	switch f {
	case FormatYAML:
		return ".yaml"
	case FormatMarkdown:
		return ".md"
	default:
		return ".json"
	}
}
