package recipefile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gopkg.in/yaml.v3"

	"github.com/starford/paprika/internal/apperr"
	"github.com/starford/paprika/pkg/paprika"
)

// ReadFile reads, parses and validates the document at path. The format is
// taken from the file extension.
func ReadFile(path string) (*paprika.Recipe, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r, err := Parse(data, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := Validate(r); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Parse decodes a document. It does not validate the result.
func Parse(data []byte, f Format) (*paprika.Recipe, error) {
	var r paprika.Recipe
	switch f {
	case FormatJSON:
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case FormatMarkdown:
		if err := parseMarkdown(data, &r); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", apperr.ErrUnsupportedFormat, f)
	}
	return &r, nil
}

// Render encodes r as a document. Parse(Render(r)) yields r again, except
// that Markdown sections lose leading and trailing blank lines. Section
// lines that look like a section heading are written with a leading
// backslash. Carriage returns in text survive unless the whole document
// is later resaved with CRLF line endings, in which case Parse drops the
// \r before each line break.
func Render(r *paprika.Recipe, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatYAML:
		return yaml.Marshal(r)
	case FormatMarkdown:
		return renderMarkdown(r)
	}
	return nil, fmt.Errorf("%w: %q", apperr.ErrUnsupportedFormat, f)
}

// Validate checks a document before upload: the name is required, the uid
// is either empty or a UUID, and the rating is between 0 and 5.
func Validate(r *paprika.Recipe) error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.UID, is.UUID),
		validation.Field(&r.Rating, validation.Min(0), validation.Max(5)),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrInvalidRecipe, err)
	}
	return nil
}
