package recipefile

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/starford/paprika/internal/apperr"
	"github.com/starford/paprika/pkg/paprika"
)

func sample() *paprika.Recipe {
	src := "https://www.acozykitchen.com/birria-tacos"
	return &paprika.Recipe{
		UID:             "6c4c731e-847d-4e80-a138-125a3a69c5b7",
		Name:            "Birria tacos",
		Ingredients:     "2 lb chuck roast\n4 guajillo chiles",
		Directions:      "Toast the chiles.\n\nBraise for 3 hours.",
		Description:     "Stewed beef tacos.",
		Notes:           "Keep the consommé.",
		NutritionalInfo: "Lots of protein",
		Servings:        "6",
		CookTime:        "3 hours",
		SourceURL:       &src,
		Categories:      []string{"Mexican", "Tacos"},
		Rating:          5,
		OnFavorites:     true,
	}
}

func TestRender_RoundTrip(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatYAML, FormatMarkdown} {
		t.Run(string(f), func(t *testing.T) {
			want := sample()
			data, err := Render(want, f)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			got, err := Parse(data, f)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if !reflect.DeepEqual(want, got) {
				t.Errorf("round trip mismatch\nwant %+v\ngot  %+v\ndocument:\n%s", want, got, data)
			}
		})
	}
}

func TestRender_MarkdownHeadingLinesInText(t *testing.T) {
	want := sample()
	want.Directions = "Step 1\n## Notes\nStep 2\n  ## ingredients\n\\## Directions\n\\\\## Notes\n## Serving"
	want.Notes = "real notes"

	data, err := Render(want, FormatMarkdown)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\n\\## Notes\n") {
		t.Errorf("heading line inside directions is not escaped:\n%s", data)
	}
	got, err := Parse(data, FormatMarkdown)
	if err != nil {
		t.Fatal(err)
	}
	if got.Directions != want.Directions {
		t.Errorf("directions = %q, want %q", got.Directions, want.Directions)
	}
	if got.Notes != want.Notes {
		t.Errorf("notes = %q, want %q", got.Notes, want.Notes)
	}
}

func TestRender_MarkdownKeepsCarriageReturns(t *testing.T) {
	want := sample()
	want.Ingredients = "flour\r\neggs\r\nmilk"

	data, err := Render(want, FormatMarkdown)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Parse(data, FormatMarkdown)
	if err != nil {
		t.Fatal(err)
	}
	if got.Ingredients != want.Ingredients {
		t.Errorf("ingredients = %q, want %q", got.Ingredients, want.Ingredients)
	}
}

func TestParseMarkdown_CRLFDocument(t *testing.T) {
	doc := "---\r\nuid: abc\r\n---\r\n\r\n# Soup\r\n\r\n## Ingredients\r\n\r\nwater\r\nsalt\r\n"
	got, err := Parse([]byte(doc), FormatMarkdown)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Soup" {
		t.Errorf("name = %q, want Soup", got.Name)
	}
	if got.Ingredients != "water\nsalt" {
		t.Errorf("ingredients = %q, want %q", got.Ingredients, "water\nsalt")
	}
}

func TestRender_MarkdownLayout(t *testing.T) {
	data, err := Render(sample(), FormatMarkdown)
	if err != nil {
		t.Fatal(err)
	}
	doc := string(data)
	if !strings.HasPrefix(doc, "---\n") {
		t.Errorf("document does not start with frontmatter:\n%s", doc)
	}
	for _, want := range []string{"# Birria tacos\n", "## Ingredients\n\n2 lb chuck roast\n", "## Nutrition\n"} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q:\n%s", want, doc)
		}
	}
	if strings.Contains(doc, "ingredients:") {
		t.Errorf("section fields leaked into frontmatter:\n%s", doc)
	}
	if strings.Contains(doc, "## Description\n\n\n") {
		t.Errorf("unexpected blank lines:\n%s", doc)
	}
}

func TestParseMarkdown_TitleFromHeading(t *testing.T) {
	input := []byte("# Pancakes\n\n## Ingredients\n\nflour\neggs\n\n## directions\n\nMix.\n")
	r, err := Parse(input, FormatMarkdown)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Name != "Pancakes" {
		t.Errorf("name = %q, want %q", r.Name, "Pancakes")
	}
	if r.Ingredients != "flour\neggs" {
		t.Errorf("ingredients = %q", r.Ingredients)
	}
	if r.Directions != "Mix." {
		t.Errorf("directions = %q", r.Directions)
	}
}

func TestParseMarkdown_FrontmatterNameWins(t *testing.T) {
	input := []byte("---\nname: Real name\nrating: 3\n---\n# Heading\n\n## Notes\n\n### Tip\nUse a cast iron pan.\n")
	r, err := Parse(input, FormatMarkdown)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Name != "Real name" || r.Rating != 3 {
		t.Errorf("got name %q rating %d", r.Name, r.Rating)
	}
	if r.Notes != "### Tip\nUse a cast iron pan." {
		t.Errorf("notes = %q", r.Notes)
	}
}

func TestParseMarkdown_UnclosedFrontmatter(t *testing.T) {
	if _, err := Parse([]byte("---\nname: x\n# Body\n"), FormatMarkdown); err == nil {
		t.Fatal("expected an error for unclosed frontmatter")
	}
}

func TestParseMarkdown_InvalidFrontmatter(t *testing.T) {
	if _, err := Parse([]byte("---\n: invalid: yaml: {{{\n---\nBody\n"), FormatMarkdown); err == nil {
		t.Fatal("expected an error for invalid frontmatter")
	}
}

func TestParse_InvalidJSON(t *testing.T) {
	if _, err := Parse([]byte("{"), FormatJSON); err == nil {
		t.Fatal("expected an error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*paprika.Recipe)
		wantErr bool
	}{
		{"valid", func(*paprika.Recipe) {}, false},
		{"no uid yet", func(r *paprika.Recipe) { r.UID = "" }, false},
		{"missing name", func(r *paprika.Recipe) { r.Name = "" }, true},
		{"uid not a uuid", func(r *paprika.Recipe) { r.UID = "12345" }, true},
		{"rating too high", func(r *paprika.Recipe) { r.Rating = 6 }, true},
		{"negative rating", func(r *paprika.Recipe) { r.Rating = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := sample()
			tt.mutate(r)
			err := Validate(r)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, apperr.ErrInvalidRecipe) {
				t.Errorf("error %v does not match ErrInvalidRecipe", err)
			}
		})
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "pancakes.yml")
	if err := os.WriteFile(path, []byte("name: Pancakes\ncategories: [Breakfast]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if r.Name != "Pancakes" || len(r.Categories) != 1 {
		t.Errorf("got %+v", r)
	}

	invalid := filepath.Join(dir, "nameless.json")
	if err := os.WriteFile(invalid, []byte(`{"rating": 2}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(invalid); !errors.Is(err, apperr.ErrInvalidRecipe) {
		t.Errorf("err = %v, want ErrInvalidRecipe", err)
	}

	if _, err := ReadFile(filepath.Join(dir, "notes.txt")); !errors.Is(err, apperr.ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"json": FormatJSON, "YML": FormatYAML, "md": FormatMarkdown, "markdown": FormatMarkdown}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("toml"); !errors.Is(err, apperr.ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
	if FormatMarkdown.Extension() != ".md" || FormatYAML.Extension() != ".yaml" {
		t.Error("unexpected extensions")
	}
}
