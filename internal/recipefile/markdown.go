package recipefile

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/paprika/pkg/paprika"
)

const delim = "---"

// section maps a "## " heading to the recipe field it carries.
type section struct {
	title string
	field func(*paprika.Recipe) *string
}

var sections = []section{
	{"Description", func(r *paprika.Recipe) *string { return &r.Description }},
	{"Ingredients", func(r *paprika.Recipe) *string { return &r.Ingredients }},
	{"Directions", func(r *paprika.Recipe) *string { return &r.Directions }},
	{"Notes", func(r *paprika.Recipe) *string { return &r.Notes }},
	{"Nutrition", func(r *paprika.Recipe) *string { return &r.NutritionalInfo }},
}

func lookupSection(line string) (section, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "## ") {
		return section{}, false
	}
	title := strings.TrimSpace(trimmed[3:])
	for _, s := range sections {
		if strings.EqualFold(s.title, title) {
			return s, true
		}
	}
	return section{}, false
}

// escapeLine prefixes a backslash to text lines that would otherwise read
// as a section heading, including lines already escaped that way.
// unescapeLine removes exactly one.
func escapeLine(line string) string {
	if _, ok := lookupSection(strings.TrimLeft(line, `\`)); ok {
		return `\` + line
	}
	return line
}

func unescapeLine(line string) string {
	if !strings.HasPrefix(line, `\`) {
		return line
	}
	if _, ok := lookupSection(strings.TrimLeft(line, `\`)); ok {
		return line[1:]
	}
	return line
}

// usesCRLF reports whether the document was saved with CRLF line endings,
// judged by its first line break.
func usesCRLF(data []byte) bool {
	i := bytes.IndexByte(data, '\n')
	return i > 0 && data[i-1] == '\r'
}

func parseMarkdown(data []byte, r *paprika.Recipe) error {
	crlf := usesCRLF(data)
	fm, body, err := splitFrontmatter(data)
	if err != nil {
		return err
	}
	if len(fm) > 0 {
		if err := yaml.Unmarshal(fm, r); err != nil {
			return fmt.Errorf("parse frontmatter: %w", err)
		}
	}

	var (
		current *section
		buf     []string
	)
	flush := func() {
		if current != nil {
			*current.field(r) = strings.Trim(strings.Join(buf, "\n"), "\n")
		}
		buf = buf[:0]
	}
	for _, line := range strings.Split(body, "\n") {
		if s, ok := lookupSection(line); ok {
			flush()
			current = &s
			continue
		}
		if current == nil {
			// Preamble: only the H1 title matters.
			trimmed := strings.TrimSpace(line)
			if r.Name == "" && strings.HasPrefix(trimmed, "# ") {
				r.Name = strings.TrimSpace(trimmed[2:])
			}
			continue
		}
		if crlf {
			line = strings.TrimSuffix(line, "\r")
		}
		buf = append(buf, unescapeLine(line))
	}
	flush()
	return nil
}

// splitFrontmatter separates YAML frontmatter (between leading --- delimiters)
// from the Markdown body. If no frontmatter is found the entire content is body.
func splitFrontmatter(data []byte) ([]byte, string, error) {
	trimmed := bytes.TrimLeft(data, "\n\r")
	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data), nil
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, "", fmt.Errorf("parse frontmatter: missing closing %s", delim)
	}

	block := rest[:idx]
	after := rest[idx+1+len(delim):]
	return block, strings.TrimLeft(string(after), "\n\r"), nil
}

func renderMarkdown(r *paprika.Recipe) ([]byte, error) {
	head := *r
	for _, s := range sections {
		*s.field(&head) = ""
	}
	fm, err := yaml.Marshal(&head)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString(delim + "\n")
	b.Write(fm)
	b.WriteString(delim + "\n\n")
	fmt.Fprintf(&b, "# %s\n", r.Name)
	for _, s := range sections {
		text := strings.Trim(*s.field(r), "\n")
		if text == "" {
			continue
		}
		lines := strings.Split(text, "\n")
		for i, line := range lines {
			lines[i] = escapeLine(line)
		}
		fmt.Fprintf(&b, "\n## %s\n\n%s\n", s.title, strings.Join(lines, "\n"))
	}
	return []byte(b.String()), nil
}
