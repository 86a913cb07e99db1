package internal

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontMatterDelimiter = "---"

// InputKind selects which part of a note is sent for classification.
type InputKind string

const (
	InputSelection   InputKind = "selection"
	InputTitle       InputKind = "title"
	InputFrontMatter InputKind = "frontmatter"
	InputContent     InputKind = "content"
)

func ParseInputKind(s string) (InputKind, error) {
	switch k := InputKind(s); k {
	case InputSelection, InputTitle, InputFrontMatter, InputContent:
		return k, nil
	default:
		return "", fmt.Errorf("unknown input kind: %q", s)
	}
}

// InputSource supplies the input text for each input kind. Blank text
// means the input is missing.
type InputSource interface {
	InputText(kind InputKind) string
}

// Span is a half-open byte range of a note body.
type Span struct {
	Start int
	End   int
}

// Note is a markdown document with optional YAML frontmatter.
type Note struct {
	Path  string // vault-relative, slash separated
	Title string

	FrontMatter *yaml.Node // mapping node, nil when the note has no block
	Body        string

	// Cursor is a byte offset into Body. Negative means the end of the body.
	Cursor    int
	Selection *Span

	rawFrontMatter string
	dirty          bool
}

var _ InputSource = (*Note)(nil)

// ParseNote splits data into frontmatter and body.
func ParseNote(notePath string, data []byte) (*Note, error) {
	note := &Note{
		Path:   notePath,
		Title:  titleFromPath(notePath),
		Cursor: -1,
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	raw, body, ok := splitFrontMatter(text)
	if !ok {
		note.Body = text
		return note, nil
	}

	node, err := parseFrontMatter(raw)
	if err != nil {
		return nil, fmt.Errorf("parse frontmatter of %s: %w", notePath, err)
	}

	note.FrontMatter = node
	note.Body = body
	note.rawFrontMatter = raw
	return note, nil
}

func splitFrontMatter(text string) (string, string, bool) {
	if !strings.HasPrefix(text, frontMatterDelimiter+"\n") {
		return "", text, false
	}

	rest := text[len(frontMatterDelimiter)+1:]
	if strings.HasPrefix(rest, frontMatterDelimiter+"\n") || rest == frontMatterDelimiter {
		return "", strings.TrimPrefix(strings.TrimPrefix(rest, frontMatterDelimiter), "\n"), true
	}

	idx := strings.Index(rest, "\n"+frontMatterDelimiter)
	for idx >= 0 {
		end := idx + 1 + len(frontMatterDelimiter)
		if end == len(rest) || rest[end] == '\n' {
			body := rest[end:]
			body = strings.TrimPrefix(body, "\n")
			return rest[:idx+1], body, true
		}
		next := strings.Index(rest[end:], "\n"+frontMatterDelimiter)
		if next < 0 {
			break
		}
		idx = end + next
	}
	return "", text, false
}

func parseFrontMatter(raw string) (*yaml.Node, error) {
	mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if strings.TrimSpace(raw) == "" {
		return mapping, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return mapping, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("frontmatter is not a mapping")
	}
	return root, nil
}

func titleFromPath(notePath string) string {
	return strings.TrimSuffix(path.Base(notePath), ".md")
}

// InputText implements InputSource.
func (n *Note) InputText(kind InputKind) string {
	var text string
	switch kind {
	case InputSelection:
		if n.Selection != nil {
			text = n.Body[n.Selection.Start:n.Selection.End]
		}
	case InputTitle:
		text = n.Title
	case InputFrontMatter:
		if n.FrontMatter != nil {
			text = n.frontMatterText()
		}
	case InputContent:
		text = n.Body
	}

	if strings.TrimSpace(text) == "" {
		return ""
	}
	return text
}

// SelectLines selects the 1-based inclusive line range of the body.
func (n *Note) SelectLines(from, to int) error {
	lines := strings.SplitAfter(n.Body, "\n")
	if from < 1 || to < from || from > len(lines) {
		return fmt.Errorf("invalid line range %d:%d", from, to)
	}
	if to > len(lines) {
		to = len(lines)
	}

	start := 0
	for _, line := range lines[:from-1] {
		start += len(line)
	}
	end := start
	for _, line := range lines[from-1 : to] {
		end += len(line)
	}
	end = start + len(strings.TrimSuffix(n.Body[start:end], "\n"))

	n.Selection = &Span{Start: start, End: end}
	n.Cursor = end
	return nil
}

// SelectText selects the first occurrence of text in the body.
func (n *Note) SelectText(text string) bool {
	idx := strings.Index(n.Body, text)
	if text == "" || idx < 0 {
		return false
	}
	n.Selection = &Span{Start: idx, End: idx + len(text)}
	n.Cursor = idx + len(text)
	return true
}

// Renamed reports whether the title no longer matches the file name.
func (n *Note) Renamed() bool {
	return n.Title != titleFromPath(n.Path)
}

// Render reproduces the file contents. An untouched frontmatter block is
// written back byte for byte.
func (n *Note) Render() []byte {
	var buf bytes.Buffer
	if n.FrontMatter != nil {
		buf.WriteString(frontMatterDelimiter + "\n")
		buf.WriteString(n.frontMatterText())
		buf.WriteString(frontMatterDelimiter + "\n")
	}
	buf.WriteString(n.Body)
	return buf.Bytes()
}

func (n *Note) frontMatterText() string {
	if !n.dirty {
		return n.rawFrontMatter
	}
	if len(n.FrontMatter.Content) == 0 {
		return ""
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n.FrontMatter); err != nil {
		return n.rawFrontMatter
	}
	_ = enc.Close()
	return buf.String()
}

// insert writes s into the body at pos and shifts the cursor and selection.
func (n *Note) insert(pos int, s string) {
	n.Body = n.Body[:pos] + s + n.Body[pos:]
	n.shift(pos, len(s))
}

func (n *Note) replace(span Span, s string) {
	n.Body = n.Body[:span.Start] + s + n.Body[span.End:]
	n.Selection = nil
	n.Cursor = span.Start + len(s)
}

func (n *Note) shift(pos, delta int) {
	if n.Cursor >= pos {
		n.Cursor += delta
	}
	if n.Selection != nil && n.Selection.Start >= pos {
		n.Selection.Start += delta
		n.Selection.End += delta
	}
}
