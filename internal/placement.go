package internal

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// PlacementDirective describes how a classified label is written into a
// note. Location only applies to tag and wikilink output.
type PlacementDirective struct {
	Kind           OutputKind
	Location       OutputLocation
	FrontMatterKey string
	Overwrite      bool
	Prefix         string
	Suffix         string
}

// Placer writes one label into a document.
type Placer interface {
	Place(label string, directive PlacementDirective) error
}

// FormatLabel renders label the way it appears in the note body.
func FormatLabel(label string, d PlacementDirective) string {
	value := d.Prefix + label + d.Suffix
	switch d.Kind {
	case OutputTag:
		return "#" + strings.Join(strings.Fields(value), "_")
	case OutputWikilink:
		return "[[" + value + "]]"
	default:
		return value
	}
}

var _ Placer = (*NotePlacer)(nil)

// NotePlacer places the labels of one classification run into a note.
// Create a new placer for every run.
type NotePlacer struct {
	note   *Note
	placed int
	topEnd int // end of the label line written at the top of the body
}

func NewNotePlacer(note *Note) *NotePlacer {
	return &NotePlacer{note: note}
}

func (p *NotePlacer) Place(label string, d PlacementDirective) error {
	first := p.placed == 0

	var err error
	switch d.Kind {
	case OutputTag, OutputWikilink:
		text := FormatLabel(label, d)
		if d.Location == LocationContentTop {
			p.placeTop(text, first)
		} else {
			p.placeCursor(text, first && d.Overwrite)
		}
	case OutputFrontMatter:
		err = p.placeFrontMatter(FormatLabel(label, d), d.FrontMatterKey, first && d.Overwrite)
	case OutputTitle:
		err = p.placeTitle(FormatLabel(label, d), first && d.Overwrite)
	default:
		err = fmt.Errorf("unknown output kind: %q", d.Kind)
	}
	if err != nil {
		return err
	}

	p.placed++
	return nil
}

func (p *NotePlacer) placeCursor(text string, replaceSelection bool) {
	n := p.note
	if replaceSelection && n.Selection != nil {
		n.replace(*n.Selection, text+" ")
		return
	}

	if n.Cursor < 0 || n.Cursor > len(n.Body) {
		if n.Body != "" && !strings.HasSuffix(n.Body, "\n") {
			n.Body += "\n"
		}
		n.Cursor = len(n.Body)
	}
	n.insert(n.Cursor, text+" ")
}

func (p *NotePlacer) placeTop(text string, first bool) {
	if first {
		p.note.insert(0, text+"\n")
		p.topEnd = len(text)
		return
	}
	p.note.insert(p.topEnd, " "+text)
	p.topEnd += len(text) + 1
}

func (p *NotePlacer) placeFrontMatter(value, key string, overwrite bool) error {
	n := p.note
	if n.FrontMatter == nil {
		n.FrontMatter = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}
	n.dirty = true

	seq := frontMatterSequence(n.FrontMatter, key)
	if overwrite {
		seq.Content = nil
	}

	for _, item := range seq.Content {
		if item.Value == value {
			return nil
		}
	}
	seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value})
	return nil
}

// frontMatterSequence returns the sequence stored under key, converting a
// scalar value into a one-element sequence and creating the key if needed.
func frontMatterSequence(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value != key {
			continue
		}

		value := mapping.Content[i+1]
		if value.Kind == yaml.SequenceNode {
			return value
		}

		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		if value.Kind == yaml.ScalarNode && value.Tag != "!!null" && value.Value != "" {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value.Value})
		}
		mapping.Content[i+1] = seq
		return seq
	}

	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		seq,
	)
	return seq
}

func (p *NotePlacer) placeTitle(value string, overwrite bool) error {
	title := value
	if !overwrite {
		title = p.note.Title + " " + value
	}

	sanitized := SanitizeFilename(title)
	if sanitized == "" {
		return fmt.Errorf("place title %q: %w", value, ErrNoFilename)
	}
	p.note.Title = sanitized
	return nil
}
