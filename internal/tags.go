package internal

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

var inlineTag = regexp.MustCompile(`(?:^|\s)#([\p{L}\p{N}_/\-]+)`)

// LabelSource lists the labels already used across a vault.
type LabelSource interface {
	KnownLabels(filter *regexp.Regexp) ([]string, error)
}

var _ LabelSource = (*Vault)(nil)

// KnownLabels collects frontmatter tags and inline #tags from every note,
// sorted and de-duplicated. A nil filter keeps everything.
func (v *Vault) KnownLabels(filter *regexp.Regexp) ([]string, error) {
	notes, err := v.Notes()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for _, p := range notes {
		note, err := v.Load(p)
		if err != nil {
			continue
		}
		for _, label := range NoteLabels(note) {
			seen[label] = struct{}{}
		}
	}

	labels := make([]string, 0, len(seen))
	for label := range seen {
		if filter == nil || filter.MatchString(label) {
			labels = append(labels, label)
		}
	}
	slices.Sort(labels)
	return labels, nil
}

// NoteLabels returns the tags of one note in order of appearance.
func NoteLabels(note *Note) []string {
	var labels []string
	add := func(label string) {
		label = strings.TrimPrefix(strings.TrimSpace(label), "#")
		if label == "" || isNumeric(label) || slices.Contains(labels, label) {
			return
		}
		labels = append(labels, label)
	}

	if note.FrontMatter != nil {
		for _, label := range frontMatterTags(note.FrontMatter) {
			add(label)
		}
	}

	inFence := false
	for _, line := range strings.Split(note.Body, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		for _, m := range inlineTag.FindAllStringSubmatch(line, -1) {
			add(m[1])
		}
	}
	return labels
}

func frontMatterTags(mapping *yaml.Node) []string {
	var tags []string
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i].Value
		if key != "tags" && key != "tag" {
			continue
		}

		value := mapping.Content[i+1]
		switch value.Kind {
		case yaml.SequenceNode:
			for _, item := range value.Content {
				if item.Kind == yaml.ScalarNode {
					tags = append(tags, item.Value)
				}
			}
		case yaml.ScalarNode:
			tags = append(tags, strings.FieldsFunc(value.Value, func(r rune) bool {
				return r == ',' || r == ' '
			})...)
		}
	}
	return tags
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseManualLabels splits a hand-written label list on commas and
// newlines, trimming blanks.
func ParseManualLabels(text string) []string {
	var labels []string
	for _, field := range strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '\n'
	}) {
		if label := strings.TrimSpace(field); label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}

// ResolveReferences computes the reference labels for the configured
// source.
func ResolveReferences(refs ReferencesConfig, source LabelSource) ([]string, error) {
	switch refs.Source {
	case ReferenceManual:
		var labels []string
		for _, entry := range refs.Manual {
			labels = append(labels, ParseManualLabels(entry)...)
		}
		return labels, nil
	case ReferenceFilter:
		filter, err := regexp.Compile(refs.Filter)
		if err != nil {
			return nil, fmt.Errorf("compile reference filter: %w", err)
		}
		return source.KnownLabels(filter)
	case ReferenceAll, "":
		return source.KnownLabels(nil)
	default:
		return nil, fmt.Errorf("unknown reference source: %q", refs.Source)
	}
}
