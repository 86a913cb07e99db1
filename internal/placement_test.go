package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tagDirective() PlacementDirective {
	return PlacementDirective{Kind: OutputTag, Location: LocationCursor, FrontMatterKey: "tags"}
}

func placeAll(t *testing.T, note *Note, d PlacementDirective, labels ...string) {
	t.Helper()
	placer := NewNotePlacer(note)
	for _, label := range labels {
		require.NoError(t, placer.Place(label, d))
	}
}

func TestFormatLabel(t *testing.T) {
	tests := []struct {
		name  string
		label string
		d     PlacementDirective
		want  string
	}{
		{"tag", "animals", PlacementDirective{Kind: OutputTag}, "#animals"},
		{"tag with spaces", "machine learning", PlacementDirective{Kind: OutputTag}, "#machine_learning"},
		{"tag affixes", "cats", PlacementDirective{Kind: OutputTag, Prefix: "topic/", Suffix: "-x"}, "#topic/cats-x"},
		{"wikilink", "Machine Learning", PlacementDirective{Kind: OutputWikilink}, "[[Machine Learning]]"},
		{"frontmatter", "cats", PlacementDirective{Kind: OutputFrontMatter, Prefix: "p-"}, "p-cats"},
		{"title", "cats", PlacementDirective{Kind: OutputTitle}, "cats"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatLabel(tt.label, tt.d))
		})
	}
}

func TestPlaceAtEndOfBody(t *testing.T) {
	note, _ := ParseNote("a.md", []byte("Cats are pets."))

	placeAll(t, note, tagDirective(), "animals", "pets")
	assert.Equal(t, "Cats are pets.\n#animals #pets ", note.Body)
}

func TestPlaceAtCursor(t *testing.T) {
	note, _ := ParseNote("a.md", []byte("one two"))
	note.Cursor = 4

	placeAll(t, note, tagDirective(), "x", "y")
	assert.Equal(t, "one #x #y two", note.Body)
	assert.Equal(t, 10, note.Cursor)
}

func TestPlaceReplacesSelection(t *testing.T) {
	note, _ := ParseNote("a.md", []byte("keep replace me keep"))
	require.True(t, note.SelectText("replace me"))

	d := tagDirective()
	d.Overwrite = true
	placeAll(t, note, d, "a", "b")

	assert.Equal(t, "keep #a #b  keep", note.Body)
	assert.Nil(t, note.Selection)
}

func TestPlaceAfterSelectionWithoutOverwrite(t *testing.T) {
	note, _ := ParseNote("a.md", []byte("word rest"))
	require.True(t, note.SelectText("word"))

	placeAll(t, note, tagDirective(), "a")
	assert.Equal(t, "word#a  rest", note.Body)
	assert.Equal(t, "word", note.InputText(InputSelection))
}

func TestPlaceContentTop(t *testing.T) {
	note, _ := ParseNote("a.md", []byte("---\nk: v\n---\nBody text\n"))

	d := PlacementDirective{Kind: OutputWikilink, Location: LocationContentTop}
	placeAll(t, note, d, "A", "B", "C")

	assert.Equal(t, "[[A]] [[B]] [[C]]\nBody text\n", note.Body)
	assert.Equal(t, "---\nk: v\n---\n[[A]] [[B]] [[C]]\nBody text\n", string(note.Render()))
}

func TestPlaceFrontMatter(t *testing.T) {
	t.Run("creates block and key", func(t *testing.T) {
		note, _ := ParseNote("a.md", []byte("body\n"))
		d := PlacementDirective{Kind: OutputFrontMatter, FrontMatterKey: "tags"}
		placeAll(t, note, d, "cats", "dogs", "cats")

		reparsed, err := ParseNote("a.md", note.Render())
		require.NoError(t, err)
		assert.Equal(t, []string{"cats", "dogs"}, NoteLabels(reparsed))
		assert.Equal(t, "body\n", reparsed.Body)
	})

	t.Run("appends to existing sequence", func(t *testing.T) {
		note, _ := ParseNote("a.md", []byte("---\ntitle: x\ntags:\n  - old\n---\nbody\n"))
		d := PlacementDirective{Kind: OutputFrontMatter, FrontMatterKey: "tags"}
		placeAll(t, note, d, "new")

		reparsed, err := ParseNote("a.md", note.Render())
		require.NoError(t, err)
		assert.Equal(t, []string{"old", "new"}, NoteLabels(reparsed))
	})

	t.Run("converts scalar", func(t *testing.T) {
		note, _ := ParseNote("a.md", []byte("---\ntags: old\n---\n"))
		d := PlacementDirective{Kind: OutputFrontMatter, FrontMatterKey: "tags"}
		placeAll(t, note, d, "new")

		reparsed, err := ParseNote("a.md", note.Render())
		require.NoError(t, err)
		assert.Equal(t, []string{"old", "new"}, NoteLabels(reparsed))
	})

	t.Run("overwrite clears once per run", func(t *testing.T) {
		note, _ := ParseNote("a.md", []byte("---\ntags: [a, b]\n---\n"))
		d := PlacementDirective{Kind: OutputFrontMatter, FrontMatterKey: "tags", Overwrite: true}
		placeAll(t, note, d, "x", "y")

		reparsed, err := ParseNote("a.md", note.Render())
		require.NoError(t, err)
		assert.Equal(t, []string{"x", "y"}, NoteLabels(reparsed))
	})

	t.Run("custom key", func(t *testing.T) {
		note, _ := ParseNote("a.md", []byte("---\ntags: [keep]\n---\n"))
		d := PlacementDirective{Kind: OutputFrontMatter, FrontMatterKey: "category"}
		placeAll(t, note, d, "work")

		reparsed, err := ParseNote("a.md", note.Render())
		require.NoError(t, err)
		assert.Equal(t, []string{"keep"}, NoteLabels(reparsed))
		assert.Contains(t, string(note.Render()), "category:")
	})
}

func TestPlaceTitle(t *testing.T) {
	t.Run("append", func(t *testing.T) {
		note, _ := ParseNote("dir/Meeting.md", []byte("x"))
		placeAll(t, note, PlacementDirective{Kind: OutputTitle}, "work", "q3")
		assert.Equal(t, "Meeting work q3", note.Title)
		assert.True(t, note.Renamed())
	})

	t.Run("overwrite", func(t *testing.T) {
		note, _ := ParseNote("dir/Meeting.md", []byte("x"))
		placeAll(t, note, PlacementDirective{Kind: OutputTitle, Overwrite: true}, "work", "q3")
		assert.Equal(t, "work q3", note.Title)
	})

	t.Run("sanitized", func(t *testing.T) {
		note, _ := ParseNote("Meeting.md", []byte("x"))
		placeAll(t, note, PlacementDirective{Kind: OutputTitle, Overwrite: true}, "a/b: c")
		assert.Equal(t, "ab c", note.Title)
	})

	t.Run("empty", func(t *testing.T) {
		note, _ := ParseNote("Meeting.md", []byte("x"))
		err := NewNotePlacer(note).Place("???", PlacementDirective{Kind: OutputTitle, Overwrite: true})
		assert.ErrorIs(t, err, ErrNoFilename)
		assert.Equal(t, "Meeting", note.Title)
	})
}

func TestPlaceUnknownKind(t *testing.T) {
	note, _ := ParseNote("a.md", []byte("x"))
	err := NewNotePlacer(note).Place("a", PlacementDirective{Kind: "emoji"})
	assert.Error(t, err)
	assert.Equal(t, "x", note.Body)
}
