package render

import (
	"fmt"
	"strconv"
	"strings"

	"storybook/layout"
	"storybook/navigate"
)

// TreeWriter builds indented text tree, used to dump book structure.
type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// TextBlock writes labeled value quoting it, so whitespace is visible.
func (tw TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(quote(value))
	tw.w.WriteByte('\n')
}

func (tw TreeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString("  ")
	}
}

func quote(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}

// Tree dumps complete page structure of the book: every global page with
// what is placed on it.
func Tree(b *layout.Book) string {
	tw := NewTreeWriter()
	if b == nil {
		tw.Line(0, "book: none")
		return tw.String()
	}

	tw.Line(0, "book: %d pages, %d stories, %dx%d characters",
		b.TotalPageCount, b.Len(), b.Geometry.CharsPerLine, b.Geometry.LinesPerPage)
	for page := range layout.CoverPages {
		tw.Line(1, "page %d: cover", page+1)
	}
	for i, entry := range b.TOC() {
		tw.Line(1, "story %d: %s (%d pages)", entry.Number, quote(entry.Title), entry.Pages())
		tw.TextBlock(2, "id", entry.StoryID)
		if len(entry.Excerpt) > 0 {
			tw.TextBlock(2, "excerpt", entry.Excerpt)
		}
		span := &b.Spans[i]
		for page := span.Start; page < span.Start+span.Total(); page++ {
			m := navigate.Resolve(b, page)
			switch {
			case m.Media != nil:
				tw.Line(2, "page %d: %s %d/%d %s", page+1, m.Media.Kind(), m.MediaIndex+1, span.MediaPages, quote(m.Media.FilePath))
				if m.Media.Caption != nil {
					tw.TextBlock(3, "caption", *m.Media.Caption)
				}
			default:
				lines := pageLines(b, m.Content)
				tw.Line(2, "page %d: %s %d/%d, %d lines", page+1, m.Kind, m.PageInStory, span.TextPages, len(lines))
				for _, line := range lines {
					tw.TextBlock(3, "line", line)
				}
			}
		}
	}
	return tw.String()
}
