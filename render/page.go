// Package render presents computed book and navigation state as plain text,
// YAML, JSON or Ion for terminal front end and debug reports.
package render

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"storybook/book"
	"storybook/common"
	"storybook/layout"
	"storybook/navigate"
	"storybook/utils/images"
)

const (
	untitledBook = "Stories"
	emptyBook    = "(no stories)"
)

// MediaSource returns content of media item file.
type MediaSource func(item *book.MediaItem) ([]byte, error)

// Renderer draws pages as text.
type Renderer struct {
	// Width of separator lines, page line width is used when not positive.
	Width int
	// When set, pictures on media pages are drawn with characters scaled by
	// zoom level.
	Media MediaSource

	out io.Writer
}

func New(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

func (r *Renderer) rule(b *layout.Book) string {
	width := r.Width
	if width <= 0 && b != nil {
		width = b.Geometry.CharsPerLine
	}
	return strings.Repeat("-", max(width, 10))
}

// Page draws resolved page followed by status line built from navigation
// snapshot. Table of contents is drawn over the page when it is open.
func (r *Renderer) Page(b *layout.Book, m navigate.PageMapping, snap navigate.Snapshot) error {
	var sb strings.Builder

	switch m.Kind {
	case common.PageKindCover:
		if err := contents(&sb, b); err != nil {
			return err
		}
	case common.PageKindText:
		fmt.Fprintf(&sb, "%s (page %d of %d)\n\n", storyHeader(b, m), m.PageInStory, m.TotalPagesInStory)
		for _, line := range pageLines(b, m.Content) {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	case common.PageKindMedia:
		fmt.Fprintf(&sb, "%s (page %d of %d)\n\n", storyHeader(b, m), m.MediaIndex+textPages(b, m)+1, m.TotalPagesInStory)
		if m.Media == nil {
			sb.WriteString("[missing media]\n")
			break
		}
		fmt.Fprintf(&sb, "[%s] %s\n", m.Media.Kind(), m.Media.FilePath)
		if m.Media.Caption != nil && len(*m.Media.Caption) > 0 {
			sb.WriteString(*m.Media.Caption)
			sb.WriteByte('\n')
		}
		r.picture(&sb, b, m.Media, snap.ZoomLevel)
	}

	if snap.ShowTOC && m.Kind != common.PageKindCover {
		sb.WriteString(r.rule(b))
		sb.WriteByte('\n')
		if err := contents(&sb, b); err != nil {
			return err
		}
	}

	sb.WriteString(r.rule(b))
	sb.WriteByte('\n')
	sb.WriteString(Status(snap))
	sb.WriteByte('\n')

	_, err := io.WriteString(r.out, sb.String())
	return err
}

// picture draws image preview. Problems with media files are shown in place
// of preview, they do not prevent page from being drawn.
func (r *Renderer) picture(sb *strings.Builder, b *layout.Book, item *book.MediaItem, zoom float64) {
	if r.Media == nil || b == nil || item.Kind() != common.MediaKindImage {
		return
	}
	data, err := r.Media(item)
	if err != nil {
		fmt.Fprintf(sb, "(preview unavailable: %v)\n", err)
		return
	}
	info, err := images.Probe(data, item.ContentType)
	if err != nil {
		fmt.Fprintf(sb, "(preview unavailable: %v)\n", err)
		return
	}
	width := int(math.Round(float64(b.Geometry.CharsPerLine) * zoom))
	img, err := images.Decode(data, item.ContentType, width)
	if err != nil {
		fmt.Fprintf(sb, "(preview unavailable: %v)\n", err)
		return
	}
	fmt.Fprintf(sb, "(%s)\n", info)
	for _, line := range images.ASCII(img, width, b.Geometry.LinesPerPage) {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
}

func contents(sb *strings.Builder, b *layout.Book) error {
	sb.WriteString(untitledBook)
	sb.WriteString("\n\n")
	if b == nil || b.Len() == 0 {
		sb.WriteString(emptyBook)
		sb.WriteByte('\n')
		return nil
	}
	lines, err := b.TOCLines()
	if err != nil {
		return err
	}
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return nil
}

func storyHeader(b *layout.Book, m navigate.PageMapping) string {
	title := ""
	if b != nil && m.StoryIndex >= 0 && m.StoryIndex < len(b.Contents) {
		title = b.Contents[m.StoryIndex].Title
	}
	count := 0
	if b != nil {
		count = b.Len()
	}
	return fmt.Sprintf("Story %d of %d: %s", m.StoryIndex+1, count, title)
}

// pageLines wraps page entries into physical lines of the book geometry.
func pageLines(b *layout.Book, content []string) []string {
	if b == nil {
		return content
	}
	lines := make([]string, 0, len(content))
	for _, entry := range content {
		lines = append(lines, b.Geometry.Wrap(entry)...)
	}
	return lines
}

func textPages(b *layout.Book, m navigate.PageMapping) int {
	if b == nil || m.StoryIndex < 0 || m.StoryIndex >= len(b.Spans) {
		return 0
	}
	return b.Spans[m.StoryIndex].TextPages
}

// Status is one line summary of navigation state. Pages are numbered from 1
// as printed.
func Status(snap navigate.Snapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Page %d of %d", snap.CurrentPage+1, snap.TotalPageCount)
	if snap.Bookmarked {
		sb.WriteString(" *")
	}
	fmt.Fprintf(&sb, " | zoom %d%%", int(math.Round(snap.ZoomLevel*100)))
	if len(snap.Bookmarks) > 0 {
		marks := make([]string, 0, len(snap.Bookmarks))
		for _, p := range snap.Bookmarks {
			marks = append(marks, strconv.Itoa(p+1))
		}
		sb.WriteString(" | bookmarks ")
		sb.WriteString(strings.Join(marks, ", "))
	}
	return sb.String()
}
