// Package paginate turns raw story text into fixed capacity pages.
//
// Text is wrapped greedily into lines of at most Geometry.CharsPerLine
// characters (runes) without breaking words. The only exception is a single
// word longer than a line - it is hyphenated into line sized segments. Lines
// are then packed into pages of Geometry.LinesPerPage lines keeping
// paragraphs together whenever they fit on a page.
package paginate

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"storybook/book"
	"storybook/config"
)

const hyphen = "-"

// Page is a single page of story text. Content holds paragraphs (or part of a
// paragraph which did not fit on previous page) as they should be rendered,
// wrapped lines of every paragraph rejoined with spaces.
type Page struct {
	Content []string `yaml:"content" json:"content" ion:"content"`
	// 1-based, sequential across the whole story
	Number int `yaml:"number" json:"number" ion:"number"`
	// number of wrapped lines page occupies
	Lines int `yaml:"lines" json:"lines" ion:"lines"`
}

// Paginator splits text into pages. It holds no state besides geometry and
// is safe to reuse.
type Paginator struct {
	geom Geometry
	log  *zap.Logger
}

// New creates paginator for configured physical page.
func New(cfg *config.GeometryConfig, log *zap.Logger) (*Paginator, error) {
	geom, err := Measure(cfg)
	if err != nil {
		return nil, err
	}
	log.Debug("Page geometry", zap.Int("chars_per_line", geom.CharsPerLine), zap.Int("lines_per_page", geom.LinesPerPage))
	return &Paginator{geom: geom, log: log}, nil
}

// NewWithGeometry creates paginator with explicit page capacity.
func NewWithGeometry(geom Geometry, log *zap.Logger) (*Paginator, error) {
	if err := geom.Validate(); err != nil {
		return nil, err
	}
	return &Paginator{geom: geom, log: log}, nil
}

func (p *Paginator) Geometry() Geometry {
	return p.geom
}

// Wrap breaks paragraph into lines. Words are never split unless a single
// word is longer than a line, such word is cut into segments of
// CharsPerLine-1 characters followed by hyphen until the rest fits.
func (p *Paginator) Wrap(paragraph string) []string {
	return p.geom.Wrap(paragraph)
}

// Wrap breaks paragraph into lines of at most CharsPerLine characters. Page
// entries are paragraphs with wrapped lines rejoined by spaces, wrapping an
// entry again restores lines it was built from.
func (g Geometry) Wrap(paragraph string) []string {
	var (
		width   = g.CharsPerLine
		lines   []string
		line    strings.Builder
		lineLen int
	)

	flush := func() {
		if lineLen > 0 {
			lines = append(lines, line.String())
			line.Reset()
			lineLen = 0
		}
	}

	for word := range Words(paragraph) {
		wordLen := utf8.RuneCountInString(word)

		switch {
		case wordLen > width:
			flush()
			rest := []rune(word)
			for len(rest) > width {
				lines = append(lines, string(rest[:width-1])+hyphen)
				rest = rest[width-1:]
			}
			line.WriteString(string(rest))
			lineLen = len(rest)
		case lineLen == 0:
			line.WriteString(word)
			lineLen = wordLen
		case lineLen+1+wordLen <= width:
			line.WriteByte(' ')
			line.WriteString(word)
			lineLen += 1 + wordLen
		default:
			flush()
			line.WriteString(word)
			lineLen = wordLen
		}
	}
	flush()
	return lines
}

// Paginate splits story text into pages. Empty text produces single empty
// page, so result is never empty.
func (p *Paginator) Paginate(content string) []Page {
	var (
		capacity = p.geom.LinesPerPage
		pages    []Page
		current  []string
		used     int
	)

	emit := func(entries []string, lines int) {
		pages = append(pages, Page{Content: entries, Number: len(pages) + 1, Lines: lines})
	}

	for para := range Paragraphs(content) {
		lines := p.Wrap(para)

		if used+len(lines) > capacity {
			if len(current) > 0 {
				emit(current, used)
				current, used = nil, 0
			}
			if len(lines) > capacity {
				p.log.Debug("Paragraph does not fit on a page, splitting",
					zap.Int("lines", len(lines)), zap.Int("capacity", capacity), zap.Int("page", len(pages)+1))
			}
			// full pages first, the rest opens next page
			for len(lines) > capacity {
				emit([]string{strings.Join(lines[:capacity], " ")}, capacity)
				lines = lines[capacity:]
			}
		}
		current = append(current, strings.Join(lines, " "))
		used += len(lines)
	}
	if len(current) > 0 {
		emit(current, used)
	}

	if len(pages) == 0 {
		return []Page{{Content: []string{}, Number: 1}}
	}
	return pages
}

// StoryPages returns number of text pages story occupies, at least 1.
func (p *Paginator) StoryPages(story book.Story) int {
	return max(1, len(p.Paginate(story.Content)))
}

// PageContent returns content of 1-based story page or empty list when page
// is out of range.
func (p *Paginator) PageContent(story book.Story, page int) []string {
	pages := p.Paginate(story.Content)
	if page < 1 || page > len(pages) {
		return []string{}
	}
	return pages[page-1].Content
}
