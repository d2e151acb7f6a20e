package layout

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"storybook/book"
	"storybook/common"
	"storybook/paginate"
)

// Range is inclusive range of global page indexes. Empty range has Last
// smaller than First.
type Range struct {
	First int `yaml:"first" json:"first" ion:"first"`
	Last  int `yaml:"last" json:"last" ion:"last"`
}

func (r Range) Empty() bool {
	return r.Last < r.First
}

func (r Range) Len() int {
	return max(0, r.Last-r.First+1)
}

// TOCEntry is a single story line of table of contents.
type TOCEntry struct {
	// 1-based position of the story in the book
	Number   int    `yaml:"number" json:"number" ion:"number"`
	StoryID  string `yaml:"story_id" json:"story_id" ion:"story_id"`
	Title    string `yaml:"title" json:"title" ion:"title"`
	Untitled bool   `yaml:"untitled,omitempty" json:"untitled,omitempty" ion:"untitled,omitempty"`
	Anchor   string `yaml:"anchor" json:"anchor" ion:"anchor"`
	// global 0-based index of the first story page, target of a jump
	StartPage    int    `yaml:"start_page" json:"start_page" ion:"start_page"`
	ContentPages Range  `yaml:"content_pages" json:"content_pages" ion:"content_pages"`
	MediaPages   Range  `yaml:"media_pages" json:"media_pages" ion:"media_pages"`
	Images       int    `yaml:"images" json:"images" ion:"images"`
	Videos       int    `yaml:"videos" json:"videos" ion:"videos"`
	Excerpt      string `yaml:"excerpt,omitempty" json:"excerpt,omitempty" ion:"excerpt,omitempty"`
}

// Page is 1-based number of the first story page as printed.
func (e *TOCEntry) Page() int {
	return e.StartPage + 1
}

// Pages is number of pages story occupies.
func (e *TOCEntry) Pages() int {
	return e.ContentPages.Len() + e.MediaPages.Len()
}

// TOC returns table of contents of the book.
func (b *Book) TOC() []TOCEntry {
	return b.Contents
}

// TOCLines renders table of contents entries using configured entry template.
func (b *Book) TOCLines() ([]string, error) {
	lines := make([]string, 0, len(b.Contents))
	if b.entryTmpl == nil {
		return lines, nil
	}
	buf := new(bytes.Buffer)
	for i := range b.Contents {
		buf.Reset()
		if err := b.entryTmpl.Execute(buf, &b.Contents[i]); err != nil {
			return nil, fmt.Errorf("unable to render table of contents entry %d: %w", b.Contents[i].Number, err)
		}
		lines = append(lines, buf.String())
	}
	return lines, nil
}

type untitledValues struct {
	Number int
	ID     string
	Date   string
}

func (p *Planner) contents(b *Book) []TOCEntry {
	entries := make([]TOCEntry, 0, len(b.Spans))
	anchors := make(map[string]int, len(b.Spans))

	for i := range b.Spans {
		story, span := &b.stories[i], &b.Spans[i]

		e := TOCEntry{
			Number:       i + 1,
			StoryID:      story.ID,
			StartPage:    span.Start,
			ContentPages: Range{First: span.Start, Last: span.Start + span.TextPages - 1},
			MediaPages:   Range{First: span.Start + span.TextPages, Last: span.Start + span.Total() - 1},
			Excerpt:      p.excerpt(story.Content),
		}
		if story.HasTitle() {
			e.Title = strings.TrimSpace(*story.Title)
		} else {
			e.Title, e.Untitled = p.untitled(i+1, story), true
		}
		for _, m := range b.Media(i) {
			switch m.Kind() {
			case common.MediaKindImage:
				e.Images++
			case common.MediaKindVideo:
				e.Videos++
			}
		}
		e.Anchor = uniqueAnchor(anchors, e.Title, e.Number)
		entries = append(entries, e)
	}
	return entries
}

func (p *Planner) untitled(number int, story *book.Story) string {
	values := untitledValues{Number: number, ID: story.ID}
	if !story.CreatedAt.IsZero() {
		values.Date = story.CreatedAt.Format("2006-01-02")
	}

	buf := new(bytes.Buffer)
	if err := p.untitledTmpl.Execute(buf, values); err != nil {
		p.log.Warn("Unable to expand title of untitled story, using default", zap.String("id", story.ID), zap.Error(err))
		return "Story " + strconv.Itoa(number)
	}
	if title := strings.TrimSpace(buf.String()); len(title) > 0 {
		return title
	}
	return "Story " + strconv.Itoa(number)
}

// uniqueAnchor makes slug out of title. Repeated titles get numeric suffixes.
func uniqueAnchor(seen map[string]int, title string, number int) string {
	anchor := slug.Make(title)
	if len(anchor) == 0 {
		anchor = "story-" + strconv.Itoa(number)
	}
	base := anchor
	for seen[anchor] > 0 {
		seen[base]++
		anchor = base + "-" + strconv.Itoa(seen[base])
	}
	seen[anchor]++
	return anchor
}

// excerpt returns first sentence of story text limited to configured length.
func (p *Planner) excerpt(content string) string {
	if p.excerptLength <= 0 {
		return ""
	}

	var first string
	for para := range paginate.Paragraphs(content) {
		first = strings.Join(strings.Fields(para), " ")
		break
	}
	if len(first) == 0 {
		return ""
	}
	if p.splitter != nil {
		if ss := p.splitter.Tokenize(first); len(ss) > 0 {
			first = strings.TrimSpace(ss[0].Text)
		}
	}
	return truncate(first, p.excerptLength)
}

// truncate cuts text to at most limit runes preferring word boundary and
// marking cut with ellipsis.
func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	if limit == 1 {
		return "…"
	}
	cut := runes[:limit-1]
	if !unicode.IsSpace(runes[limit-1]) {
		if idx := lastSpace(cut); idx > 0 {
			cut = cut[:idx]
		}
	}
	return strings.TrimRightFunc(string(cut), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	}) + "…"
}

func lastSpace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if unicode.IsSpace(runes[i]) {
			return i
		}
	}
	return -1
}
