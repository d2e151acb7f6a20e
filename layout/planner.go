// Package layout places stories of a library into a single virtual book:
// one combined cover and table of contents page followed by text pages and
// media pages of every story in order.
package layout

import (
	"fmt"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	"go.uber.org/zap"

	"storybook/book"
	"storybook/config"
	"storybook/paginate"
)

// CoverPages is number of pages reserved in front of the first story.
const CoverPages = 1

// Span describes part of the book occupied by a single story.
type Span struct {
	StoryID string `yaml:"story_id" json:"story_id" ion:"story_id"`
	// global 0-based index of the first story page
	Start      int             `yaml:"start" json:"start" ion:"start"`
	TextPages  int             `yaml:"text_pages" json:"text_pages" ion:"text_pages"`
	MediaPages int             `yaml:"media_pages" json:"media_pages" ion:"media_pages"`
	Pages      []paginate.Page `yaml:"pages,omitempty" json:"pages,omitempty" ion:"pages,omitempty"`
}

// Total returns number of pages story occupies.
func (s *Span) Total() int {
	return s.TextPages + s.MediaPages
}

// Book is computed layout. StoryPages is parallel to the story list it was
// computed from. Book is immutable, any change of stories or media requires
// new computation.
type Book struct {
	StoryPages     []int             `yaml:"story_pages" json:"story_pages" ion:"story_pages"`
	TotalPageCount int               `yaml:"total_pages" json:"total_pages" ion:"total_pages"`
	Geometry       paginate.Geometry `yaml:"geometry" json:"geometry" ion:"geometry"`
	Spans          []Span            `yaml:"spans" json:"spans" ion:"spans"`
	Contents       []TOCEntry        `yaml:"toc" json:"toc" ion:"toc"`

	stories     []book.Story
	media       map[string][]book.MediaItem
	fingerprint uint64
	entryTmpl   *template.Template
}

// Planner computes book layouts. It only carries configuration and could be
// used for any number of computations.
type Planner struct {
	pager         *paginate.Paginator
	untitledTmpl  *template.Template
	entryTmpl     *template.Template
	excerptLength int
	splitter      *sentences.DefaultSentenceTokenizer
	log           *zap.Logger
}

func parseTemplate(name config.TemplateFieldName, field string) (*template.Template, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return nil, fmt.Errorf("unable to parse template field %s: %w", name, err)
	}
	return tmpl, nil
}

// NewPlanner creates planner using provided paginator and table of contents
// configuration.
func NewPlanner(pager *paginate.Paginator, cfg *config.TOCConfig, log *zap.Logger) (*Planner, error) {
	untitled, err := parseTemplate(config.UntitledTemplateFieldName, cfg.UntitledTemplate)
	if err != nil {
		return nil, err
	}
	entry, err := parseTemplate(config.EntryTemplateFieldName, cfg.EntryTemplate)
	if err != nil {
		return nil, err
	}

	p := &Planner{
		pager:         pager,
		untitledTmpl:  untitled,
		entryTmpl:     entry,
		excerptLength: cfg.ExcerptLength,
		log:           log,
	}
	if p.excerptLength > 0 {
		if p.splitter, err = english.NewSentenceTokenizer(nil); err != nil {
			// excerpts will be cut from paragraph start instead
			log.Warn("Unable to load sentences tokenizer data", zap.Error(err))
		}
	}
	return p, nil
}

// Paginator returns paginator used for story text.
func (p *Planner) Paginator() *paginate.Paginator {
	return p.pager
}

// Compute places stories into the book. Each story starts right after the
// previous one, taking its text pages and one page per media item. Layout
// of an empty story list is a book of a single cover page.
func (p *Planner) Compute(stories []book.Story, media map[string][]book.MediaItem) *Book {
	b := &Book{
		StoryPages: make([]int, 0, len(stories)),
		Geometry:   p.pager.Geometry(),
		Spans:      make([]Span, 0, len(stories)),
		stories:    stories,
		media:      media,
		entryTmpl:  p.entryTmpl,
	}

	runningTotal := CoverPages
	for i := range stories {
		pages := p.pager.Paginate(stories[i].Content)
		span := Span{
			StoryID:    stories[i].ID,
			Start:      runningTotal,
			TextPages:  len(pages),
			MediaPages: len(media[stories[i].ID]),
			Pages:      pages,
		}
		b.StoryPages = append(b.StoryPages, span.Start)
		b.Spans = append(b.Spans, span)
		runningTotal += span.Total()
	}
	b.TotalPageCount = runningTotal
	b.fingerprint = (&book.Library{Stories: stories}).Fingerprint()
	b.Contents = p.contents(b)

	p.log.Debug("Layout computed",
		zap.Int("stories", len(stories)),
		zap.Int("pages", b.TotalPageCount),
		zap.Uint64("fingerprint", b.fingerprint))
	return b
}

// ComputeLibrary is Compute for library snapshot.
func (p *Planner) ComputeLibrary(lib *book.Library) *Book {
	return p.Compute(lib.Stories, lib.Media)
}

// Len returns number of stories in the book.
func (b *Book) Len() int {
	return len(b.Spans)
}

// Story returns story by its index in the book, nil if index is out of range.
func (b *Book) Story(idx int) *book.Story {
	if idx < 0 || idx >= len(b.stories) {
		return nil
	}
	return &b.stories[idx]
}

// Media returns ordered media items of the story by its index in the book.
func (b *Book) Media(idx int) []book.MediaItem {
	if idx < 0 || idx >= len(b.stories) {
		return nil
	}
	return b.media[b.stories[idx].ID]
}

// Fingerprint identifies story list the layout was computed from.
func (b *Book) Fingerprint() uint64 {
	return b.fingerprint
}

// PageContent returns content of 1-based text page of the story with given
// index. Empty list is returned for anything out of range.
func (b *Book) PageContent(storyIdx, page int) []string {
	if storyIdx < 0 || storyIdx >= len(b.Spans) {
		return []string{}
	}
	pages := b.Spans[storyIdx].Pages
	if page < 1 || page > len(pages) {
		return []string{}
	}
	return pages[page-1].Content
}

// StoryAt returns index of the story owning global page, -1 for cover and
// anything out of range.
func (b *Book) StoryAt(page int) int {
	for i := range b.Spans {
		if page >= b.Spans[i].Start && page < b.Spans[i].Start+b.Spans[i].Total() {
			return i
		}
	}
	return -1
}
