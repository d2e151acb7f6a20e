// Package navigate drives reader's cursor over computed book layout.
//
// Session is a plain state machine: every operation is total and leaves
// session in a valid state, operations which make no sense for the current
// state are ignored. Session is not safe for concurrent use, it belongs to a
// single open book.
package navigate

import (
	"maps"
	"math"
	"slices"

	"go.uber.org/zap"

	"storybook/config"
	"storybook/layout"
)

// Session is navigation state of one open book.
type Session struct {
	cfg  config.NavigationConfig
	log  *zap.Logger
	book *layout.Book

	current   int
	zoom      float64
	showTOC   bool
	bookmarks map[int]struct{}
}

// NewSession creates session with no book open. Until Open is called session
// behaves as a book consisting of the cover page only.
func NewSession(cfg *config.NavigationConfig, log *zap.Logger) *Session {
	s := &Session{cfg: *cfg, log: log}
	s.reset()
	return s
}

func (s *Session) reset() {
	s.current = 0
	s.zoom = s.cfg.InitialZoom
	s.showTOC = false
	s.bookmarks = make(map[int]struct{})
}

// Open starts reading of the book from the cover page. Previous state is
// discarded.
func (s *Session) Open(b *layout.Book) {
	s.book = b
	s.reset()
	s.log.Debug("Book opened", zap.Int("pages", s.TotalPageCount()), zap.Uint64("fingerprint", s.fingerprint()))
}

// Update replaces layout of the open book after its stories or media were
// changed. When the list of stories is different the book is reopened,
// otherwise reader stays on the same page (or the last page if book became
// shorter) and bookmarks pointing past the end are dropped.
func (s *Session) Update(b *layout.Book) {
	if s.book == nil || b == nil || s.book.Fingerprint() != b.Fingerprint() {
		s.Open(b)
		return
	}

	s.book = b
	last := s.TotalPageCount() - 1
	if s.current > last {
		s.current = last
	}
	for page := range s.bookmarks {
		if page > last {
			delete(s.bookmarks, page)
		}
	}
	s.log.Debug("Book layout updated", zap.Int("pages", s.TotalPageCount()), zap.Int("current", s.current))
}

// Book returns layout of the open book, nil if there is none.
func (s *Session) Book() *layout.Book {
	return s.book
}

func (s *Session) fingerprint() uint64 {
	if s.book == nil {
		return 0
	}
	return s.book.Fingerprint()
}

// TotalPageCount returns number of pages in the open book.
func (s *Session) TotalPageCount() int {
	if s.book == nil {
		return layout.CoverPages
	}
	return s.book.TotalPageCount
}

// CurrentPage returns 0-based global index of the page reader is on.
func (s *Session) CurrentPage() int {
	return s.current
}

func (s *Session) ZoomLevel() float64 {
	return s.zoom
}

func (s *Session) ShowTOC() bool {
	return s.showTOC
}

// GoToNextPage moves to the next page, does nothing on the last page.
func (s *Session) GoToNextPage() {
	if s.current < s.TotalPageCount()-1 {
		s.current++
	}
}

// GoToPrevPage moves to the previous page, does nothing on the cover.
func (s *Session) GoToPrevPage() {
	if s.current > 0 {
		s.current--
	}
}

// JumpToPage moves to the page and closes table of contents. Pages outside
// of the book are ignored.
func (s *Session) JumpToPage(page int) {
	if page < 0 || page >= s.TotalPageCount() {
		s.log.Debug("Ignoring jump outside of the book", zap.Int("page", page), zap.Int("pages", s.TotalPageCount()))
		return
	}
	s.current = page
	s.showTOC = false
}

// JumpToStory moves to the first page of the story with given 0-based index,
// as selecting table of contents entry does.
func (s *Session) JumpToStory(idx int) {
	if s.book == nil || idx < 0 || idx >= len(s.book.StoryPages) {
		s.log.Debug("Ignoring jump to unknown story", zap.Int("story", idx))
		return
	}
	s.JumpToPage(s.book.StoryPages[idx])
}

// ToggleTOC shows or hides table of contents.
func (s *Session) ToggleTOC() {
	s.showTOC = !s.showTOC
}

// ToggleBookmark bookmarks current page or removes existing bookmark.
func (s *Session) ToggleBookmark() {
	if _, ok := s.bookmarks[s.current]; ok {
		delete(s.bookmarks, s.current)
		return
	}
	s.bookmarks[s.current] = struct{}{}
}

// IsBookmarked reports whether current page is bookmarked.
func (s *Session) IsBookmarked() bool {
	_, ok := s.bookmarks[s.current]
	return ok
}

// Bookmarks returns bookmarked pages in ascending order.
func (s *Session) Bookmarks() []int {
	return slices.Sorted(maps.Keys(s.bookmarks))
}

// NextBookmark jumps to the closest bookmark after current page if any.
func (s *Session) NextBookmark() {
	for _, page := range s.Bookmarks() {
		if page > s.current {
			s.JumpToPage(page)
			return
		}
	}
}

// PrevBookmark jumps to the closest bookmark before current page if any.
func (s *Session) PrevBookmark() {
	marks := s.Bookmarks()
	for i := len(marks) - 1; i >= 0; i-- {
		if marks[i] < s.current {
			s.JumpToPage(marks[i])
			return
		}
	}
}

func (s *Session) ZoomIn() {
	s.setZoom(s.zoom + s.cfg.ZoomStep)
}

func (s *Session) ZoomOut() {
	s.setZoom(s.zoom - s.cfg.ZoomStep)
}

// setZoom keeps zoom within configured range. Value is rounded to hundredths,
// so repeated steps do not accumulate floating point error.
func (s *Session) setZoom(v float64) {
	v = math.Round(v*100) / 100
	s.zoom = min(max(v, s.cfg.MinZoom), s.cfg.MaxZoom)
}

// Snapshot is read-only view of navigation state for display.
type Snapshot struct {
	CurrentPage    int     `yaml:"current_page" json:"current_page" ion:"current_page"`
	TotalPageCount int     `yaml:"total_pages" json:"total_pages" ion:"total_pages"`
	ZoomLevel      float64 `yaml:"zoom" json:"zoom" ion:"zoom"`
	ShowTOC        bool    `yaml:"show_toc" json:"show_toc" ion:"show_toc"`
	Bookmarks      []int   `yaml:"bookmarks" json:"bookmarks" ion:"bookmarks"`
	Bookmarked     bool    `yaml:"bookmarked" json:"bookmarked" ion:"bookmarked"`
}

func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		CurrentPage:    s.current,
		TotalPageCount: s.TotalPageCount(),
		ZoomLevel:      s.zoom,
		ShowTOC:        s.showTOC,
		Bookmarks:      s.Bookmarks(),
		Bookmarked:     s.IsBookmarked(),
	}
}
