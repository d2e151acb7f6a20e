package navigate

import (
	"storybook/book"
	"storybook/common"
	"storybook/layout"
)

// PageMapping describes what is shown on a global page. For cover page
// (which also hosts table of contents) only Kind and Page are set.
type PageMapping struct {
	Kind common.PageKind `yaml:"kind" json:"kind" ion:"kind"`
	// 0-based global index of the page
	Page int `yaml:"page" json:"page" ion:"page"`
	// 0-based index of the story in the book, -1 for cover
	StoryIndex        int             `yaml:"story_index" json:"story_index" ion:"story_index"`
	Story             *book.Story     `yaml:"story,omitempty" json:"story,omitempty" ion:"story,omitempty"`
	TotalPagesInStory int             `yaml:"total_pages_in_story,omitempty" json:"total_pages_in_story,omitempty" ion:"total_pages_in_story,omitempty"`
	PageInStory       int             `yaml:"page_in_story,omitempty" json:"page_in_story,omitempty" ion:"page_in_story,omitempty"`
	Content           []string        `yaml:"content,omitempty" json:"content,omitempty" ion:"content,omitempty"`
	MediaIndex        int             `yaml:"media_index,omitempty" json:"media_index,omitempty" ion:"media_index,omitempty"`
	Media             *book.MediaItem `yaml:"media,omitempty" json:"media,omitempty" ion:"media,omitempty"`
}

func coverMapping(page int) PageMapping {
	return PageMapping{Kind: common.PageKindCover, Page: page, StoryIndex: -1}
}

// ResolveCurrentPage tells what is on the current page.
func (s *Session) ResolveCurrentPage() PageMapping {
	return Resolve(s.book, s.current)
}

// Resolve tells what is on the global page of the book. Cover is returned for
// page 0 and for any page no story owns.
func Resolve(b *layout.Book, page int) PageMapping {
	if b == nil || page <= 0 {
		return coverMapping(page)
	}

	consumed := layout.CoverPages
	for i := range b.Spans {
		span := &b.Spans[i]
		storyTotal := span.Total()
		if page < consumed+storyTotal {
			m := PageMapping{
				Page:              page,
				StoryIndex:        i,
				Story:             b.Story(i),
				TotalPagesInStory: storyTotal,
			}
			offset := page - consumed
			if offset < span.TextPages {
				m.Kind = common.PageKindText
				m.PageInStory = offset + 1
				m.Content = b.PageContent(i, m.PageInStory)
				return m
			}
			media := b.Media(i)
			m.Kind = common.PageKindMedia
			m.MediaIndex = offset - span.TextPages
			if m.MediaIndex < len(media) {
				m.Media = &media[m.MediaIndex]
			}
			return m
		}
		consumed += storyTotal
	}
	return coverMapping(page)
}
