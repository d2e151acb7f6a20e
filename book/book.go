// Package book defines records the engine consumes: stories, their media
// items and a library snapshot tying them together. Records are owned by the
// persistence collaborator and are never modified by the engine.
package book

import (
	"slices"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"storybook/common"
)

// Story is a single free-text story. Paragraphs in Content are separated by
// "\n", blank lines are ignored.
type Story struct {
	ID        string    `yaml:"id" json:"id" ion:"id"`
	Title     *string   `yaml:"title,omitempty" json:"title,omitempty" ion:"title,omitempty"`
	Content   string    `yaml:"content" json:"content" ion:"content"`
	CreatedAt time.Time `yaml:"created_at,omitempty" json:"created_at,omitzero" ion:"created_at,omitempty"`
}

// HasTitle reports whether story has non blank title.
func (s *Story) HasTitle() bool {
	return s.Title != nil && len(strings.TrimSpace(*s.Title)) > 0
}

// MediaItem is a photo or video attached to a story. Only content type prefix
// and position within a story matter for layout, the rest passes through to
// rendering.
type MediaItem struct {
	ID          string    `yaml:"id" json:"id" ion:"id"`
	StoryID     string    `yaml:"story_id" json:"story_id" ion:"story_id"`
	ContentType string    `yaml:"content_type" json:"content_type" ion:"content_type"`
	FilePath    string    `yaml:"file_path" json:"file_path" ion:"file_path"`
	Caption     *string   `yaml:"caption,omitempty" json:"caption,omitempty" ion:"caption,omitempty"`
	CreatedAt   time.Time `yaml:"created_at,omitempty" json:"created_at,omitzero" ion:"created_at,omitempty"`
}

func (m *MediaItem) Kind() common.MediaKind {
	return KindOf(m.ContentType)
}

// KindOf classifies MIME content type.
func KindOf(contentType string) common.MediaKind {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	switch {
	case strings.HasPrefix(ct, "image/"):
		return common.MediaKindImage
	case strings.HasPrefix(ct, "video/"):
		return common.MediaKindVideo
	default:
		return common.MediaKindUnknown
	}
}

// SortMedia orders story media by creation time keeping original order for
// items created at the same time (or without time at all).
func SortMedia(items []MediaItem) {
	slices.SortStableFunc(items, func(a, b MediaItem) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
}

// Library is a consistent snapshot of ordered stories and their media.
type Library struct {
	Stories []Story
	Media   map[string][]MediaItem
}

// MediaFor returns ordered media items of the story, nil if there are none.
func (l *Library) MediaFor(storyID string) []MediaItem {
	if l == nil || l.Media == nil {
		return nil
	}
	return l.Media[storyID]
}

// MediaCount returns total number of media items attached to listed stories.
func (l *Library) MediaCount() int {
	if l == nil {
		return 0
	}
	count := 0
	for i := range l.Stories {
		count += len(l.MediaFor(l.Stories[i].ID))
	}
	return count
}

// Fingerprint identifies story list: same stories in the same order produce
// the same value regardless of their content or media.
func (l *Library) Fingerprint() uint64 {
	d := xxhash.New()
	if l == nil {
		return d.Sum64()
	}
	for i := range l.Stories {
		_, _ = d.WriteString(l.Stories[i].ID)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}
