package library

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"storybook/book"
)

// manifestStory is story record with optional media attached in place.
type manifestStory struct {
	book.Story `yaml:",inline"`
	Media      []book.MediaItem `yaml:"media,omitempty"`
}

// manifest describes library in a single YAML (or JSON) document. Media could
// be either listed with stories or separately referencing stories by ID.
type manifest struct {
	Stories []manifestStory  `yaml:"stories"`
	Media   []book.MediaItem `yaml:"media,omitempty"`
}

// LoadManifest reads library from YAML or JSON manifest. Relative media file
// paths are resolved against manifest location.
func (l *Loader) LoadManifest(ctx context.Context, src string) (*book.Library, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("unable to read manifest: %w", err)
	}
	m, err := decodeManifest(data)
	if err != nil {
		return nil, fmt.Errorf("unable to decode manifest (%s): %w", src, err)
	}

	base := filepath.Dir(src)
	stories := make([]book.Story, 0, len(m.Stories))
	media := make([]book.MediaItem, 0, len(m.Media))

	for _, s := range m.Stories {
		if len(s.ID) == 0 && len(s.Media) > 0 {
			// attached media must follow the story
			if err := l.ensureID(&s.ID, "Story"); err != nil {
				return nil, err
			}
		}
		stories = append(stories, s.Story)
		for _, item := range s.Media {
			if len(item.StoryID) > 0 && item.StoryID != s.ID {
				l.log.Warn("Media item listed with different story, using enclosing one",
					zap.String("id", item.ID), zap.String("story_id", item.StoryID), zap.String("enclosing", s.ID))
			}
			item.StoryID = s.ID
			media = append(media, item)
		}
	}
	media = append(media, m.Media...)

	for i := range media {
		if len(media[i].FilePath) > 0 && !filepath.IsAbs(media[i].FilePath) {
			media[i].FilePath = filepath.Join(base, filepath.FromSlash(media[i].FilePath))
		}
	}
	return l.assemble(stories, media, true)
}

func decodeManifest(data []byte) (*manifest, error) {
	// JSON is YAML as well, unknown fields are most likely typos
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	m := &manifest{}
	if err := dec.Decode(m); err != nil {
		if errors.Is(err, io.EOF) {
			// empty document is empty library
			return m, nil
		}
		return nil, err
	}
	return m, nil
}
