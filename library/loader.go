// Package library loads story libraries prepared by persistence layer:
// manifests (YAML, JSON or XML), SQLite databases, directories and zip archives.
// Whatever the source, result is a consistent snapshot - ordered stories with
// their ordered media items.
package library

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"

	"storybook/book"
	"storybook/common"
	"storybook/config"
)

// enough for any signature filetype knows about
const headSize = 262

const defaultContentType = "application/octet-stream"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// namespace for identifiers of records which do not have natural ones, so
// reloading the same library produces the same identifiers.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("storybook:library"))

// Loader reads libraries according to configuration.
type Loader struct {
	// Code page to decode non UTF-8 file names in archives.
	CodePage encoding.Encoding

	cfg *config.LibraryConfig
	log *zap.Logger
}

func NewLoader(cfg *config.LibraryConfig, log *zap.Logger) *Loader {
	return &Loader{cfg: cfg, log: log}
}

// Load detects type of the source and loads library from it. Directories,
// manifests (.yaml, .yml, .json, .xml), databases (.db, .sqlite, .sqlite3) and zip
// archives are supported. When extension is not known file signature is
// checked.
func (l *Loader) Load(ctx context.Context, src string) (*book.Library, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fi, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("unable to access library source: %w", err)
	}
	if fi.IsDir() {
		return l.LoadDirectory(ctx, src)
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("unexpected path mode for library source (%s)", src)
	}

	switch strings.ToLower(filepath.Ext(src)) {
	case ".yaml", ".yml", ".json":
		return l.LoadManifest(ctx, src)
	case ".xml":
		return l.LoadXML(ctx, src)
	case ".db", ".sqlite", ".sqlite3":
		return l.LoadSQLite(ctx, src)
	case ".zip":
		return l.LoadArchive(ctx, src)
	}

	kind, err := filetype.MatchFile(src)
	if err != nil {
		return nil, fmt.Errorf("unable to check library source type: %w", err)
	}
	switch kind.Extension {
	case "zip":
		return l.LoadArchive(ctx, src)
	case "sqlite":
		return l.LoadSQLite(ctx, src)
	}
	return nil, fmt.Errorf("library source was not recognized (%s)", src)
}

func (l *Loader) isStoryFile(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	return slices.ContainsFunc(l.cfg.StoryExtensions, func(e string) bool {
		return strings.ToLower(e) == ext
	})
}

// assemble validates loaded records and builds library snapshot. Stories
// keep their order. Media items are grouped per story keeping their order,
// sorted by creation time when requested.
func (l *Loader) assemble(stories []book.Story, media []book.MediaItem, sortByTime bool) (*book.Library, error) {
	lib := &book.Library{
		Stories: make([]book.Story, 0, len(stories)),
		Media:   make(map[string][]book.MediaItem),
	}

	known := make(map[string]struct{}, len(stories))
	for _, s := range stories {
		if err := l.ensureID(&s.ID, "Story"); err != nil {
			return nil, err
		}
		if _, exists := known[s.ID]; exists {
			l.log.Warn("Duplicate story ID, skipping story", zap.String("id", s.ID))
			continue
		}
		known[s.ID] = struct{}{}
		lib.Stories = append(lib.Stories, s)
	}

	for _, m := range media {
		if _, exists := known[m.StoryID]; !exists {
			l.log.Warn("Media item belongs to unknown story, skipping", zap.String("id", m.ID), zap.String("story_id", m.StoryID))
			continue
		}
		if m.Kind() == common.MediaKindUnknown && l.cfg.SkipUnknownMedia {
			l.log.Warn("Media item is neither image nor video, skipping",
				zap.String("id", m.ID), zap.String("content_type", m.ContentType), zap.String("file", m.FilePath))
			continue
		}
		if err := l.ensureID(&m.ID, "Media item"); err != nil {
			return nil, err
		}
		lib.Media[m.StoryID] = append(lib.Media[m.StoryID], m)
	}
	if sortByTime {
		for id := range lib.Media {
			book.SortMedia(lib.Media[id])
		}
	}

	l.log.Debug("Library loaded", zap.Int("stories", len(lib.Stories)), zap.Int("media", lib.MediaCount()))
	return lib, nil
}

// ensureID generates random identifier for record which does not have one.
func (l *Loader) ensureID(id *string, what string) error {
	if len(*id) > 0 {
		return nil
	}
	newID, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("unable to generate new UUID: %w", err)
	}
	*id = newID.String()
	l.log.Warn(what+" has no ID, generating", zap.Stringer("new_id", newID))
	return nil
}

// decodeText brings story text to UTF-8. Text in legacy encodings is
// converted using encoding guessed from its content.
func (l *Loader) decodeText(name string, data []byte) string {
	return l.decode(name, data, "text/plain")
}

// decode is decodeText for any textual content type, for HTML charset
// declared in markup is taken into account.
func (l *Loader) decode(name string, data []byte, contentType string) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data)
	}

	enc, label, _ := charset.DetermineEncoding(data, contentType)
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		l.log.Warn("Unable to convert story text, replacing invalid characters",
			zap.String("file", name), zap.String("charset", label), zap.Error(err))
		return strings.ToValidUTF8(string(data), string(utf8.RuneError))
	}
	l.log.Debug("Story text converted to UTF-8", zap.String("file", name), zap.String("charset", label))
	return string(decoded)
}

// storyFromFile makes story out of story file content, HTML or plain text.
func (l *Loader) storyFromFile(id, name string, data []byte) book.Story {
	if isHTMLFile(name) {
		return l.parseHTMLStory(id, name, data)
	}
	return parseStory(id, l.decodeText(name, data))
}

// parseStory makes story out of text file. Markdown style heading on the
// first non blank line becomes story title.
func parseStory(id, text string) book.Story {
	s := book.Story{ID: id, Content: text}

	rest := strings.TrimLeft(text, " \t\r\n")
	first, tail, _ := strings.Cut(rest, "\n")
	if title, ok := strings.CutPrefix(strings.TrimSpace(first), "# "); ok {
		if title = strings.TrimSpace(title); len(title) > 0 {
			s.Title = &title
			s.Content = tail
		}
	}
	return s
}

// detectContentType finds MIME type of media file by its signature, falling
// back to file extension.
func detectContentType(name string, head []byte) string {
	if kind, err := filetype.Match(head); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}
	if kind := filetype.GetType(strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))); kind != filetype.Unknown {
		return kind.MIME.Value
	}
	return defaultContentType
}
