package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"storybook/book"
)

// LoadXML reads library from XML manifest. Document mirrors YAML one:
//
//	<library>
//	  <story id="a" created_at="2024-06-01T10:00:00Z">
//	    <title>Alpha</title>
//	    <content>First paragraph.
//	Second paragraph.</content>
//	    <media id="m1" content_type="image/jpeg" file_path="a/1.jpg">
//	      <caption>Beach</caption>
//	    </media>
//	  </story>
//	  <media id="m2" story_id="a" content_type="video/mp4" file_path="a/2.mp4"/>
//	</library>
//
// Older exports may be in legacy encodings, declared charset is honored.
func (l *Loader) LoadXML(ctx context.Context, src string) (*book.Library, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("unable to read manifest: %w", err)
	}
	defer f.Close()

	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		Permissive:    true,
	}
	if _, err := doc.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("unable to decode manifest (%s): %w", src, err)
	}

	root := doc.Root()
	if root == nil {
		// empty document is empty library
		return l.assemble(nil, nil, true)
	}
	if root.Tag != "library" {
		return nil, fmt.Errorf("unexpected root element %q in manifest (%s)", root.Tag, src)
	}

	var (
		base    = filepath.Dir(src)
		stories []book.Story
		media   []book.MediaItem
	)
	for _, child := range root.ChildElements() {
		switch child.Tag {
		case "story":
			s, items, err := l.xmlStory(child)
			if err != nil {
				return nil, err
			}
			stories = append(stories, s)
			media = append(media, items...)
		case "media":
			media = append(media, l.xmlMedia(child))
		default:
			l.log.Warn("Unexpected tag in library, ignoring", zap.String("tag", child.Tag))
		}
	}

	for i := range media {
		if len(media[i].FilePath) > 0 && !filepath.IsAbs(media[i].FilePath) {
			media[i].FilePath = filepath.Join(base, filepath.FromSlash(media[i].FilePath))
		}
	}
	return l.assemble(stories, media, true)
}

func (l *Loader) xmlStory(el *etree.Element) (book.Story, []book.MediaItem, error) {
	s := book.Story{
		ID:        el.SelectAttrValue("id", ""),
		CreatedAt: l.timeFromText(el.SelectAttrValue("created_at", "")),
	}

	var items []book.MediaItem
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "title":
			title := strings.TrimSpace(child.Text())
			s.Title = &title
		case "content":
			s.Content = xmlText(child)
		case "media":
			items = append(items, l.xmlMedia(child))
		default:
			l.log.Warn("Unexpected tag in story, ignoring", zap.String("id", s.ID), zap.String("tag", child.Tag))
		}
	}

	if len(items) > 0 {
		// attached media must follow the story
		if err := l.ensureID(&s.ID, "Story"); err != nil {
			return s, nil, err
		}
	}
	for i := range items {
		if len(items[i].StoryID) > 0 && items[i].StoryID != s.ID {
			l.log.Warn("Media item listed with different story, using enclosing one",
				zap.String("id", items[i].ID), zap.String("story_id", items[i].StoryID), zap.String("enclosing", s.ID))
		}
		items[i].StoryID = s.ID
	}
	return s, items, nil
}

func (l *Loader) xmlMedia(el *etree.Element) book.MediaItem {
	m := book.MediaItem{
		ID:          el.SelectAttrValue("id", ""),
		StoryID:     el.SelectAttrValue("story_id", ""),
		ContentType: el.SelectAttrValue("content_type", ""),
		FilePath:    el.SelectAttrValue("file_path", ""),
		CreatedAt:   l.timeFromText(el.SelectAttrValue("created_at", "")),
	}
	if c := el.SelectElement("caption"); c != nil {
		caption := strings.TrimSpace(c.Text())
		m.Caption = &caption
	}
	return m
}

// xmlText collects character data of element and all its descendants.
func xmlText(el *etree.Element) string {
	var sb strings.Builder
	for _, node := range el.Child {
		switch token := node.(type) {
		case *etree.CharData:
			sb.WriteString(token.Data)
		case *etree.Element:
			sb.WriteString(xmlText(token))
		}
	}
	return sb.String()
}
