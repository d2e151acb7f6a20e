package library

import (
	"bytes"
	"html"
	"io"
	"path"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	lexer "github.com/tdewolff/parse/v2/html"
	"go.uber.org/zap"

	"storybook/book"
)

// elements which end current paragraph
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "br": true,
	"dd": true, "div": true, "dl": true, "dt": true, "figcaption": true, "figure": true,
	"footer": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "ol": true, "p": true,
	"pre": true, "section": true, "table": true, "td": true, "th": true, "tr": true, "ul": true,
}

// elements which content is never shown
var hiddenTags = map[string]bool{
	"noscript": true, "script": true, "style": true, "template": true,
}

func isHTMLFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".html", ".htm", ".xhtml":
		return true
	}
	return false
}

// htmlStory collects plain text paragraphs out of HTML token stream.
type htmlStory struct {
	paragraphs []string
	current    strings.Builder
	title      strings.Builder
	heading    strings.Builder

	hidden    int
	pre       int
	inTitle   bool
	inHeading bool
	hasTitle  bool
}

func (h *htmlStory) flush() {
	if p := strings.Join(strings.Fields(h.current.String()), " "); len(p) > 0 {
		h.paragraphs = append(h.paragraphs, p)
	}
	h.current.Reset()
}

func (h *htmlStory) text(s string) {
	switch {
	case h.hidden > 0:
	case h.inTitle:
		h.title.WriteString(s)
	case h.inHeading:
		h.heading.WriteString(s)
	case h.pre > 0:
		for i, line := range strings.Split(s, "\n") {
			if i > 0 {
				h.flush()
			}
			h.current.WriteString(line)
		}
	default:
		h.current.WriteString(s)
	}
}

func (h *htmlStory) start(tag string) {
	if hiddenTags[tag] {
		h.hidden++
		return
	}
	switch tag {
	case "title":
		h.inTitle, h.hasTitle = true, true
		return
	case "h1":
		// first heading names the story when document has no title
		if !h.hasTitle {
			h.inHeading, h.hasTitle = true, true
			return
		}
	case "pre":
		h.pre++
	}
	if blockTags[tag] {
		h.flush()
	}
}

func (h *htmlStory) end(tag string) {
	if hiddenTags[tag] {
		h.hidden = max(h.hidden-1, 0)
		return
	}
	switch tag {
	case "title":
		h.inTitle = false
		return
	case "h1":
		if h.inHeading {
			h.inHeading = false
			return
		}
	case "pre":
		h.pre = max(h.pre-1, 0)
	}
	if blockTags[tag] {
		h.flush()
	}
}

// parseHTMLStory makes story out of HTML file. Markup is dropped, block
// elements become paragraphs. Document title (or first level one heading
// when there is no title) becomes story title.
func (l *Loader) parseHTMLStory(id, name string, data []byte) book.Story {
	var (
		h   = &htmlStory{}
		tag string
	)
	lex := lexer.NewLexer(parse.NewInput(bytes.NewReader([]byte(l.decode(name, data, "text/html")))))
	for done := false; !done; {
		tt, raw := lex.Next()
		switch tt {
		case lexer.ErrorToken:
			if err := lex.Err(); err != nil && err != io.EOF {
				l.log.Warn("Unable to parse story markup, text may be incomplete", zap.String("file", name), zap.Error(err))
			}
			done = true
		case lexer.StartTagToken:
			tag = strings.ToLower(string(lex.Text()))
			h.start(tag)
		case lexer.StartTagVoidToken:
			// self closing element, "<br/>"
			h.end(tag)
		case lexer.EndTagToken:
			h.end(strings.ToLower(string(lex.Text())))
		case lexer.TextToken:
			h.text(html.UnescapeString(string(raw)))
		}
	}
	h.flush()

	s := book.Story{ID: id, Content: strings.Join(h.paragraphs, "\n")}
	title := strings.Join(strings.Fields(h.title.String()), " ")
	if len(title) == 0 {
		title = strings.Join(strings.Fields(h.heading.String()), " ")
	}
	if len(title) > 0 {
		s.Title = &title
	}
	return s
}
