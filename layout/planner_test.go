package layout

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"storybook/book"
	"storybook/config"
	"storybook/paginate"
)

func tocConfig() *config.TOCConfig {
	return &config.TOCConfig{
		ExcerptLength:    80,
		UntitledTemplate: "Story {{ .Number }}",
		EntryTemplate:    `{{ .Number }}. {{ .Title }} {{ repeat 3 "." }} {{ .Page }}`,
	}
}

func newPlanner(t *testing.T, cfg *config.TOCConfig) *Planner {
	t.Helper()
	pager, err := paginate.NewWithGeometry(paginate.Geometry{CharsPerLine: 10, LinesPerPage: 3}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewWithGeometry() error = %v", err)
	}
	p, err := NewPlanner(pager, cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewPlanner() error = %v", err)
	}
	return p
}

func title(s string) *string {
	return &s
}

// story A takes 3 text pages with 10x3 geometry, story B takes one
func twoStories() ([]book.Story, map[string][]book.MediaItem) {
	stories := []book.Story{
		{ID: "a", Title: title("Alpha"), Content: "aaa bbb ccc ddd eee\nfff ggg hhh iii jjj\nkkk"},
		{ID: "b", Content: "Hello"},
	}
	media := map[string][]book.MediaItem{
		"a": {
			{ID: "m1", StoryID: "a", ContentType: "image/jpeg", FilePath: "one.jpg"},
			{ID: "m2", StoryID: "a", ContentType: "video/mp4", FilePath: "two.mp4"},
		},
	}
	return stories, media
}

func TestCompute_TwoStories(t *testing.T) {
	p := newPlanner(t, tocConfig())
	stories, media := twoStories()

	b := p.Compute(stories, media)

	if !slices.Equal(b.StoryPages, []int{1, 6}) {
		t.Errorf("StoryPages = %v, want [1 6]", b.StoryPages)
	}
	if b.TotalPageCount != 7 {
		t.Errorf("TotalPageCount = %d, want 7", b.TotalPageCount)
	}
	if b.Spans[0].TextPages != 3 || b.Spans[0].MediaPages != 2 || b.Spans[0].Total() != 5 {
		t.Errorf("span of story A = %+v", b.Spans[0])
	}
	if b.Spans[1].TextPages != 1 || b.Spans[1].MediaPages != 0 {
		t.Errorf("span of story B = %+v", b.Spans[1])
	}
	if b.Len() != 2 {
		t.Errorf("Len() = %d", b.Len())
	}
}

func TestCompute_Empty(t *testing.T) {
	p := newPlanner(t, tocConfig())

	for _, stories := range [][]book.Story{nil, {}} {
		b := p.Compute(stories, nil)
		if b.StoryPages == nil || len(b.StoryPages) != 0 {
			t.Errorf("StoryPages = %#v, want empty list", b.StoryPages)
		}
		if b.TotalPageCount != 1 {
			t.Errorf("TotalPageCount = %d, want 1", b.TotalPageCount)
		}
		if len(b.TOC()) != 0 {
			t.Errorf("TOC() = %v, want empty", b.TOC())
		}
		if b.StoryAt(0) != -1 {
			t.Error("cover page does not belong to any story")
		}
	}
}

func TestCompute_Totals(t *testing.T) {
	p := newPlanner(t, tocConfig())
	pager := p.Paginator()
	rnd := rand.New(rand.NewPCG(1, 2))
	words := []string{"a", "few", "words", "of", "various", "length", "supercalifragilistic", "\n", "\n\n"}

	for round := range 20 {
		var (
			stories []book.Story
			media   = make(map[string][]book.MediaItem)
		)
		for i := range rnd.IntN(8) {
			var sb strings.Builder
			for range rnd.IntN(60) {
				sb.WriteString(words[rnd.IntN(len(words))])
				sb.WriteByte(' ')
			}
			id := fmt.Sprintf("s%d-%d", round, i)
			stories = append(stories, book.Story{ID: id, Content: sb.String()})
			for j := range rnd.IntN(4) {
				media[id] = append(media[id], book.MediaItem{ID: fmt.Sprintf("%s-m%d", id, j), StoryID: id, ContentType: "image/png"})
			}
		}

		b := p.Compute(stories, media)

		want := 1
		for i, s := range stories {
			if b.StoryPages[i] != want {
				t.Errorf("round %d: story %d starts at %d, want %d", round, i, b.StoryPages[i], want)
			}
			want += pager.StoryPages(s) + len(media[s.ID])
		}
		if b.TotalPageCount != want {
			t.Errorf("round %d: TotalPageCount = %d, want %d", round, b.TotalPageCount, want)
		}
	}
}

func TestCompute_Recomputes(t *testing.T) {
	p := newPlanner(t, tocConfig())
	stories, media := twoStories()

	first := p.Compute(stories, media)
	media["b"] = []book.MediaItem{{ID: "m3", StoryID: "b", ContentType: "image/gif"}}
	second := p.Compute(stories, media)

	if second.TotalPageCount != first.TotalPageCount+1 {
		t.Errorf("TotalPageCount = %d after adding media, was %d", second.TotalPageCount, first.TotalPageCount)
	}
	if first.Fingerprint() != second.Fingerprint() {
		t.Error("media change must not change story list identity")
	}

	third := p.Compute(stories[:1], media)
	if third.Fingerprint() == first.Fingerprint() {
		t.Error("different story list must have different identity")
	}
}

func TestBook_Accessors(t *testing.T) {
	p := newPlanner(t, tocConfig())
	stories, media := twoStories()
	b := p.Compute(stories, media)

	if got := b.PageContent(0, 2); !slices.Equal(got, []string{"fff ggg hhh iii jjj"}) {
		t.Errorf("PageContent(0, 2) = %q", got)
	}
	if got := b.PageContent(1, 1); !slices.Equal(got, []string{"Hello"}) {
		t.Errorf("PageContent(1, 1) = %q", got)
	}
	for _, tc := range [][2]int{{0, 0}, {0, 4}, {2, 1}, {-1, 1}} {
		if got := b.PageContent(tc[0], tc[1]); got == nil || len(got) != 0 {
			t.Errorf("PageContent(%d, %d) = %#v, want empty list", tc[0], tc[1], got)
		}
	}

	if s := b.Story(1); s == nil || s.ID != "b" {
		t.Errorf("Story(1) = %+v", s)
	}
	if b.Story(2) != nil || b.Story(-1) != nil {
		t.Error("Story() out of range must be nil")
	}
	if m := b.Media(0); len(m) != 2 || m[1].ID != "m2" {
		t.Errorf("Media(0) = %+v", m)
	}
	if m := b.Media(1); len(m) != 0 {
		t.Errorf("Media(1) = %+v", m)
	}

	owners := []int{-1, 0, 0, 0, 0, 0, 1, -1}
	for page, want := range owners {
		if got := b.StoryAt(page); got != want {
			t.Errorf("StoryAt(%d) = %d, want %d", page, got, want)
		}
	}
}

func TestTOC(t *testing.T) {
	p := newPlanner(t, tocConfig())
	stories, media := twoStories()
	stories = append(stories,
		book.Story{ID: "c", Title: title("  Alpha "), Content: "It was late. Everyone went home."},
		book.Story{ID: "d", Title: title("   "), Content: ""},
	)

	toc := p.Compute(stories, media).TOC()
	if len(toc) != 4 {
		t.Fatalf("TOC() has %d entries, want 4", len(toc))
	}

	a := toc[0]
	if a.Number != 1 || a.StoryID != "a" || a.Title != "Alpha" || a.Untitled {
		t.Errorf("entry A = %+v", a)
	}
	if a.StartPage != 1 || a.Page() != 2 || a.Pages() != 5 {
		t.Errorf("entry A pages: start %d, page %d, pages %d", a.StartPage, a.Page(), a.Pages())
	}
	if a.ContentPages != (Range{First: 1, Last: 3}) || a.MediaPages != (Range{First: 4, Last: 5}) {
		t.Errorf("entry A ranges: content %+v, media %+v", a.ContentPages, a.MediaPages)
	}
	if a.Images != 1 || a.Videos != 1 {
		t.Errorf("entry A media: %d images, %d videos", a.Images, a.Videos)
	}

	b := toc[1]
	if b.Title != "Story 2" || !b.Untitled {
		t.Errorf("entry B title = %q, untitled %v", b.Title, b.Untitled)
	}
	if !b.MediaPages.Empty() || b.MediaPages.Len() != 0 {
		t.Errorf("entry B media range %+v should be empty", b.MediaPages)
	}
	if b.Excerpt != "Hello" {
		t.Errorf("entry B excerpt = %q", b.Excerpt)
	}

	c := toc[2]
	if c.Title != "Alpha" {
		t.Errorf("entry C title = %q", c.Title)
	}
	if c.Anchor == a.Anchor {
		t.Errorf("anchors must be unique, both are %q", c.Anchor)
	}
	if a.Anchor != "alpha" || c.Anchor != "alpha-2" {
		t.Errorf("anchors = %q, %q", a.Anchor, c.Anchor)
	}
	if c.Excerpt != "It was late." {
		t.Errorf("entry C excerpt = %q, want first sentence", c.Excerpt)
	}

	d := toc[3]
	if d.Title != "Story 4" || d.Anchor != "story-4" || d.Excerpt != "" {
		t.Errorf("entry D = %+v", d)
	}
}

func TestTOC_UntitledTemplate(t *testing.T) {
	cfg := tocConfig()
	cfg.UntitledTemplate = `{{ if .Date }}{{ .Date }}{{ else }}{{ .ID | upper }}{{ end }}`
	p := newPlanner(t, cfg)

	stories := []book.Story{
		{ID: "x1", CreatedAt: time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC)},
		{ID: "x2"},
	}
	toc := p.Compute(stories, nil).TOC()
	if toc[0].Title != "2024-03-07" {
		t.Errorf("title with date = %q", toc[0].Title)
	}
	if toc[1].Title != "X2" {
		t.Errorf("title without date = %q", toc[1].Title)
	}
}

func TestTOC_UntitledTemplateFailure(t *testing.T) {
	cfg := tocConfig()
	cfg.UntitledTemplate = `{{ .Missing }}`
	p := newPlanner(t, cfg)

	toc := p.Compute([]book.Story{{ID: "x"}}, nil).TOC()
	if toc[0].Title != "Story 1" {
		t.Errorf("fallback title = %q", toc[0].Title)
	}
}

func TestTOC_NoExcerpts(t *testing.T) {
	cfg := tocConfig()
	cfg.ExcerptLength = 0
	p := newPlanner(t, cfg)

	toc := p.Compute([]book.Story{{ID: "x", Content: "Some text."}}, nil).TOC()
	if toc[0].Excerpt != "" {
		t.Errorf("excerpt = %q, want none", toc[0].Excerpt)
	}
}

func TestTOCLines(t *testing.T) {
	p := newPlanner(t, tocConfig())
	stories, media := twoStories()

	lines, err := p.Compute(stories, media).TOCLines()
	if err != nil {
		t.Fatalf("TOCLines() error = %v", err)
	}
	want := []string{"1. Alpha ... 2", "2. Story 2 ... 7"}
	if !slices.Equal(lines, want) {
		t.Errorf("TOCLines() = %q, want %q", lines, want)
	}
}

func TestNewPlanner_BadTemplates(t *testing.T) {
	pager, err := paginate.NewWithGeometry(paginate.Geometry{CharsPerLine: 10, LinesPerPage: 3}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewWithGeometry() error = %v", err)
	}

	cfg := tocConfig()
	cfg.EntryTemplate = "{{ .Title "
	if _, err := NewPlanner(pager, cfg, zaptest.NewLogger(t)); err == nil || !strings.Contains(err.Error(), string(config.EntryTemplateFieldName)) {
		t.Errorf("expected entry template error, got %v", err)
	}

	cfg = tocConfig()
	cfg.UntitledTemplate = "{{ nosuchfunc }}"
	if _, err := NewPlanner(pager, cfg, zaptest.NewLogger(t)); err == nil || !strings.Contains(err.Error(), string(config.UntitledTemplateFieldName)) {
		t.Errorf("expected untitled template error, got %v", err)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		text  string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"The quick brown fox", 10, "The quick…"},
		{"The quick brown fox", 12, "The quick…"},
		{"Unbreakablelongword", 8, "Unbreak…"},
		{"Hello, world and more", 8, "Hello…"},
		{"Привет всем людям", 8, "Привет…"},
		{"abc", 1, "…"},
	}

	for _, tt := range tests {
		if got := truncate(tt.text, tt.limit); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.text, tt.limit, got, tt.want)
		}
	}
}
