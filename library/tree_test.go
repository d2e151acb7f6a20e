package library

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
	"golang.org/x/text/encoding/charmap"
)

var pngHead = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

func createZip(t *testing.T, name string, files map[string]string) {
	t.Helper()

	f, err := os.Create(name)
	if err != nil {
		t.Fatalf("unable to create zip: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for entry, content := range files {
		fh := &zip.FileHeader{
			Name:     entry,
			Method:   zip.Deflate,
			Modified: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
		}
		fw, err := w.CreateHeader(fh)
		if err != nil {
			t.Fatalf("unable to create zip entry %s: %v", entry, err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("unable to write zip entry %s: %v", entry, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("unable to close zip: %v", err)
	}
}

// libraryFiles is the same library tree used for directory and archive
// tests.
func libraryFiles() map[string]string {
	return map[string]string{
		"10-last.md":            "# Last\nThe end.",
		"2-second.txt":          "Second story",
		"2-second/10-photo.png": string(pngHead),
		"2-second/9-clip.mp4":   "fake video",
		"2-second/notes.xyz":    "unknown media",
		"2-second/deep/x.png":   string(pngHead),
		"1-first.txt":           "First story",
		"orphan/photo.png":      string(pngHead),
		"readme.pdf":            "not a story",
	}
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	for name, content := range libraryFiles() {
		writeFile(t, filepath.Join(dir, filepath.FromSlash(name)), []byte(content))
	}
	writeFile(t, filepath.Join(dir, ".hidden.txt"), []byte("hidden"))
	writeFile(t, filepath.Join(dir, ".git", "HEAD.txt"), []byte("hidden"))

	l := newLoader(t)
	lib, err := l.LoadDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadDirectory() error = %v", err)
	}

	if len(lib.Stories) != 3 {
		t.Fatalf("got %d stories, want 3", len(lib.Stories))
	}
	contents := []string{lib.Stories[0].Content, lib.Stories[1].Content, lib.Stories[2].Content}
	if !slices.Equal(contents, []string{"First story", "Second story", "The end."}) {
		t.Errorf("story contents = %q", contents)
	}
	if last := lib.Stories[2]; last.Title == nil || *last.Title != "Last" {
		t.Errorf("last story title = %v", last.Title)
	}
	if lib.Stories[0].CreatedAt.IsZero() {
		t.Error("story creation time not set from file")
	}

	media := lib.MediaFor(lib.Stories[1].ID)
	want := []string{
		filepath.Join(dir, "2-second", "9-clip.mp4"),
		filepath.Join(dir, "2-second", "10-photo.png"),
	}
	if got := mediaPaths(media); !slices.Equal(got, want) {
		t.Errorf("media paths = %q, want %q", got, want)
	}
	if len(media) == 2 && (media[0].ContentType != "video/mp4" || media[1].ContentType != "image/png") {
		t.Errorf("content types = %q, %q", media[0].ContentType, media[1].ContentType)
	}

	again, err := l.LoadDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadDirectory() error = %v", err)
	}
	if !slices.Equal(storyIDs(lib), storyIDs(again)) {
		t.Error("identifiers changed between loads")
	}
}

func TestLoadDirectory_KeepUnknownMedia(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "story.txt"), []byte("text"))
	writeFile(t, filepath.Join(dir, "story", "notes.xyz"), []byte("unknown"))

	cfg := libraryConfig()
	cfg.SkipUnknownMedia = false
	lib, err := NewLoader(cfg, zaptest.NewLogger(t)).LoadDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadDirectory() error = %v", err)
	}
	media := lib.MediaFor(lib.Stories[0].ID)
	if len(media) != 1 || media[0].ContentType != defaultContentType {
		t.Errorf("media = %+v", media)
	}
}

func TestLoadDirectory_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "story.txt"), []byte("text"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newLoader(t).LoadDirectory(ctx, dir); !errors.Is(err, context.Canceled) {
		t.Errorf("LoadDirectory() error = %v, want context.Canceled", err)
	}
}

func TestLoadArchive(t *testing.T) {
	for _, root := range []string{"", "library/"} {
		t.Run("root "+root, func(t *testing.T) {
			files := make(map[string]string)
			for name, content := range libraryFiles() {
				files[root+name] = content
			}
			src := filepath.Join(t.TempDir(), "library.zip")
			createZip(t, src, files)

			lib, err := newLoader(t).LoadArchive(context.Background(), src)
			if err != nil {
				t.Fatalf("LoadArchive() error = %v", err)
			}
			if len(lib.Stories) != 3 {
				t.Fatalf("got %d stories, want 3", len(lib.Stories))
			}
			if lib.Stories[0].Content != "First story" {
				t.Errorf("first story = %q", lib.Stories[0].Content)
			}
			if want := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC); !lib.Stories[0].CreatedAt.Equal(want) {
				t.Errorf("CreatedAt = %v, want %v", lib.Stories[0].CreatedAt, want)
			}

			media := lib.MediaFor(lib.Stories[1].ID)
			want := []string{src + "#" + root + "2-second/9-clip.mp4", src + "#" + root + "2-second/10-photo.png"}
			if got := mediaPaths(media); !slices.Equal(got, want) {
				t.Errorf("media paths = %q, want %q", got, want)
			}
		})
	}
}

func TestLoadArchive_CodePage(t *testing.T) {
	raw, err := charmap.CodePage866.NewEncoder().String("рассказ.txt")
	if err != nil {
		t.Fatalf("unable to encode name: %v", err)
	}
	src := filepath.Join(t.TempDir(), "legacy.zip")

	f, err := os.Create(src)
	if err != nil {
		t.Fatalf("unable to create zip: %v", err)
	}
	w := zip.NewWriter(f)
	fw, err := w.CreateHeader(&zip.FileHeader{Name: raw, NonUTF8: true})
	if err != nil {
		t.Fatalf("unable to create entry: %v", err)
	}
	if _, err := fw.Write([]byte("text")); err != nil {
		t.Fatalf("unable to write entry: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("unable to close zip: %v", err)
	}
	f.Close()

	l := newLoader(t)
	l.CodePage = charmap.CodePage866
	lib, err := l.LoadArchive(context.Background(), src)
	if err != nil {
		t.Fatalf("LoadArchive() error = %v", err)
	}
	if len(lib.Stories) != 1 || lib.Stories[0].ID != entryID("рассказ.txt") {
		t.Errorf("stories = %+v", lib.Stories)
	}
}

func TestStripCommonRoot(t *testing.T) {
	names := func(entries []treeEntry) []string {
		var out []string
		for _, e := range entries {
			out = append(out, e.name)
		}
		return out
	}
	entries := func(names ...string) []treeEntry {
		var out []treeEntry
		for _, n := range names {
			out = append(out, treeEntry{name: n})
		}
		return out
	}

	tests := []struct {
		in   []string
		want []string
	}{
		{nil, nil},
		{[]string{"a.txt", "a/b.png"}, []string{"a.txt", "a/b.png"}},
		{[]string{"lib/a.txt", "lib/a/b.png"}, []string{"a.txt", "a/b.png"}},
		{[]string{"lib/a.txt", "other/b.txt"}, []string{"lib/a.txt", "other/b.txt"}},
		{[]string{"lib/a.txt", "library/b.txt"}, []string{"lib/a.txt", "library/b.txt"}},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.in, ","), func(t *testing.T) {
			if got := names(stripCommonRoot(entries(tt.in...))); !slices.Equal(got, tt.want) {
				t.Errorf("stripCommonRoot(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
