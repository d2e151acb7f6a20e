package library

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maruel/natural"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"storybook/archive"
	"storybook/book"
)

// largest story text we are willing to read from archive
const maxStorySize = 64 << 20

// treeEntry is a file of library stored as a file tree (directory or zip
// archive). Stories are files with configured extensions at the root of the
// tree, media items of a story are files in directory named as story file
// without extension:
//
//	01-first.txt
//	01-first/photo.jpg
//	01-first/clip.mp4
//	02-second.md
type treeEntry struct {
	// slash separated path relative to the root of the tree
	name string
	// where media item could be found by renderer, for archives it is
	// "archive#entry"
	location string
	modTime  time.Time
	read     func() ([]byte, error)
	head     func() ([]byte, error)
}

// LoadDirectory reads library from directory tree. Hidden files and
// directories are ignored.
func (l *Loader) LoadDirectory(ctx context.Context, dir string) (*book.Library, error) {
	var entries []treeEntry

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			l.log.Warn("Skipping path", zap.String("path", p), zap.Error(err))
			return nil
		}
		if p != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			l.log.Warn("Skipping file", zap.String("file", p), zap.Error(err))
			return nil
		}
		entries = append(entries, treeEntry{
			name:     filepath.ToSlash(rel),
			location: p,
			modTime:  info.ModTime(),
			read:     func() ([]byte, error) { return os.ReadFile(p) },
			head:     func() ([]byte, error) { return readFileHead(p) },
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to walk library directory: %w", err)
	}
	return l.fromTree(ctx, entries)
}

func readFileHead(name string) ([]byte, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, headSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}

// LoadArchive reads library from zip archive. Archive could either hold
// library tree at its root or in a single top level directory.
func (l *Loader) LoadArchive(ctx context.Context, src string) (*book.Library, error) {
	var (
		entries []treeEntry
		walker  = archive.Walker{CodePage: l.CodePage}
	)

	// archive stays open only while walking, so content is read right away:
	// whole text for stories, just enough to detect type for everything else
	err := walker.Walk(ctx, src, "", func(name string, f *zip.File) error {
		var (
			data []byte
			err  error
		)
		if l.isStoryFile(name) {
			data, err = archive.ReadFile(f, maxStorySize)
		} else {
			data, err = archive.ReadHead(f, headSize)
		}
		if err != nil {
			return fmt.Errorf("unable to read %s: %w", name, err)
		}
		entries = append(entries, treeEntry{
			name:     name,
			location: src + "#" + name,
			modTime:  f.Modified,
			read:     func() ([]byte, error) { return data, nil },
			head:     func() ([]byte, error) { return data[:min(len(data), headSize)], nil },
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to process archive: %w", err)
	}
	return l.fromTree(ctx, stripCommonRoot(entries))
}

// stripCommonRoot removes single top level directory archivers often put
// everything into.
func stripCommonRoot(entries []treeEntry) []treeEntry {
	if len(entries) == 0 {
		return entries
	}
	root, _, found := strings.Cut(entries[0].name, "/")
	if !found {
		return entries
	}
	prefix := root + "/"
	for _, e := range entries {
		if !strings.HasPrefix(e.name, prefix) {
			return entries
		}
	}
	for i := range entries {
		entries[i].name = strings.TrimPrefix(entries[i].name, prefix)
	}
	return entries
}

func (l *Loader) fromTree(ctx context.Context, entries []treeEntry) (*book.Library, error) {
	var (
		storyFiles []treeEntry
		mediaDirs  = make(map[string][]treeEntry)
	)
	for _, e := range entries {
		dir, base := path.Split(e.name)
		dir = strings.TrimSuffix(dir, "/")
		switch {
		case len(dir) == 0 && l.isStoryFile(base):
			storyFiles = append(storyFiles, e)
		case len(dir) > 0 && !strings.Contains(dir, "/"):
			mediaDirs[dir] = append(mediaDirs[dir], e)
		default:
			l.log.Debug("Skipping file, not a story or media item", zap.String("file", e.name))
		}
	}
	sort.Slice(storyFiles, func(i, j int) bool {
		return natural.Less(storyFiles[i].name, storyFiles[j].name)
	})

	var (
		errs    error
		stories = make([]book.Story, 0, len(storyFiles))
		media   []book.MediaItem
	)
	for _, sf := range storyFiles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := sf.read()
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("unable to read story %s: %w", sf.name, err))
			continue
		}
		story := l.storyFromFile(entryID(sf.name), sf.name, data)
		story.CreatedAt = sf.modTime
		stories = append(stories, story)

		dir := strings.TrimSuffix(sf.name, path.Ext(sf.name))
		files := mediaDirs[dir]
		delete(mediaDirs, dir)
		sort.Slice(files, func(i, j int) bool {
			return natural.Less(files[i].name, files[j].name)
		})
		for _, mf := range files {
			head, err := mf.head()
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("unable to read media %s: %w", mf.name, err))
				continue
			}
			media = append(media, book.MediaItem{
				ID:          entryID(mf.name),
				StoryID:     story.ID,
				ContentType: detectContentType(mf.name, head),
				FilePath:    mf.location,
				CreatedAt:   mf.modTime,
			})
		}
	}
	for dir := range mediaDirs {
		l.log.Warn("Directory does not belong to any story, ignoring", zap.String("dir", dir))
	}
	if errs != nil {
		return nil, errs
	}
	// file names define order
	return l.assemble(stories, media, false)
}

func entryID(name string) string {
	return uuid.NewSHA1(namespace, []byte(name)).String()
}
