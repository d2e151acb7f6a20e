package library

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"storybook/archive"
	"storybook/book"
)

// largest media file we are willing to read for preview
const maxMediaSize = 256 << 20

var errFound = errors.New("found")

// ReadMedia returns content of media item file. Items loaded from zip
// archives are located as "archive#entry" and read from the archive.
func (l *Loader) ReadMedia(ctx context.Context, item *book.MediaItem) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, entry, inArchive := splitArchivePath(item.FilePath)
	if !inArchive {
		return readLimited(item.FilePath)
	}

	var (
		data   []byte
		walker = archive.Walker{CodePage: l.CodePage}
	)
	err := walker.Walk(ctx, src, entry, func(name string, f *zip.File) (err error) {
		if name != entry {
			return nil
		}
		if data, err = archive.ReadFile(f, maxMediaSize); err != nil {
			return err
		}
		return errFound
	})
	switch {
	case errors.Is(err, errFound):
		return data, nil
	case err != nil:
		return nil, fmt.Errorf("unable to read media from archive: %w", err)
	}
	return nil, fmt.Errorf("media %q was not found in archive (%s)", entry, src)
}

func readLimited(name string) ([]byte, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("unable to open media: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxMediaSize+1))
	if err != nil {
		return nil, fmt.Errorf("unable to read media: %w", err)
	}
	if len(data) > maxMediaSize {
		return nil, fmt.Errorf("media file is too large (%s)", name)
	}
	return data, nil
}

// splitArchivePath recognizes "archive#entry" locations. Existing file with
// "#" in its name is never treated as one.
func splitArchivePath(location string) (string, string, bool) {
	if !strings.Contains(location, "#") {
		return "", "", false
	}
	if fi, err := os.Stat(location); err == nil && fi.Mode().IsRegular() {
		return "", "", false
	}
	for i := range len(location) {
		if location[i] != '#' {
			continue
		}
		if fi, err := os.Stat(location[:i]); err == nil && fi.Mode().IsRegular() {
			return location[:i], location[i+1:], true
		}
	}
	return "", "", false
}
