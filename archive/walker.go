// Package archive walks files stored in zip archives, libraries of stories
// could be distributed this way.
package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"golang.org/x/text/encoding"
)

// WalkFunc is called for every regular file in archive visited by Walk. The
// name argument is slash separated path of the file in archive, converted to
// UTF-8 when code page was requested. If an error is returned, processing
// stops.
type WalkFunc func(name string, file *zip.File) error

// Walker visits files in zip archives.
type Walker struct {
	// Code page to decode file names not marked as UTF-8. Since zip "standard"
	// does not define file name encoding old archives may need it.
	CodePage encoding.Encoding
}

// Walk calls walkFn for each file in the archive with name starting with
// prefix, in the order they are stored. Entries with path traversal
// components ("..") or absolute paths make the whole archive invalid.
// Service entries left by some archivers (__MACOSX) are skipped.
func (w *Walker) Walk(ctx context.Context, archive, prefix string, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return err
		}

		name := w.decodeName(f)
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if f.FileInfo().IsDir() || strings.HasSuffix(name, "/") || isServiceEntry(name) {
			continue
		}
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if err := walkFn(name, f); err != nil {
			return err
		}
	}
	return nil
}

func (w *Walker) decodeName(f *zip.File) string {
	name := f.Name
	if w.CodePage == nil || !f.NonUTF8 {
		return name
	}
	if n, err := w.CodePage.NewDecoder().String(name); err == nil {
		return n
	}
	// leave name as is, it still could be used to access file
	return name
}

// ReadFile returns content of archived file refusing files larger than limit
// bytes (no limit when limit is not positive).
func ReadFile(f *zip.File, limit int64) ([]byte, error) {
	if limit > 0 && f.UncompressedSize64 > uint64(limit) {
		return nil, fmt.Errorf("zip entry %q is too large: %d bytes", f.Name, f.UncompressedSize64)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var r io.Reader = rc
	if limit > 0 {
		// do not trust header
		r = io.LimitReader(rc, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, fmt.Errorf("zip entry %q is too large", f.Name)
	}
	return data, nil
}

// ReadHead returns up to n first bytes of archived file, enough to detect its
// type by signature.
func ReadHead(f *zip.File, n int) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	buf := make([]byte, n)
	read, err := io.ReadFull(rc, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	return buf[:read], nil
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}

func isServiceEntry(name string) bool {
	return strings.HasPrefix(name, "__MACOSX/")
}
