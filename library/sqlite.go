package library

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"storybook/book"
)

// Expected database layout. Additional tables and columns are ignored.
//
//	CREATE TABLE stories (
//	    id         TEXT PRIMARY KEY,
//	    title      TEXT,
//	    content    TEXT NOT NULL,
//	    created_at TEXT
//	);
//	CREATE TABLE media (
//	    id           TEXT PRIMARY KEY,
//	    story_id     TEXT NOT NULL REFERENCES stories(id),
//	    content_type TEXT NOT NULL,
//	    file_path    TEXT NOT NULL,
//	    caption      TEXT,
//	    created_at   TEXT
//	);
const (
	selectStories = `SELECT id, title, content, created_at FROM stories ORDER BY created_at, rowid`
	selectMedia   = `SELECT id, story_id, content_type, file_path, caption, created_at FROM media ORDER BY rowid`
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// LoadSQLite reads library from SQLite database. Database is opened read
// only, stories are ordered by creation time.
func (l *Loader) LoadSQLite(ctx context.Context, src string) (*book.Library, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conn, err := sqlite.OpenConn(src, sqlite.OpenReadOnly)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}
	defer conn.Close()
	conn.SetInterrupt(ctx.Done())

	var stories []book.Story
	err = sqlitex.Execute(conn, selectStories,
		&sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
			stories = append(stories, book.Story{
				ID:        stmt.ColumnText(0),
				Title:     nullableText(stmt, 1),
				Content:   l.decodeText(stmt.ColumnText(0), []byte(stmt.ColumnText(2))),
				CreatedAt: l.parseTime(stmt, 3),
			})
			return nil
		}})
	if err != nil {
		return nil, fmt.Errorf("unable to read stories: %w", err)
	}

	var media []book.MediaItem
	err = sqlitex.Execute(conn, selectMedia,
		&sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
			media = append(media, book.MediaItem{
				ID:          stmt.ColumnText(0),
				StoryID:     stmt.ColumnText(1),
				ContentType: stmt.ColumnText(2),
				FilePath:    stmt.ColumnText(3),
				Caption:     nullableText(stmt, 4),
				CreatedAt:   l.parseTime(stmt, 5),
			})
			return nil
		}})
	if err != nil {
		return nil, fmt.Errorf("unable to read media: %w", err)
	}

	return l.assemble(stories, media, true)
}

func nullableText(stmt *sqlite.Stmt, col int) *string {
	if stmt.ColumnType(col) == sqlite.TypeNull {
		return nil
	}
	s := stmt.ColumnText(col)
	return &s
}

func (l *Loader) parseTime(stmt *sqlite.Stmt, col int) time.Time {
	if stmt.ColumnType(col) == sqlite.TypeNull {
		return time.Time{}
	}
	if stmt.ColumnType(col) == sqlite.TypeInteger {
		return time.Unix(stmt.ColumnInt64(col), 0).UTC()
	}
	return l.timeFromText(stmt.ColumnText(col))
}

// timeFromText parses time stored as text in one of known layouts.
func (l *Loader) timeFromText(s string) time.Time {
	if len(s) == 0 {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	l.log.Warn("Unable to parse creation time, ignoring", zap.String("value", s))
	return time.Time{}
}
