// Package common holds enumerations shared between configuration, engine and
// command line front end.
package common

//go:generate go tool go-enum --names --marshal

// Kind of media item attached to a story, derived from its content type.
// ENUM(unknown, image, video)
type MediaKind int

// Specification of requested output type for layout dumps.
// ENUM(text, yaml, json, ion)
type OutputFmt int

// Kind of content found at a global page index.
// ENUM(cover, text, media)
type PageKind int

// Navigation command applied to an open book.
// ENUM(next, prev, jump, story, bookmark, nextBookmark, prevBookmark, zoomIn, zoomOut, toc)
type Action int

// TakesArgument reports whether action requires numeric argument.
func (a Action) TakesArgument() bool {
	return a == ActionJump || a == ActionStory
}
