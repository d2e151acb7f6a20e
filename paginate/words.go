package paginate

import (
	"iter"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Paragraphs returns an iterator over non blank paragraphs of story text.
// Line endings are unified and text is brought to NFC so that composed and
// decomposed forms of the same text occupy the same room on a page.
func Paragraphs(content string) iter.Seq[string] {
	return func(yield func(string) bool) {
		content = strings.ReplaceAll(content, "\r\n", "\n")
		content = strings.ReplaceAll(content, "\r", "\n")
		content = norm.NFC.String(content)
		for para := range strings.SplitSeq(content, "\n") {
			if len(strings.TrimSpace(para)) == 0 {
				continue
			}
			if !yield(para) {
				return
			}
		}
	}
}

// Words returns an iterator over words of a paragraph. Runs of separators do
// not produce empty words. NBSP is not a separator - it glues words together.
func Words(in string) iter.Seq[string] {
	return func(yield func(string) bool) {
		start := -1
		for idx, sym := range in {
			if isSeparator(sym) {
				if start >= 0 {
					if !yield(in[start:idx]) {
						return
					}
					start = -1
				}
				continue
			}
			if start < 0 {
				start = idx
			}
		}
		if start >= 0 {
			yield(in[start:])
		}
	}
}

func isSeparator(r rune) bool {
	if uint32(r) <= unicode.MaxLatin1 {
		switch r {
		// exclude NBSP from the list of white space separators for latin1 symbols
		case '\t', '\n', '\v', '\f', '\r', ' ', 0x85:
			return true
		}
		return false
	}
	return unicode.IsSpace(r)
}
