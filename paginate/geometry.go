package paginate

import (
	"fmt"
	"math"

	"storybook/config"
)

const pointsPerInch = 72

// Geometry is the text capacity of a single page. It is an estimate derived
// from physical page description, no glyph measurement is involved.
type Geometry struct {
	CharsPerLine int `yaml:"chars_per_line" json:"chars_per_line" ion:"chars_per_line"`
	LinesPerPage int `yaml:"lines_per_page" json:"lines_per_page" ion:"lines_per_page"`
}

// Validate checks that geometry can hold text: hyphenation needs at least one
// character and a hyphen on a line.
func (g Geometry) Validate() error {
	if g.CharsPerLine < 2 {
		return fmt.Errorf("page line is too narrow: %d characters", g.CharsPerLine)
	}
	if g.LinesPerPage < 1 {
		return fmt.Errorf("page is too short: %d lines", g.LinesPerPage)
	}
	return nil
}

// floor tolerates accumulated floating point error, so 2.9999999 lines is 3.
func floor(v float64) int {
	return int(math.Floor(v + 1e-9))
}

// Measure derives page capacity from configured physical page:
//
//	chars per line = floor(content width in inches * chars per inch)
//	lines per page = floor(content height in px / line height in px)
//
// where line height in px is font size converted from points at configured
// DPI and multiplied by line height factor.
func Measure(cfg *config.GeometryConfig) (Geometry, error) {
	contentWidth := cfg.PageWidth - 2*cfg.Margin
	contentHeight := (cfg.PageHeight - 2*cfg.Margin) * float64(cfg.DPI)
	lineHeight := cfg.FontSize * float64(cfg.DPI) * cfg.LineHeight / pointsPerInch

	if contentWidth <= 0 || contentHeight <= 0 || lineHeight <= 0 {
		return Geometry{}, fmt.Errorf("margins leave no room for content on %vx%v page", cfg.PageWidth, cfg.PageHeight)
	}

	g := Geometry{
		CharsPerLine: floor(contentWidth * cfg.CharsPerInch),
		LinesPerPage: floor(contentHeight / lineHeight),
	}
	if err := g.Validate(); err != nil {
		return Geometry{}, err
	}
	return g, nil
}
