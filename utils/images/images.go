// Package images inspects pictures attached to stories and draws their
// character previews for text front end.
package images

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const svgType = "image/svg+xml"

// from dark to light
const ramp = "@%#*+=-:. "

// Info describes picture without decoding it completely.
type Info struct {
	Format string `yaml:"format" json:"format"`
	Width  int    `yaml:"width" json:"width"`
	Height int    `yaml:"height" json:"height"`
}

func (i Info) String() string {
	return fmt.Sprintf("%s %dx%d", i.Format, i.Width, i.Height)
}

func isSVG(contentType string) bool {
	return strings.EqualFold(strings.TrimSpace(contentType), svgType)
}

// Probe reads picture format and dimensions. Content type is only used to
// recognize SVG, everything else is detected by signature.
func Probe(data []byte, contentType string) (Info, error) {
	if isSVG(contentType) {
		icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
		if err != nil {
			return Info{}, fmt.Errorf("unable to read svg: %w", err)
		}
		w, h := svgSize(icon)
		return Info{Format: "svg", Width: w, Height: h}, nil
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("unable to read image: %w", err)
	}
	return Info{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// Decode decodes picture applying EXIF orientation. SVG is rasterized to
// the requested width.
func Decode(data []byte, contentType string, width int) (image.Image, error) {
	if isSVG(contentType) {
		return RasterizeSVG(data, width, 0)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("unable to decode image: %w", err)
	}
	return img, nil
}

// ASCII draws picture with characters, at most width columns and maxLines
// lines. Character cell is assumed to be twice as tall as wide. Trailing
// blanks are removed.
func ASCII(img image.Image, width, maxLines int) []string {
	b := img.Bounds()
	if width <= 0 || maxLines <= 0 || b.Empty() {
		return nil
	}

	aspect := float64(b.Dy()) / float64(b.Dx()) / 2
	height := int(math.Round(float64(width) * aspect))
	if height > maxLines {
		height = maxLines
		width = int(math.Round(float64(height) / aspect))
	}
	width, height = max(width, 1), max(height, 1)

	small := imaging.Resize(imaging.Grayscale(img), width, height, imaging.Box)
	lines := make([]string, 0, height)
	for y := range height {
		var sb strings.Builder
		for x := range width {
			c := small.NRGBAAt(x, y)
			// transparent is paper
			l := (int(c.R)*int(c.A) + 255*(255-int(c.A))) / 255
			sb.WriteByte(ramp[l*(len(ramp)-1)/255])
		}
		lines = append(lines, strings.TrimRight(sb.String(), " "))
	}
	return lines
}
