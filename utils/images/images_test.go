package images

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

// halves returns image with black left half and white right half.
func halves(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			if x >= w/2 {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("unable to encode png: %v", err)
	}
	return buf.Bytes()
}

func TestProbe(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 50"><rect width="100" height="50"/></svg>`)

	tests := []struct {
		name        string
		data        []byte
		contentType string
		want        Info
		wantErr     bool
	}{
		{"png", encodePNG(t, halves(20, 10)), "image/png", Info{Format: "png", Width: 20, Height: 10}, false},
		{"png with wrong type", encodePNG(t, halves(8, 4)), "image/jpeg", Info{Format: "png", Width: 8, Height: 4}, false},
		{"svg", svg, "image/svg+xml", Info{Format: "svg", Width: 100, Height: 50}, false},
		{"garbage", []byte("not an image"), "image/png", Info{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Probe(tt.data, tt.contentType)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Probe() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Probe() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInfo_String(t *testing.T) {
	if got := (Info{Format: "jpeg", Width: 640, Height: 480}).String(); got != "jpeg 640x480" {
		t.Errorf("String() = %q", got)
	}
}

func TestDecode(t *testing.T) {
	img, err := Decode(encodePNG(t, halves(20, 10)), "image/png", 0)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 10 {
		t.Errorf("bounds = %v", img.Bounds())
	}

	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 50"><rect width="100" height="50"/></svg>`)
	img, err = Decode(svg, "image/svg+xml", 10)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if img.Bounds().Dx() != 10 || img.Bounds().Dy() != 5 {
		t.Errorf("svg bounds = %v", img.Bounds())
	}

	if _, err := Decode([]byte("junk"), "image/png", 0); err == nil {
		t.Error("expected error for junk data")
	}
}

func TestASCII(t *testing.T) {
	img := halves(20, 10)

	lines := ASCII(img, 4, 10)
	if len(lines) != 1 || lines[0] != "@@" {
		t.Errorf("ASCII(4) = %q, want [\"@@\"]", lines)
	}

	lines = ASCII(img, 40, 5)
	if len(lines) != 5 {
		t.Fatalf("ASCII(40, 5) produced %d lines, want 5", len(lines))
	}
	for _, line := range lines {
		if len(line) > 20 || !strings.HasPrefix(line, "@") {
			t.Errorf("line = %q", line)
		}
	}

	if lines := ASCII(img, 0, 10); lines != nil {
		t.Errorf("ASCII(0) = %q, want nil", lines)
	}
	if lines := ASCII(image.NewGray(image.Rectangle{}), 10, 10); lines != nil {
		t.Errorf("ASCII(empty) = %q, want nil", lines)
	}
}
