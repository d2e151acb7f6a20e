package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/amazon-ion/ion-go/ion"
	yaml "gopkg.in/yaml.v3"

	"storybook/common"
	"storybook/layout"
	"storybook/navigate"
)

// PageView is what structured output carries for a single page.
type PageView struct {
	Page     navigate.PageMapping `yaml:"page" json:"page" ion:"page"`
	Snapshot navigate.Snapshot    `yaml:"state" json:"state" ion:"state"`
}

// Marshal encodes value in requested structured format. Ion is written in its
// text form.
func Marshal(v any, format common.OutputFmt) ([]byte, error) {
	switch format {
	case common.OutputFmtYaml:
		buf := new(bytes.Buffer)
		enc := yaml.NewEncoder(buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("unable to encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("unable to encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	case common.OutputFmtJson:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("unable to encode json: %w", err)
		}
		return append(data, '\n'), nil
	case common.OutputFmtIon:
		data, err := ion.MarshalText(v)
		if err != nil {
			return nil, fmt.Errorf("unable to encode ion: %w", err)
		}
		return append(data, '\n'), nil
	}
	return nil, fmt.Errorf("unsupported structured format %s", format)
}

// Layout writes book layout in requested format. Text format is table of
// contents with page ranges of every story.
func (r *Renderer) Layout(b *layout.Book, format common.OutputFmt) error {
	if format != common.OutputFmtText {
		data, err := Marshal(b, format)
		if err != nil {
			return err
		}
		_, err = r.out.Write(data)
		return err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Pages: %d (%d characters x %d lines)\n",
		b.TotalPageCount, b.Geometry.CharsPerLine, b.Geometry.LinesPerPage)
	sb.WriteString(r.rule(b))
	sb.WriteByte('\n')
	lines, err := b.TOCLines()
	if err != nil {
		return err
	}
	for i, entry := range b.TOC() {
		sb.WriteString(lines[i])
		sb.WriteByte('\n')
		fmt.Fprintf(&sb, "    text %s, media %s (%d images, %d videos)\n",
			pageRange(entry.ContentPages), pageRange(entry.MediaPages), entry.Images, entry.Videos)
		if len(entry.Excerpt) > 0 {
			fmt.Fprintf(&sb, "    %s\n", entry.Excerpt)
		}
	}
	_, err = io.WriteString(r.out, sb.String())
	return err
}

// View writes resolved page in requested format.
func (r *Renderer) View(b *layout.Book, m navigate.PageMapping, snap navigate.Snapshot, format common.OutputFmt) error {
	if format == common.OutputFmtText {
		return r.Page(b, m, snap)
	}
	data, err := Marshal(&PageView{Page: m, Snapshot: snap}, format)
	if err != nil {
		return err
	}
	_, err = r.out.Write(data)
	return err
}

func pageRange(rng layout.Range) string {
	switch {
	case rng.Empty():
		return "none"
	case rng.Len() == 1:
		return fmt.Sprintf("%d", rng.First+1)
	}
	return fmt.Sprintf("%d-%d", rng.First+1, rng.Last+1)
}
