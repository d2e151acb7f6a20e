package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	// GeometryConfig describes virtual physical page used by paginator. Sizes
	// are in inches, font size in points.
	GeometryConfig struct {
		PageWidth    float64 `yaml:"page_width" validate:"gt=0"`
		PageHeight   float64 `yaml:"page_height" validate:"gt=0"`
		Margin       float64 `yaml:"margin" validate:"gte=0"`
		FontSize     float64 `yaml:"font_size" validate:"gt=0"`
		LineHeight   float64 `yaml:"line_height" validate:"gte=1"`
		DPI          int     `yaml:"dpi" validate:"min=72"`
		CharsPerInch float64 `yaml:"chars_per_inch" validate:"gt=0"`
	}

	NavigationConfig struct {
		InitialZoom float64 `yaml:"initial_zoom" validate:"gtefield=MinZoom,ltefield=MaxZoom"`
		MinZoom     float64 `yaml:"min_zoom" validate:"gt=0"`
		MaxZoom     float64 `yaml:"max_zoom" validate:"gtfield=MinZoom"`
		ZoomStep    float64 `yaml:"zoom_step" validate:"gt=0"`
	}

	TOCConfig struct {
		ExcerptLength    int    `yaml:"excerpt_length" validate:"gte=0"`
		UntitledTemplate string `yaml:"untitled_template" validate:"required"`
		EntryTemplate    string `yaml:"entry_template" validate:"required"`
	}

	BookConfig struct {
		Geometry   GeometryConfig   `yaml:"geometry"`
		Navigation NavigationConfig `yaml:"navigation"`
		TOC        TOCConfig        `yaml:"toc"`
	}

	LibraryConfig struct {
		StoryExtensions  []string `yaml:"story_extensions" validate:"min=1,dive,required,startswith=."`
		SkipUnknownMedia bool     `yaml:"skip_unknown_media"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Book      BookConfig     `yaml:"book"`
		Library   LibraryConfig  `yaml:"library"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above, alternative is to use struct
	// field name and reflection which I want to avoid for now
	UntitledTemplateFieldName TemplateFieldName = "untitled_template"
	EntryTemplateFieldName    TemplateFieldName = "entry_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(UntitledTemplateFieldName)),
	gencfg.WithDoNotExpandField(string(EntryTemplateFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, fmt.Errorf("failed to validate configuration: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
