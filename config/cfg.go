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

	ReadingConfig struct {
		FastWPM int `yaml:"fast_wpm" validate:"min=1"`
		SlowWPM int `yaml:"slow_wpm" validate:"min=1,ltefield=FastWPM"`
	}

	MentionsConfig struct {
		ExcerptRadius int `yaml:"excerpt_radius" validate:"min=0"`
		// empty means built in set
		BoundaryPunctuation string `yaml:"boundary_punctuation"`
	}

	AnnotationsConfig struct {
		DefaultAuthor string `yaml:"default_author" validate:"required"`
	}

	DocumentConfig struct {
		Reading     ReadingConfig     `yaml:"reading"`
		Mentions    MentionsConfig    `yaml:"mentions"`
		Annotations AnnotationsConfig `yaml:"annotations"`
	}

	RelationshipEventConfig struct {
		TitleTemplate       string `yaml:"title_template,omitempty"`
		DescriptionTemplate string `yaml:"description_template,omitempty"`
	}

	TimelineConfig struct {
		BornLabel string `yaml:"born_label" validate:"required"`
		DiedLabel string `yaml:"died_label" validate:"required,nefield=BornLabel"`
		// keyed by relationship type
		RelationshipEvents map[string]RelationshipEventConfig `yaml:"relationship_events"`
	}

	StoreConfig struct {
		Driver  StoreDriver `yaml:"driver"`
		Path    string      `yaml:"path" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
		Project string      `yaml:"project" validate:"required"`
	}

	ExportConfig struct {
		Title              string `yaml:"title" validate:"required"`
		Author             string `yaml:"author"`
		Lang               string `yaml:"lang" validate:"required"`
		OutputNameTemplate string `yaml:"output_name_template"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Document  DocumentConfig `yaml:"document"`
		Timeline  TimelineConfig `yaml:"timeline"`
		Store     StoreConfig    `yaml:"store"`
		Export    ExportConfig   `yaml:"export"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above, alternative is to use struct
	// field name and reflection which I want to avoid for now
	OutputNameTemplateFieldName  TemplateFieldName = "output_name_template"
	TitleTemplateFieldName       TemplateFieldName = "title_template"
	DescriptionTemplateFieldName TemplateFieldName = "description_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
	gencfg.WithDoNotExpandField(string(TitleTemplateFieldName)),
	gencfg.WithDoNotExpandField(string(DescriptionTemplateFieldName)),
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
			return nil, fmt.Errorf("configuration sanitizing failed: %w", err)
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to
// provide sane defaults and performs validation.
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
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
