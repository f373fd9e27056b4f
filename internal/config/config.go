// Package config loads and validates the webflow.yaml project file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the name of the project config file
	ConfigFileName = "webflow.yaml"

	// SourceExtension is the extension of webflow source files
	SourceExtension = ".webf"
)

// Config represents a webflow project configuration
type Config struct {
	// SourceDir is where `webflow build` and `webflow serve` look for sources
	SourceDir string `yaml:"source_dir"`

	// OutDir receives compiled files; empty writes them next to their source
	OutDir string `yaml:"out_dir,omitempty"`

	// Extension of compiled files
	Extension string `yaml:"extension" validate:"required,startswith=."`

	// Indent is written once per nesting level
	Indent string `yaml:"indent"`

	Minify    bool `yaml:"minify"`
	Recursive bool `yaml:"recursive"`

	// Workers bounds the number of files compiled in parallel
	Workers int `yaml:"workers" validate:"min=1,max=64"`

	Serve ServeConfig `yaml:"serve"`
}

// ServeConfig configures the development server
type ServeConfig struct {
	Addr     string        `yaml:"addr" validate:"required"`
	Interval time.Duration `yaml:"interval" validate:"gt=0"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their yaml names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	return &Config{
		SourceDir: ".",
		Extension: ".html",
		Indent:    "\t",
		Recursive: true,
		Workers:   4,
		Serve: ServeConfig{
			Addr:     ":8080",
			Interval: 300 * time.Millisecond,
		},
	}
}

// Load reads the config file at path. A missing file yields the defaults;
// fields absent from the file keep their default values.
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return config, nil
}

// LoadDir loads ConfigFileName from dir.
func LoadDir(dir string) (*Config, error) {
	return Load(filepath.Join(dir, ConfigFileName))
}

// Save validates config and writes it to path as YAML
func Save(config *Config, path string) error {
	if err := config.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks field constraints and reports every violation at once
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	msgs := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		msgs = append(msgs, validationMessage(e))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func validationMessage(e validator.FieldError) string {
	field := strings.TrimPrefix(e.Namespace(), "Config.")

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "startswith":
		return fmt.Sprintf("%s must start with %q", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// IndentString returns the indentation unit, a tab when unset
func (c *Config) IndentString() string {
	if c.Indent == "" {
		return "\t"
	}
	return c.Indent
}
