// Package config handles texdoc configuration loading and defaults.
//
// Configuration is read from YAML and may be overridden from the
// environment:
//
//	TEXDOC_ENGINE     render.engine
//	TEXDOC_PASSES     render.passes
//	TEXDOC_WORKDIR    render.workdir
//	TEXDOC_KEEP       render.keep
//	TEXDOC_FONT       preamble.font
//	TEXDOC_LOG_LEVEL  log_level
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/texdoc/latex"
	"github.com/tsawler/texdoc/render"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("config: invalid configuration")

// Config holds all texdoc configuration.
type Config struct {
	Render   RenderConfig   `yaml:"render"`
	Preamble PreambleConfig `yaml:"preamble"`
	Document DocumentConfig `yaml:"document"`
	LogLevel string         `yaml:"log_level"`
}

// RenderConfig configures the PDF render driver.
type RenderConfig struct {
	Engine  string   `yaml:"engine"`
	Args    []string `yaml:"args"`
	Passes  int      `yaml:"passes"`
	WorkDir string   `yaml:"workdir"`
	JobName string   `yaml:"job_name"`
	Keep    bool     `yaml:"keep"`
}

// PreambleConfig configures the document preamble. Template is a path to a
// preamble file; empty means the built-in template. A relative path is
// resolved against the directory of the configuration file.
type PreambleConfig struct {
	Template string `yaml:"template"`
	Font     string `yaml:"font"`
	Title    string `yaml:"title"`
	Author   string `yaml:"author"`
	Date     string `yaml:"date"`
}

// DocumentConfig selects the front matter of a document.
type DocumentConfig struct {
	IncludeTitle    bool `yaml:"include_title"`
	CoverPage       bool `yaml:"cover_page"`
	TableOfContents bool `yaml:"toc"`
	ListOfFigures   bool `yaml:"lof"`
	ListOfTables    bool `yaml:"lot"`
}

// Default returns a configuration with default values.
func Default() *Config {
	r := render.DefaultConfig()
	d := latex.DefaultDocumentOptions()
	return &Config{
		Render: RenderConfig{
			Engine: r.Engine,
			Args:   r.Args,
			Passes: r.Passes,
		},
		Document: DocumentConfig{
			IncludeTitle:    d.IncludeTitle,
			CoverPage:       d.CoverPage,
			TableOfContents: d.TableOfContents,
			ListOfFigures:   d.ListOfFigures,
			ListOfTables:    d.ListOfTables,
		},
		LogLevel: "info",
	}
}

// Load reads configuration from a YAML file. Missing keys keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if t := cfg.Preamble.Template; t != "" && !filepath.IsAbs(t) {
		cfg.Preamble.Template = filepath.Join(filepath.Dir(path), t)
	}
	return cfg, nil
}

// LoadOrDefault loads config from path, or returns defaults if the file
// doesn't exist.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from TEXDOC_* environment variables.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(os.LookupEnv)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("TEXDOC_ENGINE"); ok {
		c.Render.Engine = v
	}
	if v, ok := lookup("TEXDOC_PASSES"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("TEXDOC_PASSES: %w", err)
		}
		c.Render.Passes = n
	}
	if v, ok := lookup("TEXDOC_WORKDIR"); ok {
		c.Render.WorkDir = v
	}
	if v, ok := lookup("TEXDOC_KEEP"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("TEXDOC_KEEP: %w", err)
		}
		c.Render.Keep = b
	}
	if v, ok := lookup("TEXDOC_FONT"); ok {
		c.Preamble.Font = v
	}
	if v, ok := lookup("TEXDOC_LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	return nil
}

// Validate checks the configuration for values no component accepts.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Render.Engine) == "" {
		return fmt.Errorf("%w: render.engine is empty", ErrInvalid)
	}
	if c.Render.Passes < 1 {
		return fmt.Errorf("%w: render.passes must be at least 1", ErrInvalid)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel. An empty level is info.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return l, fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	return l, nil
}

// RenderConfig converts the render section into a render.Config.
func (c *Config) RenderConfig() render.Config {
	return render.Config{
		Engine:  c.Render.Engine,
		Args:    append([]string(nil), c.Render.Args...),
		Passes:  c.Render.Passes,
		WorkDir: c.Render.WorkDir,
		JobName: c.Render.JobName,
		Keep:    c.Render.Keep,
	}
}

// PreambleOptions loads the configured template and returns the preamble
// options.
func (c *Config) PreambleOptions() (latex.PreambleOptions, error) {
	opts := latex.PreambleOptions{
		Font:   c.Preamble.Font,
		Title:  c.Preamble.Title,
		Author: c.Preamble.Author,
		Date:   c.Preamble.Date,
	}
	if c.Preamble.Template != "" {
		tpl, err := latex.LoadTemplate(c.Preamble.Template)
		if err != nil {
			return opts, err
		}
		opts.Template = tpl
	}
	return opts, nil
}

// DocumentOptions converts the document section.
func (c *Config) DocumentOptions() latex.DocumentOptions {
	return latex.DocumentOptions{
		IncludeTitle:    c.Document.IncludeTitle,
		CoverPage:       c.Document.CoverPage,
		TableOfContents: c.Document.TableOfContents,
		ListOfFigures:   c.Document.ListOfFigures,
		ListOfTables:    c.Document.ListOfTables,
	}
}
