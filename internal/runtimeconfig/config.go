package runtimeconfig

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-contentkit/internal/content"
	"github.com/goliatone/go-contentkit/internal/logging/console"
	"github.com/goliatone/go-contentkit/internal/logging/gologger"
	"github.com/goliatone/go-contentkit/internal/markdown"
	"github.com/goliatone/go-contentkit/pkg/interfaces"
)

var ErrContentDirRequired = errors.New("contentkit config: content directory is required")
var ErrOutputDirRequired = errors.New("contentkit config: output directory is required")
var ErrWorkersInvalid = errors.New("contentkit config: workers must be zero or positive")
var ErrSchemaVersionUnsupported = errors.New("contentkit config: unsupported schema version")
var ErrMarkdownExtensionUnknown = errors.New("contentkit config: markdown extension is unknown")
var ErrBooksDirRequired = errors.New("contentkit config: books directory is required when books are enabled")
var ErrExportDriverUnknown = errors.New("contentkit config: export driver is invalid")
var ErrCommandTimeoutInvalid = errors.New("contentkit config: command timeout must be zero or positive")
var ErrExportDSNRequired = errors.New("contentkit config: export dsn is required when export is enabled")
var ErrLoggingProviderRequired = errors.New("contentkit config: logging provider is required")
var ErrLoggingProviderUnknown = errors.New("contentkit config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("contentkit config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("contentkit config: logging format is invalid")

// Config aggregates everything a build needs. Field names double as the keys
// of contentkit.yaml.
type Config struct {
	ContentDir    string         `mapstructure:"content_dir" yaml:"content_dir"`
	OutputDir     string         `mapstructure:"output_dir" yaml:"output_dir"`
	Workers       int            `mapstructure:"workers" yaml:"workers"`
	SchemaVersion int            `mapstructure:"schema_version" yaml:"schema_version"`
	Taxonomy      string         `mapstructure:"taxonomy" yaml:"taxonomy"`
	RelatedLimit  int            `mapstructure:"related_limit" yaml:"related_limit"`
	Markdown      MarkdownConfig `mapstructure:"markdown" yaml:"markdown"`
	Books         BooksConfig    `mapstructure:"books" yaml:"books"`
	Export        ExportConfig   `mapstructure:"export" yaml:"export"`
	Logging       LoggingConfig  `mapstructure:"logging" yaml:"logging"`

	// CommandTimeout bounds build and validate commands. Zero means no deadline.
	CommandTimeout time.Duration `mapstructure:"command_timeout" yaml:"command_timeout"`
}

// MarkdownConfig mirrors interfaces.RenderOptions plus the highlight themes.
type MarkdownConfig struct {
	Extensions         []string `mapstructure:"extensions" yaml:"extensions"`
	Sanitize           bool     `mapstructure:"sanitize" yaml:"sanitize"`
	HardWraps          bool     `mapstructure:"hard_wraps" yaml:"hard_wraps"`
	HighlightLanguages []string `mapstructure:"highlight_languages" yaml:"highlight_languages"`
	LightTheme         string   `mapstructure:"light_theme" yaml:"light_theme"`
	DarkTheme          string   `mapstructure:"dark_theme" yaml:"dark_theme"`
}

// BooksConfig controls book collection.
type BooksConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Dir     string `mapstructure:"dir" yaml:"dir"`
}

// ExportConfig controls the SQL snapshot export.
type ExportConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Driver  string `mapstructure:"driver" yaml:"driver"`
	DSN     string `mapstructure:"dsn" yaml:"dsn"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `mapstructure:"provider" yaml:"provider"`
	Level     string   `mapstructure:"level" yaml:"level"`
	Format    string   `mapstructure:"format" yaml:"format"`
	AddSource bool     `mapstructure:"add_source" yaml:"add_source"`
	Focus     []string `mapstructure:"focus" yaml:"focus"`
}

// DefaultConfig returns the settings used when no config file is present.
func DefaultConfig() Config {
	return Config{
		ContentDir:    "content",
		OutputDir:     "dist",
		Workers:       0,
		SchemaVersion: content.SchemaVersion,
		RelatedLimit:  3,
		Markdown: MarkdownConfig{
			Extensions: append([]string(nil), markdown.DefaultExtensions...),
			LightTheme: markdown.DefaultLightTheme,
			DarkTheme:  markdown.DefaultDarkTheme,
		},
		Books: BooksConfig{
			Enabled: true,
			Dir:     "books",
		},
		Export: ExportConfig{
			Driver: "sqlite3",
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// RenderOptions converts the markdown section for the renderer.
func (cfg Config) RenderOptions() interfaces.RenderOptions {
	return interfaces.RenderOptions{
		Extensions:         append([]string(nil), cfg.Markdown.Extensions...),
		Sanitize:           cfg.Markdown.Sanitize,
		HardWraps:          cfg.Markdown.HardWraps,
		HighlightLanguages: append([]string(nil), cfg.Markdown.HighlightLanguages...),
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.ContentDir) == "" {
		return ErrContentDirRequired
	}
	if strings.TrimSpace(cfg.OutputDir) == "" {
		return ErrOutputDirRequired
	}
	if err := validation.Validate(cfg.Workers, validation.Min(0)); err != nil {
		return fmt.Errorf("%w: %v", ErrWorkersInvalid, err)
	}
	if cfg.CommandTimeout < 0 {
		return fmt.Errorf("%w: %s", ErrCommandTimeoutInvalid, cfg.CommandTimeout)
	}
	if cfg.SchemaVersion != 0 && cfg.SchemaVersion != content.SchemaVersion {
		return fmt.Errorf("%w: %d", ErrSchemaVersionUnsupported, cfg.SchemaVersion)
	}
	known := markdown.ExtensionNames()
	for _, ext := range cfg.Markdown.Extensions {
		if err := validation.Validate(strings.ToLower(strings.TrimSpace(ext)), validation.In(toAny(known)...)); err != nil {
			return fmt.Errorf("%w: %s", ErrMarkdownExtensionUnknown, ext)
		}
	}
	if cfg.Books.Enabled && strings.TrimSpace(cfg.Books.Dir) == "" {
		return ErrBooksDirRequired
	}
	if cfg.Export.Enabled {
		if !isSupportedDriver(cfg.Export.Driver) {
			return fmt.Errorf("%w: %s", ErrExportDriverUnknown, cfg.Export.Driver)
		}
		if strings.TrimSpace(cfg.Export.DSN) == "" {
			return ErrExportDSNRequired
		}
	}
	return cfg.Logging.Validate()
}

// Validate checks the logging section on its own.
func (cfg LoggingConfig) Validate() error {
	provider := normalizeProvider(cfg.Provider)
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

// NewLoggerProvider builds the configured provider. The console provider
// writes to w.
func (cfg LoggingConfig) NewLoggerProvider(w io.Writer) (interfaces.LoggerProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch normalizeProvider(cfg.Provider) {
	case "gologger":
		return gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
	default:
		level := console.ParseLevel(cfg.Level)
		return console.NewProvider(console.Options{Writer: w, MinLevel: &level}), nil
	}
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}

func isSupportedDriver(driver string) bool {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlite3", "sqlite", "postgres", "pg":
		return true
	default:
		return false
	}
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
