package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/goliatone/go-contentkit/internal/runtimeconfig"
)

const (
	configName = "contentkit"
	envPrefix  = "CONTENTKIT"
)

// loadConfig merges defaults, contentkit.yaml (or path) and CONTENTKIT_*
// environment variables. A missing default config file is not an error.
func loadConfig(path string) (runtimeconfig.Config, string, error) {
	v := viper.New()
	registerDefaults(v, runtimeconfig.DefaultConfig())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	used := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return runtimeconfig.Config{}, "", fmt.Errorf("read config: %w", err)
		}
	} else {
		used = v.ConfigFileUsed()
	}

	cfg := runtimeconfig.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return runtimeconfig.Config{}, "", fmt.Errorf("decode config: %w", err)
	}
	return cfg, used, nil
}

func registerDefaults(v *viper.Viper, cfg runtimeconfig.Config) {
	v.SetDefault("content_dir", cfg.ContentDir)
	v.SetDefault("output_dir", cfg.OutputDir)
	v.SetDefault("workers", cfg.Workers)
	v.SetDefault("schema_version", cfg.SchemaVersion)
	v.SetDefault("taxonomy", cfg.Taxonomy)
	v.SetDefault("related_limit", cfg.RelatedLimit)
	v.SetDefault("command_timeout", cfg.CommandTimeout)
	v.SetDefault("markdown.extensions", cfg.Markdown.Extensions)
	v.SetDefault("markdown.sanitize", cfg.Markdown.Sanitize)
	v.SetDefault("markdown.hard_wraps", cfg.Markdown.HardWraps)
	v.SetDefault("markdown.highlight_languages", cfg.Markdown.HighlightLanguages)
	v.SetDefault("markdown.light_theme", cfg.Markdown.LightTheme)
	v.SetDefault("markdown.dark_theme", cfg.Markdown.DarkTheme)
	v.SetDefault("books.enabled", cfg.Books.Enabled)
	v.SetDefault("books.dir", cfg.Books.Dir)
	v.SetDefault("export.enabled", cfg.Export.Enabled)
	v.SetDefault("export.driver", cfg.Export.Driver)
	v.SetDefault("export.dsn", cfg.Export.DSN)
	v.SetDefault("logging.provider", cfg.Logging.Provider)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.add_source", cfg.Logging.AddSource)
	v.SetDefault("logging.focus", cfg.Logging.Focus)
}
