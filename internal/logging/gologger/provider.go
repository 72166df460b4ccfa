// Package gologger adapts goliatone/go-logger to the contentkit logging
// interfaces.
package gologger

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-contentkit/internal/logging"
	"github.com/goliatone/go-contentkit/pkg/interfaces"
)

var (
	ErrUnknownFormat = errors.New("gologger: unsupported format")
	ErrUnknownLevel  = errors.New("gologger: unsupported level")
)

// Config mirrors the logging section of contentkit.yaml.
type Config struct {
	Level     string
	Format    string
	AddSource bool
	// Focus restricts output to the named modules. Short names such as
	// "pipeline" expand to "contentkit.pipeline".
	Focus []string
}

// Provider hands out go-logger child loggers named after pipeline modules.
type Provider struct {
	root  *glog.BaseLogger
	focus []string
}

// NewProvider builds a go-logger root from cfg.
func NewProvider(cfg Config) (*Provider, error) {
	options, err := options(cfg)
	if err != nil {
		return nil, err
	}

	root := glog.NewLogger(options...)
	focus := focusModules(cfg.Focus)
	if len(focus) > 0 {
		root.Focus(focus...)
	}
	return &Provider{root: root, focus: focus}, nil
}

// Focus returns the fully qualified modules the provider is restricted to.
func (p *Provider) Focus() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.focus...)
}

// GetLogger returns the child logger for name, or the root when name is blank.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil {
		return logging.NoOp()
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return wrap(p.root)
	}
	return wrap(p.root.GetLogger(name))
}

func options(cfg Config) ([]glog.Option, error) {
	var opts []glog.Option

	if raw := strings.TrimSpace(cfg.Level); raw != "" {
		level, ok := levels[strings.ToLower(raw)]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, cfg.Level)
		}
		opts = append(opts, glog.WithLevel(level))
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "console":
		opts = append(opts, glog.WithLoggerTypeConsole())
	case "json":
		opts = append(opts, glog.WithLoggerTypeJSON())
	case "pretty":
		opts = append(opts, glog.WithLoggerTypePretty())
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, cfg.Format)
	}

	if cfg.AddSource {
		opts = append(opts, glog.WithAddSource(true))
	}
	return opts, nil
}

var levels = map[string]string{
	"trace":   glog.Trace,
	"debug":   glog.Debug,
	"info":    glog.Info,
	"warn":    glog.Warn,
	"warning": glog.Warn,
	"error":   glog.Error,
	"fatal":   glog.Fatal,
}

func focusModules(names []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(names))
	for _, name := range names {
		module := logging.QualifiedModule(name)
		if module == "" {
			continue
		}
		if _, dup := seen[module]; dup {
			continue
		}
		seen[module] = struct{}{}
		out = append(out, module)
	}
	return out
}

func wrap(inner glog.Logger) interfaces.Logger {
	if inner == nil {
		return logging.NoOp()
	}
	return &adapter{inner: inner}
}

type adapter struct {
	inner glog.Logger
}

func (l *adapter) Trace(msg string, args ...any) { l.inner.Trace(msg, args...) }
func (l *adapter) Debug(msg string, args ...any) { l.inner.Debug(msg, args...) }
func (l *adapter) Info(msg string, args ...any)  { l.inner.Info(msg, args...) }
func (l *adapter) Warn(msg string, args ...any)  { l.inner.Warn(msg, args...) }
func (l *adapter) Error(msg string, args ...any) { l.inner.Error(msg, args...) }
func (l *adapter) Fatal(msg string, args ...any) { l.inner.Fatal(msg, args...) }

func (l *adapter) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	if with, ok := l.inner.(glog.FieldsLogger); ok {
		return wrap(with.WithFields(maps.Clone(fields)))
	}
	return l
}

func (l *adapter) WithContext(ctx context.Context) interfaces.Logger {
	if ctx == nil {
		return l
	}
	if fields := logging.ContextFields(ctx); len(fields) > 0 {
		return logging.WithFields(wrap(l.inner.WithContext(ctx)), fields)
	}
	return wrap(l.inner.WithContext(ctx))
}
