package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-contentkit/pkg/interfaces"
)

const (
	rootModule       = "contentkit"
	pipelineModule   = "contentkit.pipeline"
	markdownModule   = "contentkit.markdown"
	validationModule = "contentkit.validation"
	booksModule      = "contentkit.books"
	storeModule      = "contentkit.store"
)

const (
	fieldFilePath = "file_path"
	fieldType     = "content_type"
	fieldSlug     = "slug"
)

// QualifiedModule prefixes short module names ("pipeline", "store") with the
// contentkit root so they match the names handed to providers.
func QualifiedModule(name string) string {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return ""
	case name == rootModule, strings.HasPrefix(name, rootModule+"."):
		return name
	default:
		return rootModule + "." + name
	}
}

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// PipelineLogger returns the logger namespace reserved for build orchestration.
func PipelineLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, pipelineModule)
}

// MarkdownLogger returns the logger namespace reserved for collection and rendering.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// ValidationLogger returns the logger namespace reserved for schema validation.
func ValidationLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, validationModule)
}

// BooksLogger returns the logger namespace reserved for book collection.
func BooksLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, booksModule)
}

// StoreLogger returns the logger namespace reserved for snapshot exports.
func StoreLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, storeModule)
}

// WithItemContext enriches the logger with the file path, content type and
// slug of the item being processed. Empty values are skipped.
func WithItemContext(logger interfaces.Logger, path, contentType, slug string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldFilePath] = trimmed
	}
	if trimmed := strings.TrimSpace(contentType); trimmed != "" {
		fields[fieldType] = trimmed
	}
	if trimmed := strings.TrimSpace(slug); trimmed != "" {
		fields[fieldSlug] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
