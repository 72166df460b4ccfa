package contentkit

import (
	buildcmd "github.com/goliatone/go-contentkit/internal/commands/build"
	"github.com/goliatone/go-contentkit/internal/runtimeconfig"
)

var (
	ErrContentDirRequired       = runtimeconfig.ErrContentDirRequired
	ErrOutputDirRequired        = runtimeconfig.ErrOutputDirRequired
	ErrWorkersInvalid           = runtimeconfig.ErrWorkersInvalid
	ErrSchemaVersionUnsupported = runtimeconfig.ErrSchemaVersionUnsupported
	ErrMarkdownExtensionUnknown = runtimeconfig.ErrMarkdownExtensionUnknown
	ErrBooksDirRequired         = runtimeconfig.ErrBooksDirRequired
	ErrExportDriverUnknown      = runtimeconfig.ErrExportDriverUnknown
	ErrExportDSNRequired        = runtimeconfig.ErrExportDSNRequired
	ErrLoggingProviderRequired  = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown   = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid      = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid     = runtimeconfig.ErrLoggingFormatInvalid
	ErrCommandTimeoutInvalid    = runtimeconfig.ErrCommandTimeoutInvalid
)

type (
	Config         = runtimeconfig.Config
	MarkdownConfig = runtimeconfig.MarkdownConfig
	BooksConfig    = runtimeconfig.BooksConfig
	ExportConfig   = runtimeconfig.ExportConfig
	LoggingConfig  = runtimeconfig.LoggingConfig

	BuildCommand    = buildcmd.BuildCommand
	ValidateCommand = buildcmd.ValidateCommand
	BuildReport     = buildcmd.Report
)

// DefaultConfig returns the settings used when no config file is present.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
