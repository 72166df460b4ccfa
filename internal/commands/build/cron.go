package buildcmd

import (
	"context"

	command "github.com/goliatone/go-command"
)

// DefaultCronExpression rebuilds the site once an hour when the build handler
// is registered with a cron scheduler.
const DefaultCronExpression = "@hourly"

var _ command.CronCommand = (*BuildHandler)(nil)

// CronHandler runs a build with the base configuration.
func (h *BuildHandler) CronHandler() func() error {
	return func() error {
		return h.Execute(context.Background(), BuildCommand{})
	}
}

// CronOptions returns the schedule configured through Deps.CronExpression.
func (h *BuildHandler) CronOptions() command.HandlerConfig {
	return h.cronConfig
}

// CLIHandler exposes the build handler to CLI integrations.
func (h *BuildHandler) CLIHandler() any {
	return h
}

// CLIOptions describes the CLI metadata for builds.
func (h *BuildHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"build"},
		Group:       "pipeline",
		Description: "Render content and write graph, backlinks and content artifacts",
	}
}

// CLIHandler exposes the validate handler to CLI integrations.
func (h *ValidateHandler) CLIHandler() any {
	return h
}

// CLIOptions describes the CLI metadata for validation.
func (h *ValidateHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"validate"},
		Group:       "pipeline",
		Description: "Check frontmatter of every content file without rendering",
	}
}
