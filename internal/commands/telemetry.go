package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-contentkit/internal/logging"
	"github.com/goliatone/go-contentkit/internal/validation"
	"github.com/goliatone/go-contentkit/pkg/interfaces"
)

// TelemetryStatus is the outcome class of one command run.
type TelemetryStatus string

const (
	TelemetryStatusSuccess      TelemetryStatus = "success"
	TelemetryStatusFailed       TelemetryStatus = "failed"
	TelemetryStatusInvalid      TelemetryStatus = "invalid"
	TelemetryStatusContextError TelemetryStatus = "context_error"
)

// TelemetryInfo describes a finished command run.
type TelemetryInfo struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Status    TelemetryStatus
	// Issues is the number of content validation issues carried by Error.
	Issues int
	Logger interfaces.Logger
}

// Telemetry is invoked once after every command run.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// DefaultTelemetry logs the outcome with logger. Cancellations are warnings;
// content validation failures are logged with their issue count.
func DefaultTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	if logger == nil {
		logger = logging.NoOp()
	}
	return func(ctx context.Context, _ T, info TelemetryInfo) {
		entry := logging.WithFields(logger, info.Fields)
		args := []any{"duration_ms", info.Duration.Milliseconds()}
		switch info.Status {
		case TelemetryStatusSuccess:
			entry.Info("command.execute.success", args...)
		case TelemetryStatusInvalid:
			entry.Error("command.execute.invalid_content", append(args, "issues", info.Issues)...)
		case TelemetryStatusContextError:
			entry.Warn("command.execute.cancelled", append(args, "error", info.Error)...)
		default:
			entry.Error("command.execute.failed", append(args, "error", info.Error)...)
		}
	}
}

func classify(err error) (TelemetryStatus, int) {
	if err == nil {
		return TelemetryStatusSuccess, 0
	}
	if issues := validation.Issues(err); len(issues) > 0 {
		return TelemetryStatusInvalid, len(issues)
	}
	if isContextError(err) {
		return TelemetryStatusContextError, 0
	}
	return TelemetryStatusFailed, 0
}
