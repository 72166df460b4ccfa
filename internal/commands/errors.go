package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to command failures that were not already categorised
// by the stage that produced them.
const (
	TextCodeCommandInvalid  = "CONTENTKIT_COMMAND_INVALID"
	TextCodeCommandCanceled = "CONTENTKIT_COMMAND_CANCELED"
	TextCodeCommandTimeout  = "CONTENTKIT_COMMAND_TIMEOUT"
	TextCodeCommandContext  = "CONTENTKIT_COMMAND_CONTEXT"
	TextCodeCommandFailed   = "CONTENTKIT_COMMAND_FAILED"
)

func wrapValidationError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command message rejected").
		WithTextCode(TextCodeCommandInvalid)
}

// wrapContextError matches with errors.Is so a cancellation surfaced through a
// pipeline step keeps its cancel/timeout code.
func wrapContextError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command cancelled").
			WithTextCode(TextCodeCommandCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command deadline exceeded").
			WithTextCode(TextCodeCommandTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command context error").
			WithTextCode(TextCodeCommandContext)
	}
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func wrapExecuteError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command failed").
		WithTextCode(TextCodeCommandFailed)
}
