package validation

import (
	"errors"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// TextCodeContentInvalid tags aggregate content validation failures.
const TextCodeContentInvalid = "CONTENT_VALIDATION_FAILED"

// Issue is a single labelled violation found in one file.
type Issue struct {
	FilePath string `json:"filepath"`
	Message  string `json:"message"`
}

func (i Issue) String() string {
	return i.FilePath + ": " + i.Message
}

// Error aggregates every violation found across a batch.
type Error struct {
	Issues []Issue
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d validation error(s)", len(e.Issues))
	for _, issue := range e.Issues {
		b.WriteString("\n  ")
		b.WriteString(issue.String())
	}
	return b.String()
}

func wrapIssues(issues []Issue) error {
	agg := &Error{Issues: issues}
	return goerrors.Wrap(agg, goerrors.CategoryValidation, fmt.Sprintf("%d validation error(s)", len(issues))).
		WithTextCode(TextCodeContentInvalid)
}

// Issues extracts the violations carried by err, or nil when err is not a
// content validation failure.
func Issues(err error) []Issue {
	if err == nil {
		return nil
	}
	var agg *Error
	if errors.As(err, &agg) && agg != nil {
		return agg.Issues
	}
	return nil
}
