package buildcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	buildMessageType    = "contentkit.pipeline.build"
	validateMessageType = "contentkit.pipeline.validate"
)

// BuildCommand runs a full build and writes its artifacts. Empty fields fall
// back to the handler's base configuration.
type BuildCommand struct {
	// ContentDir overrides the content root.
	ContentDir string `json:"content_dir,omitempty"`
	// OutputDir receives graph.json, backlinks.json, content.json and books.json.
	OutputDir string `json:"output_dir,omitempty"`
	// Workers overrides the render concurrency. Zero keeps the configured value.
	Workers int `json:"workers,omitempty"`
	// SkipBooks disables book collection for this run.
	SkipBooks bool `json:"skip_books,omitempty"`
	// HighlightCSS also writes the dual-theme code stylesheet.
	HighlightCSS bool `json:"highlight_css,omitempty"`
	// Export writes the snapshot to the configured database.
	Export bool `json:"export,omitempty"`
}

// Type implements command.Message.
func (BuildCommand) Type() string { return buildMessageType }

// Validate rejects negative worker counts and blank directory overrides.
func (cmd BuildCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Workers, validation.Min(0)),
		validation.Field(&cmd.ContentDir, validation.By(notBlank("contentkit.pipeline.build.content_dir_blank"))),
		validation.Field(&cmd.OutputDir, validation.By(notBlank("contentkit.pipeline.build.output_dir_blank"))),
	)
}

// ValidateCommand collects and validates content without rendering.
type ValidateCommand struct {
	ContentDir string `json:"content_dir,omitempty"`
}

// Type implements command.Message.
func (ValidateCommand) Type() string { return validateMessageType }

// Validate rejects a blank directory override.
func (cmd ValidateCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.ContentDir, validation.By(notBlank("contentkit.pipeline.validate.content_dir_blank"))),
	)
}

// notBlank accepts empty strings (no override) but rejects whitespace-only ones.
func notBlank(code string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != "" && strings.TrimSpace(s) == "" {
			return validation.NewError(code, "must not be blank")
		}
		return nil
	}
}
