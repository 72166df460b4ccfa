package main

import (
	"fmt"

	"github.com/spf13/cobra"

	buildcmd "github.com/goliatone/go-contentkit/internal/commands/build"
	"github.com/goliatone/go-contentkit/internal/content"
)

func (a *app) validateCommand() *cobra.Command {
	var msg buildcmd.ValidateCommand

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check frontmatter of every content file without rendering",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps := a.deps()
			deps.OnValidated = func(items []*content.Item) {
				fmt.Fprintf(a.stdout, "valid items=%d\n", len(items))
			}
			if err := dispatch[buildcmd.ValidateCommand](cmd.Context(), buildcmd.NewValidateHandler(deps), msg); err != nil {
				return a.fail(err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&msg.ContentDir, "content", "", "content directory (overrides content_dir)")
	return cmd
}
