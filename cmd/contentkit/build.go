package main

import (
	"fmt"

	"github.com/spf13/cobra"

	buildcmd "github.com/goliatone/go-contentkit/internal/commands/build"
)

func (a *app) buildCommand() *cobra.Command {
	var msg buildcmd.BuildCommand

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render content and write graph, backlinks and content artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps := a.deps()
			deps.OnBuilt = func(report buildcmd.Report) {
				result := report.Result
				fmt.Fprintf(a.stdout, "built items=%d books=%d links=%d output=%s\n",
					len(result.Items), len(result.Books), len(result.Graph.Links), report.OutputDir)
				for _, timing := range result.Timings {
					fmt.Fprintf(a.stdout, "  %-9s %s\n", timing.Step, timing.Duration)
				}
				if report.Export != nil {
					fmt.Fprintf(a.stdout, "exported items=%d books=%d backlinks=%d links=%d\n",
						report.Export.Items, report.Export.Books, report.Export.Backlinks, report.Export.Links)
				}
			}

			if err := dispatch[buildcmd.BuildCommand](cmd.Context(), buildcmd.NewBuildHandler(deps), msg); err != nil {
				return a.fail(err)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&msg.ContentDir, "content", "", "content directory (overrides content_dir)")
	flags.StringVar(&msg.OutputDir, "output", "", "output directory (overrides output_dir)")
	flags.IntVar(&msg.Workers, "workers", 0, "render workers, 0 uses the configured value")
	flags.BoolVar(&msg.HighlightCSS, "css", false, "also write highlight.css")
	flags.BoolVar(&msg.Export, "export", false, "export the snapshot to the configured database")
	flags.BoolVar(&msg.SkipBooks, "no-books", false, "skip book collection")
	return cmd
}
