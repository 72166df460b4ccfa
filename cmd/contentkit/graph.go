package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	buildcmd "github.com/goliatone/go-contentkit/internal/commands/build"
	"github.com/goliatone/go-contentkit/internal/markdown"
	"github.com/goliatone/go-contentkit/internal/taxonomy"
)

func (a *app) graphCommand() *cobra.Command {
	var (
		contentDir string
		backlinks  bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the knowledge graph (or backlinks) as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if contentDir != "" {
				cfg.ContentDir = contentDir
			}
			if err := cfg.Validate(); err != nil {
				return a.fail(err)
			}
			p, err := buildcmd.NewPipeline(cfg, a.deps())
			if err != nil {
				return a.fail(err)
			}
			result, err := p.Build(cmd.Context())
			if err != nil {
				return a.fail(err)
			}

			var value any = result.Graph
			if backlinks {
				value = result.Backlinks
			}
			data, err := buildcmd.EncodeJSON(value)
			if err != nil {
				return a.fail(err)
			}
			_, err = a.stdout.Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&contentDir, "content", "", "content directory (overrides content_dir)")
	cmd.Flags().BoolVar(&backlinks, "backlinks", false, "print the backlinks map instead of the graph")
	return cmd
}

func (a *app) cssCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "css",
		Short: "Print the light/dark code highlighting stylesheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := markdown.HighlightCSS(a.stdout, a.cfg.Markdown.LightTheme, a.cfg.Markdown.DarkTheme); err != nil {
				return a.fail(err)
			}
			return nil
		},
	}
}

func (a *app) taxonomyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "taxonomy",
		Short: "List the canonical tags and callout types content is checked against",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tax := taxonomy.Default()
			if path := strings.TrimSpace(a.cfg.Taxonomy); path != "" {
				loaded, err := taxonomy.Load(path)
				if err != nil {
					return a.fail(err)
				}
				tax = loaded
			}
			fmt.Fprintf(a.stdout, "tags: %s\n", strings.Join(tax.Tags(), ", "))
			fmt.Fprintf(a.stdout, "callouts: %s\n", strings.Join(tax.Callouts(), ", "))
			return nil
		},
	}
}
