package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zxqfox/enb/internal/buildgraph"
)

// graphCmd initializes the nodes reachable from the given targets (or
// every node) and dumps the resulting build graph as YAML, useful for
// visualizing what build/clean would touch.
func graphCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graph [targets...]",
		Short: "Initialize the given targets' nodes and print the build graph as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)

			p, err := newPlatform(ctx, cfg.CWD, cfg.Mode)
			if err != nil {
				return err
			}
			defer func() { _ = p.Destruct(ctx) }()

			if err := p.LoadCache(ctx); err != nil {
				return fmt.Errorf("load cache: %w", err)
			}

			if err := p.InitTargets(ctx, args); err != nil {
				return err
			}

			graph, ok := p.GetBuildGraph().(*buildgraph.Graph)
			if !ok {
				return fmt.Errorf("build graph does not support YAML rendering")
			}
			out, err := graph.MarshalYAML()
			if err != nil {
				return fmt.Errorf("render build graph: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
