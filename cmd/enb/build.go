package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func buildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build [targets...]",
		Short: "Resolve and build the given targets (or every node with none given)",
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

			result, err := p.Build(ctx, args)
			if err != nil {
				return err
			}

			if err := p.SaveCache(ctx); err != nil {
				return fmt.Errorf("save cache: %w", err)
			}

			for _, target := range result.BuiltTargets {
				fmt.Fprintln(cmd.OutOrStdout(), target)
			}
			return nil
		},
	}
}
