package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func cleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [targets...]",
		Short: "Resolve and clean the given targets (or every node with none given)",
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

			if err := p.CleanTargets(ctx, args); err != nil {
				return err
			}

			return p.SaveCache(ctx)
		},
	}
}
