package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zxqfox/enb/internal/enbconfig"
	"github.com/zxqfox/enb/internal/enblog"
)

type ctxConfigKey struct{}

// RootCmd builds the enb command tree: a cobra root command whose
// PersistentPreRunE loads the CLI's own config and attaches a logger to
// the command context before any subcommand runs.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "enb",
		Short: "enb orchestrates a project's build graph",
		Long: `enb resolves build targets against a project's rule files, memoizes
node initialization, and drives concurrent build/clean across the
resolved nodes.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupGlobalConfig(cmd)
		},
	}

	root.PersistentFlags().StringP("dir", "C", "", "Project directory (defaults to the working directory)")
	root.PersistentFlags().StringP("mode", "m", "", "Build mode (defaults to YENV or \"development\")")
	root.PersistentFlags().String("log-level", "", "Logger level: debug, info, warn, error, disabled")
	root.PersistentFlags().String("config", "", "Path to the enb CLI's own config file")

	root.AddCommand(
		buildCmd(),
		cleanCmd(),
		graphCmd(),
		versionCmd(),
	)
	return root
}

func setupGlobalConfig(cmd *cobra.Command) error {
	cfg, err := enbconfig.Load(cmd)
	if err != nil {
		return fmt.Errorf("load enb config: %w", err)
	}

	level := enblog.InfoLevel
	switch cfg.LogLevel {
	case "debug":
		level = enblog.DebugLevel
	case "warn":
		level = enblog.WarnLevel
	case "error":
		level = enblog.ErrorLevel
	case "disabled":
		level = enblog.DisabledLevel
	}
	log := enblog.NewLogger(cmd.OutOrStderr(), level)

	ctx := enblog.ContextWithLogger(cmd.Context(), log)
	ctx = context.WithValue(ctx, ctxConfigKey{}, cfg)
	cmd.SetContext(ctx)
	return nil
}

func configFromContext(ctx context.Context) *enbconfig.Config {
	if v, ok := ctx.Value(ctxConfigKey{}).(*enbconfig.Config); ok {
		return v
	}
	return &enbconfig.Config{Mode: "", CWD: "."}
}
