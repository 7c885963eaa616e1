package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zxqfox/enb/internal/version"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the enb version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "enb version %s\n", version.Current)
		},
	}
}
