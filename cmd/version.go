package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), formatVersion(info))
			return err
		},
	}
}

func formatVersion(info BuildInfo) string {
	return fmt.Sprintf("focusdash %s (commit %s, built %s)", info.Version, info.Commit, info.Date)
}
