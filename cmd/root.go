package main

import (
	"fmt"
	"os"
	"path/filepath"

	"focusdash/internal/platform"
	"focusdash/internal/storage"

	"github.com/spf13/cobra"
)

const (
	appName = "FocusDash"
	appID   = "com.focusdash.app"
)

// Set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

type globalFlags struct {
	verbose    bool
	configDir  string
	background bool
}

func newRootCmd(info BuildInfo) *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "focusdash",
		Short: "Pomodoro timer for the system tray",
		Long: `FocusDash runs a pomodoro timer from the system tray.

Focus sessions alternate with short breaks, and every few sessions a long
break. Progress, streaks and the current focus task are kept between runs.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := resolveConfigDir(flags.configDir)
			if err != nil {
				return err
			}
			return runApp(cmd.Context(), flags, dir)
		},
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "directory holding settings.yaml and state.yaml")
	cmd.Flags().BoolVar(&flags.background, "background", false, "start in the tray without opening the dashboard")
	_ = cmd.Flags().MarkHidden("background")

	cmd.AddCommand(newStatsCmd(flags))
	cmd.AddCommand(newVersionCmd(info))
	return cmd
}

func resolveConfigDir(override string) (string, error) {
	if override != "" {
		absolute, err := filepath.Abs(override)
		if err != nil {
			return "", fmt.Errorf("resolve config dir: %w", err)
		}
		override = absolute
	}
	if override == "" && os.Getenv("FOCUSDASH_CONFIG_DIR") == "" {
		base, err := platform.NewService().GetConfigDir()
		if err != nil {
			return "", err
		}
		return storage.ResolveDir("", base, appName), nil
	}
	return storage.ResolveDir(override, "", appName), nil
}
