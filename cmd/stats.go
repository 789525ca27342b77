package main

import (
	"fmt"
	"io"
	"time"

	"focusdash/internal/core/clock"
	"focusdash/internal/core/model"
	"focusdash/internal/core/session"
	"focusdash/internal/core/tasks"
	"focusdash/internal/logging"
	"focusdash/internal/storage"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

type statsStyles struct {
	header lipgloss.Style
	key    lipgloss.Style
	focus  lipgloss.Style
	done   lipgloss.Style
	dim    lipgloss.Style
}

func newStatsStyles() *statsStyles {
	return &statsStyles{
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#E5483B")),
		key: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")),
		focus: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFD700")),
		done: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF87")),
		dim: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")),
	}
}

func newStatsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print saved statistics and tasks",
		Long: `Print the statistics and task list saved by the tray app.

The files are only read; the running app is not contacted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := resolveConfigDir(flags.configDir)
			if err != nil {
				return err
			}
			logger := logging.New(logging.Options{Verbose: flags.verbose, Console: cmd.ErrOrStderr()})
			defer func() {
				_ = logger.Close()
			}()

			snapshot, found := storage.NewStore(dir, logger.Logger).Load()
			return printStats(cmd.OutOrStdout(), snapshot, found, time.Now(), newStatsStyles())
		},
	}
}

func printStats(w io.Writer, snapshot model.Snapshot, found bool, now time.Time, styles *statsStyles) error {
	if !found {
		_, err := fmt.Fprintln(w, styles.dim.Render("No saved sessions yet."))
		return err
	}

	stats := snapshot.Stats
	timer := snapshot.Timer
	row := func(key, value string) string {
		return fmt.Sprintf("%s %s\n", styles.key.Render(fmt.Sprintf("%-15s", key+":")), value)
	}

	out := styles.header.Render("Statistics") + "\n"
	out += row("Pomodoros", fmt.Sprintf("%d total, %d today", stats.CompletedPomodoros, session.CompletedOn(stats, now)))
	out += row("Focus time", formatSeconds(stats.TotalFocusSeconds))
	out += row("Break time", formatSeconds(stats.TotalBreakSeconds))
	out += row("Streak", fmt.Sprintf("%d days (best %d)", session.StreakOn(stats, now), stats.BestStreakDays))
	if stats.LastCompletionDate != "" {
		out += row("Last completed", stats.LastCompletionDate)
	}
	out += row("Timer", fmt.Sprintf("%s %s, %d pomodoros this run",
		timer.Phase.Label(), formatClock(timer.RemainingSeconds), timer.CompletedWorkPhases))

	board := tasks.NewBoard(snapshot.Tasks, snapshot.FocusTaskID, clock.RealClock{})
	counts := board.Counts()
	open := counts[model.TaskTodo] + counts[model.TaskInProgress]
	out += "\n" + styles.header.Render(fmt.Sprintf("Tasks (%d open, %d done)", open, counts[model.TaskDone])) + "\n"
	list := board.List()
	if len(list) == 0 {
		out += styles.dim.Render("  none") + "\n"
	}
	for _, task := range list {
		line := fmt.Sprintf("  %s %s (%d)", statusMark(task.Status), task.Title, task.Pomodoros)
		switch {
		case task.ID == board.FocusID():
			line = styles.focus.Render(line + " <- focus")
		case task.Status == model.TaskDone:
			line = styles.done.Render(line)
		}
		out += line + "\n"
	}

	_, err := io.WriteString(w, out)
	return err
}

func statusMark(status model.TaskStatus) string {
	switch status {
	case model.TaskDone:
		return "[x]"
	case model.TaskInProgress:
		return "[>]"
	default:
		return "[ ]"
	}
}

func formatSeconds(seconds int) string {
	return (time.Duration(seconds) * time.Second).String()
}

func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
