package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sadopc/dialclock/internal/dial"
	"github.com/sadopc/dialclock/internal/store"
)

func addAdd(topLevel *cobra.Command, withEnv envRunner) {
	var (
		at       string
		duration time.Duration
		hexColor string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Schedule a todo on the clock.",
		Example: `
dialclock add --at 09:30 --for 45m Standup
dialclock add --at 23:00 --for 3h --color "#002880" Night shift
`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a title")
			}
			return nil
		},
		RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			start, err := dial.ParseClock(at)
			if err != nil {
				return err
			}
			if duration < time.Minute || duration%time.Minute != 0 {
				return fmt.Errorf("invalid duration %s: want whole minutes", duration)
			}

			fill, ok := dial.PaletteColor(hexColor)
			if !ok {
				return fmt.Errorf("invalid color %q: want one of %s", hexColor, strings.Join(dial.Palette, ", "))
			}

			title := strings.Join(args, " ")
			iv, err := e.store.AddInterval(title, start, int(duration/time.Minute), fill)
			if err != nil {
				return err
			}
			e.logger.Info("interval added", zap.Int64("id", iv.ID), zap.String("title", iv.Title))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %d %s %s-%s\n",
				color.GreenString("added"), iv.ID, iv.Title,
				dial.FormatClock(iv.Start), dial.FormatClock(iv.Start+iv.Duration))
			return nil
		}),
	}
	cmd.Flags().StringVarP(&at, "at", "a", "", "Start time, HH:MM on a 24-hour clock.")
	cmd.Flags().DurationVarP(&duration, "for", "f", time.Hour, "How long the todo takes.")
	cmd.Flags().StringVarP(&hexColor, "color", "c", "#73BE84", "Ring color, one of "+strings.Join(dial.Palette, ", ")+".")
	_ = cmd.MarkFlagRequired("at")

	topLevel.AddCommand(cmd)
}

func addList(topLevel *cobra.Command, withEnv envRunner) {
	var status string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List scheduled todos.",
		RunE: withEnv(func(cmd *cobra.Command, _ []string, e *env) error {
			st, ok := store.ParseStatus(status)
			if !ok {
				return fmt.Errorf("invalid status %q: want all, active or completed", status)
			}
			intervals, err := e.store.ListIntervals(store.IntervalFilter{Status: st})
			if err != nil {
				return err
			}
			printIntervals(cmd.OutOrStdout(), intervals)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&status, "status", "s", "all", "Filter: all, active or completed.")

	topLevel.AddCommand(cmd)
}

func addDone(topLevel *cobra.Command, withEnv envRunner) {
	var undo bool

	cmd := &cobra.Command{
		Use:     "done <id>...",
		Aliases: []string{"complete"},
		Short:   "Mark todos as completed.",
		Args:    cobra.MinimumNArgs(1),
		RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			for _, id := range ids {
				if err := e.store.SetCompleted(id, !undo); err != nil {
					return err
				}
			}
			word := "completed"
			if undo {
				word = "reopened"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %d todo(s)\n", word, len(ids))
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&undo, "undo", "u", false, "Mark as not completed.")

	topLevel.AddCommand(cmd)
}

func addRemove(topLevel *cobra.Command, withEnv envRunner) {
	cmd := &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"remove"},
		Short:   "Remove todos.",
		Args:    cobra.MinimumNArgs(1),
		RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			for _, id := range ids {
				if err := e.store.RemoveInterval(id); err != nil {
					return err
				}
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %d todo(s)\n", len(ids))
			return nil
		}),
	}

	topLevel.AddCommand(cmd)
}

func addClear(topLevel *cobra.Command, withEnv envRunner) {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all completed todos.",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(cmd *cobra.Command, _ []string, e *env) error {
			n, err := e.store.ClearCompleted()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "cleared %d completed todo(s)\n", n)
			return nil
		}),
	}

	topLevel.AddCommand(cmd)
}

func addToggle(topLevel *cobra.Command, withEnv envRunner) {
	cmd := &cobra.Command{
		Use:   "toggle",
		Short: "Complete every todo, or reopen them all when all are done.",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(cmd *cobra.Command, _ []string, e *env) error {
			if err := e.store.ToggleAll(); err != nil {
				return err
			}
			intervals, err := e.store.ListIntervals(store.IntervalFilter{})
			if err != nil {
				return err
			}
			printIntervals(cmd.OutOrStdout(), intervals)
			return nil
		}),
	}

	topLevel.AddCommand(cmd)
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
