package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sadopc/dialclock/internal/dial"
	"github.com/sadopc/dialclock/internal/export"
	"github.com/sadopc/dialclock/internal/store"
)

func addRings(topLevel *cobra.Command, withEnv envRunner) {
	var ring string

	cmd := &cobra.Command{
		Use:   "rings",
		Short: "Show how the day is laid out on the AM and PM rings.",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(cmd *cobra.Command, _ []string, e *env) error {
			var only []dial.DayHalf
			switch strings.ToLower(ring) {
			case "", "both":
				only = []dial.DayHalf{dial.AM, dial.PM}
			case "am":
				only = []dial.DayHalf{dial.AM}
			case "pm":
				only = []dial.DayHalf{dial.PM}
			default:
				return fmt.Errorf("invalid ring %q: want am, pm or both", ring)
			}

			intervals, err := e.store.ListIntervals(store.IntervalFilter{})
			if err != nil {
				return err
			}
			rings, dropped := dial.PartitionLenient(store.DialIntervals(intervals))
			for _, err := range dropped {
				e.logger.Warn("interval left off the dial", zap.Error(err))
			}
			printRings(cmd.OutOrStdout(), rings, dropped, only)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&ring, "ring", "r", "both", "Ring to show: am, pm or both.")

	topLevel.AddCommand(cmd)
}

func addExport(topLevel *cobra.Command, withEnv envRunner) {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export todos as CSV or JSON, or the ring layout as JSON.",
		Example: `
dialclock export --format csv
dialclock export --format rings --out ~/today.json
`,
		Args: cobra.NoArgs,
		RunE: withEnv(func(cmd *cobra.Command, _ []string, e *env) error {
			intervals, err := e.store.ListIntervals(store.IntervalFilter{})
			if err != nil {
				return err
			}

			path, err := exportPath(out, format, time.Now())
			if err != nil {
				return err
			}
			switch format {
			case "csv":
				err = export.ToCSV(intervals, path)
			case "json":
				err = export.ToJSON(intervals, path)
			case "rings":
				rings, dropped := dial.PartitionLenient(store.DialIntervals(intervals))
				err = export.RingsToJSON(rings, dropped, path)
			default:
				return fmt.Errorf("invalid format %q: want csv, json or rings", format)
			}
			if err != nil {
				return fmt.Errorf("export %s: %w", format, err)
			}
			e.logger.Info("exported", zap.String("format", format), zap.String("path", path))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString("exported to"), path)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "Format: csv, json or rings.")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default ~/dialclock-export-DATE.<ext>).")

	topLevel.AddCommand(cmd)
}

// exportPath expands out, or picks a dated file in the home directory.
func exportPath(out, format string, now time.Time) (string, error) {
	if out != "" {
		return homedir.Expand(out)
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	name := "dialclock-export-" + now.Format("2006-01-02")
	switch format {
	case "csv":
		name += ".csv"
	case "rings":
		name += "-rings.json"
	default:
		name += ".json"
	}
	return filepath.Join(home, name), nil
}
