package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sadopc/dialclock/internal/dial"
	"github.com/sadopc/dialclock/internal/store"
)

func ToCSV(intervals []store.Interval, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"ID", "Title", "Start", "End", "Duration (min)", "Duration", "Color", "Completed"}); err != nil {
		return err
	}

	for _, iv := range intervals {
		row := []string{
			strconv.FormatInt(iv.ID, 10),
			iv.Title,
			dial.FormatClock(iv.Start),
			dial.FormatClock(iv.Start + iv.Duration),
			strconv.Itoa(iv.Duration),
			dial.FormatSpan(iv.Duration),
			iv.Color,
			strconv.FormatBool(iv.Completed),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
