package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/sadopc/dialclock/internal/dial"
	"github.com/sadopc/dialclock/internal/store"
)

var (
	bold  = color.New(color.Bold).SprintFunc()
	faint = color.New(color.FgHiBlack).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
)

func printIntervals(w io.Writer, intervals []store.Interval) {
	if len(intervals) == 0 {
		_, _ = fmt.Fprintln(w, faint("nothing scheduled"))
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 40
	tbl.AddRow(bold("ID"), bold("Done"), bold("From"), bold("Until"), bold("Length"), bold("Title"))
	for _, iv := range intervals {
		done := " "
		if iv.Completed {
			done = "x"
		}
		row := []interface{}{
			iv.ID, done,
			dial.FormatClock(iv.Start), dial.FormatClock(iv.Start + iv.Duration),
			dial.FormatSpan(iv.Duration), iv.Title,
		}
		if iv.Completed {
			for i := range row {
				row[i] = faint(row[i])
			}
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(w, tbl)
}

func printRings(w io.Writer, rings dial.Rings, dropped []error, only []dial.DayHalf) {
	for _, h := range only {
		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.MaxColWidth = 40
		tbl.AddRow(bold("Kind"), bold("From"), bold("Until"), bold("Length"), bold("Fill"), bold("Title"))

		cursor := int(h) * dial.HalfDay
		for _, s := range rings.Ring(h) {
			tbl.AddRow(s.Kind, dial.FormatClock(cursor), dial.FormatClock(cursor+s.Length),
				s.Length, s.Fill(), s.Title)
			cursor += s.Length
		}
		_, _ = fmt.Fprintln(w, bold(h.String()))
		_, _ = fmt.Fprintln(w, tbl)
	}
	for _, err := range dropped {
		_, _ = fmt.Fprintln(w, red("not shown: "+err.Error()))
	}
}
