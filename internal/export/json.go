package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/dialclock/internal/dial"
	"github.com/sadopc/dialclock/internal/store"
)

type jsonExport struct {
	ExportedAt string         `json:"exported_at"`
	Count      int            `json:"count"`
	Intervals  []jsonInterval `json:"intervals"`
}

type jsonInterval struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Start       string `json:"start"`
	End         string `json:"end"`
	StartMinute int    `json:"start_minute"`
	DurationMin int    `json:"duration_minutes"`
	Duration    string `json:"duration"`
	Color       string `json:"color"`
	Completed   bool   `json:"completed"`
	Wraps       bool   `json:"wraps,omitempty"`
}

func ToJSON(intervals []store.Interval, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(intervals),
	}

	for _, iv := range intervals {
		export.Intervals = append(export.Intervals, jsonInterval{
			ID:          iv.ID,
			Title:       iv.Title,
			Start:       dial.FormatClock(iv.Start),
			End:         dial.FormatClock(iv.Start + iv.Duration),
			StartMinute: iv.Start,
			DurationMin: iv.Duration,
			Duration:    dial.FormatSpan(iv.Duration),
			Color:       iv.Color,
			Completed:   iv.Completed,
			Wraps:       iv.Dial().Wraps(),
		})
	}

	return writeJSON(export, path)
}

type ringsExport struct {
	ExportedAt string        `json:"exported_at"`
	AM         []jsonSegment `json:"am"`
	PM         []jsonSegment `json:"pm"`
	Dropped    []string      `json:"dropped,omitempty"`
}

type jsonSegment struct {
	Kind       string  `json:"kind"`
	Title      string  `json:"title,omitempty"`
	From       string  `json:"from"`
	Until      string  `json:"until"`
	Length     int     `json:"length_minutes"`
	Fill       string  `json:"fill"`
	StartAngle float64 `json:"start_angle"`
	EndAngle   float64 `json:"end_angle"`
}

// RingsToJSON writes the ring partition of a day. dropped lists intervals
// that could not be laid out.
func RingsToJSON(rings dial.Rings, dropped []error, path string) error {
	export := ringsExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		AM:         ringSegments(rings, dial.AM),
		PM:         ringSegments(rings, dial.PM),
	}
	for _, err := range dropped {
		export.Dropped = append(export.Dropped, err.Error())
	}
	return writeJSON(export, path)
}

func ringSegments(rings dial.Rings, h dial.DayHalf) []jsonSegment {
	segs := rings.Ring(h)
	slices := rings.Pie(h)
	out := make([]jsonSegment, 0, len(segs))
	cursor := int(h) * dial.HalfDay
	for i, s := range segs {
		out = append(out, jsonSegment{
			Kind:       s.Kind.String(),
			Title:      s.Title,
			From:       dial.FormatClock(cursor),
			Until:      dial.FormatClock(cursor + s.Length),
			Length:     s.Length,
			Fill:       s.Fill(),
			StartAngle: slices[i].StartAngle,
			EndAngle:   slices[i].EndAngle,
		})
		cursor += s.Length
	}
	return out
}

func writeJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
