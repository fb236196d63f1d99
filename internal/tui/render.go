package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/sadopc/dialclock/internal/dial"
)

// pxPerCell is how many dial device units one terminal column stands for
// on small terminals. Rows are twice as tall as columns are wide.
const pxPerCell = 8

// deviceWidth is the virtual device width handed to dial.NewLayout for a
// terminal area.
func deviceWidth(cols, rows int) float64 {
	return float64(min(cols, 2*rows) * pxPerCell)
}

// canvas maps terminal cells to dial coordinates centred on the dial.
type canvas struct {
	cols, rows int
	scale      float64 // columns per device unit
}

func newCanvas(cols, rows int, layout dial.Layout) canvas {
	c := canvas{cols: max(cols, 0), rows: max(rows, 0)}
	if layout.CanvasWidth > 0 {
		c.scale = float64(min(c.cols, 2*c.rows)) / layout.CanvasWidth
	}
	return c
}

// toDial returns the offset of a cell's centre from the dial centre, in
// device units with y pointing down.
func (c canvas) toDial(col, row int) (x, y float64) {
	if c.scale == 0 {
		return 0, 0
	}
	x = (float64(col) + 0.5 - float64(c.cols)/2) / c.scale
	y = (float64(row) + 0.5 - float64(c.rows)/2) * 2 / c.scale
	return x, y
}

func (c canvas) toCell(x, y float64) (col, row int) {
	col = int(math.Floor(float64(c.cols)/2 + x*c.scale))
	row = int(math.Floor(float64(c.rows)/2 + y*c.scale/2))
	return col, row
}

// dialScene is everything the renderer needs for one frame. It holds no
// state of its own.
type dialScene struct {
	layout    dial.Layout
	geometry  dial.RingGeometry
	rings     dial.Rings
	focus     dial.DayHalf
	labels    dial.LabelOpacity
	hands     dial.Hands
	face      dial.FaceText
	selection *dial.DragSelection
}

type cell struct {
	ch    rune
	color string
	bold  bool
}

type raster struct {
	canvas
	cells [][]cell
}

func newRaster(c canvas) *raster {
	r := &raster{canvas: c, cells: make([][]cell, c.rows)}
	for i := range r.cells {
		r.cells[i] = make([]cell, c.cols)
		for j := range r.cells[i] {
			r.cells[i][j] = cell{ch: ' '}
		}
	}
	return r
}

func (r *raster) set(col, row int, c cell) {
	if row < 0 || row >= r.rows || col < 0 || col >= r.cols {
		return
	}
	r.cells[row][col] = c
}

// text writes s centred on col.
func (r *raster) text(col, row int, s, color string, bold bool) {
	start := col - runewidth.StringWidth(s)/2
	for _, ch := range s {
		r.set(start, row, cell{ch: ch, color: color, bold: bold})
		start += runewidth.RuneWidth(ch)
	}
}

func (r *raster) String() string {
	lines := make([]string, r.rows)
	for i, row := range r.cells {
		var b strings.Builder
		for j := 0; j < len(row); {
			k := j
			var run []rune
			for k < len(row) && row[k].color == row[j].color && row[k].bold == row[j].bold {
				run = append(run, row[k].ch)
				k++
			}
			if row[j].color == "" {
				b.WriteString(string(run))
			} else {
				b.WriteString(lipgloss.NewStyle().
					Foreground(lipgloss.Color(row[j].color)).
					Bold(row[j].bold).
					Render(string(run)))
			}
			j = k
		}
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}

// renderDial rasterises a scene onto a cols x rows terminal area.
func renderDial(cols, rows int, s dialScene) string {
	c := newCanvas(cols, rows, s.layout)
	r := newRaster(c)
	if c.scale == 0 {
		return r.String()
	}

	pies := map[dial.DayHalf][]dial.PieSlice{
		dial.AM: s.rings.Pie(dial.AM),
		dial.PM: s.rings.Pie(dial.PM),
	}
	progress := s.layout.Progress()
	border := s.geometry.Border
	borderMid := (border.Inner + border.Outer) / 2
	halfCell := 0.5 / c.scale

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			x, y := c.toDial(col, row)
			radius := math.Hypot(x, y)
			deg := dial.PointerAngle(x, y, dial.AM)

			switch {
			case radius < s.layout.InnerRadius():
			case progress.Contains(radius):
				if dial.Radians(deg) <= s.hands.Hour {
					r.set(col, row, cell{ch: '█', color: dialProgressColor})
				} else {
					r.set(col, row, cell{ch: '·', color: dialGapColor})
				}
			case math.Abs(radius-borderMid) < math.Max(halfCell, border.Width()/2):
				r.set(col, row, cell{ch: '•', color: dialBorderColor})
			case s.geometry.AM.Contains(radius):
				r.set(col, row, s.ringCell(dial.AM, pies[dial.AM], deg))
			case s.geometry.PM.Contains(radius):
				r.set(col, row, s.ringCell(dial.PM, pies[dial.PM], deg))
			}
		}
	}

	s.drawHourLabels(r)
	s.drawDescriptions(r, pies)

	mid := rows / 2
	r.text(cols/2, mid-1, s.face.Top, dialLabelColor, false)
	r.text(cols/2, mid, s.face.Middle, dialLabelColor, true)
	r.text(cols/2, mid+1, s.face.Bottom, dialLabelColor, false)
	return r.String()
}

func (s dialScene) ringCell(h dial.DayHalf, pie []dial.PieSlice, deg float64) cell {
	if s.selection != nil && s.selection.Covers(h, deg) {
		return cell{ch: '▓', color: dialSelectionColor}
	}
	i := dial.SliceAt(pie, dial.Radians(deg))
	segs := s.rings.Ring(h)
	if i < 0 || i >= len(segs) || segs[i].Kind == dial.Gap {
		return cell{ch: '·', color: dialGapColor}
	}
	return cell{ch: '█', color: segs[i].Fill()}
}

func (s dialScene) drawHourLabels(r *raster) {
	for i := 0; i < 12; i++ {
		x, y := dial.Polar(s.layout.HourLabelRadius, dial.Radians(float64(i)*30))
		col, row := r.toCell(x, y)
		r.text(col, row, fmt.Sprintf("%d", i+12*int(s.focus)), dialLabelColor, false)
	}
}

func (s dialScene) drawDescriptions(r *raster, pies map[dial.DayHalf][]dial.PieSlice) {
	for _, h := range []dial.DayHalf{dial.AM, dial.PM} {
		if s.labels.Of(h) < 0.5 {
			continue
		}
		for i, seg := range s.rings.Ring(h) {
			if seg.Kind != dial.Data || seg.Length == 0 {
				continue
			}
			x, y := dial.Polar(s.layout.DescriptionRadius, pies[h][i].Mid())
			col, row := r.toCell(x, y)
			r.text(col, row, truncate(seg.Title, 14), seg.Fill(), false)
		}
	}
}
