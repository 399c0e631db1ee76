// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchseries

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Colors returns n distinguishable colors, one per configuration.
// Colors repeat if n exceeds the size of the palette.
func Colors(n int) []color.Color {
	k := n
	if k < 3 {
		k = 3
	}
	if k > 9 {
		k = 9
	}
	pal, err := brewer.GetPalette(brewer.TypeQualitative, "Set1", k)
	if err != nil {
		panic(err)
	}
	base := pal.Colors()
	out := make([]color.Color, n)
	for i := range out {
		out[i] = base[i%len(base)]
	}
	return out
}

// A Line is one configuration's series in a LineChart.
type Line struct {
	Label  string
	Points Points
}

// A LineChart plots one metric over time for several configurations.
type LineChart struct {
	Title  string
	XLabel string
	YLabel string
	Log    bool // Logarithmic Y axis
	Lines  []Line
}

// Plot builds the chart. Points with a NaN or infinite coordinate are
// left out. On a logarithmic axis, points with Y <= 0 are left out as
// well; if no point remains, the axis falls back to linear.
func (lc *LineChart) Plot() (*plot.Plot, error) {
	pl := plot.New()
	pl.Title.Text = lc.Title
	pl.Title.TextStyle.Font.Size = 15
	pl.X.Label.Text = lc.XLabel
	pl.Y.Label.Text = lc.YLabel
	pl.Legend.Top = true

	grid := plotter.NewGrid()
	grid.Vertical.Dashes = []vg.Length{vg.Points(1), vg.Points(2)}
	grid.Horizontal.Dashes = grid.Vertical.Dashes
	pl.Add(grid)

	var keep func(Point) bool
	if lc.Log {
		keep = func(p Point) bool { return finite(p) && p.Y > 0 }
	} else {
		keep = finite
	}

	colors := Colors(len(lc.Lines))
	havePoints := false
	for i, l := range lc.Lines {
		pts := filterPoints(l.Points, keep)
		if len(pts) == 0 {
			continue
		}
		havePoints = true
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", l.Label, err)
		}
		line.Color = colors[i]
		line.Width = vg.Points(1)
		pl.Add(line)
		pl.Legend.Add(l.Label, line)
	}
	if lc.Log && havePoints {
		pl.Y.Scale = plot.LogScale{}
		pl.Y.Tick.Marker = plot.LogTicks{}
	}
	return pl, nil
}

func finite(p Point) bool {
	return !(math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0))
}

func filterPoints(p Points, keep func(Point) bool) Points {
	out := make(Points, 0, len(p))
	for _, pt := range p {
		if keep(pt) {
			out = append(out, pt)
		}
	}
	return out
}

// A BarSet is one configuration's bars in a BarChart, one bar per
// group. Notes annotate each bar; an empty note draws nothing.
type BarSet struct {
	Label  string
	Values []float64 // NaN values draw no bar
	Notes  []string
}

// A BarChart draws grouped bars on a logarithmic Y axis. Groups are
// typically progress magnitudes and sets are configurations.
type BarChart struct {
	Title  string
	YLabel string
	Groups []string
	Sets   []BarSet

	// Floor is the smallest value drawn. Values at or below zero
	// cannot be shown on a log axis, so they are drawn at Floor,
	// faded.
	Floor float64
}

// Plot builds the chart.
func (bc *BarChart) Plot() (*plot.Plot, error) {
	if bc.Floor <= 0 {
		return nil, errors.New("bar chart floor must be positive")
	}
	pl := plot.New()
	pl.Title.Text = bc.Title
	pl.Title.TextStyle.Font.Size = 13
	pl.Y.Label.Text = bc.YLabel
	pl.Y.Scale = plot.LogScale{}
	pl.Y.Tick.Marker = plot.LogTicks{}
	pl.Legend.Top = true

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	pl.Add(grid)

	colors := Colors(len(bc.Sets))
	n := len(bc.Sets)
	w := 0.8 / float64(max(n, 1))
	for i, s := range bc.Sets {
		b := &logBars{
			values: s.Values,
			notes:  s.Notes,
			offset: (float64(i) - float64(n-1)/2) * w,
			width:  w,
			floor:  bc.Floor,
			color:  colors[i],
			groups: len(bc.Groups),
		}
		pl.Add(b)
		pl.Legend.Add(s.Label, b)
	}
	pl.NominalX(bc.Groups...)
	return pl, nil
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// logBars draws one BarSet. Unlike plotter.BarChart, bars rise from
// the bottom of the plot area instead of from zero, which does not
// exist on a log axis.
type logBars struct {
	values []float64
	notes  []string
	offset float64 // X offset from the group position, in data units
	width  float64 // Bar width, in data units
	floor  float64
	color  color.Color
	groups int
}

func (b *logBars) display(i int) (v float64, faded bool) {
	v = b.values[i]
	if v <= b.floor {
		return b.floor, true
	}
	return v, false
}

// Plot draws the bars on Canvas c and Plot plt.
func (b *logBars) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)

	sty := plt.X.Tick.Label
	sty.XAlign = draw.XCenter
	sty.YAlign = draw.YBottom
	sty.Font.Size = vg.Points(8)
	sty.Color = b.color

	for i, v := range b.values {
		if math.IsNaN(v) {
			continue
		}
		y, faded := b.display(i)
		left := trX(float64(i) + b.offset - b.width/2)
		right := trX(float64(i) + b.offset + b.width/2)
		top := trY(y)
		pts := []vg.Point{
			{X: left, Y: c.Min.Y},
			{X: left, Y: top},
			{X: right, Y: top},
			{X: right, Y: c.Min.Y},
		}
		fill := b.color
		if faded {
			fill = fade(fill)
		}
		c.FillPolygon(fill, c.ClipPolygonY(pts))
		c.StrokeLines(draw.LineStyle{Color: color.Black, Width: vg.Points(0.5)}, c.ClipLinesY(append(pts, pts[0]))...)

		if i < len(b.notes) && b.notes[i] != "" && c.ContainsY(top) {
			c.FillText(sty, vg.Point{X: (left + right) / 2, Y: top + vg.Points(2)}, b.notes[i])
		}
	}
}

// DataRange returns the extent of the bars. The top is raised so the
// notes above the tallest bar stay inside the plot.
func (b *logBars) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = -0.5, float64(b.groups)-0.5
	ymin, ymax = b.floor, b.floor
	for i, v := range b.values {
		if math.IsNaN(v) {
			continue
		}
		y, _ := b.display(i)
		ymax = math.Max(ymax, y)
	}
	return xmin, xmax, ymin, ymax * 3
}

// Thumbnail draws the legend entry for the bars.
func (b *logBars) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(b.color, c.ClipPolygonY(pts))
}

func fade(c color.Color) color.Color {
	r, g, bl, _ := c.RGBA()
	return color.NRGBA{uint8(r >> 8), uint8(g >> 8), uint8(bl >> 8), 0x50}
}

// SavePNG draws plots into a PNG file of the given size and resolution.
// Several plots are stacked vertically.
func SavePNG(path string, width, height vg.Length, dpi int, plots ...*plot.Plot) error {
	if len(plots) == 0 {
		return errors.New("no plots")
	}
	can := vgimg.PngCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(width, height),
		vgimg.UseDPI(dpi), vgimg.UseBackgroundColor(color.White))}
	dc := draw.New(can)

	if len(plots) == 1 {
		plots[0].Draw(dc)
	} else {
		grid := make([][]*plot.Plot, len(plots))
		for i, p := range plots {
			grid[i] = []*plot.Plot{p}
		}
		tiles := draw.Tiles{
			Rows:      len(plots),
			Cols:      1,
			PadY:      vg.Millimeter,
			PadTop:    vg.Points(4),
			PadBottom: vg.Points(4),
			PadLeft:   vg.Points(4),
			PadRight:  vg.Points(4),
		}
		canvases := plot.Align(grid, tiles, dc)
		for i, p := range plots {
			p.Draw(canvases[i][0])
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := can.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
