// Package render turns an interaction snapshot into a go-chart chart and
// encodes it as PNG, SVG or a decoded image.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/TheHeat/moods/src/interact"
	"github.com/TheHeat/moods/src/layout"
	"github.com/TheHeat/moods/src/moods"
	"github.com/TheHeat/moods/src/scale"
)

// DefaultMarkerDays are the cycle boundaries highlighted on both views.
var DefaultMarkerDays = []int{7, 15, 29}

var stackPalette = map[moods.SeriesKey]string{
	moods.Threat:    "#4caf50",
	moods.Harm:      "#e91e63",
	moods.Challenge: "#9c27b0",
	moods.Benefit:   "#2196f3",
}

var linePalette = map[moods.SeriesKey]string{
	moods.Threat:    "#d16f1e",
	moods.Harm:      "#8538b6",
	moods.Challenge: "#32b681",
	moods.Benefit:   "#46a8d8",
}

// Hex returns the series colour for a view as "#rrggbb".
func Hex(mode layout.Mode, k moods.SeriesKey) string {
	p := stackPalette
	if mode == layout.ModeLine {
		p = linePalette
	}
	if c, ok := p[k]; ok {
		return c
	}
	return "#888888"
}

// Color returns the series colour for a view.
func Color(mode layout.Mode, k moods.SeriesKey) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(Hex(mode, k), "#"))
}

// Options control chart size and decorations.
type Options struct {
	Width      int
	Height     int
	Padding    chart.Box
	MarkerDays []int
	Title      string
	Legend     bool
	Hints      bool
}

// DefaultOptions matches the 1000x500 layout with room for axis labels.
func DefaultOptions() Options {
	return Options{
		Width:      1000,
		Height:     500,
		Padding:    chart.Box{Top: 40, Left: 60, Right: 20, Bottom: 20},
		MarkerDays: DefaultMarkerDays,
		Legend:     true,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Padding.IsZero() {
		o.Padding = d.Padding
	}
	return o
}

// PaddedFrame is the canvas inside the padding. The plot box go-chart settles on
// is smaller once axis labels take their room.
func (o Options) PaddedFrame() interact.Frame {
	o = o.withDefaults()
	return interact.Frame{
		Left:   float64(o.Padding.Left),
		Top:    float64(o.Padding.Top),
		Right:  float64(o.Width - o.Padding.Right),
		Bottom: float64(o.Height - o.Padding.Bottom),
	}
}

// FitFrame lays the chart for ctrl out, discards the output and installs the
// resulting plot box on ctrl, so hit-testing matches a later PNG render before
// any image has been requested.
func FitFrame(ctrl *interact.Controller, opts Options) interact.Frame {
	opts = opts.withDefaults()
	f := opts.PaddedFrame()
	geo, err := PNG(io.Discard, ctrl.View(), opts)
	switch {
	case err != nil:
		moods.Debugf("[render] fit %s frame: %v; using padded canvas", ctrl.Mode(), err)
	case geo.Rendered:
		f = geo.Frame
	}
	ctrl.SetFrame(f)
	return f
}

// Geometry is filled in while the chart renders.
type Geometry struct {
	Width, Height int
	// Frame is the plot box go-chart laid the series into.
	Frame    interact.Frame
	Rendered bool
}

// Build assembles the chart for v. The returned Geometry is populated once the
// chart is rendered.
func Build(v interact.View, opts Options) (chart.Chart, *Geometry) {
	opts = opts.withDefaults()
	geo := &Geometry{Width: opts.Width, Height: opts.Height}

	yTicks := scale.Ticks(v.ValueMin, v.ValueMax, 10)
	xTickVals := make([]float64, len(v.Records))
	for i, r := range v.Records {
		xTickVals[i] = float64(r.Day)
	}

	series := []chart.Series{frameSeries{
		geo:    geo,
		xTicks: xTickVals,
		yTicks: yTicks,
		style: chart.Style{
			StrokeColor:     drawing.ColorBlack.WithAlpha(51),
			StrokeWidth:     1,
			StrokeDashArray: []float64{3, 3},
		},
	}}
	data := dataSeries(v)
	series = append(series, data...)
	series = append(series, markerSeries{
		days: markerDays(opts.MarkerDays, v.DayMin, v.DayMax),
		style: chart.Style{
			StrokeColor:     drawing.ColorBlack.WithAlpha(178),
			StrokeWidth:     2,
			StrokeDashArray: []float64{5, 5},
		},
	})

	title := opts.Title
	if title == "" {
		title = titleFor(v.Mode)
	}
	c := chart.Chart{
		Title:      title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: opts.Padding},
		XAxis: chart.XAxis{
			Name:  "Day",
			Range: &chart.ContinuousRange{Min: v.DayMin, Max: v.DayMax},
			Ticks: dayTicks(v.Records, opts.Width),
		},
		YAxis: chart.YAxis{
			Name:  "Value",
			Range: &chart.ContinuousRange{Min: v.ValueMin, Max: v.ValueMax},
			Ticks: valueTicks(yTicks),
		},
		Series: series,
	}
	if opts.Legend && len(data) > 0 {
		legendSrc := chart.Chart{Series: data}
		c.Elements = []chart.Renderable{chart.Legend(&legendSrc)}
	}
	return c, geo
}

func titleFor(m layout.Mode) string {
	if m == layout.ModeLine {
		return "Mood cycle (lines)"
	}
	return "Mood cycle (stacked)"
}

// dataSeries emits one drawable series per visible key in key order.
func dataSeries(v interact.View) []chart.Series {
	var out []chart.Series
	for _, s := range v.Layout.Series {
		if !s.Visible {
			continue
		}
		col := Color(v.Mode, s.Key)
		if v.Mode == layout.ModeLine {
			out = append(out, lineSeries{
				name:   string(s.Key),
				points: s.Points,
				style:  chart.Style{StrokeColor: col, StrokeWidth: 2, DotColor: col, DotWidth: 3},
			})
			continue
		}
		out = append(out, bandSeries{
			name:  string(s.Key),
			bands: s.Bands,
			style: chart.Style{StrokeColor: col, StrokeWidth: 2, FillColor: col.WithAlpha(204)},
			edge:  chart.Style{StrokeColor: drawing.ColorWhite.WithAlpha(153), StrokeWidth: 1.5},
		})
	}
	return out
}

// markerDays keeps the marker days that fall inside the day domain.
func markerDays(days []int, lo, hi float64) []int {
	var out []int
	for _, d := range days {
		if float64(d) >= lo && float64(d) <= hi {
			out = append(out, d)
		}
	}
	return out
}

// dayTicks puts a tick on every record, thinning labels when they would collide.
func dayTicks(records []moods.Record, width int) []chart.Tick {
	if len(records) == 0 {
		return nil
	}
	every := 1
	if width > 0 {
		every = 1 + len(records)*48/width
	}
	ticks := make([]chart.Tick, len(records))
	for i, r := range records {
		label := ""
		if i%every == 0 {
			label = r.DayLabel
			if label == "" {
				label = fmt.Sprint(r.Day)
			}
		}
		ticks[i] = chart.Tick{Value: float64(r.Day), Label: label}
	}
	return ticks
}

func valueTicks(vals []float64) []chart.Tick {
	ticks := make([]chart.Tick, len(vals))
	for i, v := range vals {
		ticks[i] = chart.Tick{Value: v, Label: scale.FormatTick(v)}
	}
	return ticks
}

// PNG renders the chart for v as PNG into w.
func PNG(w io.Writer, v interact.View, opts Options) (*Geometry, error) {
	c, geo := Build(v, opts)
	if err := c.Render(chart.PNG, w); err != nil {
		return geo, fmt.Errorf("render %s png: %w", v.Mode, err)
	}
	return geo, nil
}

// SVG renders the chart for v as SVG into w.
func SVG(w io.Writer, v interact.View, opts Options) (*Geometry, error) {
	c, geo := Build(v, opts)
	if err := c.Render(chart.SVG, w); err != nil {
		return geo, fmt.Errorf("render %s svg: %w", v.Mode, err)
	}
	return geo, nil
}

// Image renders and decodes the chart. Render or decode errors are logged and
// replaced by a blank image of the requested size.
func Image(v interact.View, opts Options) (image.Image, *Geometry) {
	opts = opts.withDefaults()
	var buf bytes.Buffer
	geo, err := PNG(&buf, v, opts)
	if err != nil {
		moods.Errorf("[render] %v; showing blank fallback", err)
		return Blank(opts.Width, opts.Height), geo
	}
	img, err := png.Decode(&buf)
	if err != nil {
		moods.Errorf("[render] %s chart decode error: %v; showing blank fallback", v.Mode, err)
		return Blank(opts.Width, opts.Height), geo
	}
	if opts.Hints {
		img = WithHint(img, HintFor(v.Mode))
	}
	return img, geo
}

// HintFor is the short usage hint drawn under a chart.
func HintFor(m layout.Mode) string {
	if m == layout.ModeLine {
		return "Hint: lines show each metric on its own. Hover a day for values and shares."
	}
	return "Hint: bands stack in key order. Toggle a key to hide it; the others keep their place."
}

// Blank returns a plain white image.
func Blank(w, h int) image.Image {
	if w <= 0 || h <= 0 {
		w, h = 1, 1
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}
