package render

import (
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/TheHeat/moods/src/interact"
	"github.com/TheHeat/moods/src/layout"
)

// The series below implement chart.Series directly: go-chart has no stacked
// band type, and drawing ourselves lets us report the canvas box it chose.

func px(canvasBox chart.Box, xrange chart.Range, day float64) int {
	return canvasBox.Left + xrange.Translate(day)
}

func py(canvasBox chart.Box, yrange chart.Range, v float64) int {
	return canvasBox.Bottom - yrange.Translate(v)
}

// frameSeries draws the dashed grid behind everything else and records the
// plot box into geo.
type frameSeries struct {
	geo    *Geometry
	xTicks []float64
	yTicks []float64
	style  chart.Style
}

func (s frameSeries) GetName() string           { return "" }
func (s frameSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (s frameSeries) GetStyle() chart.Style     { return s.style }
func (s frameSeries) Validate() error           { return nil }

func (s frameSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, _ chart.Style) {
	if s.geo != nil {
		s.geo.Frame = interact.Frame{
			Left:   float64(canvasBox.Left),
			Top:    float64(canvasBox.Top),
			Right:  float64(canvasBox.Right),
			Bottom: float64(canvasBox.Bottom),
		}
		s.geo.Rendered = true
	}
	r.SetStrokeColor(s.style.StrokeColor)
	r.SetStrokeWidth(s.style.StrokeWidth)
	r.SetStrokeDashArray(s.style.StrokeDashArray)
	for _, d := range s.xTicks {
		x := px(canvasBox, xrange, d)
		r.MoveTo(x, canvasBox.Top)
		r.LineTo(x, canvasBox.Bottom)
		r.Stroke()
	}
	for _, v := range s.yTicks {
		y := py(canvasBox, yrange, v)
		r.MoveTo(canvasBox.Left, y)
		r.LineTo(canvasBox.Right, y)
		r.Stroke()
	}
	r.SetStrokeDashArray(nil)
}

// bandSeries fills the area between a key's lower and upper stack bounds.
type bandSeries struct {
	name  string
	bands []layout.Band
	style chart.Style
	edge  chart.Style
}

func (s bandSeries) GetName() string           { return s.name }
func (s bandSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (s bandSeries) GetStyle() chart.Style     { return s.style }
func (s bandSeries) Validate() error           { return nil }

func (s bandSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, _ chart.Style) {
	if len(s.bands) == 0 {
		return
	}
	xs := make([]int, 0, len(s.bands)+1)
	uppers := make([]float64, 0, len(s.bands)+1)
	lowers := make([]float64, 0, len(s.bands)+1)
	if len(s.bands) == 1 {
		// a lone day still gets a visible block
		b := s.bands[0]
		for _, d := range []float64{float64(b.Day) - 0.25, float64(b.Day) + 0.25} {
			xs = append(xs, px(canvasBox, xrange, d))
			uppers = append(uppers, b.Upper)
			lowers = append(lowers, b.Lower)
		}
	} else {
		for _, b := range s.bands {
			xs = append(xs, px(canvasBox, xrange, float64(b.Day)))
			uppers = append(uppers, b.Upper)
			lowers = append(lowers, b.Lower)
		}
	}

	r.SetFillColor(s.style.FillColor)
	r.SetStrokeWidth(0)
	r.SetStrokeColor(drawing.ColorTransparent)
	r.MoveTo(xs[0], py(canvasBox, yrange, uppers[0]))
	for i := 1; i < len(xs); i++ {
		r.LineTo(xs[i], py(canvasBox, yrange, uppers[i]))
	}
	for i := len(xs) - 1; i >= 0; i-- {
		r.LineTo(xs[i], py(canvasBox, yrange, lowers[i]))
	}
	r.Close()
	r.Fill()

	r.SetStrokeColor(s.edge.StrokeColor)
	r.SetStrokeWidth(s.edge.StrokeWidth)
	r.MoveTo(xs[0], py(canvasBox, yrange, uppers[0]))
	for i := 1; i < len(xs); i++ {
		r.LineTo(xs[i], py(canvasBox, yrange, uppers[i]))
	}
	r.Stroke()
}

// lineSeries draws a polyline with a dot on every record.
type lineSeries struct {
	name   string
	points []layout.Point
	style  chart.Style
}

func (s lineSeries) GetName() string           { return s.name }
func (s lineSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (s lineSeries) GetStyle() chart.Style     { return s.style }
func (s lineSeries) Validate() error           { return nil }

func (s lineSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, _ chart.Style) {
	if len(s.points) == 0 {
		return
	}
	if len(s.points) > 1 {
		r.SetStrokeColor(s.style.StrokeColor)
		r.SetStrokeWidth(s.style.StrokeWidth)
		p0 := s.points[0]
		r.MoveTo(px(canvasBox, xrange, float64(p0.Day)), py(canvasBox, yrange, p0.Value))
		for _, p := range s.points[1:] {
			r.LineTo(px(canvasBox, xrange, float64(p.Day)), py(canvasBox, yrange, p.Value))
		}
		r.Stroke()
	}
	r.SetFillColor(s.style.DotColor)
	r.SetStrokeColor(s.style.DotColor)
	r.SetStrokeWidth(1)
	for _, p := range s.points {
		r.Circle(s.style.DotWidth, px(canvasBox, xrange, float64(p.Day)), py(canvasBox, yrange, p.Value))
		r.FillStroke()
	}
}

// markerSeries draws dashed vertical lines at fixed days.
type markerSeries struct {
	days  []int
	style chart.Style
}

func (s markerSeries) GetName() string           { return "" }
func (s markerSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (s markerSeries) GetStyle() chart.Style     { return s.style }
func (s markerSeries) Validate() error           { return nil }

func (s markerSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, _ chart.Range, _ chart.Style) {
	if len(s.days) == 0 {
		return
	}
	r.SetStrokeColor(s.style.StrokeColor)
	r.SetStrokeWidth(s.style.StrokeWidth)
	r.SetStrokeDashArray(s.style.StrokeDashArray)
	for _, d := range s.days {
		x := px(canvasBox, xrange, float64(d))
		r.MoveTo(x, canvasBox.Top)
		r.LineTo(x, canvasBox.Bottom)
		r.Stroke()
	}
	r.SetStrokeDashArray(nil)
}
