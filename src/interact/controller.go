// Package interact owns the mutable chart state for one view: the visible set,
// the current layout and scales, and the tooltip. A Controller is not safe for
// concurrent use; callers that share one must serialise access.
package interact

import (
	"fmt"
	"strings"

	"github.com/TheHeat/moods/src/layout"
	"github.com/TheHeat/moods/src/moods"
	"github.com/TheHeat/moods/src/scale"
)

// Tooltip offset from the pointer, in pixels.
const (
	TooltipOffsetX = 10
	TooltipOffsetY = -10
)

// Frame is the plot box inside the rendered image, in image pixels.
type Frame struct {
	Left, Top, Right, Bottom float64
}

// DefaultFrame applies fixed margins (top 40, right 80, bottom 60, left 60) to
// a w×h image. It does not track the renderer's layout; controllers that are
// hit-tested against an image should install the rendered plot box with
// SetFrame.
func DefaultFrame(w, h int) Frame {
	return Frame{Left: 60, Top: 40, Right: float64(w) - 80, Bottom: float64(h) - 60}
}

func (f Frame) Width() float64  { return f.Right - f.Left }
func (f Frame) Height() float64 { return f.Bottom - f.Top }

// Contains reports whether (x,y) lies inside the box, edges included.
func (f Frame) Contains(x, y float64) bool {
	return x >= f.Left && x <= f.Right && y >= f.Top && y <= f.Bottom
}

// TooltipItem is one visible metric line.
type TooltipItem struct {
	Key   moods.SeriesKey `json:"key"`
	Value float64         `json:"value"`
}

// Share is one segment of the proportion bar.
type Share struct {
	Key      moods.SeriesKey `json:"key"`
	Fraction float64         `json:"fraction"`
}

// Tooltip describes the hover box. When Visible is false the other fields are zero.
type Tooltip struct {
	Visible bool          `json:"visible"`
	X       float64       `json:"x"`
	Y       float64       `json:"y"`
	Index   int           `json:"index"`
	Day     int           `json:"day"`
	Title   string        `json:"title"`
	Items   []TooltipItem `json:"items"`
	Total   float64       `json:"total"`
	Shares  []Share       `json:"shares"`
}

// BuildTooltip lists the visible metrics of r in key order with their total.
// Shares are omitted when the total is not positive.
func BuildTooltip(r moods.Record, visible layout.VisibleSet) Tooltip {
	t := Tooltip{Visible: true, Day: r.Day, Title: r.Title()}
	for _, k := range visible.Keys() {
		v := r.Value(k)
		t.Items = append(t.Items, TooltipItem{Key: k, Value: v})
		t.Total += v
	}
	if t.Total > 0 {
		for _, it := range t.Items {
			t.Shares = append(t.Shares, Share{Key: it.Key, Fraction: it.Value / t.Total})
		}
	}
	return t
}

// Lines renders the tooltip body: title, one "Key: v" line per item, then the total.
func (t Tooltip) Lines() []string {
	if !t.Visible {
		return nil
	}
	out := make([]string, 0, len(t.Items)+2)
	out = append(out, t.Title)
	for _, it := range t.Items {
		out = append(out, fmt.Sprintf("%s: %.2f", it.Key, it.Value))
	}
	out = append(out, fmt.Sprintf("Total: %.2f", t.Total))
	return out
}

func (t Tooltip) String() string { return strings.Join(t.Lines(), "\n") }

// View is a read-only snapshot of a Controller.
type View struct {
	Mode     layout.Mode
	Visible  layout.VisibleSet
	Layout   layout.Layout
	Records  []moods.Record
	DayMin   float64
	DayMax   float64
	ValueMin float64
	ValueMax float64
	X        scale.Linear
	Y        scale.Linear
	Frame    Frame
	Tooltip  Tooltip
}

// Controller drives one view.
type Controller struct {
	records []moods.Record
	mode    layout.Mode
	visible layout.VisibleSet
	frame   Frame

	dayLo, dayHi float64
	valLo, valHi float64
	lay          layout.Layout
	x, y         scale.Linear
	tip          Tooltip

	// OnChange fires after every visibility change.
	OnChange func(View)
}

// New builds a controller with every key visible.
func New(records []moods.Record, mode layout.Mode, frame Frame) *Controller {
	c := &Controller{records: records, mode: mode, visible: layout.AllVisible(), frame: frame}
	c.dayLo, c.dayHi = scale.DayDomain(records)
	c.recompute()
	return c
}

// recompute rebuilds layout and value domain from the visible set, then the pixel maps.
func (c *Controller) recompute() {
	c.lay = layout.Compute(c.records, c.visible, c.mode)
	c.valLo, c.valHi = scale.ValueDomain(c.lay.Max)
	c.rescale()
}

func (c *Controller) rescale() {
	c.x = scale.NewLinear(c.dayLo, c.dayHi, c.frame.Left, c.frame.Right)
	c.y = scale.NewLinear(c.valLo, c.valHi, c.frame.Bottom, c.frame.Top)
}

func (c *Controller) Mode() layout.Mode          { return c.mode }
func (c *Controller) Visible() layout.VisibleSet { return c.visible }
func (c *Controller) Records() []moods.Record    { return c.records }
func (c *Controller) Layout() layout.Layout      { return c.lay }
func (c *Controller) Tooltip() Tooltip           { return c.tip }
func (c *Controller) Frame() Frame               { return c.frame }

// Scales returns the day (x) and value (y) pixel mappings.
func (c *Controller) Scales() (scale.Linear, scale.Linear) { return c.x, c.y }

// Toggle flips k and returns the new visible set. Unknown keys are a no-op.
func (c *Controller) Toggle(k moods.SeriesKey) layout.VisibleSet {
	if k.Index() < 0 {
		return c.visible
	}
	return c.SetVisible(k, !c.visible.Has(k))
}

// SetVisible sets membership of k explicitly.
func (c *Controller) SetVisible(k moods.SeriesKey, on bool) layout.VisibleSet {
	next := c.visible.Without(k)
	if on {
		next = c.visible.With(k)
	}
	return c.SetVisibleSet(next)
}

// SetVisibleSet replaces the whole visible set.
func (c *Controller) SetVisibleSet(v layout.VisibleSet) layout.VisibleSet {
	if v == c.visible {
		return v
	}
	c.visible = v
	c.recompute()
	if c.tip.Visible {
		c.refreshTooltip()
	}
	moods.Debugf("[interact] %s visible=%q max=%.2f", c.mode, c.visible.String(), c.lay.Max)
	if c.OnChange != nil {
		c.OnChange(c.View())
	}
	return c.visible
}

// SetFrame installs the plot box reported by the renderer.
func (c *Controller) SetFrame(f Frame) {
	if f == c.frame {
		return
	}
	c.frame = f
	c.rescale()
}

// Hover updates the tooltip for a pointer at (px,py) in image pixels.
func (c *Controller) Hover(px, py float64) Tooltip {
	if !c.frame.Contains(px, py) {
		c.tip = Tooltip{}
		return c.tip
	}
	idx, ok := layout.Nearest(c.records, c.x.Invert(px))
	if !ok {
		c.tip = Tooltip{}
		return c.tip
	}
	t := BuildTooltip(c.records[idx], c.visible)
	t.Index = idx
	t.X = px + TooltipOffsetX
	t.Y = py + TooltipOffsetY
	c.tip = t
	return t
}

// refreshTooltip rebuilds the tooltip content for the same record and position.
func (c *Controller) refreshTooltip() {
	if c.tip.Index < 0 || c.tip.Index >= len(c.records) {
		c.tip = Tooltip{}
		return
	}
	t := BuildTooltip(c.records[c.tip.Index], c.visible)
	t.Index, t.X, t.Y = c.tip.Index, c.tip.X, c.tip.Y
	c.tip = t
}

// Leave hides the tooltip.
func (c *Controller) Leave() { c.tip = Tooltip{} }

// View returns a snapshot of the current state.
func (c *Controller) View() View {
	return View{
		Mode:     c.mode,
		Visible:  c.visible,
		Layout:   c.lay,
		Records:  c.records,
		DayMin:   c.dayLo,
		DayMax:   c.dayHi,
		ValueMin: c.valLo,
		ValueMax: c.valHi,
		X:        c.x,
		Y:        c.y,
		Frame:    c.frame,
		Tooltip:  c.tip,
	}
}

// PixelForDay maps a day to its x pixel in the current frame.
func (c *Controller) PixelForDay(day int) float64 { return c.x.Map(float64(day)) }
