package main

import (
	"image/color"
	"strings"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/TheHeat/moods/cmd/moodviewer/uihelpers"
	"github.com/TheHeat/moods/src/interact"
	"github.com/TheHeat/moods/src/layout"
	"github.com/TheHeat/moods/src/moods"
)

const shareBarHeight = 8

// hoverOverlay sits on top of a chart image and shows the tooltip for the day
// under the pointer.
type hoverOverlay struct {
	widget.BaseWidget
	view     *chartView
	mouse    fyne.Position
	hovering bool
}

func newHoverOverlay(v *chartView) *hoverOverlay {
	o := &hoverOverlay{view: v}
	o.ExtendBaseWidget(o)
	return o
}

func (o *hoverOverlay) CreateRenderer() fyne.WidgetRenderer {
	// background to ensure full hit-area for hover events
	bg := canvas.NewRectangle(color.RGBA{R: 0, G: 0, B: 0, A: 0})
	guide := canvas.NewLine(color.RGBA{R: 200, G: 200, B: 200, A: 220})
	guide.StrokeWidth = 1
	label := widget.NewRichText()
	label.Wrapping = fyne.TextWrapOff
	labelBG := canvas.NewRectangle(color.RGBA{R: 0, G: 0, B: 0, A: 170})
	r := &hoverRenderer{o: o, bg: bg, guide: guide, labelBG: labelBG, label: label}
	for _, k := range moods.Keys {
		seg := canvas.NewRectangle(swatchColor(o.view.mode, k, true))
		r.shares = append(r.shares, seg)
	}
	r.objs = []fyne.CanvasObject{bg, guide, labelBG, label}
	for _, seg := range r.shares {
		r.objs = append(r.objs, seg)
	}
	return r
}

type hoverRenderer struct {
	o       *hoverOverlay
	bg      *canvas.Rectangle
	guide   *canvas.Line
	labelBG *canvas.Rectangle
	label   *widget.RichText
	shares  []*canvas.Rectangle
	objs    []fyne.CanvasObject
}

func (r *hoverRenderer) Destroy() {}

func (r *hoverRenderer) hide() {
	r.guide.Position1 = fyne.NewPos(-10, -10)
	r.guide.Position2 = fyne.NewPos(-10, -10)
	r.labelBG.Resize(fyne.NewSize(0, 0))
	r.labelBG.Move(fyne.NewPos(-1000, -1000))
	r.label.Segments = nil
	r.label.Move(fyne.NewPos(-1000, -1000))
	for _, seg := range r.shares {
		seg.Resize(fyne.NewSize(0, 0))
		seg.Move(fyne.NewPos(-1000, -1000))
	}
}

// drawRect is where the chart image sits inside the overlay.
func (r *hoverRenderer) drawRect(size fyne.Size) uihelpers.Rect {
	v := r.o.view
	imgW, imgH := size.Width, size.Height
	if v.img != nil && v.img.Image != nil {
		b := v.img.Image.Bounds()
		imgW, imgH = float32(b.Dx()), float32(b.Dy())
	}
	return uihelpers.ContainRect(imgW, imgH, size.Width, size.Height)
}

func (r *hoverRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
	ctrl := r.o.view.ctrl
	if !r.o.hovering || ctrl == nil {
		r.hide()
		return
	}
	rect := r.drawRect(size)
	if !rect.Contains(r.o.mouse.X, r.o.mouse.Y) {
		ctrl.Leave()
		r.hide()
		return
	}
	px, py := rect.ToImage(r.o.mouse.X, r.o.mouse.Y)
	tip := ctrl.Hover(px, py)
	if !tip.Visible {
		r.hide()
		return
	}

	// guide at the hovered day, spanning the plot box
	f := ctrl.Frame()
	gx, gTop := rect.FromImage(ctrl.PixelForDay(tip.Day), f.Top)
	_, gBottom := rect.FromImage(0, f.Bottom)
	r.guide.StrokeColor = theme.Color(theme.ColorNameDisabled)
	r.guide.Position1 = fyne.NewPos(gx, gTop)
	r.guide.Position2 = fyne.NewPos(gx, gBottom)

	r.label.Segments = []widget.RichTextSegment{&widget.TextSegment{Text: strings.Join(tip.Lines(), "\n")}}
	r.label.Refresh()
	pad := float32(6)
	ts := r.label.MinSize()
	bgW := ts.Width + 2*pad
	bgH := ts.Height + 2*pad
	withBar := ctrl.Mode() == layout.ModeLine && len(tip.Shares) > 0
	if withBar {
		bgH += shareBarHeight + pad
	}
	ax, ay := rect.FromImage(tip.X, tip.Y)
	tx, ty := uihelpers.ClampLabel(ax, ay-bgH, bgW, bgH, size.Width, size.Height)
	r.labelBG.Resize(fyne.NewSize(bgW, bgH))
	r.labelBG.Move(fyne.NewPos(tx, ty))
	r.label.Move(fyne.NewPos(tx+pad, ty+pad))

	r.layoutShares(tip, withBar, tx+pad, ty+pad+ts.Height+pad/2, ts.Width)
}

// layoutShares lays the proportion bar out left to right in key order.
func (r *hoverRenderer) layoutShares(tip interact.Tooltip, show bool, x, y, width float32) {
	frac := make(map[moods.SeriesKey]float64, len(tip.Shares))
	for _, s := range tip.Shares {
		frac[s.Key] = s.Fraction
	}
	for i, k := range moods.Keys {
		seg := r.shares[i]
		w := float32(frac[k]) * width
		if !show || w <= 0 {
			seg.Resize(fyne.NewSize(0, 0))
			seg.Move(fyne.NewPos(-1000, -1000))
			continue
		}
		seg.Resize(fyne.NewSize(w, shareBarHeight))
		seg.Move(fyne.NewPos(x, y))
		x += w
	}
}

func (r *hoverRenderer) MinSize() fyne.Size           { return fyne.NewSize(10, 10) }
func (r *hoverRenderer) Objects() []fyne.CanvasObject { return r.objs }
func (r *hoverRenderer) Refresh() {
	r.Layout(r.o.Size())
	for _, obj := range r.objs {
		obj.Refresh()
	}
}

func (o *hoverOverlay) MouseMoved(ev *desktop.MouseEvent) {
	o.hovering = true
	o.mouse = ev.Position
	o.Refresh()
}
func (o *hoverOverlay) MouseIn(ev *desktop.MouseEvent) {
	o.hovering = true
	o.mouse = ev.Position
	o.Refresh()
}
func (o *hoverOverlay) MouseOut() {
	o.hovering = false
	if o.view != nil && o.view.ctrl != nil {
		o.view.ctrl.Leave()
	}
	o.Refresh()
}

var _ desktop.Hoverable = (*hoverOverlay)(nil)
