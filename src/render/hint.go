package render

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	hintMargin = 8
	hintPad    = 6
)

var (
	hintFace   = basicfont.Face7x13
	hintText   = image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	hintShadow = image.NewUniform(color.RGBA{R: 0, G: 0, B: 0, A: 180})
	hintBG     = image.NewUniform(color.RGBA{R: 0, G: 0, B: 0, A: 200})
)

// wrapHint breaks text into lines no wider than maxW pixels. A single word
// wider than maxW gets a line of its own.
func wrapHint(text string, maxW int) []string {
	d := &font.Drawer{Face: hintFace}
	var lines []string
	cur := ""
	for _, w := range strings.Fields(text) {
		next := w
		if cur != "" {
			next = cur + " " + w
		}
		if cur != "" && d.MeasureString(next).Ceil() > maxW {
			lines = append(lines, cur)
			cur = w
			continue
		}
		cur = next
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

// WithHint draws text in a dark strip anchored to the bottom-left corner,
// wrapping it to the image width.
func WithHint(img image.Image, text string) image.Image {
	if img == nil || strings.TrimSpace(text) == "" {
		return img
	}
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, img, b.Min, draw.Src)

	lines := wrapHint(text, b.Dx()-2*(hintMargin+hintPad))
	lineH := hintFace.Metrics().Height.Ceil()
	ascent := hintFace.Metrics().Ascent.Ceil()
	d := &font.Drawer{Dst: out, Face: hintFace}
	textW := 0
	for _, l := range lines {
		if w := d.MeasureString(l).Ceil(); w > textW {
			textW = w
		}
	}

	x := b.Min.X + hintMargin
	lastBase := b.Max.Y - hintPad
	firstBase := lastBase - (len(lines)-1)*lineH
	strip := image.Rect(x-hintPad, firstBase-ascent-hintPad, x+textW+hintPad, lastBase+hintPad/2)
	draw.Draw(out, strip, hintBG, image.Point{}, draw.Over)

	for i, l := range lines {
		y := firstBase + i*lineH
		d.Src = hintShadow
		d.Dot = fixed.P(x+1, y+1)
		d.DrawString(l)
		d.Src = hintText
		d.Dot = fixed.P(x, y)
		d.DrawString(l)
	}
	return out
}
