// Package uihelpers holds the pure geometry used by the viewer so it can be
// tested without a window.
package uihelpers

import "path/filepath"

// ComputeChartDimensions returns the chart image size for a window width:
// ~95% of the width (min 800) and a ~2:1 aspect clamped to 320..560.
func ComputeChartDimensions(rawW int) (int, int) {
	w := rawW*95/100 - 12
	if w < 800 {
		w = 800
	}
	h := w / 2
	if h < 320 {
		h = 320
	}
	if h > 560 {
		h = 560
	}
	return w, h
}

// Rect is the area an image occupies inside a widget when drawn with
// ImageFillContain.
type Rect struct {
	X, Y, W, H float32
	Scale      float32
}

// Contains reports whether (x, y) lies within the drawn image.
func (r Rect) Contains(x, y float32) bool {
	return r.W > 0 && r.H > 0 && x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// ContainRect fits an imgW x imgH image into a viewW x viewH widget,
// keeping the aspect ratio and centring the result.
func ContainRect(imgW, imgH, viewW, viewH float32) Rect {
	if imgW <= 0 || imgH <= 0 || viewW <= 0 || viewH <= 0 {
		return Rect{}
	}
	s := viewW / imgW
	if sy := viewH / imgH; sy < s {
		s = sy
	}
	w, h := imgW*s, imgH*s
	return Rect{X: (viewW - w) / 2, Y: (viewH - h) / 2, W: w, H: h, Scale: s}
}

// ToImage maps a widget position to image pixel coordinates.
func (r Rect) ToImage(x, y float32) (float64, float64) {
	if r.Scale <= 0 {
		return float64(x), float64(y)
	}
	return float64((x - r.X) / r.Scale), float64((y - r.Y) / r.Scale)
}

// FromImage maps image pixel coordinates back to a widget position.
func (r Rect) FromImage(px, py float64) (float32, float32) {
	if r.Scale <= 0 {
		return float32(px), float32(py)
	}
	return r.X + float32(px)*r.Scale, r.Y + float32(py)*r.Scale
}

// ClampLabel keeps a w x h label anchored at (x, y) inside a view.
func ClampLabel(x, y, w, h, viewW, viewH float32) (float32, float32) {
	if x+w > viewW {
		x = viewW - w
	}
	if y+h > viewH {
		y = viewH - h
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return x, y
}

// TruncatePath shortens p to roughly n characters, keeping the file name.
func TruncatePath(p string, n int) string {
	if len(p) <= n {
		return p
	}
	base := filepath.Base(p)
	if len(base)+4 >= n {
		return "..." + base
	}
	dir := filepath.Dir(p)
	left := n - len(base) - 4
	if len(dir) > left {
		dir = dir[:left]
	}
	return dir + "/..." + base
}
