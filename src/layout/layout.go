// Package layout derives drawable series from the records and the visible set.
//
// Line mode yields one point sequence per key. Stack mode yields cumulative
// bands in the fixed key order; a hidden key keeps its slot with zero height so
// toggling never reshuffles the other bands. Layouts are always recomputed in
// full.
package layout

import (
	"fmt"
	"strings"

	"github.com/TheHeat/moods/src/moods"
)

// Mode selects the view.
type Mode int

const (
	ModeStack Mode = iota
	ModeLine
)

func (m Mode) String() string {
	if m == ModeLine {
		return "lines"
	}
	return "stacked"
}

// ParseMode accepts "stack"/"stacked"/"area" and "line"/"lines".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stack", "stacked", "area":
		return ModeStack, nil
	case "line", "lines":
		return ModeLine, nil
	}
	return ModeStack, fmt.Errorf("unknown mode %q", s)
}

// Point is one raw value of a series.
type Point struct {
	Day   int     `json:"day"`
	Value float64 `json:"value"`
}

// Band is one stacked slot. Lower == Upper for hidden keys.
type Band struct {
	Day   int     `json:"day"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Height is Upper-Lower.
func (b Band) Height() float64 { return b.Upper - b.Lower }

// Series is the per-key output, aligned with the records.
type Series struct {
	Key     moods.SeriesKey `json:"key"`
	Visible bool            `json:"visible"`
	Points  []Point         `json:"points,omitempty"`
	Bands   []Band          `json:"bands,omitempty"`
}

// Layout is the full derived geometry in data units.
type Layout struct {
	Mode    Mode       `json:"-"`
	Visible VisibleSet `json:"-"`
	Series  []Series   `json:"series"`
	// Max is the largest visible value (line) or stack top (stack), never below a usable 1 when nothing is drawn.
	Max float64 `json:"max"`
}

// Get returns the series for k.
func (l Layout) Get(k moods.SeriesKey) (Series, bool) {
	for _, s := range l.Series {
		if s.Key == k {
			return s, true
		}
	}
	return Series{}, false
}

// Compute builds the layout for mode.
func Compute(records []moods.Record, visible VisibleSet, mode Mode) Layout {
	if mode == ModeLine {
		return Lines(records, visible)
	}
	return Stack(records, visible)
}

// Lines produces raw point sequences for every key.
func Lines(records []moods.Record, visible VisibleSet) Layout {
	out := Layout{Mode: ModeLine, Visible: visible, Series: make([]Series, len(moods.Keys))}
	maxV := 0.0
	for i, k := range moods.Keys {
		pts := make([]Point, len(records))
		for j, r := range records {
			v := r.Value(k)
			pts[j] = Point{Day: r.Day, Value: v}
			if visible.Has(k) && v > maxV {
				maxV = v
			}
		}
		out.Series[i] = Series{Key: k, Visible: visible.Has(k), Points: pts}
	}
	out.Max = fallbackMax(maxV)
	return out
}

// Stack produces cumulative bands in declared key order.
func Stack(records []moods.Record, visible VisibleSet) Layout {
	out := Layout{Mode: ModeStack, Visible: visible, Series: make([]Series, len(moods.Keys))}
	for i, k := range moods.Keys {
		out.Series[i] = Series{Key: k, Visible: visible.Has(k), Bands: make([]Band, len(records))}
	}
	maxV := 0.0
	for j, r := range records {
		running := 0.0
		for i, k := range moods.Keys {
			lower := running
			if visible.Has(k) {
				running += r.Value(k)
			}
			out.Series[i].Bands[j] = Band{Day: r.Day, Lower: lower, Upper: running}
		}
		if running > maxV {
			maxV = running
		}
	}
	out.Max = fallbackMax(maxV)
	return out
}

// fallbackMax keeps the value domain non-degenerate.
func fallbackMax(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}

// Nearest returns the index of the record whose day is closest to day.
// Ties go to the earliest record. ok is false only for an empty slice.
func Nearest(records []moods.Record, day float64) (idx int, ok bool) {
	if len(records) == 0 {
		return 0, false
	}
	best := 0
	bestD := abs(float64(records[0].Day) - day)
	for i := 1; i < len(records); i++ {
		d := abs(float64(records[i].Day) - day)
		if d < bestD {
			bestD = d
			best = i
		}
	}
	return best, true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
