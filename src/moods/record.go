// Package moods holds the mood-cycle dataset: the typed Record, the fixed set of
// tracked metrics (SeriesKey) and the CSV loader.
package moods

import (
	"errors"
	"fmt"
	"strings"
)

// SeriesKey identifies one tracked metric column across both views.
type SeriesKey string

const (
	Threat    SeriesKey = "Threat"
	Harm      SeriesKey = "Harm"
	Challenge SeriesKey = "Challenge"
	Benefit   SeriesKey = "Benefit"
)

// Keys is the declared key order. It is also the fixed stacking order, bottom first.
var Keys = []SeriesKey{Threat, Harm, Challenge, Benefit}

// ErrUnknownKey is returned by ParseSeriesKey for names outside Keys.
var ErrUnknownKey = errors.New("unknown series key")

// Index returns the position of k in Keys, or -1.
func (k SeriesKey) Index() int {
	for i, kk := range Keys {
		if kk == k {
			return i
		}
	}
	return -1
}

// ParseSeriesKey matches a metric name case-insensitively.
func ParseSeriesKey(s string) (SeriesKey, error) {
	s = strings.TrimSpace(s)
	for _, k := range Keys {
		if strings.EqualFold(string(k), s) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKey, s)
}

// Record is one parsed day of the dataset.
type Record struct {
	Day       int     `json:"day"`
	DayLabel  string  `json:"day_label"`
	VarName   string  `json:"var_name,omitempty"`
	Threat    float64 `json:"threat"`
	Harm      float64 `json:"harm"`
	Challenge float64 `json:"challenge"`
	Benefit   float64 `json:"benefit"`
}

// Value returns the metric stored under k (0 for unknown keys).
func (r Record) Value(k SeriesKey) float64 {
	switch k {
	case Threat:
		return r.Threat
	case Harm:
		return r.Harm
	case Challenge:
		return r.Challenge
	case Benefit:
		return r.Benefit
	}
	return 0
}

// Title is the tooltip heading, e.g. "[7] Mon".
func (r Record) Title() string {
	return fmt.Sprintf("[%d] %s", r.Day, r.DayLabel)
}

// Days returns the day index of every record in order.
func Days(records []Record) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r.Day
	}
	return out
}
