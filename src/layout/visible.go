package layout

import (
	"strings"

	"github.com/TheHeat/moods/src/moods"
)

// VisibleSet is an immutable set of series keys. Operations return a new value.
type VisibleSet uint8

// AllVisible returns the initial state: every key on.
func AllVisible() VisibleSet {
	var v VisibleSet
	for _, k := range moods.Keys {
		v = v.With(k)
	}
	return v
}

func bit(k moods.SeriesKey) VisibleSet {
	i := k.Index()
	if i < 0 {
		return 0
	}
	return 1 << uint(i)
}

func (v VisibleSet) Has(k moods.SeriesKey) bool {
	b := bit(k)
	return b != 0 && v&b != 0
}

func (v VisibleSet) With(k moods.SeriesKey) VisibleSet    { return v | bit(k) }
func (v VisibleSet) Without(k moods.SeriesKey) VisibleSet { return v &^ bit(k) }

// Toggle flips membership of k.
func (v VisibleSet) Toggle(k moods.SeriesKey) VisibleSet { return v ^ bit(k) }

// Keys lists the members in declared key order.
func (v VisibleSet) Keys() []moods.SeriesKey {
	out := make([]moods.SeriesKey, 0, len(moods.Keys))
	for _, k := range moods.Keys {
		if v.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

func (v VisibleSet) Len() int { return len(v.Keys()) }

func (v VisibleSet) Empty() bool { return v.Len() == 0 }

func (v VisibleSet) String() string {
	keys := v.Keys()
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
	}
	return strings.Join(parts, ",")
}

// ParseVisibleSet parses a comma separated key list. Blank input is the empty set.
func ParseVisibleSet(s string) (VisibleSet, error) {
	var v VisibleSet
	for _, p := range strings.Split(s, ",") {
		if strings.TrimSpace(p) == "" {
			continue
		}
		k, err := moods.ParseSeriesKey(p)
		if err != nil {
			return 0, err
		}
		v = v.With(k)
	}
	return v, nil
}

// HiddenFrom returns AllVisible minus the keys in the comma separated list.
func HiddenFrom(s string) (VisibleSet, error) {
	hidden, err := ParseVisibleSet(s)
	if err != nil {
		return 0, err
	}
	return AllVisible() &^ hidden, nil
}
