package layout

import (
	"reflect"
	"testing"

	"github.com/TheHeat/moods/src/moods"
)

func sampleRecords(n int) []moods.Record {
	out := make([]moods.Record, n)
	for i := 0; i < n; i++ {
		d := i + 1
		out[i] = moods.Record{
			Day:       d,
			DayLabel:  "D",
			Threat:    float64(d%5) + 0.5,
			Harm:      float64(d % 3),
			Challenge: float64((d*7)%4) * 0.75,
			Benefit:   float64(d%2) + 1.25,
		}
	}
	return out
}

func allSubsets() []VisibleSet {
	var out []VisibleSet
	for m := 0; m < 1<<len(moods.Keys); m++ {
		var v VisibleSet
		for i, k := range moods.Keys {
			if m&(1<<i) != 0 {
				v = v.With(k)
			}
		}
		out = append(out, v)
	}
	return out
}

func TestStack_BoundsMonotonicAndHiddenZeroHeight(t *testing.T) {
	recs := sampleRecords(30)
	for _, vis := range allSubsets() {
		l := Stack(recs, vis)
		if len(l.Series) != len(moods.Keys) {
			t.Fatalf("expected %d series, got %d", len(moods.Keys), len(l.Series))
		}
		for j := range recs {
			prevUpper := 0.0
			for i, k := range moods.Keys {
				b := l.Series[i].Bands[j]
				if b.Lower < prevUpper || b.Upper < b.Lower {
					t.Fatalf("vis=%s day=%d key=%s: non-monotonic band %+v after %.2f", vis, b.Day, k, b, prevUpper)
				}
				if !vis.Has(k) && b.Lower != b.Upper {
					t.Fatalf("vis=%s day=%d: hidden key %s has height %.2f", vis, b.Day, k, b.Height())
				}
				if vis.Has(k) && b.Height() != recs[j].Value(k) {
					t.Fatalf("vis=%s day=%d: visible key %s height %.2f want %.2f", vis, b.Day, k, b.Height(), recs[j].Value(k))
				}
				prevUpper = b.Upper
			}
		}
	}
}

func TestStack_ToggleRoundTrip(t *testing.T) {
	recs := sampleRecords(12)
	initial := Stack(recs, AllVisible())
	for _, k := range moods.Keys {
		v := AllVisible().Toggle(k)
		hidden := Stack(recs, v)
		if reflect.DeepEqual(hidden.Series, initial.Series) {
			t.Fatalf("hiding %s should change the bands", k)
		}
		back := Stack(recs, v.Toggle(k))
		if !reflect.DeepEqual(back, initial) {
			t.Fatalf("toggling %s off and on did not round-trip", k)
		}
	}
}

func TestStack_EmptyVisibleFallsBackToOne(t *testing.T) {
	recs := sampleRecords(5)
	var none VisibleSet
	for _, mode := range []Mode{ModeStack, ModeLine} {
		l := Compute(recs, none, mode)
		if l.Max != 1 {
			t.Fatalf("%s: expected fallback max 1, got %v", mode, l.Max)
		}
	}
	if l := Compute(nil, AllVisible(), ModeStack); l.Max != 1 || len(l.Series[0].Bands) != 0 {
		t.Fatalf("empty dataset: unexpected layout %+v", l)
	}
	zeros := []moods.Record{{Day: 1}, {Day: 2}}
	if l := Compute(zeros, AllVisible(), ModeLine); l.Max != 1 {
		t.Fatalf("all-zero data should fall back to 1, got %v", l.Max)
	}
}

func TestStack_ThreeRowExample(t *testing.T) {
	recs := []moods.Record{
		{Day: 1, Threat: 1},
		{Day: 2, Threat: 2},
		{Day: 3, Threat: 3},
	}
	l := Stack(recs, AllVisible())
	threat, _ := l.Get(moods.Threat)
	if got := threat.Bands[1]; got.Lower != 0 || got.Upper != 2 {
		t.Fatalf("Threat band at day 2: got %+v want (0,2)", got)
	}
	for _, k := range []moods.SeriesKey{moods.Harm, moods.Challenge, moods.Benefit} {
		s, _ := l.Get(k)
		if got := s.Bands[1]; got.Lower != 2 || got.Upper != 2 {
			t.Fatalf("%s band at day 2: got %+v want (2,2)", k, got)
		}
	}
	if l.Max != 3 {
		t.Fatalf("expected max 3, got %v", l.Max)
	}
}

func TestStack_HiddenKeepsSlot(t *testing.T) {
	recs := []moods.Record{{Day: 1, Threat: 1, Harm: 2, Challenge: 3, Benefit: 4}}
	l := Stack(recs, AllVisible().Without(moods.Harm))
	want := map[moods.SeriesKey]Band{
		moods.Threat:    {Day: 1, Lower: 0, Upper: 1},
		moods.Harm:      {Day: 1, Lower: 1, Upper: 1},
		moods.Challenge: {Day: 1, Lower: 1, Upper: 4},
		moods.Benefit:   {Day: 1, Lower: 4, Upper: 8},
	}
	for k, w := range want {
		s, _ := l.Get(k)
		if s.Bands[0] != w {
			t.Fatalf("%s: got %+v want %+v", k, s.Bands[0], w)
		}
	}
	if l.Max != 8 {
		t.Fatalf("expected max 8, got %v", l.Max)
	}
}

func TestLines_MaxOverVisibleOnly(t *testing.T) {
	recs := []moods.Record{
		{Day: 1, Threat: 1, Harm: 9, Challenge: 2, Benefit: 0},
		{Day: 2, Threat: 4, Harm: 1, Challenge: 2, Benefit: 3},
	}
	l := Lines(recs, AllVisible())
	if l.Max != 9 {
		t.Fatalf("expected max 9, got %v", l.Max)
	}
	l = Lines(recs, AllVisible().Without(moods.Harm))
	if l.Max != 4 {
		t.Fatalf("expected max 4 with Harm hidden, got %v", l.Max)
	}
	h, _ := l.Get(moods.Harm)
	if h.Visible || len(h.Points) != 2 || h.Points[0].Value != 9 {
		t.Fatalf("hidden series must keep raw points: %+v", h)
	}
}

func TestNearest(t *testing.T) {
	recs := sampleRecords(30)
	idx, ok := Nearest(recs, 7.4)
	if !ok || recs[idx].Day != 7 {
		t.Fatalf("7.4 should pick day 7, got %d", recs[idx].Day)
	}
	idx, _ = Nearest(recs, 7.6)
	if recs[idx].Day != 8 {
		t.Fatalf("7.6 should pick day 8, got %d", recs[idx].Day)
	}
	idx, _ = Nearest(recs, 7.5)
	if recs[idx].Day != 7 {
		t.Fatalf("tie at 7.5 should pick first (7), got %d", recs[idx].Day)
	}
	idx, _ = Nearest(recs, -100)
	if idx != 0 {
		t.Fatalf("left clamp: got %d", idx)
	}
	idx, _ = Nearest(recs, 100)
	if idx != len(recs)-1 {
		t.Fatalf("right clamp: got %d", idx)
	}
	if _, ok := Nearest(nil, 3); ok {
		t.Fatalf("empty slice must report !ok")
	}
}

func TestVisibleSet(t *testing.T) {
	v := AllVisible()
	if v.Len() != 4 || v.String() != "Threat,Harm,Challenge,Benefit" {
		t.Fatalf("unexpected all-visible set %q", v)
	}
	v = v.Toggle(moods.Harm)
	if v.Has(moods.Harm) || v.Len() != 3 {
		t.Fatalf("toggle off failed: %q", v)
	}
	if !v.Toggle(moods.Harm).Has(moods.Harm) {
		t.Fatalf("toggle on failed")
	}
	if v.Has("Joy") || v.With("Joy") != v {
		t.Fatalf("unknown keys must be ignored")
	}
	p, err := ParseVisibleSet("benefit, threat")
	if err != nil || p.String() != "Threat,Benefit" {
		t.Fatalf("parse: %q err=%v", p, err)
	}
	if _, err := ParseVisibleSet("Threat,Joy"); err == nil {
		t.Fatalf("expected error for unknown key")
	}
	h, err := HiddenFrom("Harm")
	if err != nil || h.String() != "Threat,Challenge,Benefit" {
		t.Fatalf("hidden-from: %q err=%v", h, err)
	}
	empty, _ := ParseVisibleSet("")
	if !empty.Empty() {
		t.Fatalf("blank input should give empty set")
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"stacked": ModeStack, "Area": ModeStack, "lines": ModeLine, "line": ModeLine} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseMode("pie"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
