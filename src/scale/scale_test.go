package scale

import (
	"math"
	"testing"

	"github.com/TheHeat/moods/src/moods"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestLinear_MapInvertRoundTrip(t *testing.T) {
	x := NewLinear(1, 30, 60, 920)
	if got := x.Map(1); !approx(got, 60) {
		t.Fatalf("Map(1)=%v want 60", got)
	}
	if got := x.Map(30); !approx(got, 920) {
		t.Fatalf("Map(30)=%v want 920", got)
	}
	for _, d := range []float64{1, 7.4, 15, 29.9} {
		if got := x.Invert(x.Map(d)); !approx(got, d) {
			t.Fatalf("round trip %v -> %v", d, got)
		}
	}
	// inverted pixel range for y
	y := NewLinear(0, 10, 440, 40)
	if got := y.Map(10); !approx(got, 40) {
		t.Fatalf("y.Map(10)=%v want 40", got)
	}
	if got := y.Invert(240); !approx(got, 5) {
		t.Fatalf("y.Invert(240)=%v want 5", got)
	}
}

func TestLinear_Degenerate(t *testing.T) {
	l := NewLinear(5, 5, 0, 100)
	if got := l.Map(5); got != 50 {
		t.Fatalf("degenerate domain should map to midpoint, got %v", got)
	}
	r := NewLinear(0, 10, 30, 30)
	if got := r.Invert(30); got != 0 {
		t.Fatalf("degenerate range should invert to D0, got %v", got)
	}
}

func TestDayDomain(t *testing.T) {
	if lo, hi := DayDomain(nil); lo != 0 || hi != 1 {
		t.Fatalf("empty: got [%v,%v]", lo, hi)
	}
	if lo, hi := DayDomain([]moods.Record{{Day: 4}}); lo != 3.5 || hi != 4.5 {
		t.Fatalf("single: got [%v,%v]", lo, hi)
	}
	recs := []moods.Record{{Day: 2}, {Day: 5}, {Day: 9}}
	if lo, hi := DayDomain(recs); lo != 2 || hi != 9 {
		t.Fatalf("range: got [%v,%v]", lo, hi)
	}
}

func TestNiceAndValueDomain(t *testing.T) {
	cases := []struct {
		max    float64
		wantHi float64
	}{
		{1, 1},
		{3, 3},
		{8.75, 9},
		{0, 1},
		{-2, 1},
		{137, 140},
	}
	for _, tc := range cases {
		lo, hi := ValueDomain(tc.max)
		if lo != 0 || hi != tc.wantHi {
			t.Fatalf("ValueDomain(%v) = [%v,%v] want [0,%v]", tc.max, lo, hi, tc.wantHi)
		}
	}
	if lo, hi := Nice(2, 2, 10); lo != 2 || hi != 3 {
		t.Fatalf("Nice degenerate = [%v,%v]", lo, hi)
	}
}

func TestTicks(t *testing.T) {
	ticks := Ticks(0, 1, 10)
	if len(ticks) != 11 || ticks[0] != 0 || ticks[10] != 1 {
		t.Fatalf("unexpected ticks: %v", ticks)
	}
	for i := 1; i < len(ticks); i++ {
		if !(ticks[i] > ticks[i-1]) {
			t.Fatalf("ticks not increasing: %v", ticks)
		}
	}
	ticks = Ticks(0, 9, 10)
	if ticks[len(ticks)-1] != 9 {
		t.Fatalf("last tick should be 9: %v", ticks)
	}
	if got := Ticks(3, 3, 10); len(got) != 1 {
		t.Fatalf("degenerate ticks: %v", got)
	}
}

func TestFormatTick(t *testing.T) {
	cases := map[float64]string{0: "0", 0.2: "0.2", 1.5: "1.5", 12: "12", 250.4: "250", 0.30000000000000004: "0.3"}
	for v, want := range cases {
		if got := FormatTick(v); got != want {
			t.Fatalf("FormatTick(%v)=%q want %q", v, got, want)
		}
	}
}
