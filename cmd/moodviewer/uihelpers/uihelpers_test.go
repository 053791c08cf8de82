package uihelpers

import (
	"math"
	"strings"
	"testing"
)

func TestComputeChartDimensions(t *testing.T) {
	cases := []struct {
		in    int
		wantW int
	}{
		{100, 800},
		{799, 800},
		{1000, 938},
		{1600, 1508},
	}
	for _, c := range cases {
		w, h := ComputeChartDimensions(c.in)
		if w != c.wantW {
			t.Fatalf("input %d => width %d want %d", c.in, w, c.wantW)
		}
		if h < 320 || h > 560 {
			t.Fatalf("height clamp violated for input %d => h=%d", c.in, h)
		}
	}
}

func TestContainRect(t *testing.T) {
	// wider view: letterboxed left/right
	r := ContainRect(1000, 500, 1200, 500)
	if r.Scale != 1 || r.X != 100 || r.Y != 0 || r.W != 1000 || r.H != 500 {
		t.Fatalf("unexpected rect %+v", r)
	}
	// taller view: letterboxed top/bottom, scaled down
	r = ContainRect(1000, 500, 500, 500)
	if r.Scale != 0.5 || r.X != 0 || r.Y != 125 || r.H != 250 {
		t.Fatalf("unexpected rect %+v", r)
	}
	if (ContainRect(0, 10, 10, 10) != Rect{}) {
		t.Fatalf("degenerate image should give empty rect")
	}
	if (Rect{}).Contains(0, 0) {
		t.Fatalf("empty rect contains nothing")
	}
}

func TestRectMappingRoundTrip(t *testing.T) {
	r := ContainRect(1000, 500, 800, 600)
	if !r.Contains(400, 300) || r.Contains(400, 20) {
		t.Fatalf("contains mismatch for %+v", r)
	}
	for _, p := range [][2]float64{{0, 0}, {60, 40}, {920, 440}, {1000, 500}} {
		x, y := r.FromImage(p[0], p[1])
		ix, iy := r.ToImage(x, y)
		if math.Abs(ix-p[0]) > 1e-3 || math.Abs(iy-p[1]) > 1e-3 {
			t.Fatalf("round trip %v -> (%v,%v) -> (%v,%v)", p, x, y, ix, iy)
		}
	}
}

func TestClampLabel(t *testing.T) {
	x, y := ClampLabel(780, 590, 100, 40, 800, 600)
	if x != 700 || y != 560 {
		t.Fatalf("clamp right/bottom got (%v,%v)", x, y)
	}
	x, y = ClampLabel(-5, -5, 100, 40, 50, 20)
	if x != 0 || y != 0 {
		t.Fatalf("clamp to origin got (%v,%v)", x, y)
	}
}

func TestTruncatePath(t *testing.T) {
	if got := TruncatePath("/a/b.csv", 60); got != "/a/b.csv" {
		t.Fatalf("short path changed: %q", got)
	}
	long := "/very/long/directory/name/that/keeps/going/and/going/MoodsFreshCycle.csv"
	got := TruncatePath(long, 40)
	if !strings.HasSuffix(got, "/...MoodsFreshCycle.csv") || len(got) > 40 {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := TruncatePath(long, 10); got != "...MoodsFreshCycle.csv" {
		t.Fatalf("tiny limit should keep base only, got %q", got)
	}
}
