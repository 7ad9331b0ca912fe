package geom

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
)

func pt(x, y float64) r2.Point {
	return r2.Point{X: x, Y: y}
}

func near(a, b r2.Point) bool {
	return Dist(a, b) < 1e-9
}

func TestOrient(t *testing.T) {
	cases := []struct {
		Name    string
		A, B, C r2.Point
		Want    Orientation
	}{
		{"ccw", pt(0, 0), pt(1, 0), pt(0, 1), CounterClockwise},
		{"cw", pt(0, 0), pt(0, 1), pt(1, 0), Clockwise},
		{"collinear", pt(0, 0), pt(1, 1), pt(2, 2), Collinear},
		{"nearly collinear", pt(0, 0), pt(1e6, 0), pt(2e6, 1e-9), Collinear},
		{"large coords", pt(1e9, 1e9), pt(1e9+1, 1e9), pt(1e9, 1e9+1), CounterClockwise},
	}

	for _, tt := range cases {
		t.Run(tt.Name, func(t *testing.T) {
			got := Orient(tt.A, tt.B, tt.C, 1e-12)
			if got != tt.Want {
				t.Errorf("expected %s got %s", tt.Want, got)
			}
		})
	}
}

func TestCircumcenter(t *testing.T) {
	c, ok := Circumcenter(pt(0, 0), pt(2, 0), pt(0, 2))
	if !ok {
		t.Fatal("expected a circumcenter")
	}
	if !near(c, pt(1, 1)) {
		t.Errorf("expected (1, 1) got %v", c)
	}

	_, ok = Circumcenter(pt(0, 0), pt(1, 1), pt(2, 2))
	if ok {
		t.Error("collinear points have no circumcenter")
	}
	if !math.IsInf(CircumradiusSq(pt(0, 0), pt(1, 1), pt(2, 2)), 1) {
		t.Error("collinear points should have an infinite circumradius")
	}
}

func TestInCircle(t *testing.T) {
	a, b, c := pt(0, 0), pt(2, 0), pt(0, 2)

	if !InCircle(a, b, c, pt(1, 1)) {
		t.Error("centre should be inside")
	}
	if InCircle(a, b, c, pt(3, 3)) {
		t.Error("(3, 3) should be outside")
	}
	if InCircle(a, b, c, pt(2, 2)) {
		t.Error("points on the circle are not strictly inside")
	}
}

func TestRotate(t *testing.T) {
	got := Rotate(pt(1, 0), math.Pi/2)
	if !near(got, pt(0, 1)) {
		t.Errorf("expected (0, 1) got %v", got)
	}
}

func TestPolygonArea(t *testing.T) {
	square := Polygon{pt(0, 0), pt(2, 0), pt(2, 2), pt(0, 2)}

	if square.SignedArea() != 4 {
		t.Errorf("expected 4 got %v", square.SignedArea())
	}
	if !square.IsCCW() {
		t.Error("expected counter-clockwise")
	}

	cw := Polygon{pt(0, 0), pt(0, 2), pt(2, 2), pt(2, 0)}
	if cw.SignedArea() != -4 || cw.Area() != 4 {
		t.Errorf("expected -4 & 4 got %v & %v", cw.SignedArea(), cw.Area())
	}
	if cw.IsCCW() {
		t.Error("expected clockwise")
	}

	if (Polygon{pt(0, 0), pt(1, 1)}).Area() != 0 {
		t.Error("two points have no area")
	}
}

func TestPolygonCentroid(t *testing.T) {
	cases := []struct {
		Name string
		Poly Polygon
		Want r2.Point
	}{
		{"square", Polygon{pt(0, 0), pt(2, 0), pt(2, 2), pt(0, 2)}, pt(1, 1)},
		{"triangle", Polygon{pt(0, 0), pt(3, 0), pt(0, 3)}, pt(1, 1)},
		{"far away", Polygon{pt(1e8, 1e8), pt(1e8+2, 1e8), pt(1e8+2, 1e8+2), pt(1e8, 1e8+2)}, pt(1e8+1, 1e8+1)},
		{"degenerate", Polygon{pt(0, 0), pt(2, 0), pt(4, 0)}, pt(2, 0)},
		{"l shape", Polygon{pt(0, 0), pt(2, 0), pt(2, 1), pt(1, 1), pt(1, 2), pt(0, 2)}, pt(5.0/6, 5.0/6)},
	}

	for _, tt := range cases {
		t.Run(tt.Name, func(t *testing.T) {
			got := tt.Poly.Centroid()
			if Dist(got, tt.Want) > 1e-6 {
				t.Errorf("expected %v got %v", tt.Want, got)
			}
		})
	}
}

func TestPolygonContains(t *testing.T) {
	square := Polygon{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10)}

	cases := []struct {
		P    r2.Point
		Want bool
	}{
		{pt(5, 5), true},
		{pt(0.1, 9.9), true},
		{pt(-1, 5), false},
		{pt(5, 11), false},
		{pt(11, 11), false},
	}
	for _, tt := range cases {
		if got := square.Contains(tt.P); got != tt.Want {
			t.Errorf("%v: expected %v got %v", tt.P, tt.Want, got)
		}
	}
}

func TestPolygonDedupe(t *testing.T) {
	p := Polygon{pt(0, 0), pt(0, 1e-12), pt(1, 0), pt(1, 1), pt(1e-12, 0)}
	got := p.Dedupe(1e-9)
	if len(got) != 3 {
		t.Errorf("expected 3 points got %v", got)
	}
}

func TestPolygonIsSimple(t *testing.T) {
	square := Polygon{pt(0, 0), pt(2, 0), pt(2, 2), pt(0, 2)}
	if !square.IsSimple(0) {
		t.Error("square should be simple")
	}

	bowtie := Polygon{pt(0, 0), pt(2, 2), pt(2, 0), pt(0, 2)}
	if bowtie.IsSimple(0) {
		t.Error("bowtie crosses itself")
	}
}

func TestSegmentIntersection(t *testing.T) {
	cases := []struct {
		Name       string
		A, B, C, D r2.Point
		Want       r2.Point
		Ok         bool
	}{
		{"cross", pt(0, 0), pt(2, 2), pt(0, 2), pt(2, 0), pt(1, 1), true},
		{"miss", pt(0, 0), pt(1, 1), pt(3, 0), pt(2, 1), r2.Point{}, false},
		{"parallel", pt(0, 0), pt(1, 0), pt(0, 1), pt(1, 1), r2.Point{}, false},
		{"touch end", pt(0, 0), pt(1, 0), pt(1, 0), pt(1, 1), pt(1, 0), true},
		{"overlap", pt(0, 0), pt(2, 0), pt(1, 0), pt(3, 0), pt(1, 0), true},
	}

	for _, tt := range cases {
		t.Run(tt.Name, func(t *testing.T) {
			got, ok := SegmentIntersection(tt.A, tt.B, tt.C, tt.D, 1e-12)
			if ok != tt.Ok {
				t.Fatalf("expected %v got %v", tt.Ok, ok)
			}
			if ok && !near(got, tt.Want) {
				t.Errorf("expected %v got %v", tt.Want, got)
			}
		})
	}
}

func TestClipHalfPlane(t *testing.T) {
	square := Polygon{pt(0, 0), pt(2, 0), pt(2, 2), pt(0, 2)}

	// keep x <= 1
	got := ClipHalfPlane(square, pt(1, 0), pt(-1, 0))
	if math.Abs(got.Area()-2) > 1e-12 {
		t.Errorf("expected area 2 got %v (%v)", got.Area(), got)
	}
	if !got.IsCCW() {
		t.Error("expected winding to be kept")
	}

	// everything kept
	got = ClipHalfPlane(square, pt(-1, 0), pt(1, 0))
	if len(got) != 4 {
		t.Errorf("expected square back got %v", got)
	}

	// nothing kept
	got = ClipHalfPlane(square, pt(3, 0), pt(1, 0))
	if len(got) != 0 {
		t.Errorf("expected nothing got %v", got)
	}
}

func TestClipHalfPlaneFarPoint(t *testing.T) {
	// a very long thin triangle reaching far outside the clip line
	tri := Polygon{pt(0, 0), pt(1e12, 1), pt(0, 1)}
	got := ClipHalfPlane(tri, pt(10, 0), pt(-1, 0))
	for _, p := range got {
		if p.X > 10+1e-9 {
			t.Errorf("point %v beyond clip line", p)
		}
	}
	if math.Abs(got.Area()-(10-10*10/2e12)) > 1e-6 {
		t.Errorf("unexpected area %v", got.Area())
	}
}

func TestClipSegment(t *testing.T) {
	r := r2.RectFromPoints(pt(0, 0), pt(10, 10))

	a, b, ok := ClipSegment(pt(-5, 5), pt(15, 5), r)
	if !ok || !near(a, pt(0, 5)) || !near(b, pt(10, 5)) {
		t.Errorf("expected (0,5)-(10,5) got %v-%v %v", a, b, ok)
	}

	_, _, ok = ClipSegment(pt(-5, -5), pt(-1, 20), r)
	if ok {
		t.Error("segment misses the rect")
	}

	a, b, ok = ClipSegment(pt(1, 1), pt(2, 2), r)
	if !ok || a != pt(1, 1) || b != pt(2, 2) {
		t.Errorf("segment inside should be unchanged, got %v-%v", a, b)
	}
}
