package geom

import (
	"math"

	"github.com/golang/geo/r2"
)

// Orientation of an ordered triple of points.
type Orientation int

const (
	Collinear Orientation = iota
	CounterClockwise
	Clockwise
)

func (o Orientation) String() string {
	switch o {
	case CounterClockwise:
		return "ccw"
	case Clockwise:
		return "cw"
	}
	return "collinear"
}

// Finite returns if both coordinates are real numbers.
func Finite(p r2.Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Dist standard pythag.
func Dist(a, b r2.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// DistSq is Dist without the square root.
func DistSq(a, b r2.Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// Rotate p counter-clockwise by theta radians about the origin.
func Rotate(p r2.Point, theta float64) r2.Point {
	s, c := math.Sincos(theta)
	return r2.Point{X: p.X*c - p.Y*s, Y: p.X*s + p.Y*c}
}

// Cross returns the z component of (b-a) x (c-a). Positive means a, b, c turn
// counter-clockwise (y axis pointing up).
func Cross(a, b, c r2.Point) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

// Orient classifies the turn a -> b -> c.
// Ties are decided by eps, scaled by the lengths of the two edges leaving a, so
// the answer doesn't depend on the magnitude of the coordinates.
func Orient(a, b, c r2.Point, eps float64) Orientation {
	ab := b.Sub(a)
	ac := c.Sub(a)
	det := ab.Cross(ac)
	if math.Abs(det) <= eps*ab.Norm()*ac.Norm() {
		return Collinear
	}
	if det > 0 {
		return CounterClockwise
	}
	return Clockwise
}

// Circumcenter returns the centre of the circle through a, b and c.
// ok is false when the points are (numerically) collinear.
func Circumcenter(a, b, c r2.Point) (r2.Point, bool) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	ex := c.X - a.X
	ey := c.Y - a.Y

	bl := dx*dx + dy*dy
	cl := ex*ex + ey*ey
	d := dx*ey - dy*ex
	if d == 0 {
		return r2.Point{}, false
	}

	x := a.X + (ey*bl-dy*cl)*0.5/d
	y := a.Y + (dx*cl-ex*bl)*0.5/d
	p := r2.Point{X: x, Y: y}
	return p, Finite(p)
}

// CircumradiusSq returns the squared radius of the circle through a, b and c,
// +Inf for collinear input.
func CircumradiusSq(a, b, c r2.Point) float64 {
	cc, ok := Circumcenter(a, b, c)
	if !ok {
		return math.Inf(1)
	}
	return DistSq(cc, a)
}

// InCircle returns if p lies strictly inside the circumcircle of the
// counter-clockwise triangle a, b, c.
func InCircle(a, b, c, p r2.Point) bool {
	dx := a.X - p.X
	dy := a.Y - p.Y
	ex := b.X - p.X
	ey := b.Y - p.Y
	fx := c.X - p.X
	fy := c.Y - p.Y

	ap := dx*dx + dy*dy
	bp := ex*ex + ey*ey
	cp := fx*fx + fy*fy

	return dx*(ey*cp-bp*fy)-dy*(ex*cp-bp*fx)+ap*(ex*fy-ey*fx) > 0
}
