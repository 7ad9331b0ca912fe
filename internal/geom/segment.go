package geom

import (
	"math"

	"github.com/golang/geo/r2"
)

// SegmentIntersection returns a point shared by segments a-b and c-d.
// Segments closer than eps are considered touching; for overlapping collinear
// segments one of the shared points is returned.
func SegmentIntersection(a, b, c, d r2.Point, eps float64) (r2.Point, bool) {
	r := b.Sub(a)
	s := d.Sub(c)
	den := r.Cross(s)
	qp := c.Sub(a)

	if math.Abs(den) <= eps*r.Norm()*s.Norm() {
		// parallel; only collinear overlap counts
		if distToSegment(c, a, b) > eps {
			return r2.Point{}, false
		}
		for _, p := range []r2.Point{c, d} {
			if distToSegment(p, a, b) <= eps {
				return p, true
			}
		}
		for _, p := range []r2.Point{a, b} {
			if distToSegment(p, c, d) <= eps {
				return p, true
			}
		}
		return r2.Point{}, false
	}

	t := qp.Cross(s) / den
	u := qp.Cross(r) / den
	p := a.Add(r.Mul(t))

	// parameters are checked via distances so eps means the same thing
	// whatever the segment lengths are
	if (t < 0 || t > 1 || u < 0 || u > 1) &&
		(distToSegment(p, a, b) > eps || distToSegment(p, c, d) > eps) {
		return r2.Point{}, false
	}
	return p, true
}

// distToSegment is the distance from p to the closest point of segment a-b.
func distToSegment(p, a, b r2.Point) float64 {
	ab := b.Sub(a)
	l := ab.Dot(ab)
	if l == 0 {
		return Dist(p, a)
	}
	t := p.Sub(a).Dot(ab) / l
	t = math.Max(0, math.Min(1, t))
	return Dist(p, a.Add(ab.Mul(t)))
}
