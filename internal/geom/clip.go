package geom

import (
	"math"

	"github.com/golang/geo/r2"
)

// ClipHalfPlane trims the polygon to the half plane of points p where
// (p - origin) . normal >= 0, inserting points where edges cross the line.
// One pass of Sutherland-Hodgman; normal needn't be unit length.
func ClipHalfPlane(poly Polygon, origin, normal r2.Point) Polygon {
	if len(poly) == 0 {
		return poly
	}

	out := make(Polygon, 0, len(poly)+2)
	prev := poly[len(poly)-1]
	dprev := prev.Sub(origin).Dot(normal)

	for _, cur := range poly {
		dcur := cur.Sub(origin).Dot(normal)
		if dcur >= 0 {
			if dprev < 0 {
				out = append(out, crossing(prev, cur, dprev, dcur))
			}
			out = append(out, cur)
		} else if dprev >= 0 {
			out = append(out, crossing(prev, cur, dprev, dcur))
		}
		prev, dprev = cur, dcur
	}
	return out
}

// crossing returns where a -> b crosses the clip line given the signed
// distances of each end. We step from whichever end is nearer the line;
// with one end very far away (a far circumcenter) stepping from it would
// cost most of the precision.
func crossing(a, b r2.Point, da, db float64) r2.Point {
	if math.Abs(da) > math.Abs(db) {
		a, b = b, a
		da, db = db, da
	}
	t := da / (da - db)
	return a.Add(b.Sub(a).Mul(t))
}

// ClipSegment returns the part of segment a-b inside r (Liang-Barsky).
// ok is false when nothing is left.
func ClipSegment(a, b r2.Point, r r2.Rect) (r2.Point, r2.Point, bool) {
	d := b.Sub(a)
	t0, t1 := 0.0, 1.0

	edges := [4][2]float64{
		{-d.X, a.X - r.X.Lo},
		{d.X, r.X.Hi - a.X},
		{-d.Y, a.Y - r.Y.Lo},
		{d.Y, r.Y.Hi - a.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return a, b, false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return a, b, false
			}
			if t < t1 {
				t1 = t
			}
		}
	}
	return a.Add(d.Mul(t0)), a.Add(d.Mul(t1)), true
}
