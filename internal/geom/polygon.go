package geom

import (
	"math"

	"github.com/golang/geo/r2"
)

// A Polygon is a closed ring of points; the last point forms an edge with the first.
type Polygon []r2.Point

// SignedArea is positive for counter-clockwise polygons.
func (p Polygon) SignedArea() float64 {
	if len(p) < 3 {
		return 0
	}
	// shift to the first point to keep the products small
	o := p[0]
	var sum float64
	for i := 1; i < len(p)-1; i++ {
		sum += p[i].Sub(o).Cross(p[i+1].Sub(o))
	}
	return sum / 2
}

// Area of the polygon, regardless of winding.
func (p Polygon) Area() float64 {
	return math.Abs(p.SignedArea())
}

// IsCCW returns if the polygon winds counter-clockwise.
func (p Polygon) IsCCW() bool {
	return p.SignedArea() > 0
}

// Centroid returns the area weighted centre of the polygon.
// Polygons without area (fewer than three points, or collapsed onto a line)
// return the mean of their points instead.
func (p Polygon) Centroid() r2.Point {
	if len(p) == 0 {
		return r2.Point{}
	}

	// shift to the first point to keep the products small
	o := p[0]
	var a, cx, cy float64
	for i := range p {
		u := p[i].Sub(o)
		v := p[(i+1)%len(p)].Sub(o)
		f := u.Cross(v)
		a += f
		cx += (u.X + v.X) * f
		cy += (u.Y + v.Y) * f
	}
	if a == 0 {
		var mean r2.Point
		for _, q := range p {
			mean = mean.Add(q)
		}
		return mean.Mul(1 / float64(len(p)))
	}
	return r2.Point{X: o.X + cx/(3*a), Y: o.Y + cy/(3*a)}
}

// Bounds returns the smallest rectangle holding every point.
func (p Polygon) Bounds() r2.Rect {
	return r2.RectFromPoints(p...)
}

// Contains returns whether or not the polygon contains the passed in point,
// via ray casting. Points exactly on an edge may go either way.
func (p Polygon) Contains(point r2.Point) bool {
	if len(p) < 3 {
		return false
	}

	contains := false
	for i := range p {
		if intersectsWithRaycast(point, p[i], p[(i+1)%len(p)]) {
			contains = !contains
		}
	}
	return contains
}

// intersectsWithRaycast returns whether a ray cast from point in the +x
// direction crosses the edge start -> end.
func intersectsWithRaycast(point, start, end r2.Point) bool {
	// Always ensure that the the first point
	// has a y coordinate that is less than the second point
	if start.Y > end.Y {
		start, end = end, start
	}

	// half open in y, so a ray through a vertex is counted once
	if point.Y < start.Y || point.Y >= end.Y {
		return false
	}

	x := start.X + (point.Y-start.Y)*(end.X-start.X)/(end.Y-start.Y)
	return point.X < x
}

// Dedupe removes consecutive points closer than eps (including last -> first).
func (p Polygon) Dedupe(eps float64) Polygon {
	out := make(Polygon, 0, len(p))
	for _, q := range p {
		if len(out) > 0 && Dist(out[len(out)-1], q) <= eps {
			continue
		}
		out = append(out, q)
	}
	for len(out) > 1 && Dist(out[0], out[len(out)-1]) <= eps {
		out = out[:len(out)-1]
	}
	return out
}

// IsSimple returns if no two non-adjacent edges of the polygon touch.
// Polygons with fewer than four points are trivially simple.
func (p Polygon) IsSimple(eps float64) bool {
	n := len(p)
	if n < 4 {
		return true
	}
	for i := 0; i < n; i++ {
		a, b := p[i], p[(i+1)%n]
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue // adjacent via the closing edge
			}
			c, d := p[j], p[(j+1)%n]
			if _, ok := SegmentIntersection(a, b, c, d, eps); ok {
				return false
			}
		}
	}
	return true
}
