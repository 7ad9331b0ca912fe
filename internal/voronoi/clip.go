package voronoi

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"github.com/voidshard/voronoiville/internal/geom"
)

// clipper trims regions to the bounding rectangle.
type clipper struct {
	bounds r2.Rect
	centre r2.Point
	reach  float64
	eps    float64
}

// newClipper works out how far rays must reach for the given regions: far
// enough to leave the rectangle & every finite vertex well behind.
func newClipper(bounds r2.Rect, regions []*region, eps float64) *clipper {
	centre := bounds.Center()
	radius := geom.Dist(centre, bounds.Lo())
	for _, r := range regions {
		if r == nil || r.kind == truncated {
			continue
		}
		for _, v := range r.verts {
			radius = math.Max(radius, geom.Dist(centre, v))
		}
	}
	return &clipper{bounds: bounds, centre: centre, reach: 8 * radius, eps: eps}
}

// clip returns the part of region r inside the rectangle, counter-clockwise,
// and whether the cell touches the edge of the rectangle (or was unbounded).
func (c *clipper) clip(r *region) (geom.Polygon, bool, error) {
	poly := r.polygon(c.centre, c.reach)

	// one pass per rectangle edge, inward normals
	b := c.bounds
	poly = geom.ClipHalfPlane(poly, b.Lo(), r2.Point{X: 1})
	poly = geom.ClipHalfPlane(poly, b.Hi(), r2.Point{X: -1})
	poly = geom.ClipHalfPlane(poly, b.Lo(), r2.Point{Y: 1})
	poly = geom.ClipHalfPlane(poly, b.Hi(), r2.Point{Y: -1})

	onHull := r.unbounded()
	for i, v := range poly {
		snapped, edge := c.snap(v)
		poly[i] = snapped
		onHull = onHull || edge
	}
	poly = poly.Dedupe(c.eps)

	if poly.Area() > c.eps*c.eps {
		if !poly.IsCCW() {
			return nil, false, errors.Wrap(ErrGeometry, "clipped cell winds clockwise")
		}
		if !poly.IsSimple(0) {
			return nil, false, errors.Wrap(ErrGeometry, "clipped cell is self intersecting")
		}
	}

	return poly, onHull, nil
}

// snap moves a point within eps of a rectangle edge onto it, returning if it
// is on an edge.
func (c *clipper) snap(p r2.Point) (r2.Point, bool) {
	edge := false
	b := c.bounds
	for _, x := range []float64{b.X.Lo, b.X.Hi} {
		if math.Abs(p.X-x) <= c.eps {
			p.X = x
			edge = true
		}
	}
	for _, y := range []float64{b.Y.Lo, b.Y.Hi} {
		if math.Abs(p.Y-y) <= c.eps {
			p.Y = y
			edge = true
		}
	}
	return p, edge
}

// edgeLength returns how much of segment a-b lies inside the rectangle.
func (c *clipper) edgeLength(a, b r2.Point) float64 {
	a, b, ok := geom.ClipSegment(a, b, c.bounds)
	if !ok {
		return 0
	}
	return geom.Dist(a, b)
}

// rayLength returns how much of the ray from a heading dir lies inside the rectangle.
func (c *clipper) rayLength(a, dir r2.Point) float64 {
	return c.edgeLength(a, a.Add(dir.Mul(c.reach)))
}
