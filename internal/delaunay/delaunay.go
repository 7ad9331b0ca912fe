// Package delaunay implements 2d Delaunay triangulation
package delaunay

import (
	"math"

	"github.com/boljen/go-bitmap"
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"github.com/voidshard/voronoiville/internal/geom"
)

var (
	// ErrCollinear implies there is no triangle to be made from the input; either
	// there are fewer than three points or they all sit on one line.
	// Callers are expected to handle this case themselves.
	ErrCollinear = errors.New("points are collinear")

	// ErrUnstable is returned when a point could not be attached to the
	// triangulation or rounding left a triangle without area, usually because
	// of duplicate points.
	ErrUnstable = errors.New("numerically unstable triangulation")
)

// Triangulation stores the points, convex hull, triangles and half edges from a Delaunay triangulation.
//
// Triangles are stored flat, three point indices per face, in counter-clockwise
// order (y axis up). Halfedges[e] is the index of the twin of half edge e, or -1
// when e lies on the convex hull. Half edge e runs from Triangles[e] to
// Triangles[Next(e)].
type Triangulation struct {
	Points    []r2.Point
	Triangles []int
	Halfedges []int

	// Hull lists the indices of points on the convex hull in counter-clockwise order.
	Hull []int

	// Inedges holds, for every point, one half edge ending at it. For points on the
	// hull this is the hull edge arriving at the point, so walking around the point
	// from Inedges covers every incident triangle.
	Inedges []int

	onHull bitmap.Bitmap
}

// Triangulate returns a Delaunay triangulation of the provided points.
// eps is the relative tolerance used to decide that a set of points is collinear.
func Triangulate(points []r2.Point, eps float64) (*Triangulation, error) {
	if len(points) < 3 {
		return nil, ErrCollinear
	}
	if collinear(points, eps) {
		return nil, ErrCollinear
	}

	t := newTriangulator(points)
	err := t.triangulate()
	if err != nil {
		return nil, err
	}

	tri := &Triangulation{
		Points:    points,
		Triangles: t.triangles,
		Halfedges: t.halfedges,
		Hull:      t.convexHull(),
		onHull:    bitmap.New(len(points)),
	}
	for _, i := range tri.Hull {
		tri.onHull.Set(i, true)
	}

	for k := 0; k < tri.Len(); k++ {
		a, b, c := tri.Triangle(k)
		if geom.Cross(a, b, c) <= 0 {
			return nil, errors.Wrapf(ErrUnstable, "triangle %d is inverted", k)
		}
	}

	tri.Inedges = make([]int, len(points))
	for i := range tri.Inedges {
		tri.Inedges[i] = -1
	}
	for e, twin := range tri.Halfedges {
		p := tri.Triangles[Next(e)]
		if twin == -1 || tri.Inedges[p] == -1 {
			tri.Inedges[p] = e
		}
	}
	for i, e := range tri.Inedges {
		if e == -1 {
			return nil, errors.Wrapf(ErrUnstable, "point %d (%v) has no incident triangle", i, points[i])
		}
	}

	return tri, nil
}

// collinear returns if every point lies on the line through the first point and
// the point furthest from it.
func collinear(points []r2.Point, eps float64) bool {
	a := points[0]
	far, farDist := -1, 0.0
	for i, p := range points {
		d := geom.DistSq(a, p)
		if d > farDist {
			far, farDist = i, d
		}
	}
	if far < 0 {
		return true
	}

	b := points[far]
	for _, p := range points {
		if geom.Orient(a, b, p, eps) != geom.Collinear {
			return false
		}
	}
	return true
}

// Next returns the half edge after e in the same triangle.
func Next(e int) int {
	if e%3 == 2 {
		return e - 2
	}
	return e + 1
}

// Prev returns the half edge before e in the same triangle.
func Prev(e int) int {
	if e%3 == 0 {
		return e + 2
	}
	return e - 1
}

// TriangleOf returns the triangle index owning half edge e.
func TriangleOf(e int) int {
	return e / 3
}

// Len returns the number of triangles.
func (t *Triangulation) Len() int {
	return len(t.Triangles) / 3
}

// Triangle returns the three points of triangle i.
func (t *Triangulation) Triangle(i int) (r2.Point, r2.Point, r2.Point) {
	return t.Points[t.Triangles[3*i]], t.Points[t.Triangles[3*i+1]], t.Points[t.Triangles[3*i+2]]
}

// OnHull returns if point i is on the convex hull.
func (t *Triangulation) OnHull(i int) bool {
	return t.onHull.Get(i)
}

// Circumcenters returns the centre of the circumcircle of every triangle.
func (t *Triangulation) Circumcenters() ([]r2.Point, error) {
	out := make([]r2.Point, t.Len())
	for i := range out {
		a, b, c := t.Triangle(i)
		cc, ok := geom.Circumcenter(a, b, c)
		if !ok {
			return nil, errors.Wrapf(ErrUnstable, "triangle %d is degenerate", i)
		}
		out[i] = cc
	}
	return out, nil
}

// Around returns the half edges arriving at point i, walking clockwise from
// Inedges[i]. For a hull point the walk starts and ends at the hull.
func (t *Triangulation) Around(i int) []int {
	e0 := t.Inedges[i]
	if e0 < 0 {
		return nil
	}

	out := []int{}
	e := e0
	for {
		out = append(out, e)
		e = t.Halfedges[Next(e)]
		if e == -1 || e == e0 {
			break
		}
	}
	return out
}

// Validate performs several sanity checks on the Triangulation to check for
// potential errors. Returns nil if no issues were found.
func (t *Triangulation) Validate() error {
	for i1, i2 := range t.Halfedges {
		if i2 != -1 && t.Halfedges[i2] != i1 {
			return errors.New("invalid halfedge connection")
		}
		if i2 != -1 && (t.Triangles[i1] != t.Triangles[Next(i2)] || t.Triangles[i2] != t.Triangles[Next(i1)]) {
			return errors.New("halfedge twins don't share end points")
		}
	}

	var area float64
	for i := 0; i < t.Len(); i++ {
		a, b, c := t.Triangle(i)
		area += geom.Cross(a, b, c) / 2
	}

	hull := make(geom.Polygon, len(t.Hull))
	for i, p := range t.Hull {
		hull[i] = t.Points[p]
	}
	hullArea := hull.SignedArea()
	if math.Abs(area-hullArea) > 1e-9*math.Max(1, math.Abs(hullArea)) {
		return errors.Errorf("triangle area %v disagrees with hull area %v", area, hullArea)
	}
	return nil
}
