package voronoi

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/voidshard/voronoiville/internal/geom"
)

// Site exposes useful functions of a voronoi diagram Site
type Site interface {
	ID() int
	Position() r2.Point

	Edges() [][2]r2.Point
	Vertices() []r2.Point
	Contains(p r2.Point) bool
	AllContains() PointGenerator
	Bounds() r2.Rect
	Neighbours() []int
	OnHull() bool
	Area() float64
	Centroid() r2.Point
}

// PointGenerator returns all whole-number points within a Site, in a somewhat
// sane fashion that doesn't involve pre-computing a huge set
type PointGenerator interface {
	Next() (r2.Point, bool)
}

// vSite is a clipped cell as handed out by a Voronoi
type vSite struct {
	id     int
	parent *Voronoi
	cell   *cell
}

// vPGen satisfies PointGenerator
type vPGen struct {
	poly                   geom.Polygon
	minX, maxX, maxY, x, y float64
}

// Next returns the next point contained in a Site.
// A false value indicates that there are no more.
func (v *vPGen) Next() (r2.Point, bool) {
	for ; v.y <= v.maxY; v.y++ {
		for ; v.x <= v.maxX; v.x++ {
			p := r2.Point{X: v.x, Y: v.y}
			if v.poly.Contains(p) {
				v.x++
				return p, true
			}
		}
		v.x = v.minX
	}
	return r2.Point{}, false
}

// AllContains returns a PointGenerator for the given site
func (s *vSite) AllContains() PointGenerator {
	b := s.Bounds()
	minX := math.Ceil(b.X.Lo)
	return &vPGen{
		poly: s.cell.poly,
		minX: minX,
		maxX: math.Floor(b.X.Hi),
		maxY: math.Floor(b.Y.Hi),
		x:    minX,
		y:    math.Ceil(b.Y.Lo),
	}
}

// Neighbours returns the IDs of all Sites that share an edge with this site,
// in ascending order. Nil unless neighbours were asked for.
func (s *vSite) Neighbours() []int {
	return s.cell.neighbours
}

// ID of this site
func (s *vSite) ID() int {
	return s.id
}

// Position of the site; after relaxation this is where the site ended up.
func (s *vSite) Position() r2.Point {
	return s.cell.site
}

// OnHull returns if the cell touches the edge of the bounding region.
func (s *vSite) OnHull() bool {
	return s.cell.onHull
}

// Edges returns all edges surrounding this site
func (s *vSite) Edges() [][2]r2.Point {
	poly := s.cell.poly
	if len(poly) < 2 {
		return nil
	}
	edges := make([][2]r2.Point, len(poly))
	for i, a := range poly {
		edges[i] = [2]r2.Point{a, poly[(i+1)%len(poly)]}
	}
	return edges
}

// Vertices returns all vertexes (through which edges pass) of the site,
// counter-clockwise.
func (s *vSite) Vertices() []r2.Point {
	out := make([]r2.Point, len(s.cell.poly))
	copy(out, s.cell.poly)
	return out
}

// Contains returns if this site's cell contains p.
func (s *vSite) Contains(p r2.Point) bool {
	return s.cell.poly.Contains(p)
}

// Bounds returns a rectangle that necessarily contains all points in the site
func (s *vSite) Bounds() r2.Rect {
	return s.cell.poly.Bounds()
}

// Area of the clipped cell
func (s *vSite) Area() float64 {
	return s.cell.poly.Area()
}

// Centroid of the clipped cell; the point the site would move to in
// another round of relaxation.
func (s *vSite) Centroid() r2.Point {
	return s.cell.poly.Centroid()
}
