package voronoi

import (
	"math"
	"sort"

	"github.com/golang/geo/r2"

	"github.com/voidshard/voronoiville/internal/delaunay"
	"github.com/voidshard/voronoiville/internal/geom"
)

// regionKind tags the shape of a cell before clipping.
type regionKind int

const (
	// bounded regions are closed polygons of circumcenters
	bounded regionKind = iota

	// rayed regions are a chain of circumcenters with a ray arriving at the
	// first vertex and another leaving the last, both heading off to infinity
	rayed

	// truncated regions were unbounded but are already cut off far outside
	// the bounding region (collinear strips, lone sites)
	truncated
)

// region is a cell as derived from the triangulation, before clipping.
type region struct {
	kind  regionKind
	verts geom.Polygon // counter-clockwise

	// unit directions of the rays of a rayed region: in arrives at verts[0]
	// (pointing away from it, out to infinity), out leaves verts[len-1]
	in, out r2.Point
}

// unbounded returns if the region went off to infinity before clipping.
func (r *region) unbounded() bool {
	return r.kind != bounded
}

// polygon closes a region into a plain polygon. Rays are cut at distance
// reach & joined up via a far point between their directions, so clipping the
// result to anything within reach of centre gives the same answer as clipping
// the true (infinite) region.
func (r *region) polygon(centre r2.Point, reach float64) geom.Polygon {
	if r.kind != rayed {
		return r.verts
	}

	first := r.verts[0]
	last := r.verts[len(r.verts)-1]

	// the region is convex so turning counter-clockwise from out to in sweeps
	// less than a half turn; the far point sits half way round
	theta := math.Atan2(r.out.Cross(r.in), r.out.Dot(r.in))
	switch {
	case theta < -math.Pi/2:
		// a very sharp hull corner, just past a half turn
		theta += 2 * math.Pi
	case theta < 0:
		// parallel rays from collinear hull sites
		theta = 0
	}
	mid := geom.Rotate(r.out, theta/2)

	out := make(geom.Polygon, 0, len(r.verts)+3)
	out = append(out, first.Add(r.in.Mul(reach)))
	out = append(out, r.verts...)
	out = append(out, last.Add(r.out.Mul(reach)))
	out = append(out, centre.Add(mid.Mul(reach)))
	return out
}

// outward returns the unit normal on the right of a -> b; for a hull edge of a
// counter-clockwise triangulation that points away from the hull.
func outward(a, b r2.Point) r2.Point {
	d := b.Sub(a)
	return r2.Point{X: d.Y, Y: -d.X}.Normalize()
}

// deriveRegions builds the region of every site from the triangulation by
// walking the triangles around each site & taking their circumcenters.
func deriveRegions(tri *delaunay.Triangulation, centers []r2.Point) []*region {
	out := make([]*region, len(tri.Points))
	for i := range tri.Points {
		around := tri.Around(i)

		// the walk goes clockwise, so fill the chain from the back
		verts := make(geom.Polygon, len(around))
		for j, e := range around {
			verts[len(around)-1-j] = centers[delaunay.TriangleOf(e)]
		}

		if !tri.OnHull(i) {
			out[i] = &region{kind: bounded, verts: verts}
			continue
		}

		// the walk starts on the hull edge arriving at i & ends on the triangle
		// whose next edge leaves i along the hull
		site := tri.Points[i]
		first := around[0]
		last := around[len(around)-1]
		from := tri.Points[tri.Triangles[first]]
		to := tri.Points[tri.Triangles[delaunay.Prev(last)]]

		out[i] = &region{
			kind:  rayed,
			verts: verts,
			in:    outward(site, to),
			out:   outward(from, site),
		}
	}
	return out
}

// collinearOrder returns site indices sorted along the line they share.
// Sites whose projections are within eps keep their input order.
func collinearOrder(points []r2.Point, eps float64) ([]int, r2.Point) {
	order := make([]int, len(points))
	for i := range order {
		order[i] = i
	}
	if len(points) < 2 {
		return order, r2.Point{X: 1}
	}

	// direction from the first point to the one furthest from it
	far := points[0]
	for _, p := range points {
		if geom.DistSq(points[0], p) > geom.DistSq(points[0], far) {
			far = p
		}
	}
	dir := far.Sub(points[0]).Normalize()

	proj := make([]float64, len(points))
	for i, p := range points {
		proj[i] = p.Sub(points[0]).Dot(dir)
	}
	sort.SliceStable(order, func(a, b int) bool {
		pa, pb := proj[order[a]], proj[order[b]]
		if math.Abs(pa-pb) <= eps {
			return false
		}
		return pa < pb
	})
	return order, dir
}

// deriveCollinear builds regions for sites that can't be triangulated: every
// site on one line (including the two site case). Each cell is the strip
// between the perpendicular bisectors to the sites either side of it.
func deriveCollinear(points []r2.Point, centre r2.Point, reach, eps float64) ([]*region, []int) {
	order, _ := collinearOrder(points, eps)

	square := geom.Polygon{
		centre.Add(r2.Point{X: -reach, Y: -reach}),
		centre.Add(r2.Point{X: reach, Y: -reach}),
		centre.Add(r2.Point{X: reach, Y: reach}),
		centre.Add(r2.Point{X: -reach, Y: reach}),
	}

	out := make([]*region, len(points))
	for k, i := range order {
		poly := square
		site := points[i]
		if k > 0 {
			other := points[order[k-1]]
			poly = geom.ClipHalfPlane(poly, site.Add(other).Mul(0.5), site.Sub(other))
		}
		if k < len(order)-1 {
			other := points[order[k+1]]
			poly = geom.ClipHalfPlane(poly, site.Add(other).Mul(0.5), site.Sub(other))
		}
		out[i] = &region{kind: truncated, verts: poly}
	}
	return out, order
}
