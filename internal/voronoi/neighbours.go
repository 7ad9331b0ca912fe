package voronoi

import (
	"sort"

	"github.com/golang/geo/r2"

	"github.com/voidshard/voronoiville/internal/delaunay"
)

// neighbourSets collects neighbours per site, without duplicates.
type neighbourSets []map[int]bool

func newNeighbourSets(n int) neighbourSets {
	ns := make(neighbourSets, n)
	for i := range ns {
		ns[i] = map[int]bool{}
	}
	return ns
}

// link marks a & b as neighbours of each other.
func (ns neighbourSets) link(a, b int) {
	ns[a][b] = true
	ns[b][a] = true
}

// sorted returns the neighbours of every site in ascending order.
func (ns neighbourSets) sorted() [][]int {
	out := make([][]int, len(ns))
	for i, set := range ns {
		ids := make([]int, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		out[i] = ids
	}
	return out
}

// triangulationNeighbours returns, per site, the sites whose shared Voronoi
// edge has some length inside the rectangle. Each Delaunay edge is decided
// once, so the relation is always symmetric.
func triangulationNeighbours(tri *delaunay.Triangulation, centers []r2.Point, c *clipper) [][]int {
	ns := newNeighbourSets(len(tri.Points))

	for e, twin := range tri.Halfedges {
		if twin != -1 && twin < e {
			continue // seen from the other side
		}

		a := tri.Triangles[e]
		b := tri.Triangles[delaunay.Next(e)]
		from := centers[delaunay.TriangleOf(e)]

		var length float64
		if twin == -1 {
			// hull edge: the voronoi edge is a ray heading out of the hull
			length = c.rayLength(from, outward(tri.Points[a], tri.Points[b]))
		} else {
			length = c.edgeLength(from, centers[delaunay.TriangleOf(twin)])
		}

		if length > c.eps {
			ns.link(a, b)
		}
	}

	return ns.sorted()
}

// collinearNeighbours links consecutive sites of a collinear layout, whose
// cells are split by the bisector between them.
func collinearNeighbours(points []r2.Point, order []int, c *clipper) [][]int {
	ns := newNeighbourSets(len(points))

	for k := 1; k < len(order); k++ {
		a, b := points[order[k-1]], points[order[k]]
		mid := a.Add(b).Mul(0.5)
		along := b.Sub(a).Ortho().Normalize()

		length := c.edgeLength(mid.Sub(along.Mul(c.reach)), mid.Add(along.Mul(c.reach)))
		if length > c.eps {
			ns.link(order[k-1], order[k])
		}
	}

	return ns.sorted()
}
