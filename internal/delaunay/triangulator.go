package delaunay

import (
	"math"
	"sort"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"github.com/voidshard/voronoiville/internal/geom"
)

// triangulator is a sweep-hull triangulator: points are added in order of
// distance from a seed triangle, each one connected to the visible part of an
// advancing convex hull, and edges are flipped until the Delaunay condition holds.
type triangulator struct {
	points    []r2.Point
	ids       []int
	dists     []float64
	center    r2.Point
	triangles []int
	halfedges []int
	trisLen   int

	// advancing hull as a circular doubly linked list over point indices
	hullStart int
	hullSize  int
	hullNext  []int
	hullPrev  []int
	hullTri   []int
	hash      []int

	stack []int
}

func newTriangulator(points []r2.Point) *triangulator {
	n := len(points)
	hashSize := int(math.Ceil(math.Sqrt(float64(n))))
	return &triangulator{
		points:   points,
		ids:      make([]int, n),
		dists:    make([]float64, n),
		hullNext: make([]int, n),
		hullPrev: make([]int, n),
		hullTri:  make([]int, n),
		hash:     make([]int, hashSize),
		stack:    make([]int, 0, 512),
	}
}

// sorting a triangulator sorts the `ids` such that the referenced points
// are in order by their distance to `center`

func (tri *triangulator) Len() int {
	return len(tri.ids)
}

func (tri *triangulator) Swap(i, j int) {
	tri.ids[i], tri.ids[j] = tri.ids[j], tri.ids[i]
}

func (tri *triangulator) Less(i, j int) bool {
	d1 := tri.dists[tri.ids[i]]
	d2 := tri.dists[tri.ids[j]]
	if d1 != d2 {
		return d1 < d2
	}
	p1 := tri.points[tri.ids[i]]
	p2 := tri.points[tri.ids[j]]
	if p1.X != p2.X {
		return p1.X < p2.X
	}
	return p1.Y < p2.Y
}

// visible returns if p sees the hull edge a -> b from outside, that is
// p, a, b turn clockwise.
func visible(p, a, b r2.Point) bool {
	return geom.Cross(p, a, b) < 0
}

func (tri *triangulator) triangulate() error {
	points := tri.points
	n := len(points)

	bounds := r2.RectFromPoints(points...)
	for i := range tri.ids {
		tri.ids[i] = i
	}

	// pick a seed point close to the midpoint
	var i0, i1, i2 int
	m := bounds.Center()
	minDist := math.Inf(1)
	for i, p := range points {
		d := geom.DistSq(p, m)
		if d < minDist {
			i0 = i
			minDist = d
		}
	}

	// find point closest to seed point
	minDist = math.Inf(1)
	for i, p := range points {
		if i == i0 {
			continue
		}
		d := geom.DistSq(p, points[i0])
		if d > 0 && d < minDist {
			i1 = i
			minDist = d
		}
	}

	// find the third point which forms the smallest circumcircle
	minRadius := math.Inf(1)
	for i, p := range points {
		if i == i0 || i == i1 {
			continue
		}
		r := geom.CircumradiusSq(points[i0], points[i1], p)
		if r < minRadius {
			i2 = i
			minRadius = r
		}
	}
	if math.IsInf(minRadius, 1) {
		return ErrCollinear
	}

	// swap the order of the seed points for counter-clockwise orientation
	if geom.Cross(points[i0], points[i1], points[i2]) < 0 {
		i1, i2 = i2, i1
	}

	center, ok := geom.Circumcenter(points[i0], points[i1], points[i2])
	if !ok {
		return errors.Wrap(ErrUnstable, "seed triangle has no circumcenter")
	}
	tri.center = center

	// sort the points by distance from the seed triangle circumcenter
	for i, p := range points {
		tri.dists[i] = geom.DistSq(p, center)
	}
	sort.Sort(tri)

	// the seed triangle is the starting hull
	tri.hullStart = i0
	tri.hullSize = 3

	tri.hullNext[i0], tri.hullPrev[i2] = i1, i1
	tri.hullNext[i1], tri.hullPrev[i0] = i2, i2
	tri.hullNext[i2], tri.hullPrev[i1] = i0, i0

	tri.hullTri[i0] = 0
	tri.hullTri[i1] = 1
	tri.hullTri[i2] = 2

	for i := range tri.hash {
		tri.hash[i] = -1
	}
	tri.hash[tri.hashKey(points[i0])] = i0
	tri.hash[tri.hashKey(points[i1])] = i1
	tri.hash[tri.hashKey(points[i2])] = i2

	maxTriangles := 2*n - 5
	if maxTriangles < 1 {
		maxTriangles = 1
	}
	tri.triangles = make([]int, maxTriangles*3)
	tri.halfedges = make([]int, maxTriangles*3)
	tri.addTriangle(i0, i1, i2, -1, -1, -1)

	for k, i := range tri.ids {
		p := points[i]

		// skip seed triangle points
		if i == i0 || i == i1 || i == i2 {
			continue
		}
		if k > 0 && p == points[tri.ids[k-1]] {
			return errors.Wrapf(ErrUnstable, "point %d duplicates point %d", i, tri.ids[k-1])
		}

		// find a visible edge on the convex hull using edge hash
		start := 0
		key := tri.hashKey(p)
		for j := 0; j < len(tri.hash); j++ {
			start = tri.hash[(key+j)%len(tri.hash)]
			if start != -1 && start != tri.hullNext[start] {
				break
			}
		}
		start = tri.hullPrev[start]

		e := start
		for !visible(p, points[e], points[tri.hullNext[e]]) {
			e = tri.hullNext[e]
			if e == start {
				e = -1
				break
			}
		}
		if e == -1 {
			// p lies on the hull, or just inside it when rounding spoils the
			// sweep order (a thin seed triangle puts the circumcenter far away)
			if !tri.insert(i) {
				return errors.Wrapf(ErrUnstable, "point %d (%v) sees no hull edge", i, p)
			}
			continue
		}

		// add the first triangle from the point
		t := tri.addTriangle(e, i, tri.hullNext[e], -1, -1, tri.hullTri[e])

		// recursively flip triangles from the point until they satisfy the Delaunay condition
		tri.hullTri[i] = tri.legalize(t + 2)
		tri.hullTri[e] = t // keep track of boundary triangles on the hull
		tri.hullSize++

		// walk forward through the hull, adding more triangles and flipping recursively
		nx := tri.hullNext[e]
		for {
			q := tri.hullNext[nx]
			if !visible(p, points[nx], points[q]) {
				break
			}
			t = tri.addTriangle(nx, i, q, tri.hullTri[i], -1, tri.hullTri[nx])
			tri.hullTri[i] = tri.legalize(t + 2)
			tri.hullNext[nx] = nx // mark as removed
			tri.hullSize--
			nx = q
		}

		// walk backward from the other side, adding more triangles and flipping
		if e == start {
			for {
				q := tri.hullPrev[e]
				if !visible(p, points[q], points[e]) {
					break
				}
				t = tri.addTriangle(q, i, e, -1, tri.hullTri[e], tri.hullTri[q])
				tri.legalize(t + 2)
				tri.hullTri[q] = t
				tri.hullNext[e] = e // mark as removed
				tri.hullSize--
				e = q
			}
		}

		// update the hull indices
		tri.hullStart = e
		tri.hullPrev[i] = e
		tri.hullNext[e] = i
		tri.hullPrev[nx] = i
		tri.hullNext[i] = nx

		// save the two new edges in the hash table
		tri.hash[tri.hashKey(p)] = i
		tri.hash[tri.hashKey(points[e])] = e
	}

	tri.triangles = tri.triangles[:tri.trisLen]
	tri.halfedges = tri.halfedges[:tri.trisLen]
	return nil
}

// hashKey buckets a point by its pseudo angle around the seed circumcenter.
func (tri *triangulator) hashKey(p r2.Point) int {
	d := p.Sub(tri.center)
	k := int(math.Floor(pseudoAngle(d.X, -d.Y) * float64(len(tri.hash))))
	return k % len(tri.hash)
}

// pseudoAngle is monotonic in the real angle of (dx, dy), in [0, 1].
func pseudoAngle(dx, dy float64) float64 {
	s := math.Abs(dx) + math.Abs(dy)
	if s == 0 {
		return 0
	}
	p := dx / s
	if dy > 0 {
		return (3 - p) / 4
	}
	return (1 + p) / 4
}

// insert attaches point i inside the current triangulation, splitting the
// triangle or edge it sits on. Returns false if i is outside every triangle.
func (tri *triangulator) insert(i int) bool {
	e, inside := tri.locate(tri.points[i])
	switch {
	case e == -1:
		return false
	case inside:
		tri.splitTriangle(e, i)
	default:
		tri.splitEdge(e, i)
	}
	return true
}

// locate returns the first half edge of a triangle holding p strictly inside,
// or failing that a half edge p lies exactly on. -1 if there is neither.
func (tri *triangulator) locate(p r2.Point) (int, bool) {
	on := -1
	for t := 0; t < tri.trisLen; t += 3 {
		outside := false
		edge, zeros := -1, 0
		for e := t; e < t+3; e++ {
			a := tri.points[tri.triangles[e]]
			b := tri.points[tri.triangles[Next(e)]]
			c := geom.Cross(a, b, p)
			if c < 0 {
				outside = true
				break
			}
			if c == 0 {
				edge = e
				zeros++
			}
		}
		switch {
		case outside:
		case zeros == 0:
			return t, true
		case zeros == 1 && on == -1:
			on = edge
		}
	}
	return on, false
}

// splitTriangle replaces triangle t (a, b, c) with (a, b, i), (b, c, i) and
// (c, a, i).
func (tri *triangulator) splitTriangle(t, i int) {
	a := tri.triangles[t]
	b := tri.triangles[t+1]
	c := tri.triangles[t+2]
	hb := tri.halfedges[t+1]
	hc := tri.halfedges[t+2]

	tri.triangles[t+2] = i
	u := tri.addTriangle(b, c, i, hb, -1, t+1)
	w := tri.addTriangle(c, a, i, hc, t+2, u+1)
	if hb == -1 {
		tri.hullTri[b] = u
	}
	if hc == -1 {
		tri.hullTri[c] = w
	}

	tri.legalize(t)
	tri.legalize(u)
	tri.legalize(w)
}

// splitEdge puts point i on half edge h (a -> b of triangle a, b, c), cutting
// the triangles either side of it in two. On the hull, i joins the hull
// between a and b.
func (tri *triangulator) splitEdge(h, i int) {
	hn, hp := Next(h), Prev(h)
	a := tri.triangles[h]
	b := tri.triangles[hn]
	c := tri.triangles[hp]
	twin := tri.halfedges[h]
	hb := tri.halfedges[hn]

	// (a, b, c) becomes (a, i, c) & (i, b, c)
	tri.triangles[hn] = i
	u := tri.addTriangle(i, b, c, -1, hb, hn)
	if hb == -1 {
		tri.hullTri[b] = u + 1
	}

	if twin == -1 {
		tri.hullNext[a], tri.hullPrev[i] = i, a
		tri.hullNext[i], tri.hullPrev[b] = b, i
		tri.hullTri[i] = u
		tri.hullSize++
		tri.hullStart = a
		tri.hash[tri.hashKey(tri.points[i])] = i

		tri.hullTri[i] = tri.legalize(u + 1)
		tri.legalize(hp)
		return
	}

	// (b, a, d) becomes (b, i, d) & (i, a, d)
	tn, tp := Next(twin), Prev(twin)
	d := tri.triangles[tp]
	hd := tri.halfedges[tn]

	tri.triangles[tn] = i
	v := tri.addTriangle(i, a, d, h, hd, tn)
	if hd == -1 {
		tri.hullTri[a] = v + 1
	}
	tri.link(twin, u)

	tri.legalize(hp)
	tri.legalize(u + 1)
	tri.legalize(tp)
	tri.legalize(v + 1)
}

// addTriangle add a triangle to the triangulation.
func (tri *triangulator) addTriangle(i0, i1, i2, a, b, c int) int {
	i := tri.trisLen
	tri.triangles[i] = i0
	tri.triangles[i+1] = i1
	tri.triangles[i+2] = i2
	tri.link(i, a)
	tri.link(i+1, b)
	tri.link(i+2, c)
	tri.trisLen += 3
	return i
}

func (tri *triangulator) link(a, b int) {
	tri.halfedges[a] = b
	if b >= 0 {
		tri.halfedges[b] = a
	}
}

// legalize flips the edge a if the pair of triangles sharing it doesn't satisfy
// the Delaunay condition (p1 is inside the circumcircle of [p0, pr, pl]), then
// does the same check for the new pair of triangles. Uses an explicit stack
// rather than recursion.
//
//	         pl                    pl
//	        /||\                  /  \
//	     al/ || \bl            al/    \a
//	      /  ||  \              /      \
//	     /  a||b  \    flip    /___ar___\
//	   p0\   ||   /p1   =>   p0\---bl---/p1
//	      \  ||  /              \      /
//	     ar\ || /br             b\    /br
//	        \||/                  \  /
//	         pr                    pr
func (tri *triangulator) legalize(a int) int {
	tri.stack = tri.stack[:0]
	ar := 0

	for {
		b := tri.halfedges[a]
		a0 := a - a%3
		ar = a0 + (a+2)%3

		if b == -1 { // convex hull edge
			if len(tri.stack) == 0 {
				break
			}
			a = tri.pop()
			continue
		}

		b0 := b - b%3
		al := a0 + (a+1)%3
		bl := b0 + (b+2)%3

		p0 := tri.triangles[ar]
		pr := tri.triangles[a]
		pl := tri.triangles[al]
		p1 := tri.triangles[bl]

		if !geom.InCircle(tri.points[p0], tri.points[pr], tri.points[pl], tri.points[p1]) {
			if len(tri.stack) == 0 {
				break
			}
			a = tri.pop()
			continue
		}

		tri.triangles[a] = p1
		tri.triangles[b] = p0

		hbl := tri.halfedges[bl]

		// edge swapped on the other side of the hull (rare)
		// fix the halfedge reference
		if hbl == -1 {
			e := tri.hullStart
			for {
				if tri.hullTri[e] == bl {
					tri.hullTri[e] = a
					break
				}
				e = tri.hullPrev[e]
				if e == tri.hullStart {
					break
				}
			}
		}
		tri.link(a, hbl)
		tri.link(b, tri.halfedges[ar])
		tri.link(ar, bl)

		br := b0 + (b+1)%3
		tri.stack = append(tri.stack, br)
	}

	return ar
}

func (tri *triangulator) pop() int {
	a := tri.stack[len(tri.stack)-1]
	tri.stack = tri.stack[:len(tri.stack)-1]
	return a
}

// convexHull walks the advancing hull once around, counter-clockwise.
func (tri *triangulator) convexHull() []int {
	out := make([]int, 0, tri.hullSize)
	e := tri.hullStart
	for i := 0; i < tri.hullSize; i++ {
		out = append(out, e)
		e = tri.hullNext[e]
	}
	return out
}
