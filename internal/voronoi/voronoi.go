package voronoi

import (
	"math"
	"runtime"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/model3d/model2d"
	"go.uber.org/zap"

	"github.com/voidshard/voronoiville/internal/delaunay"
	"github.com/voidshard/voronoiville/internal/geom"
)

// Voronoi is a finished diagram: one clipped cell per site.
type Voronoi struct {
	bounds     r2.Rect
	sites      []Site
	iterations int
	eps        float64

	// lookup of site positions, for SiteFor
	tree  *model2d.CoordTree
	index map[model2d.Coord]int
}

// cell is the clipped cell of one site.
type cell struct {
	site       r2.Point
	poly       geom.Polygon
	onHull     bool
	neighbours []int
}

// pass holds settings for one build of the diagram.
type pass struct {
	bounds     r2.Rect
	eps        float64
	workers    int
	neighbours bool
	log        *zap.Logger
}

// newVoronoi builds a voronoi diagram using the given builder information,
// rebuilding it from its own centroids once per relaxation iteration.
func newVoronoi(b *Builder) (*Voronoi, error) {
	err := ValidateBounds(b.bounds)
	if err != nil {
		return nil, err
	}
	if b.iterations < 0 {
		return nil, errors.Wrapf(ErrConfig, "relaxation iterations %d is negative", b.iterations)
	}
	if b.tolerance < 0 || math.IsNaN(b.tolerance) || math.IsInf(b.tolerance, 0) {
		return nil, errors.Wrapf(ErrConfig, "tolerance %v", b.tolerance)
	}
	if len(b.sites) == 0 {
		return nil, errors.Wrap(ErrInput, "voronoi diagram requires at least one site")
	}

	workers := b.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &pass{
		bounds:  b.bounds,
		eps:     b.tolerance * b.bounds.Size().Norm(),
		workers: workers,
		log:     b.log,
	}

	points := b.Sites()
	var cells []*cell
	for iter := 0; iter <= b.iterations; iter++ {
		// neighbours are only of interest for the diagram we hand back
		p.neighbours = b.neighbours && iter == b.iterations

		cells, err = p.build(points)
		if err != nil {
			switch {
			case iter == 0:
			case errors.Is(err, ErrGeometry):
				err = errors.Wrapf(err, "lloyd relaxation iteration %d", iter)
			default:
				// relaxed sites are centroids, not caller input
				err = errors.Wrapf(ErrGeometry, "lloyd relaxation iteration %d: %v", iter, err)
			}
			return nil, err
		}
		if iter == b.iterations {
			break
		}

		points = centroids(cells, workers)
		p.log.Debug("relaxed sites", zap.Int("iteration", iter+1), zap.Int("of", b.iterations))
	}

	me := &Voronoi{
		bounds:     b.bounds,
		iterations: b.iterations,
		eps:        p.eps,
		sites:      make([]Site, len(cells)),
		index:      map[model2d.Coord]int{},
	}

	coords := make([]model2d.Coord, len(cells))
	for i, c := range cells {
		me.sites[i] = &vSite{id: i, cell: c, parent: me}
		coords[i] = model2d.Coord{X: c.site.X, Y: c.site.Y}
		me.index[coords[i]] = i
	}
	me.tree = model2d.NewCoordTree(coords)

	return me, nil
}

// ValidateBounds returns ErrConfig unless r has a finite, strictly positive width & height.
func ValidateBounds(r r2.Rect) error {
	for _, v := range []float64{r.X.Lo, r.X.Hi, r.Y.Lo, r.Y.Hi} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Wrapf(ErrConfig, "bounding region %v is not finite", r)
		}
	}
	if r.X.Length() <= 0 || r.Y.Length() <= 0 {
		return errors.Wrapf(ErrConfig, "bounding region %v needs positive width and height", r)
	}
	return nil
}

// validateSites checks every site is finite, inside the region & not a
// duplicate of another site.
func (p *pass) validateSites(points []r2.Point) error {
	grown := p.bounds.ExpandedByMargin(p.eps)
	for i, s := range points {
		if !geom.Finite(s) {
			return errors.Wrapf(ErrInput, "site %d (%v) is not finite", i, s)
		}
		if !grown.ContainsPoint(s) {
			return errors.Wrapf(ErrInput, "site %d (%v) is outside %v", i, s, p.bounds)
		}
	}

	coords := make([]model2d.Coord, len(points))
	index := map[model2d.Coord]int{}
	for i, s := range points {
		c := model2d.Coord{X: s.X, Y: s.Y}
		if j, ok := index[c]; ok {
			return errors.Wrapf(ErrInput, "site %d duplicates site %d at %v", i, j, s)
		}
		index[c] = i
		coords[i] = c
	}

	tree := model2d.NewCoordTree(coords)
	for i, c := range coords {
		for _, n := range tree.KNN(2, c) {
			if n == c {
				continue
			}
			if n.Dist(c) <= p.eps {
				return errors.Wrapf(ErrInput, "site %d is within %v of site %d", i, p.eps, index[n])
			}
		}
	}
	return nil
}

// build computes the clipped cells of the given sites.
func (p *pass) build(points []r2.Point) ([]*cell, error) {
	err := p.validateSites(points)
	if err != nil {
		return nil, err
	}

	var (
		regions []*region
		clip    *clipper
		nbrs    func() [][]int
	)

	tri, err := delaunay.Triangulate(points, orientEps)
	switch {
	case err == nil:
		centers, err := tri.Circumcenters()
		if err != nil {
			return nil, errors.Wrapf(ErrGeometry, "triangulation: %v", err)
		}
		regions = deriveRegions(tri, centers)
		clip = newClipper(p.bounds, regions, p.eps)
		nbrs = func() [][]int { return triangulationNeighbours(tri, centers, clip) }
		p.log.Debug("triangulated sites", zap.Int("sites", len(points)), zap.Int("triangles", tri.Len()))
	case errors.Is(err, delaunay.ErrCollinear) && len(points) == 1:
		v := p.bounds.Vertices()
		regions = []*region{{kind: truncated, verts: geom.Polygon(v[:])}}
		clip = newClipper(p.bounds, nil, p.eps)
		nbrs = func() [][]int { return [][]int{{}} }
	case errors.Is(err, delaunay.ErrCollinear):
		var order []int
		clip = newClipper(p.bounds, nil, p.eps)
		regions, order = deriveCollinear(points, clip.centre, clip.reach, p.eps)
		nbrs = func() [][]int { return collinearNeighbours(points, order, clip) }
		p.log.Debug("collinear sites", zap.Int("sites", len(points)))
	default:
		return nil, errors.Wrapf(ErrGeometry, "triangulation: %v", err)
	}

	cells := make([]*cell, len(points))
	errs := make([]error, len(points))
	essentials.ConcurrentMap(p.workers, len(points), func(i int) {
		poly, onHull, err := clip.clip(regions[i])
		if err != nil {
			errs[i] = errors.Wrapf(err, "site %d", i)
			return
		}
		cells[i] = &cell{site: points[i], poly: poly, onHull: onHull}
	})
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	// the cells should exactly tile the region
	var total float64
	for _, c := range cells {
		total += c.poly.Area()
	}
	want := p.bounds.X.Length() * p.bounds.Y.Length()
	if math.Abs(total-want) > 1e-6*want {
		return nil, errors.Wrapf(ErrGeometry, "cells cover %v of region area %v", total, want)
	}

	if p.neighbours {
		for i, n := range nbrs() {
			cells[i].neighbours = n
		}
	}

	return cells, nil
}

// centroids returns the area weighted centre of every cell.
// Cells without area keep their site.
func centroids(cells []*cell, workers int) []r2.Point {
	out := make([]r2.Point, len(cells))
	essentials.ConcurrentMap(workers, len(cells), func(i int) {
		c := cells[i]
		if len(c.poly) < 3 || c.poly.Area() == 0 {
			out[i] = c.site
			return
		}
		out[i] = c.poly.Centroid()
	})
	return out
}

// Bounds returns the bounding rect for this diagram
func (v *Voronoi) Bounds() r2.Rect {
	return v.bounds
}

// Iterations returns how many relaxation passes were run.
func (v *Voronoi) Iterations() int {
	return v.iterations
}

// Tolerance returns the absolute distance under which points are considered equal.
func (v *Voronoi) Tolerance() float64 {
	return v.eps
}

// Sites returns all sites
func (v *Voronoi) Sites() []Site {
	return v.sites
}

// SiteByID returns the given Site by it's ID
func (v *Voronoi) SiteByID(i int) Site {
	if i < 0 || i >= len(v.sites) {
		return nil
	}
	return v.sites[i]
}

// SiteFor returns the nearest Site ("centre" of a voronoi cell) for the given point,
// ie. the site whose cell holds the point.
func (v *Voronoi) SiteFor(p r2.Point) Site {
	nearest := v.tree.KNN(1, model2d.Coord{X: p.X, Y: p.Y})
	if len(nearest) == 0 {
		return nil
	}
	return v.sites[v.index[nearest[0]]]
}
