package voronoi

import (
	"math/rand"
	"time"

	"github.com/golang/geo/r2"
	"go.uber.org/zap"
)

const (
	// DefaultTolerance is relative to the diagonal of the bounding region.
	// Sites closer than this are duplicates and vertices closer than this to
	// the region edge are on the edge.
	DefaultTolerance = 1e-10

	// orientEps decides when three points are collinear (as the sine of the
	// angle they make). Kept well under DefaultTolerance so two distinct
	// sites never project onto the same spot of a collinear layout.
	orientEps = 1e-12
)

// Builder struct makes managing the setup of a voronoi diagram easier.
// Sites can be given outright or placed at random subject to filters, then
// Voronoi() computes the diagram, relaxing it first if asked.
type Builder struct {
	bounds r2.Rect
	sites  []r2.Point
	rng    *rand.Rand
	sfilt  []SiteFilter
	cfilt  []CandidateFilter

	iterations int
	neighbours bool
	tolerance  float64
	workers    int
	log        *zap.Logger
}

// NewBuilder returns a new Voronoi diagram builder
func NewBuilder(bounds r2.Rect) *Builder {
	return &Builder{
		bounds:    bounds,
		sites:     []r2.Point{},
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		tolerance: DefaultTolerance,
		log:       zap.NewNop(),
	}
}

// SiteCount returns how many sites we've currently got configured
func (b *Builder) SiteCount() int {
	return len(b.sites)
}

// Sites returns a copy of the currently configured sites.
func (b *Builder) Sites() []r2.Point {
	out := make([]r2.Point, len(b.sites))
	copy(out, b.sites)
	return out
}

// Voronoi returns the Voronoi diagram given our current sites.
// The builder isn't modified, so it can be called again (eg. with more sites).
func (b *Builder) Voronoi() (*Voronoi, error) {
	return newVoronoi(b)
}

// SetSeed sets our internal RNG seed
func (b *Builder) SetSeed(seed int64) {
	b.rng = rand.New(rand.NewSource(seed))
}

// SetCandidateFilters sets filters that accept / reject a proposed site without
// reference to other currently set site(s).
func (b *Builder) SetCandidateFilters(f ...CandidateFilter) {
	b.cfilt = f
}

// SetSiteFilters sets filters that compare proposed sites to all current sites.
func (b *Builder) SetSiteFilters(f ...SiteFilter) {
	b.sfilt = f
}

// SetLloydRelaxationIterations sets how many times the diagram is rebuilt
// from the centroids of its own cells. 0 means no relaxation.
func (b *Builder) SetLloydRelaxationIterations(n int) {
	b.iterations = n
}

// SetNeighbours sets whether neighbouring sites are worked out for each cell.
// When false, no time is spent on them & Site.Neighbours() returns nil.
func (b *Builder) SetNeighbours(on bool) {
	b.neighbours = on
}

// SetTolerance sets the duplicate / on-edge tolerance, relative to the
// diagonal of the bounding region. 0 restores DefaultTolerance.
func (b *Builder) SetTolerance(t float64) {
	if t == 0 {
		t = DefaultTolerance
	}
	b.tolerance = t
}

// SetWorkers sets how many goroutines share per-cell work. 0 uses GOMAXPROCS.
func (b *Builder) SetWorkers(n int) {
	b.workers = n
}

// SetLogger sets where debug information goes. nil silences it.
func (b *Builder) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	b.log = l
}

// SetSites replaces all current sites. Filters are not run.
func (b *Builder) SetSites(sites []r2.Point) {
	b.sites = make([]r2.Point, len(sites))
	copy(b.sites, sites)
}

// AddRandomSite places a site at random, assuming it obeys all currently set filters.
func (b *Builder) AddRandomSite() (r2.Point, int, bool) {
	// make a random point within bounds
	candidate := r2.Point{
		X: b.bounds.X.Lo + b.rng.Float64()*b.bounds.X.Length(),
		Y: b.bounds.Y.Lo + b.rng.Float64()*b.bounds.Y.Length(),
	}

	if !b.accepted(candidate) {
		return candidate, 0, false
	}

	return candidate, b.addSite(candidate), true
}

// AddSite places a site at the given location, assuming it obeys currently set filters.
func (b *Builder) AddSite(p r2.Point) (int, bool) {
	if !b.accepted(p) {
		return 0, false
	}
	return b.addSite(p), true
}

// accepted returns if the proposed site location is acceptable to our filters.
// We run CandidateFilter(s) first so we can hopefully reject candidates early.
func (b *Builder) accepted(candidate r2.Point) bool {
	// first check if we can reject early with a CandidateFilter
	for _, fn := range b.cfilt {
		if !fn(candidate) {
			return false
		}
	}

	// check if we can reject with any SiteFilter, for every site
	if b.sfilt != nil {
		for _, s := range b.sites {
			for _, fn := range b.sfilt {
				if !fn(candidate, s) {
					return false
				}
			}
		}
	}

	return true
}

// addSite adds a site, no filters are run.
func (b *Builder) addSite(p r2.Point) int {
	id := len(b.sites)
	b.sites = append(b.sites, p)
	return id
}
