package voronoi

import (
	"github.com/golang/geo/r2"

	"github.com/voidshard/voronoiville/internal/geom"
)

// CandidateFilter accepts or rejects a candidate point based
// purely on the given point.
// These filters are run before SiteFilter(s) which naturally require
// us to iterate each site.
type CandidateFilter func(p r2.Point) bool

// SiteFilter is a filter for a candidate point that is run
// against every current site in the builder.
// Ie. we must 'accept' the candidate when compared
// with every existing site that we've previously accepted.
type SiteFilter func(candidate, site r2.Point) bool

// MinDistance ensures that a candidate point is at least `dist`
// distance away from every other site.
func MinDistance(dist float64) SiteFilter {
	return func(candidate, site r2.Point) bool {
		return geom.Dist(candidate, site) >= dist
	}
}

// Inside rejects candidates outside of the given rectangle.
func Inside(r r2.Rect) CandidateFilter {
	return func(p r2.Point) bool {
		return r.ContainsPoint(p)
	}
}
