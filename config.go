package voronoiville

import (
	"go.uber.org/zap"
)

// Config holds configuration for a given diagram.
// Only BoundingBox & at least one site (given or random) are required.
type Config struct {
	// Sites to build cells around. These are always placed as given &
	// keep their order: cell i belongs to Sites[i].
	// Sites outside BoundingBox (by more than Tolerance x its diagonal) are
	// rejected with ErrInput.
	Sites []Point

	// BoundingBox constrains the diagram, required.
	// Every site must sit inside it.
	BoundingBox *BoundingBox

	// ReturnNeighbors works out the neighbouring sites of every cell.
	// When false no time is spent on it & Cell.Neighbors is nil.
	ReturnNeighbors bool

	// LloydRelaxationIterations is how many times the diagram is rebuilt with
	// each site moved to the centroid of its cell. 0 means sites stay put.
	LloydRelaxationIterations int

	// Tolerance is relative to the diagonal of BoundingBox.
	// Sites closer than this are rejected as duplicates & cell vertices this
	// close to the box edge count as on it.
	// voronoi.DefaultTolerance (1e-10) if not set.
	Tolerance float64

	// Workers is how many goroutines share per-cell work, GOMAXPROCS if 0
	Workers int

	// RandomSites adds this many randomly placed sites after Sites.
	// Nb. this is best effort, if MinSiteDistance is large we might not
	// be able to fit them all in.
	RandomSites int

	// MinSiteDistance random sites are placed at least this far from every
	// other site (given or random). Ignored if 0.
	MinSiteDistance float64

	// Seed for rng (random number chosen if not set)
	Seed int64

	// Logger receives debug information about builds. Silent if nil.
	Logger *zap.Logger
}

// DefaultConfig returns a config with neighbours enabled & no relaxation.
// BoundingBox and Sites still need setting.
func DefaultConfig() *Config {
	return &Config{
		ReturnNeighbors: true,
	}
}

// logger returns the configured logger or a no-op one
func (c *Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
