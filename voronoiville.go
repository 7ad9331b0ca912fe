// Package voronoiville computes Voronoi diagrams of 2D sites clipped to a
// rectangle, optionally evened out by Lloyd relaxation.
//
//	cells, err := voronoiville.Voronoi(sites, voronoiville.NewBoundingBox(0, 0, 100, 100), true, 2)
package voronoiville

import (
	"encoding/json"
	"time"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/voidshard/voronoiville/internal/outline"
	"github.com/voidshard/voronoiville/internal/voronoi"
)

// Point is an x, y coordinate
type Point = r2.Point

var (
	// ErrConfig implies the bounding box, iteration count or tolerance is unusable
	ErrConfig = voronoi.ErrConfig

	// ErrInput implies the sites are unusable: duplicates, non finite or outside the box
	ErrInput = voronoi.ErrInput

	// ErrGeometry implies the diagram couldn't be built due to numerical trouble
	ErrGeometry = voronoi.ErrGeometry
)

// Diagram holds a finished voronoi diagram
type Diagram struct {
	Seed int64

	cfg   *Config
	log   *zap.Logger
	graph *voronoi.Voronoi
	cells []*Cell
}

// Voronoi builds the diagram of sites within bbox & returns one cell per site
// in site order.
func Voronoi(sites []Point, bbox *BoundingBox, returnNeighbors bool, iterations int) ([]*Cell, error) {
	d, err := New(&Config{
		Sites:                     sites,
		BoundingBox:               bbox,
		ReturnNeighbors:           returnNeighbors,
		LloydRelaxationIterations: iterations,
	})
	if err != nil {
		return nil, err
	}
	return d.Cells(), nil
}

// New creates a new Diagram given configuration. Either the whole diagram is
// built or an error is returned.
func New(cfg *Config) (*Diagram, error) {
	if cfg == nil {
		return nil, errors.Wrap(ErrConfig, "config is required")
	}
	d := &Diagram{cfg: cfg, log: cfg.logger()}
	err := d.build()
	if err != nil {
		return nil, err
	}
	return d, nil
}

// build sets up the builder, places random sites & computes the diagram.
func (d *Diagram) build() error {
	if d.cfg.BoundingBox == nil {
		return errors.Wrap(ErrConfig, "bounding box is required")
	}
	err := d.cfg.BoundingBox.Validate()
	if err != nil {
		return err
	}

	d.Seed = d.cfg.Seed
	if d.Seed == 0 {
		d.Seed = time.Now().UnixNano()
	}

	gb := voronoi.NewBuilder(d.cfg.BoundingBox.Rect())
	gb.SetSeed(d.Seed)
	gb.SetSites(d.cfg.Sites)
	gb.SetLloydRelaxationIterations(d.cfg.LloydRelaxationIterations)
	gb.SetNeighbours(d.cfg.ReturnNeighbors)
	gb.SetTolerance(d.cfg.Tolerance)
	gb.SetWorkers(d.cfg.Workers)
	gb.SetLogger(d.log)

	d.randomSites(gb)

	d.graph, err = gb.Voronoi()
	if err != nil {
		return err
	}

	d.cells = make([]*Cell, len(d.graph.Sites()))
	for i, s := range d.graph.Sites() {
		d.cells[i] = &Cell{
			Site:      s.ID(),
			Position:  s.Position(),
			Vertices:  s.Vertices(),
			Neighbors: s.Neighbours(),
			IsOnHull:  s.OnHull(),
		}
	}

	d.log.Debug("built diagram",
		zap.Int("cells", len(d.cells)),
		zap.Int("iterations", d.graph.Iterations()),
		zap.Bool("neighbours", d.cfg.ReturnNeighbors),
	)
	return nil
}

// randomSites adds the configured number of random sites, making more attempts
// than needed incase we randomly pick some invalid points.
func (d *Diagram) randomSites(gb *voronoi.Builder) {
	if d.cfg.RandomSites <= 0 {
		return
	}

	gb.SetCandidateFilters(voronoi.Inside(d.cfg.BoundingBox.Rect()))
	if d.cfg.MinSiteDistance > 0 {
		gb.SetSiteFilters(voronoi.MinDistance(d.cfg.MinSiteDistance))
	}

	added := 0
	for i := 0; i < d.cfg.RandomSites*5 && added < d.cfg.RandomSites; i++ {
		_, _, ok := gb.AddRandomSite()
		if ok {
			added++
		}
	}

	if added < d.cfg.RandomSites {
		d.log.Warn("failed to place full number of random sites",
			zap.Int("wanted", d.cfg.RandomSites),
			zap.Int("placed", added),
			zap.Float64("minSiteDistance", d.cfg.MinSiteDistance),
		)
	}
}

// Cells returns every cell, in site order.
func (d *Diagram) Cells() []*Cell {
	return d.cells
}

// Cell returns the cell of site i, or nil if there is no such site.
func (d *Diagram) Cell(i int) *Cell {
	if i < 0 || i >= len(d.cells) {
		return nil
	}
	return d.cells[i]
}

// SiteFor returns the cell holding p; that of the nearest site.
// Nil if p is outside the bounding box.
func (d *Diagram) SiteFor(p Point) *Cell {
	if !d.graph.Bounds().ContainsPoint(p) {
		return nil
	}
	s := d.graph.SiteFor(p)
	if s == nil {
		return nil
	}
	return d.cells[s.ID()]
}

// Outline returns the edges around the union of the given sites' cells.
// Edges along the bounding box are included; edges between two of the given
// cells are not. Edges keep the counter-clockwise direction of their cell.
func (d *Diagram) Outline(sites ...int) [][2]Point {
	inside := []voronoi.Site{}
	seen := map[int]bool{}
	for _, i := range sites {
		s := d.graph.SiteByID(i)
		if s == nil || seen[i] {
			continue
		}
		seen[i] = true
		inside = append(inside, s)
	}
	return outline.Outline(d.graph.Tolerance(), inside)
}

// Bounds returns the bounding box the diagram is clipped to.
func (d *Diagram) Bounds() *BoundingBox {
	return &BoundingBox{rect: d.graph.Bounds()}
}

// Iterations returns how many rounds of relaxation were run.
func (d *Diagram) Iterations() int {
	return d.graph.Iterations()
}

// JSON returns the cells as json.
func (d *Diagram) JSON() ([]byte, error) {
	return json.Marshal(d.cells)
}
