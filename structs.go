package voronoiville

import (
	"fmt"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"

	"github.com/voidshard/voronoiville/internal/voronoi"
)

// BoundingBox is the axis aligned rectangle a diagram is clipped to.
type BoundingBox struct {
	rect r2.Rect
}

// NewBoundingBox returns the box with opposite corners (x1, y1) & (x2, y2),
// given in any order.
func NewBoundingBox(x1, y1, x2, y2 float64) *BoundingBox {
	return &BoundingBox{rect: r2.RectFromPoints(r2.Point{X: x1, Y: y1}, r2.Point{X: x2, Y: y2})}
}

// NewCenteredBoundingBox returns a box of the given width & height around center.
func NewCenteredBoundingBox(center Point, width, height float64) *BoundingBox {
	return &BoundingBox{rect: r2.Rect{
		X: r1.Interval{Lo: center.X - width/2, Hi: center.X + width/2},
		Y: r1.Interval{Lo: center.Y - height/2, Hi: center.Y + height/2},
	}}
}

// Validate returns ErrConfig if the box has no width or height or isn't finite.
func (b *BoundingBox) Validate() error {
	return voronoi.ValidateBounds(b.rect)
}

// Rect returns the box as a rectangle.
func (b *BoundingBox) Rect() r2.Rect {
	return b.rect
}

// Center of the box
func (b *BoundingBox) Center() Point {
	return b.rect.Center()
}

// Width of the box
func (b *BoundingBox) Width() float64 {
	return b.rect.X.Length()
}

// Height of the box
func (b *BoundingBox) Height() float64 {
	return b.rect.Y.Length()
}

// Corners returns the four corners counter-clockwise from the bottom left
// (lowest x & y).
func (b *BoundingBox) Corners() []Point {
	v := b.rect.Vertices()
	return v[:]
}

func (b *BoundingBox) String() string {
	return fmt.Sprintf("BoundingBox(center=(%.3f, %.3f), width=%.3f, height=%.3f)",
		b.Center().X, b.Center().Y, b.Width(), b.Height())
}

// Cell is the region of the bounding box closer to one site than any other.
type Cell struct {
	// Site is the index of the site this cell belongs to
	Site int

	// Position of the site, after relaxation if any was asked for
	Position Point

	// Vertices of the cell, counter-clockwise. The last vertex joins the first.
	Vertices []Point

	// Neighbors are the sites sharing an edge with this cell, ascending.
	// nil (json null) unless Config.ReturnNeighbors was set; a lone cell
	// asked for its neighbours has an empty list.
	Neighbors []int

	// IsOnHull is true if the cell touches the edge of the bounding box
	IsOnHull bool
}

func (c *Cell) String() string {
	return fmt.Sprintf("Cell(site=%d, pos=(%.3f, %.3f), on_hull=%t)", c.Site, c.Position.X, c.Position.Y, c.IsOnHull)
}
