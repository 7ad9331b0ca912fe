package voronoi

import (
	"github.com/pkg/errors"
)

var (
	// ErrConfig implies the diagram settings are unusable, eg. a bounding
	// region without width or height, or a negative iteration count.
	ErrConfig = errors.New("invalid configuration")

	// ErrInput implies the sites can't seed a diagram: duplicates, non finite
	// coordinates or sites outside the bounding region.
	ErrInput = errors.New("invalid input")

	// ErrGeometry implies the triangulation or clipping failed to produce a
	// valid cell for some site, usually due to numerical degeneracy.
	ErrGeometry = errors.New("geometry error")
)
