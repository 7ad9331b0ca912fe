package outline

import (
	"github.com/golang/geo/r2"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/model3d/model2d"

	"github.com/voidshard/voronoiville/internal/voronoi"
)

// Outline finds the walls around all "inside" site(s): every edge of an inside
// cell that isn't also an edge of another inside cell.
// Notes.
//  1. edges along the border of the bounding region are part of the outline
//  2. each edge keeps the (counter-clockwise) direction of the cell it came from,
//     but edges are returned in no particular order
//  3. vertices within eps of each other are considered the same vertex, since
//     neighbouring cells may disagree on where they cut the border by a rounding error
func Outline(eps float64, inside []voronoi.Site) [][2]r2.Point {
	if len(inside) == 0 {
		return nil
	}

	m := newMerger(eps, inside)

	type edgeID [2]int
	toEdgeID := func(a, b int) edgeID {
		if b < a {
			a, b = b, a
		}
		return edgeID{a, b}
	}

	counts := map[edgeID]int{}
	wall := [][2]r2.Point{}
	for _, s := range inside {
		for _, e := range s.Edges() {
			a, b := m.id(e[0]), m.id(e[1])
			if a == b {
				continue // this was almost a singular edge
			}
			counts[toEdgeID(a, b)]++
			wall = append(wall, [2]r2.Point{m.point(a), m.point(b)})
		}
	}

	// drop edges shared by two inside cells
	for i := 0; i < len(wall); i++ {
		e := wall[i]
		if counts[toEdgeID(m.id(e[0]), m.id(e[1]))] > 1 {
			essentials.UnorderedDelete(&wall, i)
			i--
		}
	}

	return wall
}

// merger snaps vertices that are within eps of each other to one id.
type merger struct {
	ids    map[model2d.Coord]int
	points []r2.Point
}

func newMerger(eps float64, sites []voronoi.Site) *merger {
	coordSet := map[model2d.Coord]bool{}
	coords := []model2d.Coord{}
	for _, s := range sites {
		for _, v := range s.Vertices() {
			c := model2d.Coord{X: v.X, Y: v.Y}
			if !coordSet[c] {
				coordSet[c] = true
				coords = append(coords, c)
			}
		}
	}
	tree := model2d.NewCoordTree(coords)

	m := &merger{ids: map[model2d.Coord]int{}}
	for _, c := range coords {
		if _, ok := m.ids[c]; ok {
			continue
		}

		id := -1
		for _, n := range tree.KNN(8, c) {
			if n.Dist(c) > eps {
				break
			}
			if known, ok := m.ids[n]; ok {
				id = known
				break
			}
		}
		if id == -1 {
			id = len(m.points)
			m.points = append(m.points, r2.Point{X: c.X, Y: c.Y})
		}
		m.ids[c] = id
	}
	return m
}

func (m *merger) id(p r2.Point) int {
	return m.ids[model2d.Coord{X: p.X, Y: p.Y}]
}

func (m *merger) point(id int) r2.Point {
	return m.points[id]
}
