package voronoiville_test

import (
	"math"
	"math/rand"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	. "github.com/voidshard/voronoiville"
)

func randomSites(seed int64, n int, size float64) []Point {
	rng := rand.New(rand.NewSource(seed))
	out := make([]Point, n)
	for i := range out {
		out[i] = Point{X: rng.Float64() * size, Y: rng.Float64() * size}
	}
	return out
}

func area(vertices []Point) float64 {
	if len(vertices) < 3 {
		return 0
	}
	o := vertices[0]
	var sum float64
	for i := 1; i < len(vertices)-1; i++ {
		a, b := vertices[i].Sub(o), vertices[i+1].Sub(o)
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// selfIntersects is a plain O(n^2) check that no two non-adjacent edges cross.
func selfIntersects(v []Point) bool {
	cross := func(o, a, b Point) float64 {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}
	n := len(v)
	for i := 0; i < n; i++ {
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue
			}
			a, b := v[i], v[(i+1)%n]
			c, d := v[j], v[(j+1)%n]
			if cross(a, b, c)*cross(a, b, d) < 0 && cross(c, d, a)*cross(c, d, b) < 0 {
				return true
			}
		}
	}
	return false
}

func TestCellPerSite(t *testing.T) {
	sites := randomSites(1, 100, 100)
	cells, err := Voronoi(sites, NewBoundingBox(0, 0, 100, 100), true, 0)
	if err != nil {
		t.Fatal(err)
	}

	if len(cells) != len(sites) {
		t.Fatalf("expected %d cells got %d", len(sites), len(cells))
	}
	for i, c := range cells {
		if c.Site != i {
			t.Errorf("expected site %d got %d", i, c.Site)
		}
	}
}

func TestCellsSimpleAndCCW(t *testing.T) {
	sites := randomSites(2, 300, 50)
	cells, err := Voronoi(sites, NewBoundingBox(0, 0, 50, 50), false, 0)
	if err != nil {
		t.Fatal(err)
	}

	for _, c := range cells {
		if len(c.Vertices) < 3 {
			t.Errorf("%s: only %d vertices", c, len(c.Vertices))
			continue
		}
		if area(c.Vertices) <= 0 {
			t.Errorf("%s: not counter-clockwise", c)
		}
		if selfIntersects(c.Vertices) {
			t.Errorf("%s: self intersects", c)
		}
	}
}

func TestAreaSum(t *testing.T) {
	for _, bbox := range []*BoundingBox{
		NewBoundingBox(0, 0, 1, 1),
		NewBoundingBox(-300, 20, 500, -40),
		NewCenteredBoundingBox(Point{X: 1e6, Y: -1e6}, 2000, 10),
	} {
		rng := rand.New(rand.NewSource(3))
		sites := make([]Point, 250)
		for i := range sites {
			r := bbox.Rect()
			sites[i] = Point{
				X: r.X.Lo + rng.Float64()*r.X.Length(),
				Y: r.Y.Lo + rng.Float64()*r.Y.Length(),
			}
		}

		cells, err := Voronoi(sites, bbox, false, 0)
		if err != nil {
			t.Fatalf("%s: %v", bbox, err)
		}

		var total float64
		for _, c := range cells {
			total += area(c.Vertices)
		}
		want := bbox.Width() * bbox.Height()
		if math.Abs(total-want) > 1e-9*want {
			t.Errorf("%s: expected area %v got %v", bbox, want, total)
		}
	}
}

func TestNeighborsSymmetric(t *testing.T) {
	sites := randomSites(4, 200, 100)
	cells, err := Voronoi(sites, NewBoundingBox(0, 0, 100, 100), true, 0)
	if err != nil {
		t.Fatal(err)
	}

	for _, a := range cells {
		for _, b := range a.Neighbors {
			i := sort.SearchInts(cells[b].Neighbors, a.Site)
			if i == len(cells[b].Neighbors) || cells[b].Neighbors[i] != a.Site {
				t.Errorf("%d lists %d but not the reverse", a.Site, b)
			}
		}
	}
}

func TestSingleSite(t *testing.T) {
	cells, err := Voronoi([]Point{{X: 5, Y: 5}}, NewBoundingBox(0, 0, 10, 10), true, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(cells) != 1 {
		t.Fatalf("expected 1 cell got %d", len(cells))
	}

	c := cells[0]
	want := []Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	if !reflect.DeepEqual(c.Vertices, want) {
		t.Errorf("expected %v got %v", want, c.Vertices)
	}
	if !c.IsOnHull {
		t.Error("expected on hull")
	}
}

func TestTwoSymmetricSites(t *testing.T) {
	sites := []Point{{X: 3, Y: 5}, {X: 7, Y: 5}}
	cells, err := Voronoi(sites, NewBoundingBox(0, 0, 10, 10), true, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(cells) != 2 {
		t.Fatalf("expected 2 cells got %d", len(cells))
	}

	a0, a1 := area(cells[0].Vertices), area(cells[1].Vertices)
	if math.Abs(a0-50) > 1e-9 || math.Abs(a1-50) > 1e-9 {
		t.Errorf("expected equal areas of 50 got %v & %v", a0, a1)
	}

	for i, c := range cells {
		if !reflect.DeepEqual(c.Neighbors, []int{1 - i}) {
			t.Errorf("cell %d: expected neighbours [%d] got %v", i, 1-i, c.Neighbors)
		}
		if !c.IsOnHull {
			t.Errorf("cell %d: expected on hull", i)
		}
	}

	// split along the perpendicular bisector x = 5
	for _, v := range cells[0].Vertices {
		if v.X > 5+1e-12 {
			t.Errorf("cell 0 vertex %v crosses the bisector", v)
		}
	}
	for _, v := range cells[1].Vertices {
		if v.X < 5-1e-12 {
			t.Errorf("cell 1 vertex %v crosses the bisector", v)
		}
	}
}

func TestNoRelaxationKeepsPositions(t *testing.T) {
	sites := randomSites(5, 50, 100)
	cells, err := Voronoi(sites, NewBoundingBox(0, 0, 100, 100), false, 0)
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range cells {
		if c.Position != sites[i] {
			t.Errorf("site %d: expected %v got %v", i, sites[i], c.Position)
		}
	}
}

func TestRelaxationMovesSites(t *testing.T) {
	sites := randomSites(6, 50, 100)
	for _, k := range []int{1, 3} {
		cells, err := Voronoi(sites, NewBoundingBox(0, 0, 100, 100), false, k)
		if err != nil {
			t.Fatal(err)
		}

		moved := false
		for i, c := range cells {
			if c.Position != sites[i] {
				moved = true
			}
		}
		if !moved {
			t.Errorf("%d iterations: expected some site to move", k)
		}
	}
}

func TestNeighborsOptional(t *testing.T) {
	sites := randomSites(7, 80, 100)
	bbox := NewBoundingBox(0, 0, 100, 100)

	with, err := Voronoi(sites, bbox, true, 2)
	if err != nil {
		t.Fatal(err)
	}
	without, err := Voronoi(sites, bbox, false, 2)
	if err != nil {
		t.Fatal(err)
	}

	for i := range without {
		if without[i].Neighbors != nil {
			t.Errorf("cell %d: expected no neighbours got %v", i, without[i].Neighbors)
		}
		if len(with[i].Neighbors) == 0 {
			t.Errorf("cell %d: expected neighbours", i)
		}
		if with[i].Position != without[i].Position ||
			with[i].IsOnHull != without[i].IsOnHull ||
			!reflect.DeepEqual(with[i].Vertices, without[i].Vertices) {
			t.Errorf("cell %d differs with neighbours on", i)
		}
	}
}

func TestFailures(t *testing.T) {
	sites := []Point{{X: 1, Y: 1}, {X: 2, Y: 3}, {X: 7, Y: 4}}

	cases := []struct {
		Name  string
		Sites []Point
		BBox  *BoundingBox
		Iter  int
		Want  error
	}{
		{"zero width", sites, NewBoundingBox(0, 0, 0, 10), 0, ErrConfig},
		{"zero height", sites, NewCenteredBoundingBox(Point{X: 5, Y: 5}, 10, 0), 0, ErrConfig},
		{"negative size", sites, NewCenteredBoundingBox(Point{X: 5, Y: 5}, -10, 10), 0, ErrConfig},
		{"no box", sites, nil, 0, ErrConfig},
		{"negative iterations", sites, NewBoundingBox(0, 0, 10, 10), -2, ErrConfig},
		{"duplicate", append(append([]Point{}, sites...), Point{X: 2, Y: 3}), NewBoundingBox(0, 0, 10, 10), 0, ErrInput},
		{"infinite", []Point{{X: math.Inf(1), Y: 0}}, NewBoundingBox(0, 0, 10, 10), 0, ErrInput},
		{"outside", []Point{{X: 1, Y: 1}, {X: 20, Y: 1}}, NewBoundingBox(0, 0, 10, 10), 0, ErrInput},
		{"empty", nil, NewBoundingBox(0, 0, 10, 10), 0, ErrInput},
	}

	for _, tt := range cases {
		t.Run(tt.Name, func(t *testing.T) {
			cells, err := Voronoi(tt.Sites, tt.BBox, true, tt.Iter)
			if !errors.Is(err, tt.Want) {
				t.Errorf("expected %v got %v", tt.Want, err)
			}
			if cells != nil {
				t.Errorf("expected no cells got %d", len(cells))
			}
		})
	}
}

func TestRelaxationFailure(t *testing.T) {
	cfg := &Config{
		Sites:                     []Point{{X: 0, Y: 0}, {X: 1000, Y: 1000}},
		BoundingBox:               NewBoundingBox(0, 0, 1000, 1000),
		LloydRelaxationIterations: 2,
		Tolerance:                 0.4,
	}

	d, err := New(cfg)
	if d != nil {
		t.Error("expected no diagram")
	}
	if !errors.Is(err, ErrGeometry) {
		t.Errorf("expected ErrGeometry got %v", err)
	}
	if errors.Is(err, ErrInput) {
		t.Errorf("relaxed sites are not caller input %v", err)
	}
}

func TestNeighborsJSON(t *testing.T) {
	for _, tt := range []struct {
		Name      string
		Neighbors bool
		Want      string
	}{
		{"requested", true, `"Neighbors":[]`},
		{"not requested", false, `"Neighbors":null`},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			d, err := New(&Config{
				Sites:           []Point{{X: 5, Y: 5}},
				BoundingBox:     NewBoundingBox(0, 0, 10, 10),
				ReturnNeighbors: tt.Neighbors,
			})
			if err != nil {
				t.Fatal(err)
			}
			if got := d.Cell(0).Neighbors; (got != nil) != tt.Neighbors || len(got) != 0 {
				t.Errorf("unexpected neighbours %#v", got)
			}

			data, err := d.JSON()
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(string(data), tt.Want) {
				t.Errorf("expected %s in %s", tt.Want, data)
			}
		})
	}
}

func TestBoundingBox(t *testing.T) {
	a := NewBoundingBox(10, 20, -10, 0)
	b := NewCenteredBoundingBox(Point{X: 0, Y: 10}, 20, 20)

	if a.Rect() != b.Rect() {
		t.Errorf("expected %v == %v", a, b)
	}
	if a.Width() != 20 || a.Height() != 20 || a.Center() != (Point{X: 0, Y: 10}) {
		t.Errorf("unexpected box %v", a)
	}
	if a.Validate() != nil {
		t.Errorf("expected valid box")
	}
	corners := a.Corners()
	if corners[0] != (Point{X: -10, Y: 0}) || corners[2] != (Point{X: 10, Y: 20}) {
		t.Errorf("unexpected corners %v", corners)
	}
	if !errors.Is(NewBoundingBox(0, 0, 5, math.NaN()).Validate(), ErrConfig) {
		t.Error("expected NaN box to be invalid")
	}
}

func TestNew(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)

	cfg := DefaultConfig()
	cfg.BoundingBox = NewBoundingBox(0, 0, 100, 100)
	cfg.Sites = []Point{{X: 50, Y: 50}, {X: 10, Y: 90}}
	cfg.RandomSites = 30
	cfg.MinSiteDistance = 5
	cfg.Seed = 99
	cfg.LloydRelaxationIterations = 2
	cfg.Workers = 3
	cfg.Logger = zap.New(core)

	d, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	if d.Seed != 99 {
		t.Errorf("expected seed 99 got %d", d.Seed)
	}
	if d.Iterations() != 2 {
		t.Errorf("expected 2 iterations got %d", d.Iterations())
	}
	if len(d.Cells()) < 2 || len(d.Cells()) > 32 {
		t.Errorf("unexpected cell count %d", len(d.Cells()))
	}
	if d.Cell(-1) != nil || d.Cell(len(d.Cells())) != nil {
		t.Error("expected nil for missing cells")
	}
	if d.Bounds().Rect() != cfg.BoundingBox.Rect() {
		t.Errorf("expected bounds %v got %v", cfg.BoundingBox, d.Bounds())
	}

	if logs.FilterMessage("built diagram").Len() != 1 {
		t.Errorf("expected a build summary in %v", logs.All())
	}
	if logs.FilterMessage("relaxed sites").Len() != 2 {
		t.Errorf("expected two relaxation records in %v", logs.All())
	}

	// same seed, same diagram
	again, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(d.Cells(), again.Cells()) {
		t.Error("expected the same seed to build the same diagram")
	}

	data, err := d.JSON()
	if err != nil || len(data) == 0 {
		t.Errorf("expected json got %v", err)
	}
}

func TestRandomSitesShortfall(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	cfg := DefaultConfig()
	cfg.BoundingBox = NewBoundingBox(0, 0, 10, 10)
	cfg.RandomSites = 50
	cfg.MinSiteDistance = 8 // no room for more than a handful
	cfg.Seed = 1
	cfg.Logger = zap.New(core)

	d, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Cells()) >= 50 {
		t.Errorf("expected fewer than 50 cells got %d", len(d.Cells()))
	}
	if logs.Len() != 1 {
		t.Errorf("expected a warning got %v", logs.All())
	}
}

func TestSiteFor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BoundingBox = NewBoundingBox(0, 0, 100, 100)
	cfg.Sites = randomSites(8, 40, 100)

	d, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(8))
	for i := 0; i < 200; i++ {
		p := Point{X: rng.Float64() * 100, Y: rng.Float64() * 100}

		best, bestDist := -1, math.Inf(1)
		for j, s := range cfg.Sites {
			if dist := p.Sub(s).Norm(); dist < bestDist {
				best, bestDist = j, dist
			}
		}

		if got := d.SiteFor(p); got.Site != best {
			t.Errorf("%v: expected site %d got %d", p, best, got.Site)
		}
	}

	if d.SiteFor(Point{X: -1, Y: 50}) != nil {
		t.Error("expected nil outside the box")
	}
}

func TestOutline(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BoundingBox = NewBoundingBox(0, 0, 100, 100)
	cfg.Sites = randomSites(9, 60, 100)

	d, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	// a cell & its neighbours: the area inside the outline is their total area
	centre := d.SiteFor(Point{X: 50, Y: 50})
	group := append([]int{centre.Site}, centre.Neighbors...)

	want := 0.0
	for _, i := range group {
		want += area(d.Cell(i).Vertices)
	}

	got := 0.0
	for _, e := range d.Outline(group...) {
		got += (e[0].X*e[1].Y - e[1].X*e[0].Y) / 2
	}
	if math.Abs(got-want) > 1e-6*want {
		t.Errorf("expected outline to hold %v got %v", want, got)
	}

	// everything: the outline is the box
	all := make([]int, len(d.Cells()))
	for i := range all {
		all[i] = i
	}
	for _, e := range d.Outline(all...) {
		for _, p := range e {
			if p.X != 0 && p.X != 100 && p.Y != 0 && p.Y != 100 {
				t.Errorf("outline point %v isn't on the box", p)
			}
		}
	}
}
