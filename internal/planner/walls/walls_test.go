package walls

import (
	"errors"
	"math"
	"testing"

	"floorplanner/internal/planner/geometry"
	"floorplanner/internal/planner/models"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

var rect = []geometry.Point{
	geometry.Pt(0, 0), geometry.Pt(500, 0), geometry.Pt(500, 300), geometry.Pt(0, 300), geometry.Pt(0, 0),
}

func closedWall(t *testing.T, align models.Alignment) models.Room {
	t.Helper()
	w, err := Build(rect, Options{Thickness: 20, Alignment: align, CloseTolerance: 1})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return w
}

func TestBuildClosedAlignments(t *testing.T) {
	tests := []struct {
		align     models.Alignment
		outerArea float64
		innerArea float64
	}{
		{models.AlignCentered, 520 * 320, 480 * 280},
		{models.AlignExterior, 500 * 300, 460 * 260},
		{models.AlignInterior, 540 * 340, 500 * 300},
	}
	for _, tt := range tests {
		t.Run(string(tt.align), func(t *testing.T) {
			w := closedWall(t, tt.align)
			if w.Open || !w.IsWall {
				t.Fatalf("wall flags: open=%v wall=%v", w.Open, w.IsWall)
			}
			if len(w.Outer) != 4 || len(w.Inner) != 4 {
				t.Fatalf("face sizes = %d, %d, want 4, 4", len(w.Outer), len(w.Inner))
			}
			if got := geometry.PolygonArea(w.Outer); !near(got, tt.outerArea) {
				t.Errorf("outer area = %v, want %v", got, tt.outerArea)
			}
			if got := geometry.PolygonArea(w.Inner); !near(got, tt.innerArea) {
				t.Errorf("inner area = %v, want %v", got, tt.innerArea)
			}
			if !near(w.Area, tt.outerArea-tt.innerArea) {
				t.Errorf("wall area = %v, want %v", w.Area, tt.outerArea-tt.innerArea)
			}
			if geometry.SignedArea(w.Outer) <= 0 {
				t.Error("outer loop is not counter-clockwise")
			}
			if geometry.SignedArea(w.Inner) >= 0 {
				t.Error("inner loop is not clockwise")
			}
		})
	}
}

func TestBuildNormalizesDrawingDirection(t *testing.T) {
	w, err := Build(geometry.Reverse(rect), Options{Thickness: 20, CloseTolerance: 1})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !near(w.Area, 32000) {
		t.Errorf("area of a clockwise drawn wall = %v, want 32000", w.Area)
	}
	if !near(geometry.PolygonArea(w.Outer), 166400) {
		t.Errorf("outer area = %v, want 166400", geometry.PolygonArea(w.Outer))
	}
}

func TestBuildOpenRibbon(t *testing.T) {
	w, err := Build(rect[:4], Options{Thickness: 20, CloseTolerance: 1})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !w.Open || w.Inner != nil {
		t.Fatalf("open=%v inner=%v", w.Open, w.Inner)
	}
	if len(w.Outer) != 8 || w.RibbonHalf() != 4 {
		t.Fatalf("ribbon points = %d", len(w.Outer))
	}
	// 1300 units of centerline, 20 units thick.
	if !near(w.Area, 26000) {
		t.Errorf("ribbon area = %v, want 26000", w.Area)
	}
	if w.Outer[0] != geometry.Pt(0, -10) || w.Outer[7] != geometry.Pt(0, 10) {
		t.Errorf("ribbon start = %v ... %v", w.Outer[0], w.Outer[7])
	}
}

func TestBuildTwoPointWall(t *testing.T) {
	w, err := Build([]geometry.Point{geometry.Pt(0, 0), geometry.Pt(500, 0)}, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if w.Thickness != models.DefaultWallThickness || w.Alignment != models.AlignCentered {
		t.Errorf("defaults = %v %v", w.Thickness, w.Alignment)
	}
	if !near(w.Area, 500*models.DefaultWallThickness) {
		t.Errorf("area = %v", w.Area)
	}
}

func TestBuildTooFewPoints(t *testing.T) {
	inputs := [][]geometry.Point{
		nil,
		{geometry.Pt(1, 1)},
		{geometry.Pt(1, 1), geometry.Pt(1, 1)},
		// Closed back onto the start after a single segment.
		{geometry.Pt(0, 0), geometry.Pt(100, 0), geometry.Pt(0, 0)},
		{geometry.Pt(0, 0), geometry.Pt(100, 0), geometry.Pt(0.5, 0.5)},
	}
	for _, in := range inputs {
		if _, err := Build(in, Options{CloseTolerance: 1}); !errors.Is(err, ErrTooFewPoints) {
			t.Errorf("Build(%v) error = %v, want ErrTooFewPoints", in, err)
		}
	}
}

func TestCutClosedWall(t *testing.T) {
	w := closedWall(t, models.AlignCentered)
	w.ID = 7

	// Outer edge 0 runs along y = -10.
	e := geometry.Edge(w.Outer, 0)
	if !near(e.A.Y, -10) || !near(e.B.Y, -10) {
		t.Fatalf("outer edge 0 = %v", e)
	}

	out, err := Cut(w, Target{Path: models.PathOuter, Edge: 0}, geometry.Pt(290, -10), geometry.Pt(210, -10))
	if err != nil {
		t.Fatalf("Cut: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("pieces = %d, want 1", len(out))
	}
	got := out[0]
	if got.ID != 7 || got.Inner != nil || got.Open {
		t.Errorf("cut wall id=%d inner=%v open=%v", got.ID, got.Inner, got.Open)
	}
	if len(got.Outer) != 12 {
		t.Errorf("notched polygon has %d points, want 12", len(got.Outer))
	}
	if !near(got.Area, 32000-80*20) {
		t.Errorf("area = %v, want %v", got.Area, 32000-80*20)
	}
	if !geometry.IsCCW(got.Outer) {
		t.Error("result is not counter-clockwise")
	}
	if len(w.Inner) != 4 {
		t.Error("input wall was modified")
	}
}

func TestCutClosedWallFromInnerFace(t *testing.T) {
	w := closedWall(t, models.AlignCentered)
	var edge int
	for i, e := range geometry.Edges(w.Inner, true) {
		if near(e.A.Y, 10) && near(e.B.Y, 10) {
			edge = i
		}
	}
	out, err := Cut(w, Target{Path: models.PathInner, Edge: edge}, geometry.Pt(100, 10), geometry.Pt(180, 10))
	if err != nil {
		t.Fatalf("Cut: %v", err)
	}
	if !near(out[0].Area, 32000-1600) {
		t.Errorf("area = %v, want 30400", out[0].Area)
	}
}

func TestCutOpenRibbon(t *testing.T) {
	w, err := Build(rect[:4], Options{Thickness: 20, CloseTolerance: 1})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	w.ID, w.Name = 3, "Wall 1"

	tests := []struct {
		name   string
		edge   int
		a, b   geometry.Point
		areaA  float64
		areaB  float64
		pointA int
	}{
		{"outer face", 0, geometry.Pt(210, -10), geometry.Pt(290, -10), 4200, 20200, 4},
		{"inner face", 6, geometry.Pt(290, 10), geometry.Pt(210, 10), 4200, 20200, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Cut(w, Target{Edge: tt.edge}, tt.a, tt.b)
			if err != nil {
				t.Fatalf("Cut: %v", err)
			}
			if len(out) != 2 {
				t.Fatalf("pieces = %d, want 2", len(out))
			}
			if !near(out[0].Area, tt.areaA) || !near(out[1].Area, tt.areaB) {
				t.Errorf("areas = %v, %v, want %v, %v", out[0].Area, out[1].Area, tt.areaA, tt.areaB)
			}
			if len(out[0].Outer) != tt.pointA || !out[0].Open || !out[1].Open {
				t.Errorf("piece A = %v", out[0].Outer)
			}
			if out[0].ID != 0 || out[1].ID != 0 {
				t.Error("ribbon pieces must not reuse ids")
			}
			if out[0].Name != "Wall 1 A" || out[1].Name != "Wall 1 B" {
				t.Errorf("names = %q, %q", out[0].Name, out[1].Name)
			}
		})
	}
}

func TestCutFailures(t *testing.T) {
	rib, _ := Build(rect[:4], Options{Thickness: 20, CloseTolerance: 1})
	closed := closedWall(t, models.AlignCentered)

	far := closed.Clone()
	far.Inner = geometry.EnsureCW([]geometry.Point{
		geometry.Pt(200, 100), geometry.Pt(300, 100), geometry.Pt(300, 200), geometry.Pt(200, 200),
	})

	room := models.Room{Outer: rect[:4]}

	tests := []struct {
		name   string
		wall   models.Room
		target Target
		a, b   geometry.Point
		want   error
	}{
		{"not a wall", room, Target{}, geometry.Pt(1, 0), geometry.Pt(2, 0), ErrNotAWall},
		{"end cap far", rib, Target{Edge: 3}, geometry.Pt(0, 300), geometry.Pt(0, 295), ErrEndCap},
		{"end cap start", rib, Target{Edge: 7}, geometry.Pt(0, 5), geometry.Pt(0, -5), ErrEndCap},
		{"zero width", closed, Target{}, geometry.Pt(100, -10), geometry.Pt(100, -10), ErrDegenerateOpening},
		{"edge out of range", closed, Target{Edge: 9}, geometry.Pt(1, 0), geometry.Pt(2, 0), ErrEdgeOutOfRange},
		{"no opposing face", far, Target{}, geometry.Pt(100, -10), geometry.Pt(180, -10), ErrNoOpposingFace},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Cut(tt.wall, tt.target, tt.a, tt.b); !errors.Is(err, tt.want) {
				t.Errorf("Cut() error = %v, want %v", err, tt.want)
			}
		})
	}
}
