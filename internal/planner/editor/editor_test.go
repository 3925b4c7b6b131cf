package editor

import (
	"errors"
	"math"
	"testing"

	"floorplanner/internal/planner/dimension"
	"floorplanner/internal/planner/geometry"
	"floorplanner/internal/planner/models"
	"floorplanner/internal/planner/walls"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func newPlan() *models.Plan {
	return models.NewPlan("p1", "Test", 10)
}

var square = []geometry.Point{
	geometry.Pt(0, 0), geometry.Pt(100, 0), geometry.Pt(100, 100), geometry.Pt(0, 100),
}

func addWall(t *testing.T, e *Editor, plan *models.Plan) int {
	t.Helper()
	pts := []geometry.Point{
		geometry.Pt(0, 0), geometry.Pt(500, 0), geometry.Pt(500, 300), geometry.Pt(0, 300), geometry.Pt(0, 0),
	}
	id, err := e.FinishPolygon(plan, "", PolygonWall, pts, WallParams{Thickness: 20})
	if err != nil {
		t.Fatalf("FinishPolygon: %v", err)
	}
	return id
}

func TestFinishPolygonRoom(t *testing.T) {
	e := New(Defaults{})
	plan := newPlan()

	// Clockwise input closed on the first point.
	pts := []geometry.Point{
		geometry.Pt(0, 0), geometry.Pt(0, 100), geometry.Pt(100, 100), geometry.Pt(100, 0), geometry.Pt(0, 0),
	}
	id, err := e.FinishPolygon(plan, "", PolygonRoom, pts, WallParams{})
	if err != nil {
		t.Fatalf("FinishPolygon: %v", err)
	}
	r, _ := plan.Active().Room(id)
	if r.Name != "Room 1" {
		t.Errorf("name = %q, want %q", r.Name, "Room 1")
	}
	if len(r.Outer) != 4 {
		t.Fatalf("vertices = %d, want 4", len(r.Outer))
	}
	if !geometry.IsCCW(r.Outer) {
		t.Error("room is not counter-clockwise")
	}
	if !near(r.Area, 10000) {
		t.Errorf("area = %v, want 10000", r.Area)
	}

	if _, err := e.FinishPolygon(plan, "", PolygonRoom, square[:2], WallParams{}); !errors.Is(err, ErrTooFewRoomPoints) {
		t.Errorf("two points: err = %v, want %v", err, ErrTooFewRoomPoints)
	}
}

func TestFinishPolygonRoomKeepsVertexNearStart(t *testing.T) {
	e := New(Defaults{})
	plan := newPlan()

	pts := []geometry.Point{geometry.Pt(0, 0), geometry.Pt(100, 0), geometry.Pt(100, 100), geometry.Pt(0, 30)}
	id, err := e.FinishPolygon(plan, "", PolygonRoom, pts, WallParams{})
	if err != nil {
		t.Fatalf("FinishPolygon: %v", err)
	}
	r, _ := plan.Active().Room(id)
	if len(r.Outer) != 4 {
		t.Fatalf("outer = %v, want 4 vertices", r.Outer)
	}
	// Trapezoid: (100 + 30) / 2 * 100.
	if !near(r.Area, 6500) {
		t.Errorf("area = %v, want 6500", r.Area)
	}
}

func TestFinishPolygonWallDefaults(t *testing.T) {
	e := New(Defaults{WallThickness: 30})
	plan := newPlan()
	id, err := e.FinishPolygon(plan, "", PolygonWall, []geometry.Point{geometry.Pt(0, 0), geometry.Pt(100, 0)}, WallParams{})
	if err != nil {
		t.Fatalf("FinishPolygon: %v", err)
	}
	w, _ := plan.Active().Room(id)
	if !w.IsWall || !w.Open {
		t.Fatalf("wall flags: wall=%v open=%v", w.IsWall, w.Open)
	}
	if w.Thickness != 30 || w.Alignment != models.AlignCentered {
		t.Errorf("params = %v %v, want 30 centered", w.Thickness, w.Alignment)
	}
	if w.Name != "Wall 1" {
		t.Errorf("name = %q, want %q", w.Name, "Wall 1")
	}
}

func TestPlaceDoorClosedWall(t *testing.T) {
	e := New(Defaults{})
	plan := newPlan()
	wallID := addWall(t, e, plan)

	res, err := e.PlaceDoor(plan, "", wallID, walls.Target{Path: models.PathOuter, Edge: 0}, geometry.Pt(250, -12), 80, "")
	if err != nil {
		t.Fatalf("PlaceDoor: %v", err)
	}
	if len(res.WallIDs) != 1 || res.WallIDs[0] != wallID {
		t.Fatalf("wall ids = %v, want [%d]", res.WallIDs, wallID)
	}
	l := plan.Active()
	d, err := l.Door(res.DoorID)
	if err != nil {
		t.Fatalf("Door: %v", err)
	}
	if !d.Center.Equal(geometry.Pt(250, 0), 1e-6) {
		t.Errorf("center = %v, want (250, 0)", d.Center)
	}
	if !near(d.Thickness, 20) || !near(d.Width, 80) {
		t.Errorf("size = %v x %v, want 80 x 20", d.Width, d.Thickness)
	}
	if d.Swing != models.SwingRightIn || d.WallID != wallID {
		t.Errorf("door = %+v", d)
	}
	w, _ := l.Room(wallID)
	if !near(w.Area, 32000-1600) {
		t.Errorf("wall area = %v, want %v", w.Area, 32000-1600)
	}
	if w.Inner != nil {
		t.Error("cut wall should be a single polygon")
	}
}

func TestPlaceDoorClampsToEdge(t *testing.T) {
	e := New(Defaults{})
	plan := newPlan()
	wallID := addWall(t, e, plan)

	res, err := e.PlaceDoor(plan, "", wallID, walls.Target{Edge: 0}, geometry.Pt(-40, -10), 80, models.SwingLeftOut)
	if err != nil {
		t.Fatalf("PlaceDoor: %v", err)
	}
	d, _ := plan.Active().Door(res.DoorID)
	// Outer edge starts at x=-10, so the door center cannot go below x=30.
	if !near(d.Center.X, 30) {
		t.Errorf("center x = %v, want 30", d.Center.X)
	}
	if d.Swing != models.SwingLeftOut {
		t.Errorf("swing = %v, want %v", d.Swing, models.SwingLeftOut)
	}
}

func TestPlaceDoorFailures(t *testing.T) {
	e := New(Defaults{})
	plan := newPlan()
	wallID := addWall(t, e, plan)
	roomID, _ := e.FinishPolygon(plan, "", PolygonRoom, square, WallParams{})

	tests := []struct {
		name  string
		id    int
		width float64
		swing models.DoorSwing
		want  error
	}{
		{"too wide", wallID, 600, "", ErrDoorTooWide},
		{"bad swing", wallID, 80, "sideways", ErrInvalidSwing},
		{"not a wall", roomID, 80, "", walls.ErrNotAWall},
		{"missing", 99, 80, "", models.ErrElementNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(plan.Active().Doors)
			_, err := e.PlaceDoor(plan, "", tt.id, walls.Target{}, geometry.Pt(250, -10), tt.width, tt.swing)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if len(plan.Active().Doors) != before {
				t.Error("failed placement added a door")
			}
		})
	}
}

func TestDeleteWallRemovesDoors(t *testing.T) {
	e := New(Defaults{})
	plan := newPlan()
	wallID := addWall(t, e, plan)
	if _, err := e.PlaceDoor(plan, "", wallID, walls.Target{}, geometry.Pt(250, -10), 80, ""); err != nil {
		t.Fatalf("PlaceDoor: %v", err)
	}
	if err := e.DeleteElement(plan, "", models.KindRoom, wallID); err != nil {
		t.Fatalf("DeleteElement: %v", err)
	}
	if n := len(plan.Active().Doors); n != 0 {
		t.Errorf("doors left = %d, want 0", n)
	}
	if err := e.DeleteElement(plan, "", models.KindRoom, wallID); !errors.Is(err, models.ErrElementNotFound) {
		t.Errorf("second delete: err = %v, want %v", err, models.ErrElementNotFound)
	}
}

func TestSplitRoom(t *testing.T) {
	e := New(Defaults{})
	plan := newPlan()
	id, _ := e.FinishPolygon(plan, "", PolygonRoom, square, WallParams{})

	for _, pair := range [][2]int{{0, 0}, {0, 1}, {3, 0}} {
		if _, err := e.SplitRoom(plan, "", id, pair[0], pair[1]); !errors.Is(err, ErrSplitVertices) {
			t.Errorf("split %v: err = %v, want %v", pair, err, ErrSplitVertices)
		}
	}

	ids, err := e.SplitRoom(plan, "", id, 2, 0)
	if err != nil {
		t.Fatalf("SplitRoom: %v", err)
	}
	if len(ids) != 2 || ids[0] == id || ids[1] == id {
		t.Fatalf("ids = %v, want two fresh ids", ids)
	}
	l := plan.Active()
	if _, err := l.Room(id); err == nil {
		t.Error("original room still present")
	}
	for i, suffix := range []string{" A", " B"} {
		r, _ := l.Room(ids[i])
		if r.Name != "Room 1"+suffix {
			t.Errorf("piece %d name = %q", i, r.Name)
		}
		if !near(r.Area, 5000) {
			t.Errorf("piece %d area = %v, want 5000", i, r.Area)
		}
	}

	wallID := addWall(t, e, plan)
	if _, err := e.SplitRoom(plan, "", wallID, 0, 2); !errors.Is(err, ErrSplitWall) {
		t.Errorf("wall split: err = %v, want %v", err, ErrSplitWall)
	}
}

func TestRoomVertexEditing(t *testing.T) {
	e := New(Defaults{})
	plan := newPlan()
	id, _ := e.FinishPolygon(plan, "", PolygonRoom, square, WallParams{})
	l := plan.Active()

	if err := e.InsertRoomVertex(plan, "", id, models.PathOuter, 0, geometry.Pt(50, -50)); err != nil {
		t.Fatalf("InsertRoomVertex: %v", err)
	}
	r, _ := l.Room(id)
	if len(r.Outer) != 5 || !r.Outer[1].Equal(geometry.Pt(50, -50), 0) {
		t.Fatalf("outer = %v", r.Outer)
	}
	if !near(r.Area, 12500) {
		t.Errorf("area after insert = %v, want 12500", r.Area)
	}

	if err := e.DeleteRoomVertex(plan, "", id, models.PathOuter, 1); err != nil {
		t.Fatalf("DeleteRoomVertex: %v", err)
	}
	if err := e.DeleteRoomVertex(plan, "", id, models.PathOuter, 0); err != nil {
		t.Fatalf("DeleteRoomVertex: %v", err)
	}
	if err := e.DeleteRoomVertex(plan, "", id, models.PathOuter, 0); !errors.Is(err, ErrMinRoomVertices) {
		t.Errorf("triangle delete: err = %v, want %v", err, ErrMinRoomVertices)
	}

	if err := e.MoveRoomVertex(plan, "", id, models.PathOuter, 7, geometry.Pt(0, 0)); !errors.Is(err, ErrVertexRange) {
		t.Errorf("out of range: err = %v, want %v", err, ErrVertexRange)
	}
}

func TestMoveEdgeAndTranslate(t *testing.T) {
	e := New(Defaults{})
	plan := newPlan()
	id, _ := e.FinishPolygon(plan, "", PolygonRoom, square, WallParams{})
	l := plan.Active()

	if err := e.MoveRoomEdge(plan, "", id, models.PathOuter, 1, geometry.Pt(50, 0)); err != nil {
		t.Fatalf("MoveRoomEdge: %v", err)
	}
	r, _ := l.Room(id)
	if !near(r.Area, 15000) {
		t.Errorf("area = %v, want 15000", r.Area)
	}

	if err := e.TranslateRoom(plan, "", id, geometry.Pt(10, 20)); err != nil {
		t.Fatalf("TranslateRoom: %v", err)
	}
	r, _ = l.Room(id)
	if !r.Outer[0].Equal(geometry.Pt(10, 20), 0) {
		t.Errorf("first vertex = %v, want (10, 20)", r.Outer[0])
	}
	if !near(r.Area, 15000) {
		t.Errorf("area changed by translation: %v", r.Area)
	}
}

func TestOpenWallVertexEditingRefused(t *testing.T) {
	e := New(Defaults{})
	plan := newPlan()
	id, _ := e.FinishPolygon(plan, "", PolygonWall, []geometry.Point{geometry.Pt(0, 0), geometry.Pt(100, 0)}, WallParams{})
	err := e.MoveRoomVertex(plan, "", id, models.PathOuter, 0, geometry.Pt(1, 1))
	if !errors.Is(err, ErrOpenWallVertices) {
		t.Errorf("err = %v, want %v", err, ErrOpenWallVertices)
	}
}

func TestDimensionEditing(t *testing.T) {
	e := New(Defaults{})
	plan := newPlan()
	id, err := e.AddDimension(plan, "", geometry.Pt(0, 0), geometry.Pt(100, 0), 1)
	if err != nil {
		t.Fatalf("AddDimension: %v", err)
	}
	l := plan.Active()
	d, _ := l.Dimension(id)

	ext, err := dimension.BeginExtend(d, 1)
	if err != nil {
		t.Fatalf("BeginExtend: %v", err)
	}
	if err := e.ExtendDimension(plan, "", ext, geometry.Pt(250, 30)); err != nil {
		t.Fatalf("ExtendDimension: %v", err)
	}
	d, _ = l.Dimension(id)
	if len(d.Points) != 3 || !near(dimension.Total(d), 250) {
		t.Errorf("chain = %v, total %v", d.Points, dimension.Total(d))
	}

	off := 45.0
	if err := e.SetDimensionOffset(plan, "", id, &off, -1); err != nil {
		t.Fatalf("SetDimensionOffset: %v", err)
	}
	d, _ = l.Dimension(id)
	if d.OffsetSide != -1 || !near(dimension.Offset(d), 45) {
		t.Errorf("offset = %v side %d", dimension.Offset(d), d.OffsetSide)
	}

	neg := -5.0
	if err := e.SetDimensionOffset(plan, "", id, &neg, 0); !errors.Is(err, dimension.ErrNegativeOffset) {
		t.Errorf("negative offset: err = %v, want %v", err, dimension.ErrNegativeOffset)
	}

	if _, err := e.AddDimension(plan, "", geometry.Pt(0, 0), geometry.Pt(0, 0), 1); !errors.Is(err, dimension.ErrTooShort) {
		t.Errorf("zero length: err = %v, want %v", err, dimension.ErrTooShort)
	}
}

func TestAddGuidelines(t *testing.T) {
	e := New(Defaults{})
	plan := newPlan()
	ids, err := e.AddGuidelines(plan, "", geometry.Pt(0, 0), geometry.Pt(100, 0), 3, 50)
	if err != nil {
		t.Fatalf("AddGuidelines: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("ids = %v, want 3", ids)
	}
	l := plan.Active()
	for i, id := range ids {
		g := l.Guidelines[id]
		want := -50 * float64(i)
		if !near(g.A.Y, want) || !near(g.B.Y, want) {
			t.Errorf("guideline %d at y = %v/%v, want %v", i, g.A.Y, g.B.Y, want)
		}
	}
}

func TestLayers(t *testing.T) {
	e := New(Defaults{})
	plan := newPlan()
	base := plan.ActiveLayer

	l := e.AddLayer(plan, "")
	if plan.ActiveLayer != l.ID || l.Name != "Layer 2" {
		t.Fatalf("active = %s name = %q", plan.ActiveLayer, l.Name)
	}

	if err := e.ApplyLayerAction(plan, l.ID, LayerLock, "", 0); err != nil {
		t.Fatalf("lock: %v", err)
	}
	if _, err := e.FinishPolygon(plan, "", PolygonRoom, square, WallParams{}); !errors.Is(err, models.ErrLayerLocked) {
		t.Errorf("locked layer: err = %v, want %v", err, models.ErrLayerLocked)
	}

	// Hidden layers stay editable.
	if err := e.ApplyLayerAction(plan, base, LayerHide, "", 0); err != nil {
		t.Fatalf("hide: %v", err)
	}
	if _, err := e.FinishPolygon(plan, base, PolygonRoom, square, WallParams{}); err != nil {
		t.Errorf("hidden layer edit: %v", err)
	}

	if err := e.ApplyLayerAction(plan, l.ID, LayerOpacity, "", 3); err != nil {
		t.Fatalf("opacity: %v", err)
	}
	if l.Opacity != 1 {
		t.Errorf("opacity = %v, want 1", l.Opacity)
	}

	if err := e.ApplyLayerAction(plan, l.ID, LayerDelete, "", 0); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if plan.ActiveLayer != base {
		t.Errorf("active = %s, want %s", plan.ActiveLayer, base)
	}
	if err := e.ApplyLayerAction(plan, base, LayerDelete, "", 0); !errors.Is(err, ErrLastLayer) {
		t.Errorf("last layer: err = %v, want %v", err, ErrLastLayer)
	}
	if err := e.ApplyLayerAction(plan, "nope", LayerShow, "", 0); !errors.Is(err, models.ErrLayerNotFound) {
		t.Errorf("missing layer: err = %v, want %v", err, models.ErrLayerNotFound)
	}
}
