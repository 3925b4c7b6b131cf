package tool

import (
	"errors"
	"math"
	"testing"

	"floorplanner/internal/planner/dimension"
	"floorplanner/internal/planner/editor"
	"floorplanner/internal/planner/geometry"
	"floorplanner/internal/planner/models"
	"floorplanner/internal/planner/snap"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func gridOnly() snap.Settings {
	return snap.Settings{GridSnap: true, GridSpacing: 10}
}

func setup(tool snap.Tool) (*models.Plan, *editor.Editor, *Session) {
	plan := models.NewPlan("p", "Test", 10)
	ed := editor.New(editor.Defaults{})
	return plan, ed, New(ed, Options{Tool: tool, Settings: gridOnly()})
}

func click(t *testing.T, s *Session, plan *models.Plan, x, y float64, want Action) Event {
	t.Helper()
	ev, err := s.Click(plan, geometry.Pt(x, y))
	if err != nil {
		t.Fatalf("Click(%v, %v): %v", x, y, err)
	}
	if ev.Action != want {
		t.Fatalf("Click(%v, %v) action = %s, want %s", x, y, ev.Action, want)
	}
	return ev
}

func TestDrawRoomClosesLoop(t *testing.T) {
	plan, _, s := setup(snap.ToolRoom)

	click(t, s, plan, 0, 0, ActionPointAdded)
	click(t, s, plan, 101, 2, ActionPointAdded)
	click(t, s, plan, 99, 98, ActionPointAdded)
	click(t, s, plan, 1, 102, ActionPointAdded)
	ev := click(t, s, plan, 3, 2, ActionPolygonFinished)

	if !ev.Outcome.Snap.ClosesLoop() {
		t.Error("closing click did not report a loop close")
	}
	r, err := plan.Active().Room(ev.IDs[0])
	if err != nil {
		t.Fatalf("Room: %v", err)
	}
	if !near(r.Area, 10000) {
		t.Errorf("area = %v, want 10000", r.Area)
	}
	if len(s.State().Points) != 0 {
		t.Error("drawing state not reset")
	}
}

func TestDuplicateClickIgnored(t *testing.T) {
	plan, _, s := setup(snap.ToolRoom)
	click(t, s, plan, 0, 0, ActionPointAdded)
	click(t, s, plan, 1, 1, ActionNone)
	if n := len(s.State().Points); n != 1 {
		t.Errorf("points = %d, want 1", n)
	}
}

func TestWallFinishAndDoor(t *testing.T) {
	plan, ed, s := setup(snap.ToolWall)
	click(t, s, plan, 0, 0, ActionPointAdded)
	click(t, s, plan, 200, 0, ActionPointAdded)
	ev, err := s.Finish(plan)
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	w, _ := plan.Active().Room(ev.IDs[0])
	if !w.Open {
		t.Fatal("finished wall should be an open ribbon")
	}

	door := New(ed, Options{Tool: snap.ToolDoor, Settings: gridOnly(), DoorWidth: 80})
	ev = click(t, door, plan, 100, -9, ActionDoorPlaced)
	if len(ev.IDs) != 3 {
		t.Fatalf("ids = %v, want door and two walls", ev.IDs)
	}
	l := plan.Active()
	if len(l.Rooms) != 2 || len(l.Doors) != 1 {
		t.Errorf("rooms = %d doors = %d, want 2 and 1", len(l.Rooms), len(l.Doors))
	}
	d, _ := l.Door(ev.IDs[0])
	if !d.Center.Equal(geometry.Pt(100, 0), 1e-6) {
		t.Errorf("door center = %v, want (100, 0)", d.Center)
	}

	if _, err := door.Click(plan, geometry.Pt(1000, 1000)); !errors.Is(err, ErrNoWallEdge) {
		t.Errorf("miss: err = %v, want %v", err, ErrNoWallEdge)
	}
}

func TestOpeningTool(t *testing.T) {
	plan, ed, _ := setup(snap.ToolOpening)
	pts := []geometry.Point{
		geometry.Pt(0, 0), geometry.Pt(500, 0), geometry.Pt(500, 300), geometry.Pt(0, 300), geometry.Pt(0, 0),
	}
	wallID, err := ed.FinishPolygon(plan, "", editor.PolygonWall, pts, editor.WallParams{Thickness: 20})
	if err != nil {
		t.Fatalf("FinishPolygon: %v", err)
	}

	s := New(ed, Options{Tool: snap.ToolOpening, Settings: gridOnly()})
	click(t, s, plan, 250, -9, ActionEdgeSelected)
	ev := click(t, s, plan, 211, -13, ActionOpeningStarted)
	if !ev.Outcome.Point.Equal(geometry.Pt(210, -10), 1e-6) {
		t.Errorf("opening start = %v, want (210, -10)", ev.Outcome.Point)
	}
	ev = click(t, s, plan, 289, -8, ActionOpeningCut)
	if len(ev.IDs) != 1 || ev.IDs[0] != wallID {
		t.Fatalf("ids = %v, want [%d]", ev.IDs, wallID)
	}
	w, _ := plan.Active().Room(wallID)
	if !near(w.Area, 32000-1600) {
		t.Errorf("wall area = %v, want %v", w.Area, 32000-1600)
	}
	if s.State().Edge != nil {
		t.Error("edge selection survived the cut")
	}
}

func TestDimensionCreateAndExtend(t *testing.T) {
	plan, _, s := setup(snap.ToolDimension)
	click(t, s, plan, 0, 0, ActionDimensionStarted)
	ev := click(t, s, plan, 100, 0, ActionDimensionCreated)
	id := ev.IDs[0]

	click(t, s, plan, 100, 1, ActionExtensionStarted)
	ev = click(t, s, plan, 200, 30, ActionDimensionExtended)
	if !ev.Outcome.DirectionFixed {
		t.Error("extension should fix the direction")
	}
	d, _ := plan.Active().Dimension(id)
	if len(d.Points) != 3 || !d.Points[2].Equal(geometry.Pt(200, 0), 1e-6) {
		t.Errorf("points = %v", d.Points)
	}

	ev, err := s.Finish(plan)
	if err != nil || ev.Action != ActionCancelled {
		t.Errorf("Finish = %s, %v", ev.Action, err)
	}
	if s.State().Extension != nil {
		t.Error("extension still active")
	}
}

func TestDimensionSideFollowsCursor(t *testing.T) {
	plan, _, s := setup(snap.ToolDimension)

	click(t, s, plan, 0, 0, ActionDimensionStarted)
	first := click(t, s, plan, 101, 3, ActionDimensionCreated).IDs[0]
	click(t, s, plan, 0, 200, ActionDimensionStarted)
	second := click(t, s, plan, 101, 197, ActionDimensionCreated).IDs[0]

	a, _ := plan.Active().Dimension(first)
	b, _ := plan.Active().Dimension(second)
	if want := dimension.SideOf(geometry.Pt(0, 0), geometry.Pt(100, 0), geometry.Pt(101, 3)); a.OffsetSide != want {
		t.Errorf("first side = %d, want %d", a.OffsetSide, want)
	}
	if a.OffsetSide == b.OffsetSide {
		t.Errorf("cursor on opposite sides gave the same side %d", a.OffsetSide)
	}
}

func TestGuidelines(t *testing.T) {
	plan, ed, _ := setup(snap.ToolGuideline)
	s := New(ed, Options{Tool: snap.ToolGuideline, Settings: gridOnly(), GuideCount: 2, GuideSpacing: 50})
	click(t, s, plan, 0, 0, ActionGuideStarted)
	ev := click(t, s, plan, 100, 0, ActionGuidesCreated)
	if len(ev.IDs) != 2 {
		t.Errorf("ids = %v, want 2", ev.IDs)
	}
}

func TestPlaceAtDistance(t *testing.T) {
	plan, ed, _ := setup(snap.ToolRoom)
	s := New(ed, Options{Tool: snap.ToolRoom, Settings: snap.Settings{GridSpacing: 10, Orthogonal: true}})

	if _, err := s.PlaceAtDistance(plan, 50); !errors.Is(err, ErrNoDirection) {
		t.Errorf("no anchor: err = %v, want %v", err, ErrNoDirection)
	}
	click(t, s, plan, 0, 0, ActionPointAdded)
	out := s.Move(plan, geometry.Pt(50, 3))
	if out.LockedAxis != snap.AxisHorizontal {
		t.Errorf("locked axis = %q, want H", out.LockedAxis)
	}
	ev, err := s.PlaceAtDistance(plan, 120)
	if err != nil {
		t.Fatalf("PlaceAtDistance: %v", err)
	}
	if ev.Action != ActionPointAdded || !ev.Outcome.Point.Equal(geometry.Pt(120, 0), 1e-9) {
		t.Errorf("event = %s at %v", ev.Action, ev.Outcome.Point)
	}
	if _, err := s.PlaceAtDistance(plan, -1); !errors.Is(err, ErrBadDistance) {
		t.Errorf("negative: err = %v, want %v", err, ErrBadDistance)
	}
}

func TestCancelAndFinishEmpty(t *testing.T) {
	plan, _, s := setup(snap.ToolWall)
	click(t, s, plan, 0, 0, ActionPointAdded)
	s.Cancel()
	if len(s.State().Points) != 0 {
		t.Error("cancel kept points")
	}
	if _, err := s.Finish(plan); !errors.Is(err, ErrNothingToFinish) {
		t.Errorf("err = %v, want %v", err, ErrNothingToFinish)
	}
}
