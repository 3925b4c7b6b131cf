package dimension

import (
	"errors"
	"math"
	"testing"

	"floorplanner/internal/planner/geometry"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestNew(t *testing.T) {
	if _, err := New(geometry.Pt(0, 0), geometry.Pt(0, 0.000001), 1); !errors.Is(err, ErrTooShort) {
		t.Errorf("New with coincident points = %v, want ErrTooShort", err)
	}
	d, err := New(geometry.Pt(0, 0), geometry.Pt(100, 0), 5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if d.OffsetSide != 1 || len(d.Points) != 2 {
		t.Errorf("New = %+v", d)
	}
	if got := SideOf(geometry.Pt(0, 0), geometry.Pt(100, 0), geometry.Pt(50, -20)); got != -1 {
		t.Errorf("SideOf right = %d, want -1", got)
	}
}

func TestAppendAndExtend(t *testing.T) {
	d, _ := New(geometry.Pt(0, 0), geometry.Pt(100, 0), 1)

	if err := Append(&d, geometry.Pt(100, 0), false); !errors.Is(err, ErrTooShort) {
		t.Errorf("Append duplicate = %v, want ErrTooShort", err)
	}
	if err := Append(&d, geometry.Pt(250, 0), false); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := Append(&d, geometry.Pt(-50, 0), true); err != nil {
		t.Fatalf("Append at start: %v", err)
	}
	if d.Points[0] != geometry.Pt(-50, 0) || len(d.Points) != 4 {
		t.Fatalf("points = %v", d.Points)
	}
	if !near(Total(d), 300) {
		t.Errorf("Total = %v, want 300", Total(d))
	}

	ext, err := BeginExtend(d, len(d.Points)-1)
	if err != nil {
		t.Fatalf("BeginExtend: %v", err)
	}
	if got := ext.Constrain(geometry.Pt(300, 40)); !near(got.X, 300) || !near(got.Y, 0) {
		t.Errorf("Constrain = %v, want (300, 0)", got)
	}
	if err := Extend(&d, ext, geometry.Pt(300, 40)); err != nil {
		t.Fatalf("Extend: %v", err)
	}
	if len(d.Points) != 5 {
		t.Errorf("len after extend = %d", len(d.Points))
	}

	start, err := BeginExtend(d, 0)
	if err != nil || !start.AtStart {
		t.Fatalf("BeginExtend(0) = %+v, %v", start, err)
	}
	if got := start.Constrain(geometry.Pt(-80, 10)); !near(got.X, -80) || !near(got.Y, 0) {
		t.Errorf("start Constrain = %v", got)
	}

	if _, err := BeginExtend(d, 2); !errors.Is(err, ErrNotEndVertex) {
		t.Errorf("BeginExtend interior = %v, want ErrNotEndVertex", err)
	}
}

func TestInsertAndDeleteVertex(t *testing.T) {
	d, _ := New(geometry.Pt(0, 0), geometry.Pt(100, 0), 1)
	if err := InsertVertex(&d, 0, geometry.Pt(40, 0)); err != nil {
		t.Fatalf("InsertVertex: %v", err)
	}
	if d.Points[1] != geometry.Pt(40, 0) {
		t.Errorf("points = %v", d.Points)
	}
	if err := InsertVertex(&d, 5, geometry.Pt(1, 1)); !errors.Is(err, ErrSegmentRange) {
		t.Errorf("InsertVertex out of range = %v", err)
	}

	if err := DeleteVertex(&d, 1); err != nil {
		t.Fatalf("DeleteVertex: %v", err)
	}
	if err := DeleteVertex(&d, 0); !errors.Is(err, ErrMinVertices) {
		t.Errorf("DeleteVertex on a 2-point chain = %v, want ErrMinVertices", err)
	}
	if len(d.Points) != 2 {
		t.Errorf("chain shrank below two points: %v", d.Points)
	}
}

func TestOffsets(t *testing.T) {
	d, _ := New(geometry.Pt(0, 0), geometry.Pt(100, 0), 1)
	if Offset(d) != DefaultOffset {
		t.Errorf("default offset = %v", Offset(d))
	}
	pts := OffsetPoints(d)
	if !near(pts[0].Y, DefaultOffset) {
		t.Errorf("left offset = %v", pts)
	}

	DragOffset(&d, geometry.Pt(50, -35))
	if d.OffsetSide != -1 || d.CustomOffset == nil || !near(*d.CustomOffset, 35) {
		t.Errorf("DragOffset = side %d, offset %v", d.OffsetSide, d.CustomOffset)
	}
	if got := OffsetPoints(d); !near(got[1].Y, -35) {
		t.Errorf("offset points after drag = %v", got)
	}

	neg := -1.0
	if err := SetCustomOffset(&d, &neg); !errors.Is(err, ErrNegativeOffset) {
		t.Errorf("negative offset = %v", err)
	}
	if err := SetCustomOffset(&d, nil); err != nil || d.CustomOffset != nil {
		t.Errorf("reset offset = %v, %v", err, d.CustomOffset)
	}
}
