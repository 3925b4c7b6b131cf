package render

import (
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"floorplanner/internal/planner/editor"
	"floorplanner/internal/planner/geometry"
	"floorplanner/internal/planner/models"
	"floorplanner/internal/planner/walls"
)

func samplePlan(t *testing.T) *models.Plan {
	t.Helper()
	plan := models.NewPlan("p", "Sample", 10)
	ed := editor.New(editor.Defaults{})

	room := []geometry.Point{geometry.Pt(0, 0), geometry.Pt(400, 0), geometry.Pt(400, 300), geometry.Pt(0, 300)}
	if _, err := ed.FinishPolygon(plan, "", editor.PolygonRoom, room, editor.WallParams{}); err != nil {
		t.Fatalf("room: %v", err)
	}
	wall := append(geometry.Clone(room), room[0])
	wallID, err := ed.FinishPolygon(plan, "", editor.PolygonWall, wall, editor.WallParams{Thickness: 20})
	if err != nil {
		t.Fatalf("wall: %v", err)
	}
	if _, err := ed.AddDimension(plan, "", geometry.Pt(0, 0), geometry.Pt(400, 0), -1); err != nil {
		t.Fatalf("dimension: %v", err)
	}
	if _, err := ed.AddGuidelines(plan, "", geometry.Pt(0, 150), geometry.Pt(10, 150), 1, 0); err != nil {
		t.Fatalf("guideline: %v", err)
	}

	hidden := ed.AddLayer(plan, "Hidden")
	hidden.Visible = false
	ghost := models.Room{Name: "Ghost", Outer: []geometry.Point{geometry.Pt(5000, 5000), geometry.Pt(5100, 5000), geometry.Pt(5100, 5100)}}
	ghost.Refresh()
	hidden.AddRoom(ghost)
	plan.ActiveLayer = plan.Layers[0].ID

	// A door on the unrotated wall keeps the single wall id.
	if _, err := ed.PlaceDoor(plan, "", wallID, walls.Target{}, geometry.Pt(200, -10), 80, ""); err != nil {
		t.Fatalf("door: %v", err)
	}
	return plan
}

func TestRenderIsWellFormed(t *testing.T) {
	svg, err := Render(samplePlan(t), Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	dec := xml.NewDecoder(strings.NewReader(svg))
	for {
		if _, err := dec.Token(); err != nil {
			if err == io.EOF {
				break
			}
			t.Fatalf("invalid XML: %v\n%s", err, svg)
		}
	}

	for _, want := range []string{
		`id="room-1"`,
		`id="wall-2"`,
		`fill-rule="evenodd"`,
		`id="door-1"`,
		`id="dimension-1"`,
		`id="guideline-1"`,
		`>400<`,
		`Room 1 12.00 m²`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg lacks %s", want)
		}
	}
	if strings.Contains(svg, "Ghost") {
		t.Error("hidden layer was drawn")
	}
}

func TestRenderIncludeHidden(t *testing.T) {
	svg, err := Render(samplePlan(t), Options{IncludeHidden: true})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(svg, "Ghost") {
		t.Error("hidden layer missing with IncludeHidden")
	}
}

func TestViewBoxAndGuidelineClip(t *testing.T) {
	plan := models.NewPlan("p", "Empty", 10)
	plan.Active().AddGuideline(models.Guideline{A: geometry.Pt(0, 100), B: geometry.Pt(1, 100)})

	svg, err := Render(plan, Options{Padding: 10})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(svg, `viewBox="-10 -10 1020 1020"`) {
		t.Errorf("unexpected view box in\n%s", svg)
	}
	if !strings.Contains(svg, `x1="-10" y1="100" x2="1010" y2="100"`) {
		t.Errorf("guideline not clipped to the view in\n%s", svg)
	}
}

func TestRenderNilPlan(t *testing.T) {
	if _, err := Render(nil, Options{}); err == nil {
		t.Error("expected an error for a nil plan")
	}
}
