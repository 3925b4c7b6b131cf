package parser

import (
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"math"
	"strings"

	"floorplanner/internal/planner/geometry"
	"floorplanner/internal/planner/models"
	"floorplanner/internal/planner/walls"
)

// ============================================================
// XML Structures
// ============================================================

type svgDoc struct {
	XMLName xml.Name `xml:"svg"`
	group
}

// group is any container; nested <g> elements are walked recursively.
type group struct {
	Rects    []svgRect    `xml:"rect"`
	Paths    []svgPath    `xml:"path"`
	Polygons []svgPolygon `xml:"polygon"`
	Groups   []group      `xml:"g"`
}

type svgRect struct {
	ID     string  `xml:"id,attr"`
	X      float64 `xml:"x,attr"`
	Y      float64 `xml:"y,attr"`
	Width  float64 `xml:"width,attr"`
	Height float64 `xml:"height,attr"`
}

type svgPath struct {
	ID string `xml:"id,attr"`
	D  string `xml:"d,attr"`
}

type svgPolygon struct {
	ID     string `xml:"id,attr"`
	Points string `xml:"points,attr"`
}

// ============================================================
// Elements
// ============================================================

type kind string

const (
	kindWall kind = "wall"
	kindRoom kind = "room"
	kindDoor kind = "door"
)

type element struct {
	id     string
	kind   kind
	rect   *svgRect
	points []geometry.Point
}

func classifyElementByID(id string) kind {
	switch {
	case strings.HasPrefix(id, "Wall_"):
		return kindWall
	case strings.HasPrefix(id, "Door_"):
		return kindDoor
	case strings.HasPrefix(id, "Room_"),
		strings.HasSuffix(id, "_room"), // Hall_room, Toilet_room
		strings.HasSuffix(id, "_Room"):
		return kindRoom
	}
	return ""
}

func collect(g group, out []element) []element {
	for i := range g.Rects {
		r := g.Rects[i]
		if k := classifyElementByID(r.ID); k != "" {
			out = append(out, element{id: r.ID, kind: k, rect: &r, points: rectPoints(r)})
		}
	}
	for _, p := range g.Paths {
		k := classifyElementByID(p.ID)
		if k == "" {
			continue
		}
		pts, _, err := ParsePath(p.D)
		if err != nil {
			log.Printf("[IMPORT] skip %s: %v", p.ID, err)
			continue
		}
		out = append(out, element{id: p.ID, kind: k, points: pts})
	}
	for _, p := range g.Polygons {
		k := classifyElementByID(p.ID)
		if k == "" {
			continue
		}
		c := parseCoords(p.Points)
		pts := make([]geometry.Point, 0, len(c)/2)
		for i := 0; i+1 < len(c); i += 2 {
			pts = append(pts, geometry.Pt(c[i], c[i+1]))
		}
		out = append(out, element{id: p.ID, kind: k, points: pts})
	}
	for _, sub := range g.Groups {
		out = collect(sub, out)
	}
	return out
}

func rectPoints(r svgRect) []geometry.Point {
	return []geometry.Point{
		geometry.Pt(r.X, r.Y),
		geometry.Pt(r.X+r.Width, r.Y),
		geometry.Pt(r.X+r.Width, r.Y+r.Height),
		geometry.Pt(r.X, r.Y+r.Height),
	}
}

// ============================================================
// Import
// ============================================================

// Report summarizes an import.
type Report struct {
	Rooms   int `json:"rooms"`
	Walls   int `json:"walls"`
	Doors   int `json:"doors"`
	Skipped int `json:"skipped"`
}

// Import читает SVG и строит план с одним слоем. Id плана и слоя остаются
// пустыми: их назначает сервис при сохранении.
//
// Прямоугольные стены превращаются в открытые ленты по длинной оси, чтобы в
// них можно было вырезать проемы; стены-пути становятся полигонами. Двери
// привязываются к ближайшей стене, как это делает конвертер для holes.
func Import(r io.Reader, name string, grid float64) (*models.Plan, Report, error) {
	var doc svgDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, Report{}, fmt.Errorf("parse SVG: %w", err)
	}

	plan := models.NewPlan("", name, grid)
	layer := plan.Layers[0]
	layer.ID, layer.Name = "", "Imported"
	plan.ActiveLayer = ""

	var rep Report
	var doors []element
	for _, el := range collect(doc.group, nil) {
		switch el.kind {
		case kindWall:
			w, err := importWall(el)
			if err != nil {
				log.Printf("[IMPORT] skip %s: %v", el.id, err)
				rep.Skipped++
				continue
			}
			layer.AddRoom(w)
			rep.Walls++
		case kindRoom:
			pts := geometry.Dedupe(el.points, geometry.PointTolerance, true)
			if len(pts) < 3 {
				rep.Skipped++
				continue
			}
			room := models.Room{Name: displayName(el.id), Outer: geometry.EnsureCCW(pts)}
			room.Refresh()
			layer.AddRoom(room)
			rep.Rooms++
		case kindDoor:
			doors = append(doors, el)
		}
	}

	for _, el := range doors {
		d, ok := importDoor(el, layer)
		if !ok {
			rep.Skipped++
			continue
		}
		layer.AddDoor(d)
		rep.Doors++
	}
	return plan, rep, nil
}

func importWall(el element) (models.Room, error) {
	if el.rect != nil {
		r := *el.rect
		var a, b geometry.Point
		var t float64
		if r.Width >= r.Height {
			a, b, t = geometry.Pt(r.X, r.Y+r.Height/2), geometry.Pt(r.X+r.Width, r.Y+r.Height/2), r.Height
		} else {
			a, b, t = geometry.Pt(r.X+r.Width/2, r.Y+r.Height), geometry.Pt(r.X+r.Width/2, r.Y), r.Width
		}
		w, err := walls.Build([]geometry.Point{a, b}, walls.Options{Thickness: t, Alignment: models.AlignCentered})
		if err != nil {
			return models.Room{}, err
		}
		w.Name = displayName(el.id)
		return w, nil
	}

	pts := geometry.Dedupe(el.points, geometry.PointTolerance, true)
	if len(pts) < 3 {
		return models.Room{}, walls.ErrTooFewPoints
	}
	w := models.Room{
		Name:      displayName(el.id),
		Outer:     geometry.EnsureCCW(pts),
		IsWall:    true,
		Alignment: models.AlignCentered,
	}
	w.Refresh()
	return w, nil
}

// importDoor makes a door from the element bounds: the long side is the
// width, the short side the thickness.
func importDoor(el element, layer *models.Layer) (models.Door, bool) {
	box, ok := geometry.Bounds(el.points...)
	if !ok || box.Width() <= 0 || box.Height() <= 0 {
		return models.Door{}, false
	}
	d := models.Door{
		Center:     box.Center(),
		Width:      math.Max(box.Width(), box.Height()),
		Thickness:  math.Min(box.Width(), box.Height()),
		WallVector: geometry.Pt(1, 0),
		Swing:      models.SwingRightIn,
	}
	if box.Height() > box.Width() {
		d.WallVector = geometry.Pt(0, 1)
	}

	best := math.Inf(1)
	for _, id := range layer.RoomIDs() {
		w := layer.Rooms[id]
		if !w.IsWall {
			continue
		}
		for _, e := range geometry.Edges(w.Outer, true) {
			if dist := geometry.DistanceToSegment(d.Center, e.A, e.B); dist < best {
				best, d.WallID = dist, id
			}
		}
	}
	if best > d.Width {
		d.WallID = 0
	}
	return d, true
}

// displayName turns "Room_Kitchen" or "Hall_room" into "Kitchen" / "Hall".
func displayName(id string) string {
	name := id
	for _, prefix := range []string{"Room_", "Wall_", "Door_"} {
		name = strings.TrimPrefix(name, prefix)
	}
	for _, suffix := range []string{"_room", "_Room"} {
		name = strings.TrimSuffix(name, suffix)
	}
	name = strings.ReplaceAll(name, "_", " ")
	if name == "" {
		return id
	}
	return name
}
