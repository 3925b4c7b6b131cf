// Package render draws a plan as an SVG document.
package render

import (
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	"floorplanner/internal/planner/dimension"
	"floorplanner/internal/planner/geometry"
	"floorplanner/internal/planner/models"
)

// DefaultPadding is added around the drawing bounds.
const DefaultPadding = 50

// Options control what is drawn.
type Options struct {
	Padding float64
	// IncludeHidden draws hidden layers too.
	IncludeHidden bool
}

// ============================================================
// Renderer
// ============================================================

// Render собирает SVG из плана. Слои рисуются в порядке плана, внутри слоя:
// комнаты, стены, двери, размеры, направляющие.
func Render(plan *models.Plan, opts Options) (string, error) {
	if plan == nil {
		return "", errors.New("plan is nil")
	}
	if opts.Padding <= 0 {
		opts.Padding = DefaultPadding
	}

	var layers []*models.Layer
	for _, l := range plan.Layers {
		if l.Visible || opts.IncludeHidden {
			layers = append(layers, l)
		}
	}
	view := viewBox(layers).Expand(opts.Padding)

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="%s %s %s %s">`,
		formatFloat(view.Width()), formatFloat(view.Height()),
		formatFloat(view.Min.X), formatFloat(view.Min.Y), formatFloat(view.Width()), formatFloat(view.Height()))
	b.WriteString("\n")

	for _, l := range layers {
		fmt.Fprintf(&b, `  <g id="layer-%s" opacity="%s">`, html.EscapeString(l.ID), formatFloat(l.Opacity))
		b.WriteString("\n")
		var elems []string
		elems = append(elems, renderRooms(l)...)
		elems = append(elems, renderWalls(l)...)
		elems = append(elems, renderDoors(l)...)
		elems = append(elems, renderDimensions(l)...)
		elems = append(elems, renderGuidelines(l, view)...)
		for _, e := range elems {
			b.WriteString("    ")
			b.WriteString(e)
			b.WriteString("\n")
		}
		b.WriteString("  </g>\n")
	}

	b.WriteString(`</svg>`)
	return b.String(), nil
}

// viewBox covers every room, door and dimension point. Guidelines are
// infinite and do not count.
func viewBox(layers []*models.Layer) geometry.Rect {
	var pts []geometry.Point
	for _, l := range layers {
		for _, id := range l.RoomIDs() {
			pts = append(pts, l.Rooms[id].Outer...)
		}
		for _, id := range l.DimensionIDs() {
			d := l.Dimensions[id]
			pts = append(pts, d.Points...)
			pts = append(pts, dimension.OffsetPoints(d)...)
		}
		for _, id := range l.DoorIDs() {
			pts = append(pts, l.Doors[id].Center)
		}
	}
	box, ok := geometry.Bounds(pts...)
	if !ok || box.Width() <= 0 || box.Height() <= 0 {
		return geometry.Rect{Max: geometry.Pt(1000, 1000)}
	}
	return box
}

// ============================================================
// Element renderers
// ============================================================

func renderRooms(l *models.Layer) []string {
	var out []string
	for _, id := range l.RoomIDs() {
		r := l.Rooms[id]
		if r.IsWall || len(r.Outer) < 3 {
			continue
		}
		out = append(out, fmt.Sprintf(`<path id="room-%d" d="%s" fill="#f5f5f5" stroke="#888" />`, id, pathData(r.Outer, true)))
		if r.Label != nil {
			out = append(out, fmt.Sprintf(`<text x="%s" y="%s" text-anchor="middle" font-size="12">%s</text>`,
				formatFloat(r.Label.X), formatFloat(r.Label.Y), html.EscapeString(roomLabel(r))))
		}
	}
	return out
}

func roomLabel(r models.Room) string {
	m2 := r.Area / (models.UnitsPerMeter * models.UnitsPerMeter)
	if r.Name == "" {
		return strconv.FormatFloat(m2, 'f', 2, 64) + " m²"
	}
	return r.Name + " " + strconv.FormatFloat(m2, 'f', 2, 64) + " m²"
}

// renderWalls draws closed walls as two subpaths with even-odd fill so the
// inner loop is a hole.
func renderWalls(l *models.Layer) []string {
	var out []string
	for _, id := range l.RoomIDs() {
		w := l.Rooms[id]
		if !w.IsWall || len(w.Outer) < 3 {
			continue
		}
		d := pathData(w.Outer, true)
		if len(w.Inner) >= 3 {
			d += " " + pathData(w.Inner, true)
		}
		out = append(out, fmt.Sprintf(`<path id="wall-%d" d="%s" fill="#444" fill-rule="evenodd" stroke="#000" />`, id, d))
	}
	return out
}

// renderDoors draws the opening, the leaf and the swing arc. The hinge sits
// on the left or right jamb; "in" swings to the left of the wall vector.
func renderDoors(l *models.Layer) []string {
	var out []string
	for _, id := range l.DoorIDs() {
		d := l.Doors[id]
		dir := d.WallVector.Normalize()
		if dir.Length() == 0 {
			dir = geometry.Pt(1, 0)
		}
		half := d.Width / 2
		left := d.Center.Sub(dir.Mul(half))
		right := d.Center.Add(dir.Mul(half))

		normal := dir.RightNormal()
		if d.Swing == models.SwingLeftIn || d.Swing == models.SwingRightIn {
			normal = normal.Mul(-1)
		}
		hinge, free := left, right
		if d.Swing == models.SwingRightIn || d.Swing == models.SwingRightOut {
			hinge, free = right, left
		}
		jamb := hinge.Add(normal.Mul(d.Thickness / 2))
		leaf := jamb.Add(normal.Mul(d.Width))
		end := free.Add(normal.Mul(d.Thickness / 2))
		sweep := 0
		if leaf.Sub(jamb).Cross(end.Sub(jamb)) > 0 {
			sweep = 1
		}

		t := normal.Mul(d.Thickness / 2)
		opening := []geometry.Point{left.Sub(t), right.Sub(t), right.Add(t), left.Add(t)}
		out = append(out,
			fmt.Sprintf(`<path id="door-%d" d="%s" fill="#fff" stroke="#d62728" />`, id, pathData(opening, true)),
			fmt.Sprintf(`<path d="M %s L %s A %s %s 0 0 %d %s" fill="none" stroke="#d62728" />`,
				formatPoint(jamb), formatPoint(leaf), formatFloat(d.Width), formatFloat(d.Width), sweep, formatPoint(end)),
		)
	}
	return out
}

// renderDimensions draws the chain on its offset side with extension lines
// and a length label per segment.
func renderDimensions(l *models.Layer) []string {
	var out []string
	for _, id := range l.DimensionIDs() {
		d := l.Dimensions[id]
		if len(d.Points) < 2 {
			continue
		}
		off := dimension.OffsetPoints(d)
		out = append(out, fmt.Sprintf(`<path id="dimension-%d" d="%s" fill="none" stroke="#1f77b4" />`, id, pathData(off, false)))
		for i, p := range d.Points {
			out = append(out, fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="#1f77b4" stroke-width="0.5" />`,
				formatFloat(p.X), formatFloat(p.Y), formatFloat(off[i].X), formatFloat(off[i].Y)))
		}
		lengths := dimension.Lengths(d)
		for i, length := range lengths {
			m := geometry.Midpoint(off[i], off[i+1])
			label := strconv.FormatFloat(length, 'f', 0, 64)
			if d.CustomText != "" && len(lengths) == 1 {
				label = d.CustomText
			}
			out = append(out, fmt.Sprintf(`<text x="%s" y="%s" text-anchor="middle" font-size="10" fill="#1f77b4">%s</text>`,
				formatFloat(m.X), formatFloat(m.Y), html.EscapeString(label)))
		}
	}
	return out
}

func renderGuidelines(l *models.Layer, view geometry.Rect) []string {
	var out []string
	for _, id := range l.GuidelineIDs() {
		g := l.Guidelines[id]
		a, b, ok := geometry.ClipLineToRect(g.A, g.B, view)
		if !ok {
			continue
		}
		out = append(out, fmt.Sprintf(`<line id="guideline-%d" x1="%s" y1="%s" x2="%s" y2="%s" stroke="#2ca02c" stroke-dasharray="4 4" />`,
			id, formatFloat(a.X), formatFloat(a.Y), formatFloat(b.X), formatFloat(b.Y)))
	}
	return out
}

// ============================================================
// Formatting helpers
// ============================================================

func pathData(points []geometry.Point, closed bool) string {
	var b strings.Builder
	for i, p := range points {
		if i == 0 {
			b.WriteString("M ")
		} else {
			b.WriteString(" L ")
		}
		b.WriteString(formatPoint(p))
	}
	if closed {
		b.WriteString(" Z")
	}
	return b.String()
}

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}

func formatPoint(p geometry.Point) string {
	return formatFloat(p.X) + " " + formatFloat(p.Y)
}
