// Package dimension edits dimension chains: ordered point lists whose
// consecutive segments are measured and drawn at an offset.
package dimension

import (
	"errors"
	"math"

	"floorplanner/internal/planner/geometry"
	"floorplanner/internal/planner/models"
)

// MinSegment is the shortest distance two neighbouring chain points may have.
const MinSegment = 1e-5

// DefaultOffset is the drawing offset of a chain without a custom one.
const DefaultOffset = 20.0

var (
	ErrTooShort       = errors.New("dimension points coincide")
	ErrMinVertices    = errors.New("dimension chain needs at least two points")
	ErrNotEndVertex   = errors.New("only end vertices can be extended")
	ErrVertexRange    = errors.New("vertex index out of range")
	ErrSegmentRange   = errors.New("segment index out of range")
	ErrNegativeOffset = errors.New("offset must not be negative")
)

// SideOf returns +1 when cursor is on the left of start→end, otherwise -1.
// The sign picks which side of the measured line the chain is drawn on.
func SideOf(start, end, cursor geometry.Point) int {
	if geometry.Side(cursor, start, end) > 0 {
		return 1
	}
	return -1
}

// New creates a two-point chain. side is normalised to ±1.
func New(start, end geometry.Point, side int) (models.DimensionLine, error) {
	if geometry.Distance(start, end) <= MinSegment {
		return models.DimensionLine{}, ErrTooShort
	}
	if side >= 0 {
		side = 1
	} else {
		side = -1
	}
	return models.DimensionLine{
		Points:     []geometry.Point{start, end},
		OffsetSide: side,
	}, nil
}

// Append pushes p at the end of the chain, or at the start when atStart is set.
func Append(d *models.DimensionLine, p geometry.Point, atStart bool) error {
	n := len(d.Points)
	if n == 0 {
		d.Points = []geometry.Point{p}
		return nil
	}
	neighbour := d.Points[n-1]
	if atStart {
		neighbour = d.Points[0]
	}
	if geometry.Distance(neighbour, p) <= MinSegment {
		return ErrTooShort
	}
	if atStart {
		d.Points = append([]geometry.Point{p}, d.Points...)
	} else {
		d.Points = append(d.Points, p)
	}
	return nil
}

// InsertVertex splits segment seg at p.
func InsertVertex(d *models.DimensionLine, seg int, p geometry.Point) error {
	if seg < 0 || seg >= len(d.Points)-1 {
		return ErrSegmentRange
	}
	pts := make([]geometry.Point, 0, len(d.Points)+1)
	pts = append(pts, d.Points[:seg+1]...)
	pts = append(pts, p)
	pts = append(pts, d.Points[seg+1:]...)
	d.Points = pts
	return nil
}

// DeleteVertex removes vertex idx. Chains never drop below two points.
func DeleteVertex(d *models.DimensionLine, idx int) error {
	if idx < 0 || idx >= len(d.Points) {
		return ErrVertexRange
	}
	if len(d.Points) <= 2 {
		return ErrMinVertices
	}
	pts := make([]geometry.Point, 0, len(d.Points)-1)
	pts = append(pts, d.Points[:idx]...)
	d.Points = append(pts, d.Points[idx+1:]...)
	return nil
}

// MoveVertex places vertex idx at p.
func MoveVertex(d *models.DimensionLine, idx int, p geometry.Point) error {
	if idx < 0 || idx >= len(d.Points) {
		return ErrVertexRange
	}
	d.Points[idx] = p
	return nil
}

// Translate moves the whole chain by delta.
func Translate(d *models.DimensionLine, delta geometry.Point) {
	d.Points = geometry.Translate(d.Points, delta)
}

// SetCustomOffset fixes the drawing offset; nil restores the default.
func SetCustomOffset(d *models.DimensionLine, offset *float64) error {
	if offset == nil {
		d.CustomOffset = nil
		return nil
	}
	if *offset < 0 {
		return ErrNegativeOffset
	}
	v := *offset
	d.CustomOffset = &v
	return nil
}

// DragOffset sets the offset from a cursor dragged next to the chain: the
// perpendicular distance to the first→last line becomes the custom offset
// and the cursor side becomes the offset side.
func DragOffset(d *models.DimensionLine, cursor geometry.Point) {
	if len(d.Points) < 2 {
		return
	}
	a, b := d.Points[0], d.Points[len(d.Points)-1]
	off := geometry.PerpendicularDistance(cursor, a, b)
	d.CustomOffset = &off
	d.OffsetSide = SideOf(a, b, cursor)
}

// Offset returns the effective drawing offset.
func Offset(d models.DimensionLine) float64 {
	if d.CustomOffset != nil {
		return *d.CustomOffset
	}
	return DefaultOffset
}

// Normal is the unit normal of the chain on its offset side.
func Normal(d models.DimensionLine) geometry.Point {
	if len(d.Points) < 2 {
		return geometry.Point{}
	}
	dir := d.Points[len(d.Points)-1].Sub(d.Points[0]).Normalize()
	side := float64(d.OffsetSide)
	if side == 0 {
		side = 1
	}
	// Left normal; OffsetSide=+1 draws on the left of first→last.
	return geometry.Pt(-dir.Y, dir.X).Mul(side)
}

// OffsetPoints returns the chain points moved to where the dimension line is drawn.
func OffsetPoints(d models.DimensionLine) []geometry.Point {
	return geometry.Translate(d.Points, Normal(d).Mul(Offset(d)))
}

// Lengths returns every segment length in chain order.
func Lengths(d models.DimensionLine) []float64 {
	out := make([]float64, 0, len(d.Points))
	for i := 1; i < len(d.Points); i++ {
		out = append(out, geometry.Distance(d.Points[i-1], d.Points[i]))
	}
	return out
}

// Total is the sum of all segment lengths.
func Total(d models.DimensionLine) float64 {
	var sum float64
	for _, l := range Lengths(d) {
		sum += l
	}
	return sum
}

// Span is the first→last segment, used when the chain acts as a single line.
func Span(d models.DimensionLine) (geometry.Segment, bool) {
	if len(d.Points) < 2 {
		return geometry.Segment{}, false
	}
	return geometry.Seg(d.Points[0], d.Points[len(d.Points)-1]), true
}

// Segments lists all chain segments.
func Segments(d models.DimensionLine) []geometry.Segment {
	return geometry.Edges(d.Points, false)
}

// ============================================================
// Extension from an end vertex
// ============================================================

// Extension continues a chain from one of its ends along the direction of
// the end segment.
type Extension struct {
	DimensionID int            `json:"dimensionId"`
	Origin      geometry.Point `json:"origin"`
	Angle       float64        `json:"angle"` // radians
	AtStart     bool           `json:"atStart"`
}

// BeginExtend starts an extension from vertex idx, which must be the first
// or the last point of the chain.
func BeginExtend(d models.DimensionLine, idx int) (Extension, error) {
	n := len(d.Points)
	if n < 2 {
		return Extension{}, ErrMinVertices
	}
	switch idx {
	case 0:
		return Extension{
			DimensionID: d.ID,
			Origin:      d.Points[0],
			Angle:       geometry.Angle(d.Points[1], d.Points[0]),
			AtStart:     true,
		}, nil
	case n - 1:
		return Extension{
			DimensionID: d.ID,
			Origin:      d.Points[n-1],
			Angle:       geometry.Angle(d.Points[n-2], d.Points[n-1]),
		}, nil
	}
	return Extension{}, ErrNotEndVertex
}

// Constrain projects p onto the extension ray's line.
func (e Extension) Constrain(p geometry.Point) geometry.Point {
	dir := geometry.Pt(math.Cos(e.Angle), math.Sin(e.Angle))
	return e.Origin.Add(dir.Mul(p.Sub(e.Origin).Dot(dir)))
}

// Extend appends the constrained point to the chain.
func Extend(d *models.DimensionLine, e Extension, p geometry.Point) error {
	return Append(d, e.Constrain(p), e.AtStart)
}
