package walls

import (
	"errors"

	"floorplanner/internal/planner/geometry"
	"floorplanner/internal/planner/models"
)

var (
	ErrTooFewPoints      = errors.New("wall needs at least two points")
	ErrNotAWall          = errors.New("entity is not a wall")
	ErrNoOpposingFace    = errors.New("no opposing wall face found")
	ErrEndCap            = errors.New("openings cannot be cut into a wall end cap")
	ErrInvalidShape      = errors.New("cut would produce a degenerate wall")
	ErrEdgeOutOfRange    = errors.New("edge index out of range")
	ErrDegenerateOpening = errors.New("opening has zero width")
)

// Options controls wall construction.
type Options struct {
	Thickness float64
	Alignment models.Alignment
	// CloseTolerance: distance under which the last drawn point closes the loop.
	CloseTolerance float64
}

func (o Options) thickness() float64 {
	if o.Thickness <= 0 {
		return models.DefaultWallThickness
	}
	return o.Thickness
}

func (o Options) alignment() models.Alignment {
	if !o.Alignment.Valid() {
		return models.AlignCentered
	}
	return o.Alignment
}

// Faces offsets the centerline into the outer and inner faces.
func Faces(centerline []geometry.Point, thickness float64, align models.Alignment, closed bool) (outer, inner []geometry.Point) {
	switch align {
	case models.AlignExterior:
		outer = geometry.Clone(centerline)
		inner = geometry.OffsetPath(centerline, -thickness, closed)
	case models.AlignInterior:
		outer = geometry.OffsetPath(centerline, thickness, closed)
		inner = geometry.Clone(centerline)
	default:
		outer = geometry.OffsetPath(centerline, thickness/2, closed)
		inner = geometry.OffsetPath(centerline, -thickness/2, closed)
	}
	return outer, inner
}

// IsClosing reports whether the drawn points form a loop: at least three
// points and the last one within tol of the first.
func IsClosing(points []geometry.Point, tol float64) bool {
	n := len(points)
	if n < 3 {
		return false
	}
	return geometry.Distance(points[0], points[n-1]) <= tol
}

// Build turns a drawn centerline into a wall entity (without an id).
//
// A closing polyline yields a wall with an outer loop (CCW) and an inner loop
// (CW). Any other polyline yields a single ribbon loop made of the outer face
// followed by the reversed inner face.
func Build(points []geometry.Point, opts Options) (models.Room, error) {
	pts := geometry.Dedupe(points, geometry.PointTolerance, false)
	closed := IsClosing(pts, opts.CloseTolerance)
	if closed {
		pts = pts[:len(pts)-1]
	}
	// A loop needs three distinct corners; A-B-A would fold back on itself.
	if len(pts) < 2 || closed && len(pts) < 3 {
		return models.Room{}, ErrTooFewPoints
	}

	thickness := opts.thickness()
	align := opts.alignment()
	wall := models.Room{
		IsWall:    true,
		Thickness: thickness,
		Alignment: align,
	}

	if closed {
		center := geometry.EnsureCCW(pts)
		outer, inner := Faces(center, thickness, align, true)
		wall.Outer = geometry.EnsureCCW(outer)
		wall.Inner = geometry.EnsureCW(inner)
	} else {
		outer, inner := Faces(pts, thickness, align, false)
		if len(outer) != len(inner) || len(outer) < 2 {
			return models.Room{}, ErrInvalidShape
		}
		wall.Outer = append(outer, geometry.Reverse(inner)...)
		wall.Open = true
	}

	wall.Refresh()
	return wall, nil
}
