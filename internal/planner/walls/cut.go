package walls

import (
	"math"

	"floorplanner/internal/planner/geometry"
	"floorplanner/internal/planner/models"
)

// Target identifies the clicked wall face edge. For open ribbons Path is
// always the outer loop and Edge indexes the whole ribbon.
type Target struct {
	Path models.PathIndex `json:"path"`
	Edge int              `json:"edge"`
}

// Cut opens a gap between a and b on the target edge of the wall.
//
// A closed wall becomes one notched polygon that keeps the wall id. An open
// ribbon splits into two ribbons with zero ids (the layer assigns fresh
// ones). On error the wall is left untouched.
func Cut(wall models.Room, target Target, a, b geometry.Point) ([]models.Room, error) {
	if !wall.IsWall {
		return nil, ErrNotAWall
	}
	if geometry.Distance(a, b) < geometry.PointTolerance {
		return nil, ErrDegenerateOpening
	}
	switch {
	case wall.Open:
		return cutRibbon(wall, target, a, b)
	case len(wall.Inner) >= 3:
		cut, err := cutClosed(wall, target, a, b)
		if err != nil {
			return nil, err
		}
		return []models.Room{cut}, nil
	}
	return nil, ErrNoOpposingFace
}

func thicknessOf(w models.Room) float64 {
	if w.Thickness > 0 {
		return w.Thickness
	}
	return models.DefaultWallThickness
}

// ============================================================
// Closed walls
// ============================================================

// OpposingEdge finds the edge of the other face nearest to the midpoint of
// the target edge, accepted within twice the wall thickness.
func OpposingEdge(wall models.Room, target Target) (int, error) {
	if target.Path != models.PathOuter && target.Path != models.PathInner {
		return -1, ErrEdgeOutOfRange
	}
	operating := wall.Path(target.Path)
	opposite := wall.Path(1 - target.Path)
	if target.Edge < 0 || target.Edge >= len(operating) {
		return -1, ErrEdgeOutOfRange
	}
	if len(opposite) < 2 {
		return -1, ErrNoOpposingFace
	}
	mid := geometry.Edge(operating, target.Edge).Midpoint()

	idx, best := -1, math.Inf(1)
	for i, e := range geometry.Edges(opposite, true) {
		if d := geometry.DistanceToSegment(mid, e.A, e.B); d < best {
			idx, best = i, d
		}
	}
	if idx < 0 || best >= 2*thicknessOf(wall) {
		return -1, ErrNoOpposingFace
	}
	return idx, nil
}

func cutClosed(wall models.Room, target Target, a, b geometry.Point) (models.Room, error) {
	oppIdx, err := OpposingEdge(wall, target)
	if err != nil {
		return models.Room{}, err
	}
	operating := wall.Path(target.Path)
	opposite := wall.Path(1 - target.Path)
	n, m := len(operating), len(opposite)

	edge := geometry.Edge(operating, target.Edge)
	p1, _ := geometry.ClosestPointOnSegment(a, edge.A, edge.B)
	p2, _ := geometry.ClosestPointOnSegment(b, edge.A, edge.B)
	if geometry.Distance(p1, edge.A) > geometry.Distance(p2, edge.A) {
		p1, p2 = p2, p1
	}
	if geometry.Distance(p1, p2) < geometry.PointTolerance {
		return models.Room{}, ErrDegenerateOpening
	}

	opp := geometry.Edge(opposite, oppIdx)
	q1 := geometry.ClosestPointOnLine(p1, opp.A, opp.B)
	q2 := geometry.ClosestPointOnLine(p2, opp.A, opp.B)

	// p2 → around the operating loop → p1 → across → around the opposite loop → q2.
	poly := make([]geometry.Point, 0, n+m+4)
	poly = append(poly, p2)
	for i := geometry.Next(target.Edge, n); i != target.Edge; i = geometry.Next(i, n) {
		poly = append(poly, operating[i])
	}
	poly = append(poly, operating[target.Edge], p1, q1)
	for i := geometry.Next(oppIdx, m); i != oppIdx; i = geometry.Next(i, m) {
		poly = append(poly, opposite[i])
	}
	poly = append(poly, opposite[oppIdx], q2)

	poly = geometry.Dedupe(poly, geometry.PointTolerance, true)
	if len(poly) < 4 || geometry.PolygonArea(poly) < geometry.Epsilon {
		return models.Room{}, ErrInvalidShape
	}

	out := wall.Clone()
	out.Outer = geometry.EnsureCCW(poly)
	out.Inner = nil
	out.Refresh()
	return out, nil
}

// ============================================================
// Open ribbons
// ============================================================

// IsEndCap reports whether edge is one of the two caps of a ribbon with
// 2n points: n-1 (far end) and 2n-1 (start).
func IsEndCap(edge, total int) bool {
	n := total / 2
	return edge == n-1 || edge == total-1
}

func cutRibbon(wall models.Room, target Target, a, b geometry.Point) ([]models.Room, error) {
	total := len(wall.Outer)
	if total < 4 || total%2 != 0 {
		return nil, ErrInvalidShape
	}
	if target.Edge < 0 || target.Edge >= total {
		return nil, ErrEdgeOutOfRange
	}
	if IsEndCap(target.Edge, total) {
		return nil, ErrEndCap
	}

	n := total / 2
	outer := wall.Outer[:n]
	inner := geometry.Reverse(wall.Outer[n:])

	onOuter := target.Edge < n-1
	source, other := outer, inner
	srcIdx := target.Edge
	if !onOuter {
		source, other = inner, outer
		srcIdx = (2*n - 2) - target.Edge
	}

	seg := geometry.Seg(source[srcIdx], source[srcIdx+1])
	p1, _ := geometry.ClosestPointOnSegment(a, seg.A, seg.B)
	p2, _ := geometry.ClosestPointOnSegment(b, seg.A, seg.B)
	if geometry.Distance(p1, seg.A) > geometry.Distance(p2, seg.A) {
		p1, p2 = p2, p1
	}
	if geometry.Distance(p1, p2) < geometry.PointTolerance {
		return nil, ErrDegenerateOpening
	}

	q1, idx1, _, ok1 := geometry.ClosestPointOnPath(p1, other, false)
	q2, idx2, _, ok2 := geometry.ClosestPointOnPath(p2, other, false)
	if !ok1 || !ok2 || idx1 > idx2 {
		return nil, ErrInvalidShape
	}

	src1 := append(geometry.Clone(source[:srcIdx+1]), p1)
	src2 := append([]geometry.Point{p2}, source[srcIdx+1:]...)
	oth1 := append(geometry.Clone(other[:idx1+1]), q1)
	oth2 := append([]geometry.Point{q2}, other[idx2+1:]...)

	var first, second models.Room
	var err error
	if onOuter {
		first, err = ribbon(wall, src1, oth1)
		if err == nil {
			second, err = ribbon(wall, src2, oth2)
		}
	} else {
		first, err = ribbon(wall, oth1, src1)
		if err == nil {
			second, err = ribbon(wall, oth2, src2)
		}
	}
	if err != nil {
		return nil, err
	}
	first.Name = pieceName(wall.Name, "A")
	second.Name = pieceName(wall.Name, "B")
	return []models.Room{first, second}, nil
}

// ribbon assembles outer + reverse(inner). Faces that no longer pair up
// vertex by vertex produce a plain wall polygon instead of an open ribbon.
func ribbon(src models.Room, outer, inner []geometry.Point) (models.Room, error) {
	outer = geometry.Dedupe(outer, geometry.PointTolerance, false)
	inner = geometry.Dedupe(inner, geometry.PointTolerance, false)
	pts := append(geometry.Clone(outer), geometry.Reverse(inner)...)
	if len(pts) < 4 || len(outer) < 2 || len(inner) < 2 {
		return models.Room{}, ErrInvalidShape
	}
	w := models.Room{
		IsWall:    true,
		Open:      len(outer) == len(inner),
		Outer:     pts,
		Thickness: src.Thickness,
		Alignment: src.Alignment,
	}
	w.Refresh()
	if w.Area < geometry.Epsilon {
		return models.Room{}, ErrInvalidShape
	}
	return w, nil
}

func pieceName(base, suffix string) string {
	if base == "" {
		return suffix
	}
	return base + " " + suffix
}

// EdgeSegment returns the target edge of the wall.
func EdgeSegment(wall models.Room, target Target) (geometry.Segment, error) {
	path := wall.Path(target.Path)
	if wall.Open {
		path = wall.Outer
	}
	if target.Edge < 0 || target.Edge >= len(path) || len(path) < 2 {
		return geometry.Segment{}, ErrEdgeOutOfRange
	}
	return geometry.Edge(path, target.Edge), nil
}

// OppositePoint projects p, a point on the target edge, onto the other face
// of the wall.
func OppositePoint(wall models.Room, target Target, p geometry.Point) (geometry.Point, error) {
	if !wall.IsWall {
		return geometry.Point{}, ErrNotAWall
	}
	if wall.Open {
		total := len(wall.Outer)
		if total < 4 || total%2 != 0 {
			return geometry.Point{}, ErrInvalidShape
		}
		if target.Edge < 0 || target.Edge >= total {
			return geometry.Point{}, ErrEdgeOutOfRange
		}
		if IsEndCap(target.Edge, total) {
			return geometry.Point{}, ErrEndCap
		}
		n := total / 2
		other := geometry.Reverse(wall.Outer[n:])
		if target.Edge >= n {
			other = wall.Outer[:n]
		}
		q, _, _, _ := geometry.ClosestPointOnPath(p, other, false)
		return q, nil
	}
	idx, err := OpposingEdge(wall, target)
	if err != nil {
		return geometry.Point{}, err
	}
	opp := geometry.Edge(wall.Path(1-target.Path), idx)
	return geometry.ClosestPointOnLine(p, opp.A, opp.B), nil
}
