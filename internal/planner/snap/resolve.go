package snap

import (
	"math"

	"floorplanner/internal/planner/geometry"
	"floorplanner/internal/planner/models"
)

type step struct {
	enabled bool
	find    func() *Result
	// fixes marks strategies that pin the direction from the anchor.
	fixes bool
}

// Resolve maps a raw cursor position to the position the user means.
//
// Strategies run in priority order and the first one that finds a candidate
// wins: loop close, intersection, endpoint, midpoint, perpendicular, center,
// room perimeter, parallel, extension, nearest, grid. Afterwards a dimension
// extension, the orthogonal lock or the angle snap may constrain the point
// relative to the anchor.
//
// Resolve is a pure function of q: the same query always gives the same outcome.
func Resolve(q Query) Outcome {
	th := ThresholdsFor(q.Settings.GridSpacing)
	out := Outcome{Point: q.Cursor, LockedAxis: q.LockedAxis}

	if q.SelectedEdge != nil && (q.Tool == ToolOpening || q.Tool == ToolDoor) {
		r := edgeMode(q, th)
		out.Point, out.Snap = r.Point, r
		return out
	}

	if r := closeLoop(q, th); r != nil {
		out.Point, out.Snap = r.Point, r
		return out
	}

	ix := buildIndex(q.Layers)
	p := q.Cursor
	o := q.Settings.Osnap
	anchor := q.Anchor
	hasAnchor := anchor != nil

	steps := []step{
		{enabled: o.Intersection, find: func() *Result { return ix.intersection(p, th) }},
		{enabled: o.Endpoint, find: func() *Result { return ix.endpoint(p, th) }},
		{enabled: o.Midpoint, find: func() *Result { return ix.midpoint(p, th) }},
		{enabled: o.Perpendicular && hasAnchor, find: func() *Result { return ix.perpendicular(p, *anchor, th) }, fixes: true},
		{enabled: o.Center, find: func() *Result { return ix.center(p, th) }},
		{enabled: q.Tool == ToolWall, find: func() *Result { return ix.roomPerimeter(p, th) }},
		{enabled: o.Parallel && hasAnchor && q.Tool.Draws(), find: func() *Result { return ix.parallel(p, *anchor, th) }, fixes: true},
		{enabled: o.Extension, find: func() *Result { return ix.extension(p, th) }},
		{enabled: o.Nearest, find: func() *Result { return ix.nearest(p, th) }},
	}
	for _, s := range steps {
		if !s.enabled {
			continue
		}
		if r := s.find(); r != nil {
			out.Point, out.Snap = r.Point, r
			out.DirectionFixed = s.fixes
			break
		}
	}

	if out.Snap == nil && q.Settings.GridSnap {
		g := geometry.SnapToGrid(p, gridSpacing(q.Settings))
		out.Point, out.Snap = g, &Result{Kind: KindGrid, Point: g}
	}

	if q.Extension != nil {
		out.Point = q.Extension.Constrain(out.Point)
		out.DirectionFixed = true
	}

	if !hasAnchor || out.DirectionFixed {
		return out
	}
	switch {
	case q.Settings.Orthogonal:
		out.Point, out.LockedAxis = orthogonal(*anchor, out.Point, q.LockedAxis)
	case q.Settings.AngleSnap:
		out.Point, out.SnappedAngle = angleSnap(*anchor, out.Point, q.Settings.CustomAngle)
	}
	return out
}

func gridSpacing(s Settings) float64 {
	if s.GridSpacing <= 0 {
		return models.DefaultGridSpacing
	}
	return s.GridSpacing
}

// edgeMode keeps the opening/door cursor on the chosen wall edge.
func edgeMode(q Query, th Thresholds) *Result {
	e := *q.SelectedEdge
	seg := e.Segment
	p := q.Cursor

	if q.Settings.Osnap.Endpoint {
		var best *Result
		bestD := th.Point
		for _, v := range [2]geometry.Point{seg.A, seg.B} {
			if d := geometry.Distance(p, v); d < bestD {
				bestD = d
				best = &Result{Kind: KindEndpoint, Point: v, LayerID: e.LayerID, Related: e}
			}
		}
		if best != nil {
			return best
		}
	}
	if q.Settings.Osnap.Midpoint {
		if m := seg.Midpoint(); geometry.Distance(p, m) < th.Point {
			return &Result{Kind: KindMidpoint, Point: m, LayerID: e.LayerID, Related: e}
		}
	}

	kind := KindSelectedEdge
	if q.Settings.GridSnap {
		p = geometry.SnapToGrid(p, gridSpacing(q.Settings))
		kind = KindGrid
	}
	c, _ := geometry.ClosestPointOnSegment(p, seg.A, seg.B)
	return &Result{Kind: kind, Point: c, LayerID: e.LayerID, Related: e}
}

// orthogonal locks the point to the axis with the larger delta from the
// anchor. On a tie the previous lock is kept.
func orthogonal(anchor, p geometry.Point, locked Axis) (geometry.Point, Axis) {
	dx := math.Abs(p.X - anchor.X)
	dy := math.Abs(p.Y - anchor.Y)
	switch {
	case dx > dy:
		return geometry.Pt(p.X, anchor.Y), AxisHorizontal
	case dy > dx:
		return geometry.Pt(anchor.X, p.Y), AxisVertical
	case locked == AxisVertical:
		return geometry.Pt(anchor.X, p.Y), AxisVertical
	}
	return geometry.Pt(p.X, anchor.Y), AxisHorizontal
}

// angleSnap rotates anchor→p onto the closest snap angle within the
// threshold, preserving the length.
func angleSnap(anchor, p geometry.Point, custom *float64) (geometry.Point, *float64) {
	dist := geometry.Distance(anchor, p)
	if dist < geometry.PointTolerance {
		return p, nil
	}
	targets := SnapAngles()
	if custom != nil && !math.IsNaN(*custom) {
		targets = append(targets, *custom)
	}

	cur := geometry.NormalizeDegrees(geometry.ToDegrees(geometry.Angle(anchor, p)))
	var snapped *float64
	bestDiff := AngleSnapThresholdDeg
	for _, a := range targets {
		diff := math.Abs(cur - geometry.NormalizeDegrees(a))
		if diff > 180 {
			diff = 360 - diff
		}
		if diff < bestDiff {
			bestDiff = diff
			v := a
			snapped = &v
		}
	}
	if snapped == nil {
		return p, nil
	}
	return geometry.Polar(anchor, geometry.ToRadians(*snapped), dist), snapped
}
