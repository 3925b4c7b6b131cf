package snap

import (
	"math"

	"floorplanner/internal/planner/geometry"
	"floorplanner/internal/planner/models"
)

// Every finder returns the candidate nearest to the cursor within its
// threshold, or nil. Ties keep the first candidate in index order.

func closeLoop(q Query, th Thresholds) *Result {
	if q.Tool != ToolRoom && q.Tool != ToolWall {
		return nil
	}
	if len(q.Drawing) < 2 {
		return nil
	}
	first := q.Drawing[0]
	if geometry.Distance(q.Cursor, first) >= th.Close {
		return nil
	}
	return &Result{Kind: KindEndpoint, Point: first, Related: LoopClose{Index: 0}}
}

func (ix *index) intersection(p geometry.Point, th Thresholds) *Result {
	ids := ix.near(p, th.Intersection, roleEdge|roleSpan)
	var best *Result
	bestD := th.Intersection
	for i := 0; i < len(ids); i++ {
		a := ix.segs[ids[i]]
		for j := i + 1; j < len(ids); j++ {
			b := ix.segs[ids[j]]
			if a.layerID == b.layerID && sameElement(a.ref, b.ref) && a.ref.Element.Kind != models.KindDimension {
				continue
			}
			x, ok := geometry.SegmentIntersection(a.ref.Segment, b.ref.Segment, intersectionOnSegment)
			if !ok {
				continue
			}
			if d := geometry.Distance(p, x); d < bestD {
				bestD = d
				best = &Result{
					Kind:    KindIntersection,
					Point:   x,
					LayerID: a.layerID,
					Related: IntersectionRef{First: a.ref, Second: b.ref},
				}
			}
		}
	}
	return best
}

func (ix *index) endpoint(p geometry.Point, th Thresholds) *Result {
	return nearestPoint(ix.vertices, p, th.Point, KindEndpoint)
}

func (ix *index) center(p geometry.Point, th Thresholds) *Result {
	return nearestPoint(ix.centers, p, th.Point, KindCenter)
}

func nearestPoint(pts []pointEntry, p geometry.Point, limit float64, kind Kind) *Result {
	var best *Result
	bestD := limit
	for _, e := range pts {
		if d := geometry.Distance(p, e.p); d < bestD {
			bestD = d
			best = &Result{Kind: kind, Point: e.p, LayerID: e.layerID, Related: e.ref}
		}
	}
	return best
}

func (ix *index) midpoint(p geometry.Point, th Thresholds) *Result {
	var best *Result
	bestD := th.Point
	for _, id := range ix.near(p, th.Point, roleEdge) {
		s := ix.segs[id]
		if s.cap {
			continue
		}
		m := s.ref.Segment.Midpoint()
		if d := geometry.Distance(p, m); d < bestD {
			bestD = d
			best = &Result{Kind: KindMidpoint, Point: m, LayerID: s.layerID, Related: s.ref}
		}
	}
	return best
}

// perpendicular snaps to the foot of the perpendicular dropped from the
// anchor onto a segment, when the cursor is near that foot.
func (ix *index) perpendicular(p, anchor geometry.Point, th Thresholds) *Result {
	var best *Result
	bestD := th.Perpendicular
	tol := th.Perpendicular * onSegmentFactor
	for _, id := range ix.near(p, th.Perpendicular, roleEdge|roleChain) {
		s := ix.segs[id]
		seg := s.ref.Segment
		foot := geometry.ClosestPointOnLine(anchor, seg.A, seg.B)
		if !geometry.IsPointOnSegment(foot, seg.A, seg.B, tol) {
			continue
		}
		if geometry.Distance(foot, anchor) < geometry.PointTolerance {
			continue
		}
		if d := geometry.Distance(p, foot); d < bestD {
			bestD = d
			best = &Result{Kind: KindPerpendicular, Point: foot, LayerID: s.layerID, Related: s.ref}
		}
	}
	return best
}

// roomPerimeter snaps onto the outline of plain rooms (used by the wall tool).
func (ix *index) roomPerimeter(p geometry.Point, th Thresholds) *Result {
	var best *Result
	bestD := th.Point
	for _, id := range ix.near(p, th.Point, roleEdge) {
		s := ix.segs[id]
		if s.wall || s.ref.Element.Path != models.PathOuter {
			continue
		}
		c, d := geometry.ClosestPointOnSegment(p, s.ref.Segment.A, s.ref.Segment.B)
		if d < bestD {
			bestD = d
			best = &Result{Kind: KindRoomPerimeter, Point: c, LayerID: s.layerID, Related: s.ref}
		}
	}
	return best
}

// parallel keeps the anchor→cursor length and snaps the direction to the
// nearest reference segment direction (either sense) within the angle threshold.
func (ix *index) parallel(p, anchor geometry.Point, th Thresholds) *Result {
	length := geometry.Distance(anchor, p)
	if length < geometry.PointTolerance {
		return nil
	}
	cursorAngle := geometry.Angle(anchor, p)

	var best *Result
	bestDiff := th.ParallelAngle
	for _, id := range ix.all(roleEdge | roleSpan) {
		s := ix.segs[id]
		ref := s.ref.Segment.Angle()
		for _, cand := range [2]float64{ref, ref + math.Pi} {
			if diff := geometry.AngleDiff(cursorAngle, cand); diff < bestDiff {
				bestDiff = diff
				best = &Result{
					Kind:    KindParallel,
					Point:   geometry.Polar(anchor, cand, length),
					LayerID: s.layerID,
					Related: ParallelRef{Reference: s.ref, Angle: cand},
				}
			}
		}
	}
	return best
}

// extension snaps onto the infinite continuation of a segment, but only
// outside the segment itself.
func (ix *index) extension(p geometry.Point, th Thresholds) *Result {
	var best *Result
	bestD := th.Extension
	tol := th.Extension * onSegmentFactor
	for _, id := range ix.all(roleEdge | roleSpan) {
		s := ix.segs[id]
		seg := s.ref.Segment
		foot := geometry.ClosestPointOnLine(p, seg.A, seg.B)
		d := geometry.Distance(p, foot)
		if d >= bestD || geometry.IsPointOnSegment(foot, seg.A, seg.B, tol) {
			continue
		}
		bestD = d
		best = &Result{Kind: KindExtension, Point: foot, LayerID: s.layerID, Related: s.ref}
	}
	return best
}

func (ix *index) nearest(p geometry.Point, th Thresholds) *Result {
	var best *Result
	bestD := th.Nearest
	for _, id := range ix.near(p, th.Nearest, roleEdge|roleChain) {
		s := ix.segs[id]
		c, d := geometry.ClosestPointOnSegment(p, s.ref.Segment.A, s.ref.Segment.B)
		if d < bestD {
			bestD = d
			best = &Result{Kind: KindNearest, Point: c, LayerID: s.layerID, Related: s.ref}
		}
	}
	return best
}
