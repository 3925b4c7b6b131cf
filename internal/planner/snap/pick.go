package snap

import (
	"floorplanner/internal/planner/geometry"
	"floorplanner/internal/planner/models"
)

// HitWallEdge returns the wall face edge nearest to p within tol, searching
// eligible layers only.
func HitWallEdge(layers []*models.Layer, p geometry.Point, tol float64) (EdgeRef, bool) {
	var best EdgeRef
	found := false
	bestD := tol
	for _, l := range layers {
		if l == nil || !l.Eligible() {
			continue
		}
		for _, id := range l.RoomIDs() {
			r := l.Rooms[id]
			if !r.IsWall {
				continue
			}
			for _, pi := range []models.PathIndex{models.PathOuter, models.PathInner} {
				for i, e := range geometry.Edges(r.Path(pi), true) {
					if d := geometry.DistanceToSegment(p, e.A, e.B); d < bestD {
						bestD = d
						best = EdgeRef{LayerID: l.ID, RoomID: id, Path: pi, Edge: i, Segment: e}
						found = true
					}
				}
			}
		}
	}
	return best, found
}

// DimensionVertex identifies a dimension chain point.
type DimensionVertex struct {
	LayerID     string
	DimensionID int
	Vertex      int
}

// HitDimensionEnd returns the first/last chain point nearest to p within tol.
func HitDimensionEnd(layers []*models.Layer, p geometry.Point, tol float64) (DimensionVertex, bool) {
	var best DimensionVertex
	found := false
	bestD := tol
	for _, l := range layers {
		if l == nil || !l.Eligible() {
			continue
		}
		for _, id := range l.DimensionIDs() {
			pts := l.Dimensions[id].Points
			if len(pts) < 2 {
				continue
			}
			for _, v := range []int{0, len(pts) - 1} {
				if d := geometry.Distance(p, pts[v]); d < bestD {
					bestD = d
					best = DimensionVertex{LayerID: l.ID, DimensionID: id, Vertex: v}
					found = true
				}
			}
		}
	}
	return best, found
}
