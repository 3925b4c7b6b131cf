package snap

import (
	"sort"

	"github.com/peterstace/simplefeatures/rtree"

	"floorplanner/internal/planner/dimension"
	"floorplanner/internal/planner/geometry"
	"floorplanner/internal/planner/models"
)

type role uint8

const (
	roleEdge  role = 1 << iota // face edge of a room or wall
	roleSpan                   // first→last line of a dimension chain
	roleChain                  // single dimension segment
)

type segEntry struct {
	layerID string
	ref     SegmentRef
	role    role
	wall    bool
	cap     bool // end cap of an open wall ribbon
}

type pointEntry struct {
	layerID string
	ref     ElementRef
	p       geometry.Point
}

// index is a snapshot of the snappable geometry of the eligible layers.
// Segments are bulk-loaded into an R-tree so distance-limited strategies
// only look at segments near the cursor.
type index struct {
	segs     []segEntry
	vertices []pointEntry
	centers  []pointEntry
	tree     *rtree.RTree
}

func buildIndex(layers []*models.Layer) *index {
	ix := &index{}
	for _, l := range layers {
		if l == nil || !l.Eligible() {
			continue
		}
		for _, id := range l.RoomIDs() {
			ix.addRoom(l.ID, l.Rooms[id])
		}
		for _, id := range l.DimensionIDs() {
			ix.addDimension(l.ID, l.Dimensions[id])
		}
	}

	items := make([]rtree.BulkItem, len(ix.segs))
	for i, s := range ix.segs {
		items[i] = rtree.BulkItem{Box: segBox(s.ref.Segment), RecordID: i}
	}
	ix.tree = rtree.BulkLoad(items)
	return ix
}

func (ix *index) addRoom(layerID string, r models.Room) {
	paths := []models.PathIndex{models.PathOuter}
	if len(r.Inner) > 0 {
		paths = append(paths, models.PathInner)
	}
	for _, pi := range paths {
		pts := r.Path(pi)
		for v, p := range pts {
			ix.vertices = append(ix.vertices, pointEntry{
				layerID: layerID,
				ref:     ElementRef{Kind: models.KindRoom, ID: r.ID, Path: pi, Vertex: v},
				p:       p,
			})
		}
		// Контур ленты открыт: замыкающий торец у начала стены не индексируется.
		ribbon := r.Open && pi == models.PathOuter
		for i, e := range geometry.Edges(pts, !ribbon) {
			if e.Degenerate() {
				continue
			}
			ix.segs = append(ix.segs, segEntry{
				layerID: layerID,
				ref: SegmentRef{
					Element: ElementRef{Kind: models.KindRoom, ID: r.ID, Path: pi, Vertex: i},
					Index:   i,
					Segment: e,
				},
				role: roleEdge,
				wall: r.IsWall,
				cap:  ribbon && isRibbonCap(i, len(pts)),
			})
		}
	}

	if !r.IsWall && len(r.Outer) >= 3 {
		c := geometry.Centroid(r.Outer)
		if r.Label != nil {
			c = *r.Label
		}
		ix.centers = append(ix.centers, pointEntry{
			layerID: layerID,
			ref:     ElementRef{Kind: models.KindRoom, ID: r.ID, Vertex: -1},
			p:       c,
		})
	}
}

func isRibbonCap(edge, total int) bool {
	if total < 4 || total%2 != 0 {
		return false
	}
	n := total / 2
	return edge == n-1 || edge == total-1
}

func (ix *index) addDimension(layerID string, d models.DimensionLine) {
	for v, p := range d.Points {
		ix.vertices = append(ix.vertices, pointEntry{
			layerID: layerID,
			ref:     ElementRef{Kind: models.KindDimension, ID: d.ID, Vertex: v},
			p:       p,
		})
	}
	elem := ElementRef{Kind: models.KindDimension, ID: d.ID, Vertex: -1}
	if span, ok := dimension.Span(d); ok && !span.Degenerate() {
		ix.segs = append(ix.segs, segEntry{
			layerID: layerID,
			ref:     SegmentRef{Element: elem, Index: -1, Segment: span},
			role:    roleSpan,
		})
	}
	for i, s := range dimension.Segments(d) {
		if s.Degenerate() {
			continue
		}
		ix.segs = append(ix.segs, segEntry{
			layerID: layerID,
			ref:     SegmentRef{Element: elem, Index: i, Segment: s},
			role:    roleChain,
		})
	}
}

// near returns, in ascending order, the segments whose bounding box comes
// within r of p and whose role matches mask.
func (ix *index) near(p geometry.Point, r float64, mask role) []int {
	box := rtree.Box{MinX: p.X - r, MinY: p.Y - r, MaxX: p.X + r, MaxY: p.Y + r}
	var out []int
	_ = ix.tree.RangeSearch(box, func(id int) error {
		if ix.segs[id].role&mask != 0 {
			out = append(out, id)
		}
		return nil
	})
	sort.Ints(out)
	return out
}

// all returns every segment matching mask, in insertion order.
func (ix *index) all(mask role) []int {
	var out []int
	for i, s := range ix.segs {
		if s.role&mask != 0 {
			out = append(out, i)
		}
	}
	return out
}

func segBox(s geometry.Segment) rtree.Box {
	r, _ := geometry.Bounds(s.A, s.B)
	return rtree.Box{MinX: r.Min.X, MinY: r.Min.Y, MaxX: r.Max.X, MaxY: r.Max.Y}
}

// sameElement: both segments belong to the same entity (either face).
func sameElement(a, b SegmentRef) bool {
	return a.Element.Kind == b.Element.Kind && a.Element.ID == b.Element.ID
}
