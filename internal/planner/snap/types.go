package snap

import (
	"encoding/json"

	"floorplanner/internal/planner/dimension"
	"floorplanner/internal/planner/geometry"
	"floorplanner/internal/planner/models"
)

// ============================================================
// Thresholds
// ============================================================

const (
	PointGridFactor         = 1.5
	ExtensionGridFactor     = 1.2
	PerpendicularGridFactor = 0.75
	IntersectionFactor      = 1.5 // of the point threshold
	CloseFactor             = 2.5 // of the point threshold
	NearestFactor           = 0.75
	ParallelAngleDeg        = 5.0
	AngleSnapThresholdDeg   = 4.0
	AngleSnapStepDeg        = 15.0
	onSegmentFactor         = 0.1
	intersectionOnSegment   = 1e-3
)

// Thresholds are the capture distances of every strategy for one grid spacing.
type Thresholds struct {
	Point         float64
	Intersection  float64
	Close         float64
	Extension     float64
	Perpendicular float64
	Nearest       float64
	ParallelAngle float64 // radians
}

// ThresholdsFor derives all thresholds from the grid spacing.
func ThresholdsFor(grid float64) Thresholds {
	if grid <= 0 {
		grid = models.DefaultGridSpacing
	}
	point := grid * PointGridFactor
	return Thresholds{
		Point:         point,
		Intersection:  point * IntersectionFactor,
		Close:         point * CloseFactor,
		Extension:     grid * ExtensionGridFactor,
		Perpendicular: grid * PerpendicularGridFactor,
		Nearest:       point * NearestFactor,
		ParallelAngle: geometry.ToRadians(ParallelAngleDeg),
	}
}

// SnapAngles lists the angle snap targets in degrees: 0..345 every 15.
func SnapAngles() []float64 {
	out := make([]float64, 0, 24)
	for a := 0.0; a < 360; a += AngleSnapStepDeg {
		out = append(out, a)
	}
	return out
}

// ============================================================
// Request
// ============================================================

type Kind string

const (
	KindEndpoint      Kind = "endpoint"
	KindMidpoint      Kind = "midpoint"
	KindCenter        Kind = "center"
	KindIntersection  Kind = "intersection"
	KindPerpendicular Kind = "perpendicular"
	KindExtension     Kind = "extension"
	KindParallel      Kind = "parallel"
	KindNearest       Kind = "nearest"
	KindGrid          Kind = "grid"
	KindRoomPerimeter Kind = "room_perimeter"
	KindSelectedEdge  Kind = "on_selected_edge"
)

// Tool is the active drafting tool; it changes which strategies run.
type Tool string

const (
	ToolSelect    Tool = "select"
	ToolRoom      Tool = "room"
	ToolWall      Tool = "wall"
	ToolDimension Tool = "dimension"
	ToolGuideline Tool = "guideline"
	ToolOpening   Tool = "opening"
	ToolDoor      Tool = "door"
)

func (t Tool) Valid() bool {
	switch t {
	case ToolSelect, ToolRoom, ToolWall, ToolDimension, ToolGuideline, ToolOpening, ToolDoor:
		return true
	}
	return false
}

// Draws reports whether the tool places points relative to an anchor.
func (t Tool) Draws() bool {
	switch t {
	case ToolRoom, ToolWall, ToolDimension, ToolGuideline:
		return true
	}
	return false
}

// Toggles are the user's object-snap switches.
type Toggles struct {
	Endpoint      bool `json:"endpoint"`
	Midpoint      bool `json:"midpoint"`
	Center        bool `json:"center"`
	Intersection  bool `json:"intersection"`
	Perpendicular bool `json:"perpendicular"`
	Nearest       bool `json:"nearest"`
	Extension     bool `json:"extension"`
	Parallel      bool `json:"parallel"`
}

// AllToggles enables every object snap.
func AllToggles() Toggles {
	return Toggles{true, true, true, true, true, true, true, true}
}

type Settings struct {
	Osnap       Toggles  `json:"osnap"`
	GridSnap    bool     `json:"gridSnap"`
	GridSpacing float64  `json:"gridSpacing"`
	Orthogonal  bool     `json:"orthogonal"`
	AngleSnap   bool     `json:"angleSnap"`
	CustomAngle *float64 `json:"customAngle,omitempty"` // degrees
}

// Axis is the orthogonal lock carried between cursor moves of one drawing.
type Axis string

const (
	AxisNone       Axis = ""
	AxisHorizontal Axis = "H"
	AxisVertical   Axis = "V"
)

// EdgeRef points at one edge of a wall face.
type EdgeRef struct {
	LayerID string           `json:"layerId"`
	RoomID  int              `json:"roomId"`
	Path    models.PathIndex `json:"path"`
	Edge    int              `json:"edge"`
	Segment geometry.Segment `json:"segment"`
}

// Query is everything Resolve needs; it never reads any other state.
type Query struct {
	Cursor geometry.Point
	// Anchor is the previous point of the element being drawn.
	Anchor *geometry.Point
	Tool   Tool
	// Drawing holds the in-progress room/wall polyline.
	Drawing []geometry.Point
	// SelectedEdge switches opening/door tools into edge mode.
	SelectedEdge *EdgeRef
	// Extension constrains the result to a dimension end direction.
	Extension  *dimension.Extension
	Layers     []*models.Layer
	Settings   Settings
	LockedAxis Axis
}

// ============================================================
// Result
// ============================================================

// Related describes the geometry a snap came from.
type Related interface {
	relatedType() string
}

// ElementRef names an entity (and optionally a vertex of one of its paths).
type ElementRef struct {
	Kind   models.ElementKind `json:"kind"`
	ID     int                `json:"id"`
	Path   models.PathIndex   `json:"path"`
	Vertex int                `json:"vertex"`
}

// SegmentRef names a segment of an entity.
type SegmentRef struct {
	Element ElementRef       `json:"element"`
	Index   int              `json:"index"`
	Segment geometry.Segment `json:"segment"`
}

type IntersectionRef struct {
	First  SegmentRef `json:"first"`
	Second SegmentRef `json:"second"`
}

type ParallelRef struct {
	Reference SegmentRef `json:"reference"`
	Angle     float64    `json:"angle"` // radians, snapped direction
}

// LoopClose marks a snap onto the first point of the polyline being drawn.
type LoopClose struct {
	Index int `json:"index"`
}

func (ElementRef) relatedType() string      { return "element" }
func (SegmentRef) relatedType() string      { return "segment" }
func (IntersectionRef) relatedType() string { return "intersection" }
func (ParallelRef) relatedType() string     { return "parallel" }
func (LoopClose) relatedType() string       { return "loop_close" }
func (EdgeRef) relatedType() string         { return "selected_edge" }

type Result struct {
	Kind    Kind
	Point   geometry.Point
	LayerID string
	Related Related
}

// ClosesLoop reports whether the snap closes the polyline being drawn.
func (r *Result) ClosesLoop() bool {
	if r == nil {
		return false
	}
	_, ok := r.Related.(LoopClose)
	return ok
}

func (r Result) MarshalJSON() ([]byte, error) {
	out := struct {
		Kind        Kind           `json:"kind"`
		Point       geometry.Point `json:"point"`
		LayerID     string         `json:"layerId,omitempty"`
		RelatedType string         `json:"relatedType,omitempty"`
		Related     Related        `json:"related,omitempty"`
	}{Kind: r.Kind, Point: r.Point, LayerID: r.LayerID, Related: r.Related}
	if r.Related != nil {
		out.RelatedType = r.Related.relatedType()
	}
	return json.Marshal(out)
}

// Outcome is the resolved cursor position.
type Outcome struct {
	Point geometry.Point `json:"point"`
	Snap  *Result        `json:"snap,omitempty"`
	// LockedAxis is the orthogonal lock to pass into the next query.
	LockedAxis Axis `json:"lockedAxis"`
	// DirectionFixed is set when parallel, perpendicular or a dimension
	// extension fixed the direction from the anchor.
	DirectionFixed bool `json:"directionFixed"`
	// SnappedAngle is the angle snap target in degrees, when one applied.
	SnappedAngle *float64 `json:"snappedAngle,omitempty"`
}
