package models

import (
	"fmt"
	"time"

	"floorplanner/internal/planner/geometry"
)

// ============================================================
// Defaults
// ============================================================

const (
	UnitsPerMeter         = 100.0 // 1 unit = 1 cm
	DefaultWallThickness  = 20.0
	DefaultDoorWidth      = 80.0
	DefaultGridSpacing    = 10.0
	DefaultGuidelineCount = 10
	DefaultGuideDistance  = 100.0
)

// ============================================================
// Geometry primitives
// ============================================================

type Point = geometry.Point

// ============================================================
// Entities
// ============================================================

// Alignment определяет, как толщина стены откладывается от осевой линии.
type Alignment string

const (
	AlignCentered Alignment = "centered"
	AlignExterior Alignment = "exterior"
	AlignInterior Alignment = "interior"
)

// Valid reports whether a is one of the known alignments.
func (a Alignment) Valid() bool {
	switch a {
	case AlignCentered, AlignExterior, AlignInterior:
		return true
	}
	return false
}

// PathIndex selects a face of a room or wall.
type PathIndex int

const (
	PathOuter PathIndex = 0
	PathInner PathIndex = 1
)

// Room is either a plain room polygon or a wall.
//
// Closed walls keep two loops (Outer CCW, Inner CW). Open walls are a single
// ribbon loop in Outer (outer face followed by the reversed inner face) with
// Open set.
type Room struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Outer     []Point   `json:"outer"`
	Inner     []Point   `json:"inner,omitempty"`
	IsWall    bool      `json:"isWall"`
	Open      bool      `json:"open,omitempty"`
	Thickness float64   `json:"thickness,omitempty"`
	Alignment Alignment `json:"alignment,omitempty"`
	Area      float64   `json:"area"`
	Label     *Point    `json:"label,omitempty"`
}

// Path returns the requested face; the inner face may be nil.
func (r Room) Path(idx PathIndex) []Point {
	if idx == PathInner {
		return r.Inner
	}
	return r.Outer
}

// Clone deep-copies the point slices.
func (r Room) Clone() Room {
	c := r
	c.Outer = geometry.Clone(r.Outer)
	c.Inner = geometry.Clone(r.Inner)
	if r.Label != nil {
		l := *r.Label
		c.Label = &l
	}
	return c
}

// Refresh recomputes the derived area and label position.
func (r *Room) Refresh() {
	r.Area = geometry.PolygonArea(r.Outer)
	if len(r.Inner) >= 3 {
		r.Area -= geometry.PolygonArea(r.Inner)
	}
	if r.IsWall || len(r.Outer) < 3 {
		r.Label = nil
		return
	}
	c := geometry.Centroid(r.Outer)
	r.Label = &c
}

// RibbonHalf returns the number of points per face of an open wall ribbon.
func (r Room) RibbonHalf() int {
	if !r.Open {
		return 0
	}
	return len(r.Outer) / 2
}

// DimensionLine is a chain of measured points drawn at an offset.
type DimensionLine struct {
	ID           int      `json:"id"`
	Points       []Point  `json:"points"`
	OffsetSide   int      `json:"offsetSide"` // +1 или -1
	CustomOffset *float64 `json:"customOffset,omitempty"`
	CustomText   string   `json:"customText,omitempty"`
}

func (d DimensionLine) Clone() DimensionLine {
	c := d
	c.Points = geometry.Clone(d.Points)
	if d.CustomOffset != nil {
		o := *d.CustomOffset
		c.CustomOffset = &o
	}
	return c
}

// Guideline is an infinite construction line through A and B.
type Guideline struct {
	ID int   `json:"id"`
	A  Point `json:"a"`
	B  Point `json:"b"`
}

// DoorSwing encodes hinge side and opening direction.
type DoorSwing string

const (
	SwingLeftIn   DoorSwing = "left_in"
	SwingRightIn  DoorSwing = "right_in"
	SwingLeftOut  DoorSwing = "left_out"
	SwingRightOut DoorSwing = "right_out"
)

func (s DoorSwing) Valid() bool {
	switch s {
	case SwingLeftIn, SwingRightIn, SwingLeftOut, SwingRightOut:
		return true
	}
	return false
}

type Door struct {
	ID         int       `json:"id"`
	WallID     int       `json:"wallId,omitempty"`
	Center     Point     `json:"center"`
	Width      float64   `json:"width"`
	Thickness  float64   `json:"thickness"`
	WallVector Point     `json:"wallVector"` // единичный вектор вдоль стены
	Swing      DoorSwing `json:"swing"`
}

// ============================================================
// Plan
// ============================================================

// Plan is the persisted drawing: an ordered list of layers.
type Plan struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Unit        string    `json:"unit"`
	Layers      []*Layer  `json:"layers"`
	ActiveLayer string    `json:"activeLayer"`
	GridSpacing float64   `json:"gridSpacing"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewPlan creates a plan with a single empty layer.
func NewPlan(id, name string, gridSpacing float64) *Plan {
	if gridSpacing <= 0 {
		gridSpacing = DefaultGridSpacing
	}
	base := NewLayer(id+"-base", "Base")
	now := time.Now().UTC()
	return &Plan{
		ID:          id,
		Name:        name,
		Unit:        "cm",
		Layers:      []*Layer{base},
		ActiveLayer: base.ID,
		GridSpacing: gridSpacing,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Layer returns the layer with the given id.
func (p *Plan) Layer(id string) (*Layer, error) {
	for _, l := range p.Layers {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrLayerNotFound, id)
}

// Active returns the active layer, falling back to the first one.
func (p *Plan) Active() *Layer {
	for _, l := range p.Layers {
		if l.ID == p.ActiveLayer {
			return l
		}
	}
	if len(p.Layers) > 0 {
		return p.Layers[0]
	}
	return nil
}

// Eligible returns the visible and unlocked layers in order.
func (p *Plan) Eligible() []*Layer {
	out := make([]*Layer, 0, len(p.Layers))
	for _, l := range p.Layers {
		if l.Eligible() {
			out = append(out, l)
		}
	}
	return out
}

// Normalize fills maps that JSON decoding left nil.
func (p *Plan) Normalize() {
	for _, l := range p.Layers {
		l.ensure()
	}
	if p.GridSpacing <= 0 {
		p.GridSpacing = DefaultGridSpacing
	}
	if p.Unit == "" {
		p.Unit = "cm"
	}
}
