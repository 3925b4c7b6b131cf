// Package editor applies drafting operations to a plan. Every operation
// validates first and writes last, so a failed call leaves the plan as it was.
package editor

import (
	"errors"
	"fmt"

	"floorplanner/internal/planner/geometry"
	"floorplanner/internal/planner/models"
	"floorplanner/internal/planner/walls"
)

var (
	ErrTooFewRoomPoints = errors.New("room needs at least three points")
	ErrMinRoomVertices  = errors.New("polygon cannot lose more vertices")
	ErrSplitVertices    = errors.New("split vertices must be distinct and not adjacent")
	ErrSplitWall        = errors.New("walls cannot be split")
	ErrOpenWallVertices = errors.New("open wall vertices cannot be edited one by one")
	ErrVertexRange      = errors.New("vertex index out of range")
	ErrDoorTooWide      = errors.New("door is wider than the wall edge")
	ErrInvalidSwing     = errors.New("unknown door swing")
	ErrLastLayer        = errors.New("plan must keep at least one layer")
)

// Defaults - значения, которые подставляются, когда клиент их не передал.
type Defaults struct {
	WallThickness  float64
	WallAlignment  models.Alignment
	DoorWidth      float64
	CloseTolerance float64
}

type Editor struct {
	defaults Defaults
}

func New(d Defaults) *Editor {
	if d.WallThickness <= 0 {
		d.WallThickness = models.DefaultWallThickness
	}
	if !d.WallAlignment.Valid() {
		d.WallAlignment = models.AlignCentered
	}
	if d.DoorWidth <= 0 {
		d.DoorWidth = models.DefaultDoorWidth
	}
	return &Editor{defaults: d}
}

func (e *Editor) Defaults() Defaults {
	return e.defaults
}

func editable(plan *models.Plan, layerID string) (*models.Layer, error) {
	if layerID == "" {
		layerID = plan.ActiveLayer
	}
	l, err := plan.Layer(layerID)
	if err != nil {
		return nil, err
	}
	if err := l.CheckEditable(); err != nil {
		return nil, err
	}
	return l, nil
}

// ============================================================
// Polygons
// ============================================================

// PolygonKind - что получится из нарисованной ломаной.
type PolygonKind string

const (
	PolygonRoom PolygonKind = "room"
	PolygonWall PolygonKind = "wall"
)

// WallParams переопределяют умолчания для одной стены.
type WallParams struct {
	Thickness float64          `json:"thickness"`
	Alignment models.Alignment `json:"alignment"`
}

// FinishPolygon завершает нарисованную ломаную как комнату или стену.
func (e *Editor) FinishPolygon(plan *models.Plan, layerID string, kind PolygonKind, points []geometry.Point, wp WallParams) (int, error) {
	l, err := editable(plan, layerID)
	if err != nil {
		return 0, err
	}

	switch kind {
	case PolygonWall:
		opts := walls.Options{
			Thickness:      wp.Thickness,
			Alignment:      wp.Alignment,
			CloseTolerance: e.closeTolerance(plan),
		}
		if opts.Thickness <= 0 {
			opts.Thickness = e.defaults.WallThickness
		}
		if !opts.Alignment.Valid() {
			opts.Alignment = e.defaults.WallAlignment
		}
		w, err := walls.Build(points, opts)
		if err != nil {
			return 0, err
		}
		w.Name = fmt.Sprintf("Wall %d", l.NextRoomID)
		return l.AddRoom(w), nil

	case PolygonRoom:
		// Замыкающая точка совпадает с первой (close-snap ставит ее точно).
		pts := geometry.Dedupe(points, geometry.PointTolerance, true)
		if len(pts) < 3 {
			return 0, ErrTooFewRoomPoints
		}
		r := models.Room{
			Name:  fmt.Sprintf("Room %d", l.NextRoomID),
			Outer: geometry.EnsureCCW(pts),
		}
		r.Refresh()
		return l.AddRoom(r), nil
	}
	return 0, fmt.Errorf("unknown polygon kind %q", kind)
}

func (e *Editor) closeTolerance(plan *models.Plan) float64 {
	if e.defaults.CloseTolerance > 0 {
		return e.defaults.CloseTolerance
	}
	// Same radius the snap resolver uses for closing a loop.
	return plan.GridSpacing * 1.5 * 2.5
}

// ============================================================
// Openings and doors
// ============================================================

// CutOpening вырезает проем в стене и заменяет ее результатом разреза.
func (e *Editor) CutOpening(plan *models.Plan, layerID string, wallID int, target walls.Target, a, b geometry.Point) ([]int, error) {
	l, err := editable(plan, layerID)
	if err != nil {
		return nil, err
	}
	w, err := l.Room(wallID)
	if err != nil {
		return nil, err
	}
	pieces, err := walls.Cut(w, target, a, b)
	if err != nil {
		return nil, err
	}
	return l.ReplaceRoom(wallID, pieces...)
}

// DoorResult describes a placed door and the walls left after the cut.
type DoorResult struct {
	DoorID  int   `json:"doorId"`
	WallIDs []int `json:"wallIds"`
}

// PlaceDoor ставит дверь шириной width по центру клика на ребре стены.
// Дверь сдвигается вдоль ребра так, чтобы целиком поместиться на нем.
func (e *Editor) PlaceDoor(plan *models.Plan, layerID string, wallID int, target walls.Target, click geometry.Point, width float64, swing models.DoorSwing) (DoorResult, error) {
	l, err := editable(plan, layerID)
	if err != nil {
		return DoorResult{}, err
	}
	w, err := l.Room(wallID)
	if err != nil {
		return DoorResult{}, err
	}
	if !w.IsWall {
		return DoorResult{}, walls.ErrNotAWall
	}
	if width <= 0 {
		width = e.defaults.DoorWidth
	}
	if swing == "" {
		swing = models.SwingRightIn
	}
	if !swing.Valid() {
		return DoorResult{}, ErrInvalidSwing
	}

	seg, err := walls.EdgeSegment(w, target)
	if err != nil {
		return DoorResult{}, err
	}
	length := seg.Length()
	if length < width {
		return DoorResult{}, ErrDoorTooWide
	}
	dir := seg.Direction().Normalize()
	half := width / 2
	along := geometry.ProjectParam(click, seg.A, seg.B) * length
	along = clamp(along, half, length-half)
	center := seg.A.Add(dir.Mul(along))

	opposite, err := walls.OppositePoint(w, target, center)
	if err != nil {
		return DoorResult{}, err
	}
	pieces, err := walls.Cut(w, target, center.Sub(dir.Mul(half)), center.Add(dir.Mul(half)))
	if err != nil {
		return DoorResult{}, err
	}
	ids, err := l.ReplaceRoom(wallID, pieces...)
	if err != nil {
		return DoorResult{}, err
	}

	door := models.Door{
		Center:     geometry.Midpoint(center, opposite),
		Width:      width,
		Thickness:  geometry.Distance(center, opposite),
		WallVector: dir,
		Swing:      swing,
	}
	if len(ids) == 1 {
		door.WallID = ids[0]
	}
	return DoorResult{DoorID: l.AddDoor(door), WallIDs: ids}, nil
}

// SetDoorSwing меняет сторону открывания двери.
func (e *Editor) SetDoorSwing(plan *models.Plan, layerID string, doorID int, swing models.DoorSwing) error {
	if !swing.Valid() {
		return ErrInvalidSwing
	}
	l, err := editable(plan, layerID)
	if err != nil {
		return err
	}
	d, err := l.Door(doorID)
	if err != nil {
		return err
	}
	d.Swing = swing
	l.Doors[doorID] = d
	return nil
}

// DeleteElement удаляет элемент слоя. Двери, привязанные к удаленной стене,
// удаляются вместе с ней.
func (e *Editor) DeleteElement(plan *models.Plan, layerID string, kind models.ElementKind, id int) error {
	l, err := editable(plan, layerID)
	if err != nil {
		return err
	}
	if err := l.Remove(kind, id); err != nil {
		return err
	}
	if kind == models.KindRoom {
		for _, did := range l.DoorIDs() {
			if l.Doors[did].WallID == id {
				delete(l.Doors, did)
			}
		}
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
