// Package tool turns pointer events into editor operations. A Session holds
// the in-progress drawing state; the snap engine and the editor stay pure.
package tool

import (
	"errors"

	"floorplanner/internal/planner/dimension"
	"floorplanner/internal/planner/editor"
	"floorplanner/internal/planner/geometry"
	"floorplanner/internal/planner/models"
	"floorplanner/internal/planner/snap"
	"floorplanner/internal/planner/walls"
)

var (
	ErrNoWallEdge      = errors.New("no wall edge under the cursor")
	ErrNothingToFinish = errors.New("nothing to finish")
	ErrNoDirection     = errors.New("no direction for a typed distance")
	ErrBadDistance     = errors.New("distance must be positive")
)

// Action names what a click or finish did.
type Action string

const (
	ActionNone              Action = "none"
	ActionPointAdded        Action = "point_added"
	ActionPolygonFinished   Action = "polygon_finished"
	ActionDimensionStarted  Action = "dimension_started"
	ActionDimensionCreated  Action = "dimension_created"
	ActionExtensionStarted  Action = "extension_started"
	ActionDimensionExtended Action = "dimension_extended"
	ActionGuideStarted      Action = "guideline_started"
	ActionGuidesCreated     Action = "guidelines_created"
	ActionEdgeSelected      Action = "edge_selected"
	ActionOpeningStarted    Action = "opening_started"
	ActionOpeningCut        Action = "opening_cut"
	ActionDoorPlaced        Action = "door_placed"
	ActionCancelled         Action = "cancelled"
)

// Event is the result of a click, finish or typed distance.
type Event struct {
	Action  Action       `json:"action"`
	LayerID string       `json:"layerId,omitempty"`
	IDs     []int        `json:"ids,omitempty"`
	Outcome snap.Outcome `json:"outcome"`
}

// Options configure a new session.
type Options struct {
	Tool         snap.Tool         `json:"tool"`
	LayerID      string            `json:"layerId"`
	Settings     snap.Settings     `json:"settings"`
	Wall         editor.WallParams `json:"wall"`
	DoorWidth    float64           `json:"doorWidth"`
	DoorSwing    models.DoorSwing  `json:"doorSwing"`
	GuideCount   int               `json:"guideCount"`
	GuideSpacing float64           `json:"guideSpacing"`
}

// Session - состояние одного рисования. Не потокобезопасна: вызывающий
// сериализует доступ.
type Session struct {
	ed   *editor.Editor
	opts Options

	points       []geometry.Point
	lockedAxis   snap.Axis
	dimStart     *geometry.Point
	extension    *dimension.Extension
	extLayer     string
	guideStart   *geometry.Point
	edge         *snap.EdgeRef
	openingStart *geometry.Point
	last         snap.Outcome
}

func New(ed *editor.Editor, opts Options) *Session {
	if !opts.Tool.Valid() {
		opts.Tool = snap.ToolSelect
	}
	if opts.GuideCount < 1 {
		opts.GuideCount = 1
	}
	return &Session{ed: ed, opts: opts}
}

func (s *Session) Options() Options { return s.opts }

// SetTool switches the tool and drops any in-progress state.
func (s *Session) SetTool(t snap.Tool) {
	if t.Valid() {
		s.opts.Tool = t
	}
	s.Cancel()
}

// SetSettings replaces the snap settings.
func (s *Session) SetSettings(st snap.Settings) { s.opts.Settings = st }

// State is a read-only view of the session for clients.
type State struct {
	Tool         snap.Tool            `json:"tool"`
	LayerID      string               `json:"layerId"`
	Points       []geometry.Point     `json:"points"`
	LockedAxis   snap.Axis            `json:"lockedAxis"`
	DimStart     *geometry.Point      `json:"dimStart,omitempty"`
	Extension    *dimension.Extension `json:"extension,omitempty"`
	GuideStart   *geometry.Point      `json:"guideStart,omitempty"`
	Edge         *snap.EdgeRef        `json:"edge,omitempty"`
	OpeningStart *geometry.Point      `json:"openingStart,omitempty"`
	Last         snap.Outcome         `json:"last"`
}

func (s *Session) State() State {
	return State{
		Tool:         s.opts.Tool,
		LayerID:      s.opts.LayerID,
		Points:       geometry.Clone(s.points),
		LockedAxis:   s.lockedAxis,
		DimStart:     s.dimStart,
		Extension:    s.extension,
		GuideStart:   s.guideStart,
		Edge:         s.edge,
		OpeningStart: s.openingStart,
		Last:         s.last,
	}
}

// ============================================================
// Snapping
// ============================================================

func (s *Session) anchor() *geometry.Point {
	switch {
	case s.extension != nil:
		o := s.extension.Origin
		return &o
	case s.opts.Tool == snap.ToolRoom || s.opts.Tool == snap.ToolWall:
		if n := len(s.points); n > 0 {
			p := s.points[n-1]
			return &p
		}
	case s.opts.Tool == snap.ToolDimension:
		return s.dimStart
	case s.opts.Tool == snap.ToolGuideline:
		return s.guideStart
	}
	return nil
}

func (s *Session) query(plan *models.Plan, cursor geometry.Point) snap.Query {
	st := s.opts.Settings
	if st.GridSpacing <= 0 {
		st.GridSpacing = plan.GridSpacing
	}
	q := snap.Query{
		Cursor:     cursor,
		Anchor:     s.anchor(),
		Tool:       s.opts.Tool,
		Layers:     plan.Layers,
		Settings:   st,
		LockedAxis: s.lockedAxis,
		Extension:  s.extension,
	}
	if s.opts.Tool == snap.ToolRoom || s.opts.Tool == snap.ToolWall {
		q.Drawing = s.points
	}
	if s.opts.Tool == snap.ToolOpening || s.opts.Tool == snap.ToolDoor {
		q.SelectedEdge = s.edge
	}
	return q
}

// Move resolves the snap for a pointer position and keeps the orthogonal
// lock for the next call.
func (s *Session) Move(plan *models.Plan, cursor geometry.Point) snap.Outcome {
	out := snap.Resolve(s.query(plan, cursor))
	s.lockedAxis = out.LockedAxis
	s.last = out
	return out
}

func (s *Session) hitTolerance(plan *models.Plan) float64 {
	g := s.opts.Settings.GridSpacing
	if g <= 0 {
		g = plan.GridSpacing
	}
	return snap.ThresholdsFor(g).Point
}

// ============================================================
// Clicks
// ============================================================

// Click places the snapped point and performs the tool action.
func (s *Session) Click(plan *models.Plan, cursor geometry.Point) (Event, error) {
	out := s.Move(plan, cursor)
	return s.apply(plan, cursor, out)
}

func (s *Session) apply(plan *models.Plan, cursor geometry.Point, out snap.Outcome) (Event, error) {
	ev := Event{Action: ActionNone, LayerID: s.opts.LayerID, Outcome: out}
	p := out.Point

	switch s.opts.Tool {
	case snap.ToolRoom, snap.ToolWall:
		if out.Snap.ClosesLoop() {
			s.points = append(s.points, p)
			return s.finishPolygon(plan, ev)
		}
		if n := len(s.points); n > 0 && s.points[n-1].Equal(p, geometry.PointTolerance) {
			return ev, nil
		}
		s.points = append(s.points, p)
		ev.Action = ActionPointAdded
		return ev, nil

	case snap.ToolDimension:
		return s.clickDimension(plan, cursor, p, ev)

	case snap.ToolGuideline:
		if s.guideStart == nil {
			s.guideStart = &p
			ev.Action = ActionGuideStarted
			return ev, nil
		}
		ids, err := s.ed.AddGuidelines(plan, s.opts.LayerID, *s.guideStart, p, s.opts.GuideCount, s.opts.GuideSpacing)
		if err != nil {
			return ev, err
		}
		s.guideStart = nil
		ev.Action, ev.IDs = ActionGuidesCreated, ids
		return ev, nil

	case snap.ToolOpening:
		return s.clickOpening(plan, cursor, p, ev)

	case snap.ToolDoor:
		return s.clickDoor(plan, cursor, ev)
	}
	return ev, nil
}

func (s *Session) finishPolygon(plan *models.Plan, ev Event) (Event, error) {
	kind := editor.PolygonRoom
	if s.opts.Tool == snap.ToolWall {
		kind = editor.PolygonWall
	}
	id, err := s.ed.FinishPolygon(plan, s.opts.LayerID, kind, s.points, s.opts.Wall)
	if err != nil {
		// Keep the drawing minus the rejected closing point.
		s.points = s.points[:len(s.points)-1]
		return ev, err
	}
	s.reset()
	ev.Action, ev.IDs = ActionPolygonFinished, []int{id}
	return ev, nil
}

func (s *Session) clickDimension(plan *models.Plan, cursor, p geometry.Point, ev Event) (Event, error) {
	if s.extension != nil {
		ext := *s.extension
		if err := s.ed.ExtendDimension(plan, s.extLayer, ext, p); err != nil {
			return ev, err
		}
		ev.Action, ev.LayerID, ev.IDs = ActionDimensionExtended, s.extLayer, []int{ext.DimensionID}
		// Keep extending from the new end.
		if err := s.beginExtension(plan, s.extLayer, ext.DimensionID, ext.AtStart); err != nil {
			s.extension = nil
		}
		return ev, nil
	}

	if s.dimStart == nil {
		if hit, ok := snap.HitDimensionEnd(plan.Layers, cursor, s.hitTolerance(plan)); ok {
			if err := s.beginExtension(plan, hit.LayerID, hit.DimensionID, hit.Vertex == 0); err != nil {
				return ev, err
			}
			ev.Action, ev.LayerID, ev.IDs = ActionExtensionStarted, hit.LayerID, []int{hit.DimensionID}
			return ev, nil
		}
		s.dimStart = &p
		ev.Action = ActionDimensionStarted
		return ev, nil
	}

	// Сторона выноса берется из положения курсора относительно линии.
	id, err := s.ed.AddDimension(plan, s.opts.LayerID, *s.dimStart, p, dimension.SideOf(*s.dimStart, p, cursor))
	if err != nil {
		return ev, err
	}
	s.dimStart = nil
	ev.Action, ev.IDs = ActionDimensionCreated, []int{id}
	return ev, nil
}

func (s *Session) beginExtension(plan *models.Plan, layerID string, id int, atStart bool) error {
	l, err := plan.Layer(layerID)
	if err != nil {
		return err
	}
	d, err := l.Dimension(id)
	if err != nil {
		return err
	}
	idx := len(d.Points) - 1
	if atStart {
		idx = 0
	}
	ext, err := dimension.BeginExtend(d, idx)
	if err != nil {
		return err
	}
	s.extension, s.extLayer = &ext, layerID
	s.lockedAxis = snap.AxisNone
	return nil
}

func (s *Session) selectEdge(plan *models.Plan, cursor geometry.Point) (snap.EdgeRef, error) {
	e, ok := snap.HitWallEdge(plan.Layers, cursor, s.hitTolerance(plan))
	if !ok {
		return snap.EdgeRef{}, ErrNoWallEdge
	}
	return e, nil
}

func (s *Session) clickOpening(plan *models.Plan, cursor, p geometry.Point, ev Event) (Event, error) {
	if s.edge == nil {
		e, err := s.selectEdge(plan, cursor)
		if err != nil {
			return ev, err
		}
		s.edge = &e
		ev.Action, ev.LayerID, ev.IDs = ActionEdgeSelected, e.LayerID, []int{e.RoomID}
		return ev, nil
	}
	if s.openingStart == nil {
		s.openingStart = &p
		ev.Action, ev.LayerID = ActionOpeningStarted, s.edge.LayerID
		return ev, nil
	}
	e := *s.edge
	ids, err := s.ed.CutOpening(plan, e.LayerID, e.RoomID, walls.Target{Path: e.Path, Edge: e.Edge}, *s.openingStart, p)
	// The edge indices are stale after a cut and meaningless after a failure.
	s.edge, s.openingStart = nil, nil
	if err != nil {
		return ev, err
	}
	ev.Action, ev.LayerID, ev.IDs = ActionOpeningCut, e.LayerID, ids
	return ev, nil
}

func (s *Session) clickDoor(plan *models.Plan, cursor geometry.Point, ev Event) (Event, error) {
	e, err := s.selectEdge(plan, cursor)
	if err != nil {
		return ev, err
	}
	res, err := s.ed.PlaceDoor(plan, e.LayerID, e.RoomID, walls.Target{Path: e.Path, Edge: e.Edge}, cursor, s.opts.DoorWidth, s.opts.DoorSwing)
	if err != nil {
		return ev, err
	}
	ev.Action, ev.LayerID = ActionDoorPlaced, e.LayerID
	ev.IDs = append([]int{res.DoorID}, res.WallIDs...)
	return ev, nil
}

// ============================================================
// Finish / cancel / numeric entry
// ============================================================

// Finish (enter) finalizes an open polyline as a room or an open wall, or
// ends a dimension extension.
func (s *Session) Finish(plan *models.Plan) (Event, error) {
	ev := Event{Action: ActionNone, LayerID: s.opts.LayerID, Outcome: s.last}
	switch {
	case s.extension != nil:
		s.extension = nil
		ev.Action = ActionCancelled
		return ev, nil
	case (s.opts.Tool == snap.ToolRoom || s.opts.Tool == snap.ToolWall) && len(s.points) > 0:
		kind := editor.PolygonRoom
		if s.opts.Tool == snap.ToolWall {
			kind = editor.PolygonWall
		}
		id, err := s.ed.FinishPolygon(plan, s.opts.LayerID, kind, s.points, s.opts.Wall)
		if err != nil {
			return ev, err
		}
		s.reset()
		ev.Action, ev.IDs = ActionPolygonFinished, []int{id}
		return ev, nil
	}
	return ev, ErrNothingToFinish
}

// Cancel (escape) drops all in-progress state.
func (s *Session) Cancel() {
	s.reset()
	s.last = snap.Outcome{}
}

func (s *Session) reset() {
	s.points = nil
	s.lockedAxis = snap.AxisNone
	s.dimStart = nil
	s.extension = nil
	s.extLayer = ""
	s.guideStart = nil
	s.edge = nil
	s.openingStart = nil
}

// PlaceAtDistance places the next point at distance from the anchor along
// the direction of the last resolved pointer position.
func (s *Session) PlaceAtDistance(plan *models.Plan, distance float64) (Event, error) {
	if distance <= 0 {
		return Event{Action: ActionNone, Outcome: s.last}, ErrBadDistance
	}
	a := s.anchor()
	if a == nil {
		return Event{Action: ActionNone, Outcome: s.last}, ErrNoDirection
	}
	dir := s.last.Point.Sub(*a)
	if dir.Length() < geometry.PointTolerance {
		return Event{Action: ActionNone, Outcome: s.last}, ErrNoDirection
	}
	p := a.Add(dir.Normalize().Mul(distance))
	out := snap.Outcome{Point: p, LockedAxis: s.lockedAxis}
	s.last = out
	return s.apply(plan, p, out)
}
