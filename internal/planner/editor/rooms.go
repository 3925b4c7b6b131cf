package editor

import (
	"floorplanner/internal/planner/geometry"
	"floorplanner/internal/planner/models"
)

// SplitRoom делит комнату по диагонали между двумя несмежными вершинами.
func (e *Editor) SplitRoom(plan *models.Plan, layerID string, roomID, i, j int) ([]int, error) {
	l, err := editable(plan, layerID)
	if err != nil {
		return nil, err
	}
	r, err := l.Room(roomID)
	if err != nil {
		return nil, err
	}
	if r.IsWall {
		return nil, ErrSplitWall
	}
	n := len(r.Outer)
	if i < 0 || j < 0 || i >= n || j >= n {
		return nil, ErrVertexRange
	}
	if i == j || geometry.Next(i, n) == j || geometry.Next(j, n) == i {
		return nil, ErrSplitVertices
	}
	if i > j {
		i, j = j, i
	}

	a := geometry.Clone(r.Outer[i : j+1])
	b := append(geometry.Clone(r.Outer[j:]), r.Outer[:i+1]...)

	first := models.Room{Name: r.Name + " A", Outer: a}
	second := models.Room{Name: r.Name + " B", Outer: b}
	first.Refresh()
	second.Refresh()
	return l.ReplaceRoom(roomID, first, second)
}

// editRoom loads a room, applies fn to a copy and stores the result.
func editRoom(plan *models.Plan, layerID string, roomID int, fn func(r *models.Room) error) error {
	l, err := editable(plan, layerID)
	if err != nil {
		return err
	}
	r, err := l.Room(roomID)
	if err != nil {
		return err
	}
	c := r.Clone()
	if err := fn(&c); err != nil {
		return err
	}
	c.Refresh()
	return l.PutRoom(c)
}

func pathRef(r *models.Room, path models.PathIndex) (*[]geometry.Point, error) {
	if r.Open {
		return nil, ErrOpenWallVertices
	}
	if path == models.PathInner {
		if len(r.Inner) == 0 {
			return nil, ErrVertexRange
		}
		return &r.Inner, nil
	}
	return &r.Outer, nil
}

// InsertRoomVertex вставляет вершину p после начала ребра edge.
func (e *Editor) InsertRoomVertex(plan *models.Plan, layerID string, roomID int, path models.PathIndex, edge int, p geometry.Point) error {
	return editRoom(plan, layerID, roomID, func(r *models.Room) error {
		pts, err := pathRef(r, path)
		if err != nil {
			return err
		}
		if edge < 0 || edge >= len(*pts) {
			return ErrVertexRange
		}
		out := make([]geometry.Point, 0, len(*pts)+1)
		out = append(out, (*pts)[:edge+1]...)
		out = append(out, p)
		*pts = append(out, (*pts)[edge+1:]...)
		return nil
	})
}

// DeleteRoomVertex удаляет вершину; полигон не может стать меньше треугольника.
func (e *Editor) DeleteRoomVertex(plan *models.Plan, layerID string, roomID int, path models.PathIndex, idx int) error {
	return editRoom(plan, layerID, roomID, func(r *models.Room) error {
		pts, err := pathRef(r, path)
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(*pts) {
			return ErrVertexRange
		}
		if len(*pts) <= 3 {
			return ErrMinRoomVertices
		}
		out := make([]geometry.Point, 0, len(*pts)-1)
		out = append(out, (*pts)[:idx]...)
		*pts = append(out, (*pts)[idx+1:]...)
		return nil
	})
}

// MoveRoomVertex переносит вершину в точку p.
func (e *Editor) MoveRoomVertex(plan *models.Plan, layerID string, roomID int, path models.PathIndex, idx int, p geometry.Point) error {
	return editRoom(plan, layerID, roomID, func(r *models.Room) error {
		pts, err := pathRef(r, path)
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(*pts) {
			return ErrVertexRange
		}
		(*pts)[idx] = p
		return nil
	})
}

// MoveRoomEdge сдвигает обе вершины ребра на delta.
func (e *Editor) MoveRoomEdge(plan *models.Plan, layerID string, roomID int, path models.PathIndex, edge int, delta geometry.Point) error {
	return editRoom(plan, layerID, roomID, func(r *models.Room) error {
		pts, err := pathRef(r, path)
		if err != nil {
			return err
		}
		n := len(*pts)
		if edge < 0 || edge >= n {
			return ErrVertexRange
		}
		(*pts)[edge] = (*pts)[edge].Add(delta)
		next := geometry.Next(edge, n)
		(*pts)[next] = (*pts)[next].Add(delta)
		return nil
	})
}

// TranslateRoom сдвигает комнату или стену целиком.
func (e *Editor) TranslateRoom(plan *models.Plan, layerID string, roomID int, delta geometry.Point) error {
	return editRoom(plan, layerID, roomID, func(r *models.Room) error {
		r.Outer = geometry.Translate(r.Outer, delta)
		if r.Inner != nil {
			r.Inner = geometry.Translate(r.Inner, delta)
		}
		return nil
	})
}

// RenameRoom задает имя комнаты.
func (e *Editor) RenameRoom(plan *models.Plan, layerID string, roomID int, name string) error {
	return editRoom(plan, layerID, roomID, func(r *models.Room) error {
		r.Name = name
		return nil
	})
}
