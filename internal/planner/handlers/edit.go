package handlers

import (
	"github.com/gofiber/fiber/v3"

	"floorplanner/internal/planner/dimension"
	"floorplanner/internal/planner/editor"
	"floorplanner/internal/planner/geometry"
	"floorplanner/internal/planner/models"
	"floorplanner/internal/planner/walls"
)

// layerOf берет слой из тела, затем из ?layerId. Пустой слой = активный.
func layerOf(c fiber.Ctx, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	return c.Query("layerId")
}

// ============================================================
// Polygons, openings, doors
// ============================================================

type polygonRequest struct {
	LayerID string             `json:"layerId"`
	Kind    editor.PolygonKind `json:"kind"`
	Points  []geometry.Point   `json:"points"`
	Wall    editor.WallParams  `json:"wall"`
}

func (h *PlannerHandler) FinishPolygon(c fiber.Ctx) error {
	var req polygonRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, "invalid json")
	}
	if req.Kind != editor.PolygonRoom && req.Kind != editor.PolygonWall {
		return badRequest(c, "kind must be room or wall")
	}
	return h.mutate(c, "finish_polygon", func(p *models.Plan) (any, error) {
		id, err := h.editor.FinishPolygon(p, layerOf(c, req.LayerID), req.Kind, req.Points, req.Wall)
		return fiber.Map{"id": id}, err
	})
}

type openingRequest struct {
	LayerID string         `json:"layerId"`
	WallID  int            `json:"wallId"`
	Target  walls.Target   `json:"target"`
	A       geometry.Point `json:"a"`
	B       geometry.Point `json:"b"`
}

func (h *PlannerHandler) CutOpening(c fiber.Ctx) error {
	var req openingRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, "invalid json")
	}
	return h.mutate(c, "cut_opening", func(p *models.Plan) (any, error) {
		ids, err := h.editor.CutOpening(p, layerOf(c, req.LayerID), req.WallID, req.Target, req.A, req.B)
		return fiber.Map{"wallIds": ids}, err
	})
}

type doorRequest struct {
	LayerID string           `json:"layerId"`
	WallID  int              `json:"wallId"`
	Target  walls.Target     `json:"target"`
	Click   geometry.Point   `json:"click"`
	Width   float64          `json:"width"`
	Swing   models.DoorSwing `json:"swing"`
}

func (h *PlannerHandler) PlaceDoor(c fiber.Ctx) error {
	var req doorRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, "invalid json")
	}
	return h.mutate(c, "place_door", func(p *models.Plan) (any, error) {
		return h.editor.PlaceDoor(p, layerOf(c, req.LayerID), req.WallID, req.Target, req.Click, req.Width, req.Swing)
	})
}

type swingRequest struct {
	LayerID string           `json:"layerId"`
	Swing   models.DoorSwing `json:"swing"`
}

func (h *PlannerHandler) SetDoorSwing(c fiber.Ctx) error {
	doorID, ok := intParam(c, "doorId")
	if !ok {
		return badRequest(c, "invalid door id")
	}
	var req swingRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, "invalid json")
	}
	return h.mutate(c, "door_swing", func(p *models.Plan) (any, error) {
		return nil, h.editor.SetDoorSwing(p, layerOf(c, req.LayerID), doorID, req.Swing)
	})
}

// ============================================================
// Rooms
// ============================================================

type roomRequest struct {
	LayerID string           `json:"layerId"`
	Path    models.PathIndex `json:"path"`
	Edge    int              `json:"edge"`
	Point   geometry.Point   `json:"point"`
	Delta   geometry.Point   `json:"delta"`
	Name    string           `json:"name"`
	I       int              `json:"i"`
	J       int              `json:"j"`
}

// roomOp разбирает :roomId и тело; общая часть всех операций над комнатой.
func (h *PlannerHandler) roomOp(c fiber.Ctx, op string, fn func(p *models.Plan, layerID string, roomID int, req roomRequest) (any, error)) error {
	roomID, ok := intParam(c, "roomId")
	if !ok {
		return badRequest(c, "invalid room id")
	}
	var req roomRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, "invalid json")
	}
	layerID := layerOf(c, req.LayerID)
	return h.mutate(c, op, func(p *models.Plan) (any, error) {
		return fn(p, layerID, roomID, req)
	})
}

func (h *PlannerHandler) SplitRoom(c fiber.Ctx) error {
	return h.roomOp(c, "split_room", func(p *models.Plan, layerID string, roomID int, req roomRequest) (any, error) {
		ids, err := h.editor.SplitRoom(p, layerID, roomID, req.I, req.J)
		return fiber.Map{"roomIds": ids}, err
	})
}

func (h *PlannerHandler) InsertRoomVertex(c fiber.Ctx) error {
	return h.roomOp(c, "insert_room_vertex", func(p *models.Plan, layerID string, roomID int, req roomRequest) (any, error) {
		return nil, h.editor.InsertRoomVertex(p, layerID, roomID, req.Path, req.Edge, req.Point)
	})
}

func (h *PlannerHandler) MoveRoomVertex(c fiber.Ctx) error {
	idx, ok := intParam(c, "idx")
	if !ok {
		return badRequest(c, "invalid vertex index")
	}
	return h.roomOp(c, "move_room_vertex", func(p *models.Plan, layerID string, roomID int, req roomRequest) (any, error) {
		return nil, h.editor.MoveRoomVertex(p, layerID, roomID, req.Path, idx, req.Point)
	})
}

// DeleteRoomVertex берет контур из ?path (0 внешний, 1 внутренний).
func (h *PlannerHandler) DeleteRoomVertex(c fiber.Ctx) error {
	idx, ok := intParam(c, "idx")
	if !ok {
		return badRequest(c, "invalid vertex index")
	}
	path := models.PathIndex(fiber.Query[int](c, "path", 0))
	return h.roomOp(c, "delete_room_vertex", func(p *models.Plan, layerID string, roomID int, _ roomRequest) (any, error) {
		return nil, h.editor.DeleteRoomVertex(p, layerID, roomID, path, idx)
	})
}

func (h *PlannerHandler) MoveRoomEdge(c fiber.Ctx) error {
	edge, ok := intParam(c, "edge")
	if !ok {
		return badRequest(c, "invalid edge index")
	}
	return h.roomOp(c, "move_room_edge", func(p *models.Plan, layerID string, roomID int, req roomRequest) (any, error) {
		return nil, h.editor.MoveRoomEdge(p, layerID, roomID, req.Path, edge, req.Delta)
	})
}

func (h *PlannerHandler) TranslateRoom(c fiber.Ctx) error {
	return h.roomOp(c, "translate_room", func(p *models.Plan, layerID string, roomID int, req roomRequest) (any, error) {
		return nil, h.editor.TranslateRoom(p, layerID, roomID, req.Delta)
	})
}

func (h *PlannerHandler) RenameRoom(c fiber.Ctx) error {
	return h.roomOp(c, "rename_room", func(p *models.Plan, layerID string, roomID int, req roomRequest) (any, error) {
		return nil, h.editor.RenameRoom(p, layerID, roomID, req.Name)
	})
}

// ============================================================
// Dimensions
// ============================================================

type dimensionRequest struct {
	LayerID string          `json:"layerId"`
	Start   geometry.Point  `json:"start"`
	End     geometry.Point  `json:"end"`
	Side    int             `json:"side"`
	Segment int             `json:"segment"`
	Vertex  int             `json:"vertex"`
	Point   geometry.Point  `json:"point"`
	Delta   geometry.Point  `json:"delta"`
	Offset  *float64        `json:"offset"`
	Cursor  *geometry.Point `json:"cursor"`
	Text    string          `json:"text"`
}

func (h *PlannerHandler) AddDimension(c fiber.Ctx) error {
	var req dimensionRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, "invalid json")
	}
	return h.mutate(c, "add_dimension", func(p *models.Plan) (any, error) {
		id, err := h.editor.AddDimension(p, layerOf(c, req.LayerID), req.Start, req.End, req.Side)
		return fiber.Map{"id": id}, err
	})
}

func (h *PlannerHandler) dimensionOp(c fiber.Ctx, op string, fn func(p *models.Plan, layerID string, dimID int, req dimensionRequest) error) error {
	dimID, ok := intParam(c, "dimId")
	if !ok {
		return badRequest(c, "invalid dimension id")
	}
	var req dimensionRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, "invalid json")
	}
	layerID := layerOf(c, req.LayerID)
	return h.mutate(c, op, func(p *models.Plan) (any, error) {
		return nil, fn(p, layerID, dimID, req)
	})
}

func (h *PlannerHandler) InsertDimensionVertex(c fiber.Ctx) error {
	return h.dimensionOp(c, "insert_dimension_vertex", func(p *models.Plan, layerID string, dimID int, req dimensionRequest) error {
		return h.editor.InsertDimensionVertex(p, layerID, dimID, req.Segment, req.Point)
	})
}

func (h *PlannerHandler) MoveDimensionVertex(c fiber.Ctx) error {
	idx, ok := intParam(c, "idx")
	if !ok {
		return badRequest(c, "invalid vertex index")
	}
	return h.dimensionOp(c, "move_dimension_vertex", func(p *models.Plan, layerID string, dimID int, req dimensionRequest) error {
		return h.editor.MoveDimensionVertex(p, layerID, dimID, idx, req.Point)
	})
}

func (h *PlannerHandler) DeleteDimensionVertex(c fiber.Ctx) error {
	idx, ok := intParam(c, "idx")
	if !ok {
		return badRequest(c, "invalid vertex index")
	}
	return h.dimensionOp(c, "delete_dimension_vertex", func(p *models.Plan, layerID string, dimID int, _ dimensionRequest) error {
		return h.editor.DeleteDimensionVertex(p, layerID, dimID, idx)
	})
}

// SetDimensionOffset: с cursor смещение перетаскивается мышью, иначе
// задается offset (null сбрасывает к умолчанию) и side.
func (h *PlannerHandler) SetDimensionOffset(c fiber.Ctx) error {
	return h.dimensionOp(c, "dimension_offset", func(p *models.Plan, layerID string, dimID int, req dimensionRequest) error {
		if req.Cursor != nil {
			return h.editor.DragDimensionOffset(p, layerID, dimID, *req.Cursor)
		}
		return h.editor.SetDimensionOffset(p, layerID, dimID, req.Offset, req.Side)
	})
}

// ExtendDimension продолжает цепочку от крайней вершины vertex к point.
func (h *PlannerHandler) ExtendDimension(c fiber.Ctx) error {
	return h.dimensionOp(c, "extend_dimension", func(p *models.Plan, layerID string, dimID int, req dimensionRequest) error {
		l, err := p.Layer(layerID)
		if layerID == "" {
			l, err = p.Active(), nil
		}
		if err != nil {
			return err
		}
		d, err := l.Dimension(dimID)
		if err != nil {
			return err
		}
		ext, err := dimension.BeginExtend(d, req.Vertex)
		if err != nil {
			return err
		}
		return h.editor.ExtendDimension(p, layerID, ext, req.Point)
	})
}

func (h *PlannerHandler) TranslateDimension(c fiber.Ctx) error {
	return h.dimensionOp(c, "translate_dimension", func(p *models.Plan, layerID string, dimID int, req dimensionRequest) error {
		return h.editor.TranslateDimension(p, layerID, dimID, req.Delta)
	})
}

func (h *PlannerHandler) SetDimensionText(c fiber.Ctx) error {
	return h.dimensionOp(c, "dimension_text", func(p *models.Plan, layerID string, dimID int, req dimensionRequest) error {
		return h.editor.SetDimensionText(p, layerID, dimID, req.Text)
	})
}

// ============================================================
// Guidelines and deletion
// ============================================================

type guidelineRequest struct {
	LayerID string         `json:"layerId"`
	A       geometry.Point `json:"a"`
	B       geometry.Point `json:"b"`
	Count   int            `json:"count"`
	Spacing float64        `json:"spacing"`
}

func (h *PlannerHandler) AddGuidelines(c fiber.Ctx) error {
	var req guidelineRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, "invalid json")
	}
	return h.mutate(c, "add_guidelines", func(p *models.Plan) (any, error) {
		ids, err := h.editor.AddGuidelines(p, layerOf(c, req.LayerID), req.A, req.B, req.Count, req.Spacing)
		return fiber.Map{"ids": ids}, err
	})
}

func (h *PlannerHandler) DeleteElement(c fiber.Ctx) error {
	id, ok := intParam(c, "elemId")
	if !ok {
		return badRequest(c, "invalid element id")
	}
	kind := models.ElementKind(c.Params("kind"))
	switch kind {
	case models.KindRoom, models.KindDimension, models.KindGuideline, models.KindDoor:
	default:
		return badRequest(c, "unknown element kind")
	}
	layerID := c.Query("layerId")
	return h.mutate(c, "delete_"+string(kind), func(p *models.Plan) (any, error) {
		return nil, h.editor.DeleteElement(p, layerID, kind, id)
	})
}
