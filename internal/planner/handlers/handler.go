package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"floorplanner/internal/planner/dimension"
	"floorplanner/internal/planner/editor"
	"floorplanner/internal/planner/metrics"
	"floorplanner/internal/planner/models"
	"floorplanner/internal/planner/service"
	"floorplanner/internal/planner/store"
	"floorplanner/internal/planner/tool"
	"floorplanner/internal/planner/walls"
)

// ============================================================
// Planner Handler
// ============================================================

type PlannerHandler struct {
	plans    *service.Plans
	sessions *service.SessionManager
	editor   *editor.Editor
	metrics  *metrics.Metrics
}

func NewPlannerHandler(plans *service.Plans, sessions *service.SessionManager, ed *editor.Editor, m *metrics.Metrics) *PlannerHandler {
	return &PlannerHandler{
		plans:    plans,
		sessions: sessions,
		editor:   ed,
		metrics:  m,
	}
}

// Register вешает все маршруты планировщика на app.
func Register(app *fiber.App, h *PlannerHandler) {
	app.Get("/health/live", LivenessProbe)
	app.Get("/health/ready", h.ReadinessProbe)
	app.Get("/health/startup", StartupProbe)
	app.Get("/metrics", h.metrics.Handler())

	app.Post("/snap", h.Snap)

	app.Get("/plans", h.ListPlans)
	app.Post("/plans", h.CreatePlan)
	app.Post("/plans/import", h.ImportSVG)
	app.Get("/plans/:id", h.GetPlan)
	app.Delete("/plans/:id", h.DeletePlan)
	app.Get("/plans/:id/svg", h.GetSVG)

	app.Post("/plans/:id/layers", h.AddLayer)
	app.Post("/plans/:id/layers/:layerId/:action", h.LayerAction)

	app.Post("/plans/:id/polygons", h.FinishPolygon)
	app.Post("/plans/:id/openings", h.CutOpening)
	app.Post("/plans/:id/doors", h.PlaceDoor)
	app.Put("/plans/:id/doors/:doorId/swing", h.SetDoorSwing)

	app.Post("/plans/:id/rooms/:roomId/split", h.SplitRoom)
	app.Post("/plans/:id/rooms/:roomId/vertices", h.InsertRoomVertex)
	app.Put("/plans/:id/rooms/:roomId/vertices/:idx", h.MoveRoomVertex)
	app.Delete("/plans/:id/rooms/:roomId/vertices/:idx", h.DeleteRoomVertex)
	app.Post("/plans/:id/rooms/:roomId/edges/:edge/move", h.MoveRoomEdge)
	app.Post("/plans/:id/rooms/:roomId/translate", h.TranslateRoom)
	app.Put("/plans/:id/rooms/:roomId/name", h.RenameRoom)

	app.Post("/plans/:id/dimensions", h.AddDimension)
	app.Post("/plans/:id/dimensions/:dimId/vertices", h.InsertDimensionVertex)
	app.Put("/plans/:id/dimensions/:dimId/vertices/:idx", h.MoveDimensionVertex)
	app.Delete("/plans/:id/dimensions/:dimId/vertices/:idx", h.DeleteDimensionVertex)
	app.Put("/plans/:id/dimensions/:dimId/offset", h.SetDimensionOffset)
	app.Post("/plans/:id/dimensions/:dimId/extend", h.ExtendDimension)
	app.Post("/plans/:id/dimensions/:dimId/translate", h.TranslateDimension)
	app.Put("/plans/:id/dimensions/:dimId/text", h.SetDimensionText)

	app.Post("/plans/:id/guidelines", h.AddGuidelines)
	app.Delete("/plans/:id/elements/:kind/:elemId", h.DeleteElement)

	app.Post("/plans/:id/sessions", h.OpenSession)
	app.Get("/sessions/:token", h.SessionState)
	app.Post("/sessions/:token/move", h.SessionMove)
	app.Post("/sessions/:token/click", h.SessionClick)
	app.Post("/sessions/:token/finish", h.SessionFinish)
	app.Post("/sessions/:token/cancel", h.SessionCancel)
	app.Post("/sessions/:token/distance", h.SessionDistance)
	app.Put("/sessions/:token/tool", h.SessionTool)
	app.Put("/sessions/:token/settings", h.SessionSettings)
	app.Delete("/sessions/:token", h.CloseSession)
}

// ============================================================
// Helpers
// ============================================================

// statusFor переводит ошибки ядра в HTTP-коды.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, models.ErrLayerNotFound),
		errors.Is(err, models.ErrElementNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrLayerLocked):
		return http.StatusConflict
	case errors.Is(err, walls.ErrTooFewPoints),
		errors.Is(err, walls.ErrNotAWall),
		errors.Is(err, walls.ErrNoOpposingFace),
		errors.Is(err, walls.ErrEndCap),
		errors.Is(err, walls.ErrInvalidShape),
		errors.Is(err, walls.ErrEdgeOutOfRange),
		errors.Is(err, walls.ErrDegenerateOpening),
		errors.Is(err, editor.ErrTooFewRoomPoints),
		errors.Is(err, editor.ErrMinRoomVertices),
		errors.Is(err, editor.ErrSplitVertices),
		errors.Is(err, editor.ErrSplitWall),
		errors.Is(err, editor.ErrOpenWallVertices),
		errors.Is(err, editor.ErrVertexRange),
		errors.Is(err, editor.ErrDoorTooWide),
		errors.Is(err, editor.ErrInvalidSwing),
		errors.Is(err, editor.ErrLastLayer),
		errors.Is(err, dimension.ErrTooShort),
		errors.Is(err, dimension.ErrMinVertices),
		errors.Is(err, dimension.ErrNotEndVertex),
		errors.Is(err, dimension.ErrVertexRange),
		errors.Is(err, dimension.ErrSegmentRange),
		errors.Is(err, dimension.ErrNegativeOffset),
		errors.Is(err, tool.ErrNoWallEdge),
		errors.Is(err, tool.ErrNothingToFinish),
		errors.Is(err, tool.ErrNoDirection),
		errors.Is(err, tool.ErrBadDistance):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func fail(c fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// decode читает JSON-тело запроса. Пустое тело допустимо и оставляет v как есть.
func decode(c fiber.Ctx, v any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return json.Unmarshal(c.Body(), v)
}

func intParam(c fiber.Ctx, name string) (int, bool) {
	v, err := strconv.Atoi(c.Params(name))
	return v, err == nil
}

// mutate выполняет правку плана под блокировкой плана, сохраняет результат
// и отвечает {"result": ..., "plan": ...}.
func (h *PlannerHandler) mutate(c fiber.Ctx, op string, fn func(p *models.Plan) (any, error)) error {
	id := c.Params("id")
	var result any
	plan, err := h.plans.Update(c.Context(), id, func(p *models.Plan) error {
		var err error
		result, err = fn(p)
		return err
	})
	h.metrics.ObserveOperation(op, err)
	if err != nil {
		log.Printf("[PLANS] %s on %s failed: %v", op, id, err)
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"result": result, "plan": plan})
}
