package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v3"

	"floorplanner/internal/planner/editor"
	"floorplanner/internal/planner/models"
	"floorplanner/internal/planner/parser"
	"floorplanner/internal/planner/render"
)

// ============================================================
// Plans
// ============================================================

type createPlanRequest struct {
	Name        string  `json:"name"`
	GridSpacing float64 `json:"gridSpacing"`
}

func (h *PlannerHandler) CreatePlan(c fiber.Ctx) error {
	var req createPlanRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, "invalid json")
	}
	plan, err := h.plans.Create(c.Context(), req.Name, req.GridSpacing)
	if err != nil {
		log.Printf("[PLANS] create failed: %v", err)
		return fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(plan)
}

func (h *PlannerHandler) ListPlans(c fiber.Ctx) error {
	list, err := h.plans.List(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

func (h *PlannerHandler) GetPlan(c fiber.Ctx) error {
	plan, err := h.plans.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(plan)
}

func (h *PlannerHandler) DeletePlan(c fiber.Ctx) error {
	id := c.Params("id")
	if err := h.plans.Delete(c.Context(), id); err != nil {
		return fail(c, err)
	}
	if n := h.sessions.CloseForPlan(id); n > 0 {
		log.Printf("[SESSION] closed %d sessions of deleted plan %s", n, id)
		for i := 0; i < n; i++ {
			h.metrics.SessionClosed()
		}
	}
	return c.SendStatus(http.StatusNoContent)
}

// GetSVG отдает план как SVG; ?hidden=true рисует и скрытые слои.
func (h *PlannerHandler) GetSVG(c fiber.Ctx) error {
	plan, err := h.plans.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	svg, err := render.Render(plan, render.Options{IncludeHidden: c.Query("hidden") == "true"})
	if err != nil {
		return fail(c, err)
	}
	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}

// ImportSVG создает план из SVG, загруженного в multipart/form-data (поле file).
func (h *PlannerHandler) ImportSVG(c fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		log.Printf("[IMPORT] FormFile error: %v", err)
		return badRequest(c, "file required in multipart/form-data")
	}

	f, err := file.Open()
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to open file"})
	}
	defer f.Close()

	name := c.FormValue("name")
	if name == "" {
		name = strings.TrimSuffix(file.Filename, ".svg")
	}
	plan, report, err := parser.Import(f, name, 0)
	if err != nil {
		log.Printf("[IMPORT] %s: %v", file.Filename, err)
		return badRequest(c, err.Error())
	}
	if err := h.plans.Import(c.Context(), plan); err != nil {
		return fail(c, err)
	}
	log.Printf("[IMPORT] %s: %d rooms, %d walls, %d doors, %d skipped",
		file.Filename, report.Rooms, report.Walls, report.Doors, report.Skipped)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"plan": plan, "report": report})
}

// ============================================================
// Layers
// ============================================================

type layerRequest struct {
	Name    string  `json:"name"`
	Opacity float64 `json:"opacity"`
}

func (h *PlannerHandler) AddLayer(c fiber.Ctx) error {
	var req layerRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, "invalid json")
	}
	return h.mutate(c, "add_layer", func(p *models.Plan) (any, error) {
		return h.editor.AddLayer(p, req.Name), nil
	})
}

// LayerAction: show, hide, lock, unlock, rename, activate, opacity, delete.
func (h *PlannerHandler) LayerAction(c fiber.Ctx) error {
	var req layerRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, "invalid json")
	}
	action := editor.LayerAction(c.Params("action"))
	layerID := c.Params("layerId")
	return h.mutate(c, "layer_"+string(action), func(p *models.Plan) (any, error) {
		return nil, h.editor.ApplyLayerAction(p, layerID, action, req.Name, req.Opacity)
	})
}
