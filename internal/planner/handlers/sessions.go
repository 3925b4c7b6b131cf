package handlers

import (
	"log"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"floorplanner/internal/planner/dimension"
	"floorplanner/internal/planner/geometry"
	"floorplanner/internal/planner/models"
	"floorplanner/internal/planner/snap"
	"floorplanner/internal/planner/tool"
)

// ============================================================
// Stateless snap
// ============================================================

type snapRequest struct {
	// PlanID загружает слои сохраненного плана; иначе берутся Layers из тела.
	PlanID       string               `json:"planId"`
	Layers       []*models.Layer      `json:"layers"`
	Cursor       geometry.Point       `json:"cursor"`
	Anchor       *geometry.Point      `json:"anchor"`
	Tool         snap.Tool            `json:"tool"`
	Drawing      []geometry.Point     `json:"drawing"`
	SelectedEdge *snap.EdgeRef        `json:"selectedEdge"`
	Extension    *dimension.Extension `json:"extension"`
	Settings     snap.Settings        `json:"settings"`
	LockedAxis   snap.Axis            `json:"lockedAxis"`
}

// Snap resolves one cursor position without a session.
func (h *PlannerHandler) Snap(c fiber.Ctx) error {
	var req snapRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, "invalid json")
	}
	q := snap.Query{
		Cursor:       req.Cursor,
		Anchor:       req.Anchor,
		Tool:         req.Tool,
		Drawing:      req.Drawing,
		SelectedEdge: req.SelectedEdge,
		Extension:    req.Extension,
		Layers:       req.Layers,
		Settings:     req.Settings,
		LockedAxis:   req.LockedAxis,
	}

	var out snap.Outcome
	resolve := func() {
		out = snap.Resolve(q)
	}
	if req.PlanID != "" {
		err := h.plans.View(c.Context(), req.PlanID, func(p *models.Plan) error {
			q.Layers = p.Layers
			if q.Settings.GridSpacing <= 0 {
				q.Settings.GridSpacing = p.GridSpacing
			}
			resolve()
			return nil
		})
		if err != nil {
			return fail(c, err)
		}
	} else {
		resolve()
	}

	kind := ""
	if out.Snap != nil {
		kind = string(out.Snap.Kind)
	}
	h.metrics.ObserveSnap(kind)
	return c.JSON(out)
}

// ============================================================
// Drawing sessions
// ============================================================

func (h *PlannerHandler) OpenSession(c fiber.Ctx) error {
	var opts tool.Options
	if err := decode(c, &opts); err != nil {
		return badRequest(c, "invalid json")
	}
	planID := c.Params("id")
	err := h.plans.View(c.Context(), planID, func(p *models.Plan) error {
		if opts.LayerID == "" {
			return nil
		}
		_, err := p.Layer(opts.LayerID)
		return err
	})
	if err != nil {
		return fail(c, err)
	}

	s := tool.New(h.editor, opts)
	token := h.sessions.Issue(planID, s)
	h.metrics.SessionOpened()
	log.Printf("[SESSION] opened %s on plan %s (tool: %s)", token, planID, s.Options().Tool)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"token": token, "state": s.State()})
}

// withSession находит сессию по :token и выполняет fn под блокировкой ее плана.
// mutating=true сохраняет план после fn.
func (h *PlannerHandler) withSession(c fiber.Ctx, op string, mutating bool, fn func(p *models.Plan, s *tool.Session) (any, error)) error {
	token := c.Params("token")
	planID, s, ok := h.sessions.Resolve(token)
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}

	var result any
	run := func(p *models.Plan) error {
		var err error
		result, err = fn(p, s)
		return err
	}

	if !mutating {
		if err := h.plans.View(c.Context(), planID, run); err != nil {
			return fail(c, err)
		}
		return c.JSON(result)
	}

	plan, err := h.plans.Update(c.Context(), planID, run)
	h.metrics.ObserveOperation(op, err)
	if err != nil {
		log.Printf("[SESSION] %s on %s failed: %v", op, token, err)
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error(), "result": result})
	}
	return c.JSON(fiber.Map{"result": result, "plan": plan})
}

type pointRequest struct {
	Point geometry.Point `json:"point"`
}

func (h *PlannerHandler) SessionState(c fiber.Ctx) error {
	return h.withSession(c, "session_state", false, func(_ *models.Plan, s *tool.Session) (any, error) {
		return s.State(), nil
	})
}

func (h *PlannerHandler) SessionMove(c fiber.Ctx) error {
	var req pointRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, "invalid json")
	}
	return h.withSession(c, "session_move", false, func(p *models.Plan, s *tool.Session) (any, error) {
		out := s.Move(p, req.Point)
		kind := ""
		if out.Snap != nil {
			kind = string(out.Snap.Kind)
		}
		h.metrics.ObserveSnap(kind)
		return out, nil
	})
}

func (h *PlannerHandler) SessionClick(c fiber.Ctx) error {
	var req pointRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, "invalid json")
	}
	return h.withSession(c, "session_click", true, func(p *models.Plan, s *tool.Session) (any, error) {
		return s.Click(p, req.Point)
	})
}

func (h *PlannerHandler) SessionFinish(c fiber.Ctx) error {
	return h.withSession(c, "session_finish", true, func(p *models.Plan, s *tool.Session) (any, error) {
		return s.Finish(p)
	})
}

type distanceRequest struct {
	Distance float64 `json:"distance"`
}

func (h *PlannerHandler) SessionDistance(c fiber.Ctx) error {
	var req distanceRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, "invalid json")
	}
	return h.withSession(c, "session_distance", true, func(p *models.Plan, s *tool.Session) (any, error) {
		return s.PlaceAtDistance(p, req.Distance)
	})
}

func (h *PlannerHandler) SessionCancel(c fiber.Ctx) error {
	return h.withSession(c, "session_cancel", false, func(_ *models.Plan, s *tool.Session) (any, error) {
		s.Cancel()
		return s.State(), nil
	})
}

type toolRequest struct {
	Tool snap.Tool `json:"tool"`
}

func (h *PlannerHandler) SessionTool(c fiber.Ctx) error {
	var req toolRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, "invalid json")
	}
	if !req.Tool.Valid() {
		return badRequest(c, "unknown tool")
	}
	return h.withSession(c, "session_tool", false, func(_ *models.Plan, s *tool.Session) (any, error) {
		s.SetTool(req.Tool)
		return s.State(), nil
	})
}

func (h *PlannerHandler) SessionSettings(c fiber.Ctx) error {
	var st snap.Settings
	if err := decode(c, &st); err != nil {
		return badRequest(c, "invalid json")
	}
	return h.withSession(c, "session_settings", false, func(_ *models.Plan, s *tool.Session) (any, error) {
		s.SetSettings(st)
		return s.State(), nil
	})
}

func (h *PlannerHandler) CloseSession(c fiber.Ctx) error {
	token := c.Params("token")
	if !h.sessions.Close(token) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}
	h.metrics.SessionClosed()
	log.Printf("[SESSION] closed %s", token)
	return c.SendStatus(http.StatusNoContent)
}
