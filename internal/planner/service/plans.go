package service

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/gofiber/utils/v2"
	"github.com/google/uuid"

	"floorplanner/internal/planner/models"
	"floorplanner/internal/planner/store"
)

// PlanStore is the persistence the service needs.
type PlanStore interface {
	Create(ctx context.Context, p *models.Plan) error
	Get(ctx context.Context, id string) (*models.Plan, error)
	List(ctx context.Context) ([]store.Summary, error)
	Save(ctx context.Context, p *models.Plan) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// ============================================================
// Plans
// ============================================================

// Plans сериализует чтение-изменение-запись по id плана: две правки одного
// плана не перемешиваются, разные планы правятся параллельно.
type Plans struct {
	store PlanStore
	grid  float64

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewPlans(s PlanStore, defaultGrid float64) *Plans {
	return &Plans{store: s, grid: defaultGrid, locks: make(map[string]*sync.Mutex)}
}

func (p *Plans) lock(id string) func() {
	p.mu.Lock()
	l, ok := p.locks[id]
	if !ok {
		l = &sync.Mutex{}
		p.locks[utils.CopyString(id)] = l
	}
	p.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Create создает пустой план с одним слоем.
func (p *Plans) Create(ctx context.Context, name string, grid float64) (*models.Plan, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Untitled"
	}
	if grid <= 0 {
		grid = p.grid
	}
	plan := models.NewPlan(uuid.NewString(), name, grid)
	if err := p.store.Create(ctx, plan); err != nil {
		return nil, err
	}
	log.Printf("[PLANS] created %s (%q)", plan.ID, plan.Name)
	return plan, nil
}

// Import stores an already built plan under a fresh id.
func (p *Plans) Import(ctx context.Context, plan *models.Plan) error {
	plan.ID = uuid.NewString()
	for _, l := range plan.Layers {
		if l.ID == "" {
			l.ID = uuid.NewString()
		}
	}
	plan.Normalize()
	if plan.ActiveLayer == "" && len(plan.Layers) > 0 {
		plan.ActiveLayer = plan.Layers[0].ID
	}
	if err := p.store.Create(ctx, plan); err != nil {
		return err
	}
	log.Printf("[PLANS] imported %s (%q)", plan.ID, plan.Name)
	return nil
}

func (p *Plans) Get(ctx context.Context, id string) (*models.Plan, error) {
	return p.store.Get(ctx, id)
}

func (p *Plans) List(ctx context.Context) ([]store.Summary, error) {
	return p.store.List(ctx)
}

func (p *Plans) Delete(ctx context.Context, id string) error {
	unlock := p.lock(id)
	defer unlock()

	if err := p.store.Delete(ctx, id); err != nil {
		return err
	}
	log.Printf("[PLANS] deleted %s", id)
	return nil
}

// Update loads the plan, applies fn and saves the result. When fn fails
// nothing is written.
func (p *Plans) Update(ctx context.Context, id string, fn func(*models.Plan) error) (*models.Plan, error) {
	unlock := p.lock(id)
	defer unlock()

	plan, err := p.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(plan); err != nil {
		return nil, err
	}
	if err := p.store.Save(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// View runs fn on the current plan under the plan lock without saving.
func (p *Plans) View(ctx context.Context, id string, fn func(*models.Plan) error) error {
	unlock := p.lock(id)
	defer unlock()

	plan, err := p.store.Get(ctx, id)
	if err != nil {
		return err
	}
	return fn(plan)
}

func (p *Plans) Ping(ctx context.Context) error {
	return p.store.Ping(ctx)
}
