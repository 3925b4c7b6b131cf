package editor

import (
	"fmt"

	"github.com/google/uuid"

	"floorplanner/internal/planner/models"
)

// ============================================================
// Layer actions
// ============================================================

// LayerAction перечисляет операции над слоями.
type LayerAction string

const (
	LayerShow     LayerAction = "show"
	LayerHide     LayerAction = "hide"
	LayerLock     LayerAction = "lock"
	LayerUnlock   LayerAction = "unlock"
	LayerRename   LayerAction = "rename"
	LayerActivate LayerAction = "activate"
	LayerOpacity  LayerAction = "opacity"
	LayerDelete   LayerAction = "delete"
)

// AddLayer добавляет пустой слой и делает его активным.
func (e *Editor) AddLayer(plan *models.Plan, name string) *models.Layer {
	if name == "" {
		name = fmt.Sprintf("Layer %d", len(plan.Layers)+1)
	}
	l := models.NewLayer(uuid.NewString(), name)
	plan.Layers = append(plan.Layers, l)
	plan.ActiveLayer = l.ID
	return l
}

// ApplyLayerAction выполняет действие над слоем.
func (e *Editor) ApplyLayerAction(plan *models.Plan, layerID string, action LayerAction, name string, opacity float64) error {
	l, err := plan.Layer(layerID)
	if err != nil {
		return err
	}
	switch action {
	case LayerShow:
		l.Visible = true
	case LayerHide:
		l.Visible = false
	case LayerLock:
		l.Locked = true
	case LayerUnlock:
		l.Locked = false
	case LayerRename:
		if name != "" {
			l.Name = name
		}
	case LayerActivate:
		plan.ActiveLayer = l.ID
	case LayerOpacity:
		l.Opacity = clamp(opacity, 0, 1)
	case LayerDelete:
		return removeLayer(plan, layerID)
	default:
		return fmt.Errorf("unknown layer action %q", action)
	}
	return nil
}

func removeLayer(plan *models.Plan, layerID string) error {
	if len(plan.Layers) <= 1 {
		return ErrLastLayer
	}
	kept := plan.Layers[:0:0]
	for _, l := range plan.Layers {
		if l.ID != layerID {
			kept = append(kept, l)
		}
	}
	plan.Layers = kept
	if plan.ActiveLayer == layerID {
		plan.ActiveLayer = kept[0].ID
	}
	return nil
}
