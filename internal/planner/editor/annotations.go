package editor

import (
	"floorplanner/internal/planner/dimension"
	"floorplanner/internal/planner/geometry"
	"floorplanner/internal/planner/models"
)

// ============================================================
// Dimensions
// ============================================================

// AddDimension создает размерную цепочку из двух точек.
func (e *Editor) AddDimension(plan *models.Plan, layerID string, start, end geometry.Point, side int) (int, error) {
	l, err := editable(plan, layerID)
	if err != nil {
		return 0, err
	}
	d, err := dimension.New(start, end, side)
	if err != nil {
		return 0, err
	}
	return l.AddDimension(d), nil
}

// editDimension applies fn to a copy of the chain and stores it on success.
func editDimension(plan *models.Plan, layerID string, id int, fn func(d *models.DimensionLine) error) error {
	l, err := editable(plan, layerID)
	if err != nil {
		return err
	}
	d, err := l.Dimension(id)
	if err != nil {
		return err
	}
	c := d.Clone()
	if err := fn(&c); err != nil {
		return err
	}
	return l.PutDimension(c)
}

// ExtendDimension продолжает цепочку от конечной вершины.
func (e *Editor) ExtendDimension(plan *models.Plan, layerID string, ext dimension.Extension, p geometry.Point) error {
	return editDimension(plan, layerID, ext.DimensionID, func(d *models.DimensionLine) error {
		return dimension.Extend(d, ext, p)
	})
}

func (e *Editor) InsertDimensionVertex(plan *models.Plan, layerID string, id, seg int, p geometry.Point) error {
	return editDimension(plan, layerID, id, func(d *models.DimensionLine) error {
		return dimension.InsertVertex(d, seg, p)
	})
}

func (e *Editor) DeleteDimensionVertex(plan *models.Plan, layerID string, id, idx int) error {
	return editDimension(plan, layerID, id, func(d *models.DimensionLine) error {
		return dimension.DeleteVertex(d, idx)
	})
}

func (e *Editor) MoveDimensionVertex(plan *models.Plan, layerID string, id, idx int, p geometry.Point) error {
	return editDimension(plan, layerID, id, func(d *models.DimensionLine) error {
		return dimension.MoveVertex(d, idx, p)
	})
}

func (e *Editor) TranslateDimension(plan *models.Plan, layerID string, id int, delta geometry.Point) error {
	return editDimension(plan, layerID, id, func(d *models.DimensionLine) error {
		dimension.Translate(d, delta)
		return nil
	})
}

// SetDimensionOffset задает отступ явно; nil возвращает отступ по умолчанию.
func (e *Editor) SetDimensionOffset(plan *models.Plan, layerID string, id int, offset *float64, side int) error {
	return editDimension(plan, layerID, id, func(d *models.DimensionLine) error {
		if side != 0 {
			d.OffsetSide = 1
			if side < 0 {
				d.OffsetSide = -1
			}
		}
		return dimension.SetCustomOffset(d, offset)
	})
}

// DragDimensionOffset задает отступ по положению курсора.
func (e *Editor) DragDimensionOffset(plan *models.Plan, layerID string, id int, cursor geometry.Point) error {
	return editDimension(plan, layerID, id, func(d *models.DimensionLine) error {
		dimension.DragOffset(d, cursor)
		return nil
	})
}

func (e *Editor) SetDimensionText(plan *models.Plan, layerID string, id int, text string) error {
	return editDimension(plan, layerID, id, func(d *models.DimensionLine) error {
		d.CustomText = text
		return nil
	})
}

// ============================================================
// Guidelines
// ============================================================

// AddGuidelines создает направляющую через a и b. При count > 1 добавляются
// параллельные копии с шагом spacing по часовой стороне от a→b.
func (e *Editor) AddGuidelines(plan *models.Plan, layerID string, a, b geometry.Point, count int, spacing float64) ([]int, error) {
	l, err := editable(plan, layerID)
	if err != nil {
		return nil, err
	}
	if geometry.Distance(a, b) < geometry.PointTolerance {
		return nil, dimension.ErrTooShort
	}
	if count < 1 {
		count = 1
	}
	if spacing <= 0 {
		spacing = models.DefaultGuideDistance
	}
	u := b.Sub(a).Normalize()
	normal := geometry.Pt(u.Y, -u.X)

	ids := make([]int, 0, count)
	for i := 0; i < count; i++ {
		shift := normal.Mul(spacing * float64(i))
		ids = append(ids, l.AddGuideline(models.Guideline{A: a.Add(shift), B: b.Add(shift)}))
	}
	return ids, nil
}
