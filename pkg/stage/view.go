package stage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hubtav/tavlist/dao/model"
	"github.com/hubtav/tavlist/pkg/apperr"
)

// View is a stage with its responsible parties already merged.
type View struct {
	model.Stage
	Responsibles []model.Profile
}

func (v *View) ResponsibleIDs() []uint {
	ids := make([]uint, len(v.Responsibles))
	for i := range v.Responsibles {
		ids[i] = v.Responsibles[i].ID
	}
	return ids
}

func preloadView(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Assignees", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Assignees.Profile").
		Preload("Responsible").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("ordinal") }).
		Preload("Attachments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") })
}

func toView(stage *model.Stage) View {
	return View{Stage: *stage, Responsibles: MergeResponsibles(stage.Assignees, stage.Responsible)}
}

func (s *Service) Get(ctx context.Context, id uint) (*View, error) {
	var stage model.Stage
	if err := preloadView(s.db.WithContext(ctx)).First(&stage, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Etapa não encontrada")
		}
		return nil, err
	}
	v := toView(&stage)
	return &v, nil
}

// List returns the stages of a project in ordinal order.
func (s *Service) List(ctx context.Context, projectID uint) ([]View, error) {
	var stages []model.Stage
	if err := preloadView(s.db.WithContext(ctx)).
		Where("project_id = ?", projectID).
		Order("ordinal").
		Find(&stages).Error; err != nil {
		return nil, err
	}
	views := make([]View, len(stages))
	for i := range stages {
		views[i] = toView(&stages[i])
	}
	return views, nil
}
