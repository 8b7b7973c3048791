package stage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/hubtav/tavlist/dao/model"
	"github.com/hubtav/tavlist/pkg/apperr"
)

// SetResponsibles replaces the responsible parties of a stage with ids.
// Calling it twice with the same set leaves the same rows.
func (s *Service) SetResponsibles(ctx context.Context, stageID uint, ids []uint) ([]model.Profile, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stage model.Stage
		if err := tx.Select("id").First(&stage, stageID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Etapa não encontrada")
			}
			return err
		}
		return replaceAssignees(tx, stageID, ids)
	})
	if err != nil {
		return nil, err
	}
	view, err := s.Get(ctx, stageID)
	if err != nil {
		return nil, err
	}
	return view.Responsibles, nil
}

func replaceAssignees(tx *gorm.DB, stageID uint, ids []uint) error {
	ids = uniqueIDs(ids)
	if len(ids) > 0 {
		var found int64
		if err := tx.Model(&model.Profile{}).Where("id IN ?", ids).Count(&found).Error; err != nil {
			return err
		}
		if int(found) != len(ids) {
			return apperr.Validation("Responsável não encontrado")
		}
	}
	if err := tx.Unscoped().Where("stage_id = ?", stageID).Delete(&model.StageAssignee{}).Error; err != nil {
		return fmt.Errorf("clear assignees: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}
	rows := make([]model.StageAssignee, len(ids))
	for i, id := range ids {
		rows[i] = model.StageAssignee{StageID: stageID, ProfileID: id}
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("insert assignees: %w", err)
	}
	return nil
}

// MergeResponsibles prefers the junction rows and falls back to the legacy
// single responsible only when there are none.
func MergeResponsibles(assignees []model.StageAssignee, legacy *model.Profile) []model.Profile {
	if len(assignees) > 0 {
		out := make([]model.Profile, 0, len(assignees))
		for i := range assignees {
			out = append(out, assignees[i].Profile)
		}
		return out
	}
	if legacy != nil && legacy.ID != 0 {
		return []model.Profile{*legacy}
	}
	return []model.Profile{}
}
