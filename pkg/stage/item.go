package stage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/hubtav/tavlist/dao/model"
	"github.com/hubtav/tavlist/pkg/apperr"
)

func (s *Service) ListItems(ctx context.Context, stageID uint) ([]model.StageItem, error) {
	var items []model.StageItem
	err := s.db.WithContext(ctx).Where("stage_id = ?", stageID).Order("ordinal").Find(&items).Error
	return items, err
}

// ReplaceItems swaps the whole checklist in one transaction, so readers never see
// it empty halfway.
func (s *Service) ReplaceItems(ctx context.Context, stageID uint, in []ItemInput) ([]model.StageItem, error) {
	items, err := normalizeItems(in)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stage model.Stage
		if err := tx.Select("id").First(&stage, stageID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Etapa não encontrada")
			}
			return err
		}
		return replaceItems(tx, stageID, items)
	})
	if err != nil {
		return nil, err
	}
	return s.ListItems(ctx, stageID)
}

func replaceItems(tx *gorm.DB, stageID uint, items []ItemInput) error {
	if err := tx.Unscoped().Where("stage_id = ?", stageID).Delete(&model.StageItem{}).Error; err != nil {
		return fmt.Errorf("clear items: %w", err)
	}
	if len(items) == 0 {
		return nil
	}
	rows := make([]model.StageItem, len(items))
	for i := range items {
		rows[i] = model.StageItem{
			StageID:     stageID,
			Description: items[i].Description,
			ProductLine: items[i].ProductLine,
			Done:        items[i].Done,
			Ordinal:     i + 1,
		}
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("insert items: %w", err)
	}
	return nil
}

// SetItemDone toggles the completion flag of one checklist line.
func (s *Service) SetItemDone(ctx context.Context, stageID, itemID uint, done bool) (*model.StageItem, error) {
	res := s.db.WithContext(ctx).Model(&model.StageItem{}).
		Where("id = ? AND stage_id = ?", itemID, stageID).
		Update("done", done)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("Item não encontrado")
	}
	var item model.StageItem
	if err := s.db.WithContext(ctx).First(&item, itemID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}
