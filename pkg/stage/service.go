// Package stage implements the stage lifecycle: ordinal assignment, the status
// machine, responsible parties, checklist items, attachments and the clipboard.
package stage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"k8s.io/klog/v2"

	"github.com/hubtav/tavlist/dao/model"
	"github.com/hubtav/tavlist/pkg/apperr"
	"github.com/hubtav/tavlist/pkg/metrics"
	"github.com/hubtav/tavlist/pkg/storage"
)

const DefaultAttachmentBucket = "etapa-anexos"

type Service struct {
	db     *gorm.DB
	store  storage.Store
	bucket string
	now    func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithAttachmentBucket(bucket string) Option {
	return func(s *Service) {
		if bucket != "" {
			s.bucket = bucket
		}
	}
}

func NewService(db *gorm.DB, store storage.Store, opts ...Option) *Service {
	s := &Service{
		db:     db,
		store:  store,
		bucket: DefaultAttachmentBucket,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type ItemInput struct {
	Description string `json:"description"`
	ProductLine string `json:"productLine"`
	Done        bool   `json:"done"`
}

type CreateInput struct {
	ProjectID      uint
	Title          string
	Description    *string
	DueDate        *time.Time
	Notes          *string
	ResponsibleIDs []uint
	Items          []ItemInput
}

// Create inserts a pending stage at ordinal 1 + max(existing) of the project.
func (s *Service) Create(ctx context.Context, in CreateInput) (*model.Stage, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.Validation("O título da etapa é obrigatório")
	}
	items, err := normalizeItems(in.Items)
	if err != nil {
		return nil, err
	}

	stage := model.Stage{
		ProjectID:   in.ProjectID,
		Title:       title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Notes:       in.Notes,
		Status:      model.StagePending,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project model.Project
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").First(&project, in.ProjectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Obra não encontrada")
			}
			return err
		}

		var maxOrdinal int
		if err := tx.Unscoped().Model(&model.Stage{}).
			Where("project_id = ?", in.ProjectID).
			Select("COALESCE(MAX(ordinal), 0)").
			Scan(&maxOrdinal).Error; err != nil {
			return fmt.Errorf("read max ordinal: %w", err)
		}
		stage.Ordinal = maxOrdinal + 1

		if err := tx.Create(&stage).Error; err != nil {
			return fmt.Errorf("create stage: %w", err)
		}
		if err := replaceAssignees(tx, stage.ID, in.ResponsibleIDs); err != nil {
			return err
		}
		return replaceItems(tx, stage.ID, items)
	})
	if err != nil {
		return nil, err
	}
	klog.Infof("stage %d created in project %d at ordinal %d", stage.ID, stage.ProjectID, stage.Ordinal)
	return &stage, nil
}

// Start moves a pending stage to in progress.
func (s *Service) Start(ctx context.Context, id uint) (*model.Stage, error) {
	return s.transition(ctx, id, model.StageInProgress, map[string]any{})
}

// Submit hands the stage over for review. The note becomes the current observation.
func (s *Service) Submit(ctx context.Context, id uint, notes string) (*model.Stage, error) {
	updates := map[string]any{}
	if notes = strings.TrimSpace(notes); notes != "" {
		updates["notes"] = notes
		updates["submission_notes"] = notes
	}
	return s.transition(ctx, id, model.StageSubmitted, updates)
}

func (s *Service) Approve(ctx context.Context, id uint) (*model.Stage, error) {
	return s.transition(ctx, id, model.StageApproved, map[string]any{"approved_at": s.now()})
}

// Reject overwrites the observation with the reason. The collaborator note stays
// in submission_notes.
func (s *Service) Reject(ctx context.Context, id uint, reason string) (*model.Stage, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperr.Validation("Informe o motivo da rejeição")
	}
	return s.transition(ctx, id, model.StageRejected, map[string]any{
		"notes":        reason,
		"review_notes": reason,
	})
}

// transition is the only place that moves a stage along the lifecycle. The
// source-status check and the write are one statement.
func (s *Service) transition(ctx context.Context, id uint, to model.StageStatus, updates map[string]any) (*model.Stage, error) {
	updates["status"] = to
	res := s.db.WithContext(ctx).Model(&model.Stage{}).
		Where("id = ? AND status IN ?", id, sourceValues(to)).
		Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("update stage %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		var current model.Stage
		if err := s.db.WithContext(ctx).Select("id", "status").First(&current, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("Etapa não encontrada")
			}
			return nil, err
		}
		return nil, &apperr.TransitionError{From: string(current.Status), To: string(to)}
	}
	metrics.StageTransitions.WithLabelValues(string(to)).Inc()
	klog.Infof("stage %d -> %s", id, to)

	var stage model.Stage
	if err := s.db.WithContext(ctx).First(&stage, id).Error; err != nil {
		return nil, err
	}
	return &stage, nil
}

type EditInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	ClearDue    bool
	Notes       *string
	Status      *model.StageStatus
}

// Edit changes fields directly. A status given here bypasses the lifecycle but
// must still be a known value; approved_at is only kept while the stage is aprovada.
func (s *Service) Edit(ctx context.Context, id uint, in EditInput) (*model.Stage, error) {
	updates := map[string]any{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperr.Validation("O título da etapa é obrigatório")
		}
		updates["title"] = title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.ClearDue {
		updates["due_date"] = nil
	} else if in.DueDate != nil {
		updates["due_date"] = *in.DueDate
	}
	if in.Notes != nil {
		updates["notes"] = *in.Notes
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, apperr.Validation("Status inválido: %s", *in.Status)
		}
		updates["status"] = *in.Status
		if *in.Status == model.StageApproved {
			updates["approved_at"] = s.now()
		} else {
			updates["approved_at"] = nil
		}
	}

	var stage model.Stage
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&stage, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Etapa não encontrada")
			}
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&stage).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&stage, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &stage, nil
}

// Delete removes the stage and everything hanging off it. Sibling ordinals are untouched.
func (s *Service) Delete(ctx context.Context, id uint) error {
	var attachments []model.StageAttachment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stage model.Stage
		if err := tx.Select("id").First(&stage, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Etapa não encontrada")
			}
			return err
		}
		if err := tx.Where("stage_id = ?", id).Find(&attachments).Error; err != nil {
			return err
		}
		for _, child := range []any{
			&model.StageAssignee{}, &model.StageItem{}, &model.StageAttachment{}, &model.StageSignature{},
		} {
			if err := tx.Unscoped().Where("stage_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Unscoped().Delete(&model.Stage{}, id).Error
	})
	if err != nil {
		return err
	}
	for i := range attachments {
		if err := s.store.Remove(ctx, s.bucket, attachments[i].StoragePath); err != nil {
			klog.Warningf("remove attachment object %s: %v", attachments[i].StoragePath, err)
		}
	}
	klog.Infof("stage %d deleted", id)
	return nil
}

// CountByStatus returns the number of stages per status.
func (s *Service) CountByStatus(ctx context.Context) (map[model.StageStatus]int64, error) {
	type row struct {
		Status model.StageStatus
		Count  int64
	}
	var rows []row
	if err := s.db.WithContext(ctx).Model(&model.Stage{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[model.StageStatus]int64, len(model.AllStageStatuses))
	for _, st := range model.AllStageStatuses {
		counts[st] = 0
	}
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// PendingReviewCount is the number of submitted stages waiting for an admin.
func (s *Service) PendingReviewCount(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.Stage{}).
		Where("status = ?", model.StageSubmitted).Count(&n).Error
	return n, err
}

func normalizeItems(items []ItemInput) ([]ItemInput, error) {
	out := make([]ItemInput, 0, len(items))
	for i := range items {
		desc := strings.TrimSpace(items[i].Description)
		if desc == "" {
			return nil, apperr.Validation("O item %d do checklist está vazio", i+1)
		}
		out = append(out, ItemInput{
			Description: desc,
			ProductLine: strings.TrimSpace(items[i].ProductLine),
			Done:        items[i].Done,
		})
	}
	return out, nil
}

func uniqueIDs(ids []uint) []uint {
	return lo.Uniq(lo.Filter(ids, func(id uint, _ int) bool { return id != 0 }))
}
