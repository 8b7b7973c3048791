// Package project manages obras: CRUD, listing with progress and the dashboard numbers.
package project

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"k8s.io/klog/v2"

	"github.com/hubtav/tavlist/dao/model"
	"github.com/hubtav/tavlist/pkg/apperr"
	"github.com/hubtav/tavlist/pkg/report"
	"github.com/hubtav/tavlist/pkg/stage"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type Service struct {
	db     *gorm.DB
	stages *stage.Service
}

func NewService(db *gorm.DB, stages *stage.Service) *Service {
	return &Service{db: db, stages: stages}
}

type Input struct {
	Name         string              `json:"name"`
	ClientName   string              `json:"clientName"`
	ClientEmail  string              `json:"clientEmail"`
	ClientPhone  *string             `json:"clientPhone"`
	Status       model.ProjectStatus `json:"status"`
	StartDate    time.Time           `json:"startDate"`
	ExpectedDate time.Time           `json:"expectedDate"`
}

func (in *Input) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.ClientName = strings.TrimSpace(in.ClientName)
	in.ClientEmail = strings.ToLower(strings.TrimSpace(in.ClientEmail))
	if in.ClientPhone != nil {
		in.ClientPhone = lo.EmptyableToPtr(strings.TrimSpace(*in.ClientPhone))
	}
	switch {
	case in.Name == "":
		return apperr.Validation("Nome da obra é obrigatório")
	case in.ClientName == "":
		return apperr.Validation("Nome do cliente é obrigatório")
	case checkmail.ValidateFormat(in.ClientEmail) != nil:
		return apperr.Validation("Email do cliente inválido")
	case in.StartDate.IsZero() || in.ExpectedDate.IsZero():
		return apperr.Validation("Datas de início e previsão são obrigatórias")
	case in.ExpectedDate.Before(in.StartDate):
		return apperr.Validation("A data prevista não pode ser anterior à data de início")
	}
	if in.Status == "" {
		in.Status = model.ProjectNotStarted
	}
	if !in.Status.Valid() {
		return apperr.Validation("Status inválido: %s", in.Status)
	}
	return nil
}

func (s *Service) get(ctx context.Context, id uint) (*model.Project, error) {
	var p model.Project
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Obra não encontrada")
		}
		return nil, err
	}
	return &p, nil
}

func (s *Service) Create(ctx context.Context, creatorID uint, in Input) (*model.Project, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	p := model.Project{
		Name:         in.Name,
		ClientName:   in.ClientName,
		ClientEmail:  in.ClientEmail,
		ClientPhone:  in.ClientPhone,
		Status:       in.Status,
		StartDate:    in.StartDate,
		ExpectedDate: in.ExpectedDate,
		CreatorID:    creatorID,
	}
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, err
	}
	klog.Infof("project %d (%s) created", p.ID, p.Name)
	return &p, nil
}

func (s *Service) Update(ctx context.Context, id uint, in Input) (*model.Project, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	res := s.db.WithContext(ctx).Model(&model.Project{}).Where("id = ?", id).Updates(map[string]any{
		"name":          in.Name,
		"client_name":   in.ClientName,
		"client_email":  in.ClientEmail,
		"client_phone":  in.ClientPhone,
		"status":        in.Status,
		"start_date":    in.StartDate,
		"expected_date": in.ExpectedDate,
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("Obra não encontrada")
	}
	return s.get(ctx, id)
}

// Delete removes the project with all its stages and their children.
func (s *Service) Delete(ctx context.Context, id uint) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	var stageIDs []uint
	if err := s.db.WithContext(ctx).Model(&model.Stage{}).
		Where("project_id = ?", id).Pluck("id", &stageIDs).Error; err != nil {
		return err
	}
	for _, sid := range stageIDs {
		if err := s.stages.Delete(ctx, sid); err != nil {
			return err
		}
	}
	if err := s.db.WithContext(ctx).Unscoped().Delete(&model.Project{}, id).Error; err != nil {
		return err
	}
	klog.Infof("project %d deleted with %d stages", id, len(stageIDs))
	return nil
}

type ListFilter struct {
	Status    model.ProjectStatus
	Search    string
	PageIndex int
	PageSize  int
}

// Summary is a project row with its stage progress.
type Summary struct {
	model.Project
	TotalStages    int
	ApprovedStages int
	Progress       int
}

type progressRow struct {
	ProjectID uint
	Total     int
	Approved  int
}

func (s *Service) progress(ctx context.Context, ids []uint) (map[uint]progressRow, error) {
	if len(ids) == 0 {
		return map[uint]progressRow{}, nil
	}
	var rows []progressRow
	err := s.db.WithContext(ctx).Model(&model.Stage{}).
		Select("project_id, COUNT(*) AS total, SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS approved", model.StageApproved).
		Where("project_id IN ?", ids).
		Group("project_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return lo.SliceToMap(rows, func(r progressRow) (uint, progressRow) { return r.ProjectID, r }), nil
}

// List filters by status and by a case-insensitive match on project or client
// name, newest first. PageIndex starts at 0.
func (s *Service) List(ctx context.Context, f ListFilter) ([]Summary, int64, error) {
	q := s.db.WithContext(ctx).Model(&model.Project{})
	if f.Status != "" {
		if !f.Status.Valid() {
			return nil, 0, apperr.Validation("Status inválido: %s", f.Status)
		}
		q = q.Where("status = ?", f.Status)
	}
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		like := "%" + term + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(client_name) LIKE ?", like, like)
	}
	q = q.Session(&gorm.Session{})
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	size := f.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	size = min(size, MaxPageSize)
	var projects []model.Project
	if err := q.Order("created_at DESC").Order("id DESC").
		Offset(max(f.PageIndex, 0) * size).Limit(size).
		Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	progress, err := s.progress(ctx, lo.Map(projects, func(p model.Project, _ int) uint { return p.ID }))
	if err != nil {
		return nil, 0, err
	}
	rows := lo.Map(projects, func(p model.Project, _ int) Summary {
		pr := progress[p.ID]
		return Summary{
			Project:        p,
			TotalStages:    pr.Total,
			ApprovedStages: pr.Approved,
			Progress:       report.Progress(pr.Approved, pr.Total),
		}
	})
	return rows, count, nil
}

type Detail struct {
	Project  model.Project
	Stages   []stage.View
	Approved int
	Progress int
}

func (s *Service) Detail(ctx context.Context, id uint) (*Detail, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.stages.List(ctx, id)
	if err != nil {
		return nil, err
	}
	approved := lo.CountBy(views, func(v stage.View) bool { return v.Status == model.StageApproved })
	return &Detail{
		Project:  *p,
		Stages:   views,
		Approved: approved,
		Progress: report.Progress(approved, len(views)),
	}, nil
}

type Stats struct {
	Total            int64 `json:"total"`
	InProgress       int64 `json:"emAndamento"`
	AwaitingApproval int64 `json:"aguardandoAprovacao"`
	Completed        int64 `json:"concluidas"`
	PendingReview    int64 `json:"etapasPendentesRevisao"`
}

// Stats returns the dashboard counters.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	type row struct {
		Status model.ProjectStatus
		Count  int64
	}
	var rows []row
	if err := s.db.WithContext(ctx).Model(&model.Project{}).
		Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	byStatus := lo.SliceToMap(rows, func(r row) (model.ProjectStatus, int64) { return r.Status, r.Count })
	pending, err := s.stages.PendingReviewCount(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{
		Total:            lo.Sum(lo.Values(byStatus)),
		InProgress:       byStatus[model.ProjectInProgress],
		AwaitingApproval: byStatus[model.ProjectAwaitingApproval],
		Completed:        byStatus[model.ProjectCompleted],
		PendingReview:    pending,
	}, nil
}
