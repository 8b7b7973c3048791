package signature

import (
	"context"
	"time"

	"github.com/samber/lo"

	"github.com/hubtav/tavlist/dao/model"
)

type SignatureView struct {
	ID         uint       `json:"id"`
	Signed     bool       `json:"signed"`
	SignerName *string    `json:"signerName"`
	SignedAt   *time.Time `json:"signedAt"`
	ImageURL   *string    `json:"imageUrl"`
}

type StageSummary struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Ordinal     int     `json:"ordinal"`
}

type ProjectSummary struct {
	Name       string `json:"name"`
	ClientName string `json:"clientName"`
}

type AttachmentView struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	MimeType string `json:"mimeType"`
}

// Summary is everything a token holder may see. It never includes data of
// other stages or projects.
type Summary struct {
	Signature   SignatureView    `json:"signature"`
	Stage       StageSummary     `json:"stage"`
	Project     ProjectSummary   `json:"project"`
	Attachments []AttachmentView `json:"attachments"`
}

func (s *Service) Resolve(ctx context.Context, token string) (*Summary, error) {
	sig, err := s.lookup(ctx, token)
	if err != nil {
		return nil, err
	}
	var stage model.Stage
	if err := s.db.WithContext(ctx).
		Preload("Project").
		Preload("Attachments").
		First(&stage, sig.StageID).Error; err != nil {
		return nil, err
	}
	return &Summary{
		Signature: SignatureView{
			ID:         sig.ID,
			Signed:     sig.Signed(),
			SignerName: sig.SignerName,
			SignedAt:   sig.SignedAt,
			ImageURL:   sig.ImageURL,
		},
		Stage: StageSummary{
			ID:          stage.ID,
			Title:       stage.Title,
			Description: stage.Description,
			Ordinal:     stage.Ordinal,
		},
		Project: ProjectSummary{
			Name:       stage.Project.Name,
			ClientName: stage.Project.ClientName,
		},
		Attachments: toAttachmentViews(stage.Attachments),
	}, nil
}

// Gallery returns only the image attachments behind a token.
func (s *Service) Gallery(ctx context.Context, token string) ([]AttachmentView, error) {
	sig, err := s.lookup(ctx, token)
	if err != nil {
		return nil, err
	}
	var attachments []model.StageAttachment
	if err := s.db.WithContext(ctx).
		Where("stage_id = ?", sig.StageID).
		Order("created_at").
		Find(&attachments).Error; err != nil {
		return nil, err
	}
	images := lo.Filter(attachments, func(a model.StageAttachment, _ int) bool { return a.IsImage() })
	return toAttachmentViews(images), nil
}

func toAttachmentViews(attachments []model.StageAttachment) []AttachmentView {
	return lo.Map(attachments, func(a model.StageAttachment, _ int) AttachmentView {
		return AttachmentView{ID: a.ID, Name: a.Name, URL: a.URL, MimeType: a.MimeType}
	})
}
