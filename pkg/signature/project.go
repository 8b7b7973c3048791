package signature

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"k8s.io/klog/v2"

	"github.com/hubtav/tavlist/dao/model"
	"github.com/hubtav/tavlist/pkg/apperr"
	"github.com/hubtav/tavlist/pkg/metrics"
)

const msgProjectSigned = "Esta obra já foi assinada pelo cliente"

// ReleaseProject unlocks the project-level signature.
func (s *Service) ReleaseProject(ctx context.Context, projectID uint) (*model.Project, error) {
	res := s.db.WithContext(ctx).Model(&model.Project{}).
		Where("id = ?", projectID).
		Update("signature_unlocked", true)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("Obra não encontrada")
	}
	var project model.Project
	if err := s.db.WithContext(ctx).First(&project, projectID).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// RequestProject issues a fresh token for a completed, released and unsigned project.
func (s *Service) RequestProject(ctx context.Context, projectID uint) (*model.Project, error) {
	var project model.Project
	if err := s.db.WithContext(ctx).First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Obra não encontrada")
		}
		return nil, err
	}
	switch {
	case project.Signed():
		return nil, apperr.AlreadySigned(msgProjectSigned)
	case project.Status != model.ProjectCompleted:
		return nil, apperr.Validation("A obra precisa estar concluída para solicitar assinatura")
	case !project.SignatureUnlocked:
		return nil, apperr.Validation("A assinatura desta obra ainda não foi liberada")
	}

	token := s.newToken()
	res := s.db.WithContext(ctx).Model(&model.Project{}).
		Where("id = ? AND signed_at IS NULL", projectID).
		Update("signature_token", token)
	if res.Error != nil {
		return nil, fmt.Errorf("store project token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.AlreadySigned(msgProjectSigned)
	}
	project.SignatureToken = &token
	return &project, nil
}

type ProjectSignatureView struct {
	ProjectID  uint       `json:"projectId"`
	Name       string     `json:"name"`
	ClientName string     `json:"clientName"`
	Status     string     `json:"status"`
	Signed     bool       `json:"signed"`
	SignerName *string    `json:"signerName"`
	SignedAt   *time.Time `json:"signedAt"`
	ImageURL   *string    `json:"imageUrl"`
}

func (s *Service) lookupProject(ctx context.Context, token string) (*model.Project, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperr.NotFound(msgInvalidToken)
	}
	var project model.Project
	if err := s.db.WithContext(ctx).Where("signature_token = ?", token).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(msgInvalidToken)
		}
		return nil, err
	}
	return &project, nil
}

func (s *Service) ResolveProject(ctx context.Context, token string) (*ProjectSignatureView, error) {
	project, err := s.lookupProject(ctx, token)
	if err != nil {
		return nil, err
	}
	return &ProjectSignatureView{
		ProjectID:  project.ID,
		Name:       project.Name,
		ClientName: project.ClientName,
		Status:     project.Status.Label(),
		Signed:     project.Signed(),
		SignerName: project.SignerName,
		SignedAt:   project.SignedAt,
		ImageURL:   project.SignatureImageURL,
	}, nil
}

// RecordProject signs a project. The image is optional here.
func (s *Service) RecordProject(ctx context.Context, in RecordInput) (*ProjectSignatureView, error) {
	if strings.TrimSpace(in.Token) == "" || strings.TrimSpace(in.SignerName) == "" {
		return nil, apperr.Validation("Token e nome são obrigatórios")
	}
	project, err := s.lookupProject(ctx, in.Token)
	if err != nil {
		return nil, err
	}
	if project.Signed() {
		return nil, apperr.AlreadySigned(msgProjectSigned)
	}
	name, err := s.cleanSignerName(in.SignerName)
	if err != nil {
		return nil, err
	}

	now := s.now()
	updates := map[string]any{
		"signer_name": name,
		"signed_at":   now,
		"signer_ip":   lo.Ternary(strings.TrimSpace(in.ClientIP) == "", UnavailableIP, strings.TrimSpace(in.ClientIP)),
	}
	if strings.TrimSpace(in.ImageDataURL) != "" {
		img, err := decodeDataURL(in.ImageDataURL, s.maxImageBytes)
		if err != nil {
			return nil, err
		}
		objectPath := fmt.Sprintf("obra-%s-%d.%s", *project.SignatureToken, now.UnixMilli(), img.Ext)
		url, err := s.store.Upload(ctx, s.bucket, objectPath, img.Data, img.ContentType)
		if err != nil {
			return nil, apperr.Storage("Erro ao fazer upload da assinatura", err)
		}
		updates["signature_image_url"] = url
	}

	res := s.db.WithContext(ctx).Model(&model.Project{}).
		Where("signature_token = ? AND signed_at IS NULL", *project.SignatureToken).
		Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("save project signature: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.AlreadySigned(msgProjectSigned)
	}
	metrics.SignaturesRecorded.WithLabelValues("project").Inc()
	klog.Infof("project %d signed by %s", project.ID, name)
	return s.ResolveProject(ctx, *project.SignatureToken)
}
