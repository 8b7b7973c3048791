package stage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"

	"gorm.io/gorm"
	"k8s.io/klog/v2"

	"github.com/hubtav/tavlist/dao/model"
	"github.com/hubtav/tavlist/pkg/apperr"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

type AttachmentInput struct {
	StageID    uint
	UploaderID uint
	Name       string
	MimeType   string
	Data       []byte
}

// AddAttachment uploads the file first; no row is written when the upload fails.
func (s *Service) AddAttachment(ctx context.Context, in AttachmentInput) (*model.StageAttachment, error) {
	name := strings.TrimSpace(path.Base(strings.ReplaceAll(in.Name, `\`, "/")))
	if name == "" || name == "." || name == "/" {
		return nil, apperr.Validation("Nome do arquivo inválido")
	}
	if len(in.Data) == 0 {
		return nil, apperr.Validation("Arquivo vazio")
	}
	var stage model.Stage
	if err := s.db.WithContext(ctx).Select("id").First(&stage, in.StageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Etapa não encontrada")
		}
		return nil, err
	}

	mimeType := in.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	safe := strings.ReplaceAll(unsafeName.ReplaceAllString(name, "_"), "..", "_")
	objectPath := fmt.Sprintf("%d/%d-%s", in.StageID, s.now().UnixMilli(), safe)
	url, err := s.store.Upload(ctx, s.bucket, objectPath, in.Data, mimeType)
	if err != nil {
		return nil, apperr.Storage("Falha ao enviar o arquivo", err)
	}

	attachment := model.StageAttachment{
		StageID:     in.StageID,
		Name:        name,
		MimeType:    mimeType,
		Size:        int64(len(in.Data)),
		URL:         url,
		StoragePath: objectPath,
		UploaderID:  in.UploaderID,
	}
	if err := s.db.WithContext(ctx).Create(&attachment).Error; err != nil {
		return nil, fmt.Errorf("create attachment: %w", err)
	}
	return &attachment, nil
}

func (s *Service) ListAttachments(ctx context.Context, stageID uint) ([]model.StageAttachment, error) {
	var attachments []model.StageAttachment
	err := s.db.WithContext(ctx).Where("stage_id = ?", stageID).Order("created_at").Find(&attachments).Error
	return attachments, err
}

// DeleteAttachment removes the row and then, best effort, the stored object.
// Only the uploader or an admin may delete.
func (s *Service) DeleteAttachment(ctx context.Context, stageID, attachmentID, actorID uint, isAdmin bool) error {
	var attachment model.StageAttachment
	if err := s.db.WithContext(ctx).
		Where("id = ? AND stage_id = ?", attachmentID, stageID).
		First(&attachment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Anexo não encontrado")
		}
		return err
	}
	if !isAdmin && attachment.UploaderID != actorID {
		return apperr.Permission("Apenas quem enviou o anexo pode removê-lo")
	}
	if err := s.db.WithContext(ctx).Unscoped().Delete(&attachment).Error; err != nil {
		return err
	}
	if err := s.store.Remove(ctx, s.bucket, attachment.StoragePath); err != nil {
		klog.Warningf("remove attachment object %s: %v", attachment.StoragePath, err)
	}
	return nil
}
