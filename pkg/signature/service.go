// Package signature runs the single-use confirmation links that let a client
// sign for an approved stage (and, secondarily, for a whole project).
package signature

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"k8s.io/klog/v2"

	"github.com/hubtav/tavlist/dao/model"
	"github.com/hubtav/tavlist/pkg/apperr"
	"github.com/hubtav/tavlist/pkg/metrics"
	"github.com/hubtav/tavlist/pkg/storage"
)

const (
	DefaultBucket = "assinaturas"
	// UnavailableIP is stored when no proxy header carries the client address.
	UnavailableIP = "Não disponível"
)

const (
	msgInvalidToken  = "Token inválido ou não encontrado"
	msgStageSigned   = "Esta etapa já foi assinada"
	msgMissingFields = "Token, assinatura e nome são obrigatórios"
)

type Service struct {
	db            *gorm.DB
	store         storage.Store
	bucket        string
	ttl           time.Duration
	maxImageBytes int
	now           func() time.Time
	newToken      func() string
	validate      *validator.Validate
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithTokenTTL makes links expire ttl after they are (re)sent. Zero keeps them forever.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) { s.ttl = ttl }
}

func WithMaxImageBytes(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxImageBytes = n
		}
	}
}

func WithBucket(bucket string) Option {
	return func(s *Service) {
		if bucket != "" {
			s.bucket = bucket
		}
	}
}

func NewService(db *gorm.DB, store storage.Store, opts ...Option) *Service {
	s := &Service{
		db:            db,
		store:         store,
		bucket:        DefaultBucket,
		maxImageBytes: DefaultMaxImageBytes,
		now:           time.Now,
		newToken:      uuid.NewString,
		validate:      newValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) expiry(now time.Time) *time.Time {
	if s.ttl <= 0 {
		return nil
	}
	exp := now.Add(s.ttl)
	return &exp
}

// Request issues (or re-sends) the signature link of an approved stage.
func (s *Service) Request(ctx context.Context, stageID uint) (*model.StageSignature, error) {
	var sig model.StageSignature
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stage model.Stage
		if err := tx.Select("id", "status").First(&stage, stageID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Etapa não encontrada")
			}
			return err
		}
		if stage.Status != model.StageApproved {
			return apperr.Validation("Só é possível solicitar assinatura de etapas aprovadas")
		}

		now := s.now()
		expiresAt := s.expiry(now)
		err := tx.Where("stage_id = ?", stageID).First(&sig).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			sig = model.StageSignature{
				StageID:    stageID,
				Token:      s.newToken(),
				LinkSentAt: &now,
				ExpiresAt:  expiresAt,
			}
			return tx.Create(&sig).Error
		case err != nil:
			return err
		case sig.Signed():
			return apperr.AlreadySigned(msgStageSigned)
		default:
			if err := tx.Model(&sig).Updates(map[string]any{
				"link_sent_at": now,
				"expires_at":   expiresAt,
			}).Error; err != nil {
				return err
			}
			sig.LinkSentAt = &now
			sig.ExpiresAt = expiresAt
			return nil
		}
	})
	if err != nil {
		return nil, err
	}
	klog.Infof("signature link ready for stage %d", stageID)
	return &sig, nil
}

// Revoke rotates the token of an unsigned record so the old link stops working.
func (s *Service) Revoke(ctx context.Context, stageID uint) (*model.StageSignature, error) {
	var sig model.StageSignature
	if err := s.db.WithContext(ctx).Where("stage_id = ?", stageID).First(&sig).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Nenhuma assinatura solicitada para esta etapa")
		}
		return nil, err
	}
	token := s.newToken()
	res := s.db.WithContext(ctx).Model(&model.StageSignature{}).
		Where("id = ? AND signed_at IS NULL", sig.ID).
		Update("token", token)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.AlreadySigned(msgStageSigned)
	}
	sig.Token = token
	klog.Infof("signature token of stage %d revoked", stageID)
	return &sig, nil
}

// lookup resolves a live token. Unknown and expired tokens look the same.
func (s *Service) lookup(ctx context.Context, token string) (*model.StageSignature, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperr.NotFound(msgInvalidToken)
	}
	var sig model.StageSignature
	if err := s.db.WithContext(ctx).Where("token = ?", token).First(&sig).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(msgInvalidToken)
		}
		return nil, err
	}
	if !sig.Signed() && sig.Expired(s.now()) {
		return nil, apperr.NotFound(msgInvalidToken)
	}
	return &sig, nil
}

type RecordInput struct {
	Token        string
	SignerName   string
	ImageDataURL string
	ClientIP     string
}

// Record stores the client's signature. The final write only succeeds while the
// record is still unsigned, so concurrent submissions yield one winner.
func (s *Service) Record(ctx context.Context, in RecordInput) (*model.StageSignature, error) {
	if strings.TrimSpace(in.Token) == "" || strings.TrimSpace(in.ImageDataURL) == "" ||
		strings.TrimSpace(in.SignerName) == "" {
		return nil, apperr.Validation(msgMissingFields)
	}
	sig, err := s.lookup(ctx, in.Token)
	if err != nil {
		return nil, err
	}
	if sig.Signed() {
		return nil, apperr.AlreadySigned(msgStageSigned)
	}
	name, err := s.cleanSignerName(in.SignerName)
	if err != nil {
		return nil, err
	}
	img, err := decodeDataURL(in.ImageDataURL, s.maxImageBytes)
	if err != nil {
		return nil, err
	}

	now := s.now()
	objectPath := fmt.Sprintf("etapa-%s-%d.%s", sig.Token, now.UnixMilli(), img.Ext)
	url, err := s.store.Upload(ctx, s.bucket, objectPath, img.Data, img.ContentType)
	if err != nil {
		return nil, apperr.Storage("Erro ao fazer upload da assinatura", err)
	}

	ip := lo.Ternary(strings.TrimSpace(in.ClientIP) == "", UnavailableIP, strings.TrimSpace(in.ClientIP))
	res := s.db.WithContext(ctx).Model(&model.StageSignature{}).
		Where("token = ? AND signed_at IS NULL", sig.Token).
		Updates(map[string]any{
			"signer_name": name,
			"signed_at":   now,
			"signer_ip":   ip,
			"image_url":   url,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("save signature: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		klog.Warningf("signature %d lost the race, orphaned object %s", sig.ID, objectPath)
		return nil, apperr.AlreadySigned(msgStageSigned)
	}
	metrics.SignaturesRecorded.WithLabelValues("stage").Inc()
	klog.Infof("stage %d signed by %s", sig.StageID, name)

	sig.SignerName = &name
	sig.SignedAt = &now
	sig.SignerIP = &ip
	sig.ImageURL = &url
	return sig, nil
}

// ListForStages returns the signature records of the given stages.
func (s *Service) ListForStages(ctx context.Context, stageIDs []uint) ([]model.StageSignature, error) {
	if len(stageIDs) == 0 {
		return []model.StageSignature{}, nil
	}
	var sigs []model.StageSignature
	err := s.db.WithContext(ctx).Where("stage_id IN ?", lo.Uniq(stageIDs)).Order("stage_id").Find(&sigs).Error
	return sigs, err
}
