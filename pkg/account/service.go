// Package account holds local credentials, profiles and platform roles.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hubtav/tavlist/dao/model"
	"github.com/hubtav/tavlist/pkg/apperr"
)

const minPasswordLen = 6

// ErrInvalidCredentials is returned for an unknown email or a wrong password.
var ErrInvalidCredentials = errors.New("email ou senha inválidos")

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ProfileView is a profile merged with its role.
type ProfileView struct {
	ID        uint          `json:"id"`
	UserID    string        `json:"userId"`
	FullName  string        `json:"fullName"`
	Email     string        `json:"email"`
	AvatarURL *string       `json:"avatarUrl"`
	Role      model.AppRole `json:"role"`
	CreatedAt time.Time     `json:"createdAt"`
}

func toView(p *model.Profile, role model.AppRole) *ProfileView {
	return &ProfileView{
		ID:        p.ID,
		UserID:    p.UserID,
		FullName:  p.FullName,
		Email:     p.Email,
		AvatarURL: p.AvatarURL,
		Role:      lo.Ternary(role.Valid(), role, model.RoleCollaborator),
		CreatedAt: p.CreatedAt,
	}
}

// Authenticate checks an email/password pair.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*ProfileView, error) {
	var profile model.Profile
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if profile.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	role, err := s.RoleOf(ctx, profile.UserID)
	if err != nil {
		return nil, err
	}
	return toView(&profile, role), nil
}

// RoleOf returns the role of an auth user reference; users without a row are collaborators.
func (s *Service) RoleOf(ctx context.Context, userID string) (model.AppRole, error) {
	var role model.UserRole
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.RoleCollaborator, nil
	}
	if err != nil {
		return "", err
	}
	return role.Role, nil
}

func (s *Service) Get(ctx context.Context, profileID uint) (*ProfileView, error) {
	var profile model.Profile
	if err := s.db.WithContext(ctx).First(&profile, profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Usuário não encontrado")
		}
		return nil, err
	}
	role, err := s.RoleOf(ctx, profile.UserID)
	if err != nil {
		return nil, err
	}
	return toView(&profile, role), nil
}

// List returns every profile with its role, ordered by name.
func (s *Service) List(ctx context.Context) ([]ProfileView, error) {
	var profiles []model.Profile
	if err := s.db.WithContext(ctx).Order("full_name").Find(&profiles).Error; err != nil {
		return nil, err
	}
	var roles []model.UserRole
	if err := s.db.WithContext(ctx).Find(&roles).Error; err != nil {
		return nil, err
	}
	byUser := lo.SliceToMap(roles, func(r model.UserRole) (string, model.AppRole) { return r.UserID, r.Role })
	return lo.Map(profiles, func(p model.Profile, _ int) ProfileView {
		return *toView(&p, lo.ValueOr(byUser, p.UserID, model.RoleCollaborator))
	}), nil
}

type CreateInput struct {
	FullName string        `json:"fullName" binding:"required"`
	Email    string        `json:"email" binding:"required"`
	Password string        `json:"password" binding:"required"`
	Role     model.AppRole `json:"role"`
}

// Create registers a new user with a local password.
func (s *Service) Create(ctx context.Context, in CreateInput) (*ProfileView, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.FullName == "" {
		return nil, apperr.Validation("Nome é obrigatório")
	}
	if err := checkmail.ValidateFormat(in.Email); err != nil {
		return nil, apperr.Validation("Email inválido")
	}
	if len(in.Password) < minPasswordLen {
		return nil, apperr.Validation("A senha deve ter pelo menos %d caracteres", minPasswordLen)
	}
	if in.Role == "" {
		in.Role = model.RoleCollaborator
	}
	if !in.Role.Valid() {
		return nil, apperr.Validation("Papel inválido: %s", in.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	profile := model.Profile{
		UserID:       uuid.NewString(),
		FullName:     in.FullName,
		Email:        in.Email,
		PasswordHash: string(hash),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Profile{}).Where("email = ?", in.Email).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return apperr.Validation("Email já cadastrado")
		}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		return tx.Create(&model.UserRole{UserID: profile.UserID, Role: in.Role}).Error
	})
	if err != nil {
		return nil, err
	}
	return toView(&profile, in.Role), nil
}

// SetRole promotes or demotes a user.
func (s *Service) SetRole(ctx context.Context, profileID uint, role model.AppRole) (*ProfileView, error) {
	if !role.Valid() {
		return nil, apperr.Validation("Papel inválido: %s", role)
	}
	var profile model.Profile
	if err := s.db.WithContext(ctx).First(&profile, profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Usuário não encontrado")
		}
		return nil, err
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]any{"role": role, "updated_at": time.Now()}),
	}).Create(&model.UserRole{UserID: profile.UserID, Role: role}).Error
	if err != nil {
		return nil, err
	}
	return toView(&profile, role), nil
}
