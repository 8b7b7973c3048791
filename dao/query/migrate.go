package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"k8s.io/klog/v2"

	"github.com/hubtav/tavlist/dao/model"
)

func migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "202610180001",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(
					&model.Profile{},
					&model.UserRole{},
					&model.Project{},
					&model.Stage{},
					&model.StageAssignee{},
					&model.StageItem{},
					&model.StageAttachment{},
					&model.StageSignature{},
					&model.WhatsAppConfig{},
				)
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(
					"stage_signatures", "stage_attachments", "stage_items", "stage_assignees",
					"stages", "projects", "user_roles", "profiles", "whats_app_configs",
				)
			},
		},
		{
			ID: "202610180002",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&model.NotificationLog{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("notification_logs")
			},
		},
	}
}

// Migrate brings the schema up to date.
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, migrations())
	if err := m.Migrate(); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// RollbackLast undoes the most recent migration.
func RollbackLast(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, migrations())
	if err := m.RollbackLast(); err != nil {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}

// EnsureAdmin creates the bootstrap administrator when no profile with that email exists.
func EnsureAdmin(ctx context.Context, db *gorm.DB, email, password, fullName string) error {
	if email == "" || password == "" {
		return nil
	}
	var existing model.Profile
	err := db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if fullName == "" {
		fullName = "Administrador"
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile := model.Profile{
			UserID:       uuid.NewString(),
			FullName:     fullName,
			Email:        email,
			PasswordHash: string(hash),
		}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		if err := tx.Create(&model.UserRole{UserID: profile.UserID, Role: model.RoleAdmin}).Error; err != nil {
			return err
		}
		klog.Infof("bootstrap admin %s created", email)
		return nil
	})
}
