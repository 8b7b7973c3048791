package model

import (
	"time"

	"gorm.io/gorm"
)

// StageSignature tracks the single-use confirmation token of a stage.
// SignedAt being non-null is the canonical "already signed" guard.
type StageSignature struct {
	gorm.Model
	StageID    uint       `gorm:"not null;uniqueIndex"`
	Stage      Stage      `gorm:"foreignKey:StageID"`
	Token      string     `gorm:"type:varchar(36);not null;uniqueIndex"`
	SignerName *string    `gorm:"type:varchar(128)"`
	SignedAt   *time.Time `gorm:"index"`
	SignerIP   *string    `gorm:"type:varchar(64)"`
	ImageURL   *string    `gorm:"type:varchar(1024)"`
	LinkSentAt *time.Time
	ExpiresAt  *time.Time `gorm:"comment:null means the token never expires"`
}

func (s *StageSignature) Signed() bool { return s.SignedAt != nil }

// Expired reports whether the token is past its expiry at now.
func (s *StageSignature) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}
