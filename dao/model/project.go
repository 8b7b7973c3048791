package model

import (
	"time"

	"gorm.io/gorm"
)

// Project 工程（obra），一个客户的一次施工
type Project struct {
	gorm.Model
	Name         string        `gorm:"type:varchar(256);not null;comment:project name"`
	ClientName   string        `gorm:"type:varchar(256);not null;comment:client display name"`
	ClientEmail  string        `gorm:"type:varchar(256);not null;comment:client email"`
	ClientPhone  *string       `gorm:"type:varchar(32);comment:client phone, free format"`
	Status       ProjectStatus `gorm:"type:varchar(32);not null;default:nao_iniciada;index;comment:project status"`
	StartDate    time.Time     `gorm:"not null;comment:start date"`
	ExpectedDate time.Time     `gorm:"not null;comment:expected completion date"`
	CompletedAt  *time.Time    `gorm:"comment:stamped the first time a completed-state report is sent"`

	CreatorID uint    `gorm:"not null;comment:creator profile id"`
	Creator   Profile `gorm:"foreignKey:CreatorID"`

	// Project-level receipt confirmation
	SignatureUnlocked bool       `gorm:"not null;default:false;comment:admin released the project signature"`
	SignatureToken    *string    `gorm:"type:varchar(36);uniqueIndex;comment:single-use signature token"`
	SignedAt          *time.Time `gorm:"comment:non-null means already signed"`
	SignerName        *string    `gorm:"type:varchar(128)"`
	SignerIP          *string    `gorm:"type:varchar(64)"`
	SignatureImageURL *string    `gorm:"type:varchar(1024)"`

	Stages []Stage `gorm:"foreignKey:ProjectID"`
}

func (p *Project) Signed() bool { return p.SignedAt != nil }
