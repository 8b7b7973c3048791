package model

import "gorm.io/gorm"

// Profile is the display record of a user.
type Profile struct {
	gorm.Model
	UserID       string  `gorm:"type:varchar(64);not null;uniqueIndex;comment:auth user reference"`
	FullName     string  `gorm:"type:varchar(256);not null"`
	Email        string  `gorm:"type:varchar(256);not null;uniqueIndex"`
	AvatarURL    *string `gorm:"type:varchar(1024)"`
	PasswordHash string  `gorm:"type:varchar(128);not null" json:"-"`
}

// UserRole is keyed by the auth user reference, not by the profile id.
type UserRole struct {
	gorm.Model
	UserID string  `gorm:"type:varchar(64);not null;uniqueIndex"`
	Role   AppRole `gorm:"type:varchar(32);not null;default:colaborador"`
}
