package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WhatsAppConfig is the singleton Evolution API configuration row.
type WhatsAppConfig struct {
	gorm.Model
	InstanceName string  `gorm:"type:varchar(128);not null"`
	APIURL       string  `gorm:"type:varchar(512);not null"`
	APIKey       string  `gorm:"type:varchar(256);not null"`
	Connected    bool    `gorm:"not null;default:false;comment:result of the last probe"`
	QRCode       *string `gorm:"type:text"`
}

// NotificationLog is an append-only audit of delivery attempts. Nothing reads it to retry.
type NotificationLog struct {
	gorm.Model
	Channel   NotificationChannel `gorm:"type:varchar(16);not null;index"`
	Kind      NotificationKind    `gorm:"type:varchar(32);not null"`
	Recipient string              `gorm:"type:varchar(256);not null"`
	StageID   *uint               `gorm:"index"`
	ProjectID *uint               `gorm:"index"`
	Result    NotificationResult  `gorm:"type:varchar(32);not null"`
	Error     *string             `gorm:"type:text"`
	Response  datatypes.JSON      `gorm:"comment:provider payload"`
}
