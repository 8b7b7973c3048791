package model

import (
	"time"

	"gorm.io/gorm"
)

// Stage 工程中的一个阶段（etapa）
type Stage struct {
	gorm.Model
	ProjectID   uint        `gorm:"not null;uniqueIndex:idx_stage_project_ordinal;comment:owning project"`
	Project     Project     `gorm:"foreignKey:ProjectID"`
	Title       string      `gorm:"type:varchar(256);not null"`
	Description *string     `gorm:"type:text"`
	Ordinal     int         `gorm:"not null;uniqueIndex:idx_stage_project_ordinal;comment:1 + max ordinal at creation, never compacted"`
	DueDate     *time.Time  `gorm:"comment:prazo"`
	Status      StageStatus `gorm:"type:varchar(32);not null;default:pendente;index"`

	// Notes is the current observation shown to both sides: the collaborator's
	// submission note or, after a rejection, the rejection reason.
	Notes           *string    `gorm:"type:text;comment:observacoes"`
	SubmissionNotes *string    `gorm:"type:text;comment:last note sent with a submission"`
	ReviewNotes     *string    `gorm:"type:text;comment:last rejection reason"`
	ApprovedAt      *time.Time `gorm:"comment:set when the stage is approved"`

	// ResponsibleID is the legacy single assignee. Read only, superseded by Assignees.
	ResponsibleID *uint    `gorm:"comment:legacy responsavel_id"`
	Responsible   *Profile `gorm:"foreignKey:ResponsibleID"`

	Assignees   []StageAssignee   `gorm:"foreignKey:StageID"`
	Items       []StageItem       `gorm:"foreignKey:StageID"`
	Attachments []StageAttachment `gorm:"foreignKey:StageID"`
}

// StageAssignee is the stage <-> profile junction (etapa_responsaveis).
type StageAssignee struct {
	gorm.Model
	StageID   uint    `gorm:"not null;uniqueIndex:idx_stage_assignee"`
	ProfileID uint    `gorm:"not null;uniqueIndex:idx_stage_assignee"`
	Profile   Profile `gorm:"foreignKey:ProfileID"`
}

// StageItem is one checklist line of a stage.
type StageItem struct {
	gorm.Model
	StageID     uint   `gorm:"not null;index"`
	Description string `gorm:"type:text;not null"`
	ProductLine string `gorm:"type:varchar(128);not null;default:''"`
	Done        bool   `gorm:"not null;default:false"`
	Ordinal     int    `gorm:"not null"`
}

// StageAttachment is an uploaded evidence file.
type StageAttachment struct {
	gorm.Model
	StageID     uint    `gorm:"not null;index"`
	Name        string  `gorm:"type:varchar(256);not null"`
	MimeType    string  `gorm:"type:varchar(128);not null"`
	Size        int64   `gorm:"not null"`
	URL         string  `gorm:"type:varchar(1024);not null"`
	StoragePath string  `gorm:"type:varchar(512);not null"`
	UploaderID  uint    `gorm:"not null"`
	Uploader    Profile `gorm:"foreignKey:UploaderID"`
}

func (a *StageAttachment) IsImage() bool {
	return len(a.MimeType) > len("image/") && a.MimeType[:len("image/")] == "image/"
}
