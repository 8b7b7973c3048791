package payload

// 定义返回值时，优先在使用到该返回值的 /internal/handler/xxx.go 中直接定义
// 当某个返回值的结构体通用时，从 /internal/handler/xxx.go 中提升至此文件中

import (
	"time"

	"github.com/samber/lo"

	"github.com/hubtav/tavlist/dao/model"
	"github.com/hubtav/tavlist/pkg/stage"
)

type (
	ProfileBrief struct {
		ID        uint    `json:"id"`
		FullName  string  `json:"fullName"`
		Email     string  `json:"email"`
		AvatarURL *string `json:"avatarUrl"`
	}

	ProjectResp struct {
		ID                uint                `json:"id"`
		Name              string              `json:"name"`
		ClientName        string              `json:"clientName"`
		ClientEmail       string              `json:"clientEmail"`
		ClientPhone       *string             `json:"clientPhone"`
		Status            model.ProjectStatus `json:"status"`
		StartDate         time.Time           `json:"startDate"`
		ExpectedDate      time.Time           `json:"expectedDate"`
		CompletedAt       *time.Time          `json:"completedAt"`
		CreatorID         uint                `json:"creatorId"`
		SignatureUnlocked bool                `json:"signatureUnlocked"`
		Signed            bool                `json:"signed"`
		SignerName        *string             `json:"signerName"`
		SignedAt          *time.Time          `json:"signedAt"`
		CreatedAt         time.Time           `json:"createdAt"`
		UpdatedAt         time.Time           `json:"updatedAt"`
	}

	ProjectListItem struct {
		ProjectResp
		TotalStages    int `json:"totalStages"`
		ApprovedStages int `json:"approvedStages"`
		Progress       int `json:"progress"`
	}

	ItemResp struct {
		ID          uint   `json:"id"`
		Description string `json:"description"`
		ProductLine string `json:"productLine"`
		Done        bool   `json:"done"`
		Ordinal     int    `json:"ordinal"`
	}

	AttachmentResp struct {
		ID         uint      `json:"id"`
		StageID    uint      `json:"stageId"`
		Name       string    `json:"name"`
		MimeType   string    `json:"mimeType"`
		Size       int64     `json:"size"`
		URL        string    `json:"url"`
		UploaderID uint      `json:"uploaderId"`
		CreatedAt  time.Time `json:"createdAt"`
	}

	StageResp struct {
		ID              uint              `json:"id"`
		ProjectID       uint              `json:"projectId"`
		Title           string            `json:"title"`
		Description     *string           `json:"description"`
		Ordinal         int               `json:"ordinal"`
		DueDate         *time.Time        `json:"dueDate"`
		Status          model.StageStatus `json:"status"`
		Notes           *string           `json:"notes"`
		SubmissionNotes *string           `json:"submissionNotes"`
		ReviewNotes     *string           `json:"reviewNotes"`
		ApprovedAt      *time.Time        `json:"approvedAt"`
		Responsibles    []ProfileBrief    `json:"responsibles"`
		Items           []ItemResp        `json:"items"`
		Attachments     []AttachmentResp  `json:"attachments"`
		CreatedAt       time.Time         `json:"createdAt"`
		UpdatedAt       time.Time         `json:"updatedAt"`
	}

	ProjectDetailResp struct {
		Project  ProjectResp `json:"project"`
		Stages   []StageResp `json:"stages"`
		Approved int         `json:"approved"`
		Progress int         `json:"progress"`
	}

	SignatureResp struct {
		ID         uint       `json:"id"`
		StageID    uint       `json:"stageId"`
		Token      string     `json:"token"`
		Signed     bool       `json:"signed"`
		SignerName *string    `json:"signerName"`
		SignedAt   *time.Time `json:"signedAt"`
		SignerIP   *string    `json:"signerIp"`
		ImageURL   *string    `json:"imageUrl"`
		LinkSentAt *time.Time `json:"linkSentAt"`
		ExpiresAt  *time.Time `json:"expiresAt"`
	}

	NotificationLogResp struct {
		ID        uint                      `json:"id"`
		Channel   model.NotificationChannel `json:"channel"`
		Kind      model.NotificationKind    `json:"kind"`
		Recipient string                    `json:"recipient"`
		StageID   *uint                     `json:"stageId"`
		ProjectID *uint                     `json:"projectId"`
		Result    model.NotificationResult  `json:"result"`
		Error     *string                   `json:"error"`
		Response  any                       `json:"response"`
		CreatedAt time.Time                 `json:"createdAt"`
	}

	WhatsAppConfigResp struct {
		InstanceName string    `json:"instanceName"`
		APIURL       string    `json:"apiUrl"`
		APIKeySet    bool      `json:"apiKeySet"`
		Connected    bool      `json:"connected"`
		UpdatedAt    time.Time `json:"updatedAt"`
	}
)

func NewProfileBrief(p *model.Profile) ProfileBrief {
	return ProfileBrief{ID: p.ID, FullName: p.FullName, Email: p.Email, AvatarURL: p.AvatarURL}
}

func NewProjectResp(p *model.Project) ProjectResp {
	return ProjectResp{
		ID:                p.ID,
		Name:              p.Name,
		ClientName:        p.ClientName,
		ClientEmail:       p.ClientEmail,
		ClientPhone:       p.ClientPhone,
		Status:            p.Status,
		StartDate:         p.StartDate,
		ExpectedDate:      p.ExpectedDate,
		CompletedAt:       p.CompletedAt,
		CreatorID:         p.CreatorID,
		SignatureUnlocked: p.SignatureUnlocked,
		Signed:            p.Signed(),
		SignerName:        p.SignerName,
		SignedAt:          p.SignedAt,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func NewItemResp(it *model.StageItem) ItemResp {
	return ItemResp{
		ID:          it.ID,
		Description: it.Description,
		ProductLine: it.ProductLine,
		Done:        it.Done,
		Ordinal:     it.Ordinal,
	}
}

func NewItemResps(items []model.StageItem) []ItemResp {
	return lo.Map(items, func(it model.StageItem, _ int) ItemResp { return NewItemResp(&it) })
}

func NewAttachmentResp(a *model.StageAttachment) AttachmentResp {
	return AttachmentResp{
		ID:         a.ID,
		StageID:    a.StageID,
		Name:       a.Name,
		MimeType:   a.MimeType,
		Size:       a.Size,
		URL:        a.URL,
		UploaderID: a.UploaderID,
		CreatedAt:  a.CreatedAt,
	}
}

func NewAttachmentResps(attachments []model.StageAttachment) []AttachmentResp {
	return lo.Map(attachments, func(a model.StageAttachment, _ int) AttachmentResp { return NewAttachmentResp(&a) })
}

// NewStageResp maps a bare stage. Relations that were not preloaded come out empty.
func NewStageResp(s *model.Stage) StageResp {
	return StageResp{
		ID:              s.ID,
		ProjectID:       s.ProjectID,
		Title:           s.Title,
		Description:     s.Description,
		Ordinal:         s.Ordinal,
		DueDate:         s.DueDate,
		Status:          s.Status,
		Notes:           s.Notes,
		SubmissionNotes: s.SubmissionNotes,
		ReviewNotes:     s.ReviewNotes,
		ApprovedAt:      s.ApprovedAt,
		Responsibles:    []ProfileBrief{},
		Items:           NewItemResps(s.Items),
		Attachments:     NewAttachmentResps(s.Attachments),
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func NewStageViewResp(v *stage.View) StageResp {
	resp := NewStageResp(&v.Stage)
	resp.Responsibles = lo.Map(v.Responsibles, func(p model.Profile, _ int) ProfileBrief { return NewProfileBrief(&p) })
	return resp
}

func NewStageViewResps(views []stage.View) []StageResp {
	return lo.Map(views, func(v stage.View, _ int) StageResp { return NewStageViewResp(&v) })
}

func NewSignatureResp(s *model.StageSignature) SignatureResp {
	return SignatureResp{
		ID:         s.ID,
		StageID:    s.StageID,
		Token:      s.Token,
		Signed:     s.Signed(),
		SignerName: s.SignerName,
		SignedAt:   s.SignedAt,
		SignerIP:   s.SignerIP,
		ImageURL:   s.ImageURL,
		LinkSentAt: s.LinkSentAt,
		ExpiresAt:  s.ExpiresAt,
	}
}

func NewNotificationLogResp(l *model.NotificationLog) NotificationLogResp {
	var response any
	if len(l.Response) > 0 {
		response = l.Response
	}
	return NotificationLogResp{
		ID:        l.ID,
		Channel:   l.Channel,
		Kind:      l.Kind,
		Recipient: l.Recipient,
		StageID:   l.StageID,
		ProjectID: l.ProjectID,
		Result:    l.Result,
		Error:     l.Error,
		Response:  response,
		CreatedAt: l.CreatedAt,
	}
}

// NewWhatsAppConfigResp never echoes the API key back.
func NewWhatsAppConfigResp(c *model.WhatsAppConfig) WhatsAppConfigResp {
	return WhatsAppConfigResp{
		InstanceName: c.InstanceName,
		APIURL:       c.APIURL,
		APIKeySet:    c.APIKey != "",
		Connected:    c.Connected,
		UpdatedAt:    c.UpdatedAt,
	}
}
