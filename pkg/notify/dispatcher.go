package notify

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"k8s.io/klog/v2"

	"github.com/hubtav/tavlist/dao/model"
	"github.com/hubtav/tavlist/pkg/apperr"
	"github.com/hubtav/tavlist/pkg/metrics"
	"github.com/hubtav/tavlist/pkg/report"
	"github.com/hubtav/tavlist/pkg/signature"
)

const (
	msgNotConfigured   = "WhatsApp não configurado. Acesse Configurações para configurar."
	msgDisconnected    = "WhatsApp desconectado. Por favor, reconecte a instância nas Configurações."
	msgWhatsAppFailed  = "Erro ao enviar mensagem via WhatsApp"
	msgEmailFailed     = "Erro ao enviar email"
	msgPhoneRequired   = "Telefone do cliente é obrigatório"
	msgEmailRequired   = "Email do cliente é obrigatório"
	msgStageNotFound   = "Etapa não encontrada"
	msgProjectNotFound = "Obra não encontrada"
)

// Dispatcher composes client messages and hands them to the gateways.
type Dispatcher struct {
	db         *gorm.DB
	signatures *signature.Service
	reports    *report.Generator
	whatsapp   WhatsAppGateway
	email      EmailSender
	publicURL  string
	now        func() time.Time
}

type Option func(*Dispatcher)

// WithPublicURL sets the base of the links sent to clients.
func WithPublicURL(url string) Option {
	return func(d *Dispatcher) { d.publicURL = url }
}

func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

func NewDispatcher(
	db *gorm.DB,
	signatures *signature.Service,
	reports *report.Generator,
	whatsapp WhatsAppGateway,
	email EmailSender,
	opts ...Option,
) *Dispatcher {
	d := &Dispatcher{
		db:         db,
		signatures: signatures,
		reports:    reports,
		whatsapp:   whatsapp,
		email:      email,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Delivery is what a successful send reports back.
type Delivery struct {
	Recipient string          `json:"recipient"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Token     string          `json:"token,omitempty"`
}

type logEntry struct {
	channel   model.NotificationChannel
	kind      model.NotificationKind
	recipient string
	stageID   *uint
	projectID *uint
}

func (d *Dispatcher) record(ctx context.Context, e logEntry, result model.NotificationResult, payload json.RawMessage, cause error) {
	metrics.Notifications.WithLabelValues(string(e.channel), string(e.kind), string(result)).Inc()
	row := model.NotificationLog{
		Channel:   e.channel,
		Kind:      e.kind,
		Recipient: e.recipient,
		StageID:   e.stageID,
		ProjectID: e.projectID,
		Result:    result,
	}
	if len(payload) > 0 {
		row.Response = datatypes.JSON(payload)
	}
	if cause != nil {
		row.Error = lo.ToPtr(cause.Error())
	}
	if err := d.db.WithContext(ctx).Create(&row).Error; err != nil {
		klog.Errorf("write notification log (%s/%s): %v", e.channel, e.kind, err)
	}
}

func resultOf(err error) model.NotificationResult {
	if errors.Is(err, apperr.ErrChannelUnavailable) {
		return model.ResultChannelUnavailable
	}
	return model.ResultFailed
}

// sendWhatsApp probes the channel, then sends. It never retries.
func (d *Dispatcher) sendWhatsApp(ctx context.Context, e logEntry, text string) (*Delivery, error) {
	e.channel = model.ChannelWhatsApp
	number := NormalizePhone(e.recipient)
	if number == "" {
		return nil, apperr.Validation(msgPhoneRequired)
	}
	e.recipient = number

	cfg, err := d.ensureConnected(ctx)
	if err != nil {
		d.record(ctx, e, resultOf(err), nil, err)
		return nil, err
	}

	payload, err := d.whatsapp.SendText(ctx, cfg, number, text)
	if err != nil {
		klog.Errorf("whatsapp send to %s failed: %v", number, err)
		d.record(ctx, e, model.ResultFailed, payload, err)
		return nil, apperr.Gateway(msgWhatsAppFailed, payload, err)
	}
	d.record(ctx, e, model.ResultSent, payload, nil)
	klog.Infof("whatsapp %s sent to %s", e.kind, number)
	return &Delivery{Recipient: number, Payload: payload}, nil
}

func (d *Dispatcher) sendEmail(ctx context.Context, e logEntry, msg *Email) (*Delivery, error) {
	e.channel = model.ChannelEmail
	if d.email == nil {
		err := apperr.ChannelUnavailable("Envio de email não configurado")
		d.record(ctx, e, model.ResultChannelUnavailable, nil, err)
		return nil, err
	}
	payload, err := d.email.Send(ctx, msg)
	if err != nil {
		klog.Errorf("email %s to %s failed: %v", e.kind, e.recipient, err)
		d.record(ctx, e, model.ResultFailed, payload, err)
		message := msgEmailFailed
		var perr *ProviderError
		if errors.As(err, &perr) {
			message = perr.Message
		}
		return nil, apperr.Gateway(message, payload, err)
	}
	d.record(ctx, e, model.ResultSent, payload, nil)
	klog.Infof("email %s sent to %s", e.kind, e.recipient)
	return &Delivery{Recipient: e.recipient, Payload: payload}, nil
}

func (d *Dispatcher) loadStage(ctx context.Context, stageID uint) (*model.Stage, error) {
	var stage model.Stage
	if err := d.db.WithContext(ctx).Preload("Project").First(&stage, stageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(msgStageNotFound)
		}
		return nil, err
	}
	return &stage, nil
}

func (d *Dispatcher) loadProject(ctx context.Context, projectID uint) (*model.Project, error) {
	var project model.Project
	if err := d.db.WithContext(ctx).First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(msgProjectNotFound)
		}
		return nil, err
	}
	return &project, nil
}

func recipientPhone(phone string, project *model.Project) string {
	if phone != "" {
		return phone
	}
	return lo.FromPtr(project.ClientPhone)
}

// SendSignatureRequest issues (or refreshes) the stage token and sends the
// view and signing links over WhatsApp. phone defaults to the client phone.
func (d *Dispatcher) SendSignatureRequest(ctx context.Context, stageID uint, phone string) (*Delivery, error) {
	stage, err := d.loadStage(ctx, stageID)
	if err != nil {
		return nil, err
	}
	sig, err := d.signatures.Request(ctx, stageID)
	if err != nil {
		return nil, err
	}
	text := SignatureRequestMessage(SignatureRequest{
		ClientName:  stage.Project.ClientName,
		StageTitle:  stage.Title,
		Ordinal:     stage.Ordinal,
		ProjectName: stage.Project.Name,
		PublicURL:   d.publicURL,
		Token:       sig.Token,
	})
	delivery, err := d.sendWhatsApp(ctx, logEntry{
		kind:      model.KindSignatureRequest,
		recipient: recipientPhone(phone, &stage.Project),
		stageID:   &stage.ID,
		projectID: &stage.ProjectID,
	}, text)
	if err != nil {
		return nil, err
	}
	delivery.Token = sig.Token
	return delivery, nil
}

// SendStageSummary tells the client an approved stage is done, without asking
// for a signature.
func (d *Dispatcher) SendStageSummary(ctx context.Context, stageID uint, phone string) (*Delivery, error) {
	stage, err := d.loadStage(ctx, stageID)
	if err != nil {
		return nil, err
	}
	if stage.Status != model.StageApproved {
		return nil, apperr.Validation("Somente etapas aprovadas podem ser enviadas ao cliente")
	}
	text := StageSummaryMessage(StageSummary{
		ClientName:  stage.Project.ClientName,
		ProjectName: stage.Project.Name,
		Ordinal:     stage.Ordinal,
		StageTitle:  stage.Title,
		CompletedAt: lo.FromPtrOr(stage.ApprovedAt, stage.UpdatedAt),
		Description: lo.FromPtr(stage.Description),
	})
	return d.sendWhatsApp(ctx, logEntry{
		kind:      model.KindStageSummary,
		recipient: recipientPhone(phone, &stage.Project),
		stageID:   &stage.ID,
		projectID: &stage.ProjectID,
	}, text)
}

// SendFreeText sends an arbitrary admin-written message.
func (d *Dispatcher) SendFreeText(ctx context.Context, phone, text string) (*Delivery, error) {
	if text == "" {
		return nil, apperr.Validation("Mensagem é obrigatória")
	}
	return d.sendWhatsApp(ctx, logEntry{kind: model.KindFreeText, recipient: phone}, text)
}

// SendProjectReport emails the project report to the client. The first report
// sent for a completed project stamps its completion date.
func (d *Dispatcher) SendProjectReport(ctx context.Context, projectID uint) (*Delivery, error) {
	project, err := d.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.ClientEmail == "" {
		return nil, apperr.Validation(msgEmailRequired)
	}
	doc, err := d.reports.Document(ctx, projectID, nil, "")
	if err != nil {
		return nil, err
	}
	subject, html, err := ReportEmail(doc)
	if err != nil {
		return nil, err
	}
	delivery, err := d.sendEmail(ctx, logEntry{
		kind:      model.KindProjectReport,
		recipient: project.ClientEmail,
		projectID: &project.ID,
	}, &Email{To: []string{project.ClientEmail}, Subject: subject, HTML: html})
	if err != nil {
		return nil, err
	}

	if project.Status == model.ProjectCompleted && project.CompletedAt == nil {
		if err := d.db.WithContext(ctx).Model(&model.Project{}).
			Where("id = ? AND completed_at IS NULL", project.ID).
			Update("completed_at", d.now()).Error; err != nil {
			klog.Errorf("stamp completion of project %d: %v", project.ID, err)
		}
	}
	return delivery, nil
}

// SendProjectSignatureRequest issues a project token and emails the
// confirmation link.
func (d *Dispatcher) SendProjectSignatureRequest(ctx context.Context, projectID uint) (*Delivery, error) {
	current, err := d.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if current.ClientEmail == "" {
		return nil, apperr.Validation(msgEmailRequired)
	}
	project, err := d.signatures.RequestProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	token := lo.FromPtr(project.SignatureToken)
	subject, html, err := ProjectSignatureEmail(project.ClientName, project.Name, ProjectSignURL(d.publicURL, token))
	if err != nil {
		return nil, err
	}
	delivery, err := d.sendEmail(ctx, logEntry{
		kind:      model.KindProjectSignatureRequest,
		recipient: project.ClientEmail,
		projectID: &project.ID,
	}, &Email{To: []string{project.ClientEmail}, Subject: subject, HTML: html})
	if err != nil {
		return nil, err
	}
	delivery.Token = token
	return delivery, nil
}

// Logs lists recent delivery attempts, newest first.
func (d *Dispatcher) Logs(ctx context.Context, projectID uint, limit int) ([]model.NotificationLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := d.db.WithContext(ctx).Order("id DESC").Limit(limit)
	if projectID != 0 {
		q = q.Where("project_id = ?", projectID)
	}
	var logs []model.NotificationLog
	err := q.Find(&logs).Error
	return logs, err
}
