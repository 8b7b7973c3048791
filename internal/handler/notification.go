package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/hubtav/tavlist/dao/model"
	"github.com/hubtav/tavlist/internal/payload"
	"github.com/hubtav/tavlist/internal/resputil"
	"github.com/hubtav/tavlist/pkg/notify"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewNotificationMgr)
}

type NotificationMgr struct {
	name     string
	notifier *notify.Dispatcher
}

func NewNotificationMgr(conf *RegisterConfig) Manager {
	return &NotificationMgr{
		name:     "notifications",
		notifier: conf.Notifier,
	}
}

func (mgr *NotificationMgr) GetName() string { return mgr.name }

func (mgr *NotificationMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *NotificationMgr) RegisterProtected(_ *gin.RouterGroup) {}

func (mgr *NotificationMgr) RegisterAdmin(g *gin.RouterGroup) {
	g.POST("/stages/:id/signature-request", mgr.SendSignatureRequest)
	g.POST("/stages/:id/summary", mgr.SendStageSummary)
	g.POST("/projects/:id/report", mgr.SendProjectReport)
	g.POST("/projects/:id/signature-request", mgr.SendProjectSignatureRequest)
	g.POST("/whatsapp/text", mgr.SendFreeText)
	g.GET("/logs", mgr.ListLogs)
}

type (
	PhoneReq struct {
		Phone string `json:"phone"` // 为空时使用客户电话
	}

	FreeTextReq struct {
		Phone string `json:"phone" binding:"required"`
		Text  string `json:"text" binding:"required"`
	}

	ListLogsReq struct {
		ProjectID uint `form:"projectId"`
		Limit     int  `form:"limit"`
	}
)

func bindPhone(c *gin.Context) (string, bool) {
	var req PhoneReq
	if c.Request.ContentLength == 0 {
		return "", true
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return "", false
	}
	return req.Phone, true
}

// SendSignatureRequest godoc
// @Summary 通过 WhatsApp 发送签名请求
// @Description 生成或刷新阶段令牌，发送查看链接与签名链接
// @Tags Notification
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path uint true "阶段ID"
// @Param data body PhoneReq false "接收号码"
// @Success 200 {object} resputil.Response[notify.Delivery]
// @Failure 502 {object} resputil.Response[any] "网关返回错误"
// @Failure 503 {object} resputil.Response[any] "WhatsApp 未连接"
// @Router /v1/admin/notifications/stages/{id}/signature-request [post]
func (mgr *NotificationMgr) SendSignatureRequest(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	phone, ok := bindPhone(c)
	if !ok {
		return
	}
	delivery, err := mgr.notifier.SendSignatureRequest(c, id, phone)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, delivery)
}

// SendStageSummary godoc
// @Summary 通过 WhatsApp 发送阶段完成通知
// @Tags Notification
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path uint true "阶段ID"
// @Param data body PhoneReq false "接收号码"
// @Success 200 {object} resputil.Response[notify.Delivery]
// @Failure 400 {object} resputil.Response[any] "阶段未审核通过"
// @Failure 503 {object} resputil.Response[any] "WhatsApp 未连接"
// @Router /v1/admin/notifications/stages/{id}/summary [post]
func (mgr *NotificationMgr) SendStageSummary(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	phone, ok := bindPhone(c)
	if !ok {
		return
	}
	delivery, err := mgr.notifier.SendStageSummary(c, id, phone)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, delivery)
}

// SendProjectReport godoc
// @Summary 邮件发送工程报告
// @Tags Notification
// @Produce json
// @Security Bearer
// @Param id path uint true "工程ID"
// @Success 200 {object} resputil.Response[notify.Delivery]
// @Failure 502 {object} resputil.Response[any] "邮件服务返回错误"
// @Router /v1/admin/notifications/projects/{id}/report [post]
func (mgr *NotificationMgr) SendProjectReport(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	delivery, err := mgr.notifier.SendProjectReport(c, id)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, delivery)
}

// SendProjectSignatureRequest godoc
// @Summary 邮件发送工程签名链接
// @Tags Notification
// @Produce json
// @Security Bearer
// @Param id path uint true "工程ID"
// @Success 200 {object} resputil.Response[notify.Delivery]
// @Failure 400 {object} resputil.Response[any] "前置条件不满足"
// @Failure 502 {object} resputil.Response[any] "邮件服务返回错误"
// @Router /v1/admin/notifications/projects/{id}/signature-request [post]
func (mgr *NotificationMgr) SendProjectSignatureRequest(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	delivery, err := mgr.notifier.SendProjectSignatureRequest(c, id)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, delivery)
}

// SendFreeText godoc
// @Summary 发送自定义 WhatsApp 消息
// @Tags Notification
// @Accept json
// @Produce json
// @Security Bearer
// @Param data body FreeTextReq true "号码与内容"
// @Success 200 {object} resputil.Response[notify.Delivery]
// @Failure 503 {object} resputil.Response[any] "WhatsApp 未连接"
// @Router /v1/admin/notifications/whatsapp/text [post]
func (mgr *NotificationMgr) SendFreeText(c *gin.Context) {
	var req FreeTextReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	delivery, err := mgr.notifier.SendFreeText(c, req.Phone, req.Text)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, delivery)
}

// ListLogs godoc
// @Summary 通知记录
// @Tags Notification
// @Produce json
// @Security Bearer
// @Param projectId query uint false "工程ID"
// @Param limit query int false "条数，默认 50"
// @Success 200 {object} resputil.Response[[]payload.NotificationLogResp]
// @Router /v1/admin/notifications/logs [get]
func (mgr *NotificationMgr) ListLogs(c *gin.Context) {
	var req ListLogsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	logs, err := mgr.notifier.Logs(c, req.ProjectID, req.Limit)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, lo.Map(logs, func(l model.NotificationLog, _ int) payload.NotificationLogResp {
		return payload.NewNotificationLogResp(&l)
	}))
}
