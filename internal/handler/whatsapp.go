package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/hubtav/tavlist/internal/payload"
	"github.com/hubtav/tavlist/internal/resputil"
	"github.com/hubtav/tavlist/pkg/notify"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewWhatsAppMgr)
}

type WhatsAppMgr struct {
	name     string
	notifier *notify.Dispatcher
}

func NewWhatsAppMgr(conf *RegisterConfig) Manager {
	return &WhatsAppMgr{
		name:     "whatsapp",
		notifier: conf.Notifier,
	}
}

func (mgr *WhatsAppMgr) GetName() string { return mgr.name }

func (mgr *WhatsAppMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *WhatsAppMgr) RegisterProtected(_ *gin.RouterGroup) {}

func (mgr *WhatsAppMgr) RegisterAdmin(g *gin.RouterGroup) {
	g.GET("/config", mgr.GetConfig)
	g.PUT("/config", mgr.SaveConfig)
	g.POST("/test", mgr.TestConnection)
}

// GetConfig godoc
// @Summary 获取 WhatsApp 配置
// @Tags WhatsApp
// @Produce json
// @Security Bearer
// @Success 200 {object} resputil.Response[payload.WhatsAppConfigResp]
// @Failure 404 {object} resputil.Response[any] "未配置"
// @Router /v1/admin/whatsapp/config [get]
func (mgr *WhatsAppMgr) GetConfig(c *gin.Context) {
	cfg, err := mgr.notifier.Channel(c)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, payload.NewWhatsAppConfigResp(cfg))
}

// SaveConfig godoc
// @Summary 保存 WhatsApp 配置
// @Description Evolution API 地址、实例名与密钥；修改后需重新测试连接
// @Tags WhatsApp
// @Accept json
// @Produce json
// @Security Bearer
// @Param data body notify.ChannelInput true "配置"
// @Success 200 {object} resputil.Response[payload.WhatsAppConfigResp]
// @Failure 400 {object} resputil.Response[any] "请求参数错误"
// @Router /v1/admin/whatsapp/config [put]
func (mgr *WhatsAppMgr) SaveConfig(c *gin.Context) {
	var req notify.ChannelInput
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	cfg, err := mgr.notifier.SaveChannel(c, req)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, payload.NewWhatsAppConfigResp(cfg))
}

// TestConnection godoc
// @Summary 测试 WhatsApp 连接
// @Description 查询实例连接状态并保存结果
// @Tags WhatsApp
// @Produce json
// @Security Bearer
// @Success 200 {object} resputil.Response[notify.ProbeResult]
// @Failure 502 {object} resputil.Response[any] "网关返回错误"
// @Failure 503 {object} resputil.Response[any] "未配置"
// @Router /v1/admin/whatsapp/test [post]
func (mgr *WhatsAppMgr) TestConnection(c *gin.Context) {
	res, err := mgr.notifier.TestChannel(c)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, res)
}
