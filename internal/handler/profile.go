package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/hubtav/tavlist/dao/model"
	"github.com/hubtav/tavlist/internal/payload"
	"github.com/hubtav/tavlist/internal/resputil"
	"github.com/hubtav/tavlist/internal/util"
	"github.com/hubtav/tavlist/pkg/account"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewProfileMgr)
}

type ProfileMgr struct {
	name     string
	accounts *account.Service
}

func NewProfileMgr(conf *RegisterConfig) Manager {
	return &ProfileMgr{
		name:     "profiles",
		accounts: conf.Accounts,
	}
}

func (mgr *ProfileMgr) GetName() string { return mgr.name }

func (mgr *ProfileMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *ProfileMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("", mgr.ListProfiles)
	g.GET("/me", mgr.GetCurrentProfile)
}

func (mgr *ProfileMgr) RegisterAdmin(g *gin.RouterGroup) {
	g.POST("", mgr.CreateProfile)
	g.PUT("/:id/role", mgr.UpdateRole)
}

type UpdateRoleReq struct {
	Role model.AppRole `json:"role" binding:"required"`
}

// ListProfiles godoc
// @Summary 用户列表
// @Description 返回所有用户及其角色，用于选择阶段负责人
// @Tags Profile
// @Produce json
// @Security Bearer
// @Success 200 {object} resputil.Response[[]account.ProfileView]
// @Failure 500 {object} resputil.Response[any] "其他错误"
// @Router /v1/profiles [get]
func (mgr *ProfileMgr) ListProfiles(c *gin.Context) {
	profiles, err := mgr.accounts.List(c)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, profiles)
}

// GetCurrentProfile godoc
// @Summary 当前用户
// @Tags Profile
// @Produce json
// @Security Bearer
// @Success 200 {object} resputil.Response[account.ProfileView]
// @Failure 404 {object} resputil.Response[any] "用户不存在"
// @Router /v1/profiles/me [get]
func (mgr *ProfileMgr) GetCurrentProfile(c *gin.Context) {
	token := util.GetToken(c)
	profile, err := mgr.accounts.Get(c, token.ProfileID)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, profile)
}

// CreateProfile godoc
// @Summary 创建用户
// @Description 管理员创建本地账号，默认角色为 colaborador
// @Tags Profile
// @Accept json
// @Produce json
// @Security Bearer
// @Param data body account.CreateInput true "用户信息"
// @Success 200 {object} resputil.Response[account.ProfileView]
// @Failure 400 {object} resputil.Response[any] "请求参数错误"
// @Router /v1/admin/profiles [post]
func (mgr *ProfileMgr) CreateProfile(c *gin.Context) {
	var req account.CreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	profile, err := mgr.accounts.Create(c, req)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, profile)
}

// UpdateRole godoc
// @Summary 修改用户角色
// @Description 提升或降级用户 (admin / colaborador)
// @Tags Profile
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path uint true "用户ID"
// @Param data body UpdateRoleReq true "角色"
// @Success 200 {object} resputil.Response[account.ProfileView]
// @Failure 400 {object} resputil.Response[any] "请求参数错误"
// @Failure 404 {object} resputil.Response[any] "用户不存在"
// @Router /v1/admin/profiles/{id}/role [put]
func (mgr *ProfileMgr) UpdateRole(c *gin.Context) {
	var uri payload.IDReq
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req UpdateRoleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	profile, err := mgr.accounts.SetRole(c, uri.ID, req.Role)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, profile)
}
