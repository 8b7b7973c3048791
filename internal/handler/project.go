package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/hubtav/tavlist/dao/model"
	"github.com/hubtav/tavlist/internal/payload"
	"github.com/hubtav/tavlist/internal/resputil"
	"github.com/hubtav/tavlist/internal/util"
	"github.com/hubtav/tavlist/pkg/apperr"
	"github.com/hubtav/tavlist/pkg/project"
	"github.com/hubtav/tavlist/pkg/stage"
	"github.com/hubtav/tavlist/pkg/utils"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewProjectMgr)
}

type ProjectMgr struct {
	name     string
	projects *project.Service
	stages   *stage.Service
}

func NewProjectMgr(conf *RegisterConfig) Manager {
	return &ProjectMgr{
		name:     "projects",
		projects: conf.Projects,
		stages:   conf.Stages,
	}
}

func (mgr *ProjectMgr) GetName() string { return mgr.name }

func (mgr *ProjectMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *ProjectMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("", mgr.ListProjects)
	g.GET("/:id", mgr.GetProject)
}

func (mgr *ProjectMgr) RegisterAdmin(g *gin.RouterGroup) {
	g.POST("", mgr.CreateProject)
	g.PUT("/:id", mgr.UpdateProject)
	g.DELETE("/:id", mgr.DeleteProject)
	g.POST("/:id/stages/paste", mgr.PasteStage)
}

type (
	ListProjectsReq struct {
		PageIndex *int                `form:"page_index"`
		PageSize  *int                `form:"page_size"`
		Status    model.ProjectStatus `form:"status"`
		Search    string              `form:"search"`
	}

	ProjectReq struct {
		Name         string              `json:"name" binding:"required"`
		ClientName   string              `json:"clientName" binding:"required"`
		ClientEmail  string              `json:"clientEmail" binding:"required"`
		ClientPhone  *string             `json:"clientPhone"`
		Status       model.ProjectStatus `json:"status"`
		StartDate    string              `json:"startDate" binding:"required"`    // yyyy-mm-dd
		ExpectedDate string              `json:"expectedDate" binding:"required"` // yyyy-mm-dd
	}
)

func (req *ProjectReq) toInput() (project.Input, error) {
	start, err := utils.ParseDate(req.StartDate)
	if err != nil {
		return project.Input{}, apperr.Validation("Data de início inválida")
	}
	expected, err := utils.ParseDate(req.ExpectedDate)
	if err != nil {
		return project.Input{}, apperr.Validation("Data prevista inválida")
	}
	return project.Input{
		Name:         req.Name,
		ClientName:   req.ClientName,
		ClientEmail:  req.ClientEmail,
		ClientPhone:  req.ClientPhone,
		Status:       req.Status,
		StartDate:    start,
		ExpectedDate: expected,
	}, nil
}

// ListProjects godoc
// @Summary 工程列表
// @Description 按状态过滤、按工程或客户名称搜索，分页返回并附带阶段进度
// @Tags Project
// @Produce json
// @Security Bearer
// @Param page_index query int false "页码，从 0 开始"
// @Param page_size query int false "每页数量"
// @Param status query string false "工程状态"
// @Param search query string false "搜索词"
// @Success 200 {object} resputil.Response[payload.ListResp[payload.ProjectListItem]]
// @Failure 400 {object} resputil.Response[any] "请求参数错误"
// @Router /v1/projects [get]
func (mgr *ProjectMgr) ListProjects(c *gin.Context) {
	var req ListProjectsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	rows, count, err := mgr.projects.List(c, project.ListFilter{
		Status:    req.Status,
		Search:    req.Search,
		PageIndex: lo.FromPtr(req.PageIndex),
		PageSize:  lo.FromPtr(req.PageSize),
	})
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, payload.ListResp[payload.ProjectListItem]{
		Rows: lo.Map(rows, func(r project.Summary, _ int) payload.ProjectListItem {
			return payload.ProjectListItem{
				ProjectResp:    payload.NewProjectResp(&r.Project),
				TotalStages:    r.TotalStages,
				ApprovedStages: r.ApprovedStages,
				Progress:       r.Progress,
			}
		}),
		Count: count,
	})
}

// GetProject godoc
// @Summary 工程详情
// @Description 返回工程信息及按序号排列的阶段
// @Tags Project
// @Produce json
// @Security Bearer
// @Param id path uint true "工程ID"
// @Success 200 {object} resputil.Response[payload.ProjectDetailResp]
// @Failure 404 {object} resputil.Response[any] "工程不存在"
// @Router /v1/projects/{id} [get]
func (mgr *ProjectMgr) GetProject(c *gin.Context) {
	var uri payload.IDReq
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	detail, err := mgr.projects.Detail(c, uri.ID)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, payload.ProjectDetailResp{
		Project:  payload.NewProjectResp(&detail.Project),
		Stages:   payload.NewStageViewResps(detail.Stages),
		Approved: detail.Approved,
		Progress: detail.Progress,
	})
}

// CreateProject godoc
// @Summary 创建工程
// @Tags Project
// @Accept json
// @Produce json
// @Security Bearer
// @Param data body ProjectReq true "工程信息"
// @Success 200 {object} resputil.Response[payload.ProjectResp]
// @Failure 400 {object} resputil.Response[any] "请求参数错误"
// @Router /v1/admin/projects [post]
func (mgr *ProjectMgr) CreateProject(c *gin.Context) {
	var req ProjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	in, err := req.toInput()
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	token := util.GetToken(c)
	p, err := mgr.projects.Create(c, token.ProfileID, in)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, payload.NewProjectResp(p))
}

// UpdateProject godoc
// @Summary 更新工程
// @Tags Project
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path uint true "工程ID"
// @Param data body ProjectReq true "工程信息"
// @Success 200 {object} resputil.Response[payload.ProjectResp]
// @Failure 400 {object} resputil.Response[any] "请求参数错误"
// @Failure 404 {object} resputil.Response[any] "工程不存在"
// @Router /v1/admin/projects/{id} [put]
func (mgr *ProjectMgr) UpdateProject(c *gin.Context) {
	var uri payload.IDReq
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req ProjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	in, err := req.toInput()
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	p, err := mgr.projects.Update(c, uri.ID, in)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, payload.NewProjectResp(p))
}

// DeleteProject godoc
// @Summary 删除工程
// @Description 同时硬删除其所有阶段、清单、附件与签名记录
// @Tags Project
// @Produce json
// @Security Bearer
// @Param id path uint true "工程ID"
// @Success 200 {object} resputil.Response[any]
// @Failure 404 {object} resputil.Response[any] "工程不存在"
// @Router /v1/admin/projects/{id} [delete]
func (mgr *ProjectMgr) DeleteProject(c *gin.Context) {
	var uri payload.IDReq
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if err := mgr.projects.Delete(c, uri.ID); err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, nil)
}

// PasteStage godoc
// @Summary 粘贴阶段
// @Description 将复制得到的阶段快照粘贴为该工程的新阶段（pendente）
// @Tags Project
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path uint true "工程ID"
// @Param data body stage.Snapshot true "阶段快照"
// @Success 200 {object} resputil.Response[payload.StageResp]
// @Failure 400 {object} resputil.Response[any] "请求参数错误"
// @Failure 404 {object} resputil.Response[any] "工程不存在"
// @Router /v1/admin/projects/{id}/stages/paste [post]
func (mgr *ProjectMgr) PasteStage(c *gin.Context) {
	var uri payload.IDReq
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var snap stage.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	created, err := mgr.stages.Paste(c, uri.ID, &snap)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	mgr.respondStage(c, created.ID)
}

func (mgr *ProjectMgr) respondStage(c *gin.Context, id uint) {
	view, err := mgr.stages.Get(c, id)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, payload.NewStageViewResp(view))
}
