package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hubtav/tavlist/dao/model"
	"github.com/hubtav/tavlist/internal/payload"
	"github.com/hubtav/tavlist/internal/resputil"
	"github.com/hubtav/tavlist/pkg/apperr"
	"github.com/hubtav/tavlist/pkg/stage"
	"github.com/hubtav/tavlist/pkg/utils"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewStageMgr)
}

type StageMgr struct {
	name   string
	stages *stage.Service
}

func NewStageMgr(conf *RegisterConfig) Manager {
	return &StageMgr{
		name:   "stages",
		stages: conf.Stages,
	}
}

func (mgr *StageMgr) GetName() string { return mgr.name }

func (mgr *StageMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *StageMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("", mgr.ListStages)
	g.GET("/:id", mgr.GetStage)
	g.POST("/:id/start", mgr.StartStage)
	g.POST("/:id/submit", mgr.SubmitStage)

	g.GET("/:id/items", mgr.ListItems)
	g.PUT("/:id/items", mgr.ReplaceItems)
	g.PUT("/:id/items/:itemId", mgr.ToggleItem)

	g.GET("/:id/attachments", mgr.ListAttachments)
	g.POST("/:id/attachments", mgr.UploadAttachment)
	g.DELETE("/:id/attachments/:attachmentId", mgr.DeleteAttachment)
}

func (mgr *StageMgr) RegisterAdmin(g *gin.RouterGroup) {
	g.POST("", mgr.CreateStage)
	g.PUT("/:id", mgr.EditStage)
	g.DELETE("/:id", mgr.DeleteStage)
	g.POST("/:id/approve", mgr.ApproveStage)
	g.POST("/:id/reject", mgr.RejectStage)
	g.PUT("/:id/responsibles", mgr.SetResponsibles)
	g.GET("/:id/copy", mgr.CopyStage)
}

type (
	ListStagesReq struct {
		ProjectID uint `form:"projectId" binding:"required"`
	}

	CreateStageReq struct {
		ProjectID      uint              `json:"projectId" binding:"required"`
		Title          string            `json:"title"`
		Description    *string           `json:"description"`
		DueDate        *string           `json:"dueDate"` // yyyy-mm-dd
		Notes          *string           `json:"notes"`
		ResponsibleIDs []uint            `json:"responsibleIds"`
		Items          []stage.ItemInput `json:"items"`
	}

	// EditStageReq only touches the fields present. An empty dueDate clears it.
	EditStageReq struct {
		Title       *string            `json:"title"`
		Description *string            `json:"description"`
		DueDate     *string            `json:"dueDate"`
		Notes       *string            `json:"notes"`
		Status      *model.StageStatus `json:"status"`
	}

	SubmitStageReq struct {
		Notes string `json:"notes"`
	}

	RejectStageReq struct {
		Reason string `json:"reason" binding:"required"`
	}

	ResponsiblesReq struct {
		ProfileIDs []uint `json:"profileIds"`
	}

	ReplaceItemsReq struct {
		Items []stage.ItemInput `json:"items"`
	}

	ItemURI struct {
		ID     uint `uri:"id" binding:"required"`
		ItemID uint `uri:"itemId" binding:"required"`
	}

	ToggleItemReq struct {
		Done *bool `json:"done" binding:"required"`
	}
)

func bindID(c *gin.Context) (uint, bool) {
	var uri payload.IDReq
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return 0, false
	}
	return uri.ID, true
}

// ListStages godoc
// @Summary 阶段列表
// @Description 按序号返回工程的所有阶段，负责人优先取关联表
// @Tags Stage
// @Produce json
// @Security Bearer
// @Param projectId query uint true "工程ID"
// @Success 200 {object} resputil.Response[[]payload.StageResp]
// @Failure 400 {object} resputil.Response[any] "请求参数错误"
// @Router /v1/stages [get]
func (mgr *StageMgr) ListStages(c *gin.Context) {
	var req ListStagesReq
	if err := c.ShouldBindQuery(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	views, err := mgr.stages.List(c, req.ProjectID)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, payload.NewStageViewResps(views))
}

// GetStage godoc
// @Summary 阶段详情
// @Tags Stage
// @Produce json
// @Security Bearer
// @Param id path uint true "阶段ID"
// @Success 200 {object} resputil.Response[payload.StageResp]
// @Failure 404 {object} resputil.Response[any] "阶段不存在"
// @Router /v1/stages/{id} [get]
func (mgr *StageMgr) GetStage(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	mgr.respond(c, id)
}

func (mgr *StageMgr) respond(c *gin.Context, id uint) {
	view, err := mgr.stages.Get(c, id)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, payload.NewStageViewResp(view))
}

// CreateStage godoc
// @Summary 创建阶段
// @Description 序号为工程内已有最大序号加一，状态为 pendente
// @Tags Stage
// @Accept json
// @Produce json
// @Security Bearer
// @Param data body CreateStageReq true "阶段信息"
// @Success 200 {object} resputil.Response[payload.StageResp]
// @Failure 400 {object} resputil.Response[any] "请求参数错误"
// @Failure 404 {object} resputil.Response[any] "工程不存在"
// @Router /v1/admin/stages [post]
func (mgr *StageMgr) CreateStage(c *gin.Context) {
	var req CreateStageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	due, err := utils.ParseOptionalDate(req.DueDate)
	if err != nil {
		resputil.HandleError(c, apperr.Validation("Prazo inválido"))
		return
	}
	created, err := mgr.stages.Create(c, stage.CreateInput{
		ProjectID:      req.ProjectID,
		Title:          req.Title,
		Description:    req.Description,
		DueDate:        due,
		Notes:          req.Notes,
		ResponsibleIDs: req.ResponsibleIDs,
		Items:          req.Items,
	})
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	mgr.respond(c, created.ID)
}

// EditStage godoc
// @Summary 编辑阶段
// @Description 管理员直接修改字段，可强制设置状态
// @Tags Stage
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path uint true "阶段ID"
// @Param data body EditStageReq true "修改字段"
// @Success 200 {object} resputil.Response[payload.StageResp]
// @Failure 400 {object} resputil.Response[any] "请求参数错误"
// @Failure 404 {object} resputil.Response[any] "阶段不存在"
// @Router /v1/admin/stages/{id} [put]
func (mgr *StageMgr) EditStage(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req EditStageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	in := stage.EditInput{
		Title:       req.Title,
		Description: req.Description,
		Notes:       req.Notes,
		Status:      req.Status,
	}
	if req.DueDate != nil {
		if strings.TrimSpace(*req.DueDate) == "" {
			in.ClearDue = true
		} else {
			due, err := utils.ParseDate(*req.DueDate)
			if err != nil {
				resputil.HandleError(c, apperr.Validation("Prazo inválido"))
				return
			}
			in.DueDate = &due
		}
	}
	if _, err := mgr.stages.Edit(c, id, in); err != nil {
		resputil.HandleError(c, err)
		return
	}
	mgr.respond(c, id)
}

// DeleteStage godoc
// @Summary 删除阶段
// @Description 硬删除，不重新编号
// @Tags Stage
// @Produce json
// @Security Bearer
// @Param id path uint true "阶段ID"
// @Success 200 {object} resputil.Response[any]
// @Failure 404 {object} resputil.Response[any] "阶段不存在"
// @Router /v1/admin/stages/{id} [delete]
func (mgr *StageMgr) DeleteStage(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	if err := mgr.stages.Delete(c, id); err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, nil)
}

// StartStage godoc
// @Summary 开始阶段
// @Description pendente -> em_andamento
// @Tags Stage
// @Produce json
// @Security Bearer
// @Param id path uint true "阶段ID"
// @Success 200 {object} resputil.Response[payload.StageResp]
// @Failure 409 {object} resputil.Response[any] "状态不允许"
// @Router /v1/stages/{id}/start [post]
func (mgr *StageMgr) StartStage(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	if _, err := mgr.stages.Start(c, id); err != nil {
		resputil.HandleError(c, err)
		return
	}
	mgr.respond(c, id)
}

// SubmitStage godoc
// @Summary 提交阶段
// @Description em_andamento 或 rejeitada -> submetida，备注写入观察字段
// @Tags Stage
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path uint true "阶段ID"
// @Param data body SubmitStageReq false "备注"
// @Success 200 {object} resputil.Response[payload.StageResp]
// @Failure 409 {object} resputil.Response[any] "状态不允许"
// @Router /v1/stages/{id}/submit [post]
func (mgr *StageMgr) SubmitStage(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req SubmitStageReq
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			resputil.BadRequestError(c, err.Error())
			return
		}
	}
	if _, err := mgr.stages.Submit(c, id, req.Notes); err != nil {
		resputil.HandleError(c, err)
		return
	}
	mgr.respond(c, id)
}

// ApproveStage godoc
// @Summary 审核通过
// @Description submetida -> aprovada
// @Tags Stage
// @Produce json
// @Security Bearer
// @Param id path uint true "阶段ID"
// @Success 200 {object} resputil.Response[payload.StageResp]
// @Failure 409 {object} resputil.Response[any] "状态不允许"
// @Router /v1/admin/stages/{id}/approve [post]
func (mgr *StageMgr) ApproveStage(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	if _, err := mgr.stages.Approve(c, id); err != nil {
		resputil.HandleError(c, err)
		return
	}
	mgr.respond(c, id)
}

// RejectStage godoc
// @Summary 驳回阶段
// @Description submetida -> rejeitada，驳回原因覆盖观察字段
// @Tags Stage
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path uint true "阶段ID"
// @Param data body RejectStageReq true "驳回原因"
// @Success 200 {object} resputil.Response[payload.StageResp]
// @Failure 409 {object} resputil.Response[any] "状态不允许"
// @Router /v1/admin/stages/{id}/reject [post]
func (mgr *StageMgr) RejectStage(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req RejectStageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if _, err := mgr.stages.Reject(c, id, req.Reason); err != nil {
		resputil.HandleError(c, err)
		return
	}
	mgr.respond(c, id)
}

// SetResponsibles godoc
// @Summary 设置负责人
// @Description 全量替换负责人集合
// @Tags Stage
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path uint true "阶段ID"
// @Param data body ResponsiblesReq true "负责人ID列表"
// @Success 200 {object} resputil.Response[[]payload.ProfileBrief]
// @Router /v1/admin/stages/{id}/responsibles [put]
func (mgr *StageMgr) SetResponsibles(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req ResponsiblesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	profiles, err := mgr.stages.SetResponsibles(c, id, req.ProfileIDs)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resp := make([]payload.ProfileBrief, len(profiles))
	for i := range profiles {
		resp[i] = payload.NewProfileBrief(&profiles[i])
	}
	resputil.Success(c, resp)
}

// CopyStage godoc
// @Summary 复制阶段
// @Description 返回可粘贴到任意工程的阶段快照
// @Tags Stage
// @Produce json
// @Security Bearer
// @Param id path uint true "阶段ID"
// @Success 200 {object} resputil.Response[stage.Snapshot]
// @Failure 404 {object} resputil.Response[any] "阶段不存在"
// @Router /v1/admin/stages/{id}/copy [get]
func (mgr *StageMgr) CopyStage(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	snap, err := mgr.stages.Copy(c, id)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, snap)
}

// ListItems godoc
// @Summary 阶段清单
// @Tags Stage
// @Produce json
// @Security Bearer
// @Param id path uint true "阶段ID"
// @Success 200 {object} resputil.Response[[]payload.ItemResp]
// @Router /v1/stages/{id}/items [get]
func (mgr *StageMgr) ListItems(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	items, err := mgr.stages.ListItems(c, id)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, payload.NewItemResps(items))
}

// ReplaceItems godoc
// @Summary 替换阶段清单
// @Description 在一个事务中删除并重新插入全部清单项
// @Tags Stage
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path uint true "阶段ID"
// @Param data body ReplaceItemsReq true "清单项"
// @Success 200 {object} resputil.Response[[]payload.ItemResp]
// @Failure 400 {object} resputil.Response[any] "请求参数错误"
// @Router /v1/stages/{id}/items [put]
func (mgr *StageMgr) ReplaceItems(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req ReplaceItemsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	items, err := mgr.stages.ReplaceItems(c, id, req.Items)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, payload.NewItemResps(items))
}

// ToggleItem godoc
// @Summary 勾选清单项
// @Tags Stage
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path uint true "阶段ID"
// @Param itemId path uint true "清单项ID"
// @Param data body ToggleItemReq true "完成状态"
// @Success 200 {object} resputil.Response[payload.ItemResp]
// @Failure 404 {object} resputil.Response[any] "清单项不存在"
// @Router /v1/stages/{id}/items/{itemId} [put]
func (mgr *StageMgr) ToggleItem(c *gin.Context) {
	var uri ItemURI
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req ToggleItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	item, err := mgr.stages.SetItemDone(c, uri.ID, uri.ItemID, *req.Done)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, payload.NewItemResp(item))
}
