package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/hubtav/tavlist/dao/model"
	"github.com/hubtav/tavlist/internal/payload"
	"github.com/hubtav/tavlist/internal/resputil"
	"github.com/hubtav/tavlist/internal/util"
	"github.com/hubtav/tavlist/pkg/apperr"
	"github.com/hubtav/tavlist/pkg/notify"
	"github.com/hubtav/tavlist/pkg/signature"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewSignatureMgr)
}

type SignatureMgr struct {
	name       string
	signatures *signature.Service
	publicURL  string
}

func NewSignatureMgr(conf *RegisterConfig) Manager {
	return &SignatureMgr{
		name:       "signatures",
		signatures: conf.Signatures,
		publicURL:  conf.Config.PublicURL,
	}
}

func (mgr *SignatureMgr) GetName() string { return mgr.name }

func (mgr *SignatureMgr) RegisterPublic(g *gin.RouterGroup) {
	g.GET("/stage/:token", mgr.ResolveStage)
	g.POST("/stage/:token", mgr.SignStage)
	g.GET("/stage/:token/gallery", mgr.Gallery)
	g.GET("/project/:token", mgr.ResolveProject)
	g.POST("/project/:token", mgr.SignProject)
}

func (mgr *SignatureMgr) RegisterProtected(_ *gin.RouterGroup) {}

func (mgr *SignatureMgr) RegisterAdmin(g *gin.RouterGroup) {
	g.GET("/stages", mgr.ListStageSignatures)
	g.POST("/stages/:id/request", mgr.RequestStage)
	g.POST("/stages/:id/revoke", mgr.RevokeStage)
	g.POST("/projects/:id/release", mgr.ReleaseProject)
	g.POST("/projects/:id/request", mgr.RequestProject)
}

type (
	SignReq struct {
		SignerName string `json:"signerName" binding:"required"`
		Signature  string `json:"signature"` // data:image/png;base64,...
	}

	ListSignaturesReq struct {
		IDs string `form:"ids" binding:"required"` // comma separated stage ids
	}

	StageLinkResp struct {
		payload.SignatureResp
		ViewURL string `json:"viewUrl"`
		SignURL string `json:"signUrl"`
	}

	ProjectLinkResp struct {
		Project payload.ProjectResp `json:"project"`
		Token   string              `json:"token"`
		SignURL string              `json:"signUrl"`
	}
)

func bindToken(c *gin.Context) (string, bool) {
	var uri payload.TokenReq
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return "", false
	}
	return uri.Token, true
}

// ResolveStage godoc
// @Summary 通过令牌查看阶段
// @Description 公开接口，返回阶段摘要、附件与签名状态
// @Tags Signature
// @Produce json
// @Param token path string true "签名令牌"
// @Success 200 {object} resputil.Response[signature.Summary]
// @Failure 404 {object} resputil.Response[any] "令牌无效"
// @Router /v1/signatures/stage/{token} [get]
func (mgr *SignatureMgr) ResolveStage(c *gin.Context) {
	token, ok := bindToken(c)
	if !ok {
		return
	}
	summary, err := mgr.signatures.Resolve(c, token)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, summary)
}

// SignStage godoc
// @Summary 客户签收阶段
// @Description 公开接口，单次有效；重复签名返回 409
// @Tags Signature
// @Accept json
// @Produce json
// @Param token path string true "签名令牌"
// @Param data body SignReq true "签名人与签名图片"
// @Success 200 {object} resputil.Response[signature.Summary]
// @Failure 400 {object} resputil.Response[any] "签名人或图片不合法"
// @Failure 404 {object} resputil.Response[any] "令牌无效"
// @Failure 409 {object} resputil.Response[any] "已签名"
// @Failure 502 {object} resputil.Response[any] "存储失败"
// @Router /v1/signatures/stage/{token} [post]
func (mgr *SignatureMgr) SignStage(c *gin.Context) {
	token, ok := bindToken(c)
	if !ok {
		return
	}
	var req SignReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if _, err := mgr.signatures.Record(c, signature.RecordInput{
		Token:        token,
		SignerName:   req.SignerName,
		ImageDataURL: req.Signature,
		ClientIP:     util.ClientIP(c),
	}); err != nil {
		resputil.HandleError(c, err)
		return
	}
	summary, err := mgr.signatures.Resolve(c, token)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, summary)
}

// Gallery godoc
// @Summary 通过令牌查看图片
// @Description 公开接口，只返回图片类附件
// @Tags Signature
// @Produce json
// @Param token path string true "签名令牌"
// @Success 200 {object} resputil.Response[[]signature.AttachmentView]
// @Failure 404 {object} resputil.Response[any] "令牌无效"
// @Router /v1/signatures/stage/{token}/gallery [get]
func (mgr *SignatureMgr) Gallery(c *gin.Context) {
	token, ok := bindToken(c)
	if !ok {
		return
	}
	images, err := mgr.signatures.Gallery(c, token)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, images)
}

// ResolveProject godoc
// @Summary 通过令牌查看工程
// @Tags Signature
// @Produce json
// @Param token path string true "签名令牌"
// @Success 200 {object} resputil.Response[signature.ProjectSignatureView]
// @Failure 404 {object} resputil.Response[any] "令牌无效"
// @Router /v1/signatures/project/{token} [get]
func (mgr *SignatureMgr) ResolveProject(c *gin.Context) {
	token, ok := bindToken(c)
	if !ok {
		return
	}
	view, err := mgr.signatures.ResolveProject(c, token)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, view)
}

// SignProject godoc
// @Summary 客户签收工程
// @Tags Signature
// @Accept json
// @Produce json
// @Param token path string true "签名令牌"
// @Param data body SignReq true "签名人与签名图片"
// @Success 200 {object} resputil.Response[signature.ProjectSignatureView]
// @Failure 400 {object} resputil.Response[any] "签名人或图片不合法"
// @Failure 404 {object} resputil.Response[any] "令牌无效"
// @Failure 409 {object} resputil.Response[any] "已签名"
// @Router /v1/signatures/project/{token} [post]
func (mgr *SignatureMgr) SignProject(c *gin.Context) {
	token, ok := bindToken(c)
	if !ok {
		return
	}
	var req SignReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	view, err := mgr.signatures.RecordProject(c, signature.RecordInput{
		Token:        token,
		SignerName:   req.SignerName,
		ImageDataURL: req.Signature,
		ClientIP:     util.ClientIP(c),
	})
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, view)
}

// ListStageSignatures godoc
// @Summary 阶段签名记录
// @Tags Signature
// @Produce json
// @Security Bearer
// @Param ids query string true "逗号分隔的阶段ID"
// @Success 200 {object} resputil.Response[[]payload.SignatureResp]
// @Failure 400 {object} resputil.Response[any] "请求参数错误"
// @Router /v1/admin/signatures/stages [get]
func (mgr *SignatureMgr) ListStageSignatures(c *gin.Context) {
	var req ListSignaturesReq
	if err := c.ShouldBindQuery(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	ids, err := parseIDList(req.IDs)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	sigs, err := mgr.signatures.ListForStages(c, ids)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, lo.Map(sigs, func(s model.StageSignature, _ int) payload.SignatureResp {
		return payload.NewSignatureResp(&s)
	}))
}

// RequestStage godoc
// @Summary 生成阶段签名链接
// @Description 仅限已审核通过的阶段；已有未签名记录时刷新发送时间
// @Tags Signature
// @Produce json
// @Security Bearer
// @Param id path uint true "阶段ID"
// @Success 200 {object} resputil.Response[StageLinkResp]
// @Failure 400 {object} resputil.Response[any] "阶段未审核通过"
// @Failure 409 {object} resputil.Response[any] "已签名"
// @Router /v1/admin/signatures/stages/{id}/request [post]
func (mgr *SignatureMgr) RequestStage(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	sig, err := mgr.signatures.Request(c, id)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, mgr.stageLink(sig))
}

// RevokeStage godoc
// @Summary 作废签名链接
// @Description 轮换未签名记录的令牌，旧链接立即失效
// @Tags Signature
// @Produce json
// @Security Bearer
// @Param id path uint true "阶段ID"
// @Success 200 {object} resputil.Response[StageLinkResp]
// @Failure 404 {object} resputil.Response[any] "无签名记录"
// @Failure 409 {object} resputil.Response[any] "已签名"
// @Router /v1/admin/signatures/stages/{id}/revoke [post]
func (mgr *SignatureMgr) RevokeStage(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	sig, err := mgr.signatures.Revoke(c, id)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, mgr.stageLink(sig))
}

func (mgr *SignatureMgr) stageLink(sig *model.StageSignature) StageLinkResp {
	return StageLinkResp{
		SignatureResp: payload.NewSignatureResp(sig),
		ViewURL:       notify.StageViewURL(mgr.publicURL, sig.Token),
		SignURL:       notify.StageSignURL(mgr.publicURL, sig.Token),
	}
}

// ReleaseProject godoc
// @Summary 开放工程签名
// @Tags Signature
// @Produce json
// @Security Bearer
// @Param id path uint true "工程ID"
// @Success 200 {object} resputil.Response[payload.ProjectResp]
// @Failure 404 {object} resputil.Response[any] "工程不存在"
// @Router /v1/admin/signatures/projects/{id}/release [post]
func (mgr *SignatureMgr) ReleaseProject(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	p, err := mgr.signatures.ReleaseProject(c, id)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, payload.NewProjectResp(p))
}

// RequestProject godoc
// @Summary 生成工程签名链接
// @Description 工程须为 concluida、已开放签名且尚未签名
// @Tags Signature
// @Produce json
// @Security Bearer
// @Param id path uint true "工程ID"
// @Success 200 {object} resputil.Response[ProjectLinkResp]
// @Failure 400 {object} resputil.Response[any] "前置条件不满足"
// @Failure 409 {object} resputil.Response[any] "已签名"
// @Router /v1/admin/signatures/projects/{id}/request [post]
func (mgr *SignatureMgr) RequestProject(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	p, err := mgr.signatures.RequestProject(c, id)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	token := lo.FromPtr(p.SignatureToken)
	resputil.Success(c, ProjectLinkResp{
		Project: payload.NewProjectResp(p),
		Token:   token,
		SignURL: notify.ProjectSignURL(mgr.publicURL, token),
	})
}

// parseIDList parses "1,2,3". Blank entries are skipped.
func parseIDList(raw string) ([]uint, error) {
	var ids []uint
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil || id == 0 {
			return nil, apperr.Validation("ID inválido: %s", part)
		}
		ids = append(ids, uint(id))
	}
	return lo.Uniq(ids), nil
}
