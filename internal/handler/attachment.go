package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hubtav/tavlist/internal/payload"
	"github.com/hubtav/tavlist/internal/resputil"
	"github.com/hubtav/tavlist/internal/util"
	"github.com/hubtav/tavlist/pkg/apperr"
	"github.com/hubtav/tavlist/pkg/stage"
)

const maxAttachmentBytes = 20 << 20

type AttachmentURI struct {
	ID           uint `uri:"id" binding:"required"`
	AttachmentID uint `uri:"attachmentId" binding:"required"`
}

// ListAttachments godoc
// @Summary 阶段附件列表
// @Tags Stage
// @Produce json
// @Security Bearer
// @Param id path uint true "阶段ID"
// @Success 200 {object} resputil.Response[[]payload.AttachmentResp]
// @Router /v1/stages/{id}/attachments [get]
func (mgr *StageMgr) ListAttachments(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	attachments, err := mgr.stages.ListAttachments(c, id)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, payload.NewAttachmentResps(attachments))
}

// UploadAttachment godoc
// @Summary 上传附件
// @Description multipart 表单字段 file；先上传对象存储，成功后才写入记录
// @Tags Stage
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param id path uint true "阶段ID"
// @Param file formData file true "附件"
// @Success 200 {object} resputil.Response[payload.AttachmentResp]
// @Failure 400 {object} resputil.Response[any] "请求参数错误"
// @Failure 502 {object} resputil.Response[any] "存储失败"
// @Router /v1/stages/{id}/attachments [post]
func (mgr *StageMgr) UploadAttachment(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		resputil.BadRequestError(c, fmt.Sprintf("missing file: %v", err))
		return
	}
	if fh.Size > maxAttachmentBytes {
		resputil.HandleError(c, apperr.Validation("Arquivo excede %d MB", maxAttachmentBytes>>20))
		return
	}
	f, err := fh.Open()
	if err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxAttachmentBytes+1))
	if err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if len(data) > maxAttachmentBytes {
		resputil.HandleError(c, apperr.Validation("Arquivo excede %d MB", maxAttachmentBytes>>20))
		return
	}
	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}

	token := util.GetToken(c)
	attachment, err := mgr.stages.AddAttachment(c, stage.AttachmentInput{
		StageID:    id,
		UploaderID: token.ProfileID,
		Name:       fh.Filename,
		MimeType:   mimeType,
		Data:       data,
	})
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, payload.NewAttachmentResp(attachment))
}

// DeleteAttachment godoc
// @Summary 删除附件
// @Description 仅上传者或管理员可删除
// @Tags Stage
// @Produce json
// @Security Bearer
// @Param id path uint true "阶段ID"
// @Param attachmentId path uint true "附件ID"
// @Success 200 {object} resputil.Response[any]
// @Failure 403 {object} resputil.Response[any] "无权限"
// @Failure 404 {object} resputil.Response[any] "附件不存在"
// @Router /v1/stages/{id}/attachments/{attachmentId} [delete]
func (mgr *StageMgr) DeleteAttachment(c *gin.Context) {
	var uri AttachmentURI
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	token := util.GetToken(c)
	if err := mgr.stages.DeleteAttachment(c, uri.ID, uri.AttachmentID, token.ProfileID, token.IsAdmin()); err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, nil)
}
