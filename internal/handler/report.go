package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/hubtav/tavlist/internal/resputil"
	"github.com/hubtav/tavlist/pkg/report"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewReportMgr)
}

type ReportMgr struct {
	name    string
	reports *report.Generator
}

func NewReportMgr(conf *RegisterConfig) Manager {
	return &ReportMgr{
		name:    "reports",
		reports: conf.Reports,
	}
}

func (mgr *ReportMgr) GetName() string { return mgr.name }

func (mgr *ReportMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *ReportMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("/projects/:id", mgr.DownloadProjectReport)
}

func (mgr *ReportMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type ReportReq struct {
	StageIDs string `form:"stage_ids"` // 逗号分隔，为空表示全部阶段
	LogoURL  string `form:"logo_url"`
}

// DownloadProjectReport godoc
// @Summary 下载工程 PDF 报告
// @Description 仅包含选中的阶段，按序号排列；无法获取的图片会被跳过
// @Tags Report
// @Produce application/pdf
// @Security Bearer
// @Param id path uint true "工程ID"
// @Param stage_ids query string false "逗号分隔的阶段ID"
// @Param logo_url query string false "Logo 地址"
// @Success 200 {file} file "PDF"
// @Failure 404 {object} resputil.Response[any] "工程不存在"
// @Router /v1/reports/projects/{id} [get]
func (mgr *ReportMgr) DownloadProjectReport(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req ReportReq
	if err := c.ShouldBindQuery(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	stageIDs, err := parseIDList(req.StageIDs)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	result, err := mgr.reports.Generate(c, id, stageIDs, req.LogoURL)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	klog.Infof("report %s generated with %d stages", result.Filename, len(result.Document.Stages))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, "application/pdf", result.Data)
}
