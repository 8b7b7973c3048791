package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/hubtav/tavlist/internal/resputil"
	"github.com/hubtav/tavlist/pkg/project"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewDashboardMgr)
}

type DashboardMgr struct {
	name     string
	projects *project.Service
}

func NewDashboardMgr(conf *RegisterConfig) Manager {
	return &DashboardMgr{
		name:     "dashboard",
		projects: conf.Projects,
	}
}

func (mgr *DashboardMgr) GetName() string { return mgr.name }

func (mgr *DashboardMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *DashboardMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("/stats", mgr.GetStats)
}

func (mgr *DashboardMgr) RegisterAdmin(_ *gin.RouterGroup) {}

// GetStats godoc
// @Summary 仪表盘统计
// @Description 工程总数、各状态工程数以及待审核阶段数
// @Tags Dashboard
// @Produce json
// @Security Bearer
// @Success 200 {object} resputil.Response[project.Stats]
// @Failure 500 {object} resputil.Response[any] "其他错误"
// @Router /v1/dashboard/stats [get]
func (mgr *DashboardMgr) GetStats(c *gin.Context) {
	stats, err := mgr.projects.Stats(c)
	if err != nil {
		resputil.HandleError(c, err)
		return
	}
	resputil.Success(c, stats)
}
