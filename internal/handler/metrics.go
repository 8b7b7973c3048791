package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"k8s.io/klog/v2"

	"github.com/hubtav/tavlist/dao/model"
	"github.com/hubtav/tavlist/pkg/metrics"
	"github.com/hubtav/tavlist/pkg/stage"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewMetricsMgr)
}

type MetricsMgr struct {
	name    string
	stages  *stage.Service
	handler http.Handler
}

func NewMetricsMgr(conf *RegisterConfig) Manager {
	return &MetricsMgr{
		name:    "metrics",
		stages:  conf.Stages,
		handler: promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{Registry: metrics.Registry}),
	}
}

func (mgr *MetricsMgr) GetName() string { return mgr.name }

func (mgr *MetricsMgr) RegisterPublic(g *gin.RouterGroup) {
	g.GET("", mgr.GetMetrics)
}

func (mgr *MetricsMgr) RegisterProtected(_ *gin.RouterGroup) {}

func (mgr *MetricsMgr) RegisterAdmin(_ *gin.RouterGroup) {}

// GetMetrics godoc
// @Summary Prometheus 指标
// @Description 抓取前刷新各状态阶段数量
// @Tags Metrics
// @Produce plain
// @Success 200 {string} string "Prometheus text format"
// @Router /v1/metrics [get]
func (mgr *MetricsMgr) GetMetrics(c *gin.Context) {
	counts, err := mgr.stages.CountByStatus(c)
	if err != nil {
		klog.Warningf("refresh stage gauges: %v", err)
	} else {
		for _, status := range model.AllStageStatuses {
			metrics.StagesByStatus.WithLabelValues(string(status)).Set(float64(counts[status]))
		}
	}
	mgr.handler.ServeHTTP(c.Writer, c.Request)
}
