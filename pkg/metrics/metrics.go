// Package metrics holds the prometheus collectors of the service. They live on a
// private registry that the /v1/metrics handler exposes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tavlist"

var Registry = prometheus.NewRegistry()

// 阶段状态迁移次数
var StageTransitions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stage_transitions_total",
		Help:      "Stage status transitions by target status",
	},
	[]string{"status"},
)

var SignaturesRecorded = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signatures_recorded_total",
		Help:      "Signatures recorded through public links",
	},
	[]string{"scope"},
)

var Notifications = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Notification attempts by channel, kind and result",
	},
	[]string{"channel", "kind", "result"},
)

var ReportsGenerated = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_generated_total",
		Help:      "PDF reports generated",
	},
)

var WhatsAppConnected = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "whatsapp_connected",
		Help:      "1 when the last connection probe reported the instance as open",
	},
)

// 各状态阶段数量，抓取时刷新
var StagesByStatus = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stages",
		Help:      "Number of stages per status",
	},
	[]string{"status"},
)

//nolint:gochecknoinits // collectors must be registered before the first scrape.
func init() {
	Registry.MustRegister(
		StageTransitions,
		SignaturesRecorded,
		Notifications,
		ReportsGenerated,
		WhatsAppConnected,
		StagesByStatus,
	)
}

func SetWhatsAppConnected(connected bool) {
	if connected {
		WhatsAppConnected.Set(1)
		return
	}
	WhatsAppConnected.Set(0)
}
