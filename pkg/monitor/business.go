package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics 定义业务监控指标
type BusinessMetrics struct {
	ActionsCreatedTotal    *prometheus.CounterVec
	ActionResolvedTotal    prometheus.Counter
	ResolveFailuresTotal   *prometheus.CounterVec
	DescriptorsBuiltTotal  *prometheus.CounterVec
	MetadataFallbackTotal  prometheus.Counter
	ShortIDCollisionsTotal prometheus.Counter
}

// Global Metrics Instance
var Business *BusinessMetrics

// InitBusinessMetrics 初始化业务指标
func InitBusinessMetrics() {
	Business = &BusinessMetrics{
		ActionsCreatedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "corelinks_actions_created_total",
			Help: "The total number of action links created",
		}, []string{"action_type"}),
		ActionResolvedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "corelinks_action_resolved_total",
			Help: "The total number of successful short id resolutions",
		}),
		ResolveFailuresTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "corelinks_resolve_failures_total",
			Help: "Resolution failures by reason",
		}, []string{"reason"}),
		DescriptorsBuiltTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "corelinks_tx_descriptors_built_total",
			Help: "Transaction descriptors built per action type",
		}, []string{"action_type"}),
		MetadataFallbackTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "corelinks_metadata_fallback_total",
			Help: "NFT metadata enrichments that fell back to the templated description",
		}),
		ShortIDCollisionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "corelinks_short_id_collisions_total",
			Help: "Short id write conflicts that triggered regeneration",
		}),
	}
}
