package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AgentMetrics 采集-导出循环的自监控指标
type AgentMetrics struct {
	CollectErrors   *prometheus.CounterVec
	CollectDuration *prometheus.HistogramVec
	Exports         *prometheus.CounterVec
	ExportDuration  *prometheus.HistogramVec
}

// NewAgentMetrics 一次性创建并注册全部自监控指标
func (f *MetricFactory) NewAgentMetrics() AgentMetrics {
	return AgentMetrics{
		CollectErrors:   f.NewAgentCollectErrorsTotal(),
		CollectDuration: f.NewAgentCollectDurationSeconds(),
		Exports:         f.NewAgentExportsTotal(),
		ExportDuration:  f.NewAgentExportDurationSeconds(),
	}
}

// NewAgentCollectErrorsTotal 采集器错误总数
// 标签 collector: 采集器名称（cpu/load/mem/...）
func (f *MetricFactory) NewAgentCollectErrorsTotal() *prometheus.CounterVec {
	return promauto.With(f.reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_collect_errors_total",
			Help: "Total number of collector errors",
		},
		[]string{"collector"},
	)
}

// NewAgentCollectDurationSeconds 单个采集器每次采集耗时
func (f *MetricFactory) NewAgentCollectDurationSeconds() *prometheus.HistogramVec {
	return promauto.With(f.reg).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agent_collect_duration_seconds",
			Help:    "Duration of collector execution",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10), // 0.01s ~ 5.12s
		},
		[]string{"collector"},
	)
}

// NewAgentExportsTotal 导出次数
// 标签 type: 文档 type 字段；result: success/failure
func (f *MetricFactory) NewAgentExportsTotal() *prometheus.CounterVec {
	return promauto.With(f.reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_exports_total",
			Help: "Total number of documents exported to MongoDB, partitioned by type and result",
		},
		[]string{"type", "result"},
	)
}

// NewAgentExportDurationSeconds 单次写入耗时
func (f *MetricFactory) NewAgentExportDurationSeconds() *prometheus.HistogramVec {
	return promauto.With(f.reg).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agent_export_duration_seconds",
			Help:    "Duration of a single MongoDB export",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"type"},
	)
}
