package registers

import (
	"github.com/agent-mongo-exporter/pkg/collector"
	"github.com/agent-mongo-exporter/pkg/config"
	"github.com/agent-mongo-exporter/pkg/metrics"
)

// RegisterCollectors 采集器注册统一入口（扩展仅需修改此函数）
func RegisterCollectors(agent Agent, cfg *config.CollectorConfig) {
	if cfg.CPU {
		agent.Register(collector.NewCPUCollector(cfg))
	}
	if cfg.Load {
		agent.Register(collector.NewLoadCollector())
	}
	if cfg.Mem {
		agent.Register(collector.NewMemCollector())
	}
	if cfg.MemSwap {
		agent.Register(collector.NewMemSwapCollector())
	}
	if cfg.Network {
		agent.Register(collector.NewNetworkCollector(cfg.IgnoreNetworks))
	}
	if cfg.FS {
		agent.Register(collector.NewFSCollector(cfg.IgnoreDisks))
	}
}

// InitAgent 创建采集循环：自监控指标注册到 reg，快照交给 exporter
func InitAgent(cfg *config.MonitorConfig, exporter Exporter, reg metrics.Registers) *AgentImpl {
	factory := metrics.NewMetricFactory(reg)
	agent := NewRegistry(cfg.Interval, exporter, factory.NewAgentMetrics())
	RegisterCollectors(agent, &cfg.Collectors)
	return agent
}
