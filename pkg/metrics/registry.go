package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registers 隔离 Prometheus 的默认实现，业务只依赖该接口，便于单测替换
type Registers interface {
	prometheus.Registerer
}

// promRegistry Prometheus 实现，内部包裹了官方的 *prometheus.Registry
type promRegistry struct {
	registry *prometheus.Registry
}

// NewPromRegistry 创建 Prometheus 指标注册器
func NewPromRegistry(registry *prometheus.Registry) Registers {
	return &promRegistry{registry: registry}
}

// MustRegister 实现 prometheus.Registerer，重复注册直接 panic（启动期编程错误）
func (p *promRegistry) MustRegister(collectors ...prometheus.Collector) {
	for _, c := range collectors {
		if err := p.registry.Register(c); err != nil {
			panic(err)
		}
	}
}

func (p *promRegistry) Register(collector prometheus.Collector) error {
	return p.registry.Register(collector)
}

func (p *promRegistry) Unregister(collector prometheus.Collector) bool {
	return p.registry.Unregister(collector)
}

// NewRegistry 创建自定义注册器（不注册 Go 运行时指标），可选注册进程指标
func NewRegistry(enableProcess bool) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	if enableProcess {
		reg.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	}
	return reg
}
