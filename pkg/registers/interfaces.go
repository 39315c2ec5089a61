package registers

import (
	"context"

	"github.com/agent-mongo-exporter/pkg/collector"
)

// Agent 顶层采集器接口（封装所有采集器的生命周期管理）
type Agent interface {
	Register(collector Collector)       // 注册采集器
	Start(ctx context.Context) error    // 启动采集（定时器循环）
	Shutdown(ctx context.Context) error // 优雅停止
}

// Collector 采集器核心接口（所有采集器必须实现）
type Collector interface {
	Name() string                                              // 采集器名称（唯一标识）
	Init() error                                               // 初始化（预检查资源、记录基准样本）
	Collect(ctx context.Context) ([]collector.Snapshot, error) // 采集一次，返回待导出的快照
	Close() error                                              // 关闭（释放资源）
}

// Exporter 每个快照调用一次 Export，返回的错误只计数不中断
type Exporter interface {
	Export(ctx context.Context, name string, columns []string, points []any) error
}
