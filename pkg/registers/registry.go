package registers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/agent-mongo-exporter/pkg/logger"
	"github.com/agent-mongo-exporter/pkg/metrics"
)

const registryName = "collector-registry"

// AgentImpl 实现 Agent 接口：按间隔采集，并把每个快照串行交给导出器
type AgentImpl struct {
	collectors []Collector
	exporter   Exporter
	metrics    metrics.AgentMetrics
	interval   time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
	mu      sync.Mutex
}

// NewRegistry 创建采集器注册器
func NewRegistry(interval time.Duration, exporter Exporter, m metrics.AgentMetrics) *AgentImpl {
	ctx, cancel := context.WithCancel(context.Background())
	return &AgentImpl{
		collectors: make([]Collector, 0),
		exporter:   exporter,
		metrics:    m,
		interval:   interval,
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
}

// Register 注册采集器
func (r *AgentImpl) Register(c Collector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collectors = append(r.collectors, c)
}

// Collectors 返回已注册采集器的副本
func (r *AgentImpl) Collectors() []Collector {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := make([]Collector, len(r.collectors))
	copy(copied, r.collectors)
	return copied
}

// InitAll 初始化全部采集器，任一失败即返回
func (r *AgentImpl) InitAll() error {
	for _, coll := range r.Collectors() {
		if err := coll.Init(); err != nil {
			return fmt.Errorf("collector %s init failed: %w", coll.Name(), err)
		}
		logger.Debug("collector initialized successfully", zap.String("name", coll.Name()))
	}
	return nil
}

// Start 初始化采集器并启动后台循环（立即采集一次，之后每个间隔采集一次）。
// 外部 ctx 结束或调用 Shutdown 都会取消循环，以及正在进行的采集和写入。
func (r *AgentImpl) Start(ctx context.Context) error {
	if err := r.InitAll(); err != nil {
		return err
	}

	loopCtx, stop := context.WithCancel(ctx)
	unlink := context.AfterFunc(r.ctx, stop)

	r.mu.Lock()
	r.started = true
	r.mu.Unlock()

	ticker := time.NewTicker(r.interval)
	logger.Info("collector agent started", zap.String("name", registryName),
		zap.Duration("interval", r.interval),
		zap.Int("registered-collectors-count", len(r.Collectors())))

	go func() {
		defer close(r.done)
		defer ticker.Stop()
		defer unlink()
		defer stop()

		r.CollectAll(loopCtx)
		for {
			select {
			case <-ticker.C:
				r.CollectAll(loopCtx)
			case <-loopCtx.Done():
				if r.ctx.Err() != nil {
					logger.Info("collector agent stopped by internal shutdown", zap.String("name", registryName))
				} else {
					logger.Info("collector agent stopped by external context", zap.String("name", registryName), zap.Error(ctx.Err()))
				}
				return
			}
		}
	}()
	return nil
}

// CollectAll 依次采集并导出；返回成功写入的文档数。
// 采集或写入失败只记录/计数，不影响其它采集器和下一个周期。
func (r *AgentImpl) CollectAll(ctx context.Context) int {
	exported := 0
	for _, c := range r.Collectors() {
		start := time.Now()
		snapshots, err := c.Collect(ctx)
		r.metrics.CollectDuration.WithLabelValues(c.Name()).Observe(time.Since(start).Seconds())
		if err != nil {
			r.metrics.CollectErrors.WithLabelValues(c.Name()).Inc()
			logger.Warn("collection failed", zap.String("name", c.Name()), zap.Error(err))
			continue
		}
		for _, s := range snapshots {
			if r.export(ctx, s.Name, s.Columns, s.Points) {
				exported++
			}
		}
	}
	return exported
}

func (r *AgentImpl) export(ctx context.Context, name string, columns []string, points []any) bool {
	start := time.Now()
	err := r.exporter.Export(ctx, name, columns, points)
	r.metrics.ExportDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		r.metrics.Exports.WithLabelValues(name, "failure").Inc()
		return false
	}
	r.metrics.Exports.WithLabelValues(name, "success").Inc()
	return true
}

// Shutdown 停止循环并关闭所有采集器
func (r *AgentImpl) Shutdown(ctx context.Context) error {
	logger.Info("starting to shutdown collector agent", zap.String("name", registryName))
	r.cancel()

	r.mu.Lock()
	started := r.started
	r.mu.Unlock()
	if started {
		select {
		case <-r.done:
		case <-ctx.Done():
			logger.Warn("collector agent did not stop in time", zap.Error(ctx.Err()))
		}
	}
	return r.CloseAll()
}

// CloseAll 关闭全部采集器，汇总错误
func (r *AgentImpl) CloseAll() error {
	var errs []error
	for _, c := range r.Collectors() {
		if err := c.Close(); err != nil {
			logger.Error("failed to close collector", zap.String("name", c.Name()), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		logger.Debug("collector closed successfully", zap.String("name", c.Name()))
	}
	return errors.Join(errs...)
}
