package collector

import (
	"context"
	"fmt"
	"math"

	"github.com/shirou/gopsutil/v3/cpu"
	"go.uber.org/zap"

	"github.com/agent-mongo-exporter/pkg/config"
	"github.com/agent-mongo-exporter/pkg/logger"
)

// cpuModes 导出列顺序（Linux /proc/stat 字段顺序）
var cpuModes = []string{"user", "nice", "system", "idle", "iowait", "irq", "softirq", "steal"}

// CPUCollector CPU采集器：根据两次 cpu.Times 的差值计算各模式百分比
type CPUCollector struct {
	name    string
	perCore bool

	times  func(ctx context.Context, percpu bool) ([]cpu.TimesStat, error)
	counts func(ctx context.Context, logical bool) (int, error)

	cpuCores     int
	lastCPUTimes map[string]cpu.TimesStat // 上一次的CPU时间，用于计算使用率
}

// NewCPUCollector 创建CPU采集器
func NewCPUCollector(cfg *config.CollectorConfig) *CPUCollector {
	return &CPUCollector{
		name:         "cpu",
		perCore:      cfg.CollectPerCore,
		times:        cpu.TimesWithContext,
		counts:       cpu.CountsWithContext,
		lastCPUTimes: make(map[string]cpu.TimesStat),
	}
}

// Name 返回采集器名称
func (c *CPUCollector) Name() string { return c.name }

// Init 预检查CPU可用性，并记录首个基准样本
func (c *CPUCollector) Init() error {
	ctx := context.Background()
	n, err := c.counts(ctx, true)
	if err != nil {
		return fmt.Errorf("get cpu counts: %w", err)
	}
	c.cpuCores = n
	if _, err := c.sample(ctx); err != nil {
		return err
	}
	return nil
}

// Collect 产出 cpu（总体）以及可选的 percpu（每核）快照
func (c *CPUCollector) Collect(ctx context.Context) ([]Snapshot, error) {
	deltas, err := c.sample(ctx)
	if err != nil {
		return nil, err
	}

	var out []Snapshot
	for _, d := range deltas {
		if d.cpu == "cpu-total" {
			s := newSnapshot("cpu", len(cpuModes)+2)
			s.add("total", d.total)
			d.appendModes(&s)
			s.add("cpucore", c.cpuCores)
			out = append(out, s)
			continue
		}
		s := newSnapshot("percpu", len(cpuModes)+2)
		s.add("cpu_number", d.cpu)
		s.add("total", d.total)
		d.appendModes(&s)
		out = append(out, s)
	}
	return out, nil
}

type cpuDelta struct {
	cpu   string
	total float64
	modes map[string]float64
}

func (d cpuDelta) appendModes(s *Snapshot) {
	for _, m := range cpuModes {
		s.add(m, d.modes[m])
	}
}

// sample 读取当前CPU时间，与上一次比较得到百分比；首次采集或时间未变化的CPU不产出
func (c *CPUCollector) sample(ctx context.Context) ([]cpuDelta, error) {
	stats, err := c.times(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("get cpu times: %w", err)
	}
	if c.perCore {
		perCPU, err := c.times(ctx, true)
		if err != nil {
			return nil, fmt.Errorf("get per-cpu times: %w", err)
		}
		stats = append(stats, perCPU...)
	}

	var deltas []cpuDelta
	for _, cur := range stats {
		last, exists := c.lastCPUTimes[cur.CPU]
		c.lastCPUTimes[cur.CPU] = cur
		if !exists {
			logger.Debug("first collect CPU times (skip usage calc)", zap.String("cpu", cur.CPU))
			continue
		}

		modes := map[string]float64{
			"user":    cur.User - last.User,
			"nice":    cur.Nice - last.Nice,
			"system":  cur.System - last.System,
			"idle":    cur.Idle - last.Idle,
			"iowait":  cur.Iowait - last.Iowait,
			"irq":     cur.Irq - last.Irq,
			"softirq": cur.Softirq - last.Softirq,
			"steal":   cur.Steal - last.Steal,
		}
		var deltaTotal float64
		for _, v := range modes {
			deltaTotal += v
		}
		if deltaTotal <= 0 {
			logger.Debug("CPU total time not changed (skip usage calc)", zap.String("cpu", cur.CPU))
			continue
		}

		for m, v := range modes {
			modes[m] = round2(v / deltaTotal * 100)
		}
		deltas = append(deltas, cpuDelta{
			cpu:   cur.CPU,
			total: round2(100 - modes["idle"]),
			modes: modes,
		})
	}
	return deltas, nil
}

func (c *CPUCollector) Close() error {
	c.lastCPUTimes = make(map[string]cpu.TimesStat)
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
