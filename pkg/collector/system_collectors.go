package collector

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

// LoadCollector 1/5/15 分钟负载
type LoadCollector struct {
	avg    func(ctx context.Context) (*load.AvgStat, error)
	counts func(ctx context.Context, logical bool) (int, error)
	cores  int
}

func NewLoadCollector() *LoadCollector {
	return &LoadCollector{avg: load.AvgWithContext, counts: cpu.CountsWithContext}
}

func (c *LoadCollector) Name() string { return "load" }

func (c *LoadCollector) Init() error {
	n, err := c.counts(context.Background(), true)
	if err != nil {
		return fmt.Errorf("get cpu counts: %w", err)
	}
	c.cores = n
	return nil
}

func (c *LoadCollector) Collect(ctx context.Context) ([]Snapshot, error) {
	avg, err := c.avg(ctx)
	if err != nil {
		return nil, fmt.Errorf("get load average: %w", err)
	}
	s := newSnapshot("load", 4)
	s.add("min1", avg.Load1)
	s.add("min5", avg.Load5)
	s.add("min15", avg.Load15)
	s.add("cpucore", c.cores)
	return []Snapshot{s}, nil
}

func (c *LoadCollector) Close() error { return nil }

// MemCollector 物理内存
type MemCollector struct {
	virtual func(ctx context.Context) (*mem.VirtualMemoryStat, error)
}

func NewMemCollector() *MemCollector {
	return &MemCollector{virtual: mem.VirtualMemoryWithContext}
}

func (c *MemCollector) Name() string { return "mem" }
func (c *MemCollector) Init() error  { return nil }
func (c *MemCollector) Close() error { return nil }

func (c *MemCollector) Collect(ctx context.Context) ([]Snapshot, error) {
	vm, err := c.virtual(ctx)
	if err != nil {
		return nil, fmt.Errorf("get virtual memory: %w", err)
	}
	s := newSnapshot("mem", 9)
	s.add("total", vm.Total)
	s.add("available", vm.Available)
	s.add("percent", round2(vm.UsedPercent))
	s.add("used", vm.Used)
	s.add("free", vm.Free)
	s.add("active", vm.Active)
	s.add("inactive", vm.Inactive)
	s.add("buffers", vm.Buffers)
	s.add("cached", vm.Cached)
	return []Snapshot{s}, nil
}

// MemSwapCollector 交换分区
type MemSwapCollector struct {
	swap func(ctx context.Context) (*mem.SwapMemoryStat, error)
}

func NewMemSwapCollector() *MemSwapCollector {
	return &MemSwapCollector{swap: mem.SwapMemoryWithContext}
}

func (c *MemSwapCollector) Name() string { return "memswap" }
func (c *MemSwapCollector) Init() error  { return nil }
func (c *MemSwapCollector) Close() error { return nil }

func (c *MemSwapCollector) Collect(ctx context.Context) ([]Snapshot, error) {
	sw, err := c.swap(ctx)
	if err != nil {
		return nil, fmt.Errorf("get swap memory: %w", err)
	}
	s := newSnapshot("memswap", 6)
	s.add("total", sw.Total)
	s.add("used", sw.Used)
	s.add("free", sw.Free)
	s.add("percent", round2(sw.UsedPercent))
	s.add("sin", sw.Sin)
	s.add("sout", sw.Sout)
	return []Snapshot{s}, nil
}
