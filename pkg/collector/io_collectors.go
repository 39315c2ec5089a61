package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/net"
	"go.uber.org/zap"

	"github.com/agent-mongo-exporter/pkg/logger"
)

// NetworkCollector 每个网卡一个快照；rx/tx 为距上次采集的增量字节数
type NetworkCollector struct {
	ignore   []string
	counters func(ctx context.Context, pernic bool) ([]net.IOCountersStat, error)
	clock    func() time.Time

	last     map[string]net.IOCountersStat
	lastTime time.Time
}

func NewNetworkCollector(ignore []string) *NetworkCollector {
	return &NetworkCollector{
		ignore:   ignore,
		counters: net.IOCountersWithContext,
		clock:    time.Now,
		last:     make(map[string]net.IOCountersStat),
	}
}

func (c *NetworkCollector) Name() string { return "network" }

// Init 记录首个基准样本
func (c *NetworkCollector) Init() error {
	_, err := c.Collect(context.Background())
	return err
}

func (c *NetworkCollector) Collect(ctx context.Context) ([]Snapshot, error) {
	stats, err := c.counters(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("get network io counters: %w", err)
	}
	now := c.clock()
	elapsed := now.Sub(c.lastTime).Seconds()
	first := c.lastTime.IsZero()

	var out []Snapshot
	for _, cur := range stats {
		if ignored(c.ignore, cur.Name) {
			continue
		}
		prev, exists := c.last[cur.Name]
		c.last[cur.Name] = cur
		if first || !exists {
			continue
		}
		// 计数器回绕或网卡重建时跳过本次
		if cur.BytesRecv < prev.BytesRecv || cur.BytesSent < prev.BytesSent {
			logger.Debug("network counters reset", zap.String("interface", cur.Name))
			continue
		}
		s := newSnapshot("network", 6)
		s.add("interface_name", cur.Name)
		s.add("time_since_update", round2(elapsed))
		s.add("rx", cur.BytesRecv-prev.BytesRecv)
		s.add("tx", cur.BytesSent-prev.BytesSent)
		s.add("cumulative_rx", cur.BytesRecv)
		s.add("cumulative_tx", cur.BytesSent)
		out = append(out, s)
	}
	c.lastTime = now
	return out, nil
}

func (c *NetworkCollector) Close() error { return nil }

// FSCollector 每个挂载点一个快照
type FSCollector struct {
	ignore     []string
	partitions func(ctx context.Context, all bool) ([]disk.PartitionStat, error)
	usage      func(ctx context.Context, path string) (*disk.UsageStat, error)
}

func NewFSCollector(ignore []string) *FSCollector {
	return &FSCollector{
		ignore:     ignore,
		partitions: disk.PartitionsWithContext,
		usage:      disk.UsageWithContext,
	}
}

func (c *FSCollector) Name() string { return "fs" }
func (c *FSCollector) Init() error  { return nil }
func (c *FSCollector) Close() error { return nil }

// Collect 单个挂载点读取失败只记录日志，不影响其它挂载点
func (c *FSCollector) Collect(ctx context.Context) ([]Snapshot, error) {
	parts, err := c.partitions(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("get disk partitions: %w", err)
	}
	var out []Snapshot
	for _, p := range parts {
		if ignored(c.ignore, p.Device, p.Mountpoint) {
			continue
		}
		u, err := c.usage(ctx, p.Mountpoint)
		if err != nil {
			logger.Warn("failed to get fs usage", zap.String("mnt_point", p.Mountpoint), zap.Error(err))
			continue
		}
		s := newSnapshot("fs", 7)
		s.add("device_name", p.Device)
		s.add("fs_type", p.Fstype)
		s.add("mnt_point", p.Mountpoint)
		s.add("size", u.Total)
		s.add("used", u.Used)
		s.add("free", u.Free)
		s.add("percent", round2(u.UsedPercent))
		out = append(out, s)
	}
	return out, nil
}
