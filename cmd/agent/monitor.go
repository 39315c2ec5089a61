package agent

import (
	"github.com/spf13/cobra"
)

func initMonitorFlags(root *cobra.Command) {
	f := root.PersistentFlags()
	c := defaultCfg.Monitor.Collectors
	prefix := "monitor.collectors."

	f.Duration("monitor.interval", defaultCfg.Monitor.Interval, "采集导出间隔")

	f.Bool(prefix+"cpu", c.CPU, "采集 cpu")
	f.Bool(prefix+"collect_per_core", c.CollectPerCore, "按核心导出 percpu")
	f.Bool(prefix+"load", c.Load, "采集 load")
	f.Bool(prefix+"mem", c.Mem, "采集 mem")
	f.Bool(prefix+"memswap", c.MemSwap, "采集 memswap")
	f.Bool(prefix+"network", c.Network, "采集 network")
	f.Bool(prefix+"fs", c.FS, "采集 fs")

	f.StringSlice(prefix+"ignore_disks", c.IgnoreDisks, "忽略磁盘")
	f.StringSlice(prefix+"ignore_networks", c.IgnoreNetworks, "忽略网络网卡")
}
