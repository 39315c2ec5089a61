package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// Validate HTTP服务配置校验
func (h *ServerConfig) Validate() error {
	if err := valid.Struct(h); err != nil {
		return err
	}
	if h.Addr == "" {
		return errors.New("server.addr cannot be empty")
	}
	// 	用net包解析地址，验证格式合法性
	if _, err := net.ResolveTCPAddr("tcp", h.Addr); err != nil {
		return fmt.Errorf("server.addr format invalid (expected: :port or ip:port), got %s: %w", h.Addr, err)
	}
	return nil
}

// Validate 采集间隔 1s ~ 3600s
func (m *MonitorConfig) Validate() error {
	if err := valid.Struct(m); err != nil {
		return err
	}
	if m.Interval < time.Second || m.Interval > 3600*time.Second {
		return fmt.Errorf("monitor.interval must be between 1 and 3600 seconds, got %s", m.Interval)
	}
	return m.Collectors.validate()
}

// 校验至少启用一个采集器，否则没有意义
func (col *CollectorConfig) validate() error {
	if err := valid.Struct(col); err != nil {
		return err
	}
	if !col.CPU && !col.Load && !col.Mem && !col.MemSwap && !col.Network && !col.FS {
		return fmt.Errorf("at least one collector must be enabled (cpu/load/mem/memswap/network/fs)")
	}
	if err := checkIgnoreList("collectors.ignore_disks", col.IgnoreDisks); err != nil {
		return err
	}
	return checkIgnoreList("collectors.ignore_networks", col.IgnoreNetworks)
}

// checkIgnoreList 忽略列表不能包含空字符串、空白字符或重复项
func checkIgnoreList(field string, items []string) error {
	seen := map[string]bool{}
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			return fmt.Errorf("%s cannot contain empty string", field)
		}
		if strings.ContainsAny(item, " \t\r\n") {
			return fmt.Errorf("%s: %q contains whitespace", field, item)
		}
		if seen[item] {
			return fmt.Errorf("%s duplicated entry: %q", field, item)
		}
		seen[item] = true
	}
	return nil
}
