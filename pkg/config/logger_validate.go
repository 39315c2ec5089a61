package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Validate 日志配置校验
//
//	Level   oneof 预校验后再做小写比较
//	Format  oneof=json console
//	Path    必须是可写目录，不存在时自动创建
func (l *ZapLogConfig) Validate() error {
	if err := valid.Struct(l); err != nil {
		return fmt.Errorf("log config invalid: %w", err)
	}

	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "error", "critical":
	default:
		return fmt.Errorf("log.level invalid (valid: debug/info/warn/error/critical), got %s", l.Level)
	}

	abs, err := filepath.Abs(l.Path)
	if err != nil {
		return fmt.Errorf("log.path cannot be resolved, got %s: %w", l.Path, err)
	}
	if err := ensureDir(abs); err != nil {
		return fmt.Errorf("log.path is not a writable directory, got %s: %w", l.Path, err)
	}
	return nil
}

func ensureDir(path string) error {
	stat, err := os.Stat(path)
	if os.IsNotExist(err) {
		return os.MkdirAll(path, 0755)
	}
	if err != nil {
		return err
	}
	if !stat.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}
