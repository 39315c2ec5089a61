package mongodb

import "fmt"

// ConfigError mongodb 段配置不完整，导出被禁用，未尝试连接
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("mongodb export disabled: %v", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ConnectionError 启动时无法连接或认证失败
type ConnectionError struct {
	URI string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot connect to Mongodb server %s: %v", e.URI, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// WriteError 单次导出失败，调用方记录后继续下一次
type WriteError struct {
	Type string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("cannot export %s stats to Mongodb: %v", e.Type, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
