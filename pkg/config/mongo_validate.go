package config

import (
	"fmt"
	"strings"
)

// MongoSection 配置文件中的段名
const MongoSection = "mongodb"

// MissingKeysError 段中缺少必填项
type MissingKeysError struct {
	Section string
	Keys    []string
}

func (e *MissingKeysError) Error() string {
	return fmt.Sprintf("missing mandatory key(s) in [%s] section: %s", e.Section, strings.Join(e.Keys, ", "))
}

// MandatoryKeys 返回当前模式下的必填项
func (m MongoConfig) MandatoryKeys() []string {
	if m.ReplicaFlag {
		return []string{"replica_flag", "db"}
	}
	return []string{"host", "port", "db"}
}

// OptionalKeys 返回当前模式下的可选项
func (m MongoConfig) OptionalKeys() []string {
	if m.ReplicaFlag {
		return []string{"host", "port", "replica_connection", "replicaSet", "user", "password"}
	}
	return []string{"user", "password"}
}

// MissingKeys 按必填项顺序列出零值字段
func (m MongoConfig) MissingKeys() []string {
	var missing []string
	for _, key := range m.MandatoryKeys() {
		if !m.isSet(key) {
			missing = append(missing, key)
		}
	}
	return missing
}

func (m MongoConfig) isSet(key string) bool {
	switch key {
	case "host":
		return strings.TrimSpace(m.Host) != ""
	case "port":
		return m.Port != 0
	case "db":
		return strings.TrimSpace(m.DB) != ""
	case "replica_flag":
		return m.ReplicaFlag
	case "replica_connection":
		return m.ReplicaConnection != ""
	case "replicaSet":
		return m.ReplicaSet != ""
	case "user":
		return m.User != ""
	case "password":
		return m.Password != ""
	}
	return false
}

// CheckMandatory 缺失必填项时返回 *MissingKeysError
func (m MongoConfig) CheckMandatory() error {
	if missing := m.MissingKeys(); len(missing) > 0 {
		return &MissingKeysError{Section: MongoSection, Keys: missing}
	}
	return nil
}

// IncludeHostname 文档中是否写入 hostname 字段
func (m MongoConfig) IncludeHostname() bool {
	switch m.Hostname {
	case "true":
		return true
	case "false":
		return false
	}
	return m.ReplicaFlag
}

// Validate mongodb 段校验：先必填项，再格式
func (m *MongoConfig) Validate() error {
	if err := m.CheckMandatory(); err != nil {
		return err
	}
	if err := valid.Struct(m); err != nil {
		return fmt.Errorf("mongodb config invalid: %w", err)
	}
	// 副本集模式下至少要有一个种子地址
	if m.ReplicaFlag && m.ReplicaConnection == "" && (m.Host == "" || m.Port == 0) {
		return fmt.Errorf("mongodb replica mode needs replica_connection or host/port as seed")
	}
	return nil
}
