package config

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(t *testing.T, settings map[string]any) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.Set("log.path", t.TempDir())
	for k, val := range settings {
		v.Set(k, val)
	}
	return v
}

func TestDecodeSimpleMode(t *testing.T) {
	v := newViper(t, map[string]any{
		"mongodb.host":     "127.0.0.1",
		"mongodb.port":     "27017",
		"mongodb.db":       "glances",
		"mongodb.timeout":  "3s",
		"monitor.interval": "5s",
	})

	cfg, err := Decode(v)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.MongoDB.Host)
	assert.Equal(t, 27017, cfg.MongoDB.Port)
	assert.Equal(t, "glances", cfg.MongoDB.DB)
	assert.Equal(t, 3*time.Second, cfg.MongoDB.Timeout)
	assert.Equal(t, 5*time.Second, cfg.Monitor.Interval)
	assert.False(t, cfg.MongoDB.IncludeHostname())
}

func TestDecodeMissingMandatoryKeys(t *testing.T) {
	v := newViper(t, map[string]any{
		"mongodb.host": "127.0.0.1",
	})

	_, err := Decode(v)
	require.Error(t, err)

	var missing *MissingKeysError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, MongoSection, missing.Section)
	assert.Equal(t, []string{"port", "db"}, missing.Keys)
}

func TestDecodeReplicaMode(t *testing.T) {
	v := newViper(t, map[string]any{
		"mongodb.replica_flag":       true,
		"mongodb.db":                 "glances",
		"mongodb.replica_connection": "a:27017,b:27017",
		"mongodb.replicaSet":         "rs0",
	})

	cfg, err := Decode(v)
	require.NoError(t, err)
	assert.True(t, cfg.MongoDB.ReplicaFlag)
	assert.Equal(t, "rs0", cfg.MongoDB.ReplicaSet)
	assert.True(t, cfg.MongoDB.IncludeHostname())
}

func TestDecodeEnvOverride(t *testing.T) {
	v := newViper(t, map[string]any{
		"mongodb.host": "127.0.0.1",
		"mongodb.port": 27017,
	})
	v.SetDefault("mongodb.db", "")
	t.Setenv("MONGODB_DB", "from-env")

	cfg, err := Decode(v)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.MongoDB.DB)
}

func TestMongoConfigMandatoryKeys(t *testing.T) {
	tests := []struct {
		name    string
		cfg     MongoConfig
		missing []string
	}{
		{"simple complete", MongoConfig{Host: "h", Port: 1, DB: "d"}, nil},
		{"simple empty", MongoConfig{}, []string{"host", "port", "db"}},
		{"simple blank host", MongoConfig{Host: "  ", Port: 1, DB: "d"}, []string{"host"}},
		{"replica only db", MongoConfig{ReplicaFlag: true, DB: "d"}, nil},
		{"replica without db", MongoConfig{ReplicaFlag: true}, []string{"db"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.missing, tt.cfg.MissingKeys())
			if tt.missing == nil {
				assert.NoError(t, tt.cfg.CheckMandatory())
			} else {
				assert.Error(t, tt.cfg.CheckMandatory())
			}
		})
	}
}

func TestMongoConfigValidate(t *testing.T) {
	base := NewDefaultConfig().MongoDB

	badPort := base
	badPort.Host, badPort.Port, badPort.DB = "h", 70000, "d"
	assert.Error(t, badPort.Validate())

	noSeed := base
	noSeed.ReplicaFlag, noSeed.DB = true, "d"
	assert.Error(t, noSeed.Validate())

	hostSeed := noSeed
	hostSeed.Host, hostSeed.Port = "h", 27017
	assert.NoError(t, hostSeed.Validate())

	badHostname := hostSeed
	badHostname.Hostname = "sometimes"
	assert.Error(t, badHostname.Validate())
}

func TestIncludeHostname(t *testing.T) {
	assert.True(t, MongoConfig{Hostname: "true"}.IncludeHostname())
	assert.False(t, MongoConfig{Hostname: "false", ReplicaFlag: true}.IncludeHostname())
	assert.True(t, MongoConfig{Hostname: "auto", ReplicaFlag: true}.IncludeHostname())
	assert.False(t, MongoConfig{Hostname: "auto"}.IncludeHostname())
}

func TestMonitorValidate(t *testing.T) {
	m := NewDefaultConfig().Monitor
	require.NoError(t, m.Validate())

	m.Interval = 500 * time.Millisecond
	assert.Error(t, m.Validate())

	m = NewDefaultConfig().Monitor
	m.Collectors = CollectorConfig{}
	assert.Error(t, m.Validate())

	m = NewDefaultConfig().Monitor
	m.Collectors.IgnoreNetworks = []string{"lo", "lo"}
	assert.Error(t, m.Validate())
}

func TestLogValidate(t *testing.T) {
	tests := []struct {
		level   string
		wantErr bool
	}{
		{"debug", false},
		{"error", false},
		{"critical", false},
		{"trace", true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l := NewDefaultConfig().Log
			l.Path = t.TempDir()
			l.Level = tt.level
			if tt.wantErr {
				assert.Error(t, l.Validate())
			} else {
				assert.NoError(t, l.Validate())
			}
		})
	}
}

func TestDecodeLogRetention(t *testing.T) {
	v := newViper(t, map[string]any{
		"mongodb.host":   "127.0.0.1",
		"mongodb.port":   27017,
		"mongodb.db":     "glances",
		"log.max_size":   "5",
		"log.max_backup": "3",
	})
	cfg, err := Decode(v)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Log.MaxSize)
	assert.Equal(t, 3, cfg.Log.MaxBackup)
	assert.Equal(t, 7, cfg.Log.MaxAge)
}
