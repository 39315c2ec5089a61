package agent

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agent-mongo-exporter/pkg/config"
	"github.com/agent-mongo-exporter/pkg/exporter/mongodb"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	body = fmt.Sprintf("log:\n  path: %s\n%s", filepath.Join(dir, "logs"), body)
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(body), 0o600))
	return file
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"config load", &configLoadError{err: errors.New("read config file")}, 2},
		{"missing keys", fmt.Errorf("validate config: %w", &config.MissingKeysError{Section: "mongodb", Keys: []string{"db"}}), 2},
		{"exporter config", &mongodb.ConfigError{Err: errors.New("db")}, 2},
		{"connection", &mongodb.ConnectionError{URI: "mongodb://h:1/", Err: errors.New("refused")}, 2},
		{"other", errors.New("start HTTP server failed"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestLoadConfigFileAndFlags(t *testing.T) {
	file := writeConfig(t, `
mongodb:
  host: db.local
  port: 27017
  db: glances
  replicaSet: rs0
monitor:
  interval: 5s
  collectors:
    fs: false
`)
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"-c", file, "--mongodb.port=27018", "--monitor.collectors.ignore_networks=lo,docker0"}))

	cfg, err := config.LoadConfigWithCli(cmd)
	require.NoError(t, err)
	assert.Equal(t, "db.local", cfg.MongoDB.Host)
	assert.Equal(t, 27018, cfg.MongoDB.Port)
	assert.Equal(t, "glances", cfg.MongoDB.DB)
	assert.Equal(t, "rs0", cfg.MongoDB.ReplicaSet)
	assert.Equal(t, "auto", cfg.MongoDB.Hostname)
	assert.Equal(t, 10*time.Second, cfg.MongoDB.Timeout)
	assert.Equal(t, 5*time.Second, cfg.Monitor.Interval)
	assert.False(t, cfg.Monitor.Collectors.FS)
	assert.True(t, cfg.Monitor.Collectors.CPU)
	assert.Equal(t, []string{"lo", "docker0"}, cfg.Monitor.Collectors.IgnoreNetworks)
	assert.Equal(t, defaultCfg.Server.Addr, cfg.Server.Addr)
}

func TestLoadConfigMissingMongoKeys(t *testing.T) {
	file := writeConfig(t, `
mongodb:
  host: db.local
`)
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"-c", file}))

	_, err := config.LoadConfigWithCli(cmd)
	require.Error(t, err)
	var missing *config.MissingKeysError
	require.ErrorAs(t, err, &missing)
	assert.ElementsMatch(t, []string{"port", "db"}, missing.Keys)
}

func TestRunMissingConfigFileExitsTwo(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"-c", filepath.Join(t.TempDir(), "absent.yaml")})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
}
