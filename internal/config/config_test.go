package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 300, cfg.Cell.Throughput)
	assert.Equal(t, DispatcherPool, cfg.Cell.Dispatcher)
	assert.Equal(t, "info", cfg.Glog.Level)
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeFile(t, `
glog:
  level: debug
  printConsole: false
cell:
  throughput: 64
  dispatcher: goroutine
bench:
  producers: 2
  timeout: 3s
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Glog.Level)
	assert.False(t, cfg.Glog.PrintConsole)
	assert.Equal(t, 64, cfg.Cell.Throughput)
	assert.Equal(t, DispatcherGoroutine, cfg.Cell.Dispatcher)
	assert.Equal(t, 2, cfg.Bench.Producers)
	assert.Equal(t, 3*time.Second, cfg.Bench.Timeout)
	// 未配置的字段保留默认值
	assert.Equal(t, 10000, cfg.Bench.Messages)
	assert.Equal(t, 5000, cfg.Pool.Size)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config file failed")

	_, err = Load(writeFile(t, "cell:\n  dispatcher: fiber\n"))
	assert.ErrorContains(t, err, "cell.dispatcher")

	_, err = Load(writeFile(t, "bench:\n  producers: 0\n"))
	assert.ErrorContains(t, err, "bench.producers")
}

func TestDump_CanBeLoaded(t *testing.T) {
	cfg := Default()
	cfg.Bench.Producers = 3
	cfg.Pool.ReleaseTimeout = 1500 * time.Millisecond

	var buf bytes.Buffer
	require.NoError(t, cfg.Dump(&buf))
	assert.Contains(t, buf.String(), "producers: 3")

	loaded, err := Load(writeFile(t, buf.String()))
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
