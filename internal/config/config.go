package config

import (
	"io"
	"strings"
	"time"

	"actorcell/internal/errs"
	"actorcell/pkg/glog"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// 调度器类型
const (
	DispatcherPool         = "pool"
	DispatcherGoroutine    = "goroutine"
	DispatcherSynchronized = "synchronized"
)

// Config cell-bench 配置
type Config struct {
	// Glog 日志配置
	Glog glog.Config `json:"glog" yaml:"glog" mapstructure:"glog"`
	// Cell cell 配置
	Cell CellConfig `json:"cell" yaml:"cell" mapstructure:"cell"`
	// Pool 进程级协程池配置
	Pool PoolConfig `json:"pool" yaml:"pool" mapstructure:"pool"`
	// Bench 压测配置
	Bench BenchConfig `json:"bench" yaml:"bench" mapstructure:"bench"`
}

type CellConfig struct {
	// Throughput 单次调度最多处理的消息数
	Throughput int `json:"throughput" yaml:"throughput" mapstructure:"throughput"`
	// Dispatcher 调度器: pool, goroutine, synchronized
	Dispatcher string `json:"dispatcher" yaml:"dispatcher" mapstructure:"dispatcher"`
}

type PoolConfig struct {
	// Size 池容量
	Size int `json:"size" yaml:"size" mapstructure:"size"`
	// ReleaseTimeout 退出时等待在途任务的时间
	ReleaseTimeout time.Duration `json:"releaseTimeout" yaml:"releaseTimeout" mapstructure:"releaseTimeout"`
}

type BenchConfig struct {
	// Producers 并发生产者数
	Producers int `json:"producers" yaml:"producers" mapstructure:"producers"`
	// Messages 每个生产者投递的消息数
	Messages int `json:"messages" yaml:"messages" mapstructure:"messages"`
	// Timeout 等待静止的最长时间
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	// ReportInterval 进度日志间隔，0 表示不输出
	ReportInterval time.Duration `json:"reportInterval" yaml:"reportInterval" mapstructure:"reportInterval"`
	// LateMessages 停止后额外投递的消息数，用于验证死信
	LateMessages int `json:"lateMessages" yaml:"lateMessages" mapstructure:"lateMessages"`
}

// Default 生成默认配置
func Default() *Config {
	logCfg := glog.DefaultConfig()
	logCfg.Path = "./logs/cell-bench.log"
	return &Config{
		Glog: *logCfg,
		Cell: CellConfig{
			Throughput: 300,
			Dispatcher: DispatcherPool,
		},
		Pool: PoolConfig{
			Size:           5000,
			ReleaseTimeout: 5 * time.Second,
		},
		Bench: BenchConfig{
			Producers:      8,
			Messages:       10000,
			Timeout:        30 * time.Second,
			ReportInterval: time.Second,
			LateMessages:   100,
		},
	}
}

// Load 读取 YAML 配置，未配置的字段保留默认值
func Load(path string) (*Config, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	if err := vp.ReadInConfig(); err != nil {
		return nil, errs.ErrReadConfigFileFailed(err)
	}
	cfg := Default()
	if err := vp.Unmarshal(cfg); err != nil {
		return nil, errs.ErrUnmarshalConfigFailed(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Dump 以 YAML 输出配置
func (c *Config) Dump(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

func (c *Config) Validate() error {
	if c.Cell.Throughput <= 0 {
		return errs.ErrInvalidConfig("cell.throughput", c.Cell.Throughput)
	}
	switch strings.ToLower(c.Cell.Dispatcher) {
	case DispatcherPool, DispatcherGoroutine, DispatcherSynchronized:
	default:
		return errs.ErrInvalidConfig("cell.dispatcher", c.Cell.Dispatcher)
	}
	if c.Pool.Size <= 0 {
		return errs.ErrInvalidConfig("pool.size", c.Pool.Size)
	}
	if c.Bench.Producers <= 0 {
		return errs.ErrInvalidConfig("bench.producers", c.Bench.Producers)
	}
	if c.Bench.Messages < 0 {
		return errs.ErrInvalidConfig("bench.messages", c.Bench.Messages)
	}
	if c.Bench.Timeout <= 0 {
		return errs.ErrInvalidConfig("bench.timeout", c.Bench.Timeout)
	}
	return nil
}
