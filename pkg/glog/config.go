package glog

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// Config glog 配置
type Config struct {
	// Path 日志文件路径，为空时不写文件
	Path string `json:"path" yaml:"path" mapstructure:"path"`
	// Level 日志级别: debug, info, warn, error, dpanic, panic, fatal
	Level string `json:"level" yaml:"level" mapstructure:"level"`
	// PrintConsole 是否同时输出到控制台
	PrintConsole bool `json:"printConsole" yaml:"printConsole" mapstructure:"printConsole"`
	// File 文件切割配置（lumberjack）
	File FileConfig `json:"file" yaml:"file" mapstructure:"file"`
}

// FileConfig 文件日志配置
type FileConfig struct {
	// MaxSize 单个日志文件最大大小（MB）
	MaxSize int `json:"maxSize" yaml:"maxSize" mapstructure:"maxSize"`
	// MaxBackups 最大文件保留数
	MaxBackups int `json:"maxBackups" yaml:"maxBackups" mapstructure:"maxBackups"`
	// MaxAge 日志文件保留天数
	MaxAge int `json:"maxAge" yaml:"maxAge" mapstructure:"maxAge"`
	// Compress 是否压缩旧日志文件
	Compress bool `json:"compress" yaml:"compress" mapstructure:"compress"`
	// LocalTime 是否使用本地时间
	LocalTime bool `json:"localTime" yaml:"localTime" mapstructure:"localTime"`
}

// DefaultConfig 默认只输出到控制台
func DefaultConfig() *Config {
	return &Config{
		Path:         "",
		Level:        "info",
		PrintConsole: true,
		File:         DefaultFileConfig(),
	}
}

func DefaultFileConfig() FileConfig {
	return FileConfig{
		MaxSize:    500,
		MaxBackups: 100,
		MaxAge:     30,
		Compress:   false,
		LocalTime:  true,
	}
}

// ParseLevel 解析日志级别，未知级别按 info 处理
func ParseLevel(level string) zapcore.Level {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return zapcore.InfoLevel
	}
	return l
}
