package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"actorcell"
	"actorcell/internal/bench"
	"actorcell/internal/config"
	"actorcell/pkg/glog"

	"go.uber.org/zap"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML 配置文件路径，为空时使用默认配置")
		dumpConfig = flag.Bool("dump-config", false, "输出生效的配置后退出")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			glog.Fatal("load config", zap.String("path", *configPath), zap.Error(err))
		}
		cfg = loaded
	}
	if *dumpConfig {
		if err := cfg.Dump(os.Stdout); err != nil {
			glog.Fatal("dump config", zap.Error(err))
		}
		return
	}

	if err := actorcell.InitWithConfig(cfg); err != nil {
		glog.Fatal("init", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	result, err := bench.Run(ctx, cfg)
	stop()

	code := 0
	switch {
	case err != nil:
		glog.Error("bench failed", zap.Error(err))
		code = 1
	case !result.OK():
		glog.Error("bench state mismatch", zap.Int64("state", result.FinalState), zap.Int64("expected", result.Expected))
		code = 1
	default:
		glog.Info("bench done",
			zap.Uint64("posted", result.Posted),
			zap.Int64("state", result.FinalState),
			zap.Uint64("deadLetters", result.DeadLetters),
			zap.Uint64("restarts", result.Stats.Restarts),
			zap.Duration("elapsed", result.Elapsed),
			zap.Float64("msgPerSec", float64(result.Stats.Handled)/result.Elapsed.Seconds()))
	}

	actorcell.Shutdown(cfg.Pool.ReleaseTimeout)
	os.Exit(code)
}
