package actorcell

import (
	"context"
	"time"

	"actorcell/internal/config"
	"actorcell/pkg/actor"
	"actorcell/pkg/deadletter"
	"actorcell/pkg/glog"
	"actorcell/pkg/lib/grs"
	"actorcell/pkg/lib/timex"
	"actorcell/pkg/lib/workers"

	"go.uber.org/zap"
)

// Init 读取配置文件并初始化日志与协程池
func Init(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	return InitWithConfig(cfg)
}

func InitWithConfig(cfg *config.Config) error {
	glog.Init(&cfg.Glog)
	return workers.Init(cfg.Pool.Size)
}

// New 创建 cell，见 actor.New
func New[S, M any](initial S, handler actor.Handler[S, M], options ...actor.Option) *actor.Cell[S, M] {
	return actor.New(initial, handler, options...)
}

// DeadLetters 进程级死信流
func DeadLetters() *deadletter.Stream {
	return deadletter.Default()
}

// Shutdown 关闭进程级资源：受管协程、协程池、死信流、时间轮，最后刷新日志
func Shutdown(timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := grs.Shutdown(ctx); err != nil {
		glog.Warn("shutdown goroutines", zap.Error(err))
	}
	if err := workers.Release(timeout); err != nil {
		glog.Warn("release workers pool", zap.Error(err))
	}
	deadletter.Shutdown()
	timex.Stop()
	glog.Stop()
}
