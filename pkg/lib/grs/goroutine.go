// Package grs 受管 goroutine：统一计数、panic 捕获与退出等待
package grs

import (
	"context"
	"sync"
	"sync/atomic"

	"actorcell/internal/errs"
	"actorcell/pkg/glog"

	"go.uber.org/zap"
)

var (
	group        sync.WaitGroup
	ctx, cancel  = context.WithCancel(context.Background())
	panicHandler atomic.Value // func(interface{})
	isShutdown   atomic.Bool
	goCount      atomic.Int64
	panicCount   atomic.Uint64
)

func init() {
	SetPanicHandler(func(r interface{}) {
		glog.Error("goroutine panic", zap.Any("recover", r), zap.Stack("stack"))
	})
}

// Go 启动受管 goroutine，ctx 在 Shutdown 时取消
func Go(f func(ctx context.Context)) {
	GoTry(f, nil)
}

func GoTry(f func(ctx context.Context), try func(r interface{})) {
	group.Add(1) // 启动前Add，避免竞态
	goCount.Add(1)
	go func() {
		defer func() {
			goCount.Add(-1)
			group.Done()
		}()
		Try(func() { f(ctx) }, try)
	}()
}

// Try 执行 f 并捕获 panic，先调用 reFun 再调用全局 panic 处理函数
func Try(f func(), reFun func(r interface{})) {
	defer func() {
		if r := recover(); r != nil {
			panicCount.Add(1)
			if reFun != nil {
				reFun(r)
			}
			if h, ok := panicHandler.Load().(func(interface{})); ok && h != nil {
				h(r)
			}
		}
	}()
	f()
}

func SetPanicHandler(handler func(interface{})) {
	panicHandler.Store(handler)
}

// Count 当前存活的受管 goroutine 数
func Count() int64 {
	return goCount.Load()
}

// PanicCount 累计捕获的 panic 次数
func PanicCount() uint64 {
	return panicCount.Load()
}

// Shutdown 取消 ctx 并等待所有受管 goroutine 退出
func Shutdown(waitCtx context.Context) error {
	if !isShutdown.CompareAndSwap(false, true) {
		return nil
	}
	cancel()
	done := make(chan struct{})
	go func() {
		group.Wait()
		close(done)
	}()
	select {
	case <-done:
		glog.Info("所有受管协程已退出")
	case <-waitCtx.Done():
		return errs.ErrShutdownTimeout(Count())
	}
	return nil
}

// Wait 等待所有受管 goroutine 退出，不取消 ctx
func Wait(waitCtx context.Context) error {
	done := make(chan struct{})
	go func() {
		group.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-waitCtx.Done():
		return waitCtx.Err()
	}
}
