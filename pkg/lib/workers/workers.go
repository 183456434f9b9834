// Package workers 进程级协程池，cell 的默认调度器基于它提交任务
package workers

import (
	"sync"
	"sync/atomic"
	"time"

	"actorcell/internal/errs"
	"actorcell/pkg/glog"
	"actorcell/pkg/lib/grs"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

const DefaultPoolSize = 5000

var (
	mu            sync.RWMutex
	pool          *ants.Pool
	fallbackCount atomic.Uint64
)

func init() {
	_ = Init(DefaultPoolSize)
}

// Init 重建进程池，旧池在后台释放
// 池是非阻塞的：满载时 Submit 不等待空闲 worker
func Init(size int) error {
	if size <= 0 {
		size = DefaultPoolSize
	}
	p, err := ants.NewPool(size,
		ants.WithNonblocking(true),
		ants.WithPanicHandler(func(r interface{}) {
			glog.Error("workers pool panic", zap.Any("recover", r), zap.Stack("stack"))
		}),
	)
	if err != nil {
		return err
	}
	mu.Lock()
	old := pool
	pool = p
	mu.Unlock()
	if old != nil {
		old.Release()
	}
	return nil
}

// Submit 提交任务到进程池，fn 的 panic 交给 recoverFun
// 池满载或已关闭时退化为独立 goroutine，保证调用方永不阻塞且任务不丢
func Submit(fn func(), recoverFun func(err interface{})) {
	task := func() {
		grs.Try(fn, recoverFun)
	}
	mu.RLock()
	p := pool
	mu.RUnlock()
	if p != nil {
		err := p.Submit(task)
		if err == nil {
			return
		}
		glog.Debug("workers submit fallback", zap.Error(err))
	}
	fallbackCount.Add(1)
	go task()
}

// Running 正在执行任务的 worker 数
func Running() int {
	mu.RLock()
	defer mu.RUnlock()
	if pool == nil {
		return 0
	}
	return pool.Running()
}

// Cap 池容量
func Cap() int {
	mu.RLock()
	defer mu.RUnlock()
	if pool == nil {
		return 0
	}
	return pool.Cap()
}

// FallbackCount 因池不可用而退化为独立 goroutine 的次数
func FallbackCount() uint64 {
	return fallbackCount.Load()
}

// Release 等待在途任务结束并关闭进程池，之后的 Submit 走退化路径
func Release(timeout time.Duration) error {
	mu.Lock()
	p := pool
	pool = nil
	mu.Unlock()
	if p == nil {
		return nil
	}
	if err := p.ReleaseTimeout(timeout); err != nil {
		return errs.ErrPoolReleaseTimeout
	}
	return nil
}
