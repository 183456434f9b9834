// Package bench 多生产者自增压测：N 个生产者并发投递，静止后校验状态与死信
package bench

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"actorcell/internal/config"
	"actorcell/pkg/actor"
	"actorcell/pkg/deadletter"
	"actorcell/pkg/glog"
	"actorcell/pkg/lib/grs"
	"actorcell/pkg/lib/stopper"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Result 一次压测的结果
type Result struct {
	Posted      uint64
	FinalState  int64
	Expected    int64
	DeadLetters uint64
	Elapsed     time.Duration
	Stats       actor.Stats
}

func (r *Result) OK() bool {
	return r.FinalState == r.Expected
}

type increment struct{}

func newDispatcher(cfg config.CellConfig) actor.IDispatcher {
	switch strings.ToLower(cfg.Dispatcher) {
	case config.DispatcherGoroutine:
		return actor.NewDefaultDispatcher(cfg.Throughput)
	case config.DispatcherSynchronized:
		return actor.NewSynchronizedDispatcher(cfg.Throughput)
	default:
		return actor.NewPoolDispatcher(cfg.Throughput)
	}
}

// Run 执行一次压测，ctx 取消或超过 cfg.Bench.Timeout 时返回错误
func Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Bench.Timeout)
	defer cancel()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stream := deadletter.New()
	defer stream.Close()
	counter := deadletter.NewCounter()
	counter.Attach(stream)

	var state atomic.Int64
	state.Store(1)
	cell := actor.New[int64, increment](1, func(s int64, _ increment) (int64, error) {
		s++
		state.Store(s)
		return s, nil
	},
		actor.WithName("bench"),
		actor.WithDispatcher(newDispatcher(cfg.Cell)),
		actor.WithDeadLetters(stream),
		actor.WithRestartHook(func(cause error) {
			glog.Warn("bench cell restarted", zap.Error(cause))
		}),
	)
	defer cell.Dispose()

	var report stopper.Stopper
	defer report.Stop()
	if cfg.Bench.ReportInterval > 0 {
		go reportLoop(cell, cfg.Bench.ReportInterval, &report)
	}

	start := time.Now()
	total := int64(cfg.Bench.Producers) * int64(cfg.Bench.Messages)
	var producers sync.WaitGroup
	producers.Add(cfg.Bench.Producers)
	for p := 0; p < cfg.Bench.Producers; p++ {
		grs.Go(func(context.Context) {
			defer producers.Done()
			for i := 0; i < cfg.Bench.Messages; i++ {
				cell.Post(increment{})
			}
		})
	}
	if err := waitGroup(ctx, &producers); err != nil {
		return nil, errors.Wrap(err, "bench: wait producers")
	}

	expected := 1 + total
	if err := waitUntil(ctx, func() bool {
		return state.Load() == expected && cell.Status() == actor.Idle
	}); err != nil {
		return nil, errors.Wrapf(err, "bench: wait quiescence, state=%d expected=%d", state.Load(), expected)
	}
	elapsed := time.Since(start)

	cell.PostSystem(&actor.Terminate{})
	for i := 0; i < cfg.Bench.LateMessages; i++ {
		cell.Post(increment{})
	}
	if err := waitUntil(ctx, func() bool {
		return counter.Total() == uint64(cfg.Bench.LateMessages)
	}); err != nil {
		return nil, errors.Wrapf(err, "bench: wait dead letters, got=%d", counter.Total())
	}

	result := &Result{
		Posted:      uint64(total) + uint64(cfg.Bench.LateMessages),
		FinalState:  state.Load(),
		Expected:    expected,
		DeadLetters: counter.Total(),
		Elapsed:     elapsed,
		Stats:       cell.Stats(),
	}
	return result, nil
}

func reportLoop(cell *actor.Cell[int64, increment], interval time.Duration, s *stopper.Stopper) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			stats := cell.Stats()
			glog.Info("bench progress",
				zap.Uint64("posted", stats.Posted),
				zap.Uint64("handled", stats.Handled),
				zap.Stringer("status", cell.Status()))
		case <-s.Done():
			return
		}
	}
}

// waitGroup 受管协程里还有死信投递协程，生产者单独计数
func waitGroup(ctx context.Context, wg *sync.WaitGroup) error {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func waitUntil(ctx context.Context, cond func() bool) error {
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for !cond() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
