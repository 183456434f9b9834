// Package actor 单个 actor 的执行单元
//
// Cell 持有一份只在 run loop 中读写的状态，外部只能通过投递消息与之交互。
// Cell 没有专属 goroutine：由 Idle 进入 Occupied 的那一次投递把 run loop 提交给调度器，
// 其余投递只入队。同一时刻一个 Cell 最多只有一个 run loop 在执行，
// 互斥完全依赖状态位的 CAS，处理函数内访问状态无需加锁。
package actor

import (
	"sync/atomic"
	"time"

	"actorcell/internal/errs"
	"actorcell/pkg/deadletter"
	"actorcell/pkg/glog"
	"actorcell/pkg/lib/grs"
	"actorcell/pkg/lib/timex"

	"github.com/RussellLuo/timingwheel"
	"go.uber.org/zap"
)

// Handler 状态转移函数，返回错误或 panic 都会触发重启，该消息不会重试
type Handler[S, M any] func(state S, msg M) (S, error)

var uniqId atomic.Uint64

type Cell[S, M any] struct {
	id           uint64
	name         string
	state        S
	initialState S
	handler      Handler[S, M]
	mailbox      *mailbox[M]
	opts         *Options
	stats        counters
}

var _ messageInvoker[int] = (*Cell[int, int])(nil)

// New 创建 cell，handler 为 nil 时 panic
func New[S, M any](initial S, handler Handler[S, M], options ...Option) *Cell[S, M] {
	if handler == nil {
		panic(errs.ErrHandlerIsNil)
	}
	opts := loadOptions(options...)
	c := &Cell[S, M]{
		id:           uniqId.Add(1),
		name:         opts.Name,
		state:        initial,
		initialState: initial,
		handler:      handler,
		opts:         opts,
	}
	c.mailbox = newMailbox[M](c.id, c, opts.Dispatcher)
	return c
}

func (c *Cell[S, M]) ID() uint64 {
	return c.id
}

func (c *Cell[S, M]) Name() string {
	return c.name
}

func (c *Cell[S, M]) Status() Status {
	return c.mailbox.loadStatus()
}

func (c *Cell[S, M]) Stopped() bool {
	return c.mailbox.isStopped()
}

// Post 投递用户消息，永不阻塞也不失败
// cell 已停止时消息进入死信流
func (c *Cell[S, M]) Post(msg M) {
	c.stats.posted.Add(1)
	c.mailbox.postUserMessage(msg)
}

// PostSystem 投递系统信号，已停止的 cell 直接丢弃
func (c *Cell[S, M]) PostSystem(sig SystemSignal) {
	if sig == nil {
		return
	}
	c.mailbox.postSystemMessage(sig)
}

// PostAfter d 之后投递 msg，可通过返回的定时器取消
func (c *Cell[S, M]) PostAfter(d time.Duration, msg M) *timingwheel.Timer {
	return timex.AfterFunc(d, func() {
		c.Post(msg)
	})
}

// Dispose 强制停止，剩余用户消息转为死信，可重复调用
func (c *Cell[S, M]) Dispose() {
	c.mailbox.dispose()
}

func (c *Cell[S, M]) invokeUserMessage(msg M) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.ErrHandlerPanic(r)
		}
		if err != nil {
			c.stats.faults.Add(1)
			glog.Warn("cell handler fault", c.logFields(zap.Error(err))...)
		}
	}()
	state, e := c.handler(c.state, msg)
	if e != nil {
		return errs.ErrHandlerFailed(e)
	}
	c.state = state
	c.stats.handled.Add(1)
	return nil
}

func (c *Cell[S, M]) restart(cause error) {
	c.state = c.initialState
	c.stats.restarts.Add(1)
	glog.Warn("cell restarted", c.logFields(zap.NamedError("cause", cause))...)
	if hook := c.opts.OnRestart; hook != nil {
		grs.Try(func() { hook(cause) }, nil)
	}
}

func (c *Cell[S, M]) terminated() {
	glog.Info("cell stopped", c.logFields()...)
	if hook := c.opts.OnStop; hook != nil {
		grs.Try(hook, nil)
	}
}

func (c *Cell[S, M]) deadLetter(msg M) {
	c.stats.deadLetters.Add(1)
	c.opts.DeadLetters.Publish(deadletter.Letter{
		CellId:   c.id,
		CellName: c.name,
		Message:  msg,
	})
}

func (c *Cell[S, M]) logFields(fields ...zap.Field) []zap.Field {
	base := []zap.Field{zap.Uint64("cell", c.id)}
	if c.name != "" {
		base = append(base, zap.String("name", c.name))
	}
	return append(base, fields...)
}
