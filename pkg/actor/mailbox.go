package actor

import (
	"sync/atomic"

	"actorcell/internal/errs"
	"actorcell/pkg/glog"
	"actorcell/pkg/lib/mpsc"

	"go.uber.org/zap"
)

// Status cell 调度状态
type Status int32

const (
	// Idle 没有 run loop 在执行，也没有待执行的调度
	Idle Status = iota
	// Occupied 有一个 run loop 正在执行或已提交给调度器
	Occupied
	// Stopped 终态，不再处理任何消息
	Stopped
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Occupied:
		return "Occupied"
	case Stopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

type mailbox[M any] struct {
	cellId      uint64
	invoker     messageInvoker[M]
	dispatcher  IDispatcher
	systemQueue *mpsc.Queue[SystemSignal]
	userQueue   *mpsc.Queue[M]
	status      atomic.Int32
	// consuming 队列消费权，run loop 与停止后的死信清理互斥持有
	consuming atomic.Bool
}

func newMailbox[M any](cellId uint64, invoker messageInvoker[M], dispatcher IDispatcher) *mailbox[M] {
	return &mailbox[M]{
		cellId:      cellId,
		invoker:     invoker,
		dispatcher:  dispatcher,
		systemQueue: mpsc.New[SystemSignal](),
		userQueue:   mpsc.New[M](),
	}
}

func (mb *mailbox[M]) loadStatus() Status {
	return Status(mb.status.Load())
}

func (mb *mailbox[M]) isStopped() bool {
	return mb.loadStatus() == Stopped
}

func (mb *mailbox[M]) postUserMessage(msg M) {
	if mb.isStopped() {
		mb.invoker.deadLetter(msg)
		return
	}
	mb.userQueue.Push(msg)
	mb.schedule()
	// 入队期间 cell 可能已停止，补一次死信清理
	if mb.isStopped() {
		mb.flushDeadLetters()
	}
}

func (mb *mailbox[M]) postSystemMessage(sig SystemSignal) {
	if mb.isStopped() {
		glog.Debug("cell stopped, system signal dropped", zap.Uint64("cell", mb.cellId), zap.Any("signal", sig))
		return
	}
	mb.systemQueue.Push(sig)
	mb.schedule()
	if mb.isStopped() {
		mb.flushDeadLetters()
	}
}

// schedule 调度 run loop
// 只有赢得 Idle->Occupied 的调用方提交任务，其余调用方入队后直接返回，
// 由正在执行或即将执行的 run loop 负责处理新消息
func (mb *mailbox[M]) schedule() bool {
	if !mb.status.CompareAndSwap(int32(Idle), int32(Occupied)) {
		return false
	}
	if err := mb.dispatcher.Schedule(mb.process, mb.recoverPanic); err != nil {
		glog.Error("cell schedule failed", zap.Error(errs.ErrScheduleFailed(mb.cellId, err)))
		// 归还执行权，等待下一次投递重新调度
		mb.status.CompareAndSwap(int32(Occupied), int32(Idle))
		if !mb.isEmpty() {
			glog.Warn("cell has pending messages until next post", zap.Uint64("cell", mb.cellId))
		}
		return false
	}
	return true
}

func (mb *mailbox[M]) recoverPanic(err interface{}) {
	glog.Error("cell process panic", zap.Uint64("cell", mb.cellId), zap.Any("recover", err), zap.Stack("stack"))
}

// process 调度器执行的工作项
func (mb *mailbox[M]) process() {
	if !mb.consuming.CompareAndSwap(false, true) {
		// 只有停止后的死信清理会抢到消费权，由它负责剩余消息
		return
	}
	fault := mb.run()
	if fault != nil {
		// 先入队 Restart 再释放执行权，保证后续用户消息都在重置后的状态上处理
		mb.systemQueue.Push(&Restart{Cause: fault})
	}
	mb.consuming.Store(false)

	if mb.isStopped() || !mb.status.CompareAndSwap(int32(Occupied), int32(Idle)) {
		mb.flushDeadLetters()
		return
	}
	// 生产者可能在最后一次检查与置 Idle 之间入队，这里补一次调度
	if !mb.isEmpty() {
		mb.schedule()
	}
}

// run 按优先级处理消息，最多处理 throughput 条，返回处理函数的错误
func (mb *mailbox[M]) run() error {
	throughput := mb.dispatcher.Throughput()
	if throughput <= 0 {
		throughput = DefaultThroughput
	}
	for i := 0; i < throughput; i++ {
		if mb.isStopped() {
			return nil
		}
		if sig, ok := mb.systemQueue.Pop(); ok {
			switch s := sig.(type) {
			case *Terminate:
				mb.stop()
				return nil
			case *Restart:
				mb.invoker.restart(s.Cause)
			}
			continue
		}
		msg, ok := mb.userQueue.Pop()
		if !ok {
			return nil
		}
		if err := mb.invoker.invokeUserMessage(msg); err != nil {
			return err
		}
	}
	return nil
}

// stop 进入 Stopped，只有第一次调用生效
func (mb *mailbox[M]) stop() bool {
	if Status(mb.status.Swap(int32(Stopped))) == Stopped {
		return false
	}
	mb.invoker.terminated()
	return true
}

func (mb *mailbox[M]) dispose() {
	if !mb.stop() {
		return
	}
	mb.flushDeadLetters()
}

// flushDeadLetters 停止后清空队列，用户消息转为死信，系统信号丢弃
// 抢不到消费权说明有人正在消费，持有者释放后会再次检查队列
func (mb *mailbox[M]) flushDeadLetters() {
	for {
		if !mb.consuming.CompareAndSwap(false, true) {
			return
		}
		for {
			sig, ok := mb.systemQueue.Pop()
			if !ok {
				break
			}
			glog.Debug("cell stopped, system signal dropped", zap.Uint64("cell", mb.cellId), zap.Any("signal", sig))
		}
		for {
			msg, ok := mb.userQueue.Pop()
			if !ok {
				break
			}
			mb.invoker.deadLetter(msg)
		}
		mb.consuming.Store(false)
		if mb.isEmpty() {
			return
		}
	}
}

func (mb *mailbox[M]) isEmpty() bool {
	return mb.systemQueue.Empty() && mb.userQueue.Empty()
}
