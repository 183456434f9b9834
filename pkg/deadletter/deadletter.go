// Package deadletter 进程级死信流
// 目标 cell 已停止而无法投递的消息会广播到这里，仅用于诊断
package deadletter

import (
	"context"
	"sync/atomic"
	"time"

	"actorcell/pkg/lib/event"
	"actorcell/pkg/lib/grs"
	"actorcell/pkg/lib/mpsc"
	"actorcell/pkg/lib/stopper"
)

// Letter 一条死信
type Letter struct {
	CellId   uint64
	CellName string
	Message  interface{}
	Time     time.Time
}

type Subscription = event.Subscription

// Stream 死信广播流
// Publish 只入队，订阅者在流自己的投递协程中按发布顺序回调，慢订阅者不会阻塞发布方
type Stream struct {
	listener  *event.Listener[Letter]
	queue     *mpsc.Queue[Letter]
	wake      chan struct{}
	exited    chan struct{}
	stopper   stopper.Stopper
	published atomic.Uint64
	delivered atomic.Uint64
	dropped   atomic.Uint64
}

func New() *Stream {
	s := &Stream{
		listener: event.NewListener[Letter](),
		queue:    mpsc.New[Letter](),
		wake:     make(chan struct{}, 1),
		exited:   make(chan struct{}),
	}
	grs.Go(s.loop)
	return s
}

var defaultStream = New()

// Default 进程级死信流，所有未指定死信流的 cell 共享
func Default() *Stream {
	return defaultStream
}

// Shutdown 关闭进程级死信流
func Shutdown() {
	defaultStream.Close()
}

func (s *Stream) Subscribe(handler func(Letter)) Subscription {
	return s.listener.Register(handler)
}

func (s *Stream) Unsubscribe(sub Subscription) bool {
	return s.listener.UnRegister(sub)
}

// Publish 入队一条死信并唤醒投递协程，永不阻塞
// 关闭后的发布只计数不广播
func (s *Stream) Publish(letter Letter) {
	if s.stopper.IsStop() {
		s.dropped.Add(1)
		return
	}
	if letter.Time.IsZero() {
		letter.Time = time.Now()
	}
	s.published.Add(1)
	s.queue.Push(letter)
	select {
	case s.wake <- struct{}{}:
	default:
		// 已有未消费的唤醒，投递协程会在之后取走这条死信
	}
}

// loop 唯一的队列消费者，关闭或受管协程退出时投递完已入队的死信再返回
func (s *Stream) loop(ctx context.Context) {
	defer close(s.exited)
	for {
		select {
		case <-s.wake:
			s.deliver()
		case <-s.stopper.Done():
			s.deliver()
			return
		case <-ctx.Done():
			s.stopper.Stop()
			s.deliver()
			return
		}
	}
}

func (s *Stream) deliver() {
	for {
		letter, ok := s.queue.Pop()
		if !ok {
			return
		}
		s.listener.Notify(letter)
		s.delivered.Add(1)
	}
}

// Close 停止接收新死信，不等待投递完成
func (s *Stream) Close() {
	s.stopper.Stop()
}

// Done 投递协程退出后关闭
func (s *Stream) Done() <-chan struct{} {
	return s.exited
}

func (s *Stream) Closed() bool {
	return s.stopper.IsStop()
}

// Published 已接收的死信数
func (s *Stream) Published() uint64 {
	return s.published.Load()
}

// Delivered 已回调完所有订阅者的死信数
func (s *Stream) Delivered() uint64 {
	return s.delivered.Load()
}

// Dropped 关闭后被丢弃的死信数
func (s *Stream) Dropped() uint64 {
	return s.dropped.Load()
}
