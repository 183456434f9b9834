package stopper

import (
	"sync"
	"sync/atomic"
)

// Stopper 一次性停止标记，零值可用
type Stopper struct {
	isStopped atomic.Bool
	once      sync.Once
	done      chan struct{}
}

func (s *Stopper) init() {
	s.once.Do(func() {
		s.done = make(chan struct{})
	})
}

func (s *Stopper) IsStop() bool {
	return s.isStopped.Load()
}

// Stop 只有第一次调用返回 true
func (s *Stopper) Stop() bool {
	s.init()
	if !s.isStopped.CompareAndSwap(false, true) {
		return false
	}
	close(s.done)
	return true
}

// Done 停止后关闭
func (s *Stopper) Done() <-chan struct{} {
	s.init()
	return s.done
}
