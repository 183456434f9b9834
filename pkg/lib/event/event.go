// Package event 泛型广播监听器
package event

import (
	"sync"

	"actorcell/pkg/glog"
	"actorcell/pkg/lib/grs"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

// Subscription 注册凭证，用于注销
type Subscription uint64

type entry[V any] struct {
	id      Subscription
	handler func(V)
}

type Listener[V any] struct {
	mu       sync.RWMutex
	nextId   Subscription
	handlers []entry[V]
}

func NewListener[V any]() *Listener[V] {
	return &Listener[V]{}
}

// Register 注册处理函数，同一个函数注册多次会收到多次通知
func (m *Listener[V]) Register(handler func(V)) Subscription {
	if handler == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextId++
	m.handlers = append(m.handlers, entry[V]{id: m.nextId, handler: handler})
	return m.nextId
}

func (m *Listener[V]) UnRegister(sub Subscription) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	index := slices.IndexFunc(m.handlers, func(e entry[V]) bool {
		return e.id == sub
	})
	if index < 0 {
		return false
	}
	m.handlers = slices.Delete(slices.Clone(m.handlers), index, index+1)
	return true
}

func (m *Listener[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.handlers)
}

// Notify 按注册顺序同步通知，不持锁回调，处理函数内可以注销自己
// 单个处理函数 panic 不影响其余处理函数
func (m *Listener[V]) Notify(param V) {
	m.mu.RLock()
	handlers := m.handlers
	m.mu.RUnlock()
	for _, e := range handlers {
		grs.Try(func() { e.handler(param) }, func(r interface{}) {
			glog.Warn("event handler panic", zap.Uint64("subscription", uint64(e.id)), zap.Any("recover", r))
		})
	}
}
