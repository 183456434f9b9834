// Package mpsc
// @Description: 无锁多生产者单消费者队列

package mpsc

import (
	"sync/atomic"
)

type node[T any] struct {
	next atomic.Pointer[node[T]]
	val  T
}

// Queue 无界 MPSC 队列
// Push 可被任意多个 goroutine 并发调用，Pop 同一时刻只允许一个消费者调用
// tail 也用原子操作访问，非消费者调用 Empty 不会产生数据竞争
type Queue[T any] struct {
	head atomic.Pointer[node[T]]
	tail atomic.Pointer[node[T]]
}

func New[T any]() *Queue[T] {
	q := &Queue[T]{}
	stub := &node[T]{}
	q.head.Store(stub)
	q.tail.Store(stub)
	return q
}

func (q *Queue[T]) Push(x T) {
	n := &node[T]{val: x}
	prev := q.head.Swap(n)
	// Swap 与 Store 之间队列对消费者表现为空，生产者随后的调度会兜底
	prev.next.Store(n)
}

func (q *Queue[T]) Pop() (T, bool) {
	var zero T
	tail := q.tail.Load()
	next := tail.next.Load()
	if next == nil {
		return zero, false
	}
	q.tail.Store(next)
	v := next.val
	next.val = zero
	return v, true
}

func (q *Queue[T]) Empty() bool {
	return q.tail.Load().next.Load() == nil
}
