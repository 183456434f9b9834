// Package actor
// @Description: 调度器

package actor

import (
	"actorcell/pkg/lib/grs"
	"actorcell/pkg/lib/workers"
)

// DefaultThroughput 单次调度最多处理的消息数
const DefaultThroughput = 300

// 协程池调度器，使用进程级 ants 池
type poolDispatcher int

func NewPoolDispatcher(throughput int) IDispatcher {
	return poolDispatcher(throughput)
}

func (poolDispatcher) Schedule(fn func(), recoverFun func(err interface{})) error {
	workers.Submit(fn, recoverFun)
	return nil
}

func (d poolDispatcher) Throughput() int {
	return int(d)
}

// 协程调度器，每次调度启动一个 goroutine
type goroutineDispatcher int

func NewDefaultDispatcher(throughput int) IDispatcher {
	return goroutineDispatcher(throughput)
}

func (goroutineDispatcher) Schedule(fn func(), recoverFun func(err interface{})) error {
	go grs.Try(fn, recoverFun)
	return nil
}

func (d goroutineDispatcher) Throughput() int {
	return int(d)
}

// 同步调度器，在调用方 goroutine 中直接执行
type synchronizedDispatcher int

func NewSynchronizedDispatcher(throughput int) IDispatcher {
	return synchronizedDispatcher(throughput)
}

func (synchronizedDispatcher) Schedule(fn func(), recoverFun func(err interface{})) error {
	grs.Try(fn, recoverFun)
	return nil
}

func (d synchronizedDispatcher) Throughput() int {
	return int(d)
}

// throughputDispatcher 替换已有调度器的吞吐量
type throughputDispatcher struct {
	IDispatcher
	throughput int
}

func (d throughputDispatcher) Throughput() int {
	return d.throughput
}

func withThroughput(d IDispatcher, throughput int) IDispatcher {
	if throughput <= 0 {
		return d
	}
	return throughputDispatcher{IDispatcher: d, throughput: throughput}
}
