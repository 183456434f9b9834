package actor

import (
	"actorcell/pkg/deadletter"
)

type Option func(*Options)

type Options struct {
	Name        string
	Dispatcher  IDispatcher
	Throughput  int
	DeadLetters *deadletter.Stream
	OnRestart   func(cause error)
	OnStop      func()
}

func loadOptions(options ...Option) *Options {
	opts := &Options{}
	for _, option := range options {
		option(opts)
	}
	if opts.Dispatcher == nil {
		opts.Dispatcher = NewPoolDispatcher(DefaultThroughput)
	}
	opts.Dispatcher = withThroughput(opts.Dispatcher, opts.Throughput)
	if opts.DeadLetters == nil {
		opts.DeadLetters = deadletter.Default()
	}
	return opts
}

func WithName(name string) Option {
	return func(op *Options) {
		op.Name = name
	}
}

func WithDispatcher(dispatcher IDispatcher) Option {
	return func(op *Options) {
		op.Dispatcher = dispatcher
	}
}

// WithThroughput 覆盖调度器的吞吐量，<=0 时沿用调度器自身的值
func WithThroughput(throughput int) Option {
	return func(op *Options) {
		op.Throughput = throughput
	}
}

// WithDeadLetters 指定死信流，默认使用进程级死信流
func WithDeadLetters(stream *deadletter.Stream) Option {
	return func(op *Options) {
		op.DeadLetters = stream
	}
}

// WithRestartHook 每次处理 Restart 信号后回调，在 run loop 中执行
func WithRestartHook(hook func(cause error)) Option {
	return func(op *Options) {
		op.OnRestart = hook
	}
}

// WithStopHook cell 进入 Stopped 时回调一次
func WithStopHook(hook func()) Option {
	return func(op *Options) {
		op.OnStop = hook
	}
}
