package actor

type (
	// IDispatcher 工作调度器，cell 由 Idle 进入 Occupied 时把自己的 run loop 交给它执行
	// 不同 cell 之间没有顺序约定，同一个 cell 的互斥由 cell 自己保证
	// Schedule 返回错误时 cell 回到 Idle，已入队的消息要等下一次投递才会重新调度，不会自动重试
	IDispatcher interface {
		Schedule(f func(), recoverFun func(err interface{})) error
		Throughput() int
	}

	// messageInvoker mailbox 回调 cell 的入口，只在持有消费权时被调用
	messageInvoker[M any] interface {
		invokeUserMessage(msg M) error
		restart(cause error)
		terminated()
		deadLetter(msg M)
	}
)
