package actor

import "sync/atomic"

type counters struct {
	posted, handled  atomic.Uint64
	faults, restarts atomic.Uint64
	deadLetters      atomic.Uint64
}

// Stats cell 计数快照
type Stats struct {
	Posted      uint64 // Post 调用次数
	Handled     uint64 // 处理成功的消息数
	Faults      uint64 // 处理函数失败次数
	Restarts    uint64 // 已处理的 Restart 信号数
	DeadLetters uint64 // 转为死信的消息数
}

func (c *Cell[S, M]) Stats() Stats {
	return Stats{
		Posted:      c.stats.posted.Load(),
		Handled:     c.stats.handled.Load(),
		Faults:      c.stats.faults.Load(),
		Restarts:    c.stats.restarts.Load(),
		DeadLetters: c.stats.deadLetters.Load(),
	}
}
