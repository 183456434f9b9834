package deadletter

import (
	"fmt"
	"sync/atomic"

	"github.com/duke-git/lancet/v2/maputil"
)

// Counter 按消息类型统计死信的订阅者
type Counter struct {
	counts *maputil.ConcurrentMap[string, *atomic.Uint64]
	total  atomic.Uint64
}

func NewCounter() *Counter {
	return &Counter{
		counts: maputil.NewConcurrentMap[string, *atomic.Uint64](8),
	}
}

// Attach 订阅到死信流，返回的凭证用于注销
func (c *Counter) Attach(s *Stream) Subscription {
	return s.Subscribe(c.Handle)
}

func (c *Counter) Handle(letter Letter) {
	counter, _ := c.counts.GetOrSet(typeName(letter.Message), new(atomic.Uint64))
	counter.Add(1)
	c.total.Add(1)
}

func (c *Counter) Count(typ string) uint64 {
	if counter, ok := c.counts.Get(typ); ok {
		return counter.Load()
	}
	return 0
}

func (c *Counter) Total() uint64 {
	return c.total.Load()
}

// Snapshot 各类型当前计数
func (c *Counter) Snapshot() map[string]uint64 {
	snap := make(map[string]uint64)
	c.counts.Range(func(typ string, counter *atomic.Uint64) bool {
		snap[typ] = counter.Load()
		return true
	})
	return snap
}

func typeName(msg interface{}) string {
	return fmt.Sprintf("%T", msg)
}
