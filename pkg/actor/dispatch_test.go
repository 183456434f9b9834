package actor

import (
	"errors"
	"testing"
	"time"

	"actorcell/pkg/glog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDispatchers_RunAndRecover(t *testing.T) {
	dispatchers := map[string]IDispatcher{
		"goroutine":    NewDefaultDispatcher(10),
		"synchronized": NewSynchronizedDispatcher(20),
		"pool":         NewPoolDispatcher(30),
	}
	for name, d := range dispatchers {
		t.Run(name, func(t *testing.T) {
			ran := make(chan struct{}, 1)
			require.NoError(t, d.Schedule(func() { ran <- struct{}{} }, nil))
			select {
			case <-ran:
			case <-time.After(time.Second):
				t.Fatal("工作项未执行")
			}

			recovered := make(chan interface{}, 1)
			require.NoError(t, d.Schedule(func() { panic(name) }, func(err interface{}) {
				recovered <- err
			}))
			select {
			case r := <-recovered:
				assert.Equal(t, name, r)
			case <-time.After(time.Second):
				t.Fatal("panic 未被捕获")
			}
		})
	}
	assert.Equal(t, 10, dispatchers["goroutine"].Throughput())
	assert.Equal(t, 20, dispatchers["synchronized"].Throughput())
	assert.Equal(t, 30, dispatchers["pool"].Throughput())
}

func TestWithThroughput(t *testing.T) {
	d := NewSynchronizedDispatcher(5)
	assert.Equal(t, d, withThroughput(d, 0))
	assert.Equal(t, 9, withThroughput(d, 9).Throughput())
}

type failingDispatcher struct {
	calls int
}

func (d *failingDispatcher) Schedule(func(), func(err interface{})) error {
	d.calls++
	return errors.New("rejected")
}

func (d *failingDispatcher) Throughput() int {
	return 1
}

// TestCell_ScheduleErrorReleasesSlot 调度失败时归还执行权，下次投递会重试
func TestCell_ScheduleErrorReleasesSlot(t *testing.T) {
	defer glog.Init(glog.DefaultConfig())
	core, logs := observer.New(zapcore.WarnLevel)
	glog.SetLogger(zap.New(core))

	d := &failingDispatcher{}
	c := New[int, int](0, (&recorder{}).add, WithDispatcher(d))

	c.Post(1)
	assert.Equal(t, Idle, c.Status())
	c.Post(2)
	assert.Equal(t, 2, d.calls)

	// 被拒绝的消息仍在队列中，每次失败都报告积压
	assert.False(t, c.mailbox.isEmpty())
	assert.Equal(t, 2, logs.FilterMessage("cell schedule failed").Len())
	pending := logs.FilterMessage("cell has pending messages until next post").All()
	require.Len(t, pending, 2)
	assert.Equal(t, zapcore.WarnLevel, pending[0].Level)
	assert.Equal(t, c.ID(), pending[0].ContextMap()["cell"])
}
