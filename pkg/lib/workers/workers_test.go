package workers

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit_RunsTask(t *testing.T) {
	var wg sync.WaitGroup
	var n atomic.Int32
	wg.Add(100)
	for i := 0; i < 100; i++ {
		Submit(func() {
			defer wg.Done()
			n.Add(1)
		}, nil)
	}
	wg.Wait()
	assert.Equal(t, int32(100), n.Load())
}

func TestSubmit_RecoversPanic(t *testing.T) {
	got := make(chan interface{}, 1)
	Submit(func() {
		panic("boom")
	}, func(err interface{}) {
		got <- err
	})

	select {
	case r := <-got:
		assert.Equal(t, "boom", r)
	case <-time.After(time.Second):
		t.Fatal("recoverFun 未被调用")
	}
}

// TestSubmit_FallbackWhenPoolFull 池满载时不阻塞，任务退化为独立 goroutine 执行
func TestSubmit_FallbackWhenPoolFull(t *testing.T) {
	require.NoError(t, Init(1))
	defer func() { _ = Init(DefaultPoolSize) }()

	block := make(chan struct{})
	started := make(chan struct{})
	Submit(func() {
		close(started)
		<-block
	}, nil)
	<-started

	before := FallbackCount()
	done := make(chan struct{})
	Submit(func() { close(done) }, nil)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("池满载时任务未执行")
	}
	close(block)
	assert.Greater(t, FallbackCount(), before)
}

func TestRelease_ThenSubmitStillRuns(t *testing.T) {
	require.NoError(t, Init(4))
	defer func() { _ = Init(DefaultPoolSize) }()

	require.NoError(t, Release(time.Second))
	assert.Equal(t, 0, Cap())
	// 重复释放是空操作
	require.NoError(t, Release(time.Second))

	done := make(chan struct{})
	Submit(func() { close(done) }, nil)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("池关闭后任务未执行")
	}
}
