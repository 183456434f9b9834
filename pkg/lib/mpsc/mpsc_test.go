package mpsc

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_PushPop(t *testing.T) {
	q := New[int]()
	assert.True(t, q.Empty())

	_, ok := q.Pop()
	assert.False(t, ok, "空队列 Pop 应返回 false")

	for i := 1; i <= 3; i++ {
		q.Push(i)
	}
	assert.False(t, q.Empty())

	for i := 1; i <= 3; i++ {
		v, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
	assert.True(t, q.Empty())
}

func TestQueue_ZeroValueIsDistinctFromEmpty(t *testing.T) {
	q := New[*int]()
	q.Push(nil)

	v, ok := q.Pop()
	assert.True(t, ok)
	assert.Nil(t, v)
	assert.True(t, q.Empty())
}

// TestQueue_ConcurrentPush 多生产者并发写入，单消费者读出，验证不丢不重且单生产者内有序
func TestQueue_ConcurrentPush(t *testing.T) {
	const producers = 8
	const perProducer = 10000

	type item struct {
		producer int
		seq      int
	}
	q := New[item]()

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(item{producer: p, seq: i})
			}
		}(p)
	}
	wg.Wait()

	last := make([]int, producers)
	for i := range last {
		last[i] = -1
	}
	total := 0
	for {
		v, ok := q.Pop()
		if !ok {
			break
		}
		require.Equal(t, last[v.producer]+1, v.seq, "producer %d 乱序", v.producer)
		last[v.producer] = v.seq
		total++
	}
	assert.Equal(t, producers*perProducer, total)
}
