package timex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAfterFunc(t *testing.T) {
	fired := make(chan time.Time, 1)
	start := time.Now()
	AfterFunc(30*time.Millisecond, func() {
		fired <- time.Now()
	})

	select {
	case at := <-fired:
		assert.GreaterOrEqual(t, at.Sub(start), 20*time.Millisecond)
	case <-time.After(time.Second):
		t.Fatal("定时器未触发")
	}
}

func TestAfterFunc_Stop(t *testing.T) {
	fired := make(chan struct{}, 1)
	timer := AfterFunc(50*time.Millisecond, func() {
		fired <- struct{}{}
	})
	assert.True(t, timer.Stop())

	select {
	case <-fired:
		t.Fatal("已取消的定时器不应触发")
	case <-time.After(150 * time.Millisecond):
	}
}
