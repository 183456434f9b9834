package stopper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStopper(t *testing.T) {
	var s Stopper
	assert.False(t, s.IsStop())

	select {
	case <-s.Done():
		t.Fatal("未停止时 Done 不应关闭")
	default:
	}

	assert.True(t, s.Stop())
	assert.False(t, s.Stop(), "重复停止应返回 false")
	assert.True(t, s.IsStop())

	select {
	case <-s.Done():
	default:
		t.Fatal("停止后 Done 应关闭")
	}
}
