package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListener_NotifyInOrder(t *testing.T) {
	listener := NewListener[string]()

	var got []string
	listener.Register(func(v string) { got = append(got, "a:"+v) })
	sub := listener.Register(func(v string) { got = append(got, "b:"+v) })
	assert.Equal(t, 2, listener.Len())

	listener.Notify("1")
	assert.True(t, listener.UnRegister(sub))
	assert.False(t, listener.UnRegister(sub), "重复注销应返回 false")
	listener.Notify("2")

	assert.Equal(t, []string{"a:1", "b:1", "a:2"}, got)
}

func TestListener_PanicIsolated(t *testing.T) {
	listener := NewListener[int]()
	var got []int
	listener.Register(func(int) { panic("bad subscriber") })
	listener.Register(func(v int) { got = append(got, v) })

	assert.NotPanics(t, func() { listener.Notify(42) })
	assert.Equal(t, []int{42}, got)
}

func TestListener_UnRegisterSelfDuringNotify(t *testing.T) {
	listener := NewListener[int]()
	var calls int
	var sub Subscription
	sub = listener.Register(func(int) {
		calls++
		listener.UnRegister(sub)
	})

	listener.Notify(1)
	listener.Notify(2)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, listener.Len())
}

func TestListener_NilHandler(t *testing.T) {
	listener := NewListener[int]()
	assert.Equal(t, Subscription(0), listener.Register(nil))
	assert.Equal(t, 0, listener.Len())
}
