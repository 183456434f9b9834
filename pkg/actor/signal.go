package actor

import "fmt"

// SystemSignal 系统信号，优先于用户消息处理
// 只有 *Terminate 和 *Restart 两种
type SystemSignal interface {
	systemSignal()
}

// Terminate 停止 cell，剩余用户消息转为死信
type Terminate struct{}

// Restart 将状态重置为初始状态，Cause 为触发重启的原因，可以为 nil
type Restart struct {
	Cause error
}

func (*Terminate) systemSignal() {}
func (*Restart) systemSignal()   {}

func (*Terminate) String() string {
	return "Terminate"
}

func (r *Restart) String() string {
	if r.Cause == nil {
		return "Restart"
	}
	return fmt.Sprintf("Restart(%v)", r.Cause)
}
