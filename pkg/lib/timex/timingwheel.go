// Package timex 进程级时间轮，精度 10ms
package timex

import (
	"sync"
	"time"

	"github.com/RussellLuo/timingwheel"
)

const (
	tick      = 10 * time.Millisecond
	wheelSize = 3600
)

var (
	once sync.Once
	tw   *timingwheel.TimingWheel
)

func wheel() *timingwheel.TimingWheel {
	once.Do(func() {
		tw = timingwheel.NewTimingWheel(tick, wheelSize)
		tw.Start()
	})
	return tw
}

// AfterFunc d 之后在时间轮自己的 goroutine 中执行 f
// f 应尽快返回，耗时逻辑需转投到 actor 或协程池
func AfterFunc(d time.Duration, f func()) *timingwheel.Timer {
	return wheel().AfterFunc(d, f)
}

// Stop 停止时间轮，未到期的定时器不再触发
func Stop() {
	wheel().Stop()
}
