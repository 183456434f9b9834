package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// ========== Cell 相关错误 ==========

var (
	// ErrHandlerFault 处理函数返回错误或发生 panic
	ErrHandlerFault = errors.New("actor: handler fault")
	// ErrHandlerIsNil 处理函数为空
	ErrHandlerIsNil = errors.New("actor: handler is nil")
)

// ========== 工作池相关错误 ==========

var (
	// ErrPoolReleaseTimeout 释放工作池超时
	ErrPoolReleaseTimeout = errors.New("workers: release pool timeout")
)

// ErrHandlerFailed 包装处理函数返回的错误，errors.Is 对 ErrHandlerFault 和原始错误都成立
func ErrHandlerFailed(err error) error {
	return errors.WithStack(fmt.Errorf("%w: %w", ErrHandlerFault, err))
}

// ErrHandlerPanic 将 recover 得到的值转换为错误
func ErrHandlerPanic(r interface{}) error {
	if e, ok := r.(error); ok {
		return errors.WithStack(fmt.Errorf("%w: panic: %w", ErrHandlerFault, e))
	}
	return errors.WithStack(fmt.Errorf("%w: panic: %v", ErrHandlerFault, r))
}

// ErrScheduleFailed 调度器拒绝提交
func ErrScheduleFailed(cellId uint64, err error) error {
	return errors.Wrapf(err, "actor: schedule cell %d failed", cellId)
}

// ========== 配置相关错误 ==========

func ErrReadConfigFileFailed(err error) error {
	return errors.Wrap(err, "config: read config file failed")
}

func ErrUnmarshalConfigFailed(err error) error {
	return errors.Wrap(err, "config: unmarshal config failed")
}

func ErrInvalidConfig(field string, value interface{}) error {
	return errors.Errorf("config: invalid %s: %v", field, value)
}

// ErrShutdownTimeout 等待协程退出超时
func ErrShutdownTimeout(alive int64) error {
	return errors.Errorf("grs: shutdown timeout, %d goroutines still alive", alive)
}
