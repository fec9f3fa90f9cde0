package errorx

import (
	"errors"
	"fmt"
)

// 定义业务错误
// ErrAlreadyClaimed / ErrNotOwner（预留）：抢单与释放的冲突当前以 outcome 值返回
var (
	ErrWorkItemNotFound      = errors.New("work item not found")
	ErrAlreadyClaimed        = errors.New("work item already claimed")
	ErrNotOwner              = errors.New("caller does not own the work item")
	ErrCoverageUnavailable   = errors.New("provider coverage unavailable")
	ErrCoverageNotConfigured = errors.New("provider coverage not configured")
	ErrRemotePassTimeout     = errors.New("remote matching pass timed out")
)

// Error 业务错误结构（包含可重试标记）
type Error struct {
	Code       int    `json:"code"`
	Message    string `json:"message"`
	Retryable  bool   `json:"retryable"`
	DevDetails string `json:"dev_details,omitempty"`
}

// Error 实现 error 接口
func (e *Error) Error() string {
	return e.Message
}

// Transient 创建可重试错误（网络抖动、存储临时故障等）
func Transient(message string) *Error {
	return &Error{
		Code:      500,
		Message:   message,
		Retryable: true,
	}
}

// TransientWithDetails 创建可重试错误（带详细信息）
func TransientWithDetails(message string, details string) *Error {
	return &Error{
		Code:       500,
		Message:    message,
		Retryable:  true,
		DevDetails: details,
	}
}

// NonRetriable 创建不可重试错误（参数错误、业务规则错误等）
func NonRetriable(message string) *Error {
	return &Error{
		Code:      400,
		Message:   message,
		Retryable: false,
	}
}

// IsRetryable 判断错误是否可重试
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}

// Wrap 包装错误（默认不可重试）（预留）
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return &Error{
		Code:       500,
		Message:    err.Error(),
		Retryable:  false,
		DevDetails: fmt.Sprintf("%+v", err),
	}
}
