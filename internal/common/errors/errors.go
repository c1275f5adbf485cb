// Package errors 定义业务错误码和错误处理
package errors

import (
	"fmt"
)

// AppError 应用错误
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 实现 errors.Unwrap
func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建新的应用错误
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithMessage 修改错误消息
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: message,
		Err:     e.Err,
	}
}

// WithError 添加原始错误
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// 通用错误码 (1000-1999)
var (
	ErrUnknown         = New(1000, "未知错误")
	ErrInvalidParams   = New(1001, "参数错误")
	ErrNotFound        = New(1002, "资源不存在")
	ErrAlreadyExists   = New(1003, "资源已存在")
	ErrDatabaseError   = New(1004, "数据库错误")
	ErrCacheError      = New(1005, "缓存错误")
	ErrInternalError   = New(1006, "内部错误")
	ErrExternalService = New(1007, "外部服务错误")
	ErrRateLimitExceed = New(1008, "请求过于频繁")
	ErrOperationFailed = New(1009, "操作失败")
	ErrTxConflict      = New(1011, "事务冲突，请稍后重试")
)

// 认证错误码 (2000-2999)
var (
	ErrUnauthorized     = New(2000, "未登录")
	ErrTokenExpired     = New(2001, "登录已过期")
	ErrTokenInvalid     = New(2002, "无效的令牌")
	ErrPermissionDenied = New(2004, "权限不足")
)

// 客户错误码 (3000-3999)
var (
	ErrClientNotFound = New(3000, "客户不存在")
	ErrClientExists   = New(3001, "客户已存在")
	ErrEmailInvalid   = New(3002, "无效的邮箱")
)

// 酒店/房间错误码 (4000-4999)
var (
	ErrHotelNotFound       = New(4000, "酒店不存在")
	ErrRoomNotFound        = New(4001, "房间不存在")
	ErrRoomHasReservations = New(4002, "房间存在关联预订，无法删除")
	ErrRoomStatusError     = New(4003, "房间状态异常")
	ErrHotelHasRooms       = New(4004, "酒店下存在房间，无法删除")
)

// 预订错误码 (5000-5999)
var (
	ErrReservationNotFound    = New(5000, "预订不存在")
	ErrReservationConflict    = New(5001, "时段已被预订")
	ErrReservationStatusError = New(5002, "预订状态不允许该操作")
	ErrInvalidDateRange       = New(5003, "入住时间必须早于退房时间")
	ErrReservationCanceled    = New(5004, "预订已取消")
)

// 支付错误码 (6000-6999)
var (
	ErrPaymentNotFound     = New(6000, "支付记录不存在")
	ErrPaymentStatusError  = New(6001, "支付状态不允许该操作")
	ErrPaymentAmountError  = New(6002, "支付金额无效")
	ErrPaymentMethodError  = New(6003, "支付方式错误")
	ErrPaymentRoomMismatch = New(6004, "支付房间与预订房间不一致")
	ErrRefundFailed        = New(6005, "退款失败")
)

// IsAppError 判断是否为应用错误
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError 获取应用错误
func GetAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return ErrUnknown.WithError(err)
}

// Is 判断错误码是否一致
func Is(err error, target *AppError) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == target.Code
}
