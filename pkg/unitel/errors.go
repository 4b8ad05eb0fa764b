package unitel

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrPackageNotFound 套餐不存在或已下架
	ErrPackageNotFound = errors.New("unitel: package not found")

	// ErrInvoicePeriodMismatch 账期与当前账单不一致
	ErrInvoicePeriodMismatch = errors.New("unitel: invoice period mismatch")

	// ErrAuthFailed 刷新 Token 后仍然 401
	ErrAuthFailed = errors.New("unitel: auth failed")
)

// ApiError Unitel API 调用失败，保留关键排查信息
type ApiError struct {
	TraceID    string
	StatusCode int
	Result     string
	Code       string
	Msg        string
}

func (e *ApiError) Error() string {
	return fmt.Sprintf("unitel api error: traceId=%s, status=%d, result=%s, code=%s, msg=%s",
		e.TraceID, e.StatusCode, e.Result, e.Code, e.Msg)
}

// IsTimeout 判断是否为传输层超时（30秒客户端预算）
// 超时结果是不确定的：运营商可能已经完成扣费
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
