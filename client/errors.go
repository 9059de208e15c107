/*
 * @module client/errors
 * @description 传输层错误分类，把网络错误、协议错误和响应格式错误统一为类型化错误值
 * @architecture 错误值模式 - 所有错误在传输层边界被捕获并归类，不向上抛出未分类错误
 * @documentReference ai_docs/modernize_api_contract.md
 * @stateFlow HTTP调用 -> 错误捕获 -> 分类(不可达/请求被拒/响应异常) -> 类型化错误值
 * @rules 服务不可达与服务端4xx/5xx必须区分，工作流层据此展示"服务离线"或"请求被拒绝"
 * @dependencies errors, fmt
 * @refs client/modernize_client.go, service/workflow/controller.go
 */

package client

import (
	"errors"
	"fmt"
)

// ErrorKind 传输错误类别
type ErrorKind string

const (
	// ErrorUnreachable 无法连接服务：DNS失败、连接拒绝、超时
	ErrorUnreachable ErrorKind = "unreachable"
	// ErrorRequestRejected 服务端返回4xx/5xx并附带错误消息
	ErrorRequestRejected ErrorKind = "request_rejected"
	// ErrorMalformedResponse 成功状态码但响应体无法解析或不符合约定结构
	ErrorMalformedResponse ErrorKind = "malformed_response"
)

// UnreachableMessage 服务不可达时的固定用户提示
const UnreachableMessage = "无法连接到现代化服务，请确认服务已启动后重试"

// TransportError 类型化的传输层错误
type TransportError struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	Cause      error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("[%s] %s (HTTP %d)", e.Kind, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap 返回底层错误
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// newUnreachable 创建服务不可达错误
func newUnreachable(cause error) *TransportError {
	return &TransportError{Kind: ErrorUnreachable, Message: UnreachableMessage, Cause: cause}
}

// newRejected 创建请求被拒错误
func newRejected(status int, message string) *TransportError {
	return &TransportError{Kind: ErrorRequestRejected, Message: message, StatusCode: status}
}

// newMalformed 创建响应格式错误，按请求被拒的方式展示但使用通用提示
func newMalformed(cause error) *TransportError {
	return &TransportError{Kind: ErrorMalformedResponse, Message: "服务端返回了无法解析的响应", Cause: cause}
}

// AsTransportError 提取类型化传输错误
func AsTransportError(err error) (*TransportError, bool) {
	var te *TransportError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// IsUnreachable 判断错误是否为服务不可达
func IsUnreachable(err error) bool {
	te, ok := AsTransportError(err)
	return ok && te.Kind == ErrorUnreachable
}
