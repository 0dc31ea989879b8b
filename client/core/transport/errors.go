package transport

import (
	"errors"
	"fmt"
)

// TransportError 网络层失败（连接、超时、5xx），可以重试
type TransportError struct {
	Method string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("rpc transport error (%s): %v", e.Method, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError 节点返回了格式正确但语义无效的响应，不会重试
type ProtocolError struct {
	Method  string
	Code    int
	Message string
}

func (e *ProtocolError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("rpc protocol error (%s): code %d: %s", e.Method, e.Code, e.Message)
	}
	return fmt.Sprintf("rpc protocol error (%s): %s", e.Method, e.Message)
}

// IsRetryable 判断错误是否可以按重试策略重试
func IsRetryable(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
