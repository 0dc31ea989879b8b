// Package transport 提供与节点通信的 JSON-RPC 传输层
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"
)

// Caller 单次 JSON-RPC 调用
type Caller interface {
	Call(ctx context.Context, method string, params []interface{}, result interface{}) error
}

// JSONRPCClient JSON-RPC 2.0 客户端实现
type JSONRPCClient struct {
	endpoint   string
	httpClient *http.Client
	nextID     atomic.Uint64
}

// NewJSONRPCClient 创建JSON-RPC客户端
func NewJSONRPCClient(endpoint string, timeout time.Duration) *JSONRPCClient {
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &JSONRPCClient{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Endpoint 返回节点地址
func (c *JSONRPCClient) Endpoint() string {
	return c.endpoint
}

// jsonrpcRequest JSON-RPC 2.0 请求
type jsonrpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      uint64        `json:"id"`
}

// jsonrpcResponse JSON-RPC 2.0 响应
type jsonrpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *jsonrpcError   `json:"error,omitempty"`
	ID      uint64          `json:"id"`
}

// jsonrpcError JSON-RPC 2.0 错误
type jsonrpcError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Call 统一的JSON-RPC调用方法
//
// 网络失败、408、429 与 5xx 返回 *TransportError，其余错误返回 *ProtocolError。
// 响应 id 必须与请求一致；只有错误响应允许 id 为空。
func (c *JSONRPCClient) Call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	if params == nil {
		params = []interface{}{}
	}
	req := &jsonrpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.nextID.Add(1),
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &TransportError{Method: method, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Method: method, Err: fmt.Errorf("read response: %w", err)}
	}
	if transientStatus(resp.StatusCode) {
		return &TransportError{Method: method, Err: fmt.Errorf("http status %d", resp.StatusCode)}
	}

	var jsonResp jsonrpcResponse
	if err := json.Unmarshal(respBody, &jsonResp); err != nil {
		return &ProtocolError{Method: method, Message: fmt.Sprintf("unmarshal response (http %d): %v", resp.StatusCode, err)}
	}
	if jsonResp.ID != req.ID && (jsonResp.Error == nil || jsonResp.ID != 0) {
		return &ProtocolError{Method: method, Message: fmt.Sprintf("response id %d does not match request id %d", jsonResp.ID, req.ID)}
	}
	if jsonResp.Error != nil {
		return &ProtocolError{Method: method, Code: jsonResp.Error.Code, Message: jsonResp.Error.Message}
	}

	if result != nil && len(jsonResp.Result) > 0 {
		if err := json.Unmarshal(jsonResp.Result, result); err != nil {
			return &ProtocolError{Method: method, Message: fmt.Sprintf("unmarshal result: %v", err)}
		}
	}
	return nil
}

// transientStatus 可重试的 HTTP 状态码
func transientStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	}
	return code >= http.StatusInternalServerError
}
