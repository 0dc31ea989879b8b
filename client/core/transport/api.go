package transport

import (
	"context"
	"fmt"
)

// 节点 JSON-RPC 方法名
const (
	MethodGetStatus      = "get_status"
	MethodGetAddresses   = "get_addresses"
	MethodSendOperations = "send_operations"
)

// NodeAPI 钱包使用的节点方法
type NodeAPI struct {
	caller Caller
}

// NewNodeAPI 基于 Caller 创建节点 API
func NewNodeAPI(caller Caller) *NodeAPI {
	return &NodeAPI{caller: caller}
}

// GetStatus 查询节点状态
func (a *NodeAPI) GetStatus(ctx context.Context) (*NodeStatus, error) {
	var status NodeStatus
	if err := a.caller.Call(ctx, MethodGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetAddresses 批量查询地址信息，返回与请求一一对应的记录
func (a *NodeAPI) GetAddresses(ctx context.Context, addresses []string) ([]AddressInfo, error) {
	var infos []AddressInfo
	if err := a.caller.Call(ctx, MethodGetAddresses, []interface{}{addresses}, &infos); err != nil {
		return nil, err
	}
	return infos, nil
}

// SendOperations 以单个批次提交已签名操作，返回操作 ID
//
// 返回 ID 数量与提交数量不一致时返回 *ProtocolError，不重试。
func (a *NodeAPI) SendOperations(ctx context.Context, ops []SignedOperation) ([]string, error) {
	var ids []string
	if err := a.caller.Call(ctx, MethodSendOperations, []interface{}{ops}, &ids); err != nil {
		return nil, err
	}
	if len(ids) != len(ops) {
		return nil, &ProtocolError{
			Method:  MethodSendOperations,
			Message: fmt.Sprintf("expected %d operation ids, got %d", len(ops), len(ids)),
		}
	}
	return ids, nil
}
