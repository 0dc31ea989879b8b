package transport

import (
	"encoding/json"
	"fmt"
)

// Slot 链上时间槽
type Slot struct {
	Period uint64 `json:"period"`
	Thread uint8  `json:"thread"`
}

// NodeStatus get_status 返回的节点状态（只解析用到的字段）
type NodeStatus struct {
	NodeID       string `json:"node_id"`
	Version      string `json:"version"`
	ChainID      uint64 `json:"chain_id"`
	CurrentCycle uint64 `json:"current_cycle"`
	NextSlot     Slot   `json:"next_slot"`
	LastSlot     *Slot  `json:"last_slot,omitempty"`
}

// AddressInfo get_addresses 返回的单个地址信息
type AddressInfo struct {
	Address            string `json:"address"`
	Thread             uint8  `json:"thread"`
	CandidateBalance   string `json:"candidate_balance"`
	FinalBalance       string `json:"final_balance"`
	CandidateRollCount uint64 `json:"candidate_roll_count"`
	FinalRollCount     uint64 `json:"final_roll_count"`
}

// ByteArray 以 JSON 数字数组形式编码的字节串
type ByteArray []byte

// MarshalJSON 编码为 [n, n, ...]
func (b ByteArray) MarshalJSON() ([]byte, error) {
	nums := make([]uint16, len(b))
	for i, v := range b {
		nums[i] = uint16(v)
	}
	return json.Marshal(nums)
}

// UnmarshalJSON 解码数字数组
func (b *ByteArray) UnmarshalJSON(data []byte) error {
	var nums []uint16
	if err := json.Unmarshal(data, &nums); err != nil {
		return err
	}
	out := make([]byte, len(nums))
	for i, v := range nums {
		if v > 0xff {
			return fmt.Errorf("byte value %d out of range", v)
		}
		out[i] = byte(v)
	}
	*b = out
	return nil
}

// SignedOperation send_operations 的单个操作
type SignedOperation struct {
	SerializedContent ByteArray `json:"serialized_content"`
	CreatorPublicKey  string    `json:"creator_public_key"`
	Signature         string    `json:"signature"`
}
