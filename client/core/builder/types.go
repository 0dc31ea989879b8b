package builder

import (
	"errors"
	"fmt"

	"github.com/mwallet/v1/internal/core/infrastructure/crypto/address"
)

// OperationType 操作类型编号，写入紧凑序列化
type OperationType uint64

const (
	OpTransaction OperationType = 0
	OpRollBuy     OperationType = 1
	OpRollSell    OperationType = 2
	OpExecuteSC   OperationType = 3
	OpCallSC      OperationType = 4
)

func (t OperationType) String() string {
	switch t {
	case OpTransaction:
		return "transaction"
	case OpRollBuy:
		return "roll_buy"
	case OpRollSell:
		return "roll_sell"
	case OpExecuteSC:
		return "execute_sc"
	case OpCallSC:
		return "call_sc"
	default:
		return fmt.Sprintf("operation(%d)", uint64(t))
	}
}

var (
	// ErrInvalidRecipientCategory 收款地址类别与操作要求不符
	ErrInvalidRecipientCategory = errors.New("invalid recipient address category")
	// ErrInvalidOperation 操作字段不合法
	ErrInvalidOperation = errors.New("invalid operation")
)

// Operation 可被序列化和提交的操作
type Operation interface {
	// Type 返回操作类型编号
	Type() OperationType
	// FeeNano 返回手续费（nanoMAS）
	FeeNano() uint64
	// Validate 在序列化与提交前检查字段
	Validate() error
	// appendPayload 追加类型相关的载荷
	appendPayload(dst []byte) ([]byte, error)
}

// Transfer 转账
type Transfer struct {
	Fee       uint64
	Amount    uint64
	Recipient string
}

// RollBuy 购买 roll
type RollBuy struct {
	Fee   uint64
	Count uint64
}

// RollSell 出售 roll
type RollSell struct {
	Fee   uint64
	Count uint64
}

// DatastoreEntry 部署合约时写入的初始数据
type DatastoreEntry struct {
	Key   []byte
	Value []byte
}

// ExecuteSC 执行字节码
type ExecuteSC struct {
	Fee       uint64
	MaxGas    uint64
	MaxCoins  uint64
	Bytecode  []byte
	Datastore []DatastoreEntry
}

// CallSC 调用合约函数
type CallSC struct {
	Fee       uint64
	MaxGas    uint64
	Coins     uint64
	Target    string
	Function  string
	Parameter []byte
}

func (Transfer) Type() OperationType  { return OpTransaction }
func (RollBuy) Type() OperationType   { return OpRollBuy }
func (RollSell) Type() OperationType  { return OpRollSell }
func (ExecuteSC) Type() OperationType { return OpExecuteSC }
func (CallSC) Type() OperationType    { return OpCallSC }

func (o Transfer) FeeNano() uint64  { return o.Fee }
func (o RollBuy) FeeNano() uint64   { return o.Fee }
func (o RollSell) FeeNano() uint64  { return o.Fee }
func (o ExecuteSC) FeeNano() uint64 { return o.Fee }
func (o CallSC) FeeNano() uint64    { return o.Fee }

// Validate 收款方必须是用户地址
func (o Transfer) Validate() error {
	_, err := parseWithCategory(o.Recipient, address.User)
	return err
}

func (o RollBuy) Validate() error { return validateRollCount(o.Count) }

func (o RollSell) Validate() error { return validateRollCount(o.Count) }

func (o ExecuteSC) Validate() error {
	if len(o.Bytecode) == 0 {
		return fmt.Errorf("%w: empty bytecode", ErrInvalidOperation)
	}
	return nil
}

// Validate 调用目标必须是合约地址
func (o CallSC) Validate() error {
	if o.Function == "" {
		return fmt.Errorf("%w: empty function name", ErrInvalidOperation)
	}
	_, err := parseWithCategory(o.Target, address.Contract)
	return err
}

func validateRollCount(n uint64) error {
	if n == 0 {
		return fmt.Errorf("%w: roll count must be positive", ErrInvalidOperation)
	}
	return nil
}

func parseWithCategory(text string, want address.Category) (*address.Address, error) {
	addr, err := address.Parse(text)
	if err != nil {
		return nil, err
	}
	if addr.Category != want {
		return nil, fmt.Errorf("%w: %s is a %s address, expected %s", ErrInvalidRecipientCategory, text, addr.Category, want)
	}
	return addr, nil
}
