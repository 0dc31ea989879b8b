package builder

import (
	"github.com/mwallet/v1/internal/core/infrastructure/crypto/address"
	"github.com/mwallet/v1/internal/core/infrastructure/crypto/encoding"
)

// Compact 序列化操作：
//
//	varint(fee) ++ varint(expiryPeriod) ++ varint(type) ++ 载荷
//
// 字段顺序固定，节点依此解析。
func Compact(op Operation, expiryPeriod uint64) ([]byte, error) {
	if err := op.Validate(); err != nil {
		return nil, err
	}

	buf := make([]byte, 0, 64)
	buf = encoding.AppendVarint(buf, op.FeeNano())
	buf = encoding.AppendVarint(buf, expiryPeriod)
	buf = encoding.AppendVarint(buf, uint64(op.Type()))
	return op.appendPayload(buf)
}

// 载荷：收款地址二进制 ++ varint(amount)
func (o Transfer) appendPayload(dst []byte) ([]byte, error) {
	addr, err := parseWithCategory(o.Recipient, address.User)
	if err != nil {
		return nil, err
	}
	dst = append(dst, addr.Bytes()...)
	return encoding.AppendVarint(dst, o.Amount), nil
}

func (o RollBuy) appendPayload(dst []byte) ([]byte, error) {
	return encoding.AppendVarint(dst, o.Count), nil
}

func (o RollSell) appendPayload(dst []byte) ([]byte, error) {
	return encoding.AppendVarint(dst, o.Count), nil
}

// 载荷：maxGas ++ maxCoins ++ 字节码 ++ 数据存储条目，变长字段均带 varint 长度前缀
func (o ExecuteSC) appendPayload(dst []byte) ([]byte, error) {
	dst = encoding.AppendVarint(dst, o.MaxGas)
	dst = encoding.AppendVarint(dst, o.MaxCoins)
	dst = appendBytes(dst, o.Bytecode)
	dst = encoding.AppendVarint(dst, uint64(len(o.Datastore)))
	for _, e := range o.Datastore {
		dst = appendBytes(dst, e.Key)
		dst = appendBytes(dst, e.Value)
	}
	return dst, nil
}

// 载荷：maxGas ++ coins ++ 目标地址二进制 ++ 函数名 ++ 参数
func (o CallSC) appendPayload(dst []byte) ([]byte, error) {
	target, err := parseWithCategory(o.Target, address.Contract)
	if err != nil {
		return nil, err
	}
	dst = encoding.AppendVarint(dst, o.MaxGas)
	dst = encoding.AppendVarint(dst, o.Coins)
	dst = append(dst, target.Bytes()...)
	dst = appendBytes(dst, []byte(o.Function))
	return appendBytes(dst, o.Parameter), nil
}

func appendBytes(dst, b []byte) []byte {
	dst = encoding.AppendVarint(dst, uint64(len(b)))
	return append(dst, b...)
}
