// Package builder 提供操作构建与紧凑序列化
package builder

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Amount 表示 MAS 金额（使用最小单位 nanoMAS）
//
//   - 1 MAS = 10^9 nanoMAS
//   - 使用 *big.Int 精确计算，链上字段以 uint64 编码
type Amount struct {
	value *big.Int
}

const (
	// DecimalPlaces MAS 的小数位数
	DecimalPlaces = 9

	// NanoPerMAS 1 MAS 对应的 nanoMAS 数量
	NanoPerMAS = 1_000_000_000
)

var (
	// ErrInvalidAmount 无效的金额
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrNegativeAmount 负数金额
	ErrNegativeAmount = errors.New("negative amount")
	// ErrInsufficientAmount 金额不足
	ErrInsufficientAmount = errors.New("insufficient amount")
	// ErrAmountOverflow 金额超出 uint64
	ErrAmountOverflow = errors.New("amount overflows uint64")

	nanoPerMAS = big.NewInt(NanoPerMAS)
)

// FromMAS 将十进制 MAS 文本转换为金额
//
// 超过 9 位的小数按四舍五入处理：
//
//	FromMAS("1.5234")       → 1523400000
//	FromMAS("1.1234567899") → 1123456790
func FromMAS(s string) (*Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty string", ErrInvalidAmount)
	}
	if strings.HasPrefix(s, "-") {
		return nil, ErrNegativeAmount
	}
	s = strings.TrimPrefix(s, "+")

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if !isDigits(whole) || (frac != "" && !isDigits(frac)) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	roundUp := false
	if len(frac) > DecimalPlaces {
		roundUp = frac[DecimalPlaces] >= '5'
		frac = frac[:DecimalPlaces]
	}
	frac += strings.Repeat("0", DecimalPlaces-len(frac))

	value, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if roundUp {
		value.Add(value, big.NewInt(1))
	}
	return &Amount{value: value}, nil
}

// MAS 从整数 MAS 创建金额
func MAS(whole uint64) *Amount {
	v := new(big.Int).SetUint64(whole)
	return &Amount{value: v.Mul(v, nanoPerMAS)}
}

// NewAmountFromNano 从 nanoMAS 创建金额
func NewAmountFromNano(nano uint64) *Amount {
	return &Amount{value: new(big.Int).SetUint64(nano)}
}

// ToMAS 将 nanoMAS 转换为去掉末尾零的 MAS 文本
func ToMAS(nano uint64) string {
	return NewAmountFromNano(nano).String()
}

// Zero 返回零金额
func Zero() *Amount {
	return &Amount{value: big.NewInt(0)}
}

// Spend 操作从发送方余额中扣除的金额：手续费加转出金额
func Spend(op Operation) *Amount {
	total := NewAmountFromNano(op.FeeNano())
	switch o := op.(type) {
	case Transfer:
		total = total.Add(NewAmountFromNano(o.Amount))
	case CallSC:
		total = total.Add(NewAmountFromNano(o.Coins))
	case ExecuteSC:
		total = total.Add(NewAmountFromNano(o.MaxCoins))
	}
	return total
}

// TotalSpend 一批操作的总扣款
func TotalSpend(ops ...Operation) *Amount {
	total := Zero()
	for _, op := range ops {
		total = total.Add(Spend(op))
	}
	return total
}

// Add 加法：a + b
func (a *Amount) Add(b *Amount) *Amount {
	return &Amount{value: new(big.Int).Add(a.BigInt(), b.BigInt())}
}

// Sub 减法：a - b，结果为负时返回错误
func (a *Amount) Sub(b *Amount) (*Amount, error) {
	result := new(big.Int).Sub(a.BigInt(), b.BigInt())
	if result.Sign() < 0 {
		return nil, ErrInsufficientAmount
	}
	return &Amount{value: result}, nil
}

// Cmp 比较两个金额
func (a *Amount) Cmp(b *Amount) int {
	return a.BigInt().Cmp(b.BigInt())
}

// IsZero 判断金额是否为零
func (a *Amount) IsZero() bool {
	return a == nil || a.value.Sign() == 0
}

// Nano 返回 nanoMAS 数量
func (a *Amount) Nano() (uint64, error) {
	if a == nil {
		return 0, nil
	}
	if !a.value.IsUint64() {
		return 0, ErrAmountOverflow
	}
	return a.value.Uint64(), nil
}

// BigInt 返回big.Int副本
func (a *Amount) BigInt() *big.Int {
	if a == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(a.value)
}

// String 转换为 MAS 文本（移除末尾的0）
//
//	1523400000 → "1.5234"
//	2000000000 → "2"
func (a *Amount) String() string {
	whole, frac := new(big.Int).QuoRem(a.BigInt(), nanoPerMAS, new(big.Int))
	if frac.Sign() == 0 {
		return whole.String()
	}
	fs := frac.String()
	fs = strings.Repeat("0", DecimalPlaces-len(fs)) + fs
	return whole.String() + "." + strings.TrimRight(fs, "0")
}

// StringNano 转换为 nanoMAS 文本
func (a *Amount) StringNano() string {
	return a.BigInt().String()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
