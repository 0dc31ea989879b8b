// Package submit 序列化、签名并提交链上操作
package submit

import (
	"context"
	"errors"
	"fmt"

	"github.com/mwallet/v1/client/core/builder"
	"github.com/mwallet/v1/client/core/transport"
	"github.com/mwallet/v1/client/core/wallet"
	"github.com/mwallet/v1/internal/core/infrastructure/crypto/signature"
	zaplog "github.com/mwallet/v1/internal/core/infrastructure/log"
	"github.com/mwallet/v1/pkg/interfaces/infrastructure/log"
)

// DefaultPeriodOffset 过期周期相对节点下一个周期的安全余量
const DefaultPeriodOffset = 5

var (
	// ErrNoSender 钱包未设置基础账户
	ErrNoSender = errors.New("no tx sender available")
	// ErrEmptyBatch 批次中没有操作
	ErrEmptyBatch = errors.New("no operations to submit")
)

// NodeAPI 提交操作所需的节点方法
type NodeAPI interface {
	GetStatus(ctx context.Context) (*transport.NodeStatus, error)
	SendOperations(ctx context.Context, ops []transport.SignedOperation) ([]string, error)
}

// Config 提交客户端依赖
type Config struct {
	Wallet       *wallet.Wallet
	Node         NodeAPI
	Signer       *signature.Service
	PeriodOffset uint64
	// CheckBalance 提交前用 get_addresses 确认发送方候选余额足够
	CheckBalance bool
	Logger       log.Logger
}

// Client 以钱包基础账户为发送方提交操作
type Client struct {
	wallet       *wallet.Wallet
	node         NodeAPI
	signer       *signature.Service
	periodOffset uint64
	checkBalance bool
	logger       log.Logger
}

// New 创建提交客户端，PeriodOffset 为 0 时使用默认值
func New(cfg Config) *Client {
	signer := cfg.Signer
	if signer == nil {
		signer = signature.NewService(nil, nil, cfg.Logger)
	}
	offset := cfg.PeriodOffset
	if offset == 0 {
		offset = DefaultPeriodOffset
	}
	return &Client{
		wallet:       cfg.Wallet,
		node:         cfg.Node,
		signer:       signer,
		periodOffset: offset,
		checkBalance: cfg.CheckBalance,
		logger:       zaplog.NewModuleLogger(cfg.Logger, "submit"),
	}
}

// Submit 提交单个操作，返回节点分配的操作 ID
func (c *Client) Submit(ctx context.Context, op builder.Operation) ([]string, error) {
	return c.SubmitBatch(ctx, op)
}

// SubmitBatch 在一次 send_operations 调用中提交多个操作
//
// 流程：
//  1. 取基础账户作为发送方
//  2. 校验全部操作，任何一个失败都不发起 RPC
//  3. 启用 CheckBalance 时确认候选余额覆盖手续费与转出金额
//  4. 查询节点状态计算过期周期
//  5. 序列化并对 公钥字节 ++ 序列化内容 签名
//  6. 单批次提交，校验返回 ID 数量
func (c *Client) SubmitBatch(ctx context.Context, ops ...builder.Operation) ([]string, error) {
	var sender *wallet.SignableAccount
	if c.wallet != nil {
		sender = c.wallet.BaseAccount()
	}
	return c.SubmitFrom(ctx, sender, ops...)
}

// SubmitFrom 以指定账户为发送方提交操作
func (c *Client) SubmitFrom(ctx context.Context, sender *wallet.SignableAccount, ops ...builder.Operation) ([]string, error) {
	if sender == nil {
		return nil, ErrNoSender
	}
	if len(ops) == 0 {
		return nil, ErrEmptyBatch
	}
	for i, op := range ops {
		if err := op.Validate(); err != nil {
			return nil, fmt.Errorf("operation %d (%s): %w", i, op.Type(), err)
		}
	}
	if c.checkBalance {
		if err := c.ensureBalance(ctx, sender, ops); err != nil {
			return nil, err
		}
	}

	expiry, err := c.expiryPeriod(ctx)
	if err != nil {
		return nil, err
	}

	signed := make([]transport.SignedOperation, 0, len(ops))
	for i, op := range ops {
		so, err := c.sign(sender, op, expiry)
		if err != nil {
			return nil, fmt.Errorf("operation %d (%s): %w", i, op.Type(), err)
		}
		signed = append(signed, so)
	}

	ids, err := c.node.SendOperations(ctx, signed)
	if err != nil {
		c.logger.Warnf("send operations failed: %v", err)
		return nil, fmt.Errorf("send operations: %w", err)
	}
	c.logger.Infof("submitted %d operations from %s expiring at period %d", len(ids), sender.Address(), expiry)
	return ids, nil
}

func (c *Client) ensureBalance(ctx context.Context, sender *wallet.SignableAccount, ops []builder.Operation) error {
	if c.wallet == nil {
		return fmt.Errorf("%w: no wallet configured", wallet.ErrBalanceUnavailable)
	}
	remaining, err := c.wallet.EnsureBalance(ctx, sender.Address().String(), builder.TotalSpend(ops...))
	if err != nil {
		return err
	}
	c.logger.Debugf("balance check passed for %s, %s MAS left after submission", sender.Address(), remaining)
	return nil
}

func (c *Client) expiryPeriod(ctx context.Context) (uint64, error) {
	status, err := c.node.GetStatus(ctx)
	if err != nil {
		return 0, fmt.Errorf("get node status: %w", err)
	}
	return status.NextSlot.Period + c.periodOffset, nil
}

func (c *Client) sign(sender *wallet.SignableAccount, op builder.Operation, expiry uint64) (transport.SignedOperation, error) {
	content, err := builder.Compact(op, expiry)
	if err != nil {
		return transport.SignedOperation{}, err
	}

	pk := sender.PublicKey()
	payload := append(pk.VersionedBytes(), content...)
	msg, err := c.signer.SignMessage(payload, sender.SecretKey(), pk)
	if err != nil {
		return transport.SignedOperation{}, fmt.Errorf("sign operation: %w", err)
	}

	return transport.SignedOperation{
		SerializedContent: content,
		CreatorPublicKey:  pk.String(),
		Signature:         msg.String(),
	}, nil
}

// SendTransaction 转账给用户地址；合约地址收款方在任何 RPC 之前被拒绝
func (c *Client) SendTransaction(ctx context.Context, tx builder.Transfer) ([]string, error) {
	return c.Submit(ctx, tx)
}

// BuyRolls 购买 roll
func (c *Client) BuyRolls(ctx context.Context, fee, count uint64) ([]string, error) {
	return c.Submit(ctx, builder.RollBuy{Fee: fee, Count: count})
}

// SellRolls 出售 roll
func (c *Client) SellRolls(ctx context.Context, fee, count uint64) ([]string, error) {
	return c.Submit(ctx, builder.RollSell{Fee: fee, Count: count})
}

// CallSmartContract 调用合约函数
func (c *Client) CallSmartContract(ctx context.Context, call builder.CallSC) ([]string, error) {
	return c.Submit(ctx, call)
}

// ExecuteSmartContract 执行字节码
func (c *Client) ExecuteSmartContract(ctx context.Context, exec builder.ExecuteSC) ([]string, error) {
	return c.Submit(ctx, exec)
}
