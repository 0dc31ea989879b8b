package wallet

import (
	"context"
	"errors"
	"fmt"

	evbus "github.com/asaskevich/EventBus"
	"github.com/mwallet/v1/client/core/builder"
	"github.com/mwallet/v1/client/core/transport"
	"github.com/mwallet/v1/internal/core/infrastructure/crypto/address"
	"github.com/mwallet/v1/internal/core/infrastructure/crypto/encryption"
	"github.com/mwallet/v1/internal/core/infrastructure/crypto/signature"
	zaplog "github.com/mwallet/v1/internal/core/infrastructure/log"
	"github.com/mwallet/v1/pkg/interfaces/infrastructure/log"
)

// MaxAccounts 钱包最多容纳的账户数
const MaxAccounts = 256

// 钱包事件主题
const (
	TopicAccountsAdded   = "wallet:accounts_added"   // func([]*SignableAccount)
	TopicAccountsRemoved = "wallet:accounts_removed" // func([]string)
	TopicBaseChanged     = "wallet:base_changed"     // func(*SignableAccount)，清除时为 nil
)

var (
	// ErrMaxAccountsExceeded 超出账户容量
	ErrMaxAccountsExceeded = errors.New("maximum number of allowed wallet accounts exceeded")
	// ErrSignerNotFound 签名账户不在钱包中
	ErrSignerNotFound = errors.New("no signer account found in wallet")
	// ErrWalletInfoMismatch 节点返回的地址信息数量与请求不一致
	ErrWalletInfoMismatch = errors.New("requested wallets not fully retrieved")
	// ErrChainIDMismatch 签名请求的链 ID 与钱包配置不一致
	ErrChainIDMismatch = errors.New("chain id mismatch")
	// ErrNoNode 未配置节点
	ErrNoNode = errors.New("no node api configured")
	// ErrInsufficientBalance 候选余额不足以支付本次扣款
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrBalanceUnavailable 无法从节点取得余额
	ErrBalanceUnavailable = errors.New("balance unavailable")
)

// AddressReader 查询地址信息的节点能力
type AddressReader interface {
	GetAddresses(ctx context.Context, addresses []string) ([]transport.AddressInfo, error)
}

// Config 钱包依赖
type Config struct {
	Signer     *signature.Service
	Node       AddressReader
	Encryption *encryption.EncryptionService
	Bus        evbus.Bus
	Logger     log.Logger
	ChainID    uint64
}

// Wallet 内存中的账户集合，以小写地址为键
//
// Wallet 不做内部加锁，多个 goroutine 并发修改同一实例时需要调用方自行同步。
type Wallet struct {
	factory    *Factory
	signer     *signature.Service
	node       AddressReader
	encryption *encryption.EncryptionService
	bus        evbus.Bus
	logger     log.Logger
	chainID    uint64

	accounts map[string]*SignableAccount
	order    []string
	baseKey  string
}

// New 创建空钱包
func New(cfg Config) *Wallet {
	signer := cfg.Signer
	if signer == nil {
		signer = signature.NewService(nil, nil, cfg.Logger)
	}
	enc := cfg.Encryption
	if enc == nil {
		enc = encryption.NewEncryptionService(encryption.Params{})
	}
	return &Wallet{
		factory:    NewFactory(signer),
		signer:     signer,
		node:       cfg.Node,
		encryption: enc,
		bus:        cfg.Bus,
		logger:     zaplog.NewModuleLogger(cfg.Logger, "wallet"),
		chainID:    cfg.ChainID,
		accounts:   make(map[string]*SignableAccount),
	}
}

// Factory 返回钱包使用的账户工厂
func (w *Wallet) Factory() *Factory {
	return w.factory
}

// Len 账户数量
func (w *Wallet) Len() int {
	return len(w.accounts)
}

// AddAccounts 校验并添加账户，返回实际插入的账户
//
// 任何候选校验失败或超出容量时整批拒绝，钱包保持不变；已存在的地址被跳过。
func (w *Wallet) AddAccounts(inputs []AccountInput) ([]*SignableAccount, error) {
	validated := make([]*SignableAccount, 0, len(inputs))
	for i, in := range inputs {
		acc, err := w.factory.NewAccount(in)
		if err != nil {
			return nil, fmt.Errorf("account %d: %w", i, err)
		}
		validated = append(validated, acc)
	}
	return w.insert(validated)
}

// AddSecretKeys 由私钥文本批量添加账户
func (w *Wallet) AddSecretKeys(secretKeys []string) ([]*SignableAccount, error) {
	if len(secretKeys) > MaxAccounts {
		return nil, fmt.Errorf("%w %d", ErrMaxAccountsExceeded, MaxAccounts)
	}
	inputs := make([]AccountInput, len(secretKeys))
	for i, sk := range secretKeys {
		inputs[i] = AccountInput{SecretKey: sk}
	}
	return w.AddAccounts(inputs)
}

func (w *Wallet) insert(candidates []*SignableAccount) ([]*SignableAccount, error) {
	fresh := make([]*SignableAccount, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, acc := range candidates {
		k := acc.indexKey()
		if _, ok := w.accounts[k]; ok {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		fresh = append(fresh, acc)
	}

	if len(w.accounts)+len(fresh) > MaxAccounts {
		return nil, fmt.Errorf("%w %d", ErrMaxAccountsExceeded, MaxAccounts)
	}

	for _, acc := range fresh {
		k := acc.indexKey()
		w.accounts[k] = acc
		w.order = append(w.order, k)
	}
	if len(fresh) > 0 {
		w.logger.Debugf("added %d accounts", len(fresh))
		w.publish(TopicAccountsAdded, fresh)
	}
	return fresh, nil
}

// RemoveAddresses 删除账户，不存在的地址被忽略；删除基础账户时同时清除基础账户
func (w *Wallet) RemoveAddresses(addresses ...string) {
	removed := make([]string, 0, len(addresses))
	baseRemoved := false
	for _, a := range addresses {
		k := address.Normalize(a)
		acc, ok := w.accounts[k]
		if !ok {
			continue
		}
		delete(w.accounts, k)
		removed = append(removed, acc.Address().String())
		if k == w.baseKey {
			w.baseKey = ""
			baseRemoved = true
		}
	}
	if len(removed) == 0 {
		return
	}

	order := w.order[:0]
	for _, k := range w.order {
		if _, ok := w.accounts[k]; ok {
			order = append(order, k)
		}
	}
	w.order = order

	w.publish(TopicAccountsRemoved, removed)
	if baseRemoved {
		w.publish(TopicBaseChanged, (*SignableAccount)(nil))
	}
}

// Get 按地址查找账户，忽略大小写
func (w *Wallet) Get(addr string) (*SignableAccount, bool) {
	acc, ok := w.accounts[address.Normalize(addr)]
	return acc, ok
}

// Accounts 按插入顺序返回全部账户
func (w *Wallet) Accounts() []*SignableAccount {
	out := make([]*SignableAccount, 0, len(w.order))
	for _, k := range w.order {
		out = append(out, w.accounts[k])
	}
	return out
}

// Addresses 按插入顺序返回全部地址
func (w *Wallet) Addresses() []string {
	out := make([]string, 0, len(w.order))
	for _, k := range w.order {
		out = append(out, w.accounts[k].Address().String())
	}
	return out
}

// SetBaseAccount 校验账户并设为默认发送方；账户不在钱包中时先加入
func (w *Wallet) SetBaseAccount(in AccountInput) (*SignableAccount, error) {
	acc, err := w.factory.NewAccount(in)
	if err != nil {
		return nil, err
	}
	if _, err := w.insert([]*SignableAccount{acc}); err != nil {
		return nil, err
	}

	k := acc.indexKey()
	w.baseKey = k
	stored := w.accounts[k]
	w.publish(TopicBaseChanged, stored)
	return stored, nil
}

// BaseAccount 返回默认发送方，未设置时返回 nil
func (w *Wallet) BaseAccount() *SignableAccount {
	if w.baseKey == "" {
		return nil
	}
	return w.accounts[w.baseKey]
}

// Clean 清空钱包并清除基础账户
func (w *Wallet) Clean() {
	if len(w.accounts) == 0 && w.baseKey == "" {
		return
	}
	removed := w.Addresses()
	hadBase := w.baseKey != ""

	w.accounts = make(map[string]*SignableAccount)
	w.order = nil
	w.baseKey = ""

	if len(removed) > 0 {
		w.publish(TopicAccountsRemoved, removed)
	}
	if hadBase {
		w.publish(TopicBaseChanged, (*SignableAccount)(nil))
	}
}

// SignMessage 使用钱包中的账户签名消息
//
// chainID 为 0 表示不校验；钱包配置了链 ID 时两者必须一致。
func (w *Wallet) SignMessage(data []byte, chainID uint64, signer string) (*signature.SignedMessage, error) {
	if chainID != 0 && w.chainID != 0 && chainID != w.chainID {
		return nil, fmt.Errorf("%w: wallet %d, requested %d", ErrChainIDMismatch, w.chainID, chainID)
	}
	acc, ok := w.Get(signer)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSignerNotFound, signer)
	}
	return w.signer.SignMessage(data, acc.SecretKey(), acc.PublicKey())
}

// VerifySignature 验证文本签名，格式错误时返回 false
func (w *Wallet) VerifySignature(data []byte, publicKey, sig string) bool {
	return w.signer.VerifySignature(data, publicKey, sig)
}

// GenerateAccount 生成新账户，不加入钱包
func (w *Wallet) GenerateAccount() (*SignableAccount, error) {
	return w.factory.Generate()
}

// AccountFromSecretKey 由私钥推导账户，不加入钱包
func (w *Wallet) AccountFromSecretKey(secretKey string) (*SignableAccount, error) {
	return w.factory.FromSecretKey(secretKey)
}

func (w *Wallet) publish(topic string, arg interface{}) {
	if w.bus != nil {
		w.bus.Publish(topic, arg)
	}
}

// FullAddressInfo 节点地址信息与本地密钥
type FullAddressInfo struct {
	transport.AddressInfo
	PublicKey string `json:"public_key"`
	SecretKey string `json:"secret_key"`
}

// WalletInfo 一次性查询钱包全部地址的链上信息
func (w *Wallet) WalletInfo(ctx context.Context) ([]FullAddressInfo, error) {
	addrs := w.Addresses()
	if len(addrs) == 0 {
		return []FullAddressInfo{}, nil
	}
	if w.node == nil {
		return nil, ErrNoNode
	}

	infos, err := w.node.GetAddresses(ctx, addrs)
	if err != nil {
		return nil, fmt.Errorf("get addresses: %w", err)
	}
	if len(infos) != len(addrs) {
		return nil, fmt.Errorf("%w: requested %d, got %d", ErrWalletInfoMismatch, len(addrs), len(infos))
	}

	out := make([]FullAddressInfo, len(infos))
	for i, info := range infos {
		acc := w.accounts[w.order[i]]
		out[i] = FullAddressInfo{
			AddressInfo: info,
			PublicKey:   acc.PublicKey().String(),
			SecretKey:   acc.SecretKey().String(),
		}
	}
	return out, nil
}

// Balance 账户余额
type Balance struct {
	Candidate *builder.Amount
	Final     *builder.Amount
}

// AccountBalance 查询任意地址余额；查询失败时记录日志并返回 (nil, false)
func (w *Wallet) AccountBalance(ctx context.Context, addr string) (*Balance, bool) {
	if w.node == nil {
		w.logger.Warn("Failed to get account balance: no node api configured")
		return nil, false
	}
	infos, err := w.node.GetAddresses(ctx, []string{addr})
	if err != nil {
		w.logger.Warnf("Failed to get account balance: %v", err)
		return nil, false
	}
	if len(infos) != 1 {
		w.logger.Warnf("Failed to get account balance: expected 1 record, got %d", len(infos))
		return nil, false
	}

	candidate, err := builder.FromMAS(infos[0].CandidateBalance)
	if err != nil {
		w.logger.Warnf("Failed to get account balance: candidate: %v", err)
		return nil, false
	}
	final, err := builder.FromMAS(infos[0].FinalBalance)
	if err != nil {
		w.logger.Warnf("Failed to get account balance: final: %v", err)
		return nil, false
	}
	return &Balance{Candidate: candidate, Final: final}, true
}

// EnsureBalance 检查地址的候选余额能否支付 need，返回扣款后的剩余余额
func (w *Wallet) EnsureBalance(ctx context.Context, addr string, need *builder.Amount) (*builder.Amount, error) {
	bal, ok := w.AccountBalance(ctx, addr)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBalanceUnavailable, addr)
	}
	if need.IsZero() {
		return bal.Candidate, nil
	}
	remaining, err := bal.Candidate.Sub(need)
	if err != nil {
		return nil, fmt.Errorf("%w: %s has %s MAS, needs %s MAS", ErrInsufficientBalance, addr, bal.Candidate, need)
	}
	return remaining, nil
}
