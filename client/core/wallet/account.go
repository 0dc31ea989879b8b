// Package wallet 提供本地账户管理与消息签名
package wallet

import (
	"errors"
	"fmt"

	"github.com/mwallet/v1/internal/core/infrastructure/crypto/address"
	"github.com/mwallet/v1/internal/core/infrastructure/crypto/key"
	"github.com/mwallet/v1/internal/core/infrastructure/crypto/signature"
)

var (
	// ErrMissingSecretKey 候选账户缺少私钥
	ErrMissingSecretKey = errors.New("missing account private key")
	// ErrKeyMismatch 提供的公钥与私钥推导结果不一致
	ErrKeyMismatch = errors.New("public key does not correspond to the private key submitted")
	// ErrAddressMismatch 提供的地址与公钥推导结果不一致
	ErrAddressMismatch = errors.New("account address does not correspond to the address submitted")
)

// AccountInput 未经校验的账户输入，字段均为文本形式，可为空
type AccountInput struct {
	Address   string `json:"address,omitempty"`
	PublicKey string `json:"public_key,omitempty"`
	SecretKey string `json:"secret_key,omitempty"`
}

// Account 账户的两种形态：UnverifiedAccount 与 SignableAccount
type Account interface {
	Address() *address.Address
	// CanSign 是否持有私钥
	CanSign() bool
}

// UnverifiedAccount 只有地址的账户，用于余额查询等只读场景
type UnverifiedAccount struct {
	addr *address.Address
}

// NewUnverifiedAccount 解析地址文本
func NewUnverifiedAccount(text string) (*UnverifiedAccount, error) {
	addr, err := address.Parse(text)
	if err != nil {
		return nil, err
	}
	return &UnverifiedAccount{addr: addr}, nil
}

func (a *UnverifiedAccount) Address() *address.Address { return a.addr }
func (a *UnverifiedAccount) CanSign() bool             { return false }

// SignableAccount 已校验的可签名账户：公钥由私钥推导，地址由公钥推导
//
// 只能通过 Factory 构造。
type SignableAccount struct {
	addr      *address.Address
	publicKey *key.PublicKey
	secretKey *key.SecretKey
}

func (a *SignableAccount) Address() *address.Address { return a.addr }
func (a *SignableAccount) CanSign() bool             { return true }

// PublicKey 返回公钥
func (a *SignableAccount) PublicKey() *key.PublicKey { return a.publicKey }

// SecretKey 返回私钥
func (a *SignableAccount) SecretKey() *key.SecretKey { return a.secretKey }

// Input 返回账户的文本形式
func (a *SignableAccount) Input() AccountInput {
	return AccountInput{
		Address:   a.addr.String(),
		PublicKey: a.publicKey.String(),
		SecretKey: a.secretKey.String(),
	}
}

func (a *SignableAccount) indexKey() string {
	return address.Normalize(a.addr.String())
}

// Factory 校验并构造账户
type Factory struct {
	signer *signature.Service
}

// NewFactory 创建账户工厂
func NewFactory(signer *signature.Service) *Factory {
	if signer == nil {
		signer = signature.NewService(nil, nil, nil)
	}
	return &Factory{signer: signer}
}

// NewAccount 校验候选账户的私钥、公钥、地址三者一致性
func (f *Factory) NewAccount(in AccountInput) (*SignableAccount, error) {
	if in.SecretKey == "" {
		return nil, ErrMissingSecretKey
	}
	sk, err := key.ParseSecretKey(in.SecretKey)
	if err != nil {
		return nil, err
	}
	return f.fromSecretKey(sk, in.PublicKey, in.Address)
}

// FromSecretKey 由私钥文本推导完整账户
func (f *Factory) FromSecretKey(text string) (*SignableAccount, error) {
	return f.NewAccount(AccountInput{SecretKey: text})
}

// Generate 生成新的随机账户
func (f *Factory) Generate() (*SignableAccount, error) {
	sk, err := key.GenerateSecretKey(key.DefaultVersion)
	if err != nil {
		return nil, err
	}
	return f.fromSecretKey(sk, "", "")
}

func (f *Factory) fromSecretKey(sk *key.SecretKey, wantPublicKey, wantAddress string) (*SignableAccount, error) {
	pk, err := f.signer.DerivePublicKey(sk)
	if err != nil {
		return nil, err
	}
	if wantPublicKey != "" && wantPublicKey != pk.String() {
		return nil, fmt.Errorf("%w: %s", ErrKeyMismatch, wantPublicKey)
	}

	addr := address.Derive(pk)
	if wantAddress != "" && address.Normalize(wantAddress) != address.Normalize(addr.String()) {
		return nil, fmt.Errorf("%w: %s", ErrAddressMismatch, wantAddress)
	}

	return &SignableAccount{addr: addr, publicKey: pk, secretKey: sk}, nil
}
