// Package crypto 定义钱包所需的底层密码学能力接口
//
// 上层（钱包、交易提交）只依赖这里的接口，测试中可以注入
// 返回错误长度签名或拒绝验证的替身实现。
package crypto

// SecretKeySize 私钥原始字节长度
const SecretKeySize = 32

// PublicKeySize 公钥原始字节长度
const PublicKeySize = 32

// SignatureSize 签名原始字节长度
const SignatureSize = 64

// SignatureManager 定义字节级签名能力
//
// 所有方法只处理原始字节，不涉及文本编码和版本号。
type SignatureManager interface {
	// DerivePublicKey 从 32 字节私钥确定性地推导公钥
	DerivePublicKey(secret []byte) ([]byte, error)

	// Sign 对摘要进行签名；相同私钥和摘要必须得到相同签名
	Sign(secret, digest []byte) ([]byte, error)

	// Verify 验证签名，签名无效时返回 false 而不是错误
	Verify(publicKey, digest, signature []byte) bool
}
