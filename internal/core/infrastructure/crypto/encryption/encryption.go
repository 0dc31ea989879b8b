// Package encryption 提供基于口令的对称加密
//
// 密钥派生支持 scrypt（默认）与 PBKDF2-HMAC-SHA256，
// 数据使用 AES-256-GCM 加密，并附带独立的 MAC 以便在解密前识别错误口令。
package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

const (
	// CipherAES256GCM 唯一支持的对称算法
	CipherAES256GCM = "aes-256-gcm"
	// KDFScrypt scrypt 密钥派生
	KDFScrypt = "scrypt"
	// KDFPBKDF2 PBKDF2 密钥派生
	KDFPBKDF2 = "pbkdf2"

	keyLength  = 32
	saltLength = 16

	// 文件中读取的派生参数上限
	maxScryptMemory = 256 << 20
	maxScryptP      = 16
	maxPBKDF2Rounds = 10_000_000
)

var (
	// ErrDecryptionFailed 口令错误或密文被篡改
	ErrDecryptionFailed = errors.New("decryption failed (wrong password?)")
	// ErrUnsupportedCipher 不支持的加密参数
	ErrUnsupportedCipher = errors.New("unsupported cipher parameters")
)

// KDFParams 密钥派生参数
type KDFParams struct {
	DKLen int    `json:"dklen"`
	Salt  string `json:"salt"`
	// scrypt 参数
	N int `json:"n,omitempty"`
	R int `json:"r,omitempty"`
	P int `json:"p,omitempty"`
	// PBKDF2 参数
	C   int    `json:"c,omitempty"`
	PRF string `json:"prf,omitempty"`
}

// CipherParams 密码参数
type CipherParams struct {
	IV string `json:"iv"`
}

// Crypto 加密结果，字段均为 hex 编码，可直接写入 JSON
type Crypto struct {
	Cipher       string       `json:"cipher"`
	Ciphertext   string       `json:"ciphertext"`
	CipherParams CipherParams `json:"cipherparams"`
	KDF          string       `json:"kdf"`
	KDFParams    KDFParams    `json:"kdfparams"`
	MAC          string       `json:"mac"`
}

// Params 控制派生强度；测试中可以调低
type Params struct {
	KDF          string
	ScryptN      int
	ScryptR      int
	ScryptP      int
	PBKDF2Rounds int
}

// DefaultParams 默认派生强度
func DefaultParams() Params {
	return Params{
		KDF:          KDFScrypt,
		ScryptN:      1 << 15,
		ScryptR:      8,
		ScryptP:      1,
		PBKDF2Rounds: 262144,
	}
}

// EncryptionService 基于口令的加解密服务
type EncryptionService struct {
	params Params
	rand   io.Reader
}

// NewEncryptionService 创建加密服务，零值参数回退到默认值
func NewEncryptionService(params Params) *EncryptionService {
	def := DefaultParams()
	if params.KDF == "" {
		params.KDF = def.KDF
	}
	if params.ScryptN == 0 {
		params.ScryptN = def.ScryptN
	}
	if params.ScryptR == 0 {
		params.ScryptR = def.ScryptR
	}
	if params.ScryptP == 0 {
		params.ScryptP = def.ScryptP
	}
	if params.PBKDF2Rounds == 0 {
		params.PBKDF2Rounds = def.PBKDF2Rounds
	}
	return &EncryptionService{params: params, rand: rand.Reader}
}

// EncryptWithPassword 使用口令加密数据
func (s *EncryptionService) EncryptWithPassword(plaintext []byte, password string) (*Crypto, error) {
	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(s.rand, salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	kdfParams := KDFParams{DKLen: keyLength, Salt: hex.EncodeToString(salt)}
	switch s.params.KDF {
	case KDFScrypt:
		kdfParams.N, kdfParams.R, kdfParams.P = s.params.ScryptN, s.params.ScryptR, s.params.ScryptP
	case KDFPBKDF2:
		kdfParams.C, kdfParams.PRF = s.params.PBKDF2Rounds, "hmac-sha256"
	default:
		return nil, fmt.Errorf("%w: kdf %q", ErrUnsupportedCipher, s.params.KDF)
	}

	key, err := deriveKey(password, s.params.KDF, kdfParams)
	if err != nil {
		return nil, err
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	iv := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(s.rand, iv); err != nil {
		return nil, fmt.Errorf("generate iv: %w", err)
	}
	ciphertext := gcm.Seal(nil, iv, plaintext, nil)

	return &Crypto{
		Cipher:       CipherAES256GCM,
		Ciphertext:   hex.EncodeToString(ciphertext),
		CipherParams: CipherParams{IV: hex.EncodeToString(iv)},
		KDF:          s.params.KDF,
		KDFParams:    kdfParams,
		MAC:          hex.EncodeToString(computeMAC(key, ciphertext)),
	}, nil
}

// DecryptWithPassword 使用口令解密
func (s *EncryptionService) DecryptWithPassword(c *Crypto, password string) ([]byte, error) {
	if c == nil || c.Cipher != CipherAES256GCM {
		return nil, ErrUnsupportedCipher
	}

	key, err := deriveKey(password, c.KDF, c.KDFParams)
	if err != nil {
		return nil, err
	}

	ciphertext, err := hex.DecodeString(c.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("decode ciphertext: %w", err)
	}
	mac, err := hex.DecodeString(c.MAC)
	if err != nil {
		return nil, fmt.Errorf("decode mac: %w", err)
	}
	if !hmac.Equal(mac, computeMAC(key, ciphertext)) {
		return nil, ErrDecryptionFailed
	}

	iv, err := hex.DecodeString(c.CipherParams.IV)
	if err != nil {
		return nil, fmt.Errorf("decode iv: %w", err)
	}
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != gcm.NonceSize() {
		return nil, fmt.Errorf("%w: iv length %d", ErrUnsupportedCipher, len(iv))
	}

	plaintext, err := gcm.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// deriveKey 从口令和参数派生 32 字节密钥，参数可能来自不可信的文件
func deriveKey(password, kdf string, p KDFParams) ([]byte, error) {
	salt, err := hex.DecodeString(p.Salt)
	if err != nil {
		return nil, fmt.Errorf("decode salt: %w", err)
	}
	if p.DKLen != 0 && p.DKLen != keyLength {
		return nil, fmt.Errorf("%w: dklen %d", ErrUnsupportedCipher, p.DKLen)
	}

	switch kdf {
	case KDFScrypt:
		if err := checkScrypt(p.N, p.R, p.P); err != nil {
			return nil, err
		}
		key, err := scrypt.Key([]byte(password), salt, p.N, p.R, p.P, keyLength)
		if err != nil {
			return nil, fmt.Errorf("scrypt: %w", err)
		}
		return key, nil
	case KDFPBKDF2:
		if p.C <= 0 || p.C > maxPBKDF2Rounds {
			return nil, fmt.Errorf("%w: pbkdf2 iterations %d", ErrUnsupportedCipher, p.C)
		}
		return pbkdf2.Key([]byte(password), salt, p.C, keyLength, sha256.New), nil
	default:
		return nil, fmt.Errorf("%w: kdf %q", ErrUnsupportedCipher, kdf)
	}
}

// checkScrypt 限制 scrypt 的内存占用 128*N*R 与并行度
func checkScrypt(n, r, p int) error {
	if n <= 1 || n&(n-1) != 0 || r <= 0 || p <= 0 || p > maxScryptP {
		return fmt.Errorf("%w: scrypt n=%d r=%d p=%d", ErrUnsupportedCipher, n, r, p)
	}
	if n > maxScryptMemory/128/r {
		return fmt.Errorf("%w: scrypt cost n=%d r=%d too high", ErrUnsupportedCipher, n, r)
	}
	return nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}
	return gcm, nil
}

// computeMAC 取派生密钥后半部分与密文计算 SHA256
func computeMAC(key, ciphertext []byte) []byte {
	h := sha256.New()
	h.Write(key[16:])
	h.Write(ciphertext)
	return h.Sum(nil)
}
