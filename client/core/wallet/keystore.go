package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/mwallet/v1/internal/core/infrastructure/crypto/encryption"
)

// KeystoreVersion 当前 keystore 文件格式版本
const KeystoreVersion = "1.0.0"

// ErrUnsupportedKeystore keystore 版本不受支持
var ErrUnsupportedKeystore = errors.New("unsupported keystore version")

// KeystoreV1 加密保存的钱包账户（v1.0.0）
//
// Crypto 中的明文为私钥文本的 JSON 数组。
type KeystoreV1 struct {
	Version   string             `json:"version"`
	ID        string             `json:"id"`
	Addresses []string           `json:"addresses"`
	Base      string             `json:"base,omitempty"`
	Crypto    *encryption.Crypto `json:"crypto"`
	CreatedAt string             `json:"created_at"`
}

// Export 用口令加密钱包中的全部账户
func (w *Wallet) Export(password string) (*KeystoreV1, error) {
	secrets := make([]string, 0, len(w.order))
	for _, acc := range w.Accounts() {
		secrets = append(secrets, acc.SecretKey().String())
	}
	plaintext, err := json.Marshal(secrets)
	if err != nil {
		return nil, fmt.Errorf("marshal secret keys: %w", err)
	}
	c, err := w.encryption.EncryptWithPassword(plaintext, password)
	if err != nil {
		return nil, fmt.Errorf("encrypt keystore: %w", err)
	}

	ks := &KeystoreV1{
		Version:   KeystoreVersion,
		ID:        uuid.New().String(),
		Addresses: w.Addresses(),
		Crypto:    c,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if base := w.BaseAccount(); base != nil {
		ks.Base = base.Address().String()
	}
	return ks, nil
}

// Import 解密 keystore 并把账户加入钱包，同时恢复基础账户
func (w *Wallet) Import(ks *KeystoreV1, password string) ([]*SignableAccount, error) {
	if ks == nil || ks.Version != KeystoreVersion {
		return nil, ErrUnsupportedKeystore
	}
	plaintext, err := w.encryption.DecryptWithPassword(ks.Crypto, password)
	if err != nil {
		return nil, err
	}
	var secrets []string
	if err := json.Unmarshal(plaintext, &secrets); err != nil {
		return nil, fmt.Errorf("parse secret keys: %w", err)
	}

	added, err := w.AddSecretKeys(secrets)
	if err != nil {
		return nil, err
	}
	if ks.Base != "" {
		if acc, ok := w.Get(ks.Base); ok {
			if _, err := w.SetBaseAccount(AccountInput{SecretKey: acc.SecretKey().String()}); err != nil {
				return nil, err
			}
		}
	}
	return added, nil
}

// SaveKeystore 导出并写入文件，权限 0600
func (w *Wallet) SaveKeystore(path, password string) error {
	ks, err := w.Export(password)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(ks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal keystore: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create keystore dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write keystore: %w", err)
	}
	w.logger.Infof("keystore saved to %s (%d accounts)", path, len(ks.Addresses))
	return nil
}

// LoadKeystore 读取文件并导入账户
func (w *Wallet) LoadKeystore(path, password string) ([]*SignableAccount, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keystore: %w", err)
	}
	var ks KeystoreV1
	if err := json.Unmarshal(data, &ks); err != nil {
		return nil, fmt.Errorf("parse keystore: %w", err)
	}
	return w.Import(&ks, password)
}
