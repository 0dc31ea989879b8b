package main

import (
	"errors"

	"github.com/spf13/cobra"
)

var (
	signFrom      string
	signChainID   uint64
	verifyPubKey  string
	verifySigText string
)

// signCmd 用钱包账户签名消息
var signCmd = &cobra.Command{
	Use:   "sign <message>",
	Short: "签名消息",
	Long: `用 keystore 中的账户签名任意消息，默认使用基础账户。

示例：
  mwallet sign "Test message"
  mwallet sign --from AU1... "Test message"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireWallet(); err != nil {
			return err
		}
		w := sdk.Wallet()
		from := signFrom
		if from == "" {
			base := w.BaseAccount()
			if base == nil {
				return errors.New("no base account, pass --from")
			}
			from = base.Address().String()
		}

		msg, err := w.SignMessage([]byte(args[0]), signChainID, from)
		if err != nil {
			return err
		}
		return formatter.Print(map[string]interface{}{
			"base58Encoded": msg.String(),
			"publicKey":     msg.PublicKey.String(),
		})
	},
}

// verifyCmd 验证签名，不需要 keystore
var verifyCmd = &cobra.Command{
	Use:   "verify <message>",
	Short: "验证消息签名",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ok := sdk.Wallet().VerifySignature([]byte(args[0]), verifyPubKey, verifySigText)
		if ok {
			formatter.PrintSuccess("signature is valid")
		} else {
			formatter.PrintWarning("signature is NOT valid")
		}
		return formatter.Print(map[string]interface{}{"valid": ok})
	},
}

func init() {
	signCmd.Flags().StringVar(&signFrom, "from", "", "签名账户地址 (默认: 基础账户)")
	signCmd.Flags().Uint64Var(&signChainID, "chain-id", 0, "链 ID (0 表示不校验)")

	verifyCmd.Flags().StringVar(&verifyPubKey, "public-key", "", "签名者公钥")
	verifyCmd.Flags().StringVar(&verifySigText, "signature", "", "签名文本")
	_ = verifyCmd.MarkFlagRequired("public-key")
	_ = verifyCmd.MarkFlagRequired("signature")
}
