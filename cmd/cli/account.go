package main

import (
	"fmt"

	"github.com/mwallet/v1/client/core/wallet"
	"github.com/spf13/cobra"
)

var (
	accountShowSecret bool
	accountNoSave     bool
	accountSetBase    bool
)

// accountCmd 账户相关命令
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "账户管理",
	Long:  "生成、导入、列出和删除账户",
}

// accountNewCmd 生成新账户并写入 keystore
var accountNewCmd = &cobra.Command{
	Use:   "new",
	Short: "生成新账户",
	Long: `生成随机私钥并推导公钥与地址，默认加入 keystore。

示例：
  mwallet account new
  mwallet account new --no-save --show-secret   # 只打印，不保存`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := sdk.Wallet()
		acc, err := w.GenerateAccount()
		if err != nil {
			return fmt.Errorf("generate account: %w", err)
		}

		if !accountNoSave {
			password, err := openOrCreateWallet()
			if err != nil {
				return err
			}
			if _, err := w.AddAccounts([]wallet.AccountInput{acc.Input()}); err != nil {
				return err
			}
			if w.BaseAccount() == nil || accountSetBase {
				if _, err := w.SetBaseAccount(acc.Input()); err != nil {
					return err
				}
			}
			if err := sdk.SaveKeystore(password); err != nil {
				return err
			}
			formatter.PrintSuccess(fmt.Sprintf("account created: %s", acc.Address()))
		}

		return formatter.Print(accountView(acc, accountShowSecret || accountNoSave, w))
	},
}

// accountImportCmd 从私钥导入账户
var accountImportCmd = &cobra.Command{
	Use:   "import <secret-key>...",
	Short: "从私钥导入账户",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := openOrCreateWallet()
		if err != nil {
			return err
		}
		w := sdk.Wallet()
		added, err := w.AddSecretKeys(args)
		if err != nil {
			return err
		}
		if accountSetBase || w.BaseAccount() == nil {
			if _, err := w.SetBaseAccount(wallet.AccountInput{SecretKey: args[0]}); err != nil {
				return err
			}
		}
		if err := sdk.SaveKeystore(password); err != nil {
			return err
		}

		formatter.PrintSuccess(fmt.Sprintf("imported %d new accounts", len(added)))
		rows := make([]map[string]interface{}, 0, len(added))
		for _, acc := range added {
			rows = append(rows, accountView(acc, false, w))
		}
		return formatter.Print(rows)
	},
}

// accountListCmd 列出 keystore 中的账户
var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "列出账户",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireWallet(); err != nil {
			return err
		}
		w := sdk.Wallet()
		rows := make([]map[string]interface{}, 0, w.Len())
		for _, acc := range w.Accounts() {
			rows = append(rows, accountView(acc, accountShowSecret, w))
		}
		return formatter.Print(rows)
	},
}

// accountRemoveCmd 删除账户
var accountRemoveCmd = &cobra.Command{
	Use:   "remove <address>...",
	Short: "删除账户",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := requireWallet()
		if err != nil {
			return err
		}
		w := sdk.Wallet()
		before := w.Len()
		w.RemoveAddresses(args...)
		if err := sdk.SaveKeystore(password); err != nil {
			return err
		}
		formatter.PrintSuccess(fmt.Sprintf("removed %d accounts", before-w.Len()))
		return nil
	},
}

// accountBaseCmd 设置默认发送账户
var accountBaseCmd = &cobra.Command{
	Use:   "base <address>",
	Short: "设置默认发送账户",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := requireWallet()
		if err != nil {
			return err
		}
		w := sdk.Wallet()
		acc, ok := w.Get(args[0])
		if !ok {
			return fmt.Errorf("%w: %s", wallet.ErrSignerNotFound, args[0])
		}
		if _, err := w.SetBaseAccount(acc.Input()); err != nil {
			return err
		}
		if err := sdk.SaveKeystore(password); err != nil {
			return err
		}
		formatter.PrintSuccess(fmt.Sprintf("base account set to %s", acc.Address()))
		return nil
	},
}

// accountInspectCmd 由私钥推导公钥与地址，不读写 keystore
var accountInspectCmd = &cobra.Command{
	Use:   "inspect <secret-key>",
	Short: "查看私钥对应的公钥与地址",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		acc, err := sdk.Wallet().AccountFromSecretKey(args[0])
		if err != nil {
			return err
		}
		return formatter.Print(accountView(acc, false, nil))
	},
}

func accountView(acc *wallet.SignableAccount, withSecret bool, w *wallet.Wallet) map[string]interface{} {
	view := map[string]interface{}{
		"address":    acc.Address().String(),
		"public_key": acc.PublicKey().String(),
	}
	if withSecret {
		view["secret_key"] = acc.SecretKey().String()
	}
	if w != nil {
		base := w.BaseAccount()
		view["base"] = base != nil && base.Address().Equal(acc.Address())
	}
	return view
}

func init() {
	accountNewCmd.Flags().BoolVar(&accountShowSecret, "show-secret", false, "打印私钥")
	accountNewCmd.Flags().BoolVar(&accountNoSave, "no-save", false, "不写入 keystore")
	accountNewCmd.Flags().BoolVar(&accountSetBase, "base", false, "设为默认发送账户")
	accountImportCmd.Flags().BoolVar(&accountSetBase, "base", false, "把第一个私钥设为默认发送账户")
	accountListCmd.Flags().BoolVar(&accountShowSecret, "show-secret", false, "打印私钥")

	accountCmd.AddCommand(accountNewCmd)
	accountCmd.AddCommand(accountImportCmd)
	accountCmd.AddCommand(accountListCmd)
	accountCmd.AddCommand(accountRemoveCmd)
	accountCmd.AddCommand(accountBaseCmd)
	accountCmd.AddCommand(accountInspectCmd)
}
