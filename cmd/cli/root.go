package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mwallet/v1/client"
	"github.com/mwallet/v1/client/core/output"
	"github.com/mwallet/v1/client/pkg/config"
	logconfig "github.com/mwallet/v1/internal/config/log"
	zaplog "github.com/mwallet/v1/internal/core/infrastructure/log"
	logiface "github.com/mwallet/v1/pkg/interfaces/infrastructure/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// passwordEnv 非交互环境下读取 keystore 口令的环境变量
const passwordEnv = "MWALLET_PASSWORD"

// GlobalFlags 全局标志
type GlobalFlags struct {
	ConfigPath   string // 配置文件路径
	Keystore     string // keystore 路径，覆盖配置
	Endpoint     string // 节点地址，覆盖配置
	OutputFormat string // 输出格式
	Silent       bool   // 静默模式
	Verbose      bool   // 详细模式
}

var (
	globalFlags GlobalFlags
	cfg         *config.Config
	formatter   *output.Formatter
	sdk         *client.Client
)

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "mwallet",
	Short: "区块链钱包命令行客户端",
	Long: `mwallet - 本地钱包与交易签名工具

- 生成、导入和管理账户（加密 keystore）
- 签名与验证消息
- 转账、购买和出售 roll、调用合约
- 查询钱包余额与节点状态`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(globalFlags.OutputFormat)
		if err != nil {
			return err
		}
		formatter = output.NewFormatter(format, os.Stdout)
		formatter.SetSilent(globalFlags.Silent)

		cfg, err = config.Load(globalFlags.ConfigPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if globalFlags.Keystore != "" {
			cfg.KeystorePath = globalFlags.Keystore
		}
		if globalFlags.Endpoint != "" {
			cfg.PublicEndpoints = []config.Endpoint{{Name: "flag", JSONRPC: globalFlags.Endpoint}}
		}
		if cfg.Log == nil {
			cfg.Log = logconfig.DefaultOptions()
		}
		if globalFlags.Verbose {
			cfg.Log.Level = string(logiface.DebugLevel)
		} else if cfg.Log.FilePath == "" {
			cfg.Log.Level = string(logiface.WarnLevel)
		}

		logger, err := zaplog.New(logconfig.New(cfg.Log))
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		zaplog.SetLogger(logger)

		sdk, err = client.New(cfg, client.Dependencies{Logger: logger})
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zaplog.GetLogger().Sync()
	},
}

// Execute 执行根命令
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if formatter != nil {
			formatter.PrintError(err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalFlags.ConfigPath, "config", "", "配置文件路径 (默认: ~/.mwallet/config.json)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.Keystore, "keystore", "", "keystore 文件路径")
	rootCmd.PersistentFlags().StringVar(&globalFlags.Endpoint, "endpoint", "", "节点 JSON-RPC 地址")
	rootCmd.PersistentFlags().StringVarP(&globalFlags.OutputFormat, "output", "o", "pretty", "输出格式: json|pretty|table|text")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.Silent, "silent", false, "静默模式 (仅输出错误)")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "详细日志")

	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(walletCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(transferCmd)
	rootCmd.AddCommand(rollsCmd)
	rootCmd.AddCommand(callCmd)
}

// promptPassword 提示输入密码（不回显），设置了环境变量时直接使用
func promptPassword(prompt string) (string, error) {
	if pw, ok := os.LookupEnv(passwordEnv); ok {
		return pw, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("stdin is not a terminal, set %s", passwordEnv)
	}
	fmt.Fprint(os.Stderr, prompt+": ")
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}

// keystoreExists 配置的 keystore 文件是否存在
func keystoreExists() bool {
	_, err := os.Stat(cfg.KeystorePath)
	return err == nil
}

// openWallet 解锁 keystore 并载入账户，返回口令供后续保存使用
func openWallet() (string, error) {
	if !keystoreExists() {
		return "", nil
	}
	password, err := promptPassword("Keystore password")
	if err != nil {
		return "", err
	}
	if _, err := sdk.LoadKeystore(password); err != nil {
		return "", fmt.Errorf("unlock keystore %s: %w", cfg.KeystorePath, err)
	}
	return password, nil
}

// openOrCreateWallet 同 openWallet，keystore 不存在时为新文件设置口令
func openOrCreateWallet() (string, error) {
	if keystoreExists() {
		return openWallet()
	}
	password, err := promptPassword("New keystore password")
	if err != nil {
		return "", err
	}
	if _, ok := os.LookupEnv(passwordEnv); !ok {
		confirm, err := promptPassword("Confirm password")
		if err != nil {
			return "", err
		}
		if confirm != password {
			return "", errors.New("passwords do not match")
		}
	}
	return password, nil
}

// requireWallet 载入 keystore，不存在时报错
func requireWallet() (string, error) {
	if !keystoreExists() {
		return "", fmt.Errorf("no keystore at %s, run 'mwallet account new' or 'mwallet account import' first", cfg.KeystorePath)
	}
	return openWallet()
}
