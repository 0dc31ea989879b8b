package main

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/mwallet/v1/client/core/builder"
	"github.com/spf13/cobra"
)

var (
	txFee        string
	callMaxGas   uint64
	callCoins    string
	callParamHex string
)

// transferCmd 转账
var transferCmd = &cobra.Command{
	Use:   "transfer <recipient> <amount>",
	Short: "向用户地址转账 (金额单位 MAS)",
	Long: `从基础账户向用户地址转账。收款方为合约地址 (AS...) 时在发送前拒绝。

示例：
  mwallet transfer AU12KgrLq2vhMgi8aAwbxytiC4wXBDGgvTtqGTM5R7wEB9En8WBHB 1.5 --fee 0.01`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fee, err := parseMAS(txFee)
		if err != nil {
			return fmt.Errorf("fee: %w", err)
		}
		amount, err := parseMAS(args[1])
		if err != nil {
			return fmt.Errorf("amount: %w", err)
		}
		if _, err := requireWallet(); err != nil {
			return err
		}

		ids, err := sdk.Submitter().SendTransaction(cmd.Context(), builder.Transfer{
			Fee:       fee,
			Amount:    amount,
			Recipient: args[0],
		})
		return printOperationIDs(ids, err)
	},
}

// rollsCmd roll 买卖
var rollsCmd = &cobra.Command{
	Use:   "rolls",
	Short: "购买或出售 roll",
}

var rollsBuyCmd = &cobra.Command{
	Use:   "buy <count>",
	Short: "购买 roll",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fee, count, err := rollArgs(args[0])
		if err != nil {
			return err
		}
		ids, err := sdk.Submitter().BuyRolls(cmd.Context(), fee, count)
		return printOperationIDs(ids, err)
	},
}

var rollsSellCmd = &cobra.Command{
	Use:   "sell <count>",
	Short: "出售 roll",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fee, count, err := rollArgs(args[0])
		if err != nil {
			return err
		}
		ids, err := sdk.Submitter().SellRolls(cmd.Context(), fee, count)
		return printOperationIDs(ids, err)
	},
}

// callCmd 调用合约函数
var callCmd = &cobra.Command{
	Use:   "call <contract> <function>",
	Short: "调用合约函数",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fee, err := parseMAS(txFee)
		if err != nil {
			return fmt.Errorf("fee: %w", err)
		}
		coins, err := parseMAS(callCoins)
		if err != nil {
			return fmt.Errorf("coins: %w", err)
		}
		param, err := hex.DecodeString(callParamHex)
		if err != nil {
			return fmt.Errorf("param: %w", err)
		}
		if _, err := requireWallet(); err != nil {
			return err
		}

		ids, err := sdk.Submitter().CallSmartContract(cmd.Context(), builder.CallSC{
			Fee:       fee,
			MaxGas:    callMaxGas,
			Coins:     coins,
			Target:    args[0],
			Function:  args[1],
			Parameter: param,
		})
		return printOperationIDs(ids, err)
	},
}

func rollArgs(countArg string) (uint64, uint64, error) {
	count, err := strconv.ParseUint(countArg, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("count: %w", err)
	}
	fee, err := parseMAS(txFee)
	if err != nil {
		return 0, 0, fmt.Errorf("fee: %w", err)
	}
	if _, err := requireWallet(); err != nil {
		return 0, 0, err
	}
	return fee, count, nil
}

func printOperationIDs(ids []string, err error) error {
	if err != nil {
		return err
	}
	formatter.PrintSuccess(fmt.Sprintf("submitted %d operation(s)", len(ids)))
	return formatter.Print(map[string]interface{}{"operation_ids": ids})
}

func init() {
	for _, c := range []*cobra.Command{transferCmd, rollsBuyCmd, rollsSellCmd, callCmd} {
		c.Flags().StringVar(&txFee, "fee", "0", "手续费 (MAS)")
	}
	callCmd.Flags().Uint64Var(&callMaxGas, "max-gas", 100_000_000, "最大 gas")
	callCmd.Flags().StringVar(&callCoins, "coins", "0", "随调用转入的金额 (MAS)")
	callCmd.Flags().StringVar(&callParamHex, "param", "", "十六进制编码的参数")

	rollsCmd.AddCommand(rollsBuyCmd)
	rollsCmd.AddCommand(rollsSellCmd)
}
