package main

import (
	"fmt"

	"github.com/mwallet/v1/client/core/builder"
	"github.com/spf13/cobra"
)

// walletCmd 钱包整体信息
var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "钱包信息",
}

// walletInfoCmd 查询钱包全部地址的链上状态
var walletInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "查询钱包全部地址的余额与 roll",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireWallet(); err != nil {
			return err
		}
		infos, err := sdk.Wallet().WalletInfo(cmd.Context())
		if err != nil {
			return err
		}
		rows := make([]map[string]interface{}, 0, len(infos))
		for _, info := range infos {
			rows = append(rows, map[string]interface{}{
				"address":           info.Address,
				"thread":            info.Thread,
				"candidate_balance": info.CandidateBalance,
				"final_balance":     info.FinalBalance,
				"candidate_rolls":   info.CandidateRollCount,
				"final_rolls":       info.FinalRollCount,
			})
		}
		return formatter.Print(rows)
	},
}

// balanceCmd 查询任意地址余额
var balanceCmd = &cobra.Command{
	Use:   "balance <address>",
	Short: "查询地址余额",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bal, ok := sdk.Wallet().AccountBalance(cmd.Context(), args[0])
		if !ok {
			return fmt.Errorf("balance of %s is unavailable", args[0])
		}
		return formatter.Print(map[string]interface{}{
			"address":   args[0],
			"candidate": bal.Candidate.String(),
			"final":     bal.Final.String(),
		})
	},
}

// statusCmd 节点状态
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "查询节点状态",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := sdk.Status(cmd.Context())
		if err != nil {
			return err
		}
		return formatter.Print(map[string]interface{}{
			"node_id":       status.NodeID,
			"version":       status.Version,
			"chain_id":      status.ChainID,
			"current_cycle": status.CurrentCycle,
			"next_period":   status.NextSlot.Period,
			"next_thread":   status.NextSlot.Thread,
		})
	},
}

// parseMAS 解析 MAS 金额文本为 nanoMAS
func parseMAS(s string) (uint64, error) {
	amount, err := builder.FromMAS(s)
	if err != nil {
		return 0, err
	}
	return amount.Nano()
}

func init() {
	walletCmd.AddCommand(walletInfoCmd)
}
