package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"corelinks/internal/service/lifecycle"
	"corelinks/internal/service/observer"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <tx_hash>",
	Short: "观察已提交交易的链上状态",
	Long:  `轮询交易收据直到确认或 revert。已提交的交易无法撤回，Ctrl-C 只是停止观察。`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		txHash := args[0]
		rpcURL, _ := cmd.Flags().GetString("rpc")
		interval, _ := cmd.Flags().GetDuration("interval")

		obs, err := observer.NewReceiptObserver(rpcURL, interval)
		if err != nil {
			fmt.Printf("连接失败: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("正在观察交易 %s ...\n", txHash)
		err = obs.Watch(context.Background(), txHash, func(ev lifecycle.Event) {
			switch ev.Kind {
			case lifecycle.EventConfirmed:
				fmt.Printf("✅ 交易已确认: %s\n", ev.TxHash)
			case lifecycle.EventReverted:
				fmt.Printf("❌ 交易 revert: %s (%v)\n", ev.TxHash, ev.Err)
			}
		})
		if err != nil {
			fmt.Printf("观察中断: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().String("rpc", "https://rpc.test2.btcs.network", "RPC 节点地址")
	watchCmd.Flags().Duration("interval", 3*time.Second, "轮询间隔")
}
