package cmd

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"corelinks/internal/service/lifecycle"
	"corelinks/internal/service/observer"
	"corelinks/internal/service/txbuilder"

	"github.com/spf13/cobra"
)

// execCmd 走完一条短链的完整执行流程:
// 构建交易描述 -> 用户在钱包里签名广播 -> 粘贴回哈希 -> 观察确认。
// 签名永远发生在用户自己的钱包里，本工具只做状态跟踪。
var execCmd = &cobra.Command{
	Use:   "exec <short_id>",
	Short: "执行一条支付短链 (交互式)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		shortID := args[0]
		from, _ := cmd.Flags().GetString("from")
		rpcURL, _ := cmd.Flags().GetString("rpc")

		// 1. 状态机: 触发时通过 API 现场构建描述
		ctl := lifecycle.NewController(func(caller string) (*txbuilder.Descriptor, error) {
			return fetchDescriptor(shortID, caller)
		})

		desc, ok := ctl.Trigger(from)
		if !ok {
			fmt.Println("❌ 无法发起执行: 检查 short_id 和 --from 地址")
			os.Exit(1)
		}

		fmt.Println("请在钱包中签名并广播以下交易:")
		pretty, _ := json.MarshalIndent(desc, "", "  ")
		fmt.Println(string(pretty))

		// 2. 等用户粘贴交易哈希 (空行 = 取消)
		fmt.Print("\n交易哈希 (留空取消): ")
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')
		txHash := strings.TrimSpace(line)
		if txHash == "" {
			ctl.Dispatch(lifecycle.Event{Kind: lifecycle.EventSubmitRejected, Err: fmt.Errorf("user cancelled")})
			fmt.Printf("状态: %s (%s)\n", ctl.State(), ctl.FailReason())
			return
		}
		ctl.Dispatch(lifecycle.Event{Kind: lifecycle.EventSubmitHash, TxHash: txHash})

		// 3. 观察收据，事件直接喂状态机
		obs, err := observer.NewReceiptObserver(rpcURL, 0)
		if err != nil {
			fmt.Printf("连接失败: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("状态: %s，正在等待链上确认...\n", ctl.State())
		if err := obs.Watch(context.Background(), txHash, ctl.Dispatch); err != nil {
			fmt.Printf("观察中断: %v\n", err)
			os.Exit(1)
		}

		// 4. 输出终态
		switch ctl.State() {
		case lifecycle.StateConfirmed:
			fmt.Printf("✅ 已确认: %s\n", ctl.TxHash())
		case lifecycle.StateFailed:
			fmt.Printf("❌ 失败: %s\n", ctl.FailReason())
		default:
			fmt.Printf("状态: %s\n", ctl.State())
		}
	},
}

func fetchDescriptor(shortID, caller string) (*txbuilder.Descriptor, error) {
	body, _ := json.Marshal(map[string]string{"user_address": caller})

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Post(
		fmt.Sprintf("%s/api/v1/actions/%s/transaction", apiBase, shortID),
		"application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result struct {
		Code    int                   `json:"code"`
		Message string                `json:"msg"`
		Data    *txbuilder.Descriptor `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	if result.Code != 0 {
		return nil, fmt.Errorf("%s (code=%d)", result.Message, result.Code)
	}
	return result.Data, nil
}

func init() {
	rootCmd.AddCommand(execCmd)
	execCmd.Flags().String("from", "", "调用方地址 (0x...)")
	execCmd.Flags().String("rpc", "https://rpc.test2.btcs.network", "RPC 节点地址")
	execCmd.MarkFlagRequired("from")
}
