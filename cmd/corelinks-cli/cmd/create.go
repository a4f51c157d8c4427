package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/mdp/qrterminal"
	"github.com/spf13/cobra"
)

type apiResponse struct {
	Code    int    `json:"code"`
	Message string `json:"msg"`
	Data    struct {
		ShortID  string `json:"short_id"`
		ShortURL string `json:"short_url"`
	} `json:"data"`
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "创建支付动作短链",
}

var createTipCmd = &cobra.Command{
	Use:   "tip",
	Short: "创建打赏链接",
	Run: func(cmd *cobra.Command, args []string) {
		to, _ := cmd.Flags().GetString("to")
		amount, _ := cmd.Flags().GetString("amount")
		desc, _ := cmd.Flags().GetString("desc")

		submitAction(map[string]string{
			"action_type":       "tip",
			"recipient_address": to,
			"amount":            amount,
			"description":       desc,
		})
	},
}

var createNftCmd = &cobra.Command{
	Use:   "nft",
	Short: "创建 NFT 固定价购买链接",
	Run: func(cmd *cobra.Command, args []string) {
		contract, _ := cmd.Flags().GetString("contract")
		tokenID, _ := cmd.Flags().GetString("token-id")
		price, _ := cmd.Flags().GetString("price")
		desc, _ := cmd.Flags().GetString("desc")

		submitAction(map[string]string{
			"action_type":      "nft_sale",
			"contract_address": contract,
			"token_id":         tokenID,
			"price":            price,
			"description":      desc,
		})
	},
}

func submitAction(payload map[string]string) {
	body, _ := json.Marshal(payload)

	// 1. 调用创建接口
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Post(apiBase+"/api/v1/actions", "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("请求失败: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	var result apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		fmt.Printf("解析响应失败: %v\n", err)
		os.Exit(1)
	}
	if result.Code != 0 {
		fmt.Printf("❌ 创建失败: %s (code=%d)\n", result.Message, result.Code)
		os.Exit(1)
	}

	// 2. 输出短链 + 终端二维码，扫码即走
	fmt.Printf("✅ 创建成功!\n")
	fmt.Printf("Short ID:  %s\n", result.Data.ShortID)
	fmt.Printf("Short URL: %s\n\n", result.Data.ShortURL)
	qrterminal.Generate(result.Data.ShortURL, qrterminal.M, os.Stdout)
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.AddCommand(createTipCmd)
	createCmd.AddCommand(createNftCmd)

	createTipCmd.Flags().String("to", "", "收款地址 (0x...)")
	createTipCmd.Flags().String("amount", "", "打赏金额 (CORE)")
	createTipCmd.Flags().String("desc", "", "描述")
	createTipCmd.MarkFlagRequired("to")
	createTipCmd.MarkFlagRequired("amount")

	createNftCmd.Flags().String("contract", "", "NFT 合约地址 (0x...)")
	createNftCmd.Flags().String("token-id", "", "Token ID (十进制)")
	createNftCmd.Flags().String("price", "", "售价 (CORE)")
	createNftCmd.Flags().String("desc", "", "描述")
	createNftCmd.MarkFlagRequired("contract")
	createNftCmd.MarkFlagRequired("token-id")
	createNftCmd.MarkFlagRequired("price")
}
