package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var apiBase string

// rootCmd 代表基础命令，没有子命令时直接调用
var rootCmd = &cobra.Command{
	Use:   "corelinks-cli",
	Short: "CoreLinks 支付短链命令行工具",
	Long: `CoreLinks 命令行工具。
创建 tip / nft_sale 支付动作短链，在终端渲染分享二维码，
并可观察已提交交易的链上确认状态。`,
}

// Execute 将所有子命令添加到根命令并设置标志
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiBase, "api", "http://localhost:8080", "CoreLinks 服务地址")
}
