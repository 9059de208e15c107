/*
 * @module cmd/root
 * @description 命令行入口：根命令、全局参数和客户端构造
 * @architecture 命令模式 - cobra子命令分别覆盖健康检查、现代化、样例、导出和桩服务
 * @documentReference ai_docs/modernize_workflow.md
 * @stateFlow 解析全局参数 -> 初始化日志 -> 分发子命令
 * @rules 服务地址与超时优先级：命令行参数 > 环境变量 > 默认值
 * @dependencies github.com/spf13/cobra, modernize-client/client, modernize-client/logger
 * @refs cmd/modernize.go, cmd/health.go, cmd/sample.go, cmd/export.go, cmd/serve.go
 */

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"modernize-client/client"
	"modernize-client/logger"
)

var (
	serverURL      string
	timeoutSeconds int
)

var rootCmd = &cobra.Command{
	Use:   "modernize-client",
	Short: "AS/400遗留数据现代化客户端",
	Long: `modernize-client 把AS/400风格的遗留CSV数据提交到现代化服务，
获得带现代列名的结构化表格、数据质量分析和生成的部署产物。

示例:
  # 检查服务健康状态
  modernize-client health

  # 现代化一个CSV文件
  modernize-client modernize custmst.csv --table customers

  # 获取内置样例数据
  modernize-client sample customer

  # 导出自包含JSON包
  modernize-client export custmst.csv

  # 本地启动桩服务用于离线开发
  modernize-client serve --port 8000
`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.InitLogger()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server",
		getEnvOrDefault("MODERNIZE_SERVICE_URL", ""), "现代化服务地址")
	rootCmd.PersistentFlags().IntVar(&timeoutSeconds, "timeout", 0, "请求超时秒数")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(modernizeCmd)
	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// newClient 按全局参数构造传输客户端
func newClient() *client.ModernizeClient {
	var opts []client.Option
	if serverURL != "" {
		opts = append(opts, client.WithBaseURL(serverURL))
	}
	if timeoutSeconds > 0 {
		opts = append(opts, client.WithTimeout(time.Duration(timeoutSeconds)*time.Second))
	}
	return client.NewModernizeClient(opts...)
}

// Execute 运行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
