/*
 * @module cmd/health
 * @description health子命令，检查现代化服务的可用性并输出能力信息
 * @architecture 命令模式
 * @documentReference ai_docs/modernize_workflow.md
 * @stateFlow 构造客户端 -> 健康检查 -> 输出状态或错误
 * @rules 服务不可达时以非零码退出，便于脚本判断
 * @dependencies github.com/spf13/cobra, modernize-client/client
 * @refs client/modernize_client.go
 */

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"modernize-client/client"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "检查现代化服务健康状态",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		health, err := c.Health(cmd.Context())
		if err != nil {
			if client.IsUnreachable(err) {
				return fmt.Errorf("%s", client.UnreachableMessage)
			}
			return err
		}

		fmt.Printf("服务地址:   %s\n", c.BaseURL())
		fmt.Printf("状态:       在线\n")
		fmt.Printf("版本:       %s\n", health.Version)
		fmt.Printf("环境:       %s\n", health.Environment)
		fmt.Printf("AI增强:     %s\n", enabledText(health.AIEnabled))
		return nil
	},
}

func enabledText(on bool) string {
	if on {
		return "已启用"
	}
	return "未启用"
}
