/*
 * @module cmd/export
 * @description export子命令，把遗留CSV直接转换为自包含的JSON导出包
 * @architecture 命令模式
 * @documentReference ai_docs/modernize_workflow.md
 * @stateFlow 读文件 -> 服务端导出 -> 序列化落盘
 * @rules 输出文件名按源文件名派生，避免覆盖源文件
 * @dependencies encoding/json, github.com/spf13/cobra, modernize-client/client, modernize-client/service/export
 * @refs service/export/builder.go
 */

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"modernize-client/client"
	"modernize-client/service/export"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "把遗留CSV导出为自包含JSON包",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("读取文件失败: %w", err)
		}

		fileName := filepath.Base(args[0])
		bundle, err := newClient().ExportJSON(cmd.Context(), fileName, content)
		if err != nil {
			if client.IsUnreachable(err) {
				return fmt.Errorf("%s", client.UnreachableMessage)
			}
			return err
		}

		data, err := json.MarshalIndent(bundle, "", "  ")
		if err != nil {
			return fmt.Errorf("序列化导出内容失败: %w", err)
		}

		out := exportOut
		if out == "" {
			out = export.BaseExportName(fileName)
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("写入导出文件失败: %w", err)
		}
		fmt.Printf("已写入 %s (%d 字节)\n", out, len(data))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "输出文件路径，默认按源文件名派生")
}
