/*
 * @module cmd/sample
 * @description sample子命令，列出或获取内置的AS/400样例数据
 * @architecture 命令模式
 * @documentReference ai_docs/modernize_workflow.md
 * @stateFlow 无参数时列出类型 -> 指定类型时拉取样例 -> 输出或落盘
 * @rules 样例内容从服务端获取，保证与远端版本一致
 * @dependencies github.com/spf13/cobra, modernize-client/client
 * @refs client/modernize_client.go, testutil/samples.go
 */

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"modernize-client/client"
)

var sampleOut string

var sampleCmd = &cobra.Command{
	Use:   "sample [kind]",
	Short: "列出或获取AS/400样例数据",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			fmt.Printf("可用样例类型: %s\n", strings.Join(client.SampleKinds, ", "))
			return nil
		}

		kind := args[0]
		if !client.ValidSampleKind(kind) {
			return fmt.Errorf("未知的样例类型 %q，可用类型: %s", kind, strings.Join(client.SampleKinds, ", "))
		}

		sample, err := newClient().SampleData(cmd.Context(), kind)
		if err != nil {
			if client.IsUnreachable(err) {
				return fmt.Errorf("%s", client.UnreachableMessage)
			}
			return err
		}

		if sampleOut != "" {
			if err := os.WriteFile(sampleOut, []byte(sample.Data), 0o644); err != nil {
				return fmt.Errorf("写入样例文件失败: %w", err)
			}
			fmt.Printf("已写入 %s (%d 条记录)\n", sampleOut, sample.RecordCount)
			return nil
		}

		fmt.Printf("# %s\n", sample.Description)
		if sample.TypicalUse != "" {
			fmt.Printf("# 典型用途: %s\n", sample.TypicalUse)
		}
		fmt.Println(sample.Data)
		return nil
	},
}

func init() {
	sampleCmd.Flags().StringVar(&sampleOut, "out", "", "把样例CSV写入文件")
}
