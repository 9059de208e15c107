/*
 * @module cmd/modernize
 * @description modernize子命令，驱动完整工作流：健康检查 -> 上传 -> 结果展示 -> 产物落盘
 * @architecture 命令模式 - 命令层只驱动工作流控制器并渲染视图，不直接做业务判断
 * @documentReference ai_docs/modernize_workflow.md
 * @stateFlow 读文件 -> CheckHealth等待Ready -> Submit等待终态 -> 聚合展示 -> 可选导出
 * @rules 服务不可达时不发起上传；展示语义全部来自聚合层和视图层
 * @dependencies github.com/spf13/cobra, modernize-client/client, modernize-client/service/workflow, modernize-client/service/analysis, modernize-client/service/views, modernize-client/service/export
 * @refs service/workflow/controller.go, service/views/views.go, service/export/builder.go
 */

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"modernize-client/client"
	"modernize-client/service/analysis"
	"modernize-client/service/export"
	"modernize-client/service/views"
	"modernize-client/service/workflow"
)

var (
	modTable        string
	modTargetDB     string
	modExportFormat string
	modOutDir       string
	modPreview      int
)

var modernizeCmd = &cobra.Command{
	Use:   "modernize <file>",
	Short: "上传遗留CSV并展示现代化结果",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("读取文件失败: %w", err)
		}

		format := client.ExportStandard
		if modExportFormat == "json" {
			format = client.ExportJSONWithMetadata
		}

		req := &client.UploadRequest{
			FileName:       filepath.Base(args[0]),
			FileSize:       int64(len(content)),
			MimeType:       "text/csv",
			Content:        content,
			TargetDatabase: client.TargetDatabase(modTargetDB),
			TableName:      modTable,
			ExportFormat:   format,
		}
		if err := req.Validate(); err != nil {
			return err
		}

		state, err := runWorkflow(cmd.Context(), req)
		if err != nil {
			return err
		}

		printResult(state.Result)

		if modOutDir != "" {
			if err := writeExports(modOutDir, req.TableName, state.Result); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	modernizeCmd.Flags().StringVar(&modTable, "table", "modernized_table", "目标表名")
	modernizeCmd.Flags().StringVar(&modTargetDB, "target-db", string(client.TargetPostgres), "目标数据库 (postgres, mysql, sqlite, mongodb)")
	modernizeCmd.Flags().StringVar(&modExportFormat, "export-format", "standard", "导出格式 (standard, json)")
	modernizeCmd.Flags().StringVar(&modOutDir, "out", "", "产物输出目录，为空时不落盘")
	modernizeCmd.Flags().IntVar(&modPreview, "preview", 10, "表格预览行数，0表示全部")
}

// runWorkflow 通过工作流控制器驱动一次完整的现代化流程
func runWorkflow(ctx context.Context, req *client.UploadRequest) (workflow.State, error) {
	controller := workflow.NewController(newClient())

	changes := make(chan workflow.State, 16)
	controller.OnChange(func(s workflow.State) {
		select {
		case changes <- s:
		default:
		}
	})

	controller.CheckHealth(ctx)
	state, err := waitPhases(ctx, changes, workflow.PhaseReady, workflow.PhaseUnreachable)
	if err != nil {
		return state, err
	}
	if state.Phase == workflow.PhaseUnreachable {
		return state, fmt.Errorf("%s", client.UnreachableMessage)
	}

	if err := controller.Submit(ctx, req); err != nil {
		return state, err
	}
	state, err = waitPhases(ctx, changes, workflow.PhaseSucceeded, workflow.PhaseFailed)
	if err != nil {
		return state, err
	}
	if state.Phase == workflow.PhaseFailed {
		return state, fmt.Errorf("现代化处理失败: %s", state.LastError.Message)
	}
	return state, nil
}

func waitPhases(ctx context.Context, changes <-chan workflow.State, targets ...workflow.Phase) (workflow.State, error) {
	for {
		select {
		case <-ctx.Done():
			return workflow.State{}, ctx.Err()
		case state := <-changes:
			for _, p := range targets {
				if state.Phase == p {
					return state, nil
				}
			}
		}
	}
}

// printResult 渲染摘要、分布、建议、列统计和表格预览
func printResult(result *client.ModernizationResult) {
	view := analysis.Aggregate(result)

	card := views.Summary(view)
	fmt.Printf("\n== 处理摘要 ==\n")
	fmt.Printf("行数: %d  列数: %d  质量评分: %.2f (%s)\n", card.Rows, card.Columns, card.QualityScore, card.Band)
	fmt.Printf("缺失值: %d  内存占用: %s  处理耗时: %s\n", card.TotalMissing, card.MemoryUsage, card.ProcessingTime)

	fmt.Printf("\n== 空值率分布 ==\n")
	for _, entry := range views.QualityDistribution(view) {
		fmt.Printf("  %-10s %3d 列 (%.1f%%)\n", entry.Label, entry.Count, entry.Percent)
	}

	fmt.Printf("\n== 类型分布 ==\n")
	for _, entry := range views.TypeDistribution(view) {
		fmt.Printf("  %-10s %3d 列 (%.1f%%)\n", entry.Label, entry.Count, entry.Percent)
	}

	if items := views.Recommendations(view); len(items) > 0 {
		fmt.Printf("\n== 建议 ==\n")
		for _, item := range items {
			fmt.Printf("  [%s] %s: %s\n", item.Severity, item.Title, item.Message)
			if item.Action != "" {
				fmt.Printf("           -> %s\n", item.Action)
			}
		}
	}

	fmt.Printf("\n== 列统计 ==\n")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "列名\t类型\t唯一值\t空值率\t档位")
	for _, row := range views.ColumnTable(view) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", row.Name, row.Dtype, row.UniqueCount, row.NullPercentage, row.Tier)
	}
	w.Flush()

	preview := views.Preview(result, modPreview)
	if len(preview.Rows) > 0 {
		fmt.Printf("\n== 数据预览 ==\n")
		pw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		printTabRow(pw, preview.Headers)
		for _, row := range preview.Rows {
			printTabRow(pw, row)
		}
		pw.Flush()
	}
}

func printTabRow(w *tabwriter.Writer, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, cell)
	}
	fmt.Fprintln(w)
}

// writeExports 把JSON导出包和生成的代码产物写入输出目录
func writeExports(dir, tableName string, result *client.ModernizationResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	data, err := export.BuildJSONExport(result)
	if err != nil {
		return err
	}
	exportPath := filepath.Join(dir, export.JSONExportName(tableName))
	if err := os.WriteFile(exportPath, data, 0o644); err != nil {
		return fmt.Errorf("写入导出包失败: %w", err)
	}
	fmt.Printf("\n已写入 %s\n", exportPath)

	for _, artifact := range export.BuildArtifacts(tableName, result) {
		path := filepath.Join(dir, artifact.Name)
		if err := os.WriteFile(path, artifact.Content, 0o644); err != nil {
			return fmt.Errorf("写入产物 %s 失败: %w", artifact.Name, err)
		}
		fmt.Printf("已写入 %s\n", path)
	}
	return nil
}
