/*
 * @module service/views/views
 * @description 展示视图构建，把聚合视图转换为摘要卡片、分布列表、建议列表和表格预览等展示载荷
 * @architecture 纯函数转换 - 展示载荷完全由聚合状态决定，不持有任何可变状态
 * @documentReference ai_docs/modernize_workflow.md
 * @stateFlow AggregatedView/ModernizationResult -> 纯函数 -> 展示载荷
 * @rules 视图层不做业务判断，档位与颜色语义全部来自聚合层
 * @dependencies fmt, github.com/spf13/cast, modernize-client/client, modernize-client/service/analysis
 * @refs service/analysis/aggregator.go, cmd/modernize.go
 */

package views

import (
	"fmt"

	"github.com/spf13/cast"

	"modernize-client/client"
	"modernize-client/service/analysis"
)

// SummaryCard 结果摘要卡片
type SummaryCard struct {
	Rows           int     `json:"rows"`
	Columns        int     `json:"columns"`
	QualityScore   float64 `json:"quality_score"`
	Band           string  `json:"band"`
	TotalMissing   int     `json:"total_missing"`
	MemoryUsage    string  `json:"memory_usage"`
	ProcessingTime string  `json:"processing_time"`
}

// Summary 构建摘要卡片
func Summary(view *analysis.AggregatedView) SummaryCard {
	if view == nil {
		return SummaryCard{}
	}
	return SummaryCard{
		Rows:           view.RowsProcessed,
		Columns:        view.ColumnsProcessed,
		QualityScore:   view.QualityScore,
		Band:           string(view.Band),
		TotalMissing:   view.TotalMissing,
		MemoryUsage:    view.MemoryUsageHuman,
		ProcessingTime: fmt.Sprintf("%.2f 秒", view.ProcessingTime),
	}
}

// DistributionEntry 分布列表中的一项
type DistributionEntry struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// QualityDistribution 按固定顺序输出空值率档位分布
func QualityDistribution(view *analysis.AggregatedView) []DistributionEntry {
	if view == nil {
		return nil
	}
	order := []analysis.QualityTier{analysis.TierExcellent, analysis.TierGood, analysis.TierPoor}
	return distribution(len(view.Columns), func(out *[]DistributionEntry) {
		for _, tier := range order {
			*out = append(*out, DistributionEntry{Label: string(tier), Count: view.TierDistribution[tier]})
		}
	})
}

// TypeDistribution 按固定顺序输出类型分布
func TypeDistribution(view *analysis.AggregatedView) []DistributionEntry {
	if view == nil {
		return nil
	}
	order := []analysis.TypeBucket{analysis.BucketInteger, analysis.BucketFloat, analysis.BucketDateTime, analysis.BucketString}
	return distribution(len(view.Columns), func(out *[]DistributionEntry) {
		for _, bucket := range order {
			*out = append(*out, DistributionEntry{Label: string(bucket), Count: view.TypeDistribution[bucket]})
		}
	})
}

func distribution(total int, fill func(*[]DistributionEntry)) []DistributionEntry {
	var out []DistributionEntry
	fill(&out)
	for i := range out {
		if total > 0 {
			out[i].Percent = float64(out[i].Count) / float64(total) * 100
		}
	}
	return out
}

// RecommendationItem 带展示档位的建议项
type RecommendationItem struct {
	Severity string `json:"severity"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Action   string `json:"action,omitempty"`
}

// Recommendations 转换建议列表，error与warning映射到对应档位，其余按信息展示
func Recommendations(view *analysis.AggregatedView) []RecommendationItem {
	if view == nil {
		return nil
	}
	out := make([]RecommendationItem, 0, len(view.Recommendations))
	for _, rec := range view.Recommendations {
		severity := "info"
		switch rec.Type {
		case client.RecommendationError:
			severity = "error"
		case client.RecommendationWarning:
			severity = "warning"
		case client.RecommendationSuccess:
			severity = "success"
		}
		out = append(out, RecommendationItem{
			Severity: severity,
			Title:    rec.Title,
			Message:  rec.Message,
			Action:   rec.Action,
		})
	}
	return out
}

// StatRow 列统计表格的一行
type StatRow struct {
	Name           string `json:"name"`
	Dtype          string `json:"dtype"`
	Bucket         string `json:"bucket"`
	UniqueCount    string `json:"unique_count"`
	NullPercentage string `json:"null_percentage"`
	Tier           string `json:"tier"`
}

// ColumnTable 构建列统计表格行
func ColumnTable(view *analysis.AggregatedView) []StatRow {
	if view == nil {
		return nil
	}
	rows := make([]StatRow, 0, len(view.Columns))
	for _, col := range view.Columns {
		rows = append(rows, StatRow{
			Name:           col.Name,
			Dtype:          col.Dtype,
			Bucket:         string(col.Bucket),
			UniqueCount:    cast.ToString(col.UniqueCount),
			NullPercentage: fmt.Sprintf("%.2f%%", col.NullPercentage),
			Tier:           string(col.Tier),
		})
	}
	return rows
}

// PreviewTable 现代化表格的预览载荷：表头按映射顺序，单元格统一转为字符串
type PreviewTable struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Preview 构建表格预览，最多取limit行，limit<=0表示不限制
func Preview(result *client.ModernizationResult, limit int) PreviewTable {
	if result == nil {
		return PreviewTable{}
	}

	headers := result.Mapping.Modern()
	table := PreviewTable{Headers: headers}

	for i, row := range result.ModernizedTable {
		if limit > 0 && i >= limit {
			break
		}
		cells := make([]string, 0, len(headers))
		for _, h := range headers {
			// 服务端JSON里数值、布尔等松散类型统一转为展示字符串
			cells = append(cells, cast.ToString(row[h]))
		}
		table.Rows = append(table.Rows, cells)
	}
	return table
}
