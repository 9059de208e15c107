/*
 * @module service/analysis/aggregator
 * @description 结果聚合器，从原始现代化结果推导质量评分档位、缺失值合计、类型分布等展示指标
 * @architecture 纯函数转换 - 输入不可变结果，输出完全派生的聚合视图，可在每次渲染时重算
 * @documentReference ai_docs/modernize_workflow.md
 * @stateFlow ModernizationResult -> 列级档位划分 -> 分布统计 -> AggregatedView
 * @rules 空值率档位与质量评分档位使用不同阈值，互不混用；类型归类按固定子串优先级，首个命中生效
 * @dependencies fmt, sort, strings, modernize-client/client
 * @refs client/types.go, service/views/views.go
 */

package analysis

import (
	"fmt"
	"sort"
	"strings"

	"modernize-client/client"
)

// QualityTier 列空值率档位
type QualityTier string

const (
	TierExcellent QualityTier = "excellent"
	TierGood      QualityTier = "good"
	TierPoor      QualityTier = "poor"
)

// TypeBucket 列类型归类
type TypeBucket string

const (
	BucketInteger  TypeBucket = "integer"
	BucketFloat    TypeBucket = "float"
	BucketDateTime TypeBucket = "datetime"
	BucketString   TypeBucket = "string"
)

// ScoreBand 整体质量评分展示档位，与空值率档位是两套独立阈值
type ScoreBand string

const (
	BandSuccess ScoreBand = "success"
	BandWarning ScoreBand = "warning"
	BandError   ScoreBand = "error"
)

// ColumnQuality 单列的聚合信息
type ColumnQuality struct {
	Name           string      `json:"name"`
	Dtype          string      `json:"dtype"`
	UniqueCount    int         `json:"unique_count"`
	NullPercentage float64     `json:"null_percentage"`
	MissingCount   int         `json:"missing_count"`
	Tier           QualityTier `json:"tier"`
	Bucket         TypeBucket  `json:"bucket"`
}

// AggregatedView 完全派生的聚合视图
// 输入规模受展示行数限制，重算开销很小，不做缓存
type AggregatedView struct {
	RowsProcessed    int     `json:"rows_processed"`
	ColumnsProcessed int     `json:"columns_processed"`
	QualityScore     float64 `json:"quality_score"`

	Band         ScoreBand `json:"band"`
	TotalMissing int       `json:"total_missing"`

	MemoryUsageBytes int64  `json:"memory_usage_bytes"`
	MemoryUsageHuman string `json:"memory_usage_human"`

	Columns          []ColumnQuality         `json:"columns"`
	TierDistribution map[QualityTier]int     `json:"tier_distribution"`
	TypeDistribution map[TypeBucket]int      `json:"type_distribution"`
	Recommendations  []client.Recommendation `json:"recommendations"`

	ProcessingTime float64 `json:"processing_time"`
}

// TierFor 按空值率划分档位
// 下界闭、上界开：恰好5归为good，恰好20归为poor
func TierFor(nullPercentage float64) QualityTier {
	switch {
	case nullPercentage < 5:
		return TierExcellent
	case nullPercentage < 20:
		return TierGood
	default:
		return TierPoor
	}
}

// BucketFor 按dtype子串归类，优先级固定：int > float > datetime，其余归为string
// 同时含"int"与"datetime"的假想dtype归为integer，这是已知的简化而非缺陷
func BucketFor(dtype string) TypeBucket {
	lower := strings.ToLower(dtype)
	switch {
	case strings.Contains(lower, "int"):
		return BucketInteger
	case strings.Contains(lower, "float"):
		return BucketFloat
	case strings.Contains(lower, "datetime"):
		return BucketDateTime
	default:
		return BucketString
	}
}

// BandFor 按整体质量评分选择展示档位
func BandFor(score float64) ScoreBand {
	switch {
	case score >= 90:
		return BandSuccess
	case score >= 70:
		return BandWarning
	default:
		return BandError
	}
}

// Aggregate 从原始结果推导聚合视图，不修改输入
func Aggregate(result *client.ModernizationResult) *AggregatedView {
	if result == nil {
		return nil
	}

	view := &AggregatedView{
		RowsProcessed:    result.FileInfo.RowsProcessed,
		ColumnsProcessed: result.FileInfo.ColumnsProcessed,
		QualityScore:     result.DataQuality.QualityScore,
		Band:             BandFor(result.DataQuality.QualityScore),
		MemoryUsageBytes: result.DataQuality.MemoryUsageBytes,
		MemoryUsageHuman: humanBytes(result.DataQuality.MemoryUsageBytes),
		TierDistribution: make(map[QualityTier]int),
		TypeDistribution: make(map[TypeBucket]int),
		Recommendations:  result.Recommendations,
		ProcessingTime:   result.ProcessingTime,
	}

	for _, count := range result.DataQuality.MissingValues {
		view.TotalMissing += count
	}

	for _, name := range orderedColumns(result) {
		stat, ok := result.ColumnStatistics[name]
		if !ok {
			continue
		}
		col := ColumnQuality{
			Name:           stat.Name,
			Dtype:          stat.Dtype,
			UniqueCount:    stat.UniqueCount,
			NullPercentage: stat.NullPercentage,
			MissingCount:   result.DataQuality.MissingValues[name],
			Tier:           TierFor(stat.NullPercentage),
			Bucket:         BucketFor(stat.Dtype),
		}
		view.Columns = append(view.Columns, col)
		view.TierDistribution[col.Tier]++
		view.TypeDistribution[col.Bucket]++
	}

	return view
}

// orderedColumns 列顺序以现代化列名映射为准，映射外的统计列按名称排序追加
func orderedColumns(result *client.ModernizationResult) []string {
	seen := make(map[string]bool)
	order := make([]string, 0, len(result.ColumnStatistics))

	for _, name := range result.Mapping.Modern() {
		if _, ok := result.ColumnStatistics[name]; ok && !seen[name] {
			order = append(order, name)
			seen[name] = true
		}
	}

	var extra []string
	for name := range result.ColumnStatistics {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(order, extra...)
}

// humanBytes 把字节数格式化为可读字符串
func humanBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.2f MB", float64(n)/float64(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.2f KB", float64(n)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
