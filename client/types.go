/*
 * @module client/types
 * @description 现代化服务的数据模型定义，包含上传请求、处理结果、健康状态等结构
 * @architecture 数据传输对象 - 在传输层边界把松散的JSON解析为严格类型
 * @documentReference ai_docs/modernize_api_contract.md
 * @stateFlow 服务端响应 -> JSON解码 -> 严格校验 -> 不可变结果对象
 * @rules 所有服务端返回的数据必须通过Validate校验后才能进入工作流状态
 * @dependencies encoding/json, fmt, strings
 * @refs client/modernize_client.go, service/workflow/controller.go
 */

package client

import (
	"fmt"
	"strings"
)

// TargetDatabase 目标数据库类型
type TargetDatabase string

const (
	TargetPostgres TargetDatabase = "postgres"
	TargetMySQL    TargetDatabase = "mysql"
	TargetSQLite   TargetDatabase = "sqlite"
	TargetMongoDB  TargetDatabase = "mongodb"
)

// Valid 判断目标数据库类型是否合法
func (t TargetDatabase) Valid() bool {
	switch t {
	case TargetPostgres, TargetMySQL, TargetSQLite, TargetMongoDB:
		return true
	}
	return false
}

// ExportFormat 导出格式
type ExportFormat string

const (
	// ExportStandard 标准处理，仅返回现代化后的表格
	ExportStandard ExportFormat = "standard"
	// ExportJSONWithMetadata 附带完整元数据的JSON导出
	ExportJSONWithMetadata ExportFormat = "jsonWithMetadata"
)

// wireValue 转换为服务端multipart字段值
func (f ExportFormat) wireValue() string {
	if f == ExportJSONWithMetadata {
		return "json"
	}
	return "pandas"
}

// UploadRequest 文件上传请求
type UploadRequest struct {
	FileName       string         `json:"file_name"`
	FileSize       int64          `json:"file_size"`
	MimeType       string         `json:"mime_type"`
	Content        []byte         `json:"-"`
	TargetDatabase TargetDatabase `json:"target_db"`
	TableName      string         `json:"table_name"`
	ExportFormat   ExportFormat   `json:"export_format"`
}

// Validate 校验上传请求的本地约束
// 文件大小上限由服务端强制，客户端只检查必填项
func (r *UploadRequest) Validate() error {
	if r == nil || len(r.Content) == 0 {
		return fmt.Errorf("未选择文件或文件内容为空")
	}
	if strings.TrimSpace(r.TableName) == "" {
		return fmt.Errorf("表名不能为空")
	}
	if !r.TargetDatabase.Valid() {
		return fmt.Errorf("不支持的目标数据库类型: %s", r.TargetDatabase)
	}
	if r.ExportFormat != ExportStandard && r.ExportFormat != ExportJSONWithMetadata {
		return fmt.Errorf("不支持的导出格式: %s", r.ExportFormat)
	}
	return nil
}

// HealthStatus 服务健康状态，每次重新获取，不与旧数据合并
type HealthStatus struct {
	Online      bool            `json:"online"`
	AIEnabled   bool            `json:"ai_enabled"`
	Version     string          `json:"version"`
	Environment string          `json:"environment"`
	Features    map[string]bool `json:"features,omitempty"`
}

// FileInfo 文件处理信息
type FileInfo struct {
	Filename            string `json:"filename"`
	SizeBytes           int64  `json:"size_bytes"`
	DetectedFormat      string `json:"detected_format"`
	RowsProcessed       int    `json:"rows_processed"`
	ColumnsProcessed    int    `json:"columns_processed"`
	AIProcessingEnabled bool   `json:"ai_processing_enabled"`
}

// DataQuality 数据质量指标
type DataQuality struct {
	QualityScore     float64        `json:"quality_score"`
	TotalRows        int            `json:"total_rows"`
	MissingValues    map[string]int `json:"missing_values"`
	MemoryUsageBytes int64          `json:"memory_usage"`
}

// ColumnStatistic 单列统计信息
type ColumnStatistic struct {
	Name           string  `json:"name"`
	Dtype          string  `json:"dtype"`
	UniqueCount    int     `json:"unique_count"`
	NullPercentage float64 `json:"null_percentage"`
}

// RecommendationType 建议类型
type RecommendationType string

const (
	RecommendationSuccess RecommendationType = "success"
	RecommendationWarning RecommendationType = "warning"
	RecommendationInfo    RecommendationType = "info"
	RecommendationError   RecommendationType = "error"
)

// Recommendation 数据改进建议
type Recommendation struct {
	Type    RecommendationType `json:"type"`
	Title   string             `json:"title"`
	Message string             `json:"message"`
	Action  string             `json:"action,omitempty"`
}

// TableRow 现代化后的表格行，键为现代化列名
type TableRow map[string]any

// SampleData 样例数据
type SampleData struct {
	Description string   `json:"description"`
	Data        string   `json:"data"`
	Columns     []string `json:"columns"`
	RecordCount int      `json:"record_count"`
	TypicalUse  string   `json:"typical_use,omitempty"`
}

// SampleKinds 可用的样例数据类型
var SampleKinds = []string{"customer", "employee", "inventory", "transactions", "orders", "vendors"}

// ValidSampleKind 判断样例类型是否存在
func ValidSampleKind(kind string) bool {
	for _, k := range SampleKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// ModernizationResult 一次现代化处理的完整结果
// 由服务端按请求原子生成，在被新请求取代或工作流重置前保持不可变
type ModernizationResult struct {
	FileInfo         FileInfo                   `json:"file_info"`
	ModernizedTable  []TableRow                 `json:"modernized_table"`
	Mapping          ColumnMapping              `json:"mapping"`
	DataQuality      DataQuality                `json:"data_quality"`
	ColumnStatistics map[string]ColumnStatistic `json:"column_statistics"`
	Recommendations  []Recommendation           `json:"recommendations"`
	SQLSchema        string                     `json:"sql_schema,omitempty"`
	ServiceCode      string                     `json:"rest_api_code,omitempty"`
	DockerConfig     string                     `json:"docker_config,omitempty"`
	JSONExport       map[string]any             `json:"json_export,omitempty"`
	ProcessingTime   float64                    `json:"processing_time"`
}

// Validate 校验结果的结构不变量
// mapping的值集合必须覆盖表格行的全部键，列统计必须与现代化列名对应
func (r *ModernizationResult) Validate() error {
	if r == nil {
		return fmt.Errorf("结果为空")
	}
	modern := make(map[string]bool, len(r.Mapping))
	for _, m := range r.Mapping {
		if m.Original == "" || m.Modern == "" {
			return fmt.Errorf("列名映射包含空项: %q -> %q", m.Original, m.Modern)
		}
		modern[m.Modern] = true
	}
	for i, row := range r.ModernizedTable {
		for key := range row {
			if !modern[key] {
				return fmt.Errorf("第 %d 行包含未映射的列: %s", i+1, key)
			}
		}
	}
	for col := range r.ColumnStatistics {
		if !modern[col] {
			return fmt.Errorf("列统计包含未映射的列: %s", col)
		}
	}
	if r.DataQuality.QualityScore < 0 || r.DataQuality.QualityScore > 100 {
		return fmt.Errorf("质量评分超出范围: %.2f", r.DataQuality.QualityScore)
	}
	return nil
}
