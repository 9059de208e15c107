/*
 * @module service/export/builder
 * @description 导出构建器，把现代化结果打包为可下载的JSON导出包和生成的代码产物文件
 * @architecture 纯函数构建 - 不修改源结果，同一输入多次导出逐字节一致
 * @documentReference ai_docs/modernize_workflow.md
 * @stateFlow ModernizationResult -> 序列化/产物收集 -> 命名 -> 字节流
 * @rules 服务端提供的json_export优先原样使用；内容为空的产物从导出集合中剔除而不是生成空文件
 * @dependencies encoding/json, fmt, path/filepath, strings, modernize-client/client
 * @refs client/types.go, cmd/modernize.go
 */

package export

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"modernize-client/client"
)

// Artifact 一个可下载的导出文件
type Artifact struct {
	Name    string `json:"name"`
	Content []byte `json:"-"`
}

// BuildJSONExport 构建完整的JSON导出字节流
// 服务端已提供json_export时逐字原样序列化，否则序列化完整结果；
// 固定2空格缩进并保持键序稳定，保证重复导出可比对
func BuildJSONExport(result *client.ModernizationResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("没有可导出的结果")
	}

	var payload any = result
	if result.JSONExport != nil {
		payload = result.JSONExport
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("序列化导出内容失败: %w", err)
	}
	return data, nil
}

// JSONExportName 完整导出包的文件名
func JSONExportName(tableName string) string {
	return tableName + "_complete_export.json"
}

// BaseExportName 按源文件名派生导出包名
func BaseExportName(fileName string) string {
	base := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	if base == "" || base == "." {
		base = "export"
	}
	return base + "_export.json"
}

// BuildArtifacts 收集生成的代码产物
// 命名约定：{表名}_schema.sql、{表名}_api.py、Dockerfile；空内容的产物直接剔除
func BuildArtifacts(tableName string, result *client.ModernizationResult) []Artifact {
	if result == nil {
		return nil
	}

	var artifacts []Artifact
	add := func(name, content string) {
		if strings.TrimSpace(content) == "" {
			return
		}
		artifacts = append(artifacts, Artifact{Name: name, Content: []byte(content)})
	}

	add(tableName+"_schema.sql", result.SQLSchema)
	add(tableName+"_api.py", result.ServiceCode)
	add("Dockerfile", result.DockerConfig)
	return artifacts
}
