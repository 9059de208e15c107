/*
 * @module testutil/stub_server
 * @description 现代化服务的本地桩实现，提供与远端服务相同契约的HTTP接口，用于离线开发和端到端测试
 * @architecture RESTful API架构 - chi路由加纯内存处理，无持久化
 * @documentReference ai_docs/modernize_workflow.md
 * @stateFlow HTTP请求 -> CSV解析 -> 列名现代化/质量分析 -> JSON响应
 * @rules 响应字段与远端服务逐字段对齐；错误响应统一为{"detail": ...}结构
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render, github.com/prometheus/client_golang/prometheus/promhttp
 * @refs client/modernize_client.go, cmd/serve.go
 */

package testutil

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"modernize-client/client"
)

// StubVersion 桩服务上报的版本号
const StubVersion = "1.0.0"

// maxUploadBytes 单次上传的大小上限，与远端服务一致
const maxUploadBytes = 10 << 20

// StubServer 现代化服务的内存桩
type StubServer struct {
	router *chi.Mux
}

// NewStubServer 创建桩服务并装配全部路由
func NewStubServer() *StubServer {
	s := &StubServer{router: chi.NewRouter()}

	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(render.SetContentType(render.ContentTypeJSON))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/modernize", s.handleModernize)
		r.Post("/export/json", s.handleExportJSON)
		r.Get("/sample-data/{kind}", s.handleSampleData)
	})
	s.router.Handle("/metrics", promhttp.Handler())

	return s
}

// Router 返回可直接挂到http.Server或httptest.Server上的处理器
func (s *StubServer) Router() http.Handler {
	return s.router
}

func (s *StubServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"status":      "healthy",
		"online":      true,
		"ai_enabled":  false,
		"version":     StubVersion,
		"environment": "stub",
	})
}

func (s *StubServer) handleSampleData(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	sample, ok := sampleCatalog[kind]
	if !ok {
		renderDetail(w, r, http.StatusNotFound,
			fmt.Sprintf("Sample data type '%s' not found. Available types: %s", kind, strings.Join(client.SampleKinds, ", ")))
		return
	}
	render.JSON(w, r, sample)
}

func (s *StubServer) handleModernize(w http.ResponseWriter, r *http.Request) {
	upload, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	result, err := modernizeCSV(upload)
	if err != nil {
		renderDetail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	render.JSON(w, r, result)
}

func (s *StubServer) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	upload, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	upload.format = "json"
	result, err := modernizeCSV(upload)
	if err != nil {
		renderDetail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	render.JSON(w, r, result.JSONExport)
}

// uploadForm 已解析的上传请求
type uploadForm struct {
	fileName  string
	content   []byte
	targetDB  string
	tableName string
	format    string
}

func (s *StubServer) readUpload(w http.ResponseWriter, r *http.Request) (*uploadForm, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		renderDetail(w, r, http.StatusBadRequest, "Invalid multipart form")
		return nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		renderDetail(w, r, http.StatusBadRequest, "No file provided")
		return nil, false
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		renderDetail(w, r, http.StatusBadRequest, "Failed to read uploaded file")
		return nil, false
	}
	if len(content) > maxUploadBytes {
		renderDetail(w, r, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 10MB")
		return nil, false
	}

	form := &uploadForm{
		fileName:  header.Filename,
		content:   content,
		targetDB:  r.FormValue("target_db"),
		tableName: r.FormValue("table_name"),
		format:    r.FormValue("export_format"),
	}
	if form.targetDB == "" {
		form.targetDB = "postgresql"
	}
	if form.tableName == "" {
		form.tableName = "modernized_table"
	}
	return form, true
}

func renderDetail(w http.ResponseWriter, r *http.Request, status int, detail string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"detail": detail})
}

// modernizeCSV 对上传内容执行完整的现代化流程
func modernizeCSV(form *uploadForm) (*client.ModernizationResult, error) {
	start := time.Now()

	normalized, err := client.NormalizeLegacyText(form.content)
	if err != nil {
		return nil, fmt.Errorf("Failed to decode file encoding: %v", err)
	}
	reader := csv.NewReader(strings.NewReader(string(normalized)))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("Failed to parse CSV: %v", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("No data found in file")
	}

	headers := records[0]
	rows := records[1:]

	mapping := buildMapping(headers)
	modern := mapping.Modern()

	table := make([]client.TableRow, 0, len(rows))
	missing := make(map[string]int, len(modern))
	uniques := make([]map[string]struct{}, len(modern))
	kinds := make([]valueKind, len(modern))
	var memory int64

	for i := range modern {
		uniques[i] = make(map[string]struct{})
		missing[modern[i]] = 0
	}

	for _, record := range rows {
		row := client.TableRow{}
		for i, name := range modern {
			var cell string
			if i < len(record) {
				cell = strings.TrimSpace(record[i])
			}
			memory += int64(len(cell))
			if cell == "" {
				row[name] = nil
				missing[name]++
				continue
			}
			uniques[i][cell] = struct{}{}
			value, kind := typedValue(cell)
			kinds[i] = kinds[i].merge(kind)
			row[name] = value
		}
		table = append(table, row)
	}

	totalMissing := 0
	stats := make(map[string]client.ColumnStatistic, len(modern))
	for i, name := range modern {
		nullPct := 0.0
		if len(rows) > 0 {
			nullPct = round2(float64(missing[name]) / float64(len(rows)) * 100)
		}
		totalMissing += missing[name]
		stats[name] = client.ColumnStatistic{
			Name:           name,
			Dtype:          kinds[i].dtype(),
			UniqueCount:    len(uniques[i]),
			NullPercentage: nullPct,
		}
	}

	cells := len(rows) * len(modern)
	score := 100.0
	if cells > 0 {
		score = round2((1 - float64(totalMissing)/float64(cells)) * 100)
	}

	result := &client.ModernizationResult{
		FileInfo: client.FileInfo{
			Filename:         form.fileName,
			SizeBytes:        int64(len(form.content)),
			DetectedFormat:   "csv",
			RowsProcessed:    len(rows),
			ColumnsProcessed: len(modern),
		},
		ModernizedTable: table,
		Mapping:         mapping,
		DataQuality: client.DataQuality{
			QualityScore:     score,
			TotalRows:        len(rows),
			MissingValues:    missing,
			MemoryUsageBytes: memory,
		},
		ColumnStatistics: stats,
		Recommendations:  buildRecommendations(score, stats, len(rows)),
		SQLSchema:        buildSQLSchema(form.tableName, form.targetDB, modern, kinds),
		ServiceCode:      buildServiceCode(form.tableName),
		DockerConfig:     buildDockerConfig(form.tableName),
		ProcessingTime:   round2(time.Since(start).Seconds() + 0.01),
	}

	if form.format == "json" {
		result.JSONExport = buildJSONBundle(form.tableName, result)
	}
	return result, nil
}

// buildMapping 构建保持原始列序的映射，重名列追加序号后缀
func buildMapping(headers []string) client.ColumnMapping {
	mapping := make(client.ColumnMapping, 0, len(headers))
	seen := map[string]int{}
	for i, h := range headers {
		if strings.TrimSpace(h) == "" {
			h = fmt.Sprintf("COLUMN%d", i+1)
		}
		name := modernColumnName(h)
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s_%d", name, n)
		}
		mapping = append(mapping, client.ColumnRename{Original: h, Modern: name})
	}
	return mapping
}

// valueKind 列值类型归纳：逐格观察取最宽松的公共类型
type valueKind int

const (
	kindUnknown valueKind = iota
	kindInt
	kindFloat
	kindString
)

func (k valueKind) merge(other valueKind) valueKind {
	if other > k {
		return other
	}
	return k
}

func (k valueKind) dtype() string {
	switch k {
	case kindInt:
		return "int64"
	case kindFloat:
		return "float64"
	default:
		return "object"
	}
}

// typedValue 把CSV文本格解析为JSON友好的类型化值
// 带前导零的纯数字串视为标识符保留字符串形态
func typedValue(cell string) (any, valueKind) {
	if len(cell) > 1 && cell[0] == '0' && !strings.Contains(cell, ".") {
		return cell, kindString
	}
	if v, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return v, kindInt
	}
	if v, err := strconv.ParseFloat(cell, 64); err == nil {
		return v, kindFloat
	}
	return cell, kindString
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// buildRecommendations 按质量指标生成与远端服务同构的建议列表
func buildRecommendations(score float64, stats map[string]client.ColumnStatistic, rows int) []client.Recommendation {
	var recs []client.Recommendation

	switch {
	case score >= 90:
		recs = append(recs, client.Recommendation{
			Type:    client.RecommendationSuccess,
			Title:   "Data Quality",
			Message: fmt.Sprintf("Excellent data quality (%.2f%%)", score),
		})
	case score >= 70:
		recs = append(recs, client.Recommendation{
			Type:    client.RecommendationWarning,
			Title:   "Data Quality",
			Message: fmt.Sprintf("Good data quality (%.2f%%), some cleanup recommended", score),
			Action:  "Review columns with missing values",
		})
	default:
		recs = append(recs, client.Recommendation{
			Type:    client.RecommendationError,
			Title:   "Data Quality",
			Message: fmt.Sprintf("Poor data quality (%.2f%%)", score),
			Action:  "Clean source data before modernization",
		})
	}

	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	var keys []string
	for _, name := range names {
		stat := stats[name]
		if stat.NullPercentage > 50 {
			recs = append(recs, client.Recommendation{
				Type:    client.RecommendationWarning,
				Title:   "High Missing Data",
				Message: fmt.Sprintf("Column '%s' has %.2f%% missing values", name, stat.NullPercentage),
				Action:  "Consider imputation or removal",
			})
		}
		if rows > 0 && stat.UniqueCount == rows && stat.NullPercentage == 0 {
			keys = append(keys, name)
		}
	}

	if len(keys) > 0 {
		recs = append(recs, client.Recommendation{
			Type:    client.RecommendationSuccess,
			Title:   "Potential Primary Keys",
			Message: strings.Join(keys, ", "),
		})
	}
	return recs
}

// buildSQLSchema 生成目标数据库的建表语句
func buildSQLSchema(tableName, targetDB string, columns []string, kinds []valueKind) string {
	var b strings.Builder
	fmt.Fprintf(&b, "-- Generated schema for %s (%s)\n", tableName, targetDB)
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", tableName)

	switch targetDB {
	case "mysql":
		b.WriteString("    id INT AUTO_INCREMENT PRIMARY KEY,\n")
	case "sqlite":
		b.WriteString("    id INTEGER PRIMARY KEY AUTOINCREMENT,\n")
	default:
		b.WriteString("    id SERIAL PRIMARY KEY,\n")
	}

	for i, col := range columns {
		sqlType := "TEXT"
		switch kinds[i] {
		case kindInt:
			sqlType = "BIGINT"
		case kindFloat:
			sqlType = "NUMERIC(15,2)"
		}
		fmt.Fprintf(&b, "    %s %s", col, sqlType)
		if i < len(columns)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(");\n")
	return b.String()
}

func buildServiceCode(tableName string) string {
	return fmt.Sprintf(`# Generated REST API for %[1]s
from fastapi import FastAPI

app = FastAPI(title="%[1]s API")

@app.get("/%[1]s")
async def list_%[1]s():
    return {"table": "%[1]s", "status": "ok"}
`, tableName)
}

func buildDockerConfig(tableName string) string {
	return fmt.Sprintf(`# Container for %s API
FROM python:3.11-slim
WORKDIR /app
COPY . .
RUN pip install fastapi uvicorn
EXPOSE 8000
CMD ["uvicorn", "main:app", "--host", "0.0.0.0", "--port", "8000"]
`, tableName)
}

// buildJSONBundle 组装与远端服务json_export同构的自包含导出包
func buildJSONBundle(tableName string, result *client.ModernizationResult) map[string]any {
	return map[string]any{
		"metadata": map[string]any{
			"table_name":   tableName,
			"exported_at":  time.Now().UTC().Format(time.RFC3339),
			"row_count":    result.FileInfo.RowsProcessed,
			"column_count": result.FileInfo.ColumnsProcessed,
		},
		"schema":         result.SQLSchema,
		"column_mapping": result.Mapping,
		"data":           result.ModernizedTable,
		"statistics":     result.ColumnStatistics,
		"data_quality":   result.DataQuality,
	}
}
