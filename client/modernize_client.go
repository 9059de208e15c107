/*
 * @module client/modernize_client
 * @description 现代化服务HTTP客户端，提供健康检查、文件上传转换、JSON导出和样例数据获取
 * @architecture 适配器模式 - 封装HTTP调用细节，对外暴露类型化操作
 * @documentReference ai_docs/modernize_api_contract.md
 * @stateFlow 构造请求 -> 发送 -> 状态码判断 -> 解码校验 -> 类型化结果或错误
 * @rules 只允许访问预先枚举的路由；所有错误归类为TransportError；GET操作幂等，上传不幂等
 * @dependencies net/http, mime/multipart, encoding/json, github.com/prometheus/client_golang
 * @refs client/types.go, client/errors.go, service/workflow/controller.go
 */

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"time"
)

// 预先枚举的服务路由
const (
	routeHealth     = "/api/v1/health"
	routeModernize  = "/api/v1/modernize"
	routeExportJSON = "/api/v1/export/json"
	routeSampleData = "/api/v1/sample-data/"
)

var defaultServiceURL = "http://localhost:8000"
var defaultTimeout = 30 * time.Second

func init() {
	if envURL := os.Getenv("MODERNIZE_SERVICE_URL"); envURL != "" {
		defaultServiceURL = envURL
	}
	if envTimeout := os.Getenv("MODERNIZE_TIMEOUT_SECONDS"); envTimeout != "" {
		if secs, err := strconv.Atoi(envTimeout); err == nil && secs > 0 {
			defaultTimeout = time.Duration(secs) * time.Second
		}
	}
}

// ModernizeClient 现代化服务客户端
type ModernizeClient struct {
	baseURL    string
	httpClient *http.Client
}

// Option 客户端配置选项
type Option func(*ModernizeClient)

// WithBaseURL 指定服务地址（用于测试）
func WithBaseURL(url string) Option {
	return func(c *ModernizeClient) { c.baseURL = url }
}

// WithTimeout 指定HTTP超时时间
func WithTimeout(d time.Duration) Option {
	return func(c *ModernizeClient) { c.httpClient.Timeout = d }
}

// NewModernizeClient 创建现代化服务客户端，默认配置来自环境变量
func NewModernizeClient(opts ...Option) *ModernizeClient {
	c := &ModernizeClient{
		baseURL: defaultServiceURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL 返回当前服务地址
func (c *ModernizeClient) BaseURL() string {
	return c.baseURL
}

// healthWire 健康检查响应的宽松解码结构
// 服务端同时存在 online 布尔字段和 status:"healthy" 两种写法
type healthWire struct {
	Online      bool            `json:"online"`
	Status      string          `json:"status"`
	AIEnabled   bool            `json:"ai_enabled"`
	Version     string          `json:"version"`
	Environment string          `json:"environment"`
	Features    map[string]bool `json:"features"`
}

// Health 检查服务健康状态
func (c *ModernizeClient) Health(ctx context.Context) (*HealthStatus, error) {
	var wire healthWire
	if err := c.doGet(ctx, routeHealth, &wire); err != nil {
		return nil, err
	}

	status := &HealthStatus{
		Online:      wire.Online || wire.Status == "healthy",
		AIEnabled:   wire.AIEnabled,
		Version:     wire.Version,
		Environment: wire.Environment,
		Features:    wire.Features,
	}
	return status, nil
}

// Modernize 上传文件并执行现代化转换
// 每次调用都会在服务端创建一次新的处理运行，不具备幂等性
func (c *ModernizeClient) Modernize(ctx context.Context, req *UploadRequest) (*ModernizationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	content, err := NormalizeLegacyText(req.Content)
	if err != nil {
		return nil, fmt.Errorf("转换文件编码失败: %w", err)
	}

	fields := map[string]string{
		"target_db":     string(req.TargetDatabase),
		"table_name":    req.TableName,
		"export_format": req.ExportFormat.wireValue(),
	}

	var result ModernizationResult
	if terr := c.doUpload(ctx, routeModernize, req.FileName, content, fields, &result); terr != nil {
		return nil, terr
	}

	if err := result.Validate(); err != nil {
		recordRequest(routeModernize, "malformed")
		return nil, newMalformed(err)
	}
	return &result, nil
}

// ExportJSON 上传文件并获取完整的JSON导出包
func (c *ModernizeClient) ExportJSON(ctx context.Context, fileName string, content []byte) (map[string]any, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("未选择文件或文件内容为空")
	}

	normalized, err := NormalizeLegacyText(content)
	if err != nil {
		return nil, fmt.Errorf("转换文件编码失败: %w", err)
	}

	var bundle map[string]any
	if terr := c.doUpload(ctx, routeExportJSON, fileName, normalized, nil, &bundle); terr != nil {
		return nil, terr
	}
	return bundle, nil
}

// SampleData 获取指定类型的样例数据
func (c *ModernizeClient) SampleData(ctx context.Context, kind string) (*SampleData, error) {
	if !ValidSampleKind(kind) {
		return nil, fmt.Errorf("未知的样例数据类型: %s，可用类型: %v", kind, SampleKinds)
	}

	var sample SampleData
	if err := c.doGet(ctx, routeSampleData+kind, &sample); err != nil {
		return nil, err
	}
	return &sample, nil
}

// doGet 执行GET请求并解码JSON响应
func (c *ModernizeClient) doGet(ctx context.Context, route string, out any) *TransportError {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+route, nil)
	if err != nil {
		recordRequest(route, "error")
		return newMalformed(fmt.Errorf("创建HTTP请求失败: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		recordRequest(route, "unreachable")
		return newUnreachable(err)
	}
	defer resp.Body.Close()

	return c.decodeResponse(route, resp, out)
}

// doUpload 执行multipart上传并解码JSON响应
func (c *ModernizeClient) doUpload(ctx context.Context, route, fileName string, content []byte, fields map[string]string, out any) *TransportError {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		recordRequest(route, "error")
		return newMalformed(fmt.Errorf("构造multipart请求失败: %w", err))
	}
	if _, err := part.Write(content); err != nil {
		recordRequest(route, "error")
		return newMalformed(fmt.Errorf("写入文件内容失败: %w", err))
	}
	for key, val := range fields {
		if err := writer.WriteField(key, val); err != nil {
			recordRequest(route, "error")
			return newMalformed(fmt.Errorf("写入字段 %s 失败: %w", key, err))
		}
	}
	if err := writer.Close(); err != nil {
		recordRequest(route, "error")
		return newMalformed(fmt.Errorf("完成multipart请求失败: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+route, &body)
	if err != nil {
		recordRequest(route, "error")
		return newMalformed(fmt.Errorf("创建HTTP请求失败: %w", err))
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		recordRequest(route, "unreachable")
		return newUnreachable(err)
	}
	defer resp.Body.Close()

	return c.decodeResponse(route, resp, out)
}

// decodeResponse 统一处理响应：非2xx转为请求被拒，解析失败转为响应异常
func (c *ModernizeClient) decodeResponse(route string, resp *http.Response, out any) *TransportError {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		recordRequest(route, "rejected")
		return newRejected(resp.StatusCode, c.errorMessage(resp))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		recordRequest(route, "malformed")
		return newMalformed(fmt.Errorf("读取响应体失败: %w", err))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		recordRequest(route, "malformed")
		return newMalformed(fmt.Errorf("解析响应失败: %w", err))
	}

	recordRequest(route, "success")
	return nil
}

// errorBody 服务端错误响应体，detail和message两种字段都可能出现
type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

// errorMessage 从错误响应体提取消息，缺失时回退到HTTP状态文本
func (c *ModernizeClient) errorMessage(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err == nil && len(raw) > 0 {
		var body errorBody
		if json.Unmarshal(raw, &body) == nil {
			if body.Detail != "" {
				return body.Detail
			}
			if body.Message != "" {
				return body.Message
			}
		}
	}
	return http.StatusText(resp.StatusCode)
}
