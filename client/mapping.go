/*
 * @module client/mapping
 * @description 有序列名映射，保留服务端JSON对象中原始列到现代化列的插入顺序
 * @architecture 值对象 - 自定义JSON编解码保证顺序往返一致
 * @documentReference ai_docs/modernize_api_contract.md
 * @stateFlow JSON对象 -> 按token流解码 -> 有序键值对 -> 按原顺序编码
 * @rules 映射的键恰好是转换前的原始表头，值恰好是现代化后的列名
 * @dependencies encoding/json, bytes, fmt
 * @refs client/types.go, service/analysis/aggregator.go
 */

package client

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ColumnRename 单个列名映射项
type ColumnRename struct {
	Original string
	Modern   string
}

// ColumnMapping 有序的原始列名到现代化列名映射
// Go的map不保留插入顺序，这里用切片承载并自定义编解码
type ColumnMapping []ColumnRename

// Modern 按顺序返回全部现代化列名
func (m ColumnMapping) Modern() []string {
	out := make([]string, 0, len(m))
	for _, r := range m {
		out = append(out, r.Modern)
	}
	return out
}

// Original 按顺序返回全部原始列名
func (m ColumnMapping) Original() []string {
	out := make([]string, 0, len(m))
	for _, r := range m {
		out = append(out, r.Original)
	}
	return out
}

// Lookup 查找原始列名对应的现代化列名
func (m ColumnMapping) Lookup(original string) (string, bool) {
	for _, r := range m {
		if r.Original == original {
			return r.Modern, true
		}
	}
	return "", false
}

// MarshalJSON 按插入顺序编码为JSON对象
func (m ColumnMapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(r.Original)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.Modern)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON 按token流解码，保留JSON对象中键的出现顺序
func (m *ColumnMapping) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("解码列名映射失败: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("列名映射必须是JSON对象")
	}

	out := make(ColumnMapping, 0)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("解码列名映射键失败: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("列名映射键类型错误: %v", keyTok)
		}

		var val string
		if err := dec.Decode(&val); err != nil {
			return fmt.Errorf("解码列名 %q 的映射值失败: %w", key, err)
		}
		out = append(out, ColumnRename{Original: key, Modern: val})
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("解码列名映射结尾失败: %w", err)
	}

	*m = out
	return nil
}
