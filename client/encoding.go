/*
 * @module client/encoding
 * @description 遗留文件编码归一化，把非UTF-8的单字节编码文本转换为UTF-8后再上传
 * @architecture 预处理管道 - 上传前的唯一字节级转换步骤
 * @documentReference ai_docs/modernize_api_contract.md
 * @stateFlow 原始字节 -> UTF-8校验 -> Windows-1252解码 -> UTF-8字节
 * @rules 已经是合法UTF-8的内容原样透传，不做任何修改
 * @dependencies golang.org/x/text/encoding/charmap, unicode/utf8
 * @refs client/modernize_client.go
 */

package client

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// NormalizeLegacyText 把遗留系统导出的文本归一化为UTF-8
// AS/400等遗留系统导出的文件常见Latin-1/Windows-1252单字节编码，
// Windows-1252是Latin-1的超集，对0x80-0x9F区间也有定义，统一按其解码
func NormalizeLegacyText(raw []byte) ([]byte, error) {
	if utf8.Valid(raw) {
		return raw, nil
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("按Windows-1252解码失败: %w", err)
	}
	return decoded, nil
}
