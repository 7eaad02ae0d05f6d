/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-08-08 16:10:36
 * @LastEditTime: 2025-10-12 16:05:12
 * @LastEditors: 安知鱼
 */
package parser

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	stripTagsPolicy *bluemonday.Policy
	strictPolicy    *bluemonday.Policy
)

func init() {
	// StripTagsPolicy 会移除所有的HTML标签
	stripTagsPolicy = bluemonday.StripTagsPolicy()
	// StrictPolicy 移除标签并转义特殊字符，用于单行文本字段
	strictPolicy = bluemonday.StrictPolicy()
}

// StripHTML 接受一个HTML字符串，返回一个去除了所有标签的纯文本字符串。
// bluemonday 会把实体转义，这里还原成普通字符，便于截取摘要
func StripHTML(htmlContent string) string {
	return html.UnescapeString(stripTagsPolicy.Sanitize(htmlContent))
}

// SanitizeText 清理标题、标签等单行文本输入：去掉首尾空白和所有标签
func SanitizeText(s string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(strings.TrimSpace(s)))
}
