/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-08-08 16:10:53
 * @LastEditTime: 2025-10-12 16:02:31
 * @LastEditors: 安知鱼
 */
package strutil

import "unicode/utf8"

// Truncate 安全地将UTF-8字符串截断到指定的长度，并在需要时添加省略号。
func Truncate(s string, maxLength int) string {
	if utf8.RuneCountInString(s) <= maxLength {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLength]) + "..."
}

// Excerpt 取前 maxLength 个字符作为摘要，并且总是追加省略号，
// 与旧版前端展示摘要时的约定保持一致
func Excerpt(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) > maxLength {
		runes = runes[:maxLength]
	}
	return string(runes) + "..."
}
