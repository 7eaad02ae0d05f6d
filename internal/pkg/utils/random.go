/*
 * @Description: 随机串生成
 * @Author: 安知鱼
 * @Date: 2025-06-15 12:25:50
 * @LastEditTime: 2025-10-13 09:41:30
 * @LastEditors: 安知鱼
 */
package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// sessionTokenBytes 32 字节随机数，RawURL 编码后恰好 43 个字符
const sessionTokenBytes = 32

// GenerateRandomString 生成指定长度的 URL 安全随机串
func GenerateRandomString(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid random string length: %d", length)
	}
	// 每 3 字节编码为 4 个字符，多取一些再截断
	buf := make([]byte, length*3/4+3)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf)[:length], nil
}

// NewSessionToken 生成会话令牌，可以直接放进 Cookie
func NewSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("生成会话令牌失败: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
