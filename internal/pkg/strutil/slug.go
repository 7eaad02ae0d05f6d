package strutil

import (
	"fmt"
	"strings"
	"unicode"
)

// DefaultSlug 标题中没有任何可用字符时使用
const DefaultSlug = "post"

// Slugify 将标题转换为 URL slug：
// 转小写，只保留 [a-z0-9]、空白和连字符，空白转为连字符，合并连续连字符并去掉首尾连字符
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	lastHyphen := false
	for _, r := range strings.ToLower(title) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		case r == '-' || unicode.IsSpace(r):
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	slug := strings.TrimRight(b.String(), "-")
	if slug == "" {
		return DefaultSlug
	}
	return slug
}

// SlugCandidate 返回第 attempt 次尝试使用的 slug。
// 0 为原始 slug，1 追加 Unix 时间戳，之后在时间戳后追加序号
func SlugCandidate(base string, unix int64, attempt int) string {
	switch attempt {
	case 0:
		return base
	case 1:
		return fmt.Sprintf("%s-%d", base, unix)
	default:
		return fmt.Sprintf("%s-%d-%d", base, unix, attempt)
	}
}
