package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// DefaultCookieName 未配置时使用的会话 Cookie 名
const DefaultCookieName = "BOGANTO_SESSION"

func (o CookieOptions) name() string {
	if strings.TrimSpace(o.Name) == "" {
		return DefaultCookieName
	}
	return o.Name
}

// TokenFromRequest 读取会话令牌，没有 Cookie 时返回空串
func TokenFromRequest(c *gin.Context, o CookieOptions) string {
	token, err := c.Cookie(o.name())
	if err != nil {
		return ""
	}
	return token
}

// SetSessionCookie 写入 HttpOnly 会话 Cookie，有效期与会话一致
func SetSessionCookie(c *gin.Context, o CookieOptions, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(o.name(), token, int(o.Lifetime.Seconds()), "/", o.Domain, o.Secure, true)
}

// ClearSessionCookie 让浏览器立即删除会话 Cookie
func ClearSessionCookie(c *gin.Context, o CookieOptions) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(o.name(), "", -1, "/", o.Domain, o.Secure, true)
}
