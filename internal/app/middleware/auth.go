// internal/app/middleware/auth.go
package middleware

import (
	"log"
	"net/http"

	"github.com/anzhiyu-c/boganto-blog/internal/pkg/auth"
	"github.com/anzhiyu-c/boganto-blog/pkg/response"
	service_auth "github.com/anzhiyu-c/boganto-blog/pkg/service/auth"

	"github.com/gin-gonic/gin"
)

const msgAuthRequired = "Authentication required"

type Middleware struct {
	authSvc service_auth.AuthService
	cookie  auth.CookieOptions
}

func NewMiddleware(authSvc service_auth.AuthService, cookie auth.CookieOptions) *Middleware {
	return &Middleware{authSvc: authSvc, cookie: cookie}
}

// RequireAuthenticated 要求请求携带有效会话，所有后台写操作都挂在它后面
func (m *Middleware) RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.TokenFromRequest(c, m.cookie)
		if token == "" {
			response.AuthFail(c, http.StatusUnauthorized, msgAuthRequired)
			c.Abort()
			return
		}

		status, err := m.authSvc.CheckStatus(c.Request.Context(), token)
		if err != nil {
			log.Printf("[RequireAuthenticated] 会话检查失败: %v", err)
			response.AuthFail(c, http.StatusUnauthorized, msgAuthRequired)
			c.Abort()
			return
		}
		if !status.LoggedIn {
			// 会话已过期或已退出，顺便清掉浏览器里的 Cookie
			auth.ClearSessionCookie(c, m.cookie)
			response.AuthFail(c, http.StatusUnauthorized, msgAuthRequired)
			c.Abort()
			return
		}

		c.Set(auth.SessionKey, status)
		c.Next()
	}
}
