package auth_handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/anzhiyu-c/boganto-blog/internal/pkg/auth"
	"github.com/anzhiyu-c/boganto-blog/internal/pkg/metrics"
	"github.com/anzhiyu-c/boganto-blog/pkg/constant"
	"github.com/anzhiyu-c/boganto-blog/pkg/domain/model"
	"github.com/anzhiyu-c/boganto-blog/pkg/response"
	service_auth "github.com/anzhiyu-c/boganto-blog/pkg/service/auth"
	"github.com/anzhiyu-c/boganto-blog/pkg/util"

	"github.com/gin-gonic/gin"
)

// AuthHandler 封装了所有认证相关的控制器方法
type AuthHandler struct {
	authSvc service_auth.AuthService
	cookie  auth.CookieOptions
}

// NewAuthHandler 是 AuthHandler 的构造函数，用于依赖注入
func NewAuthHandler(authSvc service_auth.AuthService, cookie auth.CookieOptions) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, cookie: cookie}
}

// LoginResponse 登录成功的响应
type LoginResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	User    *model.AdminProfile `json:"user"`
}

// StatusResponse 会话状态的响应，未登录时 user 为空并附带 message
type StatusResponse struct {
	Success  bool                   `json:"success"`
	LoggedIn bool                   `json:"logged_in"`
	User     *model.SessionUserView `json:"user,omitempty"`
	Message  string                 `json:"message,omitempty"`
}

// Login 处理管理员登录
// @Summary      管理员登录
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        body body model.LoginRequest true "用户名和口令"
// @Success      200 {object} LoginResponse
// @Failure      400 {object} response.AuthBody "请求参数错误"
// @Failure      401 {object} response.AuthBody "用户名或口令错误"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.AuthFail(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		var ve *constant.ValidationError
		switch {
		case errors.As(err, &ve):
			metrics.RecordLogin("invalid")
			response.AuthFail(c, http.StatusBadRequest, ve.Message)
		case errors.Is(err, constant.ErrUnauthorized):
			metrics.RecordLogin("failure")
			log.Printf("[Auth] 登录失败: 用户名=%q, IP=%s", req.Username, util.GetRealClientIP(c))
			response.AuthFail(c, http.StatusUnauthorized, "Invalid credentials")
		default:
			metrics.RecordLogin("error")
			response.AuthFail(c, http.StatusInternalServerError, "Login failed: "+err.Error())
		}
		return
	}

	metrics.RecordLogin("success")
	auth.SetSessionCookie(c, h.cookie, result.Token)
	response.Success(c, LoginResponse{
		Success: true,
		Message: "Login successful",
		User:    result.Profile,
	})
}

// Status 查询当前会话状态
// @Summary      会话状态
// @Tags         认证
// @Produce      json
// @Success      200 {object} StatusResponse
// @Router       /auth/login [get]
func (h *AuthHandler) Status(c *gin.Context) {
	token := auth.TokenFromRequest(c, h.cookie)
	status, err := h.authSvc.CheckStatus(c.Request.Context(), token)
	if err != nil {
		response.AuthFail(c, http.StatusInternalServerError, "Status check failed: "+err.Error())
		return
	}

	if !status.LoggedIn {
		if token != "" {
			auth.ClearSessionCookie(c, h.cookie)
		}
		response.Success(c, StatusResponse{Success: true, LoggedIn: false, Message: "Not logged in"})
		return
	}
	response.Success(c, StatusResponse{Success: true, LoggedIn: true, User: status.UserView()})
}

// Logout 销毁会话并清除 Cookie
// @Summary      退出登录
// @Tags         认证
// @Produce      json
// @Success      200 {object} response.AuthBody
// @Router       /auth/login [delete]
func (h *AuthHandler) Logout(c *gin.Context) {
	token := auth.TokenFromRequest(c, h.cookie)
	if err := h.authSvc.Logout(c.Request.Context(), token); err != nil {
		response.AuthFail(c, http.StatusInternalServerError, "Logout failed: "+err.Error())
		return
	}
	auth.ClearSessionCookie(c, h.cookie)
	response.Success(c, response.AuthBody{Success: true, Message: "Logout successful"})
}
