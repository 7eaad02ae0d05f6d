/*
 * @Description: 统一的 API 返回辅助函数，保持与旧版前端约定的响应结构
 * @Author: 安知鱼
 * @Date: 2025-06-15 12:16:18
 * @LastEditTime: 2025-10-11 22:03:47
 * @LastEditors: 安知鱼
 */
package response

import (
	"errors"
	"net/http"

	"github.com/anzhiyu-c/boganto-blog/pkg/constant"
	"github.com/gin-gonic/gin"
)

// ErrorBody 是通用错误结构：{"error": "..."}
type ErrorBody struct {
	Error string `json:"error"`
}

// AuthBody 是认证接口使用的结构：{"success": bool, "message": "..."}
type AuthBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// MessageBody 是写操作成功时的结构：{"message": "..."}
type MessageBody struct {
	Message string `json:"message"`
}

// Success 成功响应，data 原样序列化
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// SuccessWithStatus 成功响应，但允许自定义 HTTP 状态码，例如 201 Created
func SuccessWithStatus(c *gin.Context, code int, data interface{}) {
	c.JSON(code, data)
}

// Message 返回只包含 message 字段的成功响应
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageBody{Message: message})
}

// Fail 失败响应
func Fail(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorBody{Error: message})
}

// AuthFail 认证相关接口的失败响应
func AuthFail(c *gin.Context, code int, message string) {
	c.JSON(code, AuthBody{Success: false, Message: message})
}

// FromError 根据业务错误选择状态码。
// notFoundMsg 用于 ErrNotFound，其余未识别的错误按 500 返回 prefix + 原始信息
func FromError(c *gin.Context, err error, notFoundMsg, prefix string) {
	var ve *constant.ValidationError
	var ue *constant.UploadError
	switch {
	case errors.As(err, &ve):
		Fail(c, http.StatusBadRequest, ve.Message)
	case errors.As(err, &ue):
		Fail(c, http.StatusBadRequest, ue.Message)
	case errors.Is(err, constant.ErrNotFound):
		Fail(c, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, constant.ErrUnauthorized):
		Fail(c, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, constant.ErrBadRequest):
		Fail(c, http.StatusBadRequest, err.Error())
	default:
		Fail(c, http.StatusInternalServerError, prefix+err.Error())
	}
}
