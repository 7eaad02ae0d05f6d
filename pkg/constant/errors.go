/*
 * @Description: 业务错误定义
 * @Author: 安知鱼
 * @Date: 2025-06-27 12:08:15
 * @LastEditTime: 2025-10-11 21:14:02
 * @LastEditors: 安知鱼
 */
package constant

import "errors"

// 定义业务逻辑相关的标准错误
var (
	// ErrNotFound 表示资源未找到，可以由 Handler 转换为 404
	ErrNotFound = errors.New("resource not found")

	// ErrConflict 表示唯一约束冲突，由仓储层从驱动错误转换而来
	ErrConflict = errors.New("resource conflict")

	// ErrBadRequest 表示请求参数错误，可以由 Handler 转换为 400
	ErrBadRequest = errors.New("bad request")

	// ErrUnauthorized 表示未授权，可以由 Handler 转换为 401
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUpload 表示图片上传失败，可以由 Handler 转换为 400
	ErrUpload = errors.New("upload failed")

	// ErrNoFile 表示请求中没有携带文件，上传流程应直接跳过
	ErrNoFile = errors.New("no file uploaded")
)

// ValidationError 携带直接返回给客户端的提示信息
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrBadRequest }

// NewValidationError 构造一个校验错误
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// UploadError 包装上传链路中的底层错误
type UploadError struct {
	Message string
	Err     error
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Is 让 errors.Is(err, ErrUpload) 成立，同时 Unwrap 保留底层原因
func (e *UploadError) Is(target error) bool { return target == ErrUpload }

func (e *UploadError) Unwrap() error { return e.Err }

// NewUploadError 构造一个上传错误
func NewUploadError(msg string, err error) error {
	return &UploadError{Message: msg, Err: err}
}
