/*
 * @Description: 定义了所有存储驱动需要遵守的接口和公共结构
 * @Author: 安知鱼
 * @Date: 2025-06-28 00:21:55
 * @LastEditTime: 2025-10-14 10:12:07
 * @LastEditors: 安知鱼
 */
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/anzhiyu-c/boganto-blog/pkg/config"
)

// 支持的存储驱动
const (
	DriverLocal      = "local"
	DriverAWSS3      = "aws_s3"
	DriverAliyunOSS  = "aliyun_oss"
	DriverTencentCOS = "tencent_cos"
	DriverQiniuKodo  = "qiniu_kodo"
)

// ErrUnsupportedDriver 配置了未知的存储驱动
var ErrUnsupportedDriver = errors.New("unsupported storage driver")

// UploadResult 上传成功后返回的信息
type UploadResult struct {
	// Key 是对象在存储中的路径，例如 blog/2025/10/xxx.jpg
	Key string
	// URL 是写入数据库、返回给前端的公开地址
	URL  string
	Size int64
}

// Settings 存储驱动所需的全部配置
type Settings struct {
	Driver    string
	Dir       string
	URLPrefix string
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	BaseURL   string
}

// IStorageProvider 存储驱动接口
type IStorageProvider interface {
	// Upload 将内容写入 key，返回公开访问地址
	Upload(ctx context.Context, r io.Reader, key, contentType string) (*UploadResult, error)
	// Delete 删除对象，对象不存在时不报错
	Delete(ctx context.Context, key string) error
}

// SettingsFromConfig 从全局配置读取存储设置
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Driver:    strings.ToLower(strings.TrimSpace(cfg.GetString(config.KeyUploadDriver))),
		Dir:       cfg.GetString(config.KeyUploadDir),
		URLPrefix: cfg.GetString(config.KeyUploadURLPrefix),
		Bucket:    cfg.GetString(config.KeyUploadBucket),
		Endpoint:  cfg.GetString(config.KeyUploadEndpoint),
		Region:    cfg.GetString(config.KeyUploadRegion),
		AccessKey: cfg.GetString(config.KeyUploadAccessKey),
		SecretKey: cfg.GetString(config.KeyUploadSecretKey),
		BaseURL:   cfg.GetString(config.KeyUploadBaseURL),
	}
}

// NewProvider 根据驱动名创建存储驱动
func NewProvider(ctx context.Context, s Settings) (IStorageProvider, error) {
	switch s.Driver {
	case "", DriverLocal:
		return NewLocalProvider(s.Dir, s.URLPrefix)
	case DriverAWSS3, "s3":
		return NewAWSS3Provider(ctx, s)
	case DriverAliyunOSS, "oss":
		return NewAliyunOSSProvider(s)
	case DriverTencentCOS, "cos":
		return NewTencentCOSProvider(s)
	case DriverQiniuKodo, "qiniu":
		return NewQiniuKodoProvider(s)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, s.Driver)
	}
}

// joinURL 拼接公开地址，保证中间只有一个斜杠
func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}

func requireFields(driver string, fields map[string]string) error {
	var missing []string
	for name, v := range fields {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s 存储缺少配置: %s", driver, strings.Join(missing, ", "))
	}
	return nil
}
