// internal/infra/storage/qiniu_kodo.go
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/qiniu/go-sdk/v7/auth"
	"github.com/qiniu/go-sdk/v7/storage"
)

// QiniuKodoProvider 七牛云 Kodo，BaseURL 必须是绑定的访问域名
type QiniuKodoProvider struct {
	mac        *auth.Credentials
	bucket     string
	cfg        *storage.Config
	publicBase string
}

func NewQiniuKodoProvider(s Settings) (*QiniuKodoProvider, error) {
	if err := requireFields("七牛云", map[string]string{
		"Bucket": s.Bucket, "AccessKey": s.AccessKey, "SecretKey": s.SecretKey, "BaseURL": s.BaseURL,
	}); err != nil {
		return nil, err
	}
	return &QiniuKodoProvider{
		mac:        auth.New(s.AccessKey, s.SecretKey),
		bucket:     s.Bucket,
		cfg:        qiniuConfig(s.Region),
		publicBase: s.BaseURL,
	}, nil
}

// qiniuConfig 按区域代码选择上传区域
// z0=华东, z1=华北, z2=华南, na0=北美, as0=东南亚
func qiniuConfig(region string) *storage.Config {
	cfg := &storage.Config{UseHTTPS: true}
	switch strings.ToLower(region) {
	case "z1":
		cfg.Region = &storage.ZoneHuabei
	case "z2":
		cfg.Region = &storage.ZoneHuanan
	case "na0":
		cfg.Region = &storage.ZoneBeimei
	case "as0":
		cfg.Region = &storage.ZoneXinjiapo
	default:
		cfg.Region = &storage.ZoneHuadong
	}
	return cfg
}

func (p *QiniuKodoProvider) Upload(ctx context.Context, r io.Reader, key, contentType string) (*UploadResult, error) {
	putPolicy := storage.PutPolicy{
		Scope: fmt.Sprintf("%s:%s", p.bucket, key),
	}
	upToken := putPolicy.UploadToken(p.mac)

	// 七牛云SDK需要知道文件大小
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("读取上传文件失败: %w", err)
	}

	formUploader := storage.NewFormUploader(p.cfg)
	ret := storage.PutRet{}
	putExtra := storage.PutExtra{MimeType: contentType}

	if err := formUploader.Put(ctx, &ret, upToken, key, bytes.NewReader(data), int64(len(data)), &putExtra); err != nil {
		log.Printf("[七牛云] 上传失败: %v", err)
		return nil, fmt.Errorf("上传文件到七牛云失败: %w", err)
	}

	log.Printf("[七牛云] 上传成功: objectKey=%s, hash=%s", key, ret.Hash)
	return &UploadResult{Key: key, URL: joinURL(p.publicBase, key), Size: int64(len(data))}, nil
}

func (p *QiniuKodoProvider) Delete(ctx context.Context, key string) error {
	bm := storage.NewBucketManager(p.mac, p.cfg)
	if err := bm.Delete(p.bucket, key); err != nil {
		return fmt.Errorf("删除七牛云对象失败: %w", err)
	}
	return nil
}
