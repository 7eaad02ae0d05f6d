// internal/infra/storage/tencent_cos.go
package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/tencentyun/cos-go-sdk-v5"
)

// TencentCOSProvider 腾讯云 COS，Endpoint 填存储桶访问域名
type TencentCOSProvider struct {
	client     *cos.Client
	publicBase string
}

func NewTencentCOSProvider(s Settings) (*TencentCOSProvider, error) {
	if err := requireFields("腾讯云COS", map[string]string{
		"Endpoint": s.Endpoint, "AccessKey": s.AccessKey, "SecretKey": s.SecretKey,
	}); err != nil {
		return nil, err
	}

	u, err := url.Parse(s.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("解析存储桶URL失败: %w", err)
	}

	client := cos.NewClient(&cos.BaseURL{BucketURL: u}, &http.Client{
		Timeout: 100 * time.Second,
		Transport: &cos.AuthorizationTransport{
			SecretID:  s.AccessKey,
			SecretKey: s.SecretKey,
		},
	})

	publicBase := s.BaseURL
	if publicBase == "" {
		publicBase = s.Endpoint
	}

	log.Printf("[腾讯云COS] 客户端初始化完成: %s", u.Host)
	return &TencentCOSProvider{client: client, publicBase: publicBase}, nil
}

func (p *TencentCOSProvider) Upload(ctx context.Context, r io.Reader, key, contentType string) (*UploadResult, error) {
	counter := &countingReader{r: r}
	opt := &cos.ObjectPutOptions{
		ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{ContentType: contentType},
	}
	if _, err := p.client.Object.Put(ctx, key, counter, opt); err != nil {
		log.Printf("[腾讯云COS] 上传失败: key=%s, err=%v", key, err)
		return nil, fmt.Errorf("上传文件到COS失败: %w", err)
	}
	log.Printf("[腾讯云COS] 上传成功: key=%s", key)
	return &UploadResult{Key: key, URL: joinURL(p.publicBase, key), Size: counter.n}, nil
}

func (p *TencentCOSProvider) Delete(ctx context.Context, key string) error {
	if _, err := p.client.Object.Delete(ctx, key); err != nil {
		return fmt.Errorf("删除COS对象失败: %w", err)
	}
	return nil
}
