// internal/infra/storage/aliyun_oss.go
package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

// AliyunOSSProvider 阿里云 OSS
type AliyunOSSProvider struct {
	bucket     *oss.Bucket
	publicBase string
}

func NewAliyunOSSProvider(s Settings) (*AliyunOSSProvider, error) {
	if err := requireFields("阿里云OSS", map[string]string{
		"Bucket": s.Bucket, "Endpoint": s.Endpoint, "AccessKey": s.AccessKey, "SecretKey": s.SecretKey,
	}); err != nil {
		return nil, err
	}

	client, err := oss.New(s.Endpoint, s.AccessKey, s.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("创建OSS客户端失败: %w", err)
	}
	bucket, err := client.Bucket(s.Bucket)
	if err != nil {
		return nil, fmt.Errorf("获取OSS存储桶失败: %w", err)
	}

	publicBase := s.BaseURL
	if publicBase == "" {
		host := strings.TrimPrefix(strings.TrimPrefix(s.Endpoint, "https://"), "http://")
		publicBase = fmt.Sprintf("https://%s.%s", s.Bucket, host)
	}

	log.Printf("[阿里云OSS] 客户端初始化完成: bucket=%s", s.Bucket)
	return &AliyunOSSProvider{bucket: bucket, publicBase: publicBase}, nil
}

func (p *AliyunOSSProvider) Upload(ctx context.Context, r io.Reader, key, contentType string) (*UploadResult, error) {
	counter := &countingReader{r: r}
	if err := p.bucket.PutObject(key, counter, oss.ContentType(contentType), oss.WithContext(ctx)); err != nil {
		log.Printf("[阿里云OSS] 上传失败: key=%s, err=%v", key, err)
		return nil, fmt.Errorf("上传文件到OSS失败: %w", err)
	}
	log.Printf("[阿里云OSS] 上传成功: key=%s", key)
	return &UploadResult{Key: key, URL: joinURL(p.publicBase, key), Size: counter.n}, nil
}

func (p *AliyunOSSProvider) Delete(ctx context.Context, key string) error {
	if err := p.bucket.DeleteObject(key, oss.WithContext(ctx)); err != nil {
		return fmt.Errorf("删除OSS对象失败: %w", err)
	}
	return nil
}

// countingReader 统计流经的字节数
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
