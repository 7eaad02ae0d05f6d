// internal/infra/storage/aws_s3.go
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// AWSS3Provider 兼容 S3 协议的对象存储（AWS、MinIO、R2 等）
type AWSS3Provider struct {
	client *s3.Client
	bucket string
	// publicBase 为空时按 endpoint/bucket 拼接
	publicBase string
}

func NewAWSS3Provider(ctx context.Context, s Settings) (*AWSS3Provider, error) {
	if err := requireFields("AWS S3", map[string]string{
		"Bucket": s.Bucket, "AccessKey": s.AccessKey, "SecretKey": s.SecretKey,
	}); err != nil {
		return nil, err
	}
	region := s.Region
	if region == "" {
		region = "us-east-1"
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s.AccessKey, s.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("加载AWS配置失败: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if s.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicBase := s.BaseURL
	if publicBase == "" {
		if s.Endpoint != "" {
			publicBase = joinURL(s.Endpoint, s.Bucket)
		} else {
			publicBase = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", s.Bucket, region)
		}
	}

	log.Printf("[AWS S3] 客户端初始化完成: bucket=%s, region=%s", s.Bucket, region)
	return &AWSS3Provider{client: client, bucket: s.Bucket, publicBase: publicBase}, nil
}

func (p *AWSS3Provider) Upload(ctx context.Context, r io.Reader, key, contentType string) (*UploadResult, error) {
	// PutObject 需要明确的 ContentLength
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("读取上传内容失败: %w", err)
	}

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(content),
		ContentLength: aws.Int64(int64(len(content))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		log.Printf("[AWS S3] 上传失败: key=%s, err=%v", key, err)
		return nil, fmt.Errorf("上传文件到S3失败: %w", err)
	}

	log.Printf("[AWS S3] 上传成功: key=%s", key)
	return &UploadResult{Key: key, URL: joinURL(p.publicBase, key), Size: int64(len(content))}, nil
}

func (p *AWSS3Provider) Delete(ctx context.Context, key string) error {
	_, err := p.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("删除S3对象失败: %w", err)
	}
	return nil
}
