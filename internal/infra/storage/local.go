// internal/infra/storage/local.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// LocalProvider 把文件保存在本地目录，由 /uploads 静态路由对外提供
type LocalProvider struct {
	baseDir   string
	urlPrefix string
}

func NewLocalProvider(baseDir, urlPrefix string) (*LocalProvider, error) {
	if strings.TrimSpace(baseDir) == "" {
		baseDir = "uploads"
	}
	if urlPrefix == "" {
		urlPrefix = "/uploads/"
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("创建上传目录失败: %w", err)
	}
	return &LocalProvider{baseDir: baseDir, urlPrefix: urlPrefix}, nil
}

// BaseDir 返回上传根目录
func (p *LocalProvider) BaseDir() string {
	return p.baseDir
}

// resolve 把 key 转换为本地路径，拒绝跳出根目录
func (p *LocalProvider) resolve(key string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(key))
	if clean == string(filepath.Separator) {
		return "", fmt.Errorf("无效的对象路径: %q", key)
	}
	return filepath.Join(p.baseDir, clean), nil
}

func (p *LocalProvider) Upload(ctx context.Context, r io.Reader, key, contentType string) (*UploadResult, error) {
	dst, err := p.resolve(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return nil, fmt.Errorf("创建目录失败: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return nil, fmt.Errorf("创建文件失败: %w", err)
	}
	n, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(dst)
		if copyErr != nil {
			return nil, fmt.Errorf("写入文件失败: %w", copyErr)
		}
		return nil, fmt.Errorf("关闭文件失败: %w", closeErr)
	}

	log.Printf("[本地存储] 已保存 %s (%d bytes, %s)", dst, n, contentType)
	return &UploadResult{Key: key, URL: joinURL(p.urlPrefix, key), Size: n}, nil
}

func (p *LocalProvider) Delete(ctx context.Context, key string) error {
	dst, err := p.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("删除文件失败: %w", err)
	}
	return nil
}
