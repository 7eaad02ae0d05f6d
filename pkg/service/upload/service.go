/*
 * @Description: 文章封面图上传：校验、可选缩放、写入存储
 * @Author: 安知鱼
 * @Date: 2025-10-13 10:02:11
 * @LastEditTime: 2025-10-14 10:20:45
 * @LastEditors: 安知鱼
 */
package upload

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"net/http"
	"path"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"

	"github.com/anzhiyu-c/boganto-blog/internal/infra/storage"
	"github.com/anzhiyu-c/boganto-blog/pkg/constant"
)

// DefaultMaxBytes 默认单张图片大小上限
const DefaultMaxBytes int64 = 5 << 20

// FailMessage 上传失败时返回给客户端的提示
const FailMessage = "Failed to upload featured image"

// allowedTypes 允许的图片类型及对应扩展名
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageService 处理封面图上传
type ImageService interface {
	// UploadImage 校验并保存图片，r 为 nil 时返回 constant.ErrNoFile
	UploadImage(ctx context.Context, r io.Reader, filename string) (*storage.UploadResult, error)
	// Remove 删除已上传的图片，用于后续步骤失败时回滚
	Remove(ctx context.Context, key string) error
}

// Options 上传服务参数
type Options struct {
	MaxBytes int64
	// MaxWidth 大于 0 时，宽度超出的图片会等比缩小
	MaxWidth int

	Now   func() time.Time
	NewID func() string
}

type imageService struct {
	provider storage.IStorageProvider
	opts     Options
}

func NewImageService(provider storage.IStorageProvider, opts Options) ImageService {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.NewString() }
	}
	return &imageService{provider: provider, opts: opts}
}

func (s *imageService) UploadImage(ctx context.Context, r io.Reader, filename string) (*storage.UploadResult, error) {
	if r == nil {
		return nil, constant.ErrNoFile
	}

	// 多读 1 字节用于判断是否超限
	data, err := io.ReadAll(io.LimitReader(r, s.opts.MaxBytes+1))
	if err != nil {
		return nil, constant.NewUploadError(FailMessage, err)
	}
	if len(data) == 0 {
		return nil, constant.ErrNoFile
	}
	if int64(len(data)) > s.opts.MaxBytes {
		return nil, constant.NewUploadError(FailMessage,
			fmt.Errorf("file exceeds %d bytes", s.opts.MaxBytes))
	}

	// 以文件内容为准，不信任扩展名和客户端声明的类型
	contentType := http.DetectContentType(data)
	ext, ok := allowedTypes[contentType]
	if !ok {
		return nil, constant.NewUploadError(FailMessage,
			fmt.Errorf("unsupported file type %s (%s)", contentType, filename))
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, constant.NewUploadError(FailMessage, fmt.Errorf("invalid image: %w", err))
	}

	if s.opts.MaxWidth > 0 && img.Bounds().Dx() > s.opts.MaxWidth {
		resized, err := s.resize(img, format)
		if err != nil {
			log.Printf("[Upload] 缩放图片 %s 失败，保留原图: %v", filename, err)
		} else {
			data = resized
		}
	}

	now := s.opts.Now()
	key := path.Join("blog", now.Format("2006"), now.Format("01"), s.opts.NewID()+ext)

	res, err := s.provider.Upload(ctx, bytes.NewReader(data), key, contentType)
	if err != nil {
		return nil, constant.NewUploadError(FailMessage, err)
	}
	log.Printf("[Upload] 封面图已保存: %s -> %s", filename, res.URL)
	return res, nil
}

// resize 等比缩小到 MaxWidth，输出格式与原图一致
// gif 只保留第一帧，webp 没有编码器，因此都不缩放
func (s *imageService) resize(img image.Image, format string) ([]byte, error) {
	var f imaging.Format
	switch format {
	case "jpeg":
		f = imaging.JPEG
	case "png":
		f = imaging.PNG
	default:
		return nil, fmt.Errorf("resize not supported for %s", format)
	}

	dst := imaging.Resize(img, s.opts.MaxWidth, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, dst, f, imaging.JPEGQuality(85)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *imageService) Remove(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return s.provider.Delete(ctx, key)
}
