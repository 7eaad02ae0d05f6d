/*
 * @Description: 博客文章业务逻辑：公开查询与后台增删改
 * @Author: 安知鱼
 * @Date: 2025-07-12 11:02:36
 * @LastEditTime: 2025-10-14 16:08:52
 * @LastEditors: 安知鱼
 */
package blog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/anzhiyu-c/boganto-blog/internal/infra/storage"
	"github.com/anzhiyu-c/boganto-blog/internal/pkg/parser"
	"github.com/anzhiyu-c/boganto-blog/internal/pkg/strutil"
	"github.com/anzhiyu-c/boganto-blog/pkg/constant"
	"github.com/anzhiyu-c/boganto-blog/pkg/domain/model"
	"github.com/anzhiyu-c/boganto-blog/pkg/domain/repository"
	"github.com/anzhiyu-c/boganto-blog/pkg/service/upload"
)

const (
	// excerptLength 自动摘要截取的字符数
	excerptLength = 200
	// maxSlugAttempts slug 冲突时最多尝试的次数
	maxSlugAttempts = 5
)

// 返回给客户端的校验提示
const (
	msgCreateRequired = "Title, content, and category are required"
	msgUpdateRequired = "ID, title, content, and category are required"
	msgDeleteRequired = "Blog ID required for deletion"
	msgInvalidStatus  = "Status must be either draft or published"
)

// ErrSlugExhausted 多次重试后 slug 仍然冲突
var ErrSlugExhausted = errors.New("could not allocate a unique slug")

// ImageFile 是创建文章时附带的封面图
type ImageFile struct {
	Reader   io.Reader
	Filename string
}

// Service 封装了博客文章的业务逻辑。
type Service struct {
	postRepo repository.PostRepository
	bookRepo repository.RelatedBookRepository
	images   upload.ImageService
	now      func() time.Time
}

// NewService 是博客 Service 的构造函数。images 为 nil 时忽略所有封面图
func NewService(postRepo repository.PostRepository, bookRepo repository.RelatedBookRepository, images upload.ImageService) *Service {
	return &Service{
		postRepo: postRepo,
		bookRepo: bookRepo,
		images:   images,
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
}

// SetClock 替换时钟，测试中用于固定 slug 时间戳
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// ListPosts 按过滤条件列出已发布文章
func (s *Service) ListPosts(ctx context.Context, filter model.PostFilter) ([]*model.PostView, error) {
	filter.Category = parser.SanitizeText(filter.Category)
	filter.Tag = parser.SanitizeText(filter.Tag)
	filter.Search = strings.TrimSpace(filter.Search)
	if filter.Limit < 0 {
		filter.Limit = 0
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	posts, err := s.postRepo.ListPublished(ctx, filter)
	if err != nil {
		return nil, err
	}

	views := make([]*model.PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, p.ToView())
	}
	return views, nil
}

// GetPostByID 获取单篇已发布文章，浏览量 +1
func (s *Service) GetPostByID(ctx context.Context, id int64) (*model.PostView, error) {
	if id <= 0 {
		return nil, constant.ErrNotFound
	}
	post, err := s.postRepo.FindPublishedByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.finishRead(ctx, post)
}

// GetPostBySlug 按 slug 获取单篇已发布文章，浏览量 +1
func (s *Service) GetPostBySlug(ctx context.Context, slug string) (*model.PostView, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, constant.ErrNotFound
	}
	post, err := s.postRepo.FindPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.finishRead(ctx, post)
}

// finishRead 累加浏览量并附上推荐书籍。
// 返回的 view_count 是本次访问之前的值
func (s *Service) finishRead(ctx context.Context, post *model.Post) (*model.PostView, error) {
	if err := s.postRepo.IncrementViewCount(ctx, post.ID); err != nil {
		return nil, fmt.Errorf("更新浏览量失败: %w", err)
	}

	books, err := s.bookRepo.ListByBlog(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("查询推荐书籍失败: %w", err)
	}
	if books == nil {
		books = []*model.RelatedBook{}
	}
	post.RelatedBooks = books
	return post.ToView(), nil
}

// CreatePost 创建文章。推荐书籍写入失败不会影响文章本身，只作为 warnings 返回
func (s *Service) CreatePost(ctx context.Context, req *model.CreatePostRequest, image *ImageFile) (*model.CreatePostResult, error) {
	title := parser.SanitizeText(req.Title)
	if title == "" || strings.TrimSpace(req.Content) == "" || req.CategoryID <= 0 {
		return nil, constant.NewValidationError(msgCreateRequired)
	}

	status, err := normalizeStatus(req.Status)
	if err != nil {
		return nil, err
	}

	excerpt := parser.SanitizeText(req.Excerpt)
	if excerpt == "" {
		excerpt = strutil.Excerpt(parser.StripHTML(req.Content), excerptLength)
	}
	metaTitle := parser.SanitizeText(req.MetaTitle)
	if metaTitle == "" {
		metaTitle = title
	}
	metaDescription := parser.SanitizeText(req.MetaDescription)
	if metaDescription == "" {
		metaDescription = excerpt
	}

	// 先上传封面图，失败时不写入任何数据
	uploaded, err := s.uploadImage(ctx, image)
	if err != nil {
		return nil, err
	}

	now := s.now()
	post := &model.Post{
		Title:           title,
		Content:         req.Content,
		Excerpt:         excerpt,
		CategoryID:      req.CategoryID,
		Tags:            parser.SanitizeText(req.Tags),
		MetaTitle:       metaTitle,
		MetaDescription: metaDescription,
		IsFeatured:      req.IsFeatured,
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if uploaded != nil {
		post.FeaturedImage = uploaded.URL
	}

	if err := s.insertWithUniqueSlug(ctx, post, now); err != nil {
		if uploaded != nil {
			if rmErr := s.images.Remove(ctx, uploaded.Key); rmErr != nil {
				log.Printf("[BlogService] 清理封面图 %s 失败: %v", uploaded.Key, rmErr)
			}
		}
		return nil, err
	}
	log.Printf("[BlogService] 文章已创建: id=%d, slug=%s", post.ID, post.Slug)

	var warnings []string
	if len(req.RelatedBooks) > 0 {
		warnings = s.saveRelatedBooks(ctx, post.ID, req.RelatedBooks, false)
	}

	return &model.CreatePostResult{ID: post.ID, Slug: post.Slug, Warnings: warnings}, nil
}

// insertWithUniqueSlug 依赖数据库唯一索引判断冲突，冲突时换一个候选 slug 重试
func (s *Service) insertWithUniqueSlug(ctx context.Context, post *model.Post, now time.Time) error {
	base := strutil.Slugify(post.Title)
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		post.Slug = strutil.SlugCandidate(base, now.Unix(), attempt)
		err := s.postRepo.Create(ctx, post)
		if err == nil {
			return nil
		}
		if !errors.Is(err, constant.ErrConflict) {
			return err
		}
		log.Printf("[BlogService] slug %q 已存在，重试", post.Slug)
	}
	return fmt.Errorf("%w: %s", ErrSlugExhausted, base)
}

func (s *Service) uploadImage(ctx context.Context, image *ImageFile) (*storage.UploadResult, error) {
	if image == nil || image.Reader == nil || s.images == nil {
		return nil, nil
	}
	res, err := s.images.UploadImage(ctx, image.Reader, image.Filename)
	if errors.Is(err, constant.ErrNoFile) {
		return nil, nil
	}
	if err != nil {
		log.Printf("[BlogService] 封面图上传失败: %v", err)
		return nil, err
	}
	return res, nil
}

// UpdatePost 整行覆盖文章的可编辑字段，slug 和封面图保持不变
func (s *Service) UpdatePost(ctx context.Context, req *model.UpdatePostRequest) ([]string, error) {
	title := parser.SanitizeText(req.Title)
	if req.ID <= 0 || title == "" || strings.TrimSpace(req.Content) == "" || req.CategoryID <= 0 {
		return nil, constant.NewValidationError(msgUpdateRequired)
	}

	status, err := normalizeStatus(req.Status)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		ID:              req.ID,
		Title:           title,
		Content:         req.Content,
		Excerpt:         parser.SanitizeText(req.Excerpt),
		CategoryID:      req.CategoryID,
		Tags:            parser.SanitizeText(req.Tags),
		MetaTitle:       parser.SanitizeText(req.MetaTitle),
		MetaDescription: parser.SanitizeText(req.MetaDescription),
		IsFeatured:      req.IsFeatured,
		Status:          status,
		UpdatedAt:       s.now(),
	}
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	var warnings []string
	if req.HasRelatedBooks {
		warnings = s.saveRelatedBooks(ctx, post.ID, req.RelatedBooks, true)
	}
	return warnings, nil
}

// DeletePost 删除文章，推荐书籍随之删除
func (s *Service) DeletePost(ctx context.Context, id int64) error {
	if id <= 0 {
		return constant.NewValidationError(msgDeleteRequired)
	}
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}
	log.Printf("[BlogService] 文章已删除: id=%d", id)
	return nil
}

// saveRelatedBooks 尽力写入推荐书籍，每个失败项生成一条 warning。
// replace 为 true 时先清空原有书籍
func (s *Service) saveRelatedBooks(ctx context.Context, blogID int64, books []model.RelatedBookInput, replace bool) []string {
	var warnings []string
	warn := func(format string, args ...interface{}) {
		msg := fmt.Sprintf(format, args...)
		log.Printf("[BlogService] 文章 %d 的推荐书籍: %s", blogID, msg)
		warnings = append(warnings, msg)
	}

	if replace {
		if err := s.bookRepo.DeleteByBlog(ctx, blogID); err != nil {
			warn("failed to clear related books: %v", err)
			return warnings
		}
	}

	for i, in := range books {
		in.Title = strings.TrimSpace(in.Title)
		in.PurchaseLink = strings.TrimSpace(in.PurchaseLink)
		if !in.Valid() {
			warn("related book #%d skipped: title and purchase_link are required", i+1)
			continue
		}
		book := &model.RelatedBook{
			BlogID:       blogID,
			Title:        in.Title,
			PurchaseLink: in.PurchaseLink,
			Description:  in.Description,
			Price:        in.Price,
			CreatedAt:    s.now(),
		}
		if err := s.bookRepo.Create(ctx, book); err != nil {
			warn("related book #%d (%s) not saved: %v", i+1, in.Title, err)
		}
	}
	return warnings
}

// normalizeStatus 空值视为草稿，其余只接受 draft 和 published
func normalizeStatus(raw string) (string, error) {
	status := strings.ToLower(parser.SanitizeText(raw))
	if status == "" {
		return constant.PostStatusDraft, nil
	}
	if !constant.IsValidPostStatus(status) {
		return "", constant.NewValidationError(msgInvalidStatus)
	}
	return status, nil
}
