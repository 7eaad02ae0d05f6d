/*
 * @Description: 文章仓储接口
 * @Author: 安知鱼
 * @Date: 2025-07-12 10:40:26
 * @LastEditTime: 2025-10-12 11:21:37
 * @LastEditors: 安知鱼
 */
package repository

import (
	"context"

	"github.com/anzhiyu-c/boganto-blog/pkg/domain/model"
)

// PostRepository 定义了博客文章的数据仓库接口。
type PostRepository interface {
	// ListPublished 按过滤条件列出已发布文章，按创建时间倒序
	ListPublished(ctx context.Context, filter model.PostFilter) ([]*model.Post, error)
	// FindPublishedByID 查找已发布文章，未找到返回 constant.ErrNotFound
	FindPublishedByID(ctx context.Context, id int64) (*model.Post, error)
	// FindPublishedBySlug 查找已发布文章，未找到返回 constant.ErrNotFound
	FindPublishedBySlug(ctx context.Context, slug string) (*model.Post, error)
	// IncrementViewCount 浏览量 +1
	IncrementViewCount(ctx context.Context, id int64) error
	// Create 插入文章并回填 ID。slug 冲突时返回 constant.ErrConflict
	Create(ctx context.Context, post *model.Post) error
	// Update 整行覆盖可编辑字段（slug 和封面图除外），文章不存在返回 constant.ErrNotFound
	Update(ctx context.Context, post *model.Post) error
	// Delete 删除文章，文章不存在返回 constant.ErrNotFound
	Delete(ctx context.Context, id int64) error
}

// RelatedBookRepository 定义了推荐书籍的数据仓库接口。
type RelatedBookRepository interface {
	ListByBlog(ctx context.Context, blogID int64) ([]*model.RelatedBook, error)
	DeleteByBlog(ctx context.Context, blogID int64) error
	Create(ctx context.Context, book *model.RelatedBook) error
}
