package repository

import (
	"context"

	"github.com/anzhiyu-c/boganto-blog/pkg/domain/model"
)

// CategoryRepository 定义了文章分类的数据仓库接口。
type CategoryRepository interface {
	// ListWithCounts 列出所有分类及其已发布文章数，limit <= 0 表示不限制
	ListWithCounts(ctx context.Context, limit int) ([]*model.Category, error)
	Create(ctx context.Context, category *model.Category) error
}

// BannerRepository 定义了轮播图的数据仓库接口。轮播图由数据库直接维护，接口只读
type BannerRepository interface {
	ListActive(ctx context.Context) ([]*model.Banner, error)
}
