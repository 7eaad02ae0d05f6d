/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-07-25 11:50:43
 * @LastEditTime: 2025-10-13 15:27:36
 * @LastEditors: 安知鱼
 */
package category

import (
	"context"

	"github.com/anzhiyu-c/boganto-blog/pkg/domain/model"
	"github.com/anzhiyu-c/boganto-blog/pkg/domain/repository"
)

// Service 封装了文章分类的业务逻辑。
type Service struct {
	repo repository.CategoryRepository
}

// NewService 是 Category Service 的构造函数。
func NewService(repo repository.CategoryRepository) *Service {
	return &Service{repo: repo}
}

// List 返回所有分类及其已发布文章数，按名称排序；limit <= 0 表示不限制
func (s *Service) List(ctx context.Context, limit int) ([]*model.CategoryView, error) {
	if limit < 0 {
		limit = 0
	}
	categories, err := s.repo.ListWithCounts(ctx, limit)
	if err != nil {
		return nil, err
	}

	views := make([]*model.CategoryView, len(categories))
	for i, c := range categories {
		views[i] = c.ToView()
	}
	return views, nil
}
