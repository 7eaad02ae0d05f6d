package banner

import (
	"context"

	"github.com/anzhiyu-c/boganto-blog/pkg/domain/model"
	"github.com/anzhiyu-c/boganto-blog/pkg/domain/repository"
)

// Service 封装了首页轮播图的查询逻辑。
type Service struct {
	repo repository.BannerRepository
}

func NewService(repo repository.BannerRepository) *Service {
	return &Service{repo: repo}
}

// ListActive 返回启用中的轮播图，按 sort_order、id 升序
func (s *Service) ListActive(ctx context.Context) ([]*model.BannerView, error) {
	banners, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]*model.BannerView, len(banners))
	for i, b := range banners {
		views[i] = b.ToView()
	}
	return views, nil
}
