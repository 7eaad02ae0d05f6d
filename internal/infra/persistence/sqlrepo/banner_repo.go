package sqlrepo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anzhiyu-c/boganto-blog/pkg/domain/model"
	"github.com/anzhiyu-c/boganto-blog/pkg/domain/repository"

	entsql "entgo.io/ent/dialect/sql"
)

const tableBanners = "banner_images"

type bannerRepo struct {
	base
}

// NewBannerRepo 是 bannerRepo 的构造函数。
func NewBannerRepo(db *sql.DB, dialectName string, debug bool) repository.BannerRepository {
	return &bannerRepo{base: newBase(db, dialectName, debug)}
}

// ListActive 返回启用的轮播图，sort_order 相同时按 id 排序
func (r *bannerRepo) ListActive(ctx context.Context) ([]*model.Banner, error) {
	s := r.builder().
		Select("id", "title", "subtitle", "image_url", "link_url", "sort_order", "is_active").
		From(r.builder().Table(tableBanners)).
		Where(entsql.EQ("is_active", true)).
		OrderBy(entsql.Asc("sort_order"), entsql.Asc("id"))

	rows, err := r.query(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("查询轮播图失败: %w", err)
	}
	defer rows.Close()

	banners := make([]*model.Banner, 0)
	for rows.Next() {
		var (
			banner                   model.Banner
			title, subtitle, linkURL sql.NullString
		)
		if err := rows.Scan(&banner.ID, &title, &subtitle, &banner.ImageURL, &linkURL, &banner.SortOrder, &banner.IsActive); err != nil {
			return nil, fmt.Errorf("读取轮播图失败: %w", err)
		}
		banner.Title = title.String
		banner.Subtitle = subtitle.String
		banner.LinkURL = linkURL.String
		banners = append(banners, &banner)
	}
	return banners, rows.Err()
}
