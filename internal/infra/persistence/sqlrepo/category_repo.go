package sqlrepo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anzhiyu-c/boganto-blog/pkg/constant"
	"github.com/anzhiyu-c/boganto-blog/pkg/domain/model"
	"github.com/anzhiyu-c/boganto-blog/pkg/domain/repository"

	entsql "entgo.io/ent/dialect/sql"
)

type categoryRepo struct {
	base
}

// NewCategoryRepo 是 categoryRepo 的构造函数。
func NewCategoryRepo(db *sql.DB, dialectName string, debug bool) repository.CategoryRepository {
	return &categoryRepo{base: newBase(db, dialectName, debug)}
}

// ListWithCounts 统计每个分类下已发布文章的数量，按名称升序
func (r *categoryRepo) ListWithCounts(ctx context.Context, limit int) ([]*model.Category, error) {
	d := r.builder()
	c := d.Table(tableCategories).As("c")
	b := d.Table(tableBlogs).As("b")
	s := d.Select(
		c.C("id"), c.C("name"), c.C("slug"), c.C("description"), c.C("created_at"),
		entsql.As(entsql.Count(b.C("id")), "blog_count"),
	).
		From(c).
		LeftJoin(b).
		OnP(entsql.And(
			entsql.ColumnsEQ(c.C("id"), b.C("category_id")),
			entsql.EQ(b.C("status"), constant.PostStatusPublished),
		)).
		GroupBy(c.C("id"), c.C("name"), c.C("slug"), c.C("description"), c.C("created_at")).
		OrderBy(c.C("name"))
	if limit > 0 {
		s.Limit(limit)
	}

	rows, err := r.query(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("查询分类列表失败: %w", err)
	}
	defer rows.Close()

	categories := make([]*model.Category, 0)
	for rows.Next() {
		var (
			cat       model.Category
			desc      sql.NullString
			createdAt nullTime
		)
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Slug, &desc, &createdAt, &cat.BlogCount); err != nil {
			return nil, fmt.Errorf("读取分类数据失败: %w", err)
		}
		cat.Description = desc.String
		cat.CreatedAt = createdAt.Time
		categories = append(categories, &cat)
	}
	return categories, rows.Err()
}

func (r *categoryRepo) Create(ctx context.Context, cat *model.Category) error {
	cat.CreatedAt = normalizeTime(cat.CreatedAt)
	ins := r.builder().Insert(tableCategories).
		Columns("name", "slug", "description", "created_at").
		Values(cat.Name, cat.Slug, cat.Description, cat.CreatedAt)
	id, err := r.insert(ctx, ins)
	if err != nil {
		return err
	}
	cat.ID = id
	return nil
}
