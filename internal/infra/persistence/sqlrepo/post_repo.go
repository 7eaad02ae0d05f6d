/*
 * @Description: 文章仓储实现
 * @Author: 安知鱼
 * @Date: 2025-07-12 17:20:31
 * @LastEditTime: 2025-10-12 15:47:52
 * @LastEditors: 安知鱼
 */
package sqlrepo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anzhiyu-c/boganto-blog/pkg/constant"
	"github.com/anzhiyu-c/boganto-blog/pkg/domain/model"
	"github.com/anzhiyu-c/boganto-blog/pkg/domain/repository"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const (
	tableBlogs      = "blogs"
	tableCategories = "categories"
)

type postRepo struct {
	base
}

// NewPostRepo 是 postRepo 的构造函数。
func NewPostRepo(db *sql.DB, dialectName string, debug bool) repository.PostRepository {
	return &postRepo{base: newBase(db, dialectName, debug)}
}

// publishedSelector 构建 blogs LEFT JOIN categories 的基础查询，只包含已发布文章
func (r *postRepo) publishedSelector() (*entsql.Selector, *entsql.SelectTable, *entsql.SelectTable) {
	d := r.builder()
	b := d.Table(tableBlogs).As("b")
	c := d.Table(tableCategories).As("c")
	s := d.Select(
		b.C("id"), b.C("title"), b.C("slug"), b.C("content"), b.C("excerpt"),
		b.C("featured_image"), b.C("category_id"), b.C("tags"), b.C("meta_title"),
		b.C("meta_description"), b.C("is_featured"), b.C("status"), b.C("view_count"),
		b.C("created_at"), b.C("updated_at"),
		entsql.As(c.C("name"), "category_name"),
		entsql.As(c.C("slug"), "category_slug"),
	).
		From(b).
		LeftJoin(c).On(b.C("category_id"), c.C("id")).
		Where(entsql.EQ(b.C("status"), constant.PostStatusPublished))
	return s, b, c
}

// ListPublished 实现了带过滤条件的文章列表查询
func (r *postRepo) ListPublished(ctx context.Context, filter model.PostFilter) ([]*model.Post, error) {
	s, b, c := r.publishedSelector()

	if filter.Category != "" {
		s.Where(entsql.EQ(c.C("slug"), filter.Category))
	}
	if filter.Tag != "" {
		s.Where(entsql.Contains(b.C("tags"), filter.Tag))
	}
	if filter.Featured != nil {
		s.Where(entsql.EQ(b.C("is_featured"), *filter.Featured))
	}
	if filter.Search != "" {
		s.Where(searchPredicate(r.dialect, b, filter.Search))
	}

	s.OrderBy(entsql.Desc(b.C("created_at")), entsql.Desc(b.C("id")))
	if filter.Limit > 0 {
		s.Limit(filter.Limit)
		if filter.Offset > 0 {
			s.Offset(filter.Offset)
		}
	}

	rows, err := r.query(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("查询文章列表失败: %w", err)
	}
	defer rows.Close()

	posts := make([]*model.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// searchPredicate 按方言生成全文检索条件，覆盖标题、正文和标签
func searchPredicate(dialectName string, b *entsql.SelectTable, term string) *entsql.Predicate {
	switch dialectName {
	case dialect.MySQL:
		return entsql.P(func(bd *entsql.Builder) {
			bd.WriteString("MATCH(").
				WriteString(b.C("title")).Comma().
				WriteString(b.C("content")).Comma().
				WriteString(b.C("tags")).
				WriteString(") AGAINST(")
			bd.Arg(term)
			bd.WriteString(" IN NATURAL LANGUAGE MODE)")
		})
	case dialect.Postgres:
		return entsql.P(func(bd *entsql.Builder) {
			bd.WriteString(fmt.Sprintf(
				"to_tsvector('simple', coalesce(%s, '') || ' ' || coalesce(%s, '') || ' ' || coalesce(%s, '')) @@ plainto_tsquery('simple', ",
				b.C("title"), b.C("content"), b.C("tags"),
			))
			bd.Arg(term)
			bd.WriteString(")")
		})
	default:
		// SQLite 没有内置的自然语言检索，退化为子串匹配
		return entsql.Or(
			entsql.Contains(b.C("title"), term),
			entsql.Contains(b.C("content"), term),
			entsql.Contains(b.C("tags"), term),
		)
	}
}

// FindPublishedByID 通过 ID 查找已发布文章
func (r *postRepo) FindPublishedByID(ctx context.Context, id int64) (*model.Post, error) {
	s, b, _ := r.publishedSelector()
	s.Where(entsql.EQ(b.C("id"), id)).Limit(1)
	return r.findOne(ctx, s)
}

// FindPublishedBySlug 通过 slug 查找已发布文章
func (r *postRepo) FindPublishedBySlug(ctx context.Context, slug string) (*model.Post, error) {
	s, b, _ := r.publishedSelector()
	s.Where(entsql.EQ(b.C("slug"), slug)).Limit(1)
	return r.findOne(ctx, s)
}

func (r *postRepo) findOne(ctx context.Context, s *entsql.Selector) (*model.Post, error) {
	rows, err := r.query(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("查询文章失败: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, constant.ErrNotFound
	}
	return scanPost(rows)
}

// IncrementViewCount 浏览量 +1，不做去重
func (r *postRepo) IncrementViewCount(ctx context.Context, id int64) error {
	u := r.builder().Update(tableBlogs).
		Add("view_count", 1).
		Where(entsql.EQ("id", id))
	return r.execAffecting(ctx, u)
}

// Create 插入文章。slug 冲突由数据库唯一索引拦截并返回 ErrConflict
func (r *postRepo) Create(ctx context.Context, p *model.Post) error {
	p.CreatedAt = normalizeTime(p.CreatedAt)
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	ins := r.builder().Insert(tableBlogs).
		Columns("title", "slug", "content", "excerpt", "featured_image", "category_id", "tags",
			"meta_title", "meta_description", "is_featured", "status", "view_count",
			"created_at", "updated_at").
		Values(p.Title, p.Slug, p.Content, p.Excerpt, p.FeaturedImage, p.CategoryID, p.Tags,
			p.MetaTitle, p.MetaDescription, p.IsFeatured, p.Status, p.ViewCount,
			p.CreatedAt, normalizeTime(p.UpdatedAt))
	id, err := r.insert(ctx, ins)
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

// Update 整行覆盖可编辑字段
func (r *postRepo) Update(ctx context.Context, p *model.Post) error {
	p.UpdatedAt = normalizeTime(p.UpdatedAt)
	u := r.builder().Update(tableBlogs).
		Set("title", p.Title).
		Set("content", p.Content).
		Set("excerpt", p.Excerpt).
		Set("category_id", p.CategoryID).
		Set("tags", p.Tags).
		Set("meta_title", p.MetaTitle).
		Set("meta_description", p.MetaDescription).
		Set("is_featured", p.IsFeatured).
		Set("status", p.Status).
		Set("updated_at", p.UpdatedAt).
		Where(entsql.EQ("id", p.ID))
	return r.execAffecting(ctx, u)
}

// Delete 删除文章及其推荐书籍。
// 外键级联在未开启约束的旧库中不一定生效，所以先显式删除书籍
func (r *postRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	d := r.builder()
	query, args := d.Delete(tableRelatedBooks).Where(entsql.EQ("blog_id", id)).Query()
	r.logQuery(query, args)
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("删除推荐书籍失败: %w", err)
	}

	query, args = d.Delete(tableBlogs).Where(entsql.EQ("id", id)).Query()
	r.logQuery(query, args)
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("删除文章失败: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return constant.ErrNotFound
	}
	return tx.Commit()
}

func scanPost(rows *sql.Rows) (*model.Post, error) {
	var (
		p                    model.Post
		excerpt, image, tags sql.NullString
		metaTitle, metaDesc  sql.NullString
		catName, catSlug     sql.NullString
		categoryID           sql.NullInt64
		createdAt, updatedAt nullTime
	)
	err := rows.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &excerpt,
		&image, &categoryID, &tags, &metaTitle,
		&metaDesc, &p.IsFeatured, &p.Status, &p.ViewCount,
		&createdAt, &updatedAt,
		&catName, &catSlug,
	)
	if err != nil {
		return nil, fmt.Errorf("读取文章数据失败: %w", err)
	}
	p.Excerpt = excerpt.String
	p.FeaturedImage = image.String
	p.CategoryID = categoryID.Int64
	p.Tags = tags.String
	p.MetaTitle = metaTitle.String
	p.MetaDescription = metaDesc.String
	p.CategoryName = catName.String
	p.CategorySlug = catSlug.String
	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time
	return &p, nil
}
