package sqlrepo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anzhiyu-c/boganto-blog/pkg/domain/model"
	"github.com/anzhiyu-c/boganto-blog/pkg/domain/repository"

	entsql "entgo.io/ent/dialect/sql"
)

const tableRelatedBooks = "related_books"

type relatedBookRepo struct {
	base
}

// NewRelatedBookRepo 是 relatedBookRepo 的构造函数。
func NewRelatedBookRepo(db *sql.DB, dialectName string, debug bool) repository.RelatedBookRepository {
	return &relatedBookRepo{base: newBase(db, dialectName, debug)}
}

// ListByBlog 按 id 升序返回文章的推荐书籍
func (r *relatedBookRepo) ListByBlog(ctx context.Context, blogID int64) ([]*model.RelatedBook, error) {
	s := r.builder().
		Select("id", "blog_id", "title", "purchase_link", "description", "price", "created_at").
		From(r.builder().Table(tableRelatedBooks)).
		Where(entsql.EQ("blog_id", blogID)).
		OrderBy(entsql.Asc("id"))

	rows, err := r.query(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("查询推荐书籍失败: %w", err)
	}
	defer rows.Close()

	books := make([]*model.RelatedBook, 0)
	for rows.Next() {
		var (
			book        model.RelatedBook
			desc, price sql.NullString
			createdAt   nullTime
		)
		if err := rows.Scan(&book.ID, &book.BlogID, &book.Title, &book.PurchaseLink, &desc, &price, &createdAt); err != nil {
			return nil, fmt.Errorf("读取推荐书籍失败: %w", err)
		}
		book.Description = desc.String
		book.Price = price.String
		book.CreatedAt = createdAt.Time
		books = append(books, &book)
	}
	return books, rows.Err()
}

// DeleteByBlog 删除文章下的全部推荐书籍，没有书籍也不算错误
func (r *relatedBookRepo) DeleteByBlog(ctx context.Context, blogID int64) error {
	_, err := r.exec(ctx, r.builder().Delete(tableRelatedBooks).Where(entsql.EQ("blog_id", blogID)))
	return err
}

func (r *relatedBookRepo) Create(ctx context.Context, book *model.RelatedBook) error {
	book.CreatedAt = normalizeTime(book.CreatedAt)
	ins := r.builder().Insert(tableRelatedBooks).
		Columns("blog_id", "title", "purchase_link", "description", "price", "created_at").
		Values(book.BlogID, book.Title, book.PurchaseLink, book.Description, book.Price, book.CreatedAt)
	id, err := r.insert(ctx, ins)
	if err != nil {
		return err
	}
	book.ID = id
	return nil
}
