package model

import "time"

// RelatedBook 是文章关联的推荐书籍，对应 related_books 表
type RelatedBook struct {
	ID           int64
	BlogID       int64
	Title        string
	PurchaseLink string
	Description  string
	Price        string
	CreatedAt    time.Time
}

// RelatedBookInput 是创建/更新文章时提交的书籍条目
type RelatedBookInput struct {
	Title        string `json:"title"`
	PurchaseLink string `json:"purchase_link"`
	Description  string `json:"description"`
	Price        string `json:"price"`
}

// Valid 标题和购买链接缺一不可，不合法的条目会被跳过
func (in RelatedBookInput) Valid() bool {
	return in.Title != "" && in.PurchaseLink != ""
}

// RelatedBookView 定义了书籍的 API 响应结构
type RelatedBookView struct {
	ID           int64  `json:"id"`
	BlogID       int64  `json:"blog_id"`
	Title        string `json:"title"`
	PurchaseLink string `json:"purchase_link"`
	Description  string `json:"description"`
	Price        string `json:"price"`
	CreatedAt    string `json:"created_at"`
}

func (b *RelatedBook) ToView() *RelatedBookView {
	return &RelatedBookView{
		ID:           b.ID,
		BlogID:       b.BlogID,
		Title:        b.Title,
		PurchaseLink: b.PurchaseLink,
		Description:  b.Description,
		Price:        b.Price,
		CreatedAt:    formatTime(b.CreatedAt),
	}
}
