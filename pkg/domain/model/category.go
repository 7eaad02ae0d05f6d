package model

import "time"

// Category 是文章分类，BlogCount 为已发布文章数量
type Category struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	BlogCount   int
	CreatedAt   time.Time
}

// CategoryView 定义了分类的 API 响应结构
type CategoryView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	BlogCount   int    `json:"blog_count"`
	CreatedAt   string `json:"created_at"`
}

func (c *Category) ToView() *CategoryView {
	return &CategoryView{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		BlogCount:   c.BlogCount,
		CreatedAt:   formatTime(c.CreatedAt),
	}
}
