/*
 * @Description: 博客文章领域模型
 * @Author: 安知鱼
 * @Date: 2025-07-12 10:31:09
 * @LastEditTime: 2025-10-12 11:05:51
 * @LastEditors: 安知鱼
 */
package model

import (
	"strings"
	"time"
)

// TimeLayout 是接口中所有时间字段的输出格式，与数据库 DATETIME 文本保持一致
const TimeLayout = "2006-01-02 15:04:05"

// --- 核心领域对象 (Domain Object) ---

// Post 是博客文章的核心领域模型，对应 blogs 表。
type Post struct {
	ID              int64
	Title           string
	Slug            string
	Content         string
	Excerpt         string
	FeaturedImage   string
	CategoryID      int64
	Tags            string
	MetaTitle       string
	MetaDescription string
	IsFeatured      bool
	Status          string
	ViewCount       int
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// 联表查询得到的分类信息，分类不存在时为空字符串
	CategoryName string
	CategorySlug string

	RelatedBooks []*RelatedBook
}

// PostFilter 是公开列表接口支持的过滤条件
type PostFilter struct {
	Category string
	Tag      string
	Featured *bool
	Search   string
	Limit    int
	Offset   int
}

// --- API 数据传输对象 (Data Transfer Objects) ---

// CreatePostRequest 对应后台创建文章的 multipart 表单
type CreatePostRequest struct {
	Title           string             `form:"title"`
	Content         string             `form:"content"`
	Excerpt         string             `form:"excerpt"`
	CategoryID      int64              `form:"category_id"`
	Tags            string             `form:"tags"`
	MetaTitle       string             `form:"meta_title"`
	MetaDescription string             `form:"meta_description"`
	IsFeatured      bool               `form:"-"`
	Status          string             `form:"status"`
	RelatedBooks    []RelatedBookInput `form:"-"`
}

// UpdatePostRequest 对应后台更新文章的 JSON 请求体，是整行覆盖而非局部更新
type UpdatePostRequest struct {
	ID              int64              `json:"id"`
	Title           string             `json:"title"`
	Content         string             `json:"content"`
	Excerpt         string             `json:"excerpt"`
	CategoryID      int64              `json:"category_id"`
	Tags            string             `json:"tags"`
	MetaTitle       string             `json:"meta_title"`
	MetaDescription string             `json:"meta_description"`
	IsFeatured      bool               `json:"is_featured"`
	Status          string             `json:"status"`
	RelatedBooks    []RelatedBookInput `json:"related_books"`
	// 请求体中出现 related_books 字段时为 true，此时整体替换相关书籍
	HasRelatedBooks bool `json:"-"`
}

// CreatePostResult 是创建成功后的返回信息
type CreatePostResult struct {
	ID       int64
	Slug     string
	Warnings []string
}

// CategoryRef 是文章视图中嵌入的分类摘要
type CategoryRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// PostView 定义了文章的标准 API 响应结构
type PostView struct {
	ID            int64              `json:"id"`
	Title         string             `json:"title"`
	Slug          string             `json:"slug"`
	Content       string             `json:"content"`
	Excerpt       string             `json:"excerpt"`
	FeaturedImage string             `json:"featured_image"`
	Category      CategoryRef        `json:"category"`
	Tags          []string           `json:"tags"`
	IsFeatured    bool               `json:"is_featured"`
	ViewCount     int                `json:"view_count"`
	CreatedAt     string             `json:"created_at"`
	UpdatedAt     string             `json:"updated_at"`
	RelatedBooks  []*RelatedBookView `json:"related_books,omitempty"`
}

// SplitTags 将逗号分隔的标签拆成有序切片，去掉空白项
func SplitTags(raw string) []string {
	tags := make([]string, 0)
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// ToView 把领域对象转换为响应结构
func (p *Post) ToView() *PostView {
	v := &PostView{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Content:       p.Content,
		Excerpt:       p.Excerpt,
		FeaturedImage: p.FeaturedImage,
		Category: CategoryRef{
			ID:   p.CategoryID,
			Name: p.CategoryName,
			Slug: p.CategorySlug,
		},
		Tags:       SplitTags(p.Tags),
		IsFeatured: p.IsFeatured,
		ViewCount:  p.ViewCount,
		CreatedAt:  formatTime(p.CreatedAt),
		UpdatedAt:  formatTime(p.UpdatedAt),
	}
	if p.RelatedBooks != nil {
		v.RelatedBooks = make([]*RelatedBookView, 0, len(p.RelatedBooks))
		for _, b := range p.RelatedBooks {
			v.RelatedBooks = append(v.RelatedBooks, b.ToView())
		}
	}
	return v
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimeLayout)
}
