package blog

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/anzhiyu-c/boganto-blog/internal/pkg/metrics"
	"github.com/anzhiyu-c/boganto-blog/pkg/domain/model"
	"github.com/anzhiyu-c/boganto-blog/pkg/response"
	blog_service "github.com/anzhiyu-c/boganto-blog/pkg/service/blog"
	"github.com/anzhiyu-c/boganto-blog/pkg/service/upload"

	"github.com/gin-gonic/gin"
)

const (
	msgNotFound    = "Blog not found"
	msgIDRequired  = "Blog ID required for deletion"
	msgInvalidJSON = "Invalid JSON data"
	msgInvalidBook = "related_books ignored: not a valid JSON array"

	prefixQuery  = "Database query failed: "
	prefixCreate = "Failed to create blog: "
	prefixUpdate = "Failed to update blog: "
	prefixDelete = "Failed to delete blog: "
)

// Handler 封装了博客文章相关的 HTTP 处理器。
type Handler struct {
	svc *blog_service.Service
}

// NewHandler 是 Handler 的构造函数。
func NewHandler(svc *blog_service.Service) *Handler {
	return &Handler{svc: svc}
}

// ListResponse 文章列表
type ListResponse struct {
	Blogs []*model.PostView `json:"blogs"`
}

// DetailResponse 单篇文章
type DetailResponse struct {
	Blog *model.PostView `json:"blog"`
}

// CreateResponse 创建成功，warnings 只在推荐书籍有问题时出现
type CreateResponse struct {
	Message  string   `json:"message"`
	BlogID   int64    `json:"blog_id"`
	Slug     string   `json:"slug"`
	Warnings []string `json:"warnings,omitempty"`
}

// UpdateResponse 更新成功
type UpdateResponse struct {
	Message  string   `json:"message"`
	Warnings []string `json:"warnings,omitempty"`
}

// List 列出已发布文章；携带 id 或 slug 参数时返回单篇文章
// @Summary      文章列表
// @Tags         文章
// @Produce      json
// @Param        category query string false "分类 slug"
// @Param        tag      query string false "标签"
// @Param        featured query string false "是否精选"
// @Param        search   query string false "全文搜索"
// @Param        limit    query int    false "数量，0 表示全部"
// @Param        offset   query int    false "偏移"
// @Success      200 {object} ListResponse
// @Failure      500 {object} response.ErrorBody
// @Router       /blogs [get]
func (h *Handler) List(c *gin.Context) {
	if id, ok := c.GetQuery("id"); ok {
		h.getByID(c, id)
		return
	}
	if slug, ok := c.GetQuery("slug"); ok {
		h.getBySlug(c, slug)
		return
	}

	filter := model.PostFilter{
		Category: c.Query("category"),
		Tag:      c.Query("tag"),
		Search:   c.Query("search"),
		Limit:    queryInt(c, "limit"),
		Offset:   queryInt(c, "offset"),
	}
	if raw, ok := c.GetQuery("featured"); ok {
		featured := parseBool(raw)
		filter.Featured = &featured
	}

	blogs, err := h.svc.ListPosts(c.Request.Context(), filter)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, prefixQuery+err.Error())
		return
	}
	response.Success(c, ListResponse{Blogs: blogs})
}

// GetByID
// @Summary      按 ID 获取文章
// @Tags         文章
// @Produce      json
// @Param        id path int true "文章ID"
// @Success      200 {object} DetailResponse
// @Failure      404 {object} response.ErrorBody
// @Router       /blogs/{id} [get]
func (h *Handler) GetByID(c *gin.Context) {
	h.getByID(c, c.Param("id"))
}

// GetBySlug
// @Summary      按 slug 获取文章
// @Tags         文章
// @Produce      json
// @Param        slug path string true "文章 slug"
// @Success      200 {object} DetailResponse
// @Failure      404 {object} response.ErrorBody
// @Router       /blogs/slug/{slug} [get]
func (h *Handler) GetBySlug(c *gin.Context) {
	h.getBySlug(c, c.Param("slug"))
}

func (h *Handler) getByID(c *gin.Context, raw string) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusNotFound, msgNotFound)
		return
	}
	blog, err := h.svc.GetPostByID(c.Request.Context(), id)
	h.writeDetail(c, blog, err)
}

func (h *Handler) getBySlug(c *gin.Context, slug string) {
	blog, err := h.svc.GetPostBySlug(c.Request.Context(), slug)
	h.writeDetail(c, blog, err)
}

func (h *Handler) writeDetail(c *gin.Context, blog *model.PostView, err error) {
	if err != nil {
		response.FromError(c, err, msgNotFound, prefixQuery)
		return
	}
	metrics.BlogViewsTotal.Inc()
	response.Success(c, DetailResponse{Blog: blog})
}

// featuredImage 读取可选的封面图。未提交文件时返回 nil, nil
func featuredImage(c *gin.Context) (*blog_service.ImageFile, error) {
	fh, err := c.FormFile("featured_image")
	switch {
	case err == nil:
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return nil, nil
	default:
		return nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	return &blog_service.ImageFile{Reader: f, Filename: fh.Filename}, nil
}

// Create 创建文章，multipart 表单，可附带封面图和 related_books JSON
// @Summary      创建文章
// @Tags         文章管理
// @Accept       multipart/form-data
// @Produce      json
// @Param        title            formData string true  "标题"
// @Param        content          formData string true  "正文 HTML"
// @Param        category_id      formData int    true  "分类ID"
// @Param        featured_image   formData file   false "封面图"
// @Param        related_books    formData string false "推荐书籍 JSON 数组"
// @Success      201 {object} CreateResponse
// @Failure      400 {object} response.ErrorBody
// @Failure      401 {object} response.AuthBody
// @Router       /admin/blogs [post]
func (h *Handler) Create(c *gin.Context) {
	req := model.CreatePostRequest{
		Title:           c.PostForm("title"),
		Content:         c.PostForm("content"),
		Excerpt:         c.PostForm("excerpt"),
		CategoryID:      formInt64(c.PostForm("category_id")),
		Tags:            c.PostForm("tags"),
		MetaTitle:       c.PostForm("meta_title"),
		MetaDescription: c.PostForm("meta_description"),
		IsFeatured:      parseBool(c.PostForm("is_featured")),
		Status:          c.PostForm("status"),
	}

	var extraWarnings []string
	if raw := strings.TrimSpace(c.PostForm("related_books")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.RelatedBooks); err != nil {
			log.Printf("[BlogHandler] related_books 解析失败: %v", err)
			extraWarnings = append(extraWarnings, msgInvalidBook)
		}
	}

	image, err := featuredImage(c)
	if err != nil {
		log.Printf("[BlogHandler] 读取上传文件失败: %v", err)
		response.Fail(c, http.StatusBadRequest, upload.FailMessage)
		return
	}
	if image != nil {
		if closer, ok := image.Reader.(io.Closer); ok {
			defer closer.Close()
		}
	}

	result, err := h.svc.CreatePost(c.Request.Context(), &req, image)
	if err != nil {
		response.FromError(c, err, msgNotFound, prefixCreate)
		return
	}

	response.SuccessWithStatus(c, http.StatusCreated, CreateResponse{
		Message:  "Blog created successfully",
		BlogID:   result.ID,
		Slug:     result.Slug,
		Warnings: append(extraWarnings, result.Warnings...),
	})
}

// Update 整体覆盖文章字段
// @Summary      更新文章
// @Tags         文章管理
// @Accept       json
// @Produce      json
// @Param        body body model.UpdatePostRequest true "文章内容"
// @Success      200 {object} UpdateResponse
// @Failure      400 {object} response.ErrorBody
// @Failure      404 {object} response.ErrorBody
// @Router       /admin/blogs [put]
func (h *Handler) Update(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	req, err := decodeUpdate(body)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	warnings, err := h.svc.UpdatePost(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err, msgNotFound, prefixUpdate)
		return
	}
	response.Success(c, UpdateResponse{Message: "Blog updated successfully", Warnings: warnings})
}

// Delete 删除文章
// @Summary      删除文章
// @Tags         文章管理
// @Produce      json
// @Param        id query int true "文章ID"
// @Success      200 {object} response.MessageBody
// @Failure      400 {object} response.ErrorBody
// @Failure      404 {object} response.ErrorBody
// @Router       /admin/blogs [delete]
func (h *Handler) Delete(c *gin.Context) {
	raw, ok := c.GetQuery("id")
	if !ok || strings.TrimSpace(raw) == "" {
		response.Fail(c, http.StatusBadRequest, msgIDRequired)
		return
	}
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusNotFound, msgNotFound)
		return
	}

	if err := h.svc.DeletePost(c.Request.Context(), id); err != nil {
		response.FromError(c, err, msgNotFound, prefixDelete)
		return
	}
	response.Message(c, "Blog deleted successfully")
}

// decodeUpdate 解析更新请求，同时记录 related_books 字段是否出现。
// is_featured 兼容 true/false 和 0/1
func decodeUpdate(body []byte) (*model.UpdatePostRequest, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}

	var featured json.RawMessage
	if v, ok := fields["is_featured"]; ok {
		featured = v
		delete(fields, "is_featured")
	}
	rest, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}

	var req model.UpdatePostRequest
	if err := json.Unmarshal(rest, &req); err != nil {
		return nil, err
	}
	req.IsFeatured = parseBool(strings.Trim(string(featured), `"`))
	if raw, ok := fields["related_books"]; ok && string(raw) != "null" {
		req.HasRelatedBooks = true
	}
	return &req, nil
}

func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return 0
	}
	return n
}

func formInt64(raw string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// parseBool 1/true/yes/on 视为真，其余为假
func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
