package category

import (
	"net/http"
	"strconv"

	"github.com/anzhiyu-c/boganto-blog/pkg/domain/model"
	"github.com/anzhiyu-c/boganto-blog/pkg/response"
	category_service "github.com/anzhiyu-c/boganto-blog/pkg/service/category"

	"github.com/gin-gonic/gin"
)

// Handler 封装了所有与文章分类相关的 HTTP 处理器。
type Handler struct {
	svc *category_service.Service
}

// NewHandler 是 Handler 的构造函数。
func NewHandler(svc *category_service.Service) *Handler {
	return &Handler{svc: svc}
}

// ListResponse 分类列表
type ListResponse struct {
	Categories []*model.CategoryView `json:"categories"`
}

// List
// @Summary      获取文章分类列表
// @Description  返回所有分类及其已发布文章数，按名称排序
// @Tags         文章分类
// @Produce      json
// @Param        limit query int false "最多返回的分类数"
// @Success      200 {object} ListResponse
// @Failure      500 {object} response.ErrorBody "服务器内部错误"
// @Router       /categories [get]
func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	categories, err := h.svc.List(c.Request.Context(), limit)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "Database query failed: "+err.Error())
		return
	}
	response.Success(c, ListResponse{Categories: categories})
}
