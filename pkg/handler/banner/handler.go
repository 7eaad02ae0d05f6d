package banner

import (
	"net/http"

	"github.com/anzhiyu-c/boganto-blog/pkg/domain/model"
	"github.com/anzhiyu-c/boganto-blog/pkg/response"
	banner_service "github.com/anzhiyu-c/boganto-blog/pkg/service/banner"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *banner_service.Service
}

func NewHandler(svc *banner_service.Service) *Handler {
	return &Handler{svc: svc}
}

// ListResponse 轮播图列表
type ListResponse struct {
	Banners []*model.BannerView `json:"banners"`
}

// List
// @Summary      获取首页轮播图
// @Tags         轮播图
// @Produce      json
// @Success      200 {object} ListResponse
// @Failure      500 {object} response.ErrorBody "服务器内部错误"
// @Router       /banner [get]
func (h *Handler) List(c *gin.Context) {
	banners, err := h.svc.ListActive(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "Database query failed: "+err.Error())
		return
	}
	response.Success(c, ListResponse{Banners: banners})
}
