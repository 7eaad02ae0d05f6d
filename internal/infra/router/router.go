/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-06-15 11:30:55
 * @LastEditTime: 2025-10-15 10:26:37
 * @LastEditors: 安知鱼
 */
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/anzhiyu-c/boganto-blog/internal/app/middleware"
	"github.com/anzhiyu-c/boganto-blog/pkg/response"

	auth_handler "github.com/anzhiyu-c/boganto-blog/pkg/handler/auth"
	banner_handler "github.com/anzhiyu-c/boganto-blog/pkg/handler/banner"
	blog_handler "github.com/anzhiyu-c/boganto-blog/pkg/handler/blog"
	category_handler "github.com/anzhiyu-c/boganto-blog/pkg/handler/category"
)

// NoCacheMiddleware 全局反缓存中间件，确保所有API响应都不会被CDN缓存
func NoCacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate, private, max-age=0")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Next()
	}
}

// Router 封装了应用的所有路由和其依赖的处理器。
type Router struct {
	authHandler     *auth_handler.AuthHandler
	blogHandler     *blog_handler.Handler
	categoryHandler *category_handler.Handler
	bannerHandler   *banner_handler.Handler
	mw              *middleware.Middleware

	// uploadDir 非空时在 /uploads 下提供本地图片
	uploadDir string
	// apiLimiter 作用于 /api 分组，可为 nil
	apiLimiter gin.HandlerFunc
}

// NewRouter 是 Router 的构造函数，通过依赖注入接收所有处理器。
func NewRouter(
	authHandler *auth_handler.AuthHandler,
	blogHandler *blog_handler.Handler,
	categoryHandler *category_handler.Handler,
	bannerHandler *banner_handler.Handler,
	mw *middleware.Middleware,
	uploadDir string,
	apiLimiter gin.HandlerFunc,
) *Router {
	return &Router{
		authHandler:     authHandler,
		blogHandler:     blogHandler,
		categoryHandler: categoryHandler,
		bannerHandler:   bannerHandler,
		mw:              mw,
		uploadDir:       uploadDir,
		apiLimiter:      apiLimiter,
	}
}

// Setup 将所有路由注册到 Gin 引擎。
func (r *Router) Setup(engine *gin.Engine) {
	engine.HandleMethodNotAllowed = true
	engine.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, "Route not found: "+c.Request.URL.Path)
	})
	engine.NoMethod(func(c *gin.Context) {
		response.Fail(c, http.StatusMethodNotAllowed, "Method not allowed")
	})

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if r.uploadDir != "" {
		engine.Static("/uploads", r.uploadDir)
	}

	apiGroup := engine.Group("/api")
	apiGroup.Use(NoCacheMiddleware())
	if r.apiLimiter != nil {
		apiGroup.Use(r.apiLimiter)
	}

	r.registerBlogRoutes(apiGroup)
	r.registerCategoryRoutes(apiGroup)
	r.registerBannerRoutes(apiGroup)
	r.registerAuthRoutes(apiGroup)
	r.registerAdminRoutes(apiGroup)
	r.registerLegacyRoutes(apiGroup)
}

func (r *Router) registerBlogRoutes(api *gin.RouterGroup) {
	blogs := api.Group("/blogs")
	{
		blogs.GET("", r.blogHandler.List)
		blogs.GET("/:id", r.blogHandler.GetByID)
		blogs.GET("/slug/:slug", r.blogHandler.GetBySlug)
	}
}

func (r *Router) registerCategoryRoutes(api *gin.RouterGroup) {
	api.GET("/categories", r.categoryHandler.List)
}

func (r *Router) registerBannerRoutes(api *gin.RouterGroup) {
	api.GET("/banner", r.bannerHandler.List)
}

func (r *Router) registerAuthRoutes(api *gin.RouterGroup) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.GET("/login", r.authHandler.Status)
		authGroup.DELETE("/login", r.authHandler.Logout)
	}
}

func (r *Router) registerAdminRoutes(api *gin.RouterGroup) {
	admin := api.Group("/admin", r.mw.RequireAuthenticated())
	{
		admin.POST("/blogs", r.blogHandler.Create)
		admin.PUT("/blogs", r.blogHandler.Update)
		admin.DELETE("/blogs", r.blogHandler.Delete)
	}
}

// registerLegacyRoutes 兼容旧前端直接请求 .php 文件的地址
func (r *Router) registerLegacyRoutes(api *gin.RouterGroup) {
	api.GET("/getBlogs.php", r.blogHandler.List)
	api.GET("/getCategories.php", r.categoryHandler.List)
	api.GET("/getBanner.php", r.bannerHandler.List)

	legacyAdmin := api.Group("/addBlog.php", r.mw.RequireAuthenticated())
	{
		legacyAdmin.POST("", r.blogHandler.Create)
		legacyAdmin.PUT("", r.blogHandler.Update)
		legacyAdmin.DELETE("", r.blogHandler.Delete)
	}

	api.POST("/login.php", r.authHandler.Login)
	api.GET("/login.php", r.authHandler.Status)
	api.DELETE("/login.php", r.authHandler.Logout)
}
