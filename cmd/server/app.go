/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-10-17 10:35:28
 * @LastEditTime: 2025-10-16 16:15:28
 * @LastEditors: 安知鱼
 */
// boganto-blog/cmd/server/app.go
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/anzhiyu-c/boganto-blog/internal/app/bootstrap"
	"github.com/anzhiyu-c/boganto-blog/internal/app/middleware"
	"github.com/anzhiyu-c/boganto-blog/internal/app/task"
	"github.com/anzhiyu-c/boganto-blog/internal/infra/persistence/database"
	"github.com/anzhiyu-c/boganto-blog/internal/infra/persistence/sqlrepo"
	"github.com/anzhiyu-c/boganto-blog/internal/infra/router"
	"github.com/anzhiyu-c/boganto-blog/internal/infra/storage"
	"github.com/anzhiyu-c/boganto-blog/internal/pkg/auth"
	"github.com/anzhiyu-c/boganto-blog/internal/pkg/version"
	"github.com/anzhiyu-c/boganto-blog/pkg/config"
	auth_handler "github.com/anzhiyu-c/boganto-blog/pkg/handler/auth"
	banner_handler "github.com/anzhiyu-c/boganto-blog/pkg/handler/banner"
	blog_handler "github.com/anzhiyu-c/boganto-blog/pkg/handler/blog"
	category_handler "github.com/anzhiyu-c/boganto-blog/pkg/handler/category"
	service_auth "github.com/anzhiyu-c/boganto-blog/pkg/service/auth"
	banner_service "github.com/anzhiyu-c/boganto-blog/pkg/service/banner"
	blog_service "github.com/anzhiyu-c/boganto-blog/pkg/service/blog"
	category_service "github.com/anzhiyu-c/boganto-blog/pkg/service/category"
	"github.com/anzhiyu-c/boganto-blog/pkg/service/session"
	"github.com/anzhiyu-c/boganto-blog/pkg/service/upload"
)

// trustedProxies 与常见的反向代理部署保持一致
var trustedProxies = []string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}

// App 结构体，用于封装应用的所有核心组件
type App struct {
	cfg          *config.Config
	engine       *gin.Engine
	scheduler    *task.Scheduler
	sqlDB        *sql.DB
	redisClient  *redis.Client
	sessionStore session.Store
	authSvc      service_auth.AuthService
	blogSvc      *blog_service.Service

	// cancel 用于停止限流器的后台清理协程
	cancel context.CancelFunc
}

func (a *App) PrintBanner() {
	banner := `

  ____                         _
 | __ )  ___   __ _  __ _ _ __ | |_ ___
 |  _ \ / _ \ / _' |/ _' | '_ \| __/ _ \
 | |_) | (_) | (_| | (_| | | | | || (_) |
 |____/ \___/ \__, |\__,_|_| |_|\__\___/
              |___/

`
	log.Println(banner)
	log.Println("--------------------------------------------------------")
	log.Printf(" Boganto Blog API - Version: %s", version.GetVersionString())
	log.Printf(" 会话存储: %s", session.GetStoreType(a.sessionStore))
	log.Println("--------------------------------------------------------")
}

// NewApp 是应用的构造函数，它执行所有的初始化和依赖注入工作。
// configPath 为空时使用默认配置文件路径
func NewApp(configPath string) (*App, func(), error) {
	if configPath == "" {
		configPath = config.DefaultConfigPath
	}

	// --- Phase 1: 加载外部配置 ---
	cfg, err := config.NewConfigFromFile(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("加载配置失败: %w", err)
	}
	return newAppWithConfig(cfg)
}

// NewAppFromConfig 使用已加载的配置构建应用，主要用于测试
func NewAppFromConfig(cfg *config.Config) (*App, func(), error) {
	return newAppWithConfig(cfg)
}

func newAppWithConfig(cfg *config.Config) (*App, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	fail := func(err error) (*App, func(), error) {
		cancel()
		return nil, nil, err
	}

	// --- Phase 2: 初始化基础设施 ---
	sqlDB, err := database.NewSQLDB(cfg)
	if err != nil {
		return fail(fmt.Errorf("创建数据库连接池失败: %w", err))
	}

	dbType := database.NormalizeType(cfg.GetString(config.KeyDBType))
	dialectName, err := database.Dialect(dbType)
	if err != nil {
		sqlDB.Close()
		return fail(err)
	}
	if err := database.NewMigrationService(sqlDB, dbType).RunMigrations(ctx); err != nil {
		sqlDB.Close()
		return fail(fmt.Errorf("数据库迁移失败: %w", err))
	}

	redisClient, err := database.NewRedisClient(ctx, cfg)
	if err != nil {
		sqlDB.Close()
		return fail(fmt.Errorf("连接 Redis 失败: %w", err))
	}
	sessionStore := session.NewStoreWithFallback(redisClient)

	closeInfra := func() {
		sqlDB.Close()
		if redisClient != nil {
			redisClient.Close()
		}
	}

	// --- Phase 3: 初始化数据仓库层 ---
	dbDebug := cfg.GetBool(config.KeyDBDebug)
	postRepo := sqlrepo.NewPostRepo(sqlDB, dialectName, dbDebug)
	relatedBookRepo := sqlrepo.NewRelatedBookRepo(sqlDB, dialectName, dbDebug)
	categoryRepo := sqlrepo.NewCategoryRepo(sqlDB, dialectName, dbDebug)
	bannerRepo := sqlrepo.NewBannerRepo(sqlDB, dialectName, dbDebug)
	adminRepo := sqlrepo.NewAdminRepo(sqlDB, dialectName, dbDebug)

	// --- Phase 4: 写入默认数据 ---
	bootstrapper := bootstrap.NewBootstrapper(adminRepo, categoryRepo, bootstrap.AdminSeedFromConfig(cfg))
	if err := bootstrapper.InitializeDatabase(ctx); err != nil {
		closeInfra()
		return fail(fmt.Errorf("数据库初始化失败: %w", err))
	}

	// --- Phase 5: 初始化存储与业务逻辑层 ---
	provider, err := storage.NewProvider(ctx, storage.SettingsFromConfig(cfg))
	if err != nil {
		closeInfra()
		return fail(fmt.Errorf("初始化图片存储失败: %w", err))
	}
	imageSvc := upload.NewImageService(provider, upload.Options{
		MaxBytes: int64(cfg.GetInt(config.KeyUploadMaxSizeMB)) << 20,
		MaxWidth: cfg.GetInt(config.KeyUploadMaxWidth),
	})

	authSvc := service_auth.NewAuthService(adminRepo, sessionStore, service_auth.Options{
		Lifetime:               cfg.GetDuration(config.KeySessionLifetime),
		FailDelay:              cfg.GetDuration(config.KeyAuthLoginFailDelay),
		AllowLegacyPlaintext:   cfg.GetBool(config.KeyAuthAllowLegacyPlaintext),
		UpgradeLegacyPasswords: cfg.GetBool(config.KeyAuthUpgradeLegacyPasswords),
	})
	blogSvc := blog_service.NewService(postRepo, relatedBookRepo, imageSvc)
	categorySvc := category_service.NewService(categoryRepo)
	bannerSvc := banner_service.NewService(bannerRepo)

	// --- Phase 6: 初始化表现层 (Handlers) 与中间件 ---
	cookie := cookieOptionsFromConfig(cfg)
	mw := middleware.NewMiddleware(authSvc, cookie)
	authHandler := auth_handler.NewAuthHandler(authSvc, cookie)
	blogHandler := blog_handler.NewHandler(blogSvc)
	categoryHandler := category_handler.NewHandler(categorySvc)
	bannerHandler := banner_handler.NewHandler(bannerSvc)

	rateLimit := cfg.GetInt(config.KeyServerRateLimit)
	apiLimiter := middleware.CustomRateLimit(ctx, rateLimit, rateLimitBurst(rateLimit))

	// 只有本地驱动需要由本服务提供图片文件
	uploadDir := ""
	if local, ok := provider.(*storage.LocalProvider); ok {
		uploadDir = local.BaseDir()
	}

	appRouter := router.NewRouter(
		authHandler,
		blogHandler,
		categoryHandler,
		bannerHandler,
		mw,
		uploadDir,
		apiLimiter,
	)

	// --- Phase 7: 配置 Gin 引擎 ---
	if cfg.GetBool(config.KeyServerDebug) {
		gin.SetMode(gin.DebugMode)
		log.Println("运行模式: Debug (Gin 将打印详细路由日志)")
	} else {
		gin.SetMode(gin.ReleaseMode)
		log.Println("运行模式: Release (Gin 启动日志已禁用)")
	}

	engine := gin.Default()
	if err := engine.SetTrustedProxies(trustedProxies); err != nil {
		closeInfra()
		return fail(fmt.Errorf("设置信任代理失败: %w", err))
	}
	engine.ForwardedByClientIP = true
	engine.Use(middleware.Cors(), middleware.Metrics())
	appRouter.Setup(engine)

	// --- Phase 8: 后台任务 ---
	scheduler := task.NewScheduler(sessionStore)

	app := &App{
		cfg:          cfg,
		engine:       engine,
		scheduler:    scheduler,
		sqlDB:        sqlDB,
		redisClient:  redisClient,
		sessionStore: sessionStore,
		authSvc:      authSvc,
		blogSvc:      blogSvc,
		cancel:       cancel,
	}

	cleanup := func() {
		log.Println("执行清理操作：关闭数据库连接...")
		cancel()
		sqlDB.Close()
		if redisClient != nil {
			log.Println("关闭 Redis 连接...")
			redisClient.Close()
		}
	}

	return app, cleanup, nil
}

// cookieOptionsFromConfig 读取 Session.* 配置项
func cookieOptionsFromConfig(cfg *config.Config) auth.CookieOptions {
	name := cfg.GetString(config.KeySessionCookieName)
	if name == "" {
		name = auth.DefaultCookieName
	}
	lifetime := cfg.GetDuration(config.KeySessionLifetime)
	if lifetime <= 0 {
		lifetime = service_auth.DefaultLifetime
	}
	return auth.CookieOptions{
		Name:     name,
		Domain:   cfg.GetString(config.KeySessionDomain),
		Secure:   cfg.GetBool(config.KeySessionSecure),
		Lifetime: lifetime,
	}
}

// rateLimitBurst 允许短时间内的突发请求，约为每分钟配额的十分之一
func rateLimitBurst(requestsPerMinute int) int {
	if requestsPerMinute <= 0 {
		return 0
	}
	burst := requestsPerMinute / 10
	if burst < 1 {
		burst = 1
	}
	return burst
}

func (a *App) Config() *config.Config {
	return a.cfg
}

func (a *App) Engine() *gin.Engine {
	return a.engine
}

func (a *App) Run() error {
	if err := a.scheduler.RegisterJobs(); err != nil {
		return err
	}
	a.scheduler.Start()

	port := a.cfg.GetString(config.KeyServerPort)
	if port == "" {
		port = "8000"
	}
	fmt.Printf("应用程序启动成功，正在监听端口: %s\n", port)

	return a.engine.Run(":" + port)
}

func (a *App) Stop() {
	if a.scheduler != nil {
		a.scheduler.Stop()
		log.Println("任务调度器已停止。")
	}
	if a.cancel != nil {
		a.cancel()
	}
}
