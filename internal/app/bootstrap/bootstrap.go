// internal/app/bootstrap/bootstrap.go
package bootstrap

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/anzhiyu-c/boganto-blog/internal/configdef"
	"github.com/anzhiyu-c/boganto-blog/internal/pkg/security"
	"github.com/anzhiyu-c/boganto-blog/pkg/config"
	"github.com/anzhiyu-c/boganto-blog/pkg/constant"
	"github.com/anzhiyu-c/boganto-blog/pkg/domain/model"
	"github.com/anzhiyu-c/boganto-blog/pkg/domain/repository"
)

// AdminSeed 是管理员表为空时用于创建第一个账号的数据
type AdminSeed struct {
	Username string
	Password string
	Name     string
	Email    string
}

// AdminSeedFromConfig 从 Admin.* 配置项读取初始管理员
func AdminSeedFromConfig(cfg *config.Config) AdminSeed {
	return AdminSeed{
		Username: cfg.GetString(config.KeyAdminUsername),
		Password: cfg.GetString(config.KeyAdminPassword),
		Name:     cfg.GetString(config.KeyAdminName),
		Email:    cfg.GetString(config.KeyAdminEmail),
	}
}

type Bootstrapper struct {
	adminRepo    repository.AdminRepository
	categoryRepo repository.CategoryRepository
	seed         AdminSeed
}

func NewBootstrapper(adminRepo repository.AdminRepository, categoryRepo repository.CategoryRepository, seed AdminSeed) *Bootstrapper {
	return &Bootstrapper{
		adminRepo:    adminRepo,
		categoryRepo: categoryRepo,
		seed:         seed,
	}
}

// InitializeDatabase 在 schema 迁移之后写入默认数据，已有数据时不做任何修改
func (b *Bootstrapper) InitializeDatabase(ctx context.Context) error {
	log.Println("--- 开始执行数据库初始化引导程序 ---")

	if err := b.initCategories(ctx); err != nil {
		return err
	}
	if err := b.initAdmin(ctx); err != nil {
		return err
	}

	log.Println("--- 数据库初始化引导程序执行完成 ---")
	return nil
}

// initCategories 只在分类表为空时写入默认分类
func (b *Bootstrapper) initCategories(ctx context.Context) error {
	existing, err := b.categoryRepo.ListWithCounts(ctx, 1)
	if err != nil {
		return fmt.Errorf("查询分类失败: %w", err)
	}
	if len(existing) > 0 {
		log.Println("--- 分类表已有数据，跳过默认分类初始化。---")
		return nil
	}

	created := 0
	for _, def := range configdef.AllCategories {
		category := &model.Category{
			Name:        def.Name,
			Slug:        def.Slug,
			Description: def.Description,
		}
		if err := b.categoryRepo.Create(ctx, category); err != nil {
			log.Printf("⚠️ 失败: 创建默认分类 '%s' 失败: %v", def.Name, err)
			continue
		}
		created++
	}
	log.Printf("--- 默认分类初始化完成，共创建 %d 个分类。---", created)
	return nil
}

// initAdmin 只在管理员表为空时创建账号，口令总是以 bcrypt 哈希保存
func (b *Bootstrapper) initAdmin(ctx context.Context) error {
	count, err := b.adminRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("查询管理员数量失败: %w", err)
	}
	if count > 0 {
		return nil
	}

	username := strings.TrimSpace(b.seed.Username)
	if username == "" || b.seed.Password == "" {
		log.Println("⚠️ 管理员表为空，但未配置 Admin.Username / Admin.Password，跳过初始管理员创建。")
		log.Println("   可以使用 -hash-password 生成哈希后手动写入 admins 表。")
		return nil
	}

	hashed, err := security.HashPassword(b.seed.Password)
	if err != nil {
		return fmt.Errorf("生成管理员口令哈希失败: %w", err)
	}

	admin := &model.Admin{
		Username: username,
		Password: hashed,
		Name:     b.seed.Name,
		Email:    b.seed.Email,
		Role:     constant.RoleAdmin,
		IsActive: true,
	}
	if err := b.adminRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("创建初始管理员失败: %w", err)
	}
	log.Printf("✅ 已创建初始管理员账号: %s", username)
	return nil
}
