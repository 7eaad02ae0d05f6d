package repository

import (
	"context"
	"time"

	"github.com/anzhiyu-c/boganto-blog/pkg/domain/model"
)

// AdminRepository 定义了管理员账号的数据仓库接口。
type AdminRepository interface {
	// FindActiveByUsername 只返回 is_active 的账号，未找到返回 constant.ErrNotFound
	FindActiveByUsername(ctx context.Context, username string) (*model.Admin, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	UpdatePassword(ctx context.Context, id int64, password string) error
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, admin *model.Admin) error
}
