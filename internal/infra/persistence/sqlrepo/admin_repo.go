package sqlrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/anzhiyu-c/boganto-blog/pkg/domain/model"
	"github.com/anzhiyu-c/boganto-blog/pkg/domain/repository"

	entsql "entgo.io/ent/dialect/sql"
)

const tableAdmins = "admins"

type adminRepo struct {
	base
}

// NewAdminRepo 是 adminRepo 的构造函数。
func NewAdminRepo(db *sql.DB, dialectName string, debug bool) repository.AdminRepository {
	return &adminRepo{base: newBase(db, dialectName, debug)}
}

func (r *adminRepo) FindActiveByUsername(ctx context.Context, username string) (*model.Admin, error) {
	s := r.builder().
		Select("id", "username", "password", "name", "email", "role", "is_active", "last_login", "created_at").
		From(r.builder().Table(tableAdmins)).
		Where(entsql.And(
			entsql.EQ("username", username),
			entsql.EQ("is_active", true),
		)).
		Limit(1)

	var (
		a                 model.Admin
		name, email, role sql.NullString
		lastLogin         nullTime
		createdAt         nullTime
	)
	err := r.queryRow(ctx, s).Scan(&a.ID, &a.Username, &a.Password, &name, &email, &role, &a.IsActive, &lastLogin, &createdAt)
	if err != nil {
		return nil, mapError(err)
	}
	a.Name = name.String
	a.Email = email.String
	a.Role = role.String
	if lastLogin.Valid {
		t := lastLogin.Time
		a.LastLogin = &t
	}
	a.CreatedAt = createdAt.Time
	return &a, nil
}

func (r *adminRepo) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	u := r.builder().Update(tableAdmins).
		Set("last_login", normalizeTime(at)).
		Where(entsql.EQ("id", id))
	return r.execAffecting(ctx, u)
}

func (r *adminRepo) UpdatePassword(ctx context.Context, id int64, password string) error {
	u := r.builder().Update(tableAdmins).
		Set("password", password).
		Where(entsql.EQ("id", id))
	return r.execAffecting(ctx, u)
}

func (r *adminRepo) Count(ctx context.Context) (int, error) {
	s := r.builder().Select(entsql.Count("*")).From(r.builder().Table(tableAdmins))
	var n int
	if err := r.queryRow(ctx, s).Scan(&n); err != nil {
		return 0, fmt.Errorf("统计管理员数量失败: %w", err)
	}
	return n, nil
}

func (r *adminRepo) Create(ctx context.Context, a *model.Admin) error {
	a.CreatedAt = normalizeTime(a.CreatedAt)
	ins := r.builder().Insert(tableAdmins).
		Columns("username", "password", "name", "email", "role", "is_active", "created_at").
		Values(a.Username, a.Password, a.Name, a.Email, a.Role, a.IsActive, a.CreatedAt)
	id, err := r.insert(ctx, ins)
	if err != nil {
		return err
	}
	a.ID = id
	return nil
}
