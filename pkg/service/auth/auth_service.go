/*
 * @Description: 管理员会话认证服务
 * @Author: 安知鱼
 * @Date: 2025-08-22 12:41:16
 * @LastEditTime: 2025-10-12 18:06:39
 * @LastEditors: 安知鱼
 */
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/anzhiyu-c/boganto-blog/internal/pkg/security"
	"github.com/anzhiyu-c/boganto-blog/internal/pkg/utils"
	"github.com/anzhiyu-c/boganto-blog/pkg/constant"
	"github.com/anzhiyu-c/boganto-blog/pkg/domain/model"
	"github.com/anzhiyu-c/boganto-blog/pkg/domain/repository"
	"github.com/anzhiyu-c/boganto-blog/pkg/service/session"
)

const (
	// DefaultLifetime 会话从登录起的绝对有效期
	DefaultLifetime = 24 * time.Hour
	// DefaultFailDelay 登录失败后的固定延迟，用于减缓暴力破解
	DefaultFailDelay = time.Second
)

// AuthService 定义了管理员登录、会话检查和退出的业务逻辑接口
type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	CheckStatus(ctx context.Context, token string) (*model.SessionStatus, error)
	Logout(ctx context.Context, token string) error
}

// LoginResult 是登录成功后的结果，Token 需要写入 cookie
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Profile   *model.AdminProfile
}

// Options 认证服务的可调参数
type Options struct {
	Lifetime               time.Duration
	FailDelay              time.Duration
	AllowLegacyPlaintext   bool
	UpgradeLegacyPasswords bool

	// 以下字段主要用于测试注入，为空时使用默认实现
	Now      func() time.Time
	Sleep    func(ctx context.Context, d time.Duration) error
	NewToken func() (string, error)
}

// authService 是 AuthService 接口的实现
type authService struct {
	adminRepo repository.AdminRepository
	store     session.Store
	verifiers security.VerifierChain
	opts      Options
}

// NewAuthService 是 authService 的构造函数
func NewAuthService(adminRepo repository.AdminRepository, store session.Store, opts Options) AuthService {
	if opts.Lifetime <= 0 {
		opts.Lifetime = DefaultLifetime
	}
	if opts.FailDelay < 0 {
		opts.FailDelay = 0
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC().Truncate(time.Second) }
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}
	if opts.NewToken == nil {
		opts.NewToken = utils.NewSessionToken
	}
	return &authService{
		adminRepo: adminRepo,
		store:     store,
		verifiers: security.NewVerifierChain(opts.AllowLegacyPlaintext),
		opts:      opts,
	}
}

// Login 校验用户名和口令，成功后创建新的会话
func (s *authService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, constant.NewValidationError("Username and password are required")
	}

	admin, err := s.adminRepo.FindActiveByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, constant.ErrNotFound) {
			return nil, s.fail(ctx, username, "账号不存在或已停用")
		}
		return nil, fmt.Errorf("查询管理员失败: %w", err)
	}

	ok, strategy := s.verifiers.Verify(password, admin.Password)
	if !ok {
		return nil, s.fail(ctx, username, "口令不匹配")
	}

	now := s.opts.Now()
	if err := s.adminRepo.UpdateLastLogin(ctx, admin.ID, now); err != nil {
		return nil, fmt.Errorf("更新最后登录时间失败: %w", err)
	}

	if strategy == "plaintext" {
		s.upgradeLegacyPassword(ctx, admin, password)
	}

	token, err := s.opts.NewToken()
	if err != nil {
		return nil, fmt.Errorf("生成会话令牌失败: %w", err)
	}
	sess := &model.Session{
		AdminID:      admin.ID,
		Username:     admin.Username,
		LoginTime:    now,
		LastActivity: now,
		ExpiresAt:    now.Add(s.opts.Lifetime),
	}
	if err := s.store.Set(ctx, token, sess, s.opts.Lifetime); err != nil {
		return nil, fmt.Errorf("保存会话失败: %w", err)
	}

	log.Printf("[Auth] 管理员 '%s' 登录成功 (校验方式: %s)", admin.Username, strategy)
	return &LoginResult{
		Token:     token,
		ExpiresAt: sess.ExpiresAt,
		Profile: &model.AdminProfile{
			ID:        admin.ID,
			Username:  admin.Username,
			Name:      admin.Name,
			Email:     admin.Email,
			Role:      admin.Role,
			LoginTime: now.Format(model.TimeLayout),
		},
	}, nil
}

// fail 统一处理登录失败：等待固定延迟后返回 ErrUnauthorized
func (s *authService) fail(ctx context.Context, username, reason string) error {
	log.Printf("[Auth] 管理员 '%s' 登录失败: %s", username, reason)
	if err := s.opts.Sleep(ctx, s.opts.FailDelay); err != nil {
		return err
	}
	return constant.ErrUnauthorized
}

// upgradeLegacyPassword 明文口令登录成功后按配置改写为 bcrypt 哈希，失败不影响登录
func (s *authService) upgradeLegacyPassword(ctx context.Context, admin *model.Admin, password string) {
	if !s.opts.UpgradeLegacyPasswords {
		log.Printf("[Auth] 警告: 管理员 '%s' 仍在使用明文口令，建议使用 -hash-password 生成哈希", admin.Username)
		return
	}
	hash, err := security.HashPassword(password)
	if err != nil {
		log.Printf("[Auth] 为管理员 '%s' 生成口令哈希失败: %v", admin.Username, err)
		return
	}
	if err := s.adminRepo.UpdatePassword(ctx, admin.ID, hash); err != nil {
		log.Printf("[Auth] 升级管理员 '%s' 的口令失败: %v", admin.Username, err)
		return
	}
	log.Printf("[Auth] 管理员 '%s' 的明文口令已升级为 bcrypt 哈希", admin.Username)
}

// CheckStatus 检查会话。已过期的会话会被销毁，有效会话刷新最后活动时间
func (s *authService) CheckStatus(ctx context.Context, token string) (*model.SessionStatus, error) {
	if token == "" {
		return &model.SessionStatus{}, nil
	}
	sess, err := s.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return &model.SessionStatus{}, nil
	}

	now := s.opts.Now()
	if sess.Expired(now) {
		if err := s.store.Destroy(ctx, token); err != nil {
			return nil, err
		}
		return &model.SessionStatus{}, nil
	}

	sess.LastActivity = now
	if err := s.store.Set(ctx, token, sess, sess.ExpiresAt.Sub(now)); err != nil {
		return nil, err
	}
	return &model.SessionStatus{
		LoggedIn:     true,
		Username:     sess.Username,
		LoginTime:    sess.LoginTime,
		LastActivity: sess.LastActivity,
	}, nil
}

// Logout 无条件销毁会话
func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.store.Destroy(ctx, token)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
