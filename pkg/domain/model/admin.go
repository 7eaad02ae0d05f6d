/*
 * @Description: 管理员账号与会话模型
 * @Author: 安知鱼
 * @Date: 2025-06-15 11:30:55
 * @LastEditTime: 2025-10-12 09:48:26
 * @LastEditors: 安知鱼
 */
package model

import "time"

// Admin 是后台管理员账号，对应 admins 表。
// Password 可能是 bcrypt 哈希，也可能是历史遗留的明文
type Admin struct {
	ID        int64
	Username  string
	Password  string
	Name      string
	Email     string
	Role      string
	IsActive  bool
	LastLogin *time.Time
	CreatedAt time.Time
}

// Session 是服务端保存的登录会话，以 cookie 中的不透明令牌为键
type Session struct {
	AdminID      int64     `json:"admin_id"`
	Username     string    `json:"username"`
	LoginTime    time.Time `json:"login_time"`
	LastActivity time.Time `json:"last_activity"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired 判断会话在给定时间点是否已过期，到达 ExpiresAt 即视为过期
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// --- API 数据传输对象 (Data Transfer Objects) ---

// LoginRequest 是登录请求体
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AdminProfile 是登录成功后返回的公开资料
type AdminProfile struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	LoginTime string `json:"login_time"`
}

// SessionStatus 是会话检查的结果
type SessionStatus struct {
	LoggedIn     bool
	Username     string
	LoginTime    time.Time
	LastActivity time.Time
}

// SessionUserView 是状态接口中的用户信息
type SessionUserView struct {
	Username     string `json:"username"`
	LoginTime    string `json:"login_time"`
	LastActivity string `json:"last_activity"`
}

func (s *SessionStatus) UserView() *SessionUserView {
	return &SessionUserView{
		Username:     s.Username,
		LoginTime:    formatTime(s.LoginTime),
		LastActivity: formatTime(s.LastActivity),
	}
}
