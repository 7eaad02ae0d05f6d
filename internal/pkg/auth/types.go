/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-08-11 18:38:27
 * @LastEditTime: 2025-10-14 19:10:21
 * @LastEditors: 安知鱼
 */
package auth

import "time"

// SessionKey 是在 gin.Context 中存放 *model.SessionStatus 的键。
const SessionKey = "session_status"

// CookieOptions 描述会话 Cookie 的属性
type CookieOptions struct {
	Name     string
	Domain   string
	Secure   bool
	Lifetime time.Duration
}
