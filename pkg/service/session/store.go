/*
 * @Description: 会话存储接口，支持 Redis 与内存两种实现
 * @Author: 安知鱼
 * @Date: 2025-10-05 00:00:00
 * @LastEditTime: 2025-10-12 17:30:26
 * @LastEditors: 安知鱼
 */
package session

import (
	"context"
	"time"

	"github.com/anzhiyu-c/boganto-blog/pkg/domain/model"
)

// Store 保存服务端会话，以 cookie 中的令牌为键
type Store interface {
	// Get 令牌不存在时返回 nil, nil
	Get(ctx context.Context, token string) (*model.Session, error)
	// Set 写入或覆盖会话，ttl 到期后存储可以自行丢弃
	Set(ctx context.Context, token string, sess *model.Session, ttl time.Duration) error
	// Destroy 删除会话，令牌不存在也不算错误
	Destroy(ctx context.Context, token string) error
}

// Sweeper 由需要主动清理过期会话的存储实现
type Sweeper interface {
	// Sweep 删除在 now 之前已过期的会话，返回删除数量
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// StoreType 会话存储类型
type StoreType string

const (
	StoreTypeRedis  StoreType = "redis"
	StoreTypeMemory StoreType = "memory"
)

// GetStoreType 获取当前使用的存储类型
func GetStoreType(s Store) StoreType {
	switch s.(type) {
	case *redisStore:
		return StoreTypeRedis
	default:
		return StoreTypeMemory
	}
}
