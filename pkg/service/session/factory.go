package session

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

// NewStoreWithFallback 创建带有自动降级功能的会话存储
// 如果 redisClient 为 nil 或不可用，自动降级到内存存储
func NewStoreWithFallback(redisClient *redis.Client) Store {
	if redisClient == nil {
		log.Println("🔄 使用内存会话存储（Memory Session Store）")
		return NewMemoryStore()
	}

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Printf("⚠️  Redis 不可用: %v，降级到内存会话存储", err)
		return NewMemoryStore()
	}

	log.Println("✅ 使用 Redis 会话存储")
	return NewRedisStore(redisClient)
}
