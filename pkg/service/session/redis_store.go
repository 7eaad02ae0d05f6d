package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/anzhiyu-c/boganto-blog/pkg/domain/model"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix 是会话在 Redis 中的键前缀
const KeyPrefix = "boganto:session:"

// redisStore 把会话序列化为 JSON 存入 Redis，依赖键的 TTL 自动过期，适合多实例部署
type redisStore struct {
	client *redis.Client
}

// NewRedisStore 通过依赖注入接收 Redis 客户端
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func key(token string) string {
	return KeyPrefix + token
}

func (s *redisStore) Get(ctx context.Context, token string) (*model.Session, error) {
	raw, err := s.client.Get(ctx, key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("读取会话失败: %w", err)
	}
	var sess model.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("解析会话失败: %w", err)
	}
	return &sess, nil
}

func (s *redisStore) Set(ctx context.Context, token string, sess *model.Session, ttl time.Duration) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("序列化会话失败: %w", err)
	}
	// 已过期的会话不再写入
	if ttl <= 0 {
		return s.client.Del(ctx, key(token)).Err()
	}
	return s.client.Set(ctx, key(token), raw, ttl).Err()
}

func (s *redisStore) Destroy(ctx context.Context, token string) error {
	return s.client.Del(ctx, key(token)).Err()
}
