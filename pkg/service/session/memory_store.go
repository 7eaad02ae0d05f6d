package session

import (
	"context"
	"sync"
	"time"

	"github.com/anzhiyu-c/boganto-blog/pkg/domain/model"
)

// memoryStore 是基于进程内存的会话存储，重启后会话全部失效
type memoryStore struct {
	mu    sync.RWMutex
	items map[string]model.Session
}

// NewMemoryStore 创建内存会话存储
func NewMemoryStore() Store {
	return &memoryStore{items: make(map[string]model.Session)}
}

func (s *memoryStore) Get(_ context.Context, token string) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.items[token]
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

// Set 内存实现不依赖 ttl，过期判断以会话自身的 ExpiresAt 为准
func (s *memoryStore) Set(_ context.Context, token string, sess *model.Session, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[token] = *sess
	return nil
}

func (s *memoryStore) Destroy(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, token)
	return nil
}

func (s *memoryStore) Sweep(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for token, sess := range s.items {
		if sess.Expired(now) {
			delete(s.items, token)
			removed++
		}
	}
	return removed, nil
}
