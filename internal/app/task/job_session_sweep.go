package task

import (
	"context"
	"log"
	"time"

	"github.com/anzhiyu-c/boganto-blog/internal/pkg/metrics"
	"github.com/anzhiyu-c/boganto-blog/pkg/service/session"
)

// sessionSweepTimeout 单次清理的最长耗时
const sessionSweepTimeout = 30 * time.Second

// SessionSweepJob 定期清除内存会话存储中已过期的会话。
// Redis 存储依赖键的 TTL 自动过期，对它执行时什么也不做
type SessionSweepJob struct {
	store session.Store
	now   func() time.Time
}

// NewSessionSweepJob 是任务的构造函数。
func NewSessionSweepJob(store session.Store) *SessionSweepJob {
	return &SessionSweepJob{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Run 是 Job 接口要求实现的方法。
func (j *SessionSweepJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), sessionSweepTimeout)
	defer cancel()

	removed, err := session.SweepExpired(ctx, j.store, j.now())
	if err != nil {
		log.Printf("错误: 任务 '%s' 清理过期会话失败: %v", j.Name(), err)
		return
	}
	if removed > 0 {
		metrics.SessionsSweptTotal.Add(float64(removed))
		log.Printf("任务 '%s' 执行完毕，清理了 %d 个过期会话。", j.Name(), removed)
	}
}

// Name 方法返回任务的可读名称。
func (j *SessionSweepJob) Name() string {
	return "SessionSweepJob"
}
