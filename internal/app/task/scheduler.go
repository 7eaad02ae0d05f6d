/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-07-12 16:09:46
 * @LastEditTime: 2025-10-13 10:25:12
 * @LastEditors: 安知鱼
 */
package task

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/anzhiyu-c/boganto-blog/pkg/service/session"

	"github.com/robfig/cron/v3"
)

// SessionSweepSchedule 每 10 分钟清理一次过期会话
const SessionSweepSchedule = "0 */10 * * * *"

// Scheduler 封装了 cron 实例和其依赖。
// 它是整个定时任务模块的核心协调者，负责任务的注册、启动和停止。
type Scheduler struct {
	cron         *cron.Cron
	logger       *slog.Logger
	sessionStore session.Store
	entries      map[string]cron.EntryID
}

// NewScheduler 是 Scheduler 的构造函数。
func NewScheduler(sessionStore session.Store) *Scheduler {
	// 为 logger 添加一个固定的 "system":"cron" 属性
	slogHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := slog.New(slogHandler).With("system", "cron")

	c := cron.New(
		cron.WithSeconds(),
		cron.WithChain(
			NewPanicRecoveryWrapper(logger),
			NewLoggingWrapper(logger),
			cron.DelayIfStillRunning(cron.DefaultLogger),
		),
	)

	return &Scheduler{
		cron:         c,
		logger:       logger,
		sessionStore: sessionStore,
		entries:      make(map[string]cron.EntryID),
	}
}

// RegisterJobs 在调度器中注册所有定义好的定时任务。
func (s *Scheduler) RegisterJobs() error {
	s.logger.Info("Registering all periodic jobs...")

	if s.sessionStore != nil {
		if err := s.addJob(SessionSweepSchedule, NewSessionSweepJob(s.sessionStore)); err != nil {
			return err
		}
		s.logger.Info("-> Successfully registered 'SessionSweepJob'", "schedule", "every 10 minutes")
	}

	s.logger.Info("All periodic jobs registered.", "count", len(s.entries))
	return nil
}

func (s *Scheduler) addJob(spec string, job Job) error {
	id, err := s.cron.AddJob(spec, job)
	if err != nil {
		s.logger.Error("Failed to add job", slog.String("job_name", job.Name()), slog.Any("error", err))
		return fmt.Errorf("注册定时任务 '%s' 失败: %w", job.Name(), err)
	}
	s.entries[job.Name()] = id
	return nil
}

// Registered 返回已注册的任务名，主要用于测试和启动日志
func (s *Scheduler) Registered() []string {
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	return names
}

// Start 启动 cron 调度器。
func (s *Scheduler) Start() {
	s.logger.Info("Cron scheduler started.")
	s.cron.Start()
}

// Stop 优雅地停止 cron 调度器，等待正在执行的任务结束。
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron scheduler gracefully stopped.")
}
