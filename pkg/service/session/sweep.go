package session

import (
	"context"
	"time"
)

// SweepExpired 对支持主动清理的存储执行一次清理，其它存储直接返回 0
func SweepExpired(ctx context.Context, s Store, now time.Time) (int, error) {
	if sw, ok := s.(Sweeper); ok {
		return sw.Sweep(ctx, now)
	}
	return 0, nil
}
