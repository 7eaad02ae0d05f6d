/*
 * @Description: 频率限制中间件
 * @Author: 安知鱼
 * @Date: 2025-11-08 00:00:00
 * @LastEditTime: 2025-10-14 18:02:40
 * @LastEditors: 安知鱼
 */
package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/anzhiyu-c/boganto-blog/pkg/response"
	"github.com/anzhiyu-c/boganto-blog/pkg/util"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// staleAfter 超过该时间未访问的限流器会被清理
const staleAfter = 10 * time.Minute

// ipRateLimiter 用于存储每个IP地址的限流器
type ipRateLimiter struct {
	limiters map[string]*limiterInfo
	mu       sync.Mutex
	// 每个IP每分钟允许的请求数
	requestsPerMinute int
	// 突发请求数（允许短时间内的突发流量）
	burst int
	now   func() time.Time
}

// limiterInfo 存储限流器及其最后访问时间
type limiterInfo struct {
	limiter      *rate.Limiter
	lastAccessed time.Time
}

// newIPRateLimiter 创建一个新的IP限流器
func newIPRateLimiter(requestsPerMinute, burst int) *ipRateLimiter {
	if burst <= 0 {
		burst = requestsPerMinute
	}
	return &ipRateLimiter{
		limiters:          make(map[string]*limiterInfo),
		requestsPerMinute: requestsPerMinute,
		burst:             burst,
		now:               time.Now,
	}
}

// getLimiter 获取指定IP的限流器
func (i *ipRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	info, exists := i.limiters[ip]
	if !exists {
		limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(i.requestsPerMinute)), i.burst)
		info = &limiterInfo{limiter: limiter}
		i.limiters[ip] = info
	}
	info.lastAccessed = i.now()
	return info.limiter
}

// sweep 删除长时间未使用的限流器，返回删除数量
func (i *ipRateLimiter) sweep() int {
	i.mu.Lock()
	defer i.mu.Unlock()

	removed := 0
	for ip, info := range i.limiters {
		if i.now().Sub(info.lastAccessed) > staleAfter {
			delete(i.limiters, ip)
			removed++
		}
	}
	return removed
}

// runCleanup 定期清理，直到 ctx 结束
func (i *ipRateLimiter) runCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			i.sweep()
		}
	}
}

// CustomRateLimit 创建一个按客户端 IP 限流的中间件。
// requestsPerMinute <= 0 时不限流
func CustomRateLimit(ctx context.Context, requestsPerMinute, burst int) gin.HandlerFunc {
	if requestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := newIPRateLimiter(requestsPerMinute, burst)
	go limiter.runCleanup(ctx, 5*time.Minute)

	return func(c *gin.Context) {
		if !limiter.getLimiter(util.GetRealClientIP(c)).Allow() {
			response.Fail(c, http.StatusTooManyRequests, "Too many requests, please try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}
