// pkg/util/ip.go
package util

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// cdnHeaders 是常见 CDN 写入真实客户端地址的头部，按优先级排列。
// 支持 Cloudflare、腾讯云 EdgeOne、阿里云 CDN/ESA
var cdnHeaders = []string{
	"CF-Connecting-IP",
	"EO-Connecting-IP",
	"Ali-CDN-Real-IP",
	"True-Client-IP",
}

var privateNets = mustParseCIDRs(
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"127.0.0.0/8",
	"::1/128",
	"fc00::/7",
)

// GetRealClientIP 获取客户端真实IP地址。
// 只有直连方是内网或本机地址（即反向代理）时才采信 CDN 头部，否则头部可被客户端伪造。
// 其余情况交给 gin 的 ClientIP，它按引擎的 TrustedProxies 解析 X-Forwarded-For / X-Real-IP
func GetRealClientIP(c *gin.Context) string {
	if IsPrivateIP(c.RemoteIP()) {
		for _, header := range cdnHeaders {
			if ip := firstValidIP(c.GetHeader(header)); ip != "" {
				return ip
			}
		}
	}
	return c.ClientIP()
}

// firstValidIP 取逗号分隔列表中的第一个地址，格式不合法时返回空串
func firstValidIP(value string) string {
	if value == "" {
		return ""
	}
	first := strings.TrimSpace(strings.Split(value, ",")[0])
	if !IsValidIP(first) {
		return ""
	}
	return first
}

// IsValidIP 验证IP地址是否有效
func IsValidIP(ip string) bool {
	return net.ParseIP(ip) != nil
}

// IsPrivateIP 检查是否为私有或回环地址
func IsPrivateIP(ip string) bool {
	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}
	for _, ipNet := range privateNets {
		if ipNet.Contains(parsedIP) {
			return true
		}
	}
	return false
}

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(cidrs))
	for _, cidr := range cidrs {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			panic(err)
		}
		nets = append(nets, ipNet)
	}
	return nets
}
