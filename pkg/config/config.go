/*
 * @Description: 统一配置管理 (手动加载 ini + 环境变量覆盖)
 * @Author: 安知鱼
 * @Date: 2025-06-28 00:21:55
 * @LastEditTime: 2025-10-12 16:40:18
 * @LastEditors: 安知鱼
 */
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-ini/ini"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultConfigPath 默认配置文件路径
const DefaultConfigPath = "data/conf.ini"

// envPrefix 环境变量前缀，例如 BOGANTO_DATABASE_HOST
const envPrefix = "BOGANTO"

// 定义所有已知的配置键
var allKeys = []string{
	KeyServerPort, KeyServerDebug, KeyServerRateLimit,
	KeyDBType, KeyDBHost, KeyDBPort, KeyDBUser, KeyDBPassword, KeyDBName, KeyDBDebug,
	KeyRedisAddr, KeyRedisPassword, KeyRedisDB,
	KeySessionCookieName, KeySessionLifetime, KeySessionSecure, KeySessionDomain,
	KeyAuthLoginFailDelay, KeyAuthAllowLegacyPlaintext, KeyAuthUpgradeLegacyPasswords,
	KeyAdminUsername, KeyAdminPassword, KeyAdminName, KeyAdminEmail,
	KeyUploadDriver, KeyUploadDir, KeyUploadURLPrefix, KeyUploadMaxSizeMB, KeyUploadMaxWidth,
	KeyUploadBucket, KeyUploadEndpoint, KeyUploadRegion, KeyUploadAccessKey, KeyUploadSecretKey,
	KeyUploadBaseURL,
}

const (
	KeyServerPort      = "System.Port"
	KeyServerDebug     = "System.Debug"
	KeyServerRateLimit = "System.RateLimit"

	KeyDBType     = "Database.Type"
	KeyDBHost     = "Database.Host"
	KeyDBPort     = "Database.Port"
	KeyDBUser     = "Database.User"
	KeyDBPassword = "Database.Password"
	KeyDBName     = "Database.Name"
	KeyDBDebug    = "Database.Debug"

	KeyRedisAddr     = "Redis.Addr"
	KeyRedisPassword = "Redis.Password"
	KeyRedisDB       = "Redis.DB"

	KeySessionCookieName = "Session.CookieName"
	KeySessionLifetime   = "Session.Lifetime"
	KeySessionSecure     = "Session.Secure"
	KeySessionDomain     = "Session.Domain"

	KeyAuthLoginFailDelay         = "Auth.LoginFailDelay"
	KeyAuthAllowLegacyPlaintext   = "Auth.AllowLegacyPlaintext"
	KeyAuthUpgradeLegacyPasswords = "Auth.UpgradeLegacyPasswords"

	KeyAdminUsername = "Admin.Username"
	KeyAdminPassword = "Admin.Password"
	KeyAdminName     = "Admin.Name"
	KeyAdminEmail    = "Admin.Email"

	KeyUploadDriver    = "Upload.Driver"
	KeyUploadDir       = "Upload.Dir"
	KeyUploadURLPrefix = "Upload.URLPrefix"
	KeyUploadMaxSizeMB = "Upload.MaxSizeMB"
	KeyUploadMaxWidth  = "Upload.MaxWidth"
	KeyUploadBucket    = "Upload.Bucket"
	KeyUploadEndpoint  = "Upload.Endpoint"
	KeyUploadRegion    = "Upload.Region"
	KeyUploadAccessKey = "Upload.AccessKey"
	KeyUploadSecretKey = "Upload.SecretKey"
	KeyUploadBaseURL   = "Upload.BaseURL"
)

// 内部默认值，配置文件和环境变量都未提供时生效
var defaults = map[string]interface{}{
	KeyServerPort:                 "8000",
	KeyServerDebug:                false,
	KeyServerRateLimit:            0,
	KeyDBType:                     "sqlite",
	KeyDBName:                     "boganto_blog.db",
	KeyRedisDB:                    0,
	KeySessionCookieName:          "BOGANTO_SESSION",
	KeySessionLifetime:            "24h",
	KeySessionSecure:              false,
	KeyAuthLoginFailDelay:         "1s",
	KeyAuthAllowLegacyPlaintext:   true,
	KeyAuthUpgradeLegacyPasswords: false,
	KeyAdminUsername:              "admin",
	KeyAdminName:                  "Administrator",
	KeyUploadDriver:               "local",
	KeyUploadDir:                  "uploads",
	KeyUploadURLPrefix:            "/uploads/",
	KeyUploadMaxSizeMB:            5,
	KeyUploadMaxWidth:             0,
}

type Config struct {
	vp *viper.Viper
}

// NewConfig 使用默认路径加载配置
func NewConfig() (*Config, error) {
	return NewConfigFromFile(DefaultConfigPath)
}

// NewConfigFromFile 手动加载配置，确保可靠性。
// 优先级：环境变量 > ini 文件 > 内部默认值
func NewConfigFromFile(filePath string) (*Config, error) {
	vp := viper.New()
	for k, v := range defaults {
		vp.SetDefault(k, v)
	}

	// .env 只是把变量注入进程环境，不存在时忽略
	if err := godotenv.Load(); err == nil {
		log.Println("已从 .env 文件加载环境变量。")
	}

	// --- 步骤 1: 使用 go-ini 从文件加载配置 ---
	iniCfg, err := ini.Load(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("提示: 未找到 %s，将创建默认配置文件。", filePath)
			if err := createDefaultConfigFile(filePath); err != nil {
				log.Printf("警告: 创建默认配置文件失败: %v，将仅依赖环境变量或内部默认值。", err)
			} else {
				log.Printf("✅ 已创建默认配置文件: %s", filePath)
				iniCfg, err = ini.Load(filePath)
				if err != nil {
					log.Printf("警告: 重新加载配置文件失败: %v", err)
				}
			}
		} else {
			return nil, fmt.Errorf("错误: 解析配置文件 '%s' 失败: %w", filePath, err)
		}
	}

	if iniCfg != nil {
		loadIni(vp, iniCfg)
		log.Printf("从 %s 文件加载了配置。", filePath)
	}

	// --- 步骤 2: 手动检查并覆盖环境变量 ---
	applyEnv(vp)

	log.Println("✅ 配置加载器初始化完成。")
	return &Config{vp: vp}, nil
}

// NewConfigFromMap 直接用键值构造配置，主要用于测试
func NewConfigFromMap(values map[string]interface{}) *Config {
	vp := viper.New()
	for k, v := range defaults {
		vp.SetDefault(k, v)
	}
	for k, v := range values {
		vp.Set(k, v)
	}
	return &Config{vp: vp}
}

func loadIni(vp *viper.Viper, iniCfg *ini.File) {
	for _, section := range iniCfg.Sections() {
		for _, key := range section.Keys() {
			viperKey := fmt.Sprintf("%s.%s", section.Name(), key.Name())
			if section.Name() == ini.DefaultSection {
				viperKey = key.Name()
			}
			// 空值不覆盖内部默认值
			if strings.TrimSpace(key.Value()) == "" {
				continue
			}
			vp.Set(viperKey, key.Value())
		}
	}
}

func applyEnv(vp *viper.Viper) {
	envReplacer := strings.NewReplacer(".", "_")
	for _, key := range allKeys {
		envVarName := fmt.Sprintf("%s_%s", envPrefix, envReplacer.Replace(strings.ToUpper(key)))
		if value, found := os.LookupEnv(envVarName); found {
			vp.Set(key, value)
			log.Printf("发现环境变量: %s, 已覆盖配置 '%s'。", envVarName, key)
		}
	}
}

func (c *Config) GetString(key string) string {
	return c.vp.GetString(key)
}

func (c *Config) GetInt(key string) int {
	return c.vp.GetInt(key)
}

func (c *Config) GetBool(key string) bool {
	return c.vp.GetBool(key)
}

// GetDuration 解析 "24h"、"1s" 这类时长；纯数字按秒处理
func (c *Config) GetDuration(key string) time.Duration {
	raw := strings.TrimSpace(c.vp.GetString(key))
	if raw == "" {
		return 0
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return time.Duration(c.vp.GetInt(key)) * time.Second
}

// createDefaultConfigFile 创建默认的配置文件
func createDefaultConfigFile(filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("创建目录失败: %w", err)
	}

	defaultConfig := `[System]
Port = 8000
Debug = false
# 每个 IP 每分钟允许的 /api 请求数，0 表示不限流
RateLimit = 0

[Database]
Type = sqlite
Name = boganto_blog.db
Debug = false

# Redis 配置（可选）
# 留空 Addr 时会话保存在进程内存中
[Redis]
Addr =
Password =
DB = 0

[Session]
CookieName = BOGANTO_SESSION
Lifetime = 24h
Secure = false

[Auth]
LoginFailDelay = 1s
AllowLegacyPlaintext = true
UpgradeLegacyPasswords = false

# 管理员表为空时用于初始化第一个账号
[Admin]
Username = admin
Password =
Name = Administrator
Email =

[Upload]
Driver = local
Dir = uploads
URLPrefix = /uploads/
MaxSizeMB = 5
MaxWidth = 0
`

	if err := os.WriteFile(filePath, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}

	return nil
}
