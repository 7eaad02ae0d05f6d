/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-06-28 00:21:55
 * @LastEditTime: 2025-10-16 12:19:06
 * @LastEditors: 安知鱼
 */
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/anzhiyu-c/boganto-blog/cmd/server"
	"github.com/anzhiyu-c/boganto-blog/internal/pkg/security"
	"github.com/anzhiyu-c/boganto-blog/internal/pkg/version"
	"github.com/anzhiyu-c/boganto-blog/pkg/config"
)

// @title           Boganto Blog API
// @version         1.0
// @description     书评博客的内容查询与管理接口
// @termsOfService  http://swagger.io/terms/

// @contact.name   安知鱼

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8000
// @BasePath  /api

// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name BOGANTO_SESSION
// @description 登录成功后由服务端写入的会话 Cookie
func main() {
	// 解析命令行参数
	var (
		configPath   string
		hashPassword string
		showVersion  bool
	)
	flag.StringVar(&configPath, "config", config.DefaultConfigPath, "配置文件路径")
	flag.StringVar(&hashPassword, "hash-password", "", "输出该口令的 bcrypt 哈希后退出，用于迁移明文口令")
	flag.BoolVar(&showVersion, "version", false, "输出版本信息后退出")
	flag.Parse()

	if showVersion {
		fmt.Println(version.GetVersionString())
		return
	}

	if hashPassword != "" {
		hashed, err := security.HashPassword(hashPassword)
		if err != nil {
			log.Fatalf("生成口令哈希失败: %v", err)
		}
		fmt.Println(hashed)
		return
	}

	// 调用位于 cmd/server 包中的 NewApp 函数来构建整个应用
	app, cleanup, err := server.NewApp(configPath)
	if err != nil {
		log.Fatalf("应用初始化失败: %v", err)
	}

	// 使用 defer 来确保 cleanup 函数在 main 退出时被调用
	defer cleanup()

	// 确保后台任务在程序退出时被停止
	defer app.Stop()

	if os.Getenv("BOGANTO_QUIET") == "" {
		app.PrintBanner()
	}

	// 启动应用
	if err := app.Run(); err != nil {
		log.Printf("应用运行失败: %v", err)
		return
	}
}
