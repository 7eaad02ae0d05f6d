/*
 * @Description: 数据库迁移服务（建表、索引及旧库升级）
 * @Author: 安知鱼
 * @Date: 2025-12-08
 */
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

// MigrationService 数据库迁移服务
type MigrationService struct {
	db     *sql.DB
	dbType string
}

// NewMigrationService 创建迁移服务
func NewMigrationService(db *sql.DB, dbType string) *MigrationService {
	return &MigrationService{
		db:     db,
		dbType: NormalizeType(dbType),
	}
}

// RunMigrations 执行所有迁移
func (m *MigrationService) RunMigrations(ctx context.Context) error {
	log.Println("📋 开始执行数据库迁移...")

	stmts, err := m.schemaStatements()
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("执行建表语句失败: %w", err)
		}
	}

	// 旧版数据库的 blogs.slug 没有唯一约束，这里补上
	if err := m.ensureSlugUnique(ctx); err != nil {
		return fmt.Errorf("slug 唯一索引迁移失败: %w", err)
	}

	log.Println("✅ 数据库迁移完成")
	return nil
}

func (m *MigrationService) schemaStatements() ([]string, error) {
	switch m.dbType {
	case "mysql":
		return mysqlSchema, nil
	case "postgres":
		return postgresSchema, nil
	case "sqlite":
		return sqliteSchema, nil
	default:
		return nil, fmt.Errorf("不支持的数据库类型: %s", m.dbType)
	}
}

// ensureSlugUnique 检查 blogs.slug 上是否已有唯一索引，没有则创建
func (m *MigrationService) ensureSlugUnique(ctx context.Context) error {
	exists, err := m.uniqueIndexOn(ctx, "blogs", "slug")
	if err != nil {
		return err
	}
	if exists {
		log.Println("  ✓ blogs.slug 唯一索引已存在，跳过迁移")
		return nil
	}

	log.Println("  → 为 blogs.slug 添加唯一索引...")
	var stmt string
	switch m.dbType {
	case "mysql":
		stmt = "ALTER TABLE blogs ADD UNIQUE KEY uk_blogs_slug (slug)"
	default:
		stmt = "CREATE UNIQUE INDEX IF NOT EXISTS uk_blogs_slug ON blogs (slug)"
	}
	if _, err := m.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("创建唯一索引失败（可能存在重复的 slug，需要先手工处理）: %w", err)
	}
	log.Println("  ✓ blogs.slug 唯一索引创建成功")
	return nil
}

// uniqueIndexOn 判断某列上是否存在单列唯一索引
func (m *MigrationService) uniqueIndexOn(ctx context.Context, tableName, columnName string) (bool, error) {
	var query string
	var args []interface{}

	switch m.dbType {
	case "mysql":
		query = `
			SELECT COUNT(*)
			FROM INFORMATION_SCHEMA.STATISTICS
			WHERE TABLE_SCHEMA = DATABASE()
			AND TABLE_NAME = ?
			AND COLUMN_NAME = ?
			AND NON_UNIQUE = 0
		`
		args = []interface{}{tableName, columnName}

	case "postgres":
		query = `
			SELECT COUNT(*)
			FROM pg_index i
			JOIN pg_class t ON t.oid = i.indrelid
			JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY(i.indkey)
			WHERE t.relname = $1
			AND a.attname = $2
			AND i.indisunique
			AND i.indnatts = 1
		`
		args = []interface{}{tableName, columnName}

	case "sqlite":
		query = `
			SELECT COUNT(*)
			FROM pragma_index_list(?) il
			JOIN pragma_index_info(il.name) ii
			WHERE il."unique" = 1
			AND ii.name = ?
			AND (SELECT COUNT(*) FROM pragma_index_info(il.name)) = 1
		`
		args = []interface{}{tableName, columnName}

	default:
		return false, fmt.Errorf("不支持的数据库类型: %s", m.dbType)
	}

	var count int
	if err := m.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		description TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS blogs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		content TEXT NOT NULL,
		excerpt TEXT,
		featured_image TEXT,
		category_id INTEGER,
		tags TEXT,
		meta_title TEXT,
		meta_description TEXT,
		is_featured BOOLEAN NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'draft',
		view_count INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_blogs_status_created ON blogs (status, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_blogs_category ON blogs (category_id)`,
	`CREATE TABLE IF NOT EXISTS related_books (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		blog_id INTEGER NOT NULL REFERENCES blogs (id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		purchase_link TEXT NOT NULL,
		description TEXT,
		price TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_related_books_blog ON related_books (blog_id)`,
	`CREATE TABLE IF NOT EXISTS banner_images (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT,
		subtitle TEXT,
		image_url TEXT NOT NULL,
		link_url TEXT,
		sort_order INTEGER NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS admins (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		name TEXT,
		email TEXT,
		role TEXT NOT NULL DEFAULT 'admin',
		is_active BOOLEAN NOT NULL DEFAULT 1,
		last_login DATETIME,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		slug VARCHAR(100) NOT NULL UNIQUE,
		description TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS blogs (
		id BIGSERIAL PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		slug VARCHAR(255) NOT NULL UNIQUE,
		content TEXT NOT NULL,
		excerpt TEXT,
		featured_image VARCHAR(500),
		category_id BIGINT,
		tags VARCHAR(500),
		meta_title VARCHAR(255),
		meta_description TEXT,
		is_featured BOOLEAN NOT NULL DEFAULT FALSE,
		status VARCHAR(20) NOT NULL DEFAULT 'draft',
		view_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_blogs_status_created ON blogs (status, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_blogs_category ON blogs (category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_blogs_fts ON blogs USING GIN (to_tsvector('simple', coalesce(title, '') || ' ' || coalesce(content, '') || ' ' || coalesce(tags, '')))`,
	`CREATE TABLE IF NOT EXISTS related_books (
		id BIGSERIAL PRIMARY KEY,
		blog_id BIGINT NOT NULL REFERENCES blogs (id) ON DELETE CASCADE,
		title VARCHAR(255) NOT NULL,
		purchase_link VARCHAR(500) NOT NULL,
		description TEXT,
		price VARCHAR(50),
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_related_books_blog ON related_books (blog_id)`,
	`CREATE TABLE IF NOT EXISTS banner_images (
		id BIGSERIAL PRIMARY KEY,
		title VARCHAR(255),
		subtitle VARCHAR(255),
		image_url VARCHAR(500) NOT NULL,
		link_url VARCHAR(500),
		sort_order INTEGER NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS admins (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(50) NOT NULL UNIQUE,
		password VARCHAR(255) NOT NULL,
		name VARCHAR(100),
		email VARCHAR(100),
		role VARCHAR(20) NOT NULL DEFAULT 'admin',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		last_login TIMESTAMP NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// MySQL 不支持 CREATE INDEX IF NOT EXISTS，索引直接写在建表语句里
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		slug VARCHAR(100) NOT NULL,
		description TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uk_categories_slug (slug)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS blogs (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		slug VARCHAR(255) NOT NULL,
		content LONGTEXT NOT NULL,
		excerpt TEXT,
		featured_image VARCHAR(500),
		category_id BIGINT UNSIGNED,
		tags VARCHAR(500),
		meta_title VARCHAR(255),
		meta_description TEXT,
		is_featured TINYINT(1) NOT NULL DEFAULT 0,
		status VARCHAR(20) NOT NULL DEFAULT 'draft',
		view_count INT NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uk_blogs_slug (slug),
		KEY idx_blogs_status_created (status, created_at),
		KEY idx_blogs_category (category_id),
		FULLTEXT KEY ft_blogs_search (title, content, tags)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS related_books (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		blog_id BIGINT UNSIGNED NOT NULL,
		title VARCHAR(255) NOT NULL,
		purchase_link VARCHAR(500) NOT NULL,
		description TEXT,
		price VARCHAR(50),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_related_books_blog (blog_id),
		CONSTRAINT fk_related_books_blog FOREIGN KEY (blog_id) REFERENCES blogs (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS banner_images (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255),
		subtitle VARCHAR(255),
		image_url VARCHAR(500) NOT NULL,
		link_url VARCHAR(500),
		sort_order INT NOT NULL DEFAULT 0,
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS admins (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(50) NOT NULL,
		password VARCHAR(255) NOT NULL,
		name VARCHAR(100),
		email VARCHAR(100),
		role VARCHAR(20) NOT NULL DEFAULT 'admin',
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		last_login DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uk_admins_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}
