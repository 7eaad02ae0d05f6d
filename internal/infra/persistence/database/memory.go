package database

import (
	"context"
	"database/sql"
	"fmt"
)

// OpenInMemory 打开一个已完成建表的内存 SQLite 数据库，用于测试和本地演示。
// 内存库随连接关闭而消失，因此连接池固定为单连接
func OpenInMemory(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", "file::memory:?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("打开内存数据库失败: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := NewMigrationService(db, "sqlite").RunMigrations(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
