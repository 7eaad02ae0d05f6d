/*
 * @Description: 基于 ent SQL 构建器的仓储公共部分
 * @Author: 安知鱼
 * @Date: 2025-07-12 17:02:44
 * @LastEditTime: 2025-10-12 15:11:09
 * @LastEditors: 安知鱼
 */
package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/anzhiyu-c/boganto-blog/pkg/constant"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/ncruces/go-sqlite3"
)

// base 持有连接池与方言，所有仓储共用
type base struct {
	db      *sql.DB
	dialect string
	debug   bool
}

func newBase(db *sql.DB, dialectName string, debug bool) base {
	return base{db: db, dialect: dialectName, debug: debug}
}

func (b *base) builder() *entsql.DialectBuilder {
	return entsql.Dialect(b.dialect)
}

func (b *base) logQuery(query string, args []any) {
	if b.debug {
		log.Printf("[SQL] %s %v", query, args)
	}
}

func (b *base) query(ctx context.Context, q entsql.Querier) (*sql.Rows, error) {
	query, args := q.Query()
	b.logQuery(query, args)
	return b.db.QueryContext(ctx, query, args...)
}

func (b *base) queryRow(ctx context.Context, q entsql.Querier) *sql.Row {
	query, args := q.Query()
	b.logQuery(query, args)
	return b.db.QueryRowContext(ctx, query, args...)
}

func (b *base) exec(ctx context.Context, q entsql.Querier) (sql.Result, error) {
	query, args := q.Query()
	b.logQuery(query, args)
	return b.db.ExecContext(ctx, query, args...)
}

// insert 执行插入并返回自增主键。Postgres 不支持 LastInsertId，改用 RETURNING
func (b *base) insert(ctx context.Context, ins *entsql.InsertBuilder) (int64, error) {
	if b.dialect == dialect.Postgres {
		var id int64
		if err := b.queryRow(ctx, ins.Returning("id")).Scan(&id); err != nil {
			return 0, mapError(err)
		}
		return id, nil
	}
	res, err := b.exec(ctx, ins)
	if err != nil {
		return 0, mapError(err)
	}
	return res.LastInsertId()
}

// execAffecting 执行写操作，影响行数为 0 时返回 ErrNotFound
func (b *base) execAffecting(ctx context.Context, q entsql.Querier) error {
	res, err := b.exec(ctx, q)
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return constant.ErrNotFound
	}
	return nil
}

// mapError 将各驱动的唯一约束冲突统一转换为 constant.ErrConflict
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return constant.ErrNotFound
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", constant.ErrConflict, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	if errors.Is(err, sqlite3.CONSTRAINT_UNIQUE) || errors.Is(err, sqlite3.CONSTRAINT_PRIMARYKEY) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// now 统一写入 UTC 且截断到秒，保证不同驱动下的排序和比较一致
func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func normalizeTime(t time.Time) time.Time {
	if t.IsZero() {
		return now()
	}
	return t.UTC().Truncate(time.Second)
}

// nullTime 兼容各驱动返回的时间格式：time.Time、文本或 Unix 时间戳
type nullTime struct {
	Time  time.Time
	Valid bool
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (n *nullTime) Scan(src any) error {
	n.Time, n.Valid = time.Time{}, false
	switch v := src.(type) {
	case nil:
		return nil
	case time.Time:
		n.Time, n.Valid = v.UTC(), true
		return nil
	case int64:
		n.Time, n.Valid = time.Unix(v, 0).UTC(), true
		return nil
	case []byte:
		return n.parse(string(v))
	case string:
		return n.parse(v)
	default:
		return fmt.Errorf("无法将 %T 转换为时间", src)
	}
}

func (n *nullTime) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "0000-00-00") {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			n.Time, n.Valid = t.UTC(), true
			return nil
		}
	}
	return fmt.Errorf("无法解析时间字符串: %q", s)
}
