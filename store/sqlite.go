package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"snakearena/logger"

	_ "modernc.org/sqlite"
)

// SQLite 基于 modernc.org/sqlite（纯 Go，无需 cgo）的最高分存储
type SQLite struct {
	conn *sql.DB
	mu   sync.Mutex
}

// Open 打开（必要时创建）数据库文件并初始化表结构
func Open(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	// 多个进程（服务端与终端版）可能共用同一个文件，写锁冲突时等待而不是立即失败
	conn, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite 只支持单写者
	conn.SetMaxOpenConns(1)

	db := &SQLite{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

func (db *SQLite) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS best_scores (
		name       TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`

	db.mu.Lock()
	defer db.mu.Unlock()
	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// LoadBest 不存在或无法解析时返回 0
func (db *SQLite) LoadBest(ctx context.Context, key string) int {
	raw, err := db.raw(ctx, key)
	if err != nil {
		logger.Log.Warnw("load best score failed", "key", key, "err", err)
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		if raw != "" {
			logger.Log.Warnw("unparseable best score, using 0", "key", key, "raw", raw)
		}
		return 0
	}
	return n
}

func (db *SQLite) raw(ctx context.Context, key string) (string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var raw string
	err := db.conn.QueryRowContext(ctx, "SELECT value FROM best_scores WHERE name = ?", key).Scan(&raw)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return raw, err
}

// SaveBest 写入新的最高分；已存储的合法值更高时保持不变。
// 比较在同一条 UPSERT 里完成，多个写者（多个房间或多个进程）并发时也不会把值改小。
func (db *SQLite) SaveBest(ctx context.Context, key string, value int) error {
	if value < 0 {
		return nil
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO best_scores (name, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		WHERE best_scores.value NOT GLOB '[0-9]*'
			OR CAST(best_scores.value AS INTEGER) < CAST(excluded.value AS INTEGER)`,
		key, strconv.Itoa(value))
	if err != nil {
		return fmt.Errorf("failed to save best score: %w", err)
	}
	return nil
}

// Close 关闭数据库连接
func (db *SQLite) Close() error {
	return db.conn.Close()
}
