// Package store 持久化唯一的标量：历史最高分
package store

import (
	"context"
	"sync"
)

// BestKey 最高分的存储键
const BestKey = "snake.best"

// BestScores 最高分持久化接口。LoadBest 读取失败或不存在时返回 0，不向上传播错误。
type BestScores interface {
	LoadBest(ctx context.Context, key string) int
	SaveBest(ctx context.Context, key string, value int) error
}

// Memory 进程内实现，用于测试与 -db "" 的场景
type Memory struct {
	mu     sync.Mutex
	values map[string]int
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]int)}
}

func (m *Memory) LoadBest(_ context.Context, key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key]
}

// SaveBest 只会提高已存储的值
func (m *Memory) SaveBest(_ context.Context, key string, value int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if value > m.values[key] {
		m.values[key] = value
	}
	return nil
}
