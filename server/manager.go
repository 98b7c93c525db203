package server

import (
	"context"
	"sort"
	"sync"

	"snakearena/config"
	"snakearena/store"
)

// DefaultRoomID 未指定 ?room= 时使用的房间
const DefaultRoomID = "room-1"

// RoomManager 管理多个房间的生命周期
type RoomManager struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	ctx    context.Context
	cancel context.CancelFunc
	cfg    config.Config
	scores store.BestScores
}

// NewRoomManager 创建房间管理器；ctx 取消或调用 Shutdown 时所有房间停止
func NewRoomManager(ctx context.Context, cfg config.Config, scores store.BestScores) *RoomManager {
	if scores == nil {
		scores = store.NewMemory()
	}
	ctx, cancel := context.WithCancel(ctx)
	return &RoomManager{
		rooms:  make(map[string]*Room),
		ctx:    ctx,
		cancel: cancel,
		cfg:    cfg,
		scores: scores,
	}
}

// GetOrCreateRoom 获取或创建房间，并确保开始帧循环
func (m *RoomManager) GetOrCreateRoom(id string) *Room {
	m.mu.RLock()
	r, ok := m.rooms[id]
	m.mu.RUnlock()
	if ok {
		return r
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok = m.rooms[id]; !ok {
		r = NewRoom(id, RoomOptionsFromConfig(m.cfg, m.scores))
		m.rooms[id] = r
		r.StartTicker(m.ctx)
	}
	return r
}

// Room 查找已存在的房间
func (m *RoomManager) Room(id string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[id]
	return r, ok
}

// RoomIDs 当前房间列表（排序后）
func (m *RoomManager) RoomIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.rooms))
	for id := range m.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Scores 最高分存储
func (m *RoomManager) Scores() store.BestScores { return m.scores }

// Config 服务端配置
func (m *RoomManager) Config() config.Config { return m.cfg }

// Shutdown 停止所有房间并等待帧循环退出
func (m *RoomManager) Shutdown(ctx context.Context) error {
	m.cancel()
	m.mu.RLock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.mu.RUnlock()
	for _, r := range rooms {
		if err := r.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}
