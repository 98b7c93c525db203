package server

import "github.com/google/uuid"

// PlayerID 连接到房间的客户端标识（同一房间的多个标签页共同操控一条蛇）
type PlayerID string

// NewPlayerID 为未指定 player 参数的连接生成标识
func NewPlayerID() PlayerID {
	return PlayerID(uuid.NewString())
}

// Sender 发送端抽象，ClientConn 为 WebSocket 实现
type Sender interface {
	Enqueue(b []byte)
	Close()
}

// Player 房间内的连接实体，只由房间协程读写
type Player struct {
	ID      PlayerID
	LastSeq int64 // 已处理的最大客户端序列号

	Conn Sender
}
