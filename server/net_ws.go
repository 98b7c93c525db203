package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"snakearena/input"
	"snakearena/logger"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// ClientConn 负责发送（写）数据到客户端的轻量包装
type ClientConn struct {
	ws   *websocket.Conn
	send chan []byte
}

func NewClientConn(ws *websocket.Conn) *ClientConn {
	return &ClientConn{
		ws:   ws,
		send: make(chan []byte, 64),
	}
}

// Enqueue 将要发送的消息压入队列（非阻塞，满则丢弃）。只在房间帧协程调用。
func (c *ClientConn) Enqueue(b []byte) {
	select {
	case c.send <- b:
	default:
		// 为了实时性，丢弃旧消息（防止阻塞帧）
	}
}

// Close 关闭发送队列，写协程随之关闭底层连接。只在房间帧协程调用。
func (c *ClientConn) Close() {
	if c.send != nil {
		close(c.send)
		c.send = nil
	}
}

// writePump 独立协程，负责从 send 队列写出到 WS，并定期 ping
func (c *ClientConn) writePump(send <-chan []byte) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()
	for {
		select {
		case msg, ok := <-send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump 读取客户端输入，经输入路由转换为请求注入房间
func (c *ClientConn) readPump(room *Room, playerID PlayerID) {
	defer c.ws.Close()
	// 读泵退出时，通知房间在帧协程中移除该玩家
	defer room.RequestLeave(playerID, c)
	c.ws.SetReadLimit(1 << 12)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error { c.ws.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Log.Warnw("websocket read error", "room", room.ID, "player", playerID, "err", err)
			}
			return
		}
		var msg input.Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			room.Metrics().IncInvalid()
			continue
		}
		req, ok := input.Route(msg)
		if !ok {
			room.Metrics().IncInvalid()
			continue
		}
		room.OnInput(Input{PlayerID: playerID, Request: req, Seq: msg.Seq})
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 演示环境：允许所有来源（生产环境需严格限制）
		return true
	},
}

// HandleWS WebSocket 接入：?room=room-1&player=alice（player 可省略）
func (m *RoomManager) HandleWS(w http.ResponseWriter, r *http.Request) {
	roomID := roomParam(r)
	playerID := PlayerID(r.URL.Query().Get("player"))
	if playerID == "" {
		playerID = NewPlayerID()
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Warnw("upgrade error", "err", err)
		return
	}

	room := m.GetOrCreateRoom(roomID)
	client := NewClientConn(ws)
	send := client.send
	if !room.JoinPlayer(&Player{ID: playerID, Conn: client}) {
		_ = ws.Close()
		return
	}

	go client.writePump(send)
	go client.readPump(room, playerID)
}
