package server

import (
	"encoding/json"
	"net/http"

	"snakearena/config"
	"snakearena/game"
	"snakearena/logger"
	"snakearena/store"
)

func roomParam(r *http.Request) string {
	if id := r.URL.Query().Get("room"); id != "" {
		return id
	}
	return DefaultRoomID
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// adminConfig 可热更新的房间配置；网格与速度经由房间输入队列生效
type adminConfig struct {
	GridSize         *int           `json:"gridSize,omitempty"`
	Speed            *int           `json:"speed,omitempty"`
	MaxInputsPerTick *int           `json:"maxInputsPerTick,omitempty"`
	TickMs           *int64         `json:"tickMs,omitempty"`
	Limits           *config.Limits `json:"limits,omitempty"`
}

// HandleAdminConfig 提供房间配置的读取与更新
// GET /admin/config?room=room-1  返回当前配置
// POST /admin/config?room=room-1 以 JSON 载荷更新部分字段
func (m *RoomManager) HandleAdminConfig(w http.ResponseWriter, r *http.Request) {
	roomID := roomParam(r)
	// 管理接口不创建房间，房间只在玩家接入时创建
	room, ok := m.Room(roomID)
	if !ok {
		http.Error(w, "unknown room", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		snap := room.Snapshot()
		maxInputs := room.MaxInputsPerTick()
		limits := room.Limits()
		writeJSON(w, http.StatusOK, adminConfig{
			GridSize:         &snap.Grid,
			Speed:            &snap.Speed,
			MaxInputsPerTick: &maxInputs,
			TickMs:           &snap.TickMs,
			Limits:           &limits,
		})
	case http.MethodPost:
		var body adminConfig
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		limits := room.Limits()
		if body.GridSize != nil {
			if _, ok := limits.Allow(game.SetGrid(*body.GridSize)); !ok {
				http.Error(w, "gridSize not allowed", http.StatusBadRequest)
				return
			}
		}
		if body.MaxInputsPerTick != nil && *body.MaxInputsPerTick <= 0 {
			http.Error(w, "maxInputsPerTick must be positive", http.StatusBadRequest)
			return
		}
		if body.MaxInputsPerTick != nil {
			room.SetMaxInputsPerTick(*body.MaxInputsPerTick)
		}
		if body.Speed != nil {
			room.OnInput(Input{Request: game.SetSpeed(*body.Speed)})
		}
		if body.GridSize != nil {
			room.OnInput(Input{Request: game.SetGrid(*body.GridSize)})
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		logger.Log.Infow("config updated", "room", roomID, "gridSize", body.GridSize,
			"speed", body.Speed, "maxInputsPerTick", body.MaxInputsPerTick)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleMetrics 输出指定房间的运行指标
// GET /metrics?room=room-1
func (m *RoomManager) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	roomID := roomParam(r)
	room, ok := m.Room(roomID)
	if !ok {
		http.Error(w, "unknown room", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"room":    roomID,
		"tick":    room.TickSeq(),
		"players": room.Players(),
		"metrics": room.Metrics().Snapshot(),
	})
}

// HandleState 当前快照
// GET /api/state?room=room-1
func (m *RoomManager) HandleState(w http.ResponseWriter, r *http.Request) {
	room, ok := m.Room(roomParam(r))
	if !ok {
		http.Error(w, "unknown room", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, room.Snapshot())
}

// HandleBest 持久化的最高分
// GET /api/best
func (m *RoomManager) HandleBest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"best": m.scores.LoadBest(r.Context(), store.BestKey)})
}

// HandleRooms 房间列表
// GET /api/rooms
func (m *RoomManager) HandleRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"rooms": m.RoomIDs()})
}
