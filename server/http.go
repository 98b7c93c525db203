package server

import (
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"snakearena/game"
	"snakearena/store"
	"snakearena/web"
)

// NewRouter 注册页面、WebSocket、管理与监控接口
func NewRouter(m *RoomManager) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// WebSocket 是长连接，不能套用超时中间件
	r.Get("/ws", m.HandleWS)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Logger)
		r.Use(middleware.Timeout(15 * time.Second))

		r.Get("/", m.HandleIndex)
		r.Mount("/static", http.StripPrefix("/static", http.FileServer(http.FS(m.staticFS()))))

		r.Route("/api", func(r chi.Router) {
			r.Get("/state", m.HandleState)
			r.Get("/best", m.HandleBest)
			r.Get("/rooms", m.HandleRooms)
		})
		r.Get("/admin/config", m.HandleAdminConfig)
		r.Post("/admin/config", m.HandleAdminConfig)
		r.Get("/metrics", m.HandleMetrics)
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok"))
		})
	})
	return r
}

func (m *RoomManager) staticFS() fs.FS {
	if m.cfg.WebDir != "" {
		return os.DirFS(m.cfg.WebDir)
	}
	return web.Static()
}

// HandleIndex 渲染首页
func (m *RoomManager) HandleIndex(w http.ResponseWriter, r *http.Request) {
	props := web.PageProps{
		Room:        roomParam(r),
		Grid:        m.cfg.Grid,
		GridChoices: m.cfg.GridChoices,
		Speed:       m.cfg.Speed,
		SpeedMin:    m.cfg.SpeedMin,
		SpeedMax:    m.cfg.SpeedMax,
		Best:        m.scores.LoadBest(r.Context(), store.BestKey),
		BoardPixels: game.BoardPixels,
	}
	if room, ok := m.Room(props.Room); ok {
		snap := room.Snapshot()
		props.Grid, props.Speed = snap.Grid, snap.Speed
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := web.Page(props).Render(r.Context(), w); err != nil {
		http.Error(w, "failed to render", http.StatusInternalServerError)
	}
}
