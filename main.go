package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"snakearena/config"
	"snakearena/logger"
	"snakearena/server"
	"snakearena/store"
)

// snakearena 入口：启动 HTTP + WebSocket 服务，游戏状态在服务端按帧推进
func main() {
	cfg := config.DefaultConfig()
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Addr = ":" + port
	}

	// 使用第三方 zap 日志库写入日志文件（带滚动），同时输出到控制台
	if err := logger.Init(logger.Options{File: cfg.LogFile, Level: cfg.LogLevel, Console: true}); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Log.Fatalf("invalid config: %v", err)
	}

	var scores store.BestScores = store.NewMemory()
	if cfg.DBPath != "" {
		db, err := store.Open(cfg.DBPath)
		if err != nil {
			logger.Log.Fatalf("open store: %v", err)
		}
		defer db.Close()
		scores = db
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rm := server.NewRoomManager(ctx, cfg, scores)
	// 先预创建一个默认房间，便于快速试跑
	_ = rm.GetOrCreateRoom(server.DefaultRoomID)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.NewRouter(rm),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Log.Infof("snakearena listening on %s; open http://localhost%v/", cfg.Addr, cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalf("listen: %v", err)
		}
	}()

	// 优雅退出（Ctrl+C）
	<-ctx.Done()
	logger.Log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Warnw("http shutdown", "err", err)
	}
	if err := rm.Shutdown(shutdownCtx); err != nil {
		logger.Log.Warnw("room shutdown", "err", err)
	}
}
