package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"snakearena/config"
	"snakearena/game"
	"snakearena/logger"
	"snakearena/store"
)

// 终端版：与网页版共用 game 与 input，帧循环由 bubbletea 驱动
func main() {
	cfg := config.DefaultConfig()
	cfg.LogFile = "snaketui.log"
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()

	// 终端被界面占用，日志只写文件
	if err := logger.Init(logger.Options{File: cfg.LogFile, Level: cfg.LogLevel}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid config:", err)
		os.Exit(2)
	}

	var scores store.BestScores = store.NewMemory()
	if cfg.DBPath != "" {
		db, err := store.Open(cfg.DBPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer db.Close()
		scores = db
	}

	best := scores.LoadBest(context.Background(), store.BestKey)
	session := game.NewSession(cfg.Grid, cfg.Speed, best, nil)
	m := modelFromConfig(cfg, session, scores)

	start := time.Now()
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		logger.Log.Errorw("tui exited", "err", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.Log.Infow("tui closed", "played", time.Since(start).Round(time.Second), "best", session.Best())
}
