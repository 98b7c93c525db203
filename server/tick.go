package server

import (
	"context"
	"time"

	"snakearena/logger"
)

// StartTicker 启动房间的帧循环与最高分写协程（只会启动一次）
func (r *Room) StartTicker(ctx context.Context) {
	if !r.tickerStarted.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(r.writerDone)
		r.bestWriter(ctx)
	}()
	go r.Run(ctx)
}

// Run 帧循环（单协程推进世界），ctx 取消时断开所有玩家并返回。
// 帧率与游戏速度解耦：每帧都处理输入和广播，是否 Step 由 game.Clock 决定。
func (r *Room) Run(ctx context.Context) {
	defer close(r.done)
	ticker := time.NewTicker(r.frame)
	defer ticker.Stop()
	logger.Log.Debugw("room ticker started", "room", r.ID, "frame", r.frame)
	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			logger.Log.Infow("room stopped", "room", r.ID, "steps", r.tickSeq.Load())
			return
		case <-ticker.C:
			// 已取消则不再推进
			if ctx.Err() != nil {
				continue
			}
			r.tick(r.now())
		}
	}
}

// Wait 等待帧循环与写协程退出
func (r *Room) Wait(ctx context.Context) error {
	for _, ch := range []chan struct{}{r.done, r.writerDone} {
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
