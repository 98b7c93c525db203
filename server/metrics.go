package server

import (
	"sync/atomic"
)

// RoomMetrics 记录房间运行期的关键指标（用于监控与调试）
type RoomMetrics struct {
	TickCount         int64 // 调度帧数
	Steps             int64 // 实际推进的 Step 次数
	InputsAccepted    int64 // 被会话接受的输入数
	TurnsRejected     int64 // 因反向等规则被拒绝的转向
	LimitRejected     int64 // 网格等取值不在允许范围内
	OldSeqIgnored     int64 // 因旧序列被忽略的输入数
	InvalidMessages   int64 // 无法解析或无法映射的消息
	Deferred          int64 // 超出每帧上限、留到下一帧的输入
	ChanFullDiscarded int64 // 因通道满被丢弃的输入数
	GamesOver         int64 // 结束的局数
	BestWrites        int64 // 最高分写入次数
	BestWriteErrors   int64 // 最高分写入失败次数
	TotalTickNs       int64 // 帧累计耗时（纳秒）
}

func (m *RoomMetrics) IncSteps() { atomic.AddInt64(&m.Steps, 1) }
func (m *RoomMetrics) IncAccepted() { atomic.AddInt64(&m.InputsAccepted, 1) }
func (m *RoomMetrics) IncTurnsRejected() { atomic.AddInt64(&m.TurnsRejected, 1) }
func (m *RoomMetrics) IncLimitRejected() { atomic.AddInt64(&m.LimitRejected, 1) }
func (m *RoomMetrics) IncOldSeqIgnored() { atomic.AddInt64(&m.OldSeqIgnored, 1) }
func (m *RoomMetrics) IncInvalid() { atomic.AddInt64(&m.InvalidMessages, 1) }
func (m *RoomMetrics) AddDeferred(n int64) { atomic.AddInt64(&m.Deferred, n) }
func (m *RoomMetrics) IncChanFullDiscarded() { atomic.AddInt64(&m.ChanFullDiscarded, 1) }
func (m *RoomMetrics) IncGamesOver() { atomic.AddInt64(&m.GamesOver, 1) }
func (m *RoomMetrics) IncBestWrites() { atomic.AddInt64(&m.BestWrites, 1) }
func (m *RoomMetrics) IncBestWriteErrors() { atomic.AddInt64(&m.BestWriteErrors, 1) }
func (m *RoomMetrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *RoomMetrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"tick_count":          tick,
		"steps":               atomic.LoadInt64(&m.Steps),
		"inputs_accepted":     atomic.LoadInt64(&m.InputsAccepted),
		"turns_rejected":      atomic.LoadInt64(&m.TurnsRejected),
		"limit_rejected":      atomic.LoadInt64(&m.LimitRejected),
		"old_seq_ignored":     atomic.LoadInt64(&m.OldSeqIgnored),
		"invalid_messages":    atomic.LoadInt64(&m.InvalidMessages),
		"deferred":            atomic.LoadInt64(&m.Deferred),
		"chan_full_discarded": atomic.LoadInt64(&m.ChanFullDiscarded),
		"games_over":          atomic.LoadInt64(&m.GamesOver),
		"best_writes":         atomic.LoadInt64(&m.BestWrites),
		"best_write_errors":   atomic.LoadInt64(&m.BestWriteErrors),
		"avg_tick_ms":         avgMs,
	}
}
