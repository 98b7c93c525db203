package game

import "time"

// Clock 帧驱动调度器的计时部分：每帧调用 Due，
// 距上次提交的 Tick 已超过间隔时返回 true 并把基准重置为 now。
// 漂移从上一次提交的 Tick 起算，而不是固定原点。
type Clock struct {
	last time.Time
}

// Due 判断本帧是否应执行一次 Step。首次调用只建立基准。
func (c *Clock) Due(now time.Time, interval time.Duration, running bool) bool {
	if c.last.IsZero() {
		c.last = now
	}
	if running && now.Sub(c.last) >= interval {
		c.last = now
		return true
	}
	return false
}

// Reset 清除基准，下一帧重新开始计时（重开游戏时使用）
func (c *Clock) Reset() {
	c.last = time.Time{}
}

// Last 上一次提交 Tick 的时间
func (c *Clock) Last() time.Time {
	return c.last
}
