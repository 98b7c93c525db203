package game

import (
	"testing"
	"time"
)

func TestClockDue(t *testing.T) {
	var c Clock
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	iv := 100 * time.Millisecond
	at := func(ms int) time.Time { return t0.Add(time.Duration(ms) * time.Millisecond) }

	steps := []struct {
		ms      int
		running bool
		want    bool
	}{
		{0, true, false}, // 首帧只建立基准
		{16, true, false},
		{99, true, false},
		{100, true, true},
		{116, true, false},
		{210, true, true}, // 基准是 100 而不是 200
		{305, true, false},
		{310, true, true},
		{900, false, false}, // 暂停期间不推进
		{916, true, true},   // 恢复后只补一次
		{932, true, false},
	}
	for _, s := range steps {
		if got := c.Due(at(s.ms), iv, s.running); got != s.want {
			t.Fatalf("t=%dms running=%v: due=%v, want %v", s.ms, s.running, got, s.want)
		}
	}
	if c.Last() != at(916) {
		t.Errorf("last %v, want %v", c.Last(), at(916))
	}
}

func TestClockResetRebaselines(t *testing.T) {
	var c Clock
	t0 := time.Now()
	c.Due(t0, 50*time.Millisecond, true)
	c.Reset()
	if c.Due(t0.Add(time.Second), 50*time.Millisecond, true) {
		t.Fatal("first evaluation after reset should only set the baseline")
	}
	if !c.Due(t0.Add(time.Second+50*time.Millisecond), 50*time.Millisecond, true) {
		t.Fatal("expected a tick one interval after the new baseline")
	}
}

func TestClockIntervalChangeAppliesNextEvaluation(t *testing.T) {
	var c Clock
	t0 := time.Now()
	c.Due(t0, 200*time.Millisecond, true)
	if c.Due(t0.Add(60*time.Millisecond), 200*time.Millisecond, true) {
		t.Fatal("unexpected tick")
	}
	if !c.Due(t0.Add(70*time.Millisecond), 40*time.Millisecond, true) {
		t.Fatal("shorter interval not honored")
	}
}
