package input

import (
	"testing"

	"snakearena/game"
)

func TestFromKey(t *testing.T) {
	cases := []struct {
		key  string
		want game.Request
	}{
		{"ArrowUp", game.Turn(game.Up)},
		{"w", game.Turn(game.Up)},
		{"W", game.Turn(game.Up)},
		{"up", game.Turn(game.Up)},
		{"ArrowDown", game.Turn(game.Down)},
		{"s", game.Turn(game.Down)},
		{"ArrowLeft", game.Turn(game.Left)},
		{"a", game.Turn(game.Left)},
		{"ArrowRight", game.Turn(game.Right)},
		{"D", game.Turn(game.Right)},
		{"p", game.Control(game.RequestTogglePause)},
		{" ", game.Control(game.RequestTogglePause)},
		{"R", game.Control(game.RequestRestart)},
	}
	for _, c := range cases {
		got, ok := FromKey(c.key)
		if !ok || got != c.want {
			t.Errorf("FromKey(%q) = %+v, %v; want %+v", c.key, got, ok, c.want)
		}
	}
	for _, key := range []string{"", "x", "Enter", "q"} {
		if _, ok := FromKey(key); ok {
			t.Errorf("FromKey(%q) unexpectedly mapped", key)
		}
	}
}

func TestFromButton(t *testing.T) {
	cases := map[string]game.Request{
		"pause":   game.Control(game.RequestTogglePause),
		"Resume":  game.Control(game.RequestResume),
		"restart": game.Control(game.RequestRestart),
		"left":    game.Turn(game.Left),
	}
	for name, want := range cases {
		got, ok := FromButton(name)
		if !ok || got != want {
			t.Errorf("FromButton(%q) = %+v, %v; want %+v", name, got, ok, want)
		}
	}
	if _, ok := FromButton("boost"); ok {
		t.Error("unknown button mapped")
	}
}

func TestFromDpad(t *testing.T) {
	got, ok := FromDpad("0,-1")
	if !ok || got != game.Turn(game.Up) {
		t.Fatalf("FromDpad(0,-1) = %+v, %v", got, ok)
	}
	got, ok = FromDpad(" 1 , 0 ")
	if !ok || got != game.Turn(game.Right) {
		t.Fatalf("FromDpad(1,0) = %+v, %v", got, ok)
	}
	for _, bad := range []string{"", "1", "a,b", "1;0"} {
		if _, ok := FromDpad(bad); ok {
			t.Errorf("FromDpad(%q) unexpectedly mapped", bad)
		}
	}
}

// 三种输入源对同一方向给出同一个请求，且都会经过会话的反向检查
func TestSourcesAreUniform(t *testing.T) {
	fromKey, _ := FromKey("ArrowLeft")
	fromButton, _ := FromButton("left")
	fromDpad, _ := FromDpad("-1,0")
	if fromKey != fromButton || fromButton != fromDpad {
		t.Fatalf("key %+v button %+v dpad %+v differ", fromKey, fromButton, fromDpad)
	}

	s := game.NewSession(20, 10, 0, nil)
	for _, req := range []game.Request{fromKey, fromButton, fromDpad} {
		if s.Apply(req) {
			t.Errorf("reversal %+v accepted", req)
		}
	}
}

func TestRoute(t *testing.T) {
	cases := []struct {
		msg  Message
		want game.Request
		ok   bool
	}{
		{Message{Type: "key", Key: "ArrowUp"}, game.Turn(game.Up), true},
		{Message{Type: "button", Button: "restart"}, game.Control(game.RequestRestart), true},
		{Message{Type: "dpad", Dir: "0,1"}, game.Turn(game.Down), true},
		{Message{Type: "move", Command: "right"}, game.Turn(game.Right), true},
		{Message{Type: "GRID", Value: 25}, game.SetGrid(25), true},
		{Message{Type: "speed", Value: 12}, game.SetSpeed(12), true},
		{Message{Type: "chat"}, game.Request{}, false},
	}
	for _, c := range cases {
		got, ok := Route(c.msg)
		if ok != c.ok || got != c.want {
			t.Errorf("Route(%+v) = %+v, %v; want %+v, %v", c.msg, got, ok, c.want, c.ok)
		}
	}
}
