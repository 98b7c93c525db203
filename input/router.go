// Package input 把键盘、按钮、触控方向盘等事件统一映射为 game.Request。
// 这里只做事件到向量/控制的映射，转向是否合法由 game.Session 决定。
package input

import (
	"strconv"
	"strings"

	"snakearena/game"
)

// Message 入站 JSON（WebSocket 文本消息）
// 示例：{"type":"key","key":"ArrowUp"}、{"type":"dpad","dir":"0,-1"}、{"type":"speed","value":12}
type Message struct {
	Type    string `json:"type"`
	Key     string `json:"key,omitempty"`
	Button  string `json:"button,omitempty"`
	Dir     string `json:"dir,omitempty"`
	Command string `json:"command,omitempty"`
	Value   int    `json:"value,omitempty"`
	Seq     int64  `json:"seq,omitempty"`
}

var keyMap = map[string]game.Request{
	"arrowup":    game.Turn(game.Up),
	"up":         game.Turn(game.Up),
	"w":          game.Turn(game.Up),
	"arrowdown":  game.Turn(game.Down),
	"down":       game.Turn(game.Down),
	"s":          game.Turn(game.Down),
	"arrowleft":  game.Turn(game.Left),
	"left":       game.Turn(game.Left),
	"a":          game.Turn(game.Left),
	"arrowright": game.Turn(game.Right),
	"right":      game.Turn(game.Right),
	"d":          game.Turn(game.Right),
	"p":          game.Control(game.RequestTogglePause),
	" ":          game.Control(game.RequestTogglePause),
	"space":      game.Control(game.RequestTogglePause),
	"r":          game.Control(game.RequestRestart),
}

var buttonMap = map[string]game.Request{
	"pause":   game.Control(game.RequestTogglePause),
	"resume":  game.Control(game.RequestResume),
	"restart": game.Control(game.RequestRestart),
	"up":      game.Turn(game.Up),
	"down":    game.Turn(game.Down),
	"left":    game.Turn(game.Left),
	"right":   game.Turn(game.Right),
}

// FromKey 键名不区分大小写，兼容浏览器 KeyboardEvent.key 与终端按键名
func FromKey(key string) (game.Request, bool) {
	if key != " " {
		key = strings.ToLower(strings.TrimSpace(key))
	}
	req, ok := keyMap[key]
	return req, ok
}

// FromButton 页面按钮（暂停/继续/重开与屏幕方向键）
func FromButton(name string) (game.Request, bool) {
	req, ok := buttonMap[strings.ToLower(strings.TrimSpace(name))]
	return req, ok
}

// FromDpad 触控方向盘的 data-dir 属性，形如 "0,-1"
func FromDpad(attr string) (game.Request, bool) {
	xs, ys, found := strings.Cut(attr, ",")
	if !found {
		return game.Request{}, false
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return game.Request{}, false
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return game.Request{}, false
	}
	return game.Turn(game.Direction{X: x, Y: y}), true
}

// Route 将一条入站消息翻译为请求；无法识别时返回 false
func Route(m Message) (game.Request, bool) {
	switch strings.ToLower(m.Type) {
	case "key":
		return FromKey(m.Key)
	case "button":
		return FromButton(m.Button)
	case "dpad":
		return FromDpad(m.Dir)
	case "move":
		// 兼容 {"type":"move","command":"up"}
		return FromButton(m.Command)
	case "grid":
		return game.SetGrid(m.Value), true
	case "speed":
		return game.SetSpeed(m.Value), true
	}
	return game.Request{}, false
}
