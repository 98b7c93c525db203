// Package web 页面与前端静态资源。前端只负责绘制与采集输入，游戏状态全部来自服务端。
package web

import (
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"strconv"

	"github.com/a-h/templ"
)

//go:embed static/*
var embedded embed.FS

// Static 内嵌的静态资源（app.js、style.css）
func Static() fs.FS {
	sub, err := fs.Sub(embedded, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// PageProps 渲染首页所需的参数
type PageProps struct {
	Room        string
	Grid        int
	GridChoices []int
	Speed       int
	SpeedMin    int
	SpeedMax    int
	Best        int
	BoardPixels int
}

// Page 首页：画布、分数、网格/速度控件、按钮与触控方向盘
func Page(p PageProps) templ.Component {
	return templ.Join(
		templ.Raw(`<!doctype html><html lang="en"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<title>Snake</title><link rel="stylesheet" href="/static/style.css"></head>`),
		templ.Raw(fmt.Sprintf(`<body data-room="%s">`, templ.EscapeString(p.Room))),
		Hud(p),
		Board(p.BoardPixels),
		Dpad(),
		templ.Raw(`<script src="/static/app.js"></script></body></html>`),
	)
}

// Hud 分数与控件栏
func Hud(p PageProps) templ.Component {
	return templ.Join(
		templ.Raw(`<header class="hud"><div>Score <span id="score">0</span></div>`),
		templ.Raw(fmt.Sprintf(`<div>Best <span id="best">%d</span></div>`, p.Best)),
		GridSelect(p.GridChoices, p.Grid),
		templ.Raw(fmt.Sprintf(`<label>Speed <input id="speed" type="range" min="%d" max="%d" value="%d"></label>`,
			p.SpeedMin, p.SpeedMax, p.Speed)),
		templ.Raw(`<button id="pauseBtn" aria-pressed="false">Pause</button>`+
			`<button id="restartBtn">Restart</button></header>`),
	)
}

// GridSelect 网格大小下拉框
func GridSelect(choices []int, selected int) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<label>Grid <select id="grid">`); err != nil {
			return err
		}
		for _, g := range choices {
			sel := ""
			if g == selected {
				sel = " selected"
			}
			if _, err := fmt.Fprintf(w, `<option value="%d"%s>%dx%d</option>`, g, sel, g, g); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</select></label>`)
		return err
	})
}

// Board 画布与暂停/结束遮罩
func Board(pixels int) templ.Component {
	size := strconv.Itoa(pixels)
	return templ.Raw(`<main class="stage">` +
		`<canvas id="board" width="` + size + `" height="` + size + `"></canvas>` +
		`<div id="overlay" class="overlay hidden">` +
		`<h2 id="stateTitle">Paused</h2><p id="stateSub">Press Space to continue</p>` +
		`<button id="resumeBtn">Resume</button>` +
		`<button id="overlayRestartBtn">Restart</button>` +
		`</div></main>`)
}

var dpadButtons = []struct{ name, dir string }{
	{"up", "0,-1"}, {"left", "-1,0"}, {"right", "1,0"}, {"down", "0,1"},
}

// Dpad 触控方向盘，data-dir 即转向向量
func Dpad() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<nav class="dpad-grid">`); err != nil {
			return err
		}
		for _, d := range dpadButtons {
			if _, err := fmt.Fprintf(w, `<button class="dpad dpad-%s" data-dir="%s" aria-label="%s"></button>`,
				d.name, d.dir, d.name); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</nav>`)
		return err
	})
}
