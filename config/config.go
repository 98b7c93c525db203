// Package config 服务端与终端版共用的命令行配置，以及网格/速度的取值约束。
package config

import (
	"errors"
	"flag"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"snakearena/game"
)

// DefaultFrameRate 调度器帧率，对应浏览器 requestAnimationFrame 的常见刷新率
const DefaultFrameRate = 60

// Config 命令行配置，服务端与终端版共用（终端版忽略网络相关的字段）
type Config struct {
	Addr     string
	LogFile  string
	LogLevel string
	DBPath   string
	WebDir   string // 非空时从磁盘提供静态资源，便于前端调试

	FrameRate        int
	Grid             int
	Speed            int
	GridChoices      []int
	SpeedMin         int
	SpeedMax         int
	MaxInputsPerTick int // 每帧最多消费的输入数，多余的留到下一帧
	InputBuffer      int // 房间输入队列容量，满则丢弃
}

// DefaultConfig 默认值：20x20 网格，速度 10（160ms 一步）
func DefaultConfig() Config {
	return Config{
		Addr:             ":8080",
		LogFile:          "app.log",
		LogLevel:         "info",
		DBPath:           "data/snake.db",
		FrameRate:        DefaultFrameRate,
		Grid:             20,
		Speed:            10,
		GridChoices:      []int{15, 20, 25, 30},
		SpeedMin:         1,
		SpeedMax:         20,
		MaxInputsPerTick: 32,
		InputBuffer:      256,
	}
}

// RegisterFlags 把配置项注册到 fs，默认值取自 c 当前的值
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Addr, "addr", c.Addr, "server listen address, e.g. :8080")
	fs.StringVar(&c.LogFile, "log", c.LogFile, "log file path (rotated)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&c.DBPath, "db", c.DBPath, "sqlite file for the best score; empty keeps it in memory")
	fs.StringVar(&c.WebDir, "web", c.WebDir, "serve static assets from this directory instead of the embedded copy")
	fs.IntVar(&c.FrameRate, "fps", c.FrameRate, "scheduler frames per second")
	fs.IntVar(&c.Grid, "grid", c.Grid, "default grid size")
	fs.IntVar(&c.Speed, "speed", c.Speed, "default speed setting")
	fs.Var((*intList)(&c.GridChoices), "grid-choices", "comma separated grid sizes offered to players")
	fs.IntVar(&c.SpeedMin, "speed-min", c.SpeedMin, "lowest speed setting")
	fs.IntVar(&c.SpeedMax, "speed-max", c.SpeedMax, "highest speed setting")
	fs.IntVar(&c.MaxInputsPerTick, "max-inputs", c.MaxInputsPerTick, "inputs consumed per frame")
	fs.IntVar(&c.InputBuffer, "input-buffer", c.InputBuffer, "queued inputs per room before dropping")
}

// Validate 检查配置是否自洽
func (c Config) Validate() error {
	var errs []error
	if c.FrameRate <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %d", c.FrameRate))
	}
	if len(c.GridChoices) == 0 {
		errs = append(errs, errors.New("grid-choices is empty"))
	}
	for _, g := range c.GridChoices {
		if g < game.MinGridSize {
			errs = append(errs, fmt.Errorf("grid choice %d below minimum %d", g, game.MinGridSize))
		}
	}
	if len(c.GridChoices) > 0 && !slices.Contains(c.GridChoices, c.Grid) {
		errs = append(errs, fmt.Errorf("default grid %d not in grid-choices %v", c.Grid, c.GridChoices))
	}
	if c.SpeedMin > c.SpeedMax {
		errs = append(errs, fmt.Errorf("speed-min %d greater than speed-max %d", c.SpeedMin, c.SpeedMax))
	}
	if c.Speed < c.SpeedMin || c.Speed > c.SpeedMax {
		errs = append(errs, fmt.Errorf("default speed %d outside [%d, %d]", c.Speed, c.SpeedMin, c.SpeedMax))
	}
	if c.MaxInputsPerTick <= 0 {
		errs = append(errs, fmt.Errorf("max-inputs must be positive, got %d", c.MaxInputsPerTick))
	}
	if c.InputBuffer <= 0 {
		errs = append(errs, fmt.Errorf("input-buffer must be positive, got %d", c.InputBuffer))
	}
	return errors.Join(errs...)
}

// FrameInterval 帧间隔
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FrameRate)
}

// Limits 页面控件允许的取值范围
func (c Config) Limits() Limits {
	return Limits{
		GridChoices: slices.Clone(c.GridChoices),
		SpeedMin:    c.SpeedMin,
		SpeedMax:    c.SpeedMax,
	}
}

// Limits 网格只能取枚举值，速度限制在区间内。
// 这是界面层的约束，转向规则仍由 game.Session 负责。
type Limits struct {
	GridChoices []int `json:"gridChoices"`
	SpeedMin    int   `json:"speedMin"`
	SpeedMax    int   `json:"speedMax"`
}

// Allow 校验网格/速度请求；速度越界时夹到边界，网格不在枚举中时拒绝
func (l Limits) Allow(req game.Request) (game.Request, bool) {
	switch req.Kind {
	case game.RequestGrid:
		return req, slices.Contains(l.GridChoices, req.Value)
	case game.RequestSpeed:
		req.Value = max(l.SpeedMin, min(req.Value, l.SpeedMax))
	}
	return req, true
}

// intList 逗号分隔的整数列表参数
type intList []int

func (l *intList) String() string {
	if l == nil {
		return ""
	}
	parts := make([]string, len(*l))
	for i, v := range *l {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func (l *intList) Set(s string) error {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return fmt.Errorf("invalid integer %q: %w", part, err)
		}
		out = append(out, n)
	}
	*l = out
	return nil
}
