package game

import (
	"fmt"
	"time"
)

const (
	// FoodReward 每吃到一个食物增加的分数
	FoodReward = 10
	// StartLength 重置后蛇的初始长度
	StartLength = 3
	// MinGridSize 能放下初始蛇身的最小网格
	MinGridSize = 6
	// BoardPixels 画布逻辑尺寸（正方形），用于推导单元格大小
	BoardPixels = 600

	MinTickInterval = 40 * time.Millisecond
	MaxTickInterval = 240 * time.Millisecond
)

// Position 网格坐标，0 <= X,Y < gridSize
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add 返回 p 沿方向 d 移动一格后的位置
func (p Position) Add(d Direction) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Direction 四个单位向量之一
type Direction Position

var (
	Up    = Direction{X: 0, Y: -1}
	Down  = Direction{X: 0, Y: 1}
	Left  = Direction{X: -1, Y: 0}
	Right = Direction{X: 1, Y: 0}
)

// Inverse 反方向
func (d Direction) Inverse() Direction {
	return Direction{X: -d.X, Y: -d.Y}
}

// Valid 是否为四个单位向量之一
func (d Direction) Valid() bool {
	return d == Up || d == Down || d == Left || d == Right
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return Position(d).String()
}

// RunState 会话运行状态
type RunState int

const (
	Running RunState = iota
	Paused
	GameOver
)

func (s RunState) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	case GameOver:
		return "gameover"
	}
	return fmt.Sprintf("RunState(%d)", int(s))
}

func (s RunState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *RunState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "running":
		*s = Running
	case "paused":
		*s = Paused
	case "gameover":
		*s = GameOver
	default:
		return fmt.Errorf("unknown run state %q", b)
	}
	return nil
}

// Outcome 一次 Step 的结果
type Outcome int

const (
	OutcomeIdle    Outcome = iota // 非运行状态，未推进
	OutcomeMoved                  // 正常移动
	OutcomeAte                    // 吃到食物并增长
	OutcomeHitWall                // 撞墙，游戏结束
	OutcomeHitSelf                // 撞到自身，游戏结束
	OutcomeCleared                // 蛇占满网格，无处放置食物
)

var outcomeNames = map[Outcome]string{
	OutcomeIdle:    "idle",
	OutcomeMoved:   "moved",
	OutcomeAte:     "ate",
	OutcomeHitWall: "wall",
	OutcomeHitSelf: "self",
	OutcomeCleared: "cleared",
}

func (o Outcome) String() string {
	if n, ok := outcomeNames[o]; ok {
		return n
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(b []byte) error {
	for k, n := range outcomeNames {
		if n == string(b) {
			*o = k
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", b)
}

// Terminal 该结果是否结束本局
func (o Outcome) Terminal() bool {
	return o == OutcomeHitWall || o == OutcomeHitSelf || o == OutcomeCleared
}

// StepResult 描述一次 Step 之后的可观察变化
type StepResult struct {
	Outcome     Outcome
	Head        Position
	Score       int
	Best        int
	BestChanged bool
}

// Snapshot 渲染端读取的只读状态副本
type Snapshot struct {
	Snake    []Position `json:"snake"`
	Food     *Position  `json:"food,omitempty"`
	Grid     int        `json:"grid"`
	CellSize float64    `json:"cellSize"`
	State    RunState   `json:"state"`
	Score    int        `json:"score"`
	Best     int        `json:"best"`
	Speed    int        `json:"speed"`
	TickMs   int64      `json:"tickMs"`
	Dir      Direction  `json:"dir"`
	Outcome  Outcome    `json:"outcome"`
}
