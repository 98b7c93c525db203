package game

import (
	"math"
	"math/rand"
	"time"
)

// Session 单局游戏的全部状态。只能由一个持有者（房间协程或终端程序）修改。
type Session struct {
	grid     int
	speed    int
	interval time.Duration

	snake   []Position
	dir     Direction // 当前已提交的移动方向
	pending Direction // 下一次 Step 开始时提交
	food    Position
	hasFood bool

	score   int
	best    int
	state   RunState
	outcome Outcome

	rng *rand.Rand
}

// TickInterval 速度档位换算为 Tick 间隔：clamp(round(280 - speed*12), 40, 240) ms
func TickInterval(speed int) time.Duration {
	ms := math.Round(280 - float64(speed)*12)
	d := time.Duration(ms) * time.Millisecond
	if d < MinTickInterval {
		return MinTickInterval
	}
	if d > MaxTickInterval {
		return MaxTickInterval
	}
	return d
}

// NewSession 创建会话并立即开始（Running）。best 为外部持久化读到的历史最高分；
// rng 为 nil 时使用基于当前时间的随机源。
func NewSession(grid, speed, best int, rng *rand.Rand) *Session {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if best < 0 {
		best = 0
	}
	s := &Session{best: best, rng: rng}
	s.Reset(grid, speed)
	return s
}

// Reset 重新初始化所有实体并进入 Running，最高分保留
func (s *Session) Reset(grid, speed int) {
	if grid < MinGridSize {
		grid = MinGridSize
	}
	s.grid = grid
	s.SetSpeed(speed)
	s.score = 0
	s.dir = Right
	s.pending = Right

	start := Position{X: grid / 3, Y: grid / 2}
	s.snake = make([]Position, 0, StartLength)
	for i := 0; i < StartLength; i++ {
		s.snake = append(s.snake, Position{X: start.X - i, Y: start.Y})
	}
	s.placeFood()
	s.state = Running
	s.outcome = OutcomeIdle
}

// Restart 以当前网格与速度重开
func (s *Session) Restart() {
	s.Reset(s.grid, s.speed)
}

// SetSpeed 仅重新计算 Tick 间隔，不影响其它状态
func (s *Session) SetSpeed(speed int) {
	s.speed = speed
	s.interval = TickInterval(speed)
}

// RequestTurn 记录待提交方向。与当前已提交方向相反（或不是单位向量）时静默拒绝。
func (s *Session) RequestTurn(d Direction) bool {
	if !d.Valid() || d == s.dir.Inverse() {
		return false
	}
	s.pending = d
	return true
}

// TogglePause 在 Running 与 Paused 之间切换；GameOver 时无效果
func (s *Session) TogglePause() {
	switch s.state {
	case Running:
		s.state = Paused
	case Paused:
		s.state = Running
	}
}

// SetPaused 强制暂停（true）或继续（false）；GameOver 时无效果
func (s *Session) SetPaused(paused bool) {
	if s.state == GameOver {
		return
	}
	if paused {
		s.state = Paused
	} else {
		s.state = Running
	}
}

// Step 推进一格。仅在 Running 时生效。
func (s *Session) Step() StepResult {
	if s.state != Running {
		return StepResult{Outcome: OutcomeIdle, Head: s.snake[0], Score: s.score, Best: s.best}
	}

	s.dir = s.pending
	head := s.snake[0].Add(s.dir)

	switch {
	case s.hitWall(head):
		return s.finish(OutcomeHitWall, head)
	case s.hitSelf(head):
		return s.finish(OutcomeHitSelf, head)
	}

	s.snake = append(s.snake, Position{})
	copy(s.snake[1:], s.snake)
	s.snake[0] = head

	if s.hasFood && head == s.food {
		s.score += FoodReward
		changed := s.recordBest()
		if !s.placeFood() {
			res := s.finish(OutcomeCleared, head)
			res.BestChanged = res.BestChanged || changed
			return res
		}
		s.outcome = OutcomeAte
		return StepResult{Outcome: OutcomeAte, Head: head, Score: s.score, Best: s.best, BestChanged: changed}
	}

	s.snake = s.snake[:len(s.snake)-1]
	s.outcome = OutcomeMoved
	return StepResult{Outcome: OutcomeMoved, Head: head, Score: s.score, Best: s.best}
}

func (s *Session) finish(o Outcome, head Position) StepResult {
	s.state = GameOver
	s.outcome = o
	changed := s.recordBest()
	return StepResult{Outcome: o, Head: head, Score: s.score, Best: s.best, BestChanged: changed}
}

func (s *Session) recordBest() bool {
	if s.score > s.best {
		s.best = s.score
		return true
	}
	return false
}

func (s *Session) hitWall(p Position) bool {
	return p.X < 0 || p.Y < 0 || p.X >= s.grid || p.Y >= s.grid
}

// hitSelf 与移动前的整条蛇身比较（含本步将腾出的尾巴），头部除外
func (s *Session) hitSelf(p Position) bool {
	for i := 1; i < len(s.snake); i++ {
		if s.snake[i] == p {
			return true
		}
	}
	return false
}

func (s *Session) occupied(p Position) bool {
	for _, seg := range s.snake {
		if seg == p {
			return true
		}
	}
	return false
}

// placeFood 在空格中均匀随机放置食物（拒绝采样）。网格已满时返回 false。
func (s *Session) placeFood() bool {
	if len(s.snake) >= s.grid*s.grid {
		s.hasFood = false
		return false
	}
	for {
		p := Position{X: s.rng.Intn(s.grid), Y: s.rng.Intn(s.grid)}
		if !s.occupied(p) {
			s.food = p
			s.hasFood = true
			return true
		}
	}
}

// Apply 执行一个来自输入队列的请求，返回是否改变了状态
func (s *Session) Apply(req Request) bool {
	switch req.Kind {
	case RequestTurn:
		return s.RequestTurn(req.Dir)
	case RequestTogglePause:
		if s.state == GameOver {
			return false
		}
		s.TogglePause()
		return true
	case RequestPause, RequestResume:
		before := s.state
		s.SetPaused(req.Kind == RequestPause)
		return s.state != before
	case RequestRestart:
		s.Restart()
		return true
	case RequestGrid:
		s.Reset(req.Value, s.speed)
		return true
	case RequestSpeed:
		s.SetSpeed(req.Value)
		return true
	}
	return false
}

func (s *Session) Grid() int { return s.grid }
func (s *Session) Speed() int { return s.speed }
func (s *Session) Interval() time.Duration { return s.interval }
func (s *Session) State() RunState { return s.state }
func (s *Session) Score() int { return s.score }
func (s *Session) Best() int { return s.best }
func (s *Session) Direction() Direction { return s.dir }
func (s *Session) Pending() Direction { return s.pending }
func (s *Session) Outcome() Outcome { return s.outcome }
func (s *Session) Head() Position { return s.snake[0] }
func (s *Session) Food() (Position, bool) { return s.food, s.hasFood }
func (s *Session) CellSize() float64 { return float64(BoardPixels) / float64(s.grid) }
func (s *Session) Running() bool { return s.state == Running }
func (s *Session) Len() int { return len(s.snake) }
func (s *Session) Segments() []Position { return append([]Position(nil), s.snake...) }

// Snapshot 复制当前状态供渲染端读取
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Snake:    s.Segments(),
		Grid:     s.grid,
		CellSize: s.CellSize(),
		State:    s.state,
		Score:    s.score,
		Best:     s.best,
		Speed:    s.speed,
		TickMs:   s.interval.Milliseconds(),
		Dir:      s.dir,
		Outcome:  s.outcome,
	}
	if s.hasFood {
		f := s.food
		snap.Food = &f
	}
	return snap
}
