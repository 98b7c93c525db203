package game

// RequestKind 输入队列中的请求类型
type RequestKind int

const (
	RequestNone RequestKind = iota
	RequestTurn
	RequestTogglePause
	RequestPause
	RequestResume
	RequestRestart
	RequestGrid  // Value 为新的网格大小，触发完整重置
	RequestSpeed // Value 为新的速度档位，仅重算 Tick 间隔
)

func (k RequestKind) String() string {
	switch k {
	case RequestTurn:
		return "turn"
	case RequestTogglePause:
		return "toggle-pause"
	case RequestPause:
		return "pause"
	case RequestResume:
		return "resume"
	case RequestRestart:
		return "restart"
	case RequestGrid:
		return "grid"
	case RequestSpeed:
		return "speed"
	}
	return "none"
}

// Request 输入路由产出的意图，由会话持有者在下一帧统一消费
type Request struct {
	Kind  RequestKind
	Dir   Direction
	Value int
}

func Turn(d Direction) Request { return Request{Kind: RequestTurn, Dir: d} }

func Control(k RequestKind) Request { return Request{Kind: k} }

func SetGrid(n int) Request { return Request{Kind: RequestGrid, Value: n} }

func SetSpeed(n int) Request { return Request{Kind: RequestSpeed, Value: n} }
