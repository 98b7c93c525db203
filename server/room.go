package server

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync/atomic"
	"time"

	"snakearena/config"
	"snakearena/game"
	"snakearena/logger"
	"snakearena/store"
)

// Room 房间世界：一局贪吃蛇的权威状态维护在内存，单协程逐帧推进。
// session、clock、players 只由帧协程访问，其它协程通过通道投递请求。
type Room struct {
	ID string

	players   map[PlayerID]*Player
	inputChan chan Input
	joinChan  chan *Player
	leaveChan chan leaveRequest
	bestChan  chan int

	session *game.Session
	clock   game.Clock
	limits  config.Limits
	scores  store.BestScores
	now     func() time.Time

	frame            time.Duration
	maxInputsPerTick atomic.Int64
	tickSeq          atomic.Int64
	playerCount      atomic.Int64
	snapshot         atomic.Pointer[game.Snapshot]

	dirty  bool
	events [][]byte // 本帧待广播的一次性事件（如 gameover）

	metrics *RoomMetrics

	tickerStarted atomic.Bool
	done          chan struct{} // 帧循环退出
	writerDone    chan struct{} // 最高分写协程退出
}

// RoomOptions 创建房间所需的参数
type RoomOptions struct {
	Grid             int
	Speed            int
	Limits           config.Limits
	Frame            time.Duration
	MaxInputsPerTick int
	InputBuffer      int
	Scores           store.BestScores
	Rand             *rand.Rand       // 为空时按时间播种
	Now              func() time.Time // 为空时使用 time.Now
}

// RoomOptionsFromConfig 由服务端配置生成房间参数
func RoomOptionsFromConfig(cfg config.Config, scores store.BestScores) RoomOptions {
	return RoomOptions{
		Grid:             cfg.Grid,
		Speed:            cfg.Speed,
		Limits:           cfg.Limits(),
		Frame:            cfg.FrameInterval(),
		MaxInputsPerTick: cfg.MaxInputsPerTick,
		InputBuffer:      cfg.InputBuffer,
		Scores:           scores,
	}
}

// NewRoom 创建房间：读取持久化的最高分并立即开始一局
func NewRoom(id string, opts RoomOptions) *Room {
	if opts.Scores == nil {
		opts.Scores = store.NewMemory()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Frame <= 0 {
		opts.Frame = time.Second / config.DefaultFrameRate
	}
	if opts.InputBuffer <= 0 {
		opts.InputBuffer = 256
	}
	if opts.MaxInputsPerTick <= 0 {
		opts.MaxInputsPerTick = 32
	}

	best := opts.Scores.LoadBest(context.Background(), store.BestKey)
	r := &Room{
		ID:         id,
		players:    make(map[PlayerID]*Player),
		inputChan:  make(chan Input, opts.InputBuffer), // 足够缓冲，避免网络读阻塞影响帧
		joinChan:   make(chan *Player, 64),
		leaveChan:  make(chan leaveRequest, 64),
		bestChan:   make(chan int, 1),
		session:    game.NewSession(opts.Grid, opts.Speed, best, opts.Rand),
		limits:     opts.Limits,
		scores:     opts.Scores,
		now:        opts.Now,
		frame:      opts.Frame,
		metrics:    &RoomMetrics{},
		done:       make(chan struct{}),
		writerDone: make(chan struct{}),
	}
	r.maxInputsPerTick.Store(int64(opts.MaxInputsPerTick))
	r.publish()
	logger.Log.Infow("room created", "room", id, "grid", opts.Grid, "speed", opts.Speed, "best", best)
	return r
}

// JoinPlayer 请求在帧协程中加入玩家；房间已停止时返回 false
func (r *Room) JoinPlayer(p *Player) bool {
	select {
	case r.joinChan <- p:
		return true
	case <-r.done:
		return false
	}
}

// leaveRequest 只移除仍绑定在该连接上的玩家，同名重连不会被旧连接踢掉
type leaveRequest struct {
	id   PlayerID
	conn Sender
}

// RequestLeave 请求在帧协程中移除玩家，避免并发改动房间状态
func (r *Room) RequestLeave(pid PlayerID, conn Sender) {
	// 为保证移除一定生效，这里采用阻塞式写入（通道有容量）；房间已停止时直接返回
	select {
	case r.leaveChan <- leaveRequest{id: pid, conn: conn}:
	case <-r.done:
	}
}

// OnInput 入站输入（不立即改变状态），仅记录意图，等下一帧处理
func (r *Room) OnInput(in Input) {
	select {
	case r.inputChan <- in:
	default:
		// 丢弃：为了实时性，避免背压影响世界推进
		r.metrics.IncChanFullDiscarded()
	}
}

// Snapshot 最近一帧发布的只读状态，可在任意协程调用
func (r *Room) Snapshot() game.Snapshot {
	return *r.snapshot.Load()
}

// Metrics 房间指标
func (r *Room) Metrics() *RoomMetrics { return r.metrics }

// Limits 页面控件的取值范围
func (r *Room) Limits() config.Limits { return r.limits }

// TickSeq 已推进的 Step 次数
func (r *Room) TickSeq() int64 { return r.tickSeq.Load() }

// Players 当前连接数
func (r *Room) Players() int64 { return r.playerCount.Load() }

// MaxInputsPerTick 每帧最多消费的输入数
func (r *Room) MaxInputsPerTick() int { return int(r.maxInputsPerTick.Load()) }

// SetMaxInputsPerTick 热更新每帧输入上限
func (r *Room) SetMaxInputsPerTick(n int) {
	if n > 0 {
		r.maxInputsPerTick.Store(int64(n))
	}
}

// tick 一帧：处理输入 → 推进世界 → 广播结果
func (r *Room) tick(now time.Time) {
	start := time.Now()
	r.ProcessInputs()
	r.UpdateWorld(now)
	r.BroadcastDelta()
	r.metrics.AddTick(time.Since(start).Nanoseconds())
}

// ProcessInputs 处理当前帧的加入/离开与输入意图（非阻塞 drain）
func (r *Room) ProcessInputs() {
	// 先处理加入再处理离开：同一帧内先加入后断开的连接不会残留
	for drained := false; !drained; {
		select {
		case p := <-r.joinChan:
			r.addPlayer(p)
		default:
			drained = true
		}
	}
	for drained := false; !drained; {
		select {
		case lr := <-r.leaveChan:
			if p, ok := r.players[lr.id]; ok && p.Conn == lr.conn {
				r.LeavePlayer(lr.id)
			}
		default:
			drained = true
		}
	}

	limit := r.MaxInputsPerTick()
	for n := 0; n < limit; n++ {
		select {
		case in := <-r.inputChan:
			r.applyInput(in)
		default:
			return
		}
	}
	if left := len(r.inputChan); left > 0 {
		r.metrics.AddDeferred(int64(left))
	}
}

func (r *Room) applyInput(in Input) {
	if p, ok := r.players[in.PlayerID]; ok && in.Seq > 0 {
		if in.Seq <= p.LastSeq {
			r.metrics.IncOldSeqIgnored()
			return
		}
		p.LastSeq = in.Seq
	}

	req, ok := r.limits.Allow(in.Request)
	if !ok {
		r.metrics.IncLimitRejected()
		logger.Log.Debugw("request outside limits", "room", r.ID, "kind", req.Kind, "value", req.Value)
		return
	}

	if !r.session.Apply(req) {
		if req.Kind == game.RequestTurn {
			r.metrics.IncTurnsRejected()
		}
		return
	}
	r.metrics.IncAccepted()
	r.dirty = true

	switch req.Kind {
	case game.RequestRestart, game.RequestGrid:
		// 重开后由下一帧重新建立计时基准
		r.clock.Reset()
		logger.Log.Infow("game reset", "room", r.ID, "grid", r.session.Grid(), "speed", r.session.Speed(), "by", in.PlayerID)
	case game.RequestSpeed:
		logger.Log.Infow("speed changed", "room", r.ID, "speed", r.session.Speed(), "tick", r.session.Interval())
	}
}

// UpdateWorld 按时钟判断本帧是否推进一步（每个间隔最多一步）
func (r *Room) UpdateWorld(now time.Time) {
	if !r.clock.Due(now, r.session.Interval(), r.session.Running()) {
		return
	}
	res := r.session.Step()
	r.tickSeq.Add(1)
	r.metrics.IncSteps()
	r.dirty = true

	if res.BestChanged {
		r.persistBest(res.Best)
	}
	if res.Outcome.Terminal() {
		r.metrics.IncGamesOver()
		logger.Log.Infow("game over", "room", r.ID, "outcome", res.Outcome, "head", res.Head,
			"score", res.Score, "best", res.Best, "length", r.session.Len())
		snap := r.session.Snapshot()
		r.events = append(r.events, r.encode(message{Type: "gameover", State: &snap}))
	}
}

// BroadcastDelta 状态有变化时发布快照并广播给所有玩家
func (r *Room) BroadcastDelta() {
	if !r.dirty && len(r.events) == 0 {
		return
	}
	if r.dirty {
		snap := r.publish()
		r.broadcast(r.encode(message{Type: "state", State: &snap}))
		r.dirty = false
	}
	for _, ev := range r.events {
		r.broadcast(ev)
	}
	r.events = r.events[:0]
}

func (r *Room) publish() game.Snapshot {
	snap := r.session.Snapshot()
	r.snapshot.Store(&snap)
	return snap
}

func (r *Room) broadcast(b []byte) {
	if b == nil {
		return
	}
	for _, p := range r.players {
		if p.Conn != nil {
			p.Conn.Enqueue(b)
		}
	}
}

// addPlayer 加入玩家并单独下发配置与当前状态
func (r *Room) addPlayer(p *Player) {
	if old, ok := r.players[p.ID]; ok && old.Conn != nil && old.Conn != p.Conn {
		old.Conn.Close()
	}
	r.players[p.ID] = p
	r.playerCount.Store(int64(len(r.players)))
	if p.Conn != nil {
		snap := r.session.Snapshot()
		p.Conn.Enqueue(r.encode(message{Type: "config", Player: string(p.ID), Config: r.clientConfig()}))
		p.Conn.Enqueue(r.encode(message{Type: "state", State: &snap}))
	}
	logger.Log.Infow("player joined", "room", r.ID, "player", p.ID, "players", len(r.players))
}

// LeavePlayer 将玩家移出房间
func (r *Room) LeavePlayer(id PlayerID) {
	if p, ok := r.players[id]; ok {
		if p.Conn != nil {
			p.Conn.Close()
		}
		delete(r.players, id)
		r.playerCount.Store(int64(len(r.players)))
		logger.Log.Infow("player left", "room", r.ID, "player", id, "players", len(r.players))
	}
}

func (r *Room) closeAll() {
	for id := range r.players {
		r.LeavePlayer(id)
	}
}

// persistBest 把最新的最高分交给写协程；通道里只保留最新值
func (r *Room) persistBest(v int) {
	select {
	case r.bestChan <- v:
		return
	default:
	}
	select {
	case <-r.bestChan:
	default:
	}
	r.bestChan <- v
}

// bestWriter 独立协程，负责把最高分写入存储，避免帧等待数据库。
// 帧循环退出（done 关闭）后才返回：最后一帧排入的值也会写掉。
func (r *Room) bestWriter(ctx context.Context) {
	// 房间停止时 ctx 已取消，写入不能跟着失败
	ctx = context.WithoutCancel(ctx)
	for {
		select {
		case v := <-r.bestChan:
			r.saveBest(ctx, v)
		case <-r.done:
			select {
			case v := <-r.bestChan:
				r.saveBest(ctx, v)
			default:
			}
			return
		}
	}
}

func (r *Room) saveBest(ctx context.Context, v int) {
	if err := r.scores.SaveBest(ctx, store.BestKey, v); err != nil {
		r.metrics.IncBestWriteErrors()
		logger.Log.Errorw("save best score failed", "room", r.ID, "best", v, "err", err)
		return
	}
	r.metrics.IncBestWrites()
	logger.Log.Debugw("best score saved", "room", r.ID, "best", v)
}

// message 出站消息（WebSocket 文本 JSON）
type message struct {
	Type   string         `json:"type"`
	Player string         `json:"player,omitempty"`
	State  *game.Snapshot `json:"state,omitempty"`
	Config *ClientConfig  `json:"config,omitempty"`
}

// ClientConfig 连接建立时下发给客户端的界面参数
type ClientConfig struct {
	config.Limits
	Grid        int   `json:"grid"`
	Speed       int   `json:"speed"`
	TickMs      int64 `json:"tickMs"`
	BoardPixels int   `json:"boardPixels"`
}

func (r *Room) clientConfig() *ClientConfig {
	return &ClientConfig{
		Limits:      r.limits,
		Grid:        r.session.Grid(),
		Speed:       r.session.Speed(),
		TickMs:      r.session.Interval().Milliseconds(),
		BoardPixels: game.BoardPixels,
	}
}

func (r *Room) encode(m message) []byte {
	b, err := json.Marshal(m)
	if err != nil {
		logger.Log.Errorw("encode message failed", "room", r.ID, "type", m.Type, "err", err)
		return nil
	}
	return b
}
