package main

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"snakearena/config"
	"snakearena/game"
	"snakearena/input"
	"snakearena/logger"
	"snakearena/store"
)

// FrameMsg 调度帧，频率与游戏速度无关
type FrameMsg time.Time

type bestSavedMsg struct {
	best int
	err  error
}

var (
	headStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7cffc0"))
	bodyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#49d6a3"))
	foodStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff7b7b"))
	wallStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#2a4760"))
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffd166"))
	hintStyle  = lipgloss.NewStyle().Faint(true)
)

type model struct {
	session *game.Session
	clock   game.Clock
	scores  store.BestScores

	frame       time.Duration
	gridChoices []int
	speedMin    int
	speedMax    int
}

func newModel(s *game.Session, scores store.BestScores, frame time.Duration, gridChoices []int, speedMin, speedMax int) model {
	return model{
		session:     s,
		scores:      scores,
		frame:       frame,
		gridChoices: gridChoices,
		speedMin:    speedMin,
		speedMax:    speedMax,
	}
}

// modelFromConfig 帧率与控件范围取自命令行配置
func modelFromConfig(cfg config.Config, s *game.Session, scores store.BestScores) model {
	l := cfg.Limits()
	return newModel(s, scores, cfg.FrameInterval(), l.GridChoices, l.SpeedMin, l.SpeedMax)
}

func (m model) frameCmd() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return m.frameCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	case FrameMsg:
		cmd := m.advance(time.Time(msg))
		return m, tea.Batch(cmd, m.frameCmd())
	case bestSavedMsg:
		if msg.err != nil {
			logger.Log.Errorw("save best score failed", "best", msg.best, "err", msg.err)
		}
	}
	return m, nil
}

// advance 每帧检查时钟，到点时推进一步；最高分变化时异步写入存储
func (m *model) advance(now time.Time) tea.Cmd {
	if !m.clock.Due(now, m.session.Interval(), m.session.Running()) {
		return nil
	}
	res := m.session.Step()
	if res.Outcome.Terminal() {
		logger.Log.Infow("game over", "outcome", res.Outcome, "score", res.Score, "best", res.Best)
	}
	if !res.BestChanged {
		return nil
	}
	scores, best := m.scores, res.Best
	return func() tea.Msg {
		return bestSavedMsg{best: best, err: scores.SaveBest(context.Background(), store.BestKey, best)}
	}
}

func (m model) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "+", "=":
		m.apply(game.SetSpeed(min(m.session.Speed()+1, m.speedMax)))
		return m, nil
	case "-", "_":
		m.apply(game.SetSpeed(max(m.session.Speed()-1, m.speedMin)))
		return m, nil
	case "g":
		m.apply(game.SetGrid(m.nextGrid()))
		return m, nil
	}
	if req, ok := input.FromKey(key); ok {
		m.apply(req)
	}
	return m, nil
}

func (m *model) apply(req game.Request) {
	if m.session.Apply(req) && (req.Kind == game.RequestRestart || req.Kind == game.RequestGrid) {
		m.clock.Reset()
	}
}

func (m model) nextGrid() int {
	i := slices.Index(m.gridChoices, m.session.Grid())
	return m.gridChoices[(i+1)%len(m.gridChoices)]
}

func (m model) View() string {
	snap := m.session.Snapshot()
	cells := make(map[game.Position]string, len(snap.Snake)+1)
	if snap.Food != nil {
		cells[*snap.Food] = foodStyle.Render("●")
	}
	for i, p := range snap.Snake {
		if i == 0 {
			cells[p] = headStyle.Render("█")
		} else {
			cells[p] = bodyStyle.Render("▓")
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  score %d  best %d  speed %d (%dms)  grid %dx%d\n",
		titleStyle.Render("SNAKE"), snap.Score, snap.Best, snap.Speed, snap.TickMs, snap.Grid, snap.Grid)

	border := wallStyle.Render(strings.Repeat("──", snap.Grid))
	b.WriteString(wallStyle.Render("┌") + border + wallStyle.Render("┐") + "\n")
	for y := 0; y < snap.Grid; y++ {
		b.WriteString(wallStyle.Render("│"))
		for x := 0; x < snap.Grid; x++ {
			if c, ok := cells[game.Position{X: x, Y: y}]; ok {
				b.WriteString(c + c)
			} else {
				b.WriteString("  ")
			}
		}
		b.WriteString(wallStyle.Render("│") + "\n")
	}
	b.WriteString(wallStyle.Render("└") + border + wallStyle.Render("┘") + "\n")

	switch snap.State {
	case game.Paused:
		b.WriteString(titleStyle.Render("Paused") + " press space to continue\n")
	case game.GameOver:
		title := "Game Over"
		if snap.Outcome == game.OutcomeCleared {
			title = "Board Cleared"
		}
		b.WriteString(titleStyle.Render(title) + " press r to restart\n")
	default:
		b.WriteString("\n")
	}
	b.WriteString(hintStyle.Render("arrows/wasd move · space/p pause · r restart · +/- speed · g grid · q quit"))
	return b.String()
}
