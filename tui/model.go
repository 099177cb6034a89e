package tui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/wricardo/memory-match/game/engine"
)

type inputMode int

const (
	modeBoard inputMode = iota
	modeGridSize
	modeMaxMoves
)

const maxInputLen = 6

// resolveMsg carries a deferred engine callback back into the update loop
type resolveMsg struct {
	fn func()
}

type pendingTimer struct {
	d  time.Duration
	fn func()
}

// timerQueue collects callbacks the engine schedules so Update can turn
// them into tea.Tick commands.
type timerQueue struct {
	mu      sync.Mutex
	pending []pendingTimer
}

func (q *timerQueue) schedule(d time.Duration, fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, pendingTimer{d: d, fn: fn})
}

func (q *timerQueue) drain() []pendingTimer {
	q.mu.Lock()
	defer q.mu.Unlock()
	p := q.pending
	q.pending = nil
	return p
}

// Option configures a Model
type Option func(*options)

type options struct {
	seed uint64
	log  zerolog.Logger
}

// WithSeed fixes the shuffle seed
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = seed }
}

// WithLogger sets the engine logger. Keep it away from stdout while the UI runs.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// Model is the bubbletea model for a single local game
type Model struct {
	engine *engine.GameEngine
	timers *timerQueue
	keys   KeyMap

	cursor int
	mode   inputMode
	input  string
	notice string
	failed bool

	width, height int
}

// New deals a game from the given preset
func New(config *engine.GameConfig, opts ...Option) (*Model, error) {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	timers := &timerQueue{}
	eng, err := engine.NewEngine(config,
		engine.WithSeed(o.seed),
		engine.WithScheduler(timers.schedule),
		engine.WithLogger(o.log),
	)
	if err != nil {
		return nil, err
	}

	return &Model{
		engine: eng,
		timers: timers,
		keys:   Keys,
	}, nil
}

// Engine exposes the underlying game engine
func (m *Model) Engine() *engine.GameEngine {
	return m.engine
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case resolveMsg:
		msg.fn()

	case tea.KeyMsg:
		if m.mode != modeBoard {
			return m.updateInput(msg)
		}
		return m.updateBoard(msg)
	}

	return m, nil
}

func (m *Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	size := m.engine.View().GridSize

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.engine.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.cursor = (m.cursor - size + size*size) % (size * size)

	case key.Matches(msg, m.keys.Down):
		m.cursor = (m.cursor + size) % (size * size)

	case key.Matches(msg, m.keys.Left):
		row, col := m.cursor/size, m.cursor%size
		m.cursor = row*size + (col-1+size)%size

	case key.Matches(msg, m.keys.Right):
		row, col := m.cursor/size, m.cursor%size
		m.cursor = row*size + (col+1)%size

	case key.Matches(msg, m.keys.Reveal):
		m.notice = ""
		m.engine.Reveal(m.cursor)
		return m, m.scheduled()

	case key.Matches(msg, m.keys.Reset):
		m.notice = ""
		m.engine.Reset()

	case key.Matches(msg, m.keys.GridSize):
		m.mode = modeGridSize
		m.input = ""

	case key.Matches(msg, m.keys.MaxMoves):
		m.mode = modeMaxMoves
		m.input = ""
	}

	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		m.engine.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeBoard
		m.input = ""

	case key.Matches(msg, m.keys.Confirm):
		m.applySetting()

	case key.Matches(msg, m.keys.Erase):
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}

	case msg.Type == tea.KeyRunes:
		if len(m.input)+len(msg.Runes) <= maxInputLen {
			m.input += string(msg.Runes)
		}
	}

	return m, nil
}

// applySetting hands the raw input to the engine, which validates it
func (m *Model) applySetting() {
	var res engine.SettingResult
	switch m.mode {
	case modeGridSize:
		res = m.engine.SetGridSize(m.input)
	case modeMaxMoves:
		res = m.engine.SetMaxMoves(m.input)
	}

	m.mode = modeBoard
	m.input = ""
	m.failed = !res.Accepted

	switch {
	case !res.Accepted:
		m.notice = res.Reason
	case res.Setting == "grid_size":
		m.notice = fmt.Sprintf("Grid size set to %d", res.Value)
	default:
		m.notice = fmt.Sprintf("Max moves set to %d", res.Value)
	}

	if size := m.engine.View().GridSize; m.cursor >= size*size {
		m.cursor = 0
	}
}

// scheduled turns queued engine timers into tea commands
func (m *Model) scheduled() tea.Cmd {
	var cmds []tea.Cmd
	for _, t := range m.timers.drain() {
		fn := t.fn
		cmds = append(cmds, tea.Tick(t.d, func(time.Time) tea.Msg {
			return resolveMsg{fn: fn}
		}))
	}
	return tea.Batch(cmds...)
}

func (m *Model) View() string {
	board := m.engine.View()

	sections := []string{
		titleStyle.Render("Memory Match"),
		m.renderBoard(board),
		m.renderInfo(board),
	}

	if status := m.renderStatus(board); status != "" {
		sections = append(sections, status)
	}
	sections = append(sections, m.renderHelp(board))

	view := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if m.width == 0 || m.height == 0 {
		return view
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, view)
}

func (m *Model) renderBoard(board *engine.BoardView) string {
	rows := make([]string, 0, board.GridSize)
	for r := 0; r < board.GridSize; r++ {
		cells := make([]string, 0, board.GridSize)
		for c := 0; c < board.GridSize; c++ {
			card, _ := board.Card(r*board.GridSize + c)
			cells = append(cells, m.renderCard(card))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) renderCard(card engine.CardView) string {
	style := hiddenCardStyle
	label := "?"

	switch card.State {
	case engine.CardRevealed:
		style = revealedCardStyle
	case engine.CardMatched:
		style = matchedCardStyle
	}
	if card.Value != nil {
		label = fmt.Sprintf("%d", *card.Value)
	}

	if card.ID == m.cursor {
		style = style.BorderForeground(cursorBorder)
	}
	return style.Render(label)
}

func (m *Model) renderInfo(board *engine.BoardView) string {
	info := fmt.Sprintf("Moves: %s   Pairs: %d/%d   Grid: %dx%d",
		board.MovesLabel, board.MatchedPairs, board.TotalPairs, board.GridSize, board.GridSize)
	if board.Message != "" {
		info += "\n" + board.Message
	}
	return infoStyle.Render(info)
}

func (m *Model) renderStatus(board *engine.BoardView) string {
	var lines []string

	switch board.Outcome {
	case engine.Won:
		lines = append(lines, wonStyle.Render(board.Banner))
	case engine.Lost:
		lines = append(lines, lostStyle.Render(board.Banner))
	}

	switch m.mode {
	case modeGridSize:
		lines = append(lines, fmt.Sprintf("Grid size (2-10, even): %s_", m.input))
	case modeMaxMoves:
		lines = append(lines, fmt.Sprintf("Max moves: %s_", m.input))
	}

	if m.notice != "" {
		if m.failed {
			lines = append(lines, errorStyle.Render(m.notice))
		} else {
			lines = append(lines, infoStyle.Render(m.notice))
		}
	}

	return strings.Join(lines, "\n")
}

func (m *Model) renderHelp(board *engine.BoardView) string {
	if m.mode != modeBoard {
		return helpStyle.Render("enter apply • esc cancel")
	}

	parts := make([]string, 0, len(m.keys.ShortHelp()))
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		desc := h.Desc
		if b.Help().Key == m.keys.Reset.Help().Key {
			desc = strings.ToLower(board.ResetLabel)
		}
		parts = append(parts, h.Key+" "+desc)
	}
	return helpStyle.Render(strings.Join(parts, " • "))
}
