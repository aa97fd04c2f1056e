package tui

import (
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/twozero/internal/config"
	"github.com/vovakirdan/twozero/internal/core"
	"github.com/vovakirdan/twozero/internal/games/t2048"
	"github.com/vovakirdan/twozero/internal/storage"
)

// LocalSlot is the save slot used for games played in the local terminal.
const LocalSlot = "local"

// Publisher receives board snapshots for spectators.
type Publisher interface {
	Publish(sessionID string, v any)
	End(sessionID string)
}

// SessionOptions carries the dependencies shared by every screen of a session.
type SessionOptions struct {
	Store      *storage.Store // nil disables persistence
	Game       config.GameConfig
	Runtime    core.RuntimeConfig
	Slot       string // save slot, LocalSlot or the SSH user name
	SessionID  string
	Spectators Publisher // nil disables spectating
	Logger     *log.Logger
}

func (o SessionOptions) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.Default()
}

// GameModel runs one 2048 game: it feeds key presses to the game as actions,
// drives animations from tick timestamps and persists scores and saves.
type GameModel struct {
	opts       SessionOptions
	game       *t2048.Game
	screen     *core.Screen
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	help       help.Model
	inputFrame core.InputFrame
	gameState  core.GameState
	lastTick   time.Time
	scoreSaved bool
	quitting   bool
	backToMenu bool
}

// NewGameModel creates a game model. With resume set it restores the saved
// game in the session's slot when there is one.
func NewGameModel(opts SessionOptions, resume bool) GameModel {
	cfg := opts.Runtime
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = opts.Game.Runtime.TickRate
	}

	gameOpts := t2048.OptionsFromConfig(opts.Game)
	gameOpts.HighScore = loadHighScore(opts)
	gameOpts.OnHighScore = func(score int) {
		if opts.Store == nil {
			return
		}
		if err := opts.Store.RecordHighScore(GameID, score); err != nil {
			opts.logger().Warn("could not record high score", "score", score, "error", err)
		}
	}

	game := t2048.New(gameOpts)
	game.Reset(boardConfig(cfg))

	m := GameModel{
		opts:       opts,
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-1, 1)),
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		help:       help.New(),
		inputFrame: core.NewInputFrame(),
	}
	m.help.Width = cfg.ScreenW

	if resume {
		m.restore()
	}
	m.gameState = game.State()
	return m
}

// GameID keys scores and saves in storage.
const GameID = "2048"

func loadHighScore(opts SessionOptions) int {
	if opts.Store == nil {
		return 0
	}
	high, err := opts.Store.HighScore(GameID)
	if err != nil {
		opts.logger().Warn("could not load high score", "error", err)
		return 0
	}
	return high
}

// boardConfig reserves the bottom line for the help bar.
func boardConfig(cfg core.RuntimeConfig) core.RuntimeConfig {
	cfg.ScreenH = max(cfg.ScreenH-1, 1)
	return cfg
}

// slotState is what a save slot holds: the engine state plus whether the
// game already made it into the score history.
type slotState struct {
	t2048.SavedState
	Recorded bool `json:"recorded,omitempty"`
}

func (m *GameModel) restore() {
	if m.opts.Store == nil {
		return
	}
	var saved slotState
	err := m.opts.Store.LoadGame(GameID, m.opts.Slot, &saved)
	switch {
	case errors.Is(err, storage.ErrNoSave):
		return
	case err != nil:
		m.opts.logger().Warn("could not load saved game", "slot", m.opts.Slot, "error", err)
		return
	}
	if err := m.game.Restore(saved.SavedState); err != nil {
		m.opts.logger().Warn("discarding saved game", "slot", m.opts.Slot, "error", err)
		return
	}
	m.scoreSaved = saved.Recorded
	m.opts.logger().Debug("resumed game", "slot", m.opts.Slot, "score", saved.Score)
}

// save stores the running game in the session's slot.
func (m *GameModel) save() {
	if m.opts.Store == nil {
		return
	}
	state := slotState{SavedState: m.game.Engine().Save(), Recorded: m.scoreSaved}
	if err := m.opts.Store.SaveGame(GameID, m.opts.Slot, state); err != nil {
		m.opts.logger().Warn("could not save game", "slot", m.opts.Slot, "error", err)
	}
}

// recordScore appends the current game to the score history once.
func (m *GameModel) recordScore() {
	if m.scoreSaved || m.gameState.Score == 0 {
		return
	}
	m.scoreSaved = true
	if m.opts.Store == nil {
		return
	}
	entry := storage.ScoreEntry{
		GameID:  GameID,
		Player:  m.opts.Slot,
		Score:   m.gameState.Score,
		MaxTile: m.gameState.MaxTile,
		Won:     m.gameState.Won || m.gameState.MaxTile >= m.opts.Game.Rules.WinValue,
	}
	if _, err := m.opts.Store.SaveScore(entry); err != nil {
		m.opts.logger().Warn("could not save score", "score", entry.Score, "error", err)
	}
}

func (m GameModel) publish() {
	if m.opts.Spectators == nil || m.opts.SessionID == "" {
		return
	}
	m.opts.Spectators.Publish(m.opts.SessionID, m.game.Engine().Snapshot())
}

func (m GameModel) endPublishing() {
	if m.opts.Spectators == nil || m.opts.SessionID == "" {
		return
	}
	m.opts.Spectators.End(m.opts.SessionID)
}

// Init starts the tick loop and shows the opening board to spectators.
func (m GameModel) Init() tea.Cmd {
	m.publish()
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		board := boardConfig(m.config)
		m.screen.Resize(board.ScreenW, board.ScreenH)
		m.game.Resize(board.ScreenW, board.ScreenH)
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.save()
		m.endPublishing()
		m.quitting = true
		return m, tea.Quit
	}

	if m.inputFrame.Has(core.ActionBack) {
		m.save()
		m.endPublishing()
		m.backToMenu = true
		return m, nil
	}

	if msg.String() == "?" {
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// handleTick advances the game by the time since the previous tick.
func (m GameModel) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	var elapsed time.Duration
	if !m.lastTick.IsZero() {
		elapsed = now.Sub(m.lastTick)
	}
	m.lastTick = now

	// Starting over abandons the current game; it still counts.
	if m.inputFrame.Has(core.ActionNewGame) {
		m.recordScore()
		m.scoreSaved = false
	}

	acted := !m.inputFrame.Empty()
	result := m.game.Step(m.inputFrame, elapsed)
	m.gameState = result.State

	switch {
	case !m.gameState.GameOver:
		// Back in play, e.g. after undoing the final move.
		m.scoreSaved = false
	case !m.gameState.CanContinue:
		// Lost, or won with nothing left to reach.
		m.recordScore()
	}

	if acted {
		m.publish()
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keyMapper.Keys()))
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run starts a local session: menu, game and scoreboard in one program.
func Run(opts SessionOptions) error {
	if opts.Slot == "" {
		opts.Slot = LocalSlot
	}
	if opts.Logger == nil {
		// The alternate screen owns the terminal.
		opts.Logger = log.New(io.Discard)
	}

	p := tea.NewProgram(
		NewSessionModel(opts),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
