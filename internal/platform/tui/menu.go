package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/twozero/internal/config"
	"github.com/vovakirdan/twozero/internal/games/t2048"
	"github.com/vovakirdan/twozero/internal/storage"
)

// MenuChoice identifies what the player picked in the start menu.
type MenuChoice int

const (
	MenuNone MenuChoice = iota
	MenuContinue
	MenuNewGame
	MenuScores
	MenuQuit
)

// MenuItem represents a selectable entry in the menu.
type MenuItem struct {
	Choice MenuChoice
	Title  string
}

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))

// MenuModel is the Bubble Tea model for the start menu. The new game entry
// cycles through board presets with left and right.
type MenuModel struct {
	items     []MenuItem
	cursor    int
	presets   []config.Preset
	preset    int
	width     int
	height    int
	keyMapper *KeyMapper
	saved     *t2048.SavedState
	selected  MenuChoice
}

// NewMenuModel creates a new menu model. The continue entry is offered only
// when the slot holds a saved game.
func NewMenuModel(opts SessionOptions) MenuModel {
	m := MenuModel{
		presets:   config.Presets,
		preset:    presetIndex(opts.Game),
		width:     opts.Runtime.ScreenW,
		height:    opts.Runtime.ScreenH,
		keyMapper: NewKeyMapper(),
	}

	if opts.Store != nil {
		var saved t2048.SavedState
		err := opts.Store.LoadGame(GameID, opts.Slot, &saved)
		switch {
		case err == nil && saved.Size == opts.Game.Board.Size:
			m.saved = &saved
		case err != nil && !errors.Is(err, storage.ErrNoSave):
			opts.logger().Warn("could not read saved game", "slot", opts.Slot, "error", err)
		}
	}

	if m.saved != nil {
		m.items = append(m.items, MenuItem{Choice: MenuContinue, Title: "Continue"})
	}
	m.items = append(m.items,
		MenuItem{Choice: MenuNewGame, Title: "New game"},
		MenuItem{Choice: MenuScores, Title: "High scores"},
		MenuItem{Choice: MenuQuit, Title: "Quit"},
	)
	return m
}

// presetIndex finds the preset matching the configured board, defaulting to classic.
func presetIndex(cfg config.GameConfig) int {
	for i, p := range config.Presets {
		probe := cfg
		config.ApplyPreset(&probe, p)
		if probe == cfg {
			return i
		}
	}
	for i, p := range config.Presets {
		if p == config.PresetClassic {
			return i
		}
	}
	return 0
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.selected = MenuQuit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionLeft:
		if m.items[m.cursor].Choice == MenuNewGame {
			m.preset = (m.preset + len(m.presets) - 1) % len(m.presets)
		}

	case MenuActionRight:
		if m.items[m.cursor].Choice == MenuNewGame {
			m.preset = (m.preset + 1) % len(m.presets)
		}

	case MenuActionSelect:
		m.selected = m.items[m.cursor].Choice

	case MenuActionScoreboard:
		m.selected = MenuScores
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(centerText("2 0 4 8", m.width)))
	b.WriteString("\n\n")

	if m.saved != nil {
		b.WriteString(centerText(fmt.Sprintf("Saved game: score %d", m.saved.Score), m.width))
		b.WriteString("\n\n")
	}

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		title := item.Title
		if item.Choice == MenuNewGame {
			title = fmt.Sprintf("%s  < %s >", title, m.presetLabel())
		}
		b.WriteString(centerText(cursor+title, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Left/Right: Board  |  Enter: Select  |  Tab: Scores  |  Q: Quit"
	b.WriteString(helpStyle.Render(centerText(controls, m.width)))
	b.WriteString("\n")

	return b.String()
}

func (m MenuModel) presetLabel() string {
	cfg := config.DefaultConfig()
	config.ApplyPreset(&cfg, m.presets[m.preset])
	return fmt.Sprintf("%s %dx%d", m.presets[m.preset], cfg.Board.Size, cfg.Board.Size)
}

// Selected returns the player's pick, or MenuNone while still choosing.
func (m MenuModel) Selected() MenuChoice {
	return m.selected
}

// Preset returns the board preset shown on the new game entry.
func (m MenuModel) Preset() config.Preset {
	return m.presets[m.preset]
}

// HasSave reports whether the continue entry is available.
func (m MenuModel) HasSave() bool {
	return m.saved != nil
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}
