package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/campus-runner/internal/core"
	"github.com/vovakirdan/campus-runner/internal/games/campus/sim"
	"github.com/vovakirdan/campus-runner/internal/storage"
)

var pickerTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("229")).
	Background(lipgloss.Color("57")).
	Padding(0, 2)

var pickerCardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("240")).
	Padding(0, 1).
	Width(26)

var pickerActiveCardStyle = pickerCardStyle.BorderForeground(lipgloss.Color("212"))

var pickerDimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// PickerModel is the Bubble Tea model for the character picker.
type PickerModel struct {
	characters     []sim.Character
	cursor         int
	width          int
	height         int
	config         core.RuntimeConfig
	keys           PickerKeyMap
	help           help.Model
	knowledge      int
	highScore      int
	quitting       bool
	selected       bool
	openScoreboard bool
}

// NewPickerModel creates a picker with the cursor on the config's character.
func NewPickerModel(store *storage.Store, cfg core.RuntimeConfig, player string) PickerModel {
	m := PickerModel{
		characters: sim.Characters(),
		width:      cfg.ScreenW,
		height:     cfg.ScreenH,
		config:     cfg,
		keys:       DefaultPickerKeyMap(),
		help:       help.New(),
		knowledge:  cfg.Knowledge,
	}
	for i, c := range m.characters {
		if string(c) == cfg.Character {
			m.cursor = i
		}
	}

	if store != nil {
		if k, err := store.Knowledge(player); err == nil {
			m.knowledge = k
		}
		if high, err := store.HighScore(); err == nil {
			m.highScore = high
		}
	}
	return m
}

// Init initializes the picker model.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the picker.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.characters)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Select):
			m.selected = true
			m.config.Character = string(m.characters[m.cursor])
			return m, tea.Quit
		case key.Matches(msg, m.keys.Scores):
			m.openScoreboard = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
	}
	return m, nil
}

// View renders the picker.
func (m PickerModel) View() string {
	if m.quitting || m.selected || m.openScoreboard {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(pickerTitleStyle.Render("CAMPUS RUNNER"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Choose your major", m.width))
	b.WriteString("\n\n")

	cards := make([]string, len(m.characters))
	for i, c := range m.characters {
		style := pickerCardStyle
		name := c.Title()
		if i == m.cursor {
			style = pickerActiveCardStyle
			name = "> " + name
		}
		mod := c.Modifiers()
		cards[i] = style.Render(fmt.Sprintf("%s\n%s\n\njump    x%.1f\nrecover x%.1f\nstamina x%.1f",
			name, pickerDimStyle.Render(c.Blurb()), mod.JumpForce, mod.RecoverySpeed, mod.MaxStamina))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	if lipgloss.Width(row) > m.width && m.width > 0 {
		row = lipgloss.JoinVertical(lipgloss.Left, cards...)
	}
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, row))
	b.WriteString("\n\n")

	b.WriteString(centerText(fmt.Sprintf("Knowledge: %d    Best score: %d", m.knowledge, m.highScore), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(pickerDimStyle.Render(m.help.View(m.keys)), m.width))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the chosen character, if any.
func (m PickerModel) Selected() (sim.Character, bool) {
	if !m.selected {
		return "", false
	}
	return m.characters[m.cursor], true
}

// IsQuitting returns true if the player asked to quit.
func (m PickerModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if the player asked for the scoreboard.
func (m PickerModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the runtime config with the chosen character and any resize.
func (m PickerModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within the given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// PickerResult holds the outcome of the picker.
type PickerResult struct {
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunPicker shows the picker and returns the player's choice.
func RunPicker(store *storage.Store, cfg core.RuntimeConfig, player string) (PickerResult, error) {
	p := tea.NewProgram(NewPickerModel(store, cfg, player), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return PickerResult{Config: cfg}, err
	}
	m, ok := final.(PickerModel)
	if !ok {
		return PickerResult{Config: cfg, Quit: true}, nil
	}

	result := PickerResult{Config: m.Config()}
	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.IsQuitting():
		result.Quit = true
	default:
		if _, ok := m.Selected(); !ok {
			result.Quit = true
		}
	}
	return result, nil
}
