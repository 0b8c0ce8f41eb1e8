// Package model contains the Bubble Tea models for interactive commands.
package model

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/snipp/internal/cli/styles"
)

// ItemLoader loads the screenshot items shown by the picker.
type ItemLoader func() ([]styles.ScreenshotItem, error)

// PickerModel is the Bubble Tea model for the interactive history picker.
type PickerModel struct {
	// UI components
	list   list.Model
	search textinput.Model
	help   help.Model
	keys   styles.PickerKeyMap

	// State
	allItems    []styles.ScreenshotItem
	selected    string // Selected file path
	searchQuery string
	width       int
	height      int
	err         error

	// Dependencies
	loader ItemLoader
	theme  *styles.Theme
}

// NewPickerModel creates a new picker model.
func NewPickerModel(theme *styles.Theme, loader ItemLoader) PickerModel {
	search := styles.NewSearchInput(theme)
	search.Focus()

	return PickerModel{
		search: search,
		help:   styles.NewStyledHelp(theme),
		keys:   styles.DefaultPickerKeyMap(),
		loader: loader,
		theme:  theme,
		width:  80,
		height: 24,
	}
}

// pickerLoadedMsg is sent when items are loaded.
type pickerLoadedMsg struct {
	items []styles.ScreenshotItem
	err   error
}

// Init implements tea.Model.
func (m PickerModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.loadItems,
	)
}

// loadItems loads the screenshot history.
func (m PickerModel) loadItems() tea.Msg {
	items, err := m.loader()
	if err != nil {
		return pickerLoadedMsg{err: err}
	}
	return pickerLoadedMsg{items: items}
}

// Update implements tea.Model.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateList()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Select):
			if item := m.list.SelectedItem(); item != nil {
				if si, ok := item.(styles.ScreenshotItem); ok {
					m.selected = si.FilePath
				}
			}
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			cmds = append(cmds, cmd)

		default:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			cmds = append(cmds, cmd)

			if m.search.Value() != m.searchQuery {
				m.searchQuery = m.search.Value()
				m.updateList()
			}
		}

	case pickerLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.allItems = msg.items
			m.updateList()
		}
	}

	return m, tea.Batch(cmds...)
}

// updateList rebuilds the list with the current search filter applied.
func (m *PickerModel) updateList() {
	items := m.allItems

	if m.searchQuery != "" {
		query := strings.ToLower(m.searchQuery)
		filtered := make([]styles.ScreenshotItem, 0)
		for _, item := range items {
			if strings.Contains(strings.ToLower(item.Filename), query) ||
				strings.Contains(strings.ToLower(item.FilePath), query) {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	listHeight := m.height - 6 // Account for search, help
	if listHeight < 5 {
		listHeight = 5
	}

	m.list = styles.NewScreenshotList(m.theme, items, m.width, listHeight)
}

// View implements tea.Model.
func (m PickerModel) View() string {
	t := m.theme

	searchBar := t.InputFocused.Render(m.search.View())

	listView := m.list.View()
	if m.err != nil {
		listView = t.ErrorStyle.Render("Error: " + m.err.Error())
	}

	helpView := m.help.View(m.keys)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		searchBar,
		"",
		listView,
		"",
		helpView,
	)
}

// SelectedPath returns the file path selected by the user, empty when
// the picker was cancelled.
func (m PickerModel) SelectedPath() string {
	return m.selected
}

// Ensure interface compliance.
var _ tea.Model = (*PickerModel)(nil)
