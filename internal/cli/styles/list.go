package styles

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	cursorEmpty    = "  "
	cursorSelected = "▸ " // ▸ Black right-pointing small triangle
)

// ScreenshotItem represents a saved screenshot for the list.
type ScreenshotItem struct {
	FilePath string
	Filename string
	Taken    time.Time
	Missing  bool
}

// FilterValue implements list.Item.
func (i ScreenshotItem) FilterValue() string {
	return i.Filename + " " + i.FilePath
}

// ScreenshotDelegate renders screenshot items with theme styling.
type ScreenshotDelegate struct {
	Theme *Theme
}

// NewScreenshotDelegate creates a themed screenshot list delegate.
func NewScreenshotDelegate(theme *Theme) ScreenshotDelegate {
	return ScreenshotDelegate{Theme: theme}
}

// Height returns the height of each item.
func (d ScreenshotDelegate) Height() int { return 2 }

// Spacing returns the spacing between items.
func (d ScreenshotDelegate) Spacing() int { return 0 }

// Update handles item-level events.
func (d ScreenshotDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

// Render renders a single list item.
func (d ScreenshotDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	si, ok := item.(ScreenshotItem)
	if !ok {
		return
	}

	t := d.Theme
	isSelected := index == m.Index()
	const (
		maxPathLength  = 60
		ellipsisLength = 3
	)

	path := si.FilePath
	if len(path) > maxPathLength {
		path = "..." + path[len(path)-maxPathLength+ellipsisLength:]
	}

	timeBadge := t.TimeBadge(si.Taken)

	cursor := cursorEmpty
	if isSelected {
		cursor = cursorSelected
	}

	titleStyle := t.ListItemTitle
	pathStyle := t.ListItemDesc

	if isSelected {
		titleStyle = titleStyle.Foreground(t.Accent).Bold(true)
		pathStyle = pathStyle.Foreground(t.Text)
	}

	line1 := lipgloss.JoinHorizontal(
		lipgloss.Left,
		t.Highlight.Render(cursor),
		titleStyle.Render(si.Filename),
	)
	if si.Missing {
		line1 = lipgloss.JoinHorizontal(lipgloss.Left, line1, " ", t.ErrorStyle.Render("(missing)"))
	}

	line2 := lipgloss.JoinHorizontal(
		lipgloss.Left,
		strings.Repeat(" ", 3), // Indent under cursor
		pathStyle.Render(path),
		" ",
		timeBadge,
	)

	_, _ = fmt.Fprintf(w, "%s\n%s", line1, line2)
}

// NewScreenshotList creates a themed list for screenshot items.
func NewScreenshotList(theme *Theme, items []ScreenshotItem, width, height int) list.Model {
	listItems := make([]list.Item, len(items))
	for i, item := range items {
		listItems[i] = item
	}

	delegate := NewScreenshotDelegate(theme)

	l := list.New(listItems, delegate, width, height)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowFilter(false)
	l.SetShowHelp(false)
	l.SetShowPagination(true)

	l.Styles.PaginationStyle = lipgloss.NewStyle().Foreground(theme.Muted)
	l.Styles.ActivePaginationDot = lipgloss.NewStyle().Foreground(theme.Accent)
	l.Styles.InactivePaginationDot = lipgloss.NewStyle().Foreground(theme.Muted)

	return l
}
