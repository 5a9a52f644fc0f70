package ui

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"tubefetch/internal/history"
	"tubefetch/internal/util/format"
)

// HistoryModel is a scrollable table of past downloads.
type HistoryModel struct {
	entries []*history.Entry
	table   table.Model
	styles  Styles

	width, height int
}

var historyColumns = []table.Column{
	{Title: "When", Width: 16},
	{Title: "Status", Width: 10},
	{Title: "Type", Width: 5},
	{Title: "Quality", Width: 7},
	{Title: "Size", Width: 9},
	{Title: "Title", Width: 40},
}

func NewHistoryModel(entries []*history.Entry) HistoryModel {
	sty := defaultStyles()
	t := table.New(
		table.WithColumns(historyColumns),
		table.WithRows(historyRows(entries)),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	t.SetStyles(sty.table())
	return HistoryModel{entries: entries, table: t, styles: sty}
}

func historyRows(entries []*history.Entry) []table.Row {
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		size := ""
		if e.Bytes > 0 {
			size = format.HumanizeBytes(e.Bytes)
		}
		rows = append(rows, table.Row{
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			string(e.Status),
			string(e.ContentType),
			e.Resolution,
			size,
			truncate(e.Title, 40),
		})
	}
	return rows
}

func (m HistoryModel) Init() tea.Cmd {
	return nil
}

func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if h := msg.Height - 8; h > 3 {
			m.table.SetHeight(h)
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m HistoryModel) View() string {
	title := m.styles.Title.Render("tubefetch history")
	sub := m.styles.Subtitle.Render(fmt.Sprintf("%d entries • ↑/↓: move • q: quit", len(m.entries)))
	return title + "\n" + sub + "\n\n" + m.table.View() + "\n" + m.viewDetail()
}

func (m HistoryModel) viewDetail() string {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.entries) {
		return ""
	}
	e := m.entries[i]
	line := m.styles.Faint.Render(e.URL)
	switch e.Status {
	case history.StatusDownloaded:
		line += "\n" + m.styles.Success.Render(filepath.Clean(e.FilePath))
	case history.StatusSkipped:
		line += "\n" + m.styles.Warning.Render(e.ErrorMessage)
	case history.StatusFailed:
		line += "\n" + m.styles.Error.Render(e.ErrorMessage)
	}
	return m.styles.Box.Render(line)
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if n <= 0 || len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}
