package ui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

type Styles struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Header    lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Faint     lipgloss.Style
	Box       lipgloss.Style
	Selected  lipgloss.Style
	TableHead lipgloss.Style
}

func defaultStyles() Styles {
	base := lipgloss.NewStyle()
	return Styles{
		Title:     base.Bold(true).Foreground(lipgloss.Color("#FF0033")),
		Subtitle:  base.Faint(true),
		Header:    base.Bold(true),
		Success:   base.Foreground(lipgloss.Color("#22C55E")),
		Error:     base.Foreground(lipgloss.Color("#EF4444")),
		Warning:   base.Foreground(lipgloss.Color("#F59E0B")),
		Faint:     base.Faint(true),
		Box:       base.Padding(0, 1),
		Selected:  base.Bold(true).Foreground(lipgloss.Color("#F9FAFB")).Background(lipgloss.Color("#7D56F4")),
		TableHead: base.Bold(true).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(lipgloss.Color("#6B7280")),
	}
}

func (s Styles) table() table.Styles {
	ts := table.DefaultStyles()
	ts.Header = s.TableHead
	ts.Selected = s.Selected
	return ts
}
