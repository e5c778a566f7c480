package cli

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

func handleKeyActions(msg tea.KeyMsg, m model) (tea.Model, tea.Cmd) {
	// Keys typed into the filter prompt belong to the list.
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		m.kindIdx = (m.kindIdx + 1) % len(kindFilters)
		return m.applyKindFilter(), nil
	case "shift+tab":
		m.kindIdx = (m.kindIdx + len(kindFilters) - 1) % len(kindFilters)
		return m.applyKindFilter(), nil
	case "enter":
		if m.list.SelectedItem() != nil {
			m.showDetail = true
		}
		return m, nil
	case "esc", "backspace":
		if m.showDetail {
			m.showDetail = false
			return m, nil
		}
	}

	if m.showDetail {
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}
