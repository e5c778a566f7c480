package cli

import (
	"context"
	"errors"

	coreapp "eosindex/internal/core/app"

	tea "github.com/charmbracelet/bubbletea"
)

// Browse shows the declarations of one run until the user quits.
func Browse(result *coreapp.Result) error {
	m := initialModel()
	updated, _ := m.Update(resultMsg(result))
	p := tea.NewProgram(updated, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// BrowseLive shows the declarations of the latest run and refreshes on
// every later run until the user quits or ctx ends.
func BrowseLive(ctx context.Context, a *coreapp.App) error {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen(), tea.WithContext(ctx))

	a.SetResultHandler(func(result *coreapp.Result) {
		p.Send(resultMsg(result))
	})
	defer a.SetResultHandler(nil)

	go func() {
		if last, _ := a.Last(); last != nil {
			p.Send(resultMsg(last))
		}
	}()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func resultMsg(result *coreapp.Result) documentMsg {
	return documentMsg{
		doc:       result.Document,
		fileCount: result.Run.FileCount,
		digest:    result.Run.Digest,
	}
}
