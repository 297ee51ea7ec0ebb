package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sadopc/habitr/internal/store"
)

// Run starts the full-screen interface and blocks until the user quits.
func Run(s *store.Store, opts Options) error {
	app := NewApp(s, opts)

	if path := s.Path(); path != "" && path != ":memory:" {
		w, err := newStoreWatcher(path, app.log)
		if err != nil {
			app.log.Warn("database watcher disabled", zap.Error(err))
		} else {
			defer w.Close()
			app.watcher = w
		}
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
