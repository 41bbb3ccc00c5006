package tui

import (
	"context"
	"fmt"

	"github.com/Veraticus/shop-diary/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
)

// EntryConfig holds what the entry form needs to run.
type EntryConfig struct {
	Committer Committer
	Lister    Lister
	Theme     themes.Theme
}

// RunEntry runs the interactive entry form until the user quits.
func RunEntry(ctx context.Context, cfg EntryConfig) error {
	if cfg.Committer == nil {
		return fmt.Errorf("committer is required")
	}
	if cfg.Lister == nil {
		return fmt.Errorf("lister is required")
	}

	m := NewEntryModel(ctx, cfg.Committer, cfg.Lister, cfg.Theme)
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("entry form failed: %w", err)
	}
	return nil
}
