// Package tui is the terminal canvas of noten: it renders the board, turns
// keys and mouse gestures into controller intents and runs file I/O as
// bubbletea commands.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"noten/internal/interaction"
)

// Run shows the editor until the user quits.
func Run(ctx context.Context, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewModel(ctx, opts)
	defer model.Close()

	handler := model.Controller().Keys()
	if err := interaction.Mount(handler); err != nil {
		return fmt.Errorf("mount key handler: %w", err)
	}
	defer func() { _ = interaction.Unmount(handler) }()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
		tea.WithFilter(Filter),
	)
	if _, err := p.Run(); err != nil {
		model.log.Error().Err(err).Msg("program failed")
		return err
	}
	return nil
}
