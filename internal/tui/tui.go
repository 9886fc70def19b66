// Package tui is the terminal front end of the sandbox: a braille view of
// the world with a side panel, driven by the keyboard or the mouse.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the sandbox and blocks until the user quits. The world is
// autosaved on exit when a store is configured.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
