// Package viz draws on the terminal: a braille [Canvas] with per-cell
// colour, a [Projection] from world coordinates onto it, lipgloss styles
// and colour themes for the sandbox.
package viz
