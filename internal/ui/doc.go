// Package ui holds the lipgloss stylesheet and run-summary rendering for the
// CLI. The tools are non-interactive; styles only color the plain output.
package ui
