package ui

import (
	"fmt"
	"strings"

	"github.com/desertthunder/stepmuse/internal/tasks"
)

// RetagSummary renders the outcome of a retag run.
func RetagSummary(result *tasks.RetagResult) string {
	var b strings.Builder

	b.WriteString(Title("Retag complete"))
	b.WriteString("\n")
	b.WriteString(OK(fmt.Sprintf("Tagged: %d", result.Tagged)))
	b.WriteString("\n")

	for _, dir := range result.MixedDirs {
		b.WriteString(Warn(fmt.Sprintf("Mixed audio formats in %s", dir)))
		b.WriteString("\n")
	}
	for _, skip := range result.Skipped {
		b.WriteString(Warn(fmt.Sprintf("Skipped %s", skip.Path)))
		b.WriteString("\n")
		b.WriteString(Help("  " + skip.Reason))
		b.WriteString("\n")
	}

	return b.String()
}

// ExportSummary renders the outcome of a similarity export run.
func ExportSummary(result *tasks.ExportResult, outputPath string) string {
	var b strings.Builder

	b.WriteString(Title("Export complete"))
	b.WriteString("\n")
	b.WriteString(OK(fmt.Sprintf("Tracks: %d/%d, rows written: %d",
		result.Completed, result.TotalTracks, len(result.Rows))))
	b.WriteString("\n")
	b.WriteString(Help("Output: " + outputPath))
	b.WriteString("\n")

	for _, title := range result.Partial {
		b.WriteString(Warn(fmt.Sprintf("Fewer neighbors than requested for %q", title)))
		b.WriteString("\n")
	}
	for _, skip := range result.Skipped {
		b.WriteString(Warn(fmt.Sprintf("Skipped %s - %s", skip.Record.Title, skip.Record.Artist)))
		b.WriteString("\n")
		b.WriteString(Help("  " + skip.Reason))
		b.WriteString("\n")
	}

	return b.String()
}
