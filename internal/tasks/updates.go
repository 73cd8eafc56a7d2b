package tasks

import (
	"fmt"

	"github.com/desertthunder/stepmuse/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	PingService Phase = iota
	ProcessTracks
	TrackCompleted
	TrackSkipped
	ScanLibrary
	TagFiles
	TagApplied
	TagSkipped
)

func (p Phase) String() string {
	switch p {
	case PingService:
		return "ping_service"
	case ProcessTracks:
		return "process_tracks"
	case TrackCompleted:
		return "track_completed"
	case TrackSkipped:
		return "track_skipped"
	case ScanLibrary:
		return "scan_library"
	case TagFiles:
		return "tag_files"
	case TagApplied:
		return "tag_applied"
	case TagSkipped:
		return "tag_skipped"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

func pingUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   PingService,
		Step:    1,
		Total:   1,
		Message: "Checking similarity service...",
	}
}

func processTrackUpdate(step, total int, record models.TrackRecord) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ProcessTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Retrieving similarities for: %s", record.Title),
		Data:    record,
	}
}

func trackCompletedUpdate(step, total int, title string, rows int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   TrackCompleted,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Completed %s (%d rows)", title, rows),
	}
}

func trackSkippedUpdate(step, total int, title, reason string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   TrackSkipped,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Skipped %s: %s", title, reason),
	}
}

func scanLibraryUpdate(root string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScanLibrary,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Scanning %s...", root),
	}
}

func tagFilesUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   TagFiles,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Tagging %d files...", total),
	}
}

func tagAppliedUpdate(step, total int, path, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   TagApplied,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Tagged %s (Title: %s)", path, title),
	}
}

func tagSkippedUpdate(step, total int, path, reason string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   TagSkipped,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Skipped %s: %s", path, reason),
	}
}
