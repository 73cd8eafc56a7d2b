// Package tasks implements the long-running library operations: retagging
// audio files from their charts, and the batch similarity export.
//
// Engines emit progress updates via channels for non-blocking status
// reporting to the CLI layer.
package tasks
