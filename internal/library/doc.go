// Package library scans a StepMania songs tree and pairs chart files with
// their sibling audio files.
//
// Pairing is explicit: every audio file ends up either in a (chart, audio)
// pair or in the unmatched list, and directories holding more than one audio
// format are surfaced separately so the operator can resolve duplicates.
package library
