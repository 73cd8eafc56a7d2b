package library

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// AudioExtensions lists the audio container formats the tagger can rewrite.
var AudioExtensions = []string{".ogg", ".mp3", ".flac"}

// Pair couples an audio file with the simfile that describes it.
type Pair struct {
	Chart string // Path to the .ssc or .sm file
	Audio string // Path to the audio file
	Pack  string // Name of the pack directory (two levels above the audio file)
}

// ScanResult is the outcome of walking a songs tree.
type ScanResult struct {
	Pairs     []Pair   // Audio files with a usable chart sibling
	Unmatched []string // Audio files with no chart file in their directory
	MixedDirs []string // Directories holding more than one audio format
}

// Scan walks root and pairs every audio file with a chart file from the same
// directory. When a directory holds both .ssc and .sm files the .ssc is
// preferred; within a format the lexicographically first file wins so repeat
// runs are deterministic.
func Scan(root string) (*ScanResult, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	result := &ScanResult{}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return err
		}

		var sscFiles, smFiles, audioFiles []string
		formats := map[string]bool{}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			switch ext := strings.ToLower(filepath.Ext(name)); ext {
			case ".ssc":
				sscFiles = append(sscFiles, name)
			case ".sm":
				smFiles = append(smFiles, name)
			default:
				if isAudioExt(ext) {
					audioFiles = append(audioFiles, name)
					formats[ext] = true
				}
			}
		}

		if len(audioFiles) == 0 {
			return nil
		}

		if len(formats) > 1 {
			result.MixedDirs = append(result.MixedDirs, path)
		}

		chart := pickChart(sscFiles, smFiles)
		sort.Strings(audioFiles)

		for _, audio := range audioFiles {
			audioPath := filepath.Join(path, audio)
			if chart == "" {
				result.Unmatched = append(result.Unmatched, audioPath)
				continue
			}
			result.Pairs = append(result.Pairs, Pair{
				Chart: filepath.Join(path, chart),
				Audio: audioPath,
				Pack:  packName(audioPath),
			})
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	return result, nil
}

func isAudioExt(ext string) bool {
	for _, known := range AudioExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

// pickChart prefers .ssc over .sm, then the first file in sorted order.
func pickChart(sscFiles, smFiles []string) string {
	if len(sscFiles) > 0 {
		sort.Strings(sscFiles)
		return sscFiles[0]
	}
	if len(smFiles) > 0 {
		sort.Strings(smFiles)
		return smFiles[0]
	}
	return ""
}

// packName returns the directory name two levels above the audio file.
// Example: Songs/Pack_Name/Song_Folder/song.ogg -> "Pack_Name".
func packName(audioPath string) string {
	return filepath.Base(filepath.Dir(filepath.Dir(audioPath)))
}
