package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/stepmuse/internal/library"
	"github.com/desertthunder/stepmuse/internal/tags"
)

// Retag walks the songs tree under root and writes each chart's metadata
// into the sibling audio file's tags: title from #TITLE plus #SUBTITLE,
// artist from #ARTIST, album from the pack directory name.
//
// Per-file failures (malformed chart, unwritable audio) are recorded and
// skipped; only a failed scan aborts the run.
func (e *RetagEngine) Retag(ctx context.Context, prog chan<- ProgressUpdate, root string) (*RetagResult, error) {
	sendProgress(prog, scanLibraryUpdate(root))

	scan, err := library.Scan(root)
	if err != nil {
		return nil, fmt.Errorf("failed to scan library: %w", err)
	}

	result := &RetagResult{MixedDirs: scan.MixedDirs}

	for _, path := range scan.Unmatched {
		result.Skipped = append(result.Skipped, SkippedFile{
			Path:   path,
			Reason: "no chart file in directory",
		})
	}

	sendProgress(prog, tagFilesUpdate(len(scan.Pairs)))

	for i, pair := range scan.Pairs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		meta, err := library.ParseSimfile(pair.Chart)
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedFile{
				Path:   pair.Chart,
				Reason: fmt.Sprintf("parse chart: %v", err),
			})
			sendProgress(prog, tagSkippedUpdate(i+1, len(scan.Pairs), pair.Chart, err.Error()))
			continue
		}

		set := tags.TagSet{
			Title:  meta.DisplayTitle(),
			Artist: meta.Artist,
			Album:  pair.Pack,
		}

		if err := e.apply(pair.Audio, set); err != nil {
			result.Skipped = append(result.Skipped, SkippedFile{
				Path:   pair.Audio,
				Reason: fmt.Sprintf("write tags: %v", err),
			})
			sendProgress(prog, tagSkippedUpdate(i+1, len(scan.Pairs), pair.Audio, err.Error()))
			continue
		}

		result.Tagged++
		sendProgress(prog, tagAppliedUpdate(i+1, len(scan.Pairs), pair.Audio, set.Title))
	}

	return result, nil
}
