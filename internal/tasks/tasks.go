package tasks

import (
	"github.com/desertthunder/stepmuse/internal/models"
	"github.com/desertthunder/stepmuse/internal/services"
	"github.com/desertthunder/stepmuse/internal/tags"
)

// ResolveCache caches library-track to similarity-service identity mappings so
// re-running an interrupted batch skips already-resolved tracks.
//
// Implementations must be safe for concurrent use by export workers.
type ResolveCache interface {
	// Lookup returns the cached remote item id for a library track id.
	Lookup(libraryID string) (string, bool)
	// Store records a resolved identity. Duplicate stores must not fail.
	Store(libraryID, remoteID, title, artist string) error
}

// SkippedTrack records a master-list entry that produced no output rows.
type SkippedTrack struct {
	Record models.TrackRecord `json:"record"`
	Reason string             `json:"reason"`
}

// ExportResult summarizes a batch similarity export.
type ExportResult struct {
	TotalTracks int                    `json:"total_tracks"`
	Completed   int                    `json:"completed"`
	Rows        []models.SuggestionRow `json:"-"`
	Skipped     []SkippedTrack         `json:"skipped,omitempty"`
	Partial     []string               `json:"partial,omitempty"` // Titles that got fewer neighbors than requested
}

// ExportEngine runs batch similarity queries against a similarity service.
type ExportEngine struct {
	service services.Similarity
	cache   ResolveCache
}

// NewExportEngine creates an ExportEngine. The cache may be nil, in which case
// every track is resolved remotely.
func NewExportEngine(service services.Similarity, cache ResolveCache) *ExportEngine {
	return &ExportEngine{service: service, cache: cache}
}

// SkippedFile records a song directory entry that could not be tagged.
type SkippedFile struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// RetagResult summarizes a library retagging run.
type RetagResult struct {
	Tagged    int           `json:"tagged"`
	Skipped   []SkippedFile `json:"skipped,omitempty"`
	MixedDirs []string      `json:"mixed_dirs,omitempty"`
}

// TagApplier writes a tag set to an audio file. Injectable for tests.
type TagApplier func(path string, set tags.TagSet) error

// RetagEngine walks a songs library and rewrites audio tags from chart
// metadata.
type RetagEngine struct {
	apply TagApplier
}

// NewRetagEngine creates a RetagEngine. A nil applier defaults to tags.Apply.
func NewRetagEngine(apply TagApplier) *RetagEngine {
	if apply == nil {
		apply = tags.Apply
	}
	return &RetagEngine{apply: apply}
}
