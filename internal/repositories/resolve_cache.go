package repositories

import (
	"fmt"
	"strings"

	"github.com/desertthunder/stepmuse/internal/models"
)

// ResolveCacheAdapter implements tasks.ResolveCache using ResolutionRepository.
//
// Lookups that miss simply report a miss; duplicate stores are silently
// ignored (UNIQUE constraint on library_id), so concurrent export workers can
// race on the same track without failing the batch.
type ResolveCacheAdapter struct {
	repo *ResolutionRepository
}

// NewResolveCacheAdapter creates a new ResolveCacheAdapter with the given repository
func NewResolveCacheAdapter(repo *ResolutionRepository) *ResolveCacheAdapter {
	return &ResolveCacheAdapter{repo: repo}
}

// Lookup returns the cached remote item id for a library track id.
func (a *ResolveCacheAdapter) Lookup(libraryID string) (string, bool) {
	resolution, err := a.repo.GetByLibraryID(libraryID)
	if err != nil || resolution == nil {
		return "", false
	}
	return resolution.RemoteID(), true
}

// Store caches a resolved identity.
// Returns nil if the mapping already exists (deduplication).
func (a *ResolveCacheAdapter) Store(libraryID, remoteID, title, artist string) error {
	if existing, err := a.repo.GetByLibraryID(libraryID); err == nil && existing != nil {
		return nil
	}

	resolution := models.NewResolution(libraryID, remoteID, title, artist)

	if err := a.repo.Create(resolution); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to cache resolution: %w", err)
	}

	return nil
}
