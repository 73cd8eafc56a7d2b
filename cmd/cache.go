package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/stepmuse/internal/repositories"
	"github.com/desertthunder/stepmuse/internal/shared"
	"github.com/urfave/cli/v3"
)

// openResolutionRepo opens the configured cache database for direct
// repository access. Unlike openResolveCache, a missing path is an error
// since the caller explicitly asked for the cache.
func (r *Runner) openResolutionRepo() (*repositories.ResolutionRepository, func(), error) {
	path := r.config.Database.Path
	if path == "" {
		return nil, nil, fmt.Errorf("%w: database.path not set, run 'stepmuse setup database' first", shared.ErrMissingConfig)
	}

	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	return repositories.NewResolutionRepository(db), func() { db.Close() }, nil
}

// CacheStats prints how many track identities are cached.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	repo, closeDB, err := r.openResolutionRepo()
	if err != nil {
		return err
	}
	defer closeDB()

	count, err := repo.Count()
	if err != nil {
		return fmt.Errorf("failed to count resolutions: %w", err)
	}

	r.writePlainln("Cached resolutions: %d", count)
	r.writePlain("Database: %s\n", r.config.Database.Path)
	return nil
}

// CacheClear removes all cached track identities.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	repo, closeDB, err := r.openResolutionRepo()
	if err != nil {
		return err
	}
	defer closeDB()

	cleared, err := repo.Clear()
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	r.logger.Info("cache cleared", "resolutions", cleared)
	r.writePlainln("Cleared %d cached resolutions.", cleared)
	return nil
}

// cacheCommand manages the resolve cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect and manage the resolve cache",
		Commands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show resolve cache statistics",
				Action: r.CacheStats,
			},
			{
				Name:   "clear",
				Usage:  "Delete all cached resolutions",
				Action: r.CacheClear,
			},
		},
	}
}
