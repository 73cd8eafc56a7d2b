package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/stepmuse/internal/models"
	"github.com/desertthunder/stepmuse/internal/shared"
)

// ResolutionRepository implements models.Repository[*models.Resolution] for
// the resolve cache.
//
// Rows map media-server track ids to the similarity service's item ids; the
// library_id column carries a UNIQUE constraint so a track resolves to at
// most one remote identity.
type ResolutionRepository struct {
	db *sql.DB
}

// NewResolutionRepository creates a new ResolutionRepository with the given database connection
func NewResolutionRepository(db *sql.DB) *ResolutionRepository {
	return &ResolutionRepository{db: db}
}

// Create inserts a new [models.Resolution] into the database with generated ID and sequence
func (r *ResolutionRepository) Create(resolution *models.Resolution) error {
	sequence, err := NextSequence(r.db, "resolutions")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	resolution.SetID(id)
	resolution.SetSequence(sequence)

	if err := resolution.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO resolutions (id, sequence, library_id, remote_id, title, artist, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		resolution.LibraryID(),
		resolution.RemoteID(),
		resolution.Title(),
		resolution.Artist(),
		resolution.CreatedAt(),
		resolution.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert resolution: %w", err)
	}

	return nil
}

// Get retrieves a resolution by ID
func (r *ResolutionRepository) Get(id string) (*models.Resolution, error) {
	query := `
		SELECT id, sequence, library_id, remote_id, title, artist, created_at, updated_at
		FROM resolutions
		WHERE id = ?
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByLibraryID retrieves a resolution by the media server's track id
func (r *ResolutionRepository) GetByLibraryID(libraryID string) (*models.Resolution, error) {
	query := `
		SELECT id, sequence, library_id, remote_id, title, artist, created_at, updated_at
		FROM resolutions
		WHERE library_id = ?
	`

	return r.scanOne(r.db.QueryRow(query, libraryID))
}

// Update modifies an existing resolution in the database
func (r *ResolutionRepository) Update(resolution *models.Resolution) error {
	if err := resolution.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	resolution.SetUpdatedAt(now)

	query := `
		UPDATE resolutions
		SET remote_id = ?, title = ?, artist = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		resolution.RemoteID(),
		resolution.Title(),
		resolution.Artist(),
		now,
		resolution.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update resolution: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("resolution not found: %s", resolution.ID())
	}

	return nil
}

// Delete removes a resolution from the database by its ID
func (r *ResolutionRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM resolutions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete resolution: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("resolution not found: %s", id)
	}

	return nil
}

// List retrieves all resolutions, newest first. Criteria is unused.
func (r *ResolutionRepository) List(criteria map[string]any) ([]*models.Resolution, error) {
	query := `
		SELECT id, sequence, library_id, remote_id, title, artist, created_at, updated_at
		FROM resolutions
		ORDER BY sequence DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list resolutions: %w", err)
	}
	defer rows.Close()

	var resolutions []*models.Resolution
	for rows.Next() {
		resolution, err := scanResolution(rows)
		if err != nil {
			return nil, err
		}
		resolutions = append(resolutions, resolution)
	}

	return resolutions, rows.Err()
}

// Count returns the number of cached resolutions.
func (r *ResolutionRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM resolutions").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count resolutions: %w", err)
	}
	return count, nil
}

// Clear removes all cached resolutions and returns how many were deleted.
func (r *ResolutionRepository) Clear() (int, error) {
	result, err := r.db.Exec("DELETE FROM resolutions")
	if err != nil {
		return 0, fmt.Errorf("failed to clear resolutions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check clear result: %w", err)
	}

	return int(rows), nil
}

type scannable interface {
	Scan(dest ...any) error
}

func (r *ResolutionRepository) scanOne(row *sql.Row) (*models.Resolution, error) {
	resolution, err := scanResolution(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("resolution not found")
	}
	if err != nil {
		return nil, err
	}
	return resolution, nil
}

func scanResolution(row scannable) (*models.Resolution, error) {
	var (
		id, libraryID, remoteID, title, artist string
		sequence                               int
		createdAt, updatedAt                   time.Time
	)

	if err := row.Scan(&id, &sequence, &libraryID, &remoteID, &title, &artist, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan resolution: %w", err)
	}

	return models.HydrateResolution(id, sequence, libraryID, remoteID, title, artist, createdAt, updatedAt), nil
}
