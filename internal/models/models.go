package models

import (
	"time"
)

// Model defines the base interface for all persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// TrackRecord is one row of the media server's catalog export.
// Immutable once exported; consumed read-only by the batch exporter.
type TrackRecord struct {
	ID     string // Media server track id (opaque)
	Path   string // Filesystem path of the audio file
	Title  string
	Artist string
	Album  string
}

// SuggestionRow is one flattened output row of the similarity report.
//
// Rank runs 1..count for the most-similar tracks (nearest first); the single
// most-dissimilar track carries the sentinel rank -1.
type SuggestionRow struct {
	Source   TrackRecord // Source track fields repeated on every row
	Rank     int
	ID       string // Similarity service item id of the suggestion
	Title    string
	Artist   string
	Album    string
	Distance float64
}

// DissimilarRank is the sentinel rank reserved for the single most-dissimilar track.
const DissimilarRank = -1
