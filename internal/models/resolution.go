package models

import (
	"fmt"
	"time"
)

// Resolution is a cached mapping from a media-server track id to the
// similarity service's internal item id.
//
// Cached so interrupted batches can be re-run without repeating the fuzzy
// search round-trip for every track.
type Resolution struct {
	id        string
	sequence  int
	libraryID string
	remoteID  string
	title     string
	artist    string
	createdAt time.Time
	updatedAt time.Time
}

// NewResolution creates a Resolution for the given library/remote id pair.
func NewResolution(libraryID, remoteID, title, artist string) *Resolution {
	now := time.Now()
	return &Resolution{
		libraryID: libraryID,
		remoteID:  remoteID,
		title:     title,
		artist:    artist,
		createdAt: now,
		updatedAt: now,
	}
}

// HydrateResolution reconstructs a Resolution from persisted fields.
func HydrateResolution(id string, sequence int, libraryID, remoteID, title, artist string, createdAt, updatedAt time.Time) *Resolution {
	return &Resolution{
		id:        id,
		sequence:  sequence,
		libraryID: libraryID,
		remoteID:  remoteID,
		title:     title,
		artist:    artist,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (r *Resolution) ID() string           { return r.id }
func (r *Resolution) Sequence() int        { return r.sequence }
func (r *Resolution) LibraryID() string    { return r.libraryID }
func (r *Resolution) RemoteID() string     { return r.remoteID }
func (r *Resolution) Title() string        { return r.title }
func (r *Resolution) Artist() string       { return r.artist }
func (r *Resolution) CreatedAt() time.Time { return r.createdAt }
func (r *Resolution) UpdatedAt() time.Time { return r.updatedAt }

func (r *Resolution) SetID(id string)             { r.id = id }
func (r *Resolution) SetSequence(seq int)         { r.sequence = seq }
func (r *Resolution) SetUpdatedAt(ts time.Time)   { r.updatedAt = ts }
func (r *Resolution) SetRemoteID(remoteID string) { r.remoteID = remoteID }

// Validate checks required fields before persistence.
func (r *Resolution) Validate() error {
	if r.libraryID == "" {
		return fmt.Errorf("resolution missing library id")
	}
	if r.remoteID == "" {
		return fmt.Errorf("resolution missing remote id")
	}
	return nil
}
