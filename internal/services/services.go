package services

import (
	"context"
)

// Similarity defines the capability the batch exporter needs from a
// music-similarity service: resolve a library track to the service's own
// identity, then query neighbors around that identity.
//
// The wire format belongs to the concrete service; the report pipeline only
// sees these types.
type Similarity interface {
	// Ping checks that the service is reachable at all.
	// A failed ping is systemic: the whole batch should abort.
	Ping(ctx context.Context) error

	// Resolve looks up the service's canonical identity for a track using
	// title/artist as a fuzzy key. Returns shared.ErrTrackNotFound when the
	// service has not indexed the track.
	Resolve(ctx context.Context, title, artist string) (*RemoteTrack, error)

	// SimilarTracks returns up to n neighbors for the resolved identity,
	// nearest first. Fewer than n results is not an error.
	SimilarTracks(ctx context.Context, itemID string, n int) ([]Neighbor, error)

	// MostDistant returns the single track farthest from the resolved
	// identity in the service's similarity space.
	MostDistant(ctx context.Context, itemID string) (*Neighbor, error)

	// Name returns the name of the service (e.g. "AudioMuse-AI")
	Name() string
}

// RemoteTrack is a track as known to the similarity service.
type RemoteTrack struct {
	ItemID string
	Title  string
	Artist string
	Album  string
}

// Neighbor is a suggestion returned by a similarity query, with the
// service's distance metric attached.
type Neighbor struct {
	Track    RemoteTrack
	Distance float64
}
