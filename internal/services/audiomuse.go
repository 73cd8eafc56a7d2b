// AudioMuse-AI implementation of [Similarity]
//
// Endpoint shapes follow the AudioMuse-AI HTTP API: /api/search_tracks,
// /api/similar_tracks, /api/max_distance and /api/track. The API labels the
// artist field "author"; it is mapped back to artist here.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/stepmuse/internal/shared"
)

const defaultTimeout = 10 * time.Second

// audioMuseTrack is the track object shape shared by several endpoints.
type audioMuseTrack struct {
	ItemID   string  `json:"item_id"`
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	Album    string  `json:"album"`
	Distance float64 `json:"distance"`
}

// audioMuseMaxDistance is the /api/max_distance response.
type audioMuseMaxDistance struct {
	FarthestItemID string  `json:"farthest_item_id"`
	MaxDistance    float64 `json:"max_distance"`
}

// AudioMuseService implements [Similarity] against an AudioMuse-AI instance.
type AudioMuseService struct {
	baseURL    string
	httpClient *http.Client
}

// NewAudioMuseService creates a client for the AudioMuse-AI instance at
// server (host:port; a scheme is added when absent). A nil client gets a
// default with a per-request timeout.
func NewAudioMuseService(server string, client *http.Client) *AudioMuseService {
	if server == "" {
		server = "localhost:8000"
	}
	if !strings.Contains(server, "://") {
		server = "http://" + server
	}
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	return &AudioMuseService{
		baseURL:    strings.TrimRight(server, "/"),
		httpClient: client,
	}
}

// Name returns the service name.
func (s *AudioMuseService) Name() string {
	return "AudioMuse-AI"
}

// Ping checks reachability. Any HTTP response counts as reachable; only a
// transport-level failure is an error.
func (s *AudioMuseService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	resp.Body.Close()

	return nil
}

// Resolve searches the service's index for a track matching title/artist.
// Prefers an exact normalized title+artist match, falls back to the first
// search result.
func (s *AudioMuseService) Resolve(ctx context.Context, title, artist string) (*RemoteTrack, error) {
	params := url.Values{}
	params.Set("title", title)
	params.Set("artist", artist)

	var results []audioMuseTrack
	if err := s.getJSON(ctx, "/api/search_tracks", params, &results); err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %s - %s", shared.ErrTrackNotFound, artist, title)
	}

	wantKey := shared.NormalizeTrackKey(title, artist)
	for _, result := range results {
		if shared.NormalizeTrackKey(result.Title, result.Author) == wantKey {
			return remoteTrack(result), nil
		}
	}

	return remoteTrack(results[0]), nil
}

// SimilarTracks fetches the n nearest neighbors of itemID, nearest first.
func (s *AudioMuseService) SimilarTracks(ctx context.Context, itemID string, n int) ([]Neighbor, error) {
	params := url.Values{}
	params.Set("item_id", itemID)
	params.Set("n", strconv.Itoa(n))
	params.Set("eliminate_duplicates", "false")
	params.Set("radius_similarity", "false")

	var results []audioMuseTrack
	if err := s.getJSON(ctx, "/api/similar_tracks", params, &results); err != nil {
		return nil, err
	}

	neighbors := make([]Neighbor, 0, len(results))
	for _, result := range results {
		neighbors = append(neighbors, Neighbor{Track: *remoteTrack(result), Distance: result.Distance})
	}

	return neighbors, nil
}

// MostDistant fetches the farthest item id for itemID, then its metadata.
func (s *AudioMuseService) MostDistant(ctx context.Context, itemID string) (*Neighbor, error) {
	params := url.Values{}
	params.Set("item_id", itemID)

	var maxDist audioMuseMaxDistance
	if err := s.getJSON(ctx, "/api/max_distance", params, &maxDist); err != nil {
		return nil, err
	}
	if maxDist.FarthestItemID == "" {
		return nil, fmt.Errorf("%w: no farthest item for %s", shared.ErrTrackNotFound, itemID)
	}

	trackParams := url.Values{}
	trackParams.Set("item_id", maxDist.FarthestItemID)

	var track audioMuseTrack
	if err := s.getJSON(ctx, "/api/track", trackParams, &track); err != nil {
		return nil, err
	}
	if track.ItemID == "" {
		track.ItemID = maxDist.FarthestItemID
	}

	return &Neighbor{Track: *remoteTrack(track), Distance: maxDist.MaxDistance}, nil
}

// getJSON performs a GET against path with the given query and decodes the
// JSON response into target.
func (s *AudioMuseService) getJSON(ctx context.Context, path string, params url.Values, target any) error {
	fullURL := s.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", shared.ErrTrackNotFound, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s returned status %d", shared.ErrAPIRequest, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: failed to decode %s response: %v", shared.ErrAPIRequest, path, err)
	}

	return nil
}

func remoteTrack(t audioMuseTrack) *RemoteTrack {
	return &RemoteTrack{
		ItemID: t.ItemID,
		Title:  t.Title,
		Artist: t.Author,
		Album:  t.Album,
	}
}
