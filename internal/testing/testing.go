// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/stepmuse/internal/services"
	"github.com/desertthunder/stepmuse/internal/shared"
)

// MockSimilarity is a configurable test double for [services.Similarity].
//
// Library is keyed by normalized title|artist; Neighbors and Distant are
// keyed by the resolved item id. Unknown keys behave like service misses.
type MockSimilarity struct {
	Library      map[string]services.RemoteTrack
	Neighbors    map[string][]services.Neighbor
	Distant      map[string]services.Neighbor
	PingErr      error
	ResolveCalls int

	mu sync.Mutex
}

func (m *MockSimilarity) Ping(ctx context.Context) error {
	return m.PingErr
}

func (m *MockSimilarity) Resolve(ctx context.Context, title, artist string) (*services.RemoteTrack, error) {
	m.mu.Lock()
	m.ResolveCalls++
	m.mu.Unlock()
	track, ok := m.Library[shared.NormalizeTrackKey(title, artist)]
	if !ok {
		return nil, shared.ErrTrackNotFound
	}
	return &track, nil
}

func (m *MockSimilarity) SimilarTracks(ctx context.Context, itemID string, n int) ([]services.Neighbor, error) {
	neighbors, ok := m.Neighbors[itemID]
	if !ok {
		return nil, shared.ErrTrackNotFound
	}
	if len(neighbors) > n {
		neighbors = neighbors[:n]
	}
	return neighbors, nil
}

func (m *MockSimilarity) MostDistant(ctx context.Context, itemID string) (*services.Neighbor, error) {
	distant, ok := m.Distant[itemID]
	if !ok {
		return nil, shared.ErrTrackNotFound
	}
	return &distant, nil
}

func (m *MockSimilarity) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
