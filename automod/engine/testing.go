package engine

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/RachMink/cs5342-spring2025-team7/atproto/syntax"
	"github.com/RachMink/cs5342-spring2025-team7/automod/helpers"
)

// In-memory collaborators, intentionally exported for use in tests of other packages.

type MockPostResolver struct {
	Posts map[string]*PostRecord
	// optional per-call delay, for exercising deadlines
	Delay time.Duration
}

func NewMockPostResolver() *MockPostResolver {
	return &MockPostResolver{Posts: make(map[string]*PostRecord)}
}

func (m *MockPostResolver) Insert(url string, post PostRecord) {
	m.Posts[url] = &post
}

func (m *MockPostResolver) FetchPost(ctx context.Context, url string) (*PostRecord, error) {
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	post, ok := m.Posts[url]
	if !ok {
		return nil, fmt.Errorf("post %s: %w", url, ErrNotFound)
	}
	return post, nil
}

type MockProfileResolver struct {
	mu       sync.Mutex
	Profiles map[syntax.DID]*ActorProfile
	Lookups  int
}

func NewMockProfileResolver() *MockProfileResolver {
	return &MockProfileResolver{Profiles: make(map[syntax.DID]*ActorProfile)}
}

func (m *MockProfileResolver) Insert(p ActorProfile) {
	m.Profiles[p.DID] = &p
}

func (m *MockProfileResolver) FetchProfile(ctx context.Context, did syntax.DID) (*ActorProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Lookups++
	p, ok := m.Profiles[did]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", did, ErrNotFound)
	}
	return p, nil
}

// Records every batch of URLs it is asked about.
type MockThreatChecker struct {
	mu      sync.Mutex
	Unsafe  map[string]bool
	Err     error
	Batches [][]string
}

func NewMockThreatChecker(unsafe ...string) *MockThreatChecker {
	m := &MockThreatChecker{Unsafe: make(map[string]bool)}
	for _, u := range unsafe {
		m.Unsafe[u] = true
	}
	return m
}

func (m *MockThreatChecker) AnyThreat(ctx context.Context, urls []string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Batches = append(m.Batches, slices.Clone(urls))
	if m.Err != nil {
		return false, m.Err
	}
	for _, u := range urls {
		if m.Unsafe[u] {
			return true, nil
		}
	}
	return false, nil
}

// Serves image bytes keyed by blob address. Also acts as a BlobAddresser, with "mock://<did>/<cid>" addresses.
type MockImageStore struct {
	mu      sync.Mutex
	Blobs   map[string][]byte
	Fetches int
}

func NewMockImageStore() *MockImageStore {
	return &MockImageStore{Blobs: make(map[string][]byte)}
}

func (m *MockImageStore) Insert(did syntax.DID, cid string, data []byte) {
	m.Blobs[fmt.Sprintf("mock://%s/%s", did, cid)] = data
}

func (m *MockImageStore) BlobURL(ctx context.Context, did syntax.DID, img helpers.ImageRef) (string, error) {
	return fmt.Sprintf("mock://%s/%s", did, img.CID), nil
}

func (m *MockImageStore) FetchImage(ctx context.Context, blobURL string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Fetches++
	data, ok := m.Blobs[blobURL]
	if !ok {
		return nil, fmt.Errorf("blob %s: %w", blobURL, ErrNotFound)
	}
	return data, nil
}

// Engine wired to empty in-memory collaborators, with a fixed clock. Callers fill in Rules, Reference, and the mocks.
func EngineTestFixture() Engine {
	images := NewMockImageStore()
	now := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	return Engine{
		Logger:   slog.Default(),
		Posts:    NewMockPostResolver(),
		Profiles: NewMockProfileResolver(),
		Images:   images,
		Blobs:    images,
		Threats:  NewMockThreatChecker(),
		Config: Config{
			PostTimeout: 5 * time.Second,
			Now:         func() time.Time { return now },
		},
	}
}
