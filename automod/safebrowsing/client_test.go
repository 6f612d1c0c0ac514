package safebrowsing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/RachMink/cs5342-spring2025-team7/automod/cachestore"
	"github.com/RachMink/cs5342-spring2025-team7/util"

	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	mu       sync.Mutex
	requests []FindRequest
	keys     []string
	unsafe   map[string]string
	status   int
	rawBody  string
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.Method != "POST" || r.URL.Path != "/v4/threatMatches:find" {
		http.NotFound(w, r)
		return
	}
	f.keys = append(f.keys, r.URL.Query().Get("key"))
	var req FindRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	f.requests = append(f.requests, req)
	if f.status != 0 {
		w.WriteHeader(f.status)
		w.Write([]byte(f.rawBody))
		return
	}
	if f.rawBody != "" {
		w.Write([]byte(f.rawBody))
		return
	}
	var v Verdict
	for _, e := range req.ThreatInfo.ThreatEntries {
		if tt, ok := f.unsafe[e.URL]; ok {
			v.Matches = append(v.Matches, ThreatMatch{
				ThreatType:      tt,
				PlatformType:    "ANY_PLATFORM",
				ThreatEntryType: "URL",
				Threat:          e,
				CacheDuration:   "300s",
			})
		}
	}
	json.NewEncoder(w).Encode(v)
}

func testClient(srv *httptest.Server) *Client {
	c := NewClient("test-key")
	c.Host = srv.URL
	c.Client = srv.Client()
	return c
}

func TestCheckURLs(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	fake := &fakeService{unsafe: map[string]string{"http://malware.testing.google.test/testing/malware/": "MALWARE"}}
	srv := httptest.NewServer(fake)
	defer srv.Close()
	c := testClient(srv)

	v, err := c.CheckURLs(ctx, []string{"https://example.com/", "https://example.com/", "http://malware.testing.google.test/testing/malware/"})
	assert.NoError(err)
	assert.True(v.AnyMatch())
	assert.Equal("MALWARE", v.Matches[0].ThreatType)

	// one batched request, with duplicates collapsed
	assert.Equal(1, len(fake.requests))
	req := fake.requests[0]
	assert.Equal("test-key", fake.keys[0])
	assert.Equal("trusty", req.Client.ClientID)
	assert.Equal("1.0", req.Client.ClientVersion)
	assert.Equal(DefaultThreatTypes, req.ThreatInfo.ThreatTypes)
	assert.Equal([]string{"ANY_PLATFORM"}, req.ThreatInfo.PlatformTypes)
	assert.Equal([]string{"URL"}, req.ThreatInfo.ThreatEntryTypes)
	assert.Equal([]ThreatEntry{{URL: "https://example.com/"}, {URL: "http://malware.testing.google.test/testing/malware/"}}, req.ThreatInfo.ThreatEntries)

	bad, err := c.AnyThreat(ctx, []string{"https://example.com/"})
	assert.NoError(err)
	assert.False(bad)
	assert.Equal(2, len(fake.requests))

	// empty set never hits the service
	v, err = c.CheckURLs(ctx, nil)
	assert.NoError(err)
	assert.False(v.AnyMatch())
	assert.Equal(2, len(fake.requests))
}

func TestCheckURLsServiceErrors(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	fake := &fakeService{
		status:  http.StatusForbidden,
		rawBody: `{"error": {"code": 403, "message": "API key not valid", "status": "PERMISSION_DENIED"}}`,
	}
	srv := httptest.NewServer(fake)
	defer srv.Close()
	c := testClient(srv)

	_, err := c.CheckURLs(ctx, []string{"https://example.com/"})
	var se *ServiceError
	assert.True(errors.As(err, &se))
	assert.Equal(403, se.StatusCode)
	assert.Equal("API key not valid", se.Message)

	fake.status = 0
	fake.rawBody = `{"matches": [`
	_, err = c.AnyThreat(ctx, []string{"https://example.com/"})
	assert.True(errors.As(err, &se))
	assert.Equal(200, se.StatusCode)
}

func TestCheckURLsRetriesExhausted(t *testing.T) {
	assert := assert.New(t)

	fake := &fakeService{
		status:  http.StatusServiceUnavailable,
		rawBody: `{"error": {"code": 503, "message": "backend unavailable", "status": "UNAVAILABLE"}}`,
	}
	srv := httptest.NewServer(fake)
	defer srv.Close()
	c := NewClient("test-key")
	c.Host = srv.URL
	c.Client = util.RobustHTTPClientWith(0, 5*time.Second)

	_, err := c.AnyThreat(context.Background(), []string{"https://example.com/"})
	var se *ServiceError
	if assert.True(errors.As(err, &se)) {
		assert.Equal(503, se.StatusCode)
		assert.Equal("backend unavailable", se.Message)
	}
	assert.Equal(1, len(fake.requests))
}

func TestVerdictMatchesPresence(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	fake := &fakeService{rawBody: `{"matches": []}`}
	srv := httptest.NewServer(fake)
	defer srv.Close()
	c := testClient(srv)
	c.Cache = cachestore.NewMemCacheStore(100, time.Hour)

	bad, err := c.AnyThreat(ctx, []string{"https://example.com/"})
	assert.NoError(err)
	assert.True(bad)
	// served from the cache, presence intact
	bad, err = c.AnyThreat(ctx, []string{"https://example.com/"})
	assert.NoError(err)
	assert.True(bad)
	assert.Equal(1, len(fake.requests))

	fake.rawBody = `{}`
	bad, err = c.AnyThreat(ctx, []string{"https://other.example.com/"})
	assert.NoError(err)
	assert.False(bad)

	assert.False((&Verdict{}).AnyMatch())
}

func TestCheckURLsCache(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	fake := &fakeService{unsafe: map[string]string{"https://bad.example.com/": "SOCIAL_ENGINEERING"}}
	srv := httptest.NewServer(fake)
	defer srv.Close()
	c := testClient(srv)
	c.Cache = cachestore.NewMemCacheStore(100, time.Hour)

	bad, err := c.AnyThreat(ctx, []string{"https://ok.example.com/", "https://bad.example.com/"})
	assert.NoError(err)
	assert.True(bad)
	// same set, different order
	bad, err = c.AnyThreat(ctx, []string{"https://bad.example.com/", "https://ok.example.com/"})
	assert.NoError(err)
	assert.True(bad)
	assert.Equal(1, len(fake.requests))

	assert.Equal(verdictCacheKey([]string{"a", "b", "a"}), verdictCacheKey([]string{"b", "a"}))
	assert.NotEqual(verdictCacheKey([]string{"a"}), verdictCacheKey([]string{"b"}))
}

func TestCanonicalURL(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("https://example.com/a?b=c", canonicalURL("HTTPS://Example.COM:443/a?b=c#top"))
	assert.Equal("http://example.com/", canonicalURL("http://example.com:80/"))
	assert.Equal("https://example.com/Path", canonicalURL("https://example.com/Path"))
	assert.Equal("%%not a url", canonicalURL("%%not a url"))

	fake := &fakeService{}
	srv := httptest.NewServer(fake)
	defer srv.Close()
	c := testClient(srv)

	_, err := c.CheckURLs(context.Background(), []string{"https://example.com/#one", "HTTPS://EXAMPLE.com/"})
	assert.NoError(err)
	if assert.Equal(1, len(fake.requests)) {
		assert.Equal([]ThreatEntry{{URL: "https://example.com/"}}, fake.requests[0].ThreatInfo.ThreatEntries)
	}
}

func TestLiveLookup(t *testing.T) {
	t.Skip("live test, requires SAFE_BROWSING_API_KEY")
	c := NewClient("")
	_, err := c.AnyThreat(context.Background(), []string{"http://malware.testing.google.test/testing/malware/"})
	assert.NoError(t, err)
}
