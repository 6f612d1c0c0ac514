package safebrowsing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/RachMink/cs5342-spring2025-team7/automod/cachestore"
	"github.com/RachMink/cs5342-spring2025-team7/automod/helpers"
	"github.com/RachMink/cs5342-spring2025-team7/util"

	"github.com/PuerkitoBio/purell"
	"github.com/carlmjohnson/versioninfo"
	"golang.org/x/time/rate"
)

var DefaultHost = "https://safebrowsing.googleapis.com"

// Every threat type the Lookup API exposes for general use.
var DefaultThreatTypes = []string{
	"MALWARE",
	"SOCIAL_ENGINEERING",
	"UNWANTED_SOFTWARE",
	"POTENTIALLY_HARMFUL_APPLICATION",
}

type Client struct {
	Client *http.Client
	APIKey string
	Host   string
	// Identifies this client to the service
	ClientID      string
	ClientVersion string
	ThreatTypes   []string
	// Optional rate limit on API calls
	Limiter *rate.Limiter
	// Optional verdict cache, keyed by the URL set
	Cache  cachestore.CacheStore
	Logger *slog.Logger
}

func NewClient(apiKey string) *Client {
	return &Client{
		Client:        util.RobustHTTPClient(),
		APIKey:        apiKey,
		Host:          DefaultHost,
		ClientID:      "trusty",
		ClientVersion: "1.0",
		ThreatTypes:   DefaultThreatTypes,
		Logger:        slog.Default().With("system", "safebrowsing"),
	}
}

// schema: https://developers.google.com/safe-browsing/reference/rest/v4/threatMatches/find
type FindRequest struct {
	Client     ClientInfo `json:"client"`
	ThreatInfo ThreatInfo `json:"threatInfo"`
}

type ClientInfo struct {
	ClientID      string `json:"clientId"`
	ClientVersion string `json:"clientVersion"`
}

type ThreatInfo struct {
	ThreatTypes      []string      `json:"threatTypes"`
	PlatformTypes    []string      `json:"platformTypes"`
	ThreatEntryTypes []string      `json:"threatEntryTypes"`
	ThreatEntries    []ThreatEntry `json:"threatEntries"`
}

type ThreatEntry struct {
	URL string `json:"url"`
}

type ThreatMatch struct {
	ThreatType      string      `json:"threatType"`
	PlatformType    string      `json:"platformType"`
	ThreatEntryType string      `json:"threatEntryType"`
	Threat          ThreatEntry `json:"threat"`
	CacheDuration   string      `json:"cacheDuration,omitempty"`
}

// An empty response object means no matches. A present "matches" field is a threat, even if the list is empty; nil
// and empty are kept distinct so the distinction survives the verdict cache.
type Verdict struct {
	Matches []ThreatMatch `json:"matches"`
}

func (v *Verdict) AnyMatch() bool {
	return v.Matches != nil
}

type errorResp struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (c *Client) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

func (c *Client) newRequest(urls []string) FindRequest {
	entries := make([]ThreatEntry, len(urls))
	for i, u := range urls {
		entries[i] = ThreatEntry{URL: u}
	}
	threatTypes := c.ThreatTypes
	if len(threatTypes) == 0 {
		threatTypes = DefaultThreatTypes
	}
	return FindRequest{
		Client: ClientInfo{
			ClientID:      c.ClientID,
			ClientVersion: c.ClientVersion,
		},
		ThreatInfo: ThreatInfo{
			ThreatTypes:      threatTypes,
			PlatformTypes:    []string{"ANY_PLATFORM"},
			ThreatEntryTypes: []string{"URL"},
			ThreatEntries:    entries,
		},
	}
}

// Cache key for a URL set; independent of order and duplicates.
func verdictCacheKey(urls []string) string {
	sorted := helpers.DedupeStrings(urls)
	slices.Sort(sorted)
	return helpers.HashOfString(strings.Join(sorted, "\n"))
}

// Normalizes the parts of a URL which never change what it points at (scheme and host case, default port, fragment). Unparseable URLs are returned as-is.
func canonicalURL(raw string) string {
	clean, err := purell.NormalizeURLString(raw, purell.FlagsSafe|purell.FlagRemoveFragment)
	if err != nil {
		return raw
	}
	return clean
}

// Looks up all the URLs in a single batched request. URLs which are the same after canonicalization are sent once.
func (c *Client) CheckURLs(ctx context.Context, urls []string) (*Verdict, error) {
	canonical := make([]string, len(urls))
	for i, u := range urls {
		canonical[i] = canonicalURL(u)
	}
	urls = helpers.DedupeStrings(canonical)
	if len(urls) == 0 {
		return &Verdict{}, nil
	}

	var cacheKey string
	if c.Cache != nil {
		cacheKey = verdictCacheKey(urls)
		var cached Verdict
		ok, err := cachestore.GetJSON(ctx, c.Cache, cachestore.NamespaceVerdict, cacheKey, &cached)
		if err != nil {
			c.logger().Warn("verdict cache read failed", "err", err)
		} else if ok {
			return &cached, nil
		}
	}

	verdict, err := c.find(ctx, urls)
	if err != nil {
		return nil, err
	}

	if c.Cache != nil {
		if err := cachestore.SetJSON(ctx, c.Cache, cachestore.NamespaceVerdict, cacheKey, verdict); err != nil {
			c.logger().Warn("verdict cache write failed", "err", err)
		}
	}
	return verdict, nil
}

// Implements the engine's threat checker interface.
func (c *Client) AnyThreat(ctx context.Context, urls []string) (bool, error) {
	v, err := c.CheckURLs(ctx, urls)
	if err != nil {
		return false, err
	}
	return v.AnyMatch(), nil
}

func (c *Client) find(ctx context.Context, urls []string) (*Verdict, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	body, err := json.Marshal(c.newRequest(urls))
	if err != nil {
		return nil, err
	}
	host := c.Host
	if host == "" {
		host = DefaultHost
	}
	u := fmt.Sprintf("%s/v4/threatMatches:find?key=%s", strings.TrimSuffix(host, "/"), url.QueryEscape(c.APIKey))
	req, err := http.NewRequestWithContext(ctx, "POST", u, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "trusty/"+versioninfo.Short())

	start := time.Now()
	defer func() {
		duration := time.Since(start)
		lookupDuration.Observe(duration.Seconds())
	}()

	client := c.Client
	if client == nil {
		client = util.RobustHTTPClient()
	}
	lookupURLCount.Add(float64(len(urls)))
	resp, err := client.Do(req)
	if err != nil {
		lookupCount.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("safe browsing request failed: %w", err)
	}
	defer resp.Body.Close()

	lookupCount.WithLabelValues(fmt.Sprint(resp.StatusCode)).Inc()
	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return nil, &ServiceError{StatusCode: resp.StatusCode, Message: "reading response body", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := http.StatusText(resp.StatusCode)
		var er errorResp
		if json.Unmarshal(respBytes, &er) == nil && er.Error.Message != "" {
			msg = er.Error.Message
		}
		return nil, &ServiceError{StatusCode: resp.StatusCode, Message: msg}
	}

	var verdict Verdict
	if err := json.Unmarshal(respBytes, &verdict); err != nil {
		return nil, &ServiceError{StatusCode: resp.StatusCode, Message: "malformed response", Err: err}
	}
	for _, m := range verdict.Matches {
		threatMatchCount.WithLabelValues(m.ThreatType).Inc()
	}
	if verdict.AnyMatch() {
		c.logger().Info("threat matches found", "urls", len(urls), "matches", len(verdict.Matches))
	}
	return &verdict, nil
}
