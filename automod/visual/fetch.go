package visual

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/RachMink/cs5342-spring2025-team7/atproto/syntax"

	"github.com/carlmjohnson/versioninfo"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

var (
	DefaultFetchTimeout = 5 * time.Second
	// larger than the largest image blob accepted by the network
	DefaultMaxBlobSize int64 = 4 * 1024 * 1024
	// image CDN address template; "{did}" and "{cid}" are substituted
	DefaultCDNTemplate = "https://cdn.bsky.app/img/feed_fullsize/plain/{did}/{cid}@jpeg"
)

var ErrBlobTooLarge = errors.New("blob exceeds size limit")

// Downloads image blobs over plain HTTP. Download failures are returned to the caller, which treats them as "no image label".
type BlobFetcher struct {
	Client  *http.Client
	Limiter *rate.Limiter
	// Optional headers (eg, rate-limit bypass) sent with every request
	Headers map[string]string
	MaxSize int64
}

// The timeout applies to the whole request including the body. A nil limiter means no rate limiting.
func NewBlobFetcher(timeout time.Duration, limiter *rate.Limiter) *BlobFetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &BlobFetcher{
		Client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		Limiter: limiter,
		MaxSize: DefaultMaxBlobSize,
	}
}

func (f *BlobFetcher) FetchImage(ctx context.Context, blobURL string) ([]byte, error) {
	if f.Limiter != nil {
		if err := f.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	defer func() {
		duration := time.Since(start)
		blobDownloadDuration.Observe(duration.Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, "GET", blobURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "trusty/"+versioninfo.Short())
	for k, v := range f.Headers {
		req.Header.Set(k, v)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		blobDownloadCount.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("fetching blob: %w", err)
	}
	defer resp.Body.Close()

	blobDownloadCount.WithLabelValues(fmt.Sprint(resp.StatusCode)).Inc()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch blob. url=%s statusCode=%d", blobURL, resp.StatusCode)
	}

	maxSize := f.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxBlobSize
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading blob body: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, ErrBlobTooLarge
	}
	return data, nil
}

// Address of a blob on the account's PDS.
func BlobURL(pds string, did syntax.DID, cid string) string {
	return fmt.Sprintf("%s/xrpc/com.atproto.sync.getBlob?did=%s&cid=%s", strings.TrimSuffix(pds, "/"), url.QueryEscape(did.String()), url.QueryEscape(cid))
}

// Address of a blob on an image CDN, from a template containing "{did}" and "{cid}".
func CDNURL(template string, did syntax.DID, cid string) string {
	return strings.NewReplacer("{did}", did.String(), "{cid}", cid).Replace(template)
}
