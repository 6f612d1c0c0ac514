package identity

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/RachMink/cs5342-spring2025-team7/atproto/syntax"
	"golang.org/x/time/rate"
)

// Interface for atproto identity lookup, by DID or handle.
//
// Looking up a handle which fails to resolve, or which doesn't match the DID
// document's alsoKnownAs, returns an error. Looking up a DID whose handle does
// not resolve back succeeds, with the special `handle.invalid` Handle.
type Directory interface {
	LookupHandle(ctx context.Context, handle syntax.Handle) (*Identity, error)
	LookupDID(ctx context.Context, did syntax.DID) (*Identity, error)
	Lookup(ctx context.Context, atid syntax.AtIdentifier) (*Identity, error)
	// Flushes any cache of the indicated identifier
	Purge(ctx context.Context, atid syntax.AtIdentifier) error
}

// Handle resolution completed, but the handle does not exist.
var ErrHandleNotFound = errors.New("handle not found")

// Handle resolution failed. A wrapped error may provide more context.
var ErrHandleResolutionFailed = errors.New("handle resolution failed")

// Handle resolved to a DID whose document declares a different handle.
var ErrHandleMismatch = errors.New("handle/DID mismatch")

// DID document did not include any handle ("alsoKnownAs").
var ErrHandleNotDeclared = errors.New("DID document did not declare a handle")

// DID resolution completed, but the DID does not exist.
var ErrDIDNotFound = errors.New("DID not found")

// DID resolution failed. A wrapped error may provide more context.
var ErrDIDResolutionFailed = errors.New("DID resolution failed")

// A valid handle is required but the identifier was `handle.invalid`.
var ErrInvalidHandle = errors.New("invalid handle")

var DefaultPLCURL = "https://plc.directory"

// Returns a cached directory with reasonable timeouts. If limiter is not nil,
// it is applied to requests against the PLC directory.
func DefaultDirectory(plcURL string, limiter *rate.Limiter) Directory {
	if plcURL == "" {
		plcURL = DefaultPLCURL
	}
	base := BaseDirectory{
		PLCURL:     plcURL,
		PLCLimiter: limiter,
		HTTPClient: http.Client{
			Timeout: time.Second * 10,
			Transport: &http.Transport{
				IdleConnTimeout: time.Millisecond * 1000,
				MaxIdleConns:    100,
			},
		},
		Resolver: net.Resolver{
			Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
				d := net.Dialer{Timeout: time.Second * 3}
				return d.DialContext(ctx, network, address)
			},
		},
		// the main Bluesky-hosted PDS only supports HTTP resolution
		SkipDNSDomainSuffixes: []string{".bsky.social"},
	}
	cached := NewCacheDirectory(&base, 100_000, time.Hour*24, time.Minute*2)
	return &cached
}
