package xrpcutil

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	comatproto "github.com/RachMink/cs5342-spring2025-team7/api/atproto"
	"github.com/RachMink/cs5342-spring2025-team7/xrpc"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Options for an authenticated XRPC session client
type ClientOptions struct {
	Host       string
	Identifier string
	Password   string
	// When set, requests are proxied by the PDS to this service of the account's own DID (eg, "atproto_labeler")
	ProxyService string
	// How often RunRefresh refreshes the session tokens
	RefreshInterval time.Duration
}

func DefaultClientOptions() *ClientOptions {
	return &ClientOptions{
		Host:            "https://bsky.social",
		RefreshInterval: time.Hour,
	}
}

// Creates an XRPC client with a fresh password session for the account.
func NewClient(ctx context.Context, opts *ClientOptions) (*xrpc.Client, error) {
	if opts == nil {
		opts = DefaultClientOptions()
	}
	if opts.Identifier == "" || opts.Password == "" {
		return nil, fmt.Errorf("session requires an account identifier and password")
	}

	// instrumented transport, for OTEL tracing of HTTP requests
	instrumentedTransport := otelhttp.NewTransport(&http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	})

	client := &xrpc.Client{
		Client: &http.Client{
			Transport: instrumentedTransport,
			Timeout:   20 * time.Second,
		},
		Host: opts.Host,
	}

	ses, err := comatproto.ServerCreateSession(ctx, client, &comatproto.ServerCreateSession_Input{
		Identifier: opts.Identifier,
		Password:   opts.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	client.Auth = &xrpc.AuthInfo{
		Handle:     ses.Handle,
		Did:        ses.Did,
		RefreshJwt: ses.RefreshJwt,
		AccessJwt:  ses.AccessJwt,
	}
	if opts.ProxyService != "" {
		client.Headers = map[string]string{
			"atproto-proxy": ses.Did + "#" + opts.ProxyService,
		}
	}
	return client, nil
}

// Periodically refreshes the client's session tokens, until the context is cancelled.
//
// Expects to be the only running code which touches the auth fields (aka, there is no locking).
func RunRefresh(ctx context.Context, client *xrpc.Client, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := Refresh(ctx, client); err != nil {
				// attempt again on the next tick
				logger.Error("failed to refresh XRPC session", "err", err, "host", client.Host)
			} else {
				logger.Info("refreshed XRPC session", "did", client.Auth.Did)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Refreshes the session tokens once. Proxy headers are not sent with the refresh request.
func Refresh(ctx context.Context, client *xrpc.Client) error {
	// temporary client, because refreshJwt goes in the position of accessJwt, which would break any concurrent requests
	tmpClient := xrpc.Client{
		Client: client.Client,
		Host:   client.Host,
		Auth: &xrpc.AuthInfo{
			Did:        client.Auth.Did,
			Handle:     client.Auth.Handle,
			AccessJwt:  client.Auth.RefreshJwt,
			RefreshJwt: client.Auth.RefreshJwt,
		},
	}
	refresh, err := comatproto.ServerRefreshSession(ctx, &tmpClient)
	if err != nil {
		return err
	}
	client.Auth.RefreshJwt = refresh.RefreshJwt
	client.Auth.AccessJwt = refresh.AccessJwt
	return nil
}
