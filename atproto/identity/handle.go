package identity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/RachMink/cs5342-spring2025-team7/atproto/syntax"
)

func parseTXTResp(res []string) (syntax.DID, error) {
	for _, s := range res {
		if strings.HasPrefix(s, "did=") {
			return syntax.ParseDID(strings.TrimPrefix(s, "did="))
		}
	}
	return "", ErrHandleNotFound
}

// Does not cross-verify, only does the DNS TXT handle resolution step.
func (d *BaseDirectory) ResolveHandleDNS(ctx context.Context, handle syntax.Handle) (syntax.DID, error) {
	res, err := d.Resolver.LookupTXT(ctx, "_atproto."+handle.String())
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
		return "", ErrHandleNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrHandleResolutionFailed, err)
	}
	return parseTXTResp(res)
}

// Does not cross-verify, only does the HTTPS well-known handle resolution step.
func (d *BaseDirectory) ResolveHandleWellKnown(ctx context.Context, handle syntax.Handle) (syntax.DID, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("https://%s/.well-known/atproto-did", handle), nil)
	if err != nil {
		return "", fmt.Errorf("constructing HTTP request for handle resolution: %w", err)
	}

	resp, err := d.HTTPClient.Do(req)
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
		return "", fmt.Errorf("%w: DNS NXDOMAIN for HTTP well-known", ErrHandleNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("%w: HTTP well-known request error: %w", ErrHandleResolutionFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: HTTP 404 for well-known", ErrHandleNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: HTTP well-known status %d", ErrHandleResolutionFailed, resp.StatusCode)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if err != nil {
		return "", fmt.Errorf("%w: HTTP well-known body read: %w", ErrHandleResolutionFailed, err)
	}
	did, err := syntax.ParseDID(strings.TrimSpace(string(b)))
	if err != nil {
		return "", fmt.Errorf("%w: invalid DID in HTTP well-known: %w", ErrHandleResolutionFailed, err)
	}
	return did, nil
}

// Resolves a handle to a DID, trying DNS first (unless the handle has a
// skipped suffix) and falling back to HTTPS well-known.
func (d *BaseDirectory) ResolveHandle(ctx context.Context, handle syntax.Handle) (syntax.DID, error) {
	if handle.IsInvalidHandle() {
		return "", ErrInvalidHandle
	}
	handle = handle.Normalize()
	start := time.Now()

	var did syntax.DID
	var dnsErr error
	tryDNS := true
	for _, suffix := range d.SkipDNSDomainSuffixes {
		if strings.HasSuffix(handle.String(), suffix) {
			tryDNS = false
			break
		}
	}
	if tryDNS {
		did, dnsErr = d.ResolveHandleDNS(ctx, handle)
	}

	var err error
	if did == "" {
		did, err = d.ResolveHandleWellKnown(ctx, handle)
		// prefer the DNS failure when it was more than a clean "not found"
		if err != nil && dnsErr != nil && !errors.Is(dnsErr, ErrHandleNotFound) {
			err = dnsErr
		}
	}

	status := "success"
	if errors.Is(err, ErrHandleNotFound) {
		status = "notfound"
	} else if err != nil {
		status = "error"
	}
	handleResolution.WithLabelValues("base", status).Inc()
	handleResolutionDuration.WithLabelValues("base", status).Observe(time.Since(start).Seconds())
	return did, err
}
