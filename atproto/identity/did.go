package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/RachMink/cs5342-spring2025-team7/atproto/syntax"
)

// Resolves a DID to its document. Does not verify the declared handle.
func (d *BaseDirectory) ResolveDID(ctx context.Context, did syntax.DID) (*DIDDocument, error) {
	start := time.Now()
	var doc *DIDDocument
	var err error
	switch did.Method() {
	case "web":
		doc, err = d.resolveDIDWeb(ctx, did)
	case "plc":
		doc, err = d.resolveDIDPLC(ctx, did)
	default:
		err = fmt.Errorf("DID method not supported: %s", did.Method())
	}

	status := "success"
	if errors.Is(err, ErrDIDNotFound) {
		status = "notfound"
	} else if err != nil {
		status = "error"
	}
	didResolution.WithLabelValues("base", status).Inc()
	didResolutionDuration.WithLabelValues("base", status).Observe(time.Since(start).Seconds())
	return doc, err
}

func (d *BaseDirectory) resolveDIDWeb(ctx context.Context, did syntax.DID) (*DIDDocument, error) {
	hostname := did.Identifier()
	if _, err := syntax.ParseHandle(hostname); err != nil {
		return nil, fmt.Errorf("did:web identifier not a simple hostname: %s", hostname)
	}
	return d.fetchDIDDocument(ctx, "https://"+hostname+"/.well-known/did.json")
}

func (d *BaseDirectory) resolveDIDPLC(ctx context.Context, did syntax.DID) (*DIDDocument, error) {
	plcURL := d.PLCURL
	if plcURL == "" {
		plcURL = DefaultPLCURL
	}
	if d.PLCLimiter != nil {
		if err := d.PLCLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("failed to wait for PLC limiter: %w", err)
		}
	}
	return d.fetchDIDDocument(ctx, plcURL+"/"+did.String())
}

func (d *BaseDirectory) fetchDIDDocument(ctx context.Context, url string) (*DIDDocument, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("constructing HTTP request for DID resolution: %w", err)
	}
	resp, err := d.HTTPClient.Do(req)
	// look for NXDOMAIN
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
		return nil, fmt.Errorf("%w: DNS NXDOMAIN", ErrDIDNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDIDResolutionFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		return nil, fmt.Errorf("%w: HTTP status %d", ErrDIDNotFound, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP status %d", ErrDIDResolutionFailed, resp.StatusCode)
	}

	var doc DIDDocument
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: JSON DID document parse: %w", ErrDIDResolutionFailed, err)
	}
	return &doc, nil
}
