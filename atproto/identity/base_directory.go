package identity

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/RachMink/cs5342-spring2025-team7/atproto/syntax"
	"golang.org/x/time/rate"
)

// Resolves identities directly against DNS, HTTPS and the PLC directory on
// every call. The zero value is usable.
type BaseDirectory struct {
	// URL method, hostname, and optional port; no path or trailing slash
	PLCURL string
	// If not nil, rate-limits requests to PLCURL
	PLCLimiter *rate.Limiter
	// Used for did:web, did:plc, and HTTPS well-known handle resolution
	HTTPClient http.Client
	// Used for DNS TXT handle resolution
	Resolver net.Resolver
	// Handle suffixes for which DNS resolution is skipped
	SkipDNSDomainSuffixes []string
}

var _ Directory = (*BaseDirectory)(nil)

func (d *BaseDirectory) LookupHandle(ctx context.Context, h syntax.Handle) (*Identity, error) {
	h = h.Normalize()
	did, err := d.ResolveHandle(ctx, h)
	if err != nil {
		return nil, err
	}
	doc, err := d.ResolveDID(ctx, did)
	if err != nil {
		return nil, err
	}
	ident := ParseIdentity(doc)
	declared, err := ident.DeclaredHandle()
	if err != nil {
		return nil, err
	}
	if declared != h {
		return nil, fmt.Errorf("%w: %s != %s", ErrHandleMismatch, declared, h)
	}
	ident.Handle = declared
	return &ident, nil
}

func (d *BaseDirectory) LookupDID(ctx context.Context, did syntax.DID) (*Identity, error) {
	doc, err := d.ResolveDID(ctx, did)
	if err != nil {
		return nil, err
	}
	ident := ParseIdentity(doc)
	declared, err := ident.DeclaredHandle()
	if errors.Is(err, ErrHandleNotDeclared) {
		return &ident, nil
	} else if err != nil {
		return nil, err
	}
	// a handle that fails to resolve back leaves the identity usable, with handle.invalid
	resolvedDID, err := d.ResolveHandle(ctx, declared)
	if err == nil && resolvedDID == did {
		ident.Handle = declared
	}
	return &ident, nil
}

func (d *BaseDirectory) Lookup(ctx context.Context, a syntax.AtIdentifier) (*Identity, error) {
	if handle, err := a.AsHandle(); err == nil {
		return d.LookupHandle(ctx, handle)
	}
	if did, err := a.AsDID(); err == nil {
		return d.LookupDID(ctx, did)
	}
	return nil, fmt.Errorf("at-identifier neither a Handle nor a DID")
}

func (d *BaseDirectory) Purge(ctx context.Context, a syntax.AtIdentifier) error {
	return nil
}
