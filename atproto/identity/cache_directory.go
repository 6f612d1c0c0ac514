package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RachMink/cs5342-spring2025-team7/atproto/syntax"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// In-process caching wrapper around another Directory. Failed lookups are
// cached too, for a shorter ErrTTL, so that a batch full of posts from one
// deleted account doesn't hammer the PLC directory.
type CacheDirectory struct {
	Inner         Directory
	ErrTTL        time.Duration
	handleCache   *expirable.LRU[syntax.Handle, handleEntry]
	identityCache *expirable.LRU[syntax.DID, identityEntry]
}

type handleEntry struct {
	Updated time.Time
	DID     syntax.DID
	Err     error
}

type identityEntry struct {
	Updated  time.Time
	Identity *Identity
	Err      error
}

var _ Directory = (*CacheDirectory)(nil)

// Capacity of zero means unlimited size. Similarly, ttl of zero means unlimited duration.
func NewCacheDirectory(inner Directory, capacity int, hitTTL, errTTL time.Duration) CacheDirectory {
	return CacheDirectory{
		ErrTTL:        errTTL,
		Inner:         inner,
		handleCache:   expirable.NewLRU[syntax.Handle, handleEntry](capacity, nil, hitTTL),
		identityCache: expirable.NewLRU[syntax.DID, identityEntry](capacity, nil, hitTTL),
	}
}

func (d *CacheDirectory) isStale(updated time.Time, err error) bool {
	return err != nil && time.Since(updated) > d.ErrTTL
}

func (d *CacheDirectory) LookupDID(ctx context.Context, did syntax.DID) (*Identity, error) {
	entry, ok := d.identityCache.Get(did)
	if ok && !d.isStale(entry.Updated, entry.Err) {
		identityCacheLookups.WithLabelValues("did", "hit").Inc()
		return entry.Identity, entry.Err
	}
	identityCacheLookups.WithLabelValues("did", "miss").Inc()

	ident, err := d.Inner.LookupDID(ctx, did)
	// context cancellation says nothing about the identity
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}
	d.identityCache.Add(did, identityEntry{Updated: time.Now(), Identity: ident, Err: err})
	if err == nil && !ident.Handle.IsInvalidHandle() {
		d.handleCache.Add(ident.Handle, handleEntry{Updated: time.Now(), DID: did})
	}
	return ident, err
}

func (d *CacheDirectory) LookupHandle(ctx context.Context, h syntax.Handle) (*Identity, error) {
	h = h.Normalize()
	if h.IsInvalidHandle() {
		return nil, fmt.Errorf("can not resolve handle: %w", ErrInvalidHandle)
	}
	entry, ok := d.handleCache.Get(h)
	if ok && !d.isStale(entry.Updated, entry.Err) {
		identityCacheLookups.WithLabelValues("handle", "hit").Inc()
		if entry.Err != nil {
			return nil, entry.Err
		}
		return d.LookupDID(ctx, entry.DID)
	}
	identityCacheLookups.WithLabelValues("handle", "miss").Inc()

	ident, err := d.Inner.LookupHandle(ctx, h)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}
	if err != nil {
		d.handleCache.Add(h, handleEntry{Updated: time.Now(), Err: err})
		return nil, err
	}
	d.handleCache.Add(h, handleEntry{Updated: time.Now(), DID: ident.DID})
	d.identityCache.Add(ident.DID, identityEntry{Updated: time.Now(), Identity: ident})
	return ident, nil
}

func (d *CacheDirectory) Lookup(ctx context.Context, a syntax.AtIdentifier) (*Identity, error) {
	if handle, err := a.AsHandle(); err == nil {
		return d.LookupHandle(ctx, handle)
	}
	if did, err := a.AsDID(); err == nil {
		return d.LookupDID(ctx, did)
	}
	return nil, fmt.Errorf("at-identifier neither a Handle nor a DID")
}

func (d *CacheDirectory) Purge(ctx context.Context, a syntax.AtIdentifier) error {
	if handle, err := a.AsHandle(); err == nil {
		d.handleCache.Remove(handle.Normalize())
		return nil
	}
	if did, err := a.AsDID(); err == nil {
		d.identityCache.Remove(did)
		return nil
	}
	return fmt.Errorf("at-identifier neither a Handle nor a DID")
}
