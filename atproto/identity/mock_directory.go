package identity

import (
	"context"
	"fmt"
	"sync"

	"github.com/RachMink/cs5342-spring2025-team7/atproto/syntax"
)

// A fake identity directory, for use in tests
type MockDirectory struct {
	mu         *sync.RWMutex
	Handles    map[syntax.Handle]syntax.DID
	Identities map[syntax.DID]Identity
	// number of lookups served, for asserting on caching behavior
	Lookups int
}

var _ Directory = (*MockDirectory)(nil)

func NewMockDirectory() MockDirectory {
	return MockDirectory{
		mu:         &sync.RWMutex{},
		Handles:    make(map[syntax.Handle]syntax.DID),
		Identities: make(map[syntax.DID]Identity),
	}
}

func (d *MockDirectory) Insert(ident Identity) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !ident.Handle.IsInvalidHandle() {
		d.Handles[ident.Handle.Normalize()] = ident.DID
	}
	d.Identities[ident.DID] = ident
}

func (d *MockDirectory) LookupHandle(ctx context.Context, h syntax.Handle) (*Identity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Lookups++

	did, ok := d.Handles[h.Normalize()]
	if !ok {
		return nil, ErrHandleNotFound
	}
	ident, ok := d.Identities[did]
	if !ok {
		return nil, ErrDIDNotFound
	}
	return &ident, nil
}

func (d *MockDirectory) LookupDID(ctx context.Context, did syntax.DID) (*Identity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Lookups++

	ident, ok := d.Identities[did]
	if !ok {
		return nil, ErrDIDNotFound
	}
	return &ident, nil
}

func (d *MockDirectory) Lookup(ctx context.Context, a syntax.AtIdentifier) (*Identity, error) {
	if handle, err := a.AsHandle(); err == nil {
		return d.LookupHandle(ctx, handle)
	}
	if did, err := a.AsDID(); err == nil {
		return d.LookupDID(ctx, did)
	}
	return nil, fmt.Errorf("at-identifier neither a Handle nor a DID")
}

func (d *MockDirectory) Purge(ctx context.Context, a syntax.AtIdentifier) error {
	return nil
}
