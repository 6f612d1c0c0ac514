package cachestore

import (
	"context"
	"encoding/json"
	"fmt"
)

// Namespaces used by this module.
const (
	NamespaceProfile = "profile"
	NamespaceVerdict = "threat-verdict"
)

type CacheStore interface {
	// Returns false (with no error) on a cache miss.
	Get(ctx context.Context, name, key string) (string, bool, error)
	Set(ctx context.Context, name, key string, val string) error
	Purge(ctx context.Context, name, key string) error
}

// Fetches a cached value and decodes it into out. Returns false on a miss.
func GetJSON(ctx context.Context, s CacheStore, name, key string, out any) (bool, error) {
	raw, ok, err := s.Get(ctx, name, key)
	if err != nil {
		cacheLookups.WithLabelValues(name, "error").Inc()
		return false, err
	}
	if !ok {
		cacheLookups.WithLabelValues(name, "miss").Inc()
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		cacheLookups.WithLabelValues(name, "error").Inc()
		return false, fmt.Errorf("decoding cached %s value: %w", name, err)
	}
	cacheLookups.WithLabelValues(name, "hit").Inc()
	return true, nil
}

func SetJSON(ctx context.Context, s CacheStore, name, key string, val any) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return s.Set(ctx, name, key, string(b))
}
