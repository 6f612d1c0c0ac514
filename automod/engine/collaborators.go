package engine

import (
	"context"

	"github.com/RachMink/cs5342-spring2025-team7/atproto/syntax"
	"github.com/RachMink/cs5342-spring2025-team7/automod/helpers"
)

// Resolves a post URL (web URL or AT-URI) to a post record. Returns an error wrapping ErrNotFound when the post does not exist.
type PostResolver interface {
	FetchPost(ctx context.Context, url string) (*PostRecord, error)
}

// Returns an error wrapping ErrNotFound when the account does not exist.
type ProfileResolver interface {
	FetchProfile(ctx context.Context, did syntax.DID) (*ActorProfile, error)
}

// Downloads raw image bytes from a blob address.
type ImageFetcher interface {
	FetchImage(ctx context.Context, blobURL string) ([]byte, error)
}

// Builds the address an image blob can be downloaded from.
type BlobAddresser interface {
	BlobURL(ctx context.Context, did syntax.DID, img helpers.ImageRef) (string, error)
}

// Checks a set of URLs against a threat intelligence service in a single batched call. Returns true if any URL matched any threat category.
type ThreatChecker interface {
	AnyThreat(ctx context.Context, urls []string) (bool, error)
}
